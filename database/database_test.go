package database

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/rpupo63/platefeed-backend/models"
)

// openTestDB opens an isolated in-memory database with the full schema.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	// a single connection keeps every query on the same in-memory database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, Migrate(db))
	return db
}

func createUser(t *testing.T, db *gorm.DB, username string) models.User {
	t.Helper()
	user := models.User{
		Username:     username,
		Email:        username + "@example.com",
		FirstName:    "Test",
		LastName:     "User",
		PasswordHash: "unused",
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func createTag(t *testing.T, db *gorm.DB, slug string) models.Tag {
	t.Helper()
	tag := models.Tag{Name: slug, Color: models.TagColorOrange, Slug: slug}
	require.NoError(t, db.Create(&tag).Error)
	return tag
}

func createIngredient(t *testing.T, db *gorm.DB, name, unit string) models.Ingredient {
	t.Helper()
	ingredient := models.Ingredient{Name: name, MeasurementUnit: unit}
	require.NoError(t, db.Create(&ingredient).Error)
	return ingredient
}

// createRecipe persists a recipe with its tags and ingredient lines through
// the repository.
func createRecipe(t *testing.T, db *gorm.DB, author models.User, name string, tags []*models.Tag, lines []models.RecipeIngredient) *models.Recipe {
	t.Helper()

	recipe := &models.Recipe{
		Name:        name,
		AuthorID:    author.ID,
		Text:        "some instructions",
		Image:       "media/" + name + ".png",
		CookingTime: 15,
	}
	require.NoError(t, NewRecipeRepo(db).Create(recipe, tags, lines))
	return recipe
}

func TestMigrateIsRepeatable(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, Migrate(db))
}

func TestSeedFillsEmptyTablesOnce(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, Seed(db))

	tags, err := NewTagRepo(db).FindAll()
	require.NoError(t, err)
	require.NotEmpty(t, tags)
	for _, tag := range tags {
		require.True(t, models.IsTagColor(tag.Color))
	}

	ingredients, err := NewIngredientRepo(db).FindAll("")
	require.NoError(t, err)
	require.NotEmpty(t, ingredients)

	// a second run must not duplicate the fixtures
	require.NoError(t, Seed(db))
	again, err := NewTagRepo(db).FindAll()
	require.NoError(t, err)
	require.Len(t, again, len(tags))

	var count int64
	require.NoError(t, db.Model(&models.Ingredient{}).Count(&count).Error)
	require.EqualValues(t, len(ingredients), count)
}

func TestUserRepoUniqueness(t *testing.T) {
	db := openTestDB(t)
	repo := NewUserRepo(db)

	createUser(t, db, "alice")

	dup := models.User{
		Username:     "alice",
		Email:        "other@example.com",
		PasswordHash: "unused",
	}
	require.Error(t, repo.Add(&dup))
}

func TestFollowRepoAuthorIDsFor(t *testing.T) {
	db := openTestDB(t)
	repo := NewFollowRepo(db)

	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	carol := createUser(t, db, "carol")

	require.NoError(t, repo.Add(&models.Follow{UserID: alice.ID, AuthorID: bob.ID}))

	followed, err := repo.AuthorIDsFor(alice.ID, []uuid.UUID{bob.ID, carol.ID})
	require.NoError(t, err)
	require.True(t, followed[bob.ID])
	require.False(t, followed[carol.ID])
}
