package services

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/rpupo63/platefeed-backend/database"
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

	require.NoError(t, database.Migrate(db))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, username string) models.User {
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

func seedTag(t *testing.T, db *gorm.DB, slug string) models.Tag {
	t.Helper()
	tag := models.Tag{Name: slug, Color: models.TagColorGreen, Slug: slug}
	require.NoError(t, db.Create(&tag).Error)
	return tag
}

func seedIngredient(t *testing.T, db *gorm.DB, name, unit string) models.Ingredient {
	t.Helper()
	ingredient := models.Ingredient{Name: name, MeasurementUnit: unit}
	require.NoError(t, db.Create(&ingredient).Error)
	return ingredient
}

// seedRecipe persists a recipe through the writer, the same path production
// code takes.
func seedRecipe(t *testing.T, db *gorm.DB, author models.User, name string, lines []IngredientAmount, tags []models.Tag) *models.Recipe {
	t.Helper()

	writer := NewRecipeWriter(database.NewRecipeRepo(db), database.NewTagRepo(db))
	payload := RecipePayload{
		Name:        name,
		Text:        "some instructions",
		Image:       "media/" + name + ".png",
		CookingTime: 10,
		Ingredients: lines,
	}
	for _, tag := range tags {
		payload.TagIDs = append(payload.TagIDs, tag.ID)
	}

	recipe, err := writer.Create(author, payload)
	require.NoError(t, err)
	return recipe
}
