package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpupo63/platefeed-backend/models"
)

func TestRecipeRepoFindAll(t *testing.T) {
	db := openTestDB(t)
	repo := NewRecipeRepo(db)

	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	flour := createIngredient(t, db, "Flour", "kg")
	dinner := createTag(t, db, "dinner")
	lunch := createTag(t, db, "lunch")

	line := func(amount int) []models.RecipeIngredient {
		return []models.RecipeIngredient{{IngredientID: flour.ID, Amount: amount}}
	}
	bread := createRecipe(t, db, alice, "Bread", []*models.Tag{&dinner}, line(1))
	pizza := createRecipe(t, db, alice, "Pizza", []*models.Tag{&dinner, &lunch}, line(2))
	createRecipe(t, db, bob, "Salad", []*models.Tag{&lunch}, line(3))

	names := func(recipes []*models.Recipe) []string {
		out := make([]string, 0, len(recipes))
		for _, r := range recipes {
			out = append(out, r.Name)
		}
		return out
	}

	t.Run("no filter returns everything ordered by name", func(t *testing.T) {
		recipes, total, err := repo.FindAll(RecipeFilter{})
		require.NoError(t, err)
		assert.EqualValues(t, 3, total)
		assert.Equal(t, []string{"Bread", "Pizza", "Salad"}, names(recipes))
	})

	t.Run("loads author, tags and ingredient lines", func(t *testing.T) {
		recipes, _, err := repo.FindAll(RecipeFilter{})
		require.NoError(t, err)
		first := recipes[0]
		assert.Equal(t, "alice", first.Author.Username)
		require.Len(t, first.Tags, 1)
		require.Len(t, first.Ingredients, 1)
		assert.Equal(t, "Flour", first.Ingredients[0].Ingredient.Name)
	})

	t.Run("filters by author", func(t *testing.T) {
		recipes, total, err := repo.FindAll(RecipeFilter{AuthorID: &bob.ID})
		require.NoError(t, err)
		assert.EqualValues(t, 1, total)
		assert.Equal(t, []string{"Salad"}, names(recipes))
	})

	t.Run("filters by tag slug, several slugs union", func(t *testing.T) {
		recipes, _, err := repo.FindAll(RecipeFilter{TagSlugs: []string{"dinner"}})
		require.NoError(t, err)
		assert.Equal(t, []string{"Bread", "Pizza"}, names(recipes))

		recipes, _, err = repo.FindAll(RecipeFilter{TagSlugs: []string{"dinner", "lunch"}})
		require.NoError(t, err)
		assert.Equal(t, []string{"Bread", "Pizza", "Salad"}, names(recipes))
	})

	t.Run("filters by favorites and cart of a user", func(t *testing.T) {
		require.NoError(t, NewFavoriteRepo(db).Add(bob.ID, bread.ID))
		require.NoError(t, NewShoppingCartRepo(db).Add(bob.ID, pizza.ID))

		recipes, _, err := repo.FindAll(RecipeFilter{FavoritedBy: &bob.ID})
		require.NoError(t, err)
		assert.Equal(t, []string{"Bread"}, names(recipes))

		recipes, _, err = repo.FindAll(RecipeFilter{InCartOf: &bob.ID})
		require.NoError(t, err)
		assert.Equal(t, []string{"Pizza"}, names(recipes))
	})

	t.Run("paginates while reporting the full total", func(t *testing.T) {
		recipes, total, err := repo.FindAll(RecipeFilter{Limit: 2})
		require.NoError(t, err)
		assert.EqualValues(t, 3, total)
		assert.Equal(t, []string{"Bread", "Pizza"}, names(recipes))

		recipes, total, err = repo.FindAll(RecipeFilter{Limit: 2, Offset: 2})
		require.NoError(t, err)
		assert.EqualValues(t, 3, total)
		assert.Equal(t, []string{"Salad"}, names(recipes))
	})
}

func TestRecipeRepoDeleteCascades(t *testing.T) {
	db := openTestDB(t)
	repo := NewRecipeRepo(db)

	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	flour := createIngredient(t, db, "Flour", "kg")
	dinner := createTag(t, db, "dinner")

	recipe := createRecipe(t, db, alice, "Bread", []*models.Tag{&dinner},
		[]models.RecipeIngredient{{IngredientID: flour.ID, Amount: 1}})
	require.NoError(t, NewFavoriteRepo(db).Add(bob.ID, recipe.ID))
	require.NoError(t, NewShoppingCartRepo(db).Add(bob.ID, recipe.ID))

	require.NoError(t, repo.Delete(recipe.ID))

	exists, err := repo.Exists(recipe.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	for table, model := range map[string]interface{}{
		"recipe_ingredients":  &models.RecipeIngredient{},
		"favorites":           &models.Favorite{},
		"shopping_cart_items": &models.ShoppingCartItem{},
	} {
		var count int64
		require.NoError(t, db.Model(model).Where("recipe_id = ?", recipe.ID).Count(&count).Error)
		assert.Zero(t, count, table)
	}

	var tagLinks int64
	require.NoError(t, db.Table("recipe_tags").Where("recipe_id = ?", recipe.ID).Count(&tagLinks).Error)
	assert.Zero(t, tagLinks)

	// the tag itself survives
	stillThere, err := NewTagRepo(db).Exists(dinner.ID)
	require.NoError(t, err)
	assert.True(t, stillThere)
}
