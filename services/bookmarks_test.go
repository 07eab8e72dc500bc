package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpupo63/platefeed-backend/database"
	"github.com/rpupo63/platefeed-backend/errs"
	"github.com/rpupo63/platefeed-backend/models"
)

func TestBookmarks_Favorites(t *testing.T) {
	db := openTestDB(t)
	bookmarks := NewBookmarks(
		database.NewRecipeRepo(db),
		database.NewFavoriteRepo(db),
		database.NewShoppingCartRepo(db),
	)

	user := seedUser(t, db, "alice")
	flour := seedIngredient(t, db, "Flour", "kg")
	dinner := seedTag(t, db, "dinner")
	recipe := seedRecipe(t, db, user, "Bread",
		[]IngredientAmount{{IngredientID: flour.ID, Amount: 2}},
		[]models.Tag{dinner})

	t.Run("add returns a summary of the recipe", func(t *testing.T) {
		summary, err := bookmarks.AddFavorite(user.ID, recipe.ID)
		require.NoError(t, err)
		assert.Equal(t, recipe.ID, summary.ID)
		assert.Equal(t, "Bread", summary.Name)
		assert.Equal(t, recipe.CookingTime, summary.CookingTime)
	})

	t.Run("adding twice conflicts", func(t *testing.T) {
		_, err := bookmarks.AddFavorite(user.ID, recipe.ID)
		require.Error(t, err)
		assert.True(t, errs.IsAlreadyExists(err))
	})

	t.Run("remove deletes the bookmark", func(t *testing.T) {
		require.NoError(t, bookmarks.RemoveFavorite(user.ID, recipe.ID))
	})

	t.Run("removing an absent bookmark fails", func(t *testing.T) {
		err := bookmarks.RemoveFavorite(user.ID, recipe.ID)
		require.Error(t, err)
		assert.True(t, errs.IsNotPresent(err))
	})

	t.Run("unknown recipe is not found", func(t *testing.T) {
		_, err := bookmarks.AddFavorite(user.ID, uuid.New())
		require.Error(t, err)
		assert.True(t, errs.IsNotFound(err))

		err = bookmarks.RemoveFavorite(user.ID, uuid.New())
		require.Error(t, err)
		assert.True(t, errs.IsNotFound(err))
	})
}

func TestBookmarks_Cart(t *testing.T) {
	db := openTestDB(t)
	bookmarks := NewBookmarks(
		database.NewRecipeRepo(db),
		database.NewFavoriteRepo(db),
		database.NewShoppingCartRepo(db),
	)

	user := seedUser(t, db, "alice")
	flour := seedIngredient(t, db, "Flour", "kg")
	dinner := seedTag(t, db, "dinner")
	recipe := seedRecipe(t, db, user, "Bread",
		[]IngredientAmount{{IngredientID: flour.ID, Amount: 2}},
		[]models.Tag{dinner})

	summary, err := bookmarks.AddToCart(user.ID, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, recipe.ID, summary.ID)

	_, err = bookmarks.AddToCart(user.ID, recipe.ID)
	assert.True(t, errs.IsAlreadyExists(err))

	// the favorite table is untouched by cart operations
	favorited, err := database.NewFavoriteRepo(db).Exists(user.ID, recipe.ID)
	require.NoError(t, err)
	assert.False(t, favorited)

	require.NoError(t, bookmarks.RemoveFromCart(user.ID, recipe.ID))
	assert.True(t, errs.IsNotPresent(bookmarks.RemoveFromCart(user.ID, recipe.ID)))
}
