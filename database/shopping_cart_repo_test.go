package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpupo63/platefeed-backend/models"
)

func TestShoppingCartRepoAggregateLines(t *testing.T) {
	db := openTestDB(t)
	repo := NewShoppingCartRepo(db)

	alice := createUser(t, db, "alice")
	flourKg := createIngredient(t, db, "Flour", "kg")
	flourG := createIngredient(t, db, "Flour", "g")
	salt := createIngredient(t, db, "Salt", "g")
	dinner := createTag(t, db, "dinner")

	bread := createRecipe(t, db, alice, "Bread", []*models.Tag{&dinner},
		[]models.RecipeIngredient{
			{IngredientID: flourKg.ID, Amount: 2},
			{IngredientID: salt.ID, Amount: 5},
		})
	pancakes := createRecipe(t, db, alice, "Pancakes", []*models.Tag{&dinner},
		[]models.RecipeIngredient{
			{IngredientID: flourKg.ID, Amount: 1},
			{IngredientID: flourG.ID, Amount: 300},
		})
	// not in the cart, must not contribute
	createRecipe(t, db, alice, "Pizza", []*models.Tag{&dinner},
		[]models.RecipeIngredient{{IngredientID: salt.ID, Amount: 99}})

	require.NoError(t, repo.Add(alice.ID, bread.ID))
	require.NoError(t, repo.Add(alice.ID, pancakes.ID))

	lines, err := repo.AggregateLines(alice.ID)
	require.NoError(t, err)

	// same name with different units stays separate
	assert.Equal(t, []AggregatedLine{
		{Name: "Flour", MeasurementUnit: "g", TotalAmount: 300},
		{Name: "Flour", MeasurementUnit: "kg", TotalAmount: 3},
		{Name: "Salt", MeasurementUnit: "g", TotalAmount: 5},
	}, lines)
}

func TestShoppingCartRepoToggle(t *testing.T) {
	db := openTestDB(t)
	repo := NewShoppingCartRepo(db)

	alice := createUser(t, db, "alice")
	flour := createIngredient(t, db, "Flour", "kg")
	dinner := createTag(t, db, "dinner")
	recipe := createRecipe(t, db, alice, "Bread", []*models.Tag{&dinner},
		[]models.RecipeIngredient{{IngredientID: flour.ID, Amount: 1}})

	exists, err := repo.Exists(alice.ID, recipe.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, repo.Add(alice.ID, recipe.ID))

	exists, err = repo.Exists(alice.ID, recipe.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	// the uniqueness constraint rejects a second identical row
	require.Error(t, repo.Add(alice.ID, recipe.ID))

	affected, err := repo.Delete(alice.ID, recipe.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, affected)

	affected, err = repo.Delete(alice.ID, recipe.ID)
	require.NoError(t, err)
	assert.Zero(t, affected)
}
