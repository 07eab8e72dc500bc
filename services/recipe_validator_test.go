package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpupo63/platefeed-backend/database"
	"github.com/rpupo63/platefeed-backend/errs"
)

func TestRecipeValidator_Validate(t *testing.T) {
	db := openTestDB(t)
	validator := NewRecipeValidator(database.NewTagRepo(db), database.NewIngredientRepo(db))

	flour := seedIngredient(t, db, "Flour", "kg")
	breakfast := seedTag(t, db, "breakfast")

	valid := RecipePayload{
		Name:        "Pancakes",
		Text:        "mix and fry",
		Image:       "media/pancakes.png",
		CookingTime: 20,
		Ingredients: []IngredientAmount{{IngredientID: flour.ID, Amount: 2}},
		TagIDs:      []uuid.UUID{breakfast.ID},
	}

	t.Run("accepts a valid payload", func(t *testing.T) {
		assert.NoError(t, validator.Validate(valid))
	})

	t.Run("rejects empty ingredient list", func(t *testing.T) {
		p := valid
		p.Ingredients = nil

		err := validator.Validate(p)
		require.Error(t, err)
		assert.True(t, errs.IsValidation(err))
		assertFieldFailed(t, err, "ingredients")
	})

	t.Run("rejects unknown ingredient", func(t *testing.T) {
		p := valid
		p.Ingredients = []IngredientAmount{{IngredientID: uuid.New(), Amount: 2}}

		err := validator.Validate(p)
		require.Error(t, err)
		assertFieldFailed(t, err, "ingredients")
	})

	t.Run("rejects zero amount", func(t *testing.T) {
		p := valid
		p.Ingredients = []IngredientAmount{{IngredientID: flour.ID, Amount: 0}}

		err := validator.Validate(p)
		require.Error(t, err)
		assertFieldFailed(t, err, "ingredients")
	})

	t.Run("rejects duplicate ingredient ids", func(t *testing.T) {
		p := valid
		p.Ingredients = []IngredientAmount{
			{IngredientID: flour.ID, Amount: 2},
			{IngredientID: flour.ID, Amount: 3},
		}

		err := validator.Validate(p)
		require.Error(t, err)
		assertFieldFailed(t, err, "ingredients")
	})

	t.Run("rejects empty tag list", func(t *testing.T) {
		p := valid
		p.TagIDs = nil

		err := validator.Validate(p)
		require.Error(t, err)
		assertFieldFailed(t, err, "tags")
	})

	t.Run("rejects unknown tag", func(t *testing.T) {
		p := valid
		p.TagIDs = []uuid.UUID{uuid.New()}

		err := validator.Validate(p)
		require.Error(t, err)
		assertFieldFailed(t, err, "tags")
	})

	t.Run("rejects duplicate tag ids", func(t *testing.T) {
		p := valid
		p.TagIDs = []uuid.UUID{breakfast.ID, breakfast.ID}

		err := validator.Validate(p)
		require.Error(t, err)
		assertFieldFailed(t, err, "tags")
	})

	t.Run("rejects zero cooking time", func(t *testing.T) {
		p := valid
		p.CookingTime = 0

		err := validator.Validate(p)
		require.Error(t, err)
		assertFieldFailed(t, err, "cooking_time")
	})

	t.Run("collects every failure at once", func(t *testing.T) {
		p := RecipePayload{Name: "broken", Text: "broken"}

		err := validator.Validate(p)
		require.Error(t, err)

		verrs, ok := err.(*errs.ValidationErrors)
		require.True(t, ok)
		assertFieldFailed(t, err, "ingredients")
		assertFieldFailed(t, err, "tags")
		assertFieldFailed(t, err, "cooking_time")
		assert.Len(t, verrs.Errors, 3)
	})
}

func assertFieldFailed(t *testing.T, err error, field string) {
	t.Helper()

	verrs, ok := err.(*errs.ValidationErrors)
	require.True(t, ok, "expected *errs.ValidationErrors, got %T", err)
	for _, fe := range verrs.Errors {
		if fe.Field == field {
			return
		}
	}
	t.Errorf("expected a failure on field %q, got %v", field, verrs.Errors)
}
