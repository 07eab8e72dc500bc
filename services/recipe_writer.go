package services

import (
	"github.com/rpupo63/platefeed-backend/database"
	"github.com/rpupo63/platefeed-backend/errs"
	"github.com/rpupo63/platefeed-backend/models"
)

// RecipeWriter persists validated recipe payloads. Each call is one atomic
// transaction: the recipe row, its tag associations and its ingredient lines
// either all land or none do.
type RecipeWriter struct {
	recipeRepo *database.RecipeRepo
	tagRepo    *database.TagRepo
}

func NewRecipeWriter(recipeRepo *database.RecipeRepo, tagRepo *database.TagRepo) RecipeWriter {
	return RecipeWriter{recipeRepo: recipeRepo, tagRepo: tagRepo}
}

// Create inserts a new recipe owned by author from an already-validated
// payload and returns it fully loaded.
func (w RecipeWriter) Create(author models.User, p RecipePayload) (*models.Recipe, error) {
	tags, err := w.tagRepo.FindByIDs(p.TagIDs)
	if err != nil {
		return nil, errs.NewDatabaseError("look up", "tags", err)
	}

	recipe := &models.Recipe{
		Name:        p.Name,
		AuthorID:    author.ID,
		Text:        p.Text,
		Image:       p.Image,
		CookingTime: p.CookingTime,
	}
	lines := buildLines(p.Ingredients)

	if err := w.recipeRepo.Create(recipe, tags, lines); err != nil {
		return nil, errs.NewDatabaseError("create", "recipe", err)
	}

	created, err := w.recipeRepo.FindByID(recipe.ID)
	if err != nil {
		return nil, errs.NewDatabaseError("find created", "recipe", err)
	}
	return created, nil
}

// Update rewrites an existing recipe from an already-validated payload. Only
// the recipe's author may call it. Ingredient lines are cleared and rebuilt
// so the stored state exactly matches the payload; an empty Image keeps the
// current picture.
func (w RecipeWriter) Update(caller models.User, recipe *models.Recipe, p RecipePayload) (*models.Recipe, error) {
	if caller.ID != recipe.AuthorID {
		return nil, errs.NewForbiddenError("only the author may modify this recipe")
	}

	tags, err := w.tagRepo.FindByIDs(p.TagIDs)
	if err != nil {
		return nil, errs.NewDatabaseError("look up", "tags", err)
	}

	recipe.Name = p.Name
	recipe.Text = p.Text
	recipe.CookingTime = p.CookingTime
	if p.Image != "" {
		recipe.Image = p.Image
	}
	lines := buildLines(p.Ingredients)

	if err := w.recipeRepo.Replace(recipe, tags, lines); err != nil {
		return nil, errs.NewDatabaseError("update", "recipe", err)
	}

	updated, err := w.recipeRepo.FindByID(recipe.ID)
	if err != nil {
		return nil, errs.NewDatabaseError("find updated", "recipe", err)
	}
	return updated, nil
}

func buildLines(entries []IngredientAmount) []models.RecipeIngredient {
	lines := make([]models.RecipeIngredient, 0, len(entries))
	for _, entry := range entries {
		lines = append(lines, models.RecipeIngredient{
			IngredientID: entry.IngredientID,
			Amount:       entry.Amount,
		})
	}
	return lines
}
