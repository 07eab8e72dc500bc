package services

import (
	"github.com/google/uuid"

	"github.com/rpupo63/platefeed-backend/database"
	"github.com/rpupo63/platefeed-backend/errs"
)

// minValue is the lower bound shared by ingredient amounts and cooking time.
const minValue = 1

// IngredientAmount is one submitted ingredient line: a catalog reference and
// how much of it the recipe uses.
type IngredientAmount struct {
	IngredientID uuid.UUID `json:"id"`
	Amount       int       `json:"amount"`
}

// RecipePayload is a candidate recipe as submitted by a caller, after the
// transport layer has decoded it. Image holds the stored image path; the API
// boundary decodes and stores the raw upload before the payload reaches here.
type RecipePayload struct {
	Name        string             `json:"name"`
	Text        string             `json:"text"`
	Image       string             `json:"image"`
	CookingTime int                `json:"cooking_time"`
	Ingredients []IngredientAmount `json:"ingredients"`
	TagIDs      []uuid.UUID        `json:"tags"`
}

// RecipeValidator applies the recipe acceptance rules against the catalog.
// It performs read-only existence lookups and has no side effects.
type RecipeValidator struct {
	tagRepo        *database.TagRepo
	ingredientRepo *database.IngredientRepo
}

func NewRecipeValidator(tagRepo *database.TagRepo, ingredientRepo *database.IngredientRepo) RecipeValidator {
	return RecipeValidator{tagRepo: tagRepo, ingredientRepo: ingredientRepo}
}

// Validate checks every rule and collects every failure, so a caller sees
// all problems with a payload at once. A nil return means the payload is
// accepted as-is.
func (v RecipeValidator) Validate(p RecipePayload) error {
	verrs := errs.NewValidationErrors()

	if len(p.Ingredients) == 0 {
		verrs.Add("ingredients", "at least one ingredient is required")
	}
	seenIngredients := make(map[uuid.UUID]bool, len(p.Ingredients))
	for _, line := range p.Ingredients {
		exists, err := v.ingredientRepo.Exists(line.IngredientID)
		if err != nil {
			return errs.NewDatabaseError("look up", "ingredient", err)
		}
		if !exists {
			verrs.Add("ingredients", "ingredient "+line.IngredientID.String()+" does not exist")
		}
		if line.Amount < minValue {
			verrs.Add("ingredients", "ingredient amount must be at least 1")
		}
		if seenIngredients[line.IngredientID] {
			verrs.Add("ingredients", "ingredient "+line.IngredientID.String()+" is listed twice")
		}
		seenIngredients[line.IngredientID] = true
	}

	if len(p.TagIDs) == 0 {
		verrs.Add("tags", "at least one tag is required")
	}
	seenTags := make(map[uuid.UUID]bool, len(p.TagIDs))
	for _, tagID := range p.TagIDs {
		exists, err := v.tagRepo.Exists(tagID)
		if err != nil {
			return errs.NewDatabaseError("look up", "tag", err)
		}
		if !exists {
			verrs.Add("tags", "tag "+tagID.String()+" does not exist")
		}
		if seenTags[tagID] {
			verrs.Add("tags", "tag "+tagID.String()+" is listed twice")
		}
		seenTags[tagID] = true
	}

	if p.CookingTime < minValue {
		verrs.Add("cooking_time", "cooking time must be at least 1 minute")
	}

	if verrs.Empty() {
		return nil
	}
	return verrs
}
