package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Recipe is a published dish owned by its author. Tags are shared references;
// ingredient lines are owned by the recipe and die with it.
type Recipe struct {
	ID          uuid.UUID          `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	Name        string             `json:"name" db:"name" gorm:"type:text;not null"`
	AuthorID    uuid.UUID          `json:"author_id" db:"author_id" gorm:"type:uuid;not null;index"`
	Text        string             `json:"text" db:"text" gorm:"type:text;not null"`
	Image       string             `json:"image" db:"image" gorm:"type:text;not null"`
	CookingTime int                `json:"cooking_time" db:"cooking_time" gorm:"type:integer;not null"`
	CreatedAt   time.Time          `json:"created_at" db:"created_at" gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP"`
	Author      User               `json:"author,omitempty" gorm:"foreignKey:AuthorID;references:ID;constraint:OnDelete:CASCADE"`
	Tags        []Tag              `json:"tags,omitempty" gorm:"many2many:recipe_tags;constraint:OnDelete:CASCADE"`
	Ingredients []RecipeIngredient `json:"ingredients,omitempty" gorm:"foreignKey:RecipeID;references:ID;constraint:OnDelete:CASCADE"`
}

func (r *Recipe) BeforeCreate(*gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// RecipeIngredient is one ingredient line of a recipe. A recipe may reference
// a given ingredient at most once.
type RecipeIngredient struct {
	ID           uuid.UUID  `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	RecipeID     uuid.UUID  `json:"recipe_id" db:"recipe_id" gorm:"type:uuid;not null;index;uniqueIndex:idx_recipe_ingredient"`
	IngredientID uuid.UUID  `json:"ingredient_id" db:"ingredient_id" gorm:"type:uuid;not null;uniqueIndex:idx_recipe_ingredient"`
	Amount       int        `json:"amount" db:"amount" gorm:"type:integer;not null"`
	Ingredient   Ingredient `json:"ingredient,omitempty" gorm:"foreignKey:IngredientID;references:ID;constraint:OnDelete:CASCADE"`
}

func (ri *RecipeIngredient) BeforeCreate(*gorm.DB) error {
	if ri.ID == uuid.Nil {
		ri.ID = uuid.New()
	}
	return nil
}
