package database

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rpupo63/platefeed-backend/models"
)

type ShoppingCartRepo struct {
	db *gorm.DB
}

func NewShoppingCartRepo(db *gorm.DB) *ShoppingCartRepo {
	return &ShoppingCartRepo{db}
}

// Exists reports whether the recipe is already in the user's cart
func (r *ShoppingCartRepo) Exists(userID, recipeID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.Model(&models.ShoppingCartItem{}).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Count(&count).Error
	return count > 0, err
}

// Add inserts a new cart row
func (r *ShoppingCartRepo) Add(userID, recipeID uuid.UUID) error {
	return r.db.Create(&models.ShoppingCartItem{UserID: userID, RecipeID: recipeID}).Error
}

// Delete removes the cart row and reports how many rows matched
func (r *ShoppingCartRepo) Delete(userID, recipeID uuid.UUID) (int64, error) {
	res := r.db.Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&models.ShoppingCartItem{})
	return res.RowsAffected, res.Error
}

// RecipeIDsFor returns which of the given recipe ids are in the user's cart
func (r *ShoppingCartRepo) RecipeIDsFor(userID uuid.UUID, recipeIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	inCart := make(map[uuid.UUID]bool, len(recipeIDs))
	if len(recipeIDs) == 0 {
		return inCart, nil
	}
	var ids []uuid.UUID
	err := r.db.Model(&models.ShoppingCartItem{}).
		Where("user_id = ? AND recipe_id IN ?", userID, recipeIDs).
		Pluck("recipe_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		inCart[id] = true
	}
	return inCart, nil
}

// AggregatedLine is one grouped row of the shopping-list query: a distinct
// (ingredient name, unit) pair with the summed amount across the cart.
type AggregatedLine struct {
	Name            string `gorm:"column:name"`
	MeasurementUnit string `gorm:"column:measurement_unit"`
	TotalAmount     int    `gorm:"column:total_amount"`
}

// AggregateLines joins the user's cart to recipe ingredient lines, groups by
// (ingredient name, unit) and sums amounts, ordered by name then unit.
func (r *ShoppingCartRepo) AggregateLines(userID uuid.UUID) ([]AggregatedLine, error) {
	var lines []AggregatedLine
	err := r.db.Model(&models.RecipeIngredient{}).
		Select("ingredients.name AS name, ingredients.measurement_unit AS measurement_unit, SUM(recipe_ingredients.amount) AS total_amount").
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Joins("JOIN shopping_cart_items ON shopping_cart_items.recipe_id = recipe_ingredients.recipe_id").
		Where("shopping_cart_items.user_id = ?", userID).
		Group("ingredients.name, ingredients.measurement_unit").
		Order("ingredients.name, ingredients.measurement_unit").
		Scan(&lines).Error
	return lines, err
}
