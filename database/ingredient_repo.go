package database

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rpupo63/platefeed-backend/models"
)

type IngredientRepo struct {
	db *gorm.DB
}

func NewIngredientRepo(db *gorm.DB) *IngredientRepo {
	return &IngredientRepo{db}
}

// FindAll returns ingredients ordered by name, optionally narrowed to those
// whose name contains the given fragment (case-insensitive).
func (r *IngredientRepo) FindAll(nameFilter string) ([]*models.Ingredient, error) {
	var ingredients []*models.Ingredient
	q := r.db.Order("name")
	if nameFilter != "" {
		q = q.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(nameFilter)+"%")
	}
	err := q.Find(&ingredients).Error
	return ingredients, err
}

// FindByID returns an ingredient by its ID
func (r *IngredientRepo) FindByID(id uuid.UUID) (*models.Ingredient, error) {
	var ingredient models.Ingredient
	err := r.db.First(&ingredient, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &ingredient, nil
}

// Exists reports whether an ingredient with the given id is stored
func (r *IngredientRepo) Exists(id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.Model(&models.Ingredient{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// Add inserts a new ingredient into the database
func (r *IngredientRepo) Add(ingredient *models.Ingredient) error {
	return r.db.Create(ingredient).Error
}

// Count returns the total number of ingredients
func (r *IngredientRepo) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Ingredient{}).Count(&count).Error
	return count, err
}
