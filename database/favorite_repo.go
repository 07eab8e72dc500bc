package database

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rpupo63/platefeed-backend/models"
)

type FavoriteRepo struct {
	db *gorm.DB
}

func NewFavoriteRepo(db *gorm.DB) *FavoriteRepo {
	return &FavoriteRepo{db}
}

// Exists reports whether the user already favorited the recipe
func (r *FavoriteRepo) Exists(userID, recipeID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.Model(&models.Favorite{}).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Count(&count).Error
	return count > 0, err
}

// Add inserts a new favorite row
func (r *FavoriteRepo) Add(userID, recipeID uuid.UUID) error {
	return r.db.Create(&models.Favorite{UserID: userID, RecipeID: recipeID}).Error
}

// Delete removes the favorite row and reports how many rows matched
func (r *FavoriteRepo) Delete(userID, recipeID uuid.UUID) (int64, error) {
	res := r.db.Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&models.Favorite{})
	return res.RowsAffected, res.Error
}

// RecipeIDsFor returns which of the given recipe ids the user has favorited.
// Used to annotate recipe listings without one query per row.
func (r *FavoriteRepo) RecipeIDsFor(userID uuid.UUID, recipeIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	favorited := make(map[uuid.UUID]bool, len(recipeIDs))
	if len(recipeIDs) == 0 {
		return favorited, nil
	}
	var ids []uuid.UUID
	err := r.db.Model(&models.Favorite{}).
		Where("user_id = ? AND recipe_id IN ?", userID, recipeIDs).
		Pluck("recipe_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		favorited[id] = true
	}
	return favorited, nil
}
