package database

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rpupo63/platefeed-backend/models"
)

type RecipeRepo struct {
	db *gorm.DB
}

func NewRecipeRepo(db *gorm.DB) *RecipeRepo {
	return &RecipeRepo{db}
}

// GetDB returns the underlying database connection for debugging purposes
func (r *RecipeRepo) GetDB() *gorm.DB {
	return r.db
}

// RecipeFilter narrows FindAll. Nil / empty fields are ignored.
type RecipeFilter struct {
	AuthorID    *uuid.UUID
	TagSlugs    []string
	FavoritedBy *uuid.UUID
	InCartOf    *uuid.UUID
	Limit       int
	Offset      int
}

// FindAll returns the filtered page of recipes, fully loaded, plus the total
// number of matches before pagination.
func (r *RecipeRepo) FindAll(f RecipeFilter) ([]*models.Recipe, int64, error) {
	q := r.db.Model(&models.Recipe{})
	if f.AuthorID != nil {
		q = q.Where("author_id = ?", *f.AuthorID)
	}
	if len(f.TagSlugs) > 0 {
		q = q.Where(
			"id IN (SELECT recipe_tags.recipe_id FROM recipe_tags JOIN tags ON tags.id = recipe_tags.tag_id WHERE tags.slug IN ?)",
			f.TagSlugs,
		)
	}
	if f.FavoritedBy != nil {
		q = q.Where(
			"EXISTS (SELECT 1 FROM favorites WHERE favorites.recipe_id = recipes.id AND favorites.user_id = ?)",
			*f.FavoritedBy,
		)
	}
	if f.InCartOf != nil {
		q = q.Where(
			"EXISTS (SELECT 1 FROM shopping_cart_items WHERE shopping_cart_items.recipe_id = recipes.id AND shopping_cart_items.user_id = ?)",
			*f.InCartOf,
		)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q = q.Order("name").Offset(f.Offset)
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}

	var recipes []*models.Recipe
	err := q.
		Preload("Author").
		Preload("Tags").
		Preload("Ingredients.Ingredient").
		Find(&recipes).Error
	return recipes, total, err
}

// FindByID returns a recipe by its ID with author, tags and ingredient lines loaded
func (r *RecipeRepo) FindByID(id uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	err := r.db.
		Preload("Author").
		Preload("Tags").
		Preload("Ingredients.Ingredient").
		First(&recipe, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &recipe, nil
}

// FindByAuthor returns the author's recipes ordered by name, optionally capped
func (r *RecipeRepo) FindByAuthor(authorID uuid.UUID, limit int) ([]*models.Recipe, error) {
	var recipes []*models.Recipe
	q := r.db.Where("author_id = ?", authorID).Order("name")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&recipes).Error
	return recipes, err
}

// CountByAuthor returns how many recipes the author has published
func (r *RecipeRepo) CountByAuthor(authorID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&models.Recipe{}).Where("author_id = ?", authorID).Count(&count).Error
	return count, err
}

// Exists reports whether a recipe with the given id is stored
func (r *RecipeRepo) Exists(id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.Model(&models.Recipe{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// Create inserts the recipe row, its tag associations and its ingredient
// lines in one transaction. Any failure rolls back every partial write.
func (r *RecipeRepo) Create(recipe *models.Recipe, tags []*models.Tag, lines []models.RecipeIngredient) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Author", "Tags", "Ingredients").Create(recipe).Error; err != nil {
			return err
		}
		if err := tx.Model(recipe).Association("Tags").Append(tags); err != nil {
			return err
		}
		if len(lines) == 0 {
			return nil
		}
		for i := range lines {
			lines[i].RecipeID = recipe.ID
		}
		return tx.Create(&lines).Error
	})
}

// Replace rewrites the recipe's scalar columns, tag associations and
// ingredient lines in one transaction. Lines are cleared and rebuilt rather
// than diffed, so the stored state always matches the submitted payload.
func (r *RecipeRepo) Replace(recipe *models.Recipe, tags []*models.Tag, lines []models.RecipeIngredient) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"name":         recipe.Name,
			"text":         recipe.Text,
			"image":        recipe.Image,
			"cooking_time": recipe.CookingTime,
		}
		if err := tx.Model(&models.Recipe{}).Where("id = ?", recipe.ID).Updates(updates).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return err
		}
		if err := tx.Model(recipe).Association("Tags").Replace(tags); err != nil {
			return err
		}
		if len(lines) == 0 {
			return nil
		}
		for i := range lines {
			lines[i].RecipeID = recipe.ID
		}
		return tx.Create(&lines).Error
	})
}

// Delete removes a recipe; ingredient lines, tag links and bookmarks cascade
func (r *RecipeRepo) Delete(id uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("recipe_id = ?", id).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&models.Favorite{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&models.ShoppingCartItem{}).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM recipe_tags WHERE recipe_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Recipe{}, "id = ?", id).Error
	})
}
