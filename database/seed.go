package database

import (
	"gorm.io/gorm"

	"github.com/rpupo63/platefeed-backend/models"
)

var seedTags = []models.Tag{
	{Name: "Breakfast", Color: models.TagColorOrange, Slug: "breakfast"},
	{Name: "Lunch", Color: models.TagColorGreen, Slug: "lunch"},
	{Name: "Dinner", Color: models.TagColorPurple, Slug: "dinner"},
}

var seedIngredients = []models.Ingredient{
	{Name: "Flour", MeasurementUnit: "g"},
	{Name: "Sugar", MeasurementUnit: "g"},
	{Name: "Salt", MeasurementUnit: "g"},
	{Name: "Butter", MeasurementUnit: "g"},
	{Name: "Milk", MeasurementUnit: "ml"},
	{Name: "Eggs", MeasurementUnit: "pcs"},
	{Name: "Olive oil", MeasurementUnit: "ml"},
	{Name: "Onion", MeasurementUnit: "pcs"},
	{Name: "Garlic", MeasurementUnit: "cloves"},
	{Name: "Tomato", MeasurementUnit: "pcs"},
}

// Seed loads the shipped tag palette and ingredient catalog into empty
// tables. Non-empty tables are left alone so operator edits survive restarts.
func Seed(db *gorm.DB) error {
	var tagCount int64
	if err := db.Model(&models.Tag{}).Count(&tagCount).Error; err != nil {
		return err
	}
	if tagCount == 0 {
		tags := make([]models.Tag, len(seedTags))
		copy(tags, seedTags)
		if err := db.Create(&tags).Error; err != nil {
			return err
		}
	}

	var ingredientCount int64
	if err := db.Model(&models.Ingredient{}).Count(&ingredientCount).Error; err != nil {
		return err
	}
	if ingredientCount == 0 {
		ingredients := make([]models.Ingredient, len(seedIngredients))
		copy(ingredients, seedIngredients)
		if err := db.Create(&ingredients).Error; err != nil {
			return err
		}
	}

	return nil
}
