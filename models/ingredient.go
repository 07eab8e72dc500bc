package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Ingredient is a catalog entry; the same name may appear with different
// measurement units, but the (name, unit) pair is unique.
type Ingredient struct {
	ID              uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	Name            string    `json:"name" db:"name" gorm:"type:text;not null;uniqueIndex:idx_ingredients_name_unit"`
	MeasurementUnit string    `json:"measurement_unit" db:"measurement_unit" gorm:"type:text;not null;uniqueIndex:idx_ingredients_name_unit"`
}

func (i *Ingredient) BeforeCreate(*gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
