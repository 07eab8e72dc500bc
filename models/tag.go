package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Fixed tag color palette.
const (
	TagColorOrange = "#E26C2D"
	TagColorGreen  = "#49B64E"
	TagColorPurple = "#8775D2"
)

// TagColors lists every color a tag may carry.
var TagColors = []string{TagColorOrange, TagColorGreen, TagColorPurple}

// Tag is a labeled category (e.g. breakfast) attached to recipes for filtering.
type Tag struct {
	ID    uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	Name  string    `json:"name" db:"name" gorm:"type:text;not null"`
	Color string    `json:"color" db:"color" gorm:"type:text;not null"`
	Slug  string    `json:"slug" db:"slug" gorm:"type:text;not null;uniqueIndex"`
}

func (t *Tag) BeforeCreate(*gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// IsTagColor reports whether color belongs to the fixed palette.
func IsTagColor(color string) bool {
	for _, c := range TagColors {
		if c == color {
			return true
		}
	}
	return false
}
