package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Follow is a subscription from one user to another's recipe feed.
// A user cannot follow the same author twice, nor themselves.
type Follow struct {
	ID       uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	UserID   uuid.UUID `json:"user_id" db:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_follows_user_author"`
	AuthorID uuid.UUID `json:"author_id" db:"author_id" gorm:"type:uuid;not null;uniqueIndex:idx_follows_user_author"`

	User   User `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE"`
	Author User `json:"-" gorm:"foreignKey:AuthorID;references:ID;constraint:OnDelete:CASCADE"`
}

func (f *Follow) BeforeCreate(*gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}
