package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User roles. Admin capability is role-based; there is no separate staff flag.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents a registered account that can publish recipes,
// follow other users and keep favorites and a shopping cart.
type User struct {
	ID           uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	Username     string    `json:"username" db:"username" gorm:"type:text;not null;uniqueIndex:idx_users_username"`
	Email        string    `json:"email" db:"email" gorm:"type:text;not null;uniqueIndex:idx_users_email"`
	FirstName    string    `json:"first_name" db:"first_name" gorm:"type:text;not null"`
	LastName     string    `json:"last_name" db:"last_name" gorm:"type:text;not null"`
	PasswordHash string    `json:"-" db:"password_hash" gorm:"type:text;not null"`
	Role         string    `json:"role" db:"role" gorm:"type:text;not null;default:user"`
}

func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.Role == "" {
		u.Role = RoleUser
	}
	return nil
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
