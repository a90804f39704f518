package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is an advocate account. Every other resource is scoped to a user.
type User struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Email        string  `gorm:"size:120;uniqueIndex;not null" json:"email"`
	Password     string  `gorm:"not null" json:"-"`
	FullName     string  `gorm:"size:100;not null" json:"full_name"`
	BarCouncilID *string `gorm:"size:50;uniqueIndex" json:"bar_council_id"`
	Phone        *string `gorm:"size:20" json:"phone"`
	Address      *string `gorm:"type:text" json:"address"`
	IsActive     bool    `gorm:"not null;default:true" json:"is_active"`
}

// BeforeCreate hook to generate UUID
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for User model
func (User) TableName() string {
	return "users"
}
