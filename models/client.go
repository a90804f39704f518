package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Client is an entry in an advocate's address book
type Client struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	UserID string `gorm:"type:uuid;not null;index" json:"user_id"`

	Name    string  `gorm:"size:200;not null" json:"name"`
	Email   *string `gorm:"size:120" json:"email"`
	Phone   *string `gorm:"size:20" json:"phone"`
	Address *string `gorm:"type:text" json:"address"`
	Notes   *string `gorm:"type:text" json:"notes"`
}

// BeforeCreate hook to generate UUID
func (cl *Client) BeforeCreate(tx *gorm.DB) error {
	if cl.ID == "" {
		cl.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for Client model
func (Client) TableName() string {
	return "clients"
}
