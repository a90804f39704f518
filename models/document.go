package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Document is the metadata of a file attached to a case. The bytes live in the
// configured storage provider under StorageKey.
type Document struct {
	ID         string    `gorm:"type:uuid;primarykey" json:"id"`
	UploadedAt time.Time `gorm:"autoCreateTime" json:"uploaded_at"`

	CaseID string `gorm:"type:uuid;not null;index" json:"case_id"`
	Case   *Case  `gorm:"foreignKey:CaseID;constraint:OnDelete:CASCADE" json:"-"`

	Title       string  `gorm:"size:200;not null" json:"title"`
	FileName    string  `gorm:"size:255;not null" json:"file_name"`
	FileURL     string  `gorm:"size:500;not null" json:"file_url"`
	FileType    string  `gorm:"size:50" json:"file_type"`
	FileSize    int64   `json:"file_size"`
	Description *string `gorm:"type:text" json:"description"`

	StorageKey string `gorm:"size:500;not null" json:"-"`
}

// BeforeCreate hook to generate UUID
func (d *Document) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for Document model
func (Document) TableName() string {
	return "documents"
}
