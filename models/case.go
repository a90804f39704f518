package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Conventional case statuses. Status is stored free-form.
const (
	CaseStatusActive  = "Active"
	CaseStatusPending = "Pending"
	CaseStatusClosed  = "Closed"
	CaseStatusWon     = "Won"
	CaseStatusLost    = "Lost"
)

// Case represents a legal case handled by an advocate.
// Client details are kept inline on the case; ClientID is only a cross-reference.
type Case struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	UserID   string  `gorm:"type:uuid;not null;index:idx_case_user_status" json:"user_id"`
	ClientID *string `gorm:"type:uuid;index" json:"client_id"`

	// Case identification
	CaseNumber string          `gorm:"size:100;not null;uniqueIndex" json:"case_number"`
	Title      string          `gorm:"size:200;not null" json:"title"`
	CaseType   *string         `gorm:"size:50" json:"case_type"` // Civil, Criminal, Family, ...
	CourtName  *string         `gorm:"size:200" json:"court_name"`
	FilingDate *datatypes.Date `json:"filing_date"`
	Status     string          `gorm:"size:50;not null;default:Active;index:idx_case_user_status" json:"status"`

	// Client details (inline)
	ClientName    *string `gorm:"size:200" json:"client_name"`
	ClientAddress *string `gorm:"type:text" json:"client_address"`
	ClientPhone   *string `gorm:"size:20" json:"client_phone"`

	// Opposite party
	OppositeParty    *string `gorm:"size:200" json:"opposite_party"`
	OthersideCounsel *string `gorm:"size:200" json:"otherside_counsel"`
	PartyType        *string `gorm:"size:50" json:"party_type"` // Plaintiff, Respondent, Petitioner, Defendant

	Description *string `gorm:"type:text" json:"description"`
	Remarks     *string `gorm:"type:text" json:"remarks"`
	Notes       *string `gorm:"type:text" json:"notes"`
}

// BeforeCreate hook to generate UUID
func (c *Case) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.Status == "" {
		c.Status = CaseStatusActive
	}
	return nil
}

// TableName specifies the table name for Case model
func (Case) TableName() string {
	return "cases"
}
