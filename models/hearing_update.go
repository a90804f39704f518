package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// HearingUpdate records what happened at a hearing and what is planned next.
// When NextHearingDate is set, CalendarEventID points at the diary entry
// generated for it; that event is created, rewritten and removed only here.
type HearingUpdate struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	CaseID string `gorm:"type:uuid;not null;index:idx_hearing_case_date" json:"case_id"`
	Case   *Case  `gorm:"foreignKey:CaseID;constraint:OnDelete:CASCADE" json:"-"`
	UserID string `gorm:"type:uuid;not null;index" json:"user_id"`

	HearingDate     datatypes.Date  `gorm:"not null;index:idx_hearing_case_date" json:"hearing_date"`
	ActionTaken     *string         `gorm:"type:text" json:"action_taken"`
	CourtOrder      *string         `gorm:"type:text" json:"court_order"`
	NextHearingDate *datatypes.Date `json:"next_hearing_date"`
	ActionToBeTaken *string         `gorm:"type:text" json:"action_to_be_taken"`

	CalendarEventID *string        `gorm:"type:uuid;index" json:"calendar_event_id"`
	CalendarEvent   *CalendarEvent `gorm:"foreignKey:CalendarEventID;constraint:OnDelete:SET NULL" json:"-"`
}

// BeforeCreate hook to generate UUID
func (h *HearingUpdate) BeforeCreate(tx *gorm.DB) error {
	if h.ID == "" {
		h.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for HearingUpdate model
func (HearingUpdate) TableName() string {
	return "hearing_updates"
}

// HasCalendarEvent reports whether a derived calendar event is linked
func (h *HearingUpdate) HasCalendarEvent() bool {
	return h.CalendarEventID != nil && *h.CalendarEventID != ""
}
