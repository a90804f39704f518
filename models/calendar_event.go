package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Event type tags. EventType is stored free-form.
const (
	EventTypeHearing  = "Hearing"
	EventTypeMeeting  = "Meeting"
	EventTypeDeadline = "Deadline"
)

// CalendarEvent is a scheduled entry in an advocate's diary, optionally tied to a case.
// Events created for a hearing update are owned by that update.
type CalendarEvent struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	UserID string  `gorm:"type:uuid;not null;index:idx_event_user_date" json:"user_id"`
	CaseID *string `gorm:"type:uuid;index" json:"case_id"`
	Case   *Case   `gorm:"foreignKey:CaseID;constraint:OnDelete:CASCADE" json:"-"`

	Title        string    `gorm:"size:200;not null" json:"title"`
	Description  *string   `gorm:"type:text" json:"description"`
	EventType    *string   `gorm:"size:50" json:"event_type"`
	EventDate    time.Time `gorm:"not null;index:idx_event_user_date" json:"event_date"`
	Location     *string   `gorm:"size:200" json:"location"`
	ReminderTime *int      `json:"reminder_time"` // minutes before the event
	IsCompleted  bool      `gorm:"not null;default:false" json:"is_completed"`
}

// BeforeCreate hook to generate UUID
func (e *CalendarEvent) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for CalendarEvent model
func (CalendarEvent) TableName() string {
	return "calendar_events"
}

// CaseSummary is the short form of a case embedded in event listings
type CaseSummary struct {
	ID         string `json:"id"`
	CaseNumber string `json:"case_number"`
	Title      string `json:"title"`
}

// MarshalJSON writes event_date without a zone and adds the case summary when preloaded
func (e CalendarEvent) MarshalJSON() ([]byte, error) {
	type alias CalendarEvent
	var summary *CaseSummary
	if e.Case != nil {
		summary = &CaseSummary{ID: e.Case.ID, CaseNumber: e.Case.CaseNumber, Title: e.Case.Title}
	}
	return json.Marshal(struct {
		alias
		EventDate string       `json:"event_date"`
		Case      *CaseSummary `json:"case"`
	}{alias: alias(e), EventDate: e.EventDate.UTC().Format(EventDateLayout), Case: summary})
}
