package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"advocate_diary/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CalendarEventInput is the create/update payload for a calendar event
type CalendarEventInput struct {
	Title        models.Optional[string] `json:"title"`
	Description  models.Optional[string] `json:"description"`
	EventType    models.Optional[string] `json:"event_type"`
	EventDate    models.Optional[string] `json:"event_date"`
	Location     models.Optional[string] `json:"location"`
	ReminderTime models.Optional[int]    `json:"reminder_time"`
	IsCompleted  models.Optional[bool]   `json:"is_completed"`
	CaseID       models.Optional[string] `json:"case_id"`
}

// EventFilters narrows event listings to a date range (inclusive days)
type EventFilters struct {
	From *time.Time
	To   *time.Time
}

// GetEvents returns the user's events ordered by date, with their case summary preloaded
func GetEvents(db *gorm.DB, userID string, filters EventFilters) ([]models.CalendarEvent, error) {
	query := db.Preload("Case").Where("user_id = ?", userID)
	if filters.From != nil {
		query = query.Where("event_date >= ?", *filters.From)
	}
	if filters.To != nil {
		query = query.Where("event_date < ?", filters.To.AddDate(0, 0, 1))
	}

	var events []models.CalendarEvent
	err := query.Order("event_date ASC").Find(&events).Error
	return events, err
}

// GetEventByID retrieves an event owned by userID
func GetEventByID(db *gorm.DB, userID, eventID string) (*models.CalendarEvent, error) {
	if !validID(eventID) {
		return nil, ErrEventNotFound
	}

	var event models.CalendarEvent
	err := db.Preload("Case").First(&event, "id = ? AND user_id = ?", eventID, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return &event, nil
}

// CreateEvent adds an event to the user's calendar
func CreateEvent(db *gorm.DB, userID string, input CalendarEventInput) (*models.CalendarEvent, error) {
	title := strings.TrimSpace(input.Title.Value)
	if !input.Title.HasValue() || title == "" || !input.EventDate.HasValue() || strings.TrimSpace(input.EventDate.Value) == "" {
		return nil, newValidationError("", "Title and event_date are required")
	}

	event := &models.CalendarEvent{UserID: userID, Title: title}
	if err := applyEventFields(db, userID, event, input); err != nil {
		return nil, err
	}

	if err := db.Omit(clause.Associations).Create(event).Error; err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}
	return GetEventByID(db, userID, event.ID)
}

// UpdateEvent applies the fields present in input.
// Events generated for a hearing update can be edited here, but the next change
// to that hearing update rewrites them.
func UpdateEvent(db *gorm.DB, userID, eventID string, input CalendarEventInput) (*models.CalendarEvent, error) {
	event, err := GetEventByID(db, userID, eventID)
	if err != nil {
		return nil, err
	}

	if input.Title.Set {
		title, err := requiredString(input.Title, "title", "Title")
		if err != nil {
			return nil, err
		}
		event.Title = title
	}
	if input.EventDate.Set && (!input.EventDate.HasValue() || strings.TrimSpace(input.EventDate.Value) == "") {
		return nil, requiredField("event_date", "event_date")
	}
	if err := applyEventFields(db, userID, event, input); err != nil {
		return nil, err
	}

	if err := db.Omit(clause.Associations).Save(event).Error; err != nil {
		return nil, fmt.Errorf("failed to update event: %w", err)
	}
	return GetEventByID(db, userID, event.ID)
}

// applyEventFields copies the optional fields shared by create and update
func applyEventFields(db *gorm.DB, userID string, e *models.CalendarEvent, input CalendarEventInput) error {
	if input.EventDate.HasValue() {
		eventDate, err := ParseEventDate(input.EventDate.Value)
		if err != nil {
			return err
		}
		e.EventDate = eventDate
	}

	if input.CaseID.Set {
		e.CaseID = nil
		e.Case = nil
		if caseID := normalizeString(input.CaseID.Ptr()); caseID != nil {
			caseRecord, err := GetCaseByID(db, userID, *caseID)
			if err != nil {
				return err
			}
			e.CaseID = &caseRecord.ID
			e.Case = caseRecord
		}
	}

	if input.ReminderTime.Set {
		e.ReminderTime = input.ReminderTime.Ptr()
		if e.ReminderTime != nil && *e.ReminderTime < 0 {
			return newValidationError("reminder_time", "reminder_time must not be negative")
		}
	}

	if input.IsCompleted.Set {
		e.IsCompleted = input.IsCompleted.HasValue() && input.IsCompleted.Value
	}

	applyText(&e.Description, input.Description)
	applyString(&e.EventType, input.EventType)
	applyString(&e.Location, input.Location)
	return nil
}

// DeleteEvent removes an event and clears any hearing update link to it
func DeleteEvent(db *gorm.DB, userID, eventID string) error {
	event, err := GetEventByID(db, userID, eventID)
	if err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.HearingUpdate{}).
			Where("calendar_event_id = ?", event.ID).
			Update("calendar_event_id", nil).Error; err != nil {
			return fmt.Errorf("failed to unlink hearing updates: %w", err)
		}
		if err := tx.Delete(&models.CalendarEvent{}, "id = ?", event.ID).Error; err != nil {
			return fmt.Errorf("failed to delete event: %w", err)
		}
		return nil
	})
}

// GenerateCalendarICS renders events as an iCalendar feed.
// Events at midnight UTC are written as all-day entries.
func GenerateCalendarICS(events []models.CalendarEvent, now time.Time) []byte {
	const dateTimeFormat = "20060102T150405Z"

	var sb strings.Builder
	sb.WriteString("BEGIN:VCALENDAR\r\n")
	sb.WriteString("VERSION:2.0\r\n")
	sb.WriteString("PRODID:-//AdvocateDiary//Calendar//EN\r\n")
	sb.WriteString("CALSCALE:GREGORIAN\r\n")
	sb.WriteString("METHOD:PUBLISH\r\n")

	dtStamp := now.UTC().Format(dateTimeFormat)
	for _, e := range events {
		start := e.EventDate.UTC()
		lines := []string{
			"BEGIN:VEVENT",
			fmt.Sprintf("UID:%s@advocate-diary", e.ID),
			"DTSTAMP:" + dtStamp,
		}
		if start.Hour() == 0 && start.Minute() == 0 && start.Second() == 0 {
			lines = append(lines,
				"DTSTART;VALUE=DATE:"+start.Format("20060102"),
				"DTEND;VALUE=DATE:"+start.AddDate(0, 0, 1).Format("20060102"),
			)
		} else {
			lines = append(lines,
				"DTSTART:"+start.Format(dateTimeFormat),
				"DTEND:"+start.Add(time.Hour).Format(dateTimeFormat),
			)
		}
		lines = append(lines, "SUMMARY:"+EscapeICalValue(e.Title))
		if e.Location != nil && *e.Location != "" {
			lines = append(lines, "LOCATION:"+EscapeICalValue(*e.Location))
		}
		if e.Description != nil && *e.Description != "" {
			lines = append(lines, "DESCRIPTION:"+EscapeICalValue(*e.Description))
		}
		if e.EventType != nil && *e.EventType != "" {
			lines = append(lines, "CATEGORIES:"+EscapeICalValue(*e.EventType))
		}
		lines = append(lines, "STATUS:CONFIRMED")
		if e.ReminderTime != nil {
			lines = append(lines,
				"BEGIN:VALARM",
				"ACTION:DISPLAY",
				"DESCRIPTION:Reminder",
				fmt.Sprintf("TRIGGER:-PT%dM", *e.ReminderTime),
				"END:VALARM",
			)
		}
		lines = append(lines, "END:VEVENT")

		for _, line := range lines {
			sb.WriteString(line + "\r\n")
		}
	}

	sb.WriteString("END:VCALENDAR\r\n")
	return []byte(sb.String())
}

// EscapeICalValue escapes special characters for iCalendar text values
func EscapeICalValue(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, ";", "\\;")
	s = strings.ReplaceAll(s, ",", "\\,")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}
