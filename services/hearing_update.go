package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"advocate_diary/metrics"
	"advocate_diary/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// HearingUpdateInput is the create/update payload for a hearing update
type HearingUpdateInput struct {
	CaseID          models.Optional[string] `json:"case_id"`
	HearingDate     models.Optional[string] `json:"hearing_date"`
	ActionTaken     models.Optional[string] `json:"action_taken"`
	CourtOrder      models.Optional[string] `json:"court_order"`
	NextHearingDate models.Optional[string] `json:"next_hearing_date"`
	ActionToBeTaken models.Optional[string] `json:"action_to_be_taken"`
}

// HearingUpdateSummary is a hearing update with display fields from its case
type HearingUpdateSummary struct {
	models.HearingUpdate
	CaseNumber string  `json:"case_number"`
	CaseTitle  string  `json:"case_title"`
	ClientName *string `json:"client_name"`
	CourtName  *string `json:"court_name"`
}

// MarshalJSON flattens the case fields next to the hearing update fields
func (s HearingUpdateSummary) MarshalJSON() ([]byte, error) {
	raw, err := json.Marshal(s.HearingUpdate)
	if err != nil {
		return nil, err
	}
	fields := map[string]interface{}{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	fields["case_number"] = s.CaseNumber
	fields["case_title"] = s.CaseTitle
	fields["client_name"] = s.ClientName
	fields["court_name"] = s.CourtName
	return json.Marshal(fields)
}

// syncLog collects derived event changes so they are counted only after commit
type syncLog []string

func (l *syncLog) add(action string) { *l = append(*l, action) }

func (l syncLog) flush() {
	for _, action := range l {
		metrics.RecordHearingEventSync(action)
	}
}

// hearingEventTitle and hearingEventDescription derive the event text from the case
func hearingEventTitle(c *models.Case) string {
	return "Hearing: " + c.Title
}

func hearingEventDescription(c *models.Case, actionToBeTaken *string) string {
	action := "N/A"
	if actionToBeTaken != nil && *actionToBeTaken != "" {
		action = *actionToBeTaken
	}
	return fmt.Sprintf("Next hearing for case %s\n\nAction to be taken: %s", c.CaseNumber, action)
}

// deriveHearingEvent writes the derived fields onto event
func deriveHearingEvent(event *models.CalendarEvent, c *models.Case, h *models.HearingUpdate) {
	description := hearingEventDescription(c, h.ActionToBeTaken)
	eventType := models.EventTypeHearing

	event.Title = hearingEventTitle(c)
	event.Description = &description
	event.EventType = &eventType
	event.EventDate = StartOfDay(*h.NextHearingDate)
	event.Location = c.CourtName
}

// createHearingEvent inserts the derived event for h and links it
func createHearingEvent(tx *gorm.DB, c *models.Case, h *models.HearingUpdate) error {
	event := &models.CalendarEvent{
		UserID: h.UserID,
		CaseID: &c.ID,
	}
	deriveHearingEvent(event, c, h)

	if err := tx.Omit(clause.Associations).Create(event).Error; err != nil {
		return fmt.Errorf("failed to create calendar event: %w", err)
	}
	h.CalendarEventID = &event.ID
	return nil
}

// findLinkedEvent loads the event linked to h, or nil when the link is empty or dangling
func findLinkedEvent(tx *gorm.DB, h *models.HearingUpdate) (*models.CalendarEvent, error) {
	if !h.HasCalendarEvent() {
		return nil, nil
	}
	var event models.CalendarEvent
	err := tx.First(&event, "id = ? AND user_id = ?", *h.CalendarEventID, h.UserID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &event, nil
}

// optionalDate parses an optional date field. Null and blank both mean no date.
func optionalDate(field string, o models.Optional[string]) (*datatypes.Date, error) {
	if !o.HasValue() || strings.TrimSpace(o.Value) == "" {
		return nil, nil
	}
	d, err := parseDateField(field, o.Value)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// GetHearingUpdateByID retrieves a hearing update created by userID
func GetHearingUpdateByID(db *gorm.DB, userID, id string) (*models.HearingUpdate, error) {
	if !validID(id) {
		return nil, ErrHearingUpdateNotFound
	}

	var update models.HearingUpdate
	err := db.First(&update, "id = ? AND user_id = ?", id, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrHearingUpdateNotFound
		}
		return nil, err
	}
	return &update, nil
}

// GetHearingUpdatesByCase lists the hearing updates of one case, latest hearing first
func GetHearingUpdatesByCase(db *gorm.DB, userID, caseID string) ([]models.HearingUpdate, error) {
	if _, err := GetCaseByID(db, userID, caseID); err != nil {
		return nil, err
	}

	var updates []models.HearingUpdate
	err := db.Where("case_id = ? AND user_id = ?", caseID, userID).
		Order("hearing_date DESC").
		Order("created_at DESC").
		Find(&updates).Error
	return updates, err
}

// GetAllHearingUpdates lists every hearing update of userID with case display fields
func GetAllHearingUpdates(db *gorm.DB, userID string) ([]HearingUpdateSummary, error) {
	var updates []models.HearingUpdate
	err := db.Preload("Case").
		Where("user_id = ?", userID).
		Order("hearing_date DESC").
		Order("created_at DESC").
		Find(&updates).Error
	if err != nil {
		return nil, err
	}

	summaries := make([]HearingUpdateSummary, 0, len(updates))
	for _, u := range updates {
		summary := HearingUpdateSummary{HearingUpdate: u}
		if u.Case != nil {
			summary.CaseNumber = u.Case.CaseNumber
			summary.CaseTitle = u.Case.Title
			summary.ClientName = u.Case.ClientName
			summary.CourtName = u.Case.CourtName
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// CreateHearingUpdate records a hearing. When a next hearing date is given a
// calendar event is created for it in the same transaction.
func CreateHearingUpdate(db *gorm.DB, userID string, input HearingUpdateInput) (*models.HearingUpdate, error) {
	caseID := strings.TrimSpace(input.CaseID.Value)
	hearingDateRaw := strings.TrimSpace(input.HearingDate.Value)
	if !input.CaseID.HasValue() || caseID == "" || !input.HearingDate.HasValue() || hearingDateRaw == "" {
		return nil, newValidationError("", "case_id and hearing_date are required")
	}

	caseRecord, err := GetCaseByID(db, userID, caseID)
	if err != nil {
		return nil, err
	}

	hearingDate, err := parseDateField("hearing_date", hearingDateRaw)
	if err != nil {
		return nil, err
	}
	nextHearingDate, err := optionalDate("next_hearing_date", input.NextHearingDate)
	if err != nil {
		return nil, err
	}

	update := &models.HearingUpdate{
		CaseID:          caseRecord.ID,
		UserID:          userID,
		HearingDate:     hearingDate,
		NextHearingDate: nextHearingDate,
	}
	applyText(&update.ActionTaken, input.ActionTaken)
	applyText(&update.CourtOrder, input.CourtOrder)
	applyText(&update.ActionToBeTaken, input.ActionToBeTaken)

	var synced syncLog
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(update).Error; err != nil {
			return fmt.Errorf("failed to create hearing update: %w", err)
		}
		if update.NextHearingDate == nil {
			return nil
		}

		if err := createHearingEvent(tx, caseRecord, update); err != nil {
			return err
		}
		synced.add(metrics.SyncCreated)
		return tx.Model(update).Update("calendar_event_id", update.CalendarEventID).Error
	})
	if err != nil {
		return nil, err
	}

	synced.flush()
	return update, nil
}

// UpdateHearingUpdate applies the fields present in input and keeps the
// derived calendar event in step with next_hearing_date:
// omitted leaves the event alone, a date rewrites or creates it, null removes it.
func UpdateHearingUpdate(db *gorm.DB, userID, id string, input HearingUpdateInput) (*models.HearingUpdate, error) {
	if _, err := GetHearingUpdateByID(db, userID, id); err != nil {
		return nil, err
	}

	var hearingDate *datatypes.Date
	if input.HearingDate.Set {
		if !input.HearingDate.HasValue() || strings.TrimSpace(input.HearingDate.Value) == "" {
			return nil, requiredField("hearing_date", "hearing_date")
		}
		d, err := parseDateField("hearing_date", input.HearingDate.Value)
		if err != nil {
			return nil, err
		}
		hearingDate = &d
	}

	var nextHearingDate *datatypes.Date
	if input.NextHearingDate.Set {
		d, err := optionalDate("next_hearing_date", input.NextHearingDate)
		if err != nil {
			return nil, err
		}
		nextHearingDate = d
	}

	var (
		update *models.HearingUpdate
		synced syncLog
	)
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		if update, err = lockHearingUpdate(tx, userID, id); err != nil {
			return err
		}
		caseRecord, err := GetCaseByID(tx, userID, update.CaseID)
		if err != nil {
			return err
		}

		if hearingDate != nil {
			update.HearingDate = *hearingDate
		}
		applyText(&update.ActionTaken, input.ActionTaken)
		applyText(&update.CourtOrder, input.CourtOrder)
		applyText(&update.ActionToBeTaken, input.ActionToBeTaken)

		if input.NextHearingDate.Set {
			update.NextHearingDate = nextHearingDate
			if err := syncHearingEvent(tx, caseRecord, update, &synced); err != nil {
				return err
			}
		}
		return saveHearingUpdate(tx, update)
	})
	if err != nil {
		return nil, err
	}

	synced.flush()
	return update, nil
}

// lockHearingUpdate reloads a hearing update inside tx and holds its row until commit
func lockHearingUpdate(tx *gorm.DB, userID, id string) (*models.HearingUpdate, error) {
	var update models.HearingUpdate
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&update, "id = ? AND user_id = ?", id, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrHearingUpdateNotFound
		}
		return nil, err
	}
	return &update, nil
}

// saveHearingUpdate writes the mutable columns of an existing row. It never inserts.
func saveHearingUpdate(tx *gorm.DB, update *models.HearingUpdate) error {
	result := tx.Model(update).
		Select("hearing_date", "action_taken", "court_order", "next_hearing_date", "action_to_be_taken", "calendar_event_id", "updated_at").
		Updates(update)
	if result.Error != nil {
		return fmt.Errorf("failed to update hearing update: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrHearingUpdateNotFound
	}
	return nil
}

// syncHearingEvent makes the linked event match update.NextHearingDate
func syncHearingEvent(tx *gorm.DB, c *models.Case, update *models.HearingUpdate, synced *syncLog) error {
	event, err := findLinkedEvent(tx, update)
	if err != nil {
		return fmt.Errorf("failed to load calendar event: %w", err)
	}

	if update.NextHearingDate == nil {
		if event != nil {
			if err := tx.Delete(&models.CalendarEvent{}, "id = ?", event.ID).Error; err != nil {
				return fmt.Errorf("failed to delete calendar event: %w", err)
			}
			synced.add(metrics.SyncRemoved)
		}
		update.CalendarEventID = nil
		return nil
	}

	if event == nil {
		if err := createHearingEvent(tx, c, update); err != nil {
			return err
		}
		synced.add(metrics.SyncCreated)
		return nil
	}

	deriveHearingEvent(event, c, update)
	if err := tx.Omit(clause.Associations).Save(event).Error; err != nil {
		return fmt.Errorf("failed to update calendar event: %w", err)
	}
	synced.add(metrics.SyncUpdated)
	return nil
}

// DeleteHearingUpdate removes a hearing update and its derived calendar event together
func DeleteHearingUpdate(db *gorm.DB, userID, id string) error {
	if _, err := GetHearingUpdateByID(db, userID, id); err != nil {
		return err
	}

	var synced syncLog
	err := db.Transaction(func(tx *gorm.DB) error {
		update, err := lockHearingUpdate(tx, userID, id)
		if err != nil {
			return err
		}
		event, err := findLinkedEvent(tx, update)
		if err != nil {
			return fmt.Errorf("failed to load calendar event: %w", err)
		}
		if event != nil {
			if err := tx.Delete(&models.CalendarEvent{}, "id = ?", event.ID).Error; err != nil {
				return fmt.Errorf("failed to delete calendar event: %w", err)
			}
			synced.add(metrics.SyncRemoved)
		}
		result := tx.Delete(&models.HearingUpdate{}, "id = ?", update.ID)
		if result.Error != nil {
			return fmt.Errorf("failed to delete hearing update: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrHearingUpdateNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}

	synced.flush()
	return nil
}
