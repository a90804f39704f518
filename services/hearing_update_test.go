package services

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"advocate_diary/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// assertEventInSync checks that a hearing update and its derived event agree
func assertEventInSync(t *testing.T, db *gorm.DB, update *models.HearingUpdate) {
	t.Helper()

	reloaded, err := GetHearingUpdateByID(db, update.UserID, update.ID)
	require.NoError(t, err)

	if reloaded.NextHearingDate == nil {
		assert.Nil(t, reloaded.CalendarEventID)
		return
	}

	require.NotNil(t, reloaded.CalendarEventID)
	event, err := GetEventByID(db, reloaded.UserID, *reloaded.CalendarEventID)
	require.NoError(t, err)
	assert.True(t, StartOfDay(*reloaded.NextHearingDate).Equal(event.EventDate.UTC()))
	require.NotNil(t, event.CaseID)
	assert.Equal(t, reloaded.CaseID, *event.CaseID)
	require.NotNil(t, event.EventType)
	assert.Equal(t, models.EventTypeHearing, *event.EventType)
}

func countEvents(t *testing.T, db *gorm.DB, userID string) int64 {
	var count int64
	require.NoError(t, db.Model(&models.CalendarEvent{}).Where("user_id = ?", userID).Count(&count).Error)
	return count
}

func TestHearingUpdateEventLifecycle(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "advocate@example.com")
	caseRecord := createTestCase(t, db, user.ID, "C-100", "Doe v. Roe")

	update, err := CreateHearingUpdate(db, user.ID, HearingUpdateInput{
		CaseID:          models.Some(caseRecord.ID),
		HearingDate:     models.Some("2025-01-10"),
		ActionTaken:     models.Some("Arguments heard"),
		NextHearingDate: models.Some("2025-02-10"),
		ActionToBeTaken: models.Some("File reply"),
	})
	require.NoError(t, err)
	require.True(t, update.HasCalendarEvent())
	assertEventInSync(t, db, update)

	event, err := GetEventByID(db, user.ID, *update.CalendarEventID)
	require.NoError(t, err)
	assert.Equal(t, "Hearing: Doe v. Roe", event.Title)
	require.NotNil(t, event.Description)
	assert.Equal(t, "Next hearing for case C-100\n\nAction to be taken: File reply", *event.Description)
	require.NotNil(t, event.Location)
	assert.Equal(t, "District Court", *event.Location)

	raw, err := json.Marshal(event)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"event_date":"2025-02-10T00:00:00"`)

	t.Run("Omitting next_hearing_date leaves the event alone", func(t *testing.T) {
		updated, err := UpdateHearingUpdate(db, user.ID, update.ID, HearingUpdateInput{
			CourtOrder: models.Some("Adjourned"),
		})
		require.NoError(t, err)
		require.NotNil(t, updated.CalendarEventID)
		assert.Equal(t, *update.CalendarEventID, *updated.CalendarEventID)
		require.NotNil(t, updated.CourtOrder)
		assert.Equal(t, "Adjourned", *updated.CourtOrder)
		assertEventInSync(t, db, updated)
	})

	t.Run("A new date rewrites the same event", func(t *testing.T) {
		updated, err := UpdateHearingUpdate(db, user.ID, update.ID, HearingUpdateInput{
			NextHearingDate: models.Some("2025-03-05"),
			ActionToBeTaken: models.Some(""),
		})
		require.NoError(t, err)
		require.NotNil(t, updated.CalendarEventID)
		assert.Equal(t, *update.CalendarEventID, *updated.CalendarEventID)
		assert.Nil(t, updated.ActionToBeTaken)
		assertEventInSync(t, db, updated)

		event, err := GetEventByID(db, user.ID, *updated.CalendarEventID)
		require.NoError(t, err)
		assert.Equal(t, "Next hearing for case C-100\n\nAction to be taken: N/A", *event.Description)
		assert.EqualValues(t, 1, countEvents(t, db, user.ID))
	})

	t.Run("Null removes the event", func(t *testing.T) {
		eventID := *update.CalendarEventID
		updated, err := UpdateHearingUpdate(db, user.ID, update.ID, HearingUpdateInput{
			NextHearingDate: models.Null[string](),
		})
		require.NoError(t, err)
		assert.Nil(t, updated.CalendarEventID)
		assert.Nil(t, updated.NextHearingDate)
		assertEventInSync(t, db, updated)

		_, err = GetEventByID(db, user.ID, eventID)
		assert.ErrorIs(t, err, ErrEventNotFound)
		assert.EqualValues(t, 0, countEvents(t, db, user.ID))
	})

	t.Run("A date on an unlinked update creates an event", func(t *testing.T) {
		updated, err := UpdateHearingUpdate(db, user.ID, update.ID, HearingUpdateInput{
			NextHearingDate: models.Some("2025-04-01"),
		})
		require.NoError(t, err)
		require.True(t, updated.HasCalendarEvent())
		assertEventInSync(t, db, updated)
		assert.EqualValues(t, 1, countEvents(t, db, user.ID))
	})

	t.Run("Deleting the update deletes its event", func(t *testing.T) {
		require.NoError(t, DeleteHearingUpdate(db, user.ID, update.ID))

		_, err := GetHearingUpdateByID(db, user.ID, update.ID)
		assert.ErrorIs(t, err, ErrHearingUpdateNotFound)
		assert.EqualValues(t, 0, countEvents(t, db, user.ID))
	})
}

func TestCreateHearingUpdate(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "advocate@example.com")
	other := createTestUser(t, db, "other@example.com")
	caseRecord := createTestCase(t, db, user.ID, "C-200", "State v. Smith")

	t.Run("Without next date no event is created", func(t *testing.T) {
		update, err := CreateHearingUpdate(db, user.ID, HearingUpdateInput{
			CaseID:      models.Some(caseRecord.ID),
			HearingDate: models.Some("2025-01-10"),
		})
		require.NoError(t, err)
		assert.Nil(t, update.CalendarEventID)
		assert.Equal(t, "2025-01-10", models.FormatDate(update.HearingDate))
		assertEventInSync(t, db, update)
		assert.EqualValues(t, 0, countEvents(t, db, user.ID))
	})

	t.Run("Blank next date counts as absent", func(t *testing.T) {
		update, err := CreateHearingUpdate(db, user.ID, HearingUpdateInput{
			CaseID:          models.Some(caseRecord.ID),
			HearingDate:     models.Some("2025-01-11"),
			NextHearingDate: models.Some(""),
		})
		require.NoError(t, err)
		assert.Nil(t, update.NextHearingDate)
		assert.Nil(t, update.CalendarEventID)
	})

	t.Run("Required fields", func(t *testing.T) {
		_, err := CreateHearingUpdate(db, user.ID, HearingUpdateInput{CaseID: models.Some(caseRecord.ID)})
		var vErr *ValidationError
		require.True(t, errors.As(err, &vErr))
		assert.Equal(t, "case_id and hearing_date are required", vErr.Message)
	})

	t.Run("Invalid dates name the field", func(t *testing.T) {
		_, err := CreateHearingUpdate(db, user.ID, HearingUpdateInput{
			CaseID:      models.Some(caseRecord.ID),
			HearingDate: models.Some("10/01/2025"),
		})
		var vErr *ValidationError
		require.True(t, errors.As(err, &vErr))
		assert.Equal(t, "Invalid hearing_date format. Use YYYY-MM-DD", vErr.Message)

		_, err = CreateHearingUpdate(db, user.ID, HearingUpdateInput{
			CaseID:          models.Some(caseRecord.ID),
			HearingDate:     models.Some("2025-01-10"),
			NextHearingDate: models.Some("next week"),
		})
		require.True(t, errors.As(err, &vErr))
		assert.Equal(t, "Invalid next_hearing_date format. Use YYYY-MM-DD", vErr.Message)
		assert.EqualValues(t, 0, countEvents(t, db, user.ID))
	})

	t.Run("Case must belong to the user", func(t *testing.T) {
		_, err := CreateHearingUpdate(db, other.ID, HearingUpdateInput{
			CaseID:          models.Some(caseRecord.ID),
			HearingDate:     models.Some("2025-01-10"),
			NextHearingDate: models.Some("2025-02-10"),
		})
		assert.ErrorIs(t, err, ErrCaseNotFound)
		assert.EqualValues(t, 0, countEvents(t, db, other.ID))
	})
}

func TestUpdateHearingUpdateOwnershipAndValidation(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "advocate@example.com")
	other := createTestUser(t, db, "other@example.com")
	caseRecord := createTestCase(t, db, user.ID, "C-300", "Roe v. Doe")

	update, err := CreateHearingUpdate(db, user.ID, HearingUpdateInput{
		CaseID:          models.Some(caseRecord.ID),
		HearingDate:     models.Some("2025-01-10"),
		NextHearingDate: models.Some("2025-02-10"),
	})
	require.NoError(t, err)

	_, err = UpdateHearingUpdate(db, other.ID, update.ID, HearingUpdateInput{NextHearingDate: models.Null[string]()})
	assert.ErrorIs(t, err, ErrHearingUpdateNotFound)
	assert.ErrorIs(t, DeleteHearingUpdate(db, other.ID, update.ID), ErrHearingUpdateNotFound)
	assertEventInSync(t, db, update)

	_, err = UpdateHearingUpdate(db, user.ID, update.ID, HearingUpdateInput{HearingDate: models.Null[string]()})
	var vErr *ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "hearing_date", vErr.Field)

	_, err = UpdateHearingUpdate(db, user.ID, update.ID, HearingUpdateInput{NextHearingDate: models.Some("2025-13-45")})
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "next_hearing_date", vErr.Field)

	// Failed updates leave the stored row and event untouched
	assertEventInSync(t, db, update)
	reloaded, err := GetHearingUpdateByID(db, user.ID, update.ID)
	require.NoError(t, err)
	assert.Equal(t, "2025-02-10", *models.FormatDatePtr(reloaded.NextHearingDate))
}

func TestUpdateHearingUpdateRecreatesDanglingEvent(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "advocate@example.com")
	caseRecord := createTestCase(t, db, user.ID, "C-400", "In re Estate")

	update, err := CreateHearingUpdate(db, user.ID, HearingUpdateInput{
		CaseID:          models.Some(caseRecord.ID),
		HearingDate:     models.Some("2025-01-10"),
		NextHearingDate: models.Some("2025-02-10"),
	})
	require.NoError(t, err)
	oldEventID := *update.CalendarEventID

	// Leave the link dangling
	require.NoError(t, db.Exec("PRAGMA foreign_keys = OFF").Error)
	require.NoError(t, db.Exec("DELETE FROM calendar_events WHERE id = ?", oldEventID).Error)
	require.NoError(t, db.Exec("PRAGMA foreign_keys = ON").Error)

	updated, err := UpdateHearingUpdate(db, user.ID, update.ID, HearingUpdateInput{
		NextHearingDate: models.Some("2025-02-20"),
	})
	require.NoError(t, err)
	require.True(t, updated.HasCalendarEvent())
	assert.NotEqual(t, oldEventID, *updated.CalendarEventID)
	assertEventInSync(t, db, updated)
	assert.EqualValues(t, 1, countEvents(t, db, user.ID))
}

func TestHearingUpdateListings(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "advocate@example.com")
	first := createTestCase(t, db, user.ID, "C-500", "Alpha v. Beta")
	second := createTestCase(t, db, user.ID, "C-501", "Gamma v. Delta")

	_, err := UpdateCase(db, user.ID, first.ID, CaseInput{ClientName: models.Some("Alpha Corp")})
	require.NoError(t, err)

	older, err := CreateHearingUpdate(db, user.ID, HearingUpdateInput{
		CaseID:      models.Some(first.ID),
		HearingDate: models.Some("2025-01-05"),
	})
	require.NoError(t, err)
	newer, err := CreateHearingUpdate(db, user.ID, HearingUpdateInput{
		CaseID:      models.Some(first.ID),
		HearingDate: models.Some("2025-02-05"),
	})
	require.NoError(t, err)
	middle, err := CreateHearingUpdate(db, user.ID, HearingUpdateInput{
		CaseID:      models.Some(second.ID),
		HearingDate: models.Some("2025-01-20"),
	})
	require.NoError(t, err)

	t.Run("By case", func(t *testing.T) {
		updates, err := GetHearingUpdatesByCase(db, user.ID, first.ID)
		require.NoError(t, err)
		require.Len(t, updates, 2)
		assert.Equal(t, newer.ID, updates[0].ID)
		assert.Equal(t, older.ID, updates[1].ID)
	})

	t.Run("By case checks ownership", func(t *testing.T) {
		stranger := createTestUser(t, db, "stranger@example.com")
		_, err := GetHearingUpdatesByCase(db, stranger.ID, first.ID)
		assert.ErrorIs(t, err, ErrCaseNotFound)
	})

	t.Run("All with case fields", func(t *testing.T) {
		summaries, err := GetAllHearingUpdates(db, user.ID)
		require.NoError(t, err)
		require.Len(t, summaries, 3)
		assert.Equal(t, newer.ID, summaries[0].ID)
		assert.Equal(t, middle.ID, summaries[1].ID)
		assert.Equal(t, older.ID, summaries[2].ID)

		assert.Equal(t, "C-500", summaries[0].CaseNumber)
		assert.Equal(t, "Alpha v. Beta", summaries[0].CaseTitle)
		require.NotNil(t, summaries[0].ClientName)
		assert.Equal(t, "Alpha Corp", *summaries[0].ClientName)
		assert.Nil(t, summaries[1].ClientName)

		raw, err := json.Marshal(summaries[0])
		require.NoError(t, err)
		var fields map[string]interface{}
		require.NoError(t, json.Unmarshal(raw, &fields))
		assert.Equal(t, "C-500", fields["case_number"])
		assert.Equal(t, "2025-02-05", fields["hearing_date"])
		assert.Equal(t, "District Court", fields["court_name"])
		assert.Nil(t, fields["next_hearing_date"])
	})
}

func TestHearingUpdateRemovedWithCase(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "advocate@example.com")
	caseRecord := createTestCase(t, db, user.ID, "C-600", "Closing case")

	update, err := CreateHearingUpdate(db, user.ID, HearingUpdateInput{
		CaseID:          models.Some(caseRecord.ID),
		HearingDate:     models.Some(time.Now().UTC().Format(models.DateLayout)),
		NextHearingDate: models.Some("2030-01-01"),
	})
	require.NoError(t, err)
	require.True(t, update.HasCalendarEvent())

	require.NoError(t, DeleteCase(t.Context(), db, nil, user.ID, caseRecord.ID))

	_, err = GetHearingUpdateByID(db, user.ID, update.ID)
	assert.ErrorIs(t, err, ErrHearingUpdateNotFound)
	assert.EqualValues(t, 0, countEvents(t, db, user.ID))
}

var errWriteRejected = errors.New("write rejected")

// rejectWrites makes every statement of kind ("create", "update" or "delete") against table fail
func rejectWrites(t *testing.T, db *gorm.DB, kind, table string) {
	t.Helper()
	name := "test:reject_" + kind + "_" + table
	reject := func(tx *gorm.DB) {
		if tx.Statement.Table == table {
			tx.AddError(errWriteRejected)
		}
	}

	var err error
	switch kind {
	case "create":
		err = db.Callback().Create().Before("gorm:create").Register(name, reject)
	case "update":
		err = db.Callback().Update().Before("gorm:update").Register(name, reject)
	case "delete":
		err = db.Callback().Delete().Before("gorm:delete").Register(name, reject)
	default:
		t.Fatalf("unknown statement kind %q", kind)
	}
	require.NoError(t, err)
}

func countHearingUpdates(t *testing.T, db *gorm.DB, userID string) int64 {
	var count int64
	require.NoError(t, db.Model(&models.HearingUpdate{}).Where("user_id = ?", userID).Count(&count).Error)
	return count
}

func TestHearingUpdateWritesAreAllOrNothing(t *testing.T) {
	linkedUpdate := func(t *testing.T, db *gorm.DB, userID, caseID string) *models.HearingUpdate {
		update, err := CreateHearingUpdate(db, userID, HearingUpdateInput{
			CaseID:          models.Some(caseID),
			HearingDate:     models.Some("2025-01-10"),
			NextHearingDate: models.Some("2025-02-10"),
		})
		require.NoError(t, err)
		require.True(t, update.HasCalendarEvent())
		return update
	}

	t.Run("Create keeps nothing when the event insert fails", func(t *testing.T) {
		db := setupTestDB(t)
		user := createTestUser(t, db, "advocate@example.com")
		caseRecord := createTestCase(t, db, user.ID, "C-100", "Doe v. Roe")
		rejectWrites(t, db, "create", "calendar_events")

		_, err := CreateHearingUpdate(db, user.ID, HearingUpdateInput{
			CaseID:          models.Some(caseRecord.ID),
			HearingDate:     models.Some("2025-01-10"),
			NextHearingDate: models.Some("2025-02-10"),
		})
		assert.ErrorIs(t, err, errWriteRejected)
		assert.Equal(t, int64(0), countHearingUpdates(t, db, user.ID))
		assert.Equal(t, int64(0), countEvents(t, db, user.ID))
	})

	t.Run("Clearing the date keeps the event when the row write fails", func(t *testing.T) {
		db := setupTestDB(t)
		user := createTestUser(t, db, "advocate@example.com")
		caseRecord := createTestCase(t, db, user.ID, "C-100", "Doe v. Roe")
		update := linkedUpdate(t, db, user.ID, caseRecord.ID)
		rejectWrites(t, db, "update", "hearing_updates")

		_, err := UpdateHearingUpdate(db, user.ID, update.ID, HearingUpdateInput{
			NextHearingDate: models.Null[string](),
		})
		assert.ErrorIs(t, err, errWriteRejected)
		assert.Equal(t, int64(1), countEvents(t, db, user.ID))

		reloaded, err := GetHearingUpdateByID(db, user.ID, update.ID)
		require.NoError(t, err)
		require.NotNil(t, reloaded.CalendarEventID)
		assert.Equal(t, *update.CalendarEventID, *reloaded.CalendarEventID)
		assertEventInSync(t, db, reloaded)
	})

	t.Run("Rescheduling keeps the old date when the event write fails", func(t *testing.T) {
		db := setupTestDB(t)
		user := createTestUser(t, db, "advocate@example.com")
		caseRecord := createTestCase(t, db, user.ID, "C-100", "Doe v. Roe")
		update := linkedUpdate(t, db, user.ID, caseRecord.ID)
		rejectWrites(t, db, "update", "calendar_events")

		_, err := UpdateHearingUpdate(db, user.ID, update.ID, HearingUpdateInput{
			NextHearingDate: models.Some("2025-03-01"),
			CourtOrder:      models.Some("Adjourned"),
		})
		assert.ErrorIs(t, err, errWriteRejected)

		reloaded, err := GetHearingUpdateByID(db, user.ID, update.ID)
		require.NoError(t, err)
		require.NotNil(t, reloaded.NextHearingDate)
		assert.Equal(t, "2025-02-10", models.FormatDate(*reloaded.NextHearingDate))
		assert.Nil(t, reloaded.CourtOrder)
		assertEventInSync(t, db, reloaded)
	})

	t.Run("Delete keeps the event when the row delete fails", func(t *testing.T) {
		db := setupTestDB(t)
		user := createTestUser(t, db, "advocate@example.com")
		caseRecord := createTestCase(t, db, user.ID, "C-100", "Doe v. Roe")
		update := linkedUpdate(t, db, user.ID, caseRecord.ID)
		rejectWrites(t, db, "delete", "hearing_updates")

		err := DeleteHearingUpdate(db, user.ID, update.ID)
		assert.ErrorIs(t, err, errWriteRejected)
		assert.Equal(t, int64(1), countHearingUpdates(t, db, user.ID))
		assert.Equal(t, int64(1), countEvents(t, db, user.ID))
		assertEventInSync(t, db, update)
	})
}

func TestSaveHearingUpdateNeverInserts(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "advocate@example.com")
	caseRecord := createTestCase(t, db, user.ID, "C-100", "Doe v. Roe")

	update, err := CreateHearingUpdate(db, user.ID, HearingUpdateInput{
		CaseID:      models.Some(caseRecord.ID),
		HearingDate: models.Some("2025-01-10"),
	})
	require.NoError(t, err)

	stale, err := GetHearingUpdateByID(db, user.ID, update.ID)
	require.NoError(t, err)
	require.NoError(t, DeleteHearingUpdate(db, user.ID, update.ID))

	stale.CourtOrder = stringPtr("Adjourned")
	err = saveHearingUpdate(db, stale)
	assert.ErrorIs(t, err, ErrHearingUpdateNotFound)
	assert.Equal(t, int64(0), countHearingUpdates(t, db, user.ID))
}

func TestUpdateHearingUpdateSeesLinkMadeAfterLookup(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "advocate@example.com")
	caseRecord := createTestCase(t, db, user.ID, "C-100", "Doe v. Roe")

	update, err := CreateHearingUpdate(db, user.ID, HearingUpdateInput{
		CaseID:      models.Some(caseRecord.ID),
		HearingDate: models.Some("2025-01-10"),
	})
	require.NoError(t, err)
	require.False(t, update.HasCalendarEvent())

	// A second request links an event right after the first request's initial lookup
	var (
		fired    bool
		other    *models.HearingUpdate
		otherErr error
	)
	require.NoError(t, db.Callback().Query().After("gorm:query").Register("test:interleave", func(tx *gorm.DB) {
		if fired || tx.Statement.Table != "hearing_updates" {
			return
		}
		fired = true
		other, otherErr = UpdateHearingUpdate(db, user.ID, update.ID, HearingUpdateInput{
			NextHearingDate: models.Some("2025-02-10"),
		})
	}))

	updated, err := UpdateHearingUpdate(db, user.ID, update.ID, HearingUpdateInput{
		NextHearingDate: models.Some("2025-03-01"),
	})
	require.NoError(t, err)
	require.True(t, fired)
	require.NoError(t, otherErr)
	require.NotNil(t, other.CalendarEventID)

	assert.Equal(t, int64(1), countEvents(t, db, user.ID))
	require.NotNil(t, updated.CalendarEventID)
	assert.Equal(t, *other.CalendarEventID, *updated.CalendarEventID)
	assertEventInSync(t, db, updated)
}
