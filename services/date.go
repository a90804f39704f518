package services

import (
	"fmt"
	"strings"
	"time"

	"advocate_diary/models"

	"gorm.io/datatypes"
)

// eventDateLayouts are tried in order when parsing calendar timestamps
var eventDateLayouts = []string{
	time.RFC3339,
	models.EventDateLayout,
	"2006-01-02T15:04",
	models.DateLayout,
}

// ParseDate parses a date string in YYYY-MM-DD form
func ParseDate(dateStr string) (time.Time, error) {
	parsedTime, err := time.Parse(models.DateLayout, strings.TrimSpace(dateStr))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format: expected YYYY-MM-DD")
	}
	return parsedTime, nil
}

// parseDateField parses a date-only request field, naming the field on failure
func parseDateField(field, value string) (datatypes.Date, error) {
	t, err := ParseDate(value)
	if err != nil {
		return datatypes.Date{}, invalidDateFormat(field)
	}
	return models.DateOf(t), nil
}

// ParseEventDate parses a calendar timestamp. Values without a zone are taken as UTC.
func ParseEventDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range eventDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, newValidationError("event_date", "Invalid date format")
}

// StartOfDay returns midnight UTC of the given date
func StartOfDay(d datatypes.Date) time.Time {
	t := time.Time(d)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
