package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

const (
	DateLayout      = "2006-01-02"
	EventDateLayout = "2006-01-02T15:04:05"
)

// FormatDate renders a date-only column as YYYY-MM-DD
func FormatDate(d datatypes.Date) string {
	return time.Time(d).Format(DateLayout)
}

// FormatDatePtr is FormatDate for nullable columns
func FormatDatePtr(d *datatypes.Date) *string {
	if d == nil {
		return nil
	}
	s := FormatDate(*d)
	return &s
}

// DateOf truncates t to its calendar day in UTC
func DateOf(t time.Time) datatypes.Date {
	return datatypes.Date(time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC))
}

// MarshalJSON writes filing_date as YYYY-MM-DD
func (c Case) MarshalJSON() ([]byte, error) {
	type alias Case
	return json.Marshal(struct {
		alias
		FilingDate *string `json:"filing_date"`
	}{alias: alias(c), FilingDate: FormatDatePtr(c.FilingDate)})
}

// MarshalJSON writes hearing dates as YYYY-MM-DD
func (h HearingUpdate) MarshalJSON() ([]byte, error) {
	type alias HearingUpdate
	return json.Marshal(struct {
		alias
		HearingDate     string  `json:"hearing_date"`
		NextHearingDate *string `json:"next_hearing_date"`
	}{alias: alias(h), HearingDate: FormatDate(h.HearingDate), NextHearingDate: FormatDatePtr(h.NextHearingDate)})
}
