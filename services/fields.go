package services

import (
	"errors"
	"strings"

	"advocate_diary/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// validID reports whether id is a well-formed row id. Malformed ids name no row.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// applyString patches an optional text column. Blank values clear it.
func applyString(dst **string, o models.Optional[string]) {
	if !o.Set {
		return
	}
	if o.Null {
		*dst = nil
		return
	}
	*dst = normalizeString(&o.Value)
}

// applyText is applyString for free-text columns that are stripped of markup
func applyText(dst **string, o models.Optional[string]) {
	if !o.Set {
		return
	}
	if o.Null {
		*dst = nil
		return
	}
	*dst = normalizeText(&o.Value)
}

// requiredString returns the trimmed value of a mandatory field
func requiredString(o models.Optional[string], field, label string) (string, error) {
	if !o.HasValue() || strings.TrimSpace(o.Value) == "" {
		return "", requiredField(field, label)
	}
	return strings.TrimSpace(o.Value), nil
}

// isUniqueViolation recognises unique-index failures across the supported drivers
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key")
}
