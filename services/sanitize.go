package services

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var textPolicy = bluemonday.StrictPolicy()

// SanitizeText strips markup from free text. bluemonday escapes what it keeps,
// so entities are decoded again before storing plain text.
func SanitizeText(s string) string {
	return strings.TrimSpace(html.UnescapeString(textPolicy.Sanitize(s)))
}

// normalizeString trims s and maps blank to nil
func normalizeString(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

// normalizeText is normalizeString plus markup stripping
func normalizeText(s *string) *string {
	if s == nil {
		return nil
	}
	v := SanitizeText(*s)
	if v == "" {
		return nil
	}
	return &v
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
