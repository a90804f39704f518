package services

import (
	"errors"
	"fmt"
)

// ErrNotFound matches every resource-specific not-found error.
// Rows owned by someone else are reported with the same error as missing rows.
var ErrNotFound = errors.New("not found")

type notFoundError struct {
	msg string
}

func (e *notFoundError) Error() string { return e.msg }

func (e *notFoundError) Is(target error) bool { return target == ErrNotFound }

// Resource lookups
var (
	ErrUserNotFound          error = &notFoundError{"User not found"}
	ErrClientNotFound        error = &notFoundError{"Client not found"}
	ErrCaseNotFound          error = &notFoundError{"Case not found"}
	ErrDocumentNotFound      error = &notFoundError{"Document not found"}
	ErrEventNotFound         error = &notFoundError{"Event not found"}
	ErrHearingUpdateNotFound error = &notFoundError{"Hearing update not found"}
)

// Identity errors
var (
	ErrInvalidCredentials    = errors.New("Invalid credentials")
	ErrAccountDeactivated    = errors.New("Account is deactivated")
	ErrInvalidToken          = errors.New("Invalid or expired token")
	ErrDuplicateEmail        = errors.New("Email already registered")
	ErrDuplicateBarCouncilID = errors.New("Bar council ID already registered")
)

// Case and document errors
var (
	ErrDuplicateCaseNumber = errors.New("Case number already exists")
	ErrForbidden           = errors.New("Unauthorized")
	ErrNoFile              = errors.New("No file provided")
	ErrFileTypeNotAllowed  = errors.New("File type not allowed")
	ErrStorageUnavailable  = errors.New("Document storage is not configured")
	ErrFileTooLarge        = fmt.Errorf("File size exceeds maximum allowed size of %dMB", MaxUploadSize/(1024*1024))
)

// IsConflict reports whether err is a uniqueness violation
func IsConflict(err error) bool {
	return errors.Is(err, ErrDuplicateEmail) ||
		errors.Is(err, ErrDuplicateBarCouncilID) ||
		errors.Is(err, ErrDuplicateCaseNumber)
}

// ValidationError describes a missing or malformed input field
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func newValidationError(field, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

func requiredField(field, label string) *ValidationError {
	return newValidationError(field, "%s is required", label)
}

func invalidDateFormat(field string) *ValidationError {
	return newValidationError(field, "Invalid %s format. Use YYYY-MM-DD", field)
}
