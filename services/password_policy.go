package services

import (
	"unicode"
)

// Password requirements
const (
	MinPasswordLength = 8
)

// ValidatePassword checks the password policy:
// - At least 8 characters
// - At least one letter
// - At least one number
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return newValidationError("password", "password must be at least %d characters long", MinPasswordLength)
	}

	var hasLetter, hasNumber bool
	for _, char := range password {
		switch {
		case unicode.IsLetter(char):
			hasLetter = true
		case unicode.IsNumber(char):
			hasNumber = true
		}
	}

	if !hasLetter {
		return newValidationError("password", "password must contain at least one letter")
	}
	if !hasNumber {
		return newValidationError("password", "password must contain at least one number")
	}

	return nil
}
