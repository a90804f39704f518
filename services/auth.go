package services

import (
	"errors"
	"fmt"
	"strings"

	"advocate_diary/logger"
	"advocate_diary/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	// BcryptCost is the cost factor for bcrypt hashing
	BcryptCost = 10
)

// dummyHash is compared against when the email is unknown so that
// unknown and known accounts take the same time to reject.
var dummyHash string

func init() {
	hash, err := HashPassword("dummy_password_for_timing_mitigation1")
	if err == nil {
		dummyHash = hash
	}
}

// RegisterInput holds the fields accepted at registration
type RegisterInput struct {
	Email        string
	Password     string
	FullName     string
	BarCouncilID *string
	Phone        *string
	Address      *string
}

// LoginResult is returned by Authenticate
type LoginResult struct {
	AccessToken  string
	RefreshToken string
	User         *models.User
}

// HashPassword hashes a password using bcrypt
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(bytes), nil
}

// VerifyPassword verifies a password against a bcrypt hash
func VerifyPassword(hashedPassword, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	return err == nil
}

// NormalizeEmail trims and lower-cases an email address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a new advocate account
func Register(db *gorm.DB, input RegisterInput) (*models.User, error) {
	email := NormalizeEmail(input.Email)
	fullName := strings.TrimSpace(input.FullName)
	if email == "" || input.Password == "" || fullName == "" {
		return nil, newValidationError("", "Missing required fields")
	}
	if err := ValidatePassword(input.Password); err != nil {
		return nil, err
	}

	var count int64
	if err := db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if count > 0 {
		return nil, ErrDuplicateEmail
	}

	barCouncilID := normalizeString(input.BarCouncilID)
	if barCouncilID != nil {
		if err := db.Model(&models.User{}).Where("bar_council_id = ?", *barCouncilID).Count(&count).Error; err != nil {
			return nil, fmt.Errorf("failed to check bar council id: %w", err)
		}
		if count > 0 {
			return nil, ErrDuplicateBarCouncilID
		}
	}

	hash, err := HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:        email,
		Password:     hash,
		FullName:     fullName,
		BarCouncilID: barCouncilID,
		Phone:        normalizeString(input.Phone),
		Address:      normalizeString(input.Address),
		IsActive:     true,
	}
	if err := db.Create(user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	LogSecurityEvent("USER_REGISTERED", user.ID, "")
	return user, nil
}

// Authenticate checks credentials and issues an access/refresh token pair
func Authenticate(db *gorm.DB, tokens *TokenIssuer, email, password string) (*LoginResult, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, newValidationError("", "Missing email or password")
	}

	var user models.User
	err := db.Where("email = ?", email).First(&user).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to load user: %w", err)
		}
		VerifyPassword(dummyHash, password)
		LogSecurityEvent("LOGIN_FAILED", "", "unknown email")
		return nil, ErrInvalidCredentials
	}

	if !VerifyPassword(user.Password, password) {
		LogSecurityEvent("LOGIN_FAILED", user.ID, "wrong password")
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		LogSecurityEvent("LOGIN_DEACTIVATED", user.ID, "")
		return nil, ErrAccountDeactivated
	}

	access, err := tokens.Issue(user.ID, AccessToken)
	if err != nil {
		return nil, err
	}
	refresh, err := tokens.Issue(user.ID, RefreshToken)
	if err != nil {
		return nil, err
	}

	return &LoginResult{AccessToken: access, RefreshToken: refresh, User: &user}, nil
}

// ResolveToken returns the user id carried by a valid access token
func ResolveToken(tokens *TokenIssuer, token string) (string, error) {
	return tokens.Parse(token, AccessToken)
}

// ResolveRefreshToken returns the user id carried by a valid refresh token
func ResolveRefreshToken(tokens *TokenIssuer, token string) (string, error) {
	return tokens.Parse(token, RefreshToken)
}

// Refresh exchanges a valid refresh token for a new access token
func Refresh(tokens *TokenIssuer, refreshToken string) (string, error) {
	userID, err := ResolveRefreshToken(tokens, refreshToken)
	if err != nil {
		return "", err
	}
	return tokens.Issue(userID, AccessToken)
}

// GetProfile loads the user behind a resolved identity
func GetProfile(db *gorm.DB, userID string) (*models.User, error) {
	if !validID(userID) {
		return nil, ErrUserNotFound
	}

	var user models.User
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// LogSecurityEvent logs security-related events
func LogSecurityEvent(eventType, userID, details string) {
	logger.Log.Warnw("security event", "event", eventType, "user_id", userID, "details", details)
}
