package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"advocate_diary/logger"
	"advocate_diary/models"

	"gorm.io/gorm"
)

// CaseInput is the create/update payload for a case
type CaseInput struct {
	CaseNumber       models.Optional[string] `json:"case_number"`
	Title            models.Optional[string] `json:"title"`
	CaseType         models.Optional[string] `json:"case_type"`
	CourtName        models.Optional[string] `json:"court_name"`
	FilingDate       models.Optional[string] `json:"filing_date"`
	Status           models.Optional[string] `json:"status"`
	ClientID         models.Optional[string] `json:"client_id"`
	ClientName       models.Optional[string] `json:"client_name"`
	ClientAddress    models.Optional[string] `json:"client_address"`
	ClientPhone      models.Optional[string] `json:"client_phone"`
	OppositeParty    models.Optional[string] `json:"opposite_party"`
	OthersideCounsel models.Optional[string] `json:"otherside_counsel"`
	PartyType        models.Optional[string] `json:"party_type"`
	Description      models.Optional[string] `json:"description"`
	Remarks          models.Optional[string] `json:"remarks"`
	Notes            models.Optional[string] `json:"notes"`
}

// CaseFilters narrows case listings
type CaseFilters struct {
	Status string
}

// GetCases returns the user's cases, newest first
func GetCases(db *gorm.DB, userID string, filters CaseFilters) ([]models.Case, error) {
	query := db.Where("user_id = ?", userID)
	if filters.Status != "" {
		query = query.Where("status = ?", filters.Status)
	}

	var cases []models.Case
	err := query.Order("created_at DESC").Find(&cases).Error
	return cases, err
}

// GetCaseByID retrieves a case owned by userID
func GetCaseByID(db *gorm.DB, userID, caseID string) (*models.Case, error) {
	if !validID(caseID) {
		return nil, ErrCaseNotFound
	}

	var caseRecord models.Case
	err := db.First(&caseRecord, "id = ? AND user_id = ?", caseID, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCaseNotFound
		}
		return nil, err
	}
	return &caseRecord, nil
}

// CaseNumberExists reports whether any user already holds caseNumber
func CaseNumberExists(db *gorm.DB, caseNumber string) (bool, error) {
	var count int64
	if err := db.Model(&models.Case{}).Where("case_number = ?", caseNumber).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check case number uniqueness: %w", err)
	}
	return count > 0, nil
}

// CreateCase validates input and inserts a new case for userID
func CreateCase(db *gorm.DB, userID string, input CaseInput) (*models.Case, error) {
	caseNumber, err := requiredString(input.CaseNumber, "case_number", "Case number")
	if err != nil {
		return nil, err
	}
	title, err := requiredString(input.Title, "title", "Case title")
	if err != nil {
		return nil, err
	}

	exists, err := CaseNumberExists(db, caseNumber)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateCaseNumber
	}

	caseRecord := &models.Case{
		UserID:     userID,
		CaseNumber: caseNumber,
		Title:      title,
		Status:     models.CaseStatusActive,
	}
	if err := applyCaseFields(db, userID, caseRecord, input); err != nil {
		return nil, err
	}

	if err := db.Create(caseRecord).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateCaseNumber
		}
		return nil, fmt.Errorf("failed to create case: %w", err)
	}
	return caseRecord, nil
}

// UpdateCase applies the fields present in input. The case number cannot change.
func UpdateCase(db *gorm.DB, userID, caseID string, input CaseInput) (*models.Case, error) {
	caseRecord, err := GetCaseByID(db, userID, caseID)
	if err != nil {
		return nil, err
	}

	if input.CaseNumber.Set && strings.TrimSpace(input.CaseNumber.Value) != caseRecord.CaseNumber {
		return nil, newValidationError("case_number", "Case number cannot be changed")
	}
	if input.Title.Set {
		title, err := requiredString(input.Title, "title", "Case title")
		if err != nil {
			return nil, err
		}
		caseRecord.Title = title
	}
	if err := applyCaseFields(db, userID, caseRecord, input); err != nil {
		return nil, err
	}

	if err := db.Save(caseRecord).Error; err != nil {
		return nil, fmt.Errorf("failed to update case: %w", err)
	}
	return caseRecord, nil
}

// applyCaseFields copies the optional fields shared by create and update
func applyCaseFields(db *gorm.DB, userID string, c *models.Case, input CaseInput) error {
	if input.FilingDate.Set {
		c.FilingDate = nil
		if input.FilingDate.HasValue() && strings.TrimSpace(input.FilingDate.Value) != "" {
			d, err := parseDateField("filing_date", input.FilingDate.Value)
			if err != nil {
				return err
			}
			c.FilingDate = &d
		}
	}

	if input.Status.Set {
		c.Status = models.CaseStatusActive
		if status := normalizeString(input.Status.Ptr()); status != nil {
			c.Status = *status
		}
	}

	if input.ClientID.Set {
		c.ClientID = nil
		if clientID := normalizeString(input.ClientID.Ptr()); clientID != nil {
			if _, err := GetClientByID(db, userID, *clientID); err != nil {
				return err
			}
			c.ClientID = clientID
		}
	}

	applyString(&c.CaseType, input.CaseType)
	applyString(&c.CourtName, input.CourtName)
	applyString(&c.ClientName, input.ClientName)
	applyString(&c.ClientAddress, input.ClientAddress)
	applyString(&c.ClientPhone, input.ClientPhone)
	applyString(&c.OppositeParty, input.OppositeParty)
	applyString(&c.OthersideCounsel, input.OthersideCounsel)
	applyString(&c.PartyType, input.PartyType)
	applyText(&c.Description, input.Description)
	applyText(&c.Remarks, input.Remarks)
	applyText(&c.Notes, input.Notes)
	return nil
}

// DeleteCase removes a case together with its hearing updates, calendar events and documents.
// Stored document files are removed after the rows are gone; failures there are only logged.
func DeleteCase(ctx context.Context, db *gorm.DB, storage StorageProvider, userID, caseID string) error {
	caseRecord, err := GetCaseByID(db, userID, caseID)
	if err != nil {
		return err
	}

	var storageKeys []string
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Document{}).Where("case_id = ?", caseRecord.ID).
			Pluck("storage_key", &storageKeys).Error; err != nil {
			return fmt.Errorf("failed to load documents: %w", err)
		}
		if err := tx.Where("case_id = ?", caseRecord.ID).Delete(&models.HearingUpdate{}).Error; err != nil {
			return fmt.Errorf("failed to delete hearing updates: %w", err)
		}
		if err := tx.Where("case_id = ?", caseRecord.ID).Delete(&models.CalendarEvent{}).Error; err != nil {
			return fmt.Errorf("failed to delete calendar events: %w", err)
		}
		if err := tx.Where("case_id = ?", caseRecord.ID).Delete(&models.Document{}).Error; err != nil {
			return fmt.Errorf("failed to delete documents: %w", err)
		}
		if err := tx.Delete(caseRecord).Error; err != nil {
			return fmt.Errorf("failed to delete case: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	removeStoredFiles(ctx, storage, storageKeys)
	return nil
}

// removeStoredFiles deletes blobs whose rows are already gone
func removeStoredFiles(ctx context.Context, storage StorageProvider, keys []string) {
	if storage == nil {
		return
	}
	for _, key := range keys {
		if key == "" {
			continue
		}
		if err := storage.Delete(ctx, key); err != nil {
			logger.Log.Warnw("Failed to delete stored document", "key", key, "error", err)
		}
	}
}
