package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strings"
	"time"

	"advocate_diary/logger"
	"advocate_diary/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SignedURLExpiry bounds how long a presigned download link stays valid
const SignedURLExpiry = 15 * time.Minute

// DocumentUpload carries a multipart document upload
type DocumentUpload struct {
	CaseID      string
	Title       string
	Description *string
	File        *multipart.FileHeader
}

// DocumentDownloadPath is the API path that streams a document's bytes
func DocumentDownloadPath(documentID string) string {
	return fmt.Sprintf("/documents/%s/download", documentID)
}

// GetCaseDocuments returns the documents of a case owned by userID, newest first
func GetCaseDocuments(db *gorm.DB, userID, caseID string) ([]models.Document, error) {
	if _, err := GetCaseByID(db, userID, caseID); err != nil {
		return nil, err
	}

	var documents []models.Document
	if err := db.Where("case_id = ?", caseID).
		Order("uploaded_at DESC").
		Find(&documents).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch case documents: %w", err)
	}
	return documents, nil
}

// UploadDocument stores the file bytes and records the document metadata.
// If the metadata cannot be saved the stored file is removed again.
func UploadDocument(ctx context.Context, db *gorm.DB, storage StorageProvider, userID string, input DocumentUpload) (*models.Document, error) {
	if storage == nil || !storage.IsConfigured() {
		return nil, ErrStorageUnavailable
	}
	if input.File == nil {
		return nil, ErrNoFile
	}
	caseID := strings.TrimSpace(input.CaseID)
	title := strings.TrimSpace(input.Title)
	if caseID == "" || title == "" {
		return nil, newValidationError("", "case_id and title are required")
	}

	caseRecord, err := GetCaseByID(db, userID, caseID)
	if err != nil {
		return nil, err
	}

	if err := ValidateDocumentUpload(input.File); err != nil {
		return nil, err
	}

	src, err := input.File.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer src.Close()

	// Browsers often send application/octet-stream; the extension is already vetted
	contentType := ContentTypeForExtension(FileExtension(input.File.Filename))

	key := GenerateCaseDocumentKey(userID, caseRecord.ID, input.File.Filename)
	result, err := storage.UploadReader(ctx, src, key, contentType, input.File.Size)
	if err != nil {
		return nil, fmt.Errorf("failed to store document: %w", err)
	}

	document := &models.Document{
		ID:          uuid.New().String(),
		CaseID:      caseRecord.ID,
		Title:       title,
		FileName:    input.File.Filename,
		FileType:    strings.TrimPrefix(FileExtension(input.File.Filename), "."),
		FileSize:    result.FileSize,
		Description: normalizeText(input.Description),
		StorageKey:  result.Key,
	}
	document.FileURL = result.URL
	if document.FileURL == "" {
		document.FileURL = DocumentDownloadPath(document.ID)
	}

	if err := db.Create(document).Error; err != nil {
		if delErr := storage.Delete(ctx, result.Key); delErr != nil {
			logger.Log.Warnw("Failed to remove stored file after insert error", "key", result.Key, "error", delErr)
		}
		return nil, fmt.Errorf("failed to save document: %w", err)
	}

	return document, nil
}

// GetDocumentForUser loads a document and checks its case belongs to userID.
// Unlike other lookups a foreign document is reported as ErrForbidden.
func GetDocumentForUser(db *gorm.DB, userID, documentID string) (*models.Document, error) {
	if !validID(documentID) {
		return nil, ErrDocumentNotFound
	}

	var document models.Document
	if err := db.Preload("Case").First(&document, "id = ?", documentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDocumentNotFound
		}
		return nil, err
	}
	if document.Case == nil || document.Case.UserID != userID {
		return nil, ErrForbidden
	}
	return &document, nil
}

// DocumentDownload is either a presigned URL to redirect to or the stored bytes to stream
type DocumentDownload struct {
	Document    *models.Document
	SignedURL   string
	Body        io.ReadCloser
	ContentType string
}

// OpenDocument resolves a download for a document. Stores that can presign URLs
// hand out a short-lived link; the others are read through the API.
func OpenDocument(ctx context.Context, db *gorm.DB, storage StorageProvider, userID, documentID string) (*DocumentDownload, error) {
	document, err := GetDocumentForUser(db, userID, documentID)
	if err != nil {
		return nil, err
	}

	signedURL, err := storage.GetSignedURL(ctx, document.StorageKey, SignedURLExpiry)
	if err != nil {
		return nil, fmt.Errorf("failed to sign document URL: %w", err)
	}
	if signedURL != "" {
		return &DocumentDownload{Document: document, SignedURL: signedURL}, nil
	}

	reader, contentType, err := storage.Get(ctx, document.StorageKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read stored document: %w", err)
	}
	return &DocumentDownload{Document: document, Body: reader, ContentType: contentType}, nil
}

// DeleteDocument removes the document row, then tries to remove the stored file.
// A failed file removal is logged and does not fail the call.
func DeleteDocument(ctx context.Context, db *gorm.DB, storage StorageProvider, userID, documentID string) error {
	document, err := GetDocumentForUser(db, userID, documentID)
	if err != nil {
		return err
	}

	if err := db.Delete(&models.Document{}, "id = ?", document.ID).Error; err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}

	removeStoredFiles(ctx, storage, []string{document.StorageKey})
	logger.Log.Infow("Document deleted", "document_id", document.ID, "user_id", userID)
	return nil
}
