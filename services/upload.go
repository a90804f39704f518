package services

import (
	"mime/multipart"
	"path/filepath"
	"strings"
)

const (
	MaxUploadSize = 10 * 1024 * 1024 // 10MB
)

// AllowedDocumentExtensions lists the accepted document file types
var AllowedDocumentExtensions = []string{".pdf", ".doc", ".docx", ".txt", ".jpg", ".jpeg", ".png"}

// FileExtension returns the lower-cased extension of filename, including the dot
func FileExtension(filename string) string {
	return strings.ToLower(filepath.Ext(filename))
}

// IsAllowedDocument reports whether filename has an accepted extension
func IsAllowedDocument(filename string) bool {
	ext := FileExtension(filename)
	for _, allowed := range AllowedDocumentExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

// ValidateDocumentUpload checks the uploaded file type and size
func ValidateDocumentUpload(fileHeader *multipart.FileHeader) error {
	if fileHeader == nil || fileHeader.Filename == "" {
		return ErrNoFile
	}
	if !IsAllowedDocument(fileHeader.Filename) {
		return ErrFileTypeNotAllowed
	}
	if fileHeader.Size > MaxUploadSize {
		return ErrFileTooLarge
	}
	return nil
}
