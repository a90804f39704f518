package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"advocate_diary/logger"
	"advocate_diary/services"

	"github.com/labstack/echo/v4"
)

// GetCaseDocumentsHandler lists the documents attached to a case
func GetCaseDocumentsHandler(c echo.Context) error {
	documents, err := services.GetCaseDocuments(requestDB(c), currentUserID(c), c.Param("caseId"))
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, documents)
}

// UploadDocumentHandler stores a multipart upload (fields: file, case_id, title, description)
func UploadDocumentHandler(c echo.Context) error {
	file, err := c.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return serviceError(services.ErrNoFile)
		}
		return badRequest()
	}

	var description *string
	if value := c.FormValue("description"); value != "" {
		description = &value
	}

	document, err := services.UploadDocument(c.Request().Context(), requestDB(c), services.Storage, currentUserID(c), services.DocumentUpload{
		CaseID:      c.FormValue("case_id"),
		Title:       c.FormValue("title"),
		Description: description,
		File:        file,
	})
	if err != nil {
		return serviceError(err)
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message":  "Document uploaded successfully",
		"document": document,
	})
}

// DownloadDocumentHandler redirects to a presigned URL or streams the stored bytes of a document
func DownloadDocumentHandler(c echo.Context) error {
	download, err := services.OpenDocument(c.Request().Context(), requestDB(c), services.Storage, currentUserID(c), c.Param("id"))
	if err != nil {
		return serviceError(err)
	}
	document := download.Document
	if download.SignedURL != "" {
		return c.Redirect(http.StatusFound, download.SignedURL)
	}
	defer func() {
		if err := download.Body.Close(); err != nil {
			logger.Log.Warnw("Failed to close document reader", "document_id", document.ID, "error", err)
		}
	}()

	contentType := download.ContentType
	if contentType == "" {
		contentType = services.ContentTypeForExtension(services.FileExtension(document.FileName))
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", document.FileName))
	return c.Stream(http.StatusOK, contentType, download.Body)
}

// DeleteDocumentHandler removes a document and its stored file
func DeleteDocumentHandler(c echo.Context) error {
	if err := services.DeleteDocument(c.Request().Context(), requestDB(c), services.Storage, currentUserID(c), c.Param("id")); err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Document deleted successfully"})
}
