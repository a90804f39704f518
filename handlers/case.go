package handlers

import (
	"net/http"
	"strings"

	"advocate_diary/services"

	"github.com/labstack/echo/v4"
)

// GetCasesHandler lists the user's cases, optionally filtered by ?status=
func GetCasesHandler(c echo.Context) error {
	filters := services.CaseFilters{Status: strings.TrimSpace(c.QueryParam("status"))}
	cases, err := services.GetCases(requestDB(c), currentUserID(c), filters)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, cases)
}

// GetCaseHandler returns one case
func GetCaseHandler(c echo.Context) error {
	caseRecord, err := services.GetCaseByID(requestDB(c), currentUserID(c), c.Param("id"))
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, caseRecord)
}

// CreateCaseHandler opens a case
func CreateCaseHandler(c echo.Context) error {
	var input services.CaseInput
	if err := c.Bind(&input); err != nil {
		return badRequest()
	}

	caseRecord, err := services.CreateCase(requestDB(c), currentUserID(c), input)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "Case created successfully",
		"case":    caseRecord,
	})
}

// UpdateCaseHandler applies the fields present in the body
func UpdateCaseHandler(c echo.Context) error {
	var input services.CaseInput
	if err := c.Bind(&input); err != nil {
		return badRequest()
	}

	caseRecord, err := services.UpdateCase(requestDB(c), currentUserID(c), c.Param("id"), input)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Case updated successfully",
		"case":    caseRecord,
	})
}

// DeleteCaseHandler removes a case with its documents, events and hearing updates
func DeleteCaseHandler(c echo.Context) error {
	ctx := c.Request().Context()
	if err := services.DeleteCase(ctx, requestDB(c), services.Storage, currentUserID(c), c.Param("id")); err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Case deleted successfully"})
}
