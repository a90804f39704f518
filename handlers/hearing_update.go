package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"advocate_diary/services"

	"github.com/labstack/echo/v4"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// GetAllHearingUpdatesHandler lists every hearing update of the user with case details
func GetAllHearingUpdatesHandler(c echo.Context) error {
	summaries, err := services.GetAllHearingUpdates(requestDB(c), currentUserID(c))
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, summaries)
}

// GetHearingUpdatesHandler lists the hearing updates of the case named by ?case_id=
func GetHearingUpdatesHandler(c echo.Context) error {
	caseID := strings.TrimSpace(c.QueryParam("case_id"))
	if caseID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "case_id parameter is required")
	}

	updates, err := services.GetHearingUpdatesByCase(requestDB(c), currentUserID(c), caseID)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, updates)
}

// GetHearingUpdateHandler returns one hearing update
func GetHearingUpdateHandler(c echo.Context) error {
	update, err := services.GetHearingUpdateByID(requestDB(c), currentUserID(c), c.Param("id"))
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, update)
}

// CreateHearingUpdateHandler records a hearing and schedules the next one
func CreateHearingUpdateHandler(c echo.Context) error {
	var input services.HearingUpdateInput
	if err := c.Bind(&input); err != nil {
		return badRequest()
	}

	update, err := services.CreateHearingUpdate(requestDB(c), currentUserID(c), input)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message":        "Hearing update created successfully",
		"hearing_update": update,
	})
}

// UpdateHearingUpdateHandler applies the fields present in the body.
// Sending next_hearing_date as null removes the scheduled hearing from the calendar.
func UpdateHearingUpdateHandler(c echo.Context) error {
	var input services.HearingUpdateInput
	if err := c.Bind(&input); err != nil {
		return badRequest()
	}

	update, err := services.UpdateHearingUpdate(requestDB(c), currentUserID(c), c.Param("id"), input)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":        "Hearing update updated successfully",
		"hearing_update": update,
	})
}

// DeleteHearingUpdateHandler removes a hearing update and its calendar event
func DeleteHearingUpdateHandler(c echo.Context) error {
	if err := services.DeleteHearingUpdate(requestDB(c), currentUserID(c), c.Param("id")); err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Hearing update deleted successfully"})
}

// ExportHearingDiaryHandler downloads the hearing diary as a spreadsheet, optionally for one ?case_id=
func ExportHearingDiaryHandler(c echo.Context) error {
	buf, err := services.ExportHearingDiary(requestDB(c), currentUserID(c), strings.TrimSpace(c.QueryParam("case_id")))
	if err != nil {
		return serviceError(err)
	}

	filename := fmt.Sprintf("hearing-diary-%s.xlsx", time.Now().Format("20060102"))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Blob(http.StatusOK, xlsxContentType, buf.Bytes())
}
