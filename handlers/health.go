package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// HealthHandler reports that the API is up
func HealthHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "ok",
		"message": "Advocate Diary API is running",
	})
}
