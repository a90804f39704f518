package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"advocate_diary/logger"
	"advocate_diary/middleware"
	"advocate_diary/services"

	"github.com/labstack/echo/v4"
)

const genericErrorMessage = "An unexpected error occurred"

// serviceError maps a service error to the HTTP error returned to the client.
// Errors it does not recognise are returned unchanged and end up as a 500.
func serviceError(err error) error {
	if err == nil {
		return nil
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}

	var vErr *services.ValidationError
	switch {
	case errors.As(err, &vErr):
		return echo.NewHTTPError(http.StatusBadRequest, vErr.Message)
	case services.IsConflict(err):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrNoFile),
		errors.Is(err, services.ErrFileTypeNotAllowed),
		errors.Is(err, services.ErrFileTooLarge):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials), errors.Is(err, services.ErrInvalidToken):
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	case errors.Is(err, services.ErrAccountDeactivated):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	}
	return err
}

// HTTPErrorHandler renders every error as {"error": "..."}.
// Server errors are logged in full and reported with a generic message.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := genericErrorMessage

	var httpErr *echo.HTTPError
	if errors.As(serviceError(err), &httpErr) {
		code = httpErr.Code
		if code < http.StatusInternalServerError {
			message = fmt.Sprint(httpErr.Message)
		}
	}

	if code >= http.StatusInternalServerError {
		logger.Log.Errorw("Unhandled error",
			"method", c.Request().Method,
			"path", c.Path(),
			"user_id", middleware.GetCurrentUserID(c),
			"error", err,
		)
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.JSON(code, map[string]string{"error": message})
	}
	if err != nil {
		logger.Log.Errorw("Failed to write error response", "error", err)
	}
}

// badRequest is the error returned for bodies that cannot be decoded
func badRequest() error {
	return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
}
