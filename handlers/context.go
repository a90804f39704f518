package handlers

import (
	"advocate_diary/db"
	"advocate_diary/middleware"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// requestDB scopes the shared connection to the request so cancelled requests abort their queries
func requestDB(c echo.Context) *gorm.DB {
	return db.DB.WithContext(c.Request().Context())
}

func currentUserID(c echo.Context) string {
	return middleware.GetCurrentUserID(c)
}
