package handlers

import (
	"advocate_diary/metrics"
	"advocate_diary/middleware"

	"github.com/labstack/echo/v4"
)

// RegisterRoutes mounts the API on e
func RegisterRoutes(e *echo.Echo) {
	e.GET("/health", HealthHandler)
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))

	auth := e.Group("/auth")
	auth.POST("/register", RegisterHandler, middleware.AuthRateLimiter.Middleware())
	auth.POST("/login", LoginHandler, middleware.AuthRateLimiter.Middleware())
	auth.GET("/me", MeHandler, middleware.RequireAuth())
	auth.POST("/refresh", RefreshHandler, middleware.RequireRefreshToken())

	requireAuth := middleware.RequireAuth()

	clients := e.Group("/clients", requireAuth)
	clients.GET("", GetClientsHandler)
	clients.POST("", CreateClientHandler)
	clients.GET("/:id", GetClientHandler)
	clients.PUT("/:id", UpdateClientHandler)
	clients.DELETE("/:id", DeleteClientHandler)

	cases := e.Group("/cases", requireAuth)
	cases.GET("", GetCasesHandler)
	cases.POST("", CreateCaseHandler)
	cases.GET("/:id", GetCaseHandler)
	cases.PUT("/:id", UpdateCaseHandler)
	cases.DELETE("/:id", DeleteCaseHandler)

	documents := e.Group("/documents", requireAuth)
	documents.GET("/case/:caseId", GetCaseDocumentsHandler)
	documents.POST("/upload", UploadDocumentHandler)
	documents.GET("/:id/download", DownloadDocumentHandler)
	documents.DELETE("/:id", DeleteDocumentHandler)

	calendar := e.Group("/calendar", requireAuth)
	calendar.GET("", GetEventsHandler)
	calendar.POST("", CreateEventHandler)
	calendar.GET("/export.ics", ExportCalendarHandler)
	calendar.GET("/:id", GetEventHandler)
	calendar.PUT("/:id", UpdateEventHandler)
	calendar.DELETE("/:id", DeleteEventHandler)

	hearings := e.Group("/hearing-updates", requireAuth)
	hearings.GET("/all", GetAllHearingUpdatesHandler)
	hearings.GET("/export", ExportHearingDiaryHandler)
	hearings.GET("", GetHearingUpdatesHandler)
	hearings.POST("", CreateHearingUpdateHandler)
	hearings.GET("/:id", GetHearingUpdateHandler)
	hearings.PUT("/:id", UpdateHearingUpdateHandler)
	hearings.DELETE("/:id", DeleteHearingUpdateHandler)
}
