package handlers

import (
	"net/http"
	"time"

	"advocate_diary/services"

	"github.com/labstack/echo/v4"
)

// dayParam parses an optional YYYY-MM-DD query parameter
func dayParam(c echo.Context, name string) (*time.Time, error) {
	value := c.QueryParam(name)
	if value == "" {
		return nil, nil
	}
	day, err := services.ParseDate(value)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid "+name+" format. Use YYYY-MM-DD")
	}
	return &day, nil
}

// eventFilters reads the optional ?from= and ?to= day bounds
func eventFilters(c echo.Context) (services.EventFilters, error) {
	from, err := dayParam(c, "from")
	if err != nil {
		return services.EventFilters{}, err
	}
	to, err := dayParam(c, "to")
	if err != nil {
		return services.EventFilters{}, err
	}
	return services.EventFilters{From: from, To: to}, nil
}

// GetEventsHandler lists the user's calendar in date order
func GetEventsHandler(c echo.Context) error {
	filters, err := eventFilters(c)
	if err != nil {
		return err
	}
	events, err := services.GetEvents(requestDB(c), currentUserID(c), filters)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, events)
}

// GetEventHandler returns one event
func GetEventHandler(c echo.Context) error {
	event, err := services.GetEventByID(requestDB(c), currentUserID(c), c.Param("id"))
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, event)
}

// CreateEventHandler adds an event to the calendar
func CreateEventHandler(c echo.Context) error {
	var input services.CalendarEventInput
	if err := c.Bind(&input); err != nil {
		return badRequest()
	}

	event, err := services.CreateEvent(requestDB(c), currentUserID(c), input)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "Event created successfully",
		"event":   event,
	})
}

// UpdateEventHandler applies the fields present in the body
func UpdateEventHandler(c echo.Context) error {
	var input services.CalendarEventInput
	if err := c.Bind(&input); err != nil {
		return badRequest()
	}

	event, err := services.UpdateEvent(requestDB(c), currentUserID(c), c.Param("id"), input)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Event updated successfully",
		"event":   event,
	})
}

// DeleteEventHandler removes an event, unlinking any hearing update that generated it
func DeleteEventHandler(c echo.Context) error {
	if err := services.DeleteEvent(requestDB(c), currentUserID(c), c.Param("id")); err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Event deleted successfully"})
}

// ExportCalendarHandler serves the calendar as an iCalendar feed
func ExportCalendarHandler(c echo.Context) error {
	filters, err := eventFilters(c)
	if err != nil {
		return err
	}
	events, err := services.GetEvents(requestDB(c), currentUserID(c), filters)
	if err != nil {
		return serviceError(err)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="advocate-diary.ics"`)
	return c.Blob(http.StatusOK, "text/calendar; charset=utf-8", services.GenerateCalendarICS(events, time.Now()))
}
