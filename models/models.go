package models

// All returns every model in migration order
func All() []interface{} {
	return []interface{}{
		&User{},
		&Client{},
		&Case{},
		&Document{},
		&CalendarEvent{},
		&HearingUpdate{},
	}
}
