package models

// ReminderPayload is the body of a deferred reminder task.
type ReminderPayload struct {
	BookingID string `json:"bookingId"`
	CleanerID string `json:"cleanerId"` // recipient
	AreaID    string `json:"areaId"`
	Date      string `json:"date"`     // "YYYY-MM-DD"
	Start     int    `json:"start"`    // minutes from midnight
	FireDate  string `json:"fireDate"` // RFC3339
	Title     string `json:"title"`
	Body      string `json:"body"`
}

// BookingEvent is published on the domain event exchange.
type BookingEvent struct {
	EventID    string        `json:"eventId"`
	Type       string        `json:"type"`
	BookingID  string        `json:"bookingId"`
	CleanerID  string        `json:"cleanerId,omitempty"`
	CustomerID string        `json:"customerId,omitempty"`
	AreaID     string        `json:"areaId"`
	Date       string        `json:"date"`
	Start      int           `json:"start"`
	End        int           `json:"end"`
	Status     BookingStatus `json:"status"`
	OccurredAt string        `json:"occurredAt"` // RFC3339
}
