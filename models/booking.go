package models

import "time"

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
	StatusDraft           BookingStatus = "DRAFT"
	StatusPending         BookingStatus = "PENDING"
	StatusConfirmed       BookingStatus = "CONFIRMED"
	StatusInProgress      BookingStatus = "IN_PROGRESS"
	StatusCompleted       BookingStatus = "COMPLETED"
	StatusCancelled       BookingStatus = "CANCELLED"
	StatusReadyForPayment BookingStatus = "READY_FOR_PAYMENT"
)

// BlockingStatuses occupy a cleaner's time.
var BlockingStatuses = []BookingStatus{StatusPending, StatusConfirmed, StatusInProgress}

// TerminalStatuses can no longer change assignment.
var TerminalStatuses = []BookingStatus{StatusCompleted, StatusCancelled}

// Blocks reports whether a booking in this status holds its cleaner's time.
func (s BookingStatus) Blocks() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusInProgress:
		return true
	}
	return false
}

func (s BookingStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CanTransition rejects any move out of a terminal status.
func (s BookingStatus) CanTransition(to BookingStatus) bool {
	if s.Terminal() {
		return s == to
	}
	return to != StatusDraft || s == StatusDraft
}

// Booking is a customer's request for a cleaning at an area, date and window.
type Booking struct {
	ID         string        `bson:"id" json:"id" gorm:"primaryKey;type:varchar(64)"`
	CustomerID string        `bson:"customerId" json:"customerId" gorm:"index;type:varchar(64)"`
	CleanerID  *string       `bson:"cleanerId" json:"cleanerId" gorm:"index;type:varchar(64)"` // nil until assigned
	AreaID     string        `bson:"areaId" json:"areaId" gorm:"type:varchar(64)"`
	ServiceID  string        `bson:"serviceId" json:"serviceId"`
	Date       string        `bson:"date" json:"date" gorm:"column:booking_date;index"` // "YYYY-MM-DD"
	Start      int           `bson:"start" json:"start" gorm:"column:start_minute"`     // minutes from midnight
	End        int           `bson:"end" json:"end" gorm:"column:end_minute"`           // minutes from midnight, exclusive
	Status     BookingStatus `bson:"status" json:"status" gorm:"type:varchar(32);index"`
	Bedrooms   int           `bson:"bedrooms" json:"bedrooms"`
	Bathrooms  int           `bson:"bathrooms" json:"bathrooms"`
	AutoAssign bool          `bson:"autoAssign" json:"autoAssign"`
	TotalPrice float64       `bson:"totalPrice" json:"totalPrice"`
	CreatedAt  time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time     `bson:"updatedAt" json:"updatedAt"`
}

// AssignedTo reports whether the booking is currently bound to cleanerID.
func (b *Booking) AssignedTo(cleanerID string) bool {
	return b.CleanerID != nil && *b.CleanerID == cleanerID
}
