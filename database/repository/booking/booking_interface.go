package bookingRepo

import (
	"context"
	"errors"

	"sparkclean/models"
)

var (
	ErrNotFound        = errors.New("booking not found")
	ErrStaleBooking    = errors.New("booking was assigned or closed concurrently")
	ErrCleanerBusy     = errors.New("cleaner has an overlapping booking")
	ErrCleanerNotFound = errors.New("cleaner not found")
)

// BlockingQuery selects bookings that hold any of CleanerIDs during [Start, End) on Date.
type BlockingQuery struct {
	CleanerIDs       []string
	Date             string
	Start            int
	End              int
	ExcludeBookingID string // the booking being assigned never blocks itself
}

// AssignParams describes a conditional cleaner binding.
type AssignParams struct {
	BookingID string
	CleanerID string
	// ExpectedCleanerID is the cleaner_id the booking must currently hold;
	// nil requires the booking to be unassigned.
	ExpectedCleanerID *string
	Status            models.BookingStatus
}

// BookingRepository defines the data access methods used by conflict filtering and assignment.
type BookingRepository interface {
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	Create(ctx context.Context, booking *models.Booking) error
	// FindBlocking returns bookings in a blocking status that overlap the query window.
	FindBlocking(ctx context.Context, q BlockingQuery) ([]models.Booking, error)
	// AssignCleaner atomically binds a cleaner to a booking. It fails with
	// ErrNotFound, ErrCleanerNotFound, ErrCleanerBusy when the cleaner holds an
	// overlapping blocking booking, or ErrStaleBooking when the booking no
	// longer matches ExpectedCleanerID or is terminal.
	AssignCleaner(ctx context.Context, p AssignParams) (*models.Booking, error)
}

func statusStrings(statuses []models.BookingStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}
