package bookingRepo

import (
	"context"
	"sync"
	"time"

	"sparkclean/models"

	"github.com/google/uuid"
)

// CleanerLookup reports whether a cleaner exists.
type CleanerLookup interface {
	HasCleaner(id string) bool
}

// MemoryBookingRepo keeps bookings in process memory. A single mutex makes
// AssignCleaner's check-and-write atomic.
type MemoryBookingRepo struct {
	mu       sync.Mutex
	bookings map[string]models.Booking
	cleaners CleanerLookup
}

// NewMemoryBookingRepo creates an empty store. cleaners may be nil, in which
// case cleaner existence is not checked.
func NewMemoryBookingRepo(cleaners CleanerLookup) *MemoryBookingRepo {
	return &MemoryBookingRepo{
		bookings: make(map[string]models.Booking),
		cleaners: cleaners,
	}
}

func (r *MemoryBookingRepo) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := cloneBooking(b)
	return &out, nil
}

func (r *MemoryBookingRepo) Create(ctx context.Context, booking *models.Booking) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if booking.ID == "" {
		booking.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	booking.CreatedAt, booking.UpdatedAt = now, now

	r.mu.Lock()
	defer r.mu.Unlock()
	r.bookings[booking.ID] = cloneBooking(*booking)
	return nil
}

func (r *MemoryBookingRepo) FindBlocking(ctx context.Context, q BlockingQuery) ([]models.Booking, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	wanted := make(map[string]struct{}, len(q.CleanerIDs))
	for _, id := range q.CleanerIDs {
		wanted[id] = struct{}{}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Booking
	for _, b := range r.bookings {
		if b.CleanerID == nil {
			continue
		}
		if _, ok := wanted[*b.CleanerID]; !ok {
			continue
		}
		if blocks(b, q.Date, q.Start, q.End, q.ExcludeBookingID) {
			out = append(out, cloneBooking(b))
		}
	}
	return out, nil
}

func (r *MemoryBookingRepo) AssignCleaner(ctx context.Context, p AssignParams) (*models.Booking, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.bookings[p.BookingID]
	if !ok {
		return nil, ErrNotFound
	}
	if r.cleaners != nil && !r.cleaners.HasCleaner(p.CleanerID) {
		return nil, ErrCleanerNotFound
	}
	for _, other := range r.bookings {
		if other.CleanerID != nil && *other.CleanerID == p.CleanerID && blocks(other, b.Date, b.Start, b.End, b.ID) {
			return nil, ErrCleanerBusy
		}
	}
	if b.Status.Terminal() || !cleanerMatches(b.CleanerID, p.ExpectedCleanerID) {
		return nil, ErrStaleBooking
	}

	cleanerID := p.CleanerID
	b.CleanerID = &cleanerID
	b.Status = p.Status
	b.UpdatedAt = time.Now().UTC()
	r.bookings[b.ID] = b

	out := cloneBooking(b)
	return &out, nil
}

func blocks(b models.Booking, date string, start, end int, exclude string) bool {
	return b.ID != exclude &&
		b.Date == date &&
		b.Status.Blocks() &&
		b.Start < end && start < b.End
}

func cleanerMatches(current, expected *string) bool {
	if expected == nil {
		return current == nil
	}
	return current != nil && *current == *expected
}

func cloneBooking(b models.Booking) models.Booking {
	if b.CleanerID != nil {
		id := *b.CleanerID
		b.CleanerID = &id
	}
	return b
}
