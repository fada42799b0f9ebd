package booking

import (
	"context"
	"fmt"

	bookingRepo "sparkclean/database/repository/booking"
)

// ConflictFilter removes cleaners already committed elsewhere during a window.
type ConflictFilter interface {
	ExcludeConflicting(ctx context.Context, ids []string, w TimeWindow, excludeBookingID string) ([]string, error)
}

// DefaultConflictFilter implements ConflictFilter on the booking repository.
type DefaultConflictFilter struct {
	Bookings bookingRepo.BookingRepository
}

// ExcludeConflicting keeps the ids, in input order, that hold no PENDING,
// CONFIRMED or IN_PROGRESS booking overlapping w. The booking named by
// excludeBookingID is ignored so a booking never conflicts with itself.
func (f *DefaultConflictFilter) ExcludeConflicting(ctx context.Context, ids []string, w TimeWindow, excludeBookingID string) ([]string, error) {
	if len(ids) == 0 {
		return []string{}, nil
	}
	blocking, err := f.Bookings.FindBlocking(ctx, bookingRepo.BlockingQuery{
		CleanerIDs:       ids,
		Date:             w.Date,
		Start:            w.Start,
		End:              w.End,
		ExcludeBookingID: excludeBookingID,
	})
	if err != nil {
		return nil, fmt.Errorf("conflict filter: %w", err)
	}

	busy := make(map[string]struct{}, len(blocking))
	for _, b := range blocking {
		// Re-apply the rule; drivers only narrow the candidate rows.
		if b.CleanerID == nil || b.ID == excludeBookingID || b.Date != w.Date || !b.Status.Blocks() {
			continue
		}
		if Overlaps(b.Start, b.End, w.Start, w.End) {
			busy[*b.CleanerID] = struct{}{}
		}
	}

	free := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := busy[id]; !ok {
			free = append(free, id)
		}
	}
	return free, nil
}
