package booking

import (
	"context"

	"sparkclean/models"
)

// AssignmentListener is told about every committed assignment. Errors are
// logged by the caller and never undo the assignment.
type AssignmentListener interface {
	BookingAssigned(ctx context.Context, booking models.Booking) error
}

// ListenerFunc adapts a function to AssignmentListener.
type ListenerFunc func(ctx context.Context, booking models.Booking) error

func (f ListenerFunc) BookingAssigned(ctx context.Context, booking models.Booking) error {
	return f(ctx, booking)
}
