package notification

import (
	"context"
	"fmt"
	"time"

	"sparkclean/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Routing keys on the domain event exchange.
const (
	RoutingBookingAssigned = "booking.assigned"
	RoutingReminderDue     = "booking.reminder_due"
)

// Publisher sends a JSON payload under a routing key.
type Publisher interface {
	PublishJSON(ctx context.Context, key string, v any) error
	Close() error
}

// Notifier hands booking events to the delivery collaborators.
type Notifier interface {
	BookingAssigned(ctx context.Context, booking models.Booking) error
	ReminderDue(ctx context.Context, reminder models.ReminderPayload) error
}

// DefaultNotifier publishes booking events through a Publisher.
type DefaultNotifier struct {
	publisher Publisher
	logger    *zap.Logger
}

func NewDefaultNotifier(publisher Publisher, logger *zap.Logger) (*DefaultNotifier, error) {
	if publisher == nil {
		return nil, fmt.Errorf("notification service initialization error: publisher is nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultNotifier{publisher: publisher, logger: logger}, nil
}

// BookingAssigned publishes booking.assigned for a committed assignment.
func (n *DefaultNotifier) BookingAssigned(ctx context.Context, booking models.Booking) error {
	event := models.BookingEvent{
		EventID:    uuid.NewString(),
		Type:       RoutingBookingAssigned,
		BookingID:  booking.ID,
		CustomerID: booking.CustomerID,
		AreaID:     booking.AreaID,
		Date:       booking.Date,
		Start:      booking.Start,
		End:        booking.End,
		Status:     booking.Status,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	}
	if booking.CleanerID != nil {
		event.CleanerID = *booking.CleanerID
	}
	if err := n.publisher.PublishJSON(ctx, RoutingBookingAssigned, event); err != nil {
		return fmt.Errorf("publish %s for booking %s: %w", RoutingBookingAssigned, booking.ID, err)
	}
	n.logger.Debug("event published", zap.String("key", RoutingBookingAssigned), zap.String("bookingId", booking.ID))
	return nil
}

// ReminderDue publishes booking.reminder_due when a scheduled reminder fires.
func (n *DefaultNotifier) ReminderDue(ctx context.Context, reminder models.ReminderPayload) error {
	if err := n.publisher.PublishJSON(ctx, RoutingReminderDue, reminder); err != nil {
		return fmt.Errorf("publish %s for booking %s: %w", RoutingReminderDue, reminder.BookingID, err)
	}
	n.logger.Debug("event published", zap.String("key", RoutingReminderDue), zap.String("bookingId", reminder.BookingID))
	return nil
}

// LogPublisher writes events to the log. Used when no broker is configured.
type LogPublisher struct {
	Logger *zap.Logger
}

func (p LogPublisher) PublishJSON(_ context.Context, key string, v any) error {
	p.Logger.Info("event (no broker configured)", zap.String("key", key), zap.Any("payload", v))
	return nil
}

func (LogPublisher) Close() error { return nil }
