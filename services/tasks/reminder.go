package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"sparkclean/models"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const TypeSendReminder = "reminder:send"

func NewReminderTask(payload models.ReminderPayload, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeSendReminder, b)
	opts := []asynq.Option{
		asynq.ProcessAt(fireAt),
		asynq.TaskID(reminderTaskID(payload.BookingID)),
		asynq.MaxRetry(5),
	}
	return task, opts, nil
}

func reminderTaskID(bookingID string) string {
	return "reminder:" + bookingID
}

// Enqueuer is the part of *asynq.Client the scheduler needs.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// ReminderScheduler queues a reminder for the assigned cleaner Lead before the
// booking starts. It is registered as an assignment listener.
type ReminderScheduler struct {
	Client   Enqueuer
	Lead     time.Duration
	Location *time.Location // zone booking dates are expressed in; UTC when nil
	Now      func() time.Time
	Logger   *zap.Logger
}

func (r *ReminderScheduler) BookingAssigned(ctx context.Context, booking models.Booking) error {
	if booking.CleanerID == nil {
		return nil
	}
	loc := r.Location
	if loc == nil {
		loc = time.UTC
	}
	day, err := time.ParseInLocation("2006-01-02", booking.Date, loc)
	if err != nil {
		return fmt.Errorf("reminder for booking %s: %w", booking.ID, err)
	}
	start := day.Add(time.Duration(booking.Start) * time.Minute)

	now := time.Now()
	if r.Now != nil {
		now = r.Now()
	}
	if !start.After(now) {
		r.logger().Debug("reminder skipped: booking already started", zap.String("bookingId", booking.ID))
		return nil
	}
	fireAt := start.Add(-r.Lead)
	if fireAt.Before(now) {
		fireAt = now
	}

	payload := models.ReminderPayload{
		BookingID: booking.ID,
		CleanerID: *booking.CleanerID,
		AreaID:    booking.AreaID,
		Date:      booking.Date,
		Start:     booking.Start,
		FireDate:  fireAt.UTC().Format(time.RFC3339),
		Title:     "Upcoming cleaning",
		Body:      fmt.Sprintf("You have a cleaning on %s at %02d:%02d", booking.Date, booking.Start/60, booking.Start%60),
	}
	task, opts, err := NewReminderTask(payload, fireAt)
	if err != nil {
		return fmt.Errorf("reminder for booking %s: %w", booking.ID, err)
	}
	if _, err := r.Client.EnqueueContext(ctx, task, opts...); err != nil {
		if errors.Is(err, asynq.ErrTaskIDConflict) {
			return nil
		}
		return fmt.Errorf("enqueue reminder for booking %s: %w", booking.ID, err)
	}
	r.logger().Info("reminder scheduled", zap.String("bookingId", booking.ID), zap.Time("fireAt", fireAt))
	return nil
}

func (r *ReminderScheduler) logger() *zap.Logger {
	if r.Logger == nil {
		return zap.NewNop()
	}
	return r.Logger
}
