package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"sparkclean/models"
	"sparkclean/services/tasks"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

var zeroTime time.Time

type recordingNotifier struct {
	reminders []models.ReminderPayload
	err       error
}

func (n *recordingNotifier) BookingAssigned(context.Context, models.Booking) error { return nil }

func (n *recordingNotifier) ReminderDue(_ context.Context, p models.ReminderPayload) error {
	n.reminders = append(n.reminders, p)
	return n.err
}

func TestHandleReminderTask(t *testing.T) {
	n := &recordingNotifier{}
	task, _, err := tasks.NewReminderTask(models.ReminderPayload{BookingID: "b-1", CleanerID: "c-1"}, zeroTime)
	if err != nil {
		t.Fatalf("NewReminderTask = %v", err)
	}
	if err := HandleReminderTask(n, zap.NewNop())(context.Background(), task); err != nil {
		t.Fatalf("handler = %v", err)
	}
	if len(n.reminders) != 1 || n.reminders[0].BookingID != "b-1" {
		t.Fatalf("notifier saw %+v", n.reminders)
	}
}

func TestHandleReminderTaskBadPayloadSkipsRetry(t *testing.T) {
	n := &recordingNotifier{}
	task := asynq.NewTask(tasks.TypeSendReminder, []byte("{not json"))
	err := HandleReminderTask(n, zap.NewNop())(context.Background(), task)
	if !errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("err = %v, want SkipRetry", err)
	}
	if len(n.reminders) != 0 {
		t.Fatalf("notifier called for a bad payload")
	}
}

func TestHandleReminderTaskDeliveryFailureRetries(t *testing.T) {
	boom := errors.New("broker down")
	n := &recordingNotifier{err: boom}
	task, _, _ := tasks.NewReminderTask(models.ReminderPayload{BookingID: "b-1"}, zeroTime)
	err := HandleReminderTask(n, zap.NewNop())(context.Background(), task)
	if !errors.Is(err, boom) || errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("err = %v, want retryable %v", err, boom)
	}
}
