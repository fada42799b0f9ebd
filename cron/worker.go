package cron

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"sparkclean/config"
	"sparkclean/models"
	"sparkclean/services/notification"
	"sparkclean/services/tasks"
	"sparkclean/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// RedisOpt is the asynq connection shared by the client and the worker.
func RedisOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}
}

// InitReminderWorker runs the async worker in background and returns it for shutdown.
func InitReminderWorker(notifier notification.Notifier) *asynq.Server {
	logger := utils.GetLogger().Named("reminder-worker")

	srv := asynq.NewServer(
		RedisOpt(),
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeSendReminder, HandleReminderTask(notifier, logger))

	// Start async worker with retry logic
	go func() {
		logger.Info("Starting async worker")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			err := srv.Start(mux)
			if err == nil {
				return
			}
			logger.Warn("Worker failed to start", zap.Int("attempt", attempts), zap.Error(err))
			if attempts == maxAttempts {
				logger.Error("Max retry attempts reached, reminders disabled")
				return
			}
			time.Sleep(time.Duration(attempts*2) * time.Second)
		}
	}()
	return srv
}

// HandleReminderTask forwards a due reminder to the notifier.
func HandleReminderTask(notifier notification.Notifier, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p models.ReminderPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			logger.Error("Invalid reminder payload", zap.Error(err))
			// Malformed payloads never succeed; skip retries.
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}

		logger.Info("Triggering reminder",
			zap.String("bookingId", p.BookingID),
			zap.String("cleanerId", p.CleanerID),
			zap.String("fireDate", p.FireDate),
		)
		if err := notifier.ReminderDue(ctx, p); err != nil {
			logger.Warn("Failed to deliver reminder", zap.String("bookingId", p.BookingID), zap.Error(err))
			return err
		}
		return nil
	}
}
