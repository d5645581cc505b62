package scheduler

import (
	"context"
	"encoding/json"
	"fmt"

	"voicedesk_backend/internal/events"
	"voicedesk_backend/platform/config"
	"voicedesk_backend/platform/logger"

	"github.com/hibiken/asynq"
)

// Worker consumes due reminder tasks and republishes them as domain
// events for the notification module to act on.
type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
}

// NewWorker builds the asynq server and registers task handlers.
func NewWorker(cfg config.SchedulerConfig, bus events.Bus, log *logger.Logger) (*Worker, error) {
	opt, err := redisClientOpt(cfg)
	if err != nil {
		return nil, err
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: cfg.GetAsynqConcurrency(),
		Queues:      map[string]int{cfg.GetAsynqQueueName(): 1},
		Logger:      asynqLogger{log},
	})

	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskAppointmentReminder, reminderHandler(bus, log))

	return &Worker{server: server, mux: mux}, nil
}

// Run processes tasks until Shutdown is called.
func (w *Worker) Run() error {
	return w.server.Run(w.mux)
}

// Shutdown waits for in-flight tasks and stops the server.
func (w *Worker) Shutdown() {
	w.server.Shutdown()
}

func reminderHandler(bus events.Bus, log *logger.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var payload AppointmentReminderPayload
		if err := json.Unmarshal(task.Payload(), &payload); err != nil {
			// A payload that never parses will never parse; do not retry.
			return fmt.Errorf("decode reminder payload: %w: %w", err, asynq.SkipRetry)
		}

		log.Info("appointment reminder due",
			"appointment_id", payload.AppointmentID,
			"starts_at", payload.StartsAt,
		)

		return bus.PublishSync(ctx, events.AppointmentReminderDue{
			BaseEvent:     events.NewBaseEvent(),
			AppointmentID: payload.AppointmentID,
			TenantID:      payload.TenantID,
			CustomerName:  payload.CustomerName,
			CustomerPhone: payload.CustomerPhone,
			StartsAt:      payload.StartsAt,
		})
	}
}

// asynqLogger adapts the application logger to asynq's interface.
type asynqLogger struct {
	log *logger.Logger
}

func (l asynqLogger) Debug(args ...interface{}) { l.log.Debug(fmt.Sprint(args...)) }
func (l asynqLogger) Info(args ...interface{})  { l.log.Info(fmt.Sprint(args...)) }
func (l asynqLogger) Warn(args ...interface{})  { l.log.Warn(fmt.Sprint(args...)) }
func (l asynqLogger) Error(args ...interface{}) { l.log.Error(fmt.Sprint(args...)) }
func (l asynqLogger) Fatal(args ...interface{}) {
	l.log.Error(fmt.Sprint(args...))
}
