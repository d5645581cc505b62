package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"voicedesk_backend/platform/config"
	"voicedesk_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
)

// Reminders fire this long before the appointment starts.
const reminderLead = 24 * time.Hour

const taskMaxRetry = 5

// Client enqueues delayed reminder tasks.
type Client struct {
	client *asynq.Client
	queue  string
	log    *logger.Logger
}

// NewClient connects the task queue client to Redis.
func NewClient(cfg config.SchedulerConfig, log *logger.Logger) (*Client, error) {
	opt, err := redisClientOpt(cfg)
	if err != nil {
		return nil, err
	}
	return &Client{
		client: asynq.NewClient(opt),
		queue:  cfg.GetAsynqQueueName(),
		log:    log,
	}, nil
}

// ScheduleAppointmentReminder enqueues a reminder to fire ahead of the
// appointment. Appointments starting too soon get no reminder, and a
// task id collision means the reminder already exists.
func (c *Client) ScheduleAppointmentReminder(ctx context.Context, appointmentID, tenantID uuid.UUID, customerName, customerPhone string, startsAt time.Time) error {
	remindAt := startsAt.Add(-reminderLead)
	if remindAt.Before(time.Now()) {
		c.log.Debug("appointment starts too soon for a reminder",
			"appointment_id", appointmentID,
			"starts_at", startsAt,
		)
		return nil
	}

	task, err := NewAppointmentReminderTask(AppointmentReminderPayload{
		AppointmentID: appointmentID,
		TenantID:      tenantID,
		CustomerName:  customerName,
		CustomerPhone: customerPhone,
		StartsAt:      startsAt,
	})
	if err != nil {
		return fmt.Errorf("build reminder task: %w", err)
	}

	_, err = c.client.EnqueueContext(ctx, task,
		asynq.Queue(c.queue),
		asynq.ProcessAt(remindAt),
		asynq.MaxRetry(taskMaxRetry),
		asynq.TaskID(appointmentID.String()),
	)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("enqueue reminder: %w", err)
	}

	c.log.Info("appointment reminder scheduled",
		"appointment_id", appointmentID,
		"remind_at", remindAt,
	)
	return nil
}

// Close releases the Redis connection.
func (c *Client) Close() error {
	return c.client.Close()
}

// redisClientOpt translates a redis:// or rediss:// URL into asynq
// connection options.
func redisClientOpt(cfg config.SchedulerConfig) (asynq.RedisClientOpt, error) {
	opt, err := redis.ParseURL(cfg.GetRedisURL())
	if err != nil {
		return asynq.RedisClientOpt{}, fmt.Errorf("parse redis url: %w", err)
	}

	tlsConfig := opt.TLSConfig
	if tlsConfig != nil && cfg.GetRedisTLSInsecure() {
		tlsConfig.InsecureSkipVerify = true
	}

	return asynq.RedisClientOpt{
		Addr:      opt.Addr,
		Username:  opt.Username,
		Password:  opt.Password,
		DB:        opt.DB,
		TLSConfig: tlsConfig,
	}, nil
}
