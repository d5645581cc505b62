package scheduler

import (
	"context"
	"testing"
	"time"

	"voicedesk_backend/platform/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
)

type testConfig struct {
	url string
}

func (c testConfig) GetRedisURL() string       { return c.url }
func (c testConfig) GetRedisTLSInsecure() bool { return false }
func (c testConfig) GetAsynqQueueName() string { return "voicedesk" }
func (c testConfig) GetAsynqConcurrency() int  { return 1 }

func newTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)

	client, err := NewClient(testConfig{url: "redis://" + mr.Addr()}, logger.New("test"))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return client, mr
}

func TestScheduleAppointmentReminder(t *testing.T) {
	client, mr := newTestClient(t)

	err := client.ScheduleAppointmentReminder(context.Background(),
		uuid.New(), uuid.New(), "Ada Lovelace", "+12125550142",
		time.Now().Add(48*time.Hour),
	)
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}
	if len(mr.Keys()) == 0 {
		t.Fatalf("expected the task to land in redis")
	}
}

func TestScheduleAppointmentReminderIdempotent(t *testing.T) {
	client, _ := newTestClient(t)

	appointmentID := uuid.New()
	startsAt := time.Now().Add(48 * time.Hour)
	for i := 0; i < 2; i++ {
		err := client.ScheduleAppointmentReminder(context.Background(),
			appointmentID, uuid.New(), "Ada Lovelace", "+12125550142", startsAt,
		)
		if err != nil {
			t.Fatalf("schedule %d: %v", i, err)
		}
	}
}

func TestScheduleAppointmentReminderTooSoon(t *testing.T) {
	client, mr := newTestClient(t)

	// Starts within the reminder lead, so no task is enqueued.
	err := client.ScheduleAppointmentReminder(context.Background(),
		uuid.New(), uuid.New(), "Ada Lovelace", "+12125550142",
		time.Now().Add(time.Hour),
	)
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}
	if len(mr.Keys()) != 0 {
		t.Fatalf("expected no task for an appointment starting too soon")
	}
}
