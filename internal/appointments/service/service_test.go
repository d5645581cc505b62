package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"voicedesk_backend/internal/events"
	"voicedesk_backend/platform/logger"

	"github.com/google/uuid"
)

type fakeScheduler struct {
	scheduled []uuid.UUID
	err       error
}

func (f *fakeScheduler) ScheduleAppointmentReminder(_ context.Context, appointmentID, _ uuid.UUID, _, _ string, _ time.Time) error {
	if f.err != nil {
		return f.err
	}
	f.scheduled = append(f.scheduled, appointmentID)
	return nil
}

func bookedEvent() events.AppointmentBooked {
	return events.AppointmentBooked{
		BaseEvent:     events.NewBaseEvent(),
		TenantID:      uuid.New(),
		AppointmentID: uuid.New(),
		CallID:        "call-1",
		CustomerName:  "Ada Lovelace",
		CustomerPhone: "+12125550142",
		StartsAt:      time.Now().Add(48 * time.Hour),
	}
}

func TestHandleBookedSchedulesReminder(t *testing.T) {
	sched := &fakeScheduler{}
	svc := New(nil, sched, logger.New("test"))

	event := bookedEvent()
	if err := svc.HandleBooked(context.Background(), event); err != nil {
		t.Fatalf("handle booked: %v", err)
	}
	if len(sched.scheduled) != 1 || sched.scheduled[0] != event.AppointmentID {
		t.Fatalf("expected reminder for %s, got %v", event.AppointmentID, sched.scheduled)
	}
}

func TestHandleBookedNoScheduler(t *testing.T) {
	svc := New(nil, nil, logger.New("test"))
	if err := svc.HandleBooked(context.Background(), bookedEvent()); err != nil {
		t.Fatalf("nil scheduler must be a no-op, got %v", err)
	}
}

func TestHandleBookedSchedulerFailure(t *testing.T) {
	sched := &fakeScheduler{err: errors.New("redis down")}
	svc := New(nil, sched, logger.New("test"))
	if err := svc.HandleBooked(context.Background(), bookedEvent()); err == nil {
		t.Fatalf("expected scheduling error to surface to the bus")
	}
}
