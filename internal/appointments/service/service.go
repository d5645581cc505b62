// Package service implements appointment listing, lifecycle updates and
// reminder scheduling for freshly booked appointments.
package service

import (
	"context"
	"time"

	"voicedesk_backend/internal/appointments/repository"
	"voicedesk_backend/internal/appointments/transport"
	"voicedesk_backend/internal/events"
	"voicedesk_backend/platform/apperr"
	"voicedesk_backend/platform/logger"

	"github.com/google/uuid"
)

// ReminderScheduler enqueues a customer reminder ahead of an
// appointment. The asynq-backed client implements it; a nil scheduler
// disables reminders.
type ReminderScheduler interface {
	ScheduleAppointmentReminder(ctx context.Context, appointmentID, tenantID uuid.UUID, customerName, customerPhone string, startsAt time.Time) error
}

type Service struct {
	repo  *repository.Repository
	sched ReminderScheduler
	log   *logger.Logger
}

func New(repo *repository.Repository, sched ReminderScheduler, log *logger.Logger) *Service {
	return &Service{repo: repo, sched: sched, log: log}
}

// List returns the tenant's appointments for the requested window.
func (s *Service) List(ctx context.Context, tenantID uuid.UUID, window string) ([]transport.AppointmentResponse, error) {
	switch window {
	case "", "upcoming", "past":
	default:
		return nil, apperr.Validation("unknown window, want upcoming or past")
	}

	appointments, err := s.repo.List(ctx, tenantID, window)
	if err != nil {
		return nil, err
	}

	resp := make([]transport.AppointmentResponse, 0, len(appointments))
	for _, appt := range appointments {
		resp = append(resp, transport.FromAppointment(appt))
	}
	return resp, nil
}

// SetStatus moves an appointment through its lifecycle.
func (s *Service) SetStatus(ctx context.Context, tenantID, id uuid.UUID, status string) (transport.AppointmentResponse, error) {
	appt, err := s.repo.SetStatus(ctx, tenantID, id, status)
	if err != nil {
		return transport.AppointmentResponse{}, err
	}
	return transport.FromAppointment(appt), nil
}

// HandleBooked schedules a reminder for a newly captured appointment.
// Scheduling is best-effort: the booking is already committed, so a
// broken queue must not fail ingestion.
func (s *Service) HandleBooked(ctx context.Context, event events.AppointmentBooked) error {
	if s.sched == nil {
		return nil
	}

	err := s.sched.ScheduleAppointmentReminder(ctx,
		event.AppointmentID, event.TenantID,
		event.CustomerName, event.CustomerPhone, event.StartsAt,
	)
	if err != nil {
		s.log.Error("schedule appointment reminder failed",
			"appointment_id", event.AppointmentID,
			"error", err,
		)
		return err
	}
	return nil
}
