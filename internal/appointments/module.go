// Package appointments provides the appointments bounded context
// module: dashboard listings, lifecycle updates and reminder
// scheduling for bookings captured by the ingestion pipeline.
package appointments

import (
	"context"

	"voicedesk_backend/internal/appointments/handler"
	"voicedesk_backend/internal/appointments/repository"
	"voicedesk_backend/internal/appointments/service"
	"voicedesk_backend/internal/events"
	apphttp "voicedesk_backend/internal/http"
	"voicedesk_backend/platform/logger"
	"voicedesk_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the appointments bounded context module implementing
// http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates the appointments module and subscribes it to
// booking events. sched may be nil when no task queue is configured.
func NewModule(pool *pgxpool.Pool, bus events.Bus, sched service.ReminderScheduler, log *logger.Logger, val *validator.Validator) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, sched, log)
	m := &Module{handler: handler.New(svc, val), service: svc}

	bus.Subscribe(events.AppointmentBooked{}.EventName(), events.HandlerFunc(
		func(ctx context.Context, event events.Event) error {
			booked, ok := event.(events.AppointmentBooked)
			if !ok {
				return nil
			}
			return svc.HandleBooked(ctx, booked)
		},
	))

	return m
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "appointments"
}

// RegisterRoutes mounts the appointment routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/appointments")
	group.GET("", m.handler.ListAppointments)
	group.PATCH("/:id/status", m.handler.UpdateStatus)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
