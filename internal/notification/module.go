// Package notification turns domain events into outbound email: a
// handoff alert when a caller needs a human, and appointment reminders
// when the scheduler says one is due. It exposes no HTTP routes.
package notification

import (
	"context"

	"voicedesk_backend/internal/email"
	"voicedesk_backend/internal/events"
	"voicedesk_backend/platform/logger"

	"github.com/google/uuid"
)

// TenantDirectory resolves where a tenant wants to be notified.
type TenantDirectory interface {
	GetNotificationEmail(ctx context.Context, tenantID uuid.UUID) (businessName, email string, err error)
}

// Module wires event subscriptions to the email sender.
type Module struct {
	tenants TenantDirectory
	mail    email.Sender
	log     *logger.Logger
}

// NewModule creates the notification module and subscribes it to the
// events it acts on.
func NewModule(bus events.Bus, tenants TenantDirectory, mail email.Sender, log *logger.Logger) *Module {
	m := &Module{tenants: tenants, mail: mail, log: log}

	bus.Subscribe(events.HandoffOpened{}.EventName(), events.HandlerFunc(m.onHandoffOpened))
	bus.Subscribe(events.AppointmentReminderDue{}.EventName(), events.HandlerFunc(m.onReminderDue))

	return m
}

func (m *Module) onHandoffOpened(ctx context.Context, event events.Event) error {
	opened, ok := event.(events.HandoffOpened)
	if !ok {
		return nil
	}

	businessName, toEmail, err := m.tenants.GetNotificationEmail(ctx, opened.TenantID)
	if err != nil {
		m.log.Error("handoff alert: resolve notification email failed",
			"tenant_id", opened.TenantID,
			"error", err,
		)
		return err
	}
	if toEmail == "" {
		m.log.Warn("handoff alert skipped, tenant has no notification email",
			"tenant_id", opened.TenantID,
		)
		return nil
	}

	return m.mail.SendHandoffAlertEmail(ctx, toEmail, businessName, opened.CallID, opened.Summary)
}

func (m *Module) onReminderDue(ctx context.Context, event events.Event) error {
	due, ok := event.(events.AppointmentReminderDue)
	if !ok {
		return nil
	}

	_, toEmail, err := m.tenants.GetNotificationEmail(ctx, due.TenantID)
	if err != nil {
		m.log.Error("appointment reminder: resolve notification email failed",
			"tenant_id", due.TenantID,
			"error", err,
		)
		return err
	}
	if toEmail == "" {
		m.log.Warn("appointment reminder skipped, tenant has no notification email",
			"tenant_id", due.TenantID,
		)
		return nil
	}

	return m.mail.SendAppointmentReminderEmail(ctx, toEmail, due.CustomerName, due.CustomerPhone, due.StartsAt)
}
