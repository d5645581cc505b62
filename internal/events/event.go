// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) lives in platform/events.
package events

import (
	"time"

	"voicedesk_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var (
	NewBaseEvent   = events.NewBaseEvent
	NewInMemoryBus = events.NewInMemoryBus
)

// =============================================================================
// Auth Domain Events
// =============================================================================

// UserSignedUp is published when a new user successfully registers.
type UserSignedUp struct {
	BaseEvent
	UserID      uuid.UUID `json:"userId"`
	TenantID    uuid.UUID `json:"tenantId"`
	Email       string    `json:"email"`
	VerifyToken string    `json:"verifyToken"`
}

func (e UserSignedUp) EventName() string { return "auth.user.signed_up" }

// =============================================================================
// Webhook Ingestion Events
// =============================================================================

// CallIngested is published after a call_ended delivery has been
// committed to the database.
type CallIngested struct {
	BaseEvent
	TenantID  uuid.UUID `json:"tenantId"`
	CallID    string    `json:"callId"`
	AgentID   string    `json:"agentId"`
	AgentName string    `json:"agentName,omitempty"`
	Tags      []string  `json:"tags"`
}

func (e CallIngested) EventName() string { return "webhook.call.ingested" }

// HandoffOpened is published when a delivery opens a handoff that did
// not previously exist for the call.
type HandoffOpened struct {
	BaseEvent
	TenantID uuid.UUID `json:"tenantId"`
	CallID   string    `json:"callId"`
	Summary  string    `json:"summary,omitempty"`
}

func (e HandoffOpened) EventName() string { return "webhook.handoff.opened" }

// AppointmentBooked is published when a delivery carries booking data.
type AppointmentBooked struct {
	BaseEvent
	TenantID      uuid.UUID `json:"tenantId"`
	AppointmentID uuid.UUID `json:"appointmentId"`
	CallID        string    `json:"callId"`
	CustomerName  string    `json:"customerName"`
	CustomerPhone string    `json:"customerPhone"`
	StartsAt      time.Time `json:"startsAt"`
}

func (e AppointmentBooked) EventName() string { return "webhook.appointment.booked" }

// =============================================================================
// Scheduler Events
// =============================================================================

// AppointmentReminderDue is published by the worker when a scheduled
// reminder task fires and the appointment is still upcoming.
type AppointmentReminderDue struct {
	BaseEvent
	AppointmentID uuid.UUID `json:"appointmentId"`
	TenantID      uuid.UUID `json:"tenantId"`
	CustomerName  string    `json:"customerName"`
	CustomerPhone string    `json:"customerPhone"`
	StartsAt      time.Time `json:"startsAt"`
}

func (e AppointmentReminderDue) EventName() string { return "appointments.reminder.due" }
