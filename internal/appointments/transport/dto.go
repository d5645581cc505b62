// Package transport defines the API shapes for the appointments module.
package transport

import (
	"time"

	"voicedesk_backend/internal/appointments/repository"

	"github.com/google/uuid"
)

// AppointmentResponse is one appointment on the dashboard.
type AppointmentResponse struct {
	ID            uuid.UUID `json:"id"`
	CallID        string    `json:"callId"`
	CustomerName  string    `json:"customerName"`
	CustomerPhone string    `json:"customerPhone"`
	StartsAt      time.Time `json:"startsAt"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"createdAt"`
}

// UpdateStatusRequest moves an appointment through its lifecycle.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=scheduled confirmed cancelled"`
}

// FromAppointment maps the storage model to the API shape.
func FromAppointment(appt repository.Appointment) AppointmentResponse {
	return AppointmentResponse{
		ID:            appt.ID,
		CallID:        appt.CallID,
		CustomerName:  appt.CustomerName,
		CustomerPhone: appt.CustomerPhone,
		StartsAt:      appt.StartsAt,
		Status:        appt.Status,
		CreatedAt:     appt.CreatedAt,
	}
}
