// Package scheduler provides the asynq-backed task queue used for
// appointment reminders: a client that enqueues delayed tasks and a
// worker that turns due tasks back into domain events.
package scheduler

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// TaskAppointmentReminder is the task type for customer reminders.
const TaskAppointmentReminder = "appointment:reminder"

// AppointmentReminderPayload is the task body for a reminder.
type AppointmentReminderPayload struct {
	AppointmentID uuid.UUID `json:"appointmentId"`
	TenantID      uuid.UUID `json:"tenantId"`
	CustomerName  string    `json:"customerName"`
	CustomerPhone string    `json:"customerPhone"`
	StartsAt      time.Time `json:"startsAt"`
}

// NewAppointmentReminderTask builds the asynq task for a reminder.
func NewAppointmentReminderTask(payload AppointmentReminderPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskAppointmentReminder, data), nil
}
