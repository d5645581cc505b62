// Package service implements the webhook ingestion pipeline: it
// receives call-lifecycle events from the external voice-agent platform
// and turns them into calls, handoffs and appointments.
package service

import (
	"bytes"
	"encoding/json"
	"time"

	"voicedesk_backend/platform/apperr"
)

// EventCallEnded is the only event type that mutates call state; every
// other event type is audit-logged and acknowledged.
const EventCallEnded = "call_ended"

// EventPayload is the typed shape of an inbound delivery. Every nested
// field is optional except event, call.call_id and agent_id; a field of
// the wrong JSON type fails decoding rather than being silently zeroed.
type EventPayload struct {
	Event        string               `json:"event"`
	AgentID      string               `json:"agent_id"`
	AgentName    string               `json:"agent_name"`
	Call         *CallPayload         `json:"call"`
	CallAnalysis *CallAnalysisPayload `json:"call_analysis"`
	Booking      *BookingPayload      `json:"booking"`
}

// CallPayload carries the call sub-object. Timestamps are epoch seconds.
type CallPayload struct {
	CallID              string   `json:"call_id"`
	StartTimestamp      *int64   `json:"start_timestamp"`
	EndTimestamp        *int64   `json:"end_timestamp"`
	RecordingURL        *string  `json:"recording_url"`
	CallCost            *float64 `json:"call_cost"`
	DisconnectionReason *string  `json:"disconnection_reason"`
}

// CallAnalysisPayload carries the agent's post-call analysis. A nil
// CallSuccessful means the agent did not report an outcome, which is
// distinct from false.
type CallAnalysisPayload struct {
	CallSummary    *string         `json:"call_summary"`
	UserSentiment  *string         `json:"user_sentiment"`
	CallSuccessful *bool           `json:"call_successful"`
	Handoff        *bool           `json:"handoff"`
	Booking        *BookingPayload `json:"booking"`
}

// BookingPayload carries the booking details for an appointment.
type BookingPayload struct {
	CustomerName  string    `json:"customer_name"`
	CustomerPhone string    `json:"customer_phone"`
	StartsAt      time.Time `json:"starts_at"`
}

const missingFieldsMsg = "missing required fields: event, call.call_id, agent_id"

// ParseEventPayload decodes and validates an inbound body. Either all
// three required fields are present or the delivery is rejected before
// any side effect occurs.
func ParseEventPayload(body []byte) (EventPayload, error) {
	var payload EventPayload
	dec := json.NewDecoder(bytes.NewReader(body))
	if err := dec.Decode(&payload); err != nil {
		return EventPayload{}, apperr.Wrap(apperr.KindBadRequest, "invalid payload", err)
	}

	if payload.Event == "" || payload.Call == nil || payload.Call.CallID == "" || payload.AgentID == "" {
		return EventPayload{}, apperr.BadRequest(missingFieldsMsg)
	}

	return payload, nil
}

// EffectiveBooking returns the booking object the classifier looks at:
// top level first, then inside the call analysis.
func (p EventPayload) EffectiveBooking() *BookingPayload {
	if p.Booking != nil {
		return p.Booking
	}
	if p.CallAnalysis != nil {
		return p.CallAnalysis.Booking
	}
	return nil
}
