// Package transport defines the API shapes for the calls module.
package transport

import (
	"time"

	"voicedesk_backend/internal/calls/repository"

	"github.com/google/uuid"
)

// CallResponse is one call on the dashboard.
type CallResponse struct {
	ID              uuid.UUID  `json:"id"`
	CallID          string     `json:"callId"`
	AgentID         string     `json:"agentId"`
	AgentName       *string    `json:"agentName"`
	StartedAt       *time.Time `json:"startedAt"`
	EndedAt         *time.Time `json:"endedAt"`
	DurationSeconds *int64     `json:"durationSeconds"`
	RecordingURL    *string    `json:"recordingUrl"`
	CallCost        *float64   `json:"callCost"`
	Summary         *string    `json:"summary"`
	Sentiment       *string    `json:"sentiment"`
	Successful      *bool      `json:"successful"`
	Tags            []string   `json:"tags"`
	CreatedAt       time.Time  `json:"createdAt"`
}

// CallListResponse is a page of calls.
type CallListResponse struct {
	Calls  []CallResponse `json:"calls"`
	Total  int64          `json:"total"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
}

// StatsResponse carries the dashboard counters. ConversionRate is
// appointments over total calls, zero when there are no calls.
type StatsResponse struct {
	TotalCalls     int64   `json:"totalCalls"`
	Appointments   int64   `json:"appointments"`
	Handoffs       int64   `json:"handoffs"`
	ConversionRate float64 `json:"conversionRate"`
}

// HandoffResponse is one callback request.
type HandoffResponse struct {
	ID            uuid.UUID  `json:"id"`
	CallID        string     `json:"callId"`
	NeedsCallback bool       `json:"needsCallback"`
	Status        string     `json:"status"`
	Summary       *string    `json:"summary"`
	AgentID       *string    `json:"agentId"`
	CreatedAt     time.Time  `json:"createdAt"`
	ClosedAt      *time.Time `json:"closedAt"`
}

// UpdateHandoffRequest moves a handoff between open and closed.
type UpdateHandoffRequest struct {
	Status string `json:"status" validate:"required,oneof=open closed"`
}

// FromCall maps the storage model to the API shape. Tags never
// serialize as null.
func FromCall(call repository.Call) CallResponse {
	tags := call.Tags
	if tags == nil {
		tags = []string{}
	}
	return CallResponse{
		ID:              call.ID,
		CallID:          call.CallID,
		AgentID:         call.AgentID,
		AgentName:       call.AgentName,
		StartedAt:       call.StartedAt,
		EndedAt:         call.EndedAt,
		DurationSeconds: call.DurationSeconds,
		RecordingURL:    call.RecordingURL,
		CallCost:        call.CallCost,
		Summary:         call.Summary,
		Sentiment:       call.Sentiment,
		Successful:      call.Successful,
		Tags:            tags,
		CreatedAt:       call.CreatedAt,
	}
}

// FromHandoff maps the storage model to the API shape.
func FromHandoff(h repository.Handoff) HandoffResponse {
	return HandoffResponse{
		ID:            h.ID,
		CallID:        h.CallID,
		NeedsCallback: h.NeedsCallback,
		Status:        h.Status,
		Summary:       h.Summary,
		AgentID:       h.AgentID,
		CreatedAt:     h.CreatedAt,
		ClosedAt:      h.ClosedAt,
	}
}
