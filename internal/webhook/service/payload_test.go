package service

import (
	"testing"

	"voicedesk_backend/platform/apperr"
)

func TestParseEventPayload(t *testing.T) {
	body := []byte(`{
		"event": "call_ended",
		"agent_id": "agent-1",
		"agent_name": "Front Desk",
		"call": {
			"call_id": "call-1",
			"start_timestamp": 1700000000,
			"end_timestamp": 1700000600,
			"disconnection_reason": "caller_hangup"
		},
		"call_analysis": {
			"call_summary": "Asked about opening hours",
			"call_successful": true
		}
	}`)

	payload, err := ParseEventPayload(body)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if payload.Event != "call_ended" || payload.AgentID != "agent-1" {
		t.Fatalf("unexpected payload: %+v", payload)
	}
	if payload.Call.CallID != "call-1" || *payload.Call.StartTimestamp != 1700000000 {
		t.Fatalf("unexpected call: %+v", payload.Call)
	}
	if payload.CallAnalysis == nil || !*payload.CallAnalysis.CallSuccessful {
		t.Fatalf("unexpected analysis: %+v", payload.CallAnalysis)
	}
}

func TestParseEventPayloadRejectsWrongTypes(t *testing.T) {
	// A numeric agent_id must fail decoding, not be coerced.
	_, err := ParseEventPayload([]byte(`{"event":"call_ended","agent_id":42,"call":{"call_id":"c"}}`))
	if !apperr.Is(err, apperr.KindBadRequest) {
		t.Fatalf("expected bad request, got %v", err)
	}
}

func TestEffectiveBookingPrefersTopLevel(t *testing.T) {
	top := &BookingPayload{CustomerName: "top"}
	nested := &BookingPayload{CustomerName: "nested"}

	p := EventPayload{Booking: top, CallAnalysis: &CallAnalysisPayload{Booking: nested}}
	if p.EffectiveBooking() != top {
		t.Fatalf("expected top level booking to win")
	}

	p = EventPayload{CallAnalysis: &CallAnalysisPayload{Booking: nested}}
	if p.EffectiveBooking() != nested {
		t.Fatalf("expected analysis booking fallback")
	}

	if (EventPayload{}).EffectiveBooking() != nil {
		t.Fatalf("expected nil when no booking anywhere")
	}
}
