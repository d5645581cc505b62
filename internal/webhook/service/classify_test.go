package service

import (
	"fmt"
	"testing"

	"voicedesk_backend/internal/calls/domain"
)

func boolPtr(b bool) *bool    { return &b }
func strPtr(s string) *string { return &s }

func TestClassify(t *testing.T) {
	cases := []struct {
		name    string
		payload EventPayload
		want    []domain.Tag
	}{
		{
			name:    "no signals no tags",
			payload: EventPayload{Call: &CallPayload{CallID: "c"}},
			want:    nil,
		},
		{
			name: "top level booking",
			payload: EventPayload{
				Call:    &CallPayload{CallID: "c"},
				Booking: &BookingPayload{CustomerName: "Ada"},
			},
			want: []domain.Tag{domain.TagAppointment},
		},
		{
			name: "analysis booking",
			payload: EventPayload{
				Call:         &CallPayload{CallID: "c"},
				CallAnalysis: &CallAnalysisPayload{Booking: &BookingPayload{CustomerName: "Ada"}},
			},
			want: []domain.Tag{domain.TagAppointment},
		},
		{
			name: "handoff from disconnection reason case insensitive",
			payload: EventPayload{
				Call: &CallPayload{CallID: "c", DisconnectionReason: strPtr("agent_HANDOFF_requested")},
			},
			want: []domain.Tag{domain.TagHandoff},
		},
		{
			name: "handoff from analysis flag",
			payload: EventPayload{
				Call:         &CallPayload{CallID: "c"},
				CallAnalysis: &CallAnalysisPayload{Handoff: boolPtr(true)},
			},
			want: []domain.Tag{domain.TagHandoff},
		},
		{
			name: "analysis handoff false is not a handoff",
			payload: EventPayload{
				Call:         &CallPayload{CallID: "c"},
				CallAnalysis: &CallAnalysisPayload{Handoff: boolPtr(false)},
			},
			want: nil,
		},
		{
			name: "successful call",
			payload: EventPayload{
				Call:         &CallPayload{CallID: "c"},
				CallAnalysis: &CallAnalysisPayload{CallSuccessful: boolPtr(true)},
			},
			want: []domain.Tag{domain.TagCompleted},
		},
		{
			name: "unsuccessful call",
			payload: EventPayload{
				Call:         &CallPayload{CallID: "c"},
				CallAnalysis: &CallAnalysisPayload{CallSuccessful: boolPtr(false)},
			},
			want: []domain.Tag{domain.TagIncomplete},
		},
		{
			name: "no reported outcome tags neither",
			payload: EventPayload{
				Call:         &CallPayload{CallID: "c"},
				CallAnalysis: &CallAnalysisPayload{},
			},
			want: nil,
		},
		{
			name: "all signals combine",
			payload: EventPayload{
				Call:    &CallPayload{CallID: "c", DisconnectionReason: strPtr("handoff")},
				Booking: &BookingPayload{CustomerName: "Ada"},
				CallAnalysis: &CallAnalysisPayload{
					CallSuccessful: boolPtr(true),
				},
			},
			want: []domain.Tag{domain.TagAppointment, domain.TagHandoff, domain.TagCompleted},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Classify(tc.payload)
			if fmt.Sprint(got) != fmt.Sprint(tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}
