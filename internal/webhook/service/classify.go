package service

import (
	"strings"

	"voicedesk_backend/internal/calls/domain"
)

// Classify derives the tags for a call_ended delivery. The rules are
// independent, so a single call can carry several tags, and completed
// versus incomplete is only decided when the agent reported an outcome.
func Classify(p EventPayload) []domain.Tag {
	var tags []domain.Tag

	if p.EffectiveBooking() != nil {
		tags = append(tags, domain.TagAppointment)
	}

	if isHandoff(p) {
		tags = append(tags, domain.TagHandoff)
	}

	if analysis := p.CallAnalysis; analysis != nil && analysis.CallSuccessful != nil {
		if *analysis.CallSuccessful {
			tags = append(tags, domain.TagCompleted)
		} else {
			tags = append(tags, domain.TagIncomplete)
		}
	}

	return tags
}

func isHandoff(p EventPayload) bool {
	if p.Call != nil && p.Call.DisconnectionReason != nil &&
		strings.Contains(strings.ToLower(*p.Call.DisconnectionReason), "handoff") {
		return true
	}
	return p.CallAnalysis != nil && p.CallAnalysis.Handoff != nil && *p.CallAnalysis.Handoff
}
