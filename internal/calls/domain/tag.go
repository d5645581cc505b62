// Package domain holds the call domain model shared by the webhook
// ingestion pipeline and the dashboard API.
package domain

// Tag is a classification label attached to a call, derived
// deterministically from the call-ended payload. The set is closed:
// the classifier and every consumer share these constants so label
// spellings cannot drift.
type Tag string

const (
	// TagAppointment marks a call that produced a booking.
	TagAppointment Tag = "appointment"
	// TagHandoff marks a call that needs human follow-up.
	TagHandoff Tag = "handoff"
	// TagCompleted marks a call the agent reported as successful.
	TagCompleted Tag = "completed"
	// TagIncomplete marks a call the agent reported as unsuccessful.
	TagIncomplete Tag = "incomplete"
)

// Valid reports whether t is one of the known tags.
func (t Tag) Valid() bool {
	switch t {
	case TagAppointment, TagHandoff, TagCompleted, TagIncomplete:
		return true
	}
	return false
}

// Strings converts a tag set for storage as text[].
func Strings(tags []Tag) []string {
	out := make([]string, len(tags))
	for i, t := range tags {
		out[i] = string(t)
	}
	return out
}

// FromStrings converts stored labels back to tags, dropping unknowns.
func FromStrings(values []string) []Tag {
	out := make([]Tag, 0, len(values))
	for _, v := range values {
		if t := Tag(v); t.Valid() {
			out = append(out, t)
		}
	}
	return out
}

// Contains reports whether the tag set includes t.
func Contains(tags []Tag, t Tag) bool {
	for _, tag := range tags {
		if tag == t {
			return true
		}
	}
	return false
}
