package domain

import (
	"fmt"
	"testing"
)

func TestTagValid(t *testing.T) {
	for _, tag := range []Tag{TagAppointment, TagHandoff, TagCompleted, TagIncomplete} {
		if !tag.Valid() {
			t.Fatalf("%q should be valid", tag)
		}
	}
	for _, tag := range []Tag{"", "booked", "Appointment", "hand-off"} {
		if tag.Valid() {
			t.Fatalf("%q should be invalid", tag)
		}
	}
}

func TestFromStringsDropsUnknowns(t *testing.T) {
	got := FromStrings([]string{"appointment", "spam", "handoff", ""})
	want := []Tag{TagAppointment, TagHandoff}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestContains(t *testing.T) {
	tags := []Tag{TagAppointment, TagCompleted}
	if !Contains(tags, TagCompleted) {
		t.Fatalf("expected completed in %v", tags)
	}
	if Contains(tags, TagHandoff) {
		t.Fatalf("did not expect handoff in %v", tags)
	}
	if Contains(nil, TagHandoff) {
		t.Fatalf("empty set contains nothing")
	}
}
