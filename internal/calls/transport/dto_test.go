package transport

import (
	"encoding/json"
	"strings"
	"testing"

	"voicedesk_backend/internal/calls/repository"

	"github.com/google/uuid"
)

func TestFromCallTagsNeverNull(t *testing.T) {
	resp := FromCall(repository.Call{ID: uuid.New(), CallID: "c-1"})

	body, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(body), `"tags":null`) {
		t.Fatalf("tags must serialize as an array: %s", body)
	}
	if !strings.Contains(string(body), `"tags":[]`) {
		t.Fatalf("expected empty tags array: %s", body)
	}
}

func TestFromCallCarriesAgentNameAndSuccess(t *testing.T) {
	name := "Front Desk"
	ok := true
	resp := FromCall(repository.Call{CallID: "c-1", AgentName: &name, Successful: &ok})

	if resp.AgentName == nil || *resp.AgentName != name {
		t.Fatalf("expected agent name, got %v", resp.AgentName)
	}
	if resp.Successful == nil || !*resp.Successful {
		t.Fatalf("expected success flag, got %v", resp.Successful)
	}
}
