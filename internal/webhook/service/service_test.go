package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"voicedesk_backend/internal/webhook/repository"
	"voicedesk_backend/platform/apperr"
	"voicedesk_backend/platform/config"
	"voicedesk_backend/platform/events"
	"voicedesk_backend/platform/logger"

	"github.com/google/uuid"
)

type appliedCall struct {
	rec     repository.EventRecord
	call    repository.CallUpsert
	handoff bool
	booking *repository.AppointmentUpsert
}

type fakeStore struct {
	endpoint    repository.Endpoint
	endpointErr error

	ensured  []string
	recorded []repository.EventRecord
	applied  []appliedCall

	applyResult repository.ApplyResult
	applyErr    error
}

func (f *fakeStore) GetEndpoint(_ context.Context, endpointID uuid.UUID) (repository.Endpoint, error) {
	if f.endpointErr != nil {
		return repository.Endpoint{}, f.endpointErr
	}
	if endpointID != f.endpoint.ID {
		return repository.Endpoint{}, apperr.NotFound("invalid endpoint")
	}
	return f.endpoint, nil
}

func (f *fakeStore) EnsureAgent(_ context.Context, _ uuid.UUID, externalAgentID, _ string) (bool, error) {
	for _, id := range f.ensured {
		if id == externalAgentID {
			return false, nil
		}
	}
	f.ensured = append(f.ensured, externalAgentID)
	return true, nil
}

func (f *fakeStore) RecordEvent(_ context.Context, rec repository.EventRecord) error {
	f.recorded = append(f.recorded, rec)
	return nil
}

func (f *fakeStore) ApplyCallEnded(_ context.Context, rec repository.EventRecord, call repository.CallUpsert, handoff bool, booking *repository.AppointmentUpsert) (repository.ApplyResult, error) {
	if f.applyErr != nil {
		return repository.ApplyResult{}, f.applyErr
	}
	f.applied = append(f.applied, appliedCall{rec: rec, call: call, handoff: handoff, booking: booking})
	return f.applyResult, nil
}

type fakeBus struct {
	published []events.Event
}

func (f *fakeBus) Publish(_ context.Context, event events.Event) {
	f.published = append(f.published, event)
}

func (f *fakeBus) PublishSync(_ context.Context, event events.Event) error {
	f.published = append(f.published, event)
	return nil
}
func (f *fakeBus) Subscribe(string, events.Handler) {}

type fakeConfig struct {
	requireSignature bool
}

func (f fakeConfig) GetWebhookRequireSignature() bool { return f.requireSignature }
func (f fakeConfig) GetPublicBaseURL() string         { return "http://localhost:8080" }

var _ config.WebhookConfig = fakeConfig{}

func newTestService(store *fakeStore, bus *fakeBus, cfg fakeConfig) *Service {
	return New(store, cfg, bus, logger.New("test"))
}

func testEndpoint() repository.Endpoint {
	return repository.Endpoint{
		ID:        uuid.New(),
		TenantID:  uuid.New(),
		EventType: "call_ended",
		Secret:    "topsecret",
		Enabled:   true,
		CreatedAt: time.Now(),
	}
}

func callEndedBody(t *testing.T, mutate func(map[string]interface{})) []byte {
	t.Helper()
	payload := map[string]interface{}{
		"event":    "call_ended",
		"agent_id": "agent-1",
		"call": map[string]interface{}{
			"call_id":         "call-1",
			"start_timestamp": int64(1700000000),
			"end_timestamp":   int64(1700000600),
		},
	}
	if mutate != nil {
		mutate(payload)
	}
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return body
}

func TestProcessDeliveryMissingFieldsZeroWrites(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"no event", `{"agent_id":"a","call":{"call_id":"c"}}`},
		{"no call", `{"event":"call_ended","agent_id":"a"}`},
		{"no call_id", `{"event":"call_ended","agent_id":"a","call":{}}`},
		{"no agent_id", `{"event":"call_ended","call":{"call_id":"c"}}`},
		{"not json", `{{{`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := &fakeStore{endpoint: testEndpoint()}
			bus := &fakeBus{}
			svc := newTestService(store, bus, fakeConfig{})

			err := svc.ProcessDelivery(context.Background(), store.endpoint.ID.String(), []byte(tc.body), "")
			if !apperr.Is(err, apperr.KindBadRequest) {
				t.Fatalf("expected bad request, got %v", err)
			}
			if len(store.recorded) != 0 || len(store.applied) != 0 || len(store.ensured) != 0 {
				t.Fatalf("rejected delivery must not write: %+v", store)
			}
			if len(bus.published) != 0 {
				t.Fatalf("rejected delivery must not publish events")
			}
		})
	}
}

func TestProcessDeliveryUnknownEndpoint(t *testing.T) {
	store := &fakeStore{endpoint: testEndpoint()}
	svc := newTestService(store, &fakeBus{}, fakeConfig{})

	for _, id := range []string{uuid.NewString(), "not-a-uuid"} {
		err := svc.ProcessDelivery(context.Background(), id, callEndedBody(t, nil), "")
		if !apperr.Is(err, apperr.KindNotFound) {
			t.Fatalf("endpoint %q: expected not found, got %v", id, err)
		}
	}
	if len(store.applied) != 0 {
		t.Fatalf("unknown endpoint must not write")
	}
}

func TestProcessDeliveryDisabledEndpoint(t *testing.T) {
	ep := testEndpoint()
	ep.Enabled = false
	store := &fakeStore{endpoint: ep}
	svc := newTestService(store, &fakeBus{}, fakeConfig{})

	err := svc.ProcessDelivery(context.Background(), ep.ID.String(), callEndedBody(t, nil), "")
	if !apperr.Is(err, apperr.KindForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if len(store.applied) != 0 || len(store.recorded) != 0 {
		t.Fatalf("disabled endpoint must not write")
	}
}

func TestProcessDeliverySignature(t *testing.T) {
	ep := testEndpoint()
	body := callEndedBody(t, nil)
	good := signBody(ep.Secret, body)

	t.Run("valid signature accepted", func(t *testing.T) {
		store := &fakeStore{endpoint: ep}
		svc := newTestService(store, &fakeBus{}, fakeConfig{})
		if err := svc.ProcessDelivery(context.Background(), ep.ID.String(), body, good); err != nil {
			t.Fatalf("valid signature rejected: %v", err)
		}
	})

	t.Run("mismatch looks like unknown endpoint", func(t *testing.T) {
		store := &fakeStore{endpoint: ep}
		svc := newTestService(store, &fakeBus{}, fakeConfig{})
		err := svc.ProcessDelivery(context.Background(), ep.ID.String(), body, signBody("wrong", body))
		if !apperr.Is(err, apperr.KindNotFound) {
			t.Fatalf("expected not found, got %v", err)
		}
		if len(store.applied) != 0 {
			t.Fatalf("bad signature must not write")
		}
	})

	t.Run("missing signature tolerated by default", func(t *testing.T) {
		store := &fakeStore{endpoint: ep}
		svc := newTestService(store, &fakeBus{}, fakeConfig{})
		if err := svc.ProcessDelivery(context.Background(), ep.ID.String(), body, ""); err != nil {
			t.Fatalf("unsigned delivery rejected: %v", err)
		}
	})

	t.Run("missing signature rejected when required", func(t *testing.T) {
		store := &fakeStore{endpoint: ep}
		svc := newTestService(store, &fakeBus{}, fakeConfig{requireSignature: true})
		err := svc.ProcessDelivery(context.Background(), ep.ID.String(), body, "")
		if !apperr.Is(err, apperr.KindNotFound) {
			t.Fatalf("expected not found, got %v", err)
		}
	})
}

func TestProcessDeliveryOtherEventOnlyAudited(t *testing.T) {
	ep := testEndpoint()
	store := &fakeStore{endpoint: ep}
	bus := &fakeBus{}
	svc := newTestService(store, bus, fakeConfig{})

	body := callEndedBody(t, func(p map[string]interface{}) {
		p["event"] = "call_started"
	})
	if err := svc.ProcessDelivery(context.Background(), ep.ID.String(), body, ""); err != nil {
		t.Fatalf("process: %v", err)
	}

	if len(store.recorded) != 1 {
		t.Fatalf("expected one audit row, got %d", len(store.recorded))
	}
	if store.recorded[0].EventType != "call_started" || store.recorded[0].CallID != "call-1" {
		t.Fatalf("unexpected audit row: %+v", store.recorded[0])
	}
	if len(store.applied) != 0 {
		t.Fatalf("non call_ended event must not touch call state")
	}
	if len(bus.published) != 0 {
		t.Fatalf("non call_ended event must not publish")
	}
}

func TestProcessDeliveryAgentRegisteredOnce(t *testing.T) {
	ep := testEndpoint()
	store := &fakeStore{endpoint: ep}
	svc := newTestService(store, &fakeBus{}, fakeConfig{})

	body := callEndedBody(t, nil)
	for i := 0; i < 3; i++ {
		if err := svc.ProcessDelivery(context.Background(), ep.ID.String(), body, ""); err != nil {
			t.Fatalf("delivery %d: %v", i, err)
		}
	}

	if len(store.ensured) != 1 || store.ensured[0] != "agent-1" {
		t.Fatalf("expected single agent registration, got %v", store.ensured)
	}
}

func TestProcessDeliveryHappyPathBooking(t *testing.T) {
	ep := testEndpoint()
	appointmentID := uuid.New()
	store := &fakeStore{
		endpoint:    ep,
		applyResult: repository.ApplyResult{AppointmentID: appointmentID, AppointmentCreated: true},
	}
	bus := &fakeBus{}
	svc := newTestService(store, bus, fakeConfig{})

	startsAt := time.Date(2026, 9, 3, 14, 0, 0, 0, time.UTC)
	body := callEndedBody(t, func(p map[string]interface{}) {
		p["agent_name"] = "Front Desk"
		p["booking"] = map[string]interface{}{
			"customer_name":  "Ada Lovelace",
			"customer_phone": "+12125550142",
			"starts_at":      startsAt.Format(time.RFC3339),
		}
		p["call_analysis"] = map[string]interface{}{
			"call_summary":    "Booked a checkup",
			"user_sentiment":  "positive",
			"call_successful": true,
		}
	})
	if err := svc.ProcessDelivery(context.Background(), ep.ID.String(), body, ""); err != nil {
		t.Fatalf("process: %v", err)
	}

	if len(store.applied) != 1 {
		t.Fatalf("expected one transactional write, got %d", len(store.applied))
	}
	got := store.applied[0]

	if got.call.TenantID != ep.TenantID || got.call.CallID != "call-1" || got.call.AgentID != "agent-1" {
		t.Fatalf("unexpected call upsert: %+v", got.call)
	}
	if got.call.DurationSeconds == nil || *got.call.DurationSeconds != 600 {
		t.Fatalf("expected duration 600, got %v", got.call.DurationSeconds)
	}
	if got.call.AgentName == nil || *got.call.AgentName != "Front Desk" {
		t.Fatalf("expected agent name on the call row, got %v", got.call.AgentName)
	}
	if got.call.Successful == nil || !*got.call.Successful {
		t.Fatalf("expected success flag on the call row, got %v", got.call.Successful)
	}
	wantTags := []string{"appointment", "completed"}
	if fmt.Sprint(got.call.Tags) != fmt.Sprint(wantTags) {
		t.Fatalf("expected tags %v, got %v", wantTags, got.call.Tags)
	}
	if got.handoff {
		t.Fatalf("no handoff expected")
	}
	if got.booking == nil || got.booking.CustomerName != "Ada Lovelace" {
		t.Fatalf("expected booking, got %+v", got.booking)
	}
	if got.booking.CustomerPhone != "+12125550142" {
		t.Fatalf("expected normalized phone, got %q", got.booking.CustomerPhone)
	}
	if !got.booking.StartsAt.Equal(startsAt) {
		t.Fatalf("expected starts_at %v, got %v", startsAt, got.booking.StartsAt)
	}

	if len(bus.published) != 2 {
		t.Fatalf("expected CallIngested and AppointmentBooked, got %d events", len(bus.published))
	}
	if bus.published[0].EventName() != "webhook.call.ingested" {
		t.Fatalf("unexpected first event %q", bus.published[0].EventName())
	}
	if bus.published[1].EventName() != "webhook.appointment.booked" {
		t.Fatalf("unexpected second event %q", bus.published[1].EventName())
	}
}

func TestProcessDeliveryUnsuccessfulCall(t *testing.T) {
	ep := testEndpoint()
	store := &fakeStore{endpoint: ep}
	svc := newTestService(store, &fakeBus{}, fakeConfig{})

	body := callEndedBody(t, func(p map[string]interface{}) {
		p["call_analysis"] = map[string]interface{}{
			"call_successful": false,
		}
	})
	if err := svc.ProcessDelivery(context.Background(), ep.ID.String(), body, ""); err != nil {
		t.Fatalf("process: %v", err)
	}

	got := store.applied[0]
	if got.call.Successful == nil || *got.call.Successful {
		t.Fatalf("expected success flag false, got %v", got.call.Successful)
	}
	if got.call.AgentName != nil {
		t.Fatalf("expected nil agent name when the payload omits it, got %q", *got.call.AgentName)
	}
	if fmt.Sprint(got.call.Tags) != fmt.Sprint([]string{"incomplete"}) {
		t.Fatalf("expected incomplete tag, got %v", got.call.Tags)
	}
}

func TestProcessDeliveryHandoff(t *testing.T) {
	ep := testEndpoint()

	body := callEndedBody(t, func(p map[string]interface{}) {
		call := p["call"].(map[string]interface{})
		call["disconnection_reason"] = "call_transfer_HANDOFF"
		p["call_analysis"] = map[string]interface{}{
			"call_summary": "Caller asked for a human",
		}
	})

	t.Run("first delivery opens and publishes", func(t *testing.T) {
		store := &fakeStore{endpoint: ep, applyResult: repository.ApplyResult{HandoffOpened: true}}
		bus := &fakeBus{}
		svc := newTestService(store, bus, fakeConfig{})

		if err := svc.ProcessDelivery(context.Background(), ep.ID.String(), body, ""); err != nil {
			t.Fatalf("process: %v", err)
		}
		if !store.applied[0].handoff {
			t.Fatalf("expected handoff write")
		}
		if len(bus.published) != 2 || bus.published[1].EventName() != "webhook.handoff.opened" {
			t.Fatalf("expected HandoffOpened event, got %v", bus.published)
		}
	})

	t.Run("redelivery does not republish", func(t *testing.T) {
		store := &fakeStore{endpoint: ep, applyResult: repository.ApplyResult{HandoffOpened: false}}
		bus := &fakeBus{}
		svc := newTestService(store, bus, fakeConfig{})

		if err := svc.ProcessDelivery(context.Background(), ep.ID.String(), body, ""); err != nil {
			t.Fatalf("process: %v", err)
		}
		if len(bus.published) != 1 || bus.published[0].EventName() != "webhook.call.ingested" {
			t.Fatalf("expected only CallIngested, got %v", bus.published)
		}
	})
}

func TestProcessDeliveryPersistFailure(t *testing.T) {
	ep := testEndpoint()
	store := &fakeStore{endpoint: ep, applyErr: errors.New("connection reset")}
	bus := &fakeBus{}
	svc := newTestService(store, bus, fakeConfig{})

	err := svc.ProcessDelivery(context.Background(), ep.ID.String(), callEndedBody(t, nil), "")
	if !apperr.Is(err, apperr.KindInternal) {
		t.Fatalf("expected internal error, got %v", err)
	}
	if len(bus.published) != 0 {
		t.Fatalf("failed delivery must not publish events")
	}
}
