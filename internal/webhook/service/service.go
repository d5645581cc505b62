package service

import (
	"context"
	"net/http"
	"time"

	"voicedesk_backend/internal/calls/domain"
	"voicedesk_backend/internal/events"
	"voicedesk_backend/internal/webhook/repository"
	"voicedesk_backend/platform/apperr"
	"voicedesk_backend/platform/config"
	"voicedesk_backend/platform/logger"
	"voicedesk_backend/platform/phone"

	"github.com/google/uuid"
)

// Service runs the ingestion pipeline and manages endpoints.
type Service struct {
	store repository.Store
	cfg   config.WebhookConfig
	bus   events.Bus
	log   *logger.Logger
}

// New creates the ingestion service.
func New(store repository.Store, cfg config.WebhookConfig, bus events.Bus, log *logger.Logger) *Service {
	return &Service{store: store, cfg: cfg, bus: bus, log: log}
}

// ProcessDelivery handles one inbound delivery end to end: parse,
// resolve the endpoint, verify the signature, register the agent,
// persist, then publish domain events for what actually changed.
func (s *Service) ProcessDelivery(ctx context.Context, rawEndpointID string, body []byte, signature string) error {
	payload, err := ParseEventPayload(body)
	if err != nil {
		s.log.WebhookRejected(rawEndpointID, "malformed payload", http.StatusBadRequest)
		return err
	}

	endpointID, err := uuid.Parse(rawEndpointID)
	if err != nil {
		s.log.WebhookRejected(rawEndpointID, "unknown endpoint", http.StatusNotFound)
		return apperr.NotFound("invalid endpoint")
	}

	endpoint, err := s.store.GetEndpoint(ctx, endpointID)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			s.log.WebhookRejected(rawEndpointID, "unknown endpoint", http.StatusNotFound)
			return err
		}
		s.log.DatabaseError("get endpoint", err)
		return apperr.Wrap(apperr.KindInternal, "lookup failed", err)
	}
	if !endpoint.Enabled {
		s.log.WebhookRejected(rawEndpointID, "endpoint disabled", http.StatusForbidden)
		return apperr.Forbidden("endpoint disabled")
	}

	// A bad signature is indistinguishable from an unknown endpoint so
	// probing cannot confirm an endpoint id exists.
	if signature != "" {
		if !VerifySignature(endpoint.Secret, body, signature) {
			s.log.WebhookRejected(rawEndpointID, "signature mismatch", http.StatusNotFound)
			return apperr.NotFound("invalid endpoint")
		}
	} else if s.cfg.GetWebhookRequireSignature() {
		s.log.WebhookRejected(rawEndpointID, "missing signature", http.StatusNotFound)
		return apperr.NotFound("invalid endpoint")
	}

	if _, err := s.store.EnsureAgent(ctx, endpoint.TenantID, payload.AgentID, payload.AgentName); err != nil {
		s.log.DatabaseError("ensure agent", err)
		return apperr.Wrap(apperr.KindInternal, "agent registration failed", err)
	}

	rec := repository.EventRecord{
		TenantID:   endpoint.TenantID,
		EndpointID: endpoint.ID,
		EventType:  payload.Event,
		CallID:     payload.Call.CallID,
		Payload:    body,
	}

	if payload.Event != EventCallEnded {
		if err := s.store.RecordEvent(ctx, rec); err != nil {
			s.log.DatabaseError("record event", err)
			return apperr.Wrap(apperr.KindInternal, "persist failed", err)
		}
		s.log.WebhookEvent(rawEndpointID, payload.Event, payload.Call.CallID, nil)
		return nil
	}

	tags := Classify(payload)
	call := buildCallUpsert(endpoint.TenantID, payload, tags)
	handoff := domain.Contains(tags, domain.TagHandoff)
	booking := buildAppointmentUpsert(payload)

	result, err := s.store.ApplyCallEnded(ctx, rec, call, handoff, booking)
	if err != nil {
		s.log.DatabaseError("apply call_ended", err)
		return apperr.Wrap(apperr.KindInternal, "persist failed", err)
	}

	s.log.WebhookEvent(rawEndpointID, payload.Event, payload.Call.CallID, call.Tags)
	s.publishIngested(ctx, endpoint.TenantID, payload, call, booking, result)
	return nil
}

func (s *Service) publishIngested(ctx context.Context, tenantID uuid.UUID, payload EventPayload, call repository.CallUpsert, booking *repository.AppointmentUpsert, result repository.ApplyResult) {
	s.bus.Publish(ctx, events.CallIngested{
		BaseEvent: events.NewBaseEvent(),
		TenantID:  tenantID,
		CallID:    call.CallID,
		AgentID:   payload.AgentID,
		AgentName: payload.AgentName,
		Tags:      call.Tags,
	})

	if result.HandoffOpened {
		var summary string
		if call.Summary != nil {
			summary = *call.Summary
		}
		s.bus.Publish(ctx, events.HandoffOpened{
			BaseEvent: events.NewBaseEvent(),
			TenantID:  tenantID,
			CallID:    call.CallID,
			Summary:   summary,
		})
	}

	if booking != nil && result.AppointmentCreated {
		s.bus.Publish(ctx, events.AppointmentBooked{
			BaseEvent:     events.NewBaseEvent(),
			TenantID:      tenantID,
			AppointmentID: result.AppointmentID,
			CallID:        call.CallID,
			CustomerName:  booking.CustomerName,
			CustomerPhone: booking.CustomerPhone,
			StartsAt:      booking.StartsAt,
		})
	}
}

func epochToTime(sec int64) time.Time {
	return time.Unix(sec, 0).UTC()
}

func buildCallUpsert(tenantID uuid.UUID, payload EventPayload, tags []domain.Tag) repository.CallUpsert {
	call := repository.CallUpsert{
		TenantID:     tenantID,
		CallID:       payload.Call.CallID,
		AgentID:      payload.AgentID,
		RecordingURL: payload.Call.RecordingURL,
		CallCost:     payload.Call.CallCost,
		Tags:         domain.Strings(tags),
	}
	if payload.AgentName != "" {
		name := payload.AgentName
		call.AgentName = &name
	}

	if ts := payload.Call.StartTimestamp; ts != nil {
		t := epochToTime(*ts)
		call.StartedAt = &t
	}
	if ts := payload.Call.EndTimestamp; ts != nil {
		t := epochToTime(*ts)
		call.EndedAt = &t
	}
	if payload.Call.StartTimestamp != nil && payload.Call.EndTimestamp != nil {
		d := *payload.Call.EndTimestamp - *payload.Call.StartTimestamp
		call.DurationSeconds = &d
	}
	if analysis := payload.CallAnalysis; analysis != nil {
		call.Summary = analysis.CallSummary
		call.Sentiment = analysis.UserSentiment
		call.Successful = analysis.CallSuccessful
	}
	return call
}

// buildAppointmentUpsert only writes appointments from a top level
// booking object; an analysis-only booking tags the call but is treated
// as unconfirmed.
func buildAppointmentUpsert(payload EventPayload) *repository.AppointmentUpsert {
	if payload.Booking == nil {
		return nil
	}
	return &repository.AppointmentUpsert{
		CustomerName:  payload.Booking.CustomerName,
		CustomerPhone: phone.NormalizeE164(payload.Booking.CustomerPhone),
		StartsAt:      payload.Booking.StartsAt,
	}
}
