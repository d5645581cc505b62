// Package repository provides data access for the webhook bounded
// context: endpoints, agents, the raw delivery log and the
// transactional call_ended write.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"voicedesk_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Endpoint is the webhook_endpoints table model. The secret signs
// inbound deliveries and is generated once, at creation.
type Endpoint struct {
	ID        uuid.UUID
	TenantID  uuid.UUID
	EventType string
	Secret    string
	Enabled   bool
	CreatedAt time.Time
}

// EventRecord is the append-only audit row for one delivery.
type EventRecord struct {
	TenantID   uuid.UUID
	EndpointID uuid.UUID
	EventType  string
	CallID     string
	Payload    []byte
}

// CallUpsert is the full replacement state for a call row. Redelivery
// of the same call_id overwrites every mutable column.
type CallUpsert struct {
	TenantID        uuid.UUID
	CallID          string
	AgentID         string
	AgentName       *string
	StartedAt       *time.Time
	EndedAt         *time.Time
	DurationSeconds *int64
	RecordingURL    *string
	CallCost        *float64
	Summary         *string
	Sentiment       *string
	Successful      *bool
	Tags            []string
}

// AppointmentUpsert holds the booking details written alongside a call.
type AppointmentUpsert struct {
	CustomerName  string
	CustomerPhone string
	StartsAt      time.Time
}

// ApplyResult reports which side effects the transactional write
// actually produced, so the service only publishes events for them.
type ApplyResult struct {
	HandoffOpened      bool
	AppointmentID      uuid.UUID
	AppointmentCreated bool
}

// Store is the persistence surface the ingestion service depends on.
type Store interface {
	GetEndpoint(ctx context.Context, endpointID uuid.UUID) (Endpoint, error)
	EnsureAgent(ctx context.Context, tenantID uuid.UUID, externalAgentID, displayName string) (bool, error)
	RecordEvent(ctx context.Context, rec EventRecord) error
	ApplyCallEnded(ctx context.Context, rec EventRecord, call CallUpsert, handoff bool, booking *AppointmentUpsert) (ApplyResult, error)
}

// Repository implements Store on Postgres.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new webhook repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

var _ Store = (*Repository)(nil)

// GetEndpoint fetches an endpoint by its public identifier.
func (r *Repository) GetEndpoint(ctx context.Context, endpointID uuid.UUID) (Endpoint, error) {
	var ep Endpoint
	err := r.pool.QueryRow(ctx, `
		SELECT id, tenant_id, event_type, secret, enabled, created_at
		FROM webhook_endpoints
		WHERE id = $1
	`, endpointID).Scan(&ep.ID, &ep.TenantID, &ep.EventType, &ep.Secret, &ep.Enabled, &ep.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Endpoint{}, apperr.NotFound("invalid endpoint")
	}
	if err != nil {
		return Endpoint{}, fmt.Errorf("get endpoint: %w", err)
	}
	return ep, nil
}

// EnsureAgent registers an agent the first time its external id is seen
// for a tenant. Returns whether a row was inserted.
func (r *Repository) EnsureAgent(ctx context.Context, tenantID uuid.UUID, externalAgentID, displayName string) (bool, error) {
	var name *string
	if displayName != "" {
		name = &displayName
	}
	tag, err := r.pool.Exec(ctx, `
		INSERT INTO agents (tenant_id, agent_id, agent_name)
		VALUES ($1, $2, $3)
		ON CONFLICT (tenant_id, agent_id) DO NOTHING
	`, tenantID, externalAgentID, name)
	if err != nil {
		return false, fmt.Errorf("ensure agent: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// RecordEvent appends the raw delivery to the audit log.
func (r *Repository) RecordEvent(ctx context.Context, rec EventRecord) error {
	if _, err := r.pool.Exec(ctx, `
		INSERT INTO call_webhook_raw (tenant_id, endpoint_id, event_type, call_id, payload)
		VALUES ($1, $2, $3, $4, $5)
	`, rec.TenantID, rec.EndpointID, rec.EventType, rec.CallID, rec.Payload); err != nil {
		return fmt.Errorf("record event: %w", err)
	}
	return nil
}

// ApplyCallEnded performs the whole call_ended write in one transaction:
// audit row, call upsert, handoff open and appointment upsert. Either
// all of it lands or none of it does.
func (r *Repository) ApplyCallEnded(ctx context.Context, rec EventRecord, call CallUpsert, handoff bool, booking *AppointmentUpsert) (ApplyResult, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return ApplyResult{}, fmt.Errorf("begin ingest tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `
		INSERT INTO call_webhook_raw (tenant_id, endpoint_id, event_type, call_id, payload)
		VALUES ($1, $2, $3, $4, $5)
	`, rec.TenantID, rec.EndpointID, rec.EventType, rec.CallID, rec.Payload); err != nil {
		return ApplyResult{}, fmt.Errorf("record event: %w", err)
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO calls (
			tenant_id, call_id, agent_id, agent_name, started_at, ended_at,
			duration_seconds, recording_url, call_cost, summary, sentiment,
			successful, tags
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (tenant_id, call_id) DO UPDATE SET
			agent_id = EXCLUDED.agent_id,
			agent_name = EXCLUDED.agent_name,
			started_at = EXCLUDED.started_at,
			ended_at = EXCLUDED.ended_at,
			duration_seconds = EXCLUDED.duration_seconds,
			recording_url = EXCLUDED.recording_url,
			call_cost = EXCLUDED.call_cost,
			summary = EXCLUDED.summary,
			sentiment = EXCLUDED.sentiment,
			successful = EXCLUDED.successful,
			tags = EXCLUDED.tags,
			updated_at = now()
	`, call.TenantID, call.CallID, call.AgentID, call.AgentName, call.StartedAt,
		call.EndedAt, call.DurationSeconds, call.RecordingURL, call.CallCost,
		call.Summary, call.Sentiment, call.Successful, call.Tags); err != nil {
		return ApplyResult{}, fmt.Errorf("upsert call: %w", err)
	}

	var result ApplyResult

	if handoff {
		// DO NOTHING so a redelivery never reopens a handoff the
		// operator already closed.
		tag, err := tx.Exec(ctx, `
			INSERT INTO handoffs (tenant_id, call_id, needs_callback, status)
			VALUES ($1, $2, true, 'open')
			ON CONFLICT (tenant_id, call_id) DO NOTHING
		`, call.TenantID, call.CallID)
		if err != nil {
			return ApplyResult{}, fmt.Errorf("open handoff: %w", err)
		}
		result.HandoffOpened = tag.RowsAffected() > 0
	}

	if booking != nil {
		err := tx.QueryRow(ctx, `
			INSERT INTO appointments (tenant_id, call_id, customer_name, customer_phone, starts_at)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (tenant_id, call_id) DO UPDATE SET
				customer_name = EXCLUDED.customer_name,
				customer_phone = EXCLUDED.customer_phone,
				starts_at = EXCLUDED.starts_at,
				updated_at = now()
			RETURNING id, (xmax = 0)
		`, call.TenantID, call.CallID, booking.CustomerName, booking.CustomerPhone,
			booking.StartsAt).Scan(&result.AppointmentID, &result.AppointmentCreated)
		if err != nil {
			return ApplyResult{}, fmt.Errorf("upsert appointment: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return ApplyResult{}, fmt.Errorf("commit ingest tx: %w", err)
	}
	return result, nil
}

// CreateEndpoint stores a new endpoint for a tenant.
func (r *Repository) CreateEndpoint(ctx context.Context, tenantID uuid.UUID, eventType, secret string) (Endpoint, error) {
	var ep Endpoint
	err := r.pool.QueryRow(ctx, `
		INSERT INTO webhook_endpoints (tenant_id, event_type, secret)
		VALUES ($1, $2, $3)
		RETURNING id, tenant_id, event_type, secret, enabled, created_at
	`, tenantID, eventType, secret).Scan(&ep.ID, &ep.TenantID, &ep.EventType, &ep.Secret, &ep.Enabled, &ep.CreatedAt)
	if err != nil {
		return Endpoint{}, fmt.Errorf("create endpoint: %w", err)
	}
	return ep, nil
}

// ListEndpoints returns all endpoints for a tenant, newest first.
func (r *Repository) ListEndpoints(ctx context.Context, tenantID uuid.UUID) ([]Endpoint, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, tenant_id, event_type, secret, enabled, created_at
		FROM webhook_endpoints
		WHERE tenant_id = $1
		ORDER BY created_at DESC
	`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list endpoints: %w", err)
	}
	defer rows.Close()

	var endpoints []Endpoint
	for rows.Next() {
		var ep Endpoint
		if err := rows.Scan(&ep.ID, &ep.TenantID, &ep.EventType, &ep.Secret, &ep.Enabled, &ep.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan endpoint: %w", err)
		}
		endpoints = append(endpoints, ep)
	}
	return endpoints, rows.Err()
}

// SetEndpointEnabled toggles delivery acceptance for an endpoint.
func (r *Repository) SetEndpointEnabled(ctx context.Context, tenantID, endpointID uuid.UUID, enabled bool) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE webhook_endpoints SET enabled = $3
		WHERE id = $1 AND tenant_id = $2
	`, endpointID, tenantID, enabled)
	if err != nil {
		return fmt.Errorf("set endpoint enabled: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("endpoint not found")
	}
	return nil
}

// DeleteEndpoint removes an endpoint. Historical calls ingested through
// it are kept.
func (r *Repository) DeleteEndpoint(ctx context.Context, tenantID, endpointID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM webhook_endpoints
		WHERE id = $1 AND tenant_id = $2
	`, endpointID, tenantID)
	if err != nil {
		return fmt.Errorf("delete endpoint: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("endpoint not found")
	}
	return nil
}
