// Package repository provides data access for ingested calls and their
// handoffs.
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

// Call is the calls table model. Optional columns stay nil when the
// voice platform did not report them.
type Call struct {
	ID              uuid.UUID
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
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Handoff is a callback request opened by the ingestion pipeline,
// joined with the call summary for display.
type Handoff struct {
	ID            uuid.UUID
	TenantID      uuid.UUID
	CallID        string
	NeedsCallback bool
	Status        string
	Summary       *string
	AgentID       *string
	CreatedAt     time.Time
	ClosedAt      *time.Time
}

// Stats are the per-tenant dashboard counters.
type Stats struct {
	TotalCalls   int64
	Appointments int64
	Handoffs     int64
}

// ListParams constrains a call listing.
type ListParams struct {
	Tag    string
	Limit  int
	Offset int
}

// Handoff statuses.
const (
	HandoffStatusOpen   = "open"
	HandoffStatusClosed = "closed"
)

// Repository provides database operations for calls and handoffs.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new calls repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const callColumns = `
	id, tenant_id, call_id, agent_id, agent_name, started_at, ended_at,
	duration_seconds, recording_url, call_cost, summary, sentiment, successful,
	tags, created_at, updated_at`

// List returns a page of calls, newest first, optionally narrowed to a
// single tag, plus the total number of matching rows.
func (r *Repository) List(ctx context.Context, tenantID uuid.UUID, params ListParams) ([]Call, int64, error) {
	var total int64
	err := r.pool.QueryRow(ctx, `
		SELECT count(*) FROM calls
		WHERE tenant_id = $1 AND ($2 = '' OR $2 = ANY(tags))
	`, tenantID, params.Tag).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count calls: %w", err)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT`+callColumns+`
		FROM calls
		WHERE tenant_id = $1 AND ($2 = '' OR $2 = ANY(tags))
		ORDER BY started_at DESC NULLS LAST, created_at DESC
		LIMIT $3 OFFSET $4
	`, tenantID, params.Tag, params.Limit, params.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list calls: %w", err)
	}
	defer rows.Close()

	var calls []Call
	for rows.Next() {
		call, err := scanCall(rows)
		if err != nil {
			return nil, 0, err
		}
		calls = append(calls, call)
	}
	return calls, total, rows.Err()
}

// GetByCallID fetches one call by its external identifier.
func (r *Repository) GetByCallID(ctx context.Context, tenantID uuid.UUID, callID string) (Call, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT`+callColumns+`
		FROM calls
		WHERE tenant_id = $1 AND call_id = $2
	`, tenantID, callID)

	call, err := scanCall(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Call{}, apperr.NotFound("call not found")
	}
	return call, err
}

// GetStats returns the tenant's dashboard counters in one query.
func (r *Repository) GetStats(ctx context.Context, tenantID uuid.UUID) (Stats, error) {
	var stats Stats
	err := r.pool.QueryRow(ctx, `
		SELECT
			count(*),
			count(*) FILTER (WHERE 'appointment' = ANY(tags)),
			count(*) FILTER (WHERE 'handoff' = ANY(tags))
		FROM calls
		WHERE tenant_id = $1
	`, tenantID).Scan(&stats.TotalCalls, &stats.Appointments, &stats.Handoffs)
	if err != nil {
		return Stats{}, fmt.Errorf("call stats: %w", err)
	}
	return stats, nil
}

// ListHandoffs returns the tenant's handoffs, optionally filtered by
// status, newest first.
func (r *Repository) ListHandoffs(ctx context.Context, tenantID uuid.UUID, status string) ([]Handoff, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT h.id, h.tenant_id, h.call_id, h.needs_callback, h.status,
		       c.summary, c.agent_id, h.created_at, h.closed_at
		FROM handoffs h
		LEFT JOIN calls c ON c.tenant_id = h.tenant_id AND c.call_id = h.call_id
		WHERE h.tenant_id = $1 AND ($2 = '' OR h.status = $2)
		ORDER BY h.created_at DESC
	`, tenantID, status)
	if err != nil {
		return nil, fmt.Errorf("list handoffs: %w", err)
	}
	defer rows.Close()

	var handoffs []Handoff
	for rows.Next() {
		var h Handoff
		if err := rows.Scan(&h.ID, &h.TenantID, &h.CallID, &h.NeedsCallback,
			&h.Status, &h.Summary, &h.AgentID, &h.CreatedAt, &h.ClosedAt); err != nil {
			return nil, fmt.Errorf("scan handoff: %w", err)
		}
		handoffs = append(handoffs, h)
	}
	return handoffs, rows.Err()
}

// SetHandoffStatus moves a handoff between open and closed.
func (r *Repository) SetHandoffStatus(ctx context.Context, tenantID uuid.UUID, callID, status string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE handoffs
		SET status = $3,
		    closed_at = CASE WHEN $3 = 'closed' THEN now() ELSE NULL END
		WHERE tenant_id = $1 AND call_id = $2
	`, tenantID, callID, status)
	if err != nil {
		return fmt.Errorf("set handoff status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("handoff not found")
	}
	return nil
}

func scanCall(row pgx.Row) (Call, error) {
	var call Call
	err := row.Scan(
		&call.ID, &call.TenantID, &call.CallID, &call.AgentID, &call.AgentName,
		&call.StartedAt, &call.EndedAt, &call.DurationSeconds, &call.RecordingURL,
		&call.CallCost, &call.Summary, &call.Sentiment, &call.Successful,
		&call.Tags, &call.CreatedAt, &call.UpdatedAt,
	)
	return call, err
}
