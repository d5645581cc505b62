// Package repository provides data access for appointments captured by
// the ingestion pipeline.
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

// Appointment statuses.
const (
	StatusScheduled = "scheduled"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
)

// Appointment is the appointments table model. One row per call: a
// redelivered booking amends the existing row.
type Appointment struct {
	ID            uuid.UUID
	TenantID      uuid.UUID
	CallID        string
	CustomerName  string
	CustomerPhone string
	StartsAt      time.Time
	Status        string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Repository provides database operations for appointments.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new appointments repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const columns = `
	id, tenant_id, call_id, customer_name, customer_phone, starts_at,
	status, created_at, updated_at`

// List returns the tenant's appointments. window is "upcoming", "past"
// or empty for everything; upcoming sorts soonest first, the rest
// newest first.
func (r *Repository) List(ctx context.Context, tenantID uuid.UUID, window string) ([]Appointment, error) {
	query := `
		SELECT` + columns + `
		FROM appointments
		WHERE tenant_id = $1`
	switch window {
	case "upcoming":
		query += ` AND starts_at >= now() ORDER BY starts_at ASC`
	case "past":
		query += ` AND starts_at < now() ORDER BY starts_at DESC`
	default:
		query += ` ORDER BY starts_at DESC`
	}

	rows, err := r.pool.Query(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	defer rows.Close()

	var appointments []Appointment
	for rows.Next() {
		appt, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		appointments = append(appointments, appt)
	}
	return appointments, rows.Err()
}

// GetByID fetches one appointment.
func (r *Repository) GetByID(ctx context.Context, tenantID, id uuid.UUID) (Appointment, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT`+columns+`
		FROM appointments
		WHERE tenant_id = $1 AND id = $2
	`, tenantID, id)

	appt, err := scanAppointment(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Appointment{}, apperr.NotFound("appointment not found")
	}
	return appt, err
}

// SetStatus updates the appointment lifecycle status.
func (r *Repository) SetStatus(ctx context.Context, tenantID, id uuid.UUID, status string) (Appointment, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE appointments
		SET status = $3, updated_at = now()
		WHERE tenant_id = $1 AND id = $2
		RETURNING`+columns+`
	`, tenantID, id, status)

	appt, err := scanAppointment(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Appointment{}, apperr.NotFound("appointment not found")
	}
	if err != nil {
		return Appointment{}, fmt.Errorf("set appointment status: %w", err)
	}
	return appt, nil
}

func scanAppointment(row pgx.Row) (Appointment, error) {
	var appt Appointment
	err := row.Scan(
		&appt.ID, &appt.TenantID, &appt.CallID, &appt.CustomerName,
		&appt.CustomerPhone, &appt.StartsAt, &appt.Status,
		&appt.CreatedAt, &appt.UpdatedAt,
	)
	return appt, err
}
