// Package repository provides data access for tenants and their profiles.
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

// Tenant is the tenants table model: one business account.
type Tenant struct {
	ID                uuid.UUID
	BusinessName      string
	ContactPhone      *string
	NotificationEmail *string
	BusinessHours     *string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Repository provides database operations for tenants.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new tenants repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const tenantColumns = `id, business_name, contact_phone, notification_email, business_hours, created_at, updated_at`

// GetByID fetches a tenant.
func (r *Repository) GetByID(ctx context.Context, tenantID uuid.UUID) (Tenant, error) {
	var t Tenant
	err := r.pool.QueryRow(ctx, `
		SELECT `+tenantColumns+`
		FROM tenants
		WHERE id = $1
	`, tenantID).Scan(
		&t.ID, &t.BusinessName, &t.ContactPhone, &t.NotificationEmail,
		&t.BusinessHours, &t.CreatedAt, &t.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Tenant{}, apperr.NotFound("tenant not found")
	}
	if err != nil {
		return Tenant{}, fmt.Errorf("get tenant: %w", err)
	}
	return t, nil
}

// UpdateProfile replaces the editable business profile fields.
func (r *Repository) UpdateProfile(ctx context.Context, tenantID uuid.UUID, businessName string, contactPhone, notificationEmail, businessHours *string) (Tenant, error) {
	var t Tenant
	err := r.pool.QueryRow(ctx, `
		UPDATE tenants
		SET business_name = $2,
		    contact_phone = $3,
		    notification_email = $4,
		    business_hours = $5,
		    updated_at = now()
		WHERE id = $1
		RETURNING `+tenantColumns+`
	`, tenantID, businessName, contactPhone, notificationEmail, businessHours).Scan(
		&t.ID, &t.BusinessName, &t.ContactPhone, &t.NotificationEmail,
		&t.BusinessHours, &t.CreatedAt, &t.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Tenant{}, apperr.NotFound("tenant not found")
	}
	if err != nil {
		return Tenant{}, fmt.Errorf("update tenant profile: %w", err)
	}
	return t, nil
}

// GetNotificationEmail returns the address handoff alerts go to,
// falling back to the first user's login email when unset.
func (r *Repository) GetNotificationEmail(ctx context.Context, tenantID uuid.UUID) (string, string, error) {
	var businessName string
	var notificationEmail *string
	err := r.pool.QueryRow(ctx, `
		SELECT business_name, notification_email FROM tenants WHERE id = $1
	`, tenantID).Scan(&businessName, &notificationEmail)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", "", apperr.NotFound("tenant not found")
	}
	if err != nil {
		return "", "", fmt.Errorf("get notification email: %w", err)
	}

	if notificationEmail != nil && *notificationEmail != "" {
		return businessName, *notificationEmail, nil
	}

	var fallback string
	err = r.pool.QueryRow(ctx, `
		SELECT u.email
		FROM users u
		JOIN profiles p ON p.user_id = u.id
		WHERE p.tenant_id = $1
		ORDER BY u.created_at
		LIMIT 1
	`, tenantID).Scan(&fallback)
	if errors.Is(err, pgx.ErrNoRows) {
		return businessName, "", nil
	}
	if err != nil {
		return "", "", fmt.Errorf("get fallback email: %w", err)
	}
	return businessName, fallback, nil
}
