// Package repository provides data access for the auth bounded context.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"voicedesk_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Token types stored in the user_tokens table.
const (
	TokenTypeEmailVerify = "email_verify"
)

const uniqueViolationCode = "23505"

// User is the users table model.
type User struct {
	ID            uuid.UUID
	Email         string
	PasswordHash  string
	EmailVerified bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Repository provides database operations for users and tokens.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new auth repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// CreateUserWithTenant creates a tenant, the first user and the profile
// row linking them, in one transaction. Signup is the only place a
// tenant is created.
func (r *Repository) CreateUserWithTenant(ctx context.Context, email, passwordHash, businessName string) (User, uuid.UUID, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return User{}, uuid.Nil, fmt.Errorf("begin signup tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var tenantID uuid.UUID
	err = tx.QueryRow(ctx, `
		INSERT INTO tenants (business_name)
		VALUES ($1)
		RETURNING id
	`, businessName).Scan(&tenantID)
	if err != nil {
		return User{}, uuid.Nil, fmt.Errorf("create tenant: %w", err)
	}

	var user User
	err = tx.QueryRow(ctx, `
		INSERT INTO users (email, password_hash)
		VALUES ($1, $2)
		RETURNING id, email, password_hash, email_verified, created_at, updated_at
	`, email, passwordHash).Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.EmailVerified,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return User{}, uuid.Nil, apperr.Conflict("email already registered")
		}
		return User{}, uuid.Nil, fmt.Errorf("create user: %w", err)
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO profiles (user_id, tenant_id)
		VALUES ($1, $2)
	`, user.ID, tenantID); err != nil {
		return User{}, uuid.Nil, fmt.Errorf("create profile: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return User{}, uuid.Nil, fmt.Errorf("commit signup tx: %w", err)
	}
	return user, tenantID, nil
}

// GetUserByEmail fetches a user by email.
func (r *Repository) GetUserByEmail(ctx context.Context, email string) (User, error) {
	var user User
	err := r.pool.QueryRow(ctx, `
		SELECT id, email, password_hash, email_verified, created_at, updated_at
		FROM users
		WHERE email = $1
	`, email).Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.EmailVerified,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, apperr.NotFound("user not found")
	}
	return user, err
}

// GetTenantIDForUser resolves the tenant a user belongs to via profiles.
func (r *Repository) GetTenantIDForUser(ctx context.Context, userID uuid.UUID) (*uuid.UUID, error) {
	var tenantID uuid.UUID
	err := r.pool.QueryRow(ctx, `
		SELECT tenant_id FROM profiles WHERE user_id = $1
	`, userID).Scan(&tenantID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get tenant for user: %w", err)
	}
	return &tenantID, nil
}

// MarkEmailVerified flips the verified flag.
func (r *Repository) MarkEmailVerified(ctx context.Context, userID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE users SET email_verified = true, updated_at = now()
		WHERE id = $1
	`, userID)
	return err
}

// CreateRefreshToken stores a hashed refresh token.
func (r *Repository) CreateRefreshToken(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO refresh_tokens (token_hash, user_id, expires_at)
		VALUES ($1, $2, $3)
	`, tokenHash, userID, expiresAt)
	return err
}

// GetRefreshToken returns the owner and expiry for a hashed refresh token.
func (r *Repository) GetRefreshToken(ctx context.Context, tokenHash string) (uuid.UUID, time.Time, error) {
	var userID uuid.UUID
	var expiresAt time.Time
	err := r.pool.QueryRow(ctx, `
		SELECT user_id, expires_at FROM refresh_tokens WHERE token_hash = $1
	`, tokenHash).Scan(&userID, &expiresAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return uuid.Nil, time.Time{}, apperr.NotFound("refresh token not found")
	}
	return userID, expiresAt, err
}

// RevokeRefreshToken deletes a hashed refresh token.
func (r *Repository) RevokeRefreshToken(ctx context.Context, tokenHash string) error {
	_, err := r.pool.Exec(ctx, `
		DELETE FROM refresh_tokens WHERE token_hash = $1
	`, tokenHash)
	return err
}

// CreateUserToken stores a hashed one-time token (email verification).
func (r *Repository) CreateUserToken(ctx context.Context, userID uuid.UUID, tokenHash, tokenType string, expiresAt time.Time) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO user_tokens (token_hash, user_id, token_type, expires_at)
		VALUES ($1, $2, $3, $4)
	`, tokenHash, userID, tokenType, expiresAt)
	return err
}

// GetUserToken looks up an unused one-time token.
func (r *Repository) GetUserToken(ctx context.Context, tokenHash, tokenType string) (uuid.UUID, time.Time, error) {
	var userID uuid.UUID
	var expiresAt time.Time
	err := r.pool.QueryRow(ctx, `
		SELECT user_id, expires_at FROM user_tokens
		WHERE token_hash = $1 AND token_type = $2 AND used_at IS NULL
	`, tokenHash, tokenType).Scan(&userID, &expiresAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return uuid.Nil, time.Time{}, apperr.NotFound("token not found")
	}
	return userID, expiresAt, err
}

// UseUserToken marks a one-time token as consumed.
func (r *Repository) UseUserToken(ctx context.Context, tokenHash, tokenType string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE user_tokens SET used_at = now()
		WHERE token_hash = $1 AND token_type = $2
	`, tokenHash, tokenType)
	return err
}
