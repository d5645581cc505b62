// Package service implements the auth use cases: email/password signup
// and signin, opaque refresh tokens and email verification.
package service

import (
	"context"
	"strings"
	"time"

	"voicedesk_backend/internal/auth/password"
	"voicedesk_backend/internal/auth/repository"
	"voicedesk_backend/internal/auth/token"
	"voicedesk_backend/internal/email"
	"voicedesk_backend/internal/events"
	"voicedesk_backend/platform/apperr"
	"voicedesk_backend/platform/config"
	"voicedesk_backend/platform/logger"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const accessTokenType = "access"

// Config narrows the application config to what the service needs.
type Config interface {
	config.AuthServiceConfig
	config.NotificationConfig
}

type Service struct {
	repo *repository.Repository
	cfg  Config
	mail email.Sender
	bus  events.Bus
	log  *logger.Logger
}

func New(repo *repository.Repository, cfg Config, mail email.Sender, bus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, cfg: cfg, mail: mail, bus: bus, log: log}
}

// SignUp registers a new business account: tenant, first user and
// profile in one transaction, then a verification email.
func (s *Service) SignUp(ctx context.Context, emailAddr, plainPassword, businessName string) error {
	hash, err := password.Hash(plainPassword)
	if err != nil {
		return err
	}

	user, tenantID, err := s.repo.CreateUserWithTenant(ctx, strings.ToLower(emailAddr), hash, businessName)
	if err != nil {
		return err
	}

	verifyToken, err := token.GenerateRandomToken(32)
	if err != nil {
		return err
	}

	verifyHash := token.HashSHA256(verifyToken)
	expiresAt := time.Now().Add(s.cfg.GetVerifyTokenTTL())
	if err := s.repo.CreateUserToken(ctx, user.ID, verifyHash, repository.TokenTypeEmailVerify, expiresAt); err != nil {
		return err
	}

	verifyURL := s.buildURL("/verify-email", verifyToken)
	if err := s.mail.SendVerificationEmail(ctx, user.Email, verifyURL); err != nil {
		s.log.Error("verification email failed", "error", err)
	}

	s.bus.Publish(ctx, events.UserSignedUp{
		BaseEvent:   events.NewBaseEvent(),
		UserID:      user.ID,
		TenantID:    tenantID,
		Email:       user.Email,
		VerifyToken: verifyToken,
	})

	s.log.AuthEvent("signup", user.Email, true, "")
	return nil
}

// SignIn checks credentials and issues an access/refresh token pair.
func (s *Service) SignIn(ctx context.Context, emailAddr, plainPassword string) (string, string, error) {
	user, err := s.repo.GetUserByEmail(ctx, strings.ToLower(emailAddr))
	if err != nil {
		s.log.AuthEvent("signin", emailAddr, false, "unknown email")
		return "", "", apperr.Unauthorized("invalid credentials")
	}

	if err := password.Compare(user.PasswordHash, plainPassword); err != nil {
		s.log.AuthEvent("signin", emailAddr, false, "bad password")
		return "", "", apperr.Unauthorized("invalid credentials")
	}

	s.log.AuthEvent("signin", emailAddr, true, "")
	return s.issueTokens(ctx, user.ID)
}

// Refresh rotates a refresh token and issues a new pair.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (string, string, error) {
	hash := token.HashSHA256(refreshToken)
	userID, expiresAt, err := s.repo.GetRefreshToken(ctx, hash)
	if err != nil {
		return "", "", apperr.Unauthorized("invalid refresh token")
	}

	if time.Now().After(expiresAt) {
		_ = s.repo.RevokeRefreshToken(ctx, hash)
		return "", "", apperr.Unauthorized("refresh token expired")
	}

	_ = s.repo.RevokeRefreshToken(ctx, hash)
	return s.issueTokens(ctx, userID)
}

// SignOut revokes the presented refresh token.
func (s *Service) SignOut(ctx context.Context, refreshToken string) error {
	hash := token.HashSHA256(refreshToken)
	return s.repo.RevokeRefreshToken(ctx, hash)
}

// VerifyEmail consumes a verification token.
func (s *Service) VerifyEmail(ctx context.Context, rawToken string) error {
	hash := token.HashSHA256(rawToken)
	userID, expiresAt, err := s.repo.GetUserToken(ctx, hash, repository.TokenTypeEmailVerify)
	if err != nil {
		return apperr.BadRequest("invalid verification token")
	}

	if time.Now().After(expiresAt) {
		return apperr.BadRequest("verification token expired")
	}

	if err := s.repo.MarkEmailVerified(ctx, userID); err != nil {
		return err
	}

	_ = s.repo.UseUserToken(ctx, hash, repository.TokenTypeEmailVerify)
	return nil
}

func (s *Service) issueTokens(ctx context.Context, userID uuid.UUID) (string, string, error) {
	tenantID, err := s.repo.GetTenantIDForUser(ctx, userID)
	if err != nil {
		return "", "", err
	}

	accessToken, err := s.signJWT(userID, tenantID)
	if err != nil {
		return "", "", err
	}

	refreshToken, err := token.GenerateRandomToken(48)
	if err != nil {
		return "", "", err
	}

	hash := token.HashSHA256(refreshToken)
	expiresAt := time.Now().Add(s.cfg.GetRefreshTokenTTL())
	if err := s.repo.CreateRefreshToken(ctx, userID, hash, expiresAt); err != nil {
		return "", "", err
	}

	return accessToken, refreshToken, nil
}

func (s *Service) signJWT(userID uuid.UUID, tenantID *uuid.UUID) (string, error) {
	claims := jwt.MapClaims{
		"sub":  userID.String(),
		"type": accessTokenType,
		"exp":  time.Now().Add(s.cfg.GetAccessTokenTTL()).Unix(),
		"iat":  time.Now().Unix(),
	}
	if tenantID != nil {
		claims["tenant_id"] = tenantID.String()
	}

	tokenObj := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tokenObj.SignedString([]byte(s.cfg.GetJWTAccessSecret()))
}

func (s *Service) buildURL(path string, tokenValue string) string {
	base := strings.TrimRight(s.cfg.GetAppBaseURL(), "/")
	return base + path + "?token=" + tokenValue
}
