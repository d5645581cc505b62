// Package service implements the tenant profile use cases.
package service

import (
	"context"

	"voicedesk_backend/internal/tenants/repository"
	"voicedesk_backend/internal/tenants/transport"
	"voicedesk_backend/platform/phone"

	"github.com/google/uuid"
)

type Service struct {
	repo *repository.Repository
}

func New(repo *repository.Repository) *Service {
	return &Service{repo: repo}
}

// GetProfile returns the tenant's business profile.
func (s *Service) GetProfile(ctx context.Context, tenantID uuid.UUID) (transport.ProfileResponse, error) {
	t, err := s.repo.GetByID(ctx, tenantID)
	if err != nil {
		return transport.ProfileResponse{}, err
	}
	return toProfileResponse(t), nil
}

// UpdateProfile persists the editable business profile fields.
func (s *Service) UpdateProfile(ctx context.Context, tenantID uuid.UUID, req transport.UpdateProfileRequest) (transport.ProfileResponse, error) {
	contactPhone := req.ContactPhone
	if contactPhone != nil {
		normalized := phone.NormalizeE164(*contactPhone)
		contactPhone = &normalized
	}

	t, err := s.repo.UpdateProfile(ctx, tenantID, req.BusinessName, contactPhone, req.NotificationEmail, req.BusinessHours)
	if err != nil {
		return transport.ProfileResponse{}, err
	}
	return toProfileResponse(t), nil
}

func toProfileResponse(t repository.Tenant) transport.ProfileResponse {
	return transport.ProfileResponse{
		TenantID:          t.ID,
		BusinessName:      t.BusinessName,
		ContactPhone:      t.ContactPhone,
		NotificationEmail: t.NotificationEmail,
		BusinessHours:     t.BusinessHours,
	}
}
