package service

import (
	"context"
	"fmt"

	"voicedesk_backend/internal/webhook/repository"
	"voicedesk_backend/internal/webhook/transport"
	"voicedesk_backend/platform/config"

	"github.com/google/uuid"
)

// EndpointService manages a tenant's webhook endpoints.
type EndpointService struct {
	repo *repository.Repository
	cfg  config.WebhookConfig
}

// NewEndpointService creates the endpoint management service.
func NewEndpointService(repo *repository.Repository, cfg config.WebhookConfig) *EndpointService {
	return &EndpointService{repo: repo, cfg: cfg}
}

// Create provisions a new endpoint with a fresh signing secret. The
// secret is returned exactly once.
func (s *EndpointService) Create(ctx context.Context, tenantID uuid.UUID, eventType string) (transport.EndpointResponse, error) {
	secret, err := GenerateSecret()
	if err != nil {
		return transport.EndpointResponse{}, fmt.Errorf("generate endpoint secret: %w", err)
	}
	ep, err := s.repo.CreateEndpoint(ctx, tenantID, eventType, secret)
	if err != nil {
		return transport.EndpointResponse{}, err
	}
	resp := s.toResponse(ep)
	resp.Secret = ep.Secret
	return resp, nil
}

// List returns the tenant's endpoints without secrets.
func (s *EndpointService) List(ctx context.Context, tenantID uuid.UUID) ([]transport.EndpointResponse, error) {
	endpoints, err := s.repo.ListEndpoints(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	resp := make([]transport.EndpointResponse, 0, len(endpoints))
	for _, ep := range endpoints {
		resp = append(resp, s.toResponse(ep))
	}
	return resp, nil
}

// SetEnabled toggles whether the endpoint accepts deliveries.
func (s *EndpointService) SetEnabled(ctx context.Context, tenantID, endpointID uuid.UUID, enabled bool) error {
	return s.repo.SetEndpointEnabled(ctx, tenantID, endpointID, enabled)
}

// Delete removes an endpoint permanently.
func (s *EndpointService) Delete(ctx context.Context, tenantID, endpointID uuid.UUID) error {
	return s.repo.DeleteEndpoint(ctx, tenantID, endpointID)
}

func (s *EndpointService) toResponse(ep repository.Endpoint) transport.EndpointResponse {
	return transport.EndpointResponse{
		ID:        ep.ID,
		URL:       fmt.Sprintf("%s/api/webhooks/%s", s.cfg.GetPublicBaseURL(), ep.ID),
		EventType: ep.EventType,
		Enabled:   ep.Enabled,
		CreatedAt: ep.CreatedAt,
	}
}
