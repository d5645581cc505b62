// Package service implements the calls read side: listing, stats and
// handoff resolution.
package service

import (
	"context"

	"voicedesk_backend/internal/calls/domain"
	"voicedesk_backend/internal/calls/repository"
	"voicedesk_backend/internal/calls/transport"
	"voicedesk_backend/platform/apperr"

	"github.com/google/uuid"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type Service struct {
	repo *repository.Repository
}

func New(repo *repository.Repository) *Service {
	return &Service{repo: repo}
}

// List returns a page of the tenant's calls. An unknown tag filter is
// rejected rather than silently matching nothing.
func (s *Service) List(ctx context.Context, tenantID uuid.UUID, tag string, limit, offset int) (transport.CallListResponse, error) {
	if tag != "" && !domain.Tag(tag).Valid() {
		return transport.CallListResponse{}, apperr.Validation("unknown tag filter")
	}
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}

	calls, total, err := s.repo.List(ctx, tenantID, repository.ListParams{
		Tag:    tag,
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return transport.CallListResponse{}, err
	}

	resp := transport.CallListResponse{
		Calls:  make([]transport.CallResponse, 0, len(calls)),
		Total:  total,
		Limit:  limit,
		Offset: offset,
	}
	for _, call := range calls {
		resp.Calls = append(resp.Calls, transport.FromCall(call))
	}
	return resp, nil
}

// Get fetches one call by its external identifier.
func (s *Service) Get(ctx context.Context, tenantID uuid.UUID, callID string) (transport.CallResponse, error) {
	call, err := s.repo.GetByCallID(ctx, tenantID, callID)
	if err != nil {
		return transport.CallResponse{}, err
	}
	return transport.FromCall(call), nil
}

// Stats returns the dashboard counters.
func (s *Service) Stats(ctx context.Context, tenantID uuid.UUID) (transport.StatsResponse, error) {
	stats, err := s.repo.GetStats(ctx, tenantID)
	if err != nil {
		return transport.StatsResponse{}, err
	}

	resp := transport.StatsResponse{
		TotalCalls:   stats.TotalCalls,
		Appointments: stats.Appointments,
		Handoffs:     stats.Handoffs,
	}
	if stats.TotalCalls > 0 {
		resp.ConversionRate = float64(stats.Appointments) / float64(stats.TotalCalls)
	}
	return resp, nil
}

// ListHandoffs returns the tenant's callback requests.
func (s *Service) ListHandoffs(ctx context.Context, tenantID uuid.UUID, status string) ([]transport.HandoffResponse, error) {
	if status != "" && status != repository.HandoffStatusOpen && status != repository.HandoffStatusClosed {
		return nil, apperr.Validation("unknown handoff status")
	}

	handoffs, err := s.repo.ListHandoffs(ctx, tenantID, status)
	if err != nil {
		return nil, err
	}

	resp := make([]transport.HandoffResponse, 0, len(handoffs))
	for _, h := range handoffs {
		resp = append(resp, transport.FromHandoff(h))
	}
	return resp, nil
}

// SetHandoffStatus closes or reopens a handoff.
func (s *Service) SetHandoffStatus(ctx context.Context, tenantID uuid.UUID, callID, status string) error {
	return s.repo.SetHandoffStatus(ctx, tenantID, callID, status)
}
