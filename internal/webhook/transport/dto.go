// Package transport defines request and response DTOs for the webhook
// module's management API.
package transport

import (
	"time"

	"github.com/google/uuid"
)

// CreateEndpointRequest provisions a new ingestion endpoint.
type CreateEndpointRequest struct {
	EventType string `json:"eventType" validate:"required,max=100"`
}

// UpdateEndpointRequest toggles delivery acceptance.
type UpdateEndpointRequest struct {
	Enabled *bool `json:"enabled" validate:"required"`
}

// EndpointResponse describes one endpoint. Secret is only present in
// the creation response.
type EndpointResponse struct {
	ID        uuid.UUID `json:"id"`
	URL       string    `json:"url"`
	EventType string    `json:"eventType"`
	Enabled   bool      `json:"enabled"`
	Secret    string    `json:"secret,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
