// Package webhook provides the webhook ingestion bounded context
// module: the public delivery route and endpoint management.
package webhook

import (
	apphttp "voicedesk_backend/internal/http"
	"voicedesk_backend/internal/webhook/handler"
	"voicedesk_backend/internal/webhook/repository"
	"voicedesk_backend/internal/webhook/service"
	"voicedesk_backend/platform/config"
	"voicedesk_backend/platform/events"
	"voicedesk_backend/platform/logger"
	"voicedesk_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the webhook bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
}

// NewModule creates and initializes the webhook module.
func NewModule(pool *pgxpool.Pool, cfg config.WebhookConfig, bus events.Bus, log *logger.Logger, val *validator.Validator) *Module {
	repo := repository.New(pool)
	ingest := service.New(repo, cfg, bus, log)
	endpoints := service.NewEndpointService(repo, cfg)

	return &Module{handler: handler.New(ingest, endpoints, val)}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "webhook"
}

// RegisterRoutes mounts the public ingestion route and the protected
// endpoint management routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Public.POST("/webhooks/:endpointId", m.handler.HandleDelivery)

	group := ctx.Protected.Group("/webhook-endpoints")
	group.POST("", m.handler.CreateEndpoint)
	group.GET("", m.handler.ListEndpoints)
	group.PATCH("/:id", m.handler.UpdateEndpoint)
	group.DELETE("/:id", m.handler.DeleteEndpoint)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
