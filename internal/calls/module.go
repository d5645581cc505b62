// Package calls provides the call history bounded context module:
// dashboard listings, stats and handoff resolution.
package calls

import (
	"voicedesk_backend/internal/calls/handler"
	"voicedesk_backend/internal/calls/repository"
	"voicedesk_backend/internal/calls/service"
	apphttp "voicedesk_backend/internal/http"
	"voicedesk_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the calls bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
}

// NewModule creates and initializes the calls module.
func NewModule(pool *pgxpool.Pool, val *validator.Validator) *Module {
	repo := repository.New(pool)
	svc := service.New(repo)
	return &Module{handler: handler.New(svc, val)}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "calls"
}

// RegisterRoutes mounts the call history routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	calls := ctx.Protected.Group("/calls")
	calls.GET("", m.handler.ListCalls)
	calls.GET("/stats", m.handler.GetStats)
	calls.GET("/:callId", m.handler.GetCall)

	handoffs := ctx.Protected.Group("/handoffs")
	handoffs.GET("", m.handler.ListHandoffs)
	handoffs.PATCH("/:callId", m.handler.UpdateHandoff)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
