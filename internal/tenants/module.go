// Package tenants provides the tenant/business-profile bounded context module.
package tenants

import (
	"voicedesk_backend/internal/tenants/handler"
	"voicedesk_backend/internal/tenants/repository"
	"voicedesk_backend/internal/tenants/service"
	apphttp "voicedesk_backend/internal/http"
	"voicedesk_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the tenants bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	repo    *repository.Repository
}

// NewModule creates and initializes the tenants module.
func NewModule(pool *pgxpool.Pool, val *validator.Validator) *Module {
	repo := repository.New(pool)
	svc := service.New(repo)
	h := handler.New(svc, val)

	return &Module{handler: h, repo: repo}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "tenants"
}

// Repository exposes the tenant repository for notification wiring.
func (m *Module) Repository() *repository.Repository {
	return m.repo
}

// RegisterRoutes mounts tenant routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/tenant")
	group.GET("/profile", m.handler.GetProfile)
	group.PUT("/profile", m.handler.UpdateProfile)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
