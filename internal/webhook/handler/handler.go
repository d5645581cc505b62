// Package handler exposes the webhook module's HTTP endpoints: the
// public ingestion route and the protected endpoint management API.
package handler

import (
	"io"
	"net/http"

	"voicedesk_backend/internal/webhook/service"
	"voicedesk_backend/internal/webhook/transport"
	"voicedesk_backend/platform/httpkit"
	"voicedesk_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Bodies past this size are cut off before parsing.
const maxBodyBytes = 1 << 20

type Handler struct {
	ingest    *service.Service
	endpoints *service.EndpointService
	val       *validator.Validator
}

func New(ingest *service.Service, endpoints *service.EndpointService, val *validator.Validator) *Handler {
	return &Handler{ingest: ingest, endpoints: endpoints, val: val}
}

// HandleDelivery receives one event from the voice-agent platform.
// POST /api/webhooks/:endpointId
func (h *Handler) HandleDelivery(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBodyBytes))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "unreadable body", nil)
		return
	}

	err = h.ingest.ProcessDelivery(
		c.Request.Context(),
		c.Param("endpointId"),
		body,
		c.GetHeader(service.SignatureHeader),
	)
	if httpkit.HandleError(c, err) {
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}

// CreateEndpoint provisions an ingestion endpoint for the tenant.
// POST /api/v1/webhook-endpoints
func (h *Handler) CreateEndpoint(c *gin.Context) {
	tenantID, ok := h.getTenantID(c)
	if !ok {
		return
	}

	var req transport.CreateEndpointRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation error", err.Error())
		return
	}

	resp, err := h.endpoints.Create(c.Request.Context(), tenantID, req.EventType)
	if httpkit.HandleError(c, err) {
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// ListEndpoints returns the tenant's endpoints, secrets omitted.
// GET /api/v1/webhook-endpoints
func (h *Handler) ListEndpoints(c *gin.Context) {
	tenantID, ok := h.getTenantID(c)
	if !ok {
		return
	}

	resp, err := h.endpoints.List(c.Request.Context(), tenantID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

// UpdateEndpoint toggles whether the endpoint accepts deliveries.
// PATCH /api/v1/webhook-endpoints/:id
func (h *Handler) UpdateEndpoint(c *gin.Context) {
	tenantID, ok := h.getTenantID(c)
	if !ok {
		return
	}
	endpointID, ok := h.getEndpointID(c)
	if !ok {
		return
	}

	var req transport.UpdateEndpointRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation error", err.Error())
		return
	}

	if err := h.endpoints.SetEnabled(c.Request.Context(), tenantID, endpointID, *req.Enabled); httpkit.HandleError(c, err) {
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "endpoint updated"})
}

// DeleteEndpoint removes an endpoint. Existing call history is kept.
// DELETE /api/v1/webhook-endpoints/:id
func (h *Handler) DeleteEndpoint(c *gin.Context) {
	tenantID, ok := h.getTenantID(c)
	if !ok {
		return
	}
	endpointID, ok := h.getEndpointID(c)
	if !ok {
		return
	}

	if err := h.endpoints.Delete(c.Request.Context(), tenantID, endpointID); httpkit.HandleError(c, err) {
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "endpoint deleted"})
}

func (h *Handler) getTenantID(c *gin.Context) (uuid.UUID, bool) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return uuid.UUID{}, false
	}
	tenantID := identity.TenantID()
	if tenantID == nil {
		httpkit.Error(c, http.StatusForbidden, "no tenant context", nil)
		return uuid.UUID{}, false
	}
	return *tenantID, true
}

func (h *Handler) getEndpointID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid endpoint id", nil)
		return uuid.UUID{}, false
	}
	return id, true
}
