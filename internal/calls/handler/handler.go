// Package handler exposes the calls and handoffs HTTP endpoints.
package handler

import (
	"net/http"
	"strconv"

	"voicedesk_backend/internal/calls/service"
	"voicedesk_backend/internal/calls/transport"
	"voicedesk_backend/platform/httpkit"
	"voicedesk_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Handler struct {
	service *service.Service
	val     *validator.Validator
}

func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{service: svc, val: val}
}

// ListCalls returns a page of the tenant's calls.
// GET /api/v1/calls?tag=&limit=&offset=
func (h *Handler) ListCalls(c *gin.Context) {
	tenantID, ok := h.getTenantID(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))

	resp, err := h.service.List(c.Request.Context(), tenantID, c.Query("tag"), limit, offset)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

// GetCall returns one call by its external identifier.
// GET /api/v1/calls/:callId
func (h *Handler) GetCall(c *gin.Context) {
	tenantID, ok := h.getTenantID(c)
	if !ok {
		return
	}

	resp, err := h.service.Get(c.Request.Context(), tenantID, c.Param("callId"))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

// GetStats returns the dashboard counters.
// GET /api/v1/calls/stats
func (h *Handler) GetStats(c *gin.Context) {
	tenantID, ok := h.getTenantID(c)
	if !ok {
		return
	}

	resp, err := h.service.Stats(c.Request.Context(), tenantID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

// ListHandoffs returns the tenant's callback requests.
// GET /api/v1/handoffs?status=open
func (h *Handler) ListHandoffs(c *gin.Context) {
	tenantID, ok := h.getTenantID(c)
	if !ok {
		return
	}

	resp, err := h.service.ListHandoffs(c.Request.Context(), tenantID, c.Query("status"))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

// UpdateHandoff closes or reopens a handoff.
// PATCH /api/v1/handoffs/:callId
func (h *Handler) UpdateHandoff(c *gin.Context) {
	tenantID, ok := h.getTenantID(c)
	if !ok {
		return
	}

	var req transport.UpdateHandoffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation error", err.Error())
		return
	}

	if err := h.service.SetHandoffStatus(c.Request.Context(), tenantID, c.Param("callId"), req.Status); httpkit.HandleError(c, err) {
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "handoff updated"})
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
