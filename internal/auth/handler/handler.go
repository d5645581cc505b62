// Package handler exposes the auth module's HTTP endpoints.
package handler

import (
	"net/http"

	"voicedesk_backend/internal/auth/service"
	"voicedesk_backend/internal/auth/transport"
	"voicedesk_backend/platform/config"
	"voicedesk_backend/platform/httpkit"
	"voicedesk_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

const (
	errInvalidRequest = "invalid request body"
	errValidation     = "validation error"
)

type Handler struct {
	service *service.Service
	cookies config.CookieConfig
	val     *validator.Validator
}

func New(svc *service.Service, cookies config.CookieConfig, val *validator.Validator) *Handler {
	return &Handler{service: svc, cookies: cookies, val: val}
}

// RegisterRoutes mounts the public auth routes on the given group.
func (h *Handler) RegisterRoutes(g *gin.RouterGroup) {
	g.POST("/signup", h.SignUp)
	g.POST("/signin", h.SignIn)
	g.POST("/refresh", h.Refresh)
	g.POST("/signout", h.SignOut)
	g.POST("/verify-email", h.VerifyEmail)
}

// SignUp registers a new business account.
// POST /api/v1/auth/signup
func (h *Handler) SignUp(c *gin.Context) {
	var req transport.SignUpRequest
	if !h.bindAndValidate(c, &req) {
		return
	}

	if err := h.service.SignUp(c.Request.Context(), req.Email, req.Password, req.BusinessName); err != nil {
		httpkit.HandleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "account created, check your inbox to verify"})
}

// SignIn exchanges credentials for an access token and refresh cookie.
// POST /api/v1/auth/signin
func (h *Handler) SignIn(c *gin.Context) {
	var req transport.SignInRequest
	if !h.bindAndValidate(c, &req) {
		return
	}

	access, refresh, err := h.service.SignIn(c.Request.Context(), req.Email, req.Password)
	if httpkit.HandleError(c, err) {
		return
	}

	h.setRefreshCookie(c, refresh)
	httpkit.OK(c, transport.AuthResponse{AccessToken: access})
}

// Refresh rotates the refresh cookie and returns a new access token.
// POST /api/v1/auth/refresh
func (h *Handler) Refresh(c *gin.Context) {
	raw, err := c.Cookie(h.cookies.GetRefreshCookieName())
	if err != nil || raw == "" {
		httpkit.Error(c, http.StatusUnauthorized, "missing refresh token", nil)
		return
	}

	access, refresh, err := h.service.Refresh(c.Request.Context(), raw)
	if httpkit.HandleError(c, err) {
		return
	}

	h.setRefreshCookie(c, refresh)
	httpkit.OK(c, transport.AuthResponse{AccessToken: access})
}

// SignOut revokes the refresh token and clears the cookie.
// POST /api/v1/auth/signout
func (h *Handler) SignOut(c *gin.Context) {
	raw, err := c.Cookie(h.cookies.GetRefreshCookieName())
	if err == nil && raw != "" {
		_ = h.service.SignOut(c.Request.Context(), raw)
	}

	h.clearRefreshCookie(c)
	c.JSON(http.StatusOK, gin.H{"message": "signed out"})
}

// VerifyEmail consumes a verification token from the signup email.
// POST /api/v1/auth/verify-email
func (h *Handler) VerifyEmail(c *gin.Context) {
	var req transport.VerifyEmailRequest
	if !h.bindAndValidate(c, &req) {
		return
	}

	if err := h.service.VerifyEmail(c.Request.Context(), req.Token); err != nil {
		httpkit.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "email verified"})
}

func (h *Handler) setRefreshCookie(c *gin.Context, refresh string) {
	c.SetSameSite(h.cookies.GetRefreshCookieSameSite())
	c.SetCookie(
		h.cookies.GetRefreshCookieName(),
		refresh,
		int(h.cookies.GetRefreshTokenTTL().Seconds()),
		h.cookies.GetRefreshCookiePath(),
		"",
		h.cookies.GetRefreshCookieSecure(),
		true,
	)
}

func (h *Handler) clearRefreshCookie(c *gin.Context) {
	c.SetSameSite(h.cookies.GetRefreshCookieSameSite())
	c.SetCookie(
		h.cookies.GetRefreshCookieName(),
		"",
		-1,
		h.cookies.GetRefreshCookiePath(),
		"",
		h.cookies.GetRefreshCookieSecure(),
		true,
	)
}

func (h *Handler) bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, errInvalidRequest, err.Error())
		return false
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, errValidation, err.Error())
		return false
	}
	return true
}
