package handler

import (
	"net/http"

	"retainly_backend/internal/voiceleads/service"
	"retainly_backend/internal/voiceleads/transport"
	"retainly_backend/platform/httpkit"
	"retainly_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidSession   = "invalid session id"
)

const maxSessionIDLen = 100

// Handler handles the public voice-lead conversation endpoints.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new voiceleads handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterRoutes registers the voice-lead routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/:session/message", h.Message)
	rg.GET("/:session", h.State)
}

func (h *Handler) Message(c *gin.Context) {
	sessionID, ok := sessionParam(c)
	if !ok {
		return
	}

	var req transport.MessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return
	}

	resp, err := h.svc.Message(c.Request.Context(), sessionID, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

func (h *Handler) State(c *gin.Context) {
	sessionID, ok := sessionParam(c)
	if !ok {
		return
	}

	resp, err := h.svc.State(sessionID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

func sessionParam(c *gin.Context) (string, bool) {
	sessionID := c.Param("session")
	if sessionID == "" || len(sessionID) > maxSessionIDLen {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidSession, nil)
		return "", false
	}
	return sessionID, true
}
