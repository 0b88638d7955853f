package handler

import (
	"net/http"

	"retainly_backend/internal/churn/service"
	"retainly_backend/internal/churn/transport"
	"retainly_backend/platform/httpkit"
	"retainly_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// Handler handles HTTP requests for churn assessment.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new churn handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterRoutes registers the churn routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/assess", h.Assess)
	rg.POST("/segment", h.Segment)
}

func (h *Handler) Assess(c *gin.Context) {
	var req transport.AssessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return
	}

	resp, err := h.svc.Assess(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

func (h *Handler) Segment(c *gin.Context) {
	var req transport.SegmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return
	}

	httpkit.OK(c, h.svc.Segment(c.Request.Context(), req))
}
