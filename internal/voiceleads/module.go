// Package voiceleads provides the public voice-lead qualification module.
package voiceleads

import (
	"retainly_backend/internal/events"
	hitlservice "retainly_backend/internal/hitl/service"
	apphttp "retainly_backend/internal/http"
	"retainly_backend/internal/sessions"
	"retainly_backend/internal/voiceleads/handler"
	"retainly_backend/internal/voiceleads/service"
	"retainly_backend/platform/config"
	"retainly_backend/platform/logger"
	"retainly_backend/platform/validator"
)

// Module represents the voice-lead domain module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	log     *logger.Logger
}

// NewModule creates a new voiceleads module with all dependencies wired.
func NewModule(advisor service.Advisor, gate *hitlservice.Gate, eventBus events.Bus, cfg config.SessionConfig, val *validator.Validator, log *logger.Logger) *Module {
	store := sessions.NewStore(cfg.GetSessionCapacity())
	svc := service.New(store, advisor, gate, eventBus, log)
	h := handler.New(svc, val)

	return &Module{handler: h, service: svc, log: log}
}

// Name returns the module name for logging.
func (m *Module) Name() string {
	return "voiceleads"
}

// RegisterRoutes registers the public conversation routes. These carry no
// auth, only the sliding-window rate limit.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	public := ctx.V1.Group("/voice-leads")
	public.Use(ctx.PublicLimiter.RateLimit(m.log))
	m.handler.RegisterRoutes(public)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
