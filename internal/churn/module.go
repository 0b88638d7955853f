// Package churn provides the churn assessment domain module.
package churn

import (
	"retainly_backend/internal/churn/handler"
	"retainly_backend/internal/churn/service"
	"retainly_backend/internal/events"
	hitlservice "retainly_backend/internal/hitl/service"
	apphttp "retainly_backend/internal/http"
	"retainly_backend/platform/config"
	"retainly_backend/platform/logger"
	"retainly_backend/platform/validator"
)

// Module represents the churn domain module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates a new churn module with all dependencies wired.
func NewModule(advisor service.Advisor, gate *hitlservice.Gate, eventBus events.Bus, cfg config.GateConfig, val *validator.Validator, log *logger.Logger) *Module {
	svc := service.New(advisor, gate, eventBus, cfg.GetGateValueThreshold(), log)
	h := handler.New(svc, val)

	return &Module{handler: h, service: svc}
}

// Name returns the module name for logging.
func (m *Module) Name() string {
	return "churn"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes registers the module's routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	churn := ctx.Admin.Group("/churn")
	m.handler.RegisterRoutes(churn)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
