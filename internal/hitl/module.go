// Package hitl provides the human-in-the-loop intervention domain module.
package hitl

import (
	"retainly_backend/internal/events"
	"retainly_backend/internal/hitl/handler"
	"retainly_backend/internal/hitl/repository"
	"retainly_backend/internal/hitl/service"
	apphttp "retainly_backend/internal/http"
	"retainly_backend/platform/config"
	"retainly_backend/platform/logger"
	"retainly_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module represents the intervention approval domain module.
type Module struct {
	handler *handler.Handler
	gate    *service.Gate
}

// NewModule creates a new hitl module with all dependencies wired. The
// executor is injected rather than constructed here so that every module
// shares one dispatcher.
func NewModule(pool *pgxpool.Pool, exec service.Executor, eventBus events.Bus, cfg config.GateConfig, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	gate := service.NewGate(repo, exec, eventBus, cfg.GetGateValueThreshold(), log)
	h := handler.New(gate, val)

	return &Module{handler: h, gate: gate}
}

// Name returns the module name for logging.
func (m *Module) Name() string {
	return "hitl"
}

// Gate returns the approval gate for other modules to submit actions through.
func (m *Module) Gate() *service.Gate {
	return m.gate
}

// RegisterRoutes registers the module's routes under the admin group.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	interventions := ctx.Admin.Group("/interventions")
	m.handler.RegisterRoutes(interventions)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
