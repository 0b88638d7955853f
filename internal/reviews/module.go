// Package reviews provides the review solicitation domain module.
package reviews

import (
	"retainly_backend/internal/events"
	hitlservice "retainly_backend/internal/hitl/service"
	apphttp "retainly_backend/internal/http"
	"retainly_backend/internal/reviews/handler"
	"retainly_backend/internal/reviews/service"
	"retainly_backend/internal/scheduler"
	"retainly_backend/platform/config"
	"retainly_backend/platform/logger"
	"retainly_backend/platform/validator"
)

// Module represents the reviews domain module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates a new reviews module with all dependencies wired.
func NewModule(sched scheduler.ReviewScheduler, gate *hitlservice.Gate, eventBus events.Bus, cfg config.SchedulerConfig, val *validator.Validator, log *logger.Logger) *Module {
	svc := service.New(sched, gate, eventBus, cfg.GetReviewDelay(), log)
	h := handler.New(svc, val)

	return &Module{handler: h, service: svc}
}

// Name returns the module name for logging.
func (m *Module) Name() string {
	return "reviews"
}

// Service returns the service layer; the scheduler worker uses it as its
// ReviewRunner.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes registers the module's routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	reviews := ctx.Admin.Group("/reviews")
	m.handler.RegisterRoutes(reviews)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
