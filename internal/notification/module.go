// Package notification provides event handlers for alerting operators in
// response to domain events. This module subscribes to events and inverts the
// dependency: domain modules publish what happened without knowing how
// operators are reached.
package notification

import (
	"context"
	"fmt"

	"retainly_backend/internal/events"
	"retainly_backend/platform/config"
	"retainly_backend/platform/logger"
)

// Sender delivers operator notifications.
type Sender interface {
	SendInterventionPendingEmail(ctx context.Context, toEmail string, ev events.InterventionCreated) error
}

// Module handles domain events and fans them out to operators.
type Module struct {
	sender        Sender
	operatorEmail string
	log           *logger.Logger
}

// New creates the notification module. A nil sender (or an empty operator
// address) degrades to audit logging only.
func New(sender Sender, cfg config.NotificationConfig, log *logger.Logger) *Module {
	return &Module{
		sender:        sender,
		operatorEmail: cfg.GetOperatorEmail(),
		log:           log,
	}
}

// RegisterHandlers subscribes to all relevant domain events on the event bus.
func (m *Module) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.InterventionCreated{}.EventName(), m)
	bus.Subscribe(events.InterventionApproved{}.EventName(), m)
	bus.Subscribe(events.InterventionRejected{}.EventName(), m)
	bus.Subscribe(events.ActionExecuted{}.EventName(), m)
}

// Handle dispatches an event to its handler.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.InterventionCreated:
		return m.handleInterventionCreated(ctx, e)
	case events.InterventionApproved:
		m.log.Info("intervention_resolved",
			"intervention_id", e.InterventionID.String(),
			"entity_id", e.EntityID,
			"resolution", "approved",
			"action_status", e.ActionStatus,
		)
		return nil
	case events.InterventionRejected:
		m.log.Info("intervention_resolved",
			"intervention_id", e.InterventionID.String(),
			"entity_id", e.EntityID,
			"resolution", "rejected",
			"reason", e.Reason,
		)
		return nil
	case events.ActionExecuted:
		if e.Status == "failed" {
			m.log.Warn("action_failed",
				"entity_id", e.EntityID,
				"action_type", e.ActionType,
				"channel", e.Channel,
				"detail", e.Detail,
			)
		}
		return nil
	}
	return nil
}

func (m *Module) handleInterventionCreated(ctx context.Context, ev events.InterventionCreated) error {
	m.log.Info("intervention_pending",
		"intervention_id", ev.InterventionID.String(),
		"entity_id", ev.EntityID,
		"action_type", ev.ActionType,
		"channel", ev.Channel,
	)

	if m.sender == nil || m.operatorEmail == "" {
		return nil
	}

	if err := m.sender.SendInterventionPendingEmail(ctx, m.operatorEmail, ev); err != nil {
		return fmt.Errorf("notify operator about intervention %s: %w", ev.InterventionID, err)
	}
	return nil
}
