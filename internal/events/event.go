// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"retainly_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Scoring Domain Events
// =============================================================================

// EntityScored is published whenever the scoring engine labels an entity.
type EntityScored struct {
	BaseEvent
	EntityID  string  `json:"entityId"`
	Workflow  string  `json:"workflow"`
	Composite float64 `json:"composite"`
	Label     string  `json:"label"`
}

func (e EntityScored) EventName() string { return "scoring.entity.scored" }

// =============================================================================
// Intervention Domain Events
// =============================================================================

// InterventionCreated is published when the gate queues an action for approval.
type InterventionCreated struct {
	BaseEvent
	InterventionID uuid.UUID `json:"interventionId"`
	EntityID       string    `json:"entityId"`
	ActionType     string    `json:"actionType"`
	Channel        string    `json:"channel"`
	EntityValue    float64   `json:"entityValue"`
}

func (e InterventionCreated) EventName() string { return "hitl.intervention.created" }

// InterventionApproved is published after an operator approves an intervention
// and the action has been attempted.
type InterventionApproved struct {
	BaseEvent
	InterventionID uuid.UUID `json:"interventionId"`
	EntityID       string    `json:"entityId"`
	ActionStatus   string    `json:"actionStatus"`
}

func (e InterventionApproved) EventName() string { return "hitl.intervention.approved" }

// InterventionRejected is published after an operator rejects an intervention.
type InterventionRejected struct {
	BaseEvent
	InterventionID uuid.UUID `json:"interventionId"`
	EntityID       string    `json:"entityId"`
	Reason         string    `json:"reason,omitempty"`
}

func (e InterventionRejected) EventName() string { return "hitl.intervention.rejected" }

// =============================================================================
// Executor Domain Events
// =============================================================================

// ActionExecuted is published when the executor performs an outbound action.
type ActionExecuted struct {
	BaseEvent
	EntityID   string `json:"entityId"`
	ActionType string `json:"actionType"`
	Channel    string `json:"channel"`
	Status     string `json:"status"`
	Detail     string `json:"detail,omitempty"`
}

func (e ActionExecuted) EventName() string { return "executor.action.executed" }

// =============================================================================
// Review Domain Events
// =============================================================================

// ReviewScheduled is published when an order is queued for review solicitation.
type ReviewScheduled struct {
	BaseEvent
	OrderID       string `json:"orderId"`
	CustomerEmail string `json:"customerEmail"`
}

func (e ReviewScheduled) EventName() string { return "reviews.review.scheduled" }

// =============================================================================
// Voice Lead Domain Events
// =============================================================================

// LeadQualificationCompleted is published when a voice-lead session finishes
// qualification.
type LeadQualificationCompleted struct {
	BaseEvent
	SessionID string  `json:"sessionId"`
	Tier      string  `json:"tier"`
	Composite float64 `json:"composite"`
}

func (e LeadQualificationCompleted) EventName() string { return "voiceleads.qualification.completed" }
