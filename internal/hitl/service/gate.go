// Package service implements the human-in-the-loop approval gate. Actions
// that are irreversible or touch high-value entities are parked as
// interventions until an operator approves or rejects them; everything else
// executes immediately.
package service

import (
	"context"
	"encoding/json"
	"fmt"

	"retainly_backend/internal/events"
	"retainly_backend/internal/executor"
	"retainly_backend/internal/hitl/repository"
	"retainly_backend/internal/scoring"
	"retainly_backend/platform/logger"

	"github.com/google/uuid"
)

// Dispositions returned by Submit.
const (
	DispositionExecuted = "executed"
	DispositionQueued   = "queued"
)

// EntitySnapshot is the frozen view of an entity at decision time. It is
// persisted verbatim with the intervention so the approval screen shows what
// the system saw, not what the entity looks like later.
type EntitySnapshot struct {
	EntityID   string            `json:"entity_id"`
	EntityType string            `json:"entity_type"`
	ValueCents int64             `json:"value_cents"`
	Score      scoring.Result    `json:"score"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

// Decision is the outcome of submitting an action through the gate.
type Decision struct {
	Disposition    string           `json:"disposition"`
	InterventionID *uuid.UUID       `json:"intervention_id,omitempty"`
	ActionResult   *executor.Result `json:"action_result,omitempty"`
}

// Store is the persistence surface the gate needs.
type Store interface {
	CreatePending(ctx context.Context, entityID, actionType, channel string, snapshot, action []byte) (uuid.UUID, bool, error)
	GetByID(ctx context.Context, id uuid.UUID) (*repository.Intervention, error)
	ListPending(ctx context.Context) ([]repository.Intervention, error)
	ListResolved(ctx context.Context) ([]repository.Intervention, error)
	Approve(ctx context.Context, id uuid.UUID) error
	Reject(ctx context.Context, id uuid.UUID, reason string) error
	AttachActionResult(ctx context.Context, id uuid.UUID, result []byte) error
}

// Executor performs an approved or ungated action.
type Executor interface {
	Execute(ctx context.Context, entityID string, action executor.Action) (executor.Result, error)
}

// Gate decides whether actions execute immediately or wait for approval.
type Gate struct {
	store          Store
	exec           Executor
	eventBus       events.Bus
	valueThreshold float64
	log            *logger.Logger
}

func NewGate(store Store, exec Executor, eventBus events.Bus, valueThreshold float64, log *logger.Logger) *Gate {
	return &Gate{
		store:          store,
		exec:           exec,
		eventBus:       eventBus,
		valueThreshold: valueThreshold,
		log:            log,
	}
}

// ShouldGate reports whether the action needs human approval: irreversible
// delivery (voice calls always count) or an entity worth at least the
// configured threshold.
func (g *Gate) ShouldGate(snapshot EntitySnapshot, action executor.Action) bool {
	if action.Irreversible || action.Channel == executor.ChannelVoiceCall {
		return true
	}
	return float64(snapshot.ValueCents)/100 >= g.valueThreshold
}

// Submit routes an action through the gate. Ungated actions run immediately
// and leave no record. Gated actions are persisted pending_approval;
// resubmitting the same (entity, action type) while a pending record exists
// returns that record's id instead of creating a duplicate.
func (g *Gate) Submit(ctx context.Context, snapshot EntitySnapshot, action executor.Action) (Decision, error) {
	if !g.ShouldGate(snapshot, action) {
		result, err := g.exec.Execute(ctx, snapshot.EntityID, action)
		if err != nil {
			return Decision{}, fmt.Errorf("execute ungated action: %w", err)
		}
		return Decision{Disposition: DispositionExecuted, ActionResult: &result}, nil
	}

	snapshotJSON, err := json.Marshal(snapshot)
	if err != nil {
		return Decision{}, fmt.Errorf("marshal entity snapshot: %w", err)
	}
	actionJSON, err := json.Marshal(action)
	if err != nil {
		return Decision{}, fmt.Errorf("marshal proposed action: %w", err)
	}

	id, created, err := g.store.CreatePending(ctx, snapshot.EntityID, action.Type, action.Channel, snapshotJSON, actionJSON)
	if err != nil {
		return Decision{}, err
	}

	if created {
		g.log.InterventionEvent("created", id.String(), snapshot.EntityID)
		g.eventBus.Publish(ctx, events.InterventionCreated{
			BaseEvent:      events.NewBaseEvent(),
			InterventionID: id,
			EntityID:       snapshot.EntityID,
			ActionType:     action.Type,
			Channel:        action.Channel,
			EntityValue:    float64(snapshot.ValueCents) / 100,
		})
	}

	return Decision{Disposition: DispositionQueued, InterventionID: &id}, nil
}

// Approve resolves a pending intervention and executes its action exactly
// once. The store's conditional update picks the winning resolver; only the
// winner reaches the executor. The execution result is attached to the record
// whether the action succeeded or failed.
func (g *Gate) Approve(ctx context.Context, id uuid.UUID) (*repository.Intervention, error) {
	iv, err := g.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := g.store.Approve(ctx, id); err != nil {
		return nil, err
	}

	var action executor.Action
	if err := json.Unmarshal(iv.ProposedAction, &action); err != nil {
		return nil, fmt.Errorf("unmarshal proposed action: %w", err)
	}

	result, execErr := g.exec.Execute(ctx, iv.EntityID, action)
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("marshal action result: %w", err)
	}
	if err := g.store.AttachActionResult(ctx, id, resultJSON); err != nil {
		return nil, err
	}
	if execErr != nil {
		g.log.InterventionEvent("approved_execution_failed", id.String(), iv.EntityID)
	} else {
		g.log.InterventionEvent("approved", id.String(), iv.EntityID)
	}

	g.eventBus.Publish(ctx, events.InterventionApproved{
		BaseEvent:      events.NewBaseEvent(),
		InterventionID: id,
		EntityID:       iv.EntityID,
		ActionStatus:   result.Status,
	})

	return g.store.GetByID(ctx, id)
}

// Reject resolves a pending intervention with a reason. The executor is never
// invoked for rejected interventions.
func (g *Gate) Reject(ctx context.Context, id uuid.UUID, reason string) (*repository.Intervention, error) {
	iv, err := g.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := g.store.Reject(ctx, id, reason); err != nil {
		return nil, err
	}
	g.log.InterventionEvent("rejected", id.String(), iv.EntityID)

	g.eventBus.Publish(ctx, events.InterventionRejected{
		BaseEvent:      events.NewBaseEvent(),
		InterventionID: id,
		EntityID:       iv.EntityID,
		Reason:         reason,
	})

	return g.store.GetByID(ctx, id)
}

// Get returns one intervention.
func (g *Gate) Get(ctx context.Context, id uuid.UUID) (*repository.Intervention, error) {
	return g.store.GetByID(ctx, id)
}

// ListPending returns the open approval queue.
func (g *Gate) ListPending(ctx context.Context) ([]repository.Intervention, error) {
	return g.store.ListPending(ctx)
}

// ListResolved returns the resolved audit trail.
func (g *Gate) ListResolved(ctx context.Context) ([]repository.Intervention, error) {
	return g.store.ListResolved(ctx)
}
