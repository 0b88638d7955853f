// Package executor performs outbound actions on behalf of the decision
// pipeline: voice calls, emails, and CRM updates. It knows nothing about
// approval; callers decide whether an action may run.
package executor

import (
	"context"
	"time"

	"retainly_backend/internal/events"
	"retainly_backend/platform/apperr"
	"retainly_backend/platform/logger"
)

// Channel identifies the delivery mechanism for an action.
const (
	ChannelVoiceCall = "voice_call"
	ChannelEmail     = "email"
	ChannelCRMSync   = "crm_sync"
)

// Action statuses.
const (
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
)

// Action is one outbound action to perform for an entity.
type Action struct {
	Type         string            `json:"type"`
	Channel      string            `json:"channel"`
	Parameters   map[string]string `json:"parameters"`
	Irreversible bool              `json:"irreversible"`
}

// Result records the outcome of an executed action.
type Result struct {
	Status     string    `json:"status"`
	Detail     string    `json:"detail,omitempty"`
	ExecutedAt time.Time `json:"executed_at"`
}

// ChannelClient delivers actions for a single channel.
type ChannelClient interface {
	Deliver(ctx context.Context, entityID string, action Action) (string, error)
}

// Dispatcher routes actions to channel clients and publishes an
// ActionExecuted event for every attempt, success or failure.
type Dispatcher struct {
	channels map[string]ChannelClient
	eventBus events.Bus
	log      *logger.Logger
}

func NewDispatcher(eventBus events.Bus, log *logger.Logger) *Dispatcher {
	return &Dispatcher{
		channels: make(map[string]ChannelClient),
		eventBus: eventBus,
		log:      log,
	}
}

// Register wires a client for a channel. A nil client is ignored so that
// disabled channels can be passed straight through from the composition root.
func (d *Dispatcher) Register(channel string, client ChannelClient) {
	if client == nil {
		return
	}
	d.channels[channel] = client
}

// Execute performs the action and returns its result. An unknown or
// unconfigured channel is an Invalid error; delivery failures come back as a
// failed Result together with the error.
func (d *Dispatcher) Execute(ctx context.Context, entityID string, action Action) (Result, error) {
	client, ok := d.channels[action.Channel]
	if !ok {
		return Result{}, apperr.BadRequest("unsupported action channel: " + action.Channel)
	}

	detail, err := client.Deliver(ctx, entityID, action)
	result := Result{
		Status:     StatusSucceeded,
		Detail:     detail,
		ExecutedAt: time.Now().UTC(),
	}
	if err != nil {
		result.Status = StatusFailed
		result.Detail = err.Error()
	}

	d.log.ActionExecuted(action.Type, action.Channel, result.Status)
	d.eventBus.Publish(ctx, events.ActionExecuted{
		BaseEvent:  events.NewBaseEvent(),
		EntityID:   entityID,
		ActionType: action.Type,
		Channel:    action.Channel,
		Status:     result.Status,
		Detail:     result.Detail,
	})

	if err != nil {
		return result, err
	}
	return result, nil
}
