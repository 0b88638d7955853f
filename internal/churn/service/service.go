// Package service implements the churn assessment workflow: score the
// customer, explain the risk, and route a win-back action through the
// approval gate when the risk is high enough to act on.
package service

import (
	"context"
	"encoding/json"

	"retainly_backend/internal/churn/transport"
	"retainly_backend/internal/events"
	"retainly_backend/internal/executor"
	hitlservice "retainly_backend/internal/hitl/service"
	"retainly_backend/internal/provider"
	"retainly_backend/internal/scoring"
	"retainly_backend/platform/logger"
)

// Advisor produces an explanation for a score. Satisfied by the provider
// orchestrator.
type Advisor interface {
	Decide(ctx context.Context, req provider.Request) provider.Result
}

// Service runs churn assessments.
type Service struct {
	advisor        Advisor
	gate           *hitlservice.Gate
	eventBus       events.Bus
	valueThreshold float64
	log            *logger.Logger
}

// New creates a churn service. valueThreshold (in currency units) decides
// whether the win-back action is a voice call or an email.
func New(advisor Advisor, gate *hitlservice.Gate, eventBus events.Bus, valueThreshold float64, log *logger.Logger) *Service {
	return &Service{
		advisor:        advisor,
		gate:           gate,
		eventBus:       eventBus,
		valueThreshold: valueThreshold,
		log:            log,
	}
}

// Assess scores the customer and, for high or critical risk, requests advice
// and submits a win-back action through the gate.
func (s *Service) Assess(ctx context.Context, req transport.AssessRequest) (*transport.AssessResponse, error) {
	score := scoring.ChurnScore(req.Signals())

	s.eventBus.Publish(ctx, events.EntityScored{
		BaseEvent: events.NewBaseEvent(),
		EntityID:  req.EntityID,
		Workflow:  "churn",
		Composite: score.Composite,
		Label:     string(score.Label),
	})

	resp := &transport.AssessResponse{
		EntityID: req.EntityID,
		Score:    score,
	}

	if !scoring.NeedsAttention(score.Label) {
		return resp, nil
	}

	advice := s.advisor.Decide(ctx, provider.Request{
		EntityID:    req.EntityID,
		Workflow:    "churn",
		ScoreResult: score,
	})
	resp.Advice = &advice.Advice
	resp.Provider = advice.Provider
	resp.Attempts = advice.Attempts

	action := s.winbackAction(req, advice.Advice)
	snapshot := hitlservice.EntitySnapshot{
		EntityID:   req.EntityID,
		EntityType: "customer",
		ValueCents: req.ValueCents,
		Score:      score,
	}

	decision, err := s.gate.Submit(ctx, snapshot, action)
	if err != nil {
		return nil, err
	}
	resp.Disposition = decision.Disposition
	resp.InterventionID = decision.InterventionID
	if decision.ActionResult != nil {
		resultJSON, err := json.Marshal(decision.ActionResult)
		if err != nil {
			return nil, err
		}
		resp.ActionResult = resultJSON
	}

	return resp, nil
}

// winbackAction picks the outreach channel: a voice call for customers worth
// the gate threshold or more (always gated), a win-back email otherwise.
func (s *Service) winbackAction(req transport.AssessRequest, advice provider.Advice) executor.Action {
	if float64(req.ValueCents)/100 >= s.valueThreshold && req.Phone != "" {
		return executor.Action{
			Type:    "retention_call",
			Channel: executor.ChannelVoiceCall,
			Parameters: map[string]string{
				"phone":  req.Phone,
				"script": advice.Recommendation,
			},
			Irreversible: true,
		}
	}

	return executor.Action{
		Type:    "winback_email",
		Channel: executor.ChannelEmail,
		Parameters: map[string]string{
			"email":   req.Email,
			"subject": "We miss you",
			"body":    advice.Recommendation,
		},
	}
}

// Segment computes the customer's RFM segment. Pure read, no side effects
// beyond the scored event.
func (s *Service) Segment(ctx context.Context, req transport.SegmentRequest) *transport.SegmentResponse {
	score := scoring.RFMScore(req.Signals())

	s.eventBus.Publish(ctx, events.EntityScored{
		BaseEvent: events.NewBaseEvent(),
		EntityID:  req.EntityID,
		Workflow:  "rfm",
		Composite: score.Composite,
		Label:     string(score.Label),
	})

	return &transport.SegmentResponse{EntityID: req.EntityID, Score: score}
}
