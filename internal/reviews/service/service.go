// Package service implements review solicitation: orders are queued and,
// after a delay, the customer is re-evaluated before a review request goes
// out. Customers who now look unhappy or lost are skipped; everyone else's
// email is routed through the approval gate like any other outbound action.
package service

import (
	"context"
	"fmt"
	"time"

	"retainly_backend/internal/events"
	"retainly_backend/internal/executor"
	hitlservice "retainly_backend/internal/hitl/service"
	"retainly_backend/internal/reviews/transport"
	"retainly_backend/internal/scheduler"
	"retainly_backend/internal/scoring"
	"retainly_backend/platform/logger"
)

// Outcomes of a review evaluation.
const (
	OutcomeSolicited   = "solicited"
	OutcomeSkippedRisk = "skipped_high_risk"
	OutcomeSkippedLost = "skipped_lost"
)

// Service runs the review solicitation workflow.
type Service struct {
	sched    scheduler.ReviewScheduler
	gate     *hitlservice.Gate
	eventBus events.Bus
	delay    time.Duration
	log      *logger.Logger
}

// New creates a reviews service. sched may be nil when redis is not
// configured; scheduling then fails loudly instead of silently dropping.
func New(sched scheduler.ReviewScheduler, gate *hitlservice.Gate, eventBus events.Bus, delay time.Duration, log *logger.Logger) *Service {
	return &Service{
		sched:    sched,
		gate:     gate,
		eventBus: eventBus,
		delay:    delay,
		log:      log,
	}
}

// Schedule queues the order for evaluation at delivery time plus the
// configured delay. Orders without a delivery timestamp count from now.
func (s *Service) Schedule(ctx context.Context, req transport.ScheduleRequest) (*transport.ScheduleResponse, error) {
	if s.sched == nil {
		return nil, fmt.Errorf("review scheduling unavailable: scheduler not configured")
	}

	deliveredAt := time.Now().UTC()
	if req.DeliveredAt != nil {
		deliveredAt = req.DeliveredAt.UTC()
	}
	runAt := deliveredAt.Add(s.delay)

	payload := scheduler.ReviewDuePayload{
		OrderID:         req.OrderID,
		EntityID:        req.EntityID,
		CustomerEmail:   req.CustomerEmail,
		CustomerName:    req.CustomerName,
		OrderValueCents: req.OrderValueCents,
		Signals:         req.Signals(),
	}
	if err := s.sched.ScheduleReviewDue(ctx, payload, runAt); err != nil {
		return nil, fmt.Errorf("schedule review: %w", err)
	}

	s.eventBus.Publish(ctx, events.ReviewScheduled{
		BaseEvent:     events.NewBaseEvent(),
		OrderID:       req.OrderID,
		CustomerEmail: req.CustomerEmail,
	})

	return &transport.ScheduleResponse{OrderID: req.OrderID, RunAt: runAt}, nil
}

// Run evaluates an order immediately, without going through the queue.
func (s *Service) Run(ctx context.Context, req transport.RunRequest) (*transport.RunResponse, error) {
	return s.evaluate(ctx, scheduler.ReviewDuePayload{
		OrderID:         req.OrderID,
		EntityID:        req.EntityID,
		CustomerEmail:   req.CustomerEmail,
		CustomerName:    req.CustomerName,
		OrderValueCents: req.OrderValueCents,
		Signals:         req.Signals(),
	})
}

// RunDueReview is the scheduler worker's entry point for due tasks.
func (s *Service) RunDueReview(ctx context.Context, payload scheduler.ReviewDuePayload) error {
	result, err := s.evaluate(ctx, payload)
	if err != nil {
		return err
	}
	s.log.Info("due review evaluated",
		"order_id", payload.OrderID, "outcome", result.Outcome, "disposition", result.Disposition)
	return nil
}

// evaluate re-scores the customer and decides whether to solicit. Champions
// and loyal customers get asked; customers who now look critically churned or
// lost do not. The solicitation email goes through the gate so high-value
// customers still get a human look first.
func (s *Service) evaluate(ctx context.Context, payload scheduler.ReviewDuePayload) (*transport.RunResponse, error) {
	segment := scoring.RFMScore(payload.Signals)
	churn := scoring.ChurnScore(payload.Signals)

	resp := &transport.RunResponse{
		OrderID: payload.OrderID,
		Segment: segment,
		Churn:   churn,
	}

	switch {
	case churn.Label == scoring.ChurnCritical:
		resp.Outcome = OutcomeSkippedRisk
		return resp, nil
	case segment.Label == scoring.SegmentLost:
		resp.Outcome = OutcomeSkippedLost
		return resp, nil
	}

	action := executor.Action{
		Type:    "review_request",
		Channel: executor.ChannelEmail,
		Parameters: map[string]string{
			"email":   payload.CustomerEmail,
			"subject": "How was your order?",
			"body":    reviewBody(payload.CustomerName, payload.OrderID),
		},
	}
	snapshot := hitlservice.EntitySnapshot{
		EntityID:   payload.EntityID,
		EntityType: "customer",
		ValueCents: payload.OrderValueCents,
		Score:      segment,
		Attributes: map[string]string{"order_id": payload.OrderID},
	}

	decision, err := s.gate.Submit(ctx, snapshot, action)
	if err != nil {
		return nil, err
	}

	resp.Outcome = OutcomeSolicited
	resp.Disposition = decision.Disposition
	resp.InterventionID = decision.InterventionID
	return resp, nil
}

func reviewBody(name, orderID string) string {
	greeting := "Hi"
	if name != "" {
		greeting = "Hi " + name
	}
	return fmt.Sprintf("%s,\n\nThanks again for order %s. We'd love to hear how it went - a short review helps us and other customers alike.", greeting, orderID)
}
