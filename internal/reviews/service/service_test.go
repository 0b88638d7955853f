package service

import (
	"context"
	"testing"
	"time"

	"retainly_backend/internal/executor"
	"retainly_backend/internal/hitl/repository"
	hitlservice "retainly_backend/internal/hitl/service"
	"retainly_backend/internal/reviews/transport"
	"retainly_backend/internal/scheduler"
	"retainly_backend/platform/apperr"
	"retainly_backend/platform/events"
	"retainly_backend/platform/logger"

	"github.com/google/uuid"
)

type fakeSched struct {
	payloads []scheduler.ReviewDuePayload
	runAts   []time.Time
}

func (f *fakeSched) ScheduleReviewDue(ctx context.Context, payload scheduler.ReviewDuePayload, runAt time.Time) error {
	f.payloads = append(f.payloads, payload)
	f.runAts = append(f.runAts, runAt)
	return nil
}

type stubStore struct {
	created int
}

func (s *stubStore) CreatePending(ctx context.Context, entityID, actionType, channel string, snapshot, action []byte) (uuid.UUID, bool, error) {
	s.created++
	return uuid.Must(uuid.NewV7()), true, nil
}

func (s *stubStore) GetByID(ctx context.Context, id uuid.UUID) (*repository.Intervention, error) {
	return nil, apperr.NotFound("intervention not found")
}

func (s *stubStore) ListPending(ctx context.Context) ([]repository.Intervention, error) {
	return nil, nil
}
func (s *stubStore) ListResolved(ctx context.Context) ([]repository.Intervention, error) {
	return nil, nil
}
func (s *stubStore) Approve(ctx context.Context, id uuid.UUID) error               { return nil }
func (s *stubStore) Reject(ctx context.Context, id uuid.UUID, reason string) error { return nil }
func (s *stubStore) AttachActionResult(ctx context.Context, id uuid.UUID, result []byte) error {
	return nil
}

type stubExecutor struct {
	actions []executor.Action
}

func (e *stubExecutor) Execute(ctx context.Context, entityID string, action executor.Action) (executor.Result, error) {
	e.actions = append(e.actions, action)
	return executor.Result{Status: executor.StatusSucceeded}, nil
}

func newTestService(sched scheduler.ReviewScheduler, store hitlservice.Store, exec hitlservice.Executor, delay time.Duration) *Service {
	log := logger.New("test")
	bus := events.NewInMemoryBus(log)
	gate := hitlservice.NewGate(store, exec, bus, 500, log)
	return New(sched, gate, bus, delay, log)
}

func intPtr(v int) *int { return &v }

func healthyRequest() transport.RunRequest {
	return transport.RunRequest{
		OrderID:               "ord-1",
		EntityID:              "cust-1",
		CustomerEmail:         "buyer@example.com",
		CustomerName:          "Sam",
		OrderValueCents:       12900,
		DaysSinceLastPurchase: intPtr(14),
		TotalOrders:           intPtr(6),
	}
}

func TestScheduleUsesDeliveryPlusDelay(t *testing.T) {
	sched := &fakeSched{}
	svc := newTestService(sched, &stubStore{}, &stubExecutor{}, 7*24*time.Hour)

	deliveredAt := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	req := healthyRequest()
	req.DeliveredAt = &deliveredAt

	resp, err := svc.Schedule(context.Background(), req)
	if err != nil {
		t.Fatalf("Schedule: %v", err)
	}

	want := deliveredAt.Add(7 * 24 * time.Hour)
	if !resp.RunAt.Equal(want) {
		t.Errorf("runAt = %v, want %v", resp.RunAt, want)
	}
	if len(sched.payloads) != 1 {
		t.Fatalf("scheduled %d payloads, want 1", len(sched.payloads))
	}
	if sched.payloads[0].OrderID != "ord-1" || sched.payloads[0].CustomerEmail != "buyer@example.com" {
		t.Errorf("payload mismatch: %+v", sched.payloads[0])
	}
	if !sched.runAts[0].Equal(want) {
		t.Errorf("scheduled runAt = %v, want %v", sched.runAts[0], want)
	}
}

func TestScheduleWithoutSchedulerFails(t *testing.T) {
	svc := newTestService(nil, &stubStore{}, &stubExecutor{}, time.Hour)

	if _, err := svc.Schedule(context.Background(), healthyRequest()); err == nil {
		t.Fatal("expected error when scheduler is not configured")
	}
}

func TestRunSolicitsHealthyCustomer(t *testing.T) {
	store := &stubStore{}
	exec := &stubExecutor{}
	svc := newTestService(&fakeSched{}, store, exec, time.Hour)

	resp, err := svc.Run(context.Background(), healthyRequest())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if resp.Outcome != OutcomeSolicited {
		t.Fatalf("outcome = %q, want solicited", resp.Outcome)
	}
	// Small order, email channel: executes without approval.
	if resp.Disposition != hitlservice.DispositionExecuted {
		t.Errorf("disposition = %q, want executed", resp.Disposition)
	}
	if len(exec.actions) != 1 || exec.actions[0].Type != "review_request" {
		t.Fatalf("actions = %+v, want one review_request", exec.actions)
	}
	if exec.actions[0].Parameters["email"] != "buyer@example.com" {
		t.Errorf("email parameter = %q", exec.actions[0].Parameters["email"])
	}
}

func TestRunGatesHighValueOrder(t *testing.T) {
	store := &stubStore{}
	exec := &stubExecutor{}
	svc := newTestService(&fakeSched{}, store, exec, time.Hour)

	req := healthyRequest()
	req.OrderValueCents = 99000

	resp, err := svc.Run(context.Background(), req)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if resp.Disposition != hitlservice.DispositionQueued {
		t.Errorf("disposition = %q, want queued for high-value order", resp.Disposition)
	}
	if len(exec.actions) != 0 {
		t.Errorf("executor ran before approval: %+v", exec.actions)
	}
}

func TestRunSkipsCriticallyChurnedCustomer(t *testing.T) {
	exec := &stubExecutor{}
	svc := newTestService(&fakeSched{}, &stubStore{}, exec, time.Hour)

	req := healthyRequest()
	req.DaysSinceLastPurchase = intPtr(400)
	req.TotalOrders = intPtr(1)
	req.SupportTickets = intPtr(5)
	openRate := 0.02
	baseline := 0.40
	req.EmailOpenRate = &openRate
	req.BaselineOpenRate = &baseline

	resp, err := svc.Run(context.Background(), req)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if resp.Outcome != OutcomeSkippedRisk {
		t.Fatalf("outcome = %q, want skipped_high_risk (churn %+v)", resp.Outcome, resp.Churn)
	}
	if len(exec.actions) != 0 {
		t.Errorf("skipped customer still got an email: %+v", exec.actions)
	}
}

func TestRunSkipsLostSegment(t *testing.T) {
	exec := &stubExecutor{}
	svc := newTestService(&fakeSched{}, &stubStore{}, exec, time.Hour)

	// Lapsed one-time small buyer: lost segment but churn short of critical
	// because engagement signals are absent.
	req := healthyRequest()
	req.DaysSinceLastPurchase = intPtr(400)
	req.TotalOrders = intPtr(1)
	spent := int64(2000)
	req.TotalSpentCents = &spent

	resp, err := svc.Run(context.Background(), req)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if resp.Outcome != OutcomeSkippedLost {
		t.Fatalf("outcome = %q, want skipped_lost (segment %q, churn %.2f)",
			resp.Outcome, resp.Segment.Label, resp.Churn.Composite)
	}
	if len(exec.actions) != 0 {
		t.Errorf("lost customer still got an email: %+v", exec.actions)
	}
}

func TestRunDueReviewDelegatesToEvaluate(t *testing.T) {
	exec := &stubExecutor{}
	svc := newTestService(&fakeSched{}, &stubStore{}, exec, time.Hour)

	err := svc.RunDueReview(context.Background(), scheduler.ReviewDuePayload{
		OrderID:         "ord-9",
		EntityID:        "cust-9",
		CustomerEmail:   "nine@example.com",
		OrderValueCents: 5000,
		Signals:         healthyRequest().Signals(),
	})
	if err != nil {
		t.Fatalf("RunDueReview: %v", err)
	}
	if len(exec.actions) != 1 {
		t.Errorf("due review executed %d actions, want 1", len(exec.actions))
	}
}
