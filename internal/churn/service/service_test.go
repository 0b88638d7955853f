package service

import (
	"context"
	"testing"

	"retainly_backend/internal/churn/transport"
	"retainly_backend/internal/executor"
	"retainly_backend/internal/hitl/repository"
	hitlservice "retainly_backend/internal/hitl/service"
	"retainly_backend/internal/provider"
	"retainly_backend/internal/scoring"
	"retainly_backend/platform/apperr"
	"retainly_backend/platform/events"
	"retainly_backend/platform/logger"

	"github.com/google/uuid"
)

type fakeAdvisor struct {
	calls int
}

func (f *fakeAdvisor) Decide(ctx context.Context, req provider.Request) provider.Result {
	f.calls++
	return provider.Result{
		Outcome:  provider.OutcomeDegraded,
		Provider: "local",
		Advice: provider.Advice{
			Summary:        "summary",
			Recommendation: "reach out this week",
			Urgency:        "soon",
		},
	}
}

type stubStore struct {
	created []string
	lastID  uuid.UUID
}

func (s *stubStore) CreatePending(ctx context.Context, entityID, actionType, channel string, snapshot, action []byte) (uuid.UUID, bool, error) {
	s.created = append(s.created, actionType)
	s.lastID = uuid.Must(uuid.NewV7())
	return s.lastID, true, nil
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
	channels []string
}

func (e *stubExecutor) Execute(ctx context.Context, entityID string, action executor.Action) (executor.Result, error) {
	e.channels = append(e.channels, action.Channel)
	return executor.Result{Status: executor.StatusSucceeded}, nil
}

func newTestService(advisor Advisor, store hitlservice.Store, exec hitlservice.Executor) *Service {
	log := logger.New("test")
	bus := events.NewInMemoryBus(log)
	gate := hitlservice.NewGate(store, exec, bus, 500, log)
	return New(advisor, gate, bus, 500, log)
}

func intPtr(v int) *int { return &v }

func TestAssessLowRiskTakesNoAction(t *testing.T) {
	advisor := &fakeAdvisor{}
	store := &stubStore{}
	exec := &stubExecutor{}
	svc := newTestService(advisor, store, exec)

	resp, err := svc.Assess(context.Background(), transport.AssessRequest{
		EntityID:              "cust-1",
		DaysSinceLastPurchase: intPtr(10),
		TotalOrders:           intPtr(8),
	})
	if err != nil {
		t.Fatalf("Assess: %v", err)
	}

	if resp.Score.Label != scoring.ChurnLow {
		t.Fatalf("label = %q, want low", resp.Score.Label)
	}
	if resp.Advice != nil || resp.Disposition != "" {
		t.Errorf("low risk produced action: %+v", resp)
	}
	if advisor.calls != 0 || len(store.created) != 0 || len(exec.channels) != 0 {
		t.Errorf("low risk touched downstream: advisor=%d store=%d exec=%d",
			advisor.calls, len(store.created), len(exec.channels))
	}
}

func TestAssessHighRiskLowValueSendsEmailImmediately(t *testing.T) {
	store := &stubStore{}
	exec := &stubExecutor{}
	svc := newTestService(&fakeAdvisor{}, store, exec)

	resp, err := svc.Assess(context.Background(), transport.AssessRequest{
		EntityID:              "cust-2",
		DaysSinceLastPurchase: intPtr(200),
		TotalOrders:           intPtr(1),
		ValueCents:            10000,
		Email:                 "cust@example.com",
	})
	if err != nil {
		t.Fatalf("Assess: %v", err)
	}

	if resp.Score.Label != scoring.ChurnHigh {
		t.Fatalf("label = %q, want high", resp.Score.Label)
	}
	if resp.Advice == nil || resp.Advice.Recommendation == "" {
		t.Errorf("high risk missing advice")
	}
	if resp.Disposition != hitlservice.DispositionExecuted {
		t.Errorf("disposition = %q, want executed for low-value email", resp.Disposition)
	}
	if len(exec.channels) != 1 || exec.channels[0] != executor.ChannelEmail {
		t.Errorf("executed channels = %v, want [email]", exec.channels)
	}
	if len(store.created) != 0 {
		t.Errorf("low-value email was queued: %v", store.created)
	}
}

func TestAssessHighRiskHighValueQueuesVoiceCall(t *testing.T) {
	store := &stubStore{}
	exec := &stubExecutor{}
	svc := newTestService(&fakeAdvisor{}, store, exec)

	resp, err := svc.Assess(context.Background(), transport.AssessRequest{
		EntityID:              "cust-3",
		DaysSinceLastPurchase: intPtr(200),
		TotalOrders:           intPtr(1),
		ValueCents:            250000,
		Phone:                 "+14155550123",
	})
	if err != nil {
		t.Fatalf("Assess: %v", err)
	}

	if resp.Disposition != hitlservice.DispositionQueued {
		t.Fatalf("disposition = %q, want queued for high-value voice call", resp.Disposition)
	}
	if resp.InterventionID == nil || *resp.InterventionID != store.lastID {
		t.Errorf("intervention id not surfaced: %+v", resp.InterventionID)
	}
	if len(store.created) != 1 || store.created[0] != "retention_call" {
		t.Errorf("queued actions = %v, want [retention_call]", store.created)
	}
	if len(exec.channels) != 0 {
		t.Errorf("executor ran before approval: %v", exec.channels)
	}
}

func TestSegment(t *testing.T) {
	svc := newTestService(&fakeAdvisor{}, &stubStore{}, &stubExecutor{})

	days := 20
	orders := 22
	spent := int64(700000)
	resp := svc.Segment(context.Background(), transport.SegmentRequest{
		EntityID:              "cust-4",
		DaysSinceLastPurchase: &days,
		TotalOrders:           &orders,
		TotalSpentCents:       &spent,
	})

	if resp.Score.Label != scoring.SegmentChampion {
		t.Errorf("segment = %q, want champion", resp.Score.Label)
	}
}
