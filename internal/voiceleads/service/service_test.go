package service

import (
	"context"
	"testing"

	"retainly_backend/internal/executor"
	"retainly_backend/internal/hitl/repository"
	hitlservice "retainly_backend/internal/hitl/service"
	"retainly_backend/internal/provider"
	"retainly_backend/internal/scoring"
	"retainly_backend/internal/sessions"
	"retainly_backend/internal/voiceleads/transport"
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
			Summary:        "lead update",
			Recommendation: "Tell me more about your timeline.",
			Urgency:        "routine",
		},
	}
}

type stubStore struct {
	created []string
}

func (s *stubStore) CreatePending(ctx context.Context, entityID, actionType, channel string, snapshot, action []byte) (uuid.UUID, bool, error) {
	s.created = append(s.created, actionType)
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

type stubExecutor struct{ calls int }

func (e *stubExecutor) Execute(ctx context.Context, entityID string, action executor.Action) (executor.Result, error) {
	e.calls++
	return executor.Result{Status: executor.StatusSucceeded}, nil
}

func newTestService(store *stubStore, exec *stubExecutor) (*Service, *fakeAdvisor) {
	log := logger.New("test")
	bus := events.NewInMemoryBus(log)
	gate := hitlservice.NewGate(store, exec, bus, 500, log)
	advisor := &fakeAdvisor{}
	return New(sessions.NewStore(10), advisor, gate, bus, log), advisor
}

func TestMessageAppendsAndReplies(t *testing.T) {
	svc, advisor := newTestService(&stubStore{}, &stubExecutor{})

	resp, err := svc.Message(context.Background(), "sess-1", transport.MessageRequest{Content: "hello"})
	if err != nil {
		t.Fatalf("Message: %v", err)
	}

	if resp.Reply == "" || resp.Provider != "local" {
		t.Errorf("reply not produced: %+v", resp)
	}
	if advisor.calls != 1 {
		t.Errorf("advisor calls = %d, want 1", advisor.calls)
	}
	if resp.Score.Label != scoring.TierUnqualified {
		t.Errorf("tier = %q, want unqualified after a greeting", resp.Score.Label)
	}

	state, err := svc.State("sess-1")
	if err != nil {
		t.Fatalf("State: %v", err)
	}
	if len(state.Messages) != 2 {
		t.Fatalf("messages = %d, want user turn plus assistant turn", len(state.Messages))
	}
	if state.Messages[0].Role != "user" || state.Messages[1].Role != "assistant" {
		t.Errorf("roles = %q/%q", state.Messages[0].Role, state.Messages[1].Role)
	}
}

func TestQualificationCompletesOnceAndGatesHandoff(t *testing.T) {
	store := &stubStore{}
	exec := &stubExecutor{}
	svc, _ := newTestService(store, exec)
	ctx := context.Background()

	first, err := svc.Message(ctx, "sess-2", transport.MessageRequest{
		Content: "Hi, I'm the owner of my company and we need this ASAP",
	})
	if err != nil {
		t.Fatalf("first Message: %v", err)
	}
	if first.QualificationComplete {
		t.Fatalf("qualified too early: %+v", first.Score)
	}

	second, err := svc.Message(ctx, "sess-2", transport.MessageRequest{
		Content: "Budget is $15k. Reach me at jo@example.com or +1 415 555 0123",
	})
	if err != nil {
		t.Fatalf("second Message: %v", err)
	}
	if second.Score.Label != scoring.TierHot {
		t.Fatalf("tier = %q (%.0f), want hot", second.Score.Label, second.Score.Composite)
	}
	if !second.QualificationComplete {
		t.Error("qualification not marked complete")
	}
	if second.InterventionID == nil {
		t.Error("handoff intervention not created")
	}
	if len(store.created) != 1 || store.created[0] != "sales_handoff_call" {
		t.Errorf("queued actions = %v, want [sales_handoff_call]", store.created)
	}
	if exec.calls != 0 {
		t.Errorf("handoff call executed without approval: %d calls", exec.calls)
	}

	// Further messages keep answering but never re-qualify.
	third, err := svc.Message(ctx, "sess-2", transport.MessageRequest{Content: "thanks, talk soon"})
	if err != nil {
		t.Fatalf("third Message: %v", err)
	}
	if third.InterventionID != nil {
		t.Error("third message created another handoff")
	}
	if !third.QualificationComplete {
		t.Error("qualification flag lost")
	}
	if len(store.created) != 1 {
		t.Errorf("handoff queued %d times, want 1", len(store.created))
	}
}

func TestStateUnknownSession(t *testing.T) {
	svc, _ := newTestService(&stubStore{}, &stubExecutor{})

	if _, err := svc.State("nope"); apperr.GetKind(err) != apperr.KindNotFound {
		t.Errorf("unknown session kind = %v, want NotFound", apperr.GetKind(err))
	}
}
