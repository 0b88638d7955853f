package notification

import (
	"context"
	"errors"
	"testing"

	"retainly_backend/internal/events"
	"retainly_backend/platform/logger"

	"github.com/google/uuid"
)

type fakeConfig struct {
	operatorEmail string
}

func (f fakeConfig) GetOperatorEmail() string { return f.operatorEmail }

type fakeSender struct {
	sent []events.InterventionCreated
	to   []string
	err  error
}

func (f *fakeSender) SendInterventionPendingEmail(ctx context.Context, toEmail string, ev events.InterventionCreated) error {
	f.to = append(f.to, toEmail)
	f.sent = append(f.sent, ev)
	return f.err
}

func newBusWithModule(t *testing.T, sender Sender, operatorEmail string) *events.InMemoryBus {
	t.Helper()
	log := logger.New("test")
	bus := events.NewInMemoryBus(log)
	m := New(sender, fakeConfig{operatorEmail: operatorEmail}, log)
	m.RegisterHandlers(bus)
	return bus
}

func TestInterventionCreatedNotifiesOperator(t *testing.T) {
	sender := &fakeSender{}
	bus := newBusWithModule(t, sender, "ops@example.com")

	ev := events.InterventionCreated{
		BaseEvent:      events.NewBaseEvent(),
		InterventionID: uuid.Must(uuid.NewV7()),
		EntityID:       "cust-1",
		ActionType:     "retention_call",
		Channel:        "voice_call",
		EntityValue:    990,
	}
	if err := bus.PublishSync(context.Background(), ev); err != nil {
		t.Fatalf("PublishSync: %v", err)
	}

	if len(sender.sent) != 1 {
		t.Fatalf("notifications sent = %d, want 1", len(sender.sent))
	}
	if sender.to[0] != "ops@example.com" {
		t.Fatalf("recipient = %s, want ops@example.com", sender.to[0])
	}
	if sender.sent[0].InterventionID != ev.InterventionID {
		t.Fatal("notification carries the wrong intervention id")
	}
}

func TestNoOperatorEmailDegradesToLogging(t *testing.T) {
	sender := &fakeSender{}
	bus := newBusWithModule(t, sender, "")

	ev := events.InterventionCreated{
		BaseEvent:      events.NewBaseEvent(),
		InterventionID: uuid.Must(uuid.NewV7()),
		EntityID:       "cust-1",
		ActionType:     "winback_email",
		Channel:        "email",
	}
	if err := bus.PublishSync(context.Background(), ev); err != nil {
		t.Fatalf("PublishSync: %v", err)
	}

	if len(sender.sent) != 0 {
		t.Fatalf("notifications sent = %d, want 0 without an operator address", len(sender.sent))
	}
}

func TestResolutionAndExecutionEventsAreHandled(t *testing.T) {
	sender := &fakeSender{}
	bus := newBusWithModule(t, sender, "ops@example.com")

	resolved := []events.Event{
		events.InterventionApproved{
			BaseEvent:      events.NewBaseEvent(),
			InterventionID: uuid.Must(uuid.NewV7()),
			EntityID:       "cust-1",
			ActionStatus:   "succeeded",
		},
		events.InterventionRejected{
			BaseEvent:      events.NewBaseEvent(),
			InterventionID: uuid.Must(uuid.NewV7()),
			EntityID:       "cust-1",
			Reason:         "wrong segment",
		},
		events.ActionExecuted{
			BaseEvent:  events.NewBaseEvent(),
			EntityID:   "cust-1",
			ActionType: "crm_sync",
			Channel:    "crm_sync",
			Status:     "failed",
			Detail:     "connection refused",
		},
	}

	for _, ev := range resolved {
		if err := bus.PublishSync(context.Background(), ev); err != nil {
			t.Fatalf("PublishSync(%s): %v", ev.EventName(), err)
		}
	}

	// Resolution and execution events are audit-only; no operator email.
	if len(sender.sent) != 0 {
		t.Fatalf("notifications sent = %d, want 0 for resolution events", len(sender.sent))
	}
}

func TestSenderErrorPropagatesThroughSyncPublish(t *testing.T) {
	sender := &fakeSender{err: errors.New("smtp down")}
	bus := newBusWithModule(t, sender, "ops@example.com")

	ev := events.InterventionCreated{
		BaseEvent:      events.NewBaseEvent(),
		InterventionID: uuid.Must(uuid.NewV7()),
		EntityID:       "cust-1",
		ActionType:     "retention_call",
		Channel:        "voice_call",
	}
	if err := bus.PublishSync(context.Background(), ev); err == nil {
		t.Fatal("expected sender error to propagate")
	}
}
