package executor

import (
	"context"
	"errors"
	"sync"
	"testing"

	"retainly_backend/internal/events"
	"retainly_backend/platform/logger"
)

type fakeClient struct {
	detail string
	err    error
	calls  int
}

func (f *fakeClient) Deliver(ctx context.Context, entityID string, action Action) (string, error) {
	f.calls++
	return f.detail, f.err
}

type recordingBus struct {
	mu        sync.Mutex
	published []events.Event
}

func (b *recordingBus) Publish(ctx context.Context, event events.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.published = append(b.published, event)
}

func (b *recordingBus) PublishSync(ctx context.Context, event events.Event) error {
	b.Publish(ctx, event)
	return nil
}

func (b *recordingBus) Subscribe(eventName string, handler events.Handler) {}

func (b *recordingBus) executed() []events.ActionExecuted {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []events.ActionExecuted
	for _, event := range b.published {
		if e, ok := event.(events.ActionExecuted); ok {
			out = append(out, e)
		}
	}
	return out
}

func newTestDispatcher(bus events.Bus) *Dispatcher {
	return NewDispatcher(bus, logger.New("test"))
}

func TestDispatcherRoutesByChannel(t *testing.T) {
	bus := &recordingBus{}
	voice := &fakeClient{detail: "call placed"}
	email := &fakeClient{detail: "email sent"}

	d := newTestDispatcher(bus)
	d.Register(ChannelVoiceCall, voice)
	d.Register(ChannelEmail, email)

	result, err := d.Execute(context.Background(), "cust-1", Action{
		Type:    "retention_call",
		Channel: ChannelVoiceCall,
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if result.Status != StatusSucceeded || result.Detail != "call placed" {
		t.Errorf("result = %+v, want succeeded/call placed", result)
	}
	if voice.calls != 1 || email.calls != 0 {
		t.Errorf("routing wrong: voice=%d email=%d", voice.calls, email.calls)
	}
}

func TestDispatcherUnknownChannel(t *testing.T) {
	d := newTestDispatcher(&recordingBus{})

	_, err := d.Execute(context.Background(), "cust-1", Action{Channel: "carrier_pigeon"})
	if err == nil {
		t.Fatal("expected error for unregistered channel")
	}
}

func TestDispatcherNilClientIgnored(t *testing.T) {
	d := newTestDispatcher(&recordingBus{})
	d.Register(ChannelVoiceCall, nil)

	if _, err := d.Execute(context.Background(), "cust-1", Action{Channel: ChannelVoiceCall}); err == nil {
		t.Fatal("nil client should leave the channel unregistered")
	}
}

func TestDispatcherPublishesOutcomeEvents(t *testing.T) {
	bus := &recordingBus{}
	d := newTestDispatcher(bus)
	d.Register(ChannelEmail, &fakeClient{detail: "ok"})
	d.Register(ChannelCRMSync, &fakeClient{err: errors.New("crm down")})

	if _, err := d.Execute(context.Background(), "cust-1", Action{Type: "followup", Channel: ChannelEmail}); err != nil {
		t.Fatalf("email execute: %v", err)
	}
	result, err := d.Execute(context.Background(), "cust-1", Action{Type: "sync", Channel: ChannelCRMSync})
	if err == nil {
		t.Fatal("expected delivery error")
	}
	if result.Status != StatusFailed {
		t.Errorf("failed delivery status = %q, want failed", result.Status)
	}

	published := bus.executed()
	if len(published) != 2 {
		t.Fatalf("published %d ActionExecuted events, want 2", len(published))
	}
	if published[0].Status != StatusSucceeded || published[1].Status != StatusFailed {
		t.Errorf("event statuses = %q/%q, want succeeded/failed", published[0].Status, published[1].Status)
	}
}
