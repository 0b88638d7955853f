package httpkit

import (
	"testing"
	"time"
)

func TestWindowLimiterEnforcesLimit(t *testing.T) {
	w := NewWindowLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		if !w.TryAcquire("1.2.3.4") {
			t.Fatalf("call %d within limit was rejected", i+1)
		}
	}

	if w.TryAcquire("1.2.3.4") {
		t.Fatal("call over limit was accepted")
	}
}

func TestWindowLimiterKeysByClient(t *testing.T) {
	w := NewWindowLimiter(1, time.Minute)

	if !w.TryAcquire("1.2.3.4") {
		t.Fatal("first client rejected")
	}
	if !w.TryAcquire("5.6.7.8") {
		t.Fatal("second client rejected after first client's call")
	}
	if w.TryAcquire("1.2.3.4") {
		t.Fatal("first client accepted over its own limit")
	}
}

func TestWindowLimiterSlidesWindow(t *testing.T) {
	now := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	w := NewWindowLimiter(2, time.Minute)
	w.now = func() time.Time { return now }

	if !w.TryAcquire("c") || !w.TryAcquire("c") {
		t.Fatal("calls within limit were rejected")
	}
	if w.TryAcquire("c") {
		t.Fatal("call over limit was accepted")
	}

	// Past the window the old hits expire and the budget returns.
	now = now.Add(61 * time.Second)
	if !w.TryAcquire("c") {
		t.Fatal("call after window expiry was rejected")
	}
}

func TestWindowLimiterRejectionRecordsNothing(t *testing.T) {
	now := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	w := NewWindowLimiter(1, time.Minute)
	w.now = func() time.Time { return now }

	if !w.TryAcquire("c") {
		t.Fatal("first call rejected")
	}

	// Hammering while over budget must not extend the lockout.
	for i := 0; i < 10; i++ {
		now = now.Add(5 * time.Second)
		w.TryAcquire("c")
	}

	// 61s after the single accepted call the client is clean again.
	now = now.Add(11 * time.Second)
	if !w.TryAcquire("c") {
		t.Fatal("rejected calls extended the window")
	}
}
