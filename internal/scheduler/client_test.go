package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/hibiken/asynq"

	"retainly_backend/internal/scoring"
)

type fakeSchedulerConfig struct {
	redisURL string
}

func (f fakeSchedulerConfig) GetRedisURL() string           { return f.redisURL }
func (f fakeSchedulerConfig) GetRedisTLSInsecure() bool     { return false }
func (f fakeSchedulerConfig) GetAsynqQueueName() string     { return "reviews" }
func (f fakeSchedulerConfig) GetAsynqConcurrency() int      { return 1 }
func (f fakeSchedulerConfig) GetReviewDelay() time.Duration { return time.Hour }

func TestNewClientRequiresRedisURL(t *testing.T) {
	if _, err := NewClient(fakeSchedulerConfig{}); err == nil {
		t.Fatal("expected error without redis url")
	}
}

func TestScheduleReviewDueEnqueues(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewClient(fakeSchedulerConfig{redisURL: "redis://" + mr.Addr()})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	defer client.Close()

	days := 30
	payload := ReviewDuePayload{
		OrderID:         "ord-77",
		EntityID:        "cust-77",
		CustomerEmail:   "buyer@example.com",
		OrderValueCents: 45900,
		Signals:         scoring.CustomerSignals{EntityID: "cust-77", DaysSinceLastPurchase: &days},
	}

	if err := client.ScheduleReviewDue(context.Background(), payload, time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("ScheduleReviewDue: %v", err)
	}

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: mr.Addr()})
	defer inspector.Close()

	tasks, err := inspector.ListScheduledTasks("reviews")
	if err != nil {
		t.Fatalf("ListScheduledTasks: %v", err)
	}
	if len(tasks) != 1 {
		t.Fatalf("scheduled tasks = %d, want 1", len(tasks))
	}
	if tasks[0].Type != TaskReviewDue {
		t.Errorf("task type = %q, want %q", tasks[0].Type, TaskReviewDue)
	}

	parsed, err := ParseReviewDuePayload(asynq.NewTask(tasks[0].Type, tasks[0].Payload))
	if err != nil {
		t.Fatalf("ParseReviewDuePayload: %v", err)
	}
	if parsed.OrderID != "ord-77" || parsed.Signals.EntityID != "cust-77" {
		t.Errorf("payload round trip mismatch: %+v", parsed)
	}
}

func TestNilClientSchedulesNothing(t *testing.T) {
	var client *Client
	if err := client.ScheduleReviewDue(context.Background(), ReviewDuePayload{}, time.Now()); err != nil {
		t.Fatalf("nil client should no-op, got %v", err)
	}
}
