package scheduler

import (
	"context"
	"fmt"

	"retainly_backend/platform/config"
	"retainly_backend/platform/logger"

	"github.com/hibiken/asynq"
)

// ReviewRunner evaluates a due review task. Implemented by the reviews
// service; injected here to keep the dependency direction one-way.
type ReviewRunner interface {
	RunDueReview(ctx context.Context, payload ReviewDuePayload) error
}

type Worker struct {
	server  *asynq.Server
	mux     *asynq.ServeMux
	reviews ReviewRunner
	log     *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, reviews ReviewRunner, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server:  server,
		mux:     mux,
		reviews: reviews,
		log:     log,
	}

	mux.HandleFunc(TaskReviewDue, w.handleReviewDue)

	return w, nil
}

func (w *Worker) handleReviewDue(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseReviewDuePayload(task)
	if err != nil {
		return err
	}
	return w.reviews.RunDueReview(ctx, payload)
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}
