package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"retainly_backend/internal/events"
	"retainly_backend/internal/executor"
	hitlrepo "retainly_backend/internal/hitl/repository"
	hitlservice "retainly_backend/internal/hitl/service"
	"retainly_backend/internal/notification"
	reviewservice "retainly_backend/internal/reviews/service"
	"retainly_backend/internal/scheduler"
	"retainly_backend/platform/config"
	"retainly_backend/platform/db"
	"retainly_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting scheduler", "env", cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	eventBus := events.NewInMemoryBus(log)

	notificationModule := notification.New(notification.NewMailer(cfg), cfg, log)
	notificationModule.RegisterHandlers(eventBus)

	// Worker-side review evaluation wiring (no HTTP handlers required).
	// Due reviews run through the same HITL gate as the API, so irreversible
	// or high-value actions land in the pending queue rather than executing.
	dispatcher := executor.NewDispatcher(eventBus, log)
	if voice := executor.NewVoiceClient(cfg, log); voice != nil {
		dispatcher.Register(executor.ChannelVoiceCall, voice)
	}
	dispatcher.Register(executor.ChannelEmail, executor.NewEmailClient(cfg))
	dispatcher.Register(executor.ChannelCRMSync, executor.NewCRMClient(cfg))

	gate := hitlservice.NewGate(hitlrepo.New(pool), dispatcher, eventBus, cfg.GetGateValueThreshold(), log)

	// The worker never re-schedules, so no scheduler client is wired here.
	reviewRunner := reviewservice.New(nil, gate, eventBus, cfg.GetReviewDelay(), log)

	worker, err := scheduler.NewWorker(cfg, reviewRunner, log)
	if err != nil {
		log.Error("failed to initialize scheduler worker", "error", err)
		panic("failed to initialize scheduler worker: " + err.Error())
	}

	worker.Run(ctx)
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return errors.New(name + ": invalid retry attempts")
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
