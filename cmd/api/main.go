package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"retainly_backend/internal/churn"
	"retainly_backend/internal/events"
	"retainly_backend/internal/executor"
	"retainly_backend/internal/hitl"
	apphttp "retainly_backend/internal/http"
	"retainly_backend/internal/http/router"
	"retainly_backend/internal/notification"
	"retainly_backend/internal/provider"
	"retainly_backend/internal/reviews"
	"retainly_backend/internal/scheduler"
	"retainly_backend/internal/voiceleads"
	"retainly_backend/platform/config"
	"retainly_backend/platform/db"
	"retainly_backend/platform/logger"
	"retainly_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg, "migrations")
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

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
	log.Info("database connection established")

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	reviewScheduler, closeScheduler := initReviewScheduler(cfg, log)
	if closeScheduler != nil {
		defer closeScheduler()
	}

	// Shared validator instance for dependency injection
	val := validator.New()

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	// Notification module subscribes to domain events (not HTTP-facing)
	notificationModule := notification.New(notification.NewMailer(cfg), cfg, log)
	notificationModule.RegisterHandlers(eventBus)
	if cfg.GetOperatorEmail() == "" {
		log.Warn("OPERATOR_EMAIL not configured; pending interventions are logged only")
	}

	// LLM advisor with provider fallback; degrades to local heuristics when
	// no provider is configured.
	advisor := provider.NewOrchestratorFromConfig(cfg, log)

	// Action dispatcher with the delivery channels that are configured.
	// Unconfigured channels stay unregistered and gate approvals for them fail
	// loudly instead of silently dropping actions.
	dispatcher := executor.NewDispatcher(eventBus, log)
	if voice := executor.NewVoiceClient(cfg, log); voice != nil {
		dispatcher.Register(executor.ChannelVoiceCall, voice)
		log.Info("voice channel registered", "bridge", cfg.GetVoiceBridgeURL())
	} else {
		log.Warn("VOICE_BRIDGE_URL not configured; voice actions disabled")
	}
	dispatcher.Register(executor.ChannelEmail, executor.NewEmailClient(cfg))
	dispatcher.Register(executor.ChannelCRMSync, executor.NewCRMClient(cfg))

	hitlModule := hitl.NewModule(pool, dispatcher, eventBus, cfg, val, log)
	gate := hitlModule.Gate()

	churnModule := churn.NewModule(advisor, gate, eventBus, cfg, val, log)
	reviewsModule := reviews.NewModule(reviewScheduler, gate, eventBus, cfg, val, log)
	voiceLeadsModule := voiceleads.NewModule(advisor, gate, eventBus, cfg, val, log)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   db.NewPoolAdapter(pool),
		EventBus: eventBus,
		Modules: []apphttp.Module{
			hitlModule,
			churnModule,
			reviewsModule,
			voiceLeadsModule,
		},
	}

	engine := router.New(app)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		return engine.Run(cfg.HTTPAddr)
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutdown signal received, gracefully shutting down")
		return gctx.Err()
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("server error", "error", err)
		panic("server error: " + err.Error())
	}
}

func initReviewScheduler(cfg config.SchedulerConfig, log *logger.Logger) (scheduler.ReviewScheduler, func()) {
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; deferred review solicitation disabled")
		return nil, nil
	}

	client, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize review scheduler client", "error", err)
		return nil, nil
	}

	return client, func() {
		_ = client.Close()
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
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
