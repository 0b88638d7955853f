// Package logger provides structured logging infrastructure for the application.
// This is part of the platform layer and contains no business logic.
package logger

import (
	"log/slog"
	"os"
	"strings"
)

// Logger wraps slog.Logger for structured logging
type Logger struct {
	*slog.Logger
}

// New creates a new logger based on environment
func New(env string) *Logger {
	var handler slog.Handler

	opts := &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}

	if strings.EqualFold(env, "development") {
		opts.Level = slog.LevelDebug
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return &Logger{
		Logger: slog.New(handler),
	}
}

// HTTPRequest logs an HTTP request
func (l *Logger) HTTPRequest(method, path string, status int, latencyMs float64, clientIP string) {
	l.Info("http_request",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", status),
		slog.Float64("latency_ms", latencyMs),
		slog.String("client_ip", clientIP),
	)
}

// ProviderAttempt logs one attempt against an external text-generation provider.
func (l *Logger) ProviderAttempt(provider, outcome string, latencyMs int64) {
	if outcome == "success" {
		l.Info("provider_attempt",
			slog.String("provider", provider),
			slog.String("outcome", outcome),
			slog.Int64("latency_ms", latencyMs),
		)
		return
	}
	l.Warn("provider_attempt",
		slog.String("provider", provider),
		slog.String("outcome", outcome),
		slog.Int64("latency_ms", latencyMs),
	)
}

// InterventionEvent logs intervention lifecycle transitions.
func (l *Logger) InterventionEvent(event, interventionID, entityID string) {
	l.Info("intervention_event",
		slog.String("event", event),
		slog.String("intervention_id", interventionID),
		slog.String("entity_id", entityID),
	)
}

// ActionExecuted logs an executed outbound action.
func (l *Logger) ActionExecuted(actionType, channel, status string) {
	l.Info("action_executed",
		slog.String("action_type", actionType),
		slog.String("channel", channel),
		slog.String("status", status),
	)
}

// RateLimitExceeded logs rate limit events
func (l *Logger) RateLimitExceeded(clientID, path string) {
	l.Warn("rate_limit_exceeded",
		slog.String("client_id", clientID),
		slog.String("path", path),
	)
}
