package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"retainly_backend/platform/config"
	"retainly_backend/platform/logger"
)

// Orchestrator walks an ordered adapter chain and guarantees an answer: a
// remote provider's advice when one succeeds, the local responder's otherwise.
// Decide never returns an error.
type Orchestrator struct {
	adapters []Adapter
	timeout  time.Duration
	log      *logger.Logger
	now      func() time.Time
}

func NewOrchestrator(adapters []Adapter, timeout time.Duration, log *logger.Logger) *Orchestrator {
	return &Orchestrator{
		adapters: adapters,
		timeout:  timeout,
		log:      log,
		now:      time.Now,
	}
}

// NewOrchestratorFromConfig builds the standard chain: OpenAI, Moonshot,
// Gemini, in that order. Providers without credentials report disabled and
// are skipped at call time.
func NewOrchestratorFromConfig(cfg config.ProviderConfig, log *logger.Logger) *Orchestrator {
	adapters := []Adapter{
		NewOpenAICompat(OpenAICompatConfig{
			Name:    "openai",
			APIKey:  cfg.GetOpenAIAPIKey(),
			BaseURL: cfg.GetOpenAIBaseURL(),
			Model:   cfg.GetOpenAIModel(),
		}),
		NewOpenAICompat(OpenAICompatConfig{
			Name:    "moonshot",
			APIKey:  cfg.GetMoonshotAPIKey(),
			BaseURL: "https://api.moonshot.ai/v1",
			Model:   cfg.GetMoonshotModel(),
		}),
		NewGemini(cfg.GetGeminiAPIKey(), cfg.GetGeminiModel()),
	}
	return NewOrchestrator(adapters, cfg.GetProviderTimeout(), log)
}

// Decide runs the chain for one request. Each enabled adapter gets exactly one
// attempt under its own timeout; the first parseable answer wins.
func (o *Orchestrator) Decide(ctx context.Context, req Request) Result {
	prompt := buildPrompt(req)
	attempts := make([]Attempt, 0, len(o.adapters))

	for _, adapter := range o.adapters {
		if !adapter.Enabled() {
			continue
		}

		advice, attempt := o.try(ctx, adapter, prompt)
		attempts = append(attempts, attempt)
		o.log.ProviderAttempt(attempt.Provider, attempt.Outcome, attempt.LatencyMS)

		if attempt.Outcome == OutcomeSuccess {
			return Result{
				Outcome:  OutcomeSuccess,
				Provider: adapter.Name(),
				Advice:   advice,
				Attempts: attempts,
			}
		}
	}

	o.log.ProviderAttempt("local", OutcomeDegraded, 0)
	return Result{
		Outcome:  OutcomeDegraded,
		Provider: "local",
		Advice:   localAdvice(req),
		Attempts: attempts,
	}
}

func (o *Orchestrator) try(ctx context.Context, adapter Adapter, prompt string) (Advice, Attempt) {
	started := o.now()
	attemptCtx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	raw, err := adapter.Complete(attemptCtx, prompt)
	latency := o.now().Sub(started).Milliseconds()

	attempt := Attempt{
		Provider:  adapter.Name(),
		StartedAt: started,
		LatencyMS: latency,
	}

	if err != nil {
		attempt.Outcome = OutcomeError
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(attemptCtx.Err(), context.DeadlineExceeded) {
			attempt.Outcome = OutcomeTimeout
		}
		return Advice{}, attempt
	}

	advice, err := extractAdvice(raw)
	if err != nil {
		attempt.Outcome = OutcomeParseError
		return Advice{}, attempt
	}

	attempt.Outcome = OutcomeSuccess
	return advice, attempt
}

func buildPrompt(req Request) string {
	components, _ := json.Marshal(req.ScoreResult.Components)

	var b strings.Builder
	fmt.Fprintf(&b, "You advise a retention team. Entity %s in the %s workflow scored %.2f (%s).\n",
		req.EntityID, req.Workflow, req.ScoreResult.Composite, req.ScoreResult.Label)
	fmt.Fprintf(&b, "Score components: %s\n", components)
	keys := make([]string, 0, len(req.Context))
	for key := range req.Context {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Fprintf(&b, "%s: %s\n", key, req.Context[key])
	}
	b.WriteString(`Respond with only a JSON object: {"summary": "...", "recommendation": "...", "urgency": "immediate|soon|routine", "talking_points": ["..."]}`)
	return b.String()
}
