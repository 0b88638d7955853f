package provider

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"retainly_backend/internal/scoring"
)

// Advice is the normalized payload every provider must produce.
type Advice struct {
	Summary        string   `json:"summary"`
	Recommendation string   `json:"recommendation"`
	Urgency        string   `json:"urgency"`
	TalkingPoints  []string `json:"talking_points"`
}

// Request carries everything the orchestrator needs to build a prompt and,
// when the chain is exhausted, to synthesize a local answer.
type Request struct {
	EntityID    string
	Workflow    string
	ScoreResult scoring.Result
	Context     map[string]string
}

// Attempt records one provider call for diagnostics.
type Attempt struct {
	Provider  string    `json:"provider"`
	StartedAt time.Time `json:"started_at"`
	Outcome   string    `json:"outcome"`
	LatencyMS int64     `json:"latency_ms"`
}

const (
	OutcomeSuccess    = "success"
	OutcomeTimeout    = "timeout"
	OutcomeError      = "error"
	OutcomeParseError = "parse_error"
	OutcomeDegraded   = "degraded"
)

// Result is what Decide returns. Outcome is "success" when a remote provider
// answered and "degraded" when the local responder did.
type Result struct {
	Outcome  string    `json:"outcome"`
	Provider string    `json:"provider"`
	Advice   Advice    `json:"advice"`
	Attempts []Attempt `json:"attempts"`
}

// extractAdvice normalizes raw model output into an Advice. Models wrap JSON
// in markdown fences or pad it with prose, so we locate the first balanced
// object span before unmarshalling.
func extractAdvice(raw string) (Advice, error) {
	span, err := jsonSpan(raw)
	if err != nil {
		return Advice{}, err
	}

	var advice Advice
	if err := json.Unmarshal([]byte(span), &advice); err != nil {
		return Advice{}, fmt.Errorf("unmarshal advice: %w", err)
	}
	if advice.Summary == "" && advice.Recommendation == "" {
		return Advice{}, fmt.Errorf("advice missing summary and recommendation")
	}
	return advice, nil
}

// jsonSpan returns the first balanced {...} span in raw, fences stripped.
// Brace counting ignores braces inside JSON strings.
func jsonSpan(raw string) (string, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")

	start := strings.IndexByte(cleaned, '{')
	if start < 0 {
		return "", fmt.Errorf("no JSON object in provider output")
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(cleaned); i++ {
		c := cleaned[i]
		switch {
		case escaped:
			escaped = false
		case inString && c == '\\':
			escaped = true
		case c == '"':
			inString = !inString
		case !inString && c == '{':
			depth++
		case !inString && c == '}':
			depth--
			if depth == 0 {
				return cleaned[start : i+1], nil
			}
		}
	}
	return "", fmt.Errorf("unbalanced JSON object in provider output")
}
