package provider

import "context"

// Adapter is one entry in the fallback chain. Complete returns the raw model
// output; the orchestrator owns normalization and timeouts.
type Adapter interface {
	Name() string
	Enabled() bool
	Complete(ctx context.Context, prompt string) (string, error)
}
