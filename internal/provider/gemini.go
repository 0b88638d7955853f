package provider

import (
	"context"
	"fmt"
	"sync"

	"google.golang.org/genai"
)

// GeminiAdapter wraps the Gemini API through the official genai SDK. The
// client is built lazily on first use so that a missing key never costs a
// startup failure; the adapter just reports itself disabled.
type GeminiAdapter struct {
	apiKey string
	model  string

	mu     sync.Mutex
	client *genai.Client
}

func NewGemini(apiKey, model string) *GeminiAdapter {
	if model == "" {
		model = "gemini-2.0-flash"
	}
	return &GeminiAdapter{apiKey: apiKey, model: model}
}

func (a *GeminiAdapter) Name() string { return "gemini" }

func (a *GeminiAdapter) Enabled() bool { return a.apiKey != "" }

func (a *GeminiAdapter) Complete(ctx context.Context, prompt string) (string, error) {
	client, err := a.getClient(ctx)
	if err != nil {
		return "", err
	}

	resp, err := client.Models.GenerateContent(ctx, a.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("gemini api error: empty response")
	}
	return text, nil
}

func (a *GeminiAdapter) getClient(ctx context.Context) (*genai.Client, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.client != nil {
		return a.client, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: a.apiKey})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	a.client = client
	return client, nil
}
