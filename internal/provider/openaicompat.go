package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// OpenAICompatConfig covers any chat-completions endpoint speaking the OpenAI
// wire format, which includes Moonshot's Kimi API.
type OpenAICompatConfig struct {
	Name    string
	APIKey  string
	BaseURL string
	Model   string
}

// OpenAICompatAdapter calls a chat-completions endpoint with a single user
// message and returns the first choice's content.
type OpenAICompatAdapter struct {
	config OpenAICompatConfig
	client *http.Client
}

func NewOpenAICompat(cfg OpenAICompatConfig) *OpenAICompatAdapter {
	return &OpenAICompatAdapter{
		config: cfg,
		client: &http.Client{},
	}
}

func (a *OpenAICompatAdapter) Name() string { return a.config.Name }

func (a *OpenAICompatAdapter) Enabled() bool { return a.config.APIKey != "" }

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error interface{} `json:"error"`
}

func (a *OpenAICompatAdapter) Complete(ctx context.Context, prompt string) (string, error) {
	payload := map[string]interface{}{
		"model": a.config.Model,
		"messages": []chatMessage{
			{Role: "user", Content: prompt},
		},
		"temperature": 0.2,
	}

	jsonBody, _ := json.Marshal(payload)
	httpReq, err := http.NewRequestWithContext(ctx, "POST", a.config.BaseURL+"/chat/completions", bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Authorization", "Bearer "+a.config.APIKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var result chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode %s response: %v", a.config.Name, err)
	}
	if result.Error != nil {
		return "", fmt.Errorf("%s api error: %v", a.config.Name, result.Error)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("%s api error: empty choices", a.config.Name)
	}
	return result.Choices[0].Message.Content, nil
}
