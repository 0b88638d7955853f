package executor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"retainly_backend/platform/config"
	"retainly_backend/platform/logger"
	"retainly_backend/platform/phone"
)

// VoiceClient places outbound calls through the voice bridge service.
type VoiceClient struct {
	baseURL    string
	apiKey     string
	fromNumber string
	http       *http.Client
	log        *logger.Logger
}

type voiceCallRequest struct {
	To     string `json:"to"`
	From   string `json:"from"`
	Script string `json:"script,omitempty"`
}

type voiceCallResponse struct {
	CallID string `json:"call_id"`
	Status string `json:"status"`
}

// NewVoiceClient returns nil when the bridge is not configured; the
// dispatcher ignores nil clients.
func NewVoiceClient(cfg config.VoiceConfig, log *logger.Logger) *VoiceClient {
	if !cfg.IsVoiceEnabled() {
		return nil
	}

	return &VoiceClient{
		baseURL:    strings.TrimRight(cfg.GetVoiceBridgeURL(), "/"),
		apiKey:     cfg.GetVoiceBridgeKey(),
		fromNumber: cfg.GetVoiceFromNumber(),
		http:       &http.Client{Timeout: 15 * time.Second},
		log:        log,
	}
}

func (c *VoiceClient) Deliver(ctx context.Context, entityID string, action Action) (string, error) {
	rawPhone := action.Parameters["phone"]
	if !phone.IsDialable(rawPhone) {
		return "", fmt.Errorf("entity %s has no dialable phone number", entityID)
	}

	payload := voiceCallRequest{
		To:     phone.NormalizeE164(rawPhone),
		From:   c.fromNumber,
		Script: action.Parameters["script"],
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal voice payload: %w", err)
	}

	url := fmt.Sprintf("%s/calls", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("voice bridge request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("voice bridge returned %d: %s", resp.StatusCode, snippet)
	}

	var result voiceCallResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode voice bridge response: %w", err)
	}
	return "call " + result.CallID + " " + result.Status, nil
}
