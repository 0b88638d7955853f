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
)

// CRMClient pushes contact updates to the CRM over its REST API. CRM sync is
// the one reversible channel: a bad sync can be overwritten by the next one.
type CRMClient struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewCRMClient(cfg config.CRMConfig) *CRMClient {
	if !cfg.IsCRMEnabled() {
		return nil
	}

	return &CRMClient{
		baseURL: strings.TrimRight(cfg.GetCRMBaseURL(), "/"),
		apiKey:  cfg.GetCRMAPIKey(),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *CRMClient) Deliver(ctx context.Context, entityID string, action Action) (string, error) {
	payload := map[string]string{"entity_id": entityID}
	for key, value := range action.Parameters {
		payload[key] = value
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal crm payload: %w", err)
	}

	url := fmt.Sprintf("%s/contacts/%s", c.baseURL, entityID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewBuffer(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("crm request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("crm returned %d: %s", resp.StatusCode, snippet)
	}
	return "contact " + entityID + " synced", nil
}
