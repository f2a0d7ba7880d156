// Package telemetry ships anonymized usage events to a collector endpoint.
// Delivery is best-effort; failures are logged and never propagate to the
// chat session.
package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/openloom/workspace-chat/internal/config"
	"github.com/samber/lo"
)

// Client sends anonymized usage telemetry
type Client struct {
	enabled    bool
	endpoint   string
	instanceID string
	labels     map[string]any
	httpClient *http.Client
}

// NewClient creates a telemetry client. The instance ID is a random UUID
// generated per process; no user identifier ever leaves the deployment.
func NewClient(cfg config.TelemetryConfig, llmProvider string) *Client {
	return &Client{
		enabled:    cfg.Enabled && cfg.Endpoint != "",
		endpoint:   cfg.Endpoint,
		instanceID: uuid.NewString(),
		labels: map[string]any{
			"LLMSelection":      llmProvider,
			"Embedder":          cfg.Embedder,
			"VectorDbSelection": cfg.VectorDB,
			"TTSSelection":      cfg.TTSProvider,
			"LLMModel":          cfg.ModelTag,
		},
		httpClient: &http.Client{Timeout: 5 * time.Second},
	}
}

type payload struct {
	Event      string         `json:"event"`
	InstanceID string         `json:"instance_id"`
	Properties map[string]any `json:"properties"`
	SentAt     time.Time      `json:"sent_at"`
}

// Send posts one usage event merged with the deployment labels
func (c *Client) Send(ctx context.Context, event string, props map[string]any) error {
	if !c.enabled {
		return nil
	}

	body, err := json.Marshal(payload{
		Event:      event,
		InstanceID: c.instanceID,
		Properties: lo.Assign(c.labels, props),
		SentAt:     time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal telemetry: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create telemetry request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send telemetry: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 400 {
		return fmt.Errorf("telemetry collector error (status %d)", resp.StatusCode)
	}

	return nil
}
