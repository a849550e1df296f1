// Package generate provides the Ollama-backed generation client used for
// translation and question answering.
package generate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"translaterag/internal/domain"
)

const (
	defaultBase  = "http://localhost:11434"
	defaultModel = "llama3.1:8b"
	// Generation is slow; give single requests minutes, not seconds.
	defaultTimeout = 300 * time.Second
)

// Client implements domain.Generator against the Ollama /api/generate
// endpoint.
type Client struct {
	apiBase string
	model   string
	client  *http.Client
	logger  *slog.Logger
}

type Config struct {
	APIBase string
	Model   string
	Timeout time.Duration
	Logger  *slog.Logger
}

func NewClient(cfg Config) *Client {
	if cfg.APIBase == "" {
		cfg.APIBase = defaultBase
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Client{
		apiBase: cfg.APIBase,
		model:   cfg.Model,
		client:  &http.Client{Timeout: cfg.Timeout},
		logger:  cfg.Logger,
	}
}

// generateRequest matches the Ollama /api/generate request body.
type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Response string `json:"response"`
}

// Generate sends one prompt and returns the model output with surrounding
// whitespace trimmed, the only cleanup this layer guarantees. Failures are
// wrapped with domain.ErrBackendUnavailable and never retried here; the
// caller decides whether a retry is worthwhile.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(generateRequest{Model: c.model, Prompt: prompt})
	if err != nil {
		return "", fmt.Errorf("marshal generate request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiBase+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("new generate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: generate request: %v", domain.ErrBackendUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("%w: generate returned %d: %s", domain.ErrBackendUnavailable, resp.StatusCode, respBody)
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: decode generate response: %v", domain.ErrBackendUnavailable, err)
	}

	c.logger.Debug("generation complete", "model", c.model, "prompt_len", len(prompt), "took", time.Since(start))
	return strings.TrimSpace(out.Response), nil
}

// Healthy probes the backend's tag listing; a failure means the model server
// is unreachable.
func (c *Client) Healthy(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiBase+"/api/tags", nil)
	if err != nil {
		return err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrBackendUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: model server returned status %d", domain.ErrBackendUnavailable, resp.StatusCode)
	}
	return nil
}
