// Package embedding provides the Ollama-backed embedding provider.
package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"translaterag/internal/domain"
)

const (
	defaultBase    = "http://localhost:11434"
	defaultModel   = "nomic-embed-text"
	defaultTimeout = 60 * time.Second
)

// Client implements domain.Embedder against the Ollama /api/embed endpoint.
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

// embedRequest matches the Ollama /api/embed request body.
type embedRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embedResponse struct {
	Embeddings [][]float32 `json:"embeddings"`
}

// Embed sends all texts in a single batch request and returns one vector per
// input, in order. Transport failures and non-200 responses are wrapped with
// domain.ErrBackendUnavailable; no retry is attempted.
func (c *Client) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	body, err := json.Marshal(embedRequest{Model: c.model, Input: texts})
	if err != nil {
		return nil, fmt.Errorf("marshal embed request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiBase+"/api/embed", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("new embed request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: embed request: %v", domain.ErrBackendUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: embed returned %d: %s", domain.ErrBackendUnavailable, resp.StatusCode, respBody)
	}

	var out embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: decode embed response: %v", domain.ErrBackendUnavailable, err)
	}
	if len(out.Embeddings) != len(texts) {
		return nil, fmt.Errorf("%w: embed returned %d vectors for %d inputs", domain.ErrBackendUnavailable, len(out.Embeddings), len(texts))
	}

	c.logger.Debug("embedded batch", "texts", len(texts), "model", c.model, "took", time.Since(start))
	return out.Embeddings, nil
}
