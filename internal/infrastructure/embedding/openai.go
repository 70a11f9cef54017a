package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"NewsVault/internal/config"
	"NewsVault/internal/ports"
)

// OpenAIEmbedder implements ports.Embedder against OpenAI-compatible
// /embeddings endpoints. The vector dimension is fixed by the model and
// recorded lazily after the first call.
type OpenAIEmbedder struct {
	endpoint   string
	model      string
	apiKey     string
	dimension  int
	httpClient *http.Client
}

var _ ports.Embedder = (*OpenAIEmbedder)(nil)

// NewOpenAIEmbedder builds an embedder from configuration.
func NewOpenAIEmbedder(cfg config.EmbeddingConfig, apiKey string) *OpenAIEmbedder {
	return &OpenAIEmbedder{
		endpoint: cfg.Endpoint,
		model:    cfg.Model,
		apiKey:   apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Dimension reports the vector size observed so far; zero before first use.
func (e *OpenAIEmbedder) Dimension() int { return e.dimension }

// Embed returns the embedding vector for the given text.
func (e *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	if e.apiKey == "" || e.endpoint == "" || e.model == "" {
		return nil, fmt.Errorf("embedding client misconfigured")
	}

	body, err := json.Marshal(map[string]any{
		"model": e.model,
		"input": text,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal embedding payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+e.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("embed request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("embedding error %s: %s", resp.Status, strings.TrimSpace(string(detail)))
	}

	var parsed struct {
		Data []struct {
			Embedding []float64 `json:"embedding"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode embedding response: %w", err)
	}

	if len(parsed.Data) == 0 || len(parsed.Data[0].Embedding) == 0 {
		return nil, fmt.Errorf("no embedding returned")
	}

	vector := parsed.Data[0].Embedding
	if e.dimension == 0 {
		e.dimension = len(vector)
	}
	return vector, nil
}
