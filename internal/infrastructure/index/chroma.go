package index

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"NewsVault/internal/domain"
	"NewsVault/internal/ports"
)

// ChromaIndex is a minimal REST client to a Chroma server. The collection is
// created on first use if missing; its server-side id is cached afterwards.
type ChromaIndex struct {
	baseURL    string
	collection string
	client     *http.Client

	mu           sync.Mutex
	collectionID string
}

var _ ports.VectorIndex = (*ChromaIndex)(nil)

// ChromaConfig carries connection details for the Chroma server.
type ChromaConfig struct {
	URL        string
	Collection string
	Timeout    time.Duration
}

// NewChromaIndex builds the client; timeout defaults to 15s.
func NewChromaIndex(cfg ChromaConfig) *ChromaIndex {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &ChromaIndex{
		baseURL:    cfg.URL,
		collection: cfg.Collection,
		client:     &http.Client{Timeout: timeout},
	}
}

// EnsureCollection creates the collection if absent and caches its id.
// Safe to call repeatedly.
func (c *ChromaIndex) EnsureCollection(ctx context.Context) error {
	_, err := c.collectionPath(ctx)
	return err
}

// Add inserts one record into the collection.
func (c *ChromaIndex) Add(ctx context.Context, rec domain.IndexRecord) error {
	path, err := c.collectionPath(ctx)
	if err != nil {
		return err
	}

	body := map[string]any{
		"ids":        []string{rec.ID},
		"embeddings": [][]float64{rec.Embedding},
		"metadatas":  []domain.DocumentMeta{rec.Metadata},
		"documents":  []string{rec.Document},
	}
	return c.postJSON(ctx, path+"/add", body, nil)
}

// Query returns the limit nearest neighbors to the embedding, ordered as the
// server returns them (ascending distance).
func (c *ChromaIndex) Query(ctx context.Context, embedding []float64, limit int) ([]domain.IndexHit, error) {
	path, err := c.collectionPath(ctx)
	if err != nil {
		return nil, err
	}

	body := map[string]any{
		"query_embeddings": [][]float64{embedding},
		"n_results":        limit,
		"include":          []string{"metadatas", "distances"},
	}

	var resp struct {
		IDs       [][]string              `json:"ids"`
		Distances [][]float64             `json:"distances"`
		Metadatas [][]domain.DocumentMeta `json:"metadatas"`
	}
	if err := c.postJSON(ctx, path+"/query", body, &resp); err != nil {
		return nil, err
	}

	if len(resp.IDs) == 0 {
		return nil, nil
	}

	hits := make([]domain.IndexHit, 0, len(resp.IDs[0]))
	for i, id := range resp.IDs[0] {
		hit := domain.IndexHit{ID: id}
		if len(resp.Metadatas) > 0 && i < len(resp.Metadatas[0]) {
			hit.Metadata = resp.Metadatas[0][i]
		}
		if len(resp.Distances) > 0 && i < len(resp.Distances[0]) {
			distance := resp.Distances[0][i]
			hit.Distance = &distance
		}
		hits = append(hits, hit)
	}
	return hits, nil
}

// Get retrieves records by id, or up to limit records when ids is empty.
func (c *ChromaIndex) Get(ctx context.Context, ids []string, limit int) ([]domain.IndexHit, error) {
	path, err := c.collectionPath(ctx)
	if err != nil {
		return nil, err
	}

	body := map[string]any{"include": []string{"metadatas"}}
	if len(ids) > 0 {
		body["ids"] = ids
	} else if limit > 0 {
		body["limit"] = limit
	}

	var resp struct {
		IDs       []string              `json:"ids"`
		Metadatas []domain.DocumentMeta `json:"metadatas"`
	}
	if err := c.postJSON(ctx, path+"/get", body, &resp); err != nil {
		return nil, err
	}

	hits := make([]domain.IndexHit, 0, len(resp.IDs))
	for i, id := range resp.IDs {
		hit := domain.IndexHit{ID: id}
		if i < len(resp.Metadatas) {
			hit.Metadata = resp.Metadatas[i]
		}
		hits = append(hits, hit)
	}
	return hits, nil
}

// Delete removes records by id.
func (c *ChromaIndex) Delete(ctx context.Context, ids []string) error {
	path, err := c.collectionPath(ctx)
	if err != nil {
		return err
	}
	return c.postJSON(ctx, path+"/delete", map[string]any{"ids": ids}, nil)
}

// Reset destroys all collections server-side and drops the cached collection
// id; the next operation recreates the collection empty.
func (c *ChromaIndex) Reset(ctx context.Context) error {
	if err := c.postJSON(ctx, "/api/v1/reset", map[string]any{}, nil); err != nil {
		return err
	}

	c.mu.Lock()
	c.collectionID = ""
	c.mu.Unlock()

	return c.EnsureCollection(ctx)
}

func (c *ChromaIndex) collectionPath(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.collectionID != "" {
		return "/api/v1/collections/" + c.collectionID, nil
	}

	body := map[string]any{
		"name":          c.collection,
		"get_or_create": true,
		"metadata":      map[string]string{"description": "news articles with summaries and topics"},
	}

	var resp struct {
		ID string `json:"id"`
	}
	if err := c.postJSON(ctx, "/api/v1/collections", body, &resp); err != nil {
		return "", fmt.Errorf("ensure collection %s: %w", c.collection, err)
	}
	if resp.ID == "" {
		return "", fmt.Errorf("ensure collection %s: server returned no id", c.collection)
	}

	c.collectionID = resp.ID
	return "/api/v1/collections/" + c.collectionID, nil
}

func (c *ChromaIndex) postJSON(ctx context.Context, path string, body any, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("chroma POST %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("chroma POST %s failed: %s", path, resp.Status)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode chroma response: %w", err)
		}
	}
	return nil
}
