package index

import (
	"context"
	"math"
	"sort"
	"sync"

	"NewsVault/internal/domain"
	"NewsVault/internal/ports"
)

// MemoryIndex is an in-process vector index using cosine distance. It backs
// tests and small single-node deployments where no Chroma server runs.
type MemoryIndex struct {
	mu      sync.RWMutex
	order   []string
	records map[string]domain.IndexRecord
}

var _ ports.VectorIndex = (*MemoryIndex)(nil)

// NewMemoryIndex creates an empty index.
func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{records: map[string]domain.IndexRecord{}}
}

// EnsureCollection is a no-op; the in-memory collection always exists.
func (m *MemoryIndex) EnsureCollection(ctx context.Context) error { return nil }

// Add stores the record, replacing any record with the same id.
func (m *MemoryIndex) Add(ctx context.Context, rec domain.IndexRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.records[rec.ID]; !exists {
		m.order = append(m.order, rec.ID)
	}
	m.records[rec.ID] = rec
	return nil
}

// Query returns the limit records closest to the embedding by cosine
// distance, ascending.
func (m *MemoryIndex) Query(ctx context.Context, embedding []float64, limit int) ([]domain.IndexHit, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	type scored struct {
		rec      domain.IndexRecord
		distance float64
	}

	ranked := make([]scored, 0, len(m.records))
	for _, id := range m.order {
		rec := m.records[id]
		ranked = append(ranked, scored{rec: rec, distance: 1 - cosineSimilarity(embedding, rec.Embedding)})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].distance < ranked[j].distance
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}

	hits := make([]domain.IndexHit, len(ranked))
	for i, r := range ranked {
		distance := r.distance
		hits[i] = domain.IndexHit{ID: r.rec.ID, Distance: &distance, Metadata: r.rec.Metadata}
	}
	return hits, nil
}

// Get retrieves records by id (unknown ids are skipped), or up to limit
// records in insertion order when ids is empty.
func (m *MemoryIndex) Get(ctx context.Context, ids []string, limit int) ([]domain.IndexHit, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var hits []domain.IndexHit
	if len(ids) > 0 {
		for _, id := range ids {
			if rec, ok := m.records[id]; ok {
				hits = append(hits, domain.IndexHit{ID: rec.ID, Metadata: rec.Metadata})
			}
		}
		return hits, nil
	}

	for _, id := range m.order {
		if limit > 0 && len(hits) >= limit {
			break
		}
		rec := m.records[id]
		hits = append(hits, domain.IndexHit{ID: rec.ID, Metadata: rec.Metadata})
	}
	return hits, nil
}

// Delete removes records by id; unknown ids are ignored.
func (m *MemoryIndex) Delete(ctx context.Context, ids []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, id := range ids {
		if _, ok := m.records[id]; !ok {
			continue
		}
		delete(m.records, id)
		for i, ordered := range m.order {
			if ordered == id {
				m.order = append(m.order[:i], m.order[i+1:]...)
				break
			}
		}
	}
	return nil
}

// Reset drops every record.
func (m *MemoryIndex) Reset(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.order = nil
	m.records = map[string]domain.IndexRecord{}
	return nil
}

func cosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
