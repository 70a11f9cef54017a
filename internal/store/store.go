package store

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"NewsVault/internal/domain"
	"NewsVault/internal/ports"
)

// Stored body text is truncated to bound record size in the index.
const maxStoredTextLen = 1000

// Store persists article bundles as embeddings in a vector index and
// answers nearest-neighbor queries over them. It owns the persisted index
// exclusively.
type Store struct {
	embedder ports.Embedder
	index    ports.VectorIndex
	logger   *slog.Logger
}

var _ ports.ArticleStore = (*Store)(nil)

// NewStore wires the embedding collaborator and the vector index.
func NewStore(embedder ports.Embedder, index ports.VectorIndex, log *slog.Logger) *Store {
	return &Store{embedder: embedder, index: index, logger: log}
}

// Init makes sure the collection exists. Idempotent; call once at startup.
func (s *Store) Init(ctx context.Context) error {
	if err := s.index.EnsureCollection(ctx); err != nil {
		return fmt.Errorf("%w: init collection: %v", domain.ErrStorage, err)
	}
	return nil
}

// Store embeds the article bundle and writes it to the index, returning the
// freshly assigned document id.
func (s *Store) Store(ctx context.Context, article domain.Article, summary domain.Summary, topics domain.Topics) (string, error) {
	docID := uuid.NewString()

	docText := embeddingText(article, summary, topics)

	vector, err := s.embedder.Embed(ctx, docText)
	if err != nil {
		return "", fmt.Errorf("%w: embed article %q: %v", domain.ErrStorage, article.Title, err)
	}

	record := domain.IndexRecord{
		ID:        docID,
		Embedding: vector,
		Metadata: domain.DocumentMeta{
			URL:      article.URL,
			Title:    article.Title,
			Text:     truncate(article.Text, maxStoredTextLen),
			Summary:  summary.Text,
			Topics:   strings.Join(topics.Topics, ", "),
			Keywords: strings.Join(topics.Keywords, ", "),
		},
		Document: docText,
	}

	if err := s.index.Add(ctx, record); err != nil {
		return "", fmt.Errorf("%w: store article %q: %v", domain.ErrStorage, article.Title, err)
	}

	s.debug("stored article", "id", docID, "title", article.Title)
	return docID, nil
}

// SimilaritySearch embeds the query and returns the limit nearest documents
// in the order the index produced them. Relevance score is 1 - distance,
// absent when the index reported no distance.
func (s *Store) SimilaritySearch(ctx context.Context, query string, limit int) ([]domain.SearchResult, error) {
	vector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: embed query: %v", domain.ErrSearch, err)
	}

	hits, err := s.index.Query(ctx, vector, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: query index: %v", domain.ErrSearch, err)
	}

	results := make([]domain.SearchResult, 0, len(hits))
	for _, hit := range hits {
		result := hitToResult(hit)
		if hit.Distance != nil {
			score := 1 - *hit.Distance
			result.RelevanceScore = &score
		}
		results = append(results, result)
	}

	s.debug("similarity search", "query", query, "results", len(results))
	return results, nil
}

// GetByID retrieves one document; a missing id yields (nil, nil).
func (s *Store) GetByID(ctx context.Context, id string) (*domain.SearchResult, error) {
	hits, err := s.index.Get(ctx, []string{id}, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: get %s: %v", domain.ErrStorage, id, err)
	}
	if len(hits) == 0 {
		return nil, nil
	}

	result := hitToResult(hits[0])
	return &result, nil
}

// List returns up to limit stored documents.
func (s *Store) List(ctx context.Context, limit int) ([]domain.SearchResult, error) {
	hits, err := s.index.Get(ctx, nil, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: list documents: %v", domain.ErrStorage, err)
	}

	results := make([]domain.SearchResult, 0, len(hits))
	for _, hit := range hits {
		results = append(results, hitToResult(hit))
	}
	return results, nil
}

// Delete removes one document by id.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.index.Delete(ctx, []string{id}); err != nil {
		return fmt.Errorf("%w: delete %s: %v", domain.ErrStorage, id, err)
	}
	return nil
}

// Reset destroys the collection and recreates it empty. Destructive; any
// confirmation belongs to the caller.
func (s *Store) Reset(ctx context.Context) error {
	if err := s.index.Reset(ctx); err != nil {
		return fmt.Errorf("%w: reset index: %v", domain.ErrStorage, err)
	}
	if err := s.index.EnsureCollection(ctx); err != nil {
		return fmt.Errorf("%w: recreate collection: %v", domain.ErrStorage, err)
	}
	return nil
}

// embeddingText builds the text the document embedding is computed from.
func embeddingText(article domain.Article, summary domain.Summary, topics domain.Topics) string {
	return fmt.Sprintf("Title: %s\nSummary: %s\nTopics: %s\nKeywords: %s",
		article.Title,
		summary.Text,
		strings.Join(topics.Topics, ", "),
		strings.Join(topics.Keywords, ", "))
}

func hitToResult(hit domain.IndexHit) domain.SearchResult {
	return domain.SearchResult{
		ID:       hit.ID,
		URL:      hit.Metadata.URL,
		Title:    hit.Metadata.Title,
		Summary:  hit.Metadata.Summary,
		Topics:   splitList(hit.Metadata.Topics),
		Keywords: splitList(hit.Metadata.Keywords),
	}
}

func splitList(joined string) []string {
	if joined == "" {
		return nil
	}
	return strings.Split(joined, ", ")
}

func truncate(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max])
}

func (s *Store) debug(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}
