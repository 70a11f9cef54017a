package ports

import (
	"context"

	"NewsVault/internal/domain"
)

// ArticleExtractor pulls title, body text, and metadata from a news URL.
type ArticleExtractor interface {
	Extract(ctx context.Context, url string) (domain.Article, error)
}

// ArticleSummarizer generates summaries and topic classifications.
type ArticleSummarizer interface {
	Summarize(ctx context.Context, article domain.Article, kind domain.SummaryKind) (domain.Summary, error)
	IdentifyTopics(ctx context.Context, article domain.Article) (domain.Topics, error)
}

// ArticleStore persists article bundles as embeddings and answers
// nearest-neighbor queries over them.
type ArticleStore interface {
	Store(ctx context.Context, article domain.Article, summary domain.Summary, topics domain.Topics) (string, error)
	SimilaritySearch(ctx context.Context, query string, limit int) ([]domain.SearchResult, error)
	GetByID(ctx context.Context, id string) (*domain.SearchResult, error)
	List(ctx context.Context, limit int) ([]domain.SearchResult, error)
	Delete(ctx context.Context, id string) error
	Reset(ctx context.Context) error
}

// ArticleSearcher performs semantic search with query expansion and
// related-query suggestions.
type ArticleSearcher interface {
	Search(ctx context.Context, query string, limit int, expand bool) ([]domain.SearchResult, error)
	RelatedSearches(ctx context.Context, query string, count int) ([]string, error)
}

// Message is one turn of a chat exchange with a text-generation model.
type Message struct {
	Role    string
	Content string
}

const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// TextGenerator invokes a chat model and returns its raw text output.
type TextGenerator interface {
	Generate(ctx context.Context, messages []Message) (string, error)
}

// Embedder converts text into a fixed-dimension vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}

// VectorIndex is the nearest-neighbor store behind the ArticleStore.
type VectorIndex interface {
	EnsureCollection(ctx context.Context) error
	Add(ctx context.Context, rec domain.IndexRecord) error
	Query(ctx context.Context, embedding []float64, limit int) ([]domain.IndexHit, error)
	Get(ctx context.Context, ids []string, limit int) ([]domain.IndexHit, error)
	Delete(ctx context.Context, ids []string) error
	Reset(ctx context.Context) error
}

// ProcessedRegistry records processed articles for deduplication and audit.
type ProcessedRegistry interface {
	Find(ctx context.Context, articleID string) (docID string, ok bool, err error)
	Record(ctx context.Context, article domain.ProcessedArticle) error
}
