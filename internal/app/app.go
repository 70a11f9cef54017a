package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	_ "github.com/lib/pq"

	"NewsVault/internal/config"
	"NewsVault/internal/infrastructure/embedding"
	"NewsVault/internal/infrastructure/extractor"
	"NewsVault/internal/infrastructure/index"
	"NewsVault/internal/infrastructure/llm"
	"NewsVault/internal/infrastructure/registry"
	"NewsVault/internal/logging"
	"NewsVault/internal/ports"
	"NewsVault/internal/search"
	"NewsVault/internal/store"
	"NewsVault/internal/summarizer"
	"NewsVault/internal/usecase"
)

// Application wires configuration to the pipeline and search services.
// Construct once at startup; all components are passed explicitly.
type Application struct {
	cfg      config.Config
	logger   *slog.Logger
	db       *sql.DB
	pipeline *usecase.Pipeline
	store    *store.Store
	searcher ports.ArticleSearcher
}

// New builds a runnable application instance.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	timeout := time.Duration(cfg.Extractor.TimeoutSeconds) * time.Second
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	ex := extractor.NewExtractor(
		&http.Client{Timeout: timeout},
		baseLogger.With("component", "extractor"),
	)

	model := llm.NewOpenAIClient(cfg.OpenAI)
	embedder := embedding.NewOpenAIEmbedder(cfg.Embedding, cfg.OpenAI.APIKey)

	var vectorIndex ports.VectorIndex
	if cfg.Index.Type == "memory" {
		vectorIndex = index.NewMemoryIndex()
	} else {
		vectorIndex = index.NewChromaIndex(index.ChromaConfig{
			URL:        cfg.Index.URL,
			Collection: cfg.Index.Collection,
		})
	}

	docStore := store.NewStore(embedder, vectorIndex, baseLogger.With("component", "store"))

	sm := summarizer.NewSummarizer(
		model,
		cfg.Summarizer.ChunkSize,
		cfg.Summarizer.ChunkOverlap,
		baseLogger.With("component", "summarizer"),
	)

	app := &Application{
		cfg:      cfg,
		logger:   baseLogger,
		store:    docStore,
		searcher: search.NewSearch(docStore, model, baseLogger.With("component", "search")),
	}

	var processedRegistry ports.ProcessedRegistry
	if cfg.Registry.DSN != "" {
		db, err := sql.Open("postgres", cfg.Registry.DSN)
		if err != nil {
			return nil, fmt.Errorf("open registry database: %w", err)
		}
		app.db = db
		processedRegistry = registry.NewPostgresRegistry(db)
	}

	app.pipeline = usecase.NewPipeline(usecase.PipelineDeps{
		Extractor:  ex,
		Summarizer: sm,
		Store:      docStore,
		Registry:   processedRegistry,
		Logger:     baseLogger.With("component", "pipeline"),
	})

	return app, nil
}

// Init prepares the vector collection. Idempotent.
func (a *Application) Init(ctx context.Context) error {
	return a.store.Init(ctx)
}

// Close releases held resources.
func (a *Application) Close() error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}

// Ingest runs the full pipeline for one article URL.
func (a *Application) Ingest(ctx context.Context, url string) (usecase.Result, error) {
	return a.pipeline.ProcessURL(ctx, url)
}

// Searcher exposes the semantic search service.
func (a *Application) Searcher() ports.ArticleSearcher { return a.searcher }

// Store exposes the document store for point operations.
func (a *Application) Store() ports.ArticleStore { return a.store }
