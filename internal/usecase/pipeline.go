package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"NewsVault/internal/domain"
	"NewsVault/internal/ports"
)

// PipelineDeps wires the processing stages into the ingest pipeline.
type PipelineDeps struct {
	Extractor  ports.ArticleExtractor
	Summarizer ports.ArticleSummarizer
	Store      ports.ArticleStore
	Registry   ports.ProcessedRegistry
	Logger     *slog.Logger
}

// Pipeline implements the article ingest workflow: extract, summarize,
// classify, store. Stages run sequentially per article; concurrent callers
// may run pipelines for different URLs.
type Pipeline struct {
	extractor  ports.ArticleExtractor
	summarizer ports.ArticleSummarizer
	store      ports.ArticleStore
	registry   ports.ProcessedRegistry
	logger     *slog.Logger
}

// Result reports what a pipeline run produced.
type Result struct {
	DocID     string
	ArticleID string
	Article   domain.Article
	Summary   domain.Summary
	Topics    domain.Topics

	// AlreadyProcessed is true when the registry already held this article
	// and the stages were skipped; DocID then points at the earlier document.
	AlreadyProcessed bool
}

// NewPipeline constructs the orchestration component. Registry is optional;
// without one every URL is processed unconditionally.
func NewPipeline(deps PipelineDeps) *Pipeline {
	return &Pipeline{
		extractor:  deps.Extractor,
		summarizer: deps.Summarizer,
		store:      deps.Store,
		registry:   deps.Registry,
		logger:     deps.Logger,
	}
}

// ProcessURL runs the full ingest workflow for one article URL.
func (p *Pipeline) ProcessURL(ctx context.Context, url string) (Result, error) {
	article, err := p.extractor.Extract(ctx, url)
	if err != nil {
		return Result{}, fmt.Errorf("extract %s: %w", url, err)
	}

	articleID := domain.ArticleID(article.URL, article.Title)

	if p.registry != nil {
		docID, processed, rErr := p.registry.Find(ctx, articleID)
		if rErr != nil {
			return Result{}, fmt.Errorf("check processed %s: %w", url, rErr)
		}
		if processed {
			p.debug("article already processed", "url", url, "doc_id", docID)
			return Result{DocID: docID, ArticleID: articleID, Article: article, AlreadyProcessed: true}, nil
		}
	}

	summary, err := p.summarizer.Summarize(ctx, article, domain.SummaryConcise)
	if err != nil {
		return Result{}, fmt.Errorf("summarize %s: %w", url, err)
	}

	topics, err := p.summarizer.IdentifyTopics(ctx, article)
	if err != nil {
		return Result{}, fmt.Errorf("identify topics %s: %w", url, err)
	}

	docID, err := p.store.Store(ctx, article, summary, topics)
	if err != nil {
		return Result{}, fmt.Errorf("store %s: %w", url, err)
	}

	if p.registry != nil {
		err = p.registry.Record(ctx, domain.ProcessedArticle{
			ArticleID: articleID,
			DocID:     docID,
			URL:       article.URL,
			Title:     article.Title,
			Summary:   summary.Text,
		})
		if err != nil {
			return Result{}, fmt.Errorf("record processed %s: %w", url, err)
		}
	}

	p.debug("processed article", "url", url, "doc_id", docID, "classification", topics.Classification)

	return Result{
		DocID:     docID,
		ArticleID: articleID,
		Article:   article,
		Summary:   summary,
		Topics:    topics,
	}, nil
}

func (p *Pipeline) debug(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Debug(msg, args...)
	}
}
