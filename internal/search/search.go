package search

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"NewsVault/internal/domain"
	"NewsVault/internal/ports"
)

const (
	maxExpandedQueryLen = 200

	expansionSystemPrompt = "You are a helpful assistant that expands search queries to improve semantic search results. " +
		"Given a search query, expand it with relevant terms and synonyms while preserving the " +
		"original intent. Keep the expansion concise and focused."

	relatedSystemPrompt = "You are a helpful search assistant that suggests related searches. " +
		"Given a search query, provide %d alternative search queries " +
		"that a user might be interested in. Each suggestion should be on a new line."
)

// Characters stripped from the front and back of suggestion lines.
const bulletCutset = "-*• \t"

// Search performs semantic retrieval with generative query expansion and
// deterministic result post-processing.
type Search struct {
	store  ports.ArticleStore
	model  ports.TextGenerator
	logger *slog.Logger
}

var _ ports.ArticleSearcher = (*Search)(nil)

// NewSearch wires the document store and the generation model.
func NewSearch(store ports.ArticleStore, model ports.TextGenerator, log *slog.Logger) *Search {
	return &Search{store: store, model: model, logger: log}
}

// Search retrieves the limit most similar documents. When expand is true the
// query is first rewritten by the model; expansion is best-effort and any
// failure silently falls back to the original query. Only an underlying
// index failure aborts the search.
func (s *Search) Search(ctx context.Context, query string, limit int, expand bool) ([]domain.SearchResult, error) {
	retrievalQuery := query
	if expand {
		expanded, err := s.expandQuery(ctx, query)
		if err != nil {
			s.warn("query expansion failed, using original query", "query", query, "error", err)
		} else {
			s.debug("expanded query", "from", query, "to", expanded)
			retrievalQuery = expanded
		}
	}

	results, err := s.store.SimilaritySearch(ctx, retrievalQuery, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: search %q: %v", domain.ErrSearch, query, err)
	}

	enhanceResults(results)

	s.debug("search finished", "query", query, "results", len(results))
	return results, nil
}

// RelatedSearches asks the model for count alternative queries, one per
// line, strips bullet characters, and deduplicates preserving first-seen
// order. Unlike query expansion, a model failure here is an error.
func (s *Search) RelatedSearches(ctx context.Context, query string, count int) ([]string, error) {
	response, err := s.model.Generate(ctx, []ports.Message{
		{Role: ports.RoleSystem, Content: fmt.Sprintf(relatedSystemPrompt, count)},
		{Role: ports.RoleUser, Content: fmt.Sprintf(
			"Original search query: %s\nGenerate %d related search suggestions, one per line.", query, count)},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: related searches for %q: %v", domain.ErrSearch, query, err)
	}

	seen := map[string]struct{}{}
	var suggestions []string
	for _, line := range strings.Split(response, "\n") {
		suggestion := strings.Trim(strings.TrimSpace(line), bulletCutset)
		if suggestion == "" {
			continue
		}
		if _, dup := seen[suggestion]; dup {
			continue
		}
		seen[suggestion] = struct{}{}
		suggestions = append(suggestions, suggestion)
		if len(suggestions) == count {
			break
		}
	}

	s.debug("related searches", "query", query, "count", len(suggestions))
	return suggestions, nil
}

func (s *Search) expandQuery(ctx context.Context, query string) (string, error) {
	response, err := s.model.Generate(ctx, []ports.Message{
		{Role: ports.RoleSystem, Content: expansionSystemPrompt},
		{Role: ports.RoleUser, Content: fmt.Sprintf(
			"Original query: %s\nPlease expand this query for better semantic search results. "+
				"Return ONLY the expanded query text, no explanations or formatting.", query)},
	})
	if err != nil {
		return "", err
	}

	expanded := strings.TrimSpace(response)
	if expanded == "" {
		return "", fmt.Errorf("model returned empty expansion")
	}

	if runes := []rune(expanded); len(runes) > maxExpandedQueryLen {
		expanded = string(runes[:maxExpandedQueryLen])
	}
	return expanded, nil
}

// enhanceResults derives the relevance percentage and normalizes keyword
// lists that arrived as one comma-joined string. Idempotent.
func enhanceResults(results []domain.SearchResult) {
	for i := range results {
		if score := results[i].RelevanceScore; score != nil {
			percentage := int(math.Floor(*score * 100))
			results[i].RelevancePercentage = &percentage
		}
		if keywords := results[i].Keywords; len(keywords) == 1 && strings.Contains(keywords[0], ", ") {
			results[i].Keywords = strings.Split(keywords[0], ", ")
		}
	}
}

func (s *Search) debug(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}

func (s *Search) warn(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Warn(msg, args...)
	}
}
