package summarizer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"NewsVault/internal/domain"
	"NewsVault/internal/ports"
)

const (
	defaultChunkSize    = 2000
	defaultChunkOverlap = 200

	concisePrompt = "Write a concise summary of the following article in no more than 3-4 sentences. " +
		"Begin the summary with the article's category tag in square brackets, for example [technology].\n\n" +
		"%s\n\nCONCISE SUMMARY:"

	detailedPrompt = "Write a comprehensive summary of the following article. " +
		"Include the main points, key details, and conclusions. " +
		"Begin the summary with the article's category tag in square brackets, for example [technology].\n\n" +
		"%s\n\nDETAILED SUMMARY:"

	topicsSystemPrompt = "You are an expert at analyzing news articles and identifying main topics and keywords. " +
		"Assign the article a single lowercase classification tag (such as technology, politics, sports, business), " +
		"identify the 3-5 main topics and 5-10 relevant keywords. " +
		"Always return only a JSON object with a 'classification' string and two lists: 'topics' and 'keywords'. " +
		"If no topics or keywords are found, return empty lists respectively."
)

// Summarizer generates summaries and topic classifications for extracted
// articles via a text-generation model.
type Summarizer struct {
	model        ports.TextGenerator
	chunkSize    int
	chunkOverlap int
	logger       *slog.Logger
}

var _ ports.ArticleSummarizer = (*Summarizer)(nil)

// NewSummarizer wires the generation model; chunking falls back to the
// 2000/200 defaults when unset.
func NewSummarizer(model ports.TextGenerator, chunkSize, chunkOverlap int, log *slog.Logger) *Summarizer {
	if chunkSize <= 0 {
		chunkSize = defaultChunkSize
	}
	if chunkOverlap < 0 || chunkOverlap >= chunkSize {
		chunkOverlap = defaultChunkOverlap
	}
	return &Summarizer{model: model, chunkSize: chunkSize, chunkOverlap: chunkOverlap, logger: log}
}

// Summarize generates a summary of the requested kind. Concise stuffs every
// chunk into one prompt; detailed summarizes each chunk and then combines
// the chunk summaries. Any model failure, or empty output, fails the
// operation with domain.ErrGeneration.
func (s *Summarizer) Summarize(ctx context.Context, article domain.Article, kind domain.SummaryKind) (domain.Summary, error) {
	fullText := fmt.Sprintf("Title: %s\n\n%s", article.Title, article.Text)
	chunks := splitText(fullText, s.chunkSize, s.chunkOverlap)

	s.debug("summarizing article", "title", article.Title, "kind", string(kind), "chunks", len(chunks))

	var (
		summary string
		err     error
	)
	if kind == domain.SummaryDetailed {
		summary, err = s.mapReduce(ctx, chunks)
	} else {
		kind = domain.SummaryConcise
		summary, err = s.stuff(ctx, chunks)
	}
	if err != nil {
		return domain.Summary{}, fmt.Errorf("%w: summarize article: %v", domain.ErrGeneration, err)
	}

	summary = strings.TrimSpace(summary)
	if summary == "" {
		return domain.Summary{}, fmt.Errorf("%w: model returned empty summary", domain.ErrGeneration)
	}

	return domain.Summary{
		ArticleID: domain.ArticleID(article.URL, article.Title),
		Text:      summary,
		Kind:      kind,
	}, nil
}

// IdentifyTopics asks the model for a classification plus topic and keyword
// lists. Malformed output is never an error; it is normalized by the
// deterministic fallback in parseTopics.
func (s *Summarizer) IdentifyTopics(ctx context.Context, article domain.Article) (domain.Topics, error) {
	fullText := fmt.Sprintf("Title: %s\n\n%s", article.Title, article.Text)

	response, err := s.model.Generate(ctx, []ports.Message{
		{Role: ports.RoleSystem, Content: topicsSystemPrompt},
		{Role: ports.RoleUser, Content: fullText},
	})
	if err != nil {
		return domain.Topics{}, fmt.Errorf("%w: identify topics: %v", domain.ErrGeneration, err)
	}

	classification, topics, keywords := parseTopics(response)

	s.debug("identified topics", "title", article.Title,
		"classification", classification, "topics", len(topics), "keywords", len(keywords))

	return domain.Topics{
		ArticleID:      domain.ArticleID(article.URL, article.Title),
		Classification: classification,
		Topics:         topics,
		Keywords:       keywords,
	}, nil
}

func (s *Summarizer) stuff(ctx context.Context, chunks []string) (string, error) {
	prompt := fmt.Sprintf(concisePrompt, strings.Join(chunks, "\n\n"))
	return s.model.Generate(ctx, []ports.Message{{Role: ports.RoleUser, Content: prompt}})
}

func (s *Summarizer) mapReduce(ctx context.Context, chunks []string) (string, error) {
	if len(chunks) == 1 {
		return s.model.Generate(ctx, []ports.Message{
			{Role: ports.RoleUser, Content: fmt.Sprintf(detailedPrompt, chunks[0])},
		})
	}

	partials := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		partial, err := s.model.Generate(ctx, []ports.Message{
			{Role: ports.RoleUser, Content: fmt.Sprintf(detailedPrompt, chunk)},
		})
		if err != nil {
			return "", err
		}
		partials = append(partials, strings.TrimSpace(partial))
	}

	combined := fmt.Sprintf(detailedPrompt, strings.Join(partials, "\n\n"))
	return s.model.Generate(ctx, []ports.Message{{Role: ports.RoleUser, Content: combined}})
}

// splitText cuts text into overlapping character chunks. The overlap keeps
// sentence context alive across chunk boundaries.
func splitText(text string, size, overlap int) []string {
	runes := []rune(text)
	if len(runes) <= size {
		return []string{text}
	}

	step := size - overlap
	var chunks []string
	for start := 0; start < len(runes); start += step {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
		if end == len(runes) {
			break
		}
	}
	return chunks
}

func (s *Summarizer) debug(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}
