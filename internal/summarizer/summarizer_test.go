package summarizer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"NewsVault/internal/domain"
	"NewsVault/internal/ports"
)

type fakeModel struct {
	responses []string
	err       error
	calls     [][]ports.Message
}

func (f *fakeModel) Generate(ctx context.Context, messages []ports.Message) (string, error) {
	f.calls = append(f.calls, messages)
	if f.err != nil {
		return "", f.err
	}
	if len(f.responses) == 0 {
		return "", errors.New("no scripted response")
	}
	response := f.responses[0]
	if len(f.responses) > 1 {
		f.responses = f.responses[1:]
	}
	return response, nil
}

func sampleArticle() domain.Article {
	return domain.Article{
		URL:   "https://www.example.com/news/article",
		Title: "Test Article Title",
		Text: "This is a test article content. It contains information about various topics " +
			"such as technology, science, and politics.",
		Metadata: map[string]string{"author": "Test Author"},
	}
}

func TestSummarizeConcise(t *testing.T) {
	t.Parallel()

	model := &fakeModel{responses: []string{"[technology] This is a concise test summary."}}
	s := NewSummarizer(model, 0, 0, nil)

	summary, err := s.Summarize(context.Background(), sampleArticle(), domain.SummaryConcise)
	if err != nil {
		t.Fatalf("Summarize error: %v", err)
	}

	if summary.Text != "[technology] This is a concise test summary." {
		t.Fatalf("unexpected summary: %q", summary.Text)
	}
	if summary.Kind != domain.SummaryConcise {
		t.Fatalf("unexpected kind: %s", summary.Kind)
	}

	want := domain.ArticleID("https://www.example.com/news/article", "Test Article Title")
	if summary.ArticleID != want {
		t.Fatalf("expected article id %s, got %s", want, summary.ArticleID)
	}

	if len(model.calls) != 1 {
		t.Fatalf("expected a single model call, got %d", len(model.calls))
	}
	prompt := model.calls[0][0].Content
	if !strings.Contains(prompt, "Title: Test Article Title") {
		t.Fatalf("prompt missing title context: %q", prompt)
	}
	if !strings.Contains(prompt, "category tag") {
		t.Fatalf("prompt missing classification instruction: %q", prompt)
	}
}

func TestSummarizeDetailedMapReduce(t *testing.T) {
	t.Parallel()

	// Small chunk size forces several map calls plus one combine call.
	article := sampleArticle()
	article.Text = strings.Repeat("All work and no play makes a dull article. ", 20)

	model := &fakeModel{responses: []string{"partial one", "partial two", "partial three", "combined detailed summary"}}
	s := NewSummarizer(model, 300, 50, nil)

	summary, err := s.Summarize(context.Background(), article, domain.SummaryDetailed)
	if err != nil {
		t.Fatalf("Summarize error: %v", err)
	}

	if summary.Text != "combined detailed summary" {
		t.Fatalf("unexpected summary: %q", summary.Text)
	}

	chunks := splitText(fmt.Sprintf("Title: %s\n\n%s", article.Title, article.Text), 300, 50)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	if len(model.calls) != len(chunks)+1 {
		t.Fatalf("expected %d model calls (map per chunk plus combine), got %d", len(chunks)+1, len(model.calls))
	}

	combinePrompt := model.calls[len(model.calls)-1][0].Content
	if !strings.Contains(combinePrompt, "partial one") || !strings.Contains(combinePrompt, "partial two") {
		t.Fatalf("combine prompt missing chunk summaries: %q", combinePrompt)
	}
}

func TestSummarizeFailures(t *testing.T) {
	t.Parallel()

	failing := &fakeModel{err: errors.New("model down")}
	s := NewSummarizer(failing, 0, 0, nil)
	if _, err := s.Summarize(context.Background(), sampleArticle(), domain.SummaryConcise); !errors.Is(err, domain.ErrGeneration) {
		t.Fatalf("expected ErrGeneration on model failure, got %v", err)
	}

	empty := &fakeModel{responses: []string{"   \n"}}
	s = NewSummarizer(empty, 0, 0, nil)
	if _, err := s.Summarize(context.Background(), sampleArticle(), domain.SummaryConcise); !errors.Is(err, domain.ErrGeneration) {
		t.Fatalf("expected ErrGeneration on empty summary, got %v", err)
	}
}

func TestIdentifyTopicsJSON(t *testing.T) {
	t.Parallel()

	model := &fakeModel{responses: []string{"```json\n" + `{
		"classification": "technology",
		"topics": ["Technology", "Artificial Intelligence", "Society"],
		"keywords": ["AI", "advancements", "society", "implications"]
	}` + "\n```"}}
	s := NewSummarizer(model, 0, 0, nil)

	topics, err := s.IdentifyTopics(context.Background(), sampleArticle())
	if err != nil {
		t.Fatalf("IdentifyTopics error: %v", err)
	}

	if topics.Classification != "technology" {
		t.Fatalf("unexpected classification: %q", topics.Classification)
	}
	if topics.Topics[0] != "technology" || topics.Keywords[0] != "technology" {
		t.Fatalf("classification must lead both lists: %v / %v", topics.Topics, topics.Keywords)
	}
	// "Technology" deduplicates against the inserted classification tag.
	if len(topics.Topics) != 3 {
		t.Fatalf("unexpected topics: %v", topics.Topics)
	}
	if topics.Topics[1] != "Artificial Intelligence" {
		t.Fatalf("original topic ordering lost: %v", topics.Topics)
	}
	if len(topics.Keywords) != 5 || topics.Keywords[1] != "AI" {
		t.Fatalf("unexpected keywords: %v", topics.Keywords)
	}
}

func TestIdentifyTopicsModelFailure(t *testing.T) {
	t.Parallel()

	model := &fakeModel{err: errors.New("unreachable")}
	s := NewSummarizer(model, 0, 0, nil)

	if _, err := s.IdentifyTopics(context.Background(), sampleArticle()); !errors.Is(err, domain.ErrGeneration) {
		t.Fatalf("expected ErrGeneration, got %v", err)
	}
}

func TestSplitTextOverlap(t *testing.T) {
	t.Parallel()

	text := strings.Repeat("abcdefghij", 10) // 100 chars
	chunks := splitText(text, 40, 10)

	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}
	for i := 1; i < len(chunks); i++ {
		prevTail := chunks[i-1][len(chunks[i-1])-10:]
		if !strings.HasPrefix(chunks[i], prevTail) {
			t.Fatalf("chunk %d does not overlap its predecessor", i)
		}
	}

	single := splitText("short", 40, 10)
	if len(single) != 1 || single[0] != "short" {
		t.Fatalf("short text must stay one chunk: %v", single)
	}
}
