package summarizer

import (
	"encoding/json"
	"testing"
)

func TestParseTopicsFencedJSON(t *testing.T) {
	t.Parallel()

	response := "Here you go:\n```json\n" + `{
		"classification": "politics",
		"topics": ["Politics", "Economy", "International Relations"],
		"keywords": ["policy", "finance", "global", "treaty", "trade"]
	}` + "\n```\nAnything else?"

	classification, topics, keywords := parseTopics(response)

	if classification != "politics" {
		t.Fatalf("unexpected classification: %q", classification)
	}
	if topics[0] != "politics" || keywords[0] != "politics" {
		t.Fatalf("classification must lead both lists: %v / %v", topics, keywords)
	}
	if len(topics) != 3 {
		t.Fatalf("unexpected topics: %v", topics)
	}
	if keywords[1] != "policy" || len(keywords) != 6 {
		t.Fatalf("unexpected keywords: %v", keywords)
	}
}

func TestParseTopicsBareBraces(t *testing.T) {
	t.Parallel()

	response := `The result is {"classification": "sports", "topics": ["Football"], "keywords": ["goal", "league"]} as requested.`

	classification, topics, keywords := parseTopics(response)

	if classification != "sports" {
		t.Fatalf("unexpected classification: %q", classification)
	}
	if topics[0] != "sports" || topics[1] != "Football" {
		t.Fatalf("unexpected topics: %v", topics)
	}
	if keywords[0] != "sports" || keywords[1] != "goal" {
		t.Fatalf("unexpected keywords: %v", keywords)
	}
}

func TestParseTopicsMissingLists(t *testing.T) {
	t.Parallel()

	classification, topics, keywords := parseTopics(`{"classification": "business"}`)

	if classification != "business" {
		t.Fatalf("unexpected classification: %q", classification)
	}
	if len(topics) != 2 || topics[0] != "business" || topics[1] != "General News" {
		t.Fatalf("expected placeholder topics, got %v", topics)
	}
	if len(keywords) != 3 || keywords[0] != "business" || keywords[1] != "news" || keywords[2] != "article" {
		t.Fatalf("expected placeholder keywords, got %v", keywords)
	}
}

func TestParseTopicsLineFallback(t *testing.T) {
	t.Parallel()

	response := `Classification: technology

Topics:
- Technology Trends
- "Machine Learning"

Keywords:
- computer
- research
- innovation`

	classification, topics, keywords := parseTopics(response)

	if classification != "technology" {
		t.Fatalf("unexpected classification: %q", classification)
	}
	if topics[0] != "technology" || keywords[0] != "technology" {
		t.Fatalf("classification must lead both lists: %v / %v", topics, keywords)
	}

	foundPhrase := false
	for _, topic := range topics {
		if topic == "Machine Learning" {
			foundPhrase = true
		}
	}
	if !foundPhrase {
		t.Fatalf("quoted phrase lost in fallback: %v", topics)
	}

	if len(keywords) < 4 {
		t.Fatalf("expected bare keywords collected, got %v", keywords)
	}
}

func TestParseTopicsFallbackDefaults(t *testing.T) {
	t.Parallel()

	classification, topics, keywords := parseTopics("I could not analyze this text at all, sorry.")

	if classification != "general" {
		t.Fatalf("unexpected classification: %q", classification)
	}
	if topics[0] != "general" || topics[1] != "General News" {
		t.Fatalf("expected default topics, got %v", topics)
	}
	if keywords[0] != "general" || keywords[1] != "news" {
		t.Fatalf("expected default keywords, got %v", keywords)
	}
}

func TestParseTopicsLimits(t *testing.T) {
	t.Parallel()

	long := map[string]any{
		"classification": "science",
		"topics":         []string{"a1", "b2", "c3", "d4", "e5", "f6", "g7", "h8"},
		"keywords":       []string{"k1", "k2", "k3", "k4", "k5", "k6", "k7", "k8", "k9", "k10", "k11", "k12"},
	}
	raw, _ := json.Marshal(long)

	_, topics, keywords := parseTopics(string(raw))

	if len(topics) != maxTopics {
		t.Fatalf("topics must cap at %d, got %d", maxTopics, len(topics))
	}
	if len(keywords) != maxKeywords {
		t.Fatalf("keywords must cap at %d, got %d", maxKeywords, len(keywords))
	}
}

func TestParseTopicsIdempotent(t *testing.T) {
	t.Parallel()

	first, topics, keywords := parseTopics(`{"classification": "health", "topics": ["Health", "Vaccines"], "keywords": ["medicine", "trial"]}`)

	normalized, _ := json.Marshal(map[string]any{
		"classification": first,
		"topics":         topics,
		"keywords":       keywords,
	})

	second, topics2, keywords2 := parseTopics(string(normalized))

	if second != first {
		t.Fatalf("classification changed on re-parse: %q vs %q", first, second)
	}
	if len(topics2) != len(topics) || topics2[0] != first {
		t.Fatalf("topics not stable: %v vs %v", topics, topics2)
	}
	if len(keywords2) != len(keywords) || keywords2[0] != first {
		t.Fatalf("keywords not stable: %v vs %v", keywords, keywords2)
	}

	for i := range topics {
		if topics[i] != topics2[i] {
			t.Fatalf("topic %d changed: %q vs %q", i, topics[i], topics2[i])
		}
	}
}
