package summarizer

import (
	"encoding/json"
	"regexp"
	"strings"
)

const (
	defaultClassification = "general"
	maxTopics             = 6
	maxKeywords           = 11
)

var (
	fencedJSONExpr = regexp.MustCompile("(?s)```json\\s*(.*?)\\s*```")
	braceSpanExpr  = regexp.MustCompile(`(?s)\{.*\}`)

	classificationExpr = regexp.MustCompile(`(?i)classification"?\s*:?\s*"?([A-Za-z]+)`)
	topicLabelExpr     = regexp.MustCompile(`(?i).*topics?:?`)
	keywordLabelExpr   = regexp.MustCompile(`(?i).*keywords?:?`)
	itemExpr           = regexp.MustCompile(`"([^"]+)"|(\w+)`)
)

// parseTopics normalizes a model response into {classification, topics,
// keywords}. It is a total function: structured JSON is preferred, and any
// malformed response falls back to line-oriented scanning. The returned
// lists always start with the classification tag and respect the size caps.
func parseTopics(response string) (string, []string, []string) {
	var parsed struct {
		Classification string   `json:"classification"`
		Topics         []string `json:"topics"`
		Keywords       []string `json:"keywords"`
	}

	candidate := jsonCandidate(response)
	if err := json.Unmarshal([]byte(candidate), &parsed); err == nil {
		classification := strings.ToLower(strings.TrimSpace(parsed.Classification))
		if classification == "" {
			classification = defaultClassification
		}

		topics := parsed.Topics
		if len(topics) == 0 {
			topics = []string{"General News"}
		}
		keywords := parsed.Keywords
		if len(keywords) == 0 {
			keywords = []string{"news", "article"}
		}

		return classification,
			classificationFirst(topics, classification, maxTopics),
			classificationFirst(keywords, classification, maxKeywords)
	}

	topics, keywords := scanLines(response)
	classification := fallbackClassification(response)

	if len(topics) == 0 {
		topics = []string{"General News"}
	}
	if len(keywords) == 0 {
		keywords = []string{"news", "article"}
	}

	return classification,
		classificationFirst(topics, classification, maxTopics),
		classificationFirst(keywords, classification, maxKeywords)
}

// jsonCandidate locates the most plausible JSON span in the response:
// a fenced json block, else the first brace-delimited span, else the whole
// response.
func jsonCandidate(response string) string {
	if match := fencedJSONExpr.FindStringSubmatch(response); match != nil {
		return match[1]
	}
	if span := braceSpanExpr.FindString(response); span != "" {
		return span
	}
	return response
}

// classificationFirst puts the classification tag at index 0, drops other
// occurrences of it, and truncates to max entries. Idempotent.
func classificationFirst(items []string, classification string, max int) []string {
	out := make([]string, 0, len(items)+1)
	out = append(out, classification)
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" || strings.EqualFold(item, classification) {
			continue
		}
		out = append(out, item)
	}
	if len(out) > max {
		out = out[:max]
	}
	return out
}

// scanLines accumulates quoted phrases or bare tokens into whichever list
// the most recent "topic"/"keyword" label selected.
func scanLines(response string) (topics, keywords []string) {
	var current *[]string

	for _, line := range strings.Split(response, "\n") {
		line = strings.TrimSpace(line)
		lower := strings.ToLower(line)

		if strings.Contains(lower, "topic") {
			current = &topics
			line = strings.TrimSpace(topicLabelExpr.ReplaceAllString(line, ""))
		} else if strings.Contains(lower, "keyword") {
			current = &keywords
			line = strings.TrimSpace(keywordLabelExpr.ReplaceAllString(line, ""))
		}

		if current == nil || line == "" {
			continue
		}

		for _, match := range itemExpr.FindAllStringSubmatch(line, -1) {
			item := match[1]
			if item == "" {
				item = match[2]
			}
			if len(item) > 1 {
				*current = append(*current, item)
			}
		}
	}

	return topics, keywords
}

func fallbackClassification(response string) string {
	if match := classificationExpr.FindStringSubmatch(response); match != nil {
		return strings.ToLower(match[1])
	}
	return defaultClassification
}
