package domain

import (
	"hash/fnv"
	"strconv"
)

// Article is the content extracted from a news page.
type Article struct {
	URL      string
	Title    string
	Text     string
	Metadata map[string]string
}

// SummaryKind selects the summarization strategy.
type SummaryKind string

const (
	SummaryConcise  SummaryKind = "concise"
	SummaryDetailed SummaryKind = "detailed"
)

// Summary is the generated summary of an article.
type Summary struct {
	ArticleID string
	Text      string
	Kind      SummaryKind
}

// Topics carries the classification, topic, and keyword lists of an article.
// The classification tag always occupies index 0 of both lists.
type Topics struct {
	ArticleID      string
	Classification string
	Topics         []string
	Keywords       []string
}

// ProcessedArticle is the registry snapshot kept for deduplication and audit.
type ProcessedArticle struct {
	ArticleID string
	DocID     string
	URL       string
	Title     string
	Summary   string
}

// ArticleID derives a stable correlation key from URL and title so that
// re-processing the same article is detectable. Not collision-resistant;
// never use it as a primary key.
func ArticleID(url, title string) string {
	h := fnv.New64a()
	h.Write([]byte(url + "-" + title))
	return strconv.FormatUint(h.Sum64(), 10)
}
