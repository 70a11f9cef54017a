package domain

// DocumentMeta is the metadata bundle stored alongside each embedding.
// Topic and keyword lists are flattened to comma-joined strings; article
// text is truncated before storage to bound record size.
type DocumentMeta struct {
	URL      string `json:"url"`
	Title    string `json:"title"`
	Text     string `json:"text"`
	Summary  string `json:"summary"`
	Topics   string `json:"topics"`
	Keywords string `json:"keywords"`
}

// IndexRecord is a document as written to the vector index.
type IndexRecord struct {
	ID        string
	Embedding []float64
	Metadata  DocumentMeta
	Document  string
}

// IndexHit is a single record returned by the vector index. Distance is nil
// when the index did not report one (point lookups, listings).
type IndexHit struct {
	ID       string
	Distance *float64
	Metadata DocumentMeta
}

// SearchResult is a stored document flattened for presentation, with
// similarity converted to a relevance score and percentage. Derived only,
// never persisted.
type SearchResult struct {
	ID                  string
	URL                 string
	Title               string
	Summary             string
	Topics              []string
	Keywords            []string
	RelevanceScore      *float64
	RelevancePercentage *int
}
