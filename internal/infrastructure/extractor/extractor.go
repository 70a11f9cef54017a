package extractor

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"NewsVault/internal/domain"
	"NewsVault/internal/ports"
)

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
	"(KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// Ordered selector tiers; first match wins.
var (
	titleSelectors = []string{".headline", ".article-title", "#article-title", ".post-title", ".entry-title"}

	contentSelectors = []string{
		"article", ".article-body", ".story-body", ".post-content",
		".entry-content", "#article-body", ".story-content", "main",
	}

	nonContentSelector = "nav, footer, header, .comments, .sidebar"

	authorSelectors = []string{
		".author", ".byline", ".article-author",
		`meta[name="author"]`, `meta[property="article:author"]`,
	}

	dateSelectors = []string{
		".date", ".published-date", ".article-date", ".timestamp",
		"time", `meta[property="article:published_time"]`,
	}
)

// Extractor derives {title, body, metadata} from news pages via cascading
// heuristics over the HTML structure.
type Extractor struct {
	client    *http.Client
	userAgent string
	logger    *slog.Logger
}

var _ ports.ArticleExtractor = (*Extractor)(nil)

// NewExtractor wires an HTTP client; timeout defaults to 10s.
func NewExtractor(client *http.Client, log *slog.Logger) *Extractor {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &Extractor{client: client, userAgent: defaultUserAgent, logger: log}
}

// Extract fetches the page and runs the title, body, and metadata heuristics.
// Network and HTTP failures surface as domain.ErrFetch; a page with no
// recognizable title or body text fails with domain.ErrExtraction.
func (e *Extractor) Extract(ctx context.Context, rawURL string) (domain.Article, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil || !parsed.IsAbs() || parsed.Host == "" {
		return domain.Article{}, fmt.Errorf("%w: invalid article url %q", domain.ErrFetch, rawURL)
	}

	e.debug("extracting article", "url", rawURL)

	doc, err := e.fetchDocument(ctx, rawURL)
	if err != nil {
		return domain.Article{}, err
	}

	title, err := extractTitle(doc)
	if err != nil {
		return domain.Article{}, err
	}

	text, err := extractText(doc)
	if err != nil {
		return domain.Article{}, err
	}

	article := domain.Article{
		URL:      rawURL,
		Title:    title,
		Text:     text,
		Metadata: extractMetadata(doc),
	}

	e.debug("extracted article", "url", rawURL, "title", title, "chars", len(text))
	return article, nil
}

func (e *Extractor) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", domain.ErrFetch, err)
	}
	req.Header.Set("User-Agent", e.userAgent)

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: request %s: %v", domain.ErrFetch, pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("%w: %s returned %s", domain.ErrFetch, pageURL, resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: parse document: %v", domain.ErrFetch, err)
	}

	return doc, nil
}

// extractTitle tries, in order: a heading inside an <article> container, any
// top-level h1, a list of common title selectors, and finally <title>.
func extractTitle(doc *goquery.Document) (string, error) {
	if article := doc.Find("article").First(); article.Length() > 0 {
		if heading := article.Find("h1, h2").First(); heading.Length() > 0 {
			return strings.TrimSpace(heading.Text()), nil
		}
	}

	if h1 := doc.Find("h1").First(); h1.Length() > 0 {
		return strings.TrimSpace(h1.Text()), nil
	}

	for _, selector := range titleSelectors {
		if elem := doc.Find(selector).First(); elem.Length() > 0 {
			return strings.TrimSpace(elem.Text()), nil
		}
	}

	if htmlTitle := doc.Find("title").First(); htmlTitle.Length() > 0 {
		return strings.TrimSpace(htmlTitle.Text()), nil
	}

	return "", fmt.Errorf("%w: could not extract article title", domain.ErrExtraction)
}

// extractText joins the paragraphs of the first content container that has
// any. When no container matches, it strips known non-content regions and
// joins whatever paragraphs remain.
func extractText(doc *goquery.Document) (string, error) {
	for _, selector := range contentSelectors {
		container := doc.Find(selector).First()
		if container.Length() == 0 {
			continue
		}
		if text := joinParagraphs(container.Find("p")); text != "" {
			return text, nil
		}
	}

	doc.Find(nonContentSelector).Remove()

	if text := joinParagraphs(doc.Find("p")); text != "" {
		return text, nil
	}

	return "", fmt.Errorf("%w: could not extract article text", domain.ErrExtraction)
}

func joinParagraphs(paragraphs *goquery.Selection) string {
	var parts []string
	paragraphs.Each(func(_ int, p *goquery.Selection) {
		parts = append(parts, strings.TrimSpace(p.Text()))
	})
	return strings.Join(parts, "\n\n")
}

// extractMetadata collects author and publication date on a best-effort
// basis. Missing fields are simply absent from the map.
func extractMetadata(doc *goquery.Document) map[string]string {
	metadata := map[string]string{}

	for _, selector := range authorSelectors {
		elem := doc.Find(selector).First()
		if elem.Length() == 0 {
			continue
		}
		if strings.HasPrefix(selector, "meta") {
			if content, ok := elem.Attr("content"); ok {
				metadata["author"] = strings.TrimSpace(content)
				break
			}
			continue
		}
		metadata["author"] = strings.TrimSpace(elem.Text())
		break
	}

	for _, selector := range dateSelectors {
		elem := doc.Find(selector).First()
		if elem.Length() == 0 {
			continue
		}
		if strings.HasPrefix(selector, "meta") {
			if content, ok := elem.Attr("content"); ok {
				metadata["date"] = strings.TrimSpace(content)
				break
			}
			continue
		}
		// Machine-readable datetime attribute wins over visible text.
		if datetime, ok := elem.Attr("datetime"); ok {
			metadata["date"] = strings.TrimSpace(datetime)
		} else {
			metadata["date"] = strings.TrimSpace(elem.Text())
		}
		break
	}

	return metadata
}

func (e *Extractor) debug(msg string, args ...any) {
	if e.logger != nil {
		e.logger.Debug(msg, args...)
	}
}
