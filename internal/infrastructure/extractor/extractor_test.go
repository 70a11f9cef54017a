package extractor

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"NewsVault/internal/domain"
)

const sampleArticleHTML = `<!DOCTYPE html>
<html>
<head>
	<title>Test Article Title</title>
	<meta name="author" content="John Doe">
	<meta property="article:published_time" content="2025-05-04T12:00:00Z">
</head>
<body>
	<article>
		<h1 class="headline">Sample News Article</h1>
		<div class="article-body">
			<p>This is the first paragraph of the article.</p>
			<p>This is the second paragraph with more details.</p>
			<p>This is the conclusion of the article.</p>
		</div>
	</article>
	<footer>
		<p>Copyright 2025</p>
	</footer>
</body>
</html>`

func serve(t *testing.T, body string, status int) (*Extractor, string) {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)

	return NewExtractor(server.Client(), nil), server.URL + "/article"
}

func TestExtractSuccess(t *testing.T) {
	t.Parallel()

	ex, url := serve(t, sampleArticleHTML, http.StatusOK)

	article, err := ex.Extract(context.Background(), url)
	if err != nil {
		t.Fatalf("Extract error: %v", err)
	}

	if article.Title != "Sample News Article" {
		t.Fatalf("unexpected title: %q", article.Title)
	}

	for _, fragment := range []string{"first paragraph", "second paragraph", "conclusion"} {
		if !strings.Contains(article.Text, fragment) {
			t.Fatalf("text missing %q: %q", fragment, article.Text)
		}
	}

	paragraphs := strings.Split(article.Text, "\n\n")
	if len(paragraphs) != 3 {
		t.Fatalf("expected 3 blank-line separated paragraphs, got %d", len(paragraphs))
	}

	if strings.Contains(article.Text, "Copyright") {
		t.Fatalf("footer content leaked into text: %q", article.Text)
	}

	if article.Metadata["author"] != "John Doe" {
		t.Fatalf("unexpected author: %q", article.Metadata["author"])
	}
	if article.Metadata["date"] != "2025-05-04T12:00:00Z" {
		t.Fatalf("unexpected date: %q", article.Metadata["date"])
	}
}

func TestExtractFetchErrors(t *testing.T) {
	t.Parallel()

	ex, url := serve(t, "boom", http.StatusInternalServerError)
	if _, err := ex.Extract(context.Background(), url); !errors.Is(err, domain.ErrFetch) {
		t.Fatalf("expected ErrFetch for 500 response, got %v", err)
	}

	closed := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	deadURL := closed.URL
	client := closed.Client()
	closed.Close()

	dead := NewExtractor(client, nil)
	if _, err := dead.Extract(context.Background(), deadURL); !errors.Is(err, domain.ErrFetch) {
		t.Fatalf("expected ErrFetch for connection error, got %v", err)
	}

	if _, err := dead.Extract(context.Background(), "not-a-url"); !errors.Is(err, domain.ErrFetch) {
		t.Fatalf("expected ErrFetch for invalid url, got %v", err)
	}
}

func TestExtractNoTitle(t *testing.T) {
	t.Parallel()

	ex, url := serve(t, "<html><body><p>Just some text</p></body></html>", http.StatusOK)
	if _, err := ex.Extract(context.Background(), url); !errors.Is(err, domain.ErrExtraction) {
		t.Fatalf("expected ErrExtraction without title, got %v", err)
	}
}

func TestExtractNoContent(t *testing.T) {
	t.Parallel()

	ex, url := serve(t, "<html><head><title>Test</title></head><body></body></html>", http.StatusOK)
	if _, err := ex.Extract(context.Background(), url); !errors.Is(err, domain.ErrExtraction) {
		t.Fatalf("expected ErrExtraction without paragraphs, got %v", err)
	}
}

func TestTitleTiers(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		html string
		want string
	}{
		{
			name: "article heading wins",
			html: `<html><body><h1>Outer</h1><article><h2>Inner Heading</h2><p>x</p></article></body></html>`,
			want: "Inner Heading",
		},
		{
			name: "top level h1",
			html: `<html><body><h1>Top Heading</h1><p>x</p></body></html>`,
			want: "Top Heading",
		},
		{
			name: "title class selector",
			html: `<html><body><div class="post-title">Classy Title</div><p>x</p></body></html>`,
			want: "Classy Title",
		},
		{
			name: "html title fallback",
			html: `<html><head><title>Document Title</title></head><body><p>x</p></body></html>`,
			want: "Document Title",
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ex, url := serve(t, tc.html, http.StatusOK)
			article, err := ex.Extract(context.Background(), url)
			if err != nil {
				t.Fatalf("Extract error: %v", err)
			}
			if article.Title != tc.want {
				t.Fatalf("expected title %q, got %q", tc.want, article.Title)
			}
		})
	}
}

func TestBodyFallbackStripsNonContent(t *testing.T) {
	t.Parallel()

	html := `<html><head><title>T</title></head><body>
	<nav><p>Navigation link</p></nav>
	<div><p>Real body text.</p></div>
	<div class="sidebar"><p>Sidebar junk</p></div>
	<footer><p>Footer junk</p></footer>
	</body></html>`

	ex, url := serve(t, html, http.StatusOK)
	article, err := ex.Extract(context.Background(), url)
	if err != nil {
		t.Fatalf("Extract error: %v", err)
	}

	if article.Text != "Real body text." {
		t.Fatalf("unexpected body: %q", article.Text)
	}
}

func TestMetadataDatetimeAttributePreferred(t *testing.T) {
	t.Parallel()

	html := `<html><head><title>T</title></head><body>
	<h1>Heading</h1>
	<span class="byline">Jane Roe</span>
	<time datetime="2025-01-02T03:04:05Z">January 2, 2025</time>
	<p>Body.</p>
	</body></html>`

	ex, url := serve(t, html, http.StatusOK)
	article, err := ex.Extract(context.Background(), url)
	if err != nil {
		t.Fatalf("Extract error: %v", err)
	}

	if article.Metadata["author"] != "Jane Roe" {
		t.Fatalf("unexpected author: %q", article.Metadata["author"])
	}
	if article.Metadata["date"] != "2025-01-02T03:04:05Z" {
		t.Fatalf("expected datetime attribute, got %q", article.Metadata["date"])
	}
}
