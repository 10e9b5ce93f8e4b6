package extractor

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func articlePage(paragraphs int) string {
	var b strings.Builder
	b.WriteString(`<!DOCTYPE html><html><head><title>Derby Night Report</title>`)
	b.WriteString(`<meta property="article:published_time" content="2024-03-01T18:30:00Z">`)
	b.WriteString(`</head><body><article><h1>Derby Night Report</h1>`)
	for i := 0; i < paragraphs; i++ {
		fmt.Fprintf(&b, `<p>Paragraph %d of the match report covers the build-up, the goals, `+
			`the substitutions, and the reaction from both dugouts in enough detail `+
			`that the extracted markup is clearly a real article and not a stub page.</p>`, i+1)
	}
	b.WriteString(`</article></body></html>`)
	return b.String()
}

func TestExtract_FullArticle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, articlePage(12))
	}))
	defer srv.Close()

	e := NewWithClient(srv.Client())
	doc := e.Extract(context.Background(), srv.URL+"/news/derby-night")

	if doc == nil {
		t.Fatal("expected a document, got nil")
	}
	if doc.Title != "Derby Night Report" {
		t.Errorf("Title = %q, want %q", doc.Title, "Derby Night Report")
	}
	if !passesQualityGate(doc.ContentHTML) {
		t.Errorf("extracted content should pass the quality gate, got %d chars", len(doc.ContentHTML))
	}
	if doc.ContentText == "" {
		t.Error("expected non-empty content text")
	}
	if doc.URL != srv.URL+"/news/derby-night" {
		t.Errorf("URL = %q, want the fetched URL", doc.URL)
	}
}

func TestExtract_ShortContent_FailsQualityGate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, `<!DOCTYPE html><html><head><title>Stub</title></head>`+
			`<body><article><p>Subscribe to read the rest.</p></article></body></html>`)
	}))
	defer srv.Close()

	e := NewWithClient(srv.Client())
	if doc := e.Extract(context.Background(), srv.URL); doc != nil {
		t.Errorf("expected nil for stub page, got document with %d chars", len(doc.ContentHTML))
	}
}

func TestExtract_HTTPError_ReturnsNil(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer srv.Close()

	e := NewWithClient(srv.Client())
	if doc := e.Extract(context.Background(), srv.URL); doc != nil {
		t.Error("expected nil for a 404 response")
	}
}

func TestExtract_UnreachableServer_ReturnsNil(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	client := srv.Client()
	srv.Close()

	e := NewWithClient(client)
	if doc := e.Extract(context.Background(), srv.URL); doc != nil {
		t.Error("expected nil when the server is unreachable")
	}
}

func TestExtract_MalformedURL_ReturnsNil(t *testing.T) {
	e := NewWithClient(http.DefaultClient)
	if doc := e.Extract(context.Background(), "://not-a-url"); doc != nil {
		t.Error("expected nil for a malformed URL")
	}
}
