// Package extractor downloads resolved article pages and parses them into
// structured documents ready for persistence.
package extractor

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/doyensec/safeurl"
	readability "github.com/go-shiori/go-readability"
	"github.com/microcosm-cc/bluemonday"
)

// userAgent mirrors a desktop browser; several publishers serve stub pages
// to unknown clients.
const userAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"

// maxBodyBytes bounds how much of an article response is read
const maxBodyBytes = 10 << 20

// Document is the structured result of extracting one article page
type Document struct {
	Title       string
	ContentHTML string
	ContentText string
	TopImage    string
	PublishedAt string // raw timestamp as extracted, may be empty
	URL         string
	Summary     string
}

// Extractor downloads and parses article pages
type Extractor struct {
	client     *http.Client
	sanitizer  *bluemonday.Policy
	summarizer *Summarizer
}

// New creates an extractor with an SSRF-guarded HTTP client. Resolved
// article URLs are untrusted external input.
func New(timeout time.Duration) *Extractor {
	cfg := safeurl.GetConfigBuilder().
		SetTimeout(timeout).
		SetAllowedSchemes("http", "https").
		SetAllowedPorts(80, 443).
		Build()

	return &Extractor{
		client:     safeurl.Client(cfg).Client,
		sanitizer:  bluemonday.UGCPolicy(),
		summarizer: NewSummarizer(),
	}
}

// NewWithClient creates an extractor with a caller-supplied HTTP client.
// Used by tests against local servers.
func NewWithClient(client *http.Client) *Extractor {
	return &Extractor{
		client:     client,
		sanitizer:  bluemonday.UGCPolicy(),
		summarizer: NewSummarizer(),
	}
}

// Extract downloads and parses the article at rawURL. Returns nil when the
// page cannot be fetched or parsed, or when the extracted content fails
// the quality gate. Never returns an error to the caller.
func (e *Extractor) Extract(ctx context.Context, rawURL string) *Document {
	log.Printf("Fetching article: %s", rawURL)

	pageURL, err := url.Parse(rawURL)
	if err != nil {
		log.Printf("Failed to parse article URL %s: %v", rawURL, err)
		return nil
	}

	body, err := e.download(ctx, rawURL)
	if err != nil {
		log.Printf("Failed to download article %s: %v", rawURL, err)
		return nil
	}

	article, err := readability.FromReader(bytes.NewReader(body), pageURL)
	if err != nil {
		log.Printf("Failed to parse article %s: %v", rawURL, err)
		return nil
	}

	if !passesQualityGate(article.Content) {
		log.Printf("Skipping article: content HTML too short: %s", rawURL)
		return nil
	}

	doc := &Document{
		Title:       article.Title,
		ContentHTML: e.sanitizer.Sanitize(article.Content),
		ContentText: article.TextContent,
		TopImage:    article.Image,
		URL:         rawURL,
	}
	if article.PublishedTime != nil {
		doc.PublishedAt = article.PublishedTime.Format(time.RFC3339)
	}

	// Summary generation is best-effort and never fatal
	doc.Summary = e.summarizer.Summarize(article.TextContent)

	log.Printf("Parsed article: %q (%d chars)", article.Title, len(article.TextContent))
	return doc
}

func (e *Extractor) download(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}

	return body, nil
}
