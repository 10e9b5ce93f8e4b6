// Package headlines fetches candidate article references for a Google News
// topic. It is a thin boundary: the pipeline only consumes the entries it
// produces.
package headlines

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/doyensec/safeurl"
	"github.com/mmcdole/gofeed/rss"
)

// Entry is one candidate headline reference from the topic feed
type Entry struct {
	Link       string
	SourceID   string
	SourceName string
}

// Fetcher downloads and parses topic headline feeds
type Fetcher struct {
	client  *http.Client
	baseURL string
	lang    string
	country string
}

// New creates a fetcher with an SSRF-guarded HTTP client
func New(lang, country string, timeout time.Duration) *Fetcher {
	cfg := safeurl.GetConfigBuilder().
		SetTimeout(timeout).
		SetAllowedSchemes("http", "https").
		SetAllowedPorts(80, 443).
		Build()

	return &Fetcher{
		client:  safeurl.Client(cfg).Client,
		baseURL: "https://news.google.com",
		lang:    lang,
		country: country,
	}
}

// NewWithClient creates a fetcher with a caller-supplied client and base
// URL. Used by tests against local servers.
func NewWithClient(client *http.Client, baseURL, lang, country string) *Fetcher {
	return &Fetcher{client: client, baseURL: baseURL, lang: lang, country: country}
}

// FetchTopic downloads the headline feed for a topic ID and parses it
func (f *Fetcher) FetchTopic(ctx context.Context, topicID string) (*rss.Feed, error) {
	feedURL := fmt.Sprintf("%s/rss/topics/%s?hl=%s&gl=%s&ceid=%s:%s",
		f.baseURL, topicID, f.lang, f.country, f.country, f.lang)

	log.Printf("Fetching topic headlines: %s", topicID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build headline request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch topic headlines: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("headline feed returned status %d", resp.StatusCode)
	}

	parser := &rss.Parser{}
	feed, err := parser.Parse(io.LimitReader(resp.Body, maxFeedBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to parse topic feed: %w", err)
	}

	return feed, nil
}

// Entries maps feed items to pipeline entries. A missing or partial
// <source> element degrades to empty attribution, never an error.
func Entries(feed *rss.Feed) []Entry {
	entries := make([]Entry, 0, len(feed.Items))
	for _, item := range feed.Items {
		entry := Entry{Link: item.Link}
		if item.Source != nil {
			entry.SourceID = item.Source.URL
			entry.SourceName = item.Source.Title
		}
		entries = append(entries, entry)
	}
	return entries
}

// DumpJSON writes the raw parsed feed to <dir>/<title>.json as indented
// UTF-8 JSON. The file is an audit artifact and is not read back.
func DumpJSON(feed *rss.Feed, dir, title string) (string, error) {
	data, err := json.MarshalIndent(feed, "", "    ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal feed: %w", err)
	}

	path := filepath.Join(dir, title+".json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}

	return path, nil
}

// maxFeedBytes bounds how much of the feed response is read
const maxFeedBytes = 10 << 20
