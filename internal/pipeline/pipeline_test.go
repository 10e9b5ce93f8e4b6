package pipeline

import (
	"context"
	"strings"
	"testing"

	"github.com/khalids/topicwire/internal/database"
	"github.com/khalids/topicwire/internal/extractor"
	"github.com/khalids/topicwire/internal/headlines"
)

type fakeResolver struct {
	resolved map[string]string // link -> final URL; missing means failure
	calls    []string
}

func (f *fakeResolver) Resolve(ctx context.Context, url string) string {
	f.calls = append(f.calls, url)
	return f.resolved[url]
}

type fakeExtractor struct {
	failFor map[string]bool
	calls   []string
}

func (f *fakeExtractor) Extract(ctx context.Context, url string) *extractor.Document {
	f.calls = append(f.calls, url)
	if f.failFor[url] {
		return nil
	}
	return &extractor.Document{
		Title:       "Article at " + url,
		ContentHTML: strings.Repeat("<p>content</p>", 50),
		ContentText: "content",
		URL:         url,
	}
}

type fakeStore struct {
	outcomes []database.UpsertOutcome // consumed in order
	records  []*database.NewsArticle
}

func (f *fakeStore) UpsertArticle(ctx context.Context, article *database.NewsArticle) database.UpsertOutcome {
	f.records = append(f.records, article)
	if len(f.outcomes) == 0 {
		return database.UpsertSuccess
	}
	outcome := f.outcomes[0]
	f.outcomes = f.outcomes[1:]
	return outcome
}

func entriesFromLinks(links ...string) []headlines.Entry {
	entries := make([]headlines.Entry, 0, len(links))
	for _, link := range links {
		entries = append(entries, headlines.Entry{Link: link})
	}
	return entries
}

func TestRun_EarlyStopAfterFirstSuccess(t *testing.T) {
	// Entries 1 and 2 are duplicates, entry 3 succeeds, entries 4 and 5
	// must never be touched
	store := &fakeStore{outcomes: []database.UpsertOutcome{
		database.UpsertDuplicate,
		database.UpsertDuplicate,
		database.UpsertSuccess,
	}}
	ex := &fakeExtractor{}
	p := New(&fakeResolver{}, ex, store)

	entries := entriesFromLinks("http://a", "http://b", "http://c", "http://d", "http://e")
	count := p.Run(context.Background(), entries, "topic-1", 10)

	if count != 1 {
		t.Errorf("processed count = %d, want 1", count)
	}
	if len(ex.calls) != 3 {
		t.Errorf("extractor called %d times, want 3 (entries past the first success must not be touched)", len(ex.calls))
	}
	if len(store.records) != 3 {
		t.Errorf("store called %d times, want 3", len(store.records))
	}
}

func TestRun_EmptyLinkAndExtractionFailure_ReturnsZero(t *testing.T) {
	ex := &fakeExtractor{failFor: map[string]bool{"http://a": true}}
	store := &fakeStore{}
	p := New(&fakeResolver{}, ex, store)

	entries := []headlines.Entry{{Link: ""}, {Link: "http://a"}}
	count := p.Run(context.Background(), entries, "topic-1", 10)

	if count != 0 {
		t.Errorf("processed count = %d, want 0", count)
	}
	if len(store.records) != 0 {
		t.Errorf("store called %d times, want 0", len(store.records))
	}
	if len(ex.calls) != 1 || ex.calls[0] != "http://a" {
		t.Errorf("extractor calls = %v, want just http://a", ex.calls)
	}
}

func TestRun_ResolverFailure_FallsBackToOriginalLink(t *testing.T) {
	ex := &fakeExtractor{}
	p := New(&fakeResolver{}, ex, &fakeStore{}) // resolver always fails

	count := p.Run(context.Background(), entriesFromLinks("http://original"), "topic-1", 10)

	if count != 1 {
		t.Errorf("processed count = %d, want 1", count)
	}
	if len(ex.calls) != 1 || ex.calls[0] != "http://original" {
		t.Errorf("extraction should use the original link on resolution failure, got %v", ex.calls)
	}
}

func TestRun_ResolvedURLIsUsedForExtraction(t *testing.T) {
	resolver := &fakeResolver{resolved: map[string]string{"http://wrapped": "http://real"}}
	ex := &fakeExtractor{}
	p := New(resolver, ex, &fakeStore{})

	p.Run(context.Background(), entriesFromLinks("http://wrapped"), "topic-1", 10)

	if len(ex.calls) != 1 || ex.calls[0] != "http://real" {
		t.Errorf("extractor calls = %v, want the resolved URL", ex.calls)
	}
}

func TestRun_LimitTruncatesEntries(t *testing.T) {
	// Every upsert fails, so without the limit all entries would be tried
	store := &fakeStore{outcomes: []database.UpsertOutcome{
		database.UpsertFailed, database.UpsertFailed, database.UpsertFailed,
	}}
	ex := &fakeExtractor{}
	p := New(&fakeResolver{}, ex, store)

	entries := entriesFromLinks("http://a", "http://b", "http://c")
	count := p.Run(context.Background(), entries, "topic-1", 2)

	if count != 0 {
		t.Errorf("processed count = %d, want 0", count)
	}
	if len(ex.calls) != 2 {
		t.Errorf("extractor called %d times, want 2 (limit)", len(ex.calls))
	}
}

func TestRun_NegativeLimit_ProcessesNothing(t *testing.T) {
	ex := &fakeExtractor{}
	p := New(&fakeResolver{}, ex, &fakeStore{})

	count := p.Run(context.Background(), entriesFromLinks("http://a"), "topic-1", -1)

	if count != 0 {
		t.Errorf("processed count = %d, want 0", count)
	}
	if len(ex.calls) != 0 {
		t.Errorf("extractor called %d times, want 0", len(ex.calls))
	}
}

func TestRun_StoreFailureSkipsAndContinues(t *testing.T) {
	store := &fakeStore{outcomes: []database.UpsertOutcome{
		database.UpsertFailed,
		database.UpsertSuccess,
	}}
	p := New(&fakeResolver{}, &fakeExtractor{}, store)

	count := p.Run(context.Background(), entriesFromLinks("http://a", "http://b"), "topic-1", 10)

	if count != 1 {
		t.Errorf("processed count = %d, want 1", count)
	}

	snapshot := p.Stats().GetCurrent()
	if snapshot.Failures != 1 {
		t.Errorf("Failures = %d, want 1", snapshot.Failures)
	}
	if snapshot.Processed != 1 {
		t.Errorf("Processed = %d, want 1", snapshot.Processed)
	}
	if snapshot.Active {
		t.Error("run should be inactive after completion")
	}
}

func TestRun_RecordCarriesAttributionAndTopic(t *testing.T) {
	store := &fakeStore{}
	p := New(&fakeResolver{}, &fakeExtractor{}, store)

	entries := []headlines.Entry{{
		Link:       "http://a",
		SourceID:   "https://example.com",
		SourceName: "Example News",
	}}
	p.Run(context.Background(), entries, "topic-9", 10)

	if len(store.records) != 1 {
		t.Fatalf("store called %d times, want 1", len(store.records))
	}
	record := store.records[0]
	if record.TopicID != "topic-9" {
		t.Errorf("TopicID = %q, want %q", record.TopicID, "topic-9")
	}
	if record.SourceID == nil || *record.SourceID != "https://example.com" {
		t.Errorf("SourceID = %v", record.SourceID)
	}
	if record.SourceLogo == nil {
		t.Error("expected SourceLogo to be derived from SourceID")
	}
	if record.PublishedAt == "" {
		t.Error("PublishedAt must never be empty")
	}
}
