// Package pipeline drives the ingestion flow for one topic run: resolve
// each headline reference, extract the article, normalize its metadata,
// and persist it once.
package pipeline

import (
	"context"
	"log"
	"time"

	"github.com/khalids/topicwire/internal/database"
	"github.com/khalids/topicwire/internal/extractor"
	"github.com/khalids/topicwire/internal/headlines"
)

// Resolver follows redirects to an article's true address. Implementations
// return "" on failure; the pipeline falls back to the original link.
type Resolver interface {
	Resolve(ctx context.Context, url string) string
}

// Extractor downloads and parses an article page, returning nil on any
// failure including the quality gate.
type Extractor interface {
	Extract(ctx context.Context, url string) *extractor.Document
}

// Store persists article records, classifying every attempt instead of
// returning errors.
type Store interface {
	UpsertArticle(ctx context.Context, article *database.NewsArticle) database.UpsertOutcome
}

// Pipeline processes headline entries strictly one at a time
type Pipeline struct {
	resolver  Resolver
	extractor Extractor
	store     Store
	stats     *RunStats
	now       func() time.Time
}

// New creates a pipeline over the given collaborators
func New(resolver Resolver, extractor Extractor, store Store) *Pipeline {
	return &Pipeline{
		resolver:  resolver,
		extractor: extractor,
		store:     store,
		stats:     NewRunStats(),
		now:       time.Now,
	}
}

// Stats exposes the run tracker for status reporting
func (p *Pipeline) Stats() *RunStats {
	return p.stats
}

// Run processes up to limit entries in source order and returns how many
// were persisted. The run stops at the first successful persistence: the
// goal of a topic run is to secure one fresh article, not to drain the
// feed. Duplicate and failed persistence both skip the entry and continue.
func (p *Pipeline) Run(ctx context.Context, entries []headlines.Entry, topicID string, limit int) int {
	if limit < 0 {
		limit = 0
	}
	if len(entries) > limit {
		entries = entries[:limit]
	}

	p.stats.Begin(topicID, len(entries))
	defer p.stats.Finish()

	processed := 0
	for i, entry := range entries {
		log.Printf("Processing entry %d/%d", i+1, len(entries))
		p.stats.SetStage(i+1, StagePending)

		if entry.Link == "" {
			log.Printf("Skipping entry: no link")
			p.stats.RecordSkip()
			continue
		}

		finalURL := p.resolver.Resolve(ctx, entry.Link)
		if finalURL == "" {
			// Resolution failure degrades to the original link
			finalURL = entry.Link
		}
		p.stats.SetStage(i+1, StageResolved)

		doc := p.extractor.Extract(ctx, finalURL)
		if doc == nil {
			log.Printf("Skipped: could not retrieve full article")
			p.stats.RecordSkip()
			continue
		}
		p.stats.SetStage(i+1, StageExtracted)

		publishedAt := normalizePublishTime(doc.PublishedAt, p.now)
		record := buildRecord(doc, publishedAt, topicID, entry.SourceID, entry.SourceName)
		p.stats.SetStage(i+1, StageBuilt)

		switch p.store.UpsertArticle(ctx, record) {
		case database.UpsertSuccess:
			processed++
			p.stats.RecordSuccess()
			log.Printf("Successfully upserted first article, stopping early")
			return processed
		case database.UpsertDuplicate:
			p.stats.RecordDuplicate()
		default:
			p.stats.RecordFailure()
		}
	}

	return processed
}
