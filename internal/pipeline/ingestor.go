package pipeline

import (
	"context"
	"fmt"
	"log"

	"github.com/khalids/topicwire/internal/headlines"
)

// Ingestor ties the headline source to the pipeline for one topic
type Ingestor struct {
	fetcher    *headlines.Fetcher
	pipeline   *Pipeline
	topicID    string
	topicTitle string
	limit      int
	dumpDir    string
}

// NewIngestor creates an ingestor for a configured topic
func NewIngestor(fetcher *headlines.Fetcher, pipeline *Pipeline, topicID, topicTitle string, limit int, dumpDir string) *Ingestor {
	return &Ingestor{
		fetcher:    fetcher,
		pipeline:   pipeline,
		topicID:    topicID,
		topicTitle: topicTitle,
		limit:      limit,
		dumpDir:    dumpDir,
	}
}

// Stats exposes the pipeline's run tracker
func (in *Ingestor) Stats() *RunStats {
	return in.pipeline.Stats()
}

// IngestTopic fetches the topic's headlines, dumps the raw payload for
// auditing, and runs the pipeline once. A headline source failure is the
// only error path: everything downstream degrades per entry instead.
func (in *Ingestor) IngestTopic(ctx context.Context) (int, error) {
	feed, err := in.fetcher.FetchTopic(ctx, in.topicID)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch topic headlines: %w", err)
	}

	path, err := headlines.DumpJSON(feed, in.dumpDir, in.topicTitle)
	if err != nil {
		return 0, fmt.Errorf("failed to save raw headlines: %w", err)
	}
	log.Printf("Saved raw headlines JSON to: %s", path)

	entries := headlines.Entries(feed)
	log.Printf("Extracted %d entries from topic feed", len(entries))

	return in.pipeline.Run(ctx, entries, in.topicID, in.limit), nil
}
