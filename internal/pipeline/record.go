package pipeline

import (
	"github.com/khalids/topicwire/internal/database"
	"github.com/khalids/topicwire/internal/extractor"
)

// clearbitLogoBase derives a source logo from the source identifier
const clearbitLogoBase = "https://logo.clearbit.com/"

// buildRecord assembles a persistence-ready article from an extracted
// document, its normalized publish time, and the entry's attribution.
// Pure and deterministic; inputs are validated before this runs.
func buildRecord(doc *extractor.Document, publishedAt, topicID, sourceID, sourceName string) *database.NewsArticle {
	article := &database.NewsArticle{
		Title:       doc.Title,
		ContentHTML: doc.ContentHTML,
		ContentText: doc.ContentText,
		PublishedAt: publishedAt,
		URL:         doc.URL,
		TopicID:     topicID,
	}

	if doc.TopImage != "" {
		topImage := doc.TopImage
		article.TopImage = &topImage
	}
	if doc.Summary != "" {
		summary := doc.Summary
		article.Summary = &summary
	}
	if sourceName != "" {
		name := sourceName
		article.SourceName = &name
	}

	// The logo is present exactly when the source identifier is
	if sourceID != "" {
		id := sourceID
		logo := clearbitLogoBase + sourceID
		article.SourceID = &id
		article.SourceLogo = &logo
	}

	return article
}
