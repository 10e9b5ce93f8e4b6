package server

import (
	"fmt"
	"time"

	"github.com/gorilla/feeds"
	"github.com/khalids/topicwire/internal/config"
	"github.com/khalids/topicwire/internal/database"
)

// GenerateRSSFeed creates an RSS feed from ingested articles
func GenerateRSSFeed(articles []*database.NewsArticle, cfg *config.Config) (string, error) {
	now := time.Now()

	feed := &feeds.Feed{
		Title:       cfg.FeedTitle,
		Link:        &feeds.Link{Href: cfg.FeedLink},
		Description: cfg.FeedDescription,
		Author:      &feeds.Author{Name: cfg.FeedAuthor},
		Created:     now,
	}

	feed.Items = make([]*feeds.Item, 0, len(articles))
	for _, article := range articles {
		item := &feeds.Item{
			Title: article.Title,
			Link:  &feeds.Link{Href: article.URL},
			Id:    fmt.Sprintf("%s/articles/%d", cfg.FeedLink, article.ID),
		}

		// Prefer the generated summary, fall back to truncated text
		if article.Summary != nil {
			item.Description = *article.Summary
		} else {
			description := article.ContentText
			if len(description) > 500 {
				description = description[:500] + "..."
			}
			item.Description = description
		}

		if article.SourceName != nil {
			item.Author = &feeds.Author{Name: *article.SourceName}
		}

		// PublishedAt is always a valid ISO-8601 string by the time a
		// record is persisted
		if published, err := time.Parse(time.RFC3339, article.PublishedAt); err == nil {
			item.Created = published
		} else {
			item.Created = article.CreatedAt
		}

		feed.Items = append(feed.Items, item)
	}

	rss, err := feed.ToRss()
	if err != nil {
		return "", fmt.Errorf("failed to generate RSS: %w", err)
	}

	return rss, nil
}
