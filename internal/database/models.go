package database

import "time"

// NewsArticle represents one ingested article in the news table
type NewsArticle struct {
	ID          int64     `db:"id"`
	Title       string    `db:"news_title"`
	ContentHTML string    `db:"news_articlehtml"`
	ContentText string    `db:"news_articletext"`
	TopImage    *string   `db:"news_topimg"`
	PublishedAt string    `db:"news_date"` // always a valid ISO-8601 string
	URL         string    `db:"news_url"`
	Summary     *string   `db:"news_summary"`
	TopicID     string    `db:"news_topicid"`
	SourceID    *string   `db:"news_source_href"`
	SourceName  *string   `db:"news_source_title"`
	SourceLogo  *string   `db:"news_source_logo"`
	CreatedAt   time.Time `db:"created_at"`
}
