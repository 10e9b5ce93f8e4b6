package database

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// UpsertOutcome classifies the result of persisting one article
type UpsertOutcome int

const (
	UpsertSuccess UpsertOutcome = iota
	UpsertDuplicate
	UpsertFailed
)

// uniqueViolationCode is the Postgres error code for a unique constraint
// violation. The message substring is kept as a fallback for stores that
// surface the violation without a structured code.
const uniqueViolationCode = "23505"

// UpsertArticle persists an article into the news table. A unique
// constraint violation is reported as UpsertDuplicate, any other error as
// UpsertFailed; neither is escalated to the caller.
func (db *DB) UpsertArticle(ctx context.Context, article *NewsArticle) UpsertOutcome {
	query := `
		INSERT INTO news (
			news_title, news_articlehtml, news_articletext, news_topimg,
			news_date, news_url, news_summary, news_topicid,
			news_source_href, news_source_title, news_source_logo
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at
	`

	err := db.pool.QueryRow(ctx, query,
		article.Title,
		article.ContentHTML,
		article.ContentText,
		article.TopImage,
		article.PublishedAt,
		article.URL,
		article.Summary,
		article.TopicID,
		article.SourceID,
		article.SourceName,
		article.SourceLogo,
	).Scan(&article.ID, &article.CreatedAt)

	if err == nil {
		log.Printf("Upserted article into news table: %s", article.URL)
		return UpsertSuccess
	}

	outcome := classifyUpsertError(err)
	switch outcome {
	case UpsertDuplicate:
		log.Printf("Duplicate detected (unique constraint), skipping: %s", article.URL)
	default:
		log.Printf("Upsert failed for %s: %v", article.URL, err)
	}
	return outcome
}

// classifyUpsertError maps a store error to the three-way outcome taxonomy
func classifyUpsertError(err error) UpsertOutcome {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
		return UpsertDuplicate
	}
	if strings.Contains(err.Error(), "duplicate key value") {
		return UpsertDuplicate
	}
	return UpsertFailed
}

// GetArticleByID retrieves an article by its ID
func (db *DB) GetArticleByID(ctx context.Context, id int64) (*NewsArticle, error) {
	query := `
		SELECT id, news_title, news_articlehtml, news_articletext, news_topimg,
		       news_date, news_url, news_summary, news_topicid,
		       news_source_href, news_source_title, news_source_logo, created_at
		FROM news
		WHERE id = $1
	`

	var article NewsArticle
	err := db.pool.QueryRow(ctx, query, id).Scan(
		&article.ID,
		&article.Title,
		&article.ContentHTML,
		&article.ContentText,
		&article.TopImage,
		&article.PublishedAt,
		&article.URL,
		&article.Summary,
		&article.TopicID,
		&article.SourceID,
		&article.SourceName,
		&article.SourceLogo,
		&article.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("article not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get article: %w", err)
	}

	return &article, nil
}

// GetRecentArticles retrieves the most recently ingested articles
func (db *DB) GetRecentArticles(ctx context.Context, limit int) ([]*NewsArticle, error) {
	query := `
		SELECT id, news_title, news_articlehtml, news_articletext, news_topimg,
		       news_date, news_url, news_summary, news_topicid,
		       news_source_href, news_source_title, news_source_logo, created_at
		FROM news
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := db.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query articles: %w", err)
	}
	defer rows.Close()

	var articles []*NewsArticle
	for rows.Next() {
		var article NewsArticle
		err := rows.Scan(
			&article.ID,
			&article.Title,
			&article.ContentHTML,
			&article.ContentText,
			&article.TopImage,
			&article.PublishedAt,
			&article.URL,
			&article.Summary,
			&article.TopicID,
			&article.SourceID,
			&article.SourceName,
			&article.SourceLogo,
			&article.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan article: %w", err)
		}
		articles = append(articles, &article)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating articles: %w", err)
	}

	return articles, nil
}
