package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"news_digest/internal/domain"
)

type ArticleStore struct {
	db *sqlx.DB
}

func NewArticleStore(db *sqlx.DB) *ArticleStore {
	return &ArticleStore{db: db}
}

// Save inserts an article, treating a link conflict as "already stored".
// It reports whether a new row was written; an existing row is never
// updated.
func (s *ArticleStore) Save(ctx context.Context, article *domain.Article) (bool, error) {
	query := `
		INSERT INTO news_articles (
			title, link, summary, category, source_name, source_category,
			published, sentiment, sentiment_score
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9
		)
		ON CONFLICT (link) DO NOTHING`

	res, err := s.db.ExecContext(ctx, query,
		article.Title,
		article.Link,
		article.Summary,
		article.Category,
		article.SourceName,
		article.SourceCategory,
		article.Published,
		article.Sentiment,
		article.SentimentScore,
	)
	if err != nil {
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// Rows older than the retention window are invisible to reads but stay
// stored; retention is a query-time filter, not a delete.
const retentionPredicate = `published >= NOW() - INTERVAL '3 days'`

// GetByCategories returns fresh articles in any of the given categories,
// newest first. An empty category set yields an empty result, not all
// articles.
func (s *ArticleStore) GetByCategories(ctx context.Context, categories []domain.Category, limit int) ([]domain.Article, error) {
	if len(categories) == 0 {
		return nil, nil
	}

	cats := make([]string, len(categories))
	for i, c := range categories {
		cats[i] = string(c)
	}

	query := `
		SELECT id, title, link, summary, category, source_name, source_category,
		       published, sentiment, sentiment_score, created_at
		FROM news_articles
		WHERE category = ANY($1) AND ` + retentionPredicate + `
		ORDER BY published DESC
		LIMIT $2`

	var articles []domain.Article
	err := s.db.SelectContext(ctx, &articles, query, pq.Array(cats), limit)
	return articles, err
}

// GetLatest returns the freshest articles regardless of category.
func (s *ArticleStore) GetLatest(ctx context.Context, limit int) ([]domain.Article, error) {
	query := `
		SELECT id, title, link, summary, category, source_name, source_category,
		       published, sentiment, sentiment_score, created_at
		FROM news_articles
		WHERE ` + retentionPredicate + `
		ORDER BY published DESC
		LIMIT $1`

	var articles []domain.Article
	err := s.db.SelectContext(ctx, &articles, query, limit)
	return articles, err
}
