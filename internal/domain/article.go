package domain

import (
	"fmt"
	"time"
)

// Category is one of the fixed topic buckets used for both feed grouping
// and article classification.
type Category string

const (
	CategoryTech       Category = "tech"
	CategoryAI         Category = "ai"
	CategoryScience    Category = "science"
	CategorySpace      Category = "space"
	CategoryFinance    Category = "finance"
	CategoryKyrgyzstan Category = "kyrgyzstan"
	CategoryWorld      Category = "world"
	CategorySports     Category = "sports"
	CategoryOther      Category = "other"
)

// Categories returns the closed category set in declaration order.
func Categories() []Category {
	return []Category{
		CategoryTech,
		CategoryAI,
		CategoryScience,
		CategorySpace,
		CategoryFinance,
		CategoryKyrgyzstan,
		CategoryWorld,
		CategorySports,
		CategoryOther,
	}
}

// ParseCategory validates a user-supplied category string against the
// closed set.
func ParseCategory(s string) (Category, error) {
	for _, c := range Categories() {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", s)
}

// RetentionDays is the lookback window beyond which articles are excluded
// from all read queries. Retention is enforced at query time only; rows are
// never deleted.
const RetentionDays = 3

type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

// SentimentResult is the outcome of analyzing one entry.
type SentimentResult struct {
	Sentiment   Sentiment
	Score       float64 // in [-1.0, 1.0]
	Explanation string
}

// NeutralSentiment is the default assigned when no analysis happens or the
// analyzer fails.
func NeutralSentiment() SentimentResult {
	return SentimentResult{Sentiment: SentimentNeutral, Score: 0.0}
}

// FeedSource is one configured syndication source.
type FeedSource struct {
	URL      string
	Category Category
}

// Entry is one raw item parsed from a feed, before deduplication and storage.
type Entry struct {
	Title          string
	Link           string
	Summary        string
	SourceName     string
	SourceCategory Category
	Category       Category
	Published      time.Time
}

// Article is a persisted, classified, sentiment-scored entry. The link is
// the idempotency key: a second write with the same link is a no-op.
type Article struct {
	ID             int64     `db:"id"`
	Title          string    `db:"title"`
	Link           string    `db:"link"`
	Summary        string    `db:"summary"`
	Category       Category  `db:"category"`
	SourceName     string    `db:"source_name"`
	SourceCategory Category  `db:"source_category"`
	Published      time.Time `db:"published"`
	Sentiment      Sentiment `db:"sentiment"`
	SentimentScore float64   `db:"sentiment_score"`
	CreatedAt      time.Time `db:"created_at"`
}

// MessageFormat is the formatting hint passed to the outbound delivery
// collaborator.
type MessageFormat string

const (
	FormatHTML  MessageFormat = "HTML"
	FormatPlain MessageFormat = "plain"
)
