package service

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"news_digest/internal/domain"
)

// FeedFetcher retrieves fresh entries from one configured source.
type FeedFetcher interface {
	Fetch(ctx context.Context, src domain.FeedSource) ([]domain.Entry, error)
}

// Analyzer scores one entry. It never fails: internal errors collapse to
// the neutral default.
type Analyzer interface {
	Analyze(ctx context.Context, title, summary string) domain.SentimentResult
}

// ArticleStore is the persistence gateway for articles. Save is idempotent
// on link; the read queries enforce the retention window.
type ArticleStore interface {
	Save(ctx context.Context, article *domain.Article) (bool, error)
	GetByCategories(ctx context.Context, categories []domain.Category, limit int) ([]domain.Article, error)
	GetLatest(ctx context.Context, limit int) ([]domain.Article, error)
}

// InterestStore manages a user's subscribed categories.
type InterestStore interface {
	Interests(ctx context.Context, userID int64) ([]domain.Category, error)
	Add(ctx context.Context, userID int64, category domain.Category) error
	Remove(ctx context.Context, userID int64, category domain.Category) error
}

// ScheduleStore manages per-user digest schedules.
type ScheduleStore interface {
	Set(ctx context.Context, userID int64, scheduleTime string) error
	Disable(ctx context.Context, userID int64) error
	Get(ctx context.Context, userID int64) (*domain.DigestSchedule, error)
	UsersDue(ctx context.Context, currentTime string) ([]int64, error)
	MarkSent(ctx context.Context, userID int64) error
}

// Messenger hands a digest to the outbound delivery collaborator.
type Messenger interface {
	Send(ctx context.Context, userID int64, text string, format domain.MessageFormat) error
}
