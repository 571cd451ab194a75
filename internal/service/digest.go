package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"news_digest/internal/domain"
)

const (
	emptyDigestMessage = "📰 No news for your interests in the last 3 days."
	emptyLatestMessage = "📰 No fresh news right now."

	digestSummaryCap = 200
)

var categoryEmoji = map[domain.Category]string{
	domain.CategoryTech:       "💻",
	domain.CategoryAI:         "🤖",
	domain.CategoryScience:    "🔬",
	domain.CategorySpace:      "🚀",
	domain.CategoryFinance:    "💰",
	domain.CategoryKyrgyzstan: "🇰🇬",
	domain.CategoryWorld:      "🌍",
	domain.CategorySports:     "⚽",
	domain.CategoryOther:      "📄",
}

var sentimentEmoji = map[domain.Sentiment]string{
	domain.SentimentPositive: "😊",
	domain.SentimentNegative: "😟",
	domain.SentimentNeutral:  "😐",
}

// DigestService assembles personalized digests and drives their delivery.
type DigestService struct {
	articles         ArticleStore
	interests        InterestStore
	schedules        ScheduleStore
	messenger        Messenger
	defaultInterests []domain.Category
	limit            int
	logger           *slog.Logger
}

func NewDigestService(
	articles ArticleStore,
	interests InterestStore,
	schedules ScheduleStore,
	messenger Messenger,
	defaultInterests []domain.Category,
	limit int,
	logger *slog.Logger,
) *DigestService {
	return &DigestService{
		articles:         articles,
		interests:        interests,
		schedules:        schedules,
		messenger:        messenger,
		defaultInterests: defaultInterests,
		limit:            limit,
		logger:           logger.With("component", "digest"),
	}
}

// Generate formats a digest of stored articles matching the given
// categories, newest first. An empty category set or an empty result yields
// the fixed empty-digest message.
func (s *DigestService) Generate(ctx context.Context, categories []domain.Category, limit int) (string, error) {
	if len(categories) == 0 {
		return emptyDigestMessage, nil
	}

	articles, err := s.articles.GetByCategories(ctx, categories, limit)
	if err != nil {
		return "", fmt.Errorf("get articles: %w", err)
	}
	if len(articles) == 0 {
		return emptyDigestMessage, nil
	}

	var b strings.Builder
	b.WriteString("📰 <b>Your personal digest</b>\n")
	writeArticles(&b, articles)
	return b.String(), nil
}

// LatestNews formats the freshest stored articles regardless of category,
// for the non-personalized "show news" path.
func (s *DigestService) LatestNews(ctx context.Context, limit int) (string, error) {
	articles, err := s.articles.GetLatest(ctx, limit)
	if err != nil {
		return "", fmt.Errorf("get latest articles: %w", err)
	}
	if len(articles) == 0 {
		return emptyLatestMessage, nil
	}

	var b strings.Builder
	b.WriteString("📰 <b>Latest news</b>\n")
	writeArticles(&b, articles)
	return b.String(), nil
}

func writeArticles(b *strings.Builder, articles []domain.Article) {
	for _, a := range articles {
		fmt.Fprintf(b, "\n%s <b>%s</b> %s\n", categoryEmoji[a.Category], a.Title, sentimentEmoji[a.Sentiment])
		fmt.Fprintf(b, "📂 %s | 📅 %s\n", strings.ToUpper(string(a.Category)), a.Published.Format("2006-01-02"))
		fmt.Fprintf(b, "📝 %s\n", truncate(a.Summary, digestSummaryCap))
		fmt.Fprintf(b, "🔗 <a href='%s'>Read more</a>\n", a.Link)
	}
}

// DeliverDue sends digests to every user whose schedule matches the given
// instant. A failure for one user is logged and never blocks the others.
func (s *DigestService) DeliverDue(ctx context.Context, now time.Time) {
	currentTime := now.Format("15:04")

	users, err := s.schedules.UsersDue(ctx, currentTime)
	if err != nil {
		s.logger.Error("failed to query users due for digest", "error", err)
		return
	}

	for _, userID := range users {
		if err := s.deliverTo(ctx, userID); err != nil {
			s.logger.Error("digest delivery failed", "user_id", userID, "error", err)
			continue
		}
		s.logger.Info("digest sent", "user_id", userID)
	}
}

func (s *DigestService) deliverTo(ctx context.Context, userID int64) error {
	categories, err := s.interests.Interests(ctx, userID)
	if err != nil {
		return fmt.Errorf("get interests: %w", err)
	}
	if len(categories) == 0 {
		categories = s.defaultInterests
	}

	text, err := s.Generate(ctx, categories, s.limit)
	if err != nil {
		return fmt.Errorf("generate digest: %w", err)
	}

	if err := s.messenger.Send(ctx, userID, text, domain.FormatHTML); err != nil {
		return fmt.Errorf("send digest: %w", err)
	}

	if err := s.schedules.MarkSent(ctx, userID); err != nil {
		return fmt.Errorf("mark digest sent: %w", err)
	}

	return nil
}

// SendNow sends a digest immediately, skipping the schedule eligibility
// check and leaving last_sent untouched. The returned string is shown to
// the requesting user as-is.
func (s *DigestService) SendNow(ctx context.Context, userID int64) string {
	categories, err := s.interests.Interests(ctx, userID)
	if err != nil {
		s.logger.Error("failed to get interests", "user_id", userID, "error", err)
		return "❌ Failed to send digest, try again later."
	}
	if len(categories) == 0 {
		return "❌ You have no interests configured. Add some first."
	}

	text, err := s.Generate(ctx, categories, s.limit)
	if err != nil {
		s.logger.Error("failed to generate digest", "user_id", userID, "error", err)
		return "❌ Failed to send digest, try again later."
	}

	if err := s.messenger.Send(ctx, userID, text, domain.FormatHTML); err != nil {
		s.logger.Error("failed to send digest", "user_id", userID, "error", err)
		return "❌ Failed to send digest, try again later."
	}

	return "✅ Digest sent!"
}

// SetSchedule enables automatic delivery at the given HH:MM time.
func (s *DigestService) SetSchedule(ctx context.Context, userID int64, scheduleTime string) error {
	if err := domain.ValidateScheduleTime(scheduleTime); err != nil {
		return err
	}
	return s.schedules.Set(ctx, userID, scheduleTime)
}

// DisableSchedule turns automatic delivery off.
func (s *DigestService) DisableSchedule(ctx context.Context, userID int64) error {
	return s.schedules.Disable(ctx, userID)
}

// Schedule returns the user's digest schedule, or nil if none exists.
func (s *DigestService) Schedule(ctx context.Context, userID int64) (*domain.DigestSchedule, error) {
	return s.schedules.Get(ctx, userID)
}

// AddInterest subscribes the user to a category.
func (s *DigestService) AddInterest(ctx context.Context, userID int64, category string) error {
	parsed, err := domain.ParseCategory(category)
	if err != nil {
		return err
	}
	return s.interests.Add(ctx, userID, parsed)
}

// RemoveInterest unsubscribes the user from a category.
func (s *DigestService) RemoveInterest(ctx context.Context, userID int64, category string) error {
	parsed, err := domain.ParseCategory(category)
	if err != nil {
		return err
	}
	return s.interests.Remove(ctx, userID, parsed)
}

// Interests returns the user's subscribed categories.
func (s *DigestService) Interests(ctx context.Context, userID int64) ([]domain.Category, error) {
	return s.interests.Interests(ctx, userID)
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-3]) + "..."
}
