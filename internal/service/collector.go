package service

import (
	"context"
	"log/slog"
	"time"

	"news_digest/internal/classify"
	"news_digest/internal/config"
	"news_digest/internal/domain"
)

// Collector runs one collection cycle: fetch every configured source,
// classify, dedupe across the whole run, score a bounded prefix with the
// analyzer and persist. Per-source and per-article failures are counted
// and logged; a run never aborts on them.
type Collector struct {
	fetcher  FeedFetcher
	analyzer Analyzer
	articles ArticleStore
	sources  []domain.FeedSource
	logger   *slog.Logger
	cfg      config.CollectConfig
}

func NewCollector(
	fetcher FeedFetcher,
	analyzer Analyzer,
	articles ArticleStore,
	sources []domain.FeedSource,
	logger *slog.Logger,
	cfg config.CollectConfig,
) *Collector {
	return &Collector{
		fetcher:  fetcher,
		analyzer: analyzer,
		articles: articles,
		sources:  sources,
		logger:   logger.With("component", "collector"),
		cfg:      cfg,
	}
}

func (c *Collector) Collect(ctx context.Context) (*domain.CollectStats, error) {
	startTime := time.Now()
	stats := &domain.CollectStats{}

	c.logger.Info("starting collection", "sources", len(c.sources))

	var entries []domain.Entry
	for _, src := range c.sources {
		fetched, err := c.fetcher.Fetch(ctx, src)
		if err != nil {
			if ctx.Err() != nil {
				return stats, ctx.Err()
			}
			c.logger.Warn("source failed, skipping this cycle",
				"url", src.URL,
				"error", err,
			)
			stats.SourceErrors++
			continue
		}

		for i := range fetched {
			fetched[i].Category = classify.Classify(fetched[i].Title, fetched[i].Summary)
		}
		entries = append(entries, fetched...)
	}
	stats.Fetched = len(entries)

	// Dedup must complete before any sentiment call so duplicates never
	// cost an API request.
	unique := dedupe(entries)
	stats.Unique = len(unique)

	for i, entry := range unique {
		result := domain.NeutralSentiment()
		if i < c.cfg.SentimentLimit {
			result = c.analyzer.Analyze(ctx, entry.Title, entry.Summary)
		}

		article := &domain.Article{
			Title:          entry.Title,
			Link:           entry.Link,
			Summary:        entry.Summary,
			Category:       entry.Category,
			SourceName:     entry.SourceName,
			SourceCategory: entry.SourceCategory,
			Published:      entry.Published,
			Sentiment:      result.Sentiment,
			SentimentScore: result.Score,
		}

		inserted, err := c.articles.Save(ctx, article)
		switch {
		case err != nil:
			c.logger.Error("failed to save article", "link", entry.Link, "error", err)
			stats.SaveErrors++
		case inserted:
			stats.Saved++
		default:
			stats.Duplicates++
		}

		// Pace the writes so sentiment calls in the same run do not burst
		// the remote API.
		if c.cfg.SaveDelay > 0 && i < len(unique)-1 {
			select {
			case <-ctx.Done():
				return stats, ctx.Err()
			case <-time.After(c.cfg.SaveDelay):
			}
		}
	}

	stats.Duration = time.Since(startTime)

	c.logger.Info("collection completed",
		"fetched", stats.Fetched,
		"unique", stats.Unique,
		"saved", stats.Saved,
		"duplicates", stats.Duplicates,
		"source_errors", stats.SourceErrors,
		"save_errors", stats.SaveErrors,
		"duration", stats.Duration,
	)

	return stats, nil
}

// dedupe keeps the first occurrence of each canonical link in fetch order.
func dedupe(entries []domain.Entry) []domain.Entry {
	seen := make(map[string]struct{}, len(entries))
	unique := make([]domain.Entry, 0, len(entries))
	for _, entry := range entries {
		if _, ok := seen[entry.Link]; ok {
			continue
		}
		seen[entry.Link] = struct{}{}
		unique = append(unique, entry)
	}
	return unique
}
