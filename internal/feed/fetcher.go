// Package feed retrieves raw syndication payloads and parses them into
// pipeline entries. Each source is an independent network call: a fetch or
// parse failure means "no entries this cycle" for that source and never
// aborts the collection run (the next hourly cycle is the retry mechanism).
package feed

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"news_digest/internal/domain"
)

const (
	userAgent  = "Mozilla/5.0 (compatible; NewsDigest/1.0)"
	summaryCap = 500
)

// Config holds fetcher tuning.
type Config struct {
	Timeout    time.Duration
	MaxEntries int // per-feed cap on entries considered, newest first
}

// Fetcher retrieves and parses one feed at a time.
type Fetcher struct {
	httpClient *http.Client
	parser     *gofeed.Parser
	maxEntries int
	logger     *slog.Logger

	// now is swappable in tests.
	now func() time.Time
}

func New(cfg Config, logger *slog.Logger) *Fetcher {
	return &Fetcher{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		parser:     gofeed.NewParser(),
		maxEntries: cfg.MaxEntries,
		logger:     logger,
		now:        time.Now,
	}
}

// Fetch downloads the source and returns its fresh entries. Entries older
// than the retention window are discarded here, before they enter the
// pipeline.
func (f *Fetcher) Fetch(ctx context.Context, src domain.FeedSource) ([]domain.Entry, error) {
	raw, err := f.download(ctx, src.URL)
	if err != nil {
		return nil, err
	}

	feed, err := f.parser.ParseString(raw)
	if err != nil {
		return nil, fmt.Errorf("parse feed %s: %w", src.URL, err)
	}

	return f.transform(feed, src), nil
}

func (f *Fetcher) download(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch %s: unexpected status %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", url, err)
	}

	return string(body), nil
}

func (f *Fetcher) transform(feed *gofeed.Feed, src domain.FeedSource) []domain.Entry {
	now := f.now()
	cutoff := now.AddDate(0, 0, -domain.RetentionDays)

	sourceName := feed.Title
	if sourceName == "" {
		sourceName = "Unknown"
	}

	items := feed.Items
	if len(items) > f.maxEntries {
		items = items[:f.maxEntries]
	}

	entries := make([]domain.Entry, 0, len(items))
	for _, item := range items {
		published := now
		if item.PublishedParsed != nil {
			published = *item.PublishedParsed
		} else if item.UpdatedParsed != nil {
			published = *item.UpdatedParsed
		}

		if published.Before(cutoff) {
			f.logger.Debug("skipping stale entry",
				"link", item.Link,
				"published", published,
			)
			continue
		}

		summary := item.Description
		if summary == "" {
			summary = item.Content
		}

		entries = append(entries, domain.Entry{
			Title:          item.Title,
			Link:           item.Link,
			Summary:        truncate(stripHTML(summary), summaryCap),
			SourceName:     sourceName,
			SourceCategory: src.Category,
			Published:      published,
		})
	}

	return entries
}

func stripHTML(s string) string {
	var b strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-3]) + "..."
}
