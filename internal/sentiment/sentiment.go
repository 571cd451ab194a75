// Package sentiment scores news entries. The production implementation
// calls a remote language model through OpenRouter; failures of any kind
// collapse to the neutral default and are never propagated to the pipeline.
package sentiment

import (
	"context"
	"log/slog"
	"time"

	"news_digest/internal/domain"
)

// Analyzer scores one entry. Implementations must not fail: any internal
// error yields the neutral default.
type Analyzer interface {
	Analyze(ctx context.Context, title, summary string) domain.SentimentResult
}

// Config selects and tunes the analyzer implementation.
type Config struct {
	Provider  string // openrouter, lexicon or none
	BaseURL   string
	Model     string
	APIKey    string
	MaxTokens int
	Timeout   time.Duration
}

// New picks the analyzer for the given config. A missing API credential
// short-circuits to the neutral analyzer so no network call is ever
// attempted.
func New(cfg Config, logger *slog.Logger) Analyzer {
	switch cfg.Provider {
	case "lexicon":
		return NewLexicon()
	case "none":
		return Neutral{}
	default:
		if cfg.APIKey == "" {
			logger.Warn("sentiment API key not configured, using neutral analyzer")
			return Neutral{}
		}
		return NewOpenRouter(cfg, logger)
	}
}

// Neutral always returns the neutral default. It stands in when no remote
// analyzer is configured and serves as the fallback in tests.
type Neutral struct{}

func (Neutral) Analyze(context.Context, string, string) domain.SentimentResult {
	return domain.NeutralSentiment()
}
