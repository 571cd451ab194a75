package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"news_digest/internal/domain"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, `
database:
  host: localhost
  port: 5432
  user: digest
  password: secret
  dbname: news
  sslmode: disable
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "0 * * * *", cfg.Collect.Cron)
	assert.Equal(t, "* * * * *", cfg.Digest.Cron)
	assert.Equal(t, 10, cfg.Collect.MaxEntriesPerFeed)
	assert.Equal(t, 10, cfg.Collect.SentimentLimit)
	assert.Equal(t, 500*time.Millisecond, cfg.Collect.SaveDelay)
	assert.Equal(t, 30*time.Second, cfg.Collect.FetchTimeout)
	assert.Equal(t, 10, cfg.Digest.Limit)
	assert.Equal(t, "google/gemini-2.5-flash-lite", cfg.Sentiment.Model)
	assert.Equal(t, "https://openrouter.ai/api/v1/chat/completions", cfg.Sentiment.BaseURL)
	assert.Equal(t, 200, cfg.Sentiment.MaxTokens)
	assert.Equal(t, 10*time.Second, cfg.Sentiment.Timeout)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.NotEmpty(t, cfg.Feeds)

	interests, err := cfg.DefaultInterests()
	require.NoError(t, err)
	assert.Equal(t, []domain.Category{domain.CategoryTech, domain.CategoryWorld, domain.CategoryKyrgyzstan}, interests)
}

func TestLoadExpandsEnv(t *testing.T) {
	t.Setenv("TEST_DB_PASSWORD", "s3cret")

	path := writeConfig(t, `
database:
  host: localhost
  port: 5432
  user: digest
  password: ${TEST_DB_PASSWORD}
  dbname: news
  sslmode: disable
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "s3cret", cfg.Database.Password)
	assert.Contains(t, cfg.Database.DSN(), "password=s3cret")
}

func TestLoadAPIKeyFromEnv(t *testing.T) {
	t.Setenv("OPENROUTER_API_KEY", "sk-test")

	path := writeConfig(t, "database:\n  host: localhost\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "sk-test", cfg.Sentiment.APIKey)
}

func TestSourcesFlattensGroupsInOrder(t *testing.T) {
	path := writeConfig(t, `
feeds:
  - category: space
    urls:
      - https://example.com/space-a
      - https://example.com/space-b
  - category: tech
    urls:
      - https://example.com/tech
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	sources, err := cfg.Sources()
	require.NoError(t, err)
	require.Len(t, sources, 3)
	assert.Equal(t, domain.FeedSource{URL: "https://example.com/space-a", Category: domain.CategorySpace}, sources[0])
	assert.Equal(t, domain.FeedSource{URL: "https://example.com/space-b", Category: domain.CategorySpace}, sources[1])
	assert.Equal(t, domain.FeedSource{URL: "https://example.com/tech", Category: domain.CategoryTech}, sources[2])
}

func TestLoadRejectsUnknownFeedCategory(t *testing.T) {
	path := writeConfig(t, `
feeds:
  - category: politics
    urls:
      - https://example.com/politics
`)

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadRejectsUnknownDefaultInterest(t *testing.T) {
	path := writeConfig(t, `
digest:
  default_interests: [tech, gossip]
`)

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadMalformedYAML(t *testing.T) {
	path := writeConfig(t, "feeds: [unclosed")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestDefaultFeedsAreValid(t *testing.T) {
	cfg := &Config{}
	cfg.setDefaults()

	sources, err := cfg.Sources()
	require.NoError(t, err)
	assert.NotEmpty(t, sources)
}
