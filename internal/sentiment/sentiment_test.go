package sentiment

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"news_digest/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func chatServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func replyWith(content string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": content}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}
}

func newOpenRouter(baseURL string) *OpenRouter {
	return NewOpenRouter(Config{
		BaseURL:   baseURL,
		Model:     "google/gemini-2.5-flash-lite",
		APIKey:    "test-key",
		MaxTokens: 200,
		Timeout:   5 * time.Second,
	}, testLogger())
}

func TestOpenRouterParsesStrictJSON(t *testing.T) {
	srv := chatServer(t, replyWith(`{"sentiment": "positive", "score": 0.8, "explanation": "good news"}`))

	a := newOpenRouter(srv.URL)
	result := a.Analyze(context.Background(), "Breakthrough announced", "Everyone is happy")

	assert.Equal(t, domain.SentimentPositive, result.Sentiment)
	assert.InDelta(t, 0.8, result.Score, 0.001)
	assert.Equal(t, "good news", result.Explanation)
}

func TestOpenRouterExtractsJSONFromProse(t *testing.T) {
	srv := chatServer(t, replyWith(
		"Sure! Here is the analysis:\n"+
			`{"sentiment": "negative", "score": -0.6, "explanation": "grim"}`+
			"\nLet me know if you need anything else.",
	))

	a := newOpenRouter(srv.URL)
	result := a.Analyze(context.Background(), "Market crash", "")

	assert.Equal(t, domain.SentimentNegative, result.Sentiment)
	assert.InDelta(t, -0.6, result.Score, 0.001)
}

func TestOpenRouterNoJSONInReply(t *testing.T) {
	srv := chatServer(t, replyWith("The sentiment is clearly positive."))

	a := newOpenRouter(srv.URL)
	result := a.Analyze(context.Background(), "Title", "Summary")

	assert.Equal(t, domain.NeutralSentiment(), result)
}

func TestOpenRouterMalformedJSON(t *testing.T) {
	srv := chatServer(t, replyWith(`{"sentiment": positive}`))

	a := newOpenRouter(srv.URL)
	result := a.Analyze(context.Background(), "Title", "Summary")

	assert.Equal(t, domain.NeutralSentiment(), result)
}

func TestOpenRouterNon200(t *testing.T) {
	srv := chatServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	a := newOpenRouter(srv.URL)
	result := a.Analyze(context.Background(), "Title", "Summary")

	assert.Equal(t, domain.NeutralSentiment(), result)
}

func TestOpenRouterTransportError(t *testing.T) {
	srv := chatServer(t, replyWith("unused"))
	srv.Close() // connection refused from here on

	a := newOpenRouter(srv.URL)
	result := a.Analyze(context.Background(), "Title", "Summary")

	assert.Equal(t, domain.NeutralSentiment(), result)
}

func TestOpenRouterClampsScore(t *testing.T) {
	srv := chatServer(t, replyWith(`{"sentiment": "positive", "score": 3.5, "explanation": "x"}`))

	a := newOpenRouter(srv.URL)
	result := a.Analyze(context.Background(), "Title", "Summary")

	assert.Equal(t, 1.0, result.Score)
}

func TestOpenRouterUnknownSentimentLabel(t *testing.T) {
	srv := chatServer(t, replyWith(`{"sentiment": "ecstatic", "score": 0.9, "explanation": "x"}`))

	a := newOpenRouter(srv.URL)
	result := a.Analyze(context.Background(), "Title", "Summary")

	assert.Equal(t, domain.SentimentNeutral, result.Sentiment)
}

func TestOpenRouterSendsContract(t *testing.T) {
	var got struct {
		Model     string `json:"model"`
		MaxTokens int    `json:"max_tokens"`
		Messages  []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	var auth string

	srv := chatServer(t, func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		replyWith(`{"sentiment": "neutral", "score": 0.0, "explanation": "x"}`)(w, r)
	})

	a := newOpenRouter(srv.URL)
	a.Analyze(context.Background(), "Some title", "Some summary")

	assert.Equal(t, "Bearer test-key", auth)
	assert.Equal(t, "google/gemini-2.5-flash-lite", got.Model)
	assert.Equal(t, 200, got.MaxTokens)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "user", got.Messages[0].Role)
	assert.Contains(t, got.Messages[0].Content, "Some title")
	assert.Contains(t, got.Messages[0].Content, "Some summary")
}

func TestNewWithoutKeyShortCircuitsToNeutral(t *testing.T) {
	calls := 0
	srv := chatServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		replyWith("unused")(w, r)
	})

	a := New(Config{Provider: "openrouter", BaseURL: srv.URL, APIKey: ""}, testLogger())
	result := a.Analyze(context.Background(), "Title", "Summary")

	assert.Equal(t, domain.NeutralSentiment(), result)
	assert.Equal(t, 0, calls, "no network call should be attempted without a credential")
}

func TestNewSelectsProvider(t *testing.T) {
	assert.IsType(t, Neutral{}, New(Config{Provider: "none"}, testLogger()))
	assert.IsType(t, &Lexicon{}, New(Config{Provider: "lexicon"}, testLogger()))
	assert.IsType(t, &OpenRouter{}, New(Config{Provider: "openrouter", APIKey: "k"}, testLogger()))
}

func TestLexicon(t *testing.T) {
	l := NewLexicon()
	ctx := context.Background()

	tests := []struct {
		text string
		want domain.SentimentResult
	}{
		{"A breakthrough success for the team", domain.SentimentResult{Sentiment: domain.SentimentPositive, Score: 0.5}},
		{"Crisis deepens as markets crash", domain.SentimentResult{Sentiment: domain.SentimentNegative, Score: -0.5}},
		{"Quarterly report published", domain.NeutralSentiment()},
		{"Успех и рост экономики", domain.SentimentResult{Sentiment: domain.SentimentPositive, Score: 0.5}},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got := l.Analyze(ctx, tt.text, "")
			assert.Equal(t, tt.want.Sentiment, got.Sentiment, fmt.Sprintf("text: %s", tt.text))
			assert.Equal(t, tt.want.Score, got.Score)
		})
	}
}

func TestNeutralAnalyzer(t *testing.T) {
	assert.Equal(t, domain.NeutralSentiment(), Neutral{}.Analyze(context.Background(), "anything", "at all"))
}
