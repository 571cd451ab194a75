package sentiment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"regexp"

	"news_digest/internal/domain"
)

const sentimentPrompt = `Analyze the sentiment of this news article.
Title: %s
Summary: %s

Respond ONLY in JSON format:
{
    "sentiment": "positive" | "negative" | "neutral",
    "score": -1.0 to 1.0,
    "explanation": "brief reason"
}`

// The model is asked for bare JSON but often wraps it in prose or code
// fences; take the first object-looking span and try that.
var jsonObjectPattern = regexp.MustCompile(`\{[^{}]*\}`)

// OpenRouter scores entries through the OpenRouter chat completions API.
type OpenRouter struct {
	baseURL    string
	model      string
	apiKey     string
	maxTokens  int
	httpClient *http.Client
	logger     *slog.Logger
}

func NewOpenRouter(cfg Config, logger *slog.Logger) *OpenRouter {
	return &OpenRouter{
		baseURL:   cfg.BaseURL,
		model:     cfg.Model,
		apiKey:    cfg.APIKey,
		maxTokens: cfg.MaxTokens,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger.With("analyzer", "openrouter"),
	}
}

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type rawResult struct {
	Sentiment   string  `json:"sentiment"`
	Score       float64 `json:"score"`
	Explanation string  `json:"explanation"`
}

// Analyze sends title and summary to the model and parses the strict JSON
// contract out of the reply. Any failure, from transport to malformed JSON,
// yields the neutral default.
func (a *OpenRouter) Analyze(ctx context.Context, title, summary string) domain.SentimentResult {
	content, err := a.complete(ctx, fmt.Sprintf(sentimentPrompt, title, summary))
	if err != nil {
		a.logger.Error("sentiment analysis failed", "error", err)
		return domain.NeutralSentiment()
	}

	return parseResult(content)
}

func (a *OpenRouter) complete(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model:     a.model,
		Messages:  []chatMessage{{Role: "user", Content: prompt}},
		MaxTokens: a.maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+a.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	var chat chatResponse
	if err := json.Unmarshal(respBody, &chat); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(chat.Choices) == 0 {
		return "", fmt.Errorf("empty choices in response")
	}

	return chat.Choices[0].Message.Content, nil
}

func parseResult(content string) domain.SentimentResult {
	match := jsonObjectPattern.FindString(content)
	if match == "" {
		return domain.NeutralSentiment()
	}

	var raw rawResult
	if err := json.Unmarshal([]byte(match), &raw); err != nil {
		return domain.NeutralSentiment()
	}

	result := domain.SentimentResult{Explanation: raw.Explanation}
	switch domain.Sentiment(raw.Sentiment) {
	case domain.SentimentPositive:
		result.Sentiment = domain.SentimentPositive
	case domain.SentimentNegative:
		result.Sentiment = domain.SentimentNegative
	default:
		result.Sentiment = domain.SentimentNeutral
	}

	result.Score = raw.Score
	if result.Score > 1.0 {
		result.Score = 1.0
	}
	if result.Score < -1.0 {
		result.Score = -1.0
	}

	return result
}
