package sentiment

import (
	"context"
	"strings"

	"news_digest/internal/domain"
)

// Lexicon is an offline analyzer that counts positive and negative words.
// It trades accuracy for zero cost and zero latency, and is selectable via
// the sentiment.provider config.
type Lexicon struct {
	positive []string
	negative []string
}

func NewLexicon() *Lexicon {
	return &Lexicon{
		positive: []string{
			"отлично", "хорошо", "успех", "рост", "победа",
			"breakthrough", "success", "growth", "win",
		},
		negative: []string{
			"плохо", "кризис", "падение", "смерть", "война",
			"crisis", "crash", "death", "war", "fail",
		},
	}
}

func (l *Lexicon) Analyze(_ context.Context, title, summary string) domain.SentimentResult {
	text := strings.ToLower(title + " " + summary)

	var positives, negatives int
	for _, word := range l.positive {
		if strings.Contains(text, word) {
			positives++
		}
	}
	for _, word := range l.negative {
		if strings.Contains(text, word) {
			negatives++
		}
	}

	switch {
	case positives > negatives:
		return domain.SentimentResult{Sentiment: domain.SentimentPositive, Score: 0.5}
	case negatives > positives:
		return domain.SentimentResult{Sentiment: domain.SentimentNegative, Score: -0.5}
	default:
		return domain.NeutralSentiment()
	}
}
