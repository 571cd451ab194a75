// Package classify assigns a topic category to an entry by counting
// case-insensitive keyword hits in its title and summary. It is a pure
// function over a fixed multi-language table.
package classify

import (
	"strings"

	"news_digest/internal/domain"
)

// Tie-break order: the first category reaching the maximum score wins.
var categoryOrder = []domain.Category{
	domain.CategoryTech,
	domain.CategoryAI,
	domain.CategoryScience,
	domain.CategorySpace,
	domain.CategoryFinance,
	domain.CategoryKyrgyzstan,
	domain.CategoryWorld,
	domain.CategorySports,
}

var categoryKeywords = map[domain.Category][]string{
	domain.CategoryTech: {
		"технолог", "technology", "software", "hardware", "app", "программ", "ai", "кибер",
	},
	domain.CategoryAI: {
		"искусственный интеллект", "machine learning", "deep learning", "neural",
		"нейросет", "chatgpt", "llm", "модель",
	},
	domain.CategoryScience: {
		"наука", "science", "research", "исследован", "discovery",
	},
	domain.CategorySpace: {
		"космос", "space", "spacex", "nasa", "rocket", "ракет", "марс", "mars",
	},
	domain.CategoryFinance: {
		"финанс", "finance", "crypto", "bitcoin", "экономик", "market", "биржа",
		"bank", "rate", "банк",
	},
	domain.CategoryKyrgyzstan: {
		"кыргызстан", "бишкек", "кыргыз", "kg",
	},
	domain.CategoryWorld: {
		"мир", "world", "политик", "politic", "war", "война",
	},
	domain.CategorySports: {
		"спорт", "football", "soccer", "nba", "olympic",
	},
}

// Classify scores the concatenated title+summary text against every
// category's keyword set. The highest count wins; ties resolve in table
// order; zero hits across the board yields CategoryOther.
func Classify(title, summary string) domain.Category {
	text := strings.ToLower(title + " " + summary)

	best := domain.CategoryOther
	bestScore := 0
	for _, category := range categoryOrder {
		score := 0
		for _, keyword := range categoryKeywords[category] {
			if strings.Contains(text, keyword) {
				score++
			}
		}
		if score > bestScore {
			bestScore = score
			best = category
		}
	}

	return best
}
