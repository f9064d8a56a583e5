package collab

import (
	"context"
	"strings"

	"github.com/uppa/uppa_core/internal/models"
)

// LexiconClassifier is a deterministic keyword-based sentiment
// classifier for Spanish transit chatter. It scores a text by counting
// lexicon hits and lets the dominant polarity win; a tie or no hit at
// all is neutral.
type LexiconClassifier struct {
	positive []string
	negative []string
}

// NewLexiconClassifier returns a classifier with the built-in lexicon
func NewLexiconClassifier() *LexiconClassifier {
	return &LexiconClassifier{
		positive: []string{
			"bien", "bueno", "buena", "excelente", "rápido", "rapido",
			"puntual", "limpio", "amable", "gracias", "genial",
			"perfecto", "cómodo", "comodo", "seguro", "recomiendo",
		},
		negative: []string{
			"mal", "malo", "mala", "demora", "demorado", "tarde",
			"lento", "sucio", "roto", "lleno", "peligroso", "accidente",
			"robo", "espera", "nunca", "pésimo", "pesimo", "horrible",
		},
	}
}

// Classify never fails; the error return satisfies the Classifier
// contract for implementations that do remote calls.
func (c *LexiconClassifier) Classify(_ context.Context, text string) (models.Sentiment, error) {
	lower := strings.ToLower(text)

	score := 0
	for _, w := range c.positive {
		if strings.Contains(lower, w) {
			score++
		}
	}
	for _, w := range c.negative {
		if strings.Contains(lower, w) {
			score--
		}
	}

	switch {
	case score > 0:
		return models.SentimentPositive, nil
	case score < 0:
		return models.SentimentNegative, nil
	default:
		return models.SentimentNeutral, nil
	}
}
