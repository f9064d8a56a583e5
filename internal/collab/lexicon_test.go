package collab

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/uppa/uppa_core/internal/models"
)

func TestLexiconClassifier(t *testing.T) {
	c := NewLexiconClassifier()
	ctx := context.Background()

	tests := []struct {
		name string
		text string
		want models.Sentiment
	}{
		{"Positive keywords", "El servicio fue excelente, muy puntual", models.SentimentPositive},
		{"Negative keywords", "Una demora horrible, el colectivo nunca llegó", models.SentimentNegative},
		{"No keywords", "El colectivo pasó por la avenida", models.SentimentNeutral},
		{"Mixed keywords cancel out", "Demora larga pero el chofer amable", models.SentimentNeutral},
		{"Case insensitive", "EXCELENTE viaje", models.SentimentPositive},
		{"Empty text", "", models.SentimentNeutral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Classify(ctx, tt.text)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("Deterministic", func(t *testing.T) {
		a, _ := c.Classify(ctx, "buen servicio, gracias")
		b, _ := c.Classify(ctx, "buen servicio, gracias")
		assert.Equal(t, a, b)
	})
}
