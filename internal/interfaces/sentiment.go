package interfaces

import (
	"context"

	"forex-agent/internal/types"
)

// SentimentProvider reads the news mood for a symbol. Failures degrade to
// NEUTRAL rather than blocking the pipeline.
type SentimentProvider interface {
	Sentiment(ctx context.Context, symbol string) (types.Sentiment, error)
}
