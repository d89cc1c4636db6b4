package sentiment

import (
	"context"

	"forex-agent/internal/interfaces"
	"forex-agent/internal/types"
)

// Static always returns a fixed mood. Used when sentiment is disabled and in
// tests that exercise the strategy veto.
type Static struct {
	Mood types.Sentiment
}

var _ interfaces.SentimentProvider = Static{}

func (s Static) Sentiment(context.Context, string) (types.Sentiment, error) {
	if s.Mood == "" {
		return types.SentimentNeutral, nil
	}
	return s.Mood, nil
}
