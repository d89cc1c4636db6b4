package sentiment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"forex-agent/internal/types"
)

func TestAnalyzerScore(t *testing.T) {
	t.Parallel()
	var a Analyzer

	headlines := []Headline{
		{Title: "Dollar rallies on hawkish Fed minutes"},
		{Title: "USD/JPY surges past resistance"},
		{Title: "Yen weakens as BoJ holds"},
		{Title: "Weekly FX calendar preview"}, // unscored
	}

	score, bullish, bearish := a.Score(headlines)
	assert.Equal(t, 3, bullish)
	assert.Equal(t, 0, bearish)
	assert.InDelta(t, 1.0, score, 1e-9)
}

func TestAnalyzerScoreMixed(t *testing.T) {
	t.Parallel()
	var a Analyzer

	headlines := []Headline{
		{Title: "Euro climbs ahead of ECB"},
		{Title: "Euro slumps after data miss"},
	}
	score, bullish, bearish := a.Score(headlines)
	assert.Equal(t, 1, bullish)
	assert.Equal(t, 1, bearish)
	assert.InDelta(t, 0.0, score, 1e-9)
}

func TestAnalyzerScoreEmpty(t *testing.T) {
	t.Parallel()
	var a Analyzer
	score, bullish, bearish := a.Score(nil)
	assert.Zero(t, score)
	assert.Zero(t, bullish)
	assert.Zero(t, bearish)
}

func TestAnalyzerClassify(t *testing.T) {
	t.Parallel()
	var a Analyzer

	assert.Equal(t, types.SentimentBullish, a.Classify(0.5))
	assert.Equal(t, types.SentimentBullish, a.Classify(0.2))
	assert.Equal(t, types.SentimentNeutral, a.Classify(0.1))
	assert.Equal(t, types.SentimentNeutral, a.Classify(-0.19))
	assert.Equal(t, types.SentimentBearish, a.Classify(-0.2))
	assert.Equal(t, types.SentimentBearish, a.Classify(-1))
}

func TestStaticProvider(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	mood, err := Static{Mood: types.SentimentBearish}.Sentiment(ctx, "USDJPY")
	require.NoError(t, err)
	assert.Equal(t, types.SentimentBearish, mood)

	// Zero value defaults to neutral.
	mood, err = Static{}.Sentiment(ctx, "USDJPY")
	require.NoError(t, err)
	assert.Equal(t, types.SentimentNeutral, mood)
}

func TestServiceDisabledReturnsNeutral(t *testing.T) {
	t.Parallel()

	cfg := DefaultServiceConfig()
	require.False(t, cfg.Enabled)
	s := NewService(cfg)

	mood, err := s.Sentiment(context.Background(), "USDJPY")
	require.NoError(t, err)
	assert.Equal(t, types.SentimentNeutral, mood)
}

func TestServiceCache(t *testing.T) {
	t.Parallel()

	s := NewService(ServiceConfig{Enabled: true, CacheDuration: time.Hour})
	s.store("USDJPY", types.SentimentBullish)

	mood, ok := s.cached("USDJPY")
	require.True(t, ok)
	assert.Equal(t, types.SentimentBullish, mood)

	_, ok = s.cached("EURUSD")
	assert.False(t, ok)
}

func TestServiceCacheExpiry(t *testing.T) {
	t.Parallel()

	s := NewService(ServiceConfig{Enabled: true, CacheDuration: time.Nanosecond})
	s.store("USDJPY", types.SentimentBullish)
	time.Sleep(time.Millisecond)

	_, ok := s.cached("USDJPY")
	assert.False(t, ok)
}
