package interfaces

import (
	"context"

	"forex-agent/internal/types"
)

// StrategyContext carries per-cycle inputs the strategy may consult.
type StrategyContext struct {
	Sentiment types.Sentiment
}

// Strategy turns a candle series into zero or more signals.
type Strategy interface {
	Calculate(ctx context.Context, candles []types.Candle, sc StrategyContext) ([]types.Signal, error)
	Name() string
}
