package interfaces

import (
	"context"

	"forex-agent/internal/types"
)

// DataProvider serves historical candles for a symbol/timeframe.
type DataProvider interface {
	Fetch(ctx context.Context, symbol, timeframe string, limit int) ([]types.Candle, error)
}
