// Package provider supplies candle history to the engine.
package provider

import (
	"context"
	"hash/fnv"
	"math"
	"time"

	"forex-agent/internal/interfaces"
	"forex-agent/internal/market"
	"forex-agent/internal/types"
)

// Mock generates a deterministic synthetic series per symbol. The same
// symbol, timeframe and anchor time always yield the same candles, so tests
// and dry runs are reproducible.
type Mock struct {
	// Anchor pins the last candle close time. Zero means now truncated to
	// the timeframe.
	Anchor time.Time
}

var _ interfaces.DataProvider = (*Mock)(nil)

func (m *Mock) Fetch(_ context.Context, symbol, timeframe string, limit int) ([]types.Candle, error) {
	step, err := ParseTimeframe(timeframe)
	if err != nil {
		return nil, err
	}

	end := m.Anchor
	if end.IsZero() {
		end = time.Now().UTC()
	}
	end = end.Truncate(step)

	base := 1.1000
	amp := 0.0150
	if market.IsJPYPair(symbol) {
		base = 150.00
		amp = 1.50
	}
	phase := float64(seedFor(symbol) % 360)

	candles := make([]types.Candle, 0, limit)
	for i := 0; i < limit; i++ {
		idx := float64(i - limit + 1) // ...,-2,-1,0
		ts := end.Add(time.Duration(idx) * step)

		// Slow sine plus a faster ripple so SMAs actually cross.
		wave := amp*math.Sin((idx+phase)/40) + (amp/4)*math.Sin((idx+phase)/7)
		close := base + wave
		open := base + amp*math.Sin((idx-1+phase)/40) + (amp/4)*math.Sin((idx-1+phase)/7)
		high := math.Max(open, close) + amp/20
		low := math.Min(open, close) - amp/20

		candles = append(candles, types.Candle{
			Timestamp: ts,
			Open:      open,
			High:      high,
			Low:       low,
			Close:     close,
			Volume:    1000 + 100*math.Abs(math.Sin(idx+phase)),
			Symbol:    symbol,
		})
	}
	return candles, nil
}

func seedFor(symbol string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(symbol))
	return h.Sum32()
}
