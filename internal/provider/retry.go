package provider

import (
	"context"
	"fmt"
	"time"

	"forex-agent/internal/interfaces"
	"forex-agent/internal/logger"
	"forex-agent/internal/types"
)

// Retry wraps a DataProvider with bounded retries and exponential backoff.
// Transient feed hiccups should not kill an hourly cycle.
type Retry struct {
	next     interfaces.DataProvider
	attempts int
	delay    time.Duration
	sleep    func(time.Duration)
}

var _ interfaces.DataProvider = (*Retry)(nil)

func NewRetry(next interfaces.DataProvider, attempts int, delay time.Duration) *Retry {
	if attempts <= 0 {
		attempts = 3
	}
	if delay <= 0 {
		delay = 500 * time.Millisecond
	}
	return &Retry{next: next, attempts: attempts, delay: delay, sleep: time.Sleep}
}

func (r *Retry) Fetch(ctx context.Context, symbol, timeframe string, limit int) ([]types.Candle, error) {
	var lastErr error
	for attempt := 1; attempt <= r.attempts; attempt++ {
		candles, err := r.next.Fetch(ctx, symbol, timeframe, limit)
		if err == nil {
			return candles, nil
		}
		lastErr = err
		logger.Warn(ctx, "Candle fetch failed", "symbol", symbol, "attempt", attempt,
			"max_attempts", r.attempts, "error", err.Error())
		if attempt < r.attempts {
			r.sleep(r.delay << (attempt - 1))
		}
	}
	return nil, fmt.Errorf("fetch %s %s after %d attempts: %w", symbol, timeframe, r.attempts, lastErr)
}
