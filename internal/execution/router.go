// Package execution routes approved orders to the broker with at-most-once
// submission per idempotency key and bounded retries.
package execution

import (
	"context"
	"time"

	"forex-agent/internal/interfaces"
	"forex-agent/internal/logger"
	"forex-agent/internal/trace"
	"forex-agent/internal/types"
)

const (
	maxAttempts    = 3
	baseBackoff    = 500 * time.Millisecond
	defaultMaxKeys = 1000
)

// Router wraps the broker call with an idempotency cache and
// retry-with-backoff. Exactly one broker-level submission happens per unique
// idempotency key for the lifetime of the cache.
type Router struct {
	broker interfaces.Broker
	cache  *resultCache
	sleep  func(time.Duration) // injectable for tests
}

func NewRouter(broker interfaces.Broker) *Router {
	return &Router{
		broker: broker,
		cache:  newResultCache(defaultMaxKeys),
		sleep:  time.Sleep,
	}
}

// ExecuteOrder routes the intent to the broker. A cache hit short-circuits
// to the stored result without touching the broker; a duplicate key is not
// an error, just a warning.
func (r *Router) ExecuteOrder(ctx context.Context, intent types.OrderIntent) types.OrderResult {
	ctx, span := trace.StartSpan(ctx, "execution.ExecuteOrder")
	defer span.End()

	logger.Info(ctx, "Received execution request",
		"symbol", intent.Symbol,
		"direction", intent.Direction,
		"quantity", intent.Quantity,
		"idempotency_key", intent.IdempotencyKey,
	)

	if cached, ok := r.cache.get(intent.IdempotencyKey); ok {
		logger.Warn(ctx, "Idempotency hit, returning cached result",
			"idempotency_key", intent.IdempotencyKey,
			"status", cached.Status,
		)
		return cached
	}

	result := r.executeWithRetry(ctx, intent)
	r.cache.put(intent.IdempotencyKey, result)

	logger.Info(ctx, "Execution result",
		"idempotency_key", intent.IdempotencyKey,
		"status", result.Status,
		"broker_order_id", result.BrokerOrderID,
	)
	return result
}

// executeWithRetry calls the broker up to maxAttempts times with exponential
// backoff (0.5s, 1.0s, 2.0s). After the final attempt it synthesizes a
// terminal FAILED result; errors never propagate past this boundary.
func (r *Router) executeWithRetry(ctx context.Context, intent types.OrderIntent) types.OrderResult {
	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		result, err := r.broker.ExecuteOrder(ctx, intent)
		if err == nil {
			return result
		}
		lastErr = err
		logger.Warn(ctx, "Execution attempt failed",
			"attempt", attempt,
			"max_attempts", maxAttempts,
			"error", err,
		)
		if attempt < maxAttempts {
			r.sleep(baseBackoff << (attempt - 1))
		}
	}

	logger.ErrorWithErr(ctx, "Max retries reached, execution failed", lastErr,
		"idempotency_key", intent.IdempotencyKey,
	)
	return types.OrderResult{
		Status:       types.StatusFailed,
		ErrorMessage: lastErr.Error(),
		Timestamp:    time.Now().UTC(),
	}
}

// CachedResults reports the current idempotency cache population.
func (r *Router) CachedResults() int {
	return r.cache.len()
}
