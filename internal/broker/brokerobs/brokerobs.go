// Package brokerobs wraps a Broker with logging and tracing middleware so
// broker implementations stay free of observability concerns.
package brokerobs

import (
	"context"
	"fmt"

	"forex-agent/internal/interfaces"
	"forex-agent/internal/logger"
	"forex-agent/internal/trace"
	"forex-agent/internal/types"
)

type observableBroker struct {
	broker interfaces.Broker
}

var _ interfaces.Broker = (*observableBroker)(nil)

// Wrap decorates a broker with observability middleware.
func Wrap(broker interfaces.Broker) interfaces.Broker {
	return &observableBroker{broker: broker}
}

func (ob *observableBroker) AccountType() string { return ob.broker.AccountType() }

func (ob *observableBroker) Connect(ctx context.Context) error {
	ctx, span := trace.StartSpan(ctx, "broker.Connect")
	defer span.End()

	logger.Debug(ctx, "Connecting to broker", "account_type", ob.broker.AccountType())

	if err := ob.broker.Connect(ctx); err != nil {
		logger.ErrorWithErr(ctx, "Broker connect failed", err)
		return fmt.Errorf("broker connect: %w", err)
	}

	logger.Debug(ctx, "Broker connected")
	return nil
}

func (ob *observableBroker) GetBalance(ctx context.Context) (types.Balance, error) {
	ctx, span := trace.StartSpan(ctx, "broker.GetBalance")
	defer span.End()

	bal, err := ob.broker.GetBalance(ctx)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to fetch balance", err)
		return types.Balance{}, err
	}

	logger.Debug(ctx, "Balance fetched", "balance", bal.Balance, "equity", bal.Equity)
	return bal, nil
}

func (ob *observableBroker) ExecuteOrder(ctx context.Context, intent types.OrderIntent) (types.OrderResult, error) {
	ctx, span := trace.StartSpan(ctx, "broker.ExecuteOrder")
	defer span.End()

	logger.Info(ctx, "Submitting order",
		"symbol", intent.Symbol,
		"direction", string(intent.Direction),
		"quantity", intent.Quantity,
		"idempotency_key", intent.IdempotencyKey,
	)

	result, err := ob.broker.ExecuteOrder(ctx, intent)
	if err != nil {
		logger.ErrorWithErr(ctx, "Order submission failed", err,
			"symbol", intent.Symbol,
			"direction", string(intent.Direction),
			"quantity", intent.Quantity,
		)
		return types.OrderResult{}, err
	}

	logger.Trade(ctx, intent.Symbol, string(intent.Direction), intent.Quantity,
		string(result.Status), result.BrokerOrderID)
	return result, nil
}
