package strategy

import (
	"context"

	"forex-agent/internal/interfaces"
	"forex-agent/internal/types"
)

// Noop never signals. Useful for smoke cycles and wiring tests.
type Noop struct{}

var _ interfaces.Strategy = Noop{}

func (Noop) Name() string { return string(KindNoop) }

func (Noop) Calculate(context.Context, []types.Candle, interfaces.StrategyContext) ([]types.Signal, error) {
	return nil, nil
}
