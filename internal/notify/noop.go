package notify

import (
	"context"

	"forex-agent/internal/interfaces"
	"forex-agent/internal/types"
)

// Noop discards all notifications. Used in tests and smoke cycles.
type Noop struct{}

var _ interfaces.Notifier = Noop{}

func (Noop) SendRiskAlert(context.Context, string, map[string]string) {}
func (Noop) SendTradeAlert(context.Context, types.Signal, types.OrderIntent, types.OrderResult) {
}
func (Noop) SendError(context.Context, string) {}
