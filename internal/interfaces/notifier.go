package interfaces

import (
	"context"

	"forex-agent/internal/types"
)

// Notifier is fire-and-forget: implementations swallow and log their own
// failures, callers never branch on the outcome.
type Notifier interface {
	SendRiskAlert(ctx context.Context, alertType string, details map[string]string)
	SendTradeAlert(ctx context.Context, signal types.Signal, intent types.OrderIntent, result types.OrderResult)
	SendError(ctx context.Context, message string)
}
