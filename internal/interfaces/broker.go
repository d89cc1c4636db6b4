package interfaces

import (
	"context"

	"forex-agent/internal/types"
)

// Broker is the capability contract every broker adapter satisfies. The
// deterministic mock and the live IG adapter are interchangeable variants.
type Broker interface {
	Connect(ctx context.Context) error
	GetBalance(ctx context.Context) (types.Balance, error)
	ExecuteOrder(ctx context.Context, intent types.OrderIntent) (types.OrderResult, error)
	AccountType() string
}
