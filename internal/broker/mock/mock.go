// Package mock is an in-memory broker for paper trading and tests. Orders
// fill immediately and deterministically.
package mock

import (
	"context"
	"strings"
	"sync"
	"time"

	"forex-agent/internal/id"
	"forex-agent/internal/interfaces"
	"forex-agent/internal/logger"
	"forex-agent/internal/types"
)

const defaultFillPrice = 1.0500

// Broker simulates fills. Failure injection lets tests exercise the retry
// and idempotency paths of the execution router.
type Broker struct {
	balance types.Balance

	mu        sync.Mutex
	submitted []types.OrderIntent
	failNext  int
	failErr   error
}

var _ interfaces.Broker = (*Broker)(nil)

func New() *Broker {
	return &Broker{
		balance: types.Balance{Balance: 10000, Equity: 10000, Available: 10000},
	}
}

// WithBalance overrides the simulated account funding.
func (b *Broker) WithBalance(bal types.Balance) *Broker {
	b.balance = bal
	return b
}

// FailNext makes the next n ExecuteOrder calls return err.
func (b *Broker) FailNext(n int, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failNext = n
	b.failErr = err
}

func (b *Broker) Connect(context.Context) error { return nil }

func (b *Broker) AccountType() string { return "DEMO" }

func (b *Broker) GetBalance(context.Context) (types.Balance, error) {
	return b.balance, nil
}

// ExecuteOrder fills at the limit price when set, otherwise at a fixed dummy
// price. Every successful call is recorded so tests can count submissions.
func (b *Broker) ExecuteOrder(ctx context.Context, intent types.OrderIntent) (types.OrderResult, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.failNext > 0 {
		b.failNext--
		return types.OrderResult{}, b.failErr
	}

	fillPrice := intent.LimitPrice
	if fillPrice == 0 {
		fillPrice = defaultFillPrice
	}

	b.submitted = append(b.submitted, intent)
	orderID := "mock_" + strings.ToLower(id.New())

	logger.Debug(ctx, "Mock fill", "symbol", intent.Symbol, "direction", string(intent.Direction),
		"quantity", intent.Quantity, "order_id", orderID)

	return types.OrderResult{
		Status:         types.StatusFilled,
		BrokerOrderID:  orderID,
		FilledPrice:    fillPrice,
		FilledQuantity: intent.Quantity,
		Timestamp:      time.Now().UTC(),
	}, nil
}

// SubmitCount reports how many orders reached the broker.
func (b *Broker) SubmitCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.submitted)
}

// Submitted returns a copy of every intent that reached the broker.
func (b *Broker) Submitted() []types.OrderIntent {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]types.OrderIntent, len(b.submitted))
	copy(out, b.submitted)
	return out
}
