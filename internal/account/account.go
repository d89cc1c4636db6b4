// Package account rebuilds the point-in-time account snapshot each cycle,
// backed by the broker when available and a local JSON ledger otherwise.
package account

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"forex-agent/internal/interfaces"
	"forex-agent/internal/logger"
	"forex-agent/internal/types"
)

const defaultInitialBalance = 10000.0

type ledger struct {
	Balance float64 `json:"balance"`
	Equity  float64 `json:"equity"`
}

// Manager owns the local ledger file and produces fresh snapshots. Snapshots
// are values: callers never observe a later mutation.
type Manager struct {
	mu      sync.Mutex
	path    string
	balance float64
	equity  float64

	dailyLoss   float64
	dailyTrades int
	open        []types.OpenPosition
}

func NewManager(path string, initialBalance float64) *Manager {
	if initialBalance <= 0 {
		initialBalance = defaultInitialBalance
	}
	m := &Manager{path: path, balance: initialBalance, equity: initialBalance}
	m.load()
	return m
}

func (m *Manager) load() {
	b, err := os.ReadFile(m.path)
	if err != nil {
		return
	}
	var l ledger
	if err := json.Unmarshal(b, &l); err != nil {
		return
	}
	if l.Balance > 0 {
		m.balance = l.Balance
	}
	if l.Equity > 0 {
		m.equity = l.Equity
	}
}

func (m *Manager) save() {
	if err := os.MkdirAll(filepath.Dir(m.path), 0o755); err != nil {
		return
	}
	b, err := json.Marshal(ledger{Balance: m.balance, Equity: m.equity})
	if err != nil {
		return
	}
	_ = os.WriteFile(m.path, b, 0o644)
}

// SyncFromBroker refreshes equity from the live broker before risk
// evaluation. A failed sync keeps the ledger values; the cycle proceeds.
func (m *Manager) SyncFromBroker(ctx context.Context, broker interfaces.Broker) {
	bal, err := broker.GetBalance(ctx)
	if err != nil {
		logger.Warn(ctx, "Live equity sync failed, using local ledger", "error", err)
		return
	}
	if bal.Equity <= 0 {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.balance = bal.Balance
	m.equity = bal.Equity
	m.save()
	logger.Info(ctx, "Live equity synced", "equity", bal.Equity, "balance", bal.Balance)
}

// RecordTrade bumps today's trade counter without touching realized loss.
func (m *Manager) RecordTrade() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dailyTrades++
}

// RecordTradeLoss accumulates today's realized loss (positive = losing) and
// bumps the trade counter.
func (m *Manager) RecordTradeLoss(loss float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dailyLoss += loss
	m.dailyTrades++
}

// SetOpenPositions replaces the exposure view used by the next snapshot.
func (m *Manager) SetOpenPositions(open []types.OpenPosition) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.open = append([]types.OpenPosition(nil), open...)
}

// ResetDay clears the daily counters at the session boundary.
func (m *Manager) ResetDay() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dailyLoss = 0
	m.dailyTrades = 0
}

// UpdateBalance applies a realized P/L to the ledger after a closed trade.
func (m *Manager) UpdateBalance(pnl float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.balance += pnl
	m.equity = m.balance
	m.save()
}

// Reset replaces the ledger with a fresh amount.
func (m *Manager) Reset(amount float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.balance = amount
	m.equity = amount
	m.save()
}

// Snapshot returns a fresh value; never mutated in place.
func (m *Manager) Snapshot() types.AccountSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return types.AccountSnapshot{
		Equity:           m.equity,
		Balance:          m.balance,
		DailyLossCurrent: m.dailyLoss,
		DailyTradesCount: m.dailyTrades,
		OpenPositions:    append([]types.OpenPosition(nil), m.open...),
	}
}
