// Package safety is the central authority for allowing or denying order
// execution: symbol allow-list, quantity sanity, the live-trading kill
// switch, and deterministic idempotency keys.
package safety

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"

	"forex-agent/internal/logger"
	"forex-agent/internal/types"
)

// Config for the safety gate. LiveTradingEnabled is the explicit operator
// flag half of the double-confirmation kill switch.
type Config struct {
	Allowlist          []string `yaml:"allowlist"`
	LiveTradingEnabled bool     `yaml:"live_trading_enabled"`
	MaxOrderLots       float64  `yaml:"max_order_lots"`
}

type Gate struct {
	cfg     Config
	allowed map[string]struct{}
}

func NewGate(cfg Config) *Gate {
	allowed := make(map[string]struct{}, len(cfg.Allowlist))
	for _, s := range cfg.Allowlist {
		allowed[strings.ToUpper(s)] = struct{}{}
	}
	return &Gate{cfg: cfg, allowed: allowed}
}

// ValidateIntent checks the allow-list and quantity bounds. Violations are
// hard rejections: logged at ERROR, never retried.
func (g *Gate) ValidateIntent(ctx context.Context, intent types.OrderIntent) bool {
	if _, ok := g.allowed[strings.ToUpper(intent.Symbol)]; !ok {
		logger.Error(ctx, "SAFETY GATE: symbol not in allowlist",
			"symbol", intent.Symbol,
			"allowlist", g.cfg.Allowlist,
		)
		return false
	}

	if intent.Quantity <= 0 {
		logger.Error(ctx, "SAFETY GATE: invalid quantity",
			"symbol", intent.Symbol,
			"quantity", intent.Quantity,
		)
		return false
	}

	if intent.Quantity > g.cfg.MaxOrderLots {
		logger.Error(ctx, "SAFETY GATE: quantity exceeds maximum",
			"symbol", intent.Symbol,
			"quantity", intent.Quantity,
			"max_lots", g.cfg.MaxOrderLots,
		)
		return false
	}

	return true
}

// IsLiveAllowed implements the double-confirmation kill switch: the broker
// account must report exactly "LIVE" and the operator flag must be enabled.
// Both conditions are independent and re-evaluated on every order.
func (g *Gate) IsLiveAllowed(ctx context.Context, accountType string) bool {
	if strings.ToUpper(accountType) != "LIVE" {
		return false
	}
	if !g.cfg.LiveTradingEnabled {
		logger.Warn(ctx, "SAFETY GATE: live account detected but live trading flag is off, blocking")
		return false
	}
	return true
}

// keyPayload is the canonical digest input. encoding/json emits struct
// fields in declaration order, so keeping these sorted by JSON name gives a
// stable byte stream across processes.
type keyPayload struct {
	Direction  string   `json:"direction"`
	Quantity   float64  `json:"quantity"`
	SLDistance *float64 `json:"sl_distance"`
	Symbol     string   `json:"symbol"`
	TPDistance *float64 `json:"tp_distance"`
}

// IdempotencyKey returns a deterministic sha256 digest over the intent's
// economic parameters. Two intents with identical parameters collapse to one
// submission even across restarts; see the design notes for the trade-off.
func IdempotencyKey(intent types.OrderIntent) string {
	p := keyPayload{
		Direction: string(intent.Direction),
		Quantity:  intent.Quantity,
		Symbol:    intent.Symbol,
	}
	if intent.SLDistance > 0 {
		p.SLDistance = &intent.SLDistance
	}
	if intent.TPDistance > 0 {
		p.TPDistance = &intent.TPDistance
	}

	b, _ := json.Marshal(p)
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
