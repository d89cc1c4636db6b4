package safety

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"forex-agent/internal/types"
)

func testConfig() Config {
	return Config{
		Allowlist:    []string{"USDJPY", "EURUSD"},
		MaxOrderLots: 10,
	}
}

func intent(symbol string, qty float64) types.OrderIntent {
	return types.OrderIntent{
		Symbol:     symbol,
		Direction:  types.Long,
		Quantity:   qty,
		OrderType:  types.OrderMarket,
		SLDistance: 20,
		TPDistance: 40,
	}
}

func TestValidateIntent(t *testing.T) {
	t.Parallel()
	g := NewGate(testConfig())
	ctx := context.Background()

	tests := []struct {
		name string
		in   types.OrderIntent
		want bool
	}{
		{"allowed symbol", intent("USDJPY", 0.5), true},
		{"case insensitive symbol", intent("usdjpy", 0.5), true},
		{"symbol not in allowlist", intent("GBPJPY", 0.5), false},
		{"zero quantity", intent("USDJPY", 0), false},
		{"negative quantity", intent("USDJPY", -1), false},
		{"quantity over cap", intent("USDJPY", 10.01), false},
		{"quantity at cap", intent("USDJPY", 10), true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, g.ValidateIntent(ctx, tt.in))
		})
	}
}

func TestIsLiveAllowed(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	tests := []struct {
		name        string
		accountType string
		flag        bool
		want        bool
	}{
		{"demo account, flag off", "DEMO", false, false},
		{"demo account, flag on", "DEMO", true, false},
		{"live account, flag off", "LIVE", false, false},
		{"live account, flag on", "LIVE", true, true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := testConfig()
			cfg.LiveTradingEnabled = tt.flag
			g := NewGate(cfg)
			assert.Equal(t, tt.want, g.IsLiveAllowed(ctx, tt.accountType))
		})
	}
}

func TestIdempotencyKeyDeterministic(t *testing.T) {
	t.Parallel()

	a := intent("USDJPY", 0.5)
	b := intent("USDJPY", 0.5)
	// Fields outside the economic parameters must not affect the key.
	b.IdempotencyKey = "something-else"

	require.Equal(t, IdempotencyKey(a), IdempotencyKey(b))
	assert.Len(t, IdempotencyKey(a), 64)
}

func TestIdempotencyKeySensitivity(t *testing.T) {
	t.Parallel()
	base := intent("USDJPY", 0.5)

	changed := base
	changed.Quantity = 0.51
	assert.NotEqual(t, IdempotencyKey(base), IdempotencyKey(changed))

	changed = base
	changed.Direction = types.Short
	assert.NotEqual(t, IdempotencyKey(base), IdempotencyKey(changed))

	changed = base
	changed.SLDistance = 25
	assert.NotEqual(t, IdempotencyKey(base), IdempotencyKey(changed))

	changed = base
	changed.Symbol = "EURUSD"
	assert.NotEqual(t, IdempotencyKey(base), IdempotencyKey(changed))
}

func TestIdempotencyKeyOmitsUnsetDistances(t *testing.T) {
	t.Parallel()

	withSL := intent("USDJPY", 0.5)
	noSL := withSL
	noSL.SLDistance = 0
	noSL.TPDistance = 0

	assert.NotEqual(t, IdempotencyKey(withSL), IdempotencyKey(noSL))
}
