package risk

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"forex-agent/internal/types"
)

// recordingNotifier captures risk alerts for assertion.
type recordingNotifier struct {
	alerts []string
}

func (n *recordingNotifier) SendRiskAlert(_ context.Context, alertType string, _ map[string]string) {
	n.alerts = append(n.alerts, alertType)
}
func (n *recordingNotifier) SendTradeAlert(context.Context, types.Signal, types.OrderIntent, types.OrderResult) {
}
func (n *recordingNotifier) SendError(context.Context, string) {}

func snapshot(equity, dailyLoss float64, trades int, open ...float64) types.AccountSnapshot {
	positions := make([]types.OpenPosition, 0, len(open))
	for _, size := range open {
		positions = append(positions, types.OpenPosition{Size: size})
	}
	return types.AccountSnapshot{
		Equity:           equity,
		Balance:          equity,
		DailyLossCurrent: dailyLoss,
		DailyTradesCount: trades,
		OpenPositions:    positions,
	}
}

func TestCheckDailyLimits(t *testing.T) {
	t.Parallel()
	cfg := DefaultConfig()

	tests := []struct {
		name   string
		snap   types.AccountSnapshot
		reason string
	}{
		{"healthy account", snapshot(10000, 0, 0), ReasonOK},
		{"zero equity", snapshot(0, 0, 0), ReasonEquityZeroOrNegative},
		{"negative equity", snapshot(-250, 0, 0), ReasonEquityZeroOrNegative},
		{"loss below limit", snapshot(10000, 150, 0), ReasonOK},
		{"loss at limit", snapshot(10000, 200, 0), ReasonDailyLossLimit},
		{"loss over limit", snapshot(10000, 500, 0), ReasonDailyLossLimit},
		{"trades below limit", snapshot(10000, 0, 4), ReasonOK},
		{"trades at limit", snapshot(10000, 0, 5), ReasonMaxTradesLimit},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			d := checkDailyLimits(tt.snap, cfg)
			assert.Equal(t, tt.reason, d.Reason)
			assert.Equal(t, tt.reason == ReasonOK, d.Allowed)
		})
	}
}

func TestCheckDailyLimitsEquityAlwaysWins(t *testing.T) {
	t.Parallel()
	// Zero equity must short-circuit before the loss-percentage division.
	d := checkDailyLimits(snapshot(0, 9999, 99), DefaultConfig())
	assert.Equal(t, ReasonEquityZeroOrNegative, d.Reason)
}

func TestCheckExposureLimits(t *testing.T) {
	t.Parallel()
	cfg := DefaultConfig() // max_open_lots = 1.0

	tests := []struct {
		name    string
		open    []float64
		newSize float64
		allowed bool
	}{
		{"no open positions", nil, 0.5, true},
		{"projected exactly at limit", []float64{0.5, 0.3}, 0.2, true},
		{"projected over limit", []float64{0.5, 0.3}, 0.3, false},
		{"already at limit", []float64{1.0}, 0.01, false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			d := checkExposureLimits(snapshot(10000, 0, 0, tt.open...), tt.newSize, cfg)
			assert.Equal(t, tt.allowed, d.Allowed)
			if !tt.allowed {
				assert.Equal(t, ReasonMaxExposureLimit, d.Reason)
			}
		})
	}
}

func TestLimiterNotifiesOnRejectionOnly(t *testing.T) {
	t.Parallel()
	n := &recordingNotifier{}
	l := NewLimiter(DefaultConfig(), n)
	ctx := context.Background()

	d := l.CheckDailyLimits(ctx, snapshot(10000, 0, 0))
	require.True(t, d.Allowed)
	assert.Empty(t, n.alerts)

	d = l.CheckDailyLimits(ctx, snapshot(10000, 500, 0))
	require.False(t, d.Allowed)
	require.Len(t, n.alerts, 1)
	assert.Equal(t, ReasonDailyLossLimit, n.alerts[0])
}
