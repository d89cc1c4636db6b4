package notify

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"forex-agent/internal/types"
)

// captureServer records every webhook payload posted to it.
type captureServer struct {
	srv      *httptest.Server
	payloads []webhookPayload
	paths    []string
}

func newCaptureServer(t *testing.T) *captureServer {
	t.Helper()
	cs := &captureServer{}
	cs.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		var p webhookPayload
		require.NoError(t, json.Unmarshal(body, &p))
		cs.payloads = append(cs.payloads, p)
		cs.paths = append(cs.paths, r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(cs.srv.Close)
	return cs
}

func TestDiscordDisabledWithoutWebhook(t *testing.T) {
	t.Setenv("DISCORD_WEBHOOK_URL", "")
	t.Setenv("DISCORD_WEBHOOK_TRADES", "")
	t.Setenv("DISCORD_WEBHOOK_RISK", "")
	t.Setenv("DISCORD_WEBHOOK_HEALTH", "")

	d := NewDiscord()
	assert.False(t, d.enabled)

	// Must be a silent no-op, not a panic or a network call.
	d.SendError(context.Background(), "boom")
	d.SendRiskAlert(context.Background(), "DAILY_LOSS_LIMIT", nil)
}

func TestDiscordSendTradeAlert(t *testing.T) {
	cs := newCaptureServer(t)
	t.Setenv("DISCORD_WEBHOOK_URL", cs.srv.URL+"/main")
	t.Setenv("DISCORD_WEBHOOK_TRADES", cs.srv.URL+"/trades")
	t.Setenv("DISCORD_WEBHOOK_RISK", "")
	t.Setenv("DISCORD_WEBHOOK_HEALTH", "")

	d := NewDiscord()

	signal := types.Signal{
		Timestamp:  time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC),
		Symbol:     "USDJPY",
		Direction:  types.Long,
		EntryPrice: 150.123,
		StopLoss:   149.500,
		TakeProfit: 151.400,
		Rationale:  "SMA(50) > SMA(200)",
	}
	intent := types.OrderIntent{Symbol: "USDJPY", Direction: types.Long, Quantity: 0.2}
	result := types.OrderResult{Status: types.StatusFilled, BrokerOrderID: "deal-123"}

	d.SendTradeAlert(context.Background(), signal, intent, result)

	require.Len(t, cs.payloads, 1)
	assert.Equal(t, "/trades", cs.paths[0])

	p := cs.payloads[0]
	require.Len(t, p.Embeds, 1)
	assert.Contains(t, p.Embeds[0].Title, "FILLED")
	assert.Contains(t, p.Embeds[0].Title, "LONG USDJPY")
	assert.Equal(t, colorGreen, p.Embeds[0].Color)
	require.NotNil(t, p.Embeds[0].Footer)
	assert.Contains(t, p.Embeds[0].Footer.Text, "deal-123")
}

func TestDiscordSendTradeAlertRejected(t *testing.T) {
	cs := newCaptureServer(t)
	t.Setenv("DISCORD_WEBHOOK_URL", cs.srv.URL)
	t.Setenv("DISCORD_WEBHOOK_TRADES", "")
	t.Setenv("DISCORD_WEBHOOK_RISK", "")
	t.Setenv("DISCORD_WEBHOOK_HEALTH", "")

	d := NewDiscord()
	d.SendTradeAlert(context.Background(),
		types.Signal{Symbol: "EURUSD", Direction: types.Short, Timestamp: time.Now()},
		types.OrderIntent{Quantity: 0.5},
		types.OrderResult{Status: types.StatusRejected, ErrorMessage: "market closed"},
	)

	require.Len(t, cs.payloads, 1)
	p := cs.payloads[0]
	require.Len(t, p.Embeds, 1)
	assert.Contains(t, p.Embeds[0].Title, "REJECTED")
	assert.Equal(t, colorRed, p.Embeds[0].Color)
	require.NotNil(t, p.Embeds[0].Footer)
	assert.Contains(t, p.Embeds[0].Footer.Text, "N/A")
}

func TestDiscordRiskAlertFields(t *testing.T) {
	cs := newCaptureServer(t)
	t.Setenv("DISCORD_WEBHOOK_URL", cs.srv.URL)
	t.Setenv("DISCORD_WEBHOOK_TRADES", "")
	t.Setenv("DISCORD_WEBHOOK_RISK", "")
	t.Setenv("DISCORD_WEBHOOK_HEALTH", "")

	d := NewDiscord()
	d.SendRiskAlert(context.Background(), "DAILY_LOSS_LIMIT", map[string]string{
		"current": "-215.00",
		"limit":   "200.00",
		"action":  "trading paused until next day",
		"ignored": "not a known field",
	})

	require.Len(t, cs.payloads, 1)
	p := cs.payloads[0]
	require.Len(t, p.Embeds, 1)
	assert.Contains(t, p.Embeds[0].Title, "DAILY_LOSS_LIMIT")
	require.Len(t, p.Embeds[0].Fields, 3)
	assert.Equal(t, "current", p.Embeds[0].Fields[0].Name)
	assert.Equal(t, "limit", p.Embeds[0].Fields[1].Name)
	assert.Equal(t, "action", p.Embeds[0].Fields[2].Name)
}

func TestDiscordChannelFallback(t *testing.T) {
	cs := newCaptureServer(t)
	t.Setenv("DISCORD_WEBHOOK_URL", cs.srv.URL+"/main")
	t.Setenv("DISCORD_WEBHOOK_TRADES", "")
	t.Setenv("DISCORD_WEBHOOK_RISK", "")
	t.Setenv("DISCORD_WEBHOOK_HEALTH", "")

	d := NewDiscord()
	d.SendError(context.Background(), "provider unreachable")

	require.Len(t, cs.paths, 1)
	assert.Equal(t, "/main", cs.paths[0], "health falls back to the main webhook")
}

func TestNoopNotifier(t *testing.T) {
	t.Parallel()
	var n Noop
	n.SendRiskAlert(context.Background(), "X", nil)
	n.SendTradeAlert(context.Background(), types.Signal{}, types.OrderIntent{}, types.OrderResult{})
	n.SendError(context.Background(), "x")
}
