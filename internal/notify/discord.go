// Package notify sends fire-and-forget alerts to Discord webhooks. Failures
// are swallowed and logged; the pipeline never branches on delivery.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"forex-agent/internal/interfaces"
	"forex-agent/internal/logger"
	"forex-agent/internal/types"
)

// Channel routes a notification to a purpose-specific webhook.
type Channel string

const (
	ChannelTrades  Channel = "trades"
	ChannelRisk    Channel = "risk"
	ChannelHealth  Channel = "health"
	ChannelDefault Channel = "default"
)

const (
	colorGreen = 5763719
	colorRed   = 15548997
)

type embed struct {
	Title       string       `json:"title,omitempty"`
	Description string       `json:"description,omitempty"`
	Color       int          `json:"color,omitempty"`
	Fields      []embedField `json:"fields,omitempty"`
	Timestamp   string       `json:"timestamp,omitempty"`
	Footer      *embedFooter `json:"footer,omitempty"`
}

type embedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

type embedFooter struct {
	Text string `json:"text"`
}

type webhookPayload struct {
	Content  string  `json:"content,omitempty"`
	Username string  `json:"username,omitempty"`
	Embeds   []embed `json:"embeds,omitempty"`
}

// Discord posts to channel-specific webhooks with fallback to the main one.
type Discord struct {
	webhooks map[Channel]string
	enabled  bool
	client   *http.Client
}

var _ interfaces.Notifier = (*Discord)(nil)

// NewDiscord reads webhook URLs from the environment: DISCORD_WEBHOOK_URL is
// the main/fallback hook, DISCORD_WEBHOOK_{TRADES,RISK,HEALTH} override per
// channel. With no main webhook the notifier is disabled.
func NewDiscord() *Discord {
	main := os.Getenv("DISCORD_WEBHOOK_URL")
	pick := func(key string) string {
		if v := os.Getenv(key); v != "" {
			return v
		}
		return main
	}

	d := &Discord{
		webhooks: map[Channel]string{
			ChannelTrades:  pick("DISCORD_WEBHOOK_TRADES"),
			ChannelRisk:    pick("DISCORD_WEBHOOK_RISK"),
			ChannelHealth:  pick("DISCORD_WEBHOOK_HEALTH"),
			ChannelDefault: main,
		},
		enabled: main != "",
		client:  &http.Client{Timeout: 10 * time.Second},
	}
	if !d.enabled {
		logger.Warn(context.Background(), "Discord notifier disabled: no DISCORD_WEBHOOK_URL set")
	}
	return d
}

// SendRiskAlert posts a structured risk embed to the risk channel.
func (d *Discord) SendRiskAlert(ctx context.Context, alertType string, details map[string]string) {
	if !d.enabled {
		return
	}

	fields := make([]embedField, 0, len(details))
	for _, k := range []string{"current", "limit", "action"} {
		if v, ok := details[k]; ok {
			fields = append(fields, embedField{Name: k, Value: v, Inline: true})
		}
	}

	d.post(ctx, ChannelRisk, webhookPayload{
		Username: "Forex Risk",
		Embeds: []embed{{
			Title:     "⚠️ RISK LIMIT: " + alertType,
			Color:     colorRed,
			Fields:    fields,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		}},
	})
}

// SendTradeAlert posts a rich embed describing the execution outcome.
func (d *Discord) SendTradeAlert(ctx context.Context, signal types.Signal, intent types.OrderIntent, result types.OrderResult) {
	if !d.enabled {
		return
	}

	title := fmt.Sprintf("❌ REJECTED: %s %s", signal.Direction, signal.Symbol)
	color := colorRed
	if result.Status.Executed() {
		title = fmt.Sprintf("✅ %s: %s %s", result.Status, signal.Direction, signal.Symbol)
		color = colorGreen
	}

	d.post(ctx, ChannelTrades, webhookPayload{
		Username: "Forex Execution",
		Embeds: []embed{{
			Title: title,
			Color: color,
			Fields: []embedField{
				{Name: "⏰ Time", Value: signal.Timestamp.UTC().Format("2006-01-02 15:04:05"), Inline: true},
				{Name: "📊 Status", Value: string(result.Status), Inline: true},
				{Name: "📐 Size", Value: fmt.Sprintf("%.2f lots", intent.Quantity), Inline: true},
				{Name: "💵 Entry", Value: fmt.Sprintf("%.5f", signal.EntryPrice), Inline: true},
				{Name: "🛑 SL", Value: fmt.Sprintf("%.5f", signal.StopLoss), Inline: true},
				{Name: "🎯 TP", Value: fmt.Sprintf("%.5f", signal.TakeProfit), Inline: true},
				{Name: "📝 Rationale", Value: truncate(signal.Rationale, 500), Inline: false},
			},
			Footer:    &embedFooter{Text: "🆔 " + orDash(result.BrokerOrderID)},
			Timestamp: signal.Timestamp.UTC().Format(time.RFC3339),
		}},
	})
}

// SendError posts a critical error to the health channel.
func (d *Discord) SendError(ctx context.Context, message string) {
	if !d.enabled {
		return
	}
	d.post(ctx, ChannelHealth, webhookPayload{
		Username: "Forex Agent",
		Embeds: []embed{{
			Title:       "🚨 CRITICAL ERROR",
			Description: message,
			Color:       colorRed,
			Timestamp:   time.Now().UTC().Format(time.RFC3339),
		}},
	})
}

func (d *Discord) post(ctx context.Context, ch Channel, payload webhookPayload) {
	url := d.webhooks[ch]
	if url == "" {
		url = d.webhooks[ChannelDefault]
	}
	if url == "" {
		return
	}

	body, err := json.Marshal(payload)
	if err != nil {
		logger.Warn(ctx, "Discord payload marshal failed", "error", err)
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		logger.Warn(ctx, "Discord request build failed", "error", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		logger.Warn(ctx, "Discord notification failed", "channel", ch, "error", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		logger.Warn(ctx, "Discord webhook returned non-success", "channel", ch, "status", resp.StatusCode)
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func orDash(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
