package types

import "time"

// Direction of a trading signal or order.
type Direction string

const (
	Long  Direction = "LONG"
	Short Direction = "SHORT"
	Hold  Direction = "HOLD"
)

// Candle is one OHLCV bar for a symbol over a fixed time bucket.
type Candle struct {
	Timestamp time.Time `json:"timestamp"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    float64   `json:"volume"`
	Symbol    string    `json:"symbol"`
}

// Signal is one trading opportunity produced by a strategy. It is immutable
// once constructed and consumed exactly once by the risk layer.
type Signal struct {
	Timestamp  time.Time          `json:"timestamp"`
	Symbol     string             `json:"symbol"`
	Direction  Direction          `json:"direction"`
	EntryPrice float64            `json:"entry_price"`
	StopLoss   float64            `json:"stop_loss"`
	TakeProfit float64            `json:"take_profit"`
	Rationale  string             `json:"rationale"`
	Metadata   map[string]float64 `json:"metadata,omitempty"`
}

// ReferencePrice returns the price the risk layer anchors SL/TP math on:
// the explicit entry price, or the signal candle close carried in metadata.
func (s Signal) ReferencePrice() (float64, bool) {
	if s.EntryPrice > 0 {
		return s.EntryPrice, true
	}
	if v, ok := s.Metadata["close"]; ok && v > 0 {
		return v, true
	}
	return 0, false
}

// OpenPosition is the slice of account state the exposure check needs.
type OpenPosition struct {
	Size float64 `json:"size"`
}

// AccountSnapshot is point-in-time account state. It is rebuilt fresh each
// cycle and never mutated in place; every check receives a new snapshot.
type AccountSnapshot struct {
	Equity           float64        `json:"equity"`
	Balance          float64        `json:"balance"`
	DailyLossCurrent float64        `json:"daily_loss_current"` // positive = losing
	DailyTradesCount int            `json:"daily_trades_count"`
	OpenPositions    []OpenPosition `json:"open_positions"`
}

// OpenLots sums position sizes across all currently held trades.
func (a AccountSnapshot) OpenLots() float64 {
	total := 0.0
	for _, p := range a.OpenPositions {
		total += p.Size
	}
	return total
}

// OrderType of an OrderIntent.
type OrderType string

const (
	OrderMarket OrderType = "MARKET"
	OrderLimit  OrderType = "LIMIT"
)

// OrderIntent is the unit submitted to a broker. Constructed by the pipeline
// after risk approval; never mutated after construction.
type OrderIntent struct {
	IdempotencyKey string    `json:"idempotency_key"`
	Symbol         string    `json:"symbol"`
	Direction      Direction `json:"direction"`
	Quantity       float64   `json:"quantity"` // lots
	OrderType      OrderType `json:"order_type"`
	LimitPrice     float64   `json:"limit_price,omitempty"`
	SLDistance     float64   `json:"sl_distance,omitempty"` // points
	TPDistance     float64   `json:"tp_distance,omitempty"` // points
	CreatedAt      time.Time `json:"created_at"`
}

// OrderStatus of an OrderResult.
type OrderStatus string

const (
	StatusAccepted  OrderStatus = "ACCEPTED"
	StatusSubmitted OrderStatus = "SUBMITTED"
	StatusFilled    OrderStatus = "FILLED"
	StatusRejected  OrderStatus = "REJECTED"
	StatusFailed    OrderStatus = "FAILED"
	StatusSkipped   OrderStatus = "SKIPPED"
)

// Executed reports whether the broker accepted the order in some form.
func (s OrderStatus) Executed() bool {
	return s == StatusAccepted || s == StatusSubmitted || s == StatusFilled
}

// OrderResult is the broker response for one OrderIntent. Produced once per
// intent and cached by idempotency key.
type OrderResult struct {
	Status         OrderStatus `json:"status"`
	BrokerOrderID  string      `json:"broker_order_id,omitempty"`
	FilledPrice    float64     `json:"filled_price,omitempty"`
	FilledQuantity float64     `json:"filled_quantity"`
	Timestamp      time.Time   `json:"timestamp"`
	ErrorMessage   string      `json:"error_message,omitempty"`
}

// Balance is the broker-reported account funding state.
type Balance struct {
	Balance   float64 `json:"balance"`
	Equity    float64 `json:"equity"`
	Available float64 `json:"available"`
}

// Sentiment is the directional read of recent news for a symbol.
type Sentiment string

const (
	SentimentBullish Sentiment = "BULLISH"
	SentimentBearish Sentiment = "BEARISH"
	SentimentNeutral Sentiment = "NEUTRAL"
)

// CycleResult summarizes one pipeline cycle for the caller and the journal.
type CycleResult struct {
	Symbol    string      `json:"symbol"`
	Price     float64     `json:"price"`
	Signal    Direction   `json:"signal"`
	Sentiment Sentiment   `json:"sentiment"`
	Decision  string      `json:"decision"`
	Size      float64     `json:"size"`
	Reason    string      `json:"reason"`
	Order     OrderResult `json:"order,omitempty"`
}
