// Package ig is a REST client for the IG Markets dealing API. Sessions are
// created lazily and reused; orders are submitted as OTC market positions.
package ig

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"os"
	"sync"
	"time"

	"forex-agent/internal/interfaces"
	"forex-agent/internal/logger"
	"forex-agent/internal/types"
)

const (
	demoBaseURL = "https://demo-api.ig.com/gateway/deal"
	liveBaseURL = "https://api.ig.com/gateway/deal"
)

// Instrument maps a pair onto its IG epic and dealing constraints.
type Instrument struct {
	Epic     string  `yaml:"epic" json:"epic"`
	Currency string  `yaml:"currency" json:"currency"`
	MinSize  float64 `yaml:"min_size" json:"min_size"`
}

// Config holds IG credentials and the instrument map.
type Config struct {
	APIKey      string
	Identifier  string
	Password    string
	AccountType string // DEMO or LIVE
	Instruments map[string]Instrument
}

// ConfigFromEnv reads IG credentials from the environment.
func ConfigFromEnv(instruments map[string]Instrument) (Config, error) {
	cfg := Config{
		APIKey:      os.Getenv("IG_API_KEY"),
		Identifier:  os.Getenv("IG_IDENTIFIER"),
		Password:    os.Getenv("IG_PASSWORD"),
		AccountType: os.Getenv("IG_ACC_TYPE"),
		Instruments: instruments,
	}
	if cfg.AccountType == "" {
		cfg.AccountType = "DEMO"
	}
	if cfg.APIKey == "" || cfg.Identifier == "" || cfg.Password == "" {
		return Config{}, errors.New("IG_API_KEY, IG_IDENTIFIER and IG_PASSWORD must be set")
	}
	return cfg, nil
}

// Client talks to the IG dealing API.
type Client struct {
	cfg     Config
	baseURL string
	http    *http.Client

	mu            sync.Mutex
	cst           string
	securityToken string
}

var _ interfaces.Broker = (*Client)(nil)

func New(cfg Config) *Client {
	base := demoBaseURL
	if cfg.AccountType == "LIVE" {
		base = liveBaseURL
	}
	return &Client{
		cfg:     cfg,
		baseURL: base,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) AccountType() string { return c.cfg.AccountType }

// Connect creates a dealing session and captures the CST and security token
// headers used on every subsequent request. Idempotent.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cst != "" {
		return nil
	}

	body, _ := json.Marshal(map[string]string{
		"identifier": c.cfg.Identifier,
		"password":   c.cfg.Password,
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/session", bytes.NewReader(body))
	if err != nil {
		return err
	}
	c.setHeaders(req, "2")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("ig session: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("ig session: http %d", resp.StatusCode)
	}

	c.cst = resp.Header.Get("CST")
	c.securityToken = resp.Header.Get("X-SECURITY-TOKEN")
	if c.cst == "" || c.securityToken == "" {
		return errors.New("ig session: missing auth tokens in response")
	}

	logger.Info(ctx, "IG session created", "account_type", c.cfg.AccountType)
	return nil
}

// GetBalance fetches the first account's funding state.
func (c *Client) GetBalance(ctx context.Context) (types.Balance, error) {
	if err := c.Connect(ctx); err != nil {
		return types.Balance{}, err
	}

	var out struct {
		Accounts []struct {
			Balance struct {
				Balance    float64 `json:"balance"`
				ProfitLoss float64 `json:"profitLoss"`
				Available  float64 `json:"available"`
			} `json:"balance"`
		} `json:"accounts"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/accounts", "1", nil, &out); err != nil {
		return types.Balance{}, fmt.Errorf("ig accounts: %w", err)
	}
	if len(out.Accounts) == 0 {
		return types.Balance{}, errors.New("ig accounts: empty response")
	}

	acc := out.Accounts[0].Balance
	return types.Balance{
		Balance:   acc.Balance,
		Equity:    acc.Balance + acc.ProfitLoss,
		Available: acc.Available,
	}, nil
}

// ExecuteOrder opens an OTC market position. The broker reports only a deal
// reference here; the fill price arrives later via the confirms endpoint, so
// the result is SUBMITTED rather than FILLED.
func (c *Client) ExecuteOrder(ctx context.Context, intent types.OrderIntent) (types.OrderResult, error) {
	if err := c.Connect(ctx); err != nil {
		return types.OrderResult{}, err
	}

	inst, ok := c.cfg.Instruments[intent.Symbol]
	if !ok {
		return types.OrderResult{}, fmt.Errorf("no instrument mapping for %s", intent.Symbol)
	}

	size := math.Round(math.Abs(intent.Quantity)*100) / 100
	if size < inst.MinSize {
		logger.Warn(ctx, "Order size below instrument minimum, clamping",
			"symbol", intent.Symbol, "size", size, "min_size", inst.MinSize)
		size = inst.MinSize
	}

	direction := "BUY"
	if intent.Direction == types.Short {
		direction = "SELL"
	}

	body := map[string]any{
		"epic":           inst.Epic,
		"expiry":         "-",
		"direction":      direction,
		"size":           size,
		"orderType":      "MARKET",
		"currencyCode":   inst.Currency,
		"forceOpen":      true,
		"guaranteedStop": false,
	}
	if intent.SLDistance > 0 {
		body["stopDistance"] = math.Round(intent.SLDistance*10) / 10
	}
	if intent.TPDistance > 0 {
		body["limitDistance"] = math.Round(intent.TPDistance*10) / 10
	}

	var out struct {
		DealReference string `json:"dealReference"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/positions/otc", "2", body, &out); err != nil {
		return types.OrderResult{}, fmt.Errorf("ig open position: %w", err)
	}
	if out.DealReference == "" {
		return types.OrderResult{}, errors.New("ig open position: empty deal reference")
	}

	logger.Info(ctx, "IG order submitted", "symbol", intent.Symbol,
		"direction", direction, "size", size, "deal_ref", out.DealReference)

	return types.OrderResult{
		Status:         types.StatusSubmitted,
		BrokerOrderID:  out.DealReference,
		FilledQuantity: size,
		Timestamp:      time.Now().UTC(),
	}, nil
}

var _ interfaces.DataProvider = (*Client)(nil)

var resolutions = map[string]string{
	"M1":  "MINUTE",
	"M5":  "MINUTE_5",
	"M15": "MINUTE_15",
	"M30": "MINUTE_30",
	"H1":  "HOUR",
	"H4":  "HOUR_4",
	"D1":  "DAY",
}

// igPrice is one bar from the prices endpoint. IG quotes bid and ask per
// field; candles are built from the mid.
type igPrice struct {
	SnapshotTimeUTC  string  `json:"snapshotTimeUTC"`
	OpenPrice        igQuote `json:"openPrice"`
	HighPrice        igQuote `json:"highPrice"`
	LowPrice         igQuote `json:"lowPrice"`
	ClosePrice       igQuote `json:"closePrice"`
	LastTradedVolume float64 `json:"lastTradedVolume"`
}

type igQuote struct {
	Bid float64 `json:"bid"`
	Ask float64 `json:"ask"`
}

func (q igQuote) mid() float64 { return (q.Bid + q.Ask) / 2 }

// Fetch pulls candle history for a symbol so the IG client can also serve as
// the engine's data provider.
func (c *Client) Fetch(ctx context.Context, symbol, timeframe string, limit int) ([]types.Candle, error) {
	if err := c.Connect(ctx); err != nil {
		return nil, err
	}

	inst, ok := c.cfg.Instruments[symbol]
	if !ok {
		return nil, fmt.Errorf("no instrument mapping for %s", symbol)
	}
	resolution, ok := resolutions[timeframe]
	if !ok {
		return nil, fmt.Errorf("unknown timeframe %q", timeframe)
	}

	var out struct {
		Prices []igPrice `json:"prices"`
	}
	path := fmt.Sprintf("/prices/%s?resolution=%s&max=%d&pageSize=0", inst.Epic, resolution, limit)
	if err := c.doJSON(ctx, http.MethodGet, path, "3", nil, &out); err != nil {
		return nil, fmt.Errorf("ig prices: %w", err)
	}

	candles := make([]types.Candle, 0, len(out.Prices))
	for _, p := range out.Prices {
		ts, err := time.Parse("2006-01-02T15:04:05", p.SnapshotTimeUTC)
		if err != nil {
			continue
		}
		candles = append(candles, types.Candle{
			Timestamp: ts.UTC(),
			Open:      p.OpenPrice.mid(),
			High:      p.HighPrice.mid(),
			Low:       p.LowPrice.mid(),
			Close:     p.ClosePrice.mid(),
			Volume:    p.LastTradedVolume,
			Symbol:    symbol,
		})
	}
	return candles, nil
}

func (c *Client) doJSON(ctx context.Context, method, path, version string, body any, out any) error {
	var reader *bytes.Reader
	if body != nil {
		bb, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(bb)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	c.setHeaders(req, version)

	c.mu.Lock()
	if c.cst != "" {
		req.Header.Set("CST", c.cst)
		req.Header.Set("X-SECURITY-TOKEN", c.securityToken)
	}
	c.mu.Unlock()

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		// Session expired. Drop tokens so the next call re-authenticates.
		c.mu.Lock()
		c.cst, c.securityToken = "", ""
		c.mu.Unlock()
		return errors.New("session expired")
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("http %d", resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) setHeaders(req *http.Request, version string) {
	req.Header.Set("Content-Type", "application/json; charset=UTF-8")
	req.Header.Set("Accept", "application/json; charset=UTF-8")
	req.Header.Set("X-IG-API-KEY", c.cfg.APIKey)
	req.Header.Set("Version", version)
}
