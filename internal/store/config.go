// Package store loads and validates the agent configuration from YAML.
package store

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"forex-agent/internal/broker/ig"
	"forex-agent/internal/risk"
	"forex-agent/internal/safety"
	"forex-agent/internal/sentiment"
	"forex-agent/internal/strategy"
)

type Config struct {
	Mode        string `yaml:"mode"` // DRY_RUN or LIVE
	Symbol      string `yaml:"symbol"`
	Timeframe   string `yaml:"timeframe"`
	CandleLimit int    `yaml:"candle_limit"`

	Strategy struct {
		Name   string          `yaml:"name"`
		Params strategy.Params `yaml:"params"`
	} `yaml:"strategy"`

	Risk   risk.Config   `yaml:"risk"`
	Safety safety.Config `yaml:"safety"`

	Broker string `yaml:"broker"` // mock or ig

	Data struct {
		Provider          string  `yaml:"provider"` // mock or broker
		RetryAttempts     int     `yaml:"retry_attempts"`
		RetryDelaySeconds float64 `yaml:"retry_delay_seconds"`
		MaxStalenessBars  int     `yaml:"max_staleness_bars"`
	} `yaml:"data"`

	Sentiment struct {
		Enabled        bool `yaml:"enabled"`
		MaxHeadlines   int  `yaml:"max_headlines"`
		CacheMinutes   int  `yaml:"cache_minutes"`
		TimeoutSeconds int  `yaml:"timeout_seconds"`
	} `yaml:"sentiment"`

	Account struct {
		LedgerPath     string  `yaml:"ledger_path"`
		InitialBalance float64 `yaml:"initial_balance"`
	} `yaml:"account"`

	StatePath   string `yaml:"state_path"`
	JournalPath string `yaml:"journal_path"`

	Instruments map[string]ig.Instrument `yaml:"instruments"`
}

func (c *Config) Validate() error {
	if c.Mode != "DRY_RUN" && c.Mode != "LIVE" {
		return fmt.Errorf("invalid mode '%s': must be 'DRY_RUN' or 'LIVE'", c.Mode)
	}
	if c.Symbol == "" {
		return fmt.Errorf("symbol cannot be empty")
	}
	if c.Broker != "mock" && c.Broker != "ig" {
		return fmt.Errorf("invalid broker '%s': must be 'mock' or 'ig'", c.Broker)
	}
	if c.Data.Provider != "mock" && c.Data.Provider != "broker" {
		return fmt.Errorf("invalid data.provider '%s': must be 'mock' or 'broker'", c.Data.Provider)
	}
	if _, err := strategy.New(strategy.Kind(c.Strategy.Name), c.Strategy.Params); err != nil {
		return err
	}
	if err := c.Risk.Validate(); err != nil {
		return err
	}
	if len(c.Safety.Allowlist) == 0 {
		return fmt.Errorf("safety.allowlist cannot be empty")
	}
	if c.Safety.MaxOrderLots <= 0 {
		return fmt.Errorf("safety.max_order_lots must be positive, got %.2f", c.Safety.MaxOrderLots)
	}
	return nil
}

// SentimentConfig converts the YAML knobs into the service configuration.
func (c *Config) SentimentConfig() sentiment.ServiceConfig {
	sc := sentiment.DefaultServiceConfig()
	sc.Enabled = c.Sentiment.Enabled
	if c.Sentiment.MaxHeadlines > 0 {
		sc.MaxHeadlines = c.Sentiment.MaxHeadlines
	}
	if c.Sentiment.CacheMinutes > 0 {
		sc.CacheDuration = time.Duration(c.Sentiment.CacheMinutes) * time.Minute
	}
	if c.Sentiment.TimeoutSeconds > 0 {
		sc.ScraperTimeout = time.Duration(c.Sentiment.TimeoutSeconds) * time.Second
	}
	return sc
}

// RetryDelay returns the base delay for candle fetch retries.
func (c *Config) RetryDelay() time.Duration {
	if c.Data.RetryDelaySeconds <= 0 {
		return 500 * time.Millisecond
	}
	return time.Duration(c.Data.RetryDelaySeconds * float64(time.Second))
}

func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}

	applyDefaults(&c)

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &c, nil
}

func applyDefaults(c *Config) {
	if c.Mode == "" {
		c.Mode = "DRY_RUN"
	}
	if c.Timeframe == "" {
		c.Timeframe = "H1"
	}
	if c.CandleLimit == 0 {
		c.CandleLimit = 300
	}
	if c.Strategy.Name == "" {
		c.Strategy.Name = string(strategy.KindSMACross)
	}
	if c.Broker == "" {
		c.Broker = "mock"
	}
	if c.Data.Provider == "" {
		c.Data.Provider = "mock"
	}
	if c.Data.RetryAttempts == 0 {
		c.Data.RetryAttempts = 3
	}
	if c.Data.MaxStalenessBars == 0 {
		c.Data.MaxStalenessBars = 2
	}
	if c.Account.LedgerPath == "" {
		c.Account.LedgerPath = "account_ledger.json"
	}
	if c.Account.InitialBalance == 0 {
		c.Account.InitialBalance = 10000
	}
	if c.StatePath == "" {
		c.StatePath = "candle_state.json"
	}
	if c.JournalPath == "" {
		c.JournalPath = "cycles.db"
	}

	zero := risk.Config{}
	if c.Risk == zero {
		c.Risk = risk.DefaultConfig()
	}
	if c.Safety.MaxOrderLots == 0 {
		c.Safety.MaxOrderLots = 10
	}
}
