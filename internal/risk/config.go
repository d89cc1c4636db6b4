package risk

import "fmt"

// Config holds operator-set risk parameters. Loaded once at process start
// from config.yaml and read-only thereafter.
type Config struct {
	MaxDailyLossPct float64 `yaml:"max_daily_loss_pct"`
	MaxTradesPerDay int     `yaml:"max_trades_per_day"`
	RiskPerTradePct float64 `yaml:"risk_per_trade_pct"`
	MaxOpenLots     float64 `yaml:"max_open_lots"`
	SLPipsDefault   float64 `yaml:"sl_pips_default"`
	TPPipsDefault   float64 `yaml:"tp_pips_default"`
	MinSLPips       float64 `yaml:"min_sl_pips"`
	MinLotSize      float64 `yaml:"min_lot_size"`
	UseTrailingStop bool    `yaml:"use_trailing_stop"`
}

// DefaultConfig mirrors the conservative defaults of the reference platform.
func DefaultConfig() Config {
	return Config{
		MaxDailyLossPct: 2.0,
		MaxTradesPerDay: 5,
		RiskPerTradePct: 1.0,
		MaxOpenLots:     1.0,
		SLPipsDefault:   20.0,
		TPPipsDefault:   40.0,
		MinSLPips:       5.0,
		MinLotSize:      0.01,
	}
}

func (c Config) Validate() error {
	if c.RiskPerTradePct <= 0 || c.RiskPerTradePct > 100 {
		return fmt.Errorf("risk.risk_per_trade_pct must be between 0-100, got %.2f", c.RiskPerTradePct)
	}
	if c.MaxDailyLossPct <= 0 || c.MaxDailyLossPct > 100 {
		return fmt.Errorf("risk.max_daily_loss_pct must be between 0-100, got %.2f", c.MaxDailyLossPct)
	}
	if c.MaxTradesPerDay <= 0 {
		return fmt.Errorf("risk.max_trades_per_day must be positive, got %d", c.MaxTradesPerDay)
	}
	if c.MaxOpenLots <= 0 {
		return fmt.Errorf("risk.max_open_lots must be positive, got %.2f", c.MaxOpenLots)
	}
	if c.SLPipsDefault < c.MinSLPips {
		return fmt.Errorf("risk.sl_pips_default %.1f below min_sl_pips %.1f", c.SLPipsDefault, c.MinSLPips)
	}
	if c.MinLotSize <= 0 {
		return fmt.Errorf("risk.min_lot_size must be positive, got %.2f", c.MinLotSize)
	}
	return nil
}
