package risk

import (
	"context"
	"fmt"

	"forex-agent/internal/interfaces"
	"forex-agent/internal/logger"
	"forex-agent/internal/types"
)

// Rejection reason codes. These are expected business outcomes, not errors.
const (
	ReasonOK                    = "OK"
	ReasonEquityZeroOrNegative  = "EQUITY_ZERO_OR_NEGATIVE"
	ReasonDailyLossLimit        = "DAILY_LOSS_LIMIT"
	ReasonMaxTradesLimit        = "MAX_TRADES_LIMIT"
	ReasonMaxExposureLimit      = "MAX_EXPOSURE_LIMIT"
	ReasonSignalHold            = "SIGNAL_HOLD"
	ReasonMissingReferencePrice = "MISSING_REFERENCE_PRICE"
	ReasonStopDistanceInvalid   = "STOP_DISTANCE_INVALID"
	ReasonSizeBelowMinimum      = "SIZE_BELOW_MINIMUM"
)

// Decision is the outcome of one limit check. Detail carries current/limit
// values for alerting and the journal.
type Decision struct {
	Allowed bool
	Reason  string
	Detail  map[string]string
}

func allow() Decision {
	return Decision{Allowed: true, Reason: ReasonOK}
}

func reject(reason string, detail map[string]string) Decision {
	return Decision{Allowed: false, Reason: reason, Detail: detail}
}

// checkDailyLimits is a pure predicate over a snapshot: no logging, no
// notifier, so tests can table-drive it directly.
func checkDailyLimits(snap types.AccountSnapshot, cfg Config) Decision {
	if snap.Equity <= 0 {
		return reject(ReasonEquityZeroOrNegative, map[string]string{
			"current": fmt.Sprintf("$%.2f", snap.Equity),
			"limit":   "> $0",
			"action":  "Trading HALTED - critical error",
		})
	}

	lossPct := snap.DailyLossCurrent / snap.Equity * 100.0
	if lossPct >= cfg.MaxDailyLossPct {
		return reject(ReasonDailyLossLimit, map[string]string{
			"current": fmt.Sprintf("%.2f%%", lossPct),
			"limit":   fmt.Sprintf("%.2f%%", cfg.MaxDailyLossPct),
			"action":  "Trading PAUSED until next day",
		})
	}

	if snap.DailyTradesCount >= cfg.MaxTradesPerDay {
		return reject(ReasonMaxTradesLimit, map[string]string{
			"current": fmt.Sprintf("%d", snap.DailyTradesCount),
			"limit":   fmt.Sprintf("%d", cfg.MaxTradesPerDay),
			"action":  "No more trades today",
		})
	}

	return allow()
}

// checkExposureLimits is the pure projected-exposure predicate.
func checkExposureLimits(snap types.AccountSnapshot, newSize float64, cfg Config) Decision {
	currentLots := snap.OpenLots()
	projected := currentLots + newSize

	if projected > cfg.MaxOpenLots {
		return reject(ReasonMaxExposureLimit, map[string]string{
			"current": fmt.Sprintf("%.2f lots", currentLots),
			"limit":   fmt.Sprintf("%.2f lots", cfg.MaxOpenLots),
			"action":  fmt.Sprintf("Rejected new order of %.2f lots", newSize),
		})
	}

	return allow()
}

// Limiter evaluates daily-loss, trade-count and exposure ceilings. Every
// rejection is reported through the notifier side channel; approvals emit
// nothing. The side effect is isolated here so the checks above stay pure.
type Limiter struct {
	cfg      Config
	notifier interfaces.Notifier
}

func NewLimiter(cfg Config, notifier interfaces.Notifier) *Limiter {
	return &Limiter{cfg: cfg, notifier: notifier}
}

func (l *Limiter) CheckDailyLimits(ctx context.Context, snap types.AccountSnapshot) Decision {
	d := checkDailyLimits(snap, l.cfg)
	l.report(ctx, d)
	return d
}

func (l *Limiter) CheckExposureLimits(ctx context.Context, snap types.AccountSnapshot, newSize float64) Decision {
	d := checkExposureLimits(snap, newSize, l.cfg)
	l.report(ctx, d)
	return d
}

func (l *Limiter) report(ctx context.Context, d Decision) {
	if d.Allowed {
		return
	}
	logger.Risk(ctx, "", d.Reason, "detail", fmt.Sprintf("%v", d.Detail))
	if l.notifier != nil {
		l.notifier.SendRiskAlert(ctx, d.Reason, d.Detail)
	}
}
