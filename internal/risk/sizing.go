package risk

import (
	"fmt"
	"math"

	"forex-agent/internal/market"
	"forex-agent/internal/types"
)

// Sized is the order fragment produced by position sizing: concrete lot size
// plus absolute stop/target prices on the correct side of the direction.
type Sized struct {
	Lots        float64
	StopPrice   float64
	TargetPrice float64
	SLPips      float64
	TPPips      float64
	RiskAmount  float64
}

// Sizer converts an approved signal into a lot size. Fail-closed policy: a
// computed size below the configured minimum is rejected, never clamped up.
type Sizer struct {
	cfg Config
}

func NewSizer(cfg Config) *Sizer {
	return &Sizer{cfg: cfg}
}

// SizePosition derives {lots, stop, target} from the signal and snapshot.
// The returned Decision explains rejections; Sized is only meaningful when
// the decision is allowed.
func (s *Sizer) SizePosition(signal types.Signal, snap types.AccountSnapshot) (Sized, Decision) {
	if signal.Direction == types.Hold {
		return Sized{}, reject(ReasonSignalHold, nil)
	}
	if snap.Equity <= 0 {
		return Sized{}, reject(ReasonEquityZeroOrNegative, map[string]string{
			"current": fmt.Sprintf("$%.2f", snap.Equity),
		})
	}

	price, ok := signal.ReferencePrice()
	if !ok {
		return Sized{}, reject(ReasonMissingReferencePrice, map[string]string{
			"symbol": signal.Symbol,
		})
	}

	pointSize := market.PointSize(signal.Symbol)

	slPips, tpPips := s.stopDistances(signal, price, pointSize)
	if slPips < s.cfg.MinSLPips {
		return Sized{}, reject(ReasonStopDistanceInvalid, map[string]string{
			"sl_pips": fmt.Sprintf("%.1f", slPips),
			"minimum": fmt.Sprintf("%.1f", s.cfg.MinSLPips),
		})
	}

	stopPrice, targetPrice := levels(signal.Direction, price, slPips, tpPips, pointSize)

	riskAmount := snap.Equity * s.cfg.RiskPerTradePct / 100.0
	riskAmount = math.Min(riskAmount, snap.Equity)

	pipValue := market.PipValuePerLot(signal.Symbol, price)
	if pipValue <= 0 || slPips <= 0 {
		return Sized{}, reject(ReasonStopDistanceInvalid, map[string]string{
			"sl_pips":   fmt.Sprintf("%.1f", slPips),
			"pip_value": fmt.Sprintf("%.4f", pipValue),
		})
	}

	lots := roundLots(riskAmount / (slPips * pipValue))
	if lots < s.cfg.MinLotSize {
		return Sized{}, reject(ReasonSizeBelowMinimum, map[string]string{
			"calculated": fmt.Sprintf("%.2f", lots),
			"minimum":    fmt.Sprintf("%.2f", s.cfg.MinLotSize),
		})
	}

	return Sized{
		Lots:        lots,
		StopPrice:   stopPrice,
		TargetPrice: targetPrice,
		SLPips:      slPips,
		TPPips:      tpPips,
		RiskAmount:  riskAmount,
	}, allow()
}

// stopDistances derives SL/TP distances in pips. When the strategy supplied
// absolute stop/target prices those win; otherwise the config defaults apply.
func (s *Sizer) stopDistances(signal types.Signal, price, pointSize float64) (slPips, tpPips float64) {
	slPips = s.cfg.SLPipsDefault
	tpPips = s.cfg.TPPipsDefault

	if signal.StopLoss > 0 {
		slPips = math.Abs(price-signal.StopLoss) / pointSize
	}
	if signal.TakeProfit > 0 {
		tpPips = math.Abs(signal.TakeProfit-price) / pointSize
	}
	return slPips, tpPips
}

// levels places stop/target in absolute price on the correct side.
func levels(dir types.Direction, price, slPips, tpPips, pointSize float64) (stop, target float64) {
	slDist := slPips * pointSize
	tpDist := tpPips * pointSize
	if dir == types.Long {
		return price - slDist, price + tpDist
	}
	return price + slDist, price - tpDist
}

// roundLots rounds to the canonical 2-decimal (mini lot) precision.
func roundLots(lots float64) float64 {
	return math.Round(lots*100) / 100
}
