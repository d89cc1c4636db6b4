package strategy

import (
	"context"
	"fmt"
	"math"

	"forex-agent/internal/interfaces"
	"forex-agent/internal/ta"
	"forex-agent/internal/types"
)

// SMACross is the baseline fast/slow moving-average crossover with an
// optional RSI confirmation filter. Stops and targets are ATR multiples.
type SMACross struct {
	fastPeriod   int
	slowPeriod   int
	useRSIFilter bool
}

const (
	rsiPeriod = 14
	atrPeriod = 14

	slMultiplier = 1.5
	tpMultiplier = 3.0

	rsiOverbought = 70.0
	rsiBullishMin = 50.0
	rsiOversold   = 30.0
	rsiBearishMax = 50.0
)

var _ interfaces.Strategy = (*SMACross)(nil)

func NewSMACross(p Params) *SMACross {
	fast, slow := p.FastPeriod, p.SlowPeriod
	if fast <= 0 {
		fast = 50
	}
	if slow <= 0 {
		slow = 200
	}
	return &SMACross{fastPeriod: fast, slowPeriod: slow, useRSIFilter: p.UseRSIFilter}
}

func (s *SMACross) Name() string { return string(KindSMACross) }

// Calculate scans the series for crossovers of the fast SMA through the slow
// SMA and emits one signal per crossing bar.
func (s *SMACross) Calculate(_ context.Context, candles []types.Candle, sc interfaces.StrategyContext) ([]types.Signal, error) {
	minBars := s.slowPeriod + 1
	if len(candles) < minBars {
		return nil, nil
	}

	closes := make([]float64, len(candles))
	highs := make([]float64, len(candles))
	lows := make([]float64, len(candles))
	for i, c := range candles {
		closes[i] = c.Close
		highs[i] = c.High
		lows[i] = c.Low
	}

	var signals []types.Signal
	for i := s.slowPeriod; i < len(candles); i++ {
		prevFast := ta.SMAAt(closes, s.fastPeriod, i-1)
		prevSlow := ta.SMAAt(closes, s.slowPeriod, i-1)
		curFast := ta.SMAAt(closes, s.fastPeriod, i)
		curSlow := ta.SMAAt(closes, s.slowPeriod, i)

		rsi := ta.RSIAt(closes, rsiPeriod, i)
		atr := ta.ATRAt(highs, lows, closes, atrPeriod, i)
		if math.IsNaN(rsi) || math.IsNaN(atr) || atr == 0 {
			continue
		}

		bullishCross := prevFast <= prevSlow && curFast > curSlow
		bearishCross := prevFast >= prevSlow && curFast < curSlow

		var sig *types.Signal
		switch {
		case bullishCross:
			sig = s.bullishSignal(candles[i], rsi, atr, sc.Sentiment)
		case bearishCross:
			sig = s.bearishSignal(candles[i], rsi, atr, sc.Sentiment)
		}
		if sig != nil {
			signals = append(signals, *sig)
		}
	}
	return signals, nil
}

func (s *SMACross) bullishSignal(c types.Candle, rsi, atr float64, sentiment types.Sentiment) *types.Signal {
	if sentiment == types.SentimentBearish {
		return nil
	}
	if s.useRSIFilter && !(rsi > rsiBullishMin && rsi < rsiOverbought) {
		return nil
	}
	return s.build(c, types.Long, c.Close-slMultiplier*atr, c.Close+tpMultiplier*atr, rsi, atr, sentiment,
		fmt.Sprintf("SMA(%d) > SMA(%d)", s.fastPeriod, s.slowPeriod))
}

func (s *SMACross) bearishSignal(c types.Candle, rsi, atr float64, sentiment types.Sentiment) *types.Signal {
	if sentiment == types.SentimentBullish {
		return nil
	}
	if s.useRSIFilter && !(rsi > rsiOversold && rsi < rsiBearishMax) {
		return nil
	}
	return s.build(c, types.Short, c.Close+slMultiplier*atr, c.Close-tpMultiplier*atr, rsi, atr, sentiment,
		fmt.Sprintf("SMA(%d) < SMA(%d)", s.fastPeriod, s.slowPeriod))
}

func (s *SMACross) build(c types.Candle, dir types.Direction, stop, target, rsi, atr float64, sentiment types.Sentiment, rationale string) *types.Signal {
	rr := math.Abs(target-c.Close) / math.Abs(c.Close-stop)
	return &types.Signal{
		Timestamp:  c.Timestamp,
		Symbol:     c.Symbol,
		Direction:  dir,
		EntryPrice: c.Close,
		StopLoss:   stop,
		TakeProfit: target,
		Rationale: fmt.Sprintf("%s | ATR=%.5f | RSI=%.1f | Sentiment=%s | RR=%.2f",
			rationale, atr, rsi, sentiment, rr),
		Metadata: map[string]float64{"close": c.Close},
	}
}
