// Package engine orchestrates one signal-to-order cycle: session filter,
// data fetch, per-candle idempotency, strategy, news veto, risk evaluation,
// safety gating and execution, with exactly one journal row per cycle.
package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"forex-agent/internal/account"
	"forex-agent/internal/execution"
	"forex-agent/internal/filters"
	"forex-agent/internal/interfaces"
	"forex-agent/internal/journal"
	"forex-agent/internal/logger"
	"forex-agent/internal/provider"
	"forex-agent/internal/risk"
	"forex-agent/internal/runctx"
	"forex-agent/internal/safety"
	"forex-agent/internal/state"
	"forex-agent/internal/store"
	"forex-agent/internal/trace"
	"forex-agent/internal/types"
)

// Deps are the injectable collaborators. The engine builds the risk, safety
// and execution layers itself from the config.
type Deps struct {
	Broker    interfaces.Broker
	Provider  interfaces.DataProvider
	Strategy  interfaces.Strategy
	Sentiment interfaces.SentimentProvider
	Notifier  interfaces.Notifier
	Accounts  *account.Manager
	State     *state.CandleStore
	Journal   *journal.Journal
}

type Engine struct {
	cfg        *store.Config
	broker     interfaces.Broker
	provider   interfaces.DataProvider
	strat      interfaces.Strategy
	sentiment  interfaces.SentimentProvider
	notifier   interfaces.Notifier
	accounts   *account.Manager
	state      *state.CandleStore
	journal    *journal.Journal
	limiter    *risk.Limiter
	sizer      *risk.Sizer
	gate       *safety.Gate
	router     *execution.Router
	timeFilter filters.TimeFilter

	now   func() time.Time
	sleep func(time.Duration)

	// mu serializes cycles; an overlapping tick waits rather than racing the
	// candle state read-check-write.
	mu sync.Mutex
}

func New(cfg *store.Config, d Deps) *Engine {
	return &Engine{
		cfg:       cfg,
		broker:    d.Broker,
		provider:  d.Provider,
		strat:     d.Strategy,
		sentiment: d.Sentiment,
		notifier:  d.Notifier,
		accounts:  d.Accounts,
		state:     d.State,
		journal:   d.Journal,
		limiter:   risk.NewLimiter(cfg.Risk, d.Notifier),
		sizer:     risk.NewSizer(cfg.Risk),
		gate:      safety.NewGate(cfg.Safety),
		router:    execution.NewRouter(d.Broker),
		now:       func() time.Time { return time.Now().UTC() },
		sleep:     time.Sleep,
	}
}

// RunCycle executes one full pipeline pass for the configured symbol. The
// returned CycleResult is always populated; err is non-nil only for faults
// that should page the operator, not for business rejections.
func (e *Engine) RunCycle(ctx context.Context) (result *types.CycleResult, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	ctx, span := trace.StartSpan(ctx, "engine.RunCycle")
	defer span.End()

	result = &types.CycleResult{Symbol: e.cfg.Symbol, Signal: types.Hold}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("cycle panic: %v", r)
			result.Decision = "FAILED"
			result.Reason = err.Error()
		}
		if err != nil {
			msg := fmt.Sprintf("Critical pipeline error: %v", err)
			logger.ErrorWithErr(ctx, "Pipeline cycle failed", err, "symbol", e.cfg.Symbol)
			e.notifier.SendError(ctx, msg)
		}
		e.recordCycle(ctx, result)
	}()

	logger.Info(ctx, "Pipeline start", "symbol", e.cfg.Symbol, "timeframe", e.cfg.Timeframe,
		"strategy", e.strat.Name(), "mode", runctx.FromContext(ctx).Mode)

	// Step 1: session filter.
	if open, reason := e.timeFilter.IsTradingAllowed(e.now()); !open {
		logger.Info(ctx, "Trading blocked by time filter", "reason", reason)
		result.Decision = "BLOCKED_TIME"
		result.Reason = "Time: " + reason
		return result, nil
	}

	// Step 2: candle history.
	candles, fetchErr := e.fetchCandles(ctx)
	if fetchErr != nil {
		result.Decision = "FAILED"
		result.Reason = "Data: " + fetchErr.Error()
		return result, fetchErr
	}
	if len(candles) == 0 {
		logger.Warn(ctx, "No candles after retries", "symbol", e.cfg.Symbol)
		result.Decision = "FAILED"
		result.Reason = "Data: no candles returned"
		return result, nil
	}

	last := candles[len(candles)-1]
	result.Price = last.Close

	// Step 3: per-candle idempotency pre-check.
	processed, stateErr := e.state.IsCandleProcessed(e.cfg.Symbol, e.cfg.Timeframe, last.Timestamp)
	if stateErr != nil {
		result.Decision = "FAILED"
		result.Reason = "State: " + stateErr.Error()
		return result, stateErr
	}
	if processed {
		logger.Info(ctx, "Candle already processed, skipping",
			"candle_ts", last.Timestamp.UTC().Format(time.RFC3339))
		result.Decision = "SKIPPED"
		result.Reason = "Idempotency: candle already processed"
		return result, nil
	}

	// Step 4: sentiment, then strategy.
	mood, moodErr := e.sentiment.Sentiment(ctx, e.cfg.Symbol)
	if moodErr != nil {
		mood = types.SentimentNeutral
	}
	result.Sentiment = mood

	signals, stratErr := e.strat.Calculate(ctx, candles, interfaces.StrategyContext{Sentiment: mood})
	if stratErr != nil {
		result.Decision = "FAILED"
		result.Reason = "Strategy: " + stratErr.Error()
		return result, stratErr
	}

	signal, ok := latestActionable(signals, last)
	if !ok {
		logger.Info(ctx, "No signal", "symbol", e.cfg.Symbol)
		result.Decision = "HOLD"
		result.Reason = "Strategy: no signal"
		e.markProcessed(ctx, last.Timestamp)
		return result, nil
	}
	result.Signal = signal.Direction
	logger.Info(ctx, "Signal generated", "symbol", e.cfg.Symbol,
		"direction", string(signal.Direction), "rationale", signal.Rationale)

	// Step 5: news veto against the signal direction.
	if vetoed, vetoReason := newsVeto(signal.Direction, mood); vetoed {
		logger.Info(ctx, "Signal blocked by sentiment", "reason", vetoReason)
		result.Decision = "BLOCKED_NEWS"
		result.Reason = vetoReason
		return result, nil
	}

	// Step 6: risk evaluation against a fresh snapshot.
	e.accounts.SyncFromBroker(ctx, e.broker)
	snap := e.accounts.Snapshot()

	if d := e.limiter.CheckDailyLimits(ctx, snap); !d.Allowed {
		result.Decision = "BLOCKED_RISK"
		result.Reason = d.Reason
		return result, nil
	}

	sized, d := e.sizer.SizePosition(signal, snap)
	if !d.Allowed {
		result.Decision = "BLOCKED_RISK"
		result.Reason = d.Reason
		return result, nil
	}
	result.Size = sized.Lots

	if d := e.limiter.CheckExposureLimits(ctx, snap, sized.Lots); !d.Allowed {
		result.Decision = "BLOCKED_RISK"
		result.Reason = d.Reason
		return result, nil
	}

	// Step 7: safety gate and execution. The candle is marked processed after
	// the attempt regardless of outcome so a failing order is not re-fired
	// blindly every cycle.
	intent := e.buildIntent(signal, sized)

	if !e.gate.ValidateIntent(ctx, intent) {
		result.Decision = "REJECTED_SAFETY"
		result.Reason = "Safety: intent validation failed"
		return result, nil
	}
	if e.broker.AccountType() == "LIVE" && !e.gate.IsLiveAllowed(ctx, e.broker.AccountType()) {
		result.Decision = "BLOCKED_SAFETY"
		result.Reason = "Safety: live trading not confirmed"
		return result, nil
	}

	order := e.router.ExecuteOrder(ctx, intent)
	result.Order = order
	result.Decision = string(order.Status)
	if order.Status.Executed() {
		result.Reason = "Executed"
		e.accounts.RecordTrade()
		e.notifier.SendTradeAlert(ctx, signal, intent, order)
	} else {
		result.Reason = "Exec failed: " + order.ErrorMessage
	}

	e.markProcessed(ctx, last.Timestamp)
	return result, nil
}

// fetchCandles pulls history and re-fetches when the feed has not yet
// published the expected just-closed candle. Stale data after the last
// attempt is processed anyway; the candle state check makes that safe.
func (e *Engine) fetchCandles(ctx context.Context) ([]types.Candle, error) {
	step, err := provider.ParseTimeframe(e.cfg.Timeframe)
	if err != nil {
		return nil, err
	}
	expected := e.now().Truncate(step).Add(-step)

	var candles []types.Candle
	for attempt := 1; attempt <= e.cfg.Data.RetryAttempts; attempt++ {
		candles, err = e.provider.Fetch(ctx, e.cfg.Symbol, e.cfg.Timeframe, e.cfg.CandleLimit)
		if err != nil {
			return nil, err
		}
		if len(candles) == 0 {
			logger.Warn(ctx, "Empty candle response", "attempt", attempt)
		} else {
			lastTS := candles[len(candles)-1].Timestamp.UTC()
			if !lastTS.Before(expected) {
				return candles, nil
			}
			logger.Warn(ctx, "Stale candle data, retrying",
				"last_candle", lastTS.Format(time.RFC3339),
				"expected", expected.Format(time.RFC3339),
				"attempt", attempt, "max_attempts", e.cfg.Data.RetryAttempts)
		}
		if attempt < e.cfg.Data.RetryAttempts {
			e.sleep(e.cfg.RetryDelay())
		}
	}
	return candles, nil
}

func (e *Engine) buildIntent(signal types.Signal, sized risk.Sized) types.OrderIntent {
	intent := types.OrderIntent{
		Symbol:     e.cfg.Symbol,
		Direction:  signal.Direction,
		Quantity:   sized.Lots,
		OrderType:  types.OrderMarket,
		SLDistance: sized.SLPips,
		TPDistance: sized.TPPips,
		CreatedAt:  e.now(),
	}
	intent.IdempotencyKey = safety.IdempotencyKey(intent)
	return intent
}

// markProcessed records the candle boundary; a failure here is logged but
// does not fail the cycle.
func (e *Engine) markProcessed(ctx context.Context, ts time.Time) {
	if err := e.state.MarkCandleProcessed(e.cfg.Symbol, e.cfg.Timeframe, ts); err != nil {
		logger.ErrorWithErr(ctx, "Failed to persist candle state", err,
			"symbol", e.cfg.Symbol, "timeframe", e.cfg.Timeframe)
	}
}

// recordCycle writes the single audit row for this cycle.
func (e *Engine) recordCycle(ctx context.Context, result *types.CycleResult) {
	if e.journal == nil {
		return
	}
	rec := journal.CycleRecord{
		RunID:     runctx.FromContext(ctx).RunID,
		Time:      e.now(),
		Symbol:    result.Symbol,
		Price:     result.Price,
		Signal:    string(result.Signal),
		Sentiment: string(result.Sentiment),
		Decision:  result.Decision,
		Size:      result.Size,
		Reason:    result.Reason,
	}
	if err := e.journal.RecordCycle(rec); err != nil {
		logger.ErrorWithErr(ctx, "Failed to write cycle journal row", err)
	}
}

// latestActionable picks the newest LONG/SHORT signal, and only if it sits
// on the just-closed candle; older crossings are history, not entries.
func latestActionable(signals []types.Signal, last types.Candle) (types.Signal, bool) {
	for i := len(signals) - 1; i >= 0; i-- {
		s := signals[i]
		if s.Direction != types.Long && s.Direction != types.Short {
			continue
		}
		if !s.Timestamp.Equal(last.Timestamp) {
			return types.Signal{}, false
		}
		return s, true
	}
	return types.Signal{}, false
}

// newsVeto blocks a signal that trades directly against the prevailing mood.
func newsVeto(dir types.Direction, mood types.Sentiment) (bool, string) {
	switch {
	case dir == types.Long && mood == types.SentimentBearish:
		return true, "Sentiment bearish vs long"
	case dir == types.Short && mood == types.SentimentBullish:
		return true, "Sentiment bullish vs short"
	}
	return false, ""
}
