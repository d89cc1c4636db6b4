package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"forex-agent/internal/account"
	"forex-agent/internal/broker/brokerobs"
	"forex-agent/internal/broker/ig"
	"forex-agent/internal/broker/mock"
	"forex-agent/internal/engine"
	"forex-agent/internal/interfaces"
	"forex-agent/internal/journal"
	"forex-agent/internal/logger"
	"forex-agent/internal/notify"
	"forex-agent/internal/provider"
	"forex-agent/internal/runctx"
	"forex-agent/internal/sentiment"
	"forex-agent/internal/state"
	"forex-agent/internal/store"
	"forex-agent/internal/strategy"
	"forex-agent/internal/trace"
)

// application holds the wired pipeline and its teardown.
type application struct {
	cfg    *store.Config
	run    runctx.RunContext
	engine *engine.Engine

	journal *journal.Journal
}

func (a *application) shutdown() {
	if a.journal != nil {
		_ = a.journal.Close()
	}
	_ = trace.Shutdown(context.Background())
}

func bootstrap(configPath string) (*application, error) {
	_ = godotenv.Load()

	if err := logger.Init(); err != nil {
		return nil, fmt.Errorf("initialize logger: %w", err)
	}
	if err := trace.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize tracer: %v\n", err)
	}

	cfg, err := store.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	run := runctx.New(cfg.Mode)
	ctx := runctx.WithRun(context.Background(), run)

	rawBroker, err := buildBroker(cfg)
	if err != nil {
		return nil, err
	}

	// The provider is built from the raw broker: the obs wrapper only exposes
	// the Broker surface, not price history.
	dataProvider, err := buildProvider(cfg, rawBroker)
	if err != nil {
		return nil, err
	}

	brk := brokerobs.Wrap(rawBroker)

	strat, err := strategy.New(strategy.Kind(cfg.Strategy.Name), cfg.Strategy.Params)
	if err != nil {
		return nil, err
	}

	candleState, err := state.NewCandleStore(cfg.StatePath)
	if err != nil {
		return nil, err
	}

	jnl, err := journal.Open(cfg.JournalPath)
	if err != nil {
		return nil, err
	}

	var notifier interfaces.Notifier = notify.Noop{}
	if os.Getenv("DISCORD_WEBHOOK_URL") != "" {
		notifier = notify.NewDiscord()
	}

	accounts := account.NewManager(cfg.Account.LedgerPath, cfg.Account.InitialBalance)

	eng := engine.New(cfg, engine.Deps{
		Broker:    brk,
		Provider:  dataProvider,
		Strategy:  strat,
		Sentiment: sentiment.NewService(cfg.SentimentConfig()),
		Notifier:  notifier,
		Accounts:  accounts,
		State:     candleState,
		Journal:   jnl,
	})

	logger.Info(ctx, "Pipeline wired",
		"broker", cfg.Broker,
		"data_provider", cfg.Data.Provider,
		"strategy", strat.Name(),
		"mode", cfg.Mode,
	)

	return &application{cfg: cfg, run: run, engine: eng, journal: jnl}, nil
}

// buildBroker selects the broker backend. DRY_RUN always gets the mock; the
// IG client is reserved for LIVE mode with real credentials.
func buildBroker(cfg *store.Config) (interfaces.Broker, error) {
	if cfg.Mode == "DRY_RUN" || cfg.Broker == "mock" {
		return mock.New(), nil
	}

	igCfg, err := ig.ConfigFromEnv(cfg.Instruments)
	if err != nil {
		return nil, err
	}
	return ig.New(igCfg), nil
}

// buildProvider selects the candle source and wraps it with retry.
func buildProvider(cfg *store.Config, brk interfaces.Broker) (interfaces.DataProvider, error) {
	var base interfaces.DataProvider
	switch cfg.Data.Provider {
	case "mock":
		base = &provider.Mock{}
	case "broker":
		igClient, ok := brk.(interfaces.DataProvider)
		if !ok {
			return nil, fmt.Errorf("data.provider 'broker' requires a broker with price history (broker: %s)", cfg.Broker)
		}
		base = igClient
	default:
		return nil, fmt.Errorf("unknown data provider %q", cfg.Data.Provider)
	}
	return provider.NewRetry(base, cfg.Data.RetryAttempts, cfg.RetryDelay()), nil
}
