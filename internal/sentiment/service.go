// Package sentiment derives a coarse news mood per currency pair. The mood
// only vetoes signals that trade directly against it, so the whole package
// degrades to NEUTRAL on any failure.
package sentiment

import (
	"context"
	"sync"
	"time"

	"forex-agent/internal/interfaces"
	"forex-agent/internal/logger"
	"forex-agent/internal/types"
)

// ServiceConfig tunes the news sentiment service.
type ServiceConfig struct {
	Enabled        bool
	MaxHeadlines   int
	CacheDuration  time.Duration
	ScraperTimeout time.Duration
}

func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		Enabled:        false,
		MaxHeadlines:   15,
		CacheDuration:  1 * time.Hour,
		ScraperTimeout: 30 * time.Second,
	}
}

// Service scrapes, scores and caches sentiment per symbol.
type Service struct {
	scraper  *Scraper
	analyzer Analyzer
	cfg      ServiceConfig

	mu    sync.RWMutex
	cache map[string]cacheEntry
}

type cacheEntry struct {
	mood    types.Sentiment
	fetched time.Time
}

var _ interfaces.SentimentProvider = (*Service)(nil)

func NewService(cfg ServiceConfig) *Service {
	return &Service{
		scraper: NewScraper(cfg.ScraperTimeout),
		cfg:     cfg,
		cache:   make(map[string]cacheEntry),
	}
}

// Sentiment returns the cached or freshly scraped mood for symbol. Scrape
// failures log and return NEUTRAL so the trading cycle keeps going.
func (s *Service) Sentiment(ctx context.Context, symbol string) (types.Sentiment, error) {
	if !s.cfg.Enabled {
		return types.SentimentNeutral, nil
	}

	if mood, ok := s.cached(symbol); ok {
		return mood, nil
	}

	headlines, err := s.scraper.ScrapeHeadlines(ctx, symbol, s.cfg.MaxHeadlines)
	if err != nil || len(headlines) == 0 {
		if err != nil {
			logger.ErrorWithErr(ctx, "Sentiment fetch failed, using NEUTRAL", err, "symbol", symbol)
		}
		return types.SentimentNeutral, nil
	}

	score, bullish, bearish := s.analyzer.Score(headlines)
	mood := s.analyzer.Classify(score)

	logger.Info(ctx, "Sentiment scored", "symbol", symbol, "mood", string(mood),
		"score", score, "bullish", bullish, "bearish", bearish, "headlines", len(headlines))

	s.store(symbol, mood)
	return mood, nil
}

func (s *Service) cached(symbol string) (types.Sentiment, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.cache[symbol]
	if !ok || time.Since(entry.fetched) > s.cfg.CacheDuration {
		return types.SentimentNeutral, false
	}
	return entry.mood, true
}

func (s *Service) store(symbol string, mood types.Sentiment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache[symbol] = cacheEntry{mood: mood, fetched: time.Now()}
}
