// Package state persists "last candle processed" per (symbol, timeframe) so
// a closed candle is never re-analyzed after a restart.
package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// CandleStore maps "{symbol}_{timeframe}" to the single most recent processed
// candle timestamp (ISO-8601). Only the latest boundary is tracked, not a
// set, so an out-of-order older candle is not caught by this store alone.
//
// The mutex makes read-check-then-write a critical section; the reference
// design assumed single-instance execution and trusted wall-clock spacing.
type CandleStore struct {
	mu   sync.Mutex
	path string
}

func NewCandleStore(path string) (*CandleStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}
	return &CandleStore{path: path}, nil
}

func stateKey(symbol, timeframe string) string {
	return symbol + "_" + timeframe
}

// IsCandleProcessed reports whether ts is the recorded boundary for the
// (symbol, timeframe) pair.
func (s *CandleStore) IsCandleProcessed(symbol, timeframe string, ts time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.load()
	if err != nil {
		return false, err
	}
	return st[stateKey(symbol, timeframe)] == ts.UTC().Format(time.RFC3339), nil
}

// MarkCandleProcessed records ts as the latest analyzed boundary.
func (s *CandleStore) MarkCandleProcessed(symbol, timeframe string, ts time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.load()
	if err != nil {
		return err
	}
	st[stateKey(symbol, timeframe)] = ts.UTC().Format(time.RFC3339)
	return s.save(st)
}

func (s *CandleStore) load() (map[string]string, error) {
	b, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read candle state: %w", err)
	}

	st := map[string]string{}
	if err := json.Unmarshal(b, &st); err != nil {
		// Corrupt state file: start over rather than wedge the pipeline.
		return map[string]string{}, nil
	}
	return st, nil
}

func (s *CandleStore) save(st map[string]string) error {
	b, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.path, b, 0o644); err != nil {
		return fmt.Errorf("save candle state: %w", err)
	}
	return nil
}
