package state

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkAndCheck(t *testing.T) {
	t.Parallel()
	s, err := NewCandleStore(filepath.Join(t.TempDir(), "state.json"))
	require.NoError(t, err)

	ts := time.Date(2026, 8, 24, 10, 0, 0, 0, time.UTC)

	processed, err := s.IsCandleProcessed("USDJPY", "H1", ts)
	require.NoError(t, err)
	assert.False(t, processed)

	require.NoError(t, s.MarkCandleProcessed("USDJPY", "H1", ts))

	processed, err = s.IsCandleProcessed("USDJPY", "H1", ts)
	require.NoError(t, err)
	assert.True(t, processed)

	// A different timeframe for the same symbol is its own key.
	processed, err = s.IsCandleProcessed("USDJPY", "M15", ts)
	require.NoError(t, err)
	assert.False(t, processed)
}

func TestOnlyLatestBoundaryTracked(t *testing.T) {
	t.Parallel()
	s, err := NewCandleStore(filepath.Join(t.TempDir(), "state.json"))
	require.NoError(t, err)

	older := time.Date(2026, 8, 24, 9, 0, 0, 0, time.UTC)
	newer := older.Add(time.Hour)

	require.NoError(t, s.MarkCandleProcessed("USDJPY", "H1", older))
	require.NoError(t, s.MarkCandleProcessed("USDJPY", "H1", newer))

	// Marking the newer candle replaces the record; the older boundary is
	// forgotten, by design.
	processed, err := s.IsCandleProcessed("USDJPY", "H1", older)
	require.NoError(t, err)
	assert.False(t, processed)

	processed, err = s.IsCandleProcessed("USDJPY", "H1", newer)
	require.NoError(t, err)
	assert.True(t, processed)
}

func TestSurvivesRestart(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "state.json")
	ts := time.Date(2026, 8, 24, 10, 0, 0, 0, time.UTC)

	first, err := NewCandleStore(path)
	require.NoError(t, err)
	require.NoError(t, first.MarkCandleProcessed("USDJPY", "H1", ts))

	// Fresh instance over the same file simulates a process restart.
	second, err := NewCandleStore(path)
	require.NoError(t, err)
	processed, err := second.IsCandleProcessed("USDJPY", "H1", ts)
	require.NoError(t, err)
	assert.True(t, processed)
}

func TestCorruptFileStartsFresh(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	s, err := NewCandleStore(path)
	require.NoError(t, err)

	ts := time.Date(2026, 8, 24, 10, 0, 0, 0, time.UTC)
	processed, err := s.IsCandleProcessed("USDJPY", "H1", ts)
	require.NoError(t, err)
	assert.False(t, processed)

	// The store remains writable after recovering.
	require.NoError(t, s.MarkCandleProcessed("USDJPY", "H1", ts))
	processed, err = s.IsCandleProcessed("USDJPY", "H1", ts)
	require.NoError(t, err)
	assert.True(t, processed)
}
