package journal

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T) *Journal {
	t.Helper()
	j, err := Open(filepath.Join(t.TempDir(), "data", "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { j.Close() })
	return j
}

func TestRecordAndReadCycles(t *testing.T) {
	t.Parallel()
	j := openTemp(t)

	base := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)
	records := []CycleRecord{
		{RunID: "run-1", Time: base, Symbol: "USDJPY", Price: 150.12, Signal: "HOLD", Sentiment: "NEUTRAL", Decision: "HOLD", Reason: "No actionable signal"},
		{RunID: "run-1", Time: base.Add(time.Hour), Symbol: "USDJPY", Price: 150.55, Signal: "LONG", Sentiment: "BULLISH", Decision: "FILLED", Size: 0.2, Reason: "Executed"},
		{RunID: "run-2", Time: base, Symbol: "EURUSD", Price: 1.1012, Signal: "SHORT", Sentiment: "NEUTRAL", Decision: "BLOCKED_RISK", Reason: "DAILY_LOSS_LIMIT"},
	}
	for _, r := range records {
		require.NoError(t, j.RecordCycle(r))
	}

	got, err := j.CyclesByRun("run-1")
	require.NoError(t, err)
	require.Len(t, got, 2)

	// Oldest first.
	assert.Equal(t, "HOLD", got[0].Decision)
	assert.Equal(t, "FILLED", got[1].Decision)
	assert.Equal(t, 0.2, got[1].Size)
	assert.True(t, got[1].Time.Equal(base.Add(time.Hour)))

	other, err := j.CyclesByRun("run-2")
	require.NoError(t, err)
	require.Len(t, other, 1)
	assert.Equal(t, "BLOCKED_RISK", other[0].Decision)
}

func TestRecordCycleDefaultsTime(t *testing.T) {
	t.Parallel()
	j := openTemp(t)

	require.NoError(t, j.RecordCycle(CycleRecord{RunID: "run-3", Symbol: "USDJPY", Decision: "SKIPPED"}))

	got, err := j.CyclesByRun("run-3")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.False(t, got[0].Time.IsZero())
	assert.WithinDuration(t, time.Now().UTC(), got[0].Time, time.Minute)
}

func TestCyclesByRunUnknown(t *testing.T) {
	t.Parallel()
	j := openTemp(t)

	got, err := j.CyclesByRun("no-such-run")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestOpenCreatesParentDir(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "deep", "nested", "journal.db")
	j, err := Open(path)
	require.NoError(t, err)
	defer j.Close()

	require.NoError(t, j.RecordCycle(CycleRecord{RunID: "run-4", Decision: "HOLD"}))
}
