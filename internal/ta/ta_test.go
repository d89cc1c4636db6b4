package ta

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSMA(t *testing.T) {
	t.Parallel()

	closes := []float64{1, 2, 3, 4, 5}
	assert.InDelta(t, 4.0, SMA(closes, 3), 1e-9) // (3+4+5)/3
	assert.InDelta(t, 3.0, SMA(closes, 5), 1e-9)
	assert.True(t, math.IsNaN(SMA(closes, 6)), "insufficient data")
	assert.True(t, math.IsNaN(SMA(closes, 0)))
}

func TestSMAAt(t *testing.T) {
	t.Parallel()

	closes := []float64{1, 2, 3, 4, 5}
	assert.InDelta(t, 2.0, SMAAt(closes, 3, 2), 1e-9) // (1+2+3)/3
	assert.InDelta(t, 4.0, SMAAt(closes, 3, 4), 1e-9)
	assert.True(t, math.IsNaN(SMAAt(closes, 3, 1)), "window extends before start")
	assert.True(t, math.IsNaN(SMAAt(closes, 3, 5)), "index out of range")

	// SMAAt at the last index must agree with SMA.
	assert.Equal(t, SMA(closes, 3), SMAAt(closes, 3, len(closes)-1))
}

func TestRSI(t *testing.T) {
	t.Parallel()

	// Monotonic rise: no losses, RSI pegs at 100.
	up := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15}
	assert.Equal(t, 100.0, RSI(up, 14))

	// Monotonic fall: no gains, RSI = 0.
	down := []float64{15, 14, 13, 12, 11, 10, 9, 8, 7, 6, 5, 4, 3, 2, 1}
	assert.InDelta(t, 0.0, RSI(down, 14), 1e-9)

	// Equal gains and losses balance to 50.
	flat := []float64{10, 11, 10, 11, 10, 11, 10, 11, 10, 11, 10, 11, 10, 11, 10}
	assert.InDelta(t, 50.0, RSI(flat, 14), 1e-9)

	assert.True(t, math.IsNaN(RSI([]float64{1, 2}, 14)), "insufficient data")
}

func TestATR(t *testing.T) {
	t.Parallel()

	n := 16
	highs := make([]float64, n)
	lows := make([]float64, n)
	closes := make([]float64, n)
	for i := 0; i < n; i++ {
		highs[i] = 11
		lows[i] = 9
		closes[i] = 10
	}

	// Constant 2-point range with closes inside it: ATR is the range.
	assert.InDelta(t, 2.0, ATR(highs, lows, closes, 14), 1e-9)

	assert.True(t, math.IsNaN(ATR(highs[:3], lows[:3], closes[:3], 14)))
	assert.True(t, math.IsNaN(ATR(highs, lows[:4], closes, 14)), "mismatched lengths")
}

func TestATRGapsUsePreviousClose(t *testing.T) {
	t.Parallel()

	// A gap up: true range measured from the prior close, not the bar range.
	highs := []float64{10, 20}
	lows := []float64{9, 19}
	closes := []float64{10, 20}

	got := ATRAt(highs, lows, closes, 1, 1)
	assert.InDelta(t, 10.0, got, 1e-9) // |20-10| beats 20-19
}
