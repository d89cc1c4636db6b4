package ta

import "math"

// SMA returns the simple moving average over the last n closes.
func SMA(closes []float64, n int) float64 {
	if len(closes) < n || n <= 0 {
		return math.NaN()
	}
	sum := 0.0
	for i := len(closes) - n; i < len(closes); i++ {
		sum += closes[i]
	}
	return sum / float64(n)
}

// SMAAt returns the simple moving average over the n closes ending at index
// i (inclusive). Used for crossover detection against the previous bar.
func SMAAt(closes []float64, n, i int) float64 {
	if n <= 0 || i+1 < n || i >= len(closes) {
		return math.NaN()
	}
	sum := 0.0
	for j := i + 1 - n; j <= i; j++ {
		sum += closes[j]
	}
	return sum / float64(n)
}

// RSI over the trailing period ending at the last close.
func RSI(closes []float64, period int) float64 {
	return RSIAt(closes, period, len(closes)-1)
}

// RSIAt computes RSI over the period ending at index i.
func RSIAt(closes []float64, period, i int) float64 {
	if period <= 0 || i < period || i >= len(closes) {
		return math.NaN()
	}
	gain, loss := 0.0, 0.0
	for j := i - period + 1; j <= i; j++ {
		d := closes[j] - closes[j-1]
		if d > 0 {
			gain += d
		} else {
			loss -= d
		}
	}
	if loss == 0 {
		return 100.0
	}
	rs := (gain / float64(period)) / (loss / float64(period))
	return 100.0 - (100.0 / (1.0 + rs))
}

// ATRAt computes the average true range over the period ending at index i.
func ATRAt(highs, lows, closes []float64, period, i int) float64 {
	if len(highs) != len(lows) || len(lows) != len(closes) {
		return math.NaN()
	}
	if period <= 0 || i < period || i >= len(closes) {
		return math.NaN()
	}
	sum := 0.0
	for j := i - period + 1; j <= i; j++ {
		tr1 := highs[j] - lows[j]
		tr2 := math.Abs(highs[j] - closes[j-1])
		tr3 := math.Abs(lows[j] - closes[j-1])
		sum += math.Max(tr1, math.Max(tr2, tr3))
	}
	return sum / float64(period)
}

// ATR over the trailing period ending at the last bar.
func ATR(highs, lows, closes []float64, period int) float64 {
	return ATRAt(highs, lows, closes, period, len(closes)-1)
}
