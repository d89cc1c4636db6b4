// Package market holds instrument metadata and pip arithmetic shared by the
// risk layer and the execution pipeline.
package market

import "strings"

// LotSize is the broker-standard unit: 100,000 base-currency units per lot.
const LotSize = 100_000

// Pip values in account currency ($) per lot per pip.
const (
	PipValueUSD = 10.0 // standard for USD-quoted pairs (EURUSD, GBPUSD, ...)
	PipValueJPY = 6.5  // fallback for JPY pairs when no price is available
)

// IsJPYPair reports whether the pair is quoted in Japanese yen.
func IsJPYPair(symbol string) bool {
	return strings.Contains(strings.ToUpper(symbol), "JPY")
}

// PointSize returns the minimum meaningful price increment for the pair:
// 0.01 for JPY-quoted pairs, 0.0001 otherwise.
func PointSize(symbol string) float64 {
	if IsJPYPair(symbol) {
		return 0.01
	}
	return 0.0001
}

// PipValuePerLot returns the $ value of one pip for one standard lot.
// For JPY pairs the value scales inversely with the exchange rate:
// (0.01 / price) * 100,000. When the price is unavailable the static
// fallback constant is used instead.
func PipValuePerLot(symbol string, price float64) float64 {
	if IsJPYPair(symbol) {
		if price > 0 {
			return (0.01 / price) * LotSize
		}
		return PipValueJPY
	}
	return PipValueUSD
}
