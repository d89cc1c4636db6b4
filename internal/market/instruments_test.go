package market

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsJPYPair(t *testing.T) {
	t.Parallel()
	assert.True(t, IsJPYPair("USDJPY"))
	assert.True(t, IsJPYPair("eurjpy"))
	assert.False(t, IsJPYPair("EURUSD"))
}

func TestPointSize(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 0.01, PointSize("USDJPY"))
	assert.Equal(t, 0.0001, PointSize("EURUSD"))
}

func TestPipValuePerLot(t *testing.T) {
	t.Parallel()

	// USD-quoted pairs are flat $10 per pip per lot.
	assert.Equal(t, 10.0, PipValuePerLot("EURUSD", 1.1))

	// JPY pairs scale inversely with price: (0.01/150)*100000.
	assert.InDelta(t, 6.6667, PipValuePerLot("USDJPY", 150.0), 1e-4)
	assert.InDelta(t, 10.0, PipValuePerLot("USDJPY", 100.0), 1e-9)

	// No price available falls back to the static constant.
	assert.Equal(t, PipValueJPY, PipValuePerLot("USDJPY", 0))
}
