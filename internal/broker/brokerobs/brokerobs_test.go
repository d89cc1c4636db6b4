package brokerobs

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"forex-agent/internal/broker/mock"
	"forex-agent/internal/types"
)

func TestWrapPassesThrough(t *testing.T) {
	t.Parallel()
	inner := mock.New()
	b := Wrap(inner)
	ctx := context.Background()

	assert.Equal(t, "DEMO", b.AccountType())
	require.NoError(t, b.Connect(ctx))

	bal, err := b.GetBalance(ctx)
	require.NoError(t, err)
	assert.Equal(t, 10000.0, bal.Equity)

	result, err := b.ExecuteOrder(ctx, types.OrderIntent{
		Symbol: "USDJPY", Direction: types.Long, Quantity: 0.2,
	})
	require.NoError(t, err)
	assert.Equal(t, types.StatusFilled, result.Status)
	assert.Equal(t, 1, inner.SubmitCount())
}

func TestWrapPropagatesErrors(t *testing.T) {
	t.Parallel()
	inner := mock.New()
	inner.FailNext(1, errors.New("order rejected upstream"))
	b := Wrap(inner)

	_, err := b.ExecuteOrder(context.Background(), types.OrderIntent{Symbol: "USDJPY", Quantity: 0.1})
	assert.Error(t, err)
}
