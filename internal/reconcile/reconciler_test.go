package reconcile

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubReader struct {
	value decimal.Decimal
	err   error
}

func (s stubReader) Balance(ctx context.Context) (decimal.Decimal, error) {
	return s.value, s.err
}

func (s stubReader) OutstandingTotal(ctx context.Context) (decimal.Decimal, error) {
	return s.value, s.err
}

func TestReconciler_Run(t *testing.T) {
	ctx := context.Background()

	t.Run("balanced", func(t *testing.T) {
		amount := decimal.RequireFromString("4.5")
		rec := New(stubReader{value: amount}, stubReader{value: amount})

		report, err := rec.Run(ctx)
		require.NoError(t, err)
		assert.True(t, report.Balanced)
		assert.True(t, report.CustodiedBalance.Equal(amount))
	})

	t.Run("drift", func(t *testing.T) {
		rec := New(
			stubReader{value: decimal.RequireFromString("4.5")},
			stubReader{value: decimal.RequireFromString("3.0")},
		)

		report, err := rec.Run(ctx)
		require.NoError(t, err)
		assert.False(t, report.Balanced)
	})

	t.Run("custody read failure", func(t *testing.T) {
		boom := errors.New("db down")
		rec := New(stubReader{err: boom}, stubReader{})

		_, err := rec.Run(ctx)
		assert.ErrorIs(t, err, boom)
	})
}
