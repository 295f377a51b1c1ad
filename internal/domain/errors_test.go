package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_Is(t *testing.T) {
	err := fmt.Errorf("buy: %w", NewInsufficientSharesError(5, 3))

	assert.True(t, errors.Is(err, KindInsufficientShares))
	assert.False(t, errors.Is(err, KindInsufficientFunds))

	e, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, "insufficient_shares", e.Code)
	assert.Contains(t, e.Message, "requested 5, holding 3")
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewStoreUnavailableError(cause)

	assert.True(t, errors.Is(err, cause))
	assert.True(t, errors.Is(err, KindStoreUnavailable))
	assert.Equal(t, "internal error", err.Message)
}

func TestNewInsufficientFundsError(t *testing.T) {
	err := NewInsufficientFundsError(d("1000"), d("999.5"))
	assert.Equal(t, KindInsufficientFunds, err.Kind)
	assert.Equal(t, "cannot afford: cost 1000.00 exceeds cash 999.50", err.Message)
}
