package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseShares(t *testing.T) {
	testTable := []struct {
		name   string
		raw    string
		expect int64
		code   string
	}{
		{name: "OK plain number", raw: "10", expect: 10},
		{name: "OK surrounding spaces", raw: "  7 ", expect: 7},
		{name: "OK upper bound", raw: "1000000000", expect: MaxShares},
		{name: "Failed if empty", raw: "", code: "missing_shares"},
		{name: "Failed if blank", raw: "   ", code: "missing_shares"},
		{name: "Failed if zero", raw: "0", code: "invalid_shares"},
		{name: "Failed if negative", raw: "-3", code: "invalid_shares"},
		{name: "Failed if fractional", raw: "1.5", code: "invalid_shares"},
		{name: "Failed if not a number", raw: "ten", code: "invalid_shares"},
		{name: "Failed if above cap", raw: "1000000001", code: "invalid_shares"},
		{name: "Failed if overflow", raw: "99999999999999999999", code: "invalid_shares"},
	}

	for _, testCase := range testTable {
		t.Run(testCase.name, func(t *testing.T) {
			n, err := ParseShares(testCase.raw)
			if testCase.code == "" {
				require.NoError(t, err)
				assert.Equal(t, testCase.expect, n)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, KindValidation))
			e, ok := AsError(err)
			require.True(t, ok)
			assert.Equal(t, testCase.code, e.Code)
		})
	}
}

func TestNormalizeSymbol(t *testing.T) {
	assert.Equal(t, "AAPL", NormalizeSymbol(" aapl "))
	assert.Equal(t, "", NormalizeSymbol("   "))
}

func TestValidateSymbol(t *testing.T) {
	symbol, err := ValidateSymbol(" brk.b ")
	require.NoError(t, err)
	assert.Equal(t, "BRK.B", symbol)

	_, err = ValidateSymbol(" ")
	e, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, "missing_symbol", e.Code)
}
