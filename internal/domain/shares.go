package domain

import (
	"strconv"
	"strings"
)

// MaxShares caps a single order
const MaxShares = 1_000_000_000

// ParseShares turns raw form or JSON input into a share count
func ParseShares(raw string) (int64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, NewValidationError("missing_shares", "must provide number of shares")
	}

	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, NewValidationError("invalid_shares", "shares must be a positive whole number")
	}

	return n, ValidateShares(n)
}

// ValidateShares checks the range of an already typed share count
func ValidateShares(n int64) error {
	if n <= 0 || n > MaxShares {
		return NewValidationError("invalid_shares", "shares must be a positive whole number")
	}
	return nil
}

// NormalizeSymbol trims and upper-cases a ticker symbol
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// ValidateSymbol normalizes symbol and rejects an empty one
func ValidateSymbol(symbol string) (string, error) {
	symbol = NormalizeSymbol(symbol)
	if symbol == "" {
		return "", NewValidationError("missing_symbol", "must provide symbol")
	}
	return symbol, nil
}
