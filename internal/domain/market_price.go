package domain

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

// ErrSymbolNotFound is returned by a QuoteProvider when the symbol does not resolve
var ErrSymbolNotFound = errors.New("symbol not found")

// Quote is the current market price and display name of a ticker symbol
type Quote struct {
	Symbol string          `json:"symbol"`
	Name   string          `json:"name"`
	Price  decimal.Decimal `json:"price"`
}

// QuoteProvider looks up current quotes.
// Lookup returns ErrSymbolNotFound for unknown symbols; any other error means the provider is unavailable.
type QuoteProvider interface {
	Lookup(ctx context.Context, symbol string) (*Quote, error)
}
