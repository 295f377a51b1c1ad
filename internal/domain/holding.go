package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// costPrecision is the number of decimal places kept for average cost basis
const costPrecision = 8

// Holding represents a user's current position in one ticker symbol
type Holding struct {
	UserID     uuid.UUID       `json:"-"`
	Symbol     string          `json:"symbol"`
	Name       string          `json:"name"`
	Shares     int64           `json:"shares"`
	Price      decimal.Decimal `json:"price"`       // Price per share at the last trade
	AvgCost    decimal.Decimal `json:"avg_cost"`    // Average cost basis per share
	TotalValue decimal.Decimal `json:"total_value"` // Shares × Price, frozen at the last trade
	UpdatedAt  time.Time       `json:"updated_at"`
}

// Transaction is an immutable record of one buy (positive shares) or sell (negative shares)
type Transaction struct {
	ID         uuid.UUID       `json:"id"`
	UserID     uuid.UUID       `json:"-"`
	Symbol     string          `json:"symbol"`
	Shares     int64           `json:"shares"`
	Price      decimal.Decimal `json:"price"`
	ExecutedAt time.Time       `json:"executed_at"`
}

// Portfolio is the read model returned by the trading service
type Portfolio struct {
	Holdings        []*Holding      `json:"holdings"`
	Cash            decimal.Decimal `json:"cash"`
	HoldingsValue   decimal.Decimal `json:"holdings_value"`
	Total           decimal.Decimal `json:"total"`
	StartingBalance decimal.Decimal `json:"starting_balance"`
}

// NewHolding returns an empty position, ready for ApplyBuy
func NewHolding(userID uuid.UUID, symbol, name string) *Holding {
	return &Holding{UserID: userID, Symbol: symbol, Name: name}
}

// ApplyBuy adds shares bought at price and revalues the position at that price
func (h *Holding) ApplyBuy(shares int64, price decimal.Decimal, at time.Time) {
	held := decimal.NewFromInt(h.Shares)
	bought := decimal.NewFromInt(shares)
	total := held.Add(bought)

	cost := h.AvgCost.Mul(held).Add(price.Mul(bought))
	h.AvgCost = cost.Div(total).Round(costPrecision)

	h.Shares += shares
	h.Price = price
	h.TotalValue = price.Mul(total)
	h.UpdatedAt = at
}

// ApplySell removes shares sold at price. It reports whether the position is now closed.
// The caller must have checked shares <= h.Shares.
func (h *Holding) ApplySell(shares int64, price decimal.Decimal, at time.Time) (closed bool) {
	h.Shares -= shares
	h.Price = price
	h.TotalValue = price.Mul(decimal.NewFromInt(h.Shares))
	h.UpdatedAt = at
	return h.Shares == 0
}

// IsBuy reports whether the transaction added shares
func (t *Transaction) IsBuy() bool {
	return t.Shares > 0
}

// Amount is the signed cash value of the trade: positive for buys, negative for sells
func (t *Transaction) Amount() decimal.Decimal {
	return t.Price.Mul(decimal.NewFromInt(t.Shares))
}

// NewPortfolio computes the totals for a set of holdings
func NewPortfolio(holdings []*Holding, cash, startingBalance decimal.Decimal) *Portfolio {
	value := decimal.Zero
	for _, h := range holdings {
		value = value.Add(h.TotalValue)
	}
	if holdings == nil {
		holdings = []*Holding{}
	}
	return &Portfolio{
		Holdings:        holdings,
		Cash:            cash,
		HoldingsValue:   value,
		Total:           cash.Add(value),
		StartingBalance: startingBalance,
	}
}
