package dto

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"finance/internal/domain"
	"finance/internal/utils"
)

// Shares accepts both 5 and "5" in JSON bodies. Parsing and range checks happen in domain.ParseShares.
type Shares string

// UnmarshalJSON keeps the raw token so malformed counts surface as invalid_shares instead of a bind error
func (s *Shares) UnmarshalJSON(b []byte) error {
	raw := strings.TrimSpace(string(b))
	if raw == "null" {
		*s = ""
		return nil
	}

	var str string
	if err := json.Unmarshal(b, &str); err == nil {
		*s = Shares(str)
		return nil
	}

	*s = Shares(raw)
	return nil
}

// TradeRequest is the body of POST /buy and POST /sell
type TradeRequest struct {
	Symbol string `json:"symbol" form:"symbol" validate:"max=16"`
	Shares Shares `json:"shares" form:"shares"`
}

// QuoteOutput represents a quote in API responses
type QuoteOutput struct {
	Symbol       string          `json:"symbol"`
	Name         string          `json:"name"`
	Price        decimal.Decimal `json:"price"`
	PriceDisplay string          `json:"price_display"`
}

// NewQuoteOutput converts a domain quote
func NewQuoteOutput(q *domain.Quote) *QuoteOutput {
	return &QuoteOutput{
		Symbol:       q.Symbol,
		Name:         q.Name,
		Price:        q.Price,
		PriceDisplay: utils.USD(q.Price),
	}
}

// HoldingOutput is one row of the portfolio table
type HoldingOutput struct {
	Symbol            string          `json:"symbol"`
	Name              string          `json:"name"`
	Shares            int64           `json:"shares"`
	Price             decimal.Decimal `json:"price"`
	PriceDisplay      string          `json:"price_display"`
	AvgCost           decimal.Decimal `json:"avg_cost"`
	TotalValue        decimal.Decimal `json:"total_value"`
	TotalValueDisplay string          `json:"total_value_display"`
}

// PortfolioOutput represents the portfolio page
type PortfolioOutput struct {
	Holdings        []*HoldingOutput `json:"holdings"`
	Cash            decimal.Decimal  `json:"cash"`
	CashDisplay     string           `json:"cash_display"`
	HoldingsValue   decimal.Decimal  `json:"holdings_value"`
	Total           decimal.Decimal  `json:"total"`
	TotalDisplay    string           `json:"total_display"`
	StartingBalance decimal.Decimal  `json:"starting_balance"`
}

// NewPortfolioOutput converts a domain portfolio
func NewPortfolioOutput(p *domain.Portfolio) *PortfolioOutput {
	holdings := make([]*HoldingOutput, 0, len(p.Holdings))
	for _, h := range p.Holdings {
		holdings = append(holdings, &HoldingOutput{
			Symbol:            h.Symbol,
			Name:              h.Name,
			Shares:            h.Shares,
			Price:             h.Price,
			PriceDisplay:      utils.USD(h.Price),
			AvgCost:           h.AvgCost,
			TotalValue:        h.TotalValue,
			TotalValueDisplay: utils.USD(h.TotalValue),
		})
	}

	return &PortfolioOutput{
		Holdings:        holdings,
		Cash:            p.Cash,
		CashDisplay:     utils.USD(p.Cash),
		HoldingsValue:   p.HoldingsValue,
		Total:           p.Total,
		TotalDisplay:    utils.USD(p.Total),
		StartingBalance: p.StartingBalance,
	}
}

// TransactionOutput is one row of the history table
type TransactionOutput struct {
	ID                string          `json:"id"`
	Symbol            string          `json:"symbol"`
	Side              string          `json:"side"`
	Shares            int64           `json:"shares"`
	Price             decimal.Decimal `json:"price"`
	PriceDisplay      string          `json:"price_display"`
	ExecutedAt        time.Time       `json:"executed_at"`
	ExecutedAtDisplay string          `json:"executed_at_display"`
}

// NewTransactionOutput converts a domain transaction
func NewTransactionOutput(tx *domain.Transaction) *TransactionOutput {
	side := "SELL"
	if tx.IsBuy() {
		side = "BUY"
	}

	return &TransactionOutput{
		ID:                tx.ID.String(),
		Symbol:            tx.Symbol,
		Side:              side,
		Shares:            tx.Shares,
		Price:             tx.Price,
		PriceDisplay:      utils.USD(tx.Price),
		ExecutedAt:        tx.ExecutedAt,
		ExecutedAtDisplay: utils.FormatTimestamp(tx.ExecutedAt),
	}
}

// NewTransactionOutputs converts a history
func NewTransactionOutputs(txs []*domain.Transaction) []*TransactionOutput {
	out := make([]*TransactionOutput, 0, len(txs))
	for _, tx := range txs {
		out = append(out, NewTransactionOutput(tx))
	}
	return out
}
