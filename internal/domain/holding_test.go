package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestHolding_ApplyBuy(t *testing.T) {
	now := time.Date(2024, 1, 2, 15, 4, 5, 0, time.UTC)
	h := NewHolding(uuid.New(), "X", "X Corp")

	h.ApplyBuy(10, d("100"), now)
	assert.Equal(t, int64(10), h.Shares)
	assert.True(t, h.AvgCost.Equal(d("100")))
	assert.True(t, h.TotalValue.Equal(d("1000")))

	h.ApplyBuy(10, d("200"), now)
	assert.Equal(t, int64(20), h.Shares)
	assert.True(t, h.Price.Equal(d("200")))
	assert.True(t, h.AvgCost.Equal(d("150")), "avg cost is %s", h.AvgCost)
	assert.True(t, h.TotalValue.Equal(d("4000")), "total value is %s", h.TotalValue)
}

func TestHolding_ApplySell(t *testing.T) {
	now := time.Now()
	testTable := []struct {
		name       string
		sell       int64
		price      string
		closed     bool
		remaining  int64
		totalValue string
	}{
		{name: "Partial sell revalues remaining shares", sell: 4, price: "120", remaining: 6, totalValue: "720"},
		{name: "Full sell closes the position", sell: 10, price: "90", closed: true, remaining: 0, totalValue: "0"},
	}

	for _, testCase := range testTable {
		t.Run(testCase.name, func(t *testing.T) {
			h := NewHolding(uuid.New(), "X", "X Corp")
			h.ApplyBuy(10, d("100"), now)

			closed := h.ApplySell(testCase.sell, d(testCase.price), now)
			assert.Equal(t, testCase.closed, closed)
			assert.Equal(t, testCase.remaining, h.Shares)
			assert.True(t, h.TotalValue.Equal(d(testCase.totalValue)), "total value is %s", h.TotalValue)
			assert.True(t, h.AvgCost.Equal(d("100")), "sell keeps the cost basis")
		})
	}
}

func TestTransaction_Amount(t *testing.T) {
	buy := &Transaction{Shares: 10, Price: d("100")}
	sell := &Transaction{Shares: -4, Price: d("120")}

	assert.True(t, buy.IsBuy())
	assert.False(t, sell.IsBuy())
	assert.True(t, buy.Amount().Equal(d("1000")))
	assert.True(t, sell.Amount().Equal(d("-480")))
}

func TestNewPortfolio(t *testing.T) {
	holdings := []*Holding{
		{Symbol: "A", TotalValue: d("720")},
		{Symbol: "B", TotalValue: d("280.50")},
	}
	p := NewPortfolio(holdings, d("9000"), d("10000"))

	assert.True(t, p.HoldingsValue.Equal(d("1000.50")))
	assert.True(t, p.Total.Equal(d("10000.50")))

	empty := NewPortfolio(nil, d("10000"), d("10000"))
	assert.NotNil(t, empty.Holdings)
	assert.True(t, empty.Total.Equal(d("10000")))
}
