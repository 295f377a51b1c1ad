package utils

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Currency is the only currency the ledger deals in
const Currency = money.USD

// USD formats an amount as dollars, e.g. "$1,234.56". Amounts are rounded to cents.
func USD(amount decimal.Decimal) string {
	cur := money.GetCurrency(Currency)
	cents := amount.Shift(int32(cur.Fraction)).Round(0)
	return money.New(cents.IntPart(), Currency).Display()
}
