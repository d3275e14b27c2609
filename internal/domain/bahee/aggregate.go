package bahee

import (
	"math"

	"github.com/shopspring/decimal"
)

// Aggregate sums income and amount over entries. Missing or non-finite values
// count as zero. The result does not depend on order and an empty slice
// yields all zeros.
func Aggregate(entries []Entry) Totals {
	income := decimal.Zero
	amount := decimal.Zero

	for _, entry := range entries {
		income = income.Add(toDecimal(entry.Income))
		if entry.Amount != nil {
			amount = amount.Add(toDecimal(*entry.Amount))
		}
	}

	return Totals{
		Income:   income.InexactFloat64(),
		Amount:   amount.InexactFloat64(),
		Combined: income.Add(amount).InexactFloat64(),
		Count:    len(entries),
	}
}

func toDecimal(value float64) decimal.Decimal {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(value)
}
