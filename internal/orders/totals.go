package orders

import "github.com/shopspring/decimal"

// itemTotal is unit price times quantity, exact decimal arithmetic.
func itemTotal(unitPrice decimal.Decimal, quantity int) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
}

// orderTotal sums the item line totals.
func orderTotal(items []Item) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.TotalPrice)
	}
	return total
}
