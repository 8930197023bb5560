package pricing

import "github.com/shopspring/decimal"

const (
	taxRate           = "0.08"
	shippingFlat      = "9.99"
	freeShippingAbove = "50"
)

// Line is one priced cart or order line.
type Line struct {
	UnitPrice decimal.Decimal
	Quantity  int
}

// Totals holds the derived amounts for a set of lines. Subtotal accumulates
// without rounding; Tax is rounded to two decimals, so
// Total = Subtotal + Tax + Shipping holds exactly.
type Totals struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Shipping decimal.Decimal
	Total    decimal.Decimal
}

// Calculate applies the storefront pricing rules: 8% tax on the subtotal and
// a flat 9.99 shipping charge waived above 50. An empty input still yields
// the flat shipping charge from the threshold comparison; callers must reject
// empty submissions instead of charging shipping on nothing.
func Calculate(lines []Line) Totals {
	subtotal := decimal.Zero
	for _, line := range lines {
		subtotal = subtotal.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}

	tax := subtotal.Mul(decimal.RequireFromString(taxRate)).Round(2)

	shipping := decimal.RequireFromString(shippingFlat)
	if subtotal.GreaterThan(decimal.RequireFromString(freeShippingAbove)) {
		shipping = decimal.Zero
	}

	return Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Shipping: shipping,
		Total:    subtotal.Add(tax).Add(shipping),
	}
}

// LineFromFloat builds a Line from a float64 unit price as received over the
// wire or read back from the store.
func LineFromFloat(unitPrice float64, quantity int) Line {
	return Line{UnitPrice: decimal.NewFromFloat(unitPrice), Quantity: quantity}
}
