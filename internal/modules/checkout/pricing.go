package checkout

import "github.com/shopspring/decimal"

// Pricing computes the authoritative price of a validated cart. Tax is
// charged on the subtotal before any promotional discount.
type Pricing struct {
	TaxRate     decimal.Decimal
	ShippingFee decimal.Decimal
}

func (p Pricing) Quote(lines []ValidatedLine) Quote {
	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.LineTotal)
	}
	return Quote{
		Subtotal: subtotal.Round(2),
		Shipping: p.ShippingFee.Round(2),
		Tax:      subtotal.Mul(p.TaxRate).Round(2),
	}
}
