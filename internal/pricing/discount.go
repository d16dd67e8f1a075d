package pricing

// VATRate is the fixed VAT rate applied to discounted subtotals.
const VATRate = 0.15

// DiscountResult is the cart-level discount and VAT rollup. It operates on
// the ex-VAT sum of already-priced line items, independently of the per-job
// grand total rollup.
type DiscountResult struct {
	Subtotal           float64
	DiscountAmount     float64
	EffectivePercent   float64
	DiscountedSubtotal float64
	VAT                float64
	Total              float64
	Applied            bool
}

// ApplyDiscount derives discount amount, VAT and total from an ex-VAT
// subtotal. A positive percent takes precedence over a fixed value; the
// amount is clamped to [0, subtotal].
//
// Every intermediate figure is rounded to 2 decimals before the next step;
// saved quotes store these figures, so the rounding order is load-bearing.
func ApplyDiscount(subtotal, percent, value float64) DiscountResult {
	subtotal = round2(subtotal)

	var amount float64
	byPercent := percent > 0
	byValue := !byPercent && value > 0
	switch {
	case byPercent:
		amount = round2(subtotal * percent / 100)
	case byValue:
		amount = round2(value)
	}
	if amount < 0 {
		amount = 0
	}
	if amount > subtotal {
		amount = subtotal
	}
	amount = round2(amount)

	discounted := round2(subtotal - amount)
	vat := round2(discounted * VATRate)
	total := round2(discounted + vat)

	effective := 0.0
	switch {
	case byValue && subtotal > 0:
		effective = round2(amount / subtotal * 100)
	case byPercent:
		effective = percent
	}

	return DiscountResult{
		Subtotal:           subtotal,
		DiscountAmount:     amount,
		EffectivePercent:   effective,
		DiscountedSubtotal: discounted,
		VAT:                vat,
		Total:              total,
		Applied:            byPercent || byValue,
	}
}

// SplitVAT backs the VAT portion out of a VAT-inclusive price. Cart line
// items store their rounded sell price with VAT included; the cart subtotal
// is the ex-VAT sum of those items.
func SplitVAT(total float64) (subtotal, vat float64) {
	subtotal = total / (1 + VATRate)
	vat = total - subtotal
	return round2(subtotal), round2(vat)
}
