package pricing

import "testing"

func TestApplyDiscountByPercent(t *testing.T) {
	r := ApplyDiscount(200, 10, 0)

	nearlyEqual(t, "discountAmount", r.DiscountAmount, 20)
	nearlyEqual(t, "effectivePercent", r.EffectivePercent, 10)
	nearlyEqual(t, "discountedSubtotal", r.DiscountedSubtotal, 180)
	nearlyEqual(t, "vat", r.VAT, 27)
	nearlyEqual(t, "total", r.Total, 207)
	if !r.Applied {
		t.Fatal("expected discount to be applied")
	}
}

func TestApplyDiscountByValue(t *testing.T) {
	r := ApplyDiscount(150, 0, 30)

	nearlyEqual(t, "discountAmount", r.DiscountAmount, 30)
	nearlyEqual(t, "effectivePercent", r.EffectivePercent, 20)
	nearlyEqual(t, "discountedSubtotal", r.DiscountedSubtotal, 120)
	nearlyEqual(t, "vat", r.VAT, 18)
	nearlyEqual(t, "total", r.Total, 138)
}

func TestApplyDiscountValueClampsToSubtotal(t *testing.T) {
	r := ApplyDiscount(100, 0, 150)

	nearlyEqual(t, "discountAmount", r.DiscountAmount, 100)
	nearlyEqual(t, "discountedSubtotal", r.DiscountedSubtotal, 0)
	nearlyEqual(t, "vat", r.VAT, 0)
	nearlyEqual(t, "total", r.Total, 0)
	nearlyEqual(t, "effectivePercent", r.EffectivePercent, 100)
}

func TestApplyDiscountNone(t *testing.T) {
	r := ApplyDiscount(100, 0, 0)

	nearlyEqual(t, "discountAmount", r.DiscountAmount, 0)
	nearlyEqual(t, "vat", r.VAT, 15)
	nearlyEqual(t, "total", r.Total, 115)
	if r.Applied {
		t.Fatal("expected no discount applied")
	}
}

func TestApplyDiscountRoundsEachIntermediateStep(t *testing.T) {
	// 33.335% of 99.99 is 33.3316...; the amount is rounded to 2 decimals
	// before the subtraction, so the chain differs from rounding once at
	// the end.
	r := ApplyDiscount(99.99, 33.335, 0)

	nearlyEqual(t, "discountAmount", r.DiscountAmount, 33.33)
	nearlyEqual(t, "discountedSubtotal", r.DiscountedSubtotal, 66.66)
	nearlyEqual(t, "vat", r.VAT, 10.00)
	nearlyEqual(t, "total", r.Total, 76.66)
}

func TestApplyDiscountZeroSubtotal(t *testing.T) {
	r := ApplyDiscount(0, 0, 50)

	nearlyEqual(t, "discountAmount", r.DiscountAmount, 0)
	nearlyEqual(t, "total", r.Total, 0)
	nearlyEqual(t, "effectivePercent", r.EffectivePercent, 0)
}

func TestSplitVAT(t *testing.T) {
	subtotal, vat := SplitVAT(115)
	nearlyEqual(t, "subtotal", subtotal, 100)
	nearlyEqual(t, "vat", vat, 15)

	subtotal, vat = SplitVAT(0)
	nearlyEqual(t, "zero subtotal", subtotal, 0)
	nearlyEqual(t, "zero vat", vat, 0)
}
