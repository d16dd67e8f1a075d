package pricing

// Breakdown contains the per-job cost rollup before finishing options.
type Breakdown struct {
	PaperCost           float64
	PrintingBaseCost    float64
	SetupFee            float64
	TotalPrintingCost   float64
	ComplexitySurcharge float64
	Subtotal            float64
}

// ComputePricing rolls paper, printing, setup fee and complexity surcharge
// into a subtotal. The step order is fixed: the complexity surcharge applies
// to paper plus total printing cost only, never to finishing line items.
func ComputePricing(
	sheetsRequired int,
	printModePrice float64,
	setupFees SetupFeeTable,
	repeatsPerSheet int,
	complexities ComplexityTable,
	paperPricePerSheet float64,
) Breakdown {
	paperCost := float64(sheetsRequired) * paperPricePerSheet
	printingBaseCost := float64(sheetsRequired) * printModePrice
	setupFee := setupFees.Lookup(sheetsRequired)
	totalPrintingCost := printingBaseCost + setupFee

	complexityPercent := complexities.Lookup(repeatsPerSheet)
	complexitySurcharge := (paperCost + totalPrintingCost) * complexityPercent / 100

	return Breakdown{
		PaperCost:           paperCost,
		PrintingBaseCost:    printingBaseCost,
		SetupFee:            setupFee,
		TotalPrintingCost:   totalPrintingCost,
		ComplexitySurcharge: complexitySurcharge,
		Subtotal:            paperCost + totalPrintingCost + complexitySurcharge,
	}
}

// QuantityBasis tags how a finishing option's quantity defaults: per ordered
// unit, or per sheet of the production run (die cutting, lamination).
type QuantityBasis string

const (
	PerUnit  QuantityBasis = "per_unit"
	PerSheet QuantityBasis = "per_sheet"
)

// FinishingLine is one finishing option applied to a quote.
type FinishingLine struct {
	Category    string
	SubCategory string
	SetupFee    float64
	Quantity    int
	UnitPrice   float64
}

// Total returns this line's cost contribution.
func (f FinishingLine) Total() float64 {
	return f.SetupFee + float64(f.Quantity)*f.UnitPrice
}

// FinishingTotal sums all finishing line items.
func FinishingTotal(lines []FinishingLine) float64 {
	var total float64
	for _, line := range lines {
		total += line.Total()
	}
	return total
}

// GrandTotal combines the pricing subtotal with the finishing total and
// applies the nearest-five rounding policy. Rounding happens here only;
// intermediate cost components stay unrounded.
func GrandTotal(subtotal float64, lines []FinishingLine) float64 {
	return RoundToNearestFive(subtotal + FinishingTotal(lines))
}

// PerUnitCost divides a grand total across the ordered quantity.
// Non-positive quantities yield 0.
func PerUnitCost(grandTotal float64, quantity int) float64 {
	if quantity <= 0 {
		return 0
	}
	return grandTotal / float64(quantity)
}
