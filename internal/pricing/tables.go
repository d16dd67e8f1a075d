package pricing

import "sort"

// SetupFeeBand is one (quantity breakpoint, fee) pair of the setup fee table.
type SetupFeeBand struct {
	Breakpoint int
	Fee        float64
}

// SetupFeeTable maps sheet-run-length tiers to fixed setup fees.
// Bands must have distinct non-negative breakpoints; Normalize sorts them
// ascending so lookups are stable regardless of storage order.
type SetupFeeTable []SetupFeeBand

// Normalize returns the table sorted by breakpoint ascending.
func (t SetupFeeTable) Normalize() SetupFeeTable {
	out := make(SetupFeeTable, len(t))
	copy(out, t)
	sort.Slice(out, func(i, j int) bool { return out[i].Breakpoint < out[j].Breakpoint })
	return out
}

// Lookup returns the fee of the largest breakpoint that does not exceed
// sheetsRequired. Below the lowest breakpoint the lowest band's fee applies.
// An empty table costs nothing; a missing table is never fatal.
func (t SetupFeeTable) Lookup(sheetsRequired int) float64 {
	if len(t) == 0 {
		return 0
	}
	sorted := t.Normalize()
	fee := sorted[0].Fee
	for _, band := range sorted {
		if band.Breakpoint <= sheetsRequired {
			fee = band.Fee
		} else {
			break
		}
	}
	return fee
}

// ComplexityBand is one (repeats breakpoint, surcharge percent) pair.
type ComplexityBand struct {
	Breakpoint int
	Percent    float64
}

// ComplexityTable maps repeats-per-sheet tiers to a percentage surcharge on
// the paper+printing cost.
type ComplexityTable []ComplexityBand

// Normalize returns the table sorted by breakpoint ascending.
func (t ComplexityTable) Normalize() ComplexityTable {
	out := make(ComplexityTable, len(t))
	copy(out, t)
	sort.Slice(out, func(i, j int) bool { return out[i].Breakpoint < out[j].Breakpoint })
	return out
}

// Lookup returns the percent of the largest breakpoint that does not exceed
// repeats, or 0 when no band qualifies.
func (t ComplexityTable) Lookup(repeats int) float64 {
	percent := 0.0
	for _, band := range t.Normalize() {
		if band.Breakpoint <= repeats {
			percent = band.Percent
		} else {
			break
		}
	}
	return percent
}
