package pricing

import "math"

// PrintMode identifies one of the per-sheet print price columns.
type PrintMode string

const (
	FullColourSingleSided PrintMode = "fc_ss"
	FullColourDoubleSided PrintMode = "fc_ds"
	BlackWhiteSingleSided PrintMode = "bw_ss"
	BlackWhiteDoubleSided PrintMode = "bw_ds"
	FullColourPlusBW      PrintMode = "fc_bw"
)

// SheetSpec describes a stock sheet format and its per-mode print prices.
type SheetSpec struct {
	Name          string
	WidthMm       float64
	LengthMm      float64
	PricePerSheet map[PrintMode]float64
}

// ModePrice returns the print price per sheet for the given mode, or 0 when
// the mode is not priced for this sheet.
func (s SheetSpec) ModePrice(mode PrintMode) float64 {
	return s.PricePerSheet[mode]
}

// PieceSpec describes the target piece to be repeated on a sheet.
// Bleed is added on every side of the piece; gutter is the spacing between
// adjacent repeats, not around the outer edge.
type PieceSpec struct {
	WidthMm  float64
	LengthMm float64
	BleedMm  float64
	GutterMm float64
}

// LayoutResult is the best packing of a piece onto a sheet.
// Repeats is always Across*Down. A zero Repeats means the piece does not fit
// on the sheet in either orientation; that is a representable state, not an
// error, and downstream steps must check it before dividing.
type LayoutResult struct {
	Across      int
	Down        int
	Repeats     int
	IsLandscape bool
}

// Feasible reports whether at least one piece fits on the sheet.
func (l LayoutResult) Feasible() bool {
	return l.Repeats > 0
}

// SolveLayout computes the best-fit layout for piece on sheet.
// Both orientations are evaluated; landscape replaces portrait only when it
// yields strictly more repeats, so ties favor portrait. Pure and
// deterministic.
func SolveLayout(sheet SheetSpec, piece PieceSpec) LayoutResult {
	effWidth := piece.WidthMm + 2*piece.BleedMm
	effLength := piece.LengthMm + 2*piece.BleedMm

	portraitAcross := fits(sheet.WidthMm, effWidth+piece.GutterMm)
	portraitDown := fits(sheet.LengthMm, effLength+piece.GutterMm)
	portrait := portraitAcross * portraitDown

	landscapeAcross := fits(sheet.WidthMm, effLength+piece.GutterMm)
	landscapeDown := fits(sheet.LengthMm, effWidth+piece.GutterMm)
	landscape := landscapeAcross * landscapeDown

	if landscape > portrait {
		return LayoutResult{
			Across:      landscapeAcross,
			Down:        landscapeDown,
			Repeats:     landscape,
			IsLandscape: true,
		}
	}
	return LayoutResult{
		Across:  portraitAcross,
		Down:    portraitDown,
		Repeats: portrait,
	}
}

// fits returns how many times step fits in span, never negative.
func fits(span, step float64) int {
	if step <= 0 || span <= 0 {
		return 0
	}
	n := int(math.Floor(span / step))
	if n < 0 {
		return 0
	}
	return n
}

// SheetsRequired returns the number of sheets needed to produce quantity
// pieces at repeats pieces per sheet. Zero repeats (infeasible layout) and
// non-positive quantities both yield 0; callers surface zero as "piece does
// not fit" rather than treating it as an error.
func SheetsRequired(repeats, quantity int) int {
	if repeats <= 0 || quantity <= 0 {
		return 0
	}
	return (quantity + repeats - 1) / repeats
}
