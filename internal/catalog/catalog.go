// Package catalog provides read/write access to the print shop's lookup
// tables: the paper catalog, stock sheet formats, print pricing, setup fee
// and complexity brackets, and finishing options. The pricing engine only
// ever reads these tables; all mutation happens through the admin handlers.
package catalog

import (
	"database/sql"

	"github.com/yazoosa/printstation/internal/pricing"
)

// Paper is one entry of the paper catalog. Price is derived from cost plus
// markup when the row is written, so readers never recompute it.
type Paper struct {
	ID               int64   `json:"id"`
	Type             string  `json:"type"`
	Name             string  `json:"name"`
	Grammage         string  `json:"grammage"`
	Micron           string  `json:"micron,omitempty"`
	Size             string  `json:"size"`
	Cost             float64 `json:"cost"`
	MarkupPercentage float64 `json:"markup_percentage"`
	Price            float64 `json:"price"`
	OrderSequence    int     `json:"order_sequence"`
	Active           bool    `json:"active"`
}

// SheetSize is a named pre-defined piece size offered on the quote form.
type SheetSize struct {
	ID           int64   `json:"id"`
	Type         string  `json:"type"`
	Name         string  `json:"name"`
	Width        float64 `json:"width"`
	Length       float64 `json:"length"`
	DisplayOrder int     `json:"display_order"`
}

// PrintPrice holds the per-mode print prices for one stock sheet format.
type PrintPrice struct {
	ID        int64   `json:"id"`
	Size      string  `json:"size"`
	Width     float64 `json:"width"`
	Length    float64 `json:"length"`
	FcSsCost  float64 `json:"fc_ss_cost"`
	FcSsPrice float64 `json:"fc_ss_price"`
	FcDsCost  float64 `json:"fc_ds_cost"`
	FcDsPrice float64 `json:"fc_ds_price"`
	BwSsCost  float64 `json:"bw_ss_cost"`
	BwSsPrice float64 `json:"bw_ss_price"`
	BwDsCost  float64 `json:"bw_ds_cost"`
	BwDsPrice float64 `json:"bw_ds_price"`
	FcBwCost  float64 `json:"fc_bw_cost"`
	FcBwPrice float64 `json:"fc_bw_price"`
}

// SheetSpec converts a print price row into the engine's sheet description.
func (p PrintPrice) SheetSpec() pricing.SheetSpec {
	return pricing.SheetSpec{
		Name:     p.Size,
		WidthMm:  p.Width,
		LengthMm: p.Length,
		PricePerSheet: map[pricing.PrintMode]float64{
			pricing.FullColourSingleSided: p.FcSsPrice,
			pricing.FullColourDoubleSided: p.FcDsPrice,
			pricing.BlackWhiteSingleSided: p.BwSsPrice,
			pricing.BlackWhiteDoubleSided: p.BwDsPrice,
			pricing.FullColourPlusBW:      p.FcBwPrice,
		},
	}
}

// SetupFeeRow is one stored band of the setup fee table.
type SetupFeeRow struct {
	ID         int64   `json:"id"`
	Breakpoint int     `json:"breakpoint"`
	Fee        float64 `json:"fee"`
}

// ComplexityRow is one stored band of the complexity table.
type ComplexityRow struct {
	ID         int64   `json:"id"`
	Breakpoint int     `json:"breakpoint"`
	Percent    float64 `json:"percent"`
}

// FinishingOption is one offered finishing service. QuantityBasis determines
// whether the quoted quantity defaults to the order quantity or the sheet
// run length.
type FinishingOption struct {
	ID            int64                 `json:"id"`
	Category      string                `json:"category"`
	SubCategory   string                `json:"sub_category"`
	SetupFee      float64               `json:"setup_fee"`
	Cost          float64               `json:"cost"`
	Price         float64               `json:"price"`
	QuantityBasis pricing.QuantityBasis `json:"quantity_basis"`
}

// Store exposes the catalog tables over a SQLite database.
type Store struct {
	db *sql.DB
}

// NewStore wraps an open database handle.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}
