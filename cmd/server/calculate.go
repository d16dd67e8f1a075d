package main

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/yazoosa/printstation/internal/catalog"
	"github.com/yazoosa/printstation/internal/pricing"
)

type pieceRequest struct {
	Width  float64 `json:"width"`
	Length float64 `json:"length"`
	Bleed  float64 `json:"bleed"`
	Gutter float64 `json:"gutter"`
}

type finishingRequest struct {
	Category    string `json:"category"`
	SubCategory string `json:"sub_category"`
	Quantity    int    `json:"quantity"`
}

type discountRequest struct {
	Percent float64 `json:"percent"`
	Value   float64 `json:"value"`
}

type calculateRequest struct {
	Category    string             `json:"category"`
	SubCategory string             `json:"sub_category"`
	Quantity    int                `json:"quantity"`
	PrintMode   string             `json:"print_mode"`
	SheetSize   string             `json:"sheet_size"`
	PaperID     int64              `json:"paper_id"`
	Piece       pieceRequest       `json:"piece"`
	Finishing   []finishingRequest `json:"finishing"`
	Discount    *discountRequest   `json:"discount"`
}

type layoutResponse struct {
	Across        int    `json:"across"`
	Down          int    `json:"down"`
	Repeats       int    `json:"repeats"`
	IsLandscape   bool   `json:"is_landscape"`
	Feasible      bool   `json:"feasible"`
	OptimalLayout string `json:"optimal_layout"`
	LayoutDetails string `json:"layout_details"`
}

type breakdownResponse struct {
	PaperCost           float64 `json:"paper_cost"`
	PrintingBaseCost    float64 `json:"printing_base_cost"`
	SetupFee            float64 `json:"setup_fee"`
	TotalPrintingCost   float64 `json:"total_printing_cost"`
	ComplexitySurcharge float64 `json:"complexity_surcharge"`
	Subtotal            float64 `json:"subtotal"`
}

type finishingResponse struct {
	Category    string  `json:"category"`
	SubCategory string  `json:"sub_category"`
	SetupFee    float64 `json:"setup_fee"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	Total       float64 `json:"total"`
}

type vatResponse struct {
	Subtotal float64 `json:"subtotal"`
	VAT      float64 `json:"vat"`
}

type discountResponse struct {
	Subtotal           float64 `json:"subtotal"`
	DiscountAmount     float64 `json:"discount_amount"`
	EffectivePercent   float64 `json:"effective_percent"`
	DiscountedSubtotal float64 `json:"discounted_subtotal"`
	VAT                float64 `json:"vat"`
	Total              float64 `json:"total"`
}

type calculateResponse struct {
	LineItemID     string              `json:"line_item_id"`
	Layout         layoutResponse      `json:"layout"`
	SheetsRequired int                 `json:"sheets_required"`
	Breakdown      breakdownResponse   `json:"breakdown"`
	Finishing      []finishingResponse `json:"finishing"`
	FinishingTotal float64             `json:"finishing_total"`
	GrandTotal     float64             `json:"grand_total"`
	PerUnit        float64             `json:"per_unit"`
	VATSplit       vatResponse         `json:"vat_split"`
	Discount       *discountResponse   `json:"discount,omitempty"`
	Message        string              `json:"message,omitempty"`
}

var printModes = map[string]pricing.PrintMode{
	"fc_ss": pricing.FullColourSingleSided,
	"fc_ds": pricing.FullColourDoubleSided,
	"bw_ss": pricing.BlackWhiteSingleSided,
	"bw_ds": pricing.BlackWhiteDoubleSided,
	"fc_bw": pricing.FullColourPlusBW,
}

// handleCalculate runs the full quoting chain for one job: layout, sheet
// count, cost rollup, finishing, rounding and VAT split. An infeasible
// layout is a valid answer with zeroed pricing, not an error.
func (s *server) handleCalculate(w http.ResponseWriter, r *http.Request) {
	var req calculateRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	if req.Quantity <= 0 {
		respondError(w, http.StatusBadRequest, "quantity must be positive")
		return
	}
	if req.Piece.Width <= 0 || req.Piece.Length <= 0 {
		respondError(w, http.StatusBadRequest, "piece width and length must be positive")
		return
	}
	mode, ok := printModes[strings.ToLower(req.PrintMode)]
	if !ok {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("unknown print mode %q", req.PrintMode))
		return
	}

	printPrice, err := s.catalog.GetPrintPriceBySize(req.SheetSize)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			respondError(w, http.StatusBadRequest, fmt.Sprintf("no print pricing for sheet size %q", req.SheetSize))
			return
		}
		log.Printf("load print pricing: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to load print pricing")
		return
	}
	sheet := printPrice.SheetSpec()

	var paperPrice float64
	if req.PaperID != 0 {
		paper, err := s.catalog.GetPaper(req.PaperID)
		if err != nil {
			if errors.Is(err, catalog.ErrNotFound) {
				respondError(w, http.StatusBadRequest, fmt.Sprintf("unknown paper %d", req.PaperID))
				return
			}
			log.Printf("load paper: %v", err)
			respondError(w, http.StatusInternalServerError, "failed to load paper")
			return
		}
		paperPrice = paper.Price
	}

	setupFees, err := s.catalog.SetupFeeTable()
	if err != nil {
		log.Printf("load setup fees: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to load setup fees")
		return
	}
	complexities, err := s.catalog.ComplexityTable()
	if err != nil {
		log.Printf("load complexity brackets: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to load complexity brackets")
		return
	}

	layout := pricing.SolveLayout(sheet, pricing.PieceSpec{
		WidthMm:  req.Piece.Width,
		LengthMm: req.Piece.Length,
		BleedMm:  req.Piece.Bleed,
		GutterMm: req.Piece.Gutter,
	})
	sheetsRequired := pricing.SheetsRequired(layout.Repeats, req.Quantity)

	resp := calculateResponse{
		LineItemID: uuid.New().String()[:8],
		Layout: layoutResponse{
			Across:      layout.Across,
			Down:        layout.Down,
			Repeats:     layout.Repeats,
			IsLandscape: layout.IsLandscape,
			Feasible:    layout.Feasible(),
			OptimalLayout: fmt.Sprintf("%d repeats per %s",
				layout.Repeats, sheet.Name),
			LayoutDetails: layoutDetails(layout),
		},
		SheetsRequired: sheetsRequired,
		Finishing:      []finishingResponse{},
	}

	if !layout.Feasible() {
		resp.Message = "piece does not fit on the selected sheet"
		respondJSON(w, http.StatusOK, resp)
		return
	}

	breakdown := pricing.ComputePricing(
		sheetsRequired,
		sheet.ModePrice(mode),
		setupFees,
		layout.Repeats,
		complexities,
		paperPrice,
	)
	resp.Breakdown = breakdownResponse{
		PaperCost:           breakdown.PaperCost,
		PrintingBaseCost:    breakdown.PrintingBaseCost,
		SetupFee:            breakdown.SetupFee,
		TotalPrintingCost:   breakdown.TotalPrintingCost,
		ComplexitySurcharge: breakdown.ComplexitySurcharge,
		Subtotal:            breakdown.Subtotal,
	}

	lines, err := s.resolveFinishing(req.Finishing, req.Quantity, sheetsRequired)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	for _, line := range lines {
		resp.Finishing = append(resp.Finishing, finishingResponse{
			Category:    line.Category,
			SubCategory: line.SubCategory,
			SetupFee:    line.SetupFee,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			Total:       line.Total(),
		})
	}

	resp.FinishingTotal = pricing.FinishingTotal(lines)
	resp.GrandTotal = pricing.GrandTotal(breakdown.Subtotal, lines)
	resp.PerUnit = pricing.PerUnitCost(resp.GrandTotal, req.Quantity)

	exVAT, vat := pricing.SplitVAT(resp.GrandTotal)
	resp.VATSplit = vatResponse{Subtotal: exVAT, VAT: vat}

	if req.Discount != nil {
		d := pricing.ApplyDiscount(exVAT, req.Discount.Percent, req.Discount.Value)
		resp.Discount = &discountResponse{
			Subtotal:           d.Subtotal,
			DiscountAmount:     d.DiscountAmount,
			EffectivePercent:   d.EffectivePercent,
			DiscountedSubtotal: d.DiscountedSubtotal,
			VAT:                d.VAT,
			Total:              d.Total,
		}
	}

	respondJSON(w, http.StatusOK, resp)
}

// resolveFinishing looks up each requested finishing option and builds the
// engine line items. A zero quantity defaults from the option's quantity
// basis: order quantity for per-unit options, sheet count for per-sheet.
func (s *server) resolveFinishing(reqs []finishingRequest, quantity, sheetsRequired int) ([]pricing.FinishingLine, error) {
	var lines []pricing.FinishingLine
	for _, fr := range reqs {
		opt, err := s.catalog.FindFinishingOption(fr.Category, fr.SubCategory)
		if err != nil {
			if errors.Is(err, catalog.ErrNotFound) {
				return nil, fmt.Errorf("unknown finishing option %s / %s", fr.Category, fr.SubCategory)
			}
			return nil, fmt.Errorf("load finishing option: %w", err)
		}

		qty := fr.Quantity
		if qty <= 0 {
			if opt.QuantityBasis == pricing.PerSheet {
				qty = sheetsRequired
			} else {
				qty = quantity
			}
		}

		lines = append(lines, pricing.FinishingLine{
			Category:    opt.Category,
			SubCategory: opt.SubCategory,
			SetupFee:    opt.SetupFee,
			Quantity:    qty,
			UnitPrice:   opt.Price,
		})
	}
	return lines, nil
}

func layoutDetails(l pricing.LayoutResult) string {
	orientation := "Portrait"
	if l.IsLandscape {
		orientation = "Landscape"
	}
	return fmt.Sprintf("%d across x %d down - %s", l.Across, l.Down, orientation)
}
