// Package quotes persists finished quotes: customer snapshot, priced line
// items, per-item layout metadata for audit display, and a status history
// trail. Every monetary figure is stored as computed at save time; readers
// render stored values and never recompute totals.
package quotes

import "fmt"

// Status is a lifecycle state of a saved quote. Draft, approved and
// rejected are primary states reflected on the quote row; emailed, printed
// and woo are secondary states recorded only in the history trail.
type Status string

const (
	StatusDraft    Status = "draft"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
	StatusEmailed  Status = "emailed"
	StatusPrinted  Status = "printed"
	StatusWoo      Status = "woo"
)

// Primary reports whether the status belongs on the quote row itself.
func (s Status) Primary() bool {
	return s == StatusDraft || s == StatusApproved || s == StatusRejected
}

// Valid reports whether the status is a known state.
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusApproved, StatusRejected, StatusEmailed, StatusPrinted, StatusWoo:
		return true
	}
	return false
}

// Customer is the billing snapshot attached to a quote. Customers are keyed
// by email: saving a quote for a known address updates the stored record.
type Customer struct {
	ID                int64  `json:"id"`
	Name              string `json:"name"`
	Surname           string `json:"surname"`
	CompanyName       string `json:"company_name"`
	Email             string `json:"email"`
	Phone             string `json:"phone"`
	StreetAddress     string `json:"street_address"`
	ComplexOrBuilding string `json:"complex_or_building"`
	City              string `json:"city"`
	Area              string `json:"area"`
	PostalCode        string `json:"postal_code"`
}

// LayoutInfo is the layout metadata saved alongside a quote item for audit
// display.
type LayoutInfo struct {
	Repeats        int    `json:"repeats"`
	Across         int    `json:"across"`
	Down           int    `json:"down"`
	IsLandscape    bool   `json:"is_landscape"`
	SheetsRequired int    `json:"sheets_required"`
	SheetSize      string `json:"sheet_size"`
}

// OptimalLayout returns the stored human-readable layout summary.
func (l LayoutInfo) OptimalLayout() string {
	size := l.SheetSize
	if size == "" {
		size = "sheet"
	}
	return fmt.Sprintf("%d repeats per %s", l.Repeats, size)
}

// LayoutDetails returns the stored human-readable orientation summary.
func (l LayoutInfo) LayoutDetails() string {
	orientation := "Portrait"
	if l.IsLandscape {
		orientation = "Landscape"
	}
	return fmt.Sprintf("%d across x %d down - %s", l.Across, l.Down, orientation)
}

// Item is one priced line of a quote. Price is the final rounded sell price
// including VAT.
type Item struct {
	ID          int64       `json:"id"`
	Description string      `json:"description"`
	Price       float64     `json:"price"`
	Quantity    int         `json:"quantity"`
	Total       float64     `json:"total"`
	Layout      *LayoutInfo `json:"layout,omitempty"`
}

// Totals is the cart-level discount and VAT snapshot stored on the quote.
// The discount fields are nil when no discount was applied.
type Totals struct {
	Subtotal              float64  `json:"subtotal"`
	VAT                   float64  `json:"vat"`
	Total                 float64  `json:"total"`
	DiscountPercentage    *float64 `json:"discount_percentage,omitempty"`
	DiscountValue         *float64 `json:"discount_value,omitempty"`
	SubtotalAfterDiscount *float64 `json:"subtotal_after_discount,omitempty"`
}

// HistoryEntry is one status transition of a quote.
type HistoryEntry struct {
	ID          int64  `json:"id"`
	StatusFrom  Status `json:"status_from,omitempty"`
	StatusTo    Status `json:"status_to"`
	ChangedBy   string `json:"changed_by"`
	DateChanged string `json:"date_changed"`
	Notes       string `json:"notes"`
}

// SavedQuote is a fully hydrated quote record.
type SavedQuote struct {
	ID                int64          `json:"id"`
	Reference         string         `json:"quote_reference"`
	Customer          Customer       `json:"customer"`
	DateCreated       string         `json:"date_created"`
	DateModified      string         `json:"date_modified"`
	Totals            Totals         `json:"totals"`
	Status            Status         `json:"status"`
	SecondaryStatuses []Status       `json:"secondary_statuses,omitempty"`
	Notes             string         `json:"notes,omitempty"`
	Items             []Item         `json:"items"`
	History           []HistoryEntry `json:"history"`
}

// Summary is one row of the quote list screen.
type Summary struct {
	ID           int64   `json:"id"`
	Reference    string  `json:"quote_reference"`
	CustomerName string  `json:"customer_name"`
	DateCreated  string  `json:"date_created"`
	Status       Status  `json:"status"`
	Total        float64 `json:"total"`
}
