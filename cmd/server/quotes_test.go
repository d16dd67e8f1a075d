package main

import (
	"net/http"
	"strings"
	"testing"

	"github.com/yazoosa/printstation/internal/quotes"
)

func saveTestQuote(t *testing.T, srv *server) string {
	t.Helper()

	req := saveQuoteRequest{
		Customer: quotes.Customer{
			Name:    "Thandi",
			Surname: "Mokoena",
			Email:   "thandi@example.co.za",
			City:    "Cape Town",
		},
		Items: []quotes.Item{
			{
				Description: "Business Cards - Matt Lam 350gsm",
				Price:       230,
				Quantity:    500,
				Total:       230,
				Layout: &quotes.LayoutInfo{
					Repeats: 24, Across: 8, Down: 3, IsLandscape: true,
					SheetsRequired: 21, SheetSize: "SRA3",
				},
			},
		},
		Totals: quotes.Totals{Subtotal: 200, VAT: 30, Total: 230},
		Notes:  "collection order",
	}

	var resp map[string]string
	rec := doJSON(t, srv, http.MethodPost, "/api/quotes/", req, &resp)
	requireStatus(t, rec, http.StatusCreated)
	return resp["quote_reference"]
}

func TestQuoteSaveAndGet(t *testing.T) {
	srv := newTestServer(t)

	ref := saveTestQuote(t, srv)
	if ref != "QB-0001" {
		t.Fatalf("reference = %q, want QB-0001", ref)
	}

	var list []quotes.Summary
	rec := doJSON(t, srv, http.MethodGet, "/api/quotes/", nil, &list)
	requireStatus(t, rec, http.StatusOK)
	if len(list) != 1 || list[0].Reference != "QB-0001" {
		t.Fatalf("unexpected quote list: %+v", list)
	}

	var quote quotes.SavedQuote
	rec = doJSON(t, srv, http.MethodGet, "/api/quotes/1", nil, &quote)
	requireStatus(t, rec, http.StatusOK)

	if quote.Customer.Email != "thandi@example.co.za" {
		t.Errorf("customer email = %q", quote.Customer.Email)
	}
	if quote.Status != quotes.StatusDraft {
		t.Errorf("status = %q, want draft", quote.Status)
	}
	if len(quote.Items) != 1 || quote.Items[0].Layout == nil {
		t.Fatalf("items not hydrated: %+v", quote.Items)
	}
	if quote.Items[0].Layout.SheetsRequired != 21 {
		t.Errorf("layout sheets = %d, want 21", quote.Items[0].Layout.SheetsRequired)
	}
}

func TestQuoteStatusTransitions(t *testing.T) {
	srv := newTestServer(t)
	saveTestQuote(t, srv)

	var quote quotes.SavedQuote
	rec := doJSON(t, srv, http.MethodPost, "/api/quotes/1/status",
		statusRequest{Status: quotes.StatusApproved, Notes: "client confirmed"}, &quote)
	requireStatus(t, rec, http.StatusOK)
	if quote.Status != quotes.StatusApproved {
		t.Fatalf("status = %q, want approved", quote.Status)
	}

	rec = doJSON(t, srv, http.MethodPost, "/api/quotes/1/status",
		statusRequest{Status: "shipped"}, nil)
	requireStatus(t, rec, http.StatusBadRequest)

	rec = doJSON(t, srv, http.MethodPost, "/api/quotes/99/status",
		statusRequest{Status: quotes.StatusApproved}, nil)
	requireStatus(t, rec, http.StatusNotFound)
}

func TestQuoteDelete(t *testing.T) {
	srv := newTestServer(t)
	saveTestQuote(t, srv)

	rec := doJSON(t, srv, http.MethodDelete, "/api/quotes/1", nil, nil)
	requireStatus(t, rec, http.StatusNoContent)

	rec = doJSON(t, srv, http.MethodGet, "/api/quotes/1", nil, nil)
	requireStatus(t, rec, http.StatusNotFound)
}

func TestQuotePDFStreamsDocumentAndRecordsHistory(t *testing.T) {
	srv := newTestServer(t)
	saveTestQuote(t, srv)

	rec := doJSON(t, srv, http.MethodGet, "/api/quotes/1/pdf", nil, nil)
	requireStatus(t, rec, http.StatusOK)

	if ct := rec.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("content type = %q, want application/pdf", ct)
	}
	if !strings.HasPrefix(rec.Body.String(), "%PDF-") {
		t.Error("body does not look like a PDF document")
	}

	var quote quotes.SavedQuote
	doJSON(t, srv, http.MethodGet, "/api/quotes/1", nil, &quote)
	found := false
	for _, s := range quote.SecondaryStatuses {
		if s == quotes.StatusPrinted {
			found = true
		}
	}
	if !found {
		t.Errorf("printed status not recorded: %+v", quote.SecondaryStatuses)
	}
}

func TestQuoteEmailWithoutConfiguration(t *testing.T) {
	srv := newTestServer(t)
	saveTestQuote(t, srv)

	rec := doJSON(t, srv, http.MethodPost, "/api/quotes/1/email", nil, nil)
	requireStatus(t, rec, http.StatusServiceUnavailable)
}

func TestQuoteWooWithoutConfiguration(t *testing.T) {
	srv := newTestServer(t)
	saveTestQuote(t, srv)

	rec := doJSON(t, srv, http.MethodPost, "/api/quotes/1/woo", nil, nil)
	requireStatus(t, rec, http.StatusServiceUnavailable)
}
