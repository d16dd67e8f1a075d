package main

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/yazoosa/printstation/internal/export"
	"github.com/yazoosa/printstation/internal/quotes"
)

type saveQuoteRequest struct {
	Customer quotes.Customer `json:"customer"`
	Items    []quotes.Item   `json:"items"`
	Totals   quotes.Totals   `json:"totals"`
	Notes    string          `json:"notes"`
}

// handleQuoteSave persists a finished cart: customer upsert, sequential
// reference, item and layout rows, opening history entry.
func (s *server) handleQuoteSave(w http.ResponseWriter, r *http.Request) {
	var req saveQuoteRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	reference, err := s.quotes.Save(req.Customer, req.Items, req.Totals, req.Notes)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"quote_reference": reference})
}

func (s *server) handleQuoteList(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	summaries, err := s.quotes.List(query)
	if err != nil {
		log.Printf("list quotes: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to list quotes")
		return
	}
	respondJSON(w, http.StatusOK, summaries)
}

func (s *server) handleQuoteGet(w http.ResponseWriter, r *http.Request) {
	quote, ok := s.loadQuote(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, quote)
}

func (s *server) handleQuoteDelete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.quotes.Delete(id); err != nil {
		if errors.Is(err, quotes.ErrNotFound) {
			respondError(w, http.StatusNotFound, "quote not found")
			return
		}
		log.Printf("delete quote: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to delete quote")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type statusRequest struct {
	Status quotes.Status `json:"status"`
	Notes  string        `json:"notes"`
}

func (s *server) handleQuoteStatus(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req statusRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	if err := s.quotes.UpdateStatus(id, req.Status, req.Notes); err != nil {
		if errors.Is(err, quotes.ErrNotFound) {
			respondError(w, http.StatusNotFound, "quote not found")
			return
		}
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	quote, err := s.quotes.Get(id)
	if err != nil {
		log.Printf("load quote: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to load quote")
		return
	}
	respondJSON(w, http.StatusOK, quote)
}

// handleQuotePDF streams the rendered quote document and records the
// printed status in the history trail.
func (s *server) handleQuotePDF(w http.ResponseWriter, r *http.Request) {
	quote, ok := s.loadQuote(w, r)
	if !ok {
		return
	}

	data, err := export.QuotePDF(quote)
	if err != nil {
		log.Printf("render quote pdf: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to render quote pdf")
		return
	}

	if err := s.quotes.UpdateStatus(quote.ID, quotes.StatusPrinted, "PDF generated"); err != nil {
		log.Printf("record printed status for %s: %v", quote.Reference, err)
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", quote.Reference+".pdf"))
	w.Write(data)
}

// handleQuoteEmail sends the quote to its customer with the PDF attached
// and records the emailed status.
func (s *server) handleQuoteEmail(w http.ResponseWriter, r *http.Request) {
	if s.mailer == nil {
		respondError(w, http.StatusServiceUnavailable, "email is not configured")
		return
	}

	quote, ok := s.loadQuote(w, r)
	if !ok {
		return
	}

	pdfData, err := export.QuotePDF(quote)
	if err != nil {
		log.Printf("render quote pdf: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to render quote pdf")
		return
	}

	if err := s.mailer.SendQuote(quote, pdfData); err != nil {
		log.Printf("email quote %s: %v", quote.Reference, err)
		respondError(w, http.StatusBadGateway, "failed to send quote email")
		return
	}

	if err := s.quotes.UpdateStatus(quote.ID, quotes.StatusEmailed, "Emailed to "+quote.Customer.Email); err != nil {
		log.Printf("record emailed status for %s: %v", quote.Reference, err)
	}

	respondJSON(w, http.StatusOK, map[string]string{"sent_to": quote.Customer.Email})
}

// handleQuoteWoo pushes the quote to the WooCommerce store as an order and
// records the woo status.
func (s *server) handleQuoteWoo(w http.ResponseWriter, r *http.Request) {
	if s.woo == nil {
		respondError(w, http.StatusServiceUnavailable, "woocommerce is not configured")
		return
	}

	quote, ok := s.loadQuote(w, r)
	if !ok {
		return
	}

	order, err := s.woo.CreateOrder(r.Context(), quote)
	if err != nil {
		log.Printf("push quote %s to woocommerce: %v", quote.Reference, err)
		respondError(w, http.StatusBadGateway, "failed to create woocommerce order")
		return
	}

	note := fmt.Sprintf("WooCommerce order %d created", order.ID)
	if err := s.quotes.UpdateStatus(quote.ID, quotes.StatusWoo, note); err != nil {
		log.Printf("record woo status for %s: %v", quote.Reference, err)
	}

	respondJSON(w, http.StatusOK, order)
}

// loadQuote resolves the {id} parameter into a fully hydrated quote,
// writing the error response itself when that fails.
func (s *server) loadQuote(w http.ResponseWriter, r *http.Request) (quotes.SavedQuote, bool) {
	id, err := idParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return quotes.SavedQuote{}, false
	}

	quote, err := s.quotes.Get(id)
	if err != nil {
		if errors.Is(err, quotes.ErrNotFound) {
			respondError(w, http.StatusNotFound, "quote not found")
			return quotes.SavedQuote{}, false
		}
		log.Printf("load quote: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to load quote")
		return quotes.SavedQuote{}, false
	}
	return quote, true
}
