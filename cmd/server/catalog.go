package main

import (
	"bytes"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/yazoosa/printstation/internal/catalog"
	"github.com/yazoosa/printstation/internal/importer"
)

// idParam parses the {id} URL parameter.
func idParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}

// storeError maps store failures onto HTTP responses.
func storeError(w http.ResponseWriter, err error, action string) {
	if errors.Is(err, catalog.ErrNotFound) {
		respondError(w, http.StatusNotFound, "not found")
		return
	}
	log.Printf("%s: %v", action, err)
	respondError(w, http.StatusInternalServerError, "failed to "+action)
}

// ─── Papers ────────────────────────────────────────────────

func (s *server) handlePapersList(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active") == "1"
	papers, err := s.catalog.ListPapers(activeOnly)
	if err != nil {
		storeError(w, err, "list papers")
		return
	}
	respondJSON(w, http.StatusOK, papers)
}

func (s *server) handlePapersCreate(w http.ResponseWriter, r *http.Request) {
	var p catalog.Paper
	if err := decodeBody(r, &p); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	created, err := s.catalog.CreatePaper(p)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

func (s *server) handlePapersUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	var p catalog.Paper
	if err := decodeBody(r, &p); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	p.ID = id
	if err := s.catalog.UpdatePaper(p); err != nil {
		storeError(w, err, "update paper")
		return
	}
	updated, err := s.catalog.GetPaper(id)
	if err != nil {
		storeError(w, err, "load paper")
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

func (s *server) handlePapersDelete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.catalog.DeletePaper(id); err != nil {
		storeError(w, err, "delete paper")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handlePapersImport accepts a price list upload (multipart file or raw
// body) and inserts every cleanly parsed paper. Row errors are reported
// back, not fatal.
func (s *server) handlePapersImport(w http.ResponseWriter, r *http.Request) {
	data, filename, err := readUpload(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var result importer.Result
	if strings.HasSuffix(strings.ToLower(filename), ".xlsx") || strings.HasSuffix(strings.ToLower(filename), ".xls") {
		result = importer.ImportExcelReader(bytes.NewReader(data))
	} else {
		result = importer.ImportCSVData(data)
	}

	imported := 0
	for _, paper := range result.Papers {
		if _, err := s.catalog.CreatePaper(paper); err != nil {
			result.Errors = append(result.Errors, paper.Name+": "+err.Error())
			continue
		}
		imported++
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"imported": imported,
		"errors":   result.Errors,
		"warnings": result.Warnings,
	})
}

// readUpload extracts the uploaded file from a multipart form, falling back
// to the raw request body.
func readUpload(r *http.Request) ([]byte, string, error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		file, header, err := r.FormFile("file")
		if err != nil {
			return nil, "", errors.New("missing file upload")
		}
		defer file.Close()
		data, err := io.ReadAll(file)
		if err != nil {
			return nil, "", errors.New("cannot read file upload")
		}
		return data, header.Filename, nil
	}

	data, err := io.ReadAll(r.Body)
	if err != nil || len(data) == 0 {
		return nil, "", errors.New("empty request body")
	}
	return data, r.URL.Query().Get("filename"), nil
}

// ─── Sheet sizes ───────────────────────────────────────────

func (s *server) handleSheetSizesList(w http.ResponseWriter, r *http.Request) {
	sizes, err := s.catalog.ListSheetSizes()
	if err != nil {
		storeError(w, err, "list sheet sizes")
		return
	}
	respondJSON(w, http.StatusOK, sizes)
}

func (s *server) handleSheetSizesCreate(w http.ResponseWriter, r *http.Request) {
	var sz catalog.SheetSize
	if err := decodeBody(r, &sz); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	created, err := s.catalog.CreateSheetSize(sz)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

func (s *server) handleSheetSizesUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	var sz catalog.SheetSize
	if err := decodeBody(r, &sz); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	sz.ID = id
	if err := s.catalog.UpdateSheetSize(sz); err != nil {
		storeError(w, err, "update sheet size")
		return
	}
	respondJSON(w, http.StatusOK, sz)
}

func (s *server) handleSheetSizesDelete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.catalog.DeleteSheetSize(id); err != nil {
		storeError(w, err, "delete sheet size")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ─── Print pricing ─────────────────────────────────────────

func (s *server) handlePrintPricingList(w http.ResponseWriter, r *http.Request) {
	rows, err := s.catalog.ListPrintPricing()
	if err != nil {
		storeError(w, err, "list print pricing")
		return
	}
	respondJSON(w, http.StatusOK, rows)
}

func (s *server) handlePrintPricingUpsert(w http.ResponseWriter, r *http.Request) {
	var p catalog.PrintPrice
	if err := decodeBody(r, &p); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if p.Size == "" || p.Width <= 0 || p.Length <= 0 {
		respondError(w, http.StatusBadRequest, "size, width and length are required")
		return
	}
	if err := s.catalog.UpsertPrintPrice(p); err != nil {
		storeError(w, err, "save print pricing")
		return
	}
	saved, err := s.catalog.GetPrintPriceBySize(p.Size)
	if err != nil {
		storeError(w, err, "load print pricing")
		return
	}
	respondJSON(w, http.StatusOK, saved)
}

// ─── Setup fees ────────────────────────────────────────────

func (s *server) handleSetupFeesList(w http.ResponseWriter, r *http.Request) {
	fees, err := s.catalog.ListSetupFees()
	if err != nil {
		storeError(w, err, "list setup fees")
		return
	}
	respondJSON(w, http.StatusOK, fees)
}

// handleSetupFeesReplace swaps the whole setup fee table atomically: partial
// edits to fee bands leave gaps that misprice jobs.
func (s *server) handleSetupFeesReplace(w http.ResponseWriter, r *http.Request) {
	var bands []catalog.SetupFeeRow
	if err := decodeBody(r, &bands); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if err := s.catalog.ReplaceSetupFees(bands); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	fees, err := s.catalog.ListSetupFees()
	if err != nil {
		storeError(w, err, "list setup fees")
		return
	}
	respondJSON(w, http.StatusOK, fees)
}

// ─── Complexity brackets ───────────────────────────────────

func (s *server) handleComplexityList(w http.ResponseWriter, r *http.Request) {
	brackets, err := s.catalog.ListComplexityBrackets()
	if err != nil {
		storeError(w, err, "list complexity brackets")
		return
	}
	respondJSON(w, http.StatusOK, brackets)
}

func (s *server) handleComplexityCreate(w http.ResponseWriter, r *http.Request) {
	var c catalog.ComplexityRow
	if err := decodeBody(r, &c); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	created, err := s.catalog.CreateComplexityBracket(c)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

func (s *server) handleComplexityUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	var c catalog.ComplexityRow
	if err := decodeBody(r, &c); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	c.ID = id
	if err := s.catalog.UpdateComplexityBracket(c); err != nil {
		storeError(w, err, "update complexity bracket")
		return
	}
	respondJSON(w, http.StatusOK, c)
}

func (s *server) handleComplexityDelete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.catalog.DeleteComplexityBracket(id); err != nil {
		storeError(w, err, "delete complexity bracket")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ─── Finishing options ─────────────────────────────────────

func (s *server) handleFinishingList(w http.ResponseWriter, r *http.Request) {
	options, err := s.catalog.ListFinishingOptions()
	if err != nil {
		storeError(w, err, "list finishing options")
		return
	}
	respondJSON(w, http.StatusOK, options)
}

func (s *server) handleFinishingCreate(w http.ResponseWriter, r *http.Request) {
	var o catalog.FinishingOption
	if err := decodeBody(r, &o); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	created, err := s.catalog.CreateFinishingOption(o)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

func (s *server) handleFinishingUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	var o catalog.FinishingOption
	if err := decodeBody(r, &o); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	o.ID = id
	if err := s.catalog.UpdateFinishingOption(o); err != nil {
		storeError(w, err, "update finishing option")
		return
	}
	respondJSON(w, http.StatusOK, o)
}

func (s *server) handleFinishingDelete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.catalog.DeleteFinishingOption(id); err != nil {
		storeError(w, err, "delete finishing option")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
