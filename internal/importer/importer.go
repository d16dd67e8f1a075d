// Package importer reads paper price lists from CSV and Excel files so
// suppliers' catalogues can be loaded without retyping. It supports
// automatic delimiter detection and case-insensitive header recognition.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/yazoosa/printstation/internal/catalog"
)

// defaultMarkup is applied when a price list carries no markup column.
const defaultMarkup = 50.0

// Result holds the outcome of an import: the parsed papers plus per-row
// errors and warnings. A file-level failure leaves Papers empty.
type Result struct {
	Papers   []catalog.Paper
	Errors   []string
	Warnings []string
}

// columnMapping maps semantic column roles to their indices in the data.
type columnMapping struct {
	Type     int
	Name     int
	Grammage int
	Micron   int
	Size     int
	Cost     int
	Markup   int
}

// headerAliases maps canonical column names to their accepted aliases
// (all lowercase).
var headerAliases = map[string][]string{
	"type":     {"type", "paper type", "category", "stock type"},
	"name":     {"name", "paper", "paper name", "description", "stock"},
	"grammage": {"grammage", "gsm", "weight", "g/m2", "gm2"},
	"micron":   {"micron", "microns", "mic", "um", "thickness"},
	"size":     {"size", "sheet size", "format"},
	"cost":     {"cost", "cost per sheet", "unit cost", "price", "cost price"},
	"markup":   {"markup", "markup %", "markup percentage", "margin"},
}

// DetectDelimiter determines the most likely CSV delimiter by trying
// comma, semicolon, tab and pipe, and scoring each by column count
// consistency across lines.
func DetectDelimiter(data []byte) rune {
	candidates := []rune{',', ';', '\t', '|'}
	best := ','
	bestScore := 0

	for _, delim := range candidates {
		reader := csv.NewReader(bytes.NewReader(data))
		reader.Comma = delim
		reader.LazyQuotes = true
		reader.FieldsPerRecord = -1

		records, err := reader.ReadAll()
		if err != nil || len(records) == 0 {
			continue
		}

		firstCols := len(records[0])
		if firstCols < 2 {
			continue
		}

		score := 0
		for _, row := range records {
			if len(row) == firstCols {
				score++
			}
		}

		weighted := score*10 + firstCols
		if weighted > bestScore {
			bestScore = weighted
			best = delim
		}
	}

	return best
}

// detectColumns examines a header row and returns a columnMapping. It
// matches case-insensitively against known aliases for each role.
func detectColumns(row []string) (columnMapping, bool) {
	mapping := columnMapping{
		Type:     -1,
		Name:     -1,
		Grammage: -1,
		Micron:   -1,
		Size:     -1,
		Cost:     -1,
		Markup:   -1,
	}

	assign := func(dst *int, i int) {
		if *dst == -1 {
			*dst = i
		}
	}

	isHeader := false
	for i, cell := range row {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		for role, aliases := range headerAliases {
			for _, alias := range aliases {
				if normalized != alias {
					continue
				}
				isHeader = true
				switch role {
				case "type":
					assign(&mapping.Type, i)
				case "name":
					assign(&mapping.Name, i)
				case "grammage":
					assign(&mapping.Grammage, i)
				case "micron":
					assign(&mapping.Micron, i)
				case "size":
					assign(&mapping.Size, i)
				case "cost":
					assign(&mapping.Cost, i)
				case "markup":
					assign(&mapping.Markup, i)
				}
			}
		}
	}

	return mapping, isHeader
}

// getCell safely retrieves a trimmed cell value by column index.
func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// parseRow extracts a Paper from a row using the given column mapping.
func parseRow(row []string, mapping columnMapping, rowLabel string) (catalog.Paper, string, string) {
	name := getCell(row, mapping.Name)
	if name == "" {
		return catalog.Paper{}, fmt.Sprintf("%s: missing paper name", rowLabel), ""
	}

	costStr := getCell(row, mapping.Cost)
	if costStr == "" {
		return catalog.Paper{}, fmt.Sprintf("%s: missing cost value", rowLabel), ""
	}
	cost, err := strconv.ParseFloat(normalizeNumber(costStr), 64)
	if err != nil {
		return catalog.Paper{}, fmt.Sprintf("%s: invalid cost %q", rowLabel, costStr), ""
	}
	if cost < 0 {
		return catalog.Paper{}, fmt.Sprintf("%s: cost must not be negative", rowLabel), ""
	}

	paper := catalog.Paper{
		Type:             getCell(row, mapping.Type),
		Name:             name,
		Grammage:         getCell(row, mapping.Grammage),
		Micron:           getCell(row, mapping.Micron),
		Size:             getCell(row, mapping.Size),
		Cost:             cost,
		MarkupPercentage: defaultMarkup,
		Active:           true,
	}

	var warning string
	if markupStr := getCell(row, mapping.Markup); markupStr != "" {
		markup, err := strconv.ParseFloat(normalizeNumber(markupStr), 64)
		if err != nil || markup < 0 {
			warning = fmt.Sprintf("%s: invalid markup %q, using default %.0f%%", rowLabel, markupStr, defaultMarkup)
		} else {
			paper.MarkupPercentage = markup
		}
	}

	return paper, "", warning
}

// normalizeNumber strips currency symbols, spaces and percent signs that
// suppliers commonly leave in numeric cells.
func normalizeNumber(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "R")
	s = strings.TrimSuffix(s, "%")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, ",", ".")
	return s
}

// ImportFile imports papers from path, dispatching on the file extension.
func ImportFile(path string) Result {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xls":
		return ImportExcel(path)
	default:
		return ImportCSV(path)
	}
}

// ImportCSV imports papers from a CSV file with automatic delimiter
// detection.
func ImportCSV(path string) Result {
	var result Result

	data, err := os.ReadFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("cannot open file: %v", err))
		return result
	}
	return ImportCSVData(data)
}

// ImportCSVData imports papers from raw CSV bytes.
func ImportCSVData(data []byte) Result {
	var result Result

	if len(bytes.TrimSpace(data)) == 0 {
		result.Errors = append(result.Errors, "file is empty")
		return result
	}

	delimiter := DetectDelimiter(data)
	if delimiter != ',' {
		name := map[rune]string{';': "semicolon", '\t': "tab", '|': "pipe"}[delimiter]
		result.Warnings = append(result.Warnings, fmt.Sprintf("detected %s delimiter", name))
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("cannot read csv: %v", err))
		return result
	}

	return importFromRows(records, "line", result.Warnings)
}

// ImportExcel imports papers from the first sheet of an Excel workbook.
func ImportExcel(path string) Result {
	var result Result

	f, err := excelize.OpenFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("cannot open excel file: %v", err))
		return result
	}
	defer f.Close()

	return importExcelRows(f, result)
}

// ImportExcelReader imports papers from Excel workbook bytes.
func ImportExcelReader(r io.Reader) Result {
	var result Result

	f, err := excelize.OpenReader(r)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("cannot open excel file: %v", err))
		return result
	}
	defer f.Close()

	return importExcelRows(f, result)
}

func importExcelRows(f *excelize.File, result Result) Result {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		result.Errors = append(result.Errors, "excel file has no sheets")
		return result
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("cannot read excel data: %v", err))
		return result
	}

	return importFromRows(rows, "row", result.Warnings)
}

// importFromRows is the shared import path for CSV and Excel data. The
// first row must be a recognizable header; price lists without headers are
// too ambiguous to map positionally.
func importFromRows(rows [][]string, rowPrefix string, initialWarnings []string) Result {
	result := Result{Warnings: initialWarnings}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "no data rows found")
		return result
	}

	mapping, hasHeader := detectColumns(rows[0])
	if !hasHeader {
		result.Errors = append(result.Errors, "no recognizable header row found (need at least Name and Cost columns)")
		return result
	}

	var missing []string
	if mapping.Name == -1 {
		missing = append(missing, "Name")
	}
	if mapping.Cost == -1 {
		missing = append(missing, "Cost")
	}
	if len(missing) > 0 {
		result.Errors = append(result.Errors, fmt.Sprintf("required columns not found in header: %s", strings.Join(missing, ", ")))
		return result
	}

	for i := 1; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}

		rowLabel := fmt.Sprintf("%s %d", rowPrefix, i+1)
		paper, errMsg, warning := parseRow(row, mapping, rowLabel)
		if errMsg != "" {
			result.Errors = append(result.Errors, errMsg)
			continue
		}
		if warning != "" {
			result.Warnings = append(result.Warnings, warning)
		}
		paper.OrderSequence = len(result.Papers) + 1
		result.Papers = append(result.Papers, paper)
	}

	return result
}
