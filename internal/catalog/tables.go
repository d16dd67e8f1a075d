package catalog

import (
	"fmt"

	"github.com/yazoosa/printstation/internal/pricing"
)

// ListSetupFees returns the stored setup fee bands sorted by breakpoint.
func (s *Store) ListSetupFees() ([]SetupFeeRow, error) {
	rows, err := s.db.Query(`
		SELECT id, breakpoint, fee
		FROM setup_fees
		ORDER BY breakpoint
	`)
	if err != nil {
		return nil, fmt.Errorf("query setup fees: %w", err)
	}
	defer rows.Close()

	fees := make([]SetupFeeRow, 0)
	for rows.Next() {
		var f SetupFeeRow
		if err := rows.Scan(&f.ID, &f.Breakpoint, &f.Fee); err != nil {
			return nil, fmt.Errorf("scan setup fee: %w", err)
		}
		fees = append(fees, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate setup fees: %w", err)
	}
	return fees, nil
}

// SetupFeeTable loads the setup fee table in the engine's form. A missing
// or empty table is valid and prices at zero.
func (s *Store) SetupFeeTable() (pricing.SetupFeeTable, error) {
	rows, err := s.ListSetupFees()
	if err != nil {
		return nil, err
	}
	table := make(pricing.SetupFeeTable, 0, len(rows))
	for _, r := range rows {
		table = append(table, pricing.SetupFeeBand{Breakpoint: r.Breakpoint, Fee: r.Fee})
	}
	return table, nil
}

// ReplaceSetupFees rewrites the whole setup fee table in one transaction.
// Breakpoints must be distinct non-negative integers.
func (s *Store) ReplaceSetupFees(bands []SetupFeeRow) error {
	seen := make(map[int]bool, len(bands))
	for _, b := range bands {
		if b.Breakpoint < 0 {
			return fmt.Errorf("setup fee breakpoint %d must not be negative", b.Breakpoint)
		}
		if seen[b.Breakpoint] {
			return fmt.Errorf("duplicate setup fee breakpoint %d", b.Breakpoint)
		}
		seen[b.Breakpoint] = true
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin setup fee transaction: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM setup_fees`); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("clear setup fees: %w", err)
	}
	for _, b := range bands {
		if _, err := tx.Exec(`INSERT INTO setup_fees (breakpoint, fee) VALUES (?, ?)`, b.Breakpoint, b.Fee); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert setup fee band %d: %w", b.Breakpoint, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit setup fees: %w", err)
	}
	return nil
}

// ListComplexityBrackets returns the stored complexity bands sorted by
// breakpoint.
func (s *Store) ListComplexityBrackets() ([]ComplexityRow, error) {
	rows, err := s.db.Query(`
		SELECT id, breakpoint, percent
		FROM complexity_brackets
		ORDER BY breakpoint
	`)
	if err != nil {
		return nil, fmt.Errorf("query complexity brackets: %w", err)
	}
	defer rows.Close()

	brackets := make([]ComplexityRow, 0)
	for rows.Next() {
		var c ComplexityRow
		if err := rows.Scan(&c.ID, &c.Breakpoint, &c.Percent); err != nil {
			return nil, fmt.Errorf("scan complexity bracket: %w", err)
		}
		brackets = append(brackets, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate complexity brackets: %w", err)
	}
	return brackets, nil
}

// ComplexityTable loads the complexity table in the engine's form.
func (s *Store) ComplexityTable() (pricing.ComplexityTable, error) {
	rows, err := s.ListComplexityBrackets()
	if err != nil {
		return nil, err
	}
	table := make(pricing.ComplexityTable, 0, len(rows))
	for _, r := range rows {
		table = append(table, pricing.ComplexityBand{Breakpoint: r.Breakpoint, Percent: r.Percent})
	}
	return table, nil
}

// CreateComplexityBracket inserts one complexity band.
func (s *Store) CreateComplexityBracket(c ComplexityRow) (ComplexityRow, error) {
	if c.Breakpoint < 0 {
		return ComplexityRow{}, fmt.Errorf("complexity breakpoint must not be negative")
	}
	result, err := s.db.Exec(`
		INSERT INTO complexity_brackets (breakpoint, percent) VALUES (?, ?)
	`, c.Breakpoint, c.Percent)
	if err != nil {
		return ComplexityRow{}, fmt.Errorf("insert complexity bracket: %w", err)
	}
	c.ID, err = result.LastInsertId()
	if err != nil {
		return ComplexityRow{}, fmt.Errorf("complexity bracket insert id: %w", err)
	}
	return c, nil
}

// UpdateComplexityBracket rewrites one complexity band.
func (s *Store) UpdateComplexityBracket(c ComplexityRow) error {
	result, err := s.db.Exec(`
		UPDATE complexity_brackets SET breakpoint = ?, percent = ? WHERE id = ?
	`, c.Breakpoint, c.Percent, c.ID)
	if err != nil {
		return fmt.Errorf("update complexity bracket: %w", err)
	}
	return requireAffected(result, "complexity bracket")
}

// DeleteComplexityBracket removes one complexity band.
func (s *Store) DeleteComplexityBracket(id int64) error {
	result, err := s.db.Exec(`DELETE FROM complexity_brackets WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete complexity bracket: %w", err)
	}
	return requireAffected(result, "complexity bracket")
}
