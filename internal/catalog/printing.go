package catalog

import (
	"database/sql"
	"errors"
	"fmt"
)

// ListSheetSizes returns the pre-defined piece sizes in display order.
func (s *Store) ListSheetSizes() ([]SheetSize, error) {
	rows, err := s.db.Query(`
		SELECT id, type, name, width, length, display_order
		FROM sheet_sizes
		ORDER BY display_order, name
	`)
	if err != nil {
		return nil, fmt.Errorf("query sheet sizes: %w", err)
	}
	defer rows.Close()

	sizes := make([]SheetSize, 0)
	for rows.Next() {
		var sz SheetSize
		if err := rows.Scan(&sz.ID, &sz.Type, &sz.Name, &sz.Width, &sz.Length, &sz.DisplayOrder); err != nil {
			return nil, fmt.Errorf("scan sheet size: %w", err)
		}
		sizes = append(sizes, sz)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sheet sizes: %w", err)
	}
	return sizes, nil
}

// CreateSheetSize inserts a pre-defined piece size.
func (s *Store) CreateSheetSize(sz SheetSize) (SheetSize, error) {
	if sz.Width <= 0 || sz.Length <= 0 {
		return SheetSize{}, fmt.Errorf("sheet size dimensions must be positive")
	}
	result, err := s.db.Exec(`
		INSERT INTO sheet_sizes (type, name, width, length, display_order)
		VALUES (?, ?, ?, ?, ?)
	`, sz.Type, sz.Name, sz.Width, sz.Length, sz.DisplayOrder)
	if err != nil {
		return SheetSize{}, fmt.Errorf("insert sheet size: %w", err)
	}
	sz.ID, err = result.LastInsertId()
	if err != nil {
		return SheetSize{}, fmt.Errorf("sheet size insert id: %w", err)
	}
	return sz, nil
}

// UpdateSheetSize rewrites a pre-defined piece size.
func (s *Store) UpdateSheetSize(sz SheetSize) error {
	if sz.Width <= 0 || sz.Length <= 0 {
		return fmt.Errorf("sheet size dimensions must be positive")
	}
	result, err := s.db.Exec(`
		UPDATE sheet_sizes
		SET type = ?, name = ?, width = ?, length = ?, display_order = ?
		WHERE id = ?
	`, sz.Type, sz.Name, sz.Width, sz.Length, sz.DisplayOrder, sz.ID)
	if err != nil {
		return fmt.Errorf("update sheet size: %w", err)
	}
	return requireAffected(result, "sheet size")
}

// DeleteSheetSize removes a pre-defined piece size.
func (s *Store) DeleteSheetSize(id int64) error {
	result, err := s.db.Exec(`DELETE FROM sheet_sizes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete sheet size: %w", err)
	}
	return requireAffected(result, "sheet size")
}

// ListPrintPricing returns all stock sheet formats with their per-mode
// prices.
func (s *Store) ListPrintPricing() ([]PrintPrice, error) {
	rows, err := s.db.Query(`
		SELECT id, size, width, length,
			fc_ss_cost, fc_ss_price, fc_ds_cost, fc_ds_price,
			bw_ss_cost, bw_ss_price, bw_ds_cost, bw_ds_price,
			fc_bw_cost, fc_bw_price
		FROM print_pricing
		ORDER BY size
	`)
	if err != nil {
		return nil, fmt.Errorf("query print pricing: %w", err)
	}
	defer rows.Close()

	prices := make([]PrintPrice, 0)
	for rows.Next() {
		var p PrintPrice
		if err := rows.Scan(&p.ID, &p.Size, &p.Width, &p.Length,
			&p.FcSsCost, &p.FcSsPrice, &p.FcDsCost, &p.FcDsPrice,
			&p.BwSsCost, &p.BwSsPrice, &p.BwDsCost, &p.BwDsPrice,
			&p.FcBwCost, &p.FcBwPrice); err != nil {
			return nil, fmt.Errorf("scan print price: %w", err)
		}
		prices = append(prices, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate print pricing: %w", err)
	}
	return prices, nil
}

// GetPrintPriceBySize returns the pricing row for one stock sheet format.
// A missing format is reported as ErrNotFound so callers can surface it as
// a form error.
func (s *Store) GetPrintPriceBySize(size string) (PrintPrice, error) {
	var p PrintPrice
	err := s.db.QueryRow(`
		SELECT id, size, width, length,
			fc_ss_cost, fc_ss_price, fc_ds_cost, fc_ds_price,
			bw_ss_cost, bw_ss_price, bw_ds_cost, bw_ds_price,
			fc_bw_cost, fc_bw_price
		FROM print_pricing
		WHERE size = ?
	`, size).Scan(&p.ID, &p.Size, &p.Width, &p.Length,
		&p.FcSsCost, &p.FcSsPrice, &p.FcDsCost, &p.FcDsPrice,
		&p.BwSsCost, &p.BwSsPrice, &p.BwDsCost, &p.BwDsPrice,
		&p.FcBwCost, &p.FcBwPrice)
	if errors.Is(err, sql.ErrNoRows) {
		return PrintPrice{}, fmt.Errorf("print pricing for %q: %w", size, ErrNotFound)
	}
	if err != nil {
		return PrintPrice{}, fmt.Errorf("query print pricing for %q: %w", size, err)
	}
	return p, nil
}

// UpsertPrintPrice inserts or rewrites the pricing row for a stock sheet
// format, keyed by the format name.
func (s *Store) UpsertPrintPrice(p PrintPrice) error {
	if p.Width <= 0 || p.Length <= 0 {
		return fmt.Errorf("print pricing dimensions must be positive")
	}
	_, err := s.db.Exec(`
		INSERT INTO print_pricing (
			size, width, length,
			fc_ss_cost, fc_ss_price, fc_ds_cost, fc_ds_price,
			bw_ss_cost, bw_ss_price, bw_ds_cost, bw_ds_price,
			fc_bw_cost, fc_bw_price
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(size) DO UPDATE SET
			width = excluded.width,
			length = excluded.length,
			fc_ss_cost = excluded.fc_ss_cost,
			fc_ss_price = excluded.fc_ss_price,
			fc_ds_cost = excluded.fc_ds_cost,
			fc_ds_price = excluded.fc_ds_price,
			bw_ss_cost = excluded.bw_ss_cost,
			bw_ss_price = excluded.bw_ss_price,
			bw_ds_cost = excluded.bw_ds_cost,
			bw_ds_price = excluded.bw_ds_price,
			fc_bw_cost = excluded.fc_bw_cost,
			fc_bw_price = excluded.fc_bw_price
	`, p.Size, p.Width, p.Length,
		p.FcSsCost, p.FcSsPrice, p.FcDsCost, p.FcDsPrice,
		p.BwSsCost, p.BwSsPrice, p.BwDsCost, p.BwDsPrice,
		p.FcBwCost, p.FcBwPrice)
	if err != nil {
		return fmt.Errorf("upsert print pricing: %w", err)
	}
	return nil
}
