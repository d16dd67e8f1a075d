package catalog

import (
	"fmt"

	"github.com/yazoosa/printstation/internal/pricing"
)

// ListFinishingOptions returns the finishing option table grouped for
// display.
func (s *Store) ListFinishingOptions() ([]FinishingOption, error) {
	rows, err := s.db.Query(`
		SELECT id, category, sub_category, setup_fee, cost, price, quantity_basis
		FROM finishing_options
		ORDER BY category, sub_category
	`)
	if err != nil {
		return nil, fmt.Errorf("query finishing options: %w", err)
	}
	defer rows.Close()

	options := make([]FinishingOption, 0)
	for rows.Next() {
		var o FinishingOption
		var basis string
		if err := rows.Scan(&o.ID, &o.Category, &o.SubCategory, &o.SetupFee, &o.Cost, &o.Price, &basis); err != nil {
			return nil, fmt.Errorf("scan finishing option: %w", err)
		}
		o.QuantityBasis = pricing.QuantityBasis(basis)
		options = append(options, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate finishing options: %w", err)
	}
	return options, nil
}

// FindFinishingOption returns the option for a category/sub-category pair.
func (s *Store) FindFinishingOption(category, subCategory string) (FinishingOption, error) {
	options, err := s.ListFinishingOptions()
	if err != nil {
		return FinishingOption{}, err
	}
	for _, o := range options {
		if o.Category == category && o.SubCategory == subCategory {
			return o, nil
		}
	}
	return FinishingOption{}, fmt.Errorf("finishing option %s/%s: %w", category, subCategory, ErrNotFound)
}

// CreateFinishingOption inserts a finishing option.
func (s *Store) CreateFinishingOption(o FinishingOption) (FinishingOption, error) {
	if o.QuantityBasis == "" {
		o.QuantityBasis = pricing.PerUnit
	}
	if o.QuantityBasis != pricing.PerUnit && o.QuantityBasis != pricing.PerSheet {
		return FinishingOption{}, fmt.Errorf("invalid quantity basis %q", o.QuantityBasis)
	}
	result, err := s.db.Exec(`
		INSERT INTO finishing_options (category, sub_category, setup_fee, cost, price, quantity_basis)
		VALUES (?, ?, ?, ?, ?, ?)
	`, o.Category, o.SubCategory, o.SetupFee, o.Cost, o.Price, string(o.QuantityBasis))
	if err != nil {
		return FinishingOption{}, fmt.Errorf("insert finishing option: %w", err)
	}
	o.ID, err = result.LastInsertId()
	if err != nil {
		return FinishingOption{}, fmt.Errorf("finishing option insert id: %w", err)
	}
	return o, nil
}

// UpdateFinishingOption rewrites a finishing option.
func (s *Store) UpdateFinishingOption(o FinishingOption) error {
	if o.QuantityBasis != pricing.PerUnit && o.QuantityBasis != pricing.PerSheet {
		return fmt.Errorf("invalid quantity basis %q", o.QuantityBasis)
	}
	result, err := s.db.Exec(`
		UPDATE finishing_options
		SET category = ?, sub_category = ?, setup_fee = ?, cost = ?, price = ?, quantity_basis = ?
		WHERE id = ?
	`, o.Category, o.SubCategory, o.SetupFee, o.Cost, o.Price, string(o.QuantityBasis), o.ID)
	if err != nil {
		return fmt.Errorf("update finishing option: %w", err)
	}
	return requireAffected(result, "finishing option")
}

// DeleteFinishingOption removes a finishing option.
func (s *Store) DeleteFinishingOption(id int64) error {
	result, err := s.db.Exec(`DELETE FROM finishing_options WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete finishing option: %w", err)
	}
	return requireAffected(result, "finishing option")
}
