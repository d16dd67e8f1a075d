package catalog

import (
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strings"
)

// sellPrice derives a paper's sell price from cost and markup, rounded to
// 2 decimals.
func sellPrice(cost, markupPercent float64) float64 {
	return math.Round(cost*(1+markupPercent/100)*100) / 100
}

// ListPapers returns the paper catalog ordered for display. When activeOnly
// is set, inactive papers are filtered out.
func (s *Store) ListPapers(activeOnly bool) ([]Paper, error) {
	query := `
		SELECT id, type, name, grammage, COALESCE(micron, ''), size, cost, markup_percentage, price, order_sequence, active
		FROM papers
	`
	if activeOnly {
		query += ` WHERE active`
	}
	query += ` ORDER BY type, order_sequence, name`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("query papers: %w", err)
	}
	defer rows.Close()

	papers := make([]Paper, 0)
	for rows.Next() {
		var p Paper
		if err := rows.Scan(&p.ID, &p.Type, &p.Name, &p.Grammage, &p.Micron, &p.Size, &p.Cost, &p.MarkupPercentage, &p.Price, &p.OrderSequence, &p.Active); err != nil {
			return nil, fmt.Errorf("scan paper: %w", err)
		}
		papers = append(papers, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate papers: %w", err)
	}
	return papers, nil
}

// GetPaper returns a single paper by id.
func (s *Store) GetPaper(id int64) (Paper, error) {
	var p Paper
	err := s.db.QueryRow(`
		SELECT id, type, name, grammage, COALESCE(micron, ''), size, cost, markup_percentage, price, order_sequence, active
		FROM papers
		WHERE id = ?
	`, id).Scan(&p.ID, &p.Type, &p.Name, &p.Grammage, &p.Micron, &p.Size, &p.Cost, &p.MarkupPercentage, &p.Price, &p.OrderSequence, &p.Active)
	if errors.Is(err, sql.ErrNoRows) {
		return Paper{}, fmt.Errorf("paper %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return Paper{}, fmt.Errorf("query paper %d: %w", id, err)
	}
	return p, nil
}

// CreatePaper inserts a paper and returns it with its generated id and
// derived price.
func (s *Store) CreatePaper(p Paper) (Paper, error) {
	if strings.TrimSpace(p.Name) == "" {
		return Paper{}, fmt.Errorf("paper name is required")
	}
	p.Price = sellPrice(p.Cost, p.MarkupPercentage)

	result, err := s.db.Exec(`
		INSERT INTO papers (type, name, grammage, micron, size, cost, markup_percentage, price, order_sequence, active)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, p.Type, p.Name, p.Grammage, p.Micron, p.Size, p.Cost, p.MarkupPercentage, p.Price, p.OrderSequence, p.Active)
	if err != nil {
		return Paper{}, fmt.Errorf("insert paper: %w", err)
	}
	p.ID, err = result.LastInsertId()
	if err != nil {
		return Paper{}, fmt.Errorf("paper insert id: %w", err)
	}
	return p, nil
}

// UpdatePaper rewrites a paper row, re-deriving the sell price.
func (s *Store) UpdatePaper(p Paper) error {
	p.Price = sellPrice(p.Cost, p.MarkupPercentage)

	result, err := s.db.Exec(`
		UPDATE papers
		SET type = ?, name = ?, grammage = ?, micron = ?, size = ?, cost = ?,
			markup_percentage = ?, price = ?, order_sequence = ?, active = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, p.Type, p.Name, p.Grammage, p.Micron, p.Size, p.Cost, p.MarkupPercentage, p.Price, p.OrderSequence, p.Active, p.ID)
	if err != nil {
		return fmt.Errorf("update paper: %w", err)
	}
	return requireAffected(result, "paper")
}

// DeletePaper removes a paper from the catalog.
func (s *Store) DeletePaper(id int64) error {
	result, err := s.db.Exec(`DELETE FROM papers WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete paper: %w", err)
	}
	return requireAffected(result, "paper")
}
