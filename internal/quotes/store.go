package quotes

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrNotFound is returned when a quote does not exist.
var ErrNotFound = errors.New("quote not found")

// Store persists quotes in SQLite.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// NewStore wraps an open database handle.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db, now: time.Now}
}

func (s *Store) timestamp() string {
	return s.now().UTC().Format(time.RFC3339)
}

// Save stores a quote and returns its generated reference. The customer is
// upserted by email, items and their layout metadata are snapshotted, and a
// draft history entry opens the trail. Everything happens in one
// transaction.
func (s *Store) Save(customer Customer, items []Item, totals Totals, notes string) (string, error) {
	if len(items) == 0 {
		return "", fmt.Errorf("quote has no items")
	}
	if strings.TrimSpace(customer.Email) == "" {
		return "", fmt.Errorf("customer email is required")
	}

	tx, err := s.db.Begin()
	if err != nil {
		return "", fmt.Errorf("begin save transaction: %w", err)
	}
	defer tx.Rollback()

	customerID, err := upsertCustomer(tx, customer)
	if err != nil {
		return "", err
	}

	reference, err := nextReference(tx)
	if err != nil {
		return "", err
	}

	now := s.timestamp()
	result, err := tx.Exec(`
		INSERT INTO quotes (
			quote_reference, customer_id, date_created, date_modified,
			subtotal, vat, total, status, created_by,
			discount_percentage, discount_value, subtotal_after_discount, notes
		) VALUES (?, ?, ?, ?, ?, ?, ?, 'draft', 'system', ?, ?, ?, ?)
	`, reference, customerID, now, now,
		totals.Subtotal, totals.VAT, totals.Total,
		totals.DiscountPercentage, totals.DiscountValue, totals.SubtotalAfterDiscount, notes)
	if err != nil {
		return "", fmt.Errorf("insert quote: %w", err)
	}
	quoteID, err := result.LastInsertId()
	if err != nil {
		return "", fmt.Errorf("quote insert id: %w", err)
	}

	for _, item := range items {
		itemResult, err := tx.Exec(`
			INSERT INTO quote_items (quote_id, description, price, quantity, total)
			VALUES (?, ?, ?, ?, ?)
		`, quoteID, item.Description, item.Price, item.Quantity, item.Total)
		if err != nil {
			return "", fmt.Errorf("insert quote item: %w", err)
		}
		if item.Layout == nil {
			continue
		}
		itemID, err := itemResult.LastInsertId()
		if err != nil {
			return "", fmt.Errorf("quote item insert id: %w", err)
		}
		l := item.Layout
		if _, err := tx.Exec(`
			INSERT INTO layout_calculations (
				quote_id, item_id, across, down, is_landscape, repeats,
				sheets_required, optimal_layout, layout_details
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, quoteID, itemID, l.Across, l.Down, l.IsLandscape, l.Repeats,
			l.SheetsRequired, l.OptimalLayout(), l.LayoutDetails()); err != nil {
			return "", fmt.Errorf("insert layout calculation: %w", err)
		}
	}

	if _, err := tx.Exec(`
		INSERT INTO quote_history (quote_id, status_from, status_to, changed_by, date_changed, notes)
		VALUES (?, NULL, 'draft', 'system', ?, 'Quote created')
	`, quoteID, now); err != nil {
		return "", fmt.Errorf("insert quote history: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit save transaction: %w", err)
	}
	return reference, nil
}

func upsertCustomer(tx *sql.Tx, c Customer) (int64, error) {
	var id int64
	err := tx.QueryRow(`SELECT id FROM customers WHERE email = ?`, c.Email).Scan(&id)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		result, err := tx.Exec(`
			INSERT INTO customers (name, surname, company_name, email, phone, street_address, complex_or_building, city, area, postal_code, active)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, TRUE)
		`, c.Name, c.Surname, c.CompanyName, c.Email, c.Phone, c.StreetAddress, c.ComplexOrBuilding, c.City, c.Area, c.PostalCode)
		if err != nil {
			return 0, fmt.Errorf("insert customer: %w", err)
		}
		id, err = result.LastInsertId()
		if err != nil {
			return 0, fmt.Errorf("customer insert id: %w", err)
		}
		return id, nil
	case err != nil:
		return 0, fmt.Errorf("query customer: %w", err)
	}

	if _, err := tx.Exec(`
		UPDATE customers
		SET name = ?, surname = ?, company_name = ?, phone = ?, street_address = ?,
			complex_or_building = ?, city = ?, area = ?, postal_code = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, c.Name, c.Surname, c.CompanyName, c.Phone, c.StreetAddress, c.ComplexOrBuilding, c.City, c.Area, c.PostalCode, id); err != nil {
		return 0, fmt.Errorf("update customer: %w", err)
	}
	return id, nil
}

// nextReference derives the next sequential QB-%04d reference from the
// highest stored one.
func nextReference(tx *sql.Tx) (string, error) {
	var last string
	err := tx.QueryRow(`
		SELECT quote_reference FROM quotes ORDER BY quote_reference DESC LIMIT 1
	`).Scan(&last)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("query last reference: %w", err)
	}

	lastNumber := 0
	if _, suffix, ok := strings.Cut(last, "-"); ok {
		if n, err := strconv.Atoi(suffix); err == nil {
			lastNumber = n
		}
	}
	return fmt.Sprintf("QB-%04d", lastNumber+1), nil
}

// List returns quote summaries newest first, optionally filtered by a
// case-insensitive match on reference or customer name.
func (s *Store) List(query string) ([]Summary, error) {
	search := "%" + query + "%"
	rows, err := s.db.Query(`
		SELECT q.id, q.quote_reference, c.name || ' ' || c.surname, q.date_created, q.status, q.total
		FROM quotes q
		JOIN customers c ON c.id = q.customer_id
		WHERE (? = '' OR q.quote_reference LIKE ? OR c.name LIKE ? OR c.surname LIKE ? OR c.company_name LIKE ?)
		ORDER BY q.date_created DESC, q.id DESC
	`, query, search, search, search, search)
	if err != nil {
		return nil, fmt.Errorf("query quotes: %w", err)
	}
	defer rows.Close()

	summaries := make([]Summary, 0)
	for rows.Next() {
		var item Summary
		if err := rows.Scan(&item.ID, &item.Reference, &item.CustomerName, &item.DateCreated, &item.Status, &item.Total); err != nil {
			return nil, fmt.Errorf("scan quote summary: %w", err)
		}
		summaries = append(summaries, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate quotes: %w", err)
	}
	return summaries, nil
}

// Get returns a fully hydrated quote by id.
func (s *Store) Get(id int64) (SavedQuote, error) {
	var q SavedQuote
	var notes sql.NullString
	err := s.db.QueryRow(`
		SELECT q.id, q.quote_reference, q.date_created, q.date_modified,
			q.subtotal, q.vat, q.total, q.status,
			q.discount_percentage, q.discount_value, q.subtotal_after_discount, q.notes,
			c.id, c.name, c.surname, c.company_name, c.email, c.phone,
			c.street_address, c.complex_or_building, c.city, c.area, c.postal_code
		FROM quotes q
		JOIN customers c ON c.id = q.customer_id
		WHERE q.id = ?
	`, id).Scan(
		&q.ID, &q.Reference, &q.DateCreated, &q.DateModified,
		&q.Totals.Subtotal, &q.Totals.VAT, &q.Totals.Total, &q.Status,
		&q.Totals.DiscountPercentage, &q.Totals.DiscountValue, &q.Totals.SubtotalAfterDiscount, &notes,
		&q.Customer.ID, &q.Customer.Name, &q.Customer.Surname, &q.Customer.CompanyName,
		&q.Customer.Email, &q.Customer.Phone, &q.Customer.StreetAddress,
		&q.Customer.ComplexOrBuilding, &q.Customer.City, &q.Customer.Area, &q.Customer.PostalCode,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return SavedQuote{}, ErrNotFound
	}
	if err != nil {
		return SavedQuote{}, fmt.Errorf("query quote %d: %w", id, err)
	}
	q.Notes = notes.String

	if q.Items, err = s.loadItems(id); err != nil {
		return SavedQuote{}, err
	}
	if q.History, err = s.loadHistory(id); err != nil {
		return SavedQuote{}, err
	}
	for _, h := range q.History {
		if !h.StatusTo.Primary() {
			q.SecondaryStatuses = append(q.SecondaryStatuses, h.StatusTo)
		}
	}
	return q, nil
}

func (s *Store) loadItems(quoteID int64) ([]Item, error) {
	rows, err := s.db.Query(`
		SELECT i.id, i.description, i.price, i.quantity, i.total,
			l.across, l.down, l.is_landscape, l.repeats, l.sheets_required
		FROM quote_items i
		LEFT JOIN layout_calculations l ON l.item_id = i.id
		WHERE i.quote_id = ?
		ORDER BY i.id
	`, quoteID)
	if err != nil {
		return nil, fmt.Errorf("query quote items: %w", err)
	}
	defer rows.Close()

	items := make([]Item, 0)
	for rows.Next() {
		var item Item
		var across, down, repeats, sheets sql.NullInt64
		var landscape sql.NullBool
		if err := rows.Scan(&item.ID, &item.Description, &item.Price, &item.Quantity, &item.Total,
			&across, &down, &landscape, &repeats, &sheets); err != nil {
			return nil, fmt.Errorf("scan quote item: %w", err)
		}
		if repeats.Valid {
			item.Layout = &LayoutInfo{
				Across:         int(across.Int64),
				Down:           int(down.Int64),
				IsLandscape:    landscape.Bool,
				Repeats:        int(repeats.Int64),
				SheetsRequired: int(sheets.Int64),
			}
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate quote items: %w", err)
	}
	return items, nil
}

func (s *Store) loadHistory(quoteID int64) ([]HistoryEntry, error) {
	rows, err := s.db.Query(`
		SELECT id, COALESCE(status_from, ''), status_to, changed_by, date_changed, notes
		FROM quote_history
		WHERE quote_id = ?
		ORDER BY date_changed, id
	`, quoteID)
	if err != nil {
		return nil, fmt.Errorf("query quote history: %w", err)
	}
	defer rows.Close()

	history := make([]HistoryEntry, 0)
	for rows.Next() {
		var h HistoryEntry
		if err := rows.Scan(&h.ID, &h.StatusFrom, &h.StatusTo, &h.ChangedBy, &h.DateChanged, &h.Notes); err != nil {
			return nil, fmt.Errorf("scan history entry: %w", err)
		}
		history = append(history, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate quote history: %w", err)
	}
	return history, nil
}

// UpdateStatus appends a history entry and, for primary statuses, moves the
// quote row to the new state.
func (s *Store) UpdateStatus(id int64, to Status, notes string) error {
	if !to.Valid() {
		return fmt.Errorf("invalid status %q", to)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin status transaction: %w", err)
	}
	defer tx.Rollback()

	var current Status
	err = tx.QueryRow(`SELECT status FROM quotes WHERE id = ?`, id).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("query quote status: %w", err)
	}

	now := s.timestamp()
	if to.Primary() {
		if _, err := tx.Exec(`
			UPDATE quotes SET status = ?, date_modified = ? WHERE id = ?
		`, to, now, id); err != nil {
			return fmt.Errorf("update quote status: %w", err)
		}
	}

	if _, err := tx.Exec(`
		INSERT INTO quote_history (quote_id, status_from, status_to, changed_by, date_changed, notes)
		VALUES (?, ?, ?, 'system', ?, ?)
	`, id, current, to, now, notes); err != nil {
		return fmt.Errorf("insert history entry: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit status transaction: %w", err)
	}
	return nil
}

// Delete removes a quote and, through foreign keys, its items, layout rows
// and history.
func (s *Store) Delete(id int64) error {
	result, err := s.db.Exec(`DELETE FROM quotes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete quote: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete quote rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
