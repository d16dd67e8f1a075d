package quotes

import (
	"database/sql"
	"testing"
	"time"

	_ "modernc.org/sqlite"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open sqlite db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if _, err := db.Exec(`PRAGMA foreign_keys = ON`); err != nil {
		t.Fatalf("failed to enable foreign keys: %v", err)
	}

	_, err = db.Exec(`
		CREATE TABLE customers (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL DEFAULT '',
			surname TEXT NOT NULL DEFAULT '',
			company_name TEXT NOT NULL DEFAULT '',
			email TEXT NOT NULL UNIQUE,
			phone TEXT NOT NULL DEFAULT '',
			street_address TEXT NOT NULL DEFAULT '',
			complex_or_building TEXT NOT NULL DEFAULT '',
			city TEXT NOT NULL DEFAULT '',
			area TEXT NOT NULL DEFAULT '',
			postal_code TEXT NOT NULL DEFAULT '',
			active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE TABLE quotes (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			quote_reference TEXT NOT NULL UNIQUE,
			customer_id INTEGER NOT NULL REFERENCES customers(id),
			date_created DATETIME NOT NULL,
			date_modified DATETIME NOT NULL,
			subtotal NUMERIC NOT NULL,
			vat NUMERIC NOT NULL,
			total NUMERIC NOT NULL,
			status TEXT NOT NULL DEFAULT 'draft',
			created_by TEXT NOT NULL DEFAULT 'system',
			discount_percentage NUMERIC,
			discount_value NUMERIC,
			subtotal_after_discount NUMERIC,
			notes TEXT
		);
		CREATE TABLE quote_items (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			quote_id INTEGER NOT NULL REFERENCES quotes(id) ON DELETE CASCADE,
			description TEXT NOT NULL,
			price NUMERIC NOT NULL,
			quantity INTEGER NOT NULL,
			total NUMERIC NOT NULL
		);
		CREATE TABLE layout_calculations (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			quote_id INTEGER NOT NULL REFERENCES quotes(id) ON DELETE CASCADE,
			item_id INTEGER NOT NULL REFERENCES quote_items(id) ON DELETE CASCADE,
			across INTEGER,
			down INTEGER,
			is_landscape BOOLEAN,
			repeats INTEGER,
			sheets_required INTEGER,
			optimal_layout TEXT,
			layout_details TEXT
		);
		CREATE TABLE quote_history (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			quote_id INTEGER NOT NULL REFERENCES quotes(id) ON DELETE CASCADE,
			status_from TEXT,
			status_to TEXT NOT NULL,
			changed_by TEXT NOT NULL DEFAULT 'system',
			date_changed DATETIME NOT NULL,
			notes TEXT NOT NULL DEFAULT ''
		);
	`)
	if err != nil {
		t.Fatalf("failed creating schema: %v", err)
	}

	return NewStore(db)
}

func testCustomer() Customer {
	return Customer{
		Name:    "Thandi",
		Surname: "Nkosi",
		Email:   "thandi@example.com",
		City:    "Durban",
	}
}

func testItems() []Item {
	return []Item{
		{
			Description: "Qty: 500\nSize: 90 x 50mm\nPaper: Gloss 350gsm\nPrint: Full Color Single Sided",
			Price:       450,
			Quantity:    1,
			Total:       450,
			Layout: &LayoutInfo{
				Repeats:        24,
				Across:         8,
				Down:           3,
				IsLandscape:    true,
				SheetsRequired: 21,
				SheetSize:      "SRA3",
			},
		},
	}
}

func TestSaveGeneratesSequentialReferences(t *testing.T) {
	store := newTestStore(t)

	first, err := store.Save(testCustomer(), testItems(), Totals{Subtotal: 391.30, VAT: 58.70, Total: 450}, "")
	if err != nil {
		t.Fatalf("first save returned error: %v", err)
	}
	if first != "QB-0001" {
		t.Fatalf("expected QB-0001, got %s", first)
	}

	second, err := store.Save(testCustomer(), testItems(), Totals{Subtotal: 100, VAT: 15, Total: 115}, "")
	if err != nil {
		t.Fatalf("second save returned error: %v", err)
	}
	if second != "QB-0002" {
		t.Fatalf("expected QB-0002, got %s", second)
	}
}

func TestSaveUpsertsCustomerByEmail(t *testing.T) {
	store := newTestStore(t)

	if _, err := store.Save(testCustomer(), testItems(), Totals{Total: 450}, ""); err != nil {
		t.Fatalf("save returned error: %v", err)
	}

	updated := testCustomer()
	updated.City = "Johannesburg"
	if _, err := store.Save(updated, testItems(), Totals{Total: 115}, ""); err != nil {
		t.Fatalf("second save returned error: %v", err)
	}

	var count int
	if err := store.db.QueryRow(`SELECT COUNT(*) FROM customers`).Scan(&count); err != nil {
		t.Fatalf("count customers: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 customer after upsert, got %d", count)
	}

	var city string
	if err := store.db.QueryRow(`SELECT city FROM customers`).Scan(&city); err != nil {
		t.Fatalf("query city: %v", err)
	}
	if city != "Johannesburg" {
		t.Fatalf("expected updated city, got %s", city)
	}
}

func TestGetReturnsStoredSnapshotWithLayout(t *testing.T) {
	store := newTestStore(t)

	discount := 10.0
	value := 50.0
	after := 441.30
	_, err := store.Save(testCustomer(), testItems(), Totals{
		Subtotal:              491.30,
		VAT:                   66.20,
		Total:                 507.50,
		DiscountPercentage:    &discount,
		DiscountValue:         &value,
		SubtotalAfterDiscount: &after,
	}, "rush job")
	if err != nil {
		t.Fatalf("save returned error: %v", err)
	}

	q, err := store.Get(1)
	if err != nil {
		t.Fatalf("get returned error: %v", err)
	}

	if q.Reference != "QB-0001" || q.Status != StatusDraft {
		t.Fatalf("unexpected quote header: %+v", q)
	}
	if q.Totals.Total != 507.50 || q.Totals.VAT != 66.20 {
		t.Fatalf("stored totals must be returned untouched: %+v", q.Totals)
	}
	if q.Totals.DiscountPercentage == nil || *q.Totals.DiscountPercentage != 10 {
		t.Fatalf("expected discount percentage snapshot, got %+v", q.Totals)
	}
	if len(q.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(q.Items))
	}
	layout := q.Items[0].Layout
	if layout == nil || layout.Repeats != 24 || !layout.IsLandscape || layout.SheetsRequired != 21 {
		t.Fatalf("unexpected layout metadata: %+v", layout)
	}
	if len(q.History) != 1 || q.History[0].StatusTo != StatusDraft {
		t.Fatalf("expected opening draft history entry, got %+v", q.History)
	}
	if q.Notes != "rush job" {
		t.Fatalf("expected notes to round-trip, got %q", q.Notes)
	}
}

func TestListFiltersAndOrders(t *testing.T) {
	store := newTestStore(t)
	store.now = func() time.Time { return time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC) }
	if _, err := store.Save(testCustomer(), testItems(), Totals{Total: 450}, ""); err != nil {
		t.Fatalf("save: %v", err)
	}

	store.now = func() time.Time { return time.Date(2025, 3, 2, 10, 0, 0, 0, time.UTC) }
	other := Customer{Name: "Pieter", Surname: "Botha", Email: "pieter@example.com"}
	if _, err := store.Save(other, testItems(), Totals{Total: 115}, ""); err != nil {
		t.Fatalf("save: %v", err)
	}

	all, err := store.List("")
	if err != nil {
		t.Fatalf("list returned error: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 quotes, got %d", len(all))
	}
	if all[0].Reference != "QB-0002" || all[1].Reference != "QB-0001" {
		t.Fatalf("quotes not sorted newest first: %+v", all)
	}

	filtered, err := store.List("Thandi")
	if err != nil {
		t.Fatalf("filtered list returned error: %v", err)
	}
	if len(filtered) != 1 || filtered[0].Reference != "QB-0001" {
		t.Fatalf("expected only Thandi's quote, got %+v", filtered)
	}

	byRef, err := store.List("QB-0002")
	if err != nil {
		t.Fatalf("reference list returned error: %v", err)
	}
	if len(byRef) != 1 || byRef[0].CustomerName != "Pieter Botha" {
		t.Fatalf("expected lookup by reference, got %+v", byRef)
	}
}

func TestUpdateStatusPrimaryAndSecondary(t *testing.T) {
	store := newTestStore(t)
	if _, err := store.Save(testCustomer(), testItems(), Totals{Total: 450}, ""); err != nil {
		t.Fatalf("save: %v", err)
	}

	if err := store.UpdateStatus(1, StatusApproved, "customer confirmed"); err != nil {
		t.Fatalf("approve returned error: %v", err)
	}
	if err := store.UpdateStatus(1, StatusEmailed, ""); err != nil {
		t.Fatalf("emailed returned error: %v", err)
	}

	q, err := store.Get(1)
	if err != nil {
		t.Fatalf("get returned error: %v", err)
	}
	if q.Status != StatusApproved {
		t.Fatalf("secondary status must not change the quote row, got %s", q.Status)
	}
	if len(q.History) != 3 {
		t.Fatalf("expected 3 history entries, got %d", len(q.History))
	}
	if len(q.SecondaryStatuses) != 1 || q.SecondaryStatuses[0] != StatusEmailed {
		t.Fatalf("expected emailed secondary status, got %+v", q.SecondaryStatuses)
	}
}

func TestUpdateStatusRejectsUnknownState(t *testing.T) {
	store := newTestStore(t)
	if _, err := store.Save(testCustomer(), testItems(), Totals{Total: 450}, ""); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.UpdateStatus(1, Status("archived"), ""); err == nil {
		t.Fatal("expected error for unknown status")
	}
}

func TestDeleteCascades(t *testing.T) {
	store := newTestStore(t)
	if _, err := store.Save(testCustomer(), testItems(), Totals{Total: 450}, ""); err != nil {
		t.Fatalf("save: %v", err)
	}

	if err := store.Delete(1); err != nil {
		t.Fatalf("delete returned error: %v", err)
	}
	if err := store.Delete(1); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}

	var items int
	if err := store.db.QueryRow(`SELECT COUNT(*) FROM quote_items`).Scan(&items); err != nil {
		t.Fatalf("count items: %v", err)
	}
	if items != 0 {
		t.Fatalf("expected cascade delete of items, got %d rows", items)
	}
}
