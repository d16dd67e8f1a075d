package main

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http/httptest"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/yazoosa/printstation/internal/catalog"
	"github.com/yazoosa/printstation/internal/quotes"
)

const testSchema = `
CREATE TABLE papers (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	type TEXT NOT NULL,
	name TEXT NOT NULL,
	grammage TEXT NOT NULL DEFAULT '',
	micron TEXT,
	size TEXT NOT NULL DEFAULT '',
	cost NUMERIC NOT NULL DEFAULT 0,
	markup_percentage NUMERIC NOT NULL DEFAULT 0,
	price NUMERIC NOT NULL DEFAULT 0,
	order_sequence INTEGER NOT NULL DEFAULT 0,
	active BOOLEAN NOT NULL DEFAULT TRUE,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE sheet_sizes (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	type TEXT NOT NULL DEFAULT '',
	name TEXT NOT NULL,
	width NUMERIC NOT NULL,
	length NUMERIC NOT NULL,
	display_order INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE print_pricing (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	size TEXT NOT NULL UNIQUE,
	width NUMERIC NOT NULL,
	length NUMERIC NOT NULL,
	fc_ss_cost NUMERIC NOT NULL DEFAULT 0,
	fc_ss_price NUMERIC NOT NULL DEFAULT 0,
	fc_ds_cost NUMERIC NOT NULL DEFAULT 0,
	fc_ds_price NUMERIC NOT NULL DEFAULT 0,
	bw_ss_cost NUMERIC NOT NULL DEFAULT 0,
	bw_ss_price NUMERIC NOT NULL DEFAULT 0,
	bw_ds_cost NUMERIC NOT NULL DEFAULT 0,
	bw_ds_price NUMERIC NOT NULL DEFAULT 0,
	fc_bw_cost NUMERIC NOT NULL DEFAULT 0,
	fc_bw_price NUMERIC NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE setup_fees (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	breakpoint INTEGER NOT NULL UNIQUE CHECK (breakpoint >= 0),
	fee NUMERIC NOT NULL DEFAULT 0
);
CREATE TABLE complexity_brackets (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	breakpoint INTEGER NOT NULL UNIQUE CHECK (breakpoint >= 0),
	percent NUMERIC NOT NULL DEFAULT 0
);
CREATE TABLE finishing_options (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	category TEXT NOT NULL,
	sub_category TEXT NOT NULL,
	setup_fee NUMERIC NOT NULL DEFAULT 0,
	cost NUMERIC NOT NULL DEFAULT 0,
	price NUMERIC NOT NULL DEFAULT 0,
	quantity_basis TEXT NOT NULL DEFAULT 'per_unit'
		CHECK (quantity_basis IN ('per_unit', 'per_sheet'))
);
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
	date_created DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	date_modified DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	subtotal NUMERIC NOT NULL,
	vat NUMERIC NOT NULL,
	total NUMERIC NOT NULL,
	status TEXT NOT NULL DEFAULT 'draft'
		CHECK (status IN ('draft', 'approved', 'rejected')),
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
	date_changed DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	notes TEXT NOT NULL DEFAULT ''
);
`

// newTestServer builds a server over an in-memory database seeded with a
// minimal working catalog.
func newTestServer(t *testing.T) *server {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open sqlite db: %v", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("failed to enable foreign keys: %v", err)
	}
	if _, err := db.Exec(testSchema); err != nil {
		t.Fatalf("failed creating schema: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})

	seedTestCatalog(t, db)

	return &server{
		db:      db,
		catalog: catalog.NewStore(db),
		quotes:  quotes.NewStore(db),
	}
}

func seedTestCatalog(t *testing.T, db *sql.DB) {
	t.Helper()

	stmts := []string{
		`INSERT INTO print_pricing (size, width, length, fc_ss_price, fc_ds_price, bw_ss_price, bw_ds_price, fc_bw_price)
		 VALUES ('SRA3', 450, 320, 0.80, 1.40, 0.50, 0.90, 1.10)`,
		`INSERT INTO papers (type, name, grammage, size, cost, markup_percentage, price, active)
		 VALUES ('Coated', 'Matt Lam 350gsm', '350', 'SRA3', 1.00, 50, 1.50, TRUE)`,
		`INSERT INTO setup_fees (breakpoint, fee) VALUES (0, 200), (10, 190), (20, 180)`,
		`INSERT INTO complexity_brackets (breakpoint, percent) VALUES (0, 0), (50, 5)`,
		`INSERT INTO finishing_options (category, sub_category, setup_fee, price, quantity_basis)
		 VALUES ('Pouch Lamination', 'A3 Matt', 50, 7, 'per_sheet'),
		        ('Round Corners', 'Standard', 30, 0.10, 'per_unit')`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("failed to seed catalog: %v\n%s", err, stmt)
		}
	}
}

// doJSON performs a request against the server's router and decodes the
// JSON response into out (when out is non-nil).
func doJSON(t *testing.T, srv *server, method, path string, body, out any) *httptest.ResponseRecorder {
	t.Helper()

	var reqBody *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reqBody = bytes.NewBuffer(data)
	} else {
		reqBody = &bytes.Buffer{}
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.routes().ServeHTTP(rec, req)

	if out != nil && rec.Code < 300 {
		if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
			t.Fatalf("failed to decode response %q: %v", rec.Body.String(), err)
		}
	}
	return rec
}

func requireStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("status = %d, want %d (body: %s)", rec.Code, want, rec.Body.String())
	}
}
