package main

import (
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"

	"github.com/yazoosa/printstation/internal/catalog"
	"github.com/yazoosa/printstation/internal/config"
	"github.com/yazoosa/printstation/internal/db"
	"github.com/yazoosa/printstation/internal/email"
	"github.com/yazoosa/printstation/internal/quotes"
	"github.com/yazoosa/printstation/internal/seed"
	"github.com/yazoosa/printstation/internal/woo"
	"github.com/yazoosa/printstation/migrations"
)

type server struct {
	db      *sql.DB
	catalog *catalog.Store
	quotes  *quotes.Store
	mailer  *email.Sender
	woo     *woo.Client
	cfg     config.Config
}

func main() {
	cfg := config.Load()

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer database.Close()

	if err := migrations.Up(database); err != nil {
		log.Fatalf("failed to run database migrations: %v", err)
	}

	if err := seedCatalog(database, cfg.SeedPath); err != nil {
		log.Fatalf("failed to seed catalog: %v", err)
	}

	srv := &server{
		db:      database,
		catalog: catalog.NewStore(database),
		quotes:  quotes.NewStore(database),
		cfg:     cfg,
	}
	if cfg.EmailEnabled() {
		srv.mailer = email.NewSender(cfg.SMTP)
	}
	if cfg.WooEnabled() {
		srv.woo = woo.NewClient(cfg.Woo)
	}

	addr := ":" + cfg.Port
	log.Printf("listening on %s", addr)
	if err := http.ListenAndServe(addr, srv.routes()); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}

// seedCatalog loads the default catalog file and inserts defaults into any
// table that is still empty. A missing seed file is not fatal.
func seedCatalog(database *sql.DB, path string) error {
	defaults, err := seed.Load(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.Printf("no seed file at %s, skipping catalog seed", path)
			return nil
		}
		return err
	}

	stats, err := seed.Run(database, defaults)
	if err != nil {
		return err
	}
	if stats.Inserts > 0 {
		log.Printf("seeded %d catalog rows from %s", stats.Inserts, path)
	}
	return nil
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()

	r.Route("/api", func(r chi.Router) {
		r.Post("/quote/calculate", s.handleCalculate)

		r.Route("/catalog", func(r chi.Router) {
			r.Get("/papers", s.handlePapersList)
			r.Post("/papers", s.handlePapersCreate)
			r.Post("/papers/import", s.handlePapersImport)
			r.Put("/papers/{id}", s.handlePapersUpdate)
			r.Delete("/papers/{id}", s.handlePapersDelete)

			r.Get("/sheet-sizes", s.handleSheetSizesList)
			r.Post("/sheet-sizes", s.handleSheetSizesCreate)
			r.Put("/sheet-sizes/{id}", s.handleSheetSizesUpdate)
			r.Delete("/sheet-sizes/{id}", s.handleSheetSizesDelete)

			r.Get("/print-pricing", s.handlePrintPricingList)
			r.Put("/print-pricing", s.handlePrintPricingUpsert)

			r.Get("/setup-fees", s.handleSetupFeesList)
			r.Put("/setup-fees", s.handleSetupFeesReplace)

			r.Get("/complexity", s.handleComplexityList)
			r.Post("/complexity", s.handleComplexityCreate)
			r.Put("/complexity/{id}", s.handleComplexityUpdate)
			r.Delete("/complexity/{id}", s.handleComplexityDelete)

			r.Get("/finishing", s.handleFinishingList)
			r.Post("/finishing", s.handleFinishingCreate)
			r.Put("/finishing/{id}", s.handleFinishingUpdate)
			r.Delete("/finishing/{id}", s.handleFinishingDelete)
		})

		r.Route("/quotes", func(r chi.Router) {
			r.Post("/", s.handleQuoteSave)
			r.Get("/", s.handleQuoteList)
			r.Get("/{id}", s.handleQuoteGet)
			r.Delete("/{id}", s.handleQuoteDelete)
			r.Post("/{id}/status", s.handleQuoteStatus)
			r.Get("/{id}/pdf", s.handleQuotePDF)
			r.Post("/{id}/email", s.handleQuoteEmail)
			r.Post("/{id}/woo", s.handleQuoteWoo)
		})
	})

	return r
}
