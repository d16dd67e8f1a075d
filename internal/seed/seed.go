// Package seed loads the default catalog data on first startup so a fresh
// install can quote immediately. The defaults live in a YAML file; seeding
// is idempotent and only fills tables that are still empty.
package seed

import (
	"database/sql"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Defaults mirrors the catalog seed file.
type Defaults struct {
	Papers []struct {
		Type             string  `yaml:"type"`
		Name             string  `yaml:"name"`
		Grammage         string  `yaml:"grammage"`
		Size             string  `yaml:"size"`
		Cost             float64 `yaml:"cost"`
		MarkupPercentage float64 `yaml:"markup_percentage"`
	} `yaml:"papers"`
	SheetSizes []struct {
		Type   string  `yaml:"type"`
		Name   string  `yaml:"name"`
		Width  float64 `yaml:"width"`
		Length float64 `yaml:"length"`
	} `yaml:"sheet_sizes"`
	PrintPricing []struct {
		Size      string  `yaml:"size"`
		Width     float64 `yaml:"width"`
		Length    float64 `yaml:"length"`
		FcSsPrice float64 `yaml:"fc_ss_price"`
		FcDsPrice float64 `yaml:"fc_ds_price"`
		BwSsPrice float64 `yaml:"bw_ss_price"`
		BwDsPrice float64 `yaml:"bw_ds_price"`
		FcBwPrice float64 `yaml:"fc_bw_price"`
	} `yaml:"print_pricing"`
	SetupFees []struct {
		Breakpoint int     `yaml:"breakpoint"`
		Fee        float64 `yaml:"fee"`
	} `yaml:"setup_fees"`
	Complexity []struct {
		Breakpoint int     `yaml:"breakpoint"`
		Percent    float64 `yaml:"percent"`
	} `yaml:"complexity"`
	Finishing []struct {
		Category      string  `yaml:"category"`
		SubCategory   string  `yaml:"sub_category"`
		SetupFee      float64 `yaml:"setup_fee"`
		Price         float64 `yaml:"price"`
		QuantityBasis string  `yaml:"quantity_basis"`
	} `yaml:"finishing"`
}

// Load reads and parses the seed file.
func Load(path string) (Defaults, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Defaults{}, fmt.Errorf("read seed file: %w", err)
	}
	var d Defaults
	if err := yaml.Unmarshal(data, &d); err != nil {
		return Defaults{}, fmt.Errorf("parse seed file: %w", err)
	}
	return d, nil
}

// Stats contains seed operation counters.
type Stats struct {
	Inserts int
}

// Run executes the startup seed in an idempotent way: each catalog table is
// filled from the defaults only while it is still empty.
func Run(db *sql.DB, defaults Defaults) (Stats, error) {
	tx, err := db.Begin()
	if err != nil {
		return Stats{}, fmt.Errorf("begin seed transaction: %w", err)
	}
	defer tx.Rollback()

	stats := Stats{}

	if err := seedPapers(tx, defaults, &stats); err != nil {
		return Stats{}, err
	}
	if err := seedSheetSizes(tx, defaults, &stats); err != nil {
		return Stats{}, err
	}
	if err := seedPrintPricing(tx, defaults, &stats); err != nil {
		return Stats{}, err
	}
	if err := seedSetupFees(tx, defaults, &stats); err != nil {
		return Stats{}, err
	}
	if err := seedComplexity(tx, defaults, &stats); err != nil {
		return Stats{}, err
	}
	if err := seedFinishing(tx, defaults, &stats); err != nil {
		return Stats{}, err
	}

	if err := tx.Commit(); err != nil {
		return Stats{}, fmt.Errorf("commit seed transaction: %w", err)
	}
	return stats, nil
}

func tableEmpty(tx *sql.Tx, table string) (bool, error) {
	var count int
	if err := tx.QueryRow(`SELECT COUNT(*) FROM ` + table).Scan(&count); err != nil {
		return false, fmt.Errorf("count %s: %w", table, err)
	}
	return count == 0, nil
}

func seedPapers(tx *sql.Tx, d Defaults, stats *Stats) error {
	empty, err := tableEmpty(tx, "papers")
	if err != nil || !empty {
		return err
	}
	for i, p := range d.Papers {
		price := p.Cost * (1 + p.MarkupPercentage/100)
		if _, err := tx.Exec(`
			INSERT INTO papers (type, name, grammage, size, cost, markup_percentage, price, order_sequence, active)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, TRUE)
		`, p.Type, p.Name, p.Grammage, p.Size, p.Cost, p.MarkupPercentage, price, i); err != nil {
			return fmt.Errorf("seed paper %q: %w", p.Name, err)
		}
		stats.Inserts++
	}
	return nil
}

func seedSheetSizes(tx *sql.Tx, d Defaults, stats *Stats) error {
	empty, err := tableEmpty(tx, "sheet_sizes")
	if err != nil || !empty {
		return err
	}
	for i, sz := range d.SheetSizes {
		if _, err := tx.Exec(`
			INSERT INTO sheet_sizes (type, name, width, length, display_order)
			VALUES (?, ?, ?, ?, ?)
		`, sz.Type, sz.Name, sz.Width, sz.Length, i); err != nil {
			return fmt.Errorf("seed sheet size %q: %w", sz.Name, err)
		}
		stats.Inserts++
	}
	return nil
}

func seedPrintPricing(tx *sql.Tx, d Defaults, stats *Stats) error {
	empty, err := tableEmpty(tx, "print_pricing")
	if err != nil || !empty {
		return err
	}
	for _, p := range d.PrintPricing {
		if _, err := tx.Exec(`
			INSERT INTO print_pricing (size, width, length, fc_ss_price, fc_ds_price, bw_ss_price, bw_ds_price, fc_bw_price)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, p.Size, p.Width, p.Length, p.FcSsPrice, p.FcDsPrice, p.BwSsPrice, p.BwDsPrice, p.FcBwPrice); err != nil {
			return fmt.Errorf("seed print pricing %q: %w", p.Size, err)
		}
		stats.Inserts++
	}
	return nil
}

func seedSetupFees(tx *sql.Tx, d Defaults, stats *Stats) error {
	empty, err := tableEmpty(tx, "setup_fees")
	if err != nil || !empty {
		return err
	}
	for _, f := range d.SetupFees {
		if _, err := tx.Exec(`
			INSERT INTO setup_fees (breakpoint, fee) VALUES (?, ?)
		`, f.Breakpoint, f.Fee); err != nil {
			return fmt.Errorf("seed setup fee %d: %w", f.Breakpoint, err)
		}
		stats.Inserts++
	}
	return nil
}

func seedComplexity(tx *sql.Tx, d Defaults, stats *Stats) error {
	empty, err := tableEmpty(tx, "complexity_brackets")
	if err != nil || !empty {
		return err
	}
	for _, c := range d.Complexity {
		if _, err := tx.Exec(`
			INSERT INTO complexity_brackets (breakpoint, percent) VALUES (?, ?)
		`, c.Breakpoint, c.Percent); err != nil {
			return fmt.Errorf("seed complexity bracket %d: %w", c.Breakpoint, err)
		}
		stats.Inserts++
	}
	return nil
}

func seedFinishing(tx *sql.Tx, d Defaults, stats *Stats) error {
	empty, err := tableEmpty(tx, "finishing_options")
	if err != nil || !empty {
		return err
	}
	for _, f := range d.Finishing {
		basis := f.QuantityBasis
		if basis == "" {
			basis = "per_unit"
		}
		if _, err := tx.Exec(`
			INSERT INTO finishing_options (category, sub_category, setup_fee, price, quantity_basis)
			VALUES (?, ?, ?, ?, ?)
		`, f.Category, f.SubCategory, f.SetupFee, f.Price, basis); err != nil {
			return fmt.Errorf("seed finishing option %s/%s: %w", f.Category, f.SubCategory, err)
		}
		stats.Inserts++
	}
	return nil
}
