package config

import (
	"log"
	"os"
)

const (
	defaultDBPath   = "./printstation.db"
	defaultPort     = "8080"
	defaultSeedPath = "seed/catalog.yaml"
)

// SMTP holds the outgoing mail settings for quote emails.
type SMTP struct {
	Host     string
	Port     string
	User     string
	Password string
	From     string
}

// Woo holds the WooCommerce order API settings.
type Woo struct {
	APIURL         string
	ConsumerKey    string
	ConsumerSecret string
	ProductID      string
}

// Config holds application configuration sourced from environment variables.
type Config struct {
	DBPath   string
	Port     string
	SeedPath string
	SMTP     SMTP
	Woo      Woo
}

// Load reads environment variables and returns a populated Config.
func Load() Config {
	// Best-effort: load local dev environment variables.
	// We don't fail if the file is missing; production should use real env injection.
	_ = loadDotEnv(".env")

	cfg := Config{
		DBPath:   os.Getenv("DB_PATH"),
		Port:     os.Getenv("PORT"),
		SeedPath: os.Getenv("CATALOG_SEED_PATH"),
		SMTP: SMTP{
			Host:     os.Getenv("SMTP_HOST"),
			Port:     os.Getenv("SMTP_PORT"),
			User:     os.Getenv("SMTP_USER"),
			Password: os.Getenv("SMTP_PASS"),
			From:     os.Getenv("SMTP_FROM"),
		},
		Woo: Woo{
			APIURL:         os.Getenv("WC_API_URL"),
			ConsumerKey:    os.Getenv("WC_CONSUMER_KEY"),
			ConsumerSecret: os.Getenv("WC_CONSUMER_SECRET"),
			ProductID:      os.Getenv("WC_PRINT_PRODUCT_ID"),
		},
	}

	if cfg.DBPath == "" {
		cfg.DBPath = defaultDBPath
	}
	if cfg.Port == "" {
		cfg.Port = defaultPort
	}
	if cfg.SeedPath == "" {
		cfg.SeedPath = defaultSeedPath
	}
	if cfg.SMTP.Port == "" {
		cfg.SMTP.Port = "465"
	}
	if cfg.SMTP.From == "" {
		cfg.SMTP.From = cfg.SMTP.User
	}

	if cfg.SMTP.Host == "" {
		log.Print("warning: SMTP_HOST is not set, quote emails are disabled")
	}
	if cfg.Woo.APIURL == "" {
		log.Print("warning: WC_API_URL is not set, WooCommerce push is disabled")
	}

	return cfg
}

// EmailEnabled reports whether the SMTP collaborator is configured.
func (c Config) EmailEnabled() bool {
	return c.SMTP.Host != ""
}

// WooEnabled reports whether the WooCommerce collaborator is configured.
func (c Config) WooEnabled() bool {
	return c.Woo.APIURL != "" && c.Woo.ConsumerKey != "" && c.Woo.ConsumerSecret != ""
}
