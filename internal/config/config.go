// Package config loads storefront settings from an optional YAML file and
// the environment.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/roach88/ahluxe/internal/journal"
	"github.com/roach88/ahluxe/internal/kv"
)

// Config holds every tunable of the storefront.
type Config struct {
	// Database is the SQLite file backing the durable store.
	Database string `yaml:"database"`

	// Catalog is a CUE product catalog. Empty uses the built-in catalog.
	Catalog string `yaml:"catalog"`

	Messaging MessagingConfig `yaml:"messaging"`
	Checkout  CheckoutConfig  `yaml:"checkout"`
	Cart      CartConfig      `yaml:"cart"`
	Reviews   ReviewsConfig   `yaml:"reviews"`
	Storage   StorageConfig   `yaml:"storage"`
}

// MessagingConfig addresses the external chat hand-off.
type MessagingConfig struct {
	BaseURL   string `yaml:"base_url"`
	Recipient string `yaml:"recipient"`
}

type CheckoutConfig struct {
	ProcessingDelay time.Duration `yaml:"processing_delay"`
}

type CartConfig struct {
	// AutoOpenDelay is how long after the first item is added the cart view opens.
	AutoOpenDelay time.Duration `yaml:"auto_open_delay"`
}

type ReviewsConfig struct {
	Seed journal.SeedPolicy `yaml:"seed"`
}

type StorageConfig struct {
	// QuotaBytes caps the store size; zero or negative disables the cap.
	QuotaBytes int64 `yaml:"quota_bytes"`
}

// Environment variables read by ApplyEnv.
const (
	EnvDatabase  = "AHLUXE_DB"
	EnvRecipient = "AHLUXE_RECIPIENT"
	EnvCatalog   = "AHLUXE_CATALOG"
)

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Database: "ahluxe.db",
		Messaging: MessagingConfig{
			BaseURL:   "https://wa.me",
			Recipient: "923152480364",
		},
		Reviews: ReviewsConfig{Seed: journal.SeedDefaults},
		Storage: StorageConfig{QuotaBytes: kv.DefaultQuota},
	}
}

// Load returns Default overlaid with the YAML file at path. An empty path
// returns the defaults. Unknown fields are rejected.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if err := Decode(bytes.NewReader(data), &cfg); err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Decode reads YAML from r onto cfg and validates the result.
func Decode(r io.Reader, cfg *Config) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true) // Reject unknown fields
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}
	return cfg.Validate()
}

// ApplyEnv overrides fields from environment variables that are set.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv(EnvDatabase); v != "" {
		c.Database = v
	}
	if v := getenv(EnvRecipient); v != "" {
		c.Messaging.Recipient = v
	}
	if v := getenv(EnvCatalog); v != "" {
		c.Catalog = v
	}
}

// Validate checks field constraints.
func (c Config) Validate() error {
	if c.Database == "" {
		return errors.New("database path is required")
	}
	if c.Messaging.BaseURL == "" {
		return errors.New("messaging.base_url is required")
	}
	if c.Messaging.Recipient == "" {
		return errors.New("messaging.recipient is required")
	}
	if c.Checkout.ProcessingDelay < 0 {
		return fmt.Errorf("checkout.processing_delay must not be negative, got %s", c.Checkout.ProcessingDelay)
	}
	if c.Cart.AutoOpenDelay < 0 {
		return fmt.Errorf("cart.auto_open_delay must not be negative, got %s", c.Cart.AutoOpenDelay)
	}
	if !c.Reviews.Seed.Valid() {
		return fmt.Errorf("reviews.seed must be %q or %q, got %q", journal.SeedDefaults, journal.SeedNone, c.Reviews.Seed)
	}
	return nil
}
