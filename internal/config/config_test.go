package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/ahluxe/internal/journal"
	"github.com/roach88/ahluxe/internal/kv"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ahluxe.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "https://wa.me", cfg.Messaging.BaseURL)
	assert.Equal(t, "923152480364", cfg.Messaging.Recipient)
	assert.Equal(t, journal.SeedDefaults, cfg.Reviews.Seed)
	assert.Equal(t, int64(kv.DefaultQuota), cfg.Storage.QuotaBytes)
}

func TestLoad_EmptyPath(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_OverlaysDefaults(t *testing.T) {
	path := writeConfig(t, `
database: /tmp/shop.db
messaging:
  recipient: "923000000000"
checkout:
  processing_delay: 1500ms
cart:
  auto_open_delay: 300ms
reviews:
  seed: none
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/shop.db", cfg.Database)
	assert.Equal(t, "923000000000", cfg.Messaging.Recipient)
	assert.Equal(t, "https://wa.me", cfg.Messaging.BaseURL, "unset fields keep defaults")
	assert.Equal(t, 1500*time.Millisecond, cfg.Checkout.ProcessingDelay)
	assert.Equal(t, 300*time.Millisecond, cfg.Cart.AutoOpenDelay)
	assert.Equal(t, journal.SeedNone, cfg.Reviews.Seed)
}

func TestLoad_EmptyFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_Rejects(t *testing.T) {
	tests := map[string]string{
		"unknown field":   "databse: x.db\n",
		"bad seed":        "reviews:\n  seed: always\n",
		"negative delay":  "checkout:\n  processing_delay: -1s\n",
		"empty recipient": "messaging:\n  recipient: \"\"\n",
		"bad yaml":        "database: [\n",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, body))
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestDecode_Reader(t *testing.T) {
	cfg := Default()
	require.NoError(t, Decode(strings.NewReader("catalog: shop.cue\n"), &cfg))
	assert.Equal(t, "shop.cue", cfg.Catalog)
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{EnvDatabase: "/data/a.db", EnvRecipient: "92111"}
	cfg := Default()
	cfg.ApplyEnv(func(k string) string { return env[k] })

	assert.Equal(t, "/data/a.db", cfg.Database)
	assert.Equal(t, "92111", cfg.Messaging.Recipient)
	assert.Equal(t, "", cfg.Catalog)
}
