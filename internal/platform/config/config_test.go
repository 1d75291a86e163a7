package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/srgjo27/villa_booking/internal/platform/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load(t.TempDir())

	assert.NoError(t, err)
	assert.Equal(t, "8080", cfg.AppPort)
	assert.Equal(t, "postgres", cfg.StoreBackend)
	assert.Equal(t, "INR", cfg.Currency)
	assert.Equal(t, 15*time.Minute, cfg.HoldTTL)
	assert.Equal(t, time.Minute, cfg.SweepInterval)
	assert.Equal(t, 30*time.Minute, cfg.PaidConfirmGrace)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr())
	assert.False(t, cfg.IsProduction())
}

func TestLoad_FileAndEnvironment(t *testing.T) {
	dir := t.TempDir()
	yaml := `
STORE_BACKEND: Memory
CATALOG_BACKEND: memory
HOLD_TTL: 10m
ROOMS:
  - id: 6f1c2d9e-0a4b-4c1e-9a55-2f7f3c1b9d01
    name: Lake View
    price_per_night: 1000
    accommodation: ["2 Adults", "1 Child"]
`
	assert.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o600))
	t.Setenv("HOLD_TTL", "20m")

	cfg, err := config.Load(dir)

	assert.NoError(t, err)
	assert.Equal(t, "memory", cfg.StoreBackend)
	assert.Equal(t, 20*time.Minute, cfg.HoldTTL)
	if assert.Len(t, cfg.Rooms, 1) {
		assert.Equal(t, "Lake View", cfg.Rooms[0].Name)
		assert.Equal(t, int64(1000), cfg.Rooms[0].PricePerNight)
		assert.Equal(t, []string{"2 Adults", "1 Child"}, cfg.Rooms[0].Accommodation)
	}
}

func TestValidate(t *testing.T) {
	valid := config.Config{StoreBackend: "postgres", CatalogBackend: "mongo", HoldTTL: time.Minute}
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name string
		cfg  config.Config
		want string
	}{
		{"unknown store", config.Config{StoreBackend: "sqlite", CatalogBackend: "memory", HoldTTL: time.Minute}, "STORE_BACKEND"},
		{"catalog needs postgres store", config.Config{StoreBackend: "memory", CatalogBackend: "postgres", HoldTTL: time.Minute}, "requires STORE_BACKEND=postgres"},
		{"no hold ttl", config.Config{StoreBackend: "memory", CatalogBackend: "memory"}, "HOLD_TTL"},
		{"production secrets", config.Config{Env: "production", StoreBackend: "memory", CatalogBackend: "memory", HoldTTL: time.Minute}, "RAZORPAY_KEY_SECRET"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorContains(t, tt.cfg.Validate(), tt.want)
		})
	}
}
