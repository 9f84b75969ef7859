package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_ShopDefaults(t *testing.T) {
	t.Setenv("PRINTER_WIDTH", "48")

	cfg := Load()

	assert.Equal(t, "Love at first sip", cfg.Shop.Tagline)
	assert.Equal(t, "₹", cfg.Shop.CurrencySymbol)
	assert.Equal(t, "Asia/Kolkata", cfg.Shop.Timezone)
	assert.Equal(t, "ORD", cfg.Shop.OrderPrefix)
	assert.Equal(t, 48, cfg.Printer.Width)
	assert.Equal(t, 12*time.Hour, cfg.JWT.ExpiryHours)
}

func TestShopConfig_Location(t *testing.T) {
	loc := ShopConfig{Timezone: "Asia/Kolkata"}.Location()
	_, offset := time.Date(2026, 1, 1, 0, 0, 0, 0, loc).Zone()
	assert.Equal(t, 5*3600+1800, offset)

	assert.Equal(t, time.UTC, ShopConfig{Timezone: "Mars/Olympus"}.Location())
}
