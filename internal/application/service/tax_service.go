package service

import (
	"context"
	"errors"

	"github.com/sangkips/cafe-pos/internal/domain/entity"
	"github.com/sangkips/cafe-pos/internal/domain/repository"
	"github.com/sangkips/cafe-pos/pkg/apperror"
	"github.com/sangkips/cafe-pos/pkg/realtime"
	"github.com/shopspring/decimal"
)

// TaxService loads and saves the tax configuration
type TaxService struct {
	settings repository.SettingsRepository
	notifier Notifier
}

// NewTaxService creates a new tax service
func NewTaxService(settings repository.SettingsRepository, notifier Notifier) *TaxService {
	return &TaxService{settings: settings, notifier: notifierOrNop(notifier)}
}

// Load returns the stored configuration, or the defaults when none is stored
// or the stored copy cannot be read.
func (s *TaxService) Load(ctx context.Context) (entity.TaxConfiguration, error) {
	cfg := entity.DefaultTaxConfiguration()
	found, err := loadJSON(ctx, s.settings, keyTaxSettings, &cfg)
	if errors.Is(err, errCorrupt) || (err == nil && !found) {
		return entity.DefaultTaxConfiguration(), nil
	}
	if err != nil {
		return entity.TaxConfiguration{}, err
	}
	return cfg, nil
}

// TaxRateHints lists rates outside 0..100. The store keeps such values; the
// hints only let the admin screen flag them.
func TaxRateHints(cfg entity.TaxConfiguration) []apperror.FieldError {
	hints := []apperror.FieldError{}
	rates := []struct {
		field string
		value decimal.Decimal
	}{
		{"flat_rate_percent", cfg.FlatRatePercent},
		{"cgst_percent", cfg.CGSTPercent},
		{"sgst_percent", cfg.SGSTPercent},
		{"igst_percent", cfg.IGSTPercent},
	}
	for _, r := range rates {
		if r.value.IsNegative() || r.value.GreaterThan(hundred) {
			hints = append(hints, apperror.FieldError{Field: r.field, Message: "Rate is usually between 0 and 100"})
		}
	}
	return hints
}

// Save stores the configuration as given and tells open terminals to
// re-price. Rates are not bounds-checked.
func (s *TaxService) Save(ctx context.Context, cfg entity.TaxConfiguration) (entity.TaxConfiguration, error) {
	if err := saveJSON(ctx, s.settings, keyTaxSettings, cfg); err != nil {
		return entity.TaxConfiguration{}, err
	}
	s.notifier.Broadcast(realtime.EventTaxConfigChanged, cfg)
	return cfg, nil
}
