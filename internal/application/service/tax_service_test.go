package service

import (
	"testing"

	"github.com/sangkips/cafe-pos/internal/domain/entity"
	"github.com/sangkips/cafe-pos/internal/domain/enum"
	"github.com/sangkips/cafe-pos/pkg/realtime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaxService_DefaultsWhenAbsentOrCorrupt(t *testing.T) {
	f := newFixture(t)

	cfg, err := f.tax.Load(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, entity.DefaultTaxConfiguration(), cfg)

	require.NoError(t, f.settings.Put(f.ctx, keyTaxSettings, `{"scheme":"vat"}`))
	cfg, err = f.tax.Load(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, entity.DefaultTaxConfiguration(), cfg)
}

func TestTaxService_SaveBroadcasts(t *testing.T) {
	f := newFixture(t)
	flat := entity.TaxConfiguration{Scheme: enum.TaxSchemeFlat, FlatRatePercent: money("5")}

	_, err := f.tax.Save(f.ctx, flat)
	require.NoError(t, err)

	cfg, err := f.tax.Load(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, enum.TaxSchemeFlat, cfg.Scheme)
	assert.Equal(t, "5", cfg.EffectiveRate().String())
	assert.Equal(t, []string{realtime.EventTaxConfigChanged}, f.notifier.names())
}

func TestTaxService_SaveKeepsOutOfRangeRates(t *testing.T) {
	f := newFixture(t)
	cfg := entity.DefaultTaxConfiguration()
	cfg.Scheme = enum.TaxSchemeFlat
	cfg.CGSTPercent = money("-1")
	cfg.FlatRatePercent = money("150")

	saved, err := f.tax.Save(f.ctx, cfg)
	require.NoError(t, err)
	assert.Equal(t, "150", saved.EffectiveRate().String())
	assert.Equal(t, []string{realtime.EventTaxConfigChanged}, f.notifier.names())

	loaded, err := f.tax.Load(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, "150", loaded.FlatRatePercent.String())
	assert.Equal(t, "-1", loaded.CGSTPercent.String())

	hints := TaxRateHints(loaded)
	require.Len(t, hints, 2)
	assert.Equal(t, "flat_rate_percent", hints[0].Field)
	assert.Equal(t, "cgst_percent", hints[1].Field)

	assert.Empty(t, TaxRateHints(entity.DefaultTaxConfiguration()))
}
