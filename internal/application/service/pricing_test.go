package service

import (
	"testing"

	"github.com/sangkips/cafe-pos/internal/domain/entity"
	"github.com/sangkips/cafe-pos/internal/domain/enum"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestPrice_EspressoWithDiscountAndGST(t *testing.T) {
	lines := []PriceLine{{UnitPrice: money("180"), Quantity: 2}}

	b := Price(lines, money("10"), entity.DefaultTaxConfiguration())

	assert.Equal(t, 2, b.ItemCount)
	assert.Equal(t, "360.00", b.RawSubtotal.StringFixed(2))
	assert.Equal(t, "36.00", b.DiscountAmount.StringFixed(2))
	assert.Equal(t, "324.00", b.DiscountedSubtotal.StringFixed(2))
	assert.Equal(t, "18", b.TaxRatePercent.String())
	assert.Equal(t, "58.32", b.TaxAmount.StringFixed(2))
	assert.Equal(t, "382.32", b.FinalTotal.StringFixed(2))
}

func TestPrice_TaxSchemes(t *testing.T) {
	lines := []PriceLine{{UnitPrice: money("100"), Quantity: 1}}
	gstOff := entity.DefaultTaxConfiguration()
	gstOff.GSTEnabled = false

	tests := []struct {
		name string
		tax  entity.TaxConfiguration
		want string
	}{
		{"gst 9 plus 9", entity.DefaultTaxConfiguration(), "18.00"},
		{"flat 5", entity.TaxConfiguration{Scheme: enum.TaxSchemeFlat, FlatRatePercent: money("5")}, "5.00"},
		{"gst disabled", gstOff, "0.00"},
		{"igst never applied", entity.TaxConfiguration{Scheme: enum.TaxSchemeGST, GSTEnabled: true, IGSTPercent: money("18")}, "0.00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := Price(lines, decimal.Zero, tt.tax)
			assert.Equal(t, tt.want, b.TaxAmount.StringFixed(2))
			assert.True(t, b.FinalTotal.Equal(b.DiscountedSubtotal.Add(b.TaxAmount)))
		})
	}
}

func TestPrice_RoundsEachStep(t *testing.T) {
	lines := []PriceLine{{UnitPrice: money("33.33"), Quantity: 3}}

	b := Price(lines, money("12.5"), entity.DefaultTaxConfiguration())

	assert.Equal(t, "99.99", b.RawSubtotal.StringFixed(2))
	// 99.99 * 0.875 = 87.49125
	assert.Equal(t, "87.49", b.DiscountedSubtotal.String())
	// 87.49 * 0.18 = 15.7482
	assert.Equal(t, "15.75", b.TaxAmount.String())
	assert.Equal(t, "103.24", b.FinalTotal.String())
}

func TestPrice_MoreDiscountNeverCostsMore(t *testing.T) {
	lines := []PriceLine{
		{UnitPrice: money("220"), Quantity: 1},
		{UnitPrice: money("150"), Quantity: 3},
	}
	tax := entity.DefaultTaxConfiguration()

	prev := Price(lines, decimal.Zero, tax).FinalTotal
	for _, d := range []string{"5", "10", "25", "50", "99.5", "100"} {
		got := Price(lines, money(d), tax).FinalTotal
		assert.True(t, got.LessThanOrEqual(prev), "discount %s%%", d)
		prev = got
	}
	assert.True(t, prev.IsZero())
}

func TestPrice_EmptyCart(t *testing.T) {
	b := Price(nil, decimal.Zero, entity.DefaultTaxConfiguration())
	assert.Zero(t, b.ItemCount)
	assert.True(t, b.FinalTotal.IsZero())
}

func TestCartLines(t *testing.T) {
	cart := entity.NewCart()
	cart.Add(&entity.MenuItem{ID: "e1", Name: "Espresso", Price: money("180")})
	cart.Add(&entity.MenuItem{ID: "e1", Name: "Espresso", Price: money("180")})

	lines := CartLines(cart)
	assert.Equal(t, []PriceLine{{UnitPrice: money("180"), Quantity: 2}}, lines)
}

func TestPrice_HigherRateNeverLowersTotal(t *testing.T) {
	carts := [][]PriceLine{
		{{UnitPrice: money("0.01"), Quantity: 1}},
		{{UnitPrice: money("180"), Quantity: 2}, {UnitPrice: money("33.33"), Quantity: 3}},
		{{UnitPrice: money("999.99"), Quantity: 7}},
	}
	rates := []string{"0", "0.5", "2.5", "5", "9", "12", "18", "28", "100", "150"}
	discounts := []string{"0", "10", "33.33", "100"}

	configs := map[string]func(rate decimal.Decimal) entity.TaxConfiguration{
		"flat": func(rate decimal.Decimal) entity.TaxConfiguration {
			return entity.TaxConfiguration{Scheme: enum.TaxSchemeFlat, FlatRatePercent: rate}
		},
		"cgst": func(rate decimal.Decimal) entity.TaxConfiguration {
			return entity.TaxConfiguration{Scheme: enum.TaxSchemeGST, GSTEnabled: true, CGSTPercent: rate, SGSTPercent: money("9")}
		},
		"sgst": func(rate decimal.Decimal) entity.TaxConfiguration {
			return entity.TaxConfiguration{Scheme: enum.TaxSchemeGST, GSTEnabled: true, CGSTPercent: money("9"), SGSTPercent: rate}
		},
	}

	for name, build := range configs {
		t.Run(name, func(t *testing.T) {
			for _, lines := range carts {
				for _, d := range discounts {
					prev := Price(lines, money(d), build(money(rates[0]))).FinalTotal
					for _, r := range rates[1:] {
						total := Price(lines, money(d), build(money(r))).FinalTotal
						assert.False(t, total.LessThan(prev), "rate %s discount %s: %s < %s", r, d, total, prev)
						prev = total
					}
				}
			}
		})
	}
}
