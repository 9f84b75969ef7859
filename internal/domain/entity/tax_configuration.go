package entity

import (
	"github.com/sangkips/cafe-pos/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// TaxConfiguration decides how tax is charged on the discounted subtotal.
// IGSTPercent is stored for inter-state invoices but never applied.
type TaxConfiguration struct {
	Scheme          enum.TaxScheme  `json:"scheme"`
	FlatRatePercent decimal.Decimal `json:"flat_rate_percent"`
	CGSTPercent     decimal.Decimal `json:"cgst_percent"`
	SGSTPercent     decimal.Decimal `json:"sgst_percent"`
	IGSTPercent     decimal.Decimal `json:"igst_percent"`
	GSTEnabled      bool            `json:"gst_enabled"`
}

// DefaultTaxConfiguration is GST 9% + 9%, enabled
func DefaultTaxConfiguration() TaxConfiguration {
	return TaxConfiguration{
		Scheme:          enum.TaxSchemeGST,
		FlatRatePercent: decimal.NewFromInt(18),
		CGSTPercent:     decimal.NewFromInt(9),
		SGSTPercent:     decimal.NewFromInt(9),
		IGSTPercent:     decimal.NewFromInt(18),
		GSTEnabled:      true,
	}
}

// EffectiveRate is the percentage applied to the discounted subtotal
func (t TaxConfiguration) EffectiveRate() decimal.Decimal {
	switch t.Scheme {
	case enum.TaxSchemeFlat:
		return t.FlatRatePercent
	case enum.TaxSchemeGST:
		if t.GSTEnabled {
			return t.CGSTPercent.Add(t.SGSTPercent)
		}
	}
	return decimal.Zero
}
