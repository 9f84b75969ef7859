package service

import (
	"github.com/sangkips/cafe-pos/internal/domain/entity"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// PriceLine is one quantity of a unit price to be charged
type PriceLine struct {
	UnitPrice decimal.Decimal
	Quantity  int
}

// PriceBreakdown is the result of the pricing pipeline. Every amount is
// rounded to two places at the step that produced it.
type PriceBreakdown struct {
	ItemCount          int             `json:"item_count"`
	RawSubtotal        decimal.Decimal `json:"raw_subtotal"`
	DiscountPercent    decimal.Decimal `json:"discount_percent"`
	DiscountAmount     decimal.Decimal `json:"discount_amount"`
	DiscountedSubtotal decimal.Decimal `json:"discounted_subtotal"`
	TaxRatePercent     decimal.Decimal `json:"tax_rate_percent"`
	TaxAmount          decimal.Decimal `json:"tax_amount"`
	FinalTotal         decimal.Decimal `json:"final_total"`
}

// Price runs subtotal -> discount -> tax -> total. The caller validates
// discountPercent; Price assumes 0 <= discountPercent <= 100.
func Price(lines []PriceLine, discountPercent decimal.Decimal, tax entity.TaxConfiguration) PriceBreakdown {
	raw := decimal.Zero
	count := 0
	for _, l := range lines {
		raw = raw.Add(entity.RoundMoney(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))))
		count += l.Quantity
	}
	raw = entity.RoundMoney(raw)

	factor := decimal.NewFromInt(1).Sub(discountPercent.Div(hundred))
	discounted := entity.RoundMoney(raw.Mul(factor))

	rate := tax.EffectiveRate()
	taxAmount := entity.RoundMoney(discounted.Mul(rate).Div(hundred))

	return PriceBreakdown{
		ItemCount:          count,
		RawSubtotal:        raw,
		DiscountPercent:    discountPercent,
		DiscountAmount:     raw.Sub(discounted),
		DiscountedSubtotal: discounted,
		TaxRatePercent:     rate,
		TaxAmount:          taxAmount,
		FinalTotal:         discounted.Add(taxAmount),
	}
}

// CartLines adapts cart contents to pricing lines
func CartLines(cart *entity.Cart) []PriceLine {
	lines := make([]PriceLine, len(cart.Items))
	for i, it := range cart.Items {
		lines[i] = PriceLine{UnitPrice: it.Price, Quantity: it.Quantity}
	}
	return lines
}
