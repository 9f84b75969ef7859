package entity

import "github.com/shopspring/decimal"

func init() {
	// money is rendered as a JSON number, e.g. 382.32 rather than "382.32"
	decimal.MarshalJSONWithoutQuotes = true
}

// MoneyPlaces is the number of decimal places kept on every stored amount.
const MoneyPlaces = 2

// RoundMoney rounds half away from zero to two places.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyPlaces)
}
