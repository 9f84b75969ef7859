package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// TaxScheme selects how tax is computed on the discounted subtotal
type TaxScheme int

const (
	TaxSchemeGST  TaxScheme = 0
	TaxSchemeFlat TaxScheme = 1
)

var taxSchemeNames = [...]string{"gst", "flat"}

func (t TaxScheme) String() string {
	if int(t) < 0 || int(t) >= len(taxSchemeNames) {
		return "gst"
	}
	return taxSchemeNames[t]
}

// ParseTaxScheme accepts "gst" or "flat"
func ParseTaxScheme(s string) (TaxScheme, error) {
	for i, name := range taxSchemeNames {
		if name == s {
			return TaxScheme(i), nil
		}
	}
	return TaxSchemeGST, fmt.Errorf("unknown tax scheme %q", s)
}

func (t TaxScheme) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *TaxScheme) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		if i < 0 || i >= len(taxSchemeNames) {
			return fmt.Errorf("unknown tax scheme %d", i)
		}
		*t = TaxScheme(i)
		return nil
	}
	parsed, err := ParseTaxScheme(str)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func (t TaxScheme) Value() (driver.Value, error) {
	return int64(t), nil
}

func (t *TaxScheme) Scan(value interface{}) error {
	if value == nil {
		*t = TaxSchemeGST
		return nil
	}
	switch v := value.(type) {
	case int64:
		*t = TaxScheme(v)
	case int:
		*t = TaxScheme(v)
	}
	return nil
}
