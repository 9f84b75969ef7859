package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// PaymentMethod is a label recorded on the order; no gateway is involved
type PaymentMethod int

const (
	PaymentMethodNone PaymentMethod = 0
	PaymentMethodCash PaymentMethod = 1
	PaymentMethodCard PaymentMethod = 2
	PaymentMethodUPI  PaymentMethod = 3
)

var paymentMethodNames = [...]string{"", "cash", "card", "upi"}

func (p PaymentMethod) String() string {
	if int(p) < 0 || int(p) >= len(paymentMethodNames) {
		return ""
	}
	return paymentMethodNames[p]
}

// Label is the display form used on receipts and exports
func (p PaymentMethod) Label() string {
	switch p {
	case PaymentMethodUPI:
		return "UPI"
	case PaymentMethodCash, PaymentMethodCard:
		s := p.String()
		return strings.ToUpper(s[:1]) + s[1:]
	}
	return "-"
}

// IsValid reports whether p is a method a customer can pay with
func (p PaymentMethod) IsValid() bool {
	return p >= PaymentMethodCash && p <= PaymentMethodUPI
}

// ParsePaymentMethod is case-insensitive; unknown values are an error
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range paymentMethodNames {
		if i > 0 && name == s {
			return PaymentMethod(i), nil
		}
	}
	return PaymentMethodNone, fmt.Errorf("unknown payment method %q", s)
}

func (p PaymentMethod) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

func (p *PaymentMethod) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*p = PaymentMethod(i)
		return nil
	}
	if str == "" {
		*p = PaymentMethodNone
		return nil
	}
	parsed, err := ParsePaymentMethod(str)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

func (p PaymentMethod) Value() (driver.Value, error) {
	return int64(p), nil
}

func (p *PaymentMethod) Scan(value interface{}) error {
	if value == nil {
		*p = PaymentMethodNone
		return nil
	}
	switch v := value.(type) {
	case int64:
		*p = PaymentMethod(v)
	case int:
		*p = PaymentMethod(v)
	}
	return nil
}
