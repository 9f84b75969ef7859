package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// OrderSource records which surface created an order
type OrderSource int

const (
	OrderSourcePOS    OrderSource = 0
	OrderSourceRemote OrderSource = 1
	OrderSourceImport OrderSource = 2
)

var orderSourceNames = [...]string{"pos", "remote", "import"}

func (s OrderSource) String() string {
	if int(s) < 0 || int(s) >= len(orderSourceNames) {
		return "pos"
	}
	return orderSourceNames[s]
}

// ParseOrderSource accepts pos, remote or import
func ParseOrderSource(str string) (OrderSource, error) {
	for i, name := range orderSourceNames {
		if name == str {
			return OrderSource(i), nil
		}
	}
	return OrderSourcePOS, fmt.Errorf("unknown order source %q", str)
}

func (s OrderSource) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *OrderSource) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = OrderSource(i)
		return nil
	}
	switch str {
	case "remote":
		*s = OrderSourceRemote
	case "import":
		*s = OrderSourceImport
	default:
		*s = OrderSourcePOS
	}
	return nil
}

func (s OrderSource) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *OrderSource) Scan(value interface{}) error {
	if value == nil {
		*s = OrderSourcePOS
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = OrderSource(v)
	case int:
		*s = OrderSource(v)
	}
	return nil
}
