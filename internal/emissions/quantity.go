package emissions

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Quantity is a numeric input field that never fails to decode. JSON numbers and
// numeric strings are accepted; anything else decodes to zero.
type Quantity float64

// UnmarshalJSON implements json.Unmarshaler.
func (q *Quantity) UnmarshalJSON(data []byte) error {
	*q = 0
	raw := strings.TrimSpace(string(data))
	if raw == "" || raw == "null" {
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		raw = strings.TrimSpace(s)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	*q = Quantity(v)
	return nil
}

// Float returns the value usable in arithmetic. Negative, NaN and infinite values
// coerce to zero.
func (q Quantity) Float() float64 {
	v := float64(q)
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

// Q is shorthand for building a Quantity pointer in optional fields.
func Q(v float64) *Quantity {
	q := Quantity(v)
	return &q
}

// round applies round-half-up at the given number of decimal places.
func round(v float64, places int) float64 {
	p := math.Pow10(places)
	return math.Floor(float64(v*p)+0.5) / p
}
