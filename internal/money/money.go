// Package money implements cent-precision amounts for budget records.
//
// Amounts are stored as integer cents and every conversion from raw
// input goes through decimal arithmetic, rounding half away from zero
// at the cent boundary. This keeps 2500.005 landing on 2500.01 instead
// of wherever float64 representation happens to put it.
package money

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Cents is a monetary amount in integer cents. Derived quantities such
// as remaining budget may be negative; record amounts themselves are
// validated as positive at normalization time, not here.
type Cents int64

// FromDecimal rounds d to cent precision (half away from zero) and
// converts it to Cents.
func FromDecimal(d decimal.Decimal) Cents {
	return Cents(d.Round(2).Shift(2).IntPart())
}

// FromFloat converts a float to Cents. It reports false for NaN and
// infinities, which have no cent representation.
func FromFloat(f float64) (Cents, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return FromDecimal(decimal.NewFromFloat(f)), true
}

// Parse converts a decimal string such as "1200", "1200.5" or
// "2500.005" to Cents.
func Parse(s string) (Cents, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return FromDecimal(d), nil
}

// DecimalOf converts a loosely-typed value (as produced by decoding
// JSON payloads of unknown provenance) to an unrounded decimal.
// Supported inputs are numbers, numeric strings and json.Number;
// everything else reports false.
func DecimalOf(v any) (decimal.Decimal, bool) {
	switch n := v.(type) {
	case nil:
		return decimal.Zero, false
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return decimal.Zero, false
		}
		return decimal.NewFromFloat(n), true
	case float32:
		return DecimalOf(float64(n))
	case int:
		return decimal.NewFromInt(int64(n)), true
	case int64:
		return decimal.NewFromInt(n), true
	case json.Number:
		d, err := decimal.NewFromString(n.String())
		return d, err == nil
	case string:
		if strings.TrimSpace(n) == "" {
			return decimal.Zero, false
		}
		d, err := decimal.NewFromString(strings.TrimSpace(n))
		return d, err == nil
	case Cents:
		return n.Decimal(), true
	default:
		return decimal.Zero, false
	}
}

// Coerce converts a loosely-typed value to Cents, rounding half away
// from zero at the cent boundary.
func Coerce(v any) (Cents, bool) {
	d, ok := DecimalOf(v)
	if !ok {
		return 0, false
	}
	return FromDecimal(d), true
}

// Decimal returns the amount as a decimal value in currency units.
func (c Cents) Decimal() decimal.Decimal {
	return decimal.New(int64(c), -2)
}

// Float64 returns the amount in currency units. Lossy for very large
// values; intended for display math only.
func (c Cents) Float64() float64 {
	f, _ := c.Decimal().Float64()
	return f
}

// String formats the amount with exactly two decimal places, e.g.
// "1200.00". This is the canonical export/display representation.
func (c Cents) String() string {
	return c.Decimal().StringFixed(2)
}

// MarshalJSON emits the amount as a plain JSON number with two decimal
// places so persisted snapshots stay readable by earlier clients.
func (c Cents) MarshalJSON() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalJSON accepts either a JSON number or a quoted decimal
// string, rounding to cent precision.
func (c *Cents) UnmarshalJSON(data []byte) error {
	s := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if s == "" || s == "null" {
		*c = 0
		return nil
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
