package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

func init() {
	// Monetary chains (per-unit subtotal = price / 1.21, etc.) must not lose
	// precision before the final 2-decimal rounding at the display boundary.
	decimal.DivisionPrecision = 28
}

// Decimal is the single monetary number type used at every boundary of this
// module: wire (cents), storage and display. It is an immutable base-10 value;
// every operation returns a new Decimal. Rounding to 2 decimals happens only
// in StringFixed and Cents, using round-half-up.
type Decimal struct {
	d decimal.Decimal
}

// Zero is the additive identity.
var Zero = Decimal{}

// Parse builds a Decimal from a numeric string. Malformed input is an error,
// never a silent zero.
func Parse(s string) (Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Decimal{}, fmt.Errorf("invalid decimal %q: %w", s, err)
	}
	return Decimal{d}, nil
}

// MustParse is for compile-time constants (tax rates, thresholds) where a
// malformed literal is a programming error.
func MustParse(s string) Decimal {
	d, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

// FromInt converts an integer amount of major units.
func FromInt(n int64) Decimal {
	return Decimal{decimal.NewFromInt(n)}
}

// FromCents converts an integer amount of minor units (cents) to major units.
func FromCents(cents int64) Decimal {
	return Decimal{decimal.New(cents, -2)}
}

// Cents converts to minor units, rounding half-up at this boundary only.
// FromCents(c).Cents() == c for every integer c.
func (a Decimal) Cents() int64 {
	return a.d.Shift(2).Round(0).IntPart()
}

func (a Decimal) Add(b Decimal) Decimal      { return Decimal{a.d.Add(b.d)} }
func (a Decimal) Sub(b Decimal) Decimal      { return Decimal{a.d.Sub(b.d)} }
func (a Decimal) Mul(b Decimal) Decimal      { return Decimal{a.d.Mul(b.d)} }
func (a Decimal) MulInt(n int64) Decimal     { return Decimal{a.d.Mul(decimal.NewFromInt(n))} }
func (a Decimal) Div(b Decimal) Decimal      { return Decimal{a.d.Div(b.d)} }
func (a Decimal) Equal(b Decimal) bool       { return a.d.Equal(b.d) }
func (a Decimal) GreaterThan(b Decimal) bool { return a.d.GreaterThan(b.d) }
func (a Decimal) LessThan(b Decimal) bool    { return a.d.LessThan(b.d) }

func (a Decimal) GreaterThanOrEqual(b Decimal) bool { return a.d.GreaterThanOrEqual(b.d) }

func (a Decimal) IsZero() bool     { return a.d.IsZero() }
func (a Decimal) IsNegative() bool { return a.d.IsNegative() }

// String renders the value without forced scale, e.g. "0.3" not "0.30".
func (a Decimal) String() string { return a.d.String() }

// StringFixed renders with exactly 2 decimals, rounding half-up. This is the
// only place a value is rounded for display.
func (a Decimal) StringFixed() string { return a.d.StringFixed(2) }

// MarshalJSON renders the fixed 2-decimal form, matching what the storefront
// shows.
func (a Decimal) MarshalJSON() ([]byte, error) {
	return []byte(`"` + a.d.StringFixed(2) + `"`), nil
}

// UnmarshalJSON accepts both quoted and bare numeric forms.
func (a *Decimal) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("invalid decimal %s: %w", data, err)
	}
	a.d = d
	return nil
}
