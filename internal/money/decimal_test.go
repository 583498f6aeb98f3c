package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Malformed(t *testing.T) {
	cases := []string{"", "abc", "12.3.4", "€12.50", "12,50"}
	for _, c := range cases {
		_, err := Parse(c)
		assert.Error(t, err, "input %q must not parse", c)
	}
}

func TestParse_Valid(t *testing.T) {
	d, err := Parse("12.99")
	require.NoError(t, err)
	assert.Equal(t, "12.99", d.StringFixed())

	neg, err := Parse("-0.01")
	require.NoError(t, err)
	assert.True(t, neg.IsNegative())
}

func TestCents_RoundTrip(t *testing.T) {
	// Exhaustive over the low range, then boundary and large values.
	for c := int64(0); c <= 10_000; c++ {
		require.Equal(t, c, FromCents(c).Cents())
	}
	for _, c := range []int64{99_999, 123_456, 1_000_000, 9_999_999, 10_000_000} {
		assert.Equal(t, c, FromCents(c).Cents())
	}
}

func TestFromCents_MajorUnits(t *testing.T) {
	assert.Equal(t, "12.99", FromCents(1299).StringFixed())
	assert.Equal(t, "0.01", FromCents(1).StringFixed())
	assert.Equal(t, "0.00", FromCents(0).StringFixed())
}

func TestMulInt_NoBinaryDrift(t *testing.T) {
	d := MustParse("0.1")
	assert.Equal(t, "0.3", d.MulInt(3).String())
}

func TestDiv_Precision(t *testing.T) {
	// Tax-inclusive 12.10 at 21% VAT: per-unit subtotal is exactly 10.
	sub := MustParse("12.10").Div(MustParse("1.21"))
	assert.Equal(t, "10.00", sub.StringFixed())
}

func TestStringFixed_RoundsHalfUp(t *testing.T) {
	assert.Equal(t, "1.01", MustParse("1.005").StringFixed())
	assert.Equal(t, "1.00", MustParse("1.004").StringFixed())
}

func TestComparisons(t *testing.T) {
	a, b := MustParse("74.99"), MustParse("75")
	assert.True(t, a.LessThan(b))
	assert.True(t, b.GreaterThan(a))
	assert.True(t, b.GreaterThanOrEqual(MustParse("75.00")))
	assert.True(t, b.Equal(MustParse("75.00")))
}

func TestMarshalJSON_FixedForm(t *testing.T) {
	out, err := MustParse("7.5").MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `"7.50"`, string(out))
}

func TestUnmarshalJSON(t *testing.T) {
	var d Decimal
	require.NoError(t, d.UnmarshalJSON([]byte(`"12.99"`)))
	assert.Equal(t, int64(1299), d.Cents())

	require.NoError(t, d.UnmarshalJSON([]byte(`7.5`)))
	assert.Equal(t, int64(750), d.Cents())

	assert.Error(t, d.UnmarshalJSON([]byte(`"not a number"`)))
}
