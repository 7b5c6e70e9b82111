package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/payments-engine/engine"
)

// =============================================================================
// PARSING
// =============================================================================

func TestParseAmount_Valid(t *testing.T) {
	cases := []struct {
		text string
		want string // fixed 4-digit rendering
	}{
		{"10.0", "10.0000"},
		{"0.0001", "0.0001"},
		{"2", "2.0000"},
		{"1.5", "1.5000"},
		{"3.1415", "3.1415"},
		{"-8.25", "-8.2500"},
		{"0", "0.0000"},
	}

	for _, c := range cases {
		a, err := engine.ParseAmount(c.text)
		require.NoError(t, err, "parsing %q", c.text)
		assert.Equal(t, c.want, a.String())
	}
}

func TestParseAmount_Malformed(t *testing.T) {
	cases := []string{
		"",          // empty
		"abc",       // non-numeric
		"1.2.3",     // double point
		"1.00005",   // 5 fractional digits
		"0.12345",   // 5 fractional digits
		"1.23450",   // textually 5 digits even though value fits in 4
		"1e-5",      // scientific notation below scale
		"1 000",     // embedded whitespace
		"1000000000000000", // 10^15, out of range
	}

	for _, text := range cases {
		_, err := engine.ParseAmount(text)
		assert.ErrorIs(t, err, engine.ErrMalformedAmount, "parsing %q", text)
		assert.True(t, engine.IsRecordError(err), "malformed amount must be recoverable")
	}
}

func TestParseAmount_ErrorCarriesText(t *testing.T) {
	_, err := engine.ParseAmount("nope")

	var merr *engine.MalformedAmountError
	require.ErrorAs(t, err, &merr)
	assert.Equal(t, "nope", merr.Text)
}

// =============================================================================
// ARITHMETIC
// =============================================================================

func TestAmount_ExactArithmetic(t *testing.T) {
	// GIVEN: values that are classic float traps
	// WHEN: added with Amount
	// THEN: the result is bit-exact, no tolerance needed

	a := engine.MustParseAmount("0.1")
	b := engine.MustParseAmount("0.2")

	assert.True(t, a.Add(b).Equal(engine.MustParseAmount("0.3")))

	// Repeated accumulation stays exact too.
	sum := engine.Zero()
	for i := 0; i < 10_000; i++ {
		sum = sum.Add(engine.MustParseAmount("0.0001"))
	}
	assert.True(t, sum.Equal(engine.AmountFromInt(1)))
}

func TestAmount_SignedResults(t *testing.T) {
	a := engine.MustParseAmount("2.0")
	b := engine.MustParseAmount("10.0")

	diff := a.Sub(b)
	assert.True(t, diff.IsNegative())
	assert.Equal(t, "-8.0000", diff.String())
	assert.True(t, diff.Neg().Equal(engine.MustParseAmount("8.0")))
}

func TestAmount_Predicates(t *testing.T) {
	assert.True(t, engine.Zero().IsZero())
	assert.True(t, engine.MustParseAmount("0.0001").IsPositive())
	assert.True(t, engine.MustParseAmount("-0.0001").IsNegative())
	assert.True(t, engine.MustParseAmount("5").GreaterThanOrEqual(engine.MustParseAmount("5.0000")))
	assert.True(t, engine.MustParseAmount("4.9999").LessThan(engine.AmountFromInt(5)))
}
