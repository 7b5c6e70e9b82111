/*
amount.go - Fixed-point monetary value type

PURPOSE:
  Amount is the single money type for the whole engine. It wraps
  decimal.Decimal so addition and subtraction are exact; binary floating
  point never touches a balance. All input amounts carry at most 4
  fractional digits, so arithmetic is closed and no rounding ever occurs.

PRECISION CONTRACT:
  - Parsing rejects text with more than 4 fractional digits. The check is
    textual: "1.23450" is malformed even though its value fits in 4 digits.
  - Rendering always emits exactly 4 fractional digits ("7" -> "7.0000").
  - Magnitude is capped at 10^15 to keep values well inside exact range.

NO MUL/DIV:
  The engine has no interest, fees, or conversions. Only Add/Sub/Neg exist,
  which keeps the closure argument trivial.

SEE ALSO:
  - types.go: Record and LedgerEntry carry Amounts
  - accounts.go: available/held balances are Amounts
*/
package engine

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// MaxScale is the number of fractional digits an external amount may carry.
const MaxScale = 4

// maxMagnitude bounds |Amount|. Anything this large in a transaction feed is
// corrupt input, not money.
var maxMagnitude = decimal.New(1, 15) // 10^15

// =============================================================================
// AMOUNT - Exact signed money value, 4 fractional digits
// =============================================================================

type Amount struct {
	Value decimal.Decimal
}

// Zero is the zero Amount. The zero value of the struct is equivalent.
func Zero() Amount { return Amount{Value: decimal.Zero} }

// AmountFromInt builds an Amount from whole units. Test/construction helper.
func AmountFromInt(v int64) Amount {
	return Amount{Value: decimal.NewFromInt(v)}
}

// ParseAmount parses external text into an Amount.
//
// Fails with an error unwrapping to ErrMalformedAmount if the text is
// non-numeric, has more than MaxScale fractional digits, or exceeds the
// representable range. The caller is expected to have trimmed whitespace;
// embedded whitespace is non-numeric and rejected here.
func ParseAmount(text string) (Amount, error) {
	if text == "" {
		return Amount{}, &MalformedAmountError{Text: text, Reason: "empty"}
	}

	// Textual scale check: count digits after the decimal point.
	if dot := strings.IndexByte(text, '.'); dot >= 0 {
		frac := text[dot+1:]
		if len(frac) > MaxScale {
			return Amount{}, &MalformedAmountError{Text: text, Reason: "more than 4 fractional digits"}
		}
	}

	v, err := decimal.NewFromString(text)
	if err != nil {
		return Amount{}, &MalformedAmountError{Text: text, Reason: "not a number"}
	}
	if v.Exponent() < -MaxScale {
		// Scientific notation such as "1e-5" bypasses the textual check.
		return Amount{}, &MalformedAmountError{Text: text, Reason: "more than 4 fractional digits"}
	}
	if v.Abs().GreaterThanOrEqual(maxMagnitude) {
		return Amount{}, &MalformedAmountError{Text: text, Reason: "exceeds representable range"}
	}
	return Amount{Value: v}, nil
}

// MustParseAmount is ParseAmount for literals in tests and examples.
func MustParseAmount(text string) Amount {
	a, err := ParseAmount(text)
	if err != nil {
		panic(err)
	}
	return a
}

func (a Amount) Add(b Amount) Amount { return Amount{Value: a.Value.Add(b.Value)} }
func (a Amount) Sub(b Amount) Amount { return Amount{Value: a.Value.Sub(b.Value)} }
func (a Amount) Neg() Amount         { return Amount{Value: a.Value.Neg()} }

func (a Amount) IsPositive() bool { return a.Value.IsPositive() }
func (a Amount) IsNegative() bool { return a.Value.IsNegative() }
func (a Amount) IsZero() bool     { return a.Value.IsZero() }

func (a Amount) Equal(b Amount) bool              { return a.Value.Equal(b.Value) }
func (a Amount) LessThan(b Amount) bool           { return a.Value.LessThan(b.Value) }
func (a Amount) GreaterThanOrEqual(b Amount) bool { return a.Value.GreaterThanOrEqual(b.Value) }

// String renders with exactly MaxScale fractional digits, the report format.
func (a Amount) String() string {
	return a.Value.StringFixed(MaxScale)
}

// MalformedAmountError reports why external text failed to parse as money.
type MalformedAmountError struct {
	Text   string
	Reason string
}

func (e *MalformedAmountError) Error() string {
	return fmt.Sprintf("malformed amount %q: %s", e.Text, e.Reason)
}

func (e *MalformedAmountError) Unwrap() error { return ErrMalformedAmount }
