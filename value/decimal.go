package value

import (
	"log/slog"
	"math"
	"strconv"

	"github.com/cockroachdb/apd/v3"
)

// decCtx is the shared arithmetic context for all FLOAT operations. The
// precision is fixed well above anything a rule literal can express so that
// chained arithmetic never observes binary rounding artifacts.
//
//nolint:gochecknoglobals
var decCtx = apd.Context{
	Precision:   50,
	MaxExponent: apd.MaxExponent,
	MinExponent: apd.MinExponent,
	Traps:       apd.DefaultTraps &^ (apd.InvalidOperation | apd.DivisionByZero),
	Rounding:    apd.RoundHalfUp,
}

// ParseDecimal parses a decimal literal in plain or scientific notation.
func ParseDecimal(text string) (*apd.Decimal, error) {
	d, _, err := apd.NewFromString(text)
	if err != nil {
		return nil, ErrBadConversion.Wrap(err)
	}

	return d, nil
}

// decimalFromInt64 returns a decimal holding the given integer exactly.
func decimalFromInt64(i int64) *apd.Decimal {
	return apd.New(i, 0)
}

// decimalFromUint64 returns a decimal holding the given integer exactly,
// including the range above MaxInt64.
func decimalFromUint64(n uint64) *apd.Decimal {
	if n <= math.MaxInt64 {
		return apd.New(int64(n), 0)
	}

	// A decimal digit string cannot fail to parse.
	d, _, _ := apd.NewFromString(strconv.FormatUint(n, 10))

	return d
}

// decimalFromFloat64 converts a binary float to its shortest exact decimal
// representation, matching what the host author wrote in source.
func decimalFromFloat64(f float64) (*apd.Decimal, error) {
	d := new(apd.Decimal)

	_, err := d.SetFloat64(f)
	if err != nil {
		return nil, ErrBadConversion.Wrap(err)
	}

	return d, nil
}

// Inf returns the FLOAT positive infinity constant.
func Inf() Value {
	return Float(&apd.Decimal{Form: apd.Infinite})
}

// NaN returns the FLOAT not-a-number constant.
func NaN() Value {
	return Float(&apd.Decimal{Form: apd.NaN})
}

// FloatFromRadix parses the digits of a binary, octal, or hexadecimal
// integer literal into an exact FLOAT value.
func FloatFromRadix(digits string, base int) (Value, error) {
	n, err := strconv.ParseUint(digits, base, 64)
	if err != nil {
		return Null(), ErrBadConversion.With(
			slog.String("value", digits),
			slog.Int("base", base),
		)
	}

	return Float(decimalFromUint64(n)), nil
}

// canonDecimal returns the reduced (trailing zeros stripped) form of d used
// for hashing and equality of FLOAT values.
func canonDecimal(d *apd.Decimal) *apd.Decimal {
	out := new(apd.Decimal)
	out.Reduce(d)

	return out
}
