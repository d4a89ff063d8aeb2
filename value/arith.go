package value

import (
	"log/slog"

	"github.com/cockroachdb/apd/v3"

	"github.com/ardnew/verdict/types"
)

func mismatch(op string, a, b Value) error {
	return ErrTypeMismatch.With(
		slog.String("operation", op),
		slog.String("left", a.Kind().String()),
		slog.String("right", b.Kind().String()),
	)
}

// Add dispatches "+" on the operand kinds: numeric addition, string
// concatenation, or calendar/duration addition. Any other pairing fails with
// ErrTypeMismatch even though inference rejects it statically when the
// operand types are known.
func Add(a, b Value) (Value, error) {
	switch {
	case a.Kind() == types.Float && b.Kind() == types.Float:
		return decimalOp(func(out, x, y *apd.Decimal) (apd.Condition, error) {
			return decCtx.Add(out, x, y)
		}, a, b)

	case a.Kind() == types.String && b.Kind() == types.String:
		return Str(a.s + b.s), nil

	case a.Kind() == types.Datetime && b.Kind() == types.Timedelta:
		return Time(a.t.Add(b.dur)), nil

	case a.Kind() == types.Timedelta && b.Kind() == types.Datetime:
		return Time(b.t.Add(a.dur)), nil

	case a.Kind() == types.Timedelta && b.Kind() == types.Timedelta:
		return Duration(a.dur + b.dur), nil

	default:
		return Null(), mismatch("+", a, b)
	}
}

// Sub dispatches "-" on the operand kinds: numeric subtraction, shifting a
// DATETIME backwards by a TIMEDELTA, the TIMEDELTA between two DATETIMEs, or
// duration subtraction.
func Sub(a, b Value) (Value, error) {
	switch {
	case a.Kind() == types.Float && b.Kind() == types.Float:
		return decimalOp(func(out, x, y *apd.Decimal) (apd.Condition, error) {
			return decCtx.Sub(out, x, y)
		}, a, b)

	case a.Kind() == types.Datetime && b.Kind() == types.Timedelta:
		return Time(a.t.Add(-b.dur)), nil

	case a.Kind() == types.Datetime && b.Kind() == types.Datetime:
		return Duration(a.t.Sub(b.t)), nil

	case a.Kind() == types.Timedelta && b.Kind() == types.Timedelta:
		return Duration(a.dur - b.dur), nil

	default:
		return Null(), mismatch("-", a, b)
	}
}

// Mul multiplies two FLOAT values.
func Mul(a, b Value) (Value, error) {
	return floatOp("*", a, b, func(out, x, y *apd.Decimal) (apd.Condition, error) {
		return decCtx.Mul(out, x, y)
	})
}

// Div divides two FLOAT values with exact decimal semantics. A zero divisor
// fails with ErrDivisionByZero.
func Div(a, b Value) (Value, error) {
	return divOp("/", a, b, func(out, x, y *apd.Decimal) (apd.Condition, error) {
		return decCtx.Quo(out, x, y)
	})
}

// FloorDiv divides two FLOAT values and truncates toward negative infinity.
// A zero divisor fails with ErrDivisionByZero.
func FloorDiv(a, b Value) (Value, error) {
	return divOp("//", a, b, func(out, x, y *apd.Decimal) (apd.Condition, error) {
		cond, err := decCtx.Quo(out, x, y)
		if err != nil {
			return cond, err
		}

		floored := new(apd.Decimal)

		c2, err := decCtx.Floor(floored, out)

		out.Set(floored)

		return cond | c2, err
	})
}

// Mod computes the remainder of two FLOAT values. A zero divisor fails with
// ErrDivisionByZero.
func Mod(a, b Value) (Value, error) {
	return divOp("%", a, b, func(out, x, y *apd.Decimal) (apd.Condition, error) {
		return decCtx.Rem(out, x, y)
	})
}

// Pow raises a FLOAT value to a FLOAT power.
func Pow(a, b Value) (Value, error) {
	return floatOp("**", a, b, func(out, x, y *apd.Decimal) (apd.Condition, error) {
		return decCtx.Pow(out, x, y)
	})
}

// Neg negates a FLOAT or TIMEDELTA value.
func Neg(a Value) (Value, error) {
	switch a.Kind() {
	case types.Float:
		out := new(apd.Decimal)

		_, err := decCtx.Neg(out, a.dec)
		if err != nil {
			return Null(), ErrTypeMismatch.Wrap(err)
		}

		return Float(out), nil

	case types.Timedelta:
		return Duration(-a.dur), nil

	default:
		return Null(), ErrTypeMismatch.With(
			slog.String("operation", "-"),
			slog.String("operand", a.Kind().String()),
		)
	}
}

// Ceil rounds a FLOAT value toward positive infinity to an integral FLOAT.
func Ceil(a Value) (Value, error) {
	return roundOp(a, decCtx.Ceil)
}

// Floor rounds a FLOAT value toward negative infinity to an integral FLOAT.
func Floor(a Value) (Value, error) {
	return roundOp(a, decCtx.Floor)
}

func roundOp(a Value, fn func(d, x *apd.Decimal) (apd.Condition, error)) (Value, error) {
	if a.Kind() != types.Float {
		return Null(), ErrTypeMismatch.With(
			slog.String("operand", a.Kind().String()),
		)
	}

	out := new(apd.Decimal)

	_, err := fn(out, a.dec)
	if err != nil {
		return Null(), ErrArithmeticFault.Wrap(err)
	}

	return Float(out), nil
}

type decimalFunc func(out, x, y *apd.Decimal) (apd.Condition, error)

func floatOp(op string, a, b Value, fn decimalFunc) (Value, error) {
	if a.Kind() != types.Float || b.Kind() != types.Float {
		return Null(), mismatch(op, a, b)
	}

	return decimalOp(fn, a, b)
}

func divOp(op string, a, b Value, fn decimalFunc) (Value, error) {
	if a.Kind() != types.Float || b.Kind() != types.Float {
		return Null(), mismatch(op, a, b)
	}

	if b.dec.IsZero() {
		return Null(), ErrDivisionByZero.With(slog.String("operation", op))
	}

	return decimalOp(fn, a, b)
}

func decimalOp(fn decimalFunc, a, b Value) (Value, error) {
	out := new(apd.Decimal)

	cond, err := fn(out, a.dec, b.dec)
	if err != nil {
		return Null(), ErrArithmeticFault.Wrap(err)
	}

	// DivisionByZero and InvalidOperation are untrapped in decCtx, so a
	// failed operation can come back as a condition flag and a non-finite
	// result instead of an error. 0 ** -1 is one such case.
	if cond&apd.DivisionByZero != 0 {
		return Null(), ErrDivisionByZero
	}

	if out.Form != apd.Finite {
		return Null(), ErrArithmeticFault.With(
			slog.String("result", out.String()),
		)
	}

	return Float(out), nil
}
