package value

import (
	"log/slog"
	"strings"

	"github.com/cockroachdb/apd/v3"

	"github.com/ardnew/verdict/types"
)

// Equal reports whether two values are equal. Equality is defined for every
// pair of kinds: values of different kinds are unequal rather than erroring,
// and NULL equals only NULL. FLOAT equality is numeric (exact decimal),
// DATETIME equality compares instants, and containers compare structurally.
func Equal(a, b Value) bool {
	if a.Kind() != b.Kind() {
		return false
	}

	switch a.Kind() {
	case types.Null:
		return true

	case types.Boolean:
		return a.b == b.b

	case types.String:
		return a.s == b.s

	case types.Float:
		if a.dec.Form == apd.NaN || b.dec.Form == apd.NaN {
			return false
		}

		return a.dec.Cmp(b.dec) == 0

	case types.Datetime:
		return a.t.Equal(b.t)

	case types.Timedelta:
		return a.dur == b.dur

	case types.Array:
		if len(a.seq) != len(b.seq) {
			return false
		}

		for i := range a.seq {
			if !Equal(a.seq[i], b.seq[i]) {
				return false
			}
		}

		return true

	case types.Set:
		if len(a.seq) != len(b.seq) {
			return false
		}

		for _, el := range a.seq {
			ok, _ := b.Contains(el)
			if !ok {
				return false
			}
		}

		return true

	case types.Mapping:
		if a.m.Len() != b.m.Len() {
			return false
		}

		for i, key := range a.m.keys {
			other, ok, err := b.m.Get(key)
			if err != nil || !ok || !Equal(a.m.vals[i], other) {
				return false
			}
		}

		return true

	default:
		return false
	}
}

// Compare orders two values of the same orderable kind, returning a negative,
// zero, or positive integer. Comparing values of different kinds, or of a
// kind with no total order, fails with ErrTypeMismatch.
func Compare(a, b Value) (int, error) {
	if a.Kind() != b.Kind() || !a.Kind().Orderable() {
		return 0, ErrTypeMismatch.With(
			slog.String("left", a.Kind().String()),
			slog.String("right", b.Kind().String()),
		)
	}

	switch a.Kind() {
	case types.Float:
		return a.dec.Cmp(b.dec), nil

	case types.String:
		return strings.Compare(a.s, b.s), nil

	case types.Datetime:
		return a.t.Compare(b.t), nil

	default: // types.Timedelta
		switch {
		case a.dur < b.dur:
			return -1, nil
		case a.dur > b.dur:
			return 1, nil
		default:
			return 0, nil
		}
	}
}
