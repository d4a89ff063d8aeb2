package value

import (
	"github.com/cockroachdb/apd/v3"

	"github.com/ardnew/verdict/types"
)

// Native converts a Value into plain Go types suitable for serialization.
//
// FLOAT values become int64 when they are integral and fit, and float64
// otherwise (which may round; source-exact rendition is available through
// [Value.String]). SET values become slices, and MAPPING keys are rendered
// with their source form when they are not strings.
func (v Value) Native() any {
	switch v.Kind() {
	case types.Boolean:
		return v.b

	case types.String:
		return v.s

	case types.Float:
		if v.dec.Form == apd.Finite && isIntegral(v.dec) {
			if i, err := v.dec.Int64(); err == nil {
				return i
			}
		}

		f, _ := v.dec.Float64()

		return f

	case types.Datetime:
		return v.t

	case types.Timedelta:
		return FormatTimedelta(v.dur)

	case types.Array, types.Set:
		items := make([]any, len(v.seq))
		for i, item := range v.seq {
			items[i] = item.Native()
		}

		return items

	case types.Mapping:
		out := make(map[string]any, v.m.Len())

		for i, key := range v.m.Keys() {
			name := key.s
			if key.Kind() != types.String {
				name = key.String()
			}

			out[name] = v.m.Values()[i].Native()
		}

		return out

	default:
		return nil
	}
}

func isIntegral(d *apd.Decimal) bool {
	var tmp apd.Decimal

	// Truncation to zero digits leaves integral values unchanged.
	if _, err := decCtx.RoundToIntegralExact(&tmp, d); err != nil {
		return false
	}

	return tmp.Cmp(d) == 0
}
