// Package value implements the tagged runtime representation for rule data
// along with the equality, ordering, and arithmetic rules between kinds.
//
// Values are immutable once constructed. The evaluator shares them freely
// across evaluations; no Value owns a resolver or an AST node. FLOAT values
// use arbitrary-precision decimal arithmetic (cockroachdb/apd) throughout, so
// 0.1 + 0.2 compares equal to 0.3.
package value

import (
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/apd/v3"

	"github.com/ardnew/verdict/types"
)

// Value is a tagged union over the concrete data kinds. The zero Value is
// NULL.
type Value struct {
	dec  *apd.Decimal
	m    *Mapping
	s    string
	seq  []Value
	sidx map[string]struct{} // SET membership index
	t    time.Time
	dur  time.Duration
	kind types.Kind
	b    bool
}

// Null returns the distinguished NULL unit value.
func Null() Value { return Value{kind: types.Null} }

// Bool returns a BOOLEAN value.
func Bool(b bool) Value { return Value{kind: types.Boolean, b: b} }

// Str returns a STRING value.
func Str(s string) Value { return Value{kind: types.String, s: s} }

// Float returns a FLOAT value backed by the given decimal. The decimal is
// owned by the returned Value and must not be mutated afterwards.
func Float(d *apd.Decimal) Value { return Value{kind: types.Float, dec: d} }

// FloatFromInt returns a FLOAT value holding the integer exactly.
func FloatFromInt(i int64) Value { return Float(decimalFromInt64(i)) }

// FloatFromString parses a decimal literal into a FLOAT value.
func FloatFromString(text string) (Value, error) {
	d, err := ParseDecimal(text)
	if err != nil {
		return Null(), err
	}

	return Float(d), nil
}

// Time returns a DATETIME value for the given instant.
func Time(t time.Time) Value { return Value{kind: types.Datetime, t: t} }

// Duration returns a TIMEDELTA value for the given signed duration.
func Duration(d time.Duration) Value { return Value{kind: types.Timedelta, dur: d} }

// Array returns an ARRAY value over the given elements. The slice is owned
// by the returned Value.
func Array(elements ...Value) Value {
	return Value{kind: types.Array, seq: elements}
}

// NewSet returns a SET value over the given elements, discarding duplicates
// while preserving first-occurrence order. Elements must be hashable.
func NewSet(elements []Value) (Value, error) {
	seq := make([]Value, 0, len(elements))
	idx := make(map[string]struct{}, len(elements))

	for _, el := range elements {
		key, err := hashKey(el)
		if err != nil {
			return Null(), err
		}

		if _, dup := idx[key]; dup {
			continue
		}

		idx[key] = struct{}{}
		seq = append(seq, el)
	}

	return Value{kind: types.Set, seq: seq, sidx: idx}, nil
}

// NewMapping returns a MAPPING value over the given key/value pairs,
// preserving insertion order. Keys must be hashable; a repeated key replaces
// the earlier value in place.
func NewMapping(keys, values []Value) (Value, error) {
	if len(keys) != len(values) {
		return Null(), ErrBadConversion.With(
			slog.Int("keys", len(keys)),
			slog.Int("values", len(values)),
		)
	}

	m := &Mapping{idx: make(map[string]int, len(keys))}

	for i := range keys {
		err := m.put(keys[i], values[i])
		if err != nil {
			return Null(), err
		}
	}

	return Value{kind: types.Mapping, m: m}, nil
}

// Kind returns the data kind of the value.
func (v Value) Kind() types.Kind {
	if v.kind == types.Undefined {
		// The zero Value is NULL; Undefined never exists at runtime.
		return types.Null
	}

	return v.kind
}

// IsNull reports whether the value is NULL.
func (v Value) IsNull() bool { return v.Kind() == types.Null }

// Bool returns the boolean datum. Valid only for BOOLEAN values.
func (v Value) Bool() bool { return v.b }

// Str returns the text datum. Valid only for STRING values.
func (v Value) Str() string { return v.s }

// Decimal returns the numeric datum. Valid only for FLOAT values.
func (v Value) Decimal() *apd.Decimal { return v.dec }

// Time returns the instant datum. Valid only for DATETIME values.
func (v Value) Time() time.Time { return v.t }

// Dur returns the duration datum. Valid only for TIMEDELTA values.
func (v Value) Dur() time.Duration { return v.dur }

// Items returns the ordered elements of an ARRAY or SET value. The returned
// slice must not be mutated.
func (v Value) Items() []Value { return v.seq }

// Map returns the ordered key/value storage of a MAPPING value.
func (v Value) Map() *Mapping { return v.m }

// Len returns the element count for container and STRING kinds, and zero for
// every other kind.
func (v Value) Len() int {
	switch v.Kind() {
	case types.String:
		return len([]rune(v.s))
	case types.Array, types.Set:
		return len(v.seq)
	case types.Mapping:
		return v.m.Len()
	default:
		return 0
	}
}

// Contains reports whether member occurs in the value: element membership
// for ARRAY and SET, key membership for MAPPING.
func (v Value) Contains(member Value) (bool, error) {
	switch v.Kind() {
	case types.Array:
		for _, el := range v.seq {
			if Equal(el, member) {
				return true, nil
			}
		}

		return false, nil

	case types.Set:
		key, err := hashKey(member)
		if err != nil {
			// Unhashable members cannot be present.
			return false, nil
		}

		_, ok := v.sidx[key]

		return ok, nil

	case types.Mapping:
		_, ok, err := v.m.Get(member)
		if err != nil {
			return false, nil
		}

		return ok, nil

	default:
		return false, ErrTypeMismatch.With(
			slog.String("operation", "in"),
			slog.String("container", v.Kind().String()),
		)
	}
}

// Truthy reports the value's truth in a boolean context: NULL, false, zero,
// and zero-length STRING/ARRAY/SET/MAPPING are false; everything else true.
func (v Value) Truthy() bool {
	switch v.Kind() {
	case types.Null:
		return false
	case types.Boolean:
		return v.b
	case types.Float:
		return !v.dec.IsZero()
	case types.String:
		return len(v.s) != 0
	case types.Array, types.Set:
		return len(v.seq) != 0
	case types.Mapping:
		return v.m.Len() != 0
	default:
		return true
	}
}

// String returns a source-like rendition of the value.
func (v Value) String() string {
	switch v.Kind() {
	case types.Null:
		return "null"

	case types.Boolean:
		return strconv.FormatBool(v.b)

	case types.Float:
		return v.dec.Text('f')

	case types.String:
		return strconv.Quote(v.s)

	case types.Datetime:
		return "d" + strconv.Quote(v.t.Format(time.RFC3339Nano))

	case types.Timedelta:
		return "t" + strconv.Quote(FormatTimedelta(v.dur))

	case types.Array:
		return "[" + joinItems(v.seq) + "]"

	case types.Set:
		if len(v.seq) == 0 {
			return "{,}"
		}

		return "{" + joinItems(v.seq) + "}"

	case types.Mapping:
		pairs := make([]string, v.m.Len())
		for i := range v.m.keys {
			pairs[i] = v.m.keys[i].String() + ": " + v.m.vals[i].String()
		}

		return "{" + strings.Join(pairs, ", ") + "}"

	default:
		return v.Kind().String()
	}
}

func joinItems(items []Value) string {
	parts := make([]string, len(items))
	for i, el := range items {
		parts[i] = el.String()
	}

	return strings.Join(parts, ", ")
}

// Mapping is the ordered key/value storage behind MAPPING values. Keys keep
// insertion order; lookup goes through a hash index.
type Mapping struct {
	idx  map[string]int
	keys []Value
	vals []Value
}

// Len returns the number of entries.
func (m *Mapping) Len() int { return len(m.keys) }

// Keys returns the keys in insertion order.
func (m *Mapping) Keys() []Value { return m.keys }

// Values returns the values in key insertion order.
func (m *Mapping) Values() []Value { return m.vals }

// Get returns the value stored under key. Unhashable keys fail with
// ErrNotHashable.
func (m *Mapping) Get(key Value) (Value, bool, error) {
	hk, err := hashKey(key)
	if err != nil {
		return Null(), false, err
	}

	i, ok := m.idx[hk]
	if !ok {
		return Null(), false, nil
	}

	return m.vals[i], true, nil
}

func (m *Mapping) put(key, val Value) error {
	hk, err := hashKey(key)
	if err != nil {
		return err
	}

	if i, ok := m.idx[hk]; ok {
		m.vals[i] = val

		return nil
	}

	m.idx[hk] = len(m.keys)
	m.keys = append(m.keys, key)
	m.vals = append(m.vals, val)

	return nil
}

// hashKey returns a canonical text key for hashable (scalar) values. The key
// embeds the kind so that cross-kind values never collide, consistent with
// cross-kind equality being false.
func hashKey(v Value) (string, error) {
	switch v.Kind() {
	case types.Null:
		return "n", nil

	case types.Boolean:
		if v.b {
			return "b1", nil
		}

		return "b0", nil

	case types.String:
		return "s" + v.s, nil

	case types.Float:
		return "f" + canonDecimal(v.dec).String(), nil

	case types.Datetime:
		return "d" + strconv.FormatInt(v.t.UnixNano(), 10), nil

	case types.Timedelta:
		return "t" + strconv.FormatInt(int64(v.dur), 10), nil

	default:
		return "", ErrNotHashable.With(
			slog.String("kind", v.Kind().String()),
		)
	}
}

// FromNative converts a native Go value into a runtime Value. It accepts the
// kinds produced by YAML/JSON decoding plus time.Time, time.Duration, and
// previously constructed Values. Unsupported types fail with
// ErrBadConversion.
func FromNative(native any) (Value, error) {
	switch n := native.(type) {
	case nil:
		return Null(), nil

	case Value:
		return n, nil

	case bool:
		return Bool(n), nil

	case string:
		return Str(n), nil

	case int:
		return FloatFromInt(int64(n)), nil

	case int8:
		return FloatFromInt(int64(n)), nil

	case int16:
		return FloatFromInt(int64(n)), nil

	case int32:
		return FloatFromInt(int64(n)), nil

	case int64:
		return FloatFromInt(n), nil

	case uint:
		return FloatFromInt(int64(n)), nil

	case uint8:
		return FloatFromInt(int64(n)), nil

	case uint16:
		return FloatFromInt(int64(n)), nil

	case uint32:
		return FloatFromInt(int64(n)), nil

	case uint64:
		return Float(decimalFromUint64(n)), nil

	case float32:
		return fromFloat64(float64(n))

	case float64:
		return fromFloat64(n)

	case *apd.Decimal:
		return Float(n), nil

	case time.Time:
		return Time(n), nil

	case time.Duration:
		return Duration(n), nil

	case []any:
		return fromNativeSlice(n)

	case map[string]any:
		return fromNativeStringMap(n)

	case map[any]any:
		return fromNativeAnyMap(n)

	default:
		return Null(), ErrBadConversion.With(
			slog.String("type", fmt.Sprintf("%T", native)),
		)
	}
}

func fromFloat64(f float64) (Value, error) {
	d, err := decimalFromFloat64(f)
	if err != nil {
		return Null(), err
	}

	return Float(d), nil
}

func fromNativeSlice(items []any) (Value, error) {
	elements := make([]Value, len(items))

	for i, item := range items {
		el, err := FromNative(item)
		if err != nil {
			return Null(), err
		}

		elements[i] = el
	}

	return Array(elements...), nil
}

func fromNativeStringMap(m map[string]any) (Value, error) {
	// Sort keys for a deterministic entry order; Go maps iterate randomly.
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}

	sort.Strings(names)

	keys := make([]Value, len(names))
	vals := make([]Value, len(names))

	for i, name := range names {
		val, err := FromNative(m[name])
		if err != nil {
			return Null(), err
		}

		keys[i] = Str(name)
		vals[i] = val
	}

	return NewMapping(keys, vals)
}

func fromNativeAnyMap(m map[any]any) (Value, error) {
	keys := make([]Value, 0, len(m))
	vals := make([]Value, 0, len(m))

	for k, val := range m {
		kv, err := FromNative(k)
		if err != nil {
			return Null(), err
		}

		vv, err := FromNative(val)
		if err != nil {
			return Null(), err
		}

		keys = append(keys, kv)
		vals = append(vals, vv)
	}

	// Sort by hash key for a deterministic entry order.
	order := make([]int, len(keys))
	for i := range order {
		order[i] = i
	}

	hks := make([]string, len(keys))

	for i, k := range keys {
		hk, err := hashKey(k)
		if err != nil {
			return Null(), err
		}

		hks[i] = hk
	}

	sort.Slice(order, func(a, b int) bool { return hks[order[a]] < hks[order[b]] })

	sortedKeys := make([]Value, len(keys))
	sortedVals := make([]Value, len(vals))

	for i, o := range order {
		sortedKeys[i] = keys[o]
		sortedVals[i] = vals[o]
	}

	return NewMapping(sortedKeys, sortedVals)
}
