package value

import (
	"errors"
	"math"
	"testing"
	"time"
)

func mustFloat(t *testing.T, text string) Value {
	t.Helper()

	v, err := FloatFromString(text)
	if err != nil {
		t.Fatalf("Failed to parse float %q: %v", text, err)
	}

	return v
}

func TestZeroValueIsNull(t *testing.T) {
	var v Value

	if !v.IsNull() {
		t.Errorf("Expected zero Value to be NULL, got %s", v.Kind())
	}
}

func TestSetDeduplicates(t *testing.T) {
	set, err := NewSet([]Value{
		FloatFromInt(1), Str("a"), FloatFromInt(1), Str("a"), Bool(true),
	})
	if err != nil {
		t.Fatalf("Failed to build set: %v", err)
	}

	if got := set.Len(); got != 3 {
		t.Errorf("Expected 3 distinct elements, got %d", got)
	}

	// First-occurrence order is preserved.
	if items := set.Items(); !Equal(items[0], FloatFromInt(1)) || !Equal(items[1], Str("a")) {
		t.Errorf("Expected insertion order preserved, got %s", set)
	}
}

func TestSetRejectsUnhashable(t *testing.T) {
	_, err := NewSet([]Value{Array(FloatFromInt(1))})
	if !errors.Is(err, ErrNotHashable) {
		t.Errorf("Expected ErrNotHashable, got %v", err)
	}
}

func TestSetCrossKindMembers(t *testing.T) {
	// 1 and "1" hash apart; cross-kind equality is false.
	set, err := NewSet([]Value{FloatFromInt(1), Str("1")})
	if err != nil {
		t.Fatalf("Failed to build set: %v", err)
	}

	if got := set.Len(); got != 2 {
		t.Errorf("Expected 1 and \"1\" to be distinct, got %d elements", got)
	}
}

func TestMappingOrderAndReplace(t *testing.T) {
	m, err := NewMapping(
		[]Value{Str("b"), Str("a"), Str("b")},
		[]Value{FloatFromInt(1), FloatFromInt(2), FloatFromInt(3)},
	)
	if err != nil {
		t.Fatalf("Failed to build mapping: %v", err)
	}

	if got := m.Len(); got != 2 {
		t.Errorf("Expected repeated key to replace, got %d entries", got)
	}

	v, ok, err := m.Map().Get(Str("b"))
	if err != nil || !ok {
		t.Fatalf("Failed to look up key: ok=%v err=%v", ok, err)
	}

	if !Equal(v, FloatFromInt(3)) {
		t.Errorf("Expected replaced value 3, got %s", v)
	}

	// Insertion order of the first occurrence survives replacement.
	if keys := m.Map().Keys(); keys[0].Str() != "b" || keys[1].Str() != "a" {
		t.Errorf("Expected key order [b a], got %s", m)
	}
}

func TestContains(t *testing.T) {
	arr := Array(FloatFromInt(1), Str("x"), Null())

	set, err := NewSet([]Value{FloatFromInt(2), Str("y")})
	if err != nil {
		t.Fatalf("Failed to build set: %v", err)
	}

	m, err := NewMapping([]Value{Str("k")}, []Value{FloatFromInt(9)})
	if err != nil {
		t.Fatalf("Failed to build mapping: %v", err)
	}

	tests := []struct {
		name      string
		container Value
		member    Value
		want      bool
	}{
		{"array element", arr, Str("x"), true},
		{"array null element", arr, Null(), true},
		{"array miss", arr, Str("z"), false},
		{"array cross kind", arr, Str("1"), false},
		{"set element", set, FloatFromInt(2), true},
		{"set miss", set, FloatFromInt(3), false},
		{"mapping key", m, Str("k"), true},
		{"mapping value is not key", m, FloatFromInt(9), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.container.Contains(tt.member)
			if err != nil {
				t.Fatalf("Contains failed: %v", err)
			}

			if got != tt.want {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}

	if _, err := Str("abc").Contains(Str("a")); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("Expected ErrTypeMismatch for STRING container, got %v", err)
	}
}

func TestTruthy(t *testing.T) {
	emptySet, err := NewSet(nil)
	if err != nil {
		t.Fatalf("Failed to build set: %v", err)
	}

	emptyMap, err := NewMapping(nil, nil)
	if err != nil {
		t.Fatalf("Failed to build mapping: %v", err)
	}

	tests := []struct {
		name string
		val  Value
		want bool
	}{
		{"null", Null(), false},
		{"false", Bool(false), false},
		{"true", Bool(true), true},
		{"zero", FloatFromInt(0), false},
		{"nonzero", mustFloat(t, "0.5"), true},
		{"empty string", Str(""), false},
		{"string", Str("x"), true},
		{"empty array", Array(), false},
		{"array", Array(Null()), true},
		{"empty set", emptySet, false},
		{"empty mapping", emptyMap, false},
		{"datetime", Time(time.Unix(0, 0)), true},
		{"zero timedelta", Duration(0), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.val.Truthy(); got != tt.want {
				t.Errorf("Expected truthiness %v, got %v", tt.want, got)
			}
		})
	}
}

func TestStringRendition(t *testing.T) {
	emptySet, err := NewSet(nil)
	if err != nil {
		t.Fatalf("Failed to build set: %v", err)
	}

	m, err := NewMapping([]Value{Str("a")}, []Value{FloatFromInt(1)})
	if err != nil {
		t.Fatalf("Failed to build mapping: %v", err)
	}

	tests := []struct {
		name string
		val  Value
		want string
	}{
		{"null", Null(), "null"},
		{"bool", Bool(true), "true"},
		{"float", mustFloat(t, "1.50"), "1.50"},
		{"string", Str("a\"b"), `"a\"b"`},
		{"array", Array(FloatFromInt(1), Str("x")), `[1, "x"]`},
		{"empty set", emptySet, "{,}"},
		{"mapping", m, `{"a": 1}`},
		{"timedelta", Duration(90 * time.Minute), `t"PT1H30M"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.val.String(); got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestFromNative(t *testing.T) {
	v, err := FromNative(map[string]any{
		"name":  "ok",
		"count": 3,
		"tags":  []any{"a", "b"},
		"none":  nil,
	})
	if err != nil {
		t.Fatalf("Failed to convert native map: %v", err)
	}

	name, ok, err := v.Map().Get(Str("name"))
	if err != nil || !ok {
		t.Fatalf("Failed to look up name: ok=%v err=%v", ok, err)
	}

	if name.Str() != "ok" {
		t.Errorf("Expected \"ok\", got %s", name)
	}

	count, _, err := v.Map().Get(Str("count"))
	if err != nil {
		t.Fatalf("Failed to look up count: %v", err)
	}

	if !Equal(count, FloatFromInt(3)) {
		t.Errorf("Expected 3, got %s", count)
	}

	tags, _, err := v.Map().Get(Str("tags"))
	if err != nil {
		t.Fatalf("Failed to look up tags: %v", err)
	}

	if !Equal(tags, Array(Str("a"), Str("b"))) {
		t.Errorf("Expected [\"a\", \"b\"], got %s", tags)
	}

	none, _, err := v.Map().Get(Str("none"))
	if err != nil {
		t.Fatalf("Failed to look up none: %v", err)
	}

	if !none.IsNull() {
		t.Errorf("Expected NULL, got %s", none)
	}
}

func TestFromNativeUnsupported(t *testing.T) {
	_, err := FromNative(struct{}{})
	if !errors.Is(err, ErrBadConversion) {
		t.Errorf("Expected ErrBadConversion, got %v", err)
	}
}

func TestFromNativeUint64(t *testing.T) {
	// The range above MaxInt64 must convert exactly.
	v, err := FromNative(uint64(math.MaxUint64))
	if err != nil {
		t.Fatalf("Failed to convert uint64: %v", err)
	}

	if !Equal(v, mustFloat(t, "18446744073709551615")) {
		t.Errorf("Expected 18446744073709551615, got %s", v)
	}

	v, err = FromNative(uint64(42))
	if err != nil || !Equal(v, FloatFromInt(42)) {
		t.Errorf("Expected 42, got %s, %v", v, err)
	}
}

func TestFromNativeFloatExact(t *testing.T) {
	// The shortest decimal rendition of the host float is what the author
	// wrote, not its binary expansion.
	v, err := FromNative(0.1)
	if err != nil {
		t.Fatalf("Failed to convert float: %v", err)
	}

	if !Equal(v, mustFloat(t, "0.1")) {
		t.Errorf("Expected 0.1, got %s", v)
	}
}
