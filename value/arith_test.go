package value

import (
	"errors"
	"testing"
	"time"
)

func TestAddDecimalExact(t *testing.T) {
	sum, err := Add(mustFloat(t, "0.1"), mustFloat(t, "0.2"))
	if err != nil {
		t.Fatalf("Failed to add: %v", err)
	}

	if !Equal(sum, mustFloat(t, "0.3")) {
		t.Errorf("Expected 0.1 + 0.2 == 0.3, got %s", sum)
	}
}

func TestAddDispatch(t *testing.T) {
	epoch := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		a, b Value
		want Value
	}{
		{"float", FloatFromInt(2), FloatFromInt(3), FloatFromInt(5)},
		{"concat", Str("ab"), Str("cd"), Str("abcd")},
		{"datetime shift", Time(epoch), Duration(time.Hour), Time(epoch.Add(time.Hour))},
		{"shift datetime", Duration(time.Hour), Time(epoch), Time(epoch.Add(time.Hour))},
		{"durations", Duration(time.Hour), Duration(time.Minute), Duration(time.Hour + time.Minute)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Add(tt.a, tt.b)
			if err != nil {
				t.Fatalf("Add failed: %v", err)
			}

			if !Equal(got, tt.want) {
				t.Errorf("Expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestAddMismatch(t *testing.T) {
	if _, err := Add(Str("a"), FloatFromInt(1)); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("Expected ErrTypeMismatch for STRING + FLOAT, got %v", err)
	}
}

func TestSubDatetimes(t *testing.T) {
	a := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	b := a.Add(-90 * time.Minute)

	got, err := Sub(Time(a), Time(b))
	if err != nil {
		t.Fatalf("Sub failed: %v", err)
	}

	if !Equal(got, Duration(90*time.Minute)) {
		t.Errorf("Expected PT1H30M, got %s", got)
	}
}

func TestDivExact(t *testing.T) {
	got, err := Div(FloatFromInt(1), FloatFromInt(3))
	if err != nil {
		t.Fatalf("Div failed: %v", err)
	}

	back, err := Mul(got, FloatFromInt(3))
	if err != nil {
		t.Fatalf("Mul failed: %v", err)
	}

	// 50 digits of precision round-trip 1/3 * 3 back to 1 under half-up
	// rounding of the comparison operands.
	diff, err := Sub(back, FloatFromInt(1))
	if err != nil {
		t.Fatalf("Sub failed: %v", err)
	}

	bound := mustFloat(t, "1e-40")

	if cmp, err := Compare(diff, bound); err != nil || cmp >= 0 {
		t.Errorf("Expected 1/3*3 within 1e-40 of 1, got difference %s", diff)
	}
}

func TestDivisionByZero(t *testing.T) {
	for _, op := range []func(a, b Value) (Value, error){Div, FloorDiv, Mod} {
		if _, err := op(FloatFromInt(1), FloatFromInt(0)); !errors.Is(err, ErrDivisionByZero) {
			t.Errorf("Expected ErrDivisionByZero, got %v", err)
		}
	}
}

func TestFloorDiv(t *testing.T) {
	tests := []struct {
		a, b, want string
	}{
		{"7", "2", "3"},
		{"-7", "2", "-4"},
		{"7.5", "2.5", "3"},
	}

	for _, tt := range tests {
		got, err := FloorDiv(mustFloat(t, tt.a), mustFloat(t, tt.b))
		if err != nil {
			t.Fatalf("FloorDiv(%s, %s) failed: %v", tt.a, tt.b, err)
		}

		if !Equal(got, mustFloat(t, tt.want)) {
			t.Errorf("Expected %s // %s == %s, got %s", tt.a, tt.b, tt.want, got)
		}
	}
}

func TestPow(t *testing.T) {
	got, err := Pow(FloatFromInt(2), FloatFromInt(10))
	if err != nil {
		t.Fatalf("Pow failed: %v", err)
	}

	if !Equal(got, FloatFromInt(1024)) {
		t.Errorf("Expected 1024, got %s", got)
	}
}

func TestPowNoFiniteResult(t *testing.T) {
	_, err := Pow(FloatFromInt(0), FloatFromInt(-1))
	if !errors.Is(err, ErrDivisionByZero) {
		t.Errorf("Expected ErrDivisionByZero for 0 ** -1, got %v", err)
	}

	_, err = Pow(FloatFromInt(-1), mustFloat(t, "0.5"))
	if !errors.Is(err, ErrArithmeticFault) {
		t.Errorf("Expected ErrArithmeticFault for -1 ** 0.5, got %v", err)
	}
}

func TestNeg(t *testing.T) {
	got, err := Neg(mustFloat(t, "1.5"))
	if err != nil {
		t.Fatalf("Neg failed: %v", err)
	}

	if !Equal(got, mustFloat(t, "-1.5")) {
		t.Errorf("Expected -1.5, got %s", got)
	}

	got, err = Neg(Duration(time.Minute))
	if err != nil {
		t.Fatalf("Neg failed: %v", err)
	}

	if !Equal(got, Duration(-time.Minute)) {
		t.Errorf("Expected -PT1M, got %s", got)
	}

	if _, err := Neg(Str("x")); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("Expected ErrTypeMismatch, got %v", err)
	}
}

func TestCeilFloor(t *testing.T) {
	tests := []struct {
		in, ceil, floor string
	}{
		{"1.2", "2", "1"},
		{"-1.2", "-1", "-2"},
		{"3", "3", "3"},
	}

	for _, tt := range tests {
		c, err := Ceil(mustFloat(t, tt.in))
		if err != nil {
			t.Fatalf("Ceil(%s) failed: %v", tt.in, err)
		}

		if !Equal(c, mustFloat(t, tt.ceil)) {
			t.Errorf("Expected ceil(%s) == %s, got %s", tt.in, tt.ceil, c)
		}

		f, err := Floor(mustFloat(t, tt.in))
		if err != nil {
			t.Fatalf("Floor(%s) failed: %v", tt.in, err)
		}

		if !Equal(f, mustFloat(t, tt.floor)) {
			t.Errorf("Expected floor(%s) == %s, got %s", tt.in, tt.floor, f)
		}
	}
}

func TestEqualCrossKind(t *testing.T) {
	if Equal(FloatFromInt(1), Str("1")) {
		t.Error("Expected 1 != \"1\"")
	}

	if Equal(Null(), Bool(false)) {
		t.Error("Expected null != false")
	}

	if !Equal(Null(), Null()) {
		t.Error("Expected null == null")
	}
}

func TestEqualNaN(t *testing.T) {
	if Equal(NaN(), NaN()) {
		t.Error("Expected nan != nan")
	}
}

func TestCompareMismatch(t *testing.T) {
	if _, err := Compare(FloatFromInt(1), Str("a")); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("Expected ErrTypeMismatch, got %v", err)
	}

	if _, err := Compare(Bool(true), Bool(false)); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("Expected ErrTypeMismatch for unorderable kind, got %v", err)
	}
}

func TestParseTimedelta(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
	}{
		{"PT0S", 0},
		{"PT", 0},
		{"P1W", 7 * 24 * time.Hour},
		{"P1DT2H3M4S", 26*time.Hour + 3*time.Minute + 4*time.Second},
		{"PT0.5S", 500 * time.Millisecond},
	}

	for _, tt := range tests {
		got, err := ParseTimedelta(tt.in)
		if err != nil {
			t.Fatalf("ParseTimedelta(%q) failed: %v", tt.in, err)
		}

		if got != tt.want {
			t.Errorf("Expected %q to parse as %v, got %v", tt.in, tt.want, got)
		}
	}

	for _, bad := range []string{"P", "1D", "PT1X", ""} {
		if _, err := ParseTimedelta(bad); err == nil {
			t.Errorf("Expected %q to fail", bad)
		}
	}
}

func TestFormatTimedeltaRoundTrip(t *testing.T) {
	durations := []time.Duration{
		0,
		time.Second,
		90 * time.Minute,
		26*time.Hour + 3*time.Minute + 4*time.Second,
		8 * 24 * time.Hour,
		-time.Minute,
	}

	for _, dur := range durations {
		text := FormatTimedelta(dur)

		neg := false
		if text[0] == '-' {
			neg = true
			text = text[1:]
		}

		got, err := ParseTimedelta(text)
		if err != nil {
			t.Fatalf("Failed to reparse %q: %v", text, err)
		}

		if neg {
			got = -got
		}

		if got != dur {
			t.Errorf("Expected %v to round-trip via %q, got %v", dur, text, got)
		}
	}
}

func TestParseDatetime(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("Failed to load location: %v", err)
	}

	got, err := ParseDatetime("2024-03-01 12:30", loc)
	if err != nil {
		t.Fatalf("ParseDatetime failed: %v", err)
	}

	want := time.Date(2024, 3, 1, 12, 30, 0, 0, loc)
	if !got.Equal(want) {
		t.Errorf("Expected %v, got %v", want, got)
	}

	// Explicit offsets win over the default location.
	got, err = ParseDatetime("2024-03-01T12:30:00Z", loc)
	if err != nil {
		t.Fatalf("ParseDatetime failed: %v", err)
	}

	if !got.Equal(time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)) {
		t.Errorf("Expected UTC instant, got %v", got)
	}

	if _, err := ParseDatetime("not a date", nil); !errors.Is(err, ErrBadConversion) {
		t.Errorf("Expected ErrBadConversion, got %v", err)
	}
}

func TestEpochSeconds(t *testing.T) {
	got := EpochSeconds(time.Unix(1700000000, 250000000))

	if !Equal(got, mustFloat(t, "1700000000.250")) {
		t.Errorf("Expected 1700000000.25, got %s", got)
	}
}

func TestFloatFromRadix(t *testing.T) {
	tests := []struct {
		digits string
		base   int
		want   int64
	}{
		{"1010", 2, 10},
		{"777", 8, 511},
		{"ff", 16, 255},
	}

	for _, tt := range tests {
		got, err := FloatFromRadix(tt.digits, tt.base)
		if err != nil {
			t.Fatalf("FloatFromRadix(%q, %d) failed: %v", tt.digits, tt.base, err)
		}

		if !Equal(got, FloatFromInt(tt.want)) {
			t.Errorf("Expected %d, got %s", tt.want, got)
		}
	}

	// The full 64-bit unsigned range is representable.
	got, err := FloatFromRadix("ffffffffffffffff", 16)
	if err != nil {
		t.Fatalf("FloatFromRadix failed: %v", err)
	}

	if !Equal(got, mustFloat(t, "18446744073709551615")) {
		t.Errorf("Expected 18446744073709551615, got %s", got)
	}
}
