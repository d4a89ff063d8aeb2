package lang

import (
	"errors"
	"testing"
	"time"

	"github.com/ardnew/verdict/value"
)

func mustParse(t *testing.T, text string) Node {
	t.Helper()

	root, err := Parse(text)
	if err != nil {
		t.Fatalf("Failed to parse %q: %v", text, err)
	}

	return root
}

func TestParsePrecedence(t *testing.T) {
	// 1 + 2 * 3 groups the product under the sum.
	root := mustParse(t, "1 + 2 * 3")

	sum, ok := root.(*Arithmetic)
	if !ok || sum.Op != OpAdd {
		t.Fatalf("Expected + at the root, got %T", root)
	}

	prod, ok := sum.Right.(*Arithmetic)
	if !ok || prod.Op != OpMul {
		t.Fatalf("Expected * under the +, got %T", sum.Right)
	}
}

func TestParseLeftAssociative(t *testing.T) {
	// 10 - 2 - 3 is (10 - 2) - 3.
	root := mustParse(t, "10 - 2 - 3")

	outer, ok := root.(*Arithmetic)
	if !ok || outer.Op != OpSub {
		t.Fatalf("Expected - at the root, got %T", root)
	}

	inner, ok := outer.Left.(*Arithmetic)
	if !ok || inner.Op != OpSub {
		t.Fatalf("Expected nested - on the left, got %T", outer.Left)
	}
}

func TestParseMultiplicativeOneLevel(t *testing.T) {
	// ** shares the multiplicative level and associates left: 2 ** 3 ** 2 is
	// (2 ** 3) ** 2.
	root := mustParse(t, "2 ** 3 ** 2")

	outer, ok := root.(*Arithmetic)
	if !ok || outer.Op != OpPow {
		t.Fatalf("Expected ** at the root, got %T", root)
	}

	if _, ok := outer.Left.(*Arithmetic); !ok {
		t.Fatalf("Expected left-associative **, got %T on the left", outer.Left)
	}
}

func TestParseComparisonNonAssociative(t *testing.T) {
	_, err := Parse("1 < 2 < 3")
	if err == nil {
		t.Fatal("Expected chained comparison to be rejected")
	}

	if !errors.Is(err, ErrSyntax) {
		t.Errorf("Expected ErrSyntax, got %v", err)
	}

	// Parenthesized chains are fine.
	mustParse(t, "(1 < 2) == true")
}

func TestParseLogicOverComparison(t *testing.T) {
	// a == 1 and b == 2: and is looser than ==.
	root := mustParse(t, "a == 1 and b == 2")

	logic, ok := root.(*Logic)
	if !ok || logic.Op != OpAnd {
		t.Fatalf("Expected and at the root, got %T", root)
	}

	if _, ok := logic.Left.(*Compare); !ok {
		t.Fatalf("Expected comparison on the left, got %T", logic.Left)
	}
}

func TestParseTernary(t *testing.T) {
	root := mustParse(t, `"yes" if ok else "no"`)

	tern, ok := root.(*Ternary)
	if !ok {
		t.Fatalf("Expected ternary at the root, got %T", root)
	}

	if _, ok := tern.Cond.(*Symbol); !ok {
		t.Errorf("Expected symbol condition, got %T", tern.Cond)
	}

	// Right-associative alternative.
	root = mustParse(t, "a if c1 else b if c2 else c")

	tern, ok = root.(*Ternary)
	if !ok {
		t.Fatalf("Expected ternary at the root, got %T", root)
	}

	if _, ok := tern.Else.(*Ternary); !ok {
		t.Errorf("Expected nested ternary in the alternative, got %T", tern.Else)
	}
}

func TestParseTernaryRequiresElse(t *testing.T) {
	if _, err := Parse("a if b"); err == nil {
		t.Error("Expected ternary without else to be rejected")
	}
}

func TestParseNotIn(t *testing.T) {
	root := mustParse(t, "x not in [1, 2]")

	neg, ok := root.(*Unary)
	if !ok || neg.Op != OpNot {
		t.Fatalf("Expected not wrapper, got %T", root)
	}

	if _, ok := neg.Operand.(*Contains); !ok {
		t.Fatalf("Expected membership under the not, got %T", neg.Operand)
	}
}

func TestParsePostfixChain(t *testing.T) {
	root := mustParse(t, "a?.b.c[0]?[1:2]")

	slice, ok := root.(*Slice)
	if !ok || !slice.Safe {
		t.Fatalf("Expected safe slice at the root, got %T", root)
	}

	index, ok := slice.Object.(*Index)
	if !ok || index.Safe {
		t.Fatalf("Expected plain index under the slice, got %T", slice.Object)
	}

	attr, ok := index.Object.(*Attribute)
	if !ok || attr.Name != "c" || attr.Safe {
		t.Fatalf("Expected plain attribute c, got %T", index.Object)
	}

	safe, ok := attr.Object.(*Attribute)
	if !ok || safe.Name != "b" || !safe.Safe {
		t.Fatalf("Expected safe attribute b, got %T", attr.Object)
	}
}

func TestParseSliceBounds(t *testing.T) {
	tests := []struct {
		text   string
		lo, hi bool
	}{
		{"a[1:2]", true, true},
		{"a[:2]", false, true},
		{"a[1:]", true, false},
		{"a[:]", false, false},
	}

	for _, tt := range tests {
		root := mustParse(t, tt.text)

		slice, ok := root.(*Slice)
		if !ok {
			t.Fatalf("Expected slice for %q, got %T", tt.text, root)
		}

		if (slice.Lo != nil) != tt.lo || (slice.Hi != nil) != tt.hi {
			t.Errorf("Bounds of %q: lo=%v hi=%v", tt.text, slice.Lo != nil, slice.Hi != nil)
		}
	}
}

func TestParseContainers(t *testing.T) {
	if root := mustParse(t, "[1, 2, 3,]"); len(root.(*ArrayLit).Elements) != 3 {
		t.Errorf("Expected 3 array elements, got %T", root)
	}

	if root := mustParse(t, "{1, 2}"); len(root.(*SetLit).Elements) != 2 {
		t.Errorf("Expected 2 set elements, got %T", root)
	}

	root := mustParse(t, `{"a": 1, "b": 2}`)
	if m, ok := root.(*MapLit); !ok || len(m.Keys) != 2 {
		t.Errorf("Expected 2 mapping entries, got %T", root)
	}

	// Empty braces are the empty mapping, not the empty set.
	root = mustParse(t, "{}")
	if _, ok := root.(*MapLit); !ok {
		t.Errorf("Expected {} to be a mapping, got %T", root)
	}
}

func TestParseComprehensionForms(t *testing.T) {
	tests := []struct {
		text string
		form CompForm
		cond bool
	}{
		{"[x * 2 for x in xs]", CompArray, false},
		{"[x for x in xs if x > 1]", CompArray, true},
		{"{x for x in xs}", CompSet, false},
		{"{x: x * x for x in xs}", CompMap, false},
	}

	for _, tt := range tests {
		root := mustParse(t, tt.text)

		comp, ok := root.(*Comprehension)
		if !ok {
			t.Fatalf("Expected comprehension for %q, got %T", tt.text, root)
		}

		if comp.Form != tt.form {
			t.Errorf("Form of %q: expected %v, got %v", tt.text, tt.form, comp.Form)
		}

		if (comp.Cond != nil) != tt.cond {
			t.Errorf("Condition of %q: expected %v", tt.text, tt.cond)
		}

		if comp.Sym != "x" {
			t.Errorf("Loop symbol of %q: expected x, got %q", tt.text, comp.Sym)
		}
	}
}

func TestParseDatetimeLiteral(t *testing.T) {
	loc, err := time.LoadLocation("America/Chicago")
	if err != nil {
		t.Fatalf("Failed to load location: %v", err)
	}

	root, err := Parse(`d"2024-03-01"`, WithTimezone(loc))
	if err != nil {
		t.Fatalf("Failed to parse: %v", err)
	}

	lit, ok := root.(*Literal)
	if !ok {
		t.Fatalf("Expected literal, got %T", root)
	}

	want := time.Date(2024, 3, 1, 0, 0, 0, 0, loc)
	if !lit.Val.Time().Equal(want) {
		t.Errorf("Expected %v, got %v", want, lit.Val.Time())
	}

	if _, err := Parse(`d"not a date"`); err == nil {
		t.Error("Expected invalid datetime literal to be rejected")
	}
}

func TestParseNumberLiterals(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"42", "42"},
		{"3.14", "3.14"},
		{".5", "0.5"},
		{"1.", "1"},
		{"1e3", "1000"},
		{"0x10", "16"},
	}

	for _, tt := range tests {
		root := mustParse(t, tt.text)

		lit, ok := root.(*Literal)
		if !ok {
			t.Fatalf("Expected literal for %q, got %T", tt.text, root)
		}

		want, err := value.FloatFromString(tt.want)
		if err != nil {
			t.Fatalf("Failed to parse expectation: %v", err)
		}

		if !value.Equal(lit.Val, want) {
			t.Errorf("Expected %q to equal %s, got %s", tt.text, tt.want, lit.Val)
		}
	}
}

func TestParseCall(t *testing.T) {
	root := mustParse(t, `$sum([1, 2, 3])`)

	call, ok := root.(*Call)
	if !ok {
		t.Fatalf("Expected a Call at the root, got %T", root)
	}

	if call.Name != "sum" {
		t.Errorf("Expected callee sum, got %q", call.Name)
	}

	if len(call.Args) != 1 {
		t.Fatalf("Expected 1 argument, got %d", len(call.Args))
	}

	if _, ok := call.Args[0].(*ArrayLit); !ok {
		t.Errorf("Expected an ArrayLit argument, got %T", call.Args[0])
	}
}

func TestParseCallArgumentForms(t *testing.T) {
	root := mustParse(t, `$parse_datetime("2024-01-01",)`)

	call, ok := root.(*Call)
	if !ok || len(call.Args) != 1 {
		t.Fatalf("Expected a 1-argument Call with a trailing comma, got %T", root)
	}

	root = mustParse(t, `$any()`)

	call, ok = root.(*Call)
	if !ok || len(call.Args) != 0 {
		t.Fatalf("Expected a 0-argument Call, got %T", root)
	}
}

func TestParseCallRequiresBuiltin(t *testing.T) {
	// Plain symbols are not callable; the open paren is trailing input.
	_, err := Parse("foo(1)")
	if err == nil {
		t.Fatal("Expected a call on a plain symbol to be rejected")
	}

	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("Expected a ParseError, got %T", err)
	}
}

func TestParseTrailingInput(t *testing.T) {
	_, err := Parse("1 2")
	if err == nil {
		t.Fatal("Expected trailing input to be rejected")
	}

	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("Expected a ParseError, got %T", err)
	}
}
