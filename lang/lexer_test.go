package lang

import (
	"errors"
	"testing"
)

func kinds(toks []Token) []TokenKind {
	out := make([]TokenKind, len(toks))
	for i, tok := range toks {
		out[i] = tok.Kind
	}

	return out
}

func TestLexOperators(t *testing.T) {
	toks, err := lexAll(`a ?. b ?[ 0 ] =~~ !~~ // ** <= !=`)
	if err != nil {
		t.Fatalf("Failed to lex: %v", err)
	}

	want := []TokenKind{
		tokSymbol, tokSafeDot, tokSymbol, tokSafeBracket, tokNumber,
		tokRBracket, tokSearch, tokNoSearch, tokFloorDiv, tokPow, tokLe,
		tokNe, tokEOF,
	}

	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("Expected %d tokens, got %d: %v", len(want), len(got), got)
	}

	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Token %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}

func TestLexPositions(t *testing.T) {
	toks, err := lexAll("a\n  b")
	if err != nil {
		t.Fatalf("Failed to lex: %v", err)
	}

	if p := toks[0].Pos; p.Line != 1 || p.Col != 1 {
		t.Errorf("Expected a at 1:1, got %s", p)
	}

	if p := toks[1].Pos; p.Line != 2 || p.Col != 3 {
		t.Errorf("Expected b at 2:3, got %s", p)
	}
}

func TestLexNumbers(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "0"},
		{"42", "42"},
		{"3.14", "3.14"},
		{".5", ".5"},
		{"1.", "1."},
		{"1e10", "1e10"},
		{"2.5e-3", "2.5e-3"},
		{"0x1f", "0x1f"},
		{"0b101", "0b101"},
		{"0o77", "0o77"},
	}

	for _, tt := range tests {
		toks, err := lexAll(tt.in)
		if err != nil {
			t.Fatalf("Failed to lex %q: %v", tt.in, err)
		}

		if toks[0].Kind != tokNumber || toks[0].Lit != tt.want {
			t.Errorf("Expected number %q, got %s", tt.want, toks[0])
		}
	}
}

func TestLexLeadingZero(t *testing.T) {
	_, err := lexAll("007")
	if err == nil {
		t.Fatal("Expected leading zeros to be rejected")
	}

	if !errors.Is(err, ErrSyntax) {
		t.Errorf("Expected ErrSyntax, got %v", err)
	}
}

func TestLexStrings(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`"abc"`, "abc"},
		{`'abc'`, "abc"},
		{`s"abc"`, "abc"},
		{`"a\nb"`, "a\nb"},
		{`"a\tb"`, "a\tb"},
		{`"quote \" here"`, `quote " here`},
		{`"\x41"`, "A"},
		{`"é"`, "é"},
		{`"\q"`, `\q`},
	}

	for _, tt := range tests {
		toks, err := lexAll(tt.in)
		if err != nil {
			t.Fatalf("Failed to lex %s: %v", tt.in, err)
		}

		if toks[0].Kind != tokString || toks[0].Lit != tt.want {
			t.Errorf("Expected string %q, got %s", tt.want, toks[0])
		}
	}
}

func TestLexTypedLiterals(t *testing.T) {
	toks, err := lexAll(`d"2024-03-01" t"P1D"`)
	if err != nil {
		t.Fatalf("Failed to lex: %v", err)
	}

	if toks[0].Kind != tokDatetime || toks[0].Lit != "2024-03-01" {
		t.Errorf("Expected datetime literal, got %s", toks[0])
	}

	if toks[1].Kind != tokTimedelta || toks[1].Lit != "P1D" {
		t.Errorf("Expected timedelta literal, got %s", toks[1])
	}
}

func TestLexPrefixWithoutQuoteIsSymbol(t *testing.T) {
	toks, err := lexAll("d + t")
	if err != nil {
		t.Fatalf("Failed to lex: %v", err)
	}

	if toks[0].Kind != tokSymbol || toks[2].Kind != tokSymbol {
		t.Errorf("Expected bare d and t to lex as symbols, got %v", kinds(toks))
	}
}

func TestLexUnterminatedString(t *testing.T) {
	for _, in := range []string{`"abc`, `"abc` + "\n" + `"`} {
		if _, err := lexAll(in); err == nil {
			t.Errorf("Expected %q to fail", in)
		}
	}
}

func TestLexReservedWords(t *testing.T) {
	for _, word := range []string{"elif", "while"} {
		_, err := lexAll(word)
		if err == nil {
			t.Fatalf("Expected %q to be rejected", word)
		}

		if !errors.Is(err, ErrSyntax) {
			t.Errorf("Expected ErrSyntax for %q, got %v", word, err)
		}
	}
}

func TestLexBuiltinSymbol(t *testing.T) {
	toks, err := lexAll("$re_groups")
	if err != nil {
		t.Fatalf("Failed to lex: %v", err)
	}

	if toks[0].Kind != tokBuiltin || toks[0].Lit != "re_groups" {
		t.Errorf("Expected builtin symbol re_groups, got %s", toks[0])
	}

	if _, err := lexAll("$ x"); err == nil {
		t.Error("Expected bare $ to be rejected")
	}
}

func TestLexIllegalCharacter(t *testing.T) {
	for _, in := range []string{"a @ b", "a ? b", "#"} {
		if _, err := lexAll(in); err == nil {
			t.Errorf("Expected %q to fail", in)
		}
	}
}
