package repl

import (
	"slices"
	"testing"

	"github.com/ardnew/verdict/engine"
)

func testCompleter() *completer {
	return newCompleter(engine.MapResolver{
		"amount":    120,
		"account":   "checking",
		"name":      "alice",
		"timestamp": "2024-03-01",
	})
}

func TestCompletePrefixFirst(t *testing.T) {
	got := testCompleter().complete("a")

	if len(got) == 0 {
		t.Fatal("Expected completions for a")
	}

	for i, want := range []string{"account", "amount", "and"} {
		if i >= len(got) || got[i] != want {
			t.Fatalf("Expected prefix matches first, got %v", got)
		}
	}
}

func TestCompleteFuzzy(t *testing.T) {
	// No prefix match, but the scattered letters still rank.
	got := testCompleter().complete("tmstmp")

	if !slices.Contains(got, "timestamp") {
		t.Errorf("Expected timestamp among %v", got)
	}
}

func TestCompleteKeywordsAndBuiltins(t *testing.T) {
	got := testCompleter().complete("$re")

	if !slices.Contains(got, "$re_groups") {
		t.Errorf("Expected $re_groups among %v", got)
	}
}

func TestCompleteEmptyAndUnknown(t *testing.T) {
	c := testCompleter()

	if got := c.complete(""); got != nil {
		t.Errorf("Expected no completions for empty word, got %v", got)
	}

	if got := c.complete("zzzz"); len(got) != 0 {
		t.Errorf("Expected no completions, got %v", got)
	}
}

func TestCompleteBounded(t *testing.T) {
	if got := testCompleter().complete("a"); len(got) > maxMatches {
		t.Errorf("Expected at most %d completions, got %d", maxMatches, len(got))
	}
}

func TestSplitLastWord(t *testing.T) {
	tests := []struct {
		text, head, word string
	}{
		{"amount + na", "amount + ", "na"},
		{"na", "", "na"},
		{"a.b", "a.", "b"},
		{"1 + ", "1 + ", ""},
		{"$re_gr", "", "$re_gr"},
	}

	for _, tt := range tests {
		head, word := splitLastWord(tt.text)
		if head != tt.head || word != tt.word {
			t.Errorf("splitLastWord(%q): expected (%q, %q), got (%q, %q)",
				tt.text, tt.head, tt.word, head, word)
		}
	}
}
