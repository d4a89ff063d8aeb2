package repl

import (
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/ardnew/verdict/engine"
)

// maxMatches bounds the number of completion candidates offered at once.
const maxMatches = 8

// keywords are the language words offered alongside symbol names.
var keywords = []string{
	"and", "or", "not", "in", "if", "else", "for",
	"true", "false", "null",
	"$re_groups", "$any", "$all", "$sum",
	"$parse_datetime", "$parse_timedelta",
}

// completer offers fuzzy completion over symbol names and language keywords.
type completer struct {
	names []string
}

func newCompleter(resolver engine.MapResolver) *completer {
	names := append(resolver.SymbolNames(), keywords...)
	sort.Strings(names)

	return &completer{names: names}
}

// complete returns candidate completions for word, ranked by fuzzy match
// quality. Exact-prefix matches are preferred over scattered ones.
func (c *completer) complete(word string) []string {
	if word == "" {
		return nil
	}

	ranked := fuzzy.Find(word, c.names)

	matches := make([]string, 0, min(len(ranked), maxMatches))

	// Prefix matches first, in rank order.
	for _, m := range ranked {
		if strings.HasPrefix(m.Str, word) && len(matches) < maxMatches {
			matches = append(matches, m.Str)
		}
	}

	for _, m := range ranked {
		if !strings.HasPrefix(m.Str, word) && len(matches) < maxMatches {
			matches = append(matches, m.Str)
		}
	}

	return matches
}
