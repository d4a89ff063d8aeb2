package engine

import (
	"sort"

	"github.com/sahilm/fuzzy"
)

// maxSuggestions bounds how many near-matches a resolution error carries.
const maxSuggestions = 3

// suggest returns up to maxSuggestions candidate names ranked by closeness
// to name. Candidates beyond a length-proportional edit-distance cutoff are
// discarded; survivors are ordered by fuzzy match rank, then edit distance,
// then lexicographically for determinism.
func suggest(name string, candidates []string) []string {
	if name == "" || len(candidates) == 0 {
		return nil
	}

	cutoff := len(name)/3 + 1

	type scored struct {
		name string
		dist int
		rank int
	}

	kept := make([]scored, 0, len(candidates))
	keptNames := make([]string, 0, len(candidates))

	for _, cand := range candidates {
		if cand == name {
			continue
		}

		if d := levenshtein(name, cand); d <= cutoff {
			kept = append(kept, scored{name: cand, dist: d, rank: len(candidates)})
			keptNames = append(keptNames, cand)
		}
	}

	if len(kept) == 0 {
		return nil
	}

	for rank, m := range fuzzy.Find(name, keptNames) {
		kept[m.Index].rank = rank
	}

	sort.Slice(kept, func(a, b int) bool {
		if kept[a].rank != kept[b].rank {
			return kept[a].rank < kept[b].rank
		}

		if kept[a].dist != kept[b].dist {
			return kept[a].dist < kept[b].dist
		}

		return kept[a].name < kept[b].name
	})

	if len(kept) > maxSuggestions {
		kept = kept[:maxSuggestions]
	}

	names := make([]string, len(kept))
	for i, s := range kept {
		names[i] = s.name
	}

	return names
}

// levenshtein computes the edit distance between two strings over runes.
func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)

	if len(ra) == 0 {
		return len(rb)
	}

	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)

	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i

		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}

			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}

		prev, curr = curr, prev
	}

	return prev[len(rb)]
}
