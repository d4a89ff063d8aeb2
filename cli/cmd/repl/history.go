package repl

// history keeps the most recent inputs and a cursor for recall. The cursor
// sits one past the end when no recall is in progress, and the in-progress
// input is stashed so stepping past the newest entry restores it.
type history struct {
	entries []string
	limit   int
	cursor  int
	stash   string
}

func newHistory(limit int) *history {
	return &history{limit: limit}
}

// Add appends an input and resets the recall cursor. Consecutive duplicates
// are collapsed.
func (h *history) Add(text string) {
	if n := len(h.entries); n > 0 && h.entries[n-1] == text {
		h.cursor = len(h.entries)

		return
	}

	h.entries = append(h.entries, text)
	if len(h.entries) > h.limit {
		h.entries = h.entries[len(h.entries)-h.limit:]
	}

	h.cursor = len(h.entries)
}

// Prev steps back one entry, stashing current when leaving the prompt.
func (h *history) Prev(current string) (string, bool) {
	if h.cursor == 0 || len(h.entries) == 0 {
		return "", false
	}

	if h.cursor == len(h.entries) {
		h.stash = current
	}

	h.cursor--

	return h.entries[h.cursor], true
}

// Next steps forward one entry, restoring the stashed input past the end.
func (h *history) Next() (string, bool) {
	if h.cursor >= len(h.entries) {
		return "", false
	}

	h.cursor++

	if h.cursor == len(h.entries) {
		return h.stash, true
	}

	return h.entries[h.cursor], true
}

// Len returns the number of stored entries.
func (h *history) Len() int { return len(h.entries) }
