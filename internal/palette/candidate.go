// Package palette implements the fuzzy matching and ranking engine behind
// the command palette and the workspace/tab switcher. It is a pure function
// of (query, candidates, usage history, clock): callers build the candidate
// list, the engine returns ranked results with title highlight positions.
package palette

// Candidate is one addressable palette entry: a command or a switcher
// destination. The engine references candidates during a search pass but
// never mutates or retains them; the caller rebuilds the list whenever
// available actions change.
type Candidate struct {
	// ID is a stable identity, used to key usage history.
	ID string

	// Title is the display text and the only field that gets highlighted.
	Title string

	// Subtitle is secondary searchable text (e.g. a path or a group name).
	Subtitle string

	// Keywords are extra searchable aliases that never display.
	Keywords []string

	// Rank is the caller's insertion order, used only as a tie-break.
	Rank int
}

// Result pairs a candidate with its computed score for one query
// evaluation. Results are never mutated after construction.
type Result struct {
	Candidate *Candidate

	// Score is the summed per-token match score plus the usage boost.
	// Any candidate that survives filtering scored at least 1 from
	// matching, unless the query was empty (then match score is 0).
	Score int

	// MatchedTitleIndices holds the rune offsets into Title covered by
	// the match, ascending, for visual emphasis. Tokens that matched only
	// via subtitle or keywords contribute no indices.
	MatchedTitleIndices []int
}

// Usage records how often and how recently a candidate was invoked.
// Keyed by Candidate.ID in the history map handed to Search.
type Usage struct {
	UseCount   int   `json:"use_count"`
	LastUsedAt int64 `json:"last_used_at"` // unix seconds
}

// searchFields returns the normalized searchable texts of a candidate as
// rune slices, skipping fields that normalize to empty. A candidate with no
// searchable text can never match a non-empty query.
func searchFields(c *Candidate) [][]rune {
	fields := make([][]rune, 0, 2+len(c.Keywords))
	if t := Normalize(c.Title); t != "" {
		fields = append(fields, []rune(t))
	}
	if s := Normalize(c.Subtitle); s != "" {
		fields = append(fields, []rune(s))
	}
	for _, kw := range c.Keywords {
		if k := Normalize(kw); k != "" {
			fields = append(fields, []rune(k))
		}
	}
	return fields
}
