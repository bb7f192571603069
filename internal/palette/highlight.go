package palette

import "sort"

// HighlightTitle recomputes which codepoints of the title a query covers,
// for visual emphasis. This is deliberately independent of scoring: the
// aggregator may have matched a token through the subtitle or a keyword, in
// which case that token simply contributes no indices here. Every returned
// index is a valid rune offset into title, ascending and deduplicated.
func HighlightTitle(query, title string) []int {
	return highlightTokens(queryTokens(Normalize(query)), title)
}

func highlightTokens(tokens []string, title string) []int {
	if len(tokens) == 0 || title == "" {
		return nil
	}
	c := foldTitleRunes(title)
	words := wordSegments(c)

	seen := make(map[int]struct{})
	for _, tok := range tokens {
		for _, idx := range tokenPositions([]rune(tok), c, words) {
			seen[idx] = struct{}{}
		}
	}
	if len(seen) == 0 {
		return nil
	}
	out := make([]int, 0, len(seen))
	for idx := range seen {
		out = append(out, idx)
	}
	sort.Ints(out)
	return out
}

// tokenPositions walks the same ladder as the matcher, highest rung first,
// and returns the covered positions of the first rung that matches.
func tokenPositions(t, c []rune, words []segment) []int {
	if len(t) == 0 || len(c) == 0 {
		return nil
	}
	if runesEqual(t, c) {
		return runRange(0, len(c))
	}
	if runesHavePrefix(c, t) {
		return runRange(0, len(t))
	}
	for _, w := range words {
		seg := c[w.start:w.end]
		if len(t) <= len(seg) && runesHavePrefix(seg, t) {
			return runRange(w.start, w.start+len(t))
		}
	}
	if idx := runesIndex(c, t); idx >= 0 {
		return runRange(idx, idx+len(t))
	}
	if pos, _, _, ok := initialismWalk(t, c, words); ok {
		return pos
	}
	if pos := stitchedPositions(t, c, words); pos != nil {
		return pos
	}
	if len(t) <= subseqMaxTokenLen {
		if pos, ok := subsequenceWalk(t, c); ok {
			return pos
		}
	}
	return nil
}

func runRange(start, end int) []int {
	out := make([]int, 0, end-start)
	for i := start; i < end; i++ {
		out = append(out, i)
	}
	return out
}
