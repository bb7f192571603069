package palette

import "strings"

// isBoundary reports whether r delimits word segments in candidate text.
func isBoundary(r rune) bool {
	switch r {
	case ' ', '-', '_', '/', '.', ':':
		return true
	}
	return false
}

// queryTokens splits a normalized query into whitespace-separated tokens.
// A query that is empty after normalization yields no tokens, which the
// aggregator treats as "show all".
func queryTokens(normalized string) []string {
	return strings.Fields(normalized)
}

// segment is a half-open rune index range into a normalized candidate
// string, bounded by boundary characters. Recomputed per match attempt.
type segment struct {
	start, end int
}

// wordSegments returns the maximal runs of non-boundary runes in c,
// left to right. Boundary-only input yields no segments.
func wordSegments(c []rune) []segment {
	var segs []segment
	start := -1
	for i, r := range c {
		if isBoundary(r) {
			if start >= 0 {
				segs = append(segs, segment{start, i})
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		segs = append(segs, segment{start, len(c)})
	}
	return segs
}
