package palette

// Score bands for the strategy ladder. The absolute values are tuning; the
// contract is the relative ordering: a full-field match always beats a
// whole-string prefix, which beats a word match, and so on down to the
// bounded subsequence. Penalties within a band stay small enough that bands
// do not cross for realistic titles.
const (
	scoreExact       = 8000
	scoreWholePrefix = 6800
	scoreWordExact   = 6200
	scoreWordPrefix  = 5600
	scoreSubstring   = 4200
	scoreStitched    = 3500
	scoreInitialism  = 3000

	substringStartBonus    = 220 // token at position 0
	substringBoundaryBonus = 180 // token right after a boundary rune
	substringDistanceCost  = 9
	wordDistanceCost       = 8

	initialismCharBonus   = 160
	initialismLeadCost    = 5  // per word before the first matched segment
	initialismSkippedCost = 30 // per word skipped between matches

	stitchMinTokenLen = 4
	stitchChunkBonus  = 220 // per chunk rune
	stitchAdjacency   = 80  // chunk lands on the very next word
	stitchLeftover    = 12  // per unmatched rune left in a chunk's word
	stitchPosition    = 6   // per word index of the chunk's word
	stitchSkipCost    = 25  // per word skipped between chunks

	subseqMaxTokenLen = 3
	subseqCharBonus   = 90
	subseqBoundary    = 140
	subseqRunStep     = 60  // consecutive-run bonus, escalating per rune
	subseqRunCap      = 200 // cap per run
	subseqGapCost     = 4
)

// strategy is one rung of the ladder: a pure scorer that either produces a
// score or reports no match. Strategies are order-independent because the
// caller keeps the maximum; the slice order only documents priority.
type strategy struct {
	name string
	fn   func(t, c []rune, words []segment) (int, bool)
}

var strategies = []strategy{
	{"exact", matchExact},
	{"prefix", matchWholePrefix},
	{"word", matchWord},
	{"substring", matchSubstring},
	{"initialism", matchInitialism},
	{"stitched", matchStitched},
	{"subsequence", matchSubsequence},
}

// matchToken scores one normalized query token against one normalized
// candidate string, returning the best strategy's score. ok=false means the
// token has no match in this string at all.
func matchToken(t, c []rune) (score int, ok bool) {
	if len(t) == 0 || len(c) == 0 {
		return 0, false
	}
	words := wordSegments(c)
	for _, s := range strategies {
		if sc, matched := s.fn(t, c, words); matched && (!ok || sc > score) {
			score, ok = sc, true
		}
	}
	return score, ok
}

// clampScore keeps every successful match worth at least one point so that
// filtering can rely on score >= 1.
func clampScore(s int) int {
	if s < 1 {
		return 1
	}
	return s
}

func matchExact(t, c []rune, _ []segment) (int, bool) {
	if !runesEqual(t, c) {
		return 0, false
	}
	return scoreExact, true
}

func matchWholePrefix(t, c []rune, _ []segment) (int, bool) {
	// Equal length is the exact rung's business.
	if len(t) >= len(c) || !runesHavePrefix(c, t) {
		return 0, false
	}
	return clampScore(scoreWholePrefix - (len(c) - len(t))), true
}

// matchWord compares the token against each word segment, taking the best
// of exact-word and word-prefix hits. Later segments and longer tails score
// lower so "new" prefers "New Tab" over "Browser New Tab".
func matchWord(t, c []rune, words []segment) (int, bool) {
	best, ok := 0, false
	for _, w := range words {
		seg := c[w.start:w.end]
		if len(t) > len(seg) || !runesHavePrefix(seg, t) {
			continue
		}
		score := scoreWordPrefix
		if len(t) == len(seg) {
			score = scoreWordExact
		}
		score -= w.start * wordDistanceCost
		score -= len(c) - (w.start + len(t))
		score = clampScore(score)
		if !ok || score > best {
			best, ok = score, true
		}
	}
	return best, ok
}

func matchSubstring(t, c []rune, _ []segment) (int, bool) {
	idx := runesIndex(c, t)
	if idx < 0 {
		return 0, false
	}
	score := scoreSubstring
	switch {
	case idx == 0:
		score += substringStartBonus
	case isBoundary(c[idx-1]):
		score += substringBoundaryBonus
	}
	score -= idx * substringDistanceCost
	score -= len(c) - len(t)
	return clampScore(score), true
}

// matchInitialism matches each token rune against the first rune of
// successive word segments: "nw" hits "new window". Fails when the token
// outruns the segments or a rune finds no segment lead to land on.
func matchInitialism(t, c []rune, words []segment) (int, bool) {
	pos, first, skipped, ok := initialismWalk(t, c, words)
	if !ok {
		return 0, false
	}
	score := scoreInitialism + len(pos)*initialismCharBonus -
		first*initialismLeadCost - skipped*initialismSkippedCost
	return clampScore(score), true
}

// initialismWalk performs the segment-lead walk shared by scoring and
// highlighting. It returns the matched rune positions, the index of the
// first matched segment, and how many segments were skipped between
// matches.
func initialismWalk(t, c []rune, words []segment) (pos []int, first, skipped int, ok bool) {
	if len(t) == 0 || len(t) > len(words) {
		return nil, 0, 0, false
	}
	first = -1
	next := 0
	for _, r := range t {
		j := next
		for j < len(words) && c[words[j].start] != r {
			j++
		}
		if j == len(words) {
			return nil, 0, 0, false
		}
		if first < 0 {
			first = j
		} else {
			skipped += j - next
		}
		pos = append(pos, words[j].start)
		next = j + 1
	}
	return pos, first, skipped, true
}

// matchSubsequence is the bounded rung: only tokens of up to three runes
// may match as a scattered subsequence, which keeps long queries from
// accreting false positives. Greedy left-to-right placement.
func matchSubsequence(t, c []rune, _ []segment) (int, bool) {
	if len(t) > subseqMaxTokenLen {
		return 0, false
	}
	pos, ok := subsequenceWalk(t, c)
	if !ok {
		return 0, false
	}
	score := 0
	run := 0
	for i, idx := range pos {
		score += subseqCharBonus
		if idx == 0 || isBoundary(c[idx-1]) {
			score += subseqBoundary
		}
		if i > 0 {
			gap := idx - pos[i-1] - 1
			if gap == 0 {
				run += subseqRunStep
				if run > subseqRunCap {
					run = subseqRunCap
				}
				score += run
			} else {
				run = 0
				score -= gap * subseqGapCost
			}
		}
	}
	score -= len(c) - len(t)
	return clampScore(score), true
}

func subsequenceWalk(t, c []rune) ([]int, bool) {
	if len(t) == 0 {
		return nil, false
	}
	pos := make([]int, 0, len(t))
	next := 0
	for _, r := range t {
		j := next
		for j < len(c) && c[j] != r {
			j++
		}
		if j == len(c) {
			return nil, false
		}
		pos = append(pos, j)
		next = j + 1
	}
	return pos, true
}

func runesEqual(a, b []rune) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func runesHavePrefix(s, prefix []rune) bool {
	if len(prefix) > len(s) {
		return false
	}
	return runesEqual(s[:len(prefix)], prefix)
}

// runesIndex returns the rune offset of the first occurrence of sub in s,
// or -1.
func runesIndex(s, sub []rune) int {
	if len(sub) == 0 || len(sub) > len(s) {
		return -1
	}
	for i := 0; i+len(sub) <= len(s); i++ {
		if runesEqual(s[i:i+len(sub)], sub) {
			return i
		}
	}
	return -1
}
