package palette

// The stitched matcher covers queries like "abcproj" against "abc project":
// the token is cut into two or more contiguous chunks, each a prefix of a
// distinct word segment, consumed left to right without reusing or
// reordering segments. Tokens shorter than stitchMinTokenLen never stitch.
//
// The natural recursive formulation memoizes on (token offset, word index,
// chunks used); recursion depth is bounded by the token length, which is
// short for real queries.

type stitchState struct {
	ti   int // runes of the token already consumed
	wi   int // first word segment still available
	used int // chunks placed so far, capped at 2 (all that scoring needs)
}

type stitchVal struct {
	score int
	pos   []int
	ok    bool
}

type stitcher struct {
	t, c  []rune
	words []segment
	memo  map[stitchState]stitchVal
}

func matchStitched(t, c []rune, words []segment) (int, bool) {
	v := stitchSolve(t, c, words)
	if !v.ok {
		return 0, false
	}
	return clampScore(scoreStitched + v.score - (len(c) - len(t))), true
}

// stitchedPositions exposes the winning chunk layout for highlighting.
func stitchedPositions(t, c []rune, words []segment) []int {
	v := stitchSolve(t, c, words)
	if !v.ok {
		return nil
	}
	return v.pos
}

func stitchSolve(t, c []rune, words []segment) stitchVal {
	if len(t) < stitchMinTokenLen || len(words) < 2 {
		return stitchVal{}
	}
	st := &stitcher{t: t, c: c, words: words, memo: make(map[stitchState]stitchVal)}
	return st.solve(0, 0, 0)
}

func (st *stitcher) solve(ti, wi, used int) stitchVal {
	if ti == len(st.t) {
		// Whole token consumed; a stitch needs at least two chunks.
		if used >= 2 {
			return stitchVal{ok: true}
		}
		return stitchVal{}
	}
	if wi == len(st.words) {
		return stitchVal{}
	}

	key := stitchState{ti, wi, used}
	if v, hit := st.memo[key]; hit {
		return v
	}

	var best stitchVal
	for j := wi; j < len(st.words); j++ {
		w := st.words[j]
		word := st.c[w.start:w.end]
		maxLen := len(st.t) - ti
		if len(word) < maxLen {
			maxLen = len(word)
		}
		// Longest chunk first; shorter fallbacks still get explored so a
		// greedy cut cannot strand the tail of the token.
		for l := maxLen; l >= 1; l-- {
			if !runesHavePrefix(word, st.t[ti:ti+l]) {
				continue
			}
			nextUsed := used + 1
			if nextUsed > 2 {
				nextUsed = 2
			}
			sub := st.solve(ti+l, j+1, nextUsed)
			if !sub.ok {
				continue
			}
			chunk := l * stitchChunkBonus
			if used > 0 && j == wi {
				chunk += stitchAdjacency
			}
			chunk -= (len(word) - l) * stitchLeftover
			chunk -= j * stitchPosition
			chunk -= (j - wi) * stitchSkipCost
			total := chunk + sub.score
			if !best.ok || total > best.score {
				pos := make([]int, 0, l+len(sub.pos))
				for k := 0; k < l; k++ {
					pos = append(pos, w.start+k)
				}
				pos = append(pos, sub.pos...)
				best = stitchVal{score: total, pos: pos, ok: true}
			}
		}
	}
	st.memo[key] = best
	return best
}
