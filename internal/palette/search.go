package palette

import (
	"sort"
	"strings"
	"time"
)

// Search scores every candidate against the query and returns the ranked
// results. One synchronous pass, no side effects: candidates are referenced
// but never copied or mutated, and the usage map is read-only. An empty or
// whitespace-only query matches every candidate with match score 0, ordered
// by usage boost then caller rank.
//
// Ranking is descending by match score plus usage boost; ties break by
// ascending Candidate.Rank, then by case-insensitive title.
func Search(query string, candidates []*Candidate, usage map[string]Usage, now time.Time) []*Result {
	tokens := queryTokens(Normalize(query))
	empty := len(tokens) == 0

	results := make([]*Result, 0, len(candidates))
	for _, cand := range candidates {
		score, ok := scoreCandidate(tokens, cand)
		if !ok {
			continue
		}
		res := &Result{
			Candidate: cand,
			Score:     score + usageBoost(usage[cand.ID], now, empty),
		}
		if !empty {
			res.MatchedTitleIndices = highlightTokens(tokens, cand.Title)
		}
		results = append(results, res)
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		ri, rj := results[i].Candidate.Rank, results[j].Candidate.Rank
		if ri != rj {
			return ri < rj
		}
		ti := strings.ToLower(results[i].Candidate.Title)
		tj := strings.ToLower(results[j].Candidate.Title)
		return ti < tj
	})
	return results
}

// scoreCandidate applies AND semantics across tokens and OR semantics
// across searchable fields: every token must match at least one field, and
// each token contributes its best per-field score to the total.
func scoreCandidate(tokens []string, cand *Candidate) (int, bool) {
	if len(tokens) == 0 {
		return 0, true
	}
	fields := searchFields(cand)
	if len(fields) == 0 {
		return 0, false
	}

	total := 0
	for _, tok := range tokens {
		t := []rune(tok)
		best, matched := 0, false
		for _, f := range fields {
			if sc, ok := matchToken(t, f); ok && (!matched || sc > best) {
				best, matched = sc, true
			}
		}
		if !matched {
			return 0, false
		}
		total += best
	}
	return total, true
}
