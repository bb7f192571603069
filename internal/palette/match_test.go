package palette

import "testing"

// score runs the full ladder for a token/candidate pair, failing the test
// if no strategy matches.
func score(t *testing.T, token, cand string) int {
	t.Helper()
	sc, ok := matchToken([]rune(token), []rune(cand))
	if !ok {
		t.Fatalf("matchToken(%q, %q) did not match", token, cand)
	}
	return sc
}

func noMatch(t *testing.T, token, cand string) {
	t.Helper()
	if sc, ok := matchToken([]rune(token), []rune(cand)); ok {
		t.Fatalf("matchToken(%q, %q) matched with score %d, want no match", token, cand, sc)
	}
}

func TestLadderOrdering(t *testing.T) {
	// The relative ordering of the rungs is the engine's contract:
	// exact > whole-prefix > word-exact > word-prefix >
	// boundary-substring > mid-substring > initialism.
	pairs := []struct {
		name             string
		hiTok, hiCand    string
		loTok, loCand    string
	}{
		{"exact over prefix", "open", "open", "open", "open folder"},
		{"prefix over word", "open f", "open folder", "folder", "open folder"},
		{"word exact over word prefix", "tab", "new tab", "ta", "new tab"},
		{"word over substring", "new", "pane new", "new", "subnew"},
		{"boundary substring over mid substring", "b-c", "a b-c", "b-c", "ab-cd"},
		{"substring over initialism", "nt", "mint", "nt", "new terminal"},
	}
	for _, tt := range pairs {
		hi := score(t, tt.hiTok, tt.hiCand)
		lo := score(t, tt.loTok, tt.loCand)
		if hi <= lo {
			t.Errorf("%s: score(%q,%q)=%d <= score(%q,%q)=%d",
				tt.name, tt.hiTok, tt.hiCand, hi, tt.loTok, tt.loCand, lo)
		}
	}
}

func TestPrefixPrefersCloserLength(t *testing.T) {
	short := score(t, "open", "open tab")
	long := score(t, "open", "open folder in editor")
	if short <= long {
		t.Errorf("closer-length prefix should win: %d <= %d", short, long)
	}
}

func TestWordMatchPrefersEarlierSegments(t *testing.T) {
	early := score(t, "tab", "tab new")
	late := score(t, "tab", "browser new tab")
	if early <= late {
		t.Errorf("earlier segment should win: %d <= %d", early, late)
	}
}

func TestSubstringBonuses(t *testing.T) {
	sub := func(tok, cand string) int {
		t.Helper()
		sc, ok := matchSubstring([]rune(tok), []rune(cand), nil)
		if !ok {
			t.Fatalf("matchSubstring(%q, %q) did not match", tok, cand)
		}
		return sc
	}
	atStart := sub("term", "terminal")
	afterBoundary := sub("term", "x term")
	midWord := sub("term", "xterminal")
	if atStart <= afterBoundary {
		t.Errorf("start-of-string should carry the larger bonus: %d <= %d", atStart, afterBoundary)
	}
	if afterBoundary <= midWord {
		t.Errorf("boundary substring should beat mid-word: %d <= %d", afterBoundary, midWord)
	}
}

func TestInitialism(t *testing.T) {
	sc, ok := matchInitialism([]rune("nw"), []rune("new window"), wordSegments([]rune("new window")))
	if !ok {
		t.Fatal("nw should initialism-match 'new window'")
	}
	if sc < scoreInitialism {
		t.Errorf("initialism score %d below base band", sc)
	}

	// Token longer than the segment count can never initialism-match.
	if _, ok := matchInitialism([]rune("nt"), []rune("notes"), wordSegments([]rune("notes"))); ok {
		t.Error("nt must not initialism-match single-word 'notes'")
	}

	// Segments may be skipped forward but never revisited.
	if _, ok := matchInitialism([]rune("wn"), []rune("new window"), wordSegments([]rune("new window"))); ok {
		t.Error("wn must not match 'new window' (no going backward)")
	}

	skipNone := score(t, "nw", "new window")
	skipOne, ok := matchInitialism([]rune("nw"), []rune("new tab window"), wordSegments([]rune("new tab window")))
	if !ok {
		t.Fatal("nw should match 'new tab window'")
	}
	if skipNone <= skipOne {
		t.Errorf("skipping words should cost: %d <= %d", skipNone, skipOne)
	}
}

func TestStitched(t *testing.T) {
	c := []rune("terminal right split")
	words := wordSegments(c)

	sc, ok := matchStitched([]rune("termrig"), c, words)
	if !ok {
		t.Fatal("termrig should stitch across 'terminal right split'")
	}
	if sc < 1 {
		t.Errorf("stitched score %d < 1", sc)
	}

	// Too short to stitch.
	if _, ok := matchStitched([]rune("ter"), c, words); ok {
		t.Error("3-rune token must not stitch")
	}

	// A single-word candidate can never satisfy the >= 2 chunk rule.
	single := []rune("terminology")
	if _, ok := matchStitched([]rune("termrig"), single, wordSegments(single)); ok {
		t.Error("stitch must not match a single-word candidate")
	}

	// Chunks are order-preserving: "rigterm" cannot stitch backwards.
	if _, ok := matchStitched([]rune("rigterm"), c, words); ok {
		t.Error("stitch must not reorder words")
	}
}

func TestStitchedChunkRules(t *testing.T) {
	stitch := func(token, cand string) bool {
		c := []rune(cand)
		_, ok := matchStitched([]rune(token), c, wordSegments(c))
		return ok
	}

	if stitch("abxq", "abc abxq") {
		// "abxq" fully prefixes the second word alone: one chunk only, so
		// the stitch must fail even though a prefix exists.
		t.Error("full consumption by one word must not count as a stitch")
	}
	if stitch("aabx", "a bx") {
		t.Error("'aabx' cannot be partitioned over 'a bx'")
	}
	if !stitch("abxx", "ab xx") {
		t.Error("'abxx' should stitch over 'ab xx'")
	}
	// Words may be skipped between chunks, at a cost.
	if !stitch("newtab", "new browser tab") {
		t.Error("'newtab' should stitch over 'new browser tab' by skipping a word")
	}
}

func TestSubsequence(t *testing.T) {
	// Only short tokens may scatter.
	if _, ok := matchSubsequence([]rune("abcd"), []rune("a b c d e f"), nil); ok {
		t.Error("4-rune token must not subsequence-match")
	}

	sc, ok := matchSubsequence([]rune("ntb"), []rune("new tab"), nil)
	if !ok {
		t.Fatal("ntb should subsequence-match 'new tab'")
	}
	if sc < 1 {
		t.Errorf("subsequence score %d < 1", sc)
	}

	// Order matters.
	if _, ok := matchSubsequence([]rune("bn"), []rune("new tab"), nil); ok {
		t.Error("bn must not match 'new tab' out of order")
	}

	// Consecutive runs outrank scattered matches in the same candidate.
	tight, _ := matchSubsequence([]rune("tab"), []rune("tab x y z"), nil)
	loose, _ := matchSubsequence([]rune("txz"), []rune("tab x y z"), nil)
	if tight <= loose {
		t.Errorf("consecutive run should outscore scattered: %d <= %d", tight, loose)
	}
}

func TestNoMatchCases(t *testing.T) {
	noMatch(t, "zzz", "new terminal")
	noMatch(t, "terminal", "")
	noMatch(t, "reload", "database")
}

func TestMatchScoreAtLeastOne(t *testing.T) {
	// Heavy penalties must never push a successful match below 1.
	cand := "x very long candidate string with many many many words here q"
	sc := score(t, "q", cand)
	if sc < 1 {
		t.Errorf("score %d < 1", sc)
	}
}
