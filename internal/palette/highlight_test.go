package palette

import (
	"math/rand"
	"reflect"
	"testing"
)

func TestHighlightTitle(t *testing.T) {
	tests := []struct {
		name  string
		query string
		title string
		want  []int
	}{
		{"two tokens", "new tab", "New Tab", []int{0, 1, 2, 4, 5, 6}},
		{"exact single token", "reload", "Reload", []int{0, 1, 2, 3, 4, 5}},
		{"prefix", "new", "New Terminal", []int{0, 1, 2}},
		{"word", "term", "New Terminal", []int{4, 5, 6, 7}},
		{"initialism", "nt", "New Terminal", []int{0, 4}},
		{"no title match", "zzz", "New Terminal", nil},
		{"empty query", "", "New Terminal", nil},
		{"empty title", "new", "", nil},
	}
	for _, tt := range tests {
		got := HighlightTitle(tt.query, tt.title)
		if len(got) == 0 && len(tt.want) == 0 {
			continue
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("%s: HighlightTitle(%q, %q) = %v, want %v", tt.name, tt.query, tt.title, got, tt.want)
		}
	}
}

func TestHighlightStitched(t *testing.T) {
	got := HighlightTitle("termrig", "Terminal Right Split")
	// "term" covers runes 0-3, "rig" covers 9-11.
	want := []int{0, 1, 2, 3, 9, 10, 11}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("stitched highlight = %v, want %v", got, want)
	}
}

func TestHighlightUnionsTokens(t *testing.T) {
	got := HighlightTitle("new term", "New Terminal")
	want := []int{0, 1, 2, 4, 5, 6, 7}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("union highlight = %v, want %v", got, want)
	}
}

func TestHighlightDiacriticTitle(t *testing.T) {
	// Indices refer to the display title's codepoints even when matching
	// happens on the folded form.
	got := HighlightTitle("cafe", "Café Menu")
	want := []int{0, 1, 2, 3}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("diacritic highlight = %v, want %v", got, want)
	}
}

// TestHighlightIndicesWithinTitle is the randomized subset property: for
// arbitrary query/title pairs, every index must be a valid rune offset and
// the list must be strictly ascending.
func TestHighlightIndicesWithinTitle(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	alphabet := []rune("abcdef -_/.:ABCéü")

	randString := func(maxLen int) string {
		n := rng.Intn(maxLen + 1)
		out := make([]rune, n)
		for i := range out {
			out[i] = alphabet[rng.Intn(len(alphabet))]
		}
		return string(out)
	}

	for i := 0; i < 2000; i++ {
		query := randString(8)
		title := randString(20)
		indices := HighlightTitle(query, title)
		runeCount := len([]rune(title))
		prev := -1
		for _, idx := range indices {
			if idx < 0 || idx >= runeCount {
				t.Fatalf("query=%q title=%q: index %d out of range (runes=%d)", query, title, idx, runeCount)
			}
			if idx <= prev {
				t.Fatalf("query=%q title=%q: indices not strictly ascending: %v", query, title, indices)
			}
			prev = idx
		}
	}
}

// Search results carry the same guarantee.
func TestResultIndicesWithinTitle(t *testing.T) {
	cands := []*Candidate{
		{ID: "a", Title: "Terminal Right Split", Rank: 0},
		{ID: "b", Title: "Café Menu", Subtitle: "browser", Rank: 1},
		{ID: "c", Title: "x", Keywords: []string{"why", "zed"}, Rank: 2},
	}
	for _, query := range []string{"t", "te", "termrig", "cafe", "browser", "zed", "x y", "nt"} {
		for _, res := range Search(query, cands, nil, searchNow) {
			runeCount := len([]rune(res.Candidate.Title))
			for _, idx := range res.MatchedTitleIndices {
				if idx < 0 || idx >= runeCount {
					t.Errorf("query=%q title=%q: index %d out of range", query, res.Candidate.Title, idx)
				}
			}
		}
	}
}
