package palette

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks decomposes to NFD, drops combining marks, and recomposes, so
// "Café" folds to "Cafe". Shared by Normalize and the per-rune title fold.
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize folds a string into the comparison-safe form both queries and
// candidate text are matched in: diacritics stripped, lowercased, outer
// whitespace trimmed. Pure and total; empty in, empty out.
func Normalize(s string) string {
	return strings.TrimSpace(foldString(s))
}

func foldString(s string) string {
	folded, _, err := transform.String(stripMarks, s)
	if err != nil {
		// Invalid UTF-8 passes through; lowercasing still applies.
		folded = s
	}
	return strings.ToLower(folded)
}

// foldTitleRunes folds a title one codepoint at a time so that every output
// index lines up with the original title's codepoint at the same offset.
// Highlight positions computed against the folded form are therefore valid
// offsets into the display title.
func foldTitleRunes(title string) []rune {
	out := make([]rune, 0, len(title))
	for _, r := range title {
		f := []rune(foldString(string(r)))
		if len(f) == 0 {
			out = append(out, unicode.ToLower(r))
		} else {
			out = append(out, f[0])
		}
	}
	return out
}
