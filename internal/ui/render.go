package ui

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/twistedx/cmdeck/internal/palette"
)

// maxTitleWidth bounds a rendered title cell; long workspace paths get
// ellipsized rather than wrapping the overlay.
const maxTitleWidth = 42

// renderRow renders one result line: highlighted title plus dimmed
// subtitle, with the selected row inverted.
func (p *Palette) renderRow(res *palette.Result, selected bool) string {
	title := runewidth.Truncate(res.Candidate.Title, maxTitleWidth, "…")
	line := renderHighlightedTitle(title, res.MatchedTitleIndices, selected)

	if sub := res.Candidate.Subtitle; sub != "" {
		sub = runewidth.Truncate(sub, 20, "…")
		if selected {
			line += "  " + sub
		} else {
			line += "  " + subtitleStyle.Render(sub)
		}
	}

	if selected {
		return selectedResultStyle.Render("› " + line)
	}
	return resultItemStyle.Render("  " + line)
}

// renderHighlightedTitle emphasizes the matched rune offsets. Indices past
// the truncation point are silently dropped; they are always valid offsets
// into the untruncated title.
func renderHighlightedTitle(title string, indices []int, selected bool) string {
	if len(indices) == 0 {
		return title
	}
	matched := make(map[int]bool, len(indices))
	for _, idx := range indices {
		matched[idx] = true
	}

	style := matchedRuneStyle
	if selected {
		style = selectedMatchStyle
	}

	var out strings.Builder
	var runBuf strings.Builder
	inRun := false
	flush := func() {
		if runBuf.Len() == 0 {
			return
		}
		if inRun {
			out.WriteString(style.Render(runBuf.String()))
		} else {
			out.WriteString(runBuf.String())
		}
		runBuf.Reset()
	}

	for i, r := range []rune(title) {
		if matched[i] != inRun {
			flush()
			inRun = matched[i]
		}
		runBuf.WriteRune(r)
	}
	flush()
	return out.String()
}
