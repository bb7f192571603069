package command

import (
	"fmt"

	"github.com/sahilm/fuzzy"

	"github.com/twistedx/cmdeck/internal/config"
	"github.com/twistedx/cmdeck/internal/palette"
)

// Destination is one switcher target: a workspace or a tab within one.
type Destination struct {
	ID        string
	Title     string
	Workspace string // empty for workspace destinations themselves
	Path      string
}

// Destinations expands the configured workspaces into switcher targets:
// each workspace, then each of its tabs.
func Destinations(workspaces []config.WorkspaceDef) []Destination {
	var out []Destination
	for _, ws := range workspaces {
		out = append(out, Destination{
			ID:    "switch.workspace." + ws.Name,
			Title: ws.Name,
			Path:  ws.Path,
		})
		for _, tab := range ws.Tabs {
			out = append(out, Destination{
				ID:        fmt.Sprintf("switch.tab.%s.%s", ws.Name, tab),
				Title:     tab,
				Workspace: ws.Name,
				Path:      ws.Path,
			})
		}
	}
	return out
}

// destinationSource implements fuzzy.Source over destination titles.
type destinationSource []Destination

func (s destinationSource) String(i int) string { return s[i].Title }
func (s destinationSource) Len() int            { return len(s) }

// SwitcherCandidates converts destinations into palette candidates. Lists
// larger than maxCandidates are prefiltered by title against the query so
// one engine pass stays inside a frame budget; the engine itself never
// caps or paginates.
func SwitcherCandidates(dests []Destination, query string, maxCandidates int) []*palette.Candidate {
	if maxCandidates > 0 && len(dests) > maxCandidates {
		if query != "" {
			matches := fuzzy.FindFrom(query, destinationSource(dests))
			narrowed := make([]Destination, 0, min(len(matches), maxCandidates))
			for _, m := range matches {
				narrowed = append(narrowed, dests[m.Index])
				if len(narrowed) == maxCandidates {
					break
				}
			}
			dests = narrowed
		} else {
			dests = dests[:maxCandidates]
		}
	}

	out := make([]*palette.Candidate, 0, len(dests))
	for _, d := range dests {
		subtitle := d.Path
		if d.Workspace != "" {
			subtitle = d.Workspace
		}
		out = append(out, &palette.Candidate{
			ID:       d.ID,
			Title:    d.Title,
			Subtitle: subtitle,
			Keywords: []string{d.Workspace},
			Rank:     len(out),
		})
	}
	return out
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
