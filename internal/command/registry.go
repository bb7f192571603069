package command

import "github.com/twistedx/cmdeck/internal/palette"

// Registry holds the shell's commands in registration order; that order is
// the rank tie-break the engine uses.
type Registry struct {
	commands []*Command
	byID     map[string]*Command
}

func NewRegistry() *Registry {
	return &Registry{byID: make(map[string]*Command)}
}

// Register appends a command. Later registrations with a duplicate ID
// replace the lookup entry but keep the original list position.
func (r *Registry) Register(cmd *Command) {
	if _, exists := r.byID[cmd.ID]; !exists {
		r.commands = append(r.commands, cmd)
	}
	r.byID[cmd.ID] = cmd
}

// Get returns a command by ID.
func (r *Registry) Get(id string) (*Command, bool) {
	cmd, ok := r.byID[id]
	return cmd, ok
}

// Candidates returns the palette candidates for every command available in
// ctx, ranked in registration order.
func (r *Registry) Candidates(ctx Context) []*palette.Candidate {
	out := make([]*palette.Candidate, 0, len(r.commands))
	for _, cmd := range r.commands {
		if !cmd.Available(ctx) {
			continue
		}
		out = append(out, &palette.Candidate{
			ID:       cmd.ID,
			Title:    cmd.Title,
			Subtitle: cmd.Subtitle,
			Keywords: cmd.Keywords,
			Rank:     len(out),
		})
	}
	return out
}

// Builtins returns the registry preloaded with the shell's stock commands.
func Builtins() *Registry {
	r := NewRegistry()

	always := []*Command{
		{ID: "palette.newTab", Title: "New Tab", Keywords: []string{"create", "terminal"}},
		{ID: "palette.newWorkspace", Title: "New Workspace", Keywords: []string{"create", "window"}},
		{ID: "palette.renameTab", Title: "Rename Tab", Keywords: []string{"title", "retitle"}},
		{ID: "palette.renameWorkspace", Title: "Rename Workspace", Keywords: []string{"title", "retitle"}},
		{ID: "palette.closeTab", Title: "Close Tab", Keywords: []string{"remove"}},
		{ID: "palette.splitRight", Title: "Split Pane Right", Keywords: []string{"vertical", "pane"}},
		{ID: "palette.splitDown", Title: "Split Pane Down", Keywords: []string{"horizontal", "pane"}},
		{ID: "palette.toggleTheme", Title: "Toggle Theme", Keywords: []string{"dark", "light", "colors"}},
		{ID: "palette.toggleSidebar", Title: "Toggle Sidebar", Keywords: []string{"panel", "files"}},
	}
	for _, cmd := range always {
		r.Register(cmd)
	}

	r.Register(&Command{
		ID:       "palette.closePane",
		Title:    "Close Pane",
		Keywords: []string{"unsplit"},
		When:     func(ctx Context) bool { return ctx.HasSplit },
	})
	r.Register(&Command{
		ID:       "palette.focusNextPane",
		Title:    "Focus Next Pane",
		Keywords: []string{"switch", "cycle"},
		When:     func(ctx Context) bool { return ctx.HasSplit },
	})
	r.Register(&Command{
		ID:       "palette.reloadPage",
		Title:    "Reload Page",
		Keywords: []string{"browser", "refresh"},
		When:     func(ctx Context) bool { return ctx.FocusedPanel == PanelBrowser },
	})
	r.Register(&Command{
		ID:       "palette.openDevTools",
		Title:    "Open Developer Tools",
		Keywords: []string{"browser", "inspect", "console"},
		When:     func(ctx Context) bool { return ctx.FocusedPanel == PanelBrowser },
	})
	r.Register(&Command{
		ID:       "palette.clearScrollback",
		Title:    "Clear Scrollback",
		Keywords: []string{"terminal", "buffer"},
		When:     func(ctx Context) bool { return ctx.FocusedPanel == PanelTerminal },
	})

	return r
}
