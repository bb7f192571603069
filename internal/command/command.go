// Package command builds the candidate lists the palette engine searches:
// the shell's command registry and the workspace/tab switcher destinations.
// Availability filtering happens here, before the engine ever sees a
// candidate; the engine never re-evaluates context predicates.
package command

// PanelKind identifies what kind of panel currently holds focus.
type PanelKind string

const (
	PanelTerminal PanelKind = "terminal"
	PanelBrowser  PanelKind = "browser"
	PanelNone     PanelKind = "none"
)

// Context captures the shell state command availability depends on.
type Context struct {
	FocusedPanel   PanelKind
	HasSplit       bool
	WorkspaceCount int
	TabCount       int
}

// Command is one palette action. When is nil for always-available commands.
type Command struct {
	ID       string
	Title    string
	Subtitle string
	Keywords []string

	// When gates availability on shell context.
	When func(Context) bool

	// Action runs on invocation. Nil actions are recorded in usage history
	// and reported to the caller, which decides what "invoke" means for
	// commands it wires itself (the TUI handles theme/quit directly).
	Action func() error
}

// Available reports whether the command can run in ctx.
func (c *Command) Available(ctx Context) bool {
	return c.When == nil || c.When(ctx)
}
