package ui

import (
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/twistedx/cmdeck/internal/command"
	"github.com/twistedx/cmdeck/internal/config"
	"github.com/twistedx/cmdeck/internal/history"
	"github.com/twistedx/cmdeck/internal/logging"
	"github.com/twistedx/cmdeck/internal/palette"
)

var uiLog = logging.ForComponent(logging.CompUI)

// InvokedMsg is emitted when the user activates a candidate the palette
// does not handle itself.
type InvokedMsg struct {
	ID    string
	Title string
}

// Palette is the command palette / switcher overlay.
type Palette struct {
	input   textinput.Model
	results []*palette.Result
	cursor  int
	mode    Mode
	width   int
	height  int

	registry *command.Registry
	dests    []command.Destination
	ctx      command.Context
	store    *history.Store
	cfg      *config.UserConfig

	now func() time.Time
}

// NewPalette creates the palette over the given registry, switcher
// destinations, and usage store.
func NewPalette(reg *command.Registry, dests []command.Destination, ctx command.Context, store *history.Store, cfg *config.UserConfig) *Palette {
	ti := textinput.New()
	ti.Placeholder = "Search workspaces and tabs, > for commands..."
	ti.Focus()
	ti.CharLimit = 200
	ti.Width = 50

	p := &Palette{
		input:    ti,
		registry: reg,
		dests:    dests,
		ctx:      ctx,
		store:    store,
		cfg:      cfg,
		now:      time.Now,
	}
	p.refresh()
	return p
}

// SetContext updates the shell context and rebuilds results; availability
// predicates are applied when building candidates, never inside the engine.
func (p *Palette) SetContext(ctx command.Context) {
	p.ctx = ctx
	p.refresh()
}

// SetSize sets the terminal dimensions for centering.
func (p *Palette) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// Query returns the engine-visible query (mode prefix stripped).
func (p *Palette) Query() string {
	_, query := parseMode(p.input.Value())
	return query
}

// Mode returns the active palette mode.
func (p *Palette) Mode() Mode {
	return p.mode
}

// Results returns the current ranked results.
func (p *Palette) Results() []*palette.Result {
	return p.results
}

// Selected returns the result under the cursor, or nil.
func (p *Palette) Selected() *palette.Result {
	if len(p.results) == 0 {
		return nil
	}
	if p.cursor >= len(p.results) {
		p.cursor = len(p.results) - 1
	}
	return p.results[p.cursor]
}

func (p *Palette) Init() tea.Cmd {
	return textinput.Blink
}

func (p *Palette) Update(msg tea.Msg) (*Palette, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.SetSize(msg.Width, msg.Height)
		return p, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "ctrl+c":
			return p, tea.Quit

		case "enter":
			return p, p.invokeSelected()

		case "up", "ctrl+k":
			if p.cursor > 0 {
				p.cursor--
			}
			return p, nil

		case "down", "ctrl+j":
			if p.cursor < len(p.results)-1 {
				p.cursor++
			}
			return p, nil

		default:
			var cmd tea.Cmd
			p.input, cmd = p.input.Update(msg)
			p.refresh()
			return p, cmd
		}
	}
	return p, nil
}

// refresh recomputes results for the current input: one synchronous engine
// pass per keystroke.
func (p *Palette) refresh() {
	mode, query := parseMode(p.input.Value())
	p.mode = mode

	var cands []*palette.Candidate
	switch mode {
	case ModeCommand:
		cands = p.registry.Candidates(p.ctx)
	default:
		cands = command.SwitcherCandidates(p.dests, palette.Normalize(query), p.cfg.Palette.MaxCandidates)
	}

	results := palette.Search(query, cands, p.store.Snapshot(), p.now())
	if max := p.cfg.Palette.MaxResults; len(results) > max {
		results = results[:max]
	}
	p.results = results
	p.cursor = 0

	logging.Aggregate(logging.CompPalette, "palette_search",
		slog.String("mode", mode.String()),
		slog.Int("candidates", len(cands)),
		slog.Int("results", len(results)))
}

// invokeSelected records the use, runs the command's action if it has one,
// and reports the invocation upward.
func (p *Palette) invokeSelected() tea.Cmd {
	sel := p.Selected()
	if sel == nil {
		return nil
	}
	id := sel.Candidate.ID
	title := sel.Candidate.Title

	if err := p.store.RecordUse(id); err != nil {
		uiLog.Warn("record_use_failed", slog.String("id", id), slog.String("error", err.Error()))
	}

	if cmd, ok := p.registry.Get(id); ok && cmd.Action != nil {
		if err := cmd.Action(); err != nil {
			uiLog.Warn("action_failed", slog.String("id", id), slog.String("error", err.Error()))
		}
	}

	// Commands the shell wires itself (theme toggle) are handled here;
	// everything else bubbles up as an InvokedMsg.
	if id == "palette.toggleTheme" {
		ToggleTheme()
		p.refresh()
		return nil
	}

	return func() tea.Msg {
		return InvokedMsg{ID: id, Title: title}
	}
}

// View renders the overlay centered in the terminal.
func (p *Palette) View() string {
	header := headerStyle.Render("cmdeck palette")
	if p.mode == ModeCommand {
		header = headerStyle.Render("cmdeck palette: commands")
	}

	searchBox := searchBoxStyle.Render(p.input.View())

	var rows strings.Builder
	for i, res := range p.results {
		rows.WriteString(p.renderRow(res, i == p.cursor))
		if i < len(p.results)-1 {
			rows.WriteString("\n")
		}
	}

	count := hintStyle.Render("  " + formatCount(len(p.results)))
	keys := hintStyle.Render("  [Enter] Run  [↑↓] Navigate  [>] Commands  [Esc] Close")

	content := header + "\n\n" + searchBox + "\n\n" + rows.String() + "\n" + count + "\n" + keys

	overlayWidth := 64
	if p.width > 0 && p.width < overlayWidth+10 {
		overlayWidth = p.width - 10
		if overlayWidth < 30 {
			overlayWidth = 30
		}
	}
	overlay := overlayStyle.Width(overlayWidth).Render(content)
	return centerInScreen(overlay, p.width, p.height)
}

func formatCount(count int) string {
	switch count {
	case 0:
		return "No results"
	case 1:
		return "1 result"
	}
	return lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(count)) + " results"
}

// centerInScreen centers content in the terminal.
func centerInScreen(content string, screenWidth, screenHeight int) string {
	lines := strings.Split(content, "\n")
	contentHeight := len(lines)
	contentWidth := 0
	for _, line := range lines {
		if w := lipgloss.Width(line); w > contentWidth {
			contentWidth = w
		}
	}

	verticalPad := (screenHeight - contentHeight) / 2
	if verticalPad < 0 {
		verticalPad = 0
	}
	horizontalPad := (screenWidth - contentWidth) / 2
	if horizontalPad < 0 {
		horizontalPad = 0
	}

	var result strings.Builder
	for i := 0; i < verticalPad; i++ {
		result.WriteString("\n")
	}
	padding := strings.Repeat(" ", horizontalPad)
	for _, line := range lines {
		result.WriteString(padding + line + "\n")
	}
	return result.String()
}
