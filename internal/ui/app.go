package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/twistedx/cmdeck/internal/history"
)

// themeChangedMsg carries an OS dark mode change into the update loop.
type themeChangedMsg bool

// historyChangedMsg signals an external usage write; results need re-scoring.
type historyChangedMsg struct{}

// App is the root bubbletea model: the palette overlay plus the watchers
// that feed it theme and history changes.
type App struct {
	palette      *Palette
	themeWatcher *ThemeWatcher
	histWatcher  *history.Watcher

	// Invoked is set when the user activated a candidate before quitting.
	Invoked *InvokedMsg
}

// NewApp wraps the palette. Either watcher may be nil.
func NewApp(p *Palette, tw *ThemeWatcher, hw *history.Watcher) *App {
	return &App{palette: p, themeWatcher: tw, histWatcher: hw}
}

func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{a.palette.Init()}
	if a.themeWatcher != nil {
		cmds = append(cmds, a.waitForThemeChange())
	}
	if a.histWatcher != nil {
		cmds = append(cmds, a.waitForHistoryChange())
	}
	return tea.Batch(cmds...)
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case themeChangedMsg:
		if bool(msg) {
			InitTheme(string(ThemeDark))
		} else {
			InitTheme(string(ThemeLight))
		}
		return a, a.waitForThemeChange()

	case historyChangedMsg:
		// Re-score with the freshly loaded usage map.
		a.palette.refresh()
		return a, a.waitForHistoryChange()

	case InvokedMsg:
		a.Invoked = &msg
		return a, tea.Quit
	}

	var cmd tea.Cmd
	a.palette, cmd = a.palette.Update(msg)
	return a, cmd
}

func (a *App) View() string {
	return a.palette.View()
}

func (a *App) waitForThemeChange() tea.Cmd {
	return func() tea.Msg {
		isDark, ok := <-a.themeWatcher.ChangeChannel()
		if !ok {
			return nil
		}
		return themeChangedMsg(isDark)
	}
}

func (a *App) waitForHistoryChange() tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-a.histWatcher.ReloadChannel(); !ok {
			return nil
		}
		return historyChangedMsg{}
	}
}
