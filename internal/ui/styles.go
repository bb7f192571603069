package ui

import (
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Theme represents the current color scheme
type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

var currentTheme Theme = ThemeDark

// Dark theme - Tokyo Night
var darkColors = struct {
	Bg, Surface, Border, Text, TextDim lipgloss.Color
	Accent, Green, Yellow, Red         lipgloss.Color
}{
	Bg:      lipgloss.Color("#1a1b26"),
	Surface: lipgloss.Color("#24283b"),
	Border:  lipgloss.Color("#414868"),
	Text:    lipgloss.Color("#c0caf5"),
	TextDim: lipgloss.Color("#787fa0"),
	Accent:  lipgloss.Color("#7aa2f7"),
	Green:   lipgloss.Color("#9ece6a"),
	Yellow:  lipgloss.Color("#e0af68"),
	Red:     lipgloss.Color("#f7768e"),
}

// Light theme - Tokyo Night Light variant
var lightColors = struct {
	Bg, Surface, Border, Text, TextDim lipgloss.Color
	Accent, Green, Yellow, Red         lipgloss.Color
}{
	Bg:      lipgloss.Color("#d5d6db"),
	Surface: lipgloss.Color("#e9e9ec"),
	Border:  lipgloss.Color("#9699a3"),
	Text:    lipgloss.Color("#343b58"),
	TextDim: lipgloss.Color("#6a6d7c"),
	Accent:  lipgloss.Color("#34548a"),
	Green:   lipgloss.Color("#485e30"),
	Yellow:  lipgloss.Color("#8f5e15"),
	Red:     lipgloss.Color("#8c4351"),
}

// Active color variables (set by InitTheme)
var (
	ColorBg      lipgloss.Color
	ColorSurface lipgloss.Color
	ColorBorder  lipgloss.Color
	ColorText    lipgloss.Color
	ColorTextDim lipgloss.Color
	ColorAccent  lipgloss.Color
	ColorGreen   lipgloss.Color
	ColorYellow  lipgloss.Color
	ColorRed     lipgloss.Color
)

var themeMu sync.Mutex

func init() {
	applyTheme(ThemeDark)
	rebuildStyles()
}

// InitTheme sets the active theme; "light" selects the light palette,
// anything else falls back to dark.
func InitTheme(name string) {
	themeMu.Lock()
	defer themeMu.Unlock()
	if name == string(ThemeLight) {
		applyTheme(ThemeLight)
	} else {
		applyTheme(ThemeDark)
	}
	rebuildStyles()
}

// CurrentTheme returns the active theme.
func CurrentTheme() Theme {
	themeMu.Lock()
	defer themeMu.Unlock()
	return currentTheme
}

// ToggleTheme switches dark <-> light and returns the new theme.
func ToggleTheme() Theme {
	themeMu.Lock()
	defer themeMu.Unlock()
	if currentTheme == ThemeDark {
		applyTheme(ThemeLight)
	} else {
		applyTheme(ThemeDark)
	}
	rebuildStyles()
	return currentTheme
}

func applyTheme(t Theme) {
	currentTheme = t
	c := darkColors
	if t == ThemeLight {
		c = lightColors
	}
	ColorBg = c.Bg
	ColorSurface = c.Surface
	ColorBorder = c.Border
	ColorText = c.Text
	ColorTextDim = c.TextDim
	ColorAccent = c.Accent
	ColorGreen = c.Green
	ColorYellow = c.Yellow
	ColorRed = c.Red
}

// Styles used by the palette overlay. Rebuilt on theme changes.
var (
	searchBoxStyle      lipgloss.Style
	resultItemStyle     lipgloss.Style
	selectedResultStyle lipgloss.Style
	overlayStyle        lipgloss.Style
	headerStyle         lipgloss.Style
	hintStyle           lipgloss.Style
	matchedRuneStyle    lipgloss.Style
	selectedMatchStyle  lipgloss.Style
	subtitleStyle       lipgloss.Style
)

func rebuildStyles() {
	searchBoxStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorAccent).
		Padding(0, 1)

	resultItemStyle = lipgloss.NewStyle().
		Padding(0, 2).
		Foreground(ColorText)

	selectedResultStyle = lipgloss.NewStyle().
		Padding(0, 2).
		Background(ColorAccent).
		Foreground(ColorBg)

	overlayStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorAccent).
		Padding(1, 2)

	headerStyle = lipgloss.NewStyle().
		Foreground(ColorAccent).
		Bold(true)

	hintStyle = lipgloss.NewStyle().
		Foreground(ColorTextDim)

	matchedRuneStyle = lipgloss.NewStyle().
		Foreground(ColorAccent).
		Bold(true).
		Underline(true)

	selectedMatchStyle = lipgloss.NewStyle().
		Background(ColorAccent).
		Foreground(ColorBg).
		Bold(true).
		Underline(true)

	subtitleStyle = lipgloss.NewStyle().
		Foreground(ColorTextDim)
}
