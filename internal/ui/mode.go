package ui

import "strings"

// Mode selects which candidate set the palette searches.
type Mode int

const (
	// ModeSwitcher lists workspace/tab destinations (default).
	ModeSwitcher Mode = iota
	// ModeCommand lists shell commands, entered with the ">" prefix.
	ModeCommand
)

const (
	commandPrefix  = ">"
	switcherPrefix = "@"
)

// parseMode splits the raw input into a mode and the query the engine
// sees. The mode prefix is a shell concern; the engine never sees it.
// "@" explicitly selects switcher mode, which is also the default.
func parseMode(input string) (Mode, string) {
	if strings.HasPrefix(input, commandPrefix) {
		return ModeCommand, input[len(commandPrefix):]
	}
	if strings.HasPrefix(input, switcherPrefix) {
		return ModeSwitcher, input[len(switcherPrefix):]
	}
	return ModeSwitcher, input
}

func (m Mode) String() string {
	if m == ModeCommand {
		return "command"
	}
	return "switcher"
}
