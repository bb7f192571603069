package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"
	"time"

	"golang.org/x/term"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/twistedx/cmdeck/internal/command"
	"github.com/twistedx/cmdeck/internal/config"
	"github.com/twistedx/cmdeck/internal/history"
	"github.com/twistedx/cmdeck/internal/logging"
	"github.com/twistedx/cmdeck/internal/server"
	"github.com/twistedx/cmdeck/internal/statedb"
	"github.com/twistedx/cmdeck/internal/ui"
)

const Version = "0.3.0"

// StateFileName is the SQLite database under the cmdeck directory.
const StateFileName = "state.db"

// init sets up the color profile for consistent terminal colors.
func init() {
	initColorProfile()
}

// initColorProfile configures lipgloss based on terminal capabilities.
// CMDECK_COLOR overrides detection: truecolor, 256, 16, none.
func initColorProfile() {
	if colorEnv := os.Getenv("CMDECK_COLOR"); colorEnv != "" {
		switch strings.ToLower(colorEnv) {
		case "truecolor", "true", "24bit":
			lipgloss.SetColorProfile(termenv.TrueColor)
			return
		case "256", "ansi256":
			lipgloss.SetColorProfile(termenv.ANSI256)
			return
		case "16", "ansi", "basic":
			lipgloss.SetColorProfile(termenv.ANSI)
			return
		case "none", "off", "ascii":
			lipgloss.SetColorProfile(termenv.Ascii)
			return
		}
	}

	colorTerm := os.Getenv("COLORTERM")
	if colorTerm == "truecolor" || colorTerm == "24bit" {
		lipgloss.SetColorProfile(termenv.TrueColor)
		return
	}
	lipgloss.SetColorProfile(termenv.ANSI256)
}

func main() {
	args := os.Args[1:]

	if len(args) > 0 {
		switch args[0] {
		case "version", "--version", "-v":
			fmt.Printf("cmdeck v%s\n", Version)
			return
		case "help", "--help", "-h":
			printHelp()
			return
		case "search":
			handleSearch(args[1:])
			return
		case "history":
			handleHistory(args[1:])
			return
		case "serve":
			handleServe(args[1:])
			return
		default:
			fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", args[0])
			printHelp()
			os.Exit(1)
		}
	}

	runTUI()
}

func printHelp() {
	fmt.Println("Usage: cmdeck [command]")
	fmt.Println()
	fmt.Println("Command palette and workspace switcher.")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  (none)                 Open the palette TUI")
	fmt.Println("  search <query>         One-shot search, JSON output")
	fmt.Println("  history list           Show usage history")
	fmt.Println("  history reset          Clear usage history")
	fmt.Println("  serve                  Run the local control server")
	fmt.Println("  version                Print version")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  cmdeck search 'new tab' --mode command")
	fmt.Println("  cmdeck search editor --limit 5")
	fmt.Println("  cmdeck serve --listen 127.0.0.1:8427")
}

// shellState is everything a command needs: config, open database, loaded
// usage history, and candidate sources.
type shellState struct {
	cfg      *config.UserConfig
	db       *statedb.StateDB
	store    *history.Store
	registry *command.Registry
	dests    []command.Destination
}

func openShellState() (*shellState, error) {
	cfg, err := config.Load()
	if err != nil {
		// Parse errors degrade to defaults; tell the user on stderr.
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	dir, err := config.Dir()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}

	initLogging(cfg, dir)

	db, err := statedb.Open(filepath.Join(dir, StateFileName))
	if err != nil {
		return nil, fmt.Errorf("open state db: %w", err)
	}
	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate state db: %w", err)
	}

	store := history.NewStore(db)
	if err := store.Load(); err != nil {
		db.Close()
		return nil, err
	}

	return &shellState{
		cfg:      cfg,
		db:       db,
		store:    store,
		registry: command.Builtins(),
		dests:    command.Destinations(cfg.Workspaces),
	}, nil
}

func (s *shellState) Close() {
	_ = s.db.Close()
	logging.Shutdown()
}

// initLogging wires slog output. Without CMDECK_DEBUG logs are discarded so
// the TUI stays clean.
func initLogging(cfg *config.UserConfig, dir string) {
	debugMode := os.Getenv("CMDECK_DEBUG") != ""
	logCfg := logging.Config{
		Debug:      debugMode,
		Level:      cfg.Logs.Level,
		MaxSizeMB:  cfg.Logs.MaxSizeMB,
		MaxBackups: cfg.Logs.MaxBackups,
		Compress:   true,
	}
	if debugMode {
		logCfg.LogDir = dir
		logCfg.Level = "debug"
	}
	logging.Init(logCfg)
}

// handleSearch runs one engine pass and prints JSON, for scripting and for
// external launchers that embed cmdeck results.
func handleSearch(args []string) {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	mode := fs.String("mode", "switcher", "Candidate set: switcher or command")
	limit := fs.Int("limit", 0, "Max results (0 = configured default)")

	fs.Usage = func() {
		fmt.Println("Usage: cmdeck search [options] <query>")
		fmt.Println()
		fmt.Println("Run one search pass and print ranked results as JSON.")
		fmt.Println()
		fmt.Println("Options:")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	query := strings.Join(fs.Args(), " ")

	state, err := openShellState()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer state.Close()

	source := server.NewPaletteService(state.registry, state.dests, command.Context{}, state.store, state.cfg)
	results, err := source.Results(*mode, query, *limit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	type resultJSON struct {
		ID       string `json:"id"`
		Title    string `json:"title"`
		Subtitle string `json:"subtitle,omitempty"`
		Score    int    `json:"score"`
		Indices  []int  `json:"indices,omitempty"`
	}
	out := make([]resultJSON, 0, len(results))
	for _, res := range results {
		out = append(out, resultJSON{
			ID:       res.Candidate.ID,
			Title:    res.Candidate.Title,
			Subtitle: res.Candidate.Subtitle,
			Score:    res.Score,
			Indices:  res.MatchedTitleIndices,
		})
	}

	encoded, err := json.MarshalIndent(map[string]any{
		"query":   query,
		"mode":    *mode,
		"results": out,
	}, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(encoded))
}

func handleHistory(args []string) {
	sub := "list"
	if len(args) > 0 {
		sub = args[0]
	}

	state, err := openShellState()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer state.Close()

	switch sub {
	case "list", "ls":
		entries := state.store.Snapshot()
		if len(entries) == 0 {
			fmt.Println("No usage history.")
			return
		}
		ids := make([]string, 0, len(entries))
		for id := range entries {
			ids = append(ids, id)
		}
		sort.Slice(ids, func(i, j int) bool {
			a, b := entries[ids[i]], entries[ids[j]]
			if a.LastUsedAt != b.LastUsedAt {
				return a.LastUsedAt > b.LastUsedAt
			}
			return ids[i] < ids[j]
		})

		fmt.Printf("%-40s %6s  %s\n", "ID", "USES", "LAST USED")
		for _, id := range ids {
			u := entries[id]
			last := time.Unix(u.LastUsedAt, 0).Format("2006-01-02 15:04")
			fmt.Printf("%-40s %6d  %s\n", id, u.UseCount, last)
		}

	case "reset", "clear":
		if err := state.store.Reset(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Usage history cleared.")

	default:
		fmt.Fprintf(os.Stderr, "Unknown history command: %s\n", sub)
		fmt.Fprintln(os.Stderr, "Usage: cmdeck history [list|reset]")
		os.Exit(1)
	}
}

func handleServe(args []string) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	listen := fs.String("listen", "", "Listen address (default from config)")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	state, err := openShellState()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer state.Close()

	addr := *listen
	if addr == "" {
		addr = state.cfg.Server.ListenAddr
	}

	source := server.NewPaletteService(state.registry, state.dests, command.Context{}, state.store, state.cfg)
	srv := server.NewServer(server.Config{ListenAddr: addr, Source: source})

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logging.ForComponent(logging.CompServer).Error("shutdown_failed",
				slog.String("error", err.Error()))
		}
	}()

	fmt.Printf("cmdeck control server listening on %s\n", srv.Addr())
	if err := srv.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runTUI() {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "Error: cmdeck needs a terminal (use 'cmdeck search' for scripting)")
		os.Exit(1)
	}

	state, err := openShellState()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer state.Close()

	ui.InitTheme(state.cfg.ResolveTheme())

	var themeWatcher *ui.ThemeWatcher
	if state.cfg.Theme == "system" {
		themeWatcher = ui.NewThemeWatcher(context.Background())
		if themeWatcher != nil {
			defer themeWatcher.Close()
		}
	}

	dir, _ := config.Dir()
	var histWatcher *history.Watcher
	if w, err := history.NewWatcher(state.store, filepath.Join(dir, StateFileName)); err == nil {
		histWatcher = w
		state.store.SetSaveNotifier(histWatcher.NotifySave)
		defer histWatcher.Close()
	} else {
		logging.ForComponent(logging.CompHistory).Warn("watcher_disabled",
			slog.String("error", err.Error()))
	}

	pal := ui.NewPalette(state.registry, state.dests, command.Context{}, state.store, state.cfg)
	app := ui.NewApp(pal, themeWatcher, histWatcher)

	p := tea.NewProgram(app, tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Print the chosen candidate so shell integrations can act on it.
	if a, ok := final.(*ui.App); ok && a.Invoked != nil {
		fmt.Println(a.Invoked.ID)
	}
}
