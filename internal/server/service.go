package server

import (
	"fmt"
	"time"

	"github.com/twistedx/cmdeck/internal/command"
	"github.com/twistedx/cmdeck/internal/config"
	"github.com/twistedx/cmdeck/internal/history"
	"github.com/twistedx/cmdeck/internal/palette"
)

// ResultSource answers palette queries for the control surface.
type ResultSource interface {
	// Results runs one search pass. Mode is "command" or "switcher";
	// limit <= 0 means the configured default.
	Results(mode, query string, limit int) ([]*palette.Result, error)

	// Invoke records a use of the candidate and runs its action.
	Invoke(id string) error
}

// PaletteService is the default ResultSource, built over the same registry,
// destinations, and usage store the TUI uses.
type PaletteService struct {
	registry *command.Registry
	dests    []command.Destination
	ctx      command.Context
	store    *history.Store
	cfg      *config.UserConfig

	now func() time.Time
}

// NewPaletteService wires a result source from the shell's components.
func NewPaletteService(reg *command.Registry, dests []command.Destination, ctx command.Context, store *history.Store, cfg *config.UserConfig) *PaletteService {
	return &PaletteService{
		registry: reg,
		dests:    dests,
		ctx:      ctx,
		store:    store,
		cfg:      cfg,
		now:      time.Now,
	}
}

func (p *PaletteService) Results(mode, query string, limit int) ([]*palette.Result, error) {
	var cands []*palette.Candidate
	switch mode {
	case "command":
		cands = p.registry.Candidates(p.ctx)
	case "", "switcher":
		cands = command.SwitcherCandidates(p.dests, palette.Normalize(query), p.cfg.Palette.MaxCandidates)
	default:
		return nil, fmt.Errorf("unknown mode %q", mode)
	}

	results := palette.Search(query, cands, p.store.Snapshot(), p.now())
	if limit <= 0 {
		limit = p.cfg.Palette.MaxResults
	}
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

func (p *PaletteService) Invoke(id string) error {
	if err := p.store.RecordUse(id); err != nil {
		return err
	}
	if cmd, ok := p.registry.Get(id); ok && cmd.Action != nil {
		return cmd.Action()
	}
	return nil
}
