package combat

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/arena/internal/game/character"
	"github.com/cory-johannsen/arena/internal/game/dice"
	"github.com/cory-johannsen/arena/internal/game/formula"
	"github.com/cory-johannsen/arena/internal/game/skill"
	"github.com/cory-johannsen/arena/internal/scripting"
)

// ErrScriptsUnavailable is returned when an encounter uses a scripted skill
// but the simulator has no script manager.
var ErrScriptsUnavailable = errors.New("combat: scripted skill without a script manager")

// Catalog is the static content an encounter is resolved against.
type Catalog interface {
	character.Catalog
	Conditions
	ScriptHooks() []string
}

// Encounter is the complete input of one fight.
type Encounter struct {
	Seed     string                   `json:"seed"`
	Fighters [2]character.Descriptor `json:"fighters"`
	// Formula names the adapter; empty selects the simulator default.
	Formula string `json:"formula,omitempty"`
}

// SimulateOptions tunes one simulation without affecting its outcome.
type SimulateOptions struct {
	// Verbose fills Result.Trace.
	Verbose bool
}

// Config holds simulator settings.
type Config struct {
	TurnCap        int
	DefaultFormula string
}

// Simulator runs encounters against a fixed catalog. It is safe for
// concurrent use; every encounter owns its own state and Source.
type Simulator struct {
	cat     Catalog
	scripts *scripting.Manager
	logger  *zap.Logger
	cfg     Config
}

// NewSimulator validates cfg and, when scripts is non-nil, that every hook
// the catalog references is defined.
//
// Precondition: cat and logger must be non-nil.
// Postcondition: returns a Simulator or an error wrapping
// formula.ErrUnknownFormula or scripting.ErrScript.
func NewSimulator(cat Catalog, scripts *scripting.Manager, logger *zap.Logger, cfg Config) (*Simulator, error) {
	if cfg.TurnCap <= 0 {
		cfg.TurnCap = DefaultTurnCap
	}
	if cfg.DefaultFormula == "" {
		cfg.DefaultFormula = formula.ParityName
	}
	if _, err := formula.Lookup(cfg.DefaultFormula); err != nil {
		return nil, err
	}
	if scripts != nil {
		for _, hook := range cat.ScriptHooks() {
			if !scripts.HasHook(hook) {
				return nil, fmt.Errorf("%w: hook %q is not defined", scripting.ErrScript, hook)
			}
		}
	}
	return &Simulator{cat: cat, scripts: scripts, logger: logger, cfg: cfg}, nil
}

// Simulate runs enc to completion.
func (s *Simulator) Simulate(enc Encounter) (*Result, error) {
	return s.SimulateWithOptions(enc, SimulateOptions{})
}

// SimulateWithOptions runs enc to completion. An empty seed is replaced by
// a fresh random one, recorded in the result.
//
// Postcondition: configuration errors are returned before any step is
// produced; otherwise the result hash is a pure function of enc.
func (s *Simulator) SimulateWithOptions(enc Encounter, opts SimulateOptions) (*Result, error) {
	name := enc.Formula
	if name == "" {
		name = s.cfg.DefaultFormula
	}
	adapter, err := formula.Lookup(name)
	if err != nil {
		return nil, err
	}
	seed := enc.Seed
	if seed == "" {
		if seed, err = dice.NewSeed(); err != nil {
			return nil, fmt.Errorf("generating seed: %w", err)
		}
	}

	var fighters [2]*Fighter
	for i, desc := range enc.Fighters {
		sheet, err := character.Build(desc, s.cat)
		if err != nil {
			return nil, err
		}
		if s.scripts == nil {
			for _, sk := range sheet.Skills {
				if sk.Trigger != nil && sk.Trigger.Effect == skill.EffectScript {
					return nil, fmt.Errorf("fighter %q skill %q: %w", desc.Name, sk.ID, ErrScriptsUnavailable)
				}
			}
		}
		fighters[i] = newFighter(i, sheet)
	}

	src := dice.NewLoggedSource(dice.NewSeeded(seed), s.logger)
	f := &fight{
		adapter:  adapter,
		src:      src,
		conds:    s.cat,
		scripts:  s.scripts,
		logger:   s.logger,
		turnCap:  s.cfg.TurnCap,
		fighters: fighters,
	}
	f.run()

	r := &Result{
		Winner:   f.winner,
		Loser:    1 - f.winner,
		Fighters: [2]FinalState{finalState(f.fighters[0]), finalState(f.fighters[1])},
		Steps:    f.rec.Steps(),
		Turns:    f.turns,
		Formula:  adapter.Name(),
		Seed:     seed,
	}
	r.Hash = r.ComputeHash()
	if opts.Verbose {
		r.Trace = traceOf(r.Steps, [2]string{f.fighters[0].Name, f.fighters[1].Name})
	}
	s.logger.Debug("encounter finished",
		zap.String("seed", seed),
		zap.String("formula", r.Formula),
		zap.Int("winner", r.Winner),
		zap.Int("turns", r.Turns),
		zap.Int("steps", len(r.Steps)),
		zap.Int("draws", src.Draws()),
		zap.String("hash", r.Hash),
	)
	return r, nil
}

// Replay re-simulates enc and checks the result against want.
//
// Precondition: enc.Seed must be non-empty.
// Postcondition: returns the result and an error wrapping ErrHashMismatch
// when the hashes differ.
func (s *Simulator) Replay(enc Encounter, want string) (*Result, error) {
	if enc.Seed == "" {
		return nil, errors.New("combat: replay requires a seed")
	}
	r, err := s.Simulate(enc)
	if err != nil {
		return nil, err
	}
	return r, Verify(r, want)
}
