// Package main runs one encounter between two fighter descriptor files and
// prints its outcome and content hash.
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"go.uber.org/zap"

	"github.com/cory-johannsen/arena/internal/bootstrap"
	"github.com/cory-johannsen/arena/internal/game/character"
	"github.com/cory-johannsen/arena/internal/game/combat"
	"github.com/cory-johannsen/arena/internal/game/formula"
)

type options struct {
	config  string
	a, b    string
	seed    string
	formula string
	verbose bool
	asJSON  bool
	expect  string
	compare bool
}

func main() {
	var o options
	flag.StringVar(&o.config, "config", "", "path to configuration file; empty uses defaults")
	flag.StringVar(&o.a, "a", "", "descriptor YAML for the first fighter")
	flag.StringVar(&o.b, "b", "", "descriptor YAML for the second fighter")
	flag.StringVar(&o.seed, "seed", "", "encounter seed; empty generates one")
	flag.StringVar(&o.formula, "formula", "", fmt.Sprintf("formula adapter %v; empty uses the configured default", formula.Names()))
	flag.BoolVar(&o.verbose, "verbose", false, "print the step trace")
	flag.BoolVar(&o.asJSON, "json", false, "print the full result as JSON")
	flag.StringVar(&o.expect, "expect", "", "fail unless the result hash equals this value")
	flag.BoolVar(&o.compare, "compare", false, "run the encounter under every formula and print each hash")
	flag.Parse()

	if err := run(o, os.Stdout); err != nil {
		log.Fatal(err)
	}
}

func run(o options, out io.Writer) error {
	if o.a == "" || o.b == "" {
		return errors.New("both -a and -b descriptor files are required")
	}
	cfg, err := bootstrap.ProvideConfig(bootstrap.ConfigPath(o.config))
	if err != nil {
		return err
	}
	if o.verbose {
		cfg.Engine.Verbose = true
	}
	logger, err := bootstrap.ProvideLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	cat, err := bootstrap.ProvideCatalog(cfg, logger)
	if err != nil {
		return err
	}
	mgr, cleanup, err := bootstrap.ProvideScripts(cfg, cat, logger)
	if err != nil {
		return err
	}
	defer cleanup()
	sim, err := bootstrap.ProvideSimulator(cfg, cat, mgr, logger)
	if err != nil {
		return err
	}

	var enc combat.Encounter
	enc.Seed = o.seed
	enc.Formula = o.formula
	for i, path := range []string{o.a, o.b} {
		d, err := character.LoadDescriptor(path)
		if err != nil {
			return err
		}
		enc.Fighters[i] = d
	}

	if o.compare {
		return compare(sim, enc, out, logger)
	}

	r, err := sim.SimulateWithOptions(enc, combat.SimulateOptions{Verbose: cfg.Engine.Verbose})
	if err != nil {
		return err
	}
	if o.asJSON {
		e := json.NewEncoder(out)
		e.SetIndent("", "  ")
		if err := e.Encode(r); err != nil {
			return err
		}
	} else {
		report(out, r)
	}
	if o.expect != "" {
		return combat.Verify(r, o.expect)
	}
	return nil
}

func report(out io.Writer, r *combat.Result) {
	for _, tl := range r.Trace {
		fmt.Fprintf(out, "%4d  %-40s  [%d hp | %d hp | %d st]\n",
			tl.Index, tl.Message, tl.ActorHealth, tl.TargetHealth, tl.ActorStamina)
	}
	w, l := r.Fighters[r.Winner], r.Fighters[r.Loser]
	fmt.Fprintf(out, "winner: %s (%d/%d hp) over %s (%d/%d hp) in %d turns\n",
		w.Name, w.Health, w.MaxHealth, l.Name, l.Health, l.MaxHealth, r.Turns)
	fmt.Fprintf(out, "formula: %s\nseed: %s\nhash: %s\n", r.Formula, r.Seed, r.Hash)
}

func compare(sim *combat.Simulator, enc combat.Encounter, out io.Writer, logger *zap.Logger) error {
	if enc.Seed == "" {
		// Every adapter must see the same seed.
		r, err := sim.Simulate(enc)
		if err != nil {
			return err
		}
		enc.Seed = r.Seed
	}
	for _, name := range formula.Names() {
		enc.Formula = name
		r, err := sim.Simulate(enc)
		if err != nil {
			return err
		}
		logger.Debug("compared formula", zap.String("formula", name), zap.String("hash", r.Hash))
		fmt.Fprintf(out, "%-8s winner=%s turns=%d hash=%s\n", name, r.Fighters[r.Winner].Name, r.Turns, r.Hash)
	}
	return nil
}
