// Package formula provides the interchangeable probability and damage
// formulas consumed by the combat engine. An encounter selects exactly one
// Adapter; new formula work is a new Adapter, never a branch in the engine.
package formula

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/cory-johannsen/arena/internal/game/dice"
	"github.com/cory-johannsen/arena/internal/game/inventory"
	"github.com/cory-johannsen/arena/internal/game/stats"
)

// ErrUnknownFormula is returned by Lookup for an unregistered adapter name.
var ErrUnknownFormula = errors.New("unknown formula")

// Adapter is one complete set of combat formulas.
//
// Probability methods return values in [0, 1]. Methods that take a
// dice.Source consume exactly one draw; all others are pure.
type Adapter interface {
	Name() string
	// Initiative returns the fighter's initiative for one round; lower acts first.
	Initiative(t *stats.Table, src dice.Source) float64
	// HitProbability is the chance that a ranged or companion attack with w
	// connects. A nil w means bare hands.
	HitProbability(att, def *stats.Table, w *inventory.WeaponDef) float64
	// EvasionProbability is the chance def evades a melee attack from att.
	EvasionProbability(att, def *stats.Table) float64
	// BlockProbability is the chance def blocks a melee attack from att.
	BlockProbability(att, def *stats.Table) float64
	// CounterProbability is the chance def counters a melee attack from att.
	CounterProbability(att, def *stats.Table) float64
	// BaseDamage is the unvaried damage of att striking with w (nil = bare hands).
	BaseDamage(att *stats.Table, w *inventory.WeaponDef) float64
	DamageVariation(src dice.Source) float64
	CriticalProbability(att, def *stats.Table) float64
	// CriticalMultiplier is >= 1.
	CriticalMultiplier(att *stats.Table) float64
	// BlockReduction is the fraction of blocked damage absorbed, in [0, 1].
	BlockReduction(def *stats.Table) float64
	// Round converts a damage value to whole points.
	Round(x float64) int
}

var adapters = map[string]Adapter{
	ParityName: Parity{},
	ExactName:  Exact{},
}

// Lookup returns the adapter registered under name.
//
// Postcondition: returns an error wrapping ErrUnknownFormula iff name is not registered.
func Lookup(name string) (Adapter, error) {
	a, ok := adapters[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormula, name)
	}
	return a, nil
}

// Names returns every registered adapter name in sorted order.
func Names() []string {
	out := make([]string, 0, len(adapters))
	for n := range adapters {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

func weaponOrBare(w *inventory.WeaponDef) *inventory.WeaponDef {
	if w == nil {
		return &inventory.BareHands
	}
	return w
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
