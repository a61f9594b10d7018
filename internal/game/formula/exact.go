package formula

import (
	"math"

	"github.com/cory-johannsen/arena/internal/game/dice"
	"github.com/cory-johannsen/arena/internal/game/inventory"
	"github.com/cory-johannsen/arena/internal/game/stats"
)

// ExactName is the selector for the Exact adapter.
const ExactName = "exact"

// Exact is the reference-matching formula set: damage is
// base + strength*(0.2 + base*0.05), results are rounded up and variation
// spans 0.9 to 1.1. Defensive chances are driven by the agility ratio of the
// two fighters rather than their difference.
type Exact struct{}

func (Exact) Name() string { return ExactName }

// agilityRatio is def's share of the combined agility, in (0, 1).
func agilityRatio(att, def *stats.Table) float64 {
	a, d := att.Get(stats.Agility), def.Get(stats.Agility)
	return (d + 1) / (a + d + 2)
}

// Initiative is tempo times the inverse speed blend, plus the initiative
// bias and one draw of jitter in [0, 2).
func (Exact) Initiative(t *stats.Table, src dice.Source) float64 {
	pace := 0.7*t.Get(stats.Speed) + 0.3*t.Get(stats.Agility) + 1
	return t.Get(stats.Tempo)*120/pace + t.Get(stats.Initiative) + dice.Between(src, 0, 2)
}

func (Exact) HitProbability(att, def *stats.Table, w *inventory.WeaponDef) float64 {
	w = weaponOrBare(w)
	p := 0.8 + att.Get(stats.Accuracy) + w.Accuracy/2 -
		def.Get(stats.Evasion)*agilityRatio(att, def)*1.5
	return clamp(p, 0.05, 0.95)
}

func (Exact) EvasionProbability(att, def *stats.Table) float64 {
	p := def.Get(stats.Evasion) + (agilityRatio(att, def)-0.5)*0.4 - att.Get(stats.Accuracy)/2
	return clamp(p, 0, 0.8)
}

func (Exact) BlockProbability(att, def *stats.Table) float64 {
	p := def.Get(stats.Block) * (1 + (agilityRatio(att, def)-0.5)/2)
	return clamp(p-att.Get(stats.Accuracy)/4, 0, 0.8)
}

func (Exact) CounterProbability(att, def *stats.Table) float64 {
	p := def.Get(stats.Counter) * 2 * agilityRatio(att, def)
	return clamp(p, 0, 0.5)
}

func (Exact) BaseDamage(att *stats.Table, w *inventory.WeaponDef) float64 {
	base := weaponOrBare(w).Damage
	return base + att.Get(stats.Strength)*(0.2+base*0.05)
}

func (Exact) DamageVariation(src dice.Source) float64 {
	return dice.Between(src, 0.9, 1.1)
}

func (Exact) CriticalProbability(att, def *stats.Table) float64 {
	return clamp(att.Get(stats.CriticalChance)*(0.5+(1-agilityRatio(att, def))), 0, 0.5)
}

func (Exact) CriticalMultiplier(att *stats.Table) float64 {
	return math.Max(1, 1.5+att.Get(stats.CriticalDamage))
}

func (Exact) BlockReduction(def *stats.Table) float64 {
	return clamp(0.5+0.75*def.Get(stats.Block)+0.005*def.Get(stats.Strength), 0, 1)
}

func (Exact) Round(x float64) int { return int(math.Ceil(x)) }
