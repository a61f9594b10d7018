package formula

import (
	"math"

	"github.com/cory-johannsen/arena/internal/game/dice"
	"github.com/cory-johannsen/arena/internal/game/inventory"
	"github.com/cory-johannsen/arena/internal/game/stats"
)

// ParityName is the selector for the Parity adapter.
const ParityName = "parity"

// Parity is the approximate formula set: damage is half of strength plus the
// weapon's base damage, results are floored and variation spans 0.8 to 1.2.
type Parity struct{}

func (Parity) Name() string { return ParityName }

// Initiative is tempo scaled by the inverse of speed and half agility, plus
// the initiative bias and one draw of jitter in [0, 1).
func (Parity) Initiative(t *stats.Table, src dice.Source) float64 {
	pace := t.Get(stats.Speed) + t.Get(stats.Agility)/2 + 1
	return t.Get(stats.Tempo)*100/pace + t.Get(stats.Initiative) + src.Float64()
}

func (Parity) HitProbability(att, def *stats.Table, w *inventory.WeaponDef) float64 {
	w = weaponOrBare(w)
	p := 0.75 + att.Get(stats.Accuracy) + w.Accuracy/2 +
		0.01*(att.Get(stats.Agility)-def.Get(stats.Agility)) - def.Get(stats.Evasion)/2
	return clamp(p, 0.05, 0.95)
}

func (Parity) EvasionProbability(att, def *stats.Table) float64 {
	p := def.Get(stats.Evasion) + 0.015*(def.Get(stats.Agility)-att.Get(stats.Agility)) -
		att.Get(stats.Accuracy)/2
	return clamp(p, 0, 0.75)
}

func (Parity) BlockProbability(att, def *stats.Table) float64 {
	return clamp(def.Get(stats.Block)-att.Get(stats.Accuracy)/4, 0, 0.75)
}

func (Parity) CounterProbability(att, def *stats.Table) float64 {
	p := def.Get(stats.Counter) + 0.005*(def.Get(stats.Agility)-att.Get(stats.Agility))
	return clamp(p, 0, 0.5)
}

func (Parity) BaseDamage(att *stats.Table, w *inventory.WeaponDef) float64 {
	return 0.5*att.Get(stats.Strength) + weaponOrBare(w).Damage
}

func (Parity) DamageVariation(src dice.Source) float64 {
	return dice.Between(src, 0.8, 1.2)
}

func (Parity) CriticalProbability(att, def *stats.Table) float64 {
	p := att.Get(stats.CriticalChance) + 0.002*(att.Get(stats.Agility)-def.Get(stats.Agility))
	return clamp(p, 0, 0.5)
}

func (Parity) CriticalMultiplier(att *stats.Table) float64 {
	return math.Max(1, 2+att.Get(stats.CriticalDamage))
}

func (Parity) BlockReduction(def *stats.Table) float64 {
	return clamp(0.6+def.Get(stats.Block), 0, 1)
}

func (Parity) Round(x float64) int { return int(math.Floor(x)) }
