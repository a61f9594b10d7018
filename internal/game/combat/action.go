package combat

import (
	"github.com/cory-johannsen/arena/internal/game/condition"
	"github.com/cory-johannsen/arena/internal/game/dice"
	"github.com/cory-johannsen/arena/internal/game/inventory"
	"github.com/cory-johannsen/arena/internal/game/skill"
	"github.com/cory-johannsen/arena/internal/game/stats"
)

// Pipeline tuning.
const (
	// AttackCost is the stamina spent on an attack or a throw.
	AttackCost = 10
	// CounterCost is the stamina a defender spends to counter.
	CounterCost = 8
	// StaminaRegen is regained at the start of every turn.
	StaminaRegen = 5
	// RestFraction of max stamina is regained by resting.
	RestFraction = 0.3
	// ThrowChance gates a throw once it is otherwise allowed.
	ThrowChance = 0.25
	// ThrowCooldown is the number of own turns between throws.
	ThrowCooldown = 3
	// CounterFactor scales counter damage.
	CounterFactor = 0.5
	// ComboDecay multiplies damage on each successive combo link.
	ComboDecay = 0.8
	// MaxComboLinks caps follow-up hits after one attack.
	MaxComboLinks = 3
)

// attackOpts parameterizes an attack started by a special.
type attackOpts struct {
	skill      string
	multiplier float64
	stun       int
}

// act chooses and performs the turn's action: rest when stamina cannot pay
// for an attack, else the first special that passes its roll, else a throw,
// else a normal attack.
func (f *fight) act(a, d *Fighter) {
	if a.Stamina < AttackCost {
		regained := a.regain(roundUp(RestFraction * float64(a.Stats.MaxStamina)))
		f.emit(Step{Kind: StepRest, Actor: a.Index, Target: NoTarget, Damage: regained})
		return
	}
	if idx := f.chooseSpecial(a, d); idx >= 0 {
		f.special(a, d, idx)
		return
	}
	if f.chooseThrow(a) {
		f.throw(a, d)
		return
	}
	f.attack(a, d, attackOpts{multiplier: 1})
}

// chooseSpecial returns the index of the first eligible special skill whose
// chance roll passes, or -1. Ineligible specials consume no draw.
func (f *fight) chooseSpecial(a, d *Fighter) int {
	for idx, sk := range a.sheet.Skills {
		if sk.Kind != skill.KindSpecial {
			continue
		}
		t := sk.Trigger
		if !a.canUse(idx) || a.cooldowns[idx] > 0 || a.Stamina < t.Cost || !specialApplies(t.Effect, a, d) {
			continue
		}
		if dice.Chance(f.src, t.Chance) {
			return idx
		}
	}
	return -1
}

func specialApplies(e skill.Effect, a, d *Fighter) bool {
	switch e {
	case skill.EffectWeaponSwap:
		return d.Weapon != nil
	case skill.EffectNet:
		return !d.Conditions.Has(condition.Trapped)
	case skill.EffectHypnosis:
		return !d.Conditions.Has(condition.Hypnotized)
	case skill.EffectHammer:
		return a.Stamina >= AttackCost
	}
	return true
}

// special performs special skill idx.
func (f *fight) special(a, d *Fighter, idx int) {
	sk := a.sheet.Skills[idx]
	t := sk.Trigger
	a.spend(t.Cost)
	a.uses[idx]++
	a.cooldowns[idx] = t.Cooldown
	f.emit(Step{Kind: StepSkillActivate, Actor: a.Index, Target: d.Index, Skill: sk.ID})

	switch t.Effect {
	case skill.EffectHammer:
		f.attack(a, d, attackOpts{skill: sk.ID, multiplier: max(t.Multiplier, 1), stun: t.Duration})
	case skill.EffectNet:
		f.applyCondition(d, condition.Trapped, t.Duration, 0, sk.ID)
		f.emit(Step{Kind: StepTrap, Actor: a.Index, Target: d.Index, Skill: sk.ID, Status: condition.Trapped})
	case skill.EffectHypnosis:
		f.applyCondition(d, condition.Hypnotized, t.Duration, 0, sk.ID)
		f.emit(Step{Kind: StepHypnotize, Actor: a.Index, Target: d.Index, Skill: sk.ID, Status: condition.Hypnotized})
	case skill.EffectWeaponSwap:
		stolen := d.Weapon
		d.Weapon = nil
		if a.Weapon != nil {
			a.arsenal = append(a.arsenal, a.Weapon)
		}
		a.Weapon = stolen
		f.resolveStats()
		f.emit(Step{Kind: StepSteal, Actor: a.Index, Target: d.Index, Skill: sk.ID, Weapon: stolen.ID})
	case skill.EffectBomb:
		f.bomb(a, d, sk)
	}
}

// bomb deals its power, varied once, to the target's companion and then to
// the target. Armor does not apply.
func (f *fight) bomb(a, d *Fighter, sk *skill.Def) {
	raw := float64(sk.Trigger.Power) * f.adapter.DamageVariation(f.src) * d.Stats.Get(stats.DamageTaken)
	dmg := max(1, f.adapter.Round(raw))
	if d.Pet.Alive() {
		d.Pet.TakeDamage(dmg)
		f.emit(Step{Kind: StepPetWound, Actor: a.Index, Target: d.Index, Skill: sk.ID, Damage: dmg})
		if !d.Pet.Alive() {
			f.emit(Step{Kind: StepDeath, Actor: d.Index, Target: NoTarget, Pet: true})
		}
	}
	f.strike(Step{Kind: StepHit, Actor: a.Index, Target: d.Index, Skill: sk.ID, Damage: dmg})
}

// chooseThrow reports whether a throws this turn. The roll is only drawn
// once a throw is allowed.
func (f *fight) chooseThrow(a *Fighter) bool {
	if a.Weapon == nil || !a.Weapon.Throwable() || a.throwCooldown > 0 {
		return false
	}
	return dice.Chance(f.src, ThrowChance)
}

// throw hurls the equipped weapon. There is no counter; a block roll comes
// first, then the accuracy roll. The weapon is lost either way and the
// blow is resolved with the thrower's stats from before the loss.
func (f *fight) throw(a, d *Fighter) {
	w := a.Weapon
	att := a.Stats
	a.spend(AttackCost)
	a.Weapon = nil
	a.throwCooldown = ThrowCooldown
	f.resolveStats()
	f.emit(Step{Kind: StepThrow, Actor: a.Index, Target: d.Index, Weapon: w.ID})

	def := &d.Stats
	if dice.Chance(f.src, f.adapter.BlockProbability(&att, def)) {
		raw := f.rawDamage(&att, def, w, 1)
		blocked := max(0, f.adapter.Round(raw*(1-f.adapter.BlockReduction(def))))
		if f.strike(Step{Kind: StepBlock, Actor: a.Index, Target: d.Index, Weapon: w.ID, Damage: blocked}) && blocked > 0 {
			f.fire(d, a, skill.OnDamaged, blocked, anyEffect)
		}
		return
	}
	if !dice.Chance(f.src, f.adapter.HitProbability(&att, def, w)) {
		f.emit(Step{Kind: StepEvade, Actor: a.Index, Target: d.Index, Weapon: w.ID})
		return
	}
	dmg, crit := f.finalDamage(&att, def, w, 1)
	if !f.strike(Step{Kind: StepHit, Actor: a.Index, Target: d.Index, Weapon: w.ID, Damage: dmg, Critical: crit}) {
		return
	}
	f.fire(a, d, skill.OnHit, dmg, anyEffect)
	if !f.over {
		f.fire(d, a, skill.OnDamaged, dmg, anyEffect)
	}
}

// attack runs one melee exchange: Move, AttemptHit, then counter, block and
// evasion in that priority, then the hit with its secondary effects.
func (f *fight) attack(a, d *Fighter, o attackOpts) {
	a.spend(AttackCost)
	f.emit(Step{Kind: StepMove, Actor: a.Index, Target: d.Index})
	f.emit(Step{Kind: StepAttemptHit, Actor: a.Index, Target: d.Index, Skill: o.skill, Weapon: a.weaponID()})

	att, def := &a.Stats, &d.Stats
	if d.Stamina >= CounterCost && dice.Chance(f.src, f.adapter.CounterProbability(att, def)) {
		d.spend(CounterCost)
		raw := f.adapter.BaseDamage(def, d.Weapon) * f.adapter.DamageVariation(f.src) *
			def.Get(stats.Damage) * att.Get(stats.DamageTaken) * CounterFactor
		dmg := max(1, f.adapter.Round(raw)-f.adapter.Round(att.Get(stats.Armor)))
		if f.wound(a, Step{Kind: StepCounter, Actor: a.Index, Target: d.Index, Weapon: d.weaponID(), Damage: dmg}) {
			f.emit(Step{Kind: StepMoveBack, Actor: a.Index, Target: d.Index})
		}
		return
	}
	if dice.Chance(f.src, f.adapter.BlockProbability(att, def)) {
		raw := f.rawDamage(att, def, a.Weapon, o.multiplier)
		blocked := max(0, f.adapter.Round(raw*(1-f.adapter.BlockReduction(def))))
		if !f.strike(Step{Kind: StepBlock, Actor: a.Index, Target: d.Index, Skill: o.skill, Weapon: a.weaponID(), Damage: blocked}) {
			return
		}
		if blocked > 0 {
			f.fire(d, a, skill.OnDamaged, blocked, anyEffect)
			if f.over {
				return
			}
		}
		f.emit(Step{Kind: StepMoveBack, Actor: a.Index, Target: d.Index})
		return
	}
	if dice.Chance(f.src, f.adapter.EvasionProbability(att, def)) {
		f.emit(Step{Kind: StepEvade, Actor: a.Index, Target: d.Index, Skill: o.skill, Weapon: a.weaponID()})
		f.emit(Step{Kind: StepMoveBack, Actor: a.Index, Target: d.Index})
		return
	}

	dmg, crit := f.finalDamage(att, def, a.Weapon, o.multiplier)
	if !f.strike(Step{Kind: StepHit, Actor: a.Index, Target: d.Index, Skill: o.skill, Weapon: a.weaponID(), Damage: dmg, Critical: crit}) {
		return
	}
	if o.stun > 0 {
		f.applyCondition(d, condition.Stunned, o.stun, 0, o.skill)
		f.emit(Step{Kind: StepSkillActivate, Actor: a.Index, Target: d.Index, Skill: o.skill, Status: condition.Stunned})
	}
	f.fire(a, d, skill.OnHit, dmg, anyEffect)
	if f.over {
		return
	}
	f.fire(d, a, skill.OnDamaged, dmg, anyEffect)
	if f.over {
		return
	}
	if d.Weapon != nil && dice.Chance(f.src, a.Stats.Get(stats.Disarm)) {
		lost := d.Weapon
		d.Weapon = nil
		f.resolveStats()
		f.emit(Step{Kind: StepDisarm, Actor: a.Index, Target: d.Index, Weapon: lost.ID})
	}
	f.combo(a, d)
	if !f.over {
		f.emit(Step{Kind: StepMoveBack, Actor: a.Index, Target: d.Index})
	}
}

// combo chains up to MaxComboLinks follow-up hits, each gated by the
// attacker's combo chance and weakened by ComboDecay.
func (f *fight) combo(a, d *Fighter) {
	decay := 1.0
	for link := 0; link < MaxComboLinks; link++ {
		if !dice.Chance(f.src, a.Stats.Get(stats.Combo)) {
			return
		}
		decay *= ComboDecay
		dmg, crit := f.finalDamage(&a.Stats, &d.Stats, a.Weapon, decay)
		if !f.strike(Step{Kind: StepHit, Actor: a.Index, Target: d.Index, Weapon: a.weaponID(), Damage: dmg, Critical: crit, Status: "combo"}) {
			return
		}
	}
}

// rawDamage is the unrounded damage of one blow before armor: base damage
// times one variation draw times both damage multipliers and mult.
func (f *fight) rawDamage(att, def *stats.Table, w *inventory.WeaponDef, mult float64) float64 {
	return f.adapter.BaseDamage(att, w) * f.adapter.DamageVariation(f.src) *
		att.Get(stats.Damage) * def.Get(stats.DamageTaken) * mult
}

// finalDamage rounds rawDamage, subtracts armor with a floor of 1 and then
// rolls for a critical hit.
//
// Postcondition: the returned damage is >= 1.
func (f *fight) finalDamage(att, def *stats.Table, w *inventory.WeaponDef, mult float64) (int, bool) {
	dmg := max(1, f.adapter.Round(f.rawDamage(att, def, w, mult))-f.adapter.Round(def.Get(stats.Armor)))
	crit := dice.Chance(f.src, f.adapter.CriticalProbability(att, def))
	if crit {
		dmg = max(1, f.adapter.Round(float64(dmg)*f.adapter.CriticalMultiplier(att)))
	}
	return dmg, crit
}
