package combat

import (
	"github.com/cory-johannsen/arena/internal/game/condition"
	"github.com/cory-johannsen/arena/internal/game/skill"
)

// takeTurn runs the pipeline for fighter i against the other fighter:
// upkeep, status precondition, pre-turn and pre-attack triggers, the chosen
// action and post-turn triggers.
func (f *fight) takeTurn(i int) {
	a, d := f.fighters[i], f.fighters[1-i]

	if !f.tickPoison(a) {
		return
	}
	f.fire(a, d, skill.PreTurn, 0, isRegeneration)
	if f.over {
		return
	}
	a.regain(StaminaRegen)
	f.drawWeapon(a)

	if blk := condition.Blocking(a.Conditions); blk != nil {
		f.emit(Step{Kind: StepSkip, Actor: i, Target: NoTarget, Status: blk.Def.ID, Skill: blk.Source})
		if a.Conditions.Consume(blk.Def.ID) {
			f.emit(Step{Kind: StepSkillExpire, Actor: i, Target: NoTarget, Status: blk.Def.ID, Skill: blk.Source})
		}
		f.tickCooldowns(a)
		return
	}

	f.fire(a, d, skill.PreTurn, 0, notRegeneration)
	if f.over {
		return
	}
	f.fire(a, d, skill.PreAttack, 0, anyEffect)
	if f.over {
		return
	}

	f.act(a, d)
	if f.over {
		return
	}

	f.fire(a, d, skill.PostTurn, 0, anyEffect)
	f.tickCooldowns(a)
}

// tickPoison deals every tick-damage condition's power times its stacks and
// consumes one turn of it.
//
// Postcondition: returns true iff the fight continues.
func (f *fight) tickPoison(a *Fighter) bool {
	for _, ac := range condition.TickDamage(a.Conditions) {
		id, source := ac.Def.ID, ac.Source
		s := Step{Kind: StepPoison, Actor: a.Index, Target: a.Index, Damage: ac.Power * ac.Stacks, Status: id, Skill: source}
		if !f.strike(s) {
			return false
		}
		if a.Conditions.Consume(id) {
			f.emit(Step{Kind: StepSkillExpire, Actor: a.Index, Target: NoTarget, Status: id, Skill: source})
		}
	}
	return true
}

// drawWeapon equips the next arsenal weapon when a is bare-handed.
func (f *fight) drawWeapon(a *Fighter) {
	if a.Weapon != nil || len(a.arsenal) == 0 {
		return
	}
	a.Weapon, a.arsenal = a.arsenal[0], a.arsenal[1:]
	f.resolveStats()
	f.emit(Step{Kind: StepEquip, Actor: a.Index, Target: NoTarget, Weapon: a.Weapon.ID})
}

func (f *fight) tickCooldowns(a *Fighter) {
	for i := range a.cooldowns {
		if a.cooldowns[i] > 0 {
			a.cooldowns[i]--
		}
	}
	if a.throwCooldown > 0 {
		a.throwCooldown--
	}
}
