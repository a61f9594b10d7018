package combat

import (
	"math"

	"go.uber.org/zap"

	"github.com/cory-johannsen/arena/internal/game/condition"
	"github.com/cory-johannsen/arena/internal/game/dice"
	"github.com/cory-johannsen/arena/internal/game/skill"
	"github.com/cory-johannsen/arena/internal/scripting"
)

type effectFilter func(skill.Effect) bool

func anyEffect(skill.Effect) bool         { return true }
func isRegeneration(e skill.Effect) bool  { return e == skill.EffectRegeneration }
func notRegeneration(e skill.Effect) bool { return e != skill.EffectRegeneration }

// fire evaluates owner's trigger skills bound to phase, in the owner's skill
// order. Each eligible trigger with budget left draws once against its
// chance; revive triggers are only evaluated on a lethal blow. dealt is the
// damage of the hit that caused an on_hit or on_damaged phase.
func (f *fight) fire(owner, other *Fighter, phase skill.Phase, dealt int, match effectFilter) {
	for idx, sk := range owner.sheet.Skills {
		t := sk.Trigger
		if sk.Kind != skill.KindTrigger || t.Phase != phase || t.Effect == skill.EffectRevive || !match(t.Effect) {
			continue
		}
		if !owner.Alive() || !owner.canUse(idx) {
			continue
		}
		if !dice.Chance(f.src, t.Chance) {
			continue
		}
		owner.uses[idx]++
		f.trigger(owner, other, sk, dealt)
		if f.over {
			return
		}
	}
}

// trigger applies the effect of one fired trigger skill.
func (f *fight) trigger(owner, other *Fighter, sk *skill.Def, dealt int) {
	t := sk.Trigger
	switch t.Effect {
	case skill.EffectStun:
		f.applyCondition(other, condition.Stunned, t.Duration, 0, sk.ID)
		f.emit(Step{Kind: StepSkillActivate, Actor: owner.Index, Target: other.Index, Skill: sk.ID, Status: condition.Stunned})
	case skill.EffectPoison:
		f.applyCondition(other, condition.Poisoned, t.Duration, t.Power, sk.ID)
		f.emit(Step{Kind: StepSkillActivate, Actor: owner.Index, Target: other.Index, Skill: sk.ID, Status: condition.Poisoned})
	case skill.EffectHeal:
		amount := t.Power
		if amount == 0 {
			amount = f.adapter.Round(t.Multiplier * float64(owner.Stats.MaxHealth))
		}
		healed := owner.heal(amount)
		f.emit(Step{Kind: StepHeal, Actor: owner.Index, Target: NoTarget, Skill: sk.ID, Damage: healed})
	case skill.EffectLifesteal:
		healed := owner.heal(f.adapter.Round(t.Multiplier * float64(dealt)))
		f.emit(Step{Kind: StepHeal, Actor: owner.Index, Target: other.Index, Skill: sk.ID, Damage: healed})
	case skill.EffectRegeneration:
		healed := owner.heal(t.Power)
		f.emit(Step{Kind: StepRegeneration, Actor: owner.Index, Target: NoTarget, Skill: sk.ID, Damage: healed})
	case skill.EffectExtraTurn:
		if !f.inExtra {
			f.extraTurn = true
		}
		f.emit(Step{Kind: StepSkillActivate, Actor: owner.Index, Target: NoTarget, Skill: sk.ID})
	case skill.EffectScript:
		f.script(owner, other, sk)
	}
}

func fighterInfo(ft *Fighter) scripting.FighterInfo {
	return scripting.FighterInfo{
		Name:       ft.Name,
		Health:     ft.Health,
		MaxHealth:  ft.Stats.MaxHealth,
		Stamina:    ft.Stamina,
		MaxStamina: ft.Stats.MaxStamina,
		Weapon:     ft.weaponID(),
		Conditions: ft.conditionIDs(),
	}
}

// script runs a Lua hook and applies its outcome in the order: activation,
// healing, status, damage. A failing hook records a StepError and the turn
// continues.
func (f *fight) script(owner, other *Fighter, sk *skill.Def) {
	if f.scripts == nil {
		f.scriptFault(owner, sk, "no script manager")
		return
	}
	out, err := f.scripts.Call(sk.Script, f.src, fighterInfo(owner), fighterInfo(other))
	if err != nil {
		f.logger.Error("combat: skill script failed", zap.String("skill", sk.ID), zap.Error(err))
		f.scriptFault(owner, sk, err.Error())
		return
	}
	if out.Status != "" {
		if _, ok := f.conds.Condition(out.Status); !ok {
			f.scriptFault(owner, sk, "unknown status "+out.Status)
			return
		}
	}
	f.emit(Step{Kind: StepSkillActivate, Actor: owner.Index, Target: other.Index, Skill: sk.ID})
	if out.Heal > 0 {
		healed := owner.heal(out.Heal)
		f.emit(Step{Kind: StepHeal, Actor: owner.Index, Target: NoTarget, Skill: sk.ID, Damage: healed})
	}
	if out.Status != "" {
		f.applyCondition(other, out.Status, out.Duration, out.Power, sk.ID)
		f.emit(Step{Kind: StepSkillActivate, Actor: owner.Index, Target: other.Index, Skill: sk.ID, Status: out.Status})
	}
	if out.Damage > 0 {
		f.strike(Step{Kind: StepHit, Actor: owner.Index, Target: other.Index, Skill: sk.ID, Damage: out.Damage})
	}
}

func (f *fight) scriptFault(owner *Fighter, sk *skill.Def, msg string) {
	f.emit(Step{Kind: StepError, Actor: owner.Index, Target: NoTarget, Skill: sk.ID, Status: msg})
}

// roundUp converts a fractional resource amount to whole points, never below 1
// for a positive input.
func roundUp(x float64) int {
	if x <= 0 {
		return 0
	}
	return max(1, int(math.Round(x)))
}
