package combat

import (
	"github.com/cory-johannsen/arena/internal/game/condition"
	"github.com/cory-johannsen/arena/internal/game/dice"
	"github.com/cory-johannsen/arena/internal/game/pet"
	"github.com/cory-johannsen/arena/internal/game/stats"
)

// petTable is the transient stat table the formula adapter sees for a pet.
func petTable(p *pet.Instance) stats.Table {
	return stats.Table{MaxHealth: p.MaxHealth}.
		With(stats.Agility, p.Agility).
		With(stats.Accuracy, p.Accuracy).
		With(stats.Damage, 1)
}

// assist gives owner's companion its chance to join the turn. The defender
// may counter the pet when it can pay CounterCost, as against a fighter; otherwise the pet rolls to hit and may proc its
// on-hit ability. Pet steps carry Pet=true with the owner as actor.
func (f *fight) assist(owner, d *Fighter) {
	p := owner.Pet
	if !p.Alive() || !d.Alive() {
		return
	}
	if !dice.Chance(f.src, p.AssistChance) {
		return
	}
	f.emit(Step{Kind: StepPetAssist, Actor: owner.Index, Target: d.Index, Pet: true, Status: p.Template.ID})

	pt := petTable(p)
	def := &d.Stats
	if d.Stamina >= CounterCost && dice.Chance(f.src, f.adapter.CounterProbability(&pt, def)) {
		d.spend(CounterCost)
		raw := f.adapter.BaseDamage(def, d.Weapon) * f.adapter.DamageVariation(f.src) * def.Get(stats.Damage) * CounterFactor
		dmg := max(1, f.adapter.Round(raw))
		p.TakeDamage(dmg)
		f.emit(Step{Kind: StepCounter, Actor: owner.Index, Target: d.Index, Pet: true, Weapon: d.weaponID(), Damage: dmg})
		if !p.Alive() {
			f.emit(Step{Kind: StepDeath, Actor: owner.Index, Target: NoTarget, Pet: true})
		}
		return
	}
	if !dice.Chance(f.src, f.adapter.HitProbability(&pt, def, nil)) {
		f.emit(Step{Kind: StepEvade, Actor: owner.Index, Target: d.Index, Pet: true})
		return
	}

	raw := p.Damage * f.adapter.DamageVariation(f.src) * def.Get(stats.DamageTaken)
	tmpl := p.Template
	proc := tmpl.OnHit != "" && dice.Chance(f.src, tmpl.OnHitChance)
	if proc {
		switch tmpl.OnHit {
		case pet.Bite:
			raw += float64(tmpl.OnHitPower)
		case pet.Maul:
			raw *= pet.MaulMultiplier
		}
	}
	dmg := max(1, f.adapter.Round(raw-def.Get(stats.Armor)*(1-p.Pierce)))
	if !f.strike(Step{Kind: StepHit, Actor: owner.Index, Target: d.Index, Pet: true, Damage: dmg}) {
		return
	}
	if !proc {
		return
	}
	switch tmpl.OnHit {
	case pet.Pounce:
		f.applyCondition(d, condition.Stunned, tmpl.OnHitDuration, 0, tmpl.ID)
		f.emit(Step{Kind: StepSkillActivate, Actor: owner.Index, Target: d.Index, Pet: true, Skill: string(tmpl.OnHit), Status: condition.Stunned})
	case pet.Bleed:
		f.applyCondition(d, condition.Poisoned, tmpl.OnHitDuration, tmpl.OnHitPower, tmpl.ID)
		f.emit(Step{Kind: StepSkillActivate, Actor: owner.Index, Target: d.Index, Pet: true, Skill: string(tmpl.OnHit), Status: condition.Poisoned})
	}
}
