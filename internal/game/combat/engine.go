// Package combat implements the deterministic one-on-one fight controller:
// initiative scheduling, the per-turn action pipeline, skill triggers,
// companion assists and the step trace.
package combat

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/arena/internal/game/condition"
	"github.com/cory-johannsen/arena/internal/game/dice"
	"github.com/cory-johannsen/arena/internal/game/formula"
	"github.com/cory-johannsen/arena/internal/game/skill"
	"github.com/cory-johannsen/arena/internal/game/stats"
	"github.com/cory-johannsen/arena/internal/scripting"
)

// DefaultTurnCap bounds an encounter when no cap is configured.
const DefaultTurnCap = 200

// Conditions resolves condition ids to definitions.
type Conditions interface {
	Condition(id string) (*condition.ConditionDef, bool)
}

// fight is the state of one encounter. The run loop is its only driver.
type fight struct {
	adapter  formula.Adapter
	src      dice.Source
	conds    Conditions
	scripts  *scripting.Manager
	logger   *zap.Logger
	turnCap  int
	fighters [2]*Fighter
	rec      Recorder

	turns     int
	over      bool
	winner    int
	inExtra   bool
	extraTurn bool
}

// snapshot is the restorable state at the start of a turn.
type snapshot struct {
	fighters  [2]*Fighter
	steps     int
	over      bool
	winner    int
	extraTurn bool
}

func (f *fight) snapshot() snapshot {
	return snapshot{
		fighters:  [2]*Fighter{f.fighters[0].clone(), f.fighters[1].clone()},
		steps:     f.rec.Len(),
		over:      f.over,
		winner:    f.winner,
		extraTurn: f.extraTurn,
	}
}

func (f *fight) restore(s snapshot) {
	f.fighters = s.fighters
	f.rec.Truncate(s.steps)
	f.over = s.over
	f.winner = s.winner
	f.extraTurn = s.extraTurn
}

// run drives rounds until a death or the turn cap.
//
// Postcondition: the trace contains exactly one StepEnd, as its last step.
func (f *fight) run() {
	f.resolveStats()
	for _, ft := range f.fighters {
		ft.Health = ft.Stats.MaxHealth
		ft.Stamina = ft.Stats.MaxStamina
	}
	for _, ft := range f.fighters {
		f.emit(Step{Kind: StepArrive, Actor: ft.Index, Target: NoTarget, Weapon: ft.weaponID()})
		if ft.Pet != nil {
			f.emit(Step{Kind: StepArrive, Actor: ft.Index, Target: NoTarget, Pet: true, Status: ft.Pet.Template.ID})
		}
	}

	for !f.over {
		order := Schedule(f.adapter, f.src, f.fighters)
		for _, i := range order {
			if f.over || f.turns >= f.turnCap {
				break
			}
			if !f.fighters[i].Alive() {
				continue
			}
			f.guardedTurn(i)
			if f.extraTurn && !f.over && f.turns < f.turnCap {
				f.extraTurn = false
				f.inExtra = true
				f.guardedTurn(i)
				f.inExtra = false
			}
			f.extraTurn = false
		}
		if !f.over && f.turns >= f.turnCap {
			f.overtime()
		}
	}
}

// guardedTurn runs one turn for fighter i. A panic inside the turn restores
// the turn-start state, records a StepError and lets the fight continue.
func (f *fight) guardedTurn(i int) {
	f.turns++
	snap := f.snapshot()
	defer func() {
		if r := recover(); r != nil {
			f.restore(snap)
			f.logger.Error("combat: turn fault recovered",
				zap.Int("turn", f.turns),
				zap.Int("actor", i),
				zap.Any("panic", r),
			)
			f.emit(Step{Kind: StepError, Actor: i, Target: NoTarget, Status: fmt.Sprint(r)})
		}
	}()
	f.takeTurn(i)
	if !f.over && f.fighters[i].Alive() {
		f.assist(f.fighters[i], f.fighters[1-i])
	}
}

// overtime ends a capped fight: higher health wins, a tie is settled by one draw.
func (f *fight) overtime() {
	a, b := f.fighters[0], f.fighters[1]
	winner := 0
	switch {
	case a.Health > b.Health:
	case b.Health > a.Health:
		winner = 1
	case f.src.Float64() >= 0.5:
		winner = 1
	}
	f.emit(Step{Kind: StepOvertime, Actor: winner, Target: 1 - winner})
	f.finish(winner)
}

// finish records the single End step.
func (f *fight) finish(winner int) {
	if f.over {
		return
	}
	f.over = true
	f.winner = winner
	f.emit(Step{Kind: StepEnd, Actor: winner, Target: 1 - winner})
}

// emit fills the resource snapshots of s and appends it.
func (f *fight) emit(s Step) {
	actor := f.fighters[s.Actor]
	s.ActorHealth = actor.Health
	s.ActorStamina = actor.Stamina
	if s.Pet && actor.Pet != nil {
		s.ActorHealth = actor.Pet.Health
	}
	if s.Target != NoTarget {
		target := f.fighters[s.Target]
		s.TargetHealth = target.Health
		if s.Kind == StepPetWound && target.Pet != nil {
			s.TargetHealth = target.Pet.Health
		}
	}
	f.rec.Append(s)
}

// resolveStats re-resolves both tables; it runs whenever equipment changes.
//
// Postcondition: health and stamina are clamped to the new maxima.
func (f *fight) resolveStats() {
	a, b := f.fighters[0], f.fighters[1]
	ia, ib := a.input(), b.input()
	a.Stats = stats.Resolve(ia, ib)
	b.Stats = stats.Resolve(ib, ia)
	for _, ft := range f.fighters {
		ft.Health = min(ft.Health, ft.Stats.MaxHealth)
		ft.Stamina = min(ft.Stamina, ft.Stats.MaxStamina)
	}
}

// strike applies s.Damage to the fighter at s.Target, records s and then
// resolves a lethal blow.
//
// Postcondition: returns true iff the fight continues.
func (f *fight) strike(s Step) bool {
	return f.wound(f.fighters[s.Target], s)
}

// wound is strike with an explicit victim, for steps such as a counter whose
// damage lands on the step's actor.
func (f *fight) wound(victim *Fighter, s Step) bool {
	victim.takeDamage(s.Damage)
	f.emit(s)
	if victim.Health == 0 {
		f.lethal(victim)
	}
	return !f.over
}

// lethal evaluates a revive skill once per fight before declaring death.
func (f *fight) lethal(t *Fighter) {
	if !t.revived {
		for idx, sk := range t.sheet.Skills {
			tr := sk.Trigger
			if tr == nil || tr.Effect != skill.EffectRevive || !t.canUse(idx) {
				continue
			}
			if !dice.Chance(f.src, tr.Chance) {
				continue
			}
			t.uses[idx]++
			t.revived = true
			t.Health = max(1, min(tr.Power, t.Stats.MaxHealth))
			f.emit(Step{Kind: StepSurvive, Actor: t.Index, Target: NoTarget, Skill: sk.ID})
			return
		}
	}
	f.emit(Step{Kind: StepDeath, Actor: t.Index, Target: NoTarget})
	f.finish(1 - t.Index)
}

// applyCondition applies condition id to t.
//
// Precondition: id must be defined in the catalog; an undefined id is an
// internal fault and panics.
func (f *fight) applyCondition(t *Fighter, id string, duration, power int, source string) {
	def, ok := f.conds.Condition(id)
	if !ok {
		panic(fmt.Sprintf("combat: condition %q is not defined", id))
	}
	if err := t.Conditions.Apply(def, 1, max(1, duration), power, source); err != nil {
		panic(err)
	}
}
