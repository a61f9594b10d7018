package combat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/cory-johannsen/arena/internal/content"
	"github.com/cory-johannsen/arena/internal/game/character"
	"github.com/cory-johannsen/arena/internal/game/condition"
	"github.com/cory-johannsen/arena/internal/game/formula"
	"github.com/cory-johannsen/arena/internal/game/inventory"
	"github.com/cory-johannsen/arena/internal/game/skill"
	"github.com/cory-johannsen/arena/internal/game/stats"
)

// fixedSource returns the same value on every draw.
type fixedSource struct {
	v     float64
	draws int
}

func (s *fixedSource) Float64() float64 {
	s.draws++
	return s.v
}

// brokenAdapter panics whenever damage is computed.
type brokenAdapter struct{ formula.Parity }

func (brokenAdapter) BaseDamage(*stats.Table, *inventory.WeaponDef) float64 {
	panic("damage table corrupted")
}

func descriptor(name string, speed int) character.Descriptor {
	return character.Descriptor{Name: name, Level: 1, Strength: 6, Agility: 1, Speed: speed, Endurance: 5}
}

func sheetOf(t *testing.T, cat *content.Catalog, desc character.Descriptor, extra ...*skill.Def) *character.Sheet {
	t.Helper()
	s, err := character.Build(desc, cat)
	require.NoError(t, err)
	for _, sk := range extra {
		require.NoError(t, sk.Validate())
		s.Skills = append(s.Skills, sk)
	}
	return s
}

func newTestFight(t *testing.T, adapter formula.Adapter, src *fixedSource, logger *zap.Logger, a, b *character.Sheet) *fight {
	t.Helper()
	cat, err := content.Default()
	require.NoError(t, err)
	f := &fight{
		adapter:  adapter,
		src:      src,
		conds:    cat,
		logger:   logger,
		turnCap:  DefaultTurnCap,
		fighters: [2]*Fighter{newFighter(0, a), newFighter(1, b)},
	}
	return f
}

func stepsOf(steps []Step, kind StepKind) []Step {
	var out []Step
	for _, s := range steps {
		if s.Kind == kind {
			out = append(out, s)
		}
	}
	return out
}

func testHammer() *skill.Def {
	return &skill.Def{
		ID:   "test_hammer",
		Name: "Test Hammer",
		Kind: skill.KindSpecial,
		Trigger: &skill.Trigger{
			Chance: 1, Uses: 1, Effect: skill.EffectHammer,
			Multiplier: 2, Duration: 1, Cost: 20,
		},
	}
}

func TestHammer_DoublesDamageAndStuns(t *testing.T) {
	cat, err := content.Default()
	require.NoError(t, err)
	a := sheetOf(t, cat, descriptor("Ajax", 10), testHammer())
	b := sheetOf(t, cat, descriptor("Brutus", 1))
	f := newTestFight(t, formula.Parity{}, &fixedSource{v: 0.5}, zap.NewNop(), a, b)
	f.run()

	steps := f.rec.Steps()
	hits := stepsOf(steps, StepHit)
	require.NotEmpty(t, hits)
	first := hits[0]
	assert.Equal(t, 0, first.Actor)
	assert.Equal(t, "test_hammer", first.Skill)

	p := formula.Parity{}
	att := f.fighters[0].Stats
	want := p.Round(p.BaseDamage(&att, nil) * p.DamageVariation(&fixedSource{v: 0.5}) * 2)
	assert.Equal(t, want, first.Damage)
	assert.Equal(t, 16, first.Damage)

	var stunned, skipped bool
	for _, s := range steps {
		if s.Kind == StepSkillActivate && s.Skill == "test_hammer" && s.Status == condition.Stunned {
			stunned = true
		}
		if s.Kind == StepSkip && s.Actor == 1 && s.Status == condition.Stunned {
			skipped = true
			break
		}
	}
	assert.True(t, stunned, "defender should be stunned")
	assert.True(t, skipped, "stunned defender should lose its next turn")
}

func TestArmor_ReducesIncomingDamage(t *testing.T) {
	cat, err := content.Default()
	require.NoError(t, err)
	strong := descriptor("Ajax", 10)
	strong.Skills = []string{"herculeanStrength"}
	plain := descriptor("Brutus", 1)
	armored := plain
	armored.Skills = []string{"armor"}

	firstHit := func(def character.Descriptor) int {
		f := newTestFight(t, formula.Parity{}, &fixedSource{v: 0.5}, zap.NewNop(),
			sheetOf(t, cat, strong), sheetOf(t, cat, def))
		f.run()
		hits := stepsOf(f.rec.Steps(), StepHit)
		require.NotEmpty(t, hits)
		require.Equal(t, 0, hits[0].Actor)
		return hits[0].Damage
	}
	unarmored := firstHit(plain)
	reduced := firstHit(armored)
	assert.Equal(t, 11, unarmored)
	assert.Equal(t, 8, reduced)
	assert.Less(t, reduced, unarmored)
}

func TestGuardedTurn_RecoversFromPanics(t *testing.T) {
	cat, err := content.Default()
	require.NoError(t, err)
	core, logs := observer.New(zapcore.ErrorLevel)
	f := newTestFight(t, brokenAdapter{}, &fixedSource{v: 0.5}, zap.New(core),
		sheetOf(t, cat, descriptor("Ajax", 10)), sheetOf(t, cat, descriptor("Brutus", 1)))
	f.turnCap = 6
	f.run()

	steps := f.rec.Steps()
	errs := stepsOf(steps, StepError)
	assert.Len(t, errs, 6)
	for _, s := range errs {
		assert.Equal(t, "damage table corrupted", s.Status)
	}
	require.Len(t, stepsOf(steps, StepEnd), 1)
	assert.Equal(t, StepEnd, steps[len(steps)-1].Kind)
	assert.Len(t, stepsOf(steps, StepOvertime), 1)
	assert.Equal(t, 6, logs.FilterMessage("combat: turn fault recovered").Len())
	for _, ft := range f.fighters {
		assert.Equal(t, ft.Stats.MaxHealth, ft.Health, "faulted turns must not leak state")
		assert.Equal(t, ft.Stats.MaxStamina, ft.Stamina)
	}
}

func TestSchedule_TieBreaksWithOneDraw(t *testing.T) {
	cat, err := content.Default()
	require.NoError(t, err)
	mk := func() [2]*Fighter {
		fs := [2]*Fighter{
			newFighter(0, sheetOf(t, cat, descriptor("Ajax", 3))),
			newFighter(1, sheetOf(t, cat, descriptor("Brutus", 3))),
		}
		for _, ft := range fs {
			ft.Stats = stats.Base(ft.input())
			ft.Health = ft.Stats.MaxHealth
		}
		return fs
	}

	low := &fixedSource{v: 0.25}
	assert.Equal(t, [2]int{0, 1}, Schedule(formula.Parity{}, low, mk()))
	assert.Equal(t, 3, low.draws)

	high := &fixedSource{v: 0.75}
	assert.Equal(t, [2]int{1, 0}, Schedule(formula.Parity{}, high, mk()))
}

func TestSchedule_HeldFighterActsLast(t *testing.T) {
	cat, err := content.Default()
	require.NoError(t, err)
	fs := [2]*Fighter{
		newFighter(0, sheetOf(t, cat, descriptor("Ajax", 10))),
		newFighter(1, sheetOf(t, cat, descriptor("Brutus", 1))),
	}
	for _, ft := range fs {
		ft.Stats = stats.Base(ft.input())
		ft.Health = ft.Stats.MaxHealth
	}
	stun, ok := cat.Condition(condition.Stunned)
	require.True(t, ok)
	require.NoError(t, fs[0].Conditions.Apply(stun, 1, 1, 0, "test"))

	src := &fixedSource{v: 0.5}
	assert.Equal(t, [2]int{1, 0}, Schedule(formula.Parity{}, src, fs))
	assert.Equal(t, 2, src.draws, "both initiatives are drawn even when one fighter is held")
}

func TestOvertime_HigherHealthWins(t *testing.T) {
	cat, err := content.Default()
	require.NoError(t, err)
	f := newTestFight(t, formula.Parity{}, &fixedSource{v: 0.9}, zap.NewNop(),
		sheetOf(t, cat, descriptor("Ajax", 3)), sheetOf(t, cat, descriptor("Brutus", 3)))
	f.resolveStats()
	f.fighters[0].Health = 10
	f.fighters[1].Health = 20
	f.overtime()
	assert.True(t, f.over)
	assert.Equal(t, 1, f.winner)
	steps := f.rec.Steps()
	require.Len(t, steps, 2)
	assert.Equal(t, StepOvertime, steps[0].Kind)
	assert.Equal(t, StepEnd, steps[1].Kind)
}

func TestLethal_ReviveFiresOnce(t *testing.T) {
	cat, err := content.Default()
	require.NoError(t, err)
	tough := descriptor("Brutus", 1)
	tough.Skills = []string{"survival"}
	f := newTestFight(t, formula.Parity{}, &fixedSource{v: 0}, zap.NewNop(),
		sheetOf(t, cat, descriptor("Ajax", 3)), sheetOf(t, cat, tough))
	f.resolveStats()
	d := f.fighters[1]
	d.Health = 5

	assert.True(t, f.strike(Step{Kind: StepHit, Actor: 0, Target: 1, Damage: 50}))
	assert.Positive(t, d.Health)
	assert.Len(t, stepsOf(f.rec.Steps(), StepSurvive), 1)

	assert.False(t, f.strike(Step{Kind: StepHit, Actor: 0, Target: 1, Damage: 500}))
	assert.Equal(t, 0, d.Health)
	assert.Equal(t, 0, f.winner)
	assert.Len(t, stepsOf(f.rec.Steps(), StepDeath), 1)
}
