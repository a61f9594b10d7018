package formula_test

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/arena/internal/game/formula"
	"github.com/cory-johannsen/arena/internal/game/inventory"
	"github.com/cory-johannsen/arena/internal/game/stats"
)

type fixedSrc struct{ v float64 }

func (f fixedSrc) Float64() float64 { return f.v }

type countingSrc struct{ n int }

func (c *countingSrc) Float64() float64 { c.n++; return 0.25 }

func table(strength, agility int, w *inventory.WeaponDef) stats.Table {
	return stats.Resolve(stats.Input{
		Attributes: stats.Attributes{Level: 1, Strength: strength, Agility: agility, Speed: 5, Endurance: 5},
		Weapon:     w,
	}, stats.Input{})
}

var sword = &inventory.WeaponDef{ID: "sword", Name: "Sword", Damage: 10, Accuracy: 0.05, Block: 0.1, Tempo: 1}

func TestLookup(t *testing.T) {
	for _, name := range formula.Names() {
		a, err := formula.Lookup(name)
		require.NoError(t, err)
		assert.Equal(t, name, a.Name())
	}
	_, err := formula.Lookup("approximate")
	assert.True(t, errors.Is(err, formula.ErrUnknownFormula))
	assert.Equal(t, []string{"exact", "parity"}, formula.Names())
}

func TestParity_BaseDamage(t *testing.T) {
	att := table(10, 5, sword)
	assert.InDelta(t, 15.0, formula.Parity{}.BaseDamage(&att, sword), 1e-9)
	assert.InDelta(t, 10.0, formula.Parity{}.BaseDamage(&att, nil), 1e-9, "bare hands damage 5 plus half strength")
}

func TestExact_BaseDamage(t *testing.T) {
	att := table(10, 5, sword)
	// 10 + 10*(0.2 + 10*0.05)
	assert.InDelta(t, 17.0, formula.Exact{}.BaseDamage(&att, sword), 1e-9)
}

func TestRounding(t *testing.T) {
	assert.Equal(t, 7, formula.Parity{}.Round(7.9))
	assert.Equal(t, 8, formula.Exact{}.Round(7.1))
	assert.Equal(t, 7, formula.Exact{}.Round(7.0))
}

func TestDamageVariation_Range(t *testing.T) {
	assert.InDelta(t, 0.8, formula.Parity{}.DamageVariation(fixedSrc{0}), 1e-9)
	assert.InDelta(t, 1.0, formula.Parity{}.DamageVariation(fixedSrc{0.5}), 1e-9)
	assert.InDelta(t, 0.9, formula.Exact{}.DamageVariation(fixedSrc{0}), 1e-9)
	assert.InDelta(t, 1.0, formula.Exact{}.DamageVariation(fixedSrc{0.5}), 1e-9)
}

func TestDrawingMethods_ConsumeOneDraw(t *testing.T) {
	for _, name := range formula.Names() {
		a, _ := formula.Lookup(name)
		tb := table(5, 5, nil)
		src := &countingSrc{}
		a.Initiative(&tb, src)
		assert.Equal(t, 1, src.n, name)
		a.DamageVariation(src)
		assert.Equal(t, 2, src.n, name)
	}
}

func TestInitiative_FasterIsLower(t *testing.T) {
	for _, name := range formula.Names() {
		a, _ := formula.Lookup(name)
		slow := stats.Resolve(stats.Input{Attributes: stats.Attributes{Level: 1, Strength: 5, Agility: 5, Speed: 2, Endurance: 5}}, stats.Input{})
		fast := stats.Resolve(stats.Input{Attributes: stats.Attributes{Level: 1, Strength: 5, Agility: 5, Speed: 20, Endurance: 5}}, stats.Input{})
		assert.Less(t, a.Initiative(&fast, fixedSrc{0.5}), a.Initiative(&slow, fixedSrc{0.5}), name)
	}
}

func TestAdapters_ProbabilitiesBounded_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		name := rapid.SampledFrom(formula.Names()).Draw(rt, "formula")
		a, _ := formula.Lookup(name)
		mk := func(label string) stats.Table {
			tb := table(rapid.IntRange(1, 100).Draw(rt, label+"str"), rapid.IntRange(1, 100).Draw(rt, label+"agi"), nil)
			for _, k := range []stats.Key{stats.Accuracy, stats.Evasion, stats.Block, stats.Counter, stats.CriticalChance} {
				tb = tb.With(k, rapid.Float64Range(0, 1).Draw(rt, label+k.String()))
			}
			return tb.With(stats.CriticalDamage, rapid.Float64Range(-3, 3).Draw(rt, label+"cd"))
		}
		att, def := mk("a"), mk("d")
		for _, p := range []float64{
			a.HitProbability(&att, &def, sword),
			a.EvasionProbability(&att, &def),
			a.BlockProbability(&att, &def),
			a.CounterProbability(&att, &def),
			a.CriticalProbability(&att, &def),
			a.BlockReduction(&def),
		} {
			assert.False(rt, math.IsNaN(p))
			assert.GreaterOrEqual(rt, p, 0.0)
			assert.LessOrEqual(rt, p, 1.0)
		}
		assert.GreaterOrEqual(rt, a.CriticalMultiplier(&att), 1.0)
		assert.Greater(rt, a.BaseDamage(&att, nil), 0.0)
	})
}
