package condition_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/arena/internal/game/condition"
)

func stunned() *condition.ConditionDef {
	return &condition.ConditionDef{ID: condition.Stunned, Name: "Stunned", DurationType: "turns", SkipsTurn: true, Priority: 1}
}

func trapped() *condition.ConditionDef {
	return &condition.ConditionDef{ID: condition.Trapped, Name: "Trapped", DurationType: "turns", SkipsTurn: true, Priority: 3}
}

func poisoned() *condition.ConditionDef {
	return &condition.ConditionDef{ID: condition.Poisoned, Name: "Poisoned", DurationType: "turns", MaxStacks: 3, TickDamage: true}
}

func TestActiveSet_Apply_Turns(t *testing.T) {
	s := condition.NewActiveSet()
	require.NoError(t, s.Apply(stunned(), 1, 2, 0, "hammer"))
	assert.True(t, s.Has(condition.Stunned))
	assert.Equal(t, 1, s.Stacks(condition.Stunned))
	assert.Equal(t, "hammer", s.Get(condition.Stunned).Source)
}

func TestActiveSet_Apply_NilDef(t *testing.T) {
	s := condition.NewActiveSet()
	assert.Error(t, s.Apply(nil, 1, 1, 0, ""))
}

func TestActiveSet_Apply_StacksCapped(t *testing.T) {
	s := condition.NewActiveSet()
	require.NoError(t, s.Apply(poisoned(), 2, 3, 4, "venom"))
	require.NoError(t, s.Apply(poisoned(), 2, 1, 2, "venom"))
	ac := s.Get(condition.Poisoned)
	assert.Equal(t, 3, ac.Stacks)
	assert.Equal(t, 3, ac.DurationRemaining, "shorter re-apply must not shorten duration")
	assert.Equal(t, 4, ac.Power, "weaker re-apply must not weaken power")
}

func TestActiveSet_Apply_PermanentStaysPermanent(t *testing.T) {
	s := condition.NewActiveSet()
	require.NoError(t, s.Apply(stunned(), 1, -1, 0, "x"))
	require.NoError(t, s.Apply(stunned(), 1, 3, 0, "x"))
	assert.Equal(t, -1, s.Get(condition.Stunned).DurationRemaining)
}

func TestActiveSet_Consume_ExpiresAtZero(t *testing.T) {
	s := condition.NewActiveSet()
	require.NoError(t, s.Apply(stunned(), 1, 2, 0, "hammer"))
	assert.False(t, s.Consume(condition.Stunned))
	assert.True(t, s.Has(condition.Stunned))
	assert.True(t, s.Consume(condition.Stunned))
	assert.False(t, s.Has(condition.Stunned))
	assert.False(t, s.Consume(condition.Stunned), "consuming an absent condition is a no-op")
}

func TestActiveSet_Remove_Absent_NoOp(t *testing.T) {
	s := condition.NewActiveSet()
	s.Remove("nope")
	assert.Equal(t, 0, s.Len())
}

func TestActiveSet_All_ApplicationOrder(t *testing.T) {
	s := condition.NewActiveSet()
	require.NoError(t, s.Apply(trapped(), 1, 1, 0, "net"))
	require.NoError(t, s.Apply(poisoned(), 1, 2, 3, "venom"))
	require.NoError(t, s.Apply(stunned(), 1, 1, 0, "hammer"))
	all := s.All()
	require.Len(t, all, 3)
	assert.Equal(t, condition.Trapped, all[0].Def.ID)
	assert.Equal(t, condition.Poisoned, all[1].Def.ID)
	assert.Equal(t, condition.Stunned, all[2].Def.ID)
}

func TestActiveSet_Clone_IsIndependent(t *testing.T) {
	s := condition.NewActiveSet()
	require.NoError(t, s.Apply(stunned(), 1, 2, 0, "hammer"))
	cp := s.Clone()
	s.Consume(condition.Stunned)
	s.Consume(condition.Stunned)
	assert.False(t, s.Has(condition.Stunned))
	require.True(t, cp.Has(condition.Stunned))
	assert.Equal(t, 2, cp.Get(condition.Stunned).DurationRemaining)
}

func TestActiveSet_ConsumeTerminates_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		d := rapid.IntRange(1, 20).Draw(rt, "duration")
		s := condition.NewActiveSet()
		require.NoError(rt, s.Apply(stunned(), 1, d, 0, "x"))
		for i := 1; i < d; i++ {
			assert.False(rt, s.Consume(condition.Stunned))
		}
		assert.True(rt, s.Consume(condition.Stunned))
		assert.Equal(rt, 0, s.Len())
	})
}
