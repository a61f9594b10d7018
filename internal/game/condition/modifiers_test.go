package condition_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/arena/internal/game/condition"
)

func TestBlocking_NoConditions_Nil(t *testing.T) {
	s := condition.NewActiveSet()
	assert.Nil(t, condition.Blocking(s))
	assert.True(t, condition.CanAct(s))
}

func TestBlocking_LowestPriorityWins(t *testing.T) {
	s := condition.NewActiveSet()
	require.NoError(t, s.Apply(trapped(), 1, 1, 0, "net"))
	require.NoError(t, s.Apply(stunned(), 1, 1, 0, "hammer"))
	got := condition.Blocking(s)
	require.NotNil(t, got)
	assert.Equal(t, condition.Stunned, got.Def.ID)
	assert.False(t, condition.CanAct(s))
}

func TestBlocking_IgnoresNonSkipping(t *testing.T) {
	s := condition.NewActiveSet()
	require.NoError(t, s.Apply(poisoned(), 1, 3, 2, "venom"))
	assert.Nil(t, condition.Blocking(s))
}

func TestTickDamage_OnlyPoweredTicking(t *testing.T) {
	s := condition.NewActiveSet()
	require.NoError(t, s.Apply(stunned(), 1, 1, 0, "hammer"))
	require.NoError(t, s.Apply(poisoned(), 1, 3, 2, "venom"))
	ticks := condition.TickDamage(s)
	require.Len(t, ticks, 1)
	assert.Equal(t, 2, ticks[0].Power)
}
