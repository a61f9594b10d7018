package condition_test

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/arena/internal/game/condition"
)

func TestRegistry_Get_Found(t *testing.T) {
	reg := condition.NewRegistry()
	def := stunned()
	reg.Register(def)
	got, ok := reg.Get(condition.Stunned)
	require.True(t, ok)
	assert.Equal(t, def, got)
}

func TestRegistry_Get_NotFound(t *testing.T) {
	reg := condition.NewRegistry()
	_, ok := reg.Get("nonexistent")
	assert.False(t, ok)
}

func TestRegistry_Require(t *testing.T) {
	reg := condition.NewRegistry()
	reg.Register(stunned())
	assert.NoError(t, reg.Require(condition.Stunned))
	err := reg.Require(condition.Stunned, condition.Poisoned, condition.Trapped)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "poisoned, trapped")
}

func TestRegistry_All_RegistrationOrder(t *testing.T) {
	reg := condition.NewRegistry()
	reg.Register(trapped())
	reg.Register(stunned())
	reg.Register(trapped())
	all := reg.All()
	require.Len(t, all, 2)
	assert.Equal(t, condition.Trapped, all[0].ID)
	assert.Equal(t, condition.Stunned, all[1].ID)
}

func TestConditionDef_Validate(t *testing.T) {
	assert.NoError(t, stunned().Validate())
	assert.Error(t, (&condition.ConditionDef{ID: "x", Name: "X", DurationType: "rounds"}).Validate())
	assert.Error(t, (&condition.ConditionDef{Name: "X", DurationType: "turns"}).Validate())
}

func TestLoadFS_ParsesSequence(t *testing.T) {
	fsys := fstest.MapFS{
		"conds/status.yaml": {Data: []byte(`- id: stunned
  name: Stunned
  duration_type: turns
  skips_turn: true
  priority: 1
- id: poisoned
  name: Poisoned
  duration_type: turns
  max_stacks: 3
  tick_damage: true
`)},
		"conds/notes.md": {Data: []byte("ignored")},
	}
	reg, err := condition.LoadFS(fsys, "conds")
	require.NoError(t, err)
	d, ok := reg.Get(condition.Poisoned)
	require.True(t, ok)
	assert.True(t, d.TickDamage)
	assert.Equal(t, 3, d.MaxStacks)
}

func TestLoadFS_RejectsUnknownField(t *testing.T) {
	fsys := fstest.MapFS{
		"c/bad.yaml": {Data: []byte("- id: x\n  name: X\n  duration_type: turns\n  glow: true\n")},
	}
	_, err := condition.LoadFS(fsys, "c")
	assert.Error(t, err)
}
