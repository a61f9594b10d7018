package character_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/arena/internal/game/character"
	"github.com/cory-johannsen/arena/internal/game/inventory"
	"github.com/cory-johannsen/arena/internal/game/pet"
	"github.com/cory-johannsen/arena/internal/game/skill"
	"github.com/cory-johannsen/arena/internal/game/stats"
)

type fakeCatalog struct {
	weapons map[string]*inventory.WeaponDef
	skills  map[string]*skill.Def
	pets    map[string]*pet.Template
}

func (f fakeCatalog) Weapon(id string) (*inventory.WeaponDef, error) {
	if w, ok := f.weapons[id]; ok {
		return w, nil
	}
	return nil, fmt.Errorf("%w: %q", inventory.ErrUnknownWeapon, id)
}

func (f fakeCatalog) Skill(id string) (*skill.Def, error) {
	if s, ok := f.skills[id]; ok {
		return s, nil
	}
	return nil, fmt.Errorf("%w: %q", skill.ErrUnknownSkill, id)
}

func (f fakeCatalog) Pet(id string) (*pet.Template, error) {
	if p, ok := f.pets[id]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("%w: %q", pet.ErrUnknownPet, id)
}

func newCatalog(t *testing.T) fakeCatalog {
	t.Helper()
	strong := &skill.Def{ID: "herculeanStrength", Name: "Herculean Strength", Kind: skill.KindPassive,
		Modifiers: []skill.ModifierDef{{Stat: "strength", Value: 3}}}
	require.NoError(t, strong.Validate())
	armor := &skill.Def{ID: "armor", Name: "Armor", Kind: skill.KindPassive,
		Modifiers: []skill.ModifierDef{{Stat: "damage_taken", Kind: "percent", Value: -0.25}}}
	require.NoError(t, armor.Validate())
	return fakeCatalog{
		weapons: map[string]*inventory.WeaponDef{
			"sword": {ID: "sword", Name: "Sword", Types: []string{"sharp"}, Damage: 8, Tempo: 1},
			"knife": {ID: "knife", Name: "Knife", Types: []string{"fast", "thrown"}, Damage: 4, Tempo: 0.8},
		},
		skills: map[string]*skill.Def{"herculeanStrength": strong, "armor": armor},
		pets:   map[string]*pet.Template{"dog": {ID: "dog", Name: "Dog", Health: 20, Damage: 3}},
	}
}

func validDescriptor() character.Descriptor {
	return character.Descriptor{Name: "Ada", Level: 3, Strength: 6, Agility: 5, Speed: 4, Endurance: 5}
}

func TestBuild_ResolvesEverything(t *testing.T) {
	d := validDescriptor()
	d.Weapon = "sword"
	d.Arsenal = []string{"knife"}
	d.Skills = []string{"herculeanStrength", "armor"}
	d.Pet = "dog"
	s, err := character.Build(d, newCatalog(t))
	require.NoError(t, err)
	assert.Equal(t, "sword", s.Weapon.ID)
	require.Len(t, s.Arsenal, 1)
	require.Len(t, s.Skills, 2)
	assert.Equal(t, "dog", s.Pet.ID)

	mods := s.Modifiers()
	require.Len(t, mods, 2)
	assert.Equal(t, stats.Strength, mods[0].Stat)
	assert.Equal(t, stats.DamageTaken, mods[1].Stat)
	assert.Equal(t, pet.Owner{Level: 3, Strength: 6, Agility: 5, Endurance: 5}, s.PetOwner())
}

func TestBuild_UnknownIDs(t *testing.T) {
	cat := newCatalog(t)
	cases := []struct {
		name   string
		mutate func(*character.Descriptor)
		want   error
	}{
		{"weapon", func(d *character.Descriptor) { d.Weapon = "laser" }, inventory.ErrUnknownWeapon},
		{"arsenal", func(d *character.Descriptor) { d.Arsenal = []string{"laser"} }, inventory.ErrUnknownWeapon},
		{"skill", func(d *character.Descriptor) { d.Skills = []string{"flight"} }, skill.ErrUnknownSkill},
		{"pet", func(d *character.Descriptor) { d.Pet = "dragon" }, pet.ErrUnknownPet},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := validDescriptor()
			tc.mutate(&d)
			_, err := character.Build(d, cat)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tc.want), "got %v", err)
		})
	}
}

func TestBuild_CopiesDescriptor(t *testing.T) {
	d := validDescriptor()
	d.Skills = []string{"armor"}
	s, err := character.Build(d, newCatalog(t))
	require.NoError(t, err)
	d.Skills[0] = "herculeanStrength"
	assert.Equal(t, "armor", s.Descriptor.Skills[0])
}

func TestValidate_Rejects(t *testing.T) {
	cases := map[string]func(*character.Descriptor){
		"empty name":      func(d *character.Descriptor) { d.Name = "" },
		"zero level":      func(d *character.Descriptor) { d.Level = 0 },
		"zero strength":   func(d *character.Descriptor) { d.Strength = 0 },
		"negative health": func(d *character.Descriptor) { d.MaxHealth = -1 },
		"duplicate skill": func(d *character.Descriptor) { d.Skills = []string{"armor", "armor"} },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			d := validDescriptor()
			mutate(&d)
			assert.Error(t, d.Validate())
		})
	}
}

func TestValidate_AttributesProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		d := character.Descriptor{
			Name:      "X",
			Level:     rapid.IntRange(1, 100).Draw(rt, "level"),
			Strength:  rapid.IntRange(1, 100).Draw(rt, "str"),
			Agility:   rapid.IntRange(1, 100).Draw(rt, "agi"),
			Speed:     rapid.IntRange(1, 100).Draw(rt, "spd"),
			Endurance: rapid.IntRange(1, 100).Draw(rt, "end"),
		}
		require.NoError(rt, d.Validate())
		a := d.Attributes()
		assert.Equal(rt, d.Strength, a.Strength)
		assert.Equal(rt, d.Level, a.Level)
	})
}

func TestParseDescriptor(t *testing.T) {
	d, err := character.ParseDescriptor([]byte("name: Bo\nlevel: 2\nstrength: 3\nagility: 3\nspeed: 3\nendurance: 3\nweapon: sword\nskills: [armor]\n"))
	require.NoError(t, err)
	assert.Equal(t, "sword", d.Weapon)
	assert.Equal(t, []string{"armor"}, d.Skills)

	_, err = character.ParseDescriptor([]byte("name: Bo\nmana: 3\n"))
	assert.Error(t, err)
}
