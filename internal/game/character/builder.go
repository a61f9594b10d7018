package character

import (
	"fmt"

	"github.com/cory-johannsen/arena/internal/game/inventory"
	"github.com/cory-johannsen/arena/internal/game/pet"
	"github.com/cory-johannsen/arena/internal/game/skill"
	"github.com/cory-johannsen/arena/internal/game/stats"
)

// Catalog resolves content ids into static definitions.
type Catalog interface {
	Weapon(id string) (*inventory.WeaponDef, error)
	Skill(id string) (*skill.Def, error)
	Pet(id string) (*pet.Template, error)
}

// Sheet is a validated descriptor with every id resolved to its static
// definition. Definitions are shared; the descriptor is a private copy.
type Sheet struct {
	Descriptor Descriptor
	Weapon     *inventory.WeaponDef
	Arsenal    []*inventory.WeaponDef
	Skills     []*skill.Def
	Pet        *pet.Template
}

// Build validates desc and resolves its weapon, arsenal, skill and pet ids.
//
// Precondition: cat must be non-nil.
// Postcondition: Returns a Sheet, or an error wrapping
// inventory.ErrUnknownWeapon, skill.ErrUnknownSkill, pet.ErrUnknownPet or a
// validation failure. Unknown ids never default silently.
func Build(desc Descriptor, cat Catalog) (*Sheet, error) {
	if err := desc.Validate(); err != nil {
		return nil, err
	}
	s := &Sheet{Descriptor: desc.Clone()}
	if desc.Weapon != "" {
		w, err := cat.Weapon(desc.Weapon)
		if err != nil {
			return nil, fmt.Errorf("fighter %q: %w", desc.Name, err)
		}
		s.Weapon = w
	}
	for _, id := range desc.Arsenal {
		w, err := cat.Weapon(id)
		if err != nil {
			return nil, fmt.Errorf("fighter %q arsenal: %w", desc.Name, err)
		}
		s.Arsenal = append(s.Arsenal, w)
	}
	for _, id := range desc.Skills {
		sk, err := cat.Skill(id)
		if err != nil {
			return nil, fmt.Errorf("fighter %q: %w", desc.Name, err)
		}
		s.Skills = append(s.Skills, sk)
	}
	if desc.Pet != "" {
		p, err := cat.Pet(desc.Pet)
		if err != nil {
			return nil, fmt.Errorf("fighter %q: %w", desc.Name, err)
		}
		s.Pet = p
	}
	return s, nil
}

// Modifiers returns every skill modifier in skill order.
func (s *Sheet) Modifiers() []stats.Modifier {
	var out []stats.Modifier
	for _, sk := range s.Skills {
		out = append(out, sk.StatModifiers()...)
	}
	return out
}

// PetOwner returns the attributes that scale the fighter's pet.
func (s *Sheet) PetOwner() pet.Owner {
	d := s.Descriptor
	return pet.Owner{Level: d.Level, Strength: d.Strength, Agility: d.Agility, Endurance: d.Endurance}
}
