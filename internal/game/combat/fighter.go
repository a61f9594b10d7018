package combat

import (
	"github.com/cory-johannsen/arena/internal/game/character"
	"github.com/cory-johannsen/arena/internal/game/condition"
	"github.com/cory-johannsen/arena/internal/game/inventory"
	"github.com/cory-johannsen/arena/internal/game/pet"
	"github.com/cory-johannsen/arena/internal/game/stats"
)

// Fighter is the mutable combat-session state of one participant. It is
// owned by exactly one encounter.
//
// Invariant: 0 <= Health <= Stats.MaxHealth and
// 0 <= Stamina <= Stats.MaxStamina after every mutation.
type Fighter struct {
	Index   int
	Name    string
	Health  int
	Stamina int
	// Weapon is the equipped weapon; nil means bare hands.
	Weapon     *inventory.WeaponDef
	Conditions *condition.ActiveSet
	Pet        *pet.Instance
	// Stats is the resolved table for the current equipment of both fighters.
	Stats stats.Table

	sheet   *character.Sheet
	arsenal []*inventory.WeaponDef
	// uses and cooldowns are indexed like sheet.Skills.
	uses          []int
	cooldowns     []int
	throwCooldown int
	revived       bool
}

func newFighter(index int, s *character.Sheet) *Fighter {
	f := &Fighter{
		Index:      index,
		Name:       s.Descriptor.Name,
		Weapon:     s.Weapon,
		Conditions: condition.NewActiveSet(),
		sheet:      s,
		arsenal:    append([]*inventory.WeaponDef(nil), s.Arsenal...),
		uses:       make([]int, len(s.Skills)),
		cooldowns:  make([]int, len(s.Skills)),
	}
	if s.Pet != nil {
		f.Pet = pet.Derive(s.Pet, s.PetOwner())
	}
	return f
}

// Alive reports whether the fighter has health left.
func (f *Fighter) Alive() bool { return f.Health > 0 }

func (f *Fighter) input() stats.Input {
	return stats.Input{
		Attributes: f.sheet.Descriptor.Attributes(),
		Weapon:     f.Weapon,
		Modifiers:  f.sheet.Modifiers(),
	}
}

// takeDamage lowers health, clamping at zero, and returns the amount lost.
func (f *Fighter) takeDamage(n int) int {
	if n <= 0 {
		return 0
	}
	n = min(n, f.Health)
	f.Health -= n
	return n
}

// heal raises health, clamping at the maximum, and returns the amount gained.
func (f *Fighter) heal(n int) int {
	if n <= 0 || f.Health == 0 {
		return 0
	}
	n = min(n, f.Stats.MaxHealth-f.Health)
	f.Health += n
	return n
}

func (f *Fighter) spend(n int) {
	f.Stamina = max(0, f.Stamina-n)
}

func (f *Fighter) regain(n int) int {
	n = max(0, min(n, f.Stats.MaxStamina-f.Stamina))
	f.Stamina += n
	return n
}

// canUse reports whether skill idx has activations left this fight.
func (f *Fighter) canUse(idx int) bool {
	budget := f.sheet.Skills[idx].Trigger.Uses
	return budget == 0 || f.uses[idx] < budget
}

func (f *Fighter) clone() *Fighter {
	cp := *f
	cp.Conditions = f.Conditions.Clone()
	cp.Pet = f.Pet.Clone()
	cp.arsenal = append([]*inventory.WeaponDef(nil), f.arsenal...)
	cp.uses = append([]int(nil), f.uses...)
	cp.cooldowns = append([]int(nil), f.cooldowns...)
	return &cp
}

func (f *Fighter) conditionIDs() []string {
	all := f.Conditions.All()
	ids := make([]string, len(all))
	for i, ac := range all {
		ids[i] = ac.Def.ID
	}
	return ids
}

func (f *Fighter) weaponID() string {
	if f.Weapon == nil {
		return ""
	}
	return f.Weapon.ID
}
