package stats

import (
	"math"

	"github.com/cory-johannsen/arena/internal/game/inventory"
)

// DefaultMaxStamina is used when a descriptor does not set MaxStamina.
const DefaultMaxStamina = 100

// Attributes are a fighter's raw, unmodified attributes.
type Attributes struct {
	Level      int
	Strength   int
	Agility    int
	Speed      int
	Endurance  int
	MaxHealth  int // 0 = derived from endurance and level
	MaxStamina int // 0 = DefaultMaxStamina
}

// Input is everything the resolver needs to know about one fighter.
type Input struct {
	Attributes Attributes
	// Weapon is the equipped weapon; nil means bare hands.
	Weapon *inventory.WeaponDef
	// Modifiers are the fighter's skill modifiers in skill order.
	Modifiers []Modifier
}

func (in Input) weapon() *inventory.WeaponDef {
	if in.Weapon == nil {
		return &inventory.BareHands
	}
	return in.Weapon
}

func (in Input) guardMatches(m Modifier) bool {
	if m.WeaponType == "" {
		return true
	}
	return in.Weapon != nil && in.Weapon.HasType(m.WeaponType)
}

// Table is a resolved effective-stat table.
type Table struct {
	values     [numKeys]float64
	MaxHealth  int
	MaxStamina int
	// Armed is true when a weapon other than bare hands is equipped.
	Armed bool
	// Level is carried through from the attributes.
	Level int
}

// Get returns the resolved value of k.
func (t *Table) Get(k Key) float64 {
	return t.values[k]
}

// With returns a copy of t with k set to v. Intended for tests and for
// formula adapters that derive transient tables.
func (t Table) With(k Key, v float64) Table {
	t.values[k] = v
	return t
}

// Base returns the unmodified table for in: attributes plus the weapon
// profile, with derived values computed from the raw attributes.
func Base(in Input) Table {
	return Resolve(Input{Attributes: in.Attributes, Weapon: in.Weapon}, Input{})
}

// Resolve folds self's attributes, weapon and modifiers, plus the
// Opponent-scoped modifiers of opponent, into an effective stat table.
//
// Order of application, per stat: every Flat modifier in gathered order,
// then every Percent modifier in gathered order. Gathered order is self's
// Self-scoped modifiers followed by opponent's Opponent-scoped modifiers.
// A WeaponType guard is tested against the modifier owner's weapon.
// Health is folded last because its base is derived from the resolved
// endurance and level.
//
// Postcondition: probabilities are within [0, 1]; multipliers and armor are
// >= 0; MaxHealth >= 1; MaxStamina >= 1.
func Resolve(self, opponent Input) Table {
	w := self.weapon()
	a := self.Attributes

	var base [numKeys]float64
	base[Strength] = float64(a.Strength)
	base[Agility] = float64(a.Agility)
	base[Speed] = float64(a.Speed)
	base[Endurance] = float64(a.Endurance)
	base[Accuracy] = w.Accuracy
	base[Evasion] = w.Evasion
	base[Block] = w.Block
	base[Counter] = w.Counter
	base[Combo] = w.Combo
	base[CriticalChance] = w.Critical
	base[Damage] = 1
	base[DamageTaken] = 1
	base[Disarm] = w.Disarm
	base[Tempo] = w.Tempo

	gathered := make([]Modifier, 0, len(self.Modifiers)+len(opponent.Modifiers))
	for _, m := range self.Modifiers {
		if m.Scope == Self && self.guardMatches(m) {
			gathered = append(gathered, m)
		}
	}
	for _, m := range opponent.Modifiers {
		if m.Scope == Opponent && opponent.guardMatches(m) {
			gathered = append(gathered, m)
		}
	}

	t := Table{Armed: self.Weapon != nil, Level: a.Level}
	for k := Key(0); k < numKeys; k++ {
		if k == Health {
			continue
		}
		t.values[k] = fold(base[k], k, gathered)
	}

	healthBase := float64(a.MaxHealth)
	if a.MaxHealth <= 0 {
		healthBase = derivedHealth(t.values[Endurance], a.Level)
	}
	t.values[Health] = fold(healthBase, Health, gathered)

	clampTable(&t)

	t.MaxHealth = int(math.Round(t.values[Health]))
	if t.MaxHealth < 1 {
		t.MaxHealth = 1
	}
	t.values[Health] = float64(t.MaxHealth)
	t.MaxStamina = a.MaxStamina
	if t.MaxStamina <= 0 {
		t.MaxStamina = DefaultMaxStamina
	}
	return t
}

// derivedHealth is the default max health: 50 + 6*endurance + 3*level.
func derivedHealth(endurance float64, level int) float64 {
	return 50 + 6*endurance + 3*float64(level)
}

func fold(v float64, k Key, mods []Modifier) float64 {
	for _, m := range mods {
		if m.Stat == k && m.Kind == Flat {
			v += m.Value
		}
	}
	for _, m := range mods {
		if m.Stat == k && m.Kind == Percent {
			v *= 1 + m.Value
		}
	}
	return v
}

func clampTable(t *Table) {
	for k := Key(0); k < numKeys; k++ {
		v := t.values[k]
		switch {
		case k.isProbability():
			v = math.Max(0, math.Min(1, v))
		case k == Tempo:
			v = math.Max(0.1, v)
		case k == Initiative || k == CriticalDamage:
			// signed
		default:
			v = math.Max(0, v)
		}
		t.values[k] = v
	}
}
