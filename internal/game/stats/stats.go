// Package stats resolves a fighter's base attributes, equipped weapon and
// skill modifiers into the effective stat table used by the combat engine.
package stats

import "fmt"

// Key identifies one effective combat stat. The set is closed.
type Key int

const (
	Strength Key = iota
	Agility
	Speed
	Endurance
	// Health is the maximum health; its base value is derived from endurance.
	Health
	Accuracy
	Evasion
	Block
	Counter
	Combo
	CriticalChance
	// CriticalDamage is added to the formula's critical multiplier.
	CriticalDamage
	Armor
	// Damage multiplies outgoing damage; base 1.
	Damage
	// DamageTaken multiplies incoming damage; base 1.
	DamageTaken
	// Initiative is a flat bias added to computed initiative; lower acts first.
	Initiative
	Disarm
	// Tempo scales initiative; base is the weapon tempo.
	Tempo
	numKeys
)

var keyNames = [numKeys]string{
	Strength:       "strength",
	Agility:        "agility",
	Speed:          "speed",
	Endurance:      "endurance",
	Health:         "health",
	Accuracy:       "accuracy",
	Evasion:        "evasion",
	Block:          "block",
	Counter:        "counter",
	Combo:          "combo",
	CriticalChance: "critical_chance",
	CriticalDamage: "critical_damage",
	Armor:          "armor",
	Damage:         "damage",
	DamageTaken:    "damage_taken",
	Initiative:     "initiative",
	Disarm:         "disarm",
	Tempo:          "tempo",
}

// String returns the canonical snake_case name of k.
func (k Key) String() string {
	if k < 0 || k >= numKeys {
		return fmt.Sprintf("stat(%d)", int(k))
	}
	return keyNames[k]
}

// Keys returns every stat key in canonical order.
func Keys() []Key {
	out := make([]Key, numKeys)
	for i := range out {
		out[i] = Key(i)
	}
	return out
}

// ParseKey returns the Key named s.
//
// Postcondition: returns an error iff s is not a canonical stat name.
func ParseKey(s string) (Key, error) {
	for i, n := range keyNames {
		if n == s {
			return Key(i), nil
		}
	}
	return 0, fmt.Errorf("stats: unknown stat %q", s)
}

// isProbability reports whether k is clamped to [0, 1].
func (k Key) isProbability() bool {
	switch k {
	case Accuracy, Evasion, Block, Counter, Combo, CriticalChance, Disarm:
		return true
	}
	return false
}

// Kind selects how a Modifier combines with the accumulated value.
type Kind int

const (
	// Flat adds Value.
	Flat Kind = iota
	// Percent multiplies the accumulated value by (1 + Value).
	Percent
)

// String returns "flat" or "percent".
func (k Kind) String() string {
	if k == Percent {
		return "percent"
	}
	return "flat"
}

// Scope selects which fighter a Modifier lands on.
type Scope int

const (
	// Self applies to the owner's table.
	Self Scope = iota
	// Opponent applies to the other fighter's table.
	Opponent
)

// String returns "self" or "opponent".
func (s Scope) String() string {
	if s == Opponent {
		return "opponent"
	}
	return "self"
}

// Modifier is one stat adjustment contributed by a skill.
// WeaponType, when non-empty, restricts the modifier to owners whose
// equipped weapon carries that type tag.
type Modifier struct {
	Stat       Key
	Kind       Kind
	Value      float64
	Scope      Scope
	WeaponType string
}

// Validate reports whether m references a known stat.
func (m Modifier) Validate() error {
	if m.Stat < 0 || m.Stat >= numKeys {
		return fmt.Errorf("stats: modifier references unknown stat %d", int(m.Stat))
	}
	if m.Kind != Flat && m.Kind != Percent {
		return fmt.Errorf("stats: modifier on %s has unknown kind %d", m.Stat, int(m.Kind))
	}
	if m.Scope != Self && m.Scope != Opponent {
		return fmt.Errorf("stats: modifier on %s has unknown scope %d", m.Stat, int(m.Scope))
	}
	return nil
}
