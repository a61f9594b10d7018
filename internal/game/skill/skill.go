// Package skill defines the static skill catalog: passive stat modifiers,
// phase-bound triggers and the specials a fighter may choose instead of a
// normal attack.
package skill

import (
	"errors"
	"fmt"

	"github.com/cory-johannsen/arena/internal/game/inventory"
	"github.com/cory-johannsen/arena/internal/game/stats"
)

// Kind classifies how a skill participates in combat.
type Kind string

const (
	// KindPassive skills only contribute stat modifiers.
	KindPassive Kind = "passive"
	// KindTrigger skills fire automatically at a fixed pipeline phase.
	KindTrigger Kind = "trigger"
	// KindSpecial skills are chosen in place of a normal attack.
	KindSpecial Kind = "special"
)

// Phase is the pipeline point at which a trigger is evaluated.
type Phase string

const (
	PreTurn   Phase = "pre_turn"
	PreAttack Phase = "pre_attack"
	OnHit     Phase = "on_hit"
	OnDamaged Phase = "on_damaged"
	PostTurn  Phase = "post_turn"
)

var knownPhases = map[Phase]bool{
	PreTurn: true, PreAttack: true, OnHit: true, OnDamaged: true, PostTurn: true,
}

// Effect is the closed set of trigger and special effects.
type Effect string

const (
	EffectStun         Effect = "stun"
	EffectPoison       Effect = "poison"
	EffectHeal         Effect = "heal"
	EffectExtraTurn    Effect = "extra_turn"
	EffectWeaponSwap   Effect = "weapon_swap"
	EffectHypnosis     Effect = "hypnosis"
	EffectLifesteal    Effect = "lifesteal"
	EffectRevive       Effect = "revive"
	EffectNet          Effect = "net"
	EffectBomb         Effect = "bomb"
	EffectHammer       Effect = "hammer"
	EffectRegeneration Effect = "regeneration"
	EffectScript       Effect = "script"
)

// specialOnly effects replace the normal attack and are valid only on
// KindSpecial skills.
var specialOnly = map[Effect]bool{
	EffectWeaponSwap: true, EffectHypnosis: true, EffectNet: true,
	EffectBomb: true, EffectHammer: true,
}

var knownEffects = map[Effect]bool{
	EffectStun: true, EffectPoison: true, EffectHeal: true, EffectExtraTurn: true,
	EffectWeaponSwap: true, EffectHypnosis: true, EffectLifesteal: true,
	EffectRevive: true, EffectNet: true, EffectBomb: true, EffectHammer: true,
	EffectRegeneration: true, EffectScript: true,
}

// ModifierDef is the YAML form of a stats.Modifier.
type ModifierDef struct {
	Stat       string  `yaml:"stat"`
	Kind       string  `yaml:"kind"`  // "flat" | "percent"
	Value      float64 `yaml:"value"` // percent values are fractions: 0.2 = +20%
	Scope      string  `yaml:"scope"` // "self" (default) | "opponent"
	WeaponType string  `yaml:"weapon_type"`
}

// Compile converts d into a typed stats.Modifier.
//
// Postcondition: returns an error iff the stat, kind, scope or weapon type is unknown.
func (d ModifierDef) Compile() (stats.Modifier, error) {
	key, err := stats.ParseKey(d.Stat)
	if err != nil {
		return stats.Modifier{}, err
	}
	m := stats.Modifier{Stat: key, Value: d.Value, WeaponType: d.WeaponType}
	switch d.Kind {
	case "flat", "":
		m.Kind = stats.Flat
	case "percent":
		m.Kind = stats.Percent
	default:
		return stats.Modifier{}, fmt.Errorf("modifier on %s: unknown kind %q", d.Stat, d.Kind)
	}
	switch d.Scope {
	case "self", "":
		m.Scope = stats.Self
	case "opponent":
		m.Scope = stats.Opponent
	default:
		return stats.Modifier{}, fmt.Errorf("modifier on %s: unknown scope %q", d.Stat, d.Scope)
	}
	if d.WeaponType != "" && !inventory.KnownType(d.WeaponType) {
		return stats.Modifier{}, fmt.Errorf("modifier on %s: unknown weapon type %q", d.Stat, d.WeaponType)
	}
	return m, nil
}

// Trigger describes when and how a trigger or special skill fires.
type Trigger struct {
	// Phase is required for KindTrigger and ignored for KindSpecial.
	Phase  Phase   `yaml:"phase"`
	Chance float64 `yaml:"chance"`
	// Uses is the per-fight activation budget; 0 = unlimited.
	Uses   int    `yaml:"uses"`
	Effect Effect `yaml:"effect"`
	// Power is the flat magnitude of the effect (heal amount, poison damage
	// per turn, bomb damage).
	Power int `yaml:"power"`
	// Duration is the number of turns an applied condition lasts.
	Duration int `yaml:"duration"`
	// Multiplier scales damage (hammer) or converts damage into healing
	// (lifesteal), or a fraction of max health (heal, when Power is 0).
	Multiplier float64 `yaml:"multiplier"`
	// Cost is the stamina a special consumes on use.
	Cost int `yaml:"cost"`
	// Cooldown is the number of the owner's turns a special must wait
	// before it can be chosen again.
	Cooldown int `yaml:"cooldown"`
}

// Def is one immutable skill definition.
//
// Invariant: a Def is never mutated after loading and may be shared across
// concurrent encounters.
type Def struct {
	ID          string        `yaml:"id"`
	Name        string        `yaml:"name"`
	Description string        `yaml:"description"`
	Kind        Kind          `yaml:"kind"`
	Modifiers   []ModifierDef `yaml:"modifiers"`
	Trigger     *Trigger      `yaml:"trigger"`
	// Script names the Lua hook function invoked by EffectScript.
	Script string `yaml:"script"`

	compiled []stats.Modifier
}

// StatModifiers returns the compiled modifiers in declaration order.
//
// Precondition: Validate has returned nil.
func (d *Def) StatModifiers() []stats.Modifier {
	return d.compiled
}

// Active reports whether the skill has a trigger or special component.
func (d *Def) Active() bool {
	return d.Trigger != nil
}

// Validate checks the definition's invariants and compiles its modifiers.
//
// Postcondition: returns nil iff every field is valid; on success
// StatModifiers is populated.
func (d *Def) Validate() error {
	var errs []error
	if d.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	if d.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	compiled := make([]stats.Modifier, 0, len(d.Modifiers))
	for _, md := range d.Modifiers {
		m, err := md.Compile()
		if err != nil {
			errs = append(errs, err)
			continue
		}
		compiled = append(compiled, m)
	}
	switch d.Kind {
	case KindPassive:
		if d.Trigger != nil {
			errs = append(errs, errors.New("passive skill must not declare a trigger"))
		}
		if len(d.Modifiers) == 0 {
			errs = append(errs, errors.New("passive skill must declare at least one modifier"))
		}
	case KindTrigger, KindSpecial:
		if d.Trigger == nil {
			errs = append(errs, fmt.Errorf("%s skill must declare a trigger", d.Kind))
			break
		}
		errs = append(errs, d.validateTrigger()...)
	default:
		errs = append(errs, fmt.Errorf("unknown kind %q", d.Kind))
	}
	if len(errs) > 0 {
		return fmt.Errorf("skill %q validation failed: %w", d.ID, errors.Join(errs...))
	}
	d.compiled = compiled
	return nil
}

func (d *Def) validateTrigger() []error {
	t := d.Trigger
	var errs []error
	if !knownEffects[t.Effect] {
		errs = append(errs, fmt.Errorf("unknown effect %q", t.Effect))
	}
	if t.Chance <= 0 || t.Chance > 1 {
		errs = append(errs, fmt.Errorf("chance must be within (0, 1], got %v", t.Chance))
	}
	if t.Uses < 0 || t.Cost < 0 || t.Cooldown < 0 || t.Duration < 0 || t.Power < 0 || t.Multiplier < 0 {
		errs = append(errs, errors.New("uses, cost, cooldown, duration, power and multiplier must be >= 0"))
	}
	if d.Kind == KindSpecial {
		if !specialOnly[t.Effect] {
			errs = append(errs, fmt.Errorf("effect %q cannot be used by a special", t.Effect))
		}
		return errs
	}
	if specialOnly[t.Effect] {
		errs = append(errs, fmt.Errorf("effect %q is only valid on a special", t.Effect))
	}
	if !knownPhases[t.Phase] {
		errs = append(errs, fmt.Errorf("unknown phase %q", t.Phase))
	}
	switch t.Effect {
	case EffectLifesteal, EffectStun, EffectPoison:
		if t.Phase != OnHit {
			errs = append(errs, fmt.Errorf("effect %q requires phase %q", t.Effect, OnHit))
		}
	case EffectExtraTurn:
		if t.Phase != PreTurn && t.Phase != PostTurn {
			errs = append(errs, fmt.Errorf("effect %q requires phase %q or %q", t.Effect, PreTurn, PostTurn))
		}
	case EffectRevive:
		if t.Phase != OnDamaged {
			errs = append(errs, fmt.Errorf("effect %q requires phase %q", t.Effect, OnDamaged))
		}
	case EffectScript:
		if d.Script == "" {
			errs = append(errs, errors.New("script effect requires a script hook name"))
		}
	}
	return errs
}
