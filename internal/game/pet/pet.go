// Package pet defines companion templates and the per-encounter instances
// derived from them.
package pet

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"path"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrUnknownPet is returned when a pet id has no registered template.
var ErrUnknownPet = errors.New("unknown pet")

// Ability is the on-hit effect a pet applies to its target.
type Ability string

const (
	// Bite adds Power flat damage.
	Bite Ability = "bite"
	// Maul multiplies the hit by 1.5.
	Maul Ability = "maul"
	// Pounce stuns the target for Duration turns.
	Pounce Ability = "pounce"
	// Bleed poisons the target for Power damage over Duration turns.
	Bleed Ability = "bleed"
)

// MaulMultiplier scales a pet hit when the Maul ability procs.
const MaulMultiplier = 1.5

var knownAbilities = map[Ability]bool{Bite: true, Maul: true, Pounce: true, Bleed: true}

// Template is the immutable static definition of a companion species.
type Template struct {
	ID           string  `yaml:"id"`
	Name         string  `yaml:"name"`
	Health       int     `yaml:"health"`
	Damage       float64 `yaml:"damage"`
	Agility      float64 `yaml:"agility"`
	Accuracy     float64 `yaml:"accuracy"`
	AssistChance float64 `yaml:"assist_chance"`
	// Pierce is the fraction of target armor the pet ignores.
	Pierce        float64 `yaml:"pierce"`
	OnHit         Ability `yaml:"on_hit"`
	OnHitChance   float64 `yaml:"on_hit_chance"`
	OnHitPower    int     `yaml:"on_hit_power"`
	OnHitDuration int     `yaml:"on_hit_duration"`
}

// Validate checks t's invariants.
//
// Postcondition: returns nil iff every field is valid.
func (t *Template) Validate() error {
	var errs []error
	if t.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	if t.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if t.Health <= 0 {
		errs = append(errs, fmt.Errorf("health must be > 0, got %d", t.Health))
	}
	if t.Damage <= 0 {
		errs = append(errs, fmt.Errorf("damage must be > 0, got %v", t.Damage))
	}
	for name, p := range map[string]float64{
		"accuracy": t.Accuracy, "assist_chance": t.AssistChance,
		"pierce": t.Pierce, "on_hit_chance": t.OnHitChance,
	} {
		if p < 0 || p > 1 {
			errs = append(errs, fmt.Errorf("%s must be within [0, 1], got %v", name, p))
		}
	}
	if t.OnHit != "" && !knownAbilities[t.OnHit] {
		errs = append(errs, fmt.Errorf("unknown on_hit ability %q", t.OnHit))
	}
	if len(errs) > 0 {
		return fmt.Errorf("pet %q validation failed: %w", t.ID, errors.Join(errs...))
	}
	return nil
}

// Owner carries the owner attributes that scale a pet.
type Owner struct {
	Level     int
	Strength  int
	Agility   int
	Endurance int
}

// Instance is a companion bound to one fighter for one encounter.
type Instance struct {
	Template     *Template
	Health       int
	MaxHealth    int
	Damage       float64
	Agility      float64
	Accuracy     float64
	AssistChance float64
	Pierce       float64
}

// Derive scales tmpl from the owner's attributes.
//
// Health gains 4 per owner level and 2 per endurance point; damage gains a
// quarter of owner strength and half a point per level; agility gains a
// fifth of owner agility.
//
// Precondition: tmpl must be non-nil and valid.
// Postcondition: Health == MaxHealth >= 1.
func Derive(tmpl *Template, owner Owner) *Instance {
	hp := tmpl.Health + 4*owner.Level + 2*owner.Endurance
	if hp < 1 {
		hp = 1
	}
	return &Instance{
		Template:     tmpl,
		Health:       hp,
		MaxHealth:    hp,
		Damage:       tmpl.Damage + 0.25*float64(owner.Strength) + 0.5*float64(owner.Level),
		Agility:      tmpl.Agility + 0.2*float64(owner.Agility),
		Accuracy:     tmpl.Accuracy,
		AssistChance: tmpl.AssistChance,
		Pierce:       tmpl.Pierce,
	}
}

// Alive reports whether the pet can still act.
func (p *Instance) Alive() bool {
	return p != nil && p.Health > 0
}

// TakeDamage reduces the pet's health, clamping at zero.
//
// Postcondition: 0 <= Health <= MaxHealth; returns the damage actually taken.
func (p *Instance) TakeDamage(n int) int {
	if n <= 0 || p.Health == 0 {
		return 0
	}
	taken := int(math.Min(float64(n), float64(p.Health)))
	p.Health -= taken
	return taken
}

// Clone returns an independent copy of p. The template is shared.
func (p *Instance) Clone() *Instance {
	if p == nil {
		return nil
	}
	cp := *p
	return &cp
}

// Registry holds pet templates keyed by ID in registration order.
type Registry struct {
	templates map[string]*Template
	order     []string
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{templates: make(map[string]*Template)}
}

// Register validates t and adds it, replacing any template with the same ID.
func (r *Registry) Register(t *Template) error {
	if err := t.Validate(); err != nil {
		return err
	}
	if _, ok := r.templates[t.ID]; !ok {
		r.order = append(r.order, t.ID)
	}
	r.templates[t.ID] = t
	return nil
}

// Lookup returns the template for id or an error wrapping ErrUnknownPet.
func (r *Registry) Lookup(id string) (*Template, error) {
	t, ok := r.templates[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPet, id)
	}
	return t, nil
}

// All returns every template in registration order.
func (r *Registry) All() []*Template {
	out := make([]*Template, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.templates[id])
	}
	return out
}

// LoadFS registers every template in the *.yaml files of dir.
//
// Precondition: dir must be a readable directory of fsys.
func (r *Registry) LoadFS(fsys fs.FS, dir string) error {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return fmt.Errorf("reading pet dir %q: %w", dir, err)
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		p := path.Join(dir, e.Name())
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return fmt.Errorf("reading %q: %w", p, err)
		}
		var tmpls []*Template
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&tmpls); err != nil {
			return fmt.Errorf("parsing %q: %w", p, err)
		}
		for _, t := range tmpls {
			if err := r.Register(t); err != nil {
				return fmt.Errorf("%q: %w", p, err)
			}
		}
	}
	return nil
}
