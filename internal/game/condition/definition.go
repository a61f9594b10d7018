// Package condition tracks the status effects (stun, poison, trap, hypnosis)
// applied to a fighter during one encounter.
package condition

import (
	"bytes"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"gopkg.in/yaml.v3"
)

// Well-known condition IDs referenced by the combat engine.
const (
	Stunned    = "stunned"
	Poisoned   = "poisoned"
	Trapped    = "trapped"
	Hypnotized = "hypnotized"
)

// ConditionDef is the static definition of a condition, loaded from YAML.
type ConditionDef struct {
	ID           string `yaml:"id"`
	Name         string `yaml:"name"`
	Description  string `yaml:"description"`
	DurationType string `yaml:"duration_type"` // "turns" | "permanent"
	MaxStacks    int    `yaml:"max_stacks"`    // 0 = unstackable
	// SkipsTurn is true when an afflicted fighter loses its turn.
	SkipsTurn bool `yaml:"skips_turn"`
	// TickDamage is true when the condition deals its Power as damage at the
	// start of each of the afflicted fighter's turns.
	TickDamage bool `yaml:"tick_damage"`
	// Priority orders turn-skipping conditions; lower is checked first.
	Priority int `yaml:"priority"`
}

// Validate checks the definition's invariants.
//
// Postcondition: Returns nil iff ID and Name are set and DurationType is known.
func (d *ConditionDef) Validate() error {
	if d.ID == "" {
		return fmt.Errorf("condition: id must not be empty")
	}
	if d.Name == "" {
		return fmt.Errorf("condition %q: name must not be empty", d.ID)
	}
	if d.DurationType != "turns" && d.DurationType != "permanent" {
		return fmt.Errorf("condition %q: duration_type must be turns or permanent, got %q", d.ID, d.DurationType)
	}
	if d.MaxStacks < 0 {
		return fmt.Errorf("condition %q: max_stacks must be >= 0", d.ID)
	}
	return nil
}

// Registry holds all known ConditionDefs keyed by ID.
type Registry struct {
	defs  map[string]*ConditionDef
	order []string
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]*ConditionDef)}
}

// Register adds def to the registry, overwriting any existing entry with the same ID.
// Precondition: def must not be nil and def.ID must not be empty.
func (r *Registry) Register(def *ConditionDef) {
	if _, ok := r.defs[def.ID]; !ok {
		r.order = append(r.order, def.ID)
	}
	r.defs[def.ID] = def
}

// Get returns the ConditionDef for id, or (nil, false) if not found.
func (r *Registry) Get(id string) (*ConditionDef, bool) {
	d, ok := r.defs[id]
	return d, ok
}

// All returns a snapshot slice of all registered ConditionDefs in
// registration order.
func (r *Registry) All() []*ConditionDef {
	out := make([]*ConditionDef, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.defs[id])
	}
	return out
}

// Require returns an error naming every id in ids that is not registered.
func (r *Registry) Require(ids ...string) error {
	var missing []string
	for _, id := range ids {
		if _, ok := r.defs[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("condition: missing required definitions: %s", strings.Join(missing, ", "))
	}
	return nil
}

// ParseDefs decodes a YAML sequence of ConditionDefs, rejecting unknown fields.
func ParseDefs(data []byte) ([]*ConditionDef, error) {
	var defs []*ConditionDef
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&defs); err != nil {
		return nil, fmt.Errorf("parsing conditions: %w", err)
	}
	for _, d := range defs {
		if err := d.Validate(); err != nil {
			return nil, err
		}
	}
	return defs, nil
}

// LoadFS reads every *.yaml file in dir of fsys, parses each as a sequence
// of ConditionDefs, and returns a populated Registry.
// Precondition: dir must be a readable directory of fsys.
// Postcondition: Returns a non-nil Registry, or an error if any file fails to parse.
func LoadFS(fsys fs.FS, dir string) (*Registry, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("reading condition dir %q: %w", dir, err)
	}
	reg := NewRegistry()
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		p := path.Join(dir, e.Name())
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", p, err)
		}
		defs, err := ParseDefs(data)
		if err != nil {
			return nil, fmt.Errorf("parsing %q: %w", p, err)
		}
		for _, d := range defs {
			reg.Register(d)
		}
	}
	return reg, nil
}
