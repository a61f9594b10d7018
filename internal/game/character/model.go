// Package character defines the fighter descriptor supplied by callers and
// the pure logic that resolves it against the content catalog.
package character

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/arena/internal/game/stats"
)

// Descriptor is the caller-supplied description of one fighter.
//
// A Descriptor is plain data; it is deep-copied into fighter state before
// simulation, so callers may reuse it across encounters.
type Descriptor struct {
	Name      string `yaml:"name" json:"name"`
	Level     int    `yaml:"level" json:"level"`
	Strength  int    `yaml:"strength" json:"strength"`
	Agility   int    `yaml:"agility" json:"agility"`
	Speed     int    `yaml:"speed" json:"speed"`
	Endurance int    `yaml:"endurance" json:"endurance"`
	// MaxHealth overrides the derived maximum when > 0.
	MaxHealth int `yaml:"max_health,omitempty" json:"max_health,omitempty"`
	// MaxStamina overrides stats.DefaultMaxStamina when > 0.
	MaxStamina int    `yaml:"max_stamina,omitempty" json:"max_stamina,omitempty"`
	Weapon     string `yaml:"weapon,omitempty" json:"weapon,omitempty"`
	// Arsenal lists spare weapons drawn in order whenever the fighter is
	// bare-handed at the start of a turn.
	Arsenal []string `yaml:"arsenal,omitempty" json:"arsenal,omitempty"`
	Skills  []string `yaml:"skills,omitempty" json:"skills,omitempty"`
	Pet     string   `yaml:"pet,omitempty" json:"pet,omitempty"`
}

// Validate checks the descriptor's structural invariants.
//
// Postcondition: returns nil iff the name is set, level and every attribute
// are >= 1, the health and stamina overrides are >= 0, and no skill is listed
// twice.
func (d *Descriptor) Validate() error {
	var errs []error
	if d.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if d.Level < 1 {
		errs = append(errs, fmt.Errorf("level must be >= 1, got %d", d.Level))
	}
	for _, a := range []struct {
		name string
		v    int
	}{{"strength", d.Strength}, {"agility", d.Agility}, {"speed", d.Speed}, {"endurance", d.Endurance}} {
		if a.v < 1 {
			errs = append(errs, fmt.Errorf("%s must be >= 1, got %d", a.name, a.v))
		}
	}
	if d.MaxHealth < 0 {
		errs = append(errs, fmt.Errorf("max_health must be >= 0, got %d", d.MaxHealth))
	}
	if d.MaxStamina < 0 {
		errs = append(errs, fmt.Errorf("max_stamina must be >= 0, got %d", d.MaxStamina))
	}
	seen := make(map[string]bool, len(d.Skills))
	for _, s := range d.Skills {
		if seen[s] {
			errs = append(errs, fmt.Errorf("skill %q listed more than once", s))
		}
		seen[s] = true
	}
	if len(errs) > 0 {
		return fmt.Errorf("fighter %q: %w", d.Name, errors.Join(errs...))
	}
	return nil
}

// Attributes returns the raw attributes consumed by the stat resolver.
func (d *Descriptor) Attributes() stats.Attributes {
	return stats.Attributes{
		Level:      d.Level,
		Strength:   d.Strength,
		Agility:    d.Agility,
		Speed:      d.Speed,
		Endurance:  d.Endurance,
		MaxHealth:  d.MaxHealth,
		MaxStamina: d.MaxStamina,
	}
}

// Clone returns a deep copy of d.
func (d Descriptor) Clone() Descriptor {
	d.Arsenal = append([]string(nil), d.Arsenal...)
	d.Skills = append([]string(nil), d.Skills...)
	return d
}

// ParseDescriptor decodes a single YAML descriptor, rejecting unknown fields.
func ParseDescriptor(data []byte) (Descriptor, error) {
	var d Descriptor
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&d); err != nil {
		return Descriptor{}, fmt.Errorf("parsing fighter descriptor: %w", err)
	}
	return d, nil
}

// LoadDescriptor reads and parses the descriptor file at path.
//
// Precondition: path must name a readable YAML file.
func LoadDescriptor(path string) (Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Descriptor{}, fmt.Errorf("reading %s: %w", path, err)
	}
	d, err := ParseDescriptor(data)
	if err != nil {
		return Descriptor{}, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}
