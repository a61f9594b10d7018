// Package inventory provides the static weapon definitions used by the arena
// combat engine and the loaders that read them from YAML.
package inventory

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"

	"gopkg.in/yaml.v3"
)

// Weapon type tags referenced by skill conditions and the action pipeline.
const (
	TypeFast   = "fast"
	TypeSharp  = "sharp"
	TypeHeavy  = "heavy"
	TypeLong   = "long"
	TypeBlunt  = "blunt"
	TypeThrown = "thrown"
)

var knownTypes = map[string]bool{
	TypeFast: true, TypeSharp: true, TypeHeavy: true,
	TypeLong: true, TypeBlunt: true, TypeThrown: true,
}

// WeaponDef defines the immutable properties of a weapon kind.
// Probabilities (Accuracy, Block, Evasion, Counter, Combo, Critical, Disarm)
// are fractions in [0, 1]. Tempo scales initiative; higher is slower.
//
// Invariant: a WeaponDef is never mutated after loading and may be shared
// across concurrent encounters.
type WeaponDef struct {
	ID       string   `yaml:"id"`
	Name     string   `yaml:"name"`
	Types    []string `yaml:"types"`
	Damage   float64  `yaml:"damage"`
	Accuracy float64  `yaml:"accuracy"`
	Block    float64  `yaml:"block"`
	Evasion  float64  `yaml:"evasion"`
	Counter  float64  `yaml:"counter"`
	Combo    float64  `yaml:"combo"`
	Critical float64  `yaml:"critical"`
	Disarm   float64  `yaml:"disarm"`
	Tempo    float64  `yaml:"tempo"`
}

// BareHands is the profile used when a fighter has no weapon equipped.
var BareHands = WeaponDef{
	ID:       "bare_hands",
	Name:     "Bare Hands",
	Damage:   5,
	Evasion:  0.1,
	Combo:    0.2,
	Critical: 0.05,
	Tempo:    1.0,
}

// KnownType reports whether t is a recognised weapon type tag.
func KnownType(t string) bool {
	return knownTypes[t]
}

// HasType reports whether the weapon carries the given type tag.
func (w *WeaponDef) HasType(t string) bool {
	for _, wt := range w.Types {
		if wt == t {
			return true
		}
	}
	return false
}

// Throwable reports whether the weapon can be thrown.
func (w *WeaponDef) Throwable() bool {
	return w.HasType(TypeThrown)
}

// Validate checks that the WeaponDef satisfies its invariants.
// Precondition: w is non-nil.
// Postcondition: returns nil iff all fields are valid.
func (w *WeaponDef) Validate() error {
	var errs []error
	if w.ID == "" {
		errs = append(errs, errors.New("ID must not be empty"))
	}
	if w.Name == "" {
		errs = append(errs, errors.New("Name must not be empty"))
	}
	if w.Damage <= 0 {
		errs = append(errs, fmt.Errorf("Damage must be > 0, got %v", w.Damage))
	}
	if w.Tempo <= 0 {
		errs = append(errs, fmt.Errorf("Tempo must be > 0, got %v", w.Tempo))
	}
	probs := map[string]float64{
		"accuracy": w.Accuracy, "block": w.Block, "evasion": w.Evasion,
		"counter": w.Counter, "combo": w.Combo, "critical": w.Critical,
		"disarm": w.Disarm,
	}
	for _, name := range []string{"accuracy", "block", "evasion", "counter", "combo", "critical", "disarm"} {
		if p := probs[name]; p < -1 || p > 1 {
			errs = append(errs, fmt.Errorf("%s must be within [-1, 1], got %v", name, p))
		}
	}
	for _, t := range w.Types {
		if !knownTypes[t] {
			errs = append(errs, fmt.Errorf("unknown weapon type %q", t))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("weapon %q validation failed: %w", w.ID, errors.Join(errs...))
	}
	return nil
}

// ParseWeapons decodes a YAML sequence of WeaponDefs and validates each one.
// Unknown fields are rejected.
//
// Postcondition: returns all defs in document order or the first error.
func ParseWeapons(data []byte) ([]*WeaponDef, error) {
	var defs []*WeaponDef
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&defs); err != nil {
		return nil, fmt.Errorf("parsing weapons: %w", err)
	}
	for _, w := range defs {
		if err := w.Validate(); err != nil {
			return nil, err
		}
	}
	return defs, nil
}

// LoadWeaponsFS reads every *.yaml file in dir of fsys in lexicographic order,
// parses each as a sequence of WeaponDefs, and returns the collected slice.
// Precondition: dir is a readable directory of fsys.
// Postcondition: returns all valid WeaponDefs or the first encountered error.
func LoadWeaponsFS(fsys fs.FS, dir string) ([]*WeaponDef, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("LoadWeapons: cannot read directory %q: %w", dir, err)
	}
	var weapons []*WeaponDef
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		p := path.Join(dir, entry.Name())
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return nil, fmt.Errorf("LoadWeapons: cannot read file %q: %w", p, err)
		}
		defs, err := ParseWeapons(data)
		if err != nil {
			return nil, fmt.Errorf("LoadWeapons: %q: %w", p, err)
		}
		weapons = append(weapons, defs...)
	}
	return weapons, nil
}

// LoadWeapons is LoadWeaponsFS over the operating system directory dir.
func LoadWeapons(dir string) ([]*WeaponDef, error) {
	return LoadWeaponsFS(os.DirFS(dir), ".")
}
