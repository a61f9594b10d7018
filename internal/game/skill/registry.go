package skill

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrUnknownSkill is returned when a skill id has no registered definition.
var ErrUnknownSkill = errors.New("unknown skill")

// Registry holds skill definitions keyed by ID in registration order.
type Registry struct {
	defs  map[string]*Def
	order []string
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]*Def)}
}

// Register validates d and adds it to the registry. A later definition with
// the same ID replaces the earlier one in place, so directory overrides keep
// catalog order.
//
// Precondition: d must not be nil.
// Postcondition: Get(d.ID) returns d, or an error is returned and the
// registry is unchanged.
func (r *Registry) Register(d *Def) error {
	if err := d.Validate(); err != nil {
		return err
	}
	if _, ok := r.defs[d.ID]; !ok {
		r.order = append(r.order, d.ID)
	}
	r.defs[d.ID] = d
	return nil
}

// Get returns the definition for id, or (nil, false).
func (r *Registry) Get(id string) (*Def, bool) {
	d, ok := r.defs[id]
	return d, ok
}

// Lookup returns the definition for id or an error wrapping ErrUnknownSkill.
func (r *Registry) Lookup(id string) (*Def, error) {
	d, ok := r.defs[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSkill, id)
	}
	return d, nil
}

// All returns every definition in registration order.
func (r *Registry) All() []*Def {
	out := make([]*Def, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.defs[id])
	}
	return out
}

// Len returns the number of registered skills.
func (r *Registry) Len() int { return len(r.order) }

// ParseDefs decodes a YAML sequence of skill definitions. Unknown fields are
// rejected; validation happens on Register.
func ParseDefs(data []byte) ([]*Def, error) {
	var defs []*Def
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&defs); err != nil {
		return nil, fmt.Errorf("parsing skills: %w", err)
	}
	return defs, nil
}

// LoadFS registers every skill found in the *.yaml files of dir, visiting
// files in lexicographic order.
//
// Precondition: dir must be a readable directory of fsys.
// Postcondition: returns nil iff every file parsed and every skill validated.
func (r *Registry) LoadFS(fsys fs.FS, dir string) error {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return fmt.Errorf("reading skill dir %q: %w", dir, err)
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
		defs, err := ParseDefs(data)
		if err != nil {
			return fmt.Errorf("%q: %w", p, err)
		}
		for _, d := range defs {
			if err := r.Register(d); err != nil {
				return fmt.Errorf("%q: %w", p, err)
			}
		}
	}
	return nil
}
