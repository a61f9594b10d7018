package inventory

import (
	"errors"
	"fmt"
)

// ErrUnknownWeapon is returned when a weapon id has no registered definition.
var ErrUnknownWeapon = errors.New("unknown weapon")

// Registry holds all loaded weapon definitions indexed by ID, preserving
// registration order.
type Registry struct {
	weapons map[string]*WeaponDef
	order   []string
}

// NewRegistry returns an empty Registry.
//
// Postcondition: all internal maps are initialised.
func NewRegistry() *Registry {
	return &Registry{weapons: make(map[string]*WeaponDef)}
}

// RegisterWeapon adds w to the registry.
//
// Precondition:  w must not be nil.
// Postcondition: Weapon(w.ID) returns w; returns error if w.ID already registered.
func (r *Registry) RegisterWeapon(w *WeaponDef) error {
	if _, exists := r.weapons[w.ID]; exists {
		return fmt.Errorf("inventory: Registry.RegisterWeapon: weapon ID %q already registered", w.ID)
	}
	r.weapons[w.ID] = w
	r.order = append(r.order, w.ID)
	return nil
}

// Put adds w or replaces the definition registered under w.ID, keeping the
// original registration position.
//
// Precondition: w must not be nil.
func (r *Registry) Put(w *WeaponDef) {
	if _, exists := r.weapons[w.ID]; !exists {
		r.order = append(r.order, w.ID)
	}
	r.weapons[w.ID] = w
}

// Weapon returns the WeaponDef for the given id, or nil if not found.
func (r *Registry) Weapon(id string) *WeaponDef {
	return r.weapons[id]
}

// Lookup returns the WeaponDef for id or an error wrapping ErrUnknownWeapon.
func (r *Registry) Lookup(id string) (*WeaponDef, error) {
	w, ok := r.weapons[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownWeapon, id)
	}
	return w, nil
}

// AllWeapons returns all registered WeaponDefs in registration order.
//
// Postcondition: len(result) == number of registered weapons.
func (r *Registry) AllWeapons() []*WeaponDef {
	out := make([]*WeaponDef, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.weapons[id])
	}
	return out
}

// Len returns the number of registered weapons.
func (r *Registry) Len() int { return len(r.order) }
