package condition

import "fmt"

// ActiveCondition tracks one applied condition on a fighter.
type ActiveCondition struct {
	Def               *ConditionDef
	Stacks            int
	DurationRemaining int // turns; -1 = permanent
	// Power is the per-turn magnitude (poison damage).
	Power int
	// Source is the ID of the skill that applied the condition.
	Source string
}

// ActiveSet tracks all conditions currently applied to one fighter, in
// application order so that iteration is deterministic.
// It is not safe for concurrent use; the caller must serialise access.
type ActiveSet struct {
	conditions []*ActiveCondition
}

// NewActiveSet creates an empty ActiveSet.
func NewActiveSet() *ActiveSet {
	return &ActiveSet{}
}

func (s *ActiveSet) find(id string) (int, *ActiveCondition) {
	for i, ac := range s.conditions {
		if ac.Def.ID == id {
			return i, ac
		}
	}
	return -1, nil
}

// Apply adds or updates a condition on this fighter.
// If the condition is already present, stacks are incremented (capped at
// MaxStacks), duration is extended to max(existing, duration) and power to
// max(existing, power). If MaxStacks == 0 (unstackable), stacks is always 1.
//
// Precondition: def must not be nil.
// Postcondition: Has(def.ID) is true.
func (s *ActiveSet) Apply(def *ConditionDef, stacks, duration, power int, source string) error {
	if def == nil {
		return fmt.Errorf("Apply: def must not be nil")
	}

	if _, existing := s.find(def.ID); existing != nil {
		if def.MaxStacks > 0 {
			existing.Stacks = min(existing.Stacks+stacks, def.MaxStacks)
		}
		if existing.DurationRemaining >= 0 && (duration < 0 || duration > existing.DurationRemaining) {
			existing.DurationRemaining = duration
		}
		if power > existing.Power {
			existing.Power = power
		}
		existing.Source = source
		return nil
	}

	effective := stacks
	if def.MaxStacks == 0 {
		effective = 1
	} else if effective > def.MaxStacks {
		effective = def.MaxStacks
	}
	s.conditions = append(s.conditions, &ActiveCondition{
		Def:               def,
		Stacks:            effective,
		DurationRemaining: duration,
		Power:             power,
		Source:            source,
	})
	return nil
}

// Remove deletes the condition with the given ID from the set.
// If the condition is not present, Remove is a no-op.
//
// Postcondition: Has(id) is false.
func (s *ActiveSet) Remove(id string) {
	if i, _ := s.find(id); i >= 0 {
		s.conditions = append(s.conditions[:i], s.conditions[i+1:]...)
	}
}

// Consume decrements the remaining duration of condition id by one turn and
// removes it when it reaches zero. Permanent conditions are unaffected.
//
// Postcondition: returns true iff the condition was present and expired.
func (s *ActiveSet) Consume(id string) bool {
	_, ac := s.find(id)
	if ac == nil || ac.DurationRemaining < 0 {
		return false
	}
	ac.DurationRemaining--
	if ac.DurationRemaining <= 0 {
		s.Remove(id)
		return true
	}
	return false
}

// Has reports whether the condition with id is currently active.
func (s *ActiveSet) Has(id string) bool {
	_, ac := s.find(id)
	return ac != nil
}

// Get returns the active condition id, or nil.
func (s *ActiveSet) Get(id string) *ActiveCondition {
	_, ac := s.find(id)
	return ac
}

// Stacks returns the current stack count for condition id, or 0 if not present.
func (s *ActiveSet) Stacks(id string) int {
	if _, ac := s.find(id); ac != nil {
		return ac.Stacks
	}
	return 0
}

// Len returns the number of active conditions.
func (s *ActiveSet) Len() int { return len(s.conditions) }

// All returns the active conditions in application order.
// The slice is a new allocation but the pointed-to values are shared;
// callers must not modify them.
func (s *ActiveSet) All() []*ActiveCondition {
	out := make([]*ActiveCondition, len(s.conditions))
	copy(out, s.conditions)
	return out
}

// Clone returns a deep copy of s. Definitions are shared.
func (s *ActiveSet) Clone() *ActiveSet {
	out := &ActiveSet{conditions: make([]*ActiveCondition, len(s.conditions))}
	for i, ac := range s.conditions {
		cp := *ac
		out.conditions[i] = &cp
	}
	return out
}
