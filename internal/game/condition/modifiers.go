package condition

// Blocking returns the turn-skipping condition with the lowest Priority, or
// nil when the fighter may act. Ties keep application order.
func Blocking(s *ActiveSet) *ActiveCondition {
	var best *ActiveCondition
	for _, ac := range s.conditions {
		if !ac.Def.SkipsTurn {
			continue
		}
		if best == nil || ac.Def.Priority < best.Def.Priority {
			best = ac
		}
	}
	return best
}

// TickDamage returns the conditions that deal damage at turn start, in
// application order.
func TickDamage(s *ActiveSet) []*ActiveCondition {
	var out []*ActiveCondition
	for _, ac := range s.conditions {
		if ac.Def.TickDamage && ac.Power > 0 {
			out = append(out, ac)
		}
	}
	return out
}

// CanAct reports whether no turn-skipping condition is active.
func CanAct(s *ActiveSet) bool {
	return Blocking(s) == nil
}
