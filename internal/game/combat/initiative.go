package combat

import (
	"github.com/cory-johannsen/arena/internal/game/condition"
	"github.com/cory-johannsen/arena/internal/game/dice"
	"github.com/cory-johannsen/arena/internal/game/formula"
)

// Schedule returns the fighter indices in acting order for one round.
//
// Both initiatives are always computed, so the draw count does not depend on
// fighter state. Lower initiative acts first; a dead fighter or one held by a
// turn-skipping condition is ordered last. An exact tie consumes one more
// draw: below 0.5 keeps index order.
//
// Precondition: adapter and src must be non-nil.
// Postcondition: returns a permutation of {0, 1}.
func Schedule(adapter formula.Adapter, src dice.Source, fighters [2]*Fighter) [2]int {
	var init [2]float64
	var ready [2]bool
	for i, f := range fighters {
		init[i] = adapter.Initiative(&f.Stats, src)
		ready[i] = f.Alive() && condition.CanAct(f.Conditions)
	}
	switch {
	case ready[0] && !ready[1]:
		return [2]int{0, 1}
	case ready[1] && !ready[0]:
		return [2]int{1, 0}
	case init[0] < init[1]:
		return [2]int{0, 1}
	case init[1] < init[0]:
		return [2]int{1, 0}
	case src.Float64() < 0.5:
		return [2]int{0, 1}
	default:
		return [2]int{1, 0}
	}
}
