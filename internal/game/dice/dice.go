// Package dice provides the seeded randomness abstraction used by the arena
// combat engine. Every probability roll and damage variation draw consumes
// from a Source that is threaded explicitly through the call chain.
package dice

import "math"

// Source is the randomness provider for a single encounter.
//
// Implementations are NOT required to be safe for concurrent use; each
// encounter owns its Source exclusively.
type Source interface {
	// Float64 returns the next value in [0, 1).
	//
	// Postcondition: the returned value depends only on the seed and the
	// number of prior draws.
	Float64() float64
}

// Chance draws once from src and reports whether the draw fell below p.
// p <= 0 never succeeds and p >= 1 always succeeds, but a value is drawn
// in every case so the draw sequence does not depend on p.
//
// Precondition: src must be non-nil.
func Chance(src Source, p float64) bool {
	return src.Float64() < p
}

// Int draws once from src and returns an integer in [min, max].
//
// Precondition: src must be non-nil; min <= max.
// Postcondition: min <= result <= max.
func Int(src Source, min, max int) int {
	if max <= min {
		_ = src.Float64()
		return min
	}
	span := float64(max - min + 1)
	v := min + int(math.Floor(src.Float64()*span))
	if v > max {
		v = max
	}
	return v
}

// Between draws once from src and returns a float in [lo, hi).
//
// Precondition: src must be non-nil; lo <= hi.
func Between(src Source, lo, hi float64) float64 {
	return lo + src.Float64()*(hi-lo)
}

// Pick draws once from src and returns an index in [0, n).
//
// Precondition: n > 0. Panics with "dice: Pick called with n <= 0" otherwise.
func Pick(src Source, n int) int {
	if n <= 0 {
		panic("dice: Pick called with n <= 0")
	}
	return Int(src, 0, n-1)
}
