package problemgen

import "math/rand/v2"

// Rand is the source of randomness used by the generator and planner.
// *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	// IntN returns a uniform integer in [0, n). n must be > 0.
	IntN(n int) int
}

// NewRand returns a deterministic source seeded with seed.
func NewRand(seed uint64) Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// GlobalRand returns a source backed by the process-global generator.
func GlobalRand() Rand {
	return globalRand{}
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// Shuffle returns a uniformly shuffled copy of s (Fisher-Yates).
func Shuffle[T any](rng Rand, s []T) []T {
	out := make([]T, len(s))
	copy(out, s)
	for i := len(out) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}
