package systems

import "math/rand/v2"

// Rand is the uniform source every rule draws from.
// *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	Float64() float64 // [0, 1)
	IntN(n int) int   // [0, n)
}

// NewRand returns a PCG generator seeded from seed.
func NewRand(seed int64) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed), 0))
}
