package randutil

import rand "math/rand/v2"

const (
	goldenRatio64 = 0x9e3779b97f4a7c15
)

// New returns a *rand.Rand seeded deterministically from the provided int64.
// Both PCG seeds are derived from it so every call site gets reproducible
// sequences.
func New(seed int64) *rand.Rand {
	u := uint64(seed)
	return rand.New(rand.NewPCG(mix(u), mix(u+goldenRatio64)))
}

// Derive returns a child seed for stream n of a parent seed. Tables in a
// simulation each shuffle from their own stream, so adding a table does not
// change the cards dealt at the others.
func Derive(seed int64, n int) int64 {
	return int64(mix(uint64(seed) ^ mix(uint64(n)+goldenRatio64)))
}

// Random returns a *rand.Rand seeded from the runtime's entropy
func Random() *rand.Rand {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
