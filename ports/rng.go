package ports

// RNGPort is the pseudo-random source a sampler draws from. *rand.Rand from
// math/rand satisfies it.
type RNGPort interface {
	// Float64 returns a uniform value in [0, 1)
	Float64() float64

	// Intn returns a uniform integer in [0, n); n must be positive
	Intn(n int) int
}
