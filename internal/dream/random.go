// internal/dream/random.go
package dream

import (
	"math/rand/v2"
	"sync"
)

// RandomSource picks uniformly in [0, n). n is always > 0.
type RandomSource interface {
	IntN(n int) int
}

// lockedSource serializes access to a *rand.Rand so one source can back concurrent requests.
type lockedSource struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func (s *lockedSource) IntN(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.IntN(n)
}

// NewSeededSource returns a reproducible source: equal seeds yield equal sequences.
func NewSeededSource(seed uint64) RandomSource {
	return &lockedSource{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// NewEntropySource returns a source seeded from the runtime's entropy.
func NewEntropySource() RandomSource {
	return &lockedSource{rng: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))}
}
