package gamemode

import (
	"errors"
	"math/rand"
	"time"

	"pokequiz/internal/assets"
)

var (
	// ErrEmptyPool means there is nothing to draw from; a round cannot start.
	ErrEmptyPool = errors.New("pokemon pool is empty")

	// ErrPoolExhausted means every entry of the pool is excluded. The caller
	// clears its exclusion set and draws again.
	ErrPoolExhausted = errors.New("every pokemon in the pool has been drawn")
)

// Sampler draws entries uniformly at random from a pool, skipping excluded identifiers.
type Sampler struct {
	rng *rand.Rand
}

// NewSampler returns a sampler using rng. A nil rng is seeded from the wall clock.
func NewSampler(rng *rand.Rand) *Sampler {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Sampler{rng: rng}
}

// Draw picks one entry of pool whose identifier is not in excluded. The returned
// pointer refers into pool; it is never a copy.
func (s *Sampler) Draw(pool []assets.Entry, excluded map[string]bool) (*assets.Entry, error) {
	if len(pool) == 0 {
		return nil, ErrEmptyPool
	}

	eligible := make([]int, 0, len(pool))
	for i := range pool {
		if !excluded[pool[i].ID] {
			eligible = append(eligible, i)
		}
	}
	if len(eligible) == 0 {
		return nil, ErrPoolExhausted
	}

	return &pool[eligible[s.rng.Intn(len(eligible))]], nil
}
