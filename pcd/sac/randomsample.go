package sac

import (
	"math/rand"
)

// NewRandomSampler returns a Sampler drawing uniformly from [0, n).
// r may be nil to use the global source.
func NewRandomSampler(r *rand.Rand, n int) Sampler {
	if n < 0x8000000 {
		return &randomSampler31{r, int32(n)}
	}
	return &randomSampler63{r, int64(n)}
}

type randomSampler31 struct {
	r *rand.Rand
	n int32
}

func (s *randomSampler31) Sample() int {
	if s.r == nil {
		return int(rand.Int31n(s.n))
	}
	return int(s.r.Int31n(s.n))
}

type randomSampler63 struct {
	r *rand.Rand
	n int64
}

func (s *randomSampler63) Sample() int {
	if s.r == nil {
		return int(rand.Int63n(s.n))
	}
	return int(s.r.Int63n(s.n))
}
