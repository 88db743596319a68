// Package sac implements sample consensus model fitting.
package sac

import (
	"github.com/golang/geo/r3"
)

type Sampler interface {
	Sample() int
}

type Model interface {
	NumRange() (min, max int)
	Fit([]int) (ModelCoefficients, bool)
}

type ModelCoefficients interface {
	Evaluate() int
	Inliers(float64) []int
	IsIn(r3.Vector, float64) bool
}

type SAC struct {
	Sampler Sampler
	Model   Model

	// MaxDegenerate bounds the number of samples rejected by Model.Fit.
	// Rejected samples don't count as iterations. Zero means unbounded.
	MaxDegenerate int
	// Target stops the search once a model scores at least Target.
	// Zero disables early exit.
	Target int

	bestCoeff  ModelCoefficients
	bestE      int
	iterations int
	degenerate int
}

func New(s Sampler, m Model) *SAC {
	return &SAC{Sampler: s, Model: m}
}

// Compute runs up to n iterations and keeps the model with the highest
// score. The first model found wins on a tie.
func (s *SAC) Compute(n int) bool {
	var bestCoeff ModelCoefficients
	var bestE int

	num, _ := s.Model.NumRange()
	ids := make([]int, num)

	s.iterations, s.degenerate = 0, 0
	for s.iterations < n {
		for j := 0; j < num; j++ {
			ids[j] = s.Sampler.Sample()
		}
		coeff, ok := s.Model.Fit(ids)
		if !ok {
			s.degenerate++
			if s.MaxDegenerate > 0 && s.degenerate >= s.MaxDegenerate {
				break
			}
			continue
		}
		s.iterations++
		e := coeff.Evaluate()
		if bestCoeff == nil || e > bestE {
			bestE = e
			bestCoeff = coeff
		}
		if s.Target > 0 && bestE >= s.Target {
			break
		}
	}
	if bestCoeff == nil {
		return false
	}
	s.bestCoeff = bestCoeff
	s.bestE = bestE
	return true
}

func (s *SAC) Coefficients() ModelCoefficients {
	return s.bestCoeff
}

// Score returns the score of the best model.
func (s *SAC) Score() int {
	return s.bestE
}

// Stats returns the number of evaluated and rejected samples of the last
// Compute call.
func (s *SAC) Stats() (iterations, degenerate int) {
	return s.iterations, s.degenerate
}
