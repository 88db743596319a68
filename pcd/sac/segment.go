package sac

import (
	"math"
	"math/rand"

	"github.com/pkg/errors"

	"github.com/seqsense/pcdmeasure/pcd"
)

// Segmentation errors.
var (
	ErrInsufficientPoints = errors.New("insufficient points")
	ErrDegenerateInput    = errors.New("degenerate input")
	ErrInvalidParameter   = errors.New("invalid parameter")
)

// Options configures Segment.
type Options struct {
	// DistanceThreshold is the largest distance from the plane at which a
	// point is still an inlier.
	DistanceThreshold float64 `yaml:"distance_threshold"`
	// MinSample is the number of points drawn per trial.
	MinSample  int   `yaml:"min_sample"`
	Iterations int   `yaml:"iterations"`
	Seed       int64 `yaml:"seed"`
	// Refine refits the plane to the inliers by least squares.
	Refine bool `yaml:"refine"`
	// MaxDegenerate bounds rejected samples. Zero selects
	// 100 * Iterations with a minimum of 1000.
	MaxDegenerate int `yaml:"max_degenerate"`

	// Sampler overrides the seeded random sampler.
	Sampler Sampler `yaml:"-"`
}

// DefaultOptions returns the parameters used for wall extraction.
func DefaultOptions() Options {
	return Options{
		DistanceThreshold: 0.045,
		MinSample:         3,
		Iterations:        10000,
	}
}

// Validate checks the parameters.
func (o Options) Validate() error {
	switch {
	case o.DistanceThreshold <= 0:
		return errors.Wrapf(ErrInvalidParameter, "distance threshold %g", o.DistanceThreshold)
	case o.Iterations <= 0:
		return errors.Wrapf(ErrInvalidParameter, "iterations %d", o.Iterations)
	case o.MinSample < 3:
		return errors.Wrapf(ErrInvalidParameter, "min sample %d", o.MinSample)
	case o.MaxDegenerate < 0:
		return errors.Wrapf(ErrInvalidParameter, "max degenerate %d", o.MaxDegenerate)
	}
	return nil
}

func (o Options) maxDegenerate() int {
	if o.MaxDegenerate > 0 {
		return o.MaxDegenerate
	}
	if n := 100 * o.Iterations; n > 1000 {
		return n
	}
	return 1000
}

// Segment finds the plane supported by the largest number of points.
// Points within DistanceThreshold of the plane are the inliers of the
// returned partition.
func Segment(ps pcd.PointSet, opts Options) (Plane, pcd.Partition, error) {
	if err := opts.Validate(); err != nil {
		return Plane{}, pcd.Partition{}, err
	}
	if len(ps) < 3 || len(ps) < opts.MinSample {
		return Plane{}, pcd.Partition{}, errors.Wrapf(ErrInsufficientPoints,
			"%d points, %d required", len(ps), opts.MinSample)
	}

	sampler := opts.Sampler
	if sampler == nil {
		sampler = NewRandomSampler(rand.New(rand.NewSource(opts.Seed)), len(ps))
	}
	s := New(sampler, NewPlaneModel(ps, opts.DistanceThreshold, opts.MinSample))
	s.MaxDegenerate = opts.maxDegenerate()
	s.Target = len(ps)

	if ok := s.Compute(opts.Iterations); !ok {
		_, rejected := s.Stats()
		return Plane{}, pcd.Partition{}, errors.Wrapf(ErrDegenerateInput,
			"no plane found in %d samples", rejected)
	}

	plane := s.Coefficients().(*planeCoefficients).Plane()
	if opts.Refine {
		inliers := s.Coefficients().Inliers(opts.DistanceThreshold)
		if refined, ok := fitPlane(ps, inliers); ok {
			plane = refined
		}
	}
	plane = plane.canonical()

	part := pcd.NewPartition(len(ps), func(i int) bool {
		return math.Abs(plane.Distance(ps[i])) <= opts.DistanceThreshold
	})
	return plane, part, nil
}
