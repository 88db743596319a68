package sac

import (
	"math"
	"reflect"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"github.com/seqsense/pcdmeasure/pcd"
)

// sequenceSampler returns the given indices in order, repeating the last
// len(loop) of them once exhausted.
type sequenceSampler struct {
	seq  []int
	loop int
	i    int
}

func (s *sequenceSampler) Sample() int {
	if s.i >= len(s.seq) {
		s.i = len(s.seq) - s.loop
	}
	v := s.seq[s.i]
	s.i++
	return v
}

func tiltedPlane() (pcd.PointSet, r3.Vector) {
	var ps pcd.PointSet
	for i := 0; i < 8; i++ {
		for j := 0; j < 8; j++ {
			x, y := float64(i)*0.15, float64(j)*0.15
			ps = append(ps, r3.Vector{X: x, Y: y, Z: 0.5*x + 0.2*y + 1})
		}
	}
	ps = append(ps,
		r3.Vector{X: 0.3, Y: 0.4, Z: 3.0},
		r3.Vector{X: 1.2, Y: -0.5, Z: 0.0},
		r3.Vector{X: -0.8, Y: 0.9, Z: 2.5},
		r3.Vector{X: 0.5, Y: 0.5, Z: -1.0},
		r3.Vector{X: 2.0, Y: 2.0, Z: 0.5},
		r3.Vector{X: 0.1, Y: 1.5, Z: 4.0},
		r3.Vector{X: -1.0, Y: -1.0, Z: 3.0},
		r3.Vector{X: 1.5, Y: 0.2, Z: -0.5},
	)
	return ps, r3.Vector{X: 0.5, Y: 0.2, Z: -1}.Normalize()
}

func sequence(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func TestSegment(t *testing.T) {
	ps, normal := tiltedPlane()

	for _, seed := range []int64{0, 1, 2, 3, 42} {
		opts := DefaultOptions()
		opts.Iterations = 200
		opts.Seed = seed

		plane, part, err := Segment(ps, opts)
		if err != nil {
			t.Fatalf("Seed %d: %v", seed, err)
		}
		if d := math.Abs(plane.Normal().Dot(normal)); d < 1-1e-9 {
			t.Errorf("Seed %d: normal %v is not parallel to %v", seed, plane.Normal(), normal)
		}
		if math.Abs(plane.Normal().Norm()-1) > 1e-9 {
			t.Errorf("Seed %d: normal must be unit length, got: %v", seed, plane.Normal())
		}
		if plane.A <= 0 {
			t.Errorf("Seed %d: first normal component must be positive, got: %v", seed, plane)
		}
		if expected := sequence(64); !reflect.DeepEqual(expected, part.Inliers) {
			t.Errorf("Seed %d: expected inliers: %v, got: %v", seed, expected, part.Inliers)
		}
		if err := part.Validate(len(ps)); err != nil {
			t.Errorf("Seed %d: %v", seed, err)
		}
	}
}

func TestSegment_Deterministic(t *testing.T) {
	ps, _ := tiltedPlane()
	opts := DefaultOptions()
	opts.Iterations = 50
	opts.Seed = 12345

	p1, part1, err := Segment(ps, opts)
	if err != nil {
		t.Fatal(err)
	}
	p2, part2, err := Segment(ps, opts)
	if err != nil {
		t.Fatal(err)
	}
	if p1 != p2 {
		t.Errorf("Same seed must give the same plane, got: %v and %v", p1, p2)
	}
	if !reflect.DeepEqual(part1, part2) {
		t.Errorf("Same seed must give the same partition, got: %v and %v", part1, part2)
	}
}

func TestSegment_Errors(t *testing.T) {
	line := pcd.PointSet{}
	for i := 0; i < 10; i++ {
		line = append(line, r3.Vector{X: float64(i), Y: 2 * float64(i), Z: 1})
	}
	same := pcd.PointSet{{X: 1, Y: 1, Z: 1}, {X: 1, Y: 1, Z: 1}, {X: 1, Y: 1, Z: 1}, {X: 1, Y: 1, Z: 1}}

	withOpts := func(fn func(*Options)) Options {
		o := DefaultOptions()
		o.Iterations = 10
		fn(&o)
		return o
	}

	testCases := map[string]struct {
		ps       pcd.PointSet
		opts     Options
		expected error
	}{
		"Empty": {
			ps:       nil,
			opts:     withOpts(func(*Options) {}),
			expected: ErrInsufficientPoints,
		},
		"TwoPoints": {
			ps:       pcd.PointSet{{X: 1}, {Y: 1}},
			opts:     withOpts(func(*Options) {}),
			expected: ErrInsufficientPoints,
		},
		"FewerThanSample": {
			ps:       pcd.PointSet{{X: 1}, {Y: 1}, {Z: 1}},
			opts:     withOpts(func(o *Options) { o.MinSample = 4 }),
			expected: ErrInsufficientPoints,
		},
		"Collinear": {
			ps:       line,
			opts:     withOpts(func(*Options) {}),
			expected: ErrDegenerateInput,
		},
		"Coincident": {
			ps:       same,
			opts:     withOpts(func(o *Options) { o.MaxDegenerate = 50 }),
			expected: ErrDegenerateInput,
		},
		"ZeroThreshold": {
			ps:       line,
			opts:     withOpts(func(o *Options) { o.DistanceThreshold = 0 }),
			expected: ErrInvalidParameter,
		},
		"ZeroIterations": {
			ps:       line,
			opts:     withOpts(func(o *Options) { o.Iterations = 0 }),
			expected: ErrInvalidParameter,
		},
		"SmallSample": {
			ps:       line,
			opts:     withOpts(func(o *Options) { o.MinSample = 2 }),
			expected: ErrInvalidParameter,
		},
	}
	for name, tt := range testCases {
		tt := tt
		t.Run(name, func(t *testing.T) {
			_, _, err := Segment(tt.ps, tt.opts)
			if !errors.Is(err, tt.expected) {
				t.Errorf("Expected error: %v, got: %v", tt.expected, err)
			}
		})
	}
}

func TestSegment_Tie(t *testing.T) {
	ps := pcd.PointSet{
		{X: 0, Y: 0, Z: 0},
		{X: 1, Y: 0, Z: 0},
		{X: 0, Y: 1, Z: 0},
		{X: 5, Y: 0, Z: 3},
		{X: 5, Y: 1, Z: 3},
		{X: 5, Y: 0, Z: 4},
	}
	testCases := map[string]struct {
		seq      []int
		expected Plane
		inliers  []int
	}{
		"GroundFirst": {
			seq:      []int{0, 1, 2, 3, 4, 5},
			expected: Plane{A: 0, B: 0, C: 1, D: 0},
			inliers:  []int{0, 1, 2},
		},
		"WallFirst": {
			seq:      []int{3, 4, 5, 0, 1, 2},
			expected: Plane{A: 1, B: 0, C: 0, D: -5},
			inliers:  []int{3, 4, 5},
		},
	}
	for name, tt := range testCases {
		tt := tt
		t.Run(name, func(t *testing.T) {
			opts := DefaultOptions()
			opts.Iterations = 2
			opts.Sampler = &sequenceSampler{seq: tt.seq, loop: 3}
			plane, part, err := Segment(ps, opts)
			if err != nil {
				t.Fatal(err)
			}
			if plane != tt.expected {
				t.Errorf("Expected plane: %v, got: %v", tt.expected, plane)
			}
			if !reflect.DeepEqual(tt.inliers, part.Inliers) {
				t.Errorf("Expected inliers: %v, got: %v", tt.inliers, part.Inliers)
			}
		})
	}
}

func TestSegment_InclusiveThreshold(t *testing.T) {
	ps := pcd.PointSet{
		{X: 0, Y: 0, Z: 0},
		{X: 1, Y: 0, Z: 0},
		{X: 0, Y: 1, Z: 0},
		{X: 3, Y: 3, Z: 0.5},
		{X: 3, Y: 3, Z: -0.75},
	}
	opts := DefaultOptions()
	opts.DistanceThreshold = 0.5
	opts.Iterations = 1
	opts.Sampler = &sequenceSampler{seq: []int{0, 1, 2}, loop: 3}

	_, part, err := Segment(ps, opts)
	if err != nil {
		t.Fatal(err)
	}
	if expected := []int{0, 1, 2, 3}; !reflect.DeepEqual(expected, part.Inliers) {
		t.Errorf("Expected inliers: %v, got: %v", expected, part.Inliers)
	}
	if expected := []int{4}; !reflect.DeepEqual(expected, part.Outliers) {
		t.Errorf("Expected outliers: %v, got: %v", expected, part.Outliers)
	}
}

func TestSegment_Refine(t *testing.T) {
	var ps pcd.PointSet
	for i := 0; i < 8; i++ {
		for j := 0; j < 8; j++ {
			noise := 0.01
			if (i+j)%2 == 1 {
				noise = -0.01
			}
			ps = append(ps, r3.Vector{X: float64(i) * 0.15, Y: float64(j) * 0.15, Z: noise})
		}
	}
	ps = append(ps, r3.Vector{X: 0.5, Y: 0.5, Z: 1}, r3.Vector{X: 0.2, Y: 0.7, Z: -1})

	opts := DefaultOptions()
	opts.Iterations = 100
	opts.Seed = 7
	opts.Refine = true

	plane, part, err := Segment(ps, opts)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(plane.C) < 0.999 {
		t.Errorf("Refined normal must be close to Z axis, got: %v", plane.Normal())
	}
	if expected := sequence(64); !reflect.DeepEqual(expected, part.Inliers) {
		t.Errorf("Expected inliers: %v, got: %v", expected, part.Inliers)
	}
}

func TestSAC(t *testing.T) {
	ps, _ := tiltedPlane()
	m := NewPlaneModel(ps, 0.045, 3)

	s := New(&sequenceSampler{seq: []int{0, 0, 1, 64, 65, 66, 0, 1, 8}, loop: 3}, m)
	s.Target = len(ps)
	if ok := s.Compute(3); !ok {
		t.Fatal("SAC.Compute should succeed")
	}
	if it, deg := s.Stats(); it != 3 || deg != 1 {
		t.Errorf("Expected 3 iterations and 1 rejected sample, got: %d, %d", it, deg)
	}
	if s.Score() != 64 {
		t.Errorf("Expected score 64, got: %d", s.Score())
	}

	indice := s.Coefficients().Inliers(0.045)
	if expected := sequence(64); !reflect.DeepEqual(expected, indice) {
		t.Errorf("Expected inlier: %v, got: %v", expected, indice)
	}
}

func TestSAC_Target(t *testing.T) {
	ps := pcd.PointSet{{X: 0}, {X: 1}, {Y: 1}, {X: 1, Y: 1}}
	s := New(NewRandomSampler(nil, len(ps)), NewPlaneModel(ps, 0.01, 3))
	s.Target = len(ps)
	if ok := s.Compute(1000); !ok {
		t.Fatal("SAC.Compute should succeed")
	}
	if it, _ := s.Stats(); it != 1 {
		t.Errorf("Search must stop once every point is an inlier, got %d iterations", it)
	}
}

func TestSAC_MaxDegenerate(t *testing.T) {
	ps := pcd.PointSet{{X: 0}, {X: 1}, {X: 2}}
	s := New(NewRandomSampler(nil, len(ps)), NewPlaneModel(ps, 0.01, 3))
	s.MaxDegenerate = 20
	if ok := s.Compute(10); ok {
		t.Fatal("SAC.Compute must fail on collinear points")
	}
	if it, deg := s.Stats(); it != 0 || deg != 20 {
		t.Errorf("Expected 0 iterations and 20 rejected samples, got: %d, %d", it, deg)
	}
}

func TestSAC_OutOfRangeSample(t *testing.T) {
	ps, _ := tiltedPlane()
	m := NewPlaneModel(ps, 0.045, 3)

	testCases := map[string][]int{
		"TooLarge": {0, 1, len(ps), 0, 1, 8},
		"Negative": {-1, 1, 8, 0, 1, 8},
	}
	for name, seq := range testCases {
		seq := seq
		t.Run(name, func(t *testing.T) {
			s := New(&sequenceSampler{seq: seq, loop: 3}, m)
			if ok := s.Compute(1); !ok {
				t.Fatal("SAC.Compute should succeed")
			}
			if it, deg := s.Stats(); it != 1 || deg != 1 {
				t.Errorf("Expected 1 iteration and 1 rejected sample, got: %d, %d", it, deg)
			}
			if s.Score() != 64 {
				t.Errorf("Expected 64 inliers, got: %d", s.Score())
			}
		})
	}

	t.Run("Segment", func(t *testing.T) {
		opts := DefaultOptions()
		opts.Iterations = 1
		opts.MaxDegenerate = 5
		opts.Sampler = &sequenceSampler{seq: []int{len(ps), len(ps) + 1, len(ps) + 2}, loop: 3}
		if _, _, err := Segment(ps, opts); !errors.Is(err, ErrDegenerateInput) {
			t.Errorf("Expected %v, got: %v", ErrDegenerateInput, err)
		}
	})
}
