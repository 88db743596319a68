package pcd

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
)

var errNoPoint = errors.New("no point")

// MinMax returns the axis aligned bounding box of the set.
func MinMax(ps PointSet) (r3.Vector, r3.Vector, error) {
	if len(ps) == 0 {
		return r3.Vector{}, r3.Vector{}, errNoPoint
	}
	min := r3.Vector{X: math.Inf(1), Y: math.Inf(1), Z: math.Inf(1)}
	max := r3.Vector{X: math.Inf(-1), Y: math.Inf(-1), Z: math.Inf(-1)}
	for _, p := range ps {
		min.X, max.X = math.Min(min.X, p.X), math.Max(max.X, p.X)
		min.Y, max.Y = math.Min(min.Y, p.Y), math.Max(max.Y, p.Y)
		min.Z, max.Z = math.Min(min.Z, p.Z), math.Max(max.Z, p.Z)
	}
	return min, max, nil
}

// Centroid returns the mean of the points.
func Centroid(ps PointSet) (r3.Vector, error) {
	if len(ps) == 0 {
		return r3.Vector{}, errNoPoint
	}
	var sum r3.Vector
	for _, p := range ps {
		sum = sum.Add(p)
	}
	return sum.Mul(1 / float64(len(ps))), nil
}
