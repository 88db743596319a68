// Package pcd loads XYZ point sets and holds the value types shared by the
// segmenter, the viewers and the measurement calculator.
package pcd

import (
	"fmt"
	"sort"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
)

// PointSet is an ordered sequence of points. Indices are stable and used to
// refer to points from partitions and selections.
type PointSet []r3.Vector

// Equal reports whether both sets hold exactly the same coordinates in the
// same order.
func (s PointSet) Equal(a PointSet) bool {
	if len(s) != len(a) {
		return false
	}
	for i := range s {
		if s[i] != a[i] {
			return false
		}
	}
	return true
}

// Partition splits indices of a PointSet into inliers and outliers.
// Both slices are in ascending order.
type Partition struct {
	Inliers  []int
	Outliers []int
}

// NewPartition classifies every index in [0, n) with fn.
func NewPartition(n int, fn func(int) bool) Partition {
	var p Partition
	for i := 0; i < n; i++ {
		if fn(i) {
			p.Inliers = append(p.Inliers, i)
		} else {
			p.Outliers = append(p.Outliers, i)
		}
	}
	return p
}

var errInvalidPartition = errors.New("invalid partition")

// Validate checks that the partition covers [0, n) exactly once.
func (p Partition) Validate(n int) error {
	if len(p.Inliers)+len(p.Outliers) != n {
		return errors.Wrapf(errInvalidPartition,
			"%d inliers + %d outliers != %d points", len(p.Inliers), len(p.Outliers), n)
	}
	seen := make([]bool, n)
	for _, ids := range [][]int{p.Inliers, p.Outliers} {
		if !sort.IntsAreSorted(ids) {
			return errors.Wrap(errInvalidPartition, "indices are not sorted")
		}
		for _, i := range ids {
			if i < 0 || i >= n {
				return errors.Wrapf(errInvalidPartition, "index %d out of range", i)
			}
			if seen[i] {
				return errors.Wrapf(errInvalidPartition, "index %d appears twice", i)
			}
			seen[i] = true
		}
	}
	return nil
}

// PickedPoint is a point chosen by the user on an interactive view.
type PickedPoint struct {
	Index int
	Point r3.Vector
}

func (p PickedPoint) String() string {
	return fmt.Sprintf("%d [%g %g %g]", p.Index, p.Point.X, p.Point.Y, p.Point.Z)
}

// Selection is a sequence of picked points in pick order.
type Selection []PickedPoint

// Points returns coordinates of the selection.
func (s Selection) Points() PointSet {
	out := make(PointSet, len(s))
	for i, p := range s {
		out[i] = p.Point
	}
	return out
}

// Validate checks that all indices reference the given PointSet and that
// coordinates match.
func (s Selection) Validate(points PointSet) error {
	for _, p := range s {
		if p.Index < 0 || p.Index >= len(points) {
			return errors.Errorf("picked index %d out of range [0, %d)", p.Index, len(points))
		}
		if points[p.Index] != p.Point {
			return errors.Errorf("picked point %v does not match point %d", p, p.Index)
		}
	}
	return nil
}
