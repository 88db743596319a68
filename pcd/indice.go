package pcd

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/seqsense/pcgol/mat"
	"github.com/seqsense/pcgol/pc/filter/voxelgrid"
	"github.com/seqsense/pcgol/pc/storage/kdtree"
)

// Select returns the points at the given indices, in the order of indice.
func Select(ps PointSet, indice []int) PointSet {
	out := make(PointSet, len(indice))
	for j, i := range indice {
		out[j] = ps[i]
	}
	return out
}

// Downsample averages points falling into the same cubic voxel of the given
// leaf size. A non-positive leaf returns the input unchanged.
func Downsample(ps PointSet, leaf float64) (PointSet, error) {
	if leaf <= 0 || len(ps) == 0 {
		return ps, nil
	}
	pp, err := ToPointCloud(ps, nil)
	if err != nil {
		return nil, err
	}
	l := float32(leaf)
	filtered, err := voxelgrid.New(mat.Vec3{l, l, l}).Filter(pp)
	if err != nil {
		return nil, err
	}
	return FromPointCloud(filtered)
}

// Locator finds the stored point closest to a query position.
type Locator struct {
	ps      PointSet
	nearest func(mat.Vec3, float32) int
}

// NewLocator indexes ps for nearest point queries.
func NewLocator(ps PointSet) *Locator {
	if len(ps) == 0 {
		return &Locator{}
	}
	kdt := kdtree.New(ps.Vec3Slice())
	return &Locator{
		ps: ps,
		nearest: func(p mat.Vec3, r float32) int {
			return kdt.Nearest(p, r).ID
		},
	}
}

// Nearest returns the index of the point closest to p within maxRange.
// Non-finite queries find nothing.
func (l *Locator) Nearest(p r3.Vector, maxRange float64) (int, bool) {
	if len(l.ps) == 0 || !finite(p.X, p.Y, p.Z, maxRange) {
		return -1, false
	}
	id := l.nearest(Vec3(p), float32(maxRange))
	if id < 0 || id >= len(l.ps) {
		return -1, false
	}
	return id, true
}

func finite(fs ...float64) bool {
	for _, f := range fs {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}
