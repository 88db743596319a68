package sac

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"

	"github.com/seqsense/pcdmeasure/pcd"
)

// Squared sine of the smallest angle accepted between two edges of a
// sample triangle.
const collinearEpsilon = 1e-12

// Plane is a plane Ax + By + Cz + D = 0 with unit normal (A, B, C).
type Plane struct {
	A, B, C, D float64
}

// Normal returns (A, B, C).
func (p Plane) Normal() r3.Vector {
	return r3.Vector{X: p.A, Y: p.B, Z: p.C}
}

// Distance returns the signed distance from the plane to v.
func (p Plane) Distance(v r3.Vector) float64 {
	return p.A*v.X + p.B*v.Y + p.C*v.Z + p.D
}

func (p Plane) String() string {
	return fmt.Sprintf("%.2fx + %.2fy + %.2fz + %.2f = 0", p.A, p.B, p.C, p.D)
}

// canonical flips the plane so that the first non-zero normal component
// is positive. Negative zeros are cleared.
func (p Plane) canonical() Plane {
	for _, c := range []float64{p.A, p.B, p.C} {
		if c < 0 {
			p = Plane{A: -p.A, B: -p.B, C: -p.C, D: -p.D}
			break
		}
		if c > 0 {
			break
		}
	}
	return Plane{A: noNegZero(p.A), B: noNegZero(p.B), C: noNegZero(p.C), D: noNegZero(p.D)}
}

func noNegZero(f float64) float64 {
	if f == 0 {
		return 0
	}
	return f
}

func newPlane(n, p0 r3.Vector) (Plane, bool) {
	norm := n.Norm()
	if norm == 0 || math.IsNaN(norm) || math.IsInf(norm, 0) {
		return Plane{}, false
	}
	n = n.Mul(1 / norm)
	return Plane{A: n.X, B: n.Y, C: n.Z, D: -n.Dot(p0)}, true
}

// planeFrom3 returns the plane through three points. It fails if the
// points are coincident or collinear.
func planeFrom3(p0, p1, p2 r3.Vector) (Plane, bool) {
	v1, v2 := p1.Sub(p0), p2.Sub(p0)
	n := v1.Cross(v2)
	nn := n.Norm2()
	if nn == 0 || nn <= collinearEpsilon*v1.Norm2()*v2.Norm2() {
		return Plane{}, false
	}
	return newPlane(n, p0)
}

type planeModel struct {
	ps        pcd.PointSet
	threshold float64
	n         int
}

// NewPlaneModel returns a Model fitting planes to samples of n points of
// ps. Points within threshold of the plane are inliers.
func NewPlaneModel(ps pcd.PointSet, threshold float64, n int) Model {
	if n < 3 {
		n = 3
	}
	return &planeModel{ps: ps, threshold: threshold, n: n}
}

func (m *planeModel) NumRange() (min, max int) {
	return m.n, m.n
}

func (m *planeModel) Fit(ids []int) (ModelCoefficients, bool) {
	if len(ids) < 3 || hasDuplicate(ids) || !m.inRange(ids) {
		return nil, false
	}
	var (
		p  Plane
		ok bool
	)
	if len(ids) == 3 {
		p, ok = planeFrom3(m.ps[ids[0]], m.ps[ids[1]], m.ps[ids[2]])
	} else {
		p, ok = fitPlane(m.ps, ids)
	}
	if !ok {
		return nil, false
	}
	return &planeCoefficients{model: m, plane: p}, true
}

func (m *planeModel) inRange(ids []int) bool {
	for _, id := range ids {
		if id < 0 || id >= len(m.ps) {
			return false
		}
	}
	return true
}

func hasDuplicate(ids []int) bool {
	for i := 1; i < len(ids); i++ {
		for j := 0; j < i; j++ {
			if ids[i] == ids[j] {
				return true
			}
		}
	}
	return false
}

type planeCoefficients struct {
	model *planeModel
	plane Plane
}

func (c *planeCoefficients) Evaluate() int {
	var cnt int
	for _, p := range c.model.ps {
		if c.IsIn(p, c.model.threshold) {
			cnt++
		}
	}
	return cnt
}

func (c *planeCoefficients) Inliers(d float64) []int {
	var res []int
	for i, p := range c.model.ps {
		if c.IsIn(p, d) {
			res = append(res, i)
		}
	}
	return res
}

func (c *planeCoefficients) IsIn(p r3.Vector, d float64) bool {
	return math.Abs(c.plane.Distance(p)) <= d
}

// Plane returns the fitted plane.
func (c *planeCoefficients) Plane() Plane {
	return c.plane
}
