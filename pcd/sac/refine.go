package sac

import (
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/seqsense/pcdmeasure/pcd"
)

// fitPlane returns the least squares plane of the indexed points: the plane
// through their centroid normal to the direction of least variance.
// It fails on fewer than three points or on collinear points.
func fitPlane(ps pcd.PointSet, ids []int) (Plane, bool) {
	if len(ids) < 3 {
		return Plane{}, false
	}
	x := mat.NewDense(len(ids), 3, nil)
	for r, i := range ids {
		x.Set(r, 0, ps[i].X)
		x.Set(r, 1, ps[i].Y)
		x.Set(r, 2, ps[i].Z)
	}
	var cov mat.SymDense
	stat.CovarianceMatrix(&cov, x, nil)

	var es mat.EigenSym
	if ok := es.Factorize(&cov, true); !ok {
		return Plane{}, false
	}
	// Ascending order.
	vals := es.Values(nil)
	if vals[2] <= 0 || vals[1] <= collinearEpsilon*vals[2] {
		return Plane{}, false
	}
	var vecs mat.Dense
	es.VectorsTo(&vecs)

	centroid, err := pcd.Centroid(pcd.Select(ps, ids))
	if err != nil {
		return Plane{}, false
	}
	n := vec(mat.Col(nil, 0, &vecs))
	return newPlane(n, centroid)
}

func vec(v []float64) r3.Vector {
	return r3.Vector{X: v[0], Y: v[1], Z: v[2]}
}
