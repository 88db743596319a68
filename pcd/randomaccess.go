package pcd

import (
	"github.com/golang/geo/r3"
	"github.com/seqsense/pcgol/mat"
	"github.com/seqsense/pcgol/pc"
)

func vec(v [3]float64) r3.Vector {
	return r3.Vector{X: v[0], Y: v[1], Z: v[2]}
}

// Vec3 converts a point to the single precision vector used by pcgol.
func Vec3(v r3.Vector) mat.Vec3 {
	return mat.Vec3{float32(v.X), float32(v.Y), float32(v.Z)}
}

// FromVec3 converts a pcgol vector to a point.
func FromVec3(v mat.Vec3) r3.Vector {
	return r3.Vector{X: float64(v[0]), Y: float64(v[1]), Z: float64(v[2])}
}

// Vec3Slice returns a single precision copy of the set usable with pcgol
// storages.
func (s PointSet) Vec3Slice() pc.Vec3Slice {
	out := make(pc.Vec3Slice, len(s))
	for i, p := range s {
		out[i] = Vec3(p)
	}
	return out
}
