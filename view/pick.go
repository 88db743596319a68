package view

import (
	"github.com/golang/geo/r3"

	"github.com/seqsense/pcdmeasure/pcd"
)

// Ray is a half line from Origin along Direction.
type Ray struct {
	Origin    r3.Vector
	Direction r3.Vector
}

// PickNearestToRay returns the index of the point in front of the ray
// origin closest to the ray. Points farther than radius from the ray are
// ignored. Among points at a similar distance from the ray, nearer ones
// are preferred.
func PickNearestToRay(points pcd.PointSet, ray Ray, radius float64) (int, bool) {
	dir := ray.Direction.Normalize()
	if dir.Norm2() == 0 {
		return -1, false
	}

	dSqMax := radius * radius
	vMin := -1.0
	selected := -1
	for i, p := range points {
		pRel := p.Sub(ray.Origin)
		dot := pRel.Dot(dir)
		if dot <= 0 {
			continue
		}
		distSq := pRel.Norm2()
		dSq := distSq - dot*dot
		if dSq < 0 {
			dSq = 0
		}
		v := dSq + distSq/10000
		if dSq <= dSqMax && (selected < 0 || v < vMin) {
			vMin = v
			selected = i
		}
	}
	return selected, selected >= 0
}
