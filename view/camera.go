package view

import (
	"math"

	"github.com/golang/geo/r3"
)

// DragButton is the mouse button held while dragging.
type DragButton int

const (
	DragRotate DragButton = iota
	DragPan
)

const (
	minPitch    = -math.Pi/2 + 0.01
	maxPitch    = math.Pi/2 - 0.01
	minDistance = 0.01
)

// Orbit is a perspective camera orbiting around Target with Z up.
type Orbit struct {
	Target     r3.Vector
	Yaw, Pitch float64
	Distance   float64
	// Fovy is the vertical field of view in degrees.
	Fovy float64

	dragging             bool
	button               DragButton
	xStart, yStart       float64
	yawStart, pitchStart float64
	targetStart          r3.Vector
}

// NewOrbit returns a camera looking at the box spanned by min and max.
func NewOrbit(min, max r3.Vector) *Orbit {
	o := &Orbit{
		Yaw:   -math.Pi / 2,
		Pitch: math.Pi / 6,
		Fovy:  45,
	}
	o.Fit(min, max)
	return o
}

// Fit moves the camera so that the box spanned by min and max is visible.
func (o *Orbit) Fit(min, max r3.Vector) {
	o.Target = min.Add(max).Mul(0.5)
	radius := max.Sub(min).Norm() / 2
	if radius < 0.5 {
		radius = 0.5
	}
	o.Distance = radius / math.Sin(o.fovyRad()/2)
}

func (o *Orbit) fovyRad() float64 {
	return o.Fovy * math.Pi / 180
}

// Position returns the camera position.
func (o *Orbit) Position() r3.Vector {
	sy, cy := math.Sincos(o.Yaw)
	sp, cp := math.Sincos(o.Pitch)
	return o.Target.Add(r3.Vector{X: cp * cy, Y: cp * sy, Z: sp}.Mul(o.Distance))
}

// Up returns the up vector of the world.
func (o *Orbit) Up() r3.Vector {
	return r3.Vector{Z: 1}
}

// basis returns forward, right and up unit vectors of the view.
func (o *Orbit) basis() (f, r, u r3.Vector) {
	f = o.Target.Sub(o.Position()).Normalize()
	r = f.Cross(o.Up()).Normalize()
	u = r.Cross(f)
	return f, r, u
}

// Ray returns the ray through the screen position (x, y) of a view of
// width x height pixels. The origin of screen coordinates is the top left.
func (o *Orbit) Ray(x, y, width, height float64) Ray {
	f, r, u := o.basis()
	t := math.Tan(o.fovyRad() / 2)
	aspect := width / height
	nx := 2*x/width - 1
	ny := 1 - 2*y/height
	return Ray{
		Origin:    o.Position(),
		Direction: f.Add(r.Mul(nx * t * aspect)).Add(u.Mul(ny * t)).Normalize(),
	}
}

// DragStart starts rotating or panning from the screen position (x, y).
func (o *Orbit) DragStart(x, y float64, b DragButton) {
	o.dragging = true
	o.button = b
	o.xStart, o.yStart = x, y
	o.yawStart, o.pitchStart = o.Yaw, o.Pitch
	o.targetStart = o.Target
}

// Drag updates the camera while dragging.
func (o *Orbit) Drag(x, y float64) {
	if !o.dragging {
		return
	}
	xDiff := x - o.xStart
	yDiff := y - o.yStart
	switch o.button {
	case DragRotate:
		o.Yaw = o.yawStart - 0.01*xDiff
		o.Pitch = clamp(o.pitchStart+0.01*yDiff, minPitch, maxPitch)
	case DragPan:
		o.Target = o.targetStart
		_, r, u := o.basis()
		s := o.Distance * 0.002
		o.Target = o.targetStart.Add(r.Mul(-xDiff * s)).Add(u.Mul(yDiff * s))
	}
}

// DragEnd finishes dragging at (x, y).
func (o *Orbit) DragEnd(x, y float64) {
	o.Drag(x, y)
	o.dragging = false
}

// Dragging reports whether a drag is in progress.
func (o *Orbit) Dragging() bool {
	return o.dragging
}

// Zoom moves the camera toward the target for positive d.
func (o *Orbit) Zoom(d float64) {
	o.Distance *= math.Pow(0.9, d)
	if o.Distance < minDistance {
		o.Distance = minDistance
	}
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
