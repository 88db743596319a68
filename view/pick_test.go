package view

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"

	"github.com/seqsense/pcdmeasure/pcd"
)

func TestPickNearestToRay(t *testing.T) {
	points := pcd.PointSet{
		{X: 0, Y: 0, Z: 0},
		{X: 5, Y: 0.02, Z: 0},
		{X: 10, Y: 0.01, Z: 0},
		{X: -3, Y: 0, Z: 0},
		{X: 5, Y: 2, Z: 0},
	}
	origin := r3.Vector{X: -1}

	testCases := map[string]struct {
		ray      Ray
		radius   float64
		expected int
		ok       bool
	}{
		"Front": {
			ray:      Ray{Origin: origin, Direction: r3.Vector{X: 1}},
			radius:   0.1,
			expected: 0,
			ok:       true,
		},
		"Unnormalized": {
			ray:      Ray{Origin: origin, Direction: r3.Vector{X: 20}},
			radius:   0.1,
			expected: 0,
			ok:       true,
		},
		"Behind": {
			ray:      Ray{Origin: origin, Direction: r3.Vector{X: -1}},
			radius:   0.1,
			expected: 3,
			ok:       true,
		},
		"Tilted": {
			ray:      Ray{Origin: origin, Direction: r3.Vector{X: 6, Y: 2}},
			radius:   0.1,
			expected: 4,
			ok:       true,
		},
		"Miss": {
			ray:    Ray{Origin: origin, Direction: r3.Vector{Z: 1}},
			radius: 0.1,
		},
		"ZeroDirection": {
			ray:    Ray{Origin: origin},
			radius: 0.1,
		},
	}
	for name, tt := range testCases {
		tt := tt
		t.Run(name, func(t *testing.T) {
			id, ok := PickNearestToRay(points, tt.ray, tt.radius)
			if ok != tt.ok {
				t.Fatalf("Expected found: %v, got: %v", tt.ok, ok)
			}
			if ok && id != tt.expected {
				t.Errorf("Expected index: %d, got: %d", tt.expected, id)
			}
		})
	}
}

func TestPickNearestToRay_PreferCloserToRay(t *testing.T) {
	points := pcd.PointSet{
		{X: 5, Y: 0.05},
		{X: 6, Y: 0.001},
	}
	id, ok := PickNearestToRay(points, Ray{Direction: r3.Vector{X: 1}}, 0.1)
	if !ok || id != 1 {
		t.Errorf("Expected index 1, got: %d, %v", id, ok)
	}
}

func TestOrbit_Ray(t *testing.T) {
	o := NewOrbit(r3.Vector{X: -1, Y: -1, Z: -1}, r3.Vector{X: 1, Y: 1, Z: 1})
	if o.Target != (r3.Vector{}) {
		t.Fatalf("Expected target at origin, got: %v", o.Target)
	}

	center := o.Ray(960, 540, 1920, 1080)
	toTarget := o.Target.Sub(o.Position()).Normalize()
	if d := center.Direction.Dot(toTarget); math.Abs(d-1) > 1e-9 {
		t.Errorf("Ray through the screen center must point at the target, got: %v", center.Direction)
	}
	if center.Origin != o.Position() {
		t.Errorf("Ray must start at the camera position, got: %v", center.Origin)
	}

	_, r, u := o.basis()
	right := o.Ray(1920, 540, 1920, 1080)
	if right.Direction.Dot(r) <= 0 {
		t.Errorf("Ray through the right edge must point right, got: %v", right.Direction)
	}
	top := o.Ray(960, 0, 1920, 1080)
	if top.Direction.Dot(u) <= 0 {
		t.Errorf("Ray through the top edge must point up, got: %v", top.Direction)
	}
	// Vertical half angle matches the field of view.
	if a := math.Acos(top.Direction.Dot(center.Direction)) * 180 / math.Pi; math.Abs(a-o.Fovy/2) > 1e-9 {
		t.Errorf("Expected angle %g, got: %g", o.Fovy/2, a)
	}
}

func TestOrbit_Pick(t *testing.T) {
	points := pcd.PointSet{{X: 0.5, Y: 0.5, Z: 0.5}, {X: -0.5, Y: -0.5, Z: -0.5}}
	o := NewOrbit(points[1], points[0])

	id, ok := PickNearestToRay(points, o.Ray(50, 50, 100, 100), 0.05)
	if ok {
		t.Fatalf("Center of the box must not hit any point, got: %d", id)
	}

	o.Target = points[1]
	id, ok = PickNearestToRay(points, o.Ray(50, 50, 100, 100), 0.05)
	if !ok || id != 1 {
		t.Errorf("Expected index 1, got: %d, %v", id, ok)
	}
}

func TestOrbit_Drag(t *testing.T) {
	o := &Orbit{Distance: 10, Fovy: 45}

	o.DragStart(100, 100, DragRotate)
	if !o.Dragging() {
		t.Fatal("Orbit must be dragging")
	}
	o.Drag(150, 120)
	if math.Abs(o.Yaw-(-0.5)) > 1e-9 || math.Abs(o.Pitch-0.2) > 1e-9 {
		t.Errorf("Expected yaw -0.5 and pitch 0.2, got: %g, %g", o.Yaw, o.Pitch)
	}
	o.DragEnd(100, 100)
	if o.Yaw != 0 || o.Pitch != 0 {
		t.Errorf("Dragging back must restore the angle, got: %g, %g", o.Yaw, o.Pitch)
	}
	o.Drag(500, 500)
	if o.Yaw != 0 {
		t.Error("Drag after DragEnd must be ignored")
	}

	o.DragStart(0, 0, DragRotate)
	o.DragEnd(0, -1000)
	if o.Pitch != minPitch {
		t.Errorf("Pitch must be clamped, got: %g", o.Pitch)
	}

	o.Pitch = 0
	o.DragStart(0, 0, DragPan)
	o.DragEnd(100, 0)
	if o.Target.Z != 0 || o.Target.Norm() == 0 {
		t.Errorf("Horizontal pan must move the target horizontally, got: %v", o.Target)
	}
	if math.Abs(o.Distance-10) > 1e-9 {
		t.Errorf("Pan must keep the distance, got: %g", o.Distance)
	}
}

func TestOrbit_Zoom(t *testing.T) {
	o := &Orbit{Distance: 10}
	o.Zoom(1)
	if math.Abs(o.Distance-9) > 1e-9 {
		t.Errorf("Expected distance 9, got: %g", o.Distance)
	}
	o.Zoom(-1)
	if math.Abs(o.Distance-10) > 1e-9 {
		t.Errorf("Expected distance 10, got: %g", o.Distance)
	}
	o.Zoom(1000)
	if o.Distance != minDistance {
		t.Errorf("Distance must be clamped, got: %g", o.Distance)
	}
}

func TestBounds(t *testing.T) {
	min, max, ok := Bounds(
		Layer{Points: pcd.PointSet{{X: 1, Y: 2, Z: 3}}},
		Layer{},
		Layer{Points: pcd.PointSet{{X: -1, Y: 5, Z: 0}, {X: 0, Y: 0, Z: 9}}},
	)
	if !ok {
		t.Fatal("Bounds must be found")
	}
	if expected := (r3.Vector{X: -1, Y: 0, Z: 0}); min != expected {
		t.Errorf("Expected min: %v, got: %v", expected, min)
	}
	if expected := (r3.Vector{X: 1, Y: 5, Z: 9}); max != expected {
		t.Errorf("Expected max: %v, got: %v", expected, max)
	}
	if _, _, ok := Bounds(Layer{}); ok {
		t.Error("Empty layers must not have bounds")
	}
}
