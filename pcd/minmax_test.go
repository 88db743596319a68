package pcd

import (
	"testing"

	"github.com/golang/geo/r3"
)

func TestMinMax(t *testing.T) {
	ps := PointSet{
		{X: 10.1, Y: -20.2, Z: 3.3},
		{X: 1.1, Y: 2.2, Z: 4.3},
		{X: 15.1, Y: 21.2, Z: 0.3},
	}

	expectedMin := r3.Vector{X: 1.1, Y: -20.2, Z: 0.3}
	expectedMax := r3.Vector{X: 15.1, Y: 21.2, Z: 4.3}

	min, max, err := MinMax(ps)
	if err != nil {
		t.Fatal(err)
	}
	if min != expectedMin {
		t.Errorf("Expected min: %v, got: %v", expectedMin, min)
	}
	if max != expectedMax {
		t.Errorf("Expected max: %v, got: %v", expectedMax, max)
	}

	if _, _, err := MinMax(nil); err == nil {
		t.Error("MinMax of empty set must fail")
	}
}

func TestCentroid(t *testing.T) {
	c, err := Centroid(PointSet{{X: 1, Y: 2, Z: 3}, {X: 3, Y: 4, Z: 5}})
	if err != nil {
		t.Fatal(err)
	}
	if expected := (r3.Vector{X: 2, Y: 3, Z: 4}); c != expected {
		t.Errorf("Expected centroid: %v, got: %v", expected, c)
	}

	if _, err := Centroid(PointSet{}); err == nil {
		t.Error("Centroid of empty set must fail")
	}
}
