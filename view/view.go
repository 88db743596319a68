// Package view defines how point sets are shown to the user and how points
// are picked from them.
package view

import (
	"context"

	"github.com/golang/geo/r3"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/pkg/errors"

	"github.com/seqsense/pcdmeasure/pcd"
)

// ErrPickUnsupported is returned when the selected renderer can't pick points.
var ErrPickUnsupported = errors.New("picking is not supported by the renderer")

// Color of a layer.
type Color = colorful.Color

// Layer colours.
var (
	Blue      = Color{R: 0, G: 0, B: 1}
	Red       = Color{R: 1, G: 0, B: 0}
	Gray      = Color{R: 0.6, G: 0.6, B: 0.6}
	Highlight = Color{R: 1, G: 0.85, B: 0}
)

// Layer is a point set drawn with a single colour.
type Layer struct {
	Name   string
	Points pcd.PointSet
	Color  Color
}

// Renderer shows layers of points and blocks until the view is closed or
// ctx is done.
type Renderer interface {
	Display(ctx context.Context, title string, layers ...Layer) error
}

// Picker shows points and returns the points picked by the user in pick
// order. Closing the view or cancelling ctx returns what has been picked
// so far.
type Picker interface {
	DisplayWithSelection(ctx context.Context, title string, points pcd.PointSet) (pcd.Selection, error)
}

// PickerOf returns r as a Picker.
func PickerOf(r Renderer) (Picker, error) {
	p, ok := r.(Picker)
	if !ok {
		return nil, ErrPickUnsupported
	}
	return p, nil
}

// Bounds returns the bounding box of all layers. ok is false if there is
// no point.
func Bounds(layers ...Layer) (min, max r3.Vector, ok bool) {
	for _, l := range layers {
		lmin, lmax, err := pcd.MinMax(l.Points)
		if err != nil {
			continue
		}
		if !ok {
			min, max, ok = lmin, lmax, true
			continue
		}
		min = r3.Vector{X: minf(min.X, lmin.X), Y: minf(min.Y, lmin.Y), Z: minf(min.Z, lmin.Z)}
		max = r3.Vector{X: maxf(max.X, lmax.X), Y: maxf(max.Y, lmax.Y), Z: maxf(max.Z, lmax.Z)}
	}
	return min, max, ok
}

// Count returns the total number of points.
func Count(layers ...Layer) int {
	var n int
	for _, l := range layers {
		n += len(l.Points)
	}
	return n
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
