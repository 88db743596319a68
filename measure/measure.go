// Package measure computes object extents from picked points.
package measure

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"

	"github.com/seqsense/pcdmeasure/pcd"
)

var (
	ErrEmptySelection = errors.New("empty selection")
	ErrInvalidAxis    = errors.New("invalid axis")
)

// Axis is a coordinate axis.
type Axis int

const (
	X Axis = iota
	Y
	Z
)

func (a Axis) String() string {
	switch a {
	case X:
		return "x"
	case Y:
		return "y"
	case Z:
		return "z"
	}
	return fmt.Sprintf("Axis(%d)", int(a))
}

// Valid reports whether a is one of X, Y and Z.
func (a Axis) Valid() bool {
	return a == X || a == Y || a == Z
}

// ParseAxis parses x, y or z, ignoring case.
func ParseAxis(s string) (Axis, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "x":
		return X, nil
	case "y":
		return Y, nil
	case "z":
		return Z, nil
	}
	return 0, errors.Wrapf(ErrInvalidAxis, "%q", s)
}

func (a Axis) MarshalText() ([]byte, error) {
	if !a.Valid() {
		return nil, errors.Wrapf(ErrInvalidAxis, "%d", int(a))
	}
	return []byte(a.String()), nil
}

func (a *Axis) UnmarshalText(b []byte) error {
	v, err := ParseAxis(string(b))
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// Measurement is the extent of a selection along two axes.
type Measurement struct {
	Height   float64
	Diameter float64

	HeightAxis, DiameterAxis Axis
	HeightMin, HeightMax     float64
	DiameterMin, DiameterMax float64
}

func (m Measurement) String() string {
	return fmt.Sprintf("height: %.3f (%s %.3f..%.3f), diameter: %.3f (%s %.3f..%.3f)",
		m.Height, m.HeightAxis, m.HeightMin, m.HeightMax,
		m.Diameter, m.DiameterAxis, m.DiameterMin, m.DiameterMax)
}

// Measure returns the extent of the selected points along heightAxis and
// diameterAxis.
func Measure(sel pcd.Selection, heightAxis, diameterAxis Axis) (Measurement, error) {
	if !heightAxis.Valid() {
		return Measurement{}, errors.Wrapf(ErrInvalidAxis, "height axis %v", heightAxis)
	}
	if !diameterAxis.Valid() {
		return Measurement{}, errors.Wrapf(ErrInvalidAxis, "diameter axis %v", diameterAxis)
	}
	if len(sel) == 0 {
		return Measurement{}, ErrEmptySelection
	}

	h := Component(sel.Points(), heightAxis)
	d := Component(sel.Points(), diameterAxis)
	m := Measurement{
		HeightAxis:   heightAxis,
		DiameterAxis: diameterAxis,
		HeightMin:    floats.Min(h),
		HeightMax:    floats.Max(h),
		DiameterMin:  floats.Min(d),
		DiameterMax:  floats.Max(d),
	}
	m.Height = m.HeightMax - m.HeightMin
	m.Diameter = m.DiameterMax - m.DiameterMin
	return m, nil
}

// Component returns the values of the given axis.
func Component(ps pcd.PointSet, a Axis) []float64 {
	out := make([]float64, len(ps))
	for i, p := range ps {
		switch a {
		case X:
			out[i] = p.X
		case Y:
			out[i] = p.Y
		case Z:
			out[i] = p.Z
		}
	}
	return out
}
