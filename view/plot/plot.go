// Package plot renders axis aligned projections of point sets into PNG
// images.
package plot

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/seqsense/pcdmeasure/measure"
	"github.com/seqsense/pcdmeasure/view"
)

// Writer is a view.Renderer writing one PNG image per Display call.
// Points are projected on the Horizontal-Vertical plane.
type Writer struct {
	Dir        string
	Horizontal measure.Axis
	Vertical   measure.Axis
	// PointSize is the glyph radius in points.
	PointSize float64
	Width     vg.Length
	Height    vg.Length
	Logger    *zap.SugaredLogger
}

// NewWriter returns a Writer drawing the X-Z plane.
func NewWriter(dir string) *Writer {
	return &Writer{
		Dir:        dir,
		Horizontal: measure.X,
		Vertical:   measure.Z,
		PointSize:  1,
		Width:      10 * vg.Inch,
		Height:     8 * vg.Inch,
	}
}

// Path returns the file written for the given title.
func (w *Writer) Path(title string) string {
	return filepath.Join(w.Dir, view.Slug(title)+".png")
}

func (w *Writer) Display(ctx context.Context, title string, layers ...view.Layer) error {
	if !w.Horizontal.Valid() || !w.Vertical.Valid() {
		return errors.Wrapf(measure.ErrInvalidAxis, "projection %v-%v", w.Horizontal, w.Vertical)
	}
	if err := os.MkdirAll(w.Dir, 0755); err != nil {
		return errors.Wrap(err, "creating output directory")
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s (%d points)", title, view.Count(layers...))
	p.X.Label.Text = w.Horizontal.String()
	p.Y.Label.Text = w.Vertical.String()
	p.Add(plotter.NewGrid())

	for i, l := range layers {
		if len(l.Points) == 0 {
			continue
		}
		h := measure.Component(l.Points, w.Horizontal)
		v := measure.Component(l.Points, w.Vertical)
		pts := make(plotter.XYs, len(l.Points))
		for j := range pts {
			pts[j] = plotter.XY{X: h[j], Y: v[j]}
		}
		s, err := plotter.NewScatter(pts)
		if err != nil {
			return errors.Wrapf(err, "layer %d", i)
		}
		s.GlyphStyle.Color = l.Color
		s.GlyphStyle.Radius = vg.Points(w.PointSize)
		s.GlyphStyle.Shape = draw.CircleGlyph{}
		p.Add(s)
		if l.Name != "" {
			p.Legend.Add(l.Name, s)
		}
	}

	width, height := w.Width, w.Height
	if width <= 0 || height <= 0 {
		width, height = 10*vg.Inch, 8*vg.Inch
	}
	path := w.Path(title)
	if err := p.Save(width, height, path); err != nil {
		return errors.Wrapf(err, "saving %s", path)
	}
	if w.Logger != nil {
		w.Logger.Infof("%s written to %s", title, path)
	}
	return nil
}
