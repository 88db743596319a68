// Package html renders point sets into 3-D scatter chart pages.
package html

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/seqsense/pcdmeasure/view"
)

// Writer is a view.Renderer writing one HTML page per Display call.
type Writer struct {
	Dir       string
	PointSize int
	Logger    *zap.SugaredLogger
}

// Path returns the file written for the given title.
func (w *Writer) Path(title string) string {
	return filepath.Join(w.Dir, view.Slug(title)+".html")
}

func (w *Writer) Display(ctx context.Context, title string, layers ...view.Layer) (err error) {
	if err := os.MkdirAll(w.Dir, 0755); err != nil {
		return errors.Wrap(err, "creating output directory")
	}
	path := w.Path(title)
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "creating %s", path)
	}
	defer func() {
		err = multierr.Append(err, f.Close())
	}()

	if err := w.chart(title, layers).Render(f); err != nil {
		return errors.Wrapf(err, "rendering %s", path)
	}
	if w.Logger != nil {
		w.Logger.Infof("%s written to %s", title, path)
	}
	return nil
}

func (w *Writer) chart(title string, layers []view.Layer) *charts.Scatter3D {
	size := w.PointSize
	if size <= 0 {
		size = 2
	}

	scatter := charts.NewScatter3D()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Theme: "dark", Width: "1200px", Height: "900px"}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: fmt.Sprintf("points=%d", view.Count(layers...))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxis3DOpts(opts.XAxis3D{Name: "X"}),
		charts.WithYAxis3DOpts(opts.YAxis3D{Name: "Y"}),
		charts.WithZAxis3DOpts(opts.ZAxis3D{Name: "Z"}),
	)
	for i, l := range layers {
		data := make([]opts.Chart3DData, 0, len(l.Points))
		for _, p := range l.Points {
			data = append(data, opts.Chart3DData{Value: []interface{}{p.X, p.Y, p.Z}})
		}
		name := l.Name
		if name == "" {
			name = fmt.Sprintf("layer%d", i)
		}
		scatter.AddSeries(name, data,
			charts.WithItemStyleOpts(opts.ItemStyle{Color: l.Color.Hex()}),
			charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: size}),
		)
	}
	return scatter
}
