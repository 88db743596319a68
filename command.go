package main

import (
	"context"
	"os"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/seqsense/pcdmeasure/measure"
	"github.com/seqsense/pcdmeasure/pcd"
	"github.com/seqsense/pcdmeasure/pcd/sac"
	"github.com/seqsense/pcdmeasure/view"
)

const (
	titleVisualize = "Visualizing the pointcloud"
	titleSegment   = "Blue = the wall points, Red = every other points"
	titleWall      = "The separated wall"
	titleSelect    = "Select the object (cylinder)"
)

type commandContext struct {
	cfg      config
	logger   *zap.SugaredLogger
	renderer view.Renderer
	picker   view.Picker
}

func newCommandContext(cfg config, logger *zap.SugaredLogger, r view.Renderer, p view.Picker) *commandContext {
	return &commandContext{
		cfg:      cfg,
		logger:   logger,
		renderer: r,
		picker:   p,
	}
}

// load reads the point cloud and reports the outcome.
func (c *commandContext) load(path string) (pcd.PointSet, error) {
	ps, err := pcd.Load(path, c.cfg.loadOptions()...)
	switch {
	case errors.Is(err, pcd.ErrSourceNotFound):
		c.logger.Errorf("File %q not found", path)
	case errors.Is(err, pcd.ErrSourceEmpty):
		c.logger.Errorf("File %q is empty", path)
	case errors.Is(err, pcd.ErrSourceUnparsable):
		c.logger.Errorf("Unable to parse file %q: %v", path, err)
	case errors.Is(err, pcd.ErrRequiredFieldsMissing):
		c.logger.Errorf("Required columns %q, %q and %q not found in file %q",
			c.cfg.Columns.X, c.cfg.Columns.Y, c.cfg.Columns.Z, path)
	case err != nil:
		c.logger.Errorf("Failed to read %q: %v", path, err)
	}
	if err != nil {
		return nil, err
	}
	c.logger.Infow("File is found and no error", "path", path, "points", len(ps))
	return ps, nil
}

func (c *commandContext) display(ctx context.Context, title string, layers ...view.Layer) error {
	if leaf := c.cfg.View.Downsample; leaf > 0 {
		for i := range layers {
			ds, err := pcd.Downsample(layers[i].Points, leaf)
			if err != nil {
				return errors.Wrap(err, "downsampling")
			}
			c.logger.Debugf("%s: downsampled %d -> %d points", layers[i].Name, len(layers[i].Points), len(ds))
			layers[i].Points = ds
		}
	}
	return c.renderer.Display(ctx, title, layers...)
}

// Check loads the point cloud and reports its size and bounds.
func (c *commandContext) Check(ctx context.Context, path string) (pcd.PointSet, error) {
	ps, err := c.load(path)
	if err != nil {
		return nil, err
	}
	if min, max, err := pcd.MinMax(ps); err == nil {
		c.logger.Infow("Bounds",
			"min", []float64{min.X, min.Y, min.Z},
			"max", []float64{max.X, max.Y, max.Z})
	}
	return ps, nil
}

// Visualize shows the whole point cloud.
func (c *commandContext) Visualize(ctx context.Context, path string) error {
	ps, err := c.load(path)
	if err != nil {
		c.logger.Error("No point-cloud data to visualize")
		return errors.Wrap(err, "no point-cloud data")
	}
	return c.display(ctx, titleVisualize, view.Layer{Name: "points", Points: ps, Color: view.Gray})
}

// SelectWall extracts the dominant plane, shows the wall and the other
// points, then the wall alone. If export is set, the labeled cloud is
// written to it as PCD.
func (c *commandContext) SelectWall(ctx context.Context, path, export string) (sac.Plane, pcd.Partition, error) {
	ps, err := c.load(path)
	if err != nil {
		c.logger.Error("No point-cloud data to segment")
		return sac.Plane{}, pcd.Partition{}, errors.Wrap(err, "no point-cloud data")
	}

	plane, part, err := sac.Segment(ps, c.cfg.Segment)
	if err != nil {
		c.logger.Errorf("Plane segmentation failed: %v", err)
		return sac.Plane{}, pcd.Partition{}, err
	}
	c.logger.Infof("Plane equation: %v", plane)
	c.logger.Infow("Wall extracted", "inliers", len(part.Inliers), "outliers", len(part.Outliers))

	if export != "" {
		if err := exportPCD(export, ps, part); err != nil {
			c.logger.Errorf("Failed to export %q: %v", export, err)
			return plane, part, err
		}
		c.logger.Infof("Labeled point cloud written to %s", export)
	}

	wall := view.Layer{Name: "wall", Points: pcd.Select(ps, part.Inliers), Color: view.Blue}
	others := view.Layer{Name: "others", Points: pcd.Select(ps, part.Outliers), Color: view.Red}
	if err := c.display(ctx, titleSegment, others, wall); err != nil {
		return plane, part, err
	}
	if err := c.display(ctx, titleWall, wall); err != nil {
		return plane, part, err
	}
	return plane, part, nil
}

func exportPCD(path string, ps pcd.PointSet, part pcd.Partition) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, f.Close())
	}()
	return pcd.WritePCD(f, ps, part)
}

// MeasureObject lets the user pick points and measures their extent.
func (c *commandContext) MeasureObject(ctx context.Context, path string) (measure.Measurement, error) {
	ps, err := c.load(path)
	if err != nil {
		c.logger.Error("No point-cloud data to measure")
		return measure.Measurement{}, errors.Wrap(err, "no point-cloud data")
	}
	if c.picker == nil {
		return measure.Measurement{}, view.ErrPickUnsupported
	}

	if d := c.cfg.Measure.PickTimeout; d > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d)
		defer cancel()
	}
	sel, err := c.picker.DisplayWithSelection(ctx, titleSelect, ps)
	if err != nil {
		return measure.Measurement{}, err
	}
	if err := sel.Validate(ps); err != nil {
		return measure.Measurement{}, err
	}
	for _, p := range sel {
		c.logger.Infof("Picked %v", p)
	}

	m, err := measure.Measure(sel, c.cfg.Measure.HeightAxis, c.cfg.Measure.DiameterAxis)
	if err != nil {
		if errors.Is(err, measure.ErrEmptySelection) {
			c.logger.Warn("No point is picked")
		}
		return measure.Measurement{}, err
	}
	c.logger.Infof("From the selected points the max and min for measuring the height are: %g %g", m.HeightMax, m.HeightMin)
	c.logger.Infof("The height of the selected object is: %g", m.Height)
	c.logger.Infof("From the selected points the max and min for measuring the diameter are: %g %g", m.DiameterMax, m.DiameterMin)
	c.logger.Infof("The diameter of the selected object is: %g m", m.Diameter)
	return m, nil
}

// Run performs every operation in order. Each one reads the file again.
// A failing step doesn't prevent the following ones.
func (c *commandContext) Run(ctx context.Context, path string) error {
	var err error
	if _, e := c.Check(ctx, path); e != nil {
		err = multierr.Append(err, e)
	}
	err = multierr.Append(err, c.Visualize(ctx, path))
	if _, _, e := c.SelectWall(ctx, path, ""); e != nil {
		err = multierr.Append(err, e)
	}
	if _, e := c.MeasureObject(ctx, path); e != nil {
		err = multierr.Append(err, e)
	}
	return err
}
