package main

import (
	"io"
	"os"
	"time"
	"unicode/utf8"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/seqsense/pcdmeasure/measure"
	"github.com/seqsense/pcdmeasure/pcd"
	"github.com/seqsense/pcdmeasure/pcd/sac"
)

const (
	rendererWindow = "window"
	rendererHTML   = "html"
	rendererPlot   = "plot"
	rendererNone   = "none"
)

var errInvalidConfig = errors.New("invalid config")

type config struct {
	Columns   pcd.Columns   `yaml:"columns"`
	Delimiter string        `yaml:"delimiter"`
	Segment   sac.Options   `yaml:"segment"`
	Measure   measureConfig `yaml:"measure"`
	View      viewConfig    `yaml:"view"`
	Log       logConfig     `yaml:"log"`
}

type measureConfig struct {
	HeightAxis   measure.Axis  `yaml:"height_axis"`
	DiameterAxis measure.Axis  `yaml:"diameter_axis"`
	PickTimeout  time.Duration `yaml:"pick_timeout"`
}

type viewConfig struct {
	Renderer   string  `yaml:"renderer"`
	Width      int     `yaml:"width"`
	Height     int     `yaml:"height"`
	PointSize  float64 `yaml:"point_size"`
	PickRadius float64 `yaml:"pick_radius"`
	Downsample float64 `yaml:"downsample"`
	OutDir     string  `yaml:"out_dir"`
}

type logConfig struct {
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	Compress   bool   `yaml:"compress"`
}

func defaultConfig() config {
	return config{
		Columns:   pcd.DefaultColumns,
		Delimiter: ",",
		Segment:   sac.DefaultOptions(),
		Measure: measureConfig{
			HeightAxis:   measure.Z,
			DiameterAxis: measure.X,
		},
		View: viewConfig{
			Renderer:   rendererWindow,
			Width:      1920,
			Height:     1080,
			PointSize:  2,
			PickRadius: 0.05,
			OutDir:     ".",
		},
		Log: logConfig{
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
	}
}

// loadConfig reads YAML from path over the defaults.
func loadConfig(path string) (cfg config, err error) {
	cfg = defaultConfig()
	if path == "" {
		return cfg, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return config{}, errors.Wrap(err, "opening config")
	}
	defer func() {
		err = multierr.Append(err, f.Close())
	}()
	if err := decodeConfig(f, &cfg); err != nil {
		return config{}, errors.Wrapf(err, "%s", path)
	}
	return cfg, nil
}

func decodeConfig(r io.Reader, cfg *config) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && err != io.EOF {
		return errors.Wrapf(errInvalidConfig, "%v", err)
	}
	return nil
}

func (c config) delimiter() rune {
	r, _ := utf8.DecodeRuneInString(c.Delimiter)
	return r
}

func (c config) loadOptions() []pcd.LoadOption {
	return []pcd.LoadOption{
		pcd.WithColumns(c.Columns),
		pcd.WithDelimiter(c.delimiter()),
	}
}

func (c config) validate() error {
	var err error
	if c.Columns.X == "" || c.Columns.Y == "" || c.Columns.Z == "" {
		err = multierr.Append(err, errors.Wrap(errInvalidConfig, "column names must not be empty"))
	}
	if utf8.RuneCountInString(c.Delimiter) != 1 {
		err = multierr.Append(err, errors.Wrapf(errInvalidConfig, "delimiter %q must be a single character", c.Delimiter))
	} else if d := c.delimiter(); d == '"' || d == '\r' || d == '\n' || d == utf8.RuneError {
		err = multierr.Append(err, errors.Wrapf(errInvalidConfig, "delimiter %q is not allowed", c.Delimiter))
	}
	err = multierr.Append(err, c.Segment.Validate())
	if !c.Measure.HeightAxis.Valid() || !c.Measure.DiameterAxis.Valid() {
		err = multierr.Append(err, errors.Wrap(measure.ErrInvalidAxis, "measure axes"))
	}
	if c.Measure.PickTimeout < 0 {
		err = multierr.Append(err, errors.Wrap(errInvalidConfig, "pick timeout must not be negative"))
	}
	switch c.View.Renderer {
	case rendererWindow, rendererHTML, rendererPlot, rendererNone:
	default:
		err = multierr.Append(err, errors.Wrapf(errInvalidConfig, "unknown renderer %q", c.View.Renderer))
	}
	if c.View.Width <= 0 || c.View.Height <= 0 {
		err = multierr.Append(err, errors.Wrapf(errInvalidConfig, "window size %dx%d", c.View.Width, c.View.Height))
	}
	if c.View.PickRadius < 0 || c.View.Downsample < 0 || c.View.PointSize < 0 {
		err = multierr.Append(err, errors.Wrap(errInvalidConfig, "pick radius, downsample and point size must not be negative"))
	}
	return err
}
