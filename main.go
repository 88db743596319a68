// Command pcdmeasure segments the wall out of a point cloud and measures
// objects picked by the user.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/seqsense/pcdmeasure/logging"
	"github.com/seqsense/pcdmeasure/measure"
	"github.com/seqsense/pcdmeasure/view"
	"github.com/seqsense/pcdmeasure/view/html"
	"github.com/seqsense/pcdmeasure/view/plot"
)

const (
	flagConfig    = "config"
	flagDebug     = "debug"
	flagLogFile   = "log-file"
	flagRenderer  = "renderer"
	flagOutDir    = "out-dir"
	flagExport    = "export"
	flagThreshold = "threshold"
	flagIters     = "iterations"
	flagSeed      = "seed"
	flagRefine    = "refine"
	flagHeight    = "height-axis"
	flagDiameter  = "diameter-axis"
	flagTimeout   = "pick-timeout"
	flagConsole   = "console"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}

func newApp() *cli.App {
	var (
		cfg     config
		logger  = zap.NewNop().Sugar()
		closeFn func() error
	)

	segmentFlags := []cli.Flag{
		&cli.StringFlag{Name: flagExport, Usage: "write the labeled point cloud to `FILE` as PCD"},
		&cli.Float64Flag{Name: flagThreshold, Usage: "largest distance of wall points from the plane"},
		&cli.IntFlag{Name: flagIters, Usage: "number of RANSAC iterations"},
		&cli.Int64Flag{Name: flagSeed, Usage: "random seed"},
		&cli.BoolFlag{Name: flagRefine, Usage: "refit the plane to the wall points by least squares"},
	}
	measureFlags := []cli.Flag{
		&cli.StringFlag{Name: flagHeight, Usage: "axis of the height (x, y or z)"},
		&cli.StringFlag{Name: flagDiameter, Usage: "axis of the diameter (x, y or z)"},
		&cli.DurationFlag{Name: flagTimeout, Usage: "stop picking after the given duration"},
		&cli.BoolFlag{Name: flagConsole, Usage: "pick points by typing commands"},
	}

	withContext := func(fn func(c *cli.Context, cmd *commandContext, path string) error) cli.ActionFunc {
		return func(c *cli.Context) error {
			if c.NArg() != 1 {
				return errors.New("exactly one FILE is required")
			}
			if err := applyFlags(c, &cfg); err != nil {
				return err
			}
			if err := cfg.validate(); err != nil {
				return err
			}
			r, p, err := newRenderer(c, cfg, logger)
			if err != nil {
				return err
			}
			return fn(c, newCommandContext(cfg, logger, r, p), c.Args().First())
		}
	}

	return &cli.App{
		Name:  "pcdmeasure",
		Usage: "segment walls and measure objects in point clouds",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    flagConfig,
				Aliases: []string{"c"},
				Usage:   "load configuration from `FILE`",
			},
			&cli.BoolFlag{
				Name:  flagDebug,
				Usage: "enable debug logging",
			},
			&cli.StringFlag{
				Name:  flagLogFile,
				Usage: "also write logs to `FILE`",
			},
			&cli.StringFlag{
				Name:  flagRenderer,
				Usage: "window, html, plot or none",
			},
			&cli.StringFlag{
				Name:  flagOutDir,
				Usage: "output directory of html and plot renderers",
			},
		},
		Before: func(c *cli.Context) error {
			var err error
			if cfg, err = loadConfig(c.String(flagConfig)); err != nil {
				return err
			}
			logFile := cfg.Log.File
			if c.IsSet(flagLogFile) {
				logFile = c.String(flagLogFile)
			}
			logger, closeFn, err = logging.NewLogger("pcdmeasure", c.Bool(flagDebug), logging.FileConfig{
				Path:       logFile,
				MaxSizeMB:  cfg.Log.MaxSizeMB,
				MaxBackups: cfg.Log.MaxBackups,
				Compress:   cfg.Log.Compress,
			})
			return err
		},
		After: func(c *cli.Context) error {
			return logging.Close(closeFn)
		},
		Commands: []*cli.Command{
			{
				Name:      "check",
				Usage:     "load the point cloud and report its size",
				ArgsUsage: "FILE",
				Action: withContext(func(c *cli.Context, cmd *commandContext, path string) error {
					_, err := cmd.Check(c.Context, path)
					return err
				}),
			},
			{
				Name:      "view",
				Usage:     "show the point cloud",
				ArgsUsage: "FILE",
				Action: withContext(func(c *cli.Context, cmd *commandContext, path string) error {
					return cmd.Visualize(c.Context, path)
				}),
			},
			{
				Name:      "segment",
				Usage:     "extract the wall plane",
				ArgsUsage: "FILE",
				Flags:     segmentFlags,
				Action: withContext(func(c *cli.Context, cmd *commandContext, path string) error {
					_, _, err := cmd.SelectWall(c.Context, path, c.String(flagExport))
					return err
				}),
			},
			{
				Name:      "measure",
				Usage:     "pick points and measure height and diameter",
				ArgsUsage: "FILE",
				Flags:     measureFlags,
				Action: withContext(func(c *cli.Context, cmd *commandContext, path string) error {
					_, err := cmd.MeasureObject(c.Context, path)
					return err
				}),
			},
			{
				Name:      "run",
				Usage:     "check, view, segment and measure in order",
				ArgsUsage: "FILE",
				Flags:     append(append([]cli.Flag{}, segmentFlags[1:]...), measureFlags...),
				Action: withContext(func(c *cli.Context, cmd *commandContext, path string) error {
					return cmd.Run(c.Context, path)
				}),
			},
		},
	}
}

// applyFlags overrides configuration values by the flags set on the
// command line.
func applyFlags(c *cli.Context, cfg *config) error {
	if c.IsSet(flagRenderer) {
		cfg.View.Renderer = c.String(flagRenderer)
	}
	if c.IsSet(flagOutDir) {
		cfg.View.OutDir = c.String(flagOutDir)
	}
	if c.IsSet(flagThreshold) {
		cfg.Segment.DistanceThreshold = c.Float64(flagThreshold)
	}
	if c.IsSet(flagIters) {
		cfg.Segment.Iterations = c.Int(flagIters)
	}
	if c.IsSet(flagSeed) {
		cfg.Segment.Seed = c.Int64(flagSeed)
	}
	if c.IsSet(flagRefine) {
		cfg.Segment.Refine = c.Bool(flagRefine)
	}
	if c.IsSet(flagTimeout) {
		cfg.Measure.PickTimeout = c.Duration(flagTimeout)
	}
	for name, axis := range map[string]*measure.Axis{
		flagHeight:   &cfg.Measure.HeightAxis,
		flagDiameter: &cfg.Measure.DiameterAxis,
	} {
		if !c.IsSet(name) {
			continue
		}
		a, err := measure.ParseAxis(c.String(name))
		if err != nil {
			return errors.Wrapf(err, "--%s", name)
		}
		*axis = a
	}
	return nil
}

// newRenderer returns the renderer selected by the configuration and the
// picker to use with it. The picker is nil if the renderer can't pick
// and the console isn't requested.
func newRenderer(c *cli.Context, cfg config, logger *zap.SugaredLogger) (view.Renderer, view.Picker, error) {
	var r view.Renderer
	switch cfg.View.Renderer {
	case rendererWindow:
		w, err := newWindow(cfg, logger)
		if err != nil {
			return nil, nil, err
		}
		r = w
	case rendererHTML:
		r = &html.Writer{Dir: cfg.View.OutDir, PointSize: int(cfg.View.PointSize), Logger: logger}
	case rendererPlot:
		w := plot.NewWriter(cfg.View.OutDir)
		w.Horizontal = cfg.Measure.DiameterAxis
		w.Vertical = cfg.Measure.HeightAxis
		w.PointSize = cfg.View.PointSize / 2
		w.Logger = logger
		r = w
	case rendererNone:
		r = &view.Recorder{Logger: logger}
	default:
		return nil, nil, errors.Wrapf(errInvalidConfig, "unknown renderer %q", cfg.View.Renderer)
	}

	if c.Bool(flagConsole) {
		return r, &view.Console{
			In:         c.App.Reader,
			Out:        c.App.Writer,
			PickRadius: cfg.View.PickRadius,
			Logger:     logger,
		}, nil
	}
	p, err := view.PickerOf(r)
	if err != nil {
		logger.Debugf("%s renderer: %v", cfg.View.Renderer, err)
		return r, nil, nil
	}
	return r, p, nil
}
