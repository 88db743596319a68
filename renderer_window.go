//go:build !nowindow

package main

import (
	"go.uber.org/zap"

	"github.com/seqsense/pcdmeasure/view"
	"github.com/seqsense/pcdmeasure/view/window"
)

func newWindow(cfg config, logger *zap.SugaredLogger) (view.Renderer, error) {
	w := window.New(cfg.View.Width, cfg.View.Height, logger)
	w.PointSize = cfg.View.PointSize
	w.PickRadius = cfg.View.PickRadius
	return w, nil
}
