//go:build nowindow

package main

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/seqsense/pcdmeasure/view"
)

var errNoWindow = errors.New("built without window support, use html, plot or none")

func newWindow(cfg config, logger *zap.SugaredLogger) (view.Renderer, error) {
	return nil, errors.Wrapf(errNoWindow, "renderer %q", rendererWindow)
}
