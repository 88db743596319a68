package view

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/seqsense/pcdmeasure/pcd"
)

// Scene is a recorded Display or DisplayWithSelection call.
type Scene struct {
	Title  string
	Layers []Layer
}

// Recorder is a Renderer which returns immediately and keeps every scene.
type Recorder struct {
	Logger *zap.SugaredLogger

	mu     sync.Mutex
	scenes []Scene
}

func (r *Recorder) Display(ctx context.Context, title string, layers ...Layer) error {
	r.record(title, layers)
	return nil
}

func (r *Recorder) record(title string, layers []Layer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scenes = append(r.scenes, Scene{Title: title, Layers: layers})
	if r.Logger != nil {
		r.Logger.Infow("display", "title", title, "layers", len(layers), "points", Count(layers...))
	}
}

// Scenes returns the recorded scenes in call order.
func (r *Recorder) Scenes() []Scene {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Scene(nil), r.scenes...)
}

// Canned is a Picker which picks predetermined point indices.
type Canned struct {
	Recorder
	Indices []int
	Err     error
}

func (c *Canned) DisplayWithSelection(ctx context.Context, title string, points pcd.PointSet) (pcd.Selection, error) {
	c.record(title, []Layer{{Points: points, Color: Gray}})
	if c.Err != nil {
		return nil, c.Err
	}
	sel := make(pcd.Selection, 0, len(c.Indices))
	for _, i := range c.Indices {
		if i < 0 || i >= len(points) {
			return nil, errors.Errorf("canned index %d out of range [0, %d)", i, len(points))
		}
		sel = append(sel, pcd.PickedPoint{Index: i, Point: points[i]})
	}
	return sel, nil
}
