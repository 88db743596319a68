//go:build !nowindow

package window

import (
	"context"
	"fmt"
	"runtime"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/golang/geo/r3"
	"go.uber.org/zap"

	"github.com/seqsense/pcdmeasure/pcd"
	"github.com/seqsense/pcdmeasure/view"
)

// Window is a view.Renderer and view.Picker backed by raylib.
type Window struct {
	Width, Height int
	// PointSize scales the pick markers.
	PointSize float64
	// PickRadius is the largest distance between the mouse ray and a
	// picked point.
	PickRadius float64
	Logger     *zap.SugaredLogger
}

// New returns a Window of the given size.
func New(width, height int, logger *zap.SugaredLogger) *Window {
	return &Window{
		Width:      width,
		Height:     height,
		PointSize:  2,
		PickRadius: 0.05,
		Logger:     logger,
	}
}

func (w *Window) Display(ctx context.Context, title string, layers ...view.Layer) error {
	w.run(ctx, title, layers, nil)
	return nil
}

func (w *Window) DisplayWithSelection(ctx context.Context, title string, points pcd.PointSet) (pcd.Selection, error) {
	pk := &picker{points: points}
	w.run(ctx, title, []view.Layer{{Points: points, Color: view.Gray}}, pk)
	return pk.sel, nil
}

type picker struct {
	points pcd.PointSet
	sel    pcd.Selection
}

type layer struct {
	points []rl.Vector3
	color  rl.Color
}

func vector3(p r3.Vector) rl.Vector3 {
	return rl.NewVector3(float32(p.X), float32(p.Y), float32(p.Z))
}

func color(c view.Color) rl.Color {
	r, g, b := c.Clamped().RGB255()
	return rl.NewColor(r, g, b, 255)
}

func (w *Window) run(ctx context.Context, title string, layers []view.Layer, pk *picker) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	min, max, ok := view.Bounds(layers...)
	if !ok {
		min, max = r3.Vector{X: -1, Y: -1, Z: -1}, r3.Vector{X: 1, Y: 1, Z: 1}
	}
	orbit := view.NewOrbit(min, max)

	ls := make([]layer, len(layers))
	for i, l := range layers {
		ls[i].color = color(l.Color)
		ls[i].points = make([]rl.Vector3, len(l.Points))
		for j, p := range l.Points {
			ls[i].points[j] = vector3(p)
		}
	}

	rl.SetTraceLogLevel(rl.LogWarning)
	rl.SetConfigFlags(rl.FlagMsaa4xHint | rl.FlagWindowResizable)
	rl.InitWindow(int32(w.Width), int32(w.Height), title)
	defer rl.CloseWindow()
	rl.SetTargetFPS(60)

	var (
		cg     view.ClickGuard
		marker = rl.NewColor(255, 217, 0, 255)
	)

	for !rl.WindowShouldClose() {
		select {
		case <-ctx.Done():
			w.debugf("%s: %v", title, ctx.Err())
			return
		default:
		}

		mouse := rl.GetMousePosition()
		mx, my := float64(mouse.X), float64(mouse.Y)

		switch {
		case rl.IsMouseButtonPressed(rl.MouseLeftButton):
			orbit.DragStart(mx, my, view.DragRotate)
			cg.Press(mx, my)
		case rl.IsMouseButtonPressed(rl.MouseRightButton):
			orbit.DragStart(mx, my, view.DragPan)
		}
		if orbit.Dragging() {
			cg.Move(mx, my)
			orbit.Drag(mx, my)
		}
		if rl.IsMouseButtonReleased(rl.MouseLeftButton) {
			orbit.DragEnd(mx, my)
			if cg.Release(mx, my) && pk != nil {
				ray := orbit.Ray(mx, my, float64(rl.GetScreenWidth()), float64(rl.GetScreenHeight()))
				if i, ok := view.PickNearestToRay(pk.points, ray, w.PickRadius); ok {
					p := pcd.PickedPoint{Index: i, Point: pk.points[i]}
					pk.sel = append(pk.sel, p)
					w.infof("picked %v", p)
				}
			}
		}
		if rl.IsMouseButtonReleased(rl.MouseRightButton) {
			orbit.DragEnd(mx, my)
		}
		// One wheel notch is 1. Touchpads report fractions.
		if d := float64(rl.GetMouseWheelMove()); d != 0 {
			orbit.Zoom(d)
		}
		if pk != nil && rl.IsKeyPressed(rl.KeyBackspace) && len(pk.sel) > 0 {
			w.infof("removed %v", pk.sel[len(pk.sel)-1])
			pk.sel = pk.sel[:len(pk.sel)-1]
		}

		cam := rl.Camera3D{
			Position:   vector3(orbit.Position()),
			Target:     vector3(orbit.Target),
			Up:         vector3(orbit.Up()),
			Fovy:       float32(orbit.Fovy),
			Projection: rl.CameraPerspective,
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.NewColor(24, 24, 24, 255))
		rl.BeginMode3D(cam)
		for _, l := range ls {
			for _, p := range l.points {
				rl.DrawPoint3D(p, l.color)
			}
		}
		if pk != nil {
			r := float32(w.PointSize * orbit.Distance * 0.003)
			for _, p := range pk.sel {
				rl.DrawSphere(vector3(p.Point), r, marker)
			}
		}
		rl.EndMode3D()

		rl.DrawText(title, 10, 10, 20, rl.RayWhite)
		if pk != nil {
			rl.DrawText(fmt.Sprintf("%d picked  [click] pick  [backspace] undo  [esc] done", len(pk.sel)),
				10, 36, 16, rl.LightGray)
		}
		rl.EndDrawing()
	}
}

func (w *Window) infof(format string, args ...interface{}) {
	if w.Logger != nil {
		w.Logger.Infof(format, args...)
	}
}

func (w *Window) debugf(format string, args ...interface{}) {
	if w.Logger != nil {
		w.Logger.Debugf(format, args...)
	}
}
