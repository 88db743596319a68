package view

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/seqsense/pcdmeasure/pcd"
)

// Console is a text based Renderer and Picker. Points are picked by
// commands read line by line from In:
//
//	cursor x y z    pick the point nearest to (x, y, z)
//	cursor i        pick the i-th point
//	cursors         list picked points
//	undo            remove the last pick
//	unset_cursors   remove all picks
//	done            finish picking
type Console struct {
	In  io.Reader
	Out io.Writer
	// PickRadius limits the distance between typed coordinates and the
	// picked point. Zero means unlimited.
	PickRadius float64
	Logger     *zap.SugaredLogger
}

var (
	errArgumentNumber = errors.New("invalid number of arguments")
	errInvalidCommand = errors.New("invalid command")
	errNoPoint        = errors.New("no point near the cursor")
	errNonFinite      = errors.New("non-finite argument")
	errDone           = errors.New("done")
)

type selector struct {
	points pcd.PointSet
	loc    *pcd.Locator
	radius float64
	center r3.Vector
	size   float64
	sel    pcd.Selection
}

func newSelector(points pcd.PointSet, radius float64) *selector {
	s := &selector{
		points: points,
		loc:    pcd.NewLocator(points),
		radius: radius,
	}
	if min, max, err := pcd.MinMax(points); err == nil {
		s.center = min.Add(max).Mul(0.5)
		s.size = max.Sub(min).Norm()
	}
	return s
}

func (s *selector) pickIndex(i int) (pcd.PickedPoint, error) {
	if i < 0 || i >= len(s.points) {
		return pcd.PickedPoint{}, errors.Errorf("index %d out of range [0, %d)", i, len(s.points))
	}
	p := pcd.PickedPoint{Index: i, Point: s.points[i]}
	s.sel = append(s.sel, p)
	return p, nil
}

func (s *selector) pickNear(v r3.Vector) (pcd.PickedPoint, error) {
	r := s.radius
	if r <= 0 {
		// Covers every point.
		r = v.Sub(s.center).Norm() + s.size + 1
	}
	i, ok := s.loc.Nearest(v, r)
	if !ok {
		return pcd.PickedPoint{}, errNoPoint
	}
	return s.pickIndex(i)
}

func row(p pcd.PickedPoint) []float64 {
	return []float64{float64(p.Index), p.Point.X, p.Point.Y, p.Point.Z}
}

var consoleCommands = map[string]func(s *selector, args []float64) ([][]float64, error){
	"cursor": func(s *selector, args []float64) ([][]float64, error) {
		switch len(args) {
		case 1:
			if args[0] != float64(int(args[0])) {
				return nil, errors.Errorf("index %g is not an integer", args[0])
			}
			p, err := s.pickIndex(int(args[0]))
			if err != nil {
				return nil, err
			}
			return [][]float64{row(p)}, nil
		case 3:
			p, err := s.pickNear(r3.Vector{X: args[0], Y: args[1], Z: args[2]})
			if err != nil {
				return nil, err
			}
			return [][]float64{row(p)}, nil
		default:
			return nil, errArgumentNumber
		}
	},
	"cursors": func(s *selector, args []float64) ([][]float64, error) {
		if len(args) != 0 {
			return nil, errArgumentNumber
		}
		var res [][]float64
		for _, p := range s.sel {
			res = append(res, row(p))
		}
		return res, nil
	},
	"undo": func(s *selector, args []float64) ([][]float64, error) {
		if len(args) != 0 {
			return nil, errArgumentNumber
		}
		if len(s.sel) > 0 {
			s.sel = s.sel[:len(s.sel)-1]
		}
		return nil, nil
	},
	"unset_cursors": func(s *selector, args []float64) ([][]float64, error) {
		if len(args) != 0 {
			return nil, errArgumentNumber
		}
		s.sel = nil
		return nil, nil
	},
	"done": func(s *selector, args []float64) ([][]float64, error) {
		if len(args) != 0 {
			return nil, errArgumentNumber
		}
		return nil, errDone
	},
}

func (s *selector) Run(line string) (string, error) {
	args := strings.Fields(line)
	if len(args) == 0 {
		return "", nil
	}
	fn, ok := consoleCommands[args[0]]
	if !ok {
		return "", errInvalidCommand
	}
	var argsFloat []float64
	for i := 1; i < len(args); i++ {
		f, err := strconv.ParseFloat(args[i], 64)
		if err != nil {
			return "", err
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return "", errors.Wrapf(errNonFinite, "%q", args[i])
		}
		argsFloat = append(argsFloat, f)
	}
	res, err := fn(s, argsFloat)
	if err != nil {
		return "", err
	}
	var resStr []string
	for _, vv := range res {
		var resLine []string
		for i, v := range vv {
			if i == 0 {
				resLine = append(resLine, strconv.Itoa(int(v)))
				continue
			}
			resLine = append(resLine, strconv.FormatFloat(v, 'f', 3, 64))
		}
		resStr = append(resStr, strings.Join(resLine, " "))
	}
	return strings.Join(resStr, "\n"), nil
}

// Display writes a summary of the layers.
func (c *Console) Display(ctx context.Context, title string, layers ...Layer) error {
	fmt.Fprintf(c.Out, "== %s: %d points\n", title, Count(layers...))
	for _, l := range layers {
		line := fmt.Sprintf("  %s %d points", l.Color.Hex(), len(l.Points))
		if l.Name != "" {
			line = fmt.Sprintf("  %s (%s) %d points", l.Name, l.Color.Hex(), len(l.Points))
		}
		if min, max, err := pcd.MinMax(l.Points); err == nil {
			line += fmt.Sprintf(" [%.3f %.3f %.3f]-[%.3f %.3f %.3f]",
				min.X, min.Y, min.Z, max.X, max.Y, max.Z)
		}
		fmt.Fprintln(c.Out, line)
	}
	return nil
}

// DisplayWithSelection reads commands until done, end of input or
// cancellation of ctx.
func (c *Console) DisplayWithSelection(ctx context.Context, title string, points pcd.PointSet) (pcd.Selection, error) {
	s := newSelector(points, c.PickRadius)
	fmt.Fprintf(c.Out, "== %s: %d points\n", title, len(points))
	fmt.Fprintln(c.Out, "commands: cursor x y z | cursor i | cursors | undo | unset_cursors | done")

	// The scanner goroutine exits at the next line read after return.
	// It stays blocked on In until then.
	lines := make(chan string)
	readErr := make(chan error, 1)
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(c.In)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-stop:
				return
			case <-ctx.Done():
				return
			}
		}
		readErr <- sc.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			c.logf("picking interrupted: %v", ctx.Err())
			return s.sel, nil
		case line, ok := <-lines:
			if !ok {
				var err error
				select {
				case err = <-readErr:
				default:
				}
				if err != nil {
					return s.sel, errors.Wrap(err, "reading console input")
				}
				return s.sel, nil
			}
			res, err := s.Run(line)
			switch {
			case errors.Is(err, errDone):
				return s.sel, nil
			case err != nil:
				fmt.Fprintf(c.Out, "error: %v\n", err)
			case res != "":
				fmt.Fprintln(c.Out, res)
			}
		}
	}
}

func (c *Console) logf(format string, args ...interface{}) {
	if c.Logger != nil {
		c.Logger.Debugf(format, args...)
	}
}
