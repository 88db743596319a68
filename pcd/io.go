package pcd

import (
	"bufio"
	"encoding/csv"
	"io"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// Load errors. Callers distinguish them with errors.Is.
var (
	ErrSourceNotFound        = errors.New("source not found")
	ErrSourceEmpty           = errors.New("source is empty")
	ErrSourceUnparsable      = errors.New("source is unparsable")
	ErrRequiredFieldsMissing = errors.New("required fields missing")
)

// Columns names the header fields holding X, Y and Z.
type Columns struct {
	X string `yaml:"x"`
	Y string `yaml:"y"`
	Z string `yaml:"z"`
}

// DefaultColumns are the column names written by the scanner export.
var DefaultColumns = Columns{X: "Point_X", Y: "Point_Y", Z: "Point_Z"}

func (c Columns) names() [3]string {
	return [3]string{c.X, c.Y, c.Z}
}

type loadOptions struct {
	columns   Columns
	delimiter rune
}

// LoadOption configures Load.
type LoadOption func(*loadOptions)

// WithColumns overrides the X, Y and Z column names.
func WithColumns(c Columns) LoadOption {
	return func(o *loadOptions) {
		o.columns = c
	}
}

// WithDelimiter overrides the field delimiter of text sources.
func WithDelimiter(d rune) LoadOption {
	return func(o *loadOptions) {
		o.delimiter = d
	}
}

// Load reads the point set stored at path. Files with .pcd extension are
// read as PCD, everything else as delimited text with a header row.
// Every call reads the file again.
func Load(path string, opts ...LoadOption) (ps PointSet, err error) {
	o := loadOptions{
		columns:   DefaultColumns,
		delimiter: ',',
	}
	for _, opt := range opts {
		opt(&o)
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errors.Wrapf(ErrSourceNotFound, "%s", path)
		}
		return nil, errors.Wrapf(ErrSourceUnparsable, "%s: %v", path, err)
	}
	defer func() {
		err = multierr.Append(err, f.Close())
	}()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".pcd":
		ps, err = ReadPCD(f)
	default:
		ps, err = readCSV(f, o.columns, o.delimiter)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "%s", path)
	}
	return ps, nil
}

// ReadCSV parses comma separated text with a header row.
func ReadCSV(r io.Reader, cols Columns) (PointSet, error) {
	return readCSV(r, cols, ',')
}

func readCSV(r io.Reader, cols Columns, delimiter rune) (PointSet, error) {
	cr := csv.NewReader(bufio.NewReader(r))
	cr.Comma = delimiter
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, ErrSourceEmpty
	}
	if err != nil {
		return nil, errors.Wrapf(ErrSourceUnparsable, "header: %v", err)
	}
	if isBlank(header) {
		return nil, ErrSourceEmpty
	}

	pos := [3]int{-1, -1, -1}
	names := cols.names()
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\uFEFF"))
		for a, name := range names {
			if pos[a] < 0 && h == name {
				pos[a] = i
			}
		}
	}
	var missing []string
	for a, p := range pos {
		if p < 0 {
			missing = append(missing, strconv.Quote(names[a]))
		}
	}
	if len(missing) > 0 {
		return nil, errors.Wrapf(ErrRequiredFieldsMissing, "%s", strings.Join(missing, ", "))
	}

	var ps PointSet
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(ErrSourceUnparsable, "%v", err)
		}
		var v [3]float64
		for a, p := range pos {
			f, err := parseCoordinate(rec[p])
			if err != nil {
				line, _ := cr.FieldPos(p)
				return nil, errors.Wrapf(ErrSourceUnparsable,
					"line %d, column %q: %v", line, names[a], err)
			}
			v[a] = f
		}
		ps = append(ps, vec(v))
	}
	return ps, nil
}

func parseCoordinate(s string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, errors.Errorf("non-finite value %q", s)
	}
	return f, nil
}

func isBlank(rec []string) bool {
	for _, s := range rec {
		if strings.TrimSpace(strings.TrimPrefix(s, "\uFEFF")) != "" {
			return false
		}
	}
	return true
}
