package pcd

import (
	"bufio"
	"io"
	"unicode"

	"github.com/pkg/errors"
	"github.com/seqsense/pcgol/pc"
)

// Label values written to exported clouds.
const (
	LabelOther uint32 = 0
	LabelWall  uint32 = 1
)

// ReadPCD reads a PCD stream. A stream of only whitespace is empty.
func ReadPCD(r io.Reader) (PointSet, error) {
	br := bufio.NewReader(r)
	for {
		b, err := br.ReadByte()
		if err == io.EOF {
			return nil, ErrSourceEmpty
		}
		if err != nil {
			return nil, errors.Wrapf(ErrSourceUnparsable, "%v", err)
		}
		if !unicode.IsSpace(rune(b)) {
			if err := br.UnreadByte(); err != nil {
				return nil, err
			}
			break
		}
	}

	pp, err := pc.Unmarshal(br)
	if err != nil {
		return nil, errors.Wrapf(ErrSourceUnparsable, "%v", err)
	}
	return FromPointCloud(pp)
}

// FromPointCloud copies XYZ of a pcgol point cloud.
func FromPointCloud(pp *pc.PointCloud) (PointSet, error) {
	if pp.Points == 0 {
		return PointSet{}, nil
	}
	it, err := pp.Vec3Iterator()
	if err != nil {
		return nil, errors.Wrapf(ErrRequiredFieldsMissing, "%v", err)
	}
	ps := make(PointSet, pp.Points)
	for i := range ps {
		ps[i] = FromVec3(it.Vec3())
		it.Incr()
	}
	return ps, nil
}

// ToPointCloud builds a pcgol point cloud with x, y, z and label fields.
// label may be nil to leave all labels zero.
func ToPointCloud(ps PointSet, label func(int) uint32) (*pc.PointCloud, error) {
	pp := &pc.PointCloud{
		PointCloudHeader: pc.PointCloudHeader{
			Version: 0.7,
			Fields:  []string{"x", "y", "z", "label"},
			Size:    []int{4, 4, 4, 4},
			Type:    []string{"F", "F", "F", "U"},
			Count:   []int{1, 1, 1, 1},
			Width:   len(ps),
			Height:  1,
		},
		Points: len(ps),
	}
	pp.Data = make([]byte, len(ps)*pp.Stride())
	if len(ps) == 0 {
		return pp, nil
	}

	it, err := pp.Vec3Iterator()
	if err != nil {
		return nil, err
	}
	itL, err := pp.Uint32Iterator("label")
	if err != nil {
		return nil, err
	}
	for i, p := range ps {
		it.SetVec3(Vec3(p))
		if label != nil {
			itL.SetUint32(label(i))
		}
		it.Incr()
		itL.Incr()
	}
	return pp, nil
}

// WritePCD writes the point set in binary PCD format. Points listed as
// inliers of the partition are labeled LabelWall.
func WritePCD(w io.Writer, ps PointSet, part Partition) error {
	wall := make([]bool, len(ps))
	for _, i := range part.Inliers {
		if i < 0 || i >= len(ps) {
			return errors.Errorf("inlier index %d out of range", i)
		}
		wall[i] = true
	}
	pp, err := ToPointCloud(ps, func(i int) uint32 {
		if wall[i] {
			return LabelWall
		}
		return LabelOther
	})
	if err != nil {
		return err
	}
	return pc.Marshal(pp, w)
}
