// Red-minus-green disease score with green override
package disease

import (
	"fmt"

	"gocv.io/x/gocv"
)

// ScoreMap holds the signed 16-bit per-pixel disease score.
type ScoreMap struct {
	mat       gocv.Mat
	overrides int
	threshold Threshold
}

// ComputeScoreMap computes red - green for every pixel and then overwrites
// the score with MaxScore wherever green is strictly greater than t.
// Scores that are not overwritten keep their sign.
func ComputeScoreMap(img gocv.Mat, t Threshold) (*ScoreMap, error) {
	if err := validateColorImage(img); err != nil {
		return nil, err
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}

	channels := gocv.Split(img)
	defer func() {
		for _, ch := range channels {
			ch.Close()
		}
	}()
	if len(channels) != 3 {
		return nil, fmt.Errorf("%w: split produced %d channels", ErrUnsupportedImage, len(channels))
	}
	// OpenCV stores channels as BGR
	green, red := channels[1], channels[2]

	red16 := gocv.NewMat()
	defer red16.Close()
	green16 := gocv.NewMat()
	defer green16.Close()
	red.ConvertTo(&red16, gocv.MatTypeCV16S)
	green.ConvertTo(&green16, gocv.MatTypeCV16S)

	score := gocv.NewMat()
	gocv.Subtract(red16, green16, &score)

	override := gocv.NewMat()
	defer override.Close()
	gocv.Threshold(green, &override, float32(t), 255, gocv.ThresholdBinary)

	maxed := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(MaxScore, 0, 0, 0), img.Rows(), img.Cols(), gocv.MatTypeCV16SC1)
	defer maxed.Close()
	maxed.CopyToWithMask(&score, override)

	return &ScoreMap{
		mat:       score,
		overrides: gocv.CountNonZero(override),
		threshold: t,
	}, nil
}

// Mat returns the underlying CV_16SC1 score grid. The caller must not close it.
func (s *ScoreMap) Mat() gocv.Mat {
	return s.mat
}

func (s *ScoreMap) Rows() int { return s.mat.Rows() }
func (s *ScoreMap) Cols() int { return s.mat.Cols() }

// At returns the score at (row, col).
func (s *ScoreMap) At(row, col int) int {
	return int(s.mat.GetShortAt(row, col))
}

// OverrideCount is the number of pixels forced to MaxScore.
func (s *ScoreMap) OverrideCount() int {
	return s.overrides
}

// Threshold returns the Processing Factor the map was computed with.
func (s *ScoreMap) Threshold() Threshold {
	return s.threshold
}

// CountBelow counts pixels whose score is strictly less than t, across the
// whole grid.
func (s *ScoreMap) CountBelow(t Threshold) int {
	below := s.BelowMask(t)
	defer below.Close()
	return gocv.CountNonZero(below)
}

// BelowMask returns a CV_8UC1 mask with 255 wherever the score is strictly
// less than t. The caller closes it.
func (s *ScoreMap) BelowMask(t Threshold) gocv.Mat {
	limit := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(float64(t), 0, 0, 0), s.mat.Rows(), s.mat.Cols(), gocv.MatTypeCV16SC1)
	defer limit.Close()

	below := gocv.NewMat()
	gocv.Compare(s.mat, limit, &below, gocv.CompareLT)
	return below
}

// Values returns a copy of the scores in row-major order.
func (s *ScoreMap) Values() ([]int16, error) {
	data, err := s.mat.DataPtrInt16()
	if err != nil {
		return nil, fmt.Errorf("failed to read score data: %w", err)
	}
	values := make([]int16, len(data))
	copy(values, data)
	return values, nil
}

func (s *ScoreMap) Close() error {
	if s == nil {
		return nil
	}
	return s.mat.Close()
}
