// Threshold handling and shared errors for the disease heuristic
package disease

import (
	"errors"
	"fmt"

	"gocv.io/x/gocv"
)

const (
	// DefaultThreshold is the initial Processing Factor.
	DefaultThreshold Threshold = 150

	// MinThreshold and MaxThreshold bound the Processing Factor.
	MinThreshold Threshold = 0
	MaxThreshold Threshold = 255

	// BackgroundCutoff is the strict per-channel value a pixel must exceed
	// on all three channels to count as background.
	BackgroundCutoff = 200

	// MaxScore is written into the score map wherever the green override fires.
	MaxScore = 255
)

var (
	ErrEmptyImage        = errors.New("image is empty")
	ErrUnsupportedImage  = errors.New("unsupported image layout")
	ErrThresholdRange    = errors.New("threshold out of range")
	ErrDimensionMismatch = errors.New("dimension mismatch")
)

// Threshold is the Processing Factor snapshot used for one recomputation.
type Threshold int

// NewThreshold validates v against [MinThreshold, MaxThreshold].
func NewThreshold(v int) (Threshold, error) {
	t := Threshold(v)
	if err := t.Validate(); err != nil {
		return 0, err
	}
	return t, nil
}

func (t Threshold) Validate() error {
	if t < MinThreshold || t > MaxThreshold {
		return fmt.Errorf("%w: %d not in [%d, %d]", ErrThresholdRange, int(t), MinThreshold, MaxThreshold)
	}
	return nil
}

// validateColorImage checks that img is a non-empty 8-bit, 3-channel BGR Mat.
func validateColorImage(img gocv.Mat) error {
	if img.Empty() {
		return ErrEmptyImage
	}
	if img.Rows() <= 0 || img.Cols() <= 0 {
		return fmt.Errorf("%w: invalid dimensions %dx%d", ErrEmptyImage, img.Cols(), img.Rows())
	}
	if img.Type() != gocv.MatTypeCV8UC3 {
		return fmt.Errorf("%w: expected 8-bit 3-channel image, got %d channels", ErrUnsupportedImage, img.Channels())
	}
	return nil
}
