// Background segmentation by per-channel brightness
package disease

import (
	"fmt"

	"gocv.io/x/gocv"
)

// AlphaMask marks background pixels with 255 and leaf pixels with 0.
type AlphaMask struct {
	mat        gocv.Mat
	background int
}

// ComputeAlphaMask classifies a pixel as background when every channel is
// strictly greater than cutoff.
func ComputeAlphaMask(img gocv.Mat, cutoff int) (*AlphaMask, error) {
	if err := validateColorImage(img); err != nil {
		return nil, err
	}
	if cutoff < 0 || cutoff > 255 {
		return nil, fmt.Errorf("background cutoff %d not in [0, 255]", cutoff)
	}

	lower := float64(cutoff + 1)
	mask := gocv.NewMat()
	gocv.InRangeWithScalar(img,
		gocv.NewScalar(lower, lower, lower, 0),
		gocv.NewScalar(255, 255, 255, 0),
		&mask)

	return &AlphaMask{
		mat:        mask,
		background: gocv.CountNonZero(mask),
	}, nil
}

// Mat returns the underlying single-channel mask. The caller must not close it.
func (a *AlphaMask) Mat() gocv.Mat {
	return a.mat
}

func (a *AlphaMask) Rows() int { return a.mat.Rows() }
func (a *AlphaMask) Cols() int { return a.mat.Cols() }

// IsBackground reports whether the pixel at (row, col) is background.
func (a *AlphaMask) IsBackground(row, col int) bool {
	return a.mat.GetUCharAt(row, col) != 0
}

// BackgroundPixels returns the number of background pixels.
func (a *AlphaMask) BackgroundPixels() int {
	return a.background
}

// LeafPixels returns the number of non-background pixels.
func (a *AlphaMask) LeafPixels() int {
	return a.mat.Rows()*a.mat.Cols() - a.background
}

func (a *AlphaMask) Close() error {
	if a == nil {
		return nil
	}
	return a.mat.Close()
}
