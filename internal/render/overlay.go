package render

import (
	"fmt"

	"gocv.io/x/gocv"

	"plant-disease-detector/internal/disease"
)

// DefaultOverlayOpacity is the tint strength used for the overlay view.
const DefaultOverlayOpacity = 0.6

// Overlay tints, in red, every pixel counted toward the disease percentage.
// The caller closes the returned Mat.
func Overlay(img gocv.Mat, res *disease.Result, opacity float64) (gocv.Mat, error) {
	if img.Empty() {
		return gocv.NewMat(), fmt.Errorf("image is empty")
	}
	if opacity < 0 || opacity > 1 {
		return gocv.NewMat(), fmt.Errorf("opacity %.2f not in [0, 1]", opacity)
	}
	if res.Scores.Rows() != img.Rows() || res.Scores.Cols() != img.Cols() {
		return gocv.NewMat(), fmt.Errorf("%w: overlay", disease.ErrDimensionMismatch)
	}

	mask := res.Scores.BelowMask(res.Threshold)
	defer mask.Close()

	tint := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 255, 0), img.Rows(), img.Cols(), img.Type())
	defer tint.Close()

	blended := gocv.NewMat()
	defer blended.Close()
	gocv.AddWeighted(img, 1.0-opacity, tint, opacity, 0, &blended)

	out := img.Clone()
	blended.CopyToWithMask(&out, mask)
	return out, nil
}
