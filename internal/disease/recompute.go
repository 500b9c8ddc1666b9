package disease

import (
	"fmt"

	"gocv.io/x/gocv"
)

// Result bundles everything one recomputation produces.
type Result struct {
	Threshold Threshold
	Alpha     *AlphaMask
	Scores    *ScoreMap
	Estimate  Estimate

	ownsAlpha bool
}

// Label returns the formatted percentage text.
func (r *Result) Label() string {
	return FormatPercentage(r.Estimate.Percentage)
}

// Close releases the score map, and the alpha mask when the result owns it.
func (r *Result) Close() error {
	if r == nil {
		return nil
	}
	err := r.Scores.Close()
	if r.ownsAlpha {
		if aerr := r.Alpha.Close(); err == nil {
			err = aerr
		}
	}
	return err
}

// Recompute rebuilds the score map and percentage for img using an alpha
// mask that was computed once for that image. The returned Result borrows
// alpha; closing the Result leaves alpha open.
func Recompute(img gocv.Mat, alpha *AlphaMask, t Threshold) (*Result, error) {
	if alpha == nil {
		return nil, fmt.Errorf("alpha mask is required")
	}
	if alpha.Rows() != img.Rows() || alpha.Cols() != img.Cols() {
		return nil, fmt.Errorf("%w: image %dx%d, alpha %dx%d",
			ErrDimensionMismatch, img.Cols(), img.Rows(), alpha.Cols(), alpha.Rows())
	}

	scores, err := ComputeScoreMap(img, t)
	if err != nil {
		return nil, fmt.Errorf("disease map: %w", err)
	}

	est, err := EstimatePercentage(scores, alpha, t)
	if err != nil {
		scores.Close()
		return nil, fmt.Errorf("percentage: %w", err)
	}

	return &Result{
		Threshold: t,
		Alpha:     alpha,
		Scores:    scores,
		Estimate:  est,
	}, nil
}

// Analyze computes the alpha mask with cutoff and then runs Recompute, for
// one-shot analysis without a threshold control. The returned Result owns
// its alpha mask.
func Analyze(img gocv.Mat, cutoff int, t Threshold) (*Result, error) {
	alpha, err := ComputeAlphaMask(img, cutoff)
	if err != nil {
		return nil, fmt.Errorf("alpha mask: %w", err)
	}

	res, err := Recompute(img, alpha, t)
	if err != nil {
		alpha.Close()
		return nil, err
	}
	res.ownsAlpha = true
	return res, nil
}
