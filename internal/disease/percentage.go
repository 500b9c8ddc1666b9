package disease

import (
	"fmt"
	"math"
)

// Estimate is the outcome of aggregating a score map against an alpha mask.
type Estimate struct {
	// LeafPixels is the number of non-background pixels.
	LeafPixels int
	// CountedPixels is the number of pixels, background included, whose
	// score is strictly below the threshold.
	CountedPixels int
	TotalPixels   int
	Percentage    float64
}

// EstimatePercentage returns CountedPixels / LeafPixels * 100, or 0 when the
// image has no leaf pixels. CountedPixels is taken over the whole image, so
// the result can exceed 100.
func EstimatePercentage(scores *ScoreMap, alpha *AlphaMask, t Threshold) (Estimate, error) {
	if scores == nil || alpha == nil {
		return Estimate{}, ErrEmptyImage
	}
	if err := t.Validate(); err != nil {
		return Estimate{}, err
	}
	if scores.Rows() != alpha.Rows() || scores.Cols() != alpha.Cols() {
		return Estimate{}, fmt.Errorf("%w: scores %dx%d, alpha %dx%d",
			ErrDimensionMismatch, scores.Cols(), scores.Rows(), alpha.Cols(), alpha.Rows())
	}

	est := Estimate{
		LeafPixels:    alpha.LeafPixels(),
		CountedPixels: scores.CountBelow(t),
		TotalPixels:   scores.Rows() * scores.Cols(),
	}
	if est.LeafPixels > 0 {
		est.Percentage = float64(est.CountedPixels) / float64(est.LeafPixels) * 100
	}
	return est, nil
}

// Round2 rounds p to two decimal places.
func Round2(p float64) float64 {
	return math.Round(p*100) / 100
}

// FormatPercentage renders the label shown next to the slider.
func FormatPercentage(p float64) string {
	return fmt.Sprintf("Percentage Disease: %.2f%%", Round2(p))
}
