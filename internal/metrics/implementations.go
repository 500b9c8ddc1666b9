// Concrete implementations of result metrics
package metrics

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"

	"plant-disease-detector/internal/disease"
)

// Percentage is the rounded disease percentage
type Percentage struct{}

func NewPercentage() *Percentage { return &Percentage{} }

func (p *Percentage) Calculate(res *disease.Result) (float64, error) {
	return disease.Round2(res.Estimate.Percentage), nil
}

func (p *Percentage) GetName() string { return "Disease Percentage" }

func (p *Percentage) GetDescription() string {
	return "Pixels scoring below the threshold per leaf pixel, in percent"
}

// LeafFraction is the share of the image classified as leaf
type LeafFraction struct{}

func NewLeafFraction() *LeafFraction { return &LeafFraction{} }

func (l *LeafFraction) Calculate(res *disease.Result) (float64, error) {
	if res.Estimate.TotalPixels == 0 {
		return 0, fmt.Errorf("empty image")
	}
	return float64(res.Estimate.LeafPixels) / float64(res.Estimate.TotalPixels), nil
}

func (l *LeafFraction) GetName() string { return "Leaf Fraction" }

func (l *LeafFraction) GetDescription() string {
	return "Fraction of pixels not classified as background"
}

// OverrideFraction is the share of pixels forced to the maximum score
type OverrideFraction struct{}

func NewOverrideFraction() *OverrideFraction { return &OverrideFraction{} }

func (o *OverrideFraction) Calculate(res *disease.Result) (float64, error) {
	if res.Estimate.TotalPixels == 0 {
		return 0, fmt.Errorf("empty image")
	}
	return float64(res.Scores.OverrideCount()) / float64(res.Estimate.TotalPixels), nil
}

func (o *OverrideFraction) GetName() string { return "Override Fraction" }

func (o *OverrideFraction) GetDescription() string {
	return "Fraction of pixels whose green channel exceeds the threshold"
}

// LeafScoreMean is the mean score over leaf pixels
type LeafScoreMean struct{}

func NewLeafScoreMean() *LeafScoreMean { return &LeafScoreMean{} }

func (m *LeafScoreMean) Calculate(res *disease.Result) (float64, error) {
	scores, err := LeafScores(res)
	if err != nil {
		return 0, err
	}
	return stat.Mean(scores, nil), nil
}

func (m *LeafScoreMean) GetName() string { return "Leaf Score Mean" }

func (m *LeafScoreMean) GetDescription() string {
	return "Mean disease score over leaf pixels"
}

// LeafScoreStdDev is the sample standard deviation of leaf scores
type LeafScoreStdDev struct{}

func NewLeafScoreStdDev() *LeafScoreStdDev { return &LeafScoreStdDev{} }

func (s *LeafScoreStdDev) Calculate(res *disease.Result) (float64, error) {
	scores, err := LeafScores(res)
	if err != nil {
		return 0, err
	}
	if len(scores) < 2 {
		return 0, nil
	}
	_, std := stat.MeanStdDev(scores, nil)
	return std, nil
}

func (s *LeafScoreStdDev) GetName() string { return "Leaf Score Std Dev" }

func (s *LeafScoreStdDev) GetDescription() string {
	return "Sample standard deviation of the disease score over leaf pixels"
}

// LeafScoreMedian is the empirical median of leaf scores
type LeafScoreMedian struct{}

func NewLeafScoreMedian() *LeafScoreMedian { return &LeafScoreMedian{} }

func (m *LeafScoreMedian) Calculate(res *disease.Result) (float64, error) {
	scores, err := LeafScores(res)
	if err != nil {
		return 0, err
	}
	sort.Float64s(scores)
	return stat.Quantile(0.5, stat.Empirical, scores, nil), nil
}

func (m *LeafScoreMedian) GetName() string { return "Leaf Score Median" }

func (m *LeafScoreMedian) GetDescription() string {
	return "Median disease score over leaf pixels"
}

// LeafScores collects the scores of every non-background pixel. It fails
// when the image has no leaf pixels.
func LeafScores(res *disease.Result) ([]float64, error) {
	if res.Alpha == nil || res.Scores == nil {
		return nil, fmt.Errorf("incomplete result")
	}
	if res.Alpha.LeafPixels() == 0 {
		return nil, fmt.Errorf("no leaf pixels")
	}

	values, err := res.Scores.Values()
	if err != nil {
		return nil, err
	}
	alpha := res.Alpha.Mat()
	mask := alpha.ToBytes()
	if len(mask) != len(values) {
		return nil, fmt.Errorf("mask has %d pixels, scores have %d", len(mask), len(values))
	}

	out := make([]float64, 0, res.Alpha.LeafPixels())
	for i, v := range values {
		if mask[i] == 0 {
			out = append(out, float64(v))
		}
	}
	return out, nil
}
