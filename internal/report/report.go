// Headless output of an analysis
package report

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"plant-disease-detector/internal/disease"
)

const (
	FormatText = "text"
	FormatYAML = "yaml"
)

// Report is the serializable summary of one analysis.
type Report struct {
	Image            string             `yaml:"image"`
	Width            int                `yaml:"width"`
	Height           int                `yaml:"height"`
	Threshold        int                `yaml:"threshold"`
	Label            string             `yaml:"label"`
	Percentage       float64            `yaml:"percentage"`
	LeafPixels       int                `yaml:"leaf_pixels"`
	CountedPixels    int                `yaml:"counted_pixels"`
	TotalPixels      int                `yaml:"total_pixels"`
	OverriddenPixels int                `yaml:"overridden_pixels"`
	Metrics          map[string]float64 `yaml:"metrics,omitempty"`
}

// New builds a report from a result. metrics may be nil.
func New(path string, res *disease.Result, metrics map[string]float64) Report {
	return Report{
		Image:            path,
		Width:            res.Scores.Cols(),
		Height:           res.Scores.Rows(),
		Threshold:        int(res.Threshold),
		Label:            res.Label(),
		Percentage:       disease.Round2(res.Estimate.Percentage),
		LeafPixels:       res.Estimate.LeafPixels,
		CountedPixels:    res.Estimate.CountedPixels,
		TotalPixels:      res.Estimate.TotalPixels,
		OverriddenPixels: res.Scores.OverrideCount(),
		Metrics:          metrics,
	}
}

// Write renders r to w. The text format prints only the label line.
func Write(w io.Writer, r Report, format string) error {
	switch format {
	case FormatText, "":
		_, err := fmt.Fprintln(w, r.Label)
		return err
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("failed to encode report: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown report format: %q", format)
	}
}
