// Descriptive metrics over a disease analysis
package metrics

import (
	"fmt"
	"sort"

	"plant-disease-detector/internal/disease"
)

// Metric defines the interface for result metrics
type Metric interface {
	// Calculate computes the metric value
	Calculate(res *disease.Result) (float64, error)

	// GetName returns the display name
	GetName() string

	// GetDescription returns the metric description
	GetDescription() string
}

// Evaluator manages and calculates multiple metrics
type Evaluator struct {
	metrics map[string]Metric
}

// NewEvaluator creates an evaluator with the default metrics registered
func NewEvaluator() *Evaluator {
	e := &Evaluator{
		metrics: make(map[string]Metric),
	}
	e.RegisterDefaultMetrics()
	return e
}

// RegisterDefaultMetrics registers all default metrics
func (e *Evaluator) RegisterDefaultMetrics() {
	e.Register("percentage", NewPercentage())
	e.Register("leaf_fraction", NewLeafFraction())
	e.Register("override_fraction", NewOverrideFraction())
	e.Register("leaf_score_mean", NewLeafScoreMean())
	e.Register("leaf_score_stddev", NewLeafScoreStdDev())
	e.Register("leaf_score_median", NewLeafScoreMedian())
}

func (e *Evaluator) Register(name string, metric Metric) {
	e.metrics[name] = metric
}

// Calculate calculates a specific metric
func (e *Evaluator) Calculate(name string, res *disease.Result) (float64, error) {
	metric, exists := e.metrics[name]
	if !exists {
		return 0, fmt.Errorf("metric not found: %s", name)
	}
	if res == nil {
		return 0, fmt.Errorf("no result to evaluate")
	}
	return metric.Calculate(res)
}

// CalculateAll calculates every registered metric, skipping the ones that fail
func (e *Evaluator) CalculateAll(res *disease.Result) map[string]float64 {
	results := make(map[string]float64)
	if res == nil {
		return results
	}

	for name, metric := range e.metrics {
		if value, err := metric.Calculate(res); err == nil {
			results[name] = value
		}
	}
	return results
}

// Names returns the registered metric keys in sorted order
func (e *Evaluator) Names() []string {
	names := make([]string, 0, len(e.metrics))
	for name := range e.metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Get returns a registered metric
func (e *Evaluator) Get(name string) (Metric, bool) {
	m, ok := e.metrics[name]
	return m, ok
}
