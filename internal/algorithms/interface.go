// Inspection transform registry
package algorithms

import (
	"fmt"
	"sort"
	"strings"

	"gocv.io/x/gocv"
)

// Algorithm defines the interface for inspection transforms
type Algorithm interface {
	Apply(input gocv.Mat, params map[string]interface{}) (gocv.Mat, error)
	GetDefaultParams() map[string]interface{}
	GetName() string
	GetDescription() string
	Validate(params map[string]interface{}) error
	GetParameterInfo() []ParameterInfo
}

// ParameterInfo describes a parameter for UI generation
type ParameterInfo struct {
	Name        string      `json:"name" yaml:"name"`
	Type        string      `json:"type" yaml:"type"` // "int", "float", "bool"
	Min         interface{} `json:"min,omitempty" yaml:"min,omitempty"`
	Max         interface{} `json:"max,omitempty" yaml:"max,omitempty"`
	Default     interface{} `json:"default" yaml:"default"`
	Description string      `json:"description" yaml:"description"`
}

var algorithms = make(map[string]Algorithm)

func Register(name string, algorithm Algorithm) {
	algorithms[name] = algorithm
}

func Get(name string) (Algorithm, bool) {
	algorithm, exists := algorithms[name]
	return algorithm, exists
}

// Apply validates params and runs the named algorithm. Missing parameters
// fall back to the algorithm defaults.
func Apply(name string, input gocv.Mat, params map[string]interface{}) (gocv.Mat, error) {
	algorithm, exists := algorithms[name]
	if !exists {
		return gocv.NewMat(), fmt.Errorf("algorithm not found: %s", name)
	}
	if input.Empty() {
		return gocv.NewMat(), fmt.Errorf("%s: input image is empty", name)
	}

	merged := algorithm.GetDefaultParams()
	for k, v := range params {
		merged[k] = v
	}
	if err := algorithm.Validate(merged); err != nil {
		return gocv.NewMat(), fmt.Errorf("%s: invalid parameters: %w", name, err)
	}

	return algorithm.Apply(input, merged)
}

func ValidateParameters(name string, params map[string]interface{}) error {
	algorithm, exists := algorithms[name]
	if !exists {
		return fmt.Errorf("algorithm not found: %s (known: %s)", name, strings.Join(Names(), ", "))
	}

	return algorithm.Validate(params)
}

// Names returns the registered algorithm names in sorted order
func Names() []string {
	names := make([]string, 0, len(algorithms))
	for name := range algorithms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// floatParam reads a numeric parameter, accepting float64 or int.
func floatParam(params map[string]interface{}, name string, def float64) float64 {
	val, ok := params[name]
	if !ok {
		return def
	}
	switch v := val.(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return def
}

// checkRange returns an error when params[name] is present and outside [min, max].
func checkRange(params map[string]interface{}, name string, min, max float64) error {
	if _, ok := params[name]; !ok {
		return nil
	}
	v := floatParam(params, name, min-1)
	if v < min || v > max {
		return fmt.Errorf("%s must be between %g and %g", name, min, max)
	}
	return nil
}

func init() {
	Register("canny", NewCannyEdges())
	Register("gaussian", NewGaussianFilter())

	Register("scale", NewScale())
	Register("translate", NewTranslate())
	Register("rotate", NewRotate())
	Register("shear", NewShear())
	Register("reflect", NewReflect())
}
