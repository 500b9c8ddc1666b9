package algorithms

import (
	"context"
	"fmt"
	"strings"

	"gocv.io/x/gocv"
	"golang.org/x/sync/errgroup"

	"plant-disease-detector/internal/config"
)

// Step is one entry of the inspection gallery.
type Step struct {
	Algorithm string
	Params    map[string]interface{}
}

// Output is a rendered gallery entry. The caller closes Mat.
type Output struct {
	Title  string
	Detail string
	Mat    gocv.Mat
}

// GallerySteps builds the inspection gallery from configuration, in display order.
func GallerySteps(cfg config.GalleryConfig) []Step {
	return []Step{
		{Algorithm: "canny", Params: map[string]interface{}{"low": cfg.CannyLow, "high": cfg.CannyHigh}},
		{Algorithm: "gaussian", Params: map[string]interface{}{"kernel_size": float64(cfg.BlurKernel), "sigma": 0.0}},
		{Algorithm: "scale", Params: map[string]interface{}{"factor": cfg.Scale}},
		{Algorithm: "translate", Params: map[string]interface{}{"dx": cfg.TranslateX, "dy": cfg.TranslateY}},
		{Algorithm: "rotate", Params: map[string]interface{}{"angle": cfg.RotateDegrees, "scale": 1.0}},
		{Algorithm: "shear", Params: map[string]interface{}{"factor": cfg.Shear}},
		{Algorithm: "reflect", Params: map[string]interface{}{"vertical": false}},
	}
}

// ValidateGallery checks the configured gallery against the parameter
// ranges of each algorithm.
func ValidateGallery(cfg config.GalleryConfig) error {
	for _, step := range GallerySteps(cfg) {
		if err := ValidateParameters(step.Algorithm, step.Params); err != nil {
			return fmt.Errorf("%w: gallery %s: %v", config.ErrInvalidConfig, step.Algorithm, err)
		}
	}
	return nil
}

// Describe renders the algorithm description and the step's parameter
// values, in GetParameterInfo order. Unset parameters show their default.
func Describe(step Step) string {
	algorithm, ok := Get(step.Algorithm)
	if !ok {
		return step.Algorithm
	}

	var parts []string
	for _, info := range algorithm.GetParameterInfo() {
		value, ok := step.Params[info.Name]
		if !ok {
			value = info.Default
		}
		parts = append(parts, fmt.Sprintf("%s=%v", info.Name, value))
	}
	if len(parts) == 0 {
		return algorithm.GetDescription()
	}
	return fmt.Sprintf("%s (%s)", algorithm.GetDescription(), strings.Join(parts, ", "))
}

// RunGallery applies every step to src concurrently. src is only read.
// Outputs keep the order of steps; on error every produced Mat is closed.
func RunGallery(ctx context.Context, src gocv.Mat, steps []Step) ([]Output, error) {
	algorithms := make([]Algorithm, len(steps))
	for i, step := range steps {
		algorithm, ok := Get(step.Algorithm)
		if !ok {
			return nil, fmt.Errorf("algorithm not found: %s", step.Algorithm)
		}
		algorithms[i] = algorithm
	}

	outputs := make([]Output, len(steps))
	done := make([]bool, len(steps))
	g, ctx := errgroup.WithContext(ctx)

	for i, step := range steps {
		algorithm := algorithms[i]
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			mat, err := Apply(step.Algorithm, src, step.Params)
			if err != nil {
				return err
			}
			outputs[i] = Output{Title: algorithm.GetName(), Detail: Describe(step), Mat: mat}
			done[i] = true
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		for i, out := range outputs {
			if done[i] {
				out.Mat.Close()
			}
		}
		return nil, err
	}
	return outputs, nil
}
