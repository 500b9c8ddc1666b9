// Filter algorithms for visual inspection
package algorithms

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// CannyEdges detects edges on the grayscale version of the input
type CannyEdges struct{}

func NewCannyEdges() *CannyEdges {
	return &CannyEdges{}
}

func (c *CannyEdges) Apply(input gocv.Mat, params map[string]interface{}) (gocv.Mat, error) {
	if input.Empty() {
		return gocv.NewMat(), fmt.Errorf("input image is empty")
	}

	low := floatParam(params, "low", 100)
	high := floatParam(params, "high", 200)

	gray := gocv.NewMat()
	defer gray.Close()
	if input.Channels() == 1 {
		input.CopyTo(&gray)
	} else {
		gocv.CvtColor(input, &gray, gocv.ColorBGRToGray)
	}

	edges := gocv.NewMat()
	gocv.Canny(gray, &edges, float32(low), float32(high))
	return edges, nil
}

func (c *CannyEdges) GetDefaultParams() map[string]interface{} {
	return map[string]interface{}{
		"low":  100.0,
		"high": 200.0,
	}
}

func (c *CannyEdges) GetName() string {
	return "Edges"
}

func (c *CannyEdges) GetDescription() string {
	return "Canny edge detection on the grayscale image"
}

func (c *CannyEdges) Validate(params map[string]interface{}) error {
	if err := checkRange(params, "low", 0, 1000); err != nil {
		return err
	}
	if err := checkRange(params, "high", 0, 1000); err != nil {
		return err
	}
	if floatParam(params, "high", 200) < floatParam(params, "low", 100) {
		return fmt.Errorf("high must not be below low")
	}
	return nil
}

func (c *CannyEdges) GetParameterInfo() []ParameterInfo {
	return []ParameterInfo{
		{
			Name:        "low",
			Type:        "float",
			Min:         0.0,
			Max:         1000.0,
			Default:     100.0,
			Description: "Lower hysteresis threshold",
		},
		{
			Name:        "high",
			Type:        "float",
			Min:         0.0,
			Max:         1000.0,
			Default:     200.0,
			Description: "Upper hysteresis threshold",
		},
	}
}

// GaussianFilter implements Gaussian blur filter
type GaussianFilter struct{}

// NewGaussianFilter creates a new Gaussian filter algorithm
func NewGaussianFilter() *GaussianFilter {
	return &GaussianFilter{}
}

func (g *GaussianFilter) Apply(input gocv.Mat, params map[string]interface{}) (gocv.Mat, error) {
	if input.Empty() {
		return gocv.NewMat(), fmt.Errorf("input image is empty")
	}

	kernelSize := int(floatParam(params, "kernel_size", 11))
	sigma := floatParam(params, "sigma", 0)

	// Ensure kernel size is odd
	if kernelSize%2 == 0 {
		kernelSize++
	}

	output := gocv.NewMat()
	gocv.GaussianBlur(input, &output, image.Pt(kernelSize, kernelSize), sigma, sigma, gocv.BorderDefault)
	return output, nil
}

func (g *GaussianFilter) GetDefaultParams() map[string]interface{} {
	return map[string]interface{}{
		"kernel_size": 11.0,
		"sigma":       0.0,
	}
}

func (g *GaussianFilter) GetName() string {
	return "Blurred Image"
}

func (g *GaussianFilter) GetDescription() string {
	return "Gaussian blur; sigma 0 derives it from the kernel size"
}

func (g *GaussianFilter) Validate(params map[string]interface{}) error {
	if err := checkRange(params, "kernel_size", 1, 51); err != nil {
		return err
	}
	return checkRange(params, "sigma", 0, 20)
}

func (g *GaussianFilter) GetParameterInfo() []ParameterInfo {
	return []ParameterInfo{
		{
			Name:        "kernel_size",
			Type:        "int",
			Min:         1.0,
			Max:         51.0,
			Default:     11.0,
			Description: "Size of the Gaussian kernel (must be odd)",
		},
		{
			Name:        "sigma",
			Type:        "float",
			Min:         0.0,
			Max:         20.0,
			Default:     0.0,
			Description: "Standard deviation in both directions",
		},
	}
}
