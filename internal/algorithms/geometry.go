// Geometric transforms for visual inspection
package algorithms

import (
	"fmt"
	"image"
	"math"

	"gocv.io/x/gocv"
)

// affine warps input with the 2x3 matrix [[a, b, c], [d, e, f]], keeping the
// input size.
func affine(input gocv.Mat, a, b, c, d, e, f float64) gocv.Mat {
	m := gocv.NewMatWithSize(2, 3, gocv.MatTypeCV64F)
	defer m.Close()
	m.SetDoubleAt(0, 0, a)
	m.SetDoubleAt(0, 1, b)
	m.SetDoubleAt(0, 2, c)
	m.SetDoubleAt(1, 0, d)
	m.SetDoubleAt(1, 1, e)
	m.SetDoubleAt(1, 2, f)

	output := gocv.NewMat()
	gocv.WarpAffine(input, &output, m, image.Pt(input.Cols(), input.Rows()))
	return output
}

// Scale resizes the image by a uniform factor
type Scale struct{}

func NewScale() *Scale { return &Scale{} }

func (s *Scale) Apply(input gocv.Mat, params map[string]interface{}) (gocv.Mat, error) {
	if input.Empty() {
		return gocv.NewMat(), fmt.Errorf("input image is empty")
	}
	factor := floatParam(params, "factor", 0.5)

	output := gocv.NewMat()
	gocv.Resize(input, &output, image.Point{}, factor, factor, gocv.InterpolationLinear)
	return output, nil
}

func (s *Scale) GetDefaultParams() map[string]interface{} {
	return map[string]interface{}{"factor": 0.5}
}

func (s *Scale) GetName() string { return "Scaled Image" }

func (s *Scale) GetDescription() string { return "Uniform resize by a factor" }

func (s *Scale) Validate(params map[string]interface{}) error {
	return checkRange(params, "factor", 0.01, 4)
}

func (s *Scale) GetParameterInfo() []ParameterInfo {
	return []ParameterInfo{
		{Name: "factor", Type: "float", Min: 0.01, Max: 4.0, Default: 0.5, Description: "Scale factor on both axes"},
	}
}

// Translate shifts the image; uncovered pixels become black
type Translate struct{}

func NewTranslate() *Translate { return &Translate{} }

func (t *Translate) Apply(input gocv.Mat, params map[string]interface{}) (gocv.Mat, error) {
	if input.Empty() {
		return gocv.NewMat(), fmt.Errorf("input image is empty")
	}
	dx := floatParam(params, "dx", 100)
	dy := floatParam(params, "dy", 50)

	return affine(input, 1, 0, dx, 0, 1, dy), nil
}

func (t *Translate) GetDefaultParams() map[string]interface{} {
	return map[string]interface{}{"dx": 100.0, "dy": 50.0}
}

func (t *Translate) GetName() string { return "Translated Image" }

func (t *Translate) GetDescription() string { return "Shift by dx, dy pixels" }

func (t *Translate) Validate(params map[string]interface{}) error {
	if err := checkRange(params, "dx", -10000, 10000); err != nil {
		return err
	}
	return checkRange(params, "dy", -10000, 10000)
}

func (t *Translate) GetParameterInfo() []ParameterInfo {
	return []ParameterInfo{
		{Name: "dx", Type: "float", Min: -10000.0, Max: 10000.0, Default: 100.0, Description: "Horizontal shift"},
		{Name: "dy", Type: "float", Min: -10000.0, Max: 10000.0, Default: 50.0, Description: "Vertical shift"},
	}
}

// Rotate turns the image about its center
type Rotate struct{}

func NewRotate() *Rotate { return &Rotate{} }

func (r *Rotate) Apply(input gocv.Mat, params map[string]interface{}) (gocv.Mat, error) {
	if input.Empty() {
		return gocv.NewMat(), fmt.Errorf("input image is empty")
	}
	angle := floatParam(params, "angle", 45)
	scale := floatParam(params, "scale", 1)

	m := rotationMatrix(float64(input.Cols())/2, float64(input.Rows())/2, angle, scale)
	return affine(input, m[0], m[1], m[2], m[3], m[4], m[5]), nil
}

// rotationMatrix builds the same matrix as cv::getRotationMatrix2D. gocv only
// takes an integer center there, which is off by half a pixel on odd sizes.
func rotationMatrix(cx, cy, angle, scale float64) [6]float64 {
	rad := angle * math.Pi / 180
	a := scale * math.Cos(rad)
	b := scale * math.Sin(rad)
	return [6]float64{
		a, b, (1-a)*cx - b*cy,
		-b, a, b*cx + (1-a)*cy,
	}
}

func (r *Rotate) GetDefaultParams() map[string]interface{} {
	return map[string]interface{}{"angle": 45.0, "scale": 1.0}
}

func (r *Rotate) GetName() string { return "Rotated Image" }

func (r *Rotate) GetDescription() string { return "Rotation about the image center, counter-clockwise in degrees" }

func (r *Rotate) Validate(params map[string]interface{}) error {
	if err := checkRange(params, "angle", -360, 360); err != nil {
		return err
	}
	return checkRange(params, "scale", 0.01, 4)
}

func (r *Rotate) GetParameterInfo() []ParameterInfo {
	return []ParameterInfo{
		{Name: "angle", Type: "float", Min: -360.0, Max: 360.0, Default: 45.0, Description: "Rotation angle in degrees"},
		{Name: "scale", Type: "float", Min: 0.01, Max: 4.0, Default: 1.0, Description: "Isotropic scale applied with the rotation"},
	}
}

// Shear applies the symmetric shear [[1, k, 0], [k, 1, 0]]
type Shear struct{}

func NewShear() *Shear { return &Shear{} }

func (s *Shear) Apply(input gocv.Mat, params map[string]interface{}) (gocv.Mat, error) {
	if input.Empty() {
		return gocv.NewMat(), fmt.Errorf("input image is empty")
	}
	k := floatParam(params, "factor", 0.5)

	return affine(input, 1, k, 0, k, 1, 0), nil
}

func (s *Shear) GetDefaultParams() map[string]interface{} {
	return map[string]interface{}{"factor": 0.5}
}

func (s *Shear) GetName() string { return "Sheared Image" }

func (s *Shear) GetDescription() string { return "Symmetric shear on both axes" }

func (s *Shear) Validate(params map[string]interface{}) error {
	return checkRange(params, "factor", -2, 2)
}

func (s *Shear) GetParameterInfo() []ParameterInfo {
	return []ParameterInfo{
		{Name: "factor", Type: "float", Min: -2.0, Max: 2.0, Default: 0.5, Description: "Shear coefficient"},
	}
}

// Reflect mirrors the image
type Reflect struct{}

func NewReflect() *Reflect { return &Reflect{} }

func (r *Reflect) Apply(input gocv.Mat, params map[string]interface{}) (gocv.Mat, error) {
	if input.Empty() {
		return gocv.NewMat(), fmt.Errorf("input image is empty")
	}
	code := 1
	if v, ok := params["vertical"].(bool); ok && v {
		code = 0
	}

	output := gocv.NewMat()
	gocv.Flip(input, &output, code)
	return output, nil
}

func (r *Reflect) GetDefaultParams() map[string]interface{} {
	return map[string]interface{}{"vertical": false}
}

func (r *Reflect) GetName() string { return "Reflected Image" }

func (r *Reflect) GetDescription() string { return "Mirror around the vertical axis, or the horizontal one when vertical is set" }

func (r *Reflect) Validate(params map[string]interface{}) error {
	if v, ok := params["vertical"]; ok {
		if _, isBool := v.(bool); !isBool {
			return fmt.Errorf("vertical must be a bool")
		}
	}
	return nil
}

func (r *Reflect) GetParameterInfo() []ParameterInfo {
	return []ParameterInfo{
		{Name: "vertical", Type: "bool", Default: false, Description: "Flip top to bottom instead of left to right"},
	}
}
