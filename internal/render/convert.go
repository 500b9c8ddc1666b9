// Conversion of analysis Mats into displayable images
package render

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"gocv.io/x/gocv"

	"plant-disease-detector/internal/disease"
)

// View is one titled image shown to the user. Detail is optional.
type View struct {
	Title  string
	Detail string
	Image  image.Image
}

// ToImage converts a Mat to image.Image. Signed 16-bit Mats are saturated
// into 0..255 first, so negative scores render black.
func ToImage(mat gocv.Mat) (image.Image, error) {
	if mat.Empty() {
		return nil, fmt.Errorf("cannot render empty image")
	}

	switch mat.Type() {
	case gocv.MatTypeCV8UC1, gocv.MatTypeCV8UC3, gocv.MatTypeCV8UC4:
		return mat.ToImage()
	case gocv.MatTypeCV16SC1:
		bytes := gocv.NewMat()
		defer bytes.Close()
		mat.ConvertTo(&bytes, gocv.MatTypeCV8U)
		return bytes.ToImage()
	default:
		return nil, fmt.Errorf("unsupported mat type for display: %v", mat.Type())
	}
}

// Thumbnail scales img down to fit in a size x size box. Smaller images
// are returned unscaled.
func Thumbnail(img image.Image, size int) image.Image {
	if size <= 0 {
		return img
	}
	return imaging.Fit(img, size, size, imaging.Lanczos)
}

// AnalysisViews renders the original image, its isolated channels, the
// alpha mask, the disease map and the disease overlay.
func AnalysisViews(img gocv.Mat, res *disease.Result) ([]View, error) {
	if res == nil {
		return nil, fmt.Errorf("no result to render")
	}

	var views []View
	add := func(title string, mat gocv.Mat) error {
		out, err := ToImage(mat)
		if err != nil {
			return fmt.Errorf("%s: %w", title, err)
		}
		views = append(views, View{Title: title, Image: out})
		return nil
	}

	if err := add("Original Image", img); err != nil {
		return nil, err
	}

	channels := gocv.Split(img)
	defer func() {
		for _, ch := range channels {
			ch.Close()
		}
	}()
	if len(channels) != 3 {
		return nil, fmt.Errorf("expected 3 channels, got %d", len(channels))
	}
	for _, c := range []struct {
		title string
		index int
	}{
		{"Red Channel", 2},
		{"Green Channel", 1},
		{"Blue Channel", 0},
	} {
		if err := add(c.title, channels[c.index]); err != nil {
			return nil, err
		}
	}

	if err := add("Alpha Channel", res.Alpha.Mat()); err != nil {
		return nil, err
	}
	if err := add("Disease Image", res.Scores.Mat()); err != nil {
		return nil, err
	}

	overlay, err := Overlay(img, res, DefaultOverlayOpacity)
	if err != nil {
		return nil, err
	}
	defer overlay.Close()
	if err := add("Disease Overlay", overlay); err != nil {
		return nil, err
	}

	return views, nil
}
