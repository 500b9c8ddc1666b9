// Loaded leaf image container
package core

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"gocv.io/x/gocv"
)

// maxDimension bounds either side of a loaded image.
const maxDimension = 16384

// LeafImage holds the loaded BGR image. It is replaced wholesale on every
// load and never mutated in between.
type LeafImage struct {
	mu       sync.RWMutex
	original gocv.Mat
	hasImage bool
	filepath string
	metadata ImageMetadata
}

// ImageMetadata contains image information
type ImageMetadata struct {
	Width    int
	Height   int
	Channels int
	Format   string
}

func NewLeafImage() *LeafImage {
	return &LeafImage{
		original: gocv.NewMat(),
	}
}

// SetOriginal stores a clone of mat, which must already be 8-bit BGR.
func (img *LeafImage) SetOriginal(mat gocv.Mat, path string) error {
	if err := ValidateImage(mat); err != nil {
		return err
	}
	if mat.Type() != gocv.MatTypeCV8UC3 {
		return fmt.Errorf("expected 8-bit BGR image, got %d channels", mat.Channels())
	}

	img.mu.Lock()
	defer img.mu.Unlock()

	img.original.Close()
	img.original = mat.Clone()
	img.hasImage = true
	img.filepath = path
	img.metadata = ImageMetadata{
		Width:    mat.Cols(),
		Height:   mat.Rows(),
		Channels: mat.Channels(),
		Format:   getFormatFromPath(path),
	}
	return nil
}

// WithOriginal calls fn with the stored image without copying it.
// fn must not retain or close the Mat.
func (img *LeafImage) WithOriginal(fn func(gocv.Mat) error) error {
	img.mu.RLock()
	defer img.mu.RUnlock()

	if !img.hasImage {
		return fmt.Errorf("no image loaded")
	}
	return fn(img.original)
}

func (img *LeafImage) HasImage() bool {
	img.mu.RLock()
	defer img.mu.RUnlock()
	return img.hasImage
}

func (img *LeafImage) GetMetadata() ImageMetadata {
	img.mu.RLock()
	defer img.mu.RUnlock()
	return img.metadata
}

func (img *LeafImage) GetFilepath() string {
	img.mu.RLock()
	defer img.mu.RUnlock()
	return img.filepath
}

// Clear releases the image and resets metadata.
func (img *LeafImage) Clear() {
	img.mu.Lock()
	defer img.mu.Unlock()

	img.original.Close()
	img.original = gocv.NewMat()
	img.hasImage = false
	img.filepath = ""
	img.metadata = ImageMetadata{}
}

func (img *LeafImage) Close() {
	img.Clear()
}

// NormalizeColor returns a new 8-bit BGR copy of mat. Grayscale and BGRA
// inputs are converted; anything else is rejected.
func NormalizeColor(mat gocv.Mat) (gocv.Mat, error) {
	if err := ValidateImage(mat); err != nil {
		return gocv.NewMat(), err
	}

	out := gocv.NewMat()
	switch mat.Type() {
	case gocv.MatTypeCV8UC3:
		mat.CopyTo(&out)
	case gocv.MatTypeCV8UC1:
		gocv.CvtColor(mat, &out, gocv.ColorGrayToBGR)
	case gocv.MatTypeCV8UC4:
		gocv.CvtColor(mat, &out, gocv.ColorBGRAToBGR)
	default:
		out.Close()
		return gocv.NewMat(), fmt.Errorf("unsupported image type with %d channels", mat.Channels())
	}
	return out, nil
}

// ValidateImage validates an OpenCV Mat for basic requirements
func ValidateImage(mat gocv.Mat) error {
	if mat.Empty() {
		return fmt.Errorf("image is empty")
	}

	if mat.Cols() <= 0 || mat.Rows() <= 0 {
		return fmt.Errorf("invalid dimensions: %dx%d", mat.Cols(), mat.Rows())
	}

	channels := mat.Channels()
	if channels != 1 && channels != 3 && channels != 4 {
		return fmt.Errorf("unsupported channel count: %d", channels)
	}

	if mat.Cols() > maxDimension || mat.Rows() > maxDimension {
		return fmt.Errorf("image too large: %dx%d (max: %d)", mat.Cols(), mat.Rows(), maxDimension)
	}

	return nil
}

func getFormatFromPath(path string) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if ext == "" {
		return "unknown"
	}
	return ext
}
