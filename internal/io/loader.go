// Image loading for the detector
package io

import (
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var (
	// ErrMissingInput means no image path was given or selected.
	ErrMissingInput = errors.New("no input image")
	// ErrUnsupportedFormat means the file extension is not a known image type.
	ErrUnsupportedFormat = errors.New("unsupported image format")
	// ErrDecodeFailure means the file could not be decoded into a color raster.
	ErrDecodeFailure = errors.New("failed to decode image")
)

var supportedFormats = []string{".jpg", ".jpeg", ".png", ".tiff", ".tif", ".bmp", ".webp"}

// ImageLoader decodes image files into BGR Mats.
type ImageLoader struct {
	logger logrus.FieldLogger
}

func NewImageLoader(logger logrus.FieldLogger) *ImageLoader {
	return &ImageLoader{
		logger: logger,
	}
}

// ResolveInput returns the first non-empty argument as the image path.
func ResolveInput(args []string) (string, error) {
	for _, arg := range args {
		if strings.TrimSpace(arg) != "" {
			return arg, nil
		}
	}
	return "", ErrMissingInput
}

// LoadImage decodes path as a 3-channel BGR Mat. OpenCV is tried first;
// files OpenCV cannot read fall back to the Go image decoders.
func (il *ImageLoader) LoadImage(path string) (gocv.Mat, error) {
	if path == "" {
		return gocv.NewMat(), ErrMissingInput
	}
	il.logger.WithField("filepath", path).Debug("LOADER: Loading image")

	if !IsSupportedImageFormat(path) {
		return gocv.NewMat(), fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}

	if _, err := os.Stat(path); err != nil {
		return gocv.NewMat(), fmt.Errorf("%w: %s: %v", ErrDecodeFailure, path, err)
	}

	mat := gocv.IMRead(path, gocv.IMReadColor)
	if mat.Empty() {
		mat.Close()
		il.logger.WithField("filepath", path).Debug("LOADER: OpenCV could not read file, trying Go decoders")

		var err error
		mat, err = decodeWithGo(path)
		if err != nil {
			return gocv.NewMat(), fmt.Errorf("%w: %s: %v", ErrDecodeFailure, path, err)
		}
	}

	il.logger.WithFields(logrus.Fields{
		"filepath": path,
		"width":    mat.Cols(),
		"height":   mat.Rows(),
		"channels": mat.Channels(),
	}).Info("LOADER: Image loaded successfully")

	return mat, nil
}

// decodeWithGo decodes path with the registered image decoders and
// converts the result to a BGR Mat.
func decodeWithGo(path string) (gocv.Mat, error) {
	f, err := os.Open(path)
	if err != nil {
		return gocv.NewMat(), err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return gocv.NewMat(), err
	}

	mat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return gocv.NewMat(), err
	}
	if mat.Empty() {
		mat.Close()
		return gocv.NewMat(), fmt.Errorf("decoded image is empty")
	}
	return mat, nil
}

// IsSupportedImageFormat checks the file extension only.
func IsSupportedImageFormat(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, format := range supportedFormats {
		if ext == format {
			return true
		}
	}
	return false
}

// SupportedExtensions returns the accepted extensions, for file dialogs.
func SupportedExtensions() []string {
	out := make([]string, len(supportedFormats))
	copy(out, supportedFormats)
	return out
}
