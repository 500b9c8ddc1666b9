package io

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
)

func newTestLoader() (*ImageLoader, *test.Hook) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	return NewImageLoader(logger), hook
}

func sampleImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 3, 2))
	img.Set(0, 0, color.RGBA{R: 255, G: 255, B: 255, A: 255})
	img.Set(1, 0, color.RGBA{R: 10, G: 50, B: 10, A: 255})
	img.Set(2, 0, color.RGBA{R: 200, G: 30, B: 20, A: 255})
	img.Set(0, 1, color.RGBA{R: 0, G: 0, B: 0, A: 255})
	img.Set(1, 1, color.RGBA{R: 40, G: 160, B: 30, A: 255})
	img.Set(2, 1, color.RGBA{R: 90, G: 80, B: 70, A: 255})
	return img
}

func writePNG(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "leaf.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, sampleImage()))
	return path
}

func TestResolveInput(t *testing.T) {
	path, err := ResolveInput([]string{"leaf.jpg"})
	require.NoError(t, err)
	assert.Equal(t, "leaf.jpg", path)

	path, err = ResolveInput([]string{"  ", "second.png"})
	require.NoError(t, err)
	assert.Equal(t, "second.png", path)

	_, err = ResolveInput(nil)
	assert.ErrorIs(t, err, ErrMissingInput)
}

func TestLoadImagePNG(t *testing.T) {
	loader, hook := newTestLoader()
	path := writePNG(t, t.TempDir())

	mat, err := loader.LoadImage(path)
	require.NoError(t, err)
	defer mat.Close()

	assert.Equal(t, 3, mat.Cols())
	assert.Equal(t, 2, mat.Rows())
	assert.Equal(t, 3, mat.Channels())

	// BGR order
	v := mat.GetVecbAt(0, 2)
	assert.Equal(t, []uint8{20, 30, 200}, []uint8{v[0], v[1], v[2]})

	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, "LOADER: Image loaded successfully", hook.LastEntry().Message)
}

func TestLoadImageErrors(t *testing.T) {
	loader, _ := newTestLoader()
	dir := t.TempDir()

	_, err := loader.LoadImage("")
	assert.ErrorIs(t, err, ErrMissingInput)

	_, err = loader.LoadImage(filepath.Join(dir, "notes.txt"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = loader.LoadImage(filepath.Join(dir, "missing.png"))
	assert.ErrorIs(t, err, ErrDecodeFailure)

	corrupt := filepath.Join(dir, "corrupt.png")
	require.NoError(t, os.WriteFile(corrupt, []byte("not an image"), 0o644))
	_, err = loader.LoadImage(corrupt)
	assert.ErrorIs(t, err, ErrDecodeFailure)
}

func TestDecodeWithGoBMP(t *testing.T) {
	path := filepath.Join(t.TempDir(), "leaf.bmp")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, bmp.Encode(f, sampleImage()))
	require.NoError(t, f.Close())

	mat, err := decodeWithGo(path)
	require.NoError(t, err)
	defer mat.Close()

	assert.Equal(t, 3, mat.Cols())
	assert.Equal(t, 2, mat.Rows())
	v := mat.GetVecbAt(1, 1)
	assert.Equal(t, []uint8{30, 160, 40}, []uint8{v[0], v[1], v[2]})
}

func TestIsSupportedImageFormat(t *testing.T) {
	assert.True(t, IsSupportedImageFormat("a/b/leaf.JPG"))
	assert.True(t, IsSupportedImageFormat("leaf.webp"))
	assert.False(t, IsSupportedImageFormat("leaf"))
	assert.False(t, IsSupportedImageFormat("leaf.gif"))
	assert.Contains(t, SupportedExtensions(), ".png")
}
