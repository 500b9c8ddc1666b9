package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
)

func TestLeafImageLifecycle(t *testing.T) {
	img := NewLeafImage()
	assert.False(t, img.HasImage())

	assert.Empty(t, img.GetFilepath())

	src := gocv.NewMatWithSize(4, 5, gocv.MatTypeCV8UC3)
	defer src.Close()

	require.NoError(t, img.SetOriginal(src, "/tmp/leaf.JPG"))
	assert.True(t, img.HasImage())
	assert.Equal(t, ImageMetadata{Width: 5, Height: 4, Channels: 3, Format: "jpg"}, img.GetMetadata())

	assert.Equal(t, "/tmp/leaf.JPG", img.GetFilepath())

	err := img.WithOriginal(func(m gocv.Mat) error {
		assert.Equal(t, 4, m.Rows())
		return nil
	})
	require.NoError(t, err)

	img.Clear()
	assert.False(t, img.HasImage())
	assert.Error(t, img.WithOriginal(func(gocv.Mat) error { return nil }))
}

func TestLeafImageRejectsNonBGR(t *testing.T) {
	img := NewLeafImage()
	defer img.Close()

	gray := gocv.NewMatWithSize(2, 2, gocv.MatTypeCV8UC1)
	defer gray.Close()

	assert.Error(t, img.SetOriginal(gray, "gray.png"))
}

func TestNormalizeColor(t *testing.T) {
	bgra := gocv.NewMatWithSize(2, 3, gocv.MatTypeCV8UC4)
	defer bgra.Close()

	out, err := NormalizeColor(bgra)
	require.NoError(t, err)
	defer out.Close()
	assert.Equal(t, gocv.MatTypeCV8UC3, out.Type())

	float := gocv.NewMatWithSize(2, 3, gocv.MatTypeCV32FC3)
	defer float.Close()
	_, err = NormalizeColor(float)
	assert.Error(t, err)
}

func TestValidateImage(t *testing.T) {
	empty := gocv.NewMat()
	defer empty.Close()
	assert.Error(t, ValidateImage(empty))

	two := gocv.NewMatWithSize(2, 2, gocv.MatTypeCV8UC2)
	defer two.Close()
	assert.Error(t, ValidateImage(two))
}
