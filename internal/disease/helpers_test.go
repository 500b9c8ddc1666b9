package disease

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
)

type rgb struct{ r, g, b uint8 }

// newImage builds a BGR Mat from RGB pixels in row-major order.
func newImage(t *testing.T, rows, cols int, pixels ...rgb) gocv.Mat {
	t.Helper()
	require.Len(t, pixels, rows*cols)

	data := make([]byte, 0, rows*cols*3)
	for _, p := range pixels {
		data = append(data, p.b, p.g, p.r)
	}
	mat, err := gocv.NewMatFromBytes(rows, cols, gocv.MatTypeCV8UC3, data)
	require.NoError(t, err)
	t.Cleanup(func() { mat.Close() })
	return mat
}

// fill returns n copies of p.
func fill(n int, p rgb) []rgb {
	out := make([]rgb, n)
	for i := range out {
		out[i] = p
	}
	return out
}
