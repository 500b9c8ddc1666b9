package disease

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeScoreMapKeepsSignedScores(t *testing.T) {
	img := newImage(t, 1, 3,
		rgb{10, 50, 10},
		rgb{200, 20, 0},
		rgb{0, 150, 0},
	)

	scores, err := ComputeScoreMap(img, 150)
	require.NoError(t, err)
	defer scores.Close()

	assert.Equal(t, -40, scores.At(0, 0))
	assert.Equal(t, 180, scores.At(0, 1))
	// green == threshold does not trigger the override
	assert.Equal(t, -150, scores.At(0, 2))
	assert.Equal(t, 0, scores.OverrideCount())
	assert.Equal(t, Threshold(150), scores.Threshold())
}

func TestComputeScoreMapOverride(t *testing.T) {
	img := newImage(t, 1, 2,
		rgb{10, 200, 10},
		rgb{255, 151, 0},
	)

	scores, err := ComputeScoreMap(img, 150)
	require.NoError(t, err)
	defer scores.Close()

	assert.Equal(t, MaxScore, scores.At(0, 0))
	assert.Equal(t, MaxScore, scores.At(0, 1))
	assert.Equal(t, 2, scores.OverrideCount())
}

func TestComputeScoreMapThresholdZero(t *testing.T) {
	img := newImage(t, 2, 2,
		rgb{0, 1, 0}, rgb{100, 50, 0},
		rgb{3, 0, 9}, rgb{0, 255, 255},
	)

	scores, err := ComputeScoreMap(img, 0)
	require.NoError(t, err)
	defer scores.Close()

	assert.Equal(t, MaxScore, scores.At(0, 0))
	assert.Equal(t, MaxScore, scores.At(0, 1))
	assert.Equal(t, 3, scores.At(1, 0))
	assert.Equal(t, MaxScore, scores.At(1, 1))
	assert.Equal(t, 3, scores.OverrideCount())
}

func TestComputeScoreMapDimensions(t *testing.T) {
	img := newImage(t, 3, 4, fill(12, rgb{90, 80, 70})...)

	scores, err := ComputeScoreMap(img, DefaultThreshold)
	require.NoError(t, err)
	defer scores.Close()

	assert.Equal(t, 3, scores.Rows())
	assert.Equal(t, 4, scores.Cols())

	values, err := scores.Values()
	require.NoError(t, err)
	assert.Len(t, values, 12)
	for _, v := range values {
		assert.Equal(t, int16(10), v)
	}
}

func TestOverrideCountNonIncreasing(t *testing.T) {
	const rows, cols = 16, 16
	rng := rand.New(rand.NewSource(7))
	pixels := make([]rgb, rows*cols)
	for i := range pixels {
		pixels[i] = rgb{uint8(rng.Intn(256)), uint8(rng.Intn(256)), uint8(rng.Intn(256))}
	}
	img := newImage(t, rows, cols, pixels...)

	previous := rows*cols + 1
	for v := MinThreshold; v <= MaxThreshold; v++ {
		scores, err := ComputeScoreMap(img, v)
		require.NoError(t, err)
		count := scores.OverrideCount()
		scores.Close()

		assert.LessOrEqual(t, count, previous, "threshold %d", v)
		previous = count
	}
	assert.Equal(t, 0, previous)
}

func TestComputeScoreMapRejectsThreshold(t *testing.T) {
	img := newImage(t, 1, 1, rgb{1, 2, 3})

	_, err := ComputeScoreMap(img, 256)
	assert.ErrorIs(t, err, ErrThresholdRange)

	_, err = ComputeScoreMap(img, -1)
	assert.ErrorIs(t, err, ErrThresholdRange)
}

func TestCountBelowIncludesNegativeScores(t *testing.T) {
	img := newImage(t, 1, 3,
		rgb{0, 100, 0},
		rgb{50, 0, 0},
		rgb{60, 0, 0},
	)

	scores, err := ComputeScoreMap(img, 150)
	require.NoError(t, err)
	defer scores.Close()

	assert.Equal(t, 1, scores.CountBelow(0))
	assert.Equal(t, 2, scores.CountBelow(60))
	assert.Equal(t, 3, scores.CountBelow(61))
}
