package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"

	"plant-disease-detector/internal/disease"
)

// analyze runs the detector over RGB triples laid out in one row.
func analyze(t *testing.T, threshold disease.Threshold, pixels ...[3]byte) *disease.Result {
	t.Helper()
	data := make([]byte, 0, len(pixels)*3)
	for _, p := range pixels {
		data = append(data, p[2], p[1], p[0])
	}
	img, err := gocv.NewMatFromBytes(1, len(pixels), gocv.MatTypeCV8UC3, data)
	require.NoError(t, err)
	defer img.Close()

	res, err := disease.Analyze(img, disease.BackgroundCutoff, threshold)
	require.NoError(t, err)
	t.Cleanup(func() { res.Close() })
	return res
}

func TestEvaluatorScenario(t *testing.T) {
	res := analyze(t, 150,
		[3]byte{255, 255, 255}, [3]byte{255, 255, 255},
		[3]byte{10, 50, 10}, [3]byte{10, 200, 10},
	)

	values := NewEvaluator().CalculateAll(res)

	assert.InDelta(t, 50.0, values["percentage"], 1e-9)
	assert.InDelta(t, 0.5, values["leaf_fraction"], 1e-9)
	assert.InDelta(t, 0.75, values["override_fraction"], 1e-9)
	// leaf scores are -40 and 255
	assert.InDelta(t, 107.5, values["leaf_score_mean"], 1e-9)
	assert.InDelta(t, 208.596, values["leaf_score_stddev"], 1e-3)
	assert.InDelta(t, -40.0, values["leaf_score_median"], 1e-9)
}

func TestEvaluatorSkipsFailingMetrics(t *testing.T) {
	res := analyze(t, 150, [3]byte{255, 255, 255}, [3]byte{240, 240, 240})

	values := NewEvaluator().CalculateAll(res)

	assert.Equal(t, 0.0, values["percentage"])
	assert.Equal(t, 0.0, values["leaf_fraction"])
	assert.NotContains(t, values, "leaf_score_mean")
	assert.NotContains(t, values, "leaf_score_median")
}

func TestEvaluatorCalculate(t *testing.T) {
	e := NewEvaluator()
	res := analyze(t, 150, [3]byte{0, 0, 0})

	v, err := e.Calculate("percentage", res)
	require.NoError(t, err)
	assert.Equal(t, 100.0, v)

	_, err = e.Calculate("psnr", res)
	assert.Error(t, err)

	_, err = e.Calculate("percentage", nil)
	assert.Error(t, err)

	assert.Equal(t, []string{
		"leaf_fraction", "leaf_score_mean", "leaf_score_median",
		"leaf_score_stddev", "override_fraction", "percentage",
	}, e.Names())

	m, ok := e.Get("leaf_score_stddev")
	require.True(t, ok)
	assert.Equal(t, "Leaf Score Std Dev", m.GetName())
}

func TestLeafScores(t *testing.T) {
	res := analyze(t, 150,
		[3]byte{120, 20, 0}, [3]byte{250, 250, 250}, [3]byte{30, 90, 0},
	)

	scores, err := LeafScores(res)
	require.NoError(t, err)
	assert.Equal(t, []float64{100, -60}, scores)
}
