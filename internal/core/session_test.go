package core

import (
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"

	"plant-disease-detector/internal/disease"
)

// scenarioImage is the 2x2 leaf from the documented example:
// white, white, (10,50,10), (10,200,10) in RGB.
func scenarioImage(t *testing.T) gocv.Mat {
	t.Helper()
	data := []byte{
		255, 255, 255, 255, 255, 255,
		10, 50, 10, 10, 200, 10,
	}
	mat, err := gocv.NewMatFromBytes(2, 2, gocv.MatTypeCV8UC3, data)
	require.NoError(t, err)
	t.Cleanup(func() { mat.Close() })
	return mat
}

func newTestSession(t *testing.T) *Session {
	t.Helper()
	logger, _ := test.NewNullLogger()
	s := NewSession(disease.BackgroundCutoff, logger)
	t.Cleanup(s.Close)
	return s
}

func TestSessionLoad(t *testing.T) {
	s := newTestSession(t)

	var labels []string
	s.Subscribe(ResultSinkFunc(func(img gocv.Mat, res *disease.Result) {
		assert.Equal(t, 2, img.Rows())
		labels = append(labels, res.Label())
	}))

	res, err := s.Load(scenarioImage(t), "leaf.png", disease.DefaultThreshold)
	require.NoError(t, err)

	assert.Equal(t, "Percentage Disease: 50.00%", res.Label())
	assert.Equal(t, []string{"Percentage Disease: 50.00%"}, labels)
	assert.Same(t, res, s.Result())
	assert.Equal(t, disease.DefaultThreshold, s.Threshold())

	meta := s.Image().GetMetadata()
	assert.Equal(t, 2, meta.Width)
	assert.Equal(t, "png", meta.Format)
	assert.Equal(t, "leaf.png", s.Image().GetFilepath())
}

func TestSessionHandleThresholdCommitted(t *testing.T) {
	s := newTestSession(t)
	_, err := s.Load(scenarioImage(t), "leaf.png", disease.DefaultThreshold)
	require.NoError(t, err)

	var seen []disease.Threshold
	s.Subscribe(ResultSinkFunc(func(_ gocv.Mat, res *disease.Result) {
		seen = append(seen, res.Threshold)
	}))

	res, err := s.Handle(ThresholdCommitted{Value: 255})
	require.NoError(t, err)

	// at 255 nothing is overridden: scores are 0, 0, -40, -190, all counted
	assert.Equal(t, 0, res.Scores.OverrideCount())
	assert.Equal(t, 4, res.Estimate.CountedPixels)
	assert.InDelta(t, 200.0, res.Estimate.Percentage, 1e-9)
	assert.Equal(t, disease.Threshold(255), s.Threshold())

	again, err := s.Handle(ThresholdCommitted{Value: 150})
	require.NoError(t, err)
	assert.Equal(t, "Percentage Disease: 50.00%", again.Label())

	assert.Equal(t, []disease.Threshold{255, 150}, seen)
}

func TestSessionHandleErrors(t *testing.T) {
	s := newTestSession(t)

	_, err := s.Handle(ThresholdCommitted{Value: 100})
	assert.Error(t, err)

	_, err = s.Load(scenarioImage(t), "leaf.png", disease.DefaultThreshold)
	require.NoError(t, err)
	before := s.Result()

	_, err = s.Handle(ThresholdCommitted{Value: 300})
	assert.ErrorIs(t, err, disease.ErrThresholdRange)
	assert.Same(t, before, s.Result())
}

func TestSessionLoadGrayscale(t *testing.T) {
	s := newTestSession(t)

	gray, err := gocv.NewMatFromBytes(1, 2, gocv.MatTypeCV8UC1, []byte{255, 0})
	require.NoError(t, err)
	defer gray.Close()

	res, err := s.Load(gray, "gray.png", disease.DefaultThreshold)
	require.NoError(t, err)

	assert.Equal(t, 1, res.Alpha.BackgroundPixels())
	assert.Equal(t, 3, s.Image().GetMetadata().Channels)
}

func TestSessionLoadRejectsEmpty(t *testing.T) {
	s := newTestSession(t)

	empty := gocv.NewMat()
	defer empty.Close()

	_, err := s.Load(empty, "empty.png", disease.DefaultThreshold)
	assert.Error(t, err)
	assert.False(t, s.Image().HasImage())
	assert.Nil(t, s.Result())
}
