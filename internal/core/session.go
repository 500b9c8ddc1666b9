package core

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"

	"plant-disease-detector/internal/disease"
)

// ThresholdCommitted is emitted when the user releases the Processing
// Factor slider.
type ThresholdCommitted struct {
	Value int
}

// ResultSink receives every completed recomputation. img and res are only
// valid for the duration of the call.
type ResultSink interface {
	OnResult(img gocv.Mat, res *disease.Result)
}

// ResultSinkFunc adapts a function to ResultSink.
type ResultSinkFunc func(img gocv.Mat, res *disease.Result)

func (f ResultSinkFunc) OnResult(img gocv.Mat, res *disease.Result) { f(img, res) }

// Session owns the loaded image, its alpha mask and the latest result.
// It is driven from a single goroutine: every Load and Handle call runs to
// completion before the next one starts.
type Session struct {
	image     *LeafImage
	alpha     *disease.AlphaMask
	result    *disease.Result
	cutoff    int
	threshold disease.Threshold
	sinks     []ResultSink
	logger    logrus.FieldLogger
}

func NewSession(cutoff int, logger logrus.FieldLogger) *Session {
	return &Session{
		image:     NewLeafImage(),
		cutoff:    cutoff,
		threshold: disease.DefaultThreshold,
		logger:    logger,
	}
}

// Subscribe registers a sink for subsequent results.
func (s *Session) Subscribe(sink ResultSink) {
	s.sinks = append(s.sinks, sink)
}

// Load replaces the current image, computes its alpha mask once and runs
// the initial recomputation with t. On error the previous state is kept.
func (s *Session) Load(mat gocv.Mat, path string, t disease.Threshold) (*disease.Result, error) {
	start := time.Now()
	s.logger.WithFields(logrus.Fields{"filepath": path, "threshold": int(t)}).Info("SESSION: Loading image")

	if err := t.Validate(); err != nil {
		return nil, err
	}

	bgr, err := NormalizeColor(mat)
	if err != nil {
		return nil, fmt.Errorf("invalid image: %w", err)
	}
	defer bgr.Close()

	alpha, err := disease.ComputeAlphaMask(bgr, s.cutoff)
	if err != nil {
		return nil, fmt.Errorf("alpha mask: %w", err)
	}

	res, err := disease.Recompute(bgr, alpha, t)
	if err != nil {
		alpha.Close()
		return nil, err
	}

	if err := s.image.SetOriginal(bgr, path); err != nil {
		res.Close()
		alpha.Close()
		return nil, err
	}

	s.replace(res)
	s.alpha.Close()
	s.alpha = alpha
	s.threshold = t

	s.logger.WithFields(logrus.Fields{
		"width":             bgr.Cols(),
		"height":            bgr.Rows(),
		"background_pixels": alpha.BackgroundPixels(),
		"leaf_pixels":       alpha.LeafPixels(),
		"duration":          time.Since(start),
	}).Info("SESSION: Image loaded")

	s.publish()
	return res, nil
}

// Handle recomputes the score map and percentage for the committed value.
func (s *Session) Handle(ev ThresholdCommitted) (*disease.Result, error) {
	start := time.Now()

	t, err := disease.NewThreshold(ev.Value)
	if err != nil {
		return nil, err
	}
	if !s.image.HasImage() || s.alpha == nil {
		return nil, fmt.Errorf("no image loaded")
	}

	var res *disease.Result
	err = s.image.WithOriginal(func(img gocv.Mat) error {
		var rerr error
		res, rerr = disease.Recompute(img, s.alpha, t)
		return rerr
	})
	if err != nil {
		s.logger.WithError(err).Error("SESSION: Recompute failed")
		return nil, err
	}

	s.replace(res)
	s.threshold = t

	s.logger.WithFields(logrus.Fields{
		"threshold":  int(t),
		"percentage": disease.Round2(res.Estimate.Percentage),
		"overrides":  res.Scores.OverrideCount(),
		"duration":   time.Since(start),
	}).Debug("SESSION: Recomputed")

	s.publish()
	return res, nil
}

// Result returns the latest result, or nil before the first load.
func (s *Session) Result() *disease.Result {
	return s.result
}

func (s *Session) Threshold() disease.Threshold {
	return s.threshold
}

func (s *Session) Image() *LeafImage {
	return s.image
}

func (s *Session) replace(res *disease.Result) {
	if s.result != nil {
		s.result.Close()
	}
	s.result = res
}

func (s *Session) publish() {
	if s.result == nil || len(s.sinks) == 0 {
		return
	}
	s.image.WithOriginal(func(img gocv.Mat) error {
		for _, sink := range s.sinks {
			sink.OnResult(img, s.result)
		}
		return nil
	})
}

// Close releases the image, the alpha mask and the latest result.
func (s *Session) Close() {
	s.replace(nil)
	s.alpha.Close()
	s.alpha = nil
	s.image.Close()
}
