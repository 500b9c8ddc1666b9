// Processing Factor slider and percentage label
package gui

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/sirupsen/logrus"

	"plant-disease-detector/internal/core"
	"plant-disease-detector/internal/disease"
)

// ControlPanel owns the threshold value. It emits ThresholdCommitted only
// when a drag on the slider ends.
type ControlPanel struct {
	logger logrus.FieldLogger

	slider       *widget.Slider
	valueLabel   *widget.Label
	percentLabel *widget.Label
	container    *fyne.Container

	onCommit func(core.ThresholdCommitted)
}

func NewControlPanel(initial int, logger logrus.FieldLogger) *ControlPanel {
	cp := &ControlPanel{logger: logger}

	cp.slider = widget.NewSlider(float64(disease.MinThreshold), float64(disease.MaxThreshold))
	cp.slider.Step = 1
	cp.slider.SetValue(float64(initial))

	cp.valueLabel = widget.NewLabel(fmt.Sprintf("%d", initial))
	cp.percentLabel = widget.NewLabel("Percentage Disease: -")
	cp.percentLabel.TextStyle = fyne.TextStyle{Bold: true}

	cp.slider.OnChanged = func(value float64) {
		cp.valueLabel.SetText(fmt.Sprintf("%.0f", value))
	}
	cp.slider.OnChangeEnded = func(value float64) {
		cp.commit(int(value))
	}

	cp.container = container.NewVBox(
		widget.NewLabel("Processing Factor"),
		container.NewBorder(nil, nil, nil, cp.valueLabel, cp.slider),
		cp.percentLabel,
	)
	return cp
}

// SetOnCommit sets the handler for committed threshold values.
func (cp *ControlPanel) SetOnCommit(fn func(core.ThresholdCommitted)) {
	cp.onCommit = fn
}

func (cp *ControlPanel) commit(value int) {
	cp.logger.WithField("threshold", value).Debug("GUI: Threshold committed")
	if cp.onCommit != nil {
		cp.onCommit(core.ThresholdCommitted{Value: value})
	}
}

// Value returns the current slider position.
func (cp *ControlPanel) Value() int {
	return int(cp.slider.Value)
}

// SetResult shows the percentage of a completed recomputation.
func (cp *ControlPanel) SetResult(res *disease.Result) {
	cp.percentLabel.SetText(res.Label())
}

func (cp *ControlPanel) PercentText() string {
	return cp.percentLabel.Text
}

func (cp *ControlPanel) GetContainer() *fyne.Container {
	return cp.container
}
