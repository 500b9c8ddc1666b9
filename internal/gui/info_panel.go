// Right panel with image information and result metrics
package gui

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"plant-disease-detector/internal/core"
	"plant-disease-detector/internal/metrics"
)

// InfoPanel lists image metadata and the metrics of the latest result
type InfoPanel struct {
	evaluator *metrics.Evaluator

	imageLabel     *widget.Label
	metricsContent *fyne.Container
	container      *fyne.Container
}

func NewInfoPanel(evaluator *metrics.Evaluator) *InfoPanel {
	ip := &InfoPanel{evaluator: evaluator}

	ip.imageLabel = widget.NewLabel("No image loaded")
	ip.imageLabel.Wrapping = fyne.TextWrapWord
	ip.metricsContent = container.NewVBox(
		widget.NewLabel("Metrics will appear here once an image is analyzed."),
	)

	ip.container = container.NewVBox(
		widget.NewCard("🖼️ Image", "", ip.imageLabel),
		widget.NewCard("📊 Metrics", "", ip.metricsContent),
	)
	return ip
}

func (ip *InfoPanel) ShowImageInfo(path string, meta core.ImageMetadata) {
	ip.imageLabel.SetText(fmt.Sprintf("%s\n%dx%d, %d channels (%s)",
		path, meta.Width, meta.Height, meta.Channels, meta.Format))
}

// UpdateMetrics renders values in the evaluator's name order
func (ip *InfoPanel) UpdateMetrics(values map[string]float64) {
	ip.metricsContent.RemoveAll()
	for _, name := range ip.evaluator.Names() {
		value, ok := values[name]
		if !ok {
			continue
		}
		m, ok := ip.evaluator.Get(name)
		if !ok {
			continue
		}
		ip.metricsContent.Add(widget.NewLabel(fmt.Sprintf("%s: %.3f", m.GetName(), value)))

		desc := widget.NewLabel(m.GetDescription())
		desc.TextStyle = fyne.TextStyle{Italic: true}
		desc.Wrapping = fyne.TextWrapWord
		ip.metricsContent.Add(desc)
	}
	ip.metricsContent.Refresh()
}

func (ip *InfoPanel) GetContainer() fyne.CanvasObject {
	return container.NewVScroll(ip.container)
}
