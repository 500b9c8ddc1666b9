package gui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"plant-disease-detector/internal/render"
)

// ViewGrid shows titled images in a wrapping grid of equal cells.
type ViewGrid struct {
	size  float32
	grid  *fyne.Container
	views []render.View
}

func NewViewGrid(thumbnailSize int) *ViewGrid {
	size := float32(thumbnailSize)
	return &ViewGrid{
		size: size,
		grid: container.NewGridWrap(fyne.NewSize(size, size+80)),
	}
}

// Update replaces the shown views. Images are scaled down to the cell size.
func (vg *ViewGrid) Update(views []render.View) {
	objects := make([]fyne.CanvasObject, 0, len(views))
	for _, v := range views {
		img := canvas.NewImageFromImage(render.Thumbnail(v.Image, int(vg.size)))
		img.FillMode = canvas.ImageFillContain
		img.SetMinSize(fyne.NewSize(vg.size, vg.size))
		var content fyne.CanvasObject = img
		if v.Detail != "" {
			detail := widget.NewLabel(v.Detail)
			detail.Wrapping = fyne.TextWrapWord
			detail.TextStyle = fyne.TextStyle{Italic: true}
			content = container.NewBorder(nil, detail, nil, nil, img)
		}
		objects = append(objects, widget.NewCard("", v.Title, content))
	}

	vg.views = views
	vg.grid.Objects = objects
	vg.grid.Refresh()
}

// Details returns the details of the shown views, in order.
func (vg *ViewGrid) Details() []string {
	details := make([]string, 0, len(vg.views))
	for _, v := range vg.views {
		details = append(details, v.Detail)
	}
	return details
}

// Titles returns the titles of the shown views, in order.
func (vg *ViewGrid) Titles() []string {
	titles := make([]string, 0, len(vg.views))
	for _, v := range vg.views {
		titles = append(titles, v.Title)
	}
	return titles
}

func (vg *ViewGrid) GetContainer() fyne.CanvasObject {
	return container.NewVScroll(vg.grid)
}
