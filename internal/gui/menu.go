// Menu handler for application actions
package gui

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"

	"plant-disease-detector/internal/config"
)

// MenuHandler handles menu actions
type MenuHandler struct {
	window fyne.Window
	onOpen func()
}

func NewMenuHandler(window fyne.Window) *MenuHandler {
	return &MenuHandler{window: window}
}

func (mh *MenuHandler) SetOnOpen(fn func()) {
	mh.onOpen = fn
}

func (mh *MenuHandler) GetMainMenu() *fyne.MainMenu {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open Image...", func() {
			if mh.onOpen != nil {
				mh.onOpen()
			}
		}),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mh.showAbout),
	)

	return fyne.NewMainMenu(fileMenu, helpMenu)
}

func (mh *MenuHandler) showAbout() {
	dialog.ShowInformation("About",
		fmt.Sprintf("%s v%s\n\nEstimates the diseased share of a leaf from the\nred and green channels of a photo.", config.AppName, config.AppVersion),
		mh.window)
}
