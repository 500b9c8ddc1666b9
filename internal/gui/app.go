// Main detector window
package gui

import (
	"context"
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"

	"plant-disease-detector/internal/algorithms"
	"plant-disease-detector/internal/config"
	"plant-disease-detector/internal/core"
	"plant-disease-detector/internal/disease"
	"plant-disease-detector/internal/io"
	"plant-disease-detector/internal/metrics"
	"plant-disease-detector/internal/render"
)

// Application wires the session to the window. Every callback runs on the
// fyne event goroutine, so recomputations never overlap.
type Application struct {
	app    fyne.App
	window fyne.Window
	logger logrus.FieldLogger
	cfg    config.Config

	// Core components
	session   *core.Session
	loader    *io.ImageLoader
	evaluator *metrics.Evaluator

	// GUI components
	controls    *ControlPanel
	analysis    *ViewGrid
	gallery     *ViewGrid
	info        *InfoPanel
	menuHandler *MenuHandler
	status      *widget.Label

	// err is returned from Run once the window closes
	err error
}

func NewApplication(app fyne.App, cfg config.Config, logger logrus.FieldLogger) *Application {
	window := app.NewWindow(config.AppName)
	window.Resize(fyne.NewSize(cfg.Window.Width, cfg.Window.Height))

	a := &Application{
		app:    app,
		window: window,
		logger: logger,
		cfg:    cfg,
	}

	a.initializeCore()
	a.initializeGUI()
	a.setupLayout()
	a.setupCallbacks()

	return a
}

func (a *Application) initializeCore() {
	a.session = core.NewSession(a.cfg.BackgroundCutoff, a.logger)
	a.loader = io.NewImageLoader(a.logger)
	a.evaluator = metrics.NewEvaluator()
}

func (a *Application) initializeGUI() {
	a.controls = NewControlPanel(a.cfg.Threshold, a.logger)
	a.analysis = NewViewGrid(a.cfg.ThumbnailSize)
	a.gallery = NewViewGrid(a.cfg.ThumbnailSize)
	a.info = NewInfoPanel(a.evaluator)
	a.menuHandler = NewMenuHandler(a.window)
	a.status = widget.NewLabel("Ready")
}

func (a *Application) setupLayout() {
	tabs := container.NewAppTabs(
		container.NewTabItem("Analysis", a.analysis.GetContainer()),
		container.NewTabItem("Inspection", a.gallery.GetContainer()),
	)

	right := container.NewBorder(nil, a.status, nil, nil, a.info.GetContainer())

	split := container.NewHSplit(tabs, right)
	split.SetOffset(0.78)

	a.window.SetMainMenu(a.menuHandler.GetMainMenu())
	a.window.SetContent(container.NewBorder(
		widget.NewCard("", "", a.controls.GetContainer()),
		nil, nil, nil,
		split,
	))
}

func (a *Application) setupCallbacks() {
	a.session.Subscribe(a)
	a.controls.SetOnCommit(a.handleCommit)
	a.menuHandler.SetOnOpen(func() {
		a.promptForImage(false)
	})
}

// Run shows the window until it is closed. With an empty path the user is
// asked to pick a file first; cancelling that dialog ends the run with
// io.ErrMissingInput. A path that fails to load is returned before the
// window is shown.
func (a *Application) Run(path string) error {
	defer a.session.Close()

	if path != "" {
		if err := a.LoadFile(path); err != nil {
			return err
		}
	} else {
		a.promptForImage(true)
	}

	a.window.ShowAndRun()
	return a.err
}

// LoadFile decodes path and runs the initial analysis at the current
// slider value.
func (a *Application) LoadFile(path string) error {
	mat, err := a.loader.LoadImage(path)
	if err != nil {
		return err
	}
	defer mat.Close()

	t := disease.Threshold(a.controls.Value())
	if _, err := a.session.Load(mat, path, t); err != nil {
		return fmt.Errorf("failed to analyze %s: %w", path, err)
	}

	loaded := a.session.Image()
	a.info.ShowImageInfo(loaded.GetFilepath(), loaded.GetMetadata())
	a.renderGallery()
	a.window.SetTitle(fmt.Sprintf("%s - %s", config.AppName, loaded.GetFilepath()))
	a.status.SetText(fmt.Sprintf("✅ Loaded: %s", loaded.GetFilepath()))
	return nil
}

// OnResult implements core.ResultSink.
func (a *Application) OnResult(img gocv.Mat, res *disease.Result) {
	views, err := render.AnalysisViews(img, res)
	if err != nil {
		a.logger.WithError(err).Error("GUI: Failed to render analysis views")
		a.status.SetText(fmt.Sprintf("❌ Render failed: %v", err))
		return
	}

	a.analysis.Update(views)
	a.controls.SetResult(res)
	a.info.UpdateMetrics(a.evaluator.CalculateAll(res))
}

func (a *Application) handleCommit(ev core.ThresholdCommitted) {
	if !a.session.Image().HasImage() {
		return
	}
	if _, err := a.session.Handle(ev); err != nil {
		a.showError("Processing Error", err)
		return
	}
	a.status.SetText(fmt.Sprintf("Processing Factor: %d", ev.Value))
}

func (a *Application) renderGallery() {
	err := a.session.Image().WithOriginal(func(img gocv.Mat) error {
		outputs, err := algorithms.RunGallery(context.Background(), img, algorithms.GallerySteps(a.cfg.Gallery))
		if err != nil {
			return err
		}
		defer func() {
			for _, out := range outputs {
				out.Mat.Close()
			}
		}()

		views := make([]render.View, 0, len(outputs))
		for _, out := range outputs {
			converted, err := render.ToImage(out.Mat)
			if err != nil {
				return fmt.Errorf("%s: %w", out.Title, err)
			}
			views = append(views, render.View{Title: out.Title, Detail: out.Detail, Image: converted})
		}
		a.gallery.Update(views)
		return nil
	})
	if err != nil {
		a.logger.WithError(err).Warn("GUI: Inspection gallery unavailable")
	}
}

// promptForImage opens the file dialog. When required, cancelling or a
// failed load ends the application with that error.
func (a *Application) promptForImage(required bool) {
	a.logger.Info("GUI: Opening file dialog for image selection")

	fileDialog := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		a.handleOpen(reader, err, required)
	}, a.window)

	fileDialog.SetFilter(storage.NewExtensionFileFilter(io.SupportedExtensions()))
	fileDialog.Show()
}

// handleOpen receives the file dialog result. A nil reader without an
// error means the dialog was cancelled.
func (a *Application) handleOpen(reader fyne.URIReadCloser, err error, required bool) {
	if err == nil && reader == nil {
		if required {
			a.fail(io.ErrMissingInput)
		}
		return
	}
	if err != nil {
		if required {
			a.fail(err)
		} else {
			a.showError("File Dialog Error", err)
		}
		return
	}
	path := reader.URI().Path()
	reader.Close()

	if err := a.LoadFile(path); err != nil {
		if required {
			a.fail(err)
		} else {
			a.showError("Failed to Load Image", err)
		}
	}
}

func (a *Application) fail(err error) {
	a.logger.WithError(err).Error("GUI: Fatal error, closing")
	a.err = err
	a.app.Quit()
}

func (a *Application) showError(title string, err error) {
	a.logger.WithError(err).Error("GUI: " + title)
	dialog.ShowError(fmt.Errorf("%s: %w", title, err), a.window)
	a.status.SetText(fmt.Sprintf("❌ %s", title))
}
