// Package mainwindow provides the main application window.
package mainwindow

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/NV08hv/canvas-mockup-sub000/internal/app"
	"github.com/NV08hv/canvas-mockup-sub000/internal/interact"
	"github.com/NV08hv/canvas-mockup-sub000/internal/project"
	"github.com/NV08hv/canvas-mockup-sub000/internal/version"
	"github.com/NV08hv/canvas-mockup-sub000/ui/canvas"
	"github.com/NV08hv/canvas-mockup-sub000/ui/panels"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
)

const (
	prefKeyLastDir     = "lastDirectory"
	prefKeyLastProject = "lastProject"
)

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app        fyne.App
	state      *app.State
	controller *interact.Controller
	canvas     *canvas.EditorCanvas
	sidePanel  *panels.SidePanel
	statusBar  *widget.Label

	// Held modifier keys, mirrored from the window canvas. Pointer events
	// inside the editor widget read these through a callback.
	shiftDown bool
	ctrlDown  bool
	altDown   bool

	// Menu items that need state tracking
	fitToWindowItem *fyne.MenuItem
}

// New creates the main window over the shared state.
func New(fyneApp fyne.App, state *app.State) *MainWindow {
	win := fyneApp.NewWindow(version.Name)

	mw := &MainWindow{
		Window:     win,
		app:        fyneApp,
		state:      state,
		controller: interact.New(state),
	}

	mw.setupUI()
	mw.setupMenus()
	mw.setupKeyboard()
	mw.setupEventHandlers()
	mw.refreshStatus()

	win.SetCloseIntercept(mw.onClose)
	return mw
}

// setupUI creates the main UI layout.
func (mw *MainWindow) setupUI() {
	mw.canvas = canvas.NewEditorCanvas(mw.state, mw.controller)
	mw.canvas.SetModifierSource(mw.modifiers)
	mw.canvas.OnZoomChange(func(float64) { mw.refreshStatus() })
	mw.canvas.OnContextMenu(mw.onCanvasContext)

	mw.sidePanel = panels.NewSidePanel(mw.state, mw.Window)

	mw.statusBar = widget.NewLabel("Ready")

	toolbar := mw.createToolbar()

	canvasArea := container.NewBorder(
		toolbar, // top
		nil,     // bottom
		nil,     // left
		nil,     // right
		mw.canvas.Container(),
	)

	split := container.NewHSplit(
		mw.sidePanel.Container(),
		canvasArea,
	)
	split.SetOffset(0.25)

	content := container.NewBorder(
		nil,                               // top
		container.NewPadded(mw.statusBar), // bottom
		nil,                               // left
		nil,                               // right
		split,
	)

	mw.SetContent(content)
}

// createToolbar creates the toolbar with zoom and drag-scope controls.
func (mw *MainWindow) createToolbar() fyne.CanvasObject {
	zoomOutBtn := widget.NewButton("-", mw.onZoomOut)
	zoomInBtn := widget.NewButton("+", mw.onZoomIn)
	fitBtn := widget.NewButton("Fit", mw.onToggleFitToWindow)
	actualBtn := widget.NewButton("1:1", mw.onActualSize)

	// With the check on, dragging a design moves the shared placement on
	// every mockup instead of writing a per-mockup position offset.
	moveAllChk := widget.NewCheck("Move all", func(on bool) {
		mw.controller.SetGlobalDrag(on)
		if on {
			mw.updateStatus("Drags now move the design on every mockup")
		} else {
			mw.updateStatus("Drags now offset the design on this mockup only")
		}
	})

	return container.NewHBox(
		widget.NewLabel("Zoom:"),
		zoomOutBtn,
		zoomInBtn,
		fitBtn,
		actualBtn,
		widget.NewSeparator(),
		moveAllChk,
	)
}

// setupMenus creates the application menus.
func (mw *MainWindow) setupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("New Project", mw.onNewProject),
		fyne.NewMenuItem("Open Project...", mw.onOpenProject),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Add Mockup Image...", func() { mw.sidePanel.Mockups.AddImage() }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Save Project", mw.onSaveProject),
		fyne.NewMenuItem("Save Project As...", mw.onSaveProjectAs),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Export...", mw.onExport),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() { mw.app.Quit() }),
	)

	editMenu := fyne.NewMenu("Edit",
		fyne.NewMenuItem("Customize This Mockup", mw.onCustomize),
		fyne.NewMenuItem("Done Customizing", mw.onDoneCustomizing),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Reset This Mockup", mw.onResetMockup),
	)

	mw.fitToWindowItem = fyne.NewMenuItem("  Fit to Window", mw.onToggleFitToWindow)

	viewMenu := fyne.NewMenu("View",
		fyne.NewMenuItem("Zoom In", mw.onZoomIn),
		fyne.NewMenuItem("Zoom Out", mw.onZoomOut),
		mw.fitToWindowItem,
		fyne.NewMenuItem("Actual Size", mw.onActualSize),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mw.onAbout),
	)

	mainMenu := fyne.NewMainMenu(fileMenu, editMenu, viewMenu, helpMenu)
	mw.SetMainMenu(mainMenu)
}

// setupKeyboard wires the key handlers. Fyne pointer events carry no
// modifier state, so the window tracks raw key transitions and the canvas
// asks back through a callback.
func (mw *MainWindow) setupKeyboard() {
	if deskCanvas, ok := mw.Canvas().(desktop.Canvas); ok {
		deskCanvas.SetOnKeyDown(func(ev *fyne.KeyEvent) { mw.setModifier(ev.Name, true) })
		deskCanvas.SetOnKeyUp(func(ev *fyne.KeyEvent) { mw.setModifier(ev.Name, false) })
	}
	mw.Canvas().SetOnTypedKey(mw.onTypedKey)
}

func (mw *MainWindow) setModifier(key fyne.KeyName, down bool) {
	switch key {
	case desktop.KeyShiftLeft, desktop.KeyShiftRight:
		mw.shiftDown = down
	case desktop.KeyControlLeft, desktop.KeyControlRight:
		mw.ctrlDown = down
	case desktop.KeyAltLeft, desktop.KeyAltRight:
		mw.altDown = down
	}
}

func (mw *MainWindow) modifiers() interact.Modifiers {
	var m interact.Modifiers
	if mw.shiftDown {
		m |= interact.ModShift
	}
	if mw.altDown {
		m |= interact.ModAnchor
	}
	if mw.ctrlDown {
		m |= interact.ModView
	}
	return m
}

func (mw *MainWindow) onTypedKey(ev *fyne.KeyEvent) {
	switch ev.Name {
	case fyne.KeyEscape:
		// During a drag Escape aborts the gesture and restores the
		// pre-drag placement; outside one it leaves edit mode.
		if mw.canvas.CancelActiveDrag() {
			return
		}
		mw.state.ExitEditMode()
	case fyne.KeyUp:
		mw.controller.Nudge(0, -1, mw.modifiers())
	case fyne.KeyDown:
		mw.controller.Nudge(0, 1, mw.modifiers())
	case fyne.KeyLeft:
		mw.controller.Nudge(-1, 0, mw.modifiers())
	case fyne.KeyRight:
		mw.controller.Nudge(1, 0, mw.modifiers())
	}
}

// setupEventHandlers registers for application events.
func (mw *MainWindow) setupEventHandlers() {
	mw.state.On(app.EventProjectLoaded, func(data interface{}) {
		mw.refreshTitle()
		if path, ok := data.(string); ok && path != "" {
			mw.updateStatus("Project loaded: " + path)
			mw.app.Preferences().SetString(prefKeyLastProject, path)
		} else {
			mw.refreshStatus()
		}
	})

	mw.state.On(app.EventProjectSaved, func(data interface{}) {
		mw.refreshTitle()
		if path, ok := data.(string); ok {
			mw.updateStatus("Project saved: " + path)
			mw.app.Preferences().SetString(prefKeyLastProject, path)
		}
	})

	mw.state.On(app.EventModified, func(interface{}) {
		mw.refreshTitle()
	})

	mw.state.On(app.EventCurrentChanged, func(interface{}) {
		mw.refreshStatus()
	})

	mw.state.On(app.EventMockupsChanged, func(interface{}) {
		mw.refreshStatus()
	})

	mw.state.On(app.EventEditModeChanged, func(interface{}) {
		mw.refreshStatus()
	})
}

// refreshTitle rebuilds the window title from the project path and the
// modified flag.
func (mw *MainWindow) refreshTitle() {
	title := version.Name
	if mw.state.ProjectPath != "" {
		title += " - " + filepath.Base(mw.state.ProjectPath)
	}
	if mw.state.Modified {
		title += " *"
	}
	mw.SetTitle(title)
}

// refreshStatus rebuilds the status line: position in the list, image size,
// zoom and the edit-mode badge.
func (mw *MainWindow) refreshStatus() {
	cur, ok := mw.state.CurrentMockup()
	if !ok {
		mw.statusBar.SetText("No mockups loaded")
		return
	}

	text := fmt.Sprintf("%d/%d  %s  %dx%d  %.0f%%",
		mw.state.Current+1, mw.state.MockupCount(),
		cur.Name, cur.Width(), cur.Height(),
		mw.canvas.Zoom()*100)

	if mw.state.EditContext().IsFor(mw.state.Current) {
		text += "  [customizing]"
	}
	mw.statusBar.SetText(text)
}

// updateStatus updates the status bar text.
func (mw *MainWindow) updateStatus(text string) {
	mw.statusBar.SetText(text)
}

// getLastDir returns the last used directory as a ListableURI, or nil.
func (mw *MainWindow) getLastDir() fyne.ListableURI {
	path := mw.app.Preferences().String(prefKeyLastDir)
	if path == "" {
		return nil
	}
	listable, err := storage.ListerForURI(storage.NewFileURI(path))
	if err != nil {
		return nil
	}
	return listable
}

// saveLastDir saves the directory of the given file path.
func (mw *MainWindow) saveLastDir(filePath string) {
	mw.app.Preferences().SetString(prefKeyLastDir, filepath.Dir(filePath))
}

// RestoreLastProject reopens the project from the previous session when no
// path was given on the command line.
func (mw *MainWindow) RestoreLastProject() {
	path := mw.app.Preferences().String(prefKeyLastProject)
	if path == "" {
		return
	}
	if _, err := os.Stat(path); err != nil {
		return
	}
	if err := mw.state.LoadProject(path); err != nil {
		log.Printf("failed to restore last project %s: %v", path, err)
	}
}

// confirmDiscard runs next immediately when the session is clean, otherwise
// after the user agrees to drop unsaved changes.
func (mw *MainWindow) confirmDiscard(next func()) {
	if !mw.state.Modified {
		next()
		return
	}
	dialog.ShowConfirm("Unsaved Changes",
		"The project has unsaved changes. Discard them?",
		func(confirmed bool) {
			if confirmed {
				next()
			}
		}, mw.Window)
}

// Menu action handlers

func (mw *MainWindow) onClose() {
	mw.confirmDiscard(func() { mw.app.Quit() })
}

func (mw *MainWindow) onNewProject() {
	mw.confirmDiscard(func() {
		mw.state.NewProject()
		mw.refreshTitle()
	})
}

func (mw *MainWindow) onOpenProject() {
	mw.confirmDiscard(func() {
		fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
			if err != nil || reader == nil {
				return
			}
			reader.Close()
			path := reader.URI().Path()
			mw.saveLastDir(path)
			if err := mw.state.LoadProject(path); err != nil {
				dialog.ShowError(err, mw.Window)
			}
		}, mw.Window)
		fd.SetFilter(storage.NewExtensionFileFilter([]string{project.Ext}))
		if loc := mw.getLastDir(); loc != nil {
			fd.SetLocation(loc)
		}
		fd.Show()
	})
}

func (mw *MainWindow) onSaveProject() {
	if mw.state.ProjectPath == "" {
		mw.onSaveProjectAs()
		return
	}
	if err := mw.state.SaveProject(mw.state.ProjectPath); err != nil {
		dialog.ShowError(err, mw.Window)
	}
}

func (mw *MainWindow) onSaveProjectAs() {
	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		writer.Close()
		path := writer.URI().Path()
		if filepath.Ext(path) != project.Ext {
			path += project.Ext
		}
		mw.saveLastDir(path)
		if err := mw.state.SaveProject(path); err != nil {
			dialog.ShowError(err, mw.Window)
		}
	}, mw.Window)
	fd.SetFileName("untitled" + project.Ext)
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onExport() {
	mw.sidePanel.ShowExport()
}

func (mw *MainWindow) onCustomize() {
	if mw.state.MockupCount() == 0 {
		mw.updateStatus("Nothing to customize, add a mockup first")
		return
	}
	mw.state.EnterEditMode(mw.state.Current)
}

func (mw *MainWindow) onDoneCustomizing() {
	mw.state.ExitEditMode()
}

func (mw *MainWindow) onResetMockup() {
	mw.sidePanel.Designs.ResetCurrent()
}

// onCanvasContext handles a right click on the editor surface.
func (mw *MainWindow) onCanvasContext(at fyne.Position) {
	items := []*fyne.MenuItem{
		fyne.NewMenuItem("Customize This Mockup", mw.onCustomize),
		fyne.NewMenuItem("Reset This Mockup", mw.onResetMockup),
	}
	if mw.state.EditContext().IsFor(mw.state.Current) {
		items[0] = fyne.NewMenuItem("Done Customizing", mw.onDoneCustomizing)
	}

	widget.ShowPopUpMenuAtPosition(fyne.NewMenu("", items...), mw.Canvas(), at)
}

func (mw *MainWindow) onZoomIn() {
	mw.disableFitToWindow()
	mw.canvas.ZoomIn()
}

func (mw *MainWindow) onZoomOut() {
	mw.disableFitToWindow()
	mw.canvas.ZoomOut()
}

func (mw *MainWindow) onToggleFitToWindow() {
	enabled := !mw.canvas.GetFitToWindow()
	mw.canvas.SetFitToWindow(enabled)

	if enabled {
		mw.fitToWindowItem.Label = "✓ Fit to Window"
	} else {
		mw.fitToWindowItem.Label = "  Fit to Window"
	}
}

func (mw *MainWindow) onActualSize() {
	mw.disableFitToWindow()
	mw.canvas.SetZoom(1.0)
}

func (mw *MainWindow) disableFitToWindow() {
	if mw.canvas.GetFitToWindow() {
		mw.canvas.SetFitToWindow(false)
		mw.fitToWindowItem.Label = "  Fit to Window"
	}
}

func (mw *MainWindow) onAbout() {
	dialog.ShowInformation("About "+version.Name,
		fmt.Sprintf("%s v%s\n\n"+
			"Mockup generator: place two designs on any number of\n"+
			"base images, customize single mockups, export the set.\n\n"+
			"Built: %s\n"+
			"Commit: %s",
			version.Name, version.Version, version.BuildTime, version.GitCommit),
		mw.Window)
}
