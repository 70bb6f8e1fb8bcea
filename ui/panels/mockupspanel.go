// Package panels holds the side-panel tabs: the mockup list, the design slot
// controls and the export form. Panels talk to the shared state and redraw
// themselves off its events; they never reach into the editor canvas.
package panels

import (
	"fmt"
	"log"

	"github.com/NV08hv/canvas-mockup-sub000/internal/app"
	"github.com/NV08hv/canvas-mockup-sub000/internal/render"
	"github.com/NV08hv/canvas-mockup-sub000/pkg/geometry"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

const (
	thumbWidth  = 120
	thumbHeight = 90
)

// MockupsPanel lists the imported base images as live thumbnails. Selecting a
// row switches the editor to that mockup; rows with per-mockup overrides are
// marked so a stray customization is easy to spot.
type MockupsPanel struct {
	state     *app.State
	window    fyne.Window
	container *fyne.Container

	list     *widget.List
	countLbl *widget.Label

	// Guards against selection events re-entering while the list is being
	// synced from state.
	updating bool
}

// NewMockupsPanel builds the panel and subscribes it to the state events
// that change the list or the thumbnails.
func NewMockupsPanel(state *app.State, window fyne.Window) *MockupsPanel {
	p := &MockupsPanel{
		state:  state,
		window: window,
	}
	p.buildUI()

	state.On(app.EventMockupsChanged, func(interface{}) { p.refresh() })
	state.On(app.EventCurrentChanged, func(interface{}) { p.syncSelection() })
	state.On(app.EventPlacementChanged, func(interface{}) { p.list.Refresh() })
	state.On(app.EventDesignChanged, func(interface{}) { p.list.Refresh() })
	state.On(app.EventProjectLoaded, func(interface{}) { p.refresh() })

	return p
}

// Container returns the panel's root container.
func (p *MockupsPanel) Container() *fyne.Container {
	return p.container
}

func (p *MockupsPanel) buildUI() {
	p.countLbl = widget.NewLabel("No mockups")

	p.list = widget.NewList(
		func() int {
			return p.state.MockupCount()
		},
		func() fyne.CanvasObject {
			thumb := fynecanvas.NewImageFromImage(nil)
			thumb.FillMode = fynecanvas.ImageFillContain
			thumb.SetMinSize(fyne.NewSize(thumbWidth, thumbHeight))

			name := widget.NewLabel("name")
			name.Truncation = fyne.TextTruncateEllipsis
			mark := widget.NewLabelWithStyle("", fyne.TextAlignLeading,
				fyne.TextStyle{Italic: true})

			return container.NewBorder(nil, nil, thumb, nil,
				container.NewVBox(name, mark))
		},
		func(id widget.ListItemID, item fyne.CanvasObject) {
			p.updateRow(id, item)
		},
	)

	p.list.OnSelected = func(id widget.ListItemID) {
		if p.updating {
			return
		}
		p.state.SetCurrent(id)
	}

	addBtn := widget.NewButtonWithIcon("Add Image", theme.ContentAddIcon(), p.onAdd)
	folderBtn := widget.NewButtonWithIcon("Add Folder", theme.FolderOpenIcon(), p.onAddFolder)
	removeBtn := widget.NewButtonWithIcon("Remove", theme.DeleteIcon(), p.onRemove)

	buttons := container.NewGridWithColumns(3, addBtn, folderBtn, removeBtn)

	p.container = container.NewBorder(
		container.NewVBox(buttons, p.countLbl),
		nil, nil, nil,
		p.list,
	)
}

func (p *MockupsPanel) updateRow(id widget.ListItemID, item fyne.CanvasObject) {
	entry, ok := p.state.MockupAt(id)
	if !ok {
		return
	}

	border := item.(*fyne.Container)
	var thumb *fynecanvas.Image
	var labels *fyne.Container
	for _, obj := range border.Objects {
		switch o := obj.(type) {
		case *fynecanvas.Image:
			thumb = o
		case *fyne.Container:
			labels = o
		}
	}
	if thumb == nil || labels == nil {
		return
	}

	size, _ := render.PreviewSize(entry.Size(),
		geometry.NewSize(thumbWidth, thumbHeight))
	thumb.Image = render.Render(entry.Image, p.state.Layers(), id, size,
		p.state.EditContext())
	thumb.Refresh()

	name := labels.Objects[0].(*widget.Label)
	mark := labels.Objects[1].(*widget.Label)

	name.SetText(fmt.Sprintf("%d. %s", id+1, entry.Name))
	if p.hasCustom(id) {
		mark.SetText("customized")
	} else {
		mark.SetText("")
	}
}

// hasCustom reports whether any design slot carries an override or a
// position offset for the given mockup.
func (p *MockupsPanel) hasCustom(index int) bool {
	for _, l := range p.state.Designs {
		if l == nil {
			continue
		}
		if l.TransformOverrides.Has(index) ||
			l.BlendOverrides.Has(index) ||
			l.PositionOffsets.Has(index) {
			return true
		}
	}
	return false
}

func (p *MockupsPanel) refresh() {
	count := p.state.MockupCount()
	switch count {
	case 0:
		p.countLbl.SetText("No mockups")
	case 1:
		p.countLbl.SetText("1 mockup")
	default:
		p.countLbl.SetText(fmt.Sprintf("%d mockups", count))
	}

	p.list.Refresh()
	p.syncSelection()
}

func (p *MockupsPanel) syncSelection() {
	if p.state.MockupCount() == 0 {
		return
	}
	p.updating = true
	p.list.Select(p.state.Current)
	p.updating = false
}

// AddImage opens the import dialog, for the File menu and the panel button.
func (p *MockupsPanel) AddImage() {
	p.onAdd()
}

func (p *MockupsPanel) onAdd() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, p.window)
			return
		}
		if reader == nil {
			return
		}
		path := reader.URI().Path()
		reader.Close()

		if _, err := p.state.AddMockup(path); err != nil {
			dialog.ShowError(err, p.window)
			return
		}
		saveLastDir(path)
	}, p.window)

	fd.SetFilter(storage.NewExtensionFileFilter(imageExtensions))
	if lister := lastDirURI(); lister != nil {
		fd.SetLocation(lister)
	}
	fd.Show()
}

func (p *MockupsPanel) onAddFolder() {
	fd := dialog.NewFolderOpen(func(list fyne.ListableURI, err error) {
		if err != nil {
			dialog.ShowError(err, p.window)
			return
		}
		if list == nil {
			return
		}

		added, failed := p.importFolder(list)
		saveLastDir(list.Path())

		if failed > 0 {
			dialog.ShowInformation("Import",
				fmt.Sprintf("Imported %d images, skipped %d files", added, failed),
				p.window)
		}
	}, p.window)

	if lister := lastDirURI(); lister != nil {
		fd.SetLocation(lister)
	}
	fd.Show()
}

// importFolder adds every recognized image in the folder, in listing order.
func (p *MockupsPanel) importFolder(list fyne.ListableURI) (added, failed int) {
	children, err := list.List()
	if err != nil {
		dialog.ShowError(err, p.window)
		return 0, 0
	}

	for _, child := range children {
		if !isImagePath(child.Name()) {
			continue
		}
		if _, err := p.state.AddMockup(child.Path()); err != nil {
			log.Printf("skipping %s: %v", child.Name(), err)
			failed++
			continue
		}
		added++
	}
	return added, failed
}

func (p *MockupsPanel) onRemove() {
	entry, ok := p.state.CurrentMockup()
	if !ok {
		return
	}
	index := p.state.Current

	dialog.ShowConfirm("Remove Mockup",
		fmt.Sprintf("Remove %q from the project?\nIts customizations are discarded.", entry.Name),
		func(confirmed bool) {
			if !confirmed {
				return
			}
			p.state.RemoveMockup(index)
		}, p.window)
}
