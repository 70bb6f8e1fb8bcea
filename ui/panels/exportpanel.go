package panels

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/NV08hv/canvas-mockup-sub000/internal/app"
	"github.com/NV08hv/canvas-mockup-sub000/internal/design"
	"github.com/NV08hv/canvas-mockup-sub000/internal/export"
	"github.com/NV08hv/canvas-mockup-sub000/internal/render"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
)

const (
	scopeAll     = "All mockups"
	scopeCurrent = "Current mockup"
)

var scaleChoices = []struct {
	label  string
	factor float64
}{
	{"100%", 1.0},
	{"75%", 0.75},
	{"50%", 0.5},
	{"25%", 0.25},
}

// ExportPanel writes finished mockups to disk: every mockup into a folder or
// a zip archive, or just the current one as a single image. Edit mode never
// leaks into the output, exports always use the stored placements.
type ExportPanel struct {
	state     *app.State
	window    fyne.Window
	container *fyne.Container

	formatSel *widget.Select
	scaleSel  *widget.Select
	scopeSel  *widget.RadioGroup

	folderBtn  *widget.Button
	archiveBtn *widget.Button
	singleBtn  *widget.Button
	statusLbl  *widget.Label
}

// NewExportPanel builds the export form.
func NewExportPanel(state *app.State, window fyne.Window) *ExportPanel {
	p := &ExportPanel{
		state:  state,
		window: window,
	}
	p.buildUI()

	state.On(app.EventMockupsChanged, func(interface{}) { p.syncButtons() })
	state.On(app.EventProjectLoaded, func(interface{}) { p.syncButtons() })

	p.syncButtons()
	return p
}

// Container returns the panel's root container.
func (p *ExportPanel) Container() *fyne.Container {
	return p.container
}

func (p *ExportPanel) buildUI() {
	p.formatSel = widget.NewSelect([]string{string(export.FormatPNG), string(export.FormatWebP)}, nil)
	p.formatSel.SetSelected(string(export.FormatPNG))

	labels := make([]string, len(scaleChoices))
	for i, c := range scaleChoices {
		labels[i] = c.label
	}
	p.scaleSel = widget.NewSelect(labels, nil)
	p.scaleSel.SetSelected(labels[0])

	p.scopeSel = widget.NewRadioGroup([]string{scopeAll, scopeCurrent}, func(string) {
		p.syncButtons()
	})
	p.scopeSel.SetSelected(scopeAll)

	p.folderBtn = widget.NewButton("Export to Folder", p.onExportFolder)
	p.archiveBtn = widget.NewButton("Export to Archive", p.onExportArchive)
	p.singleBtn = widget.NewButton("Save Image", p.onExportCurrent)
	p.statusLbl = widget.NewLabel("")
	p.statusLbl.Wrapping = fyne.TextWrapWord

	form := container.NewVBox(
		container.NewGridWithColumns(2,
			widget.NewLabel("Format"), p.formatSel,
			widget.NewLabel("Size"), p.scaleSel,
		),
		widget.NewSeparator(),
		p.scopeSel,
		p.folderBtn,
		p.archiveBtn,
		p.singleBtn,
		p.statusLbl,
	)

	p.container = container.NewVBox(widget.NewCard("Export", "", form))
}

func (p *ExportPanel) syncButtons() {
	hasMockups := p.state.MockupCount() > 0
	all := p.scopeSel.Selected != scopeCurrent

	setEnabled := func(b *widget.Button, on bool) {
		if on {
			b.Enable()
		} else {
			b.Disable()
		}
	}
	setEnabled(p.folderBtn, hasMockups && all)
	setEnabled(p.archiveBtn, hasMockups && all)
	setEnabled(p.singleBtn, hasMockups && !all)
}

func (p *ExportPanel) format() export.Format {
	f, err := export.ParseFormat(p.formatSel.Selected)
	if err != nil {
		return export.FormatPNG
	}
	return f
}

func (p *ExportPanel) scale() float64 {
	for _, c := range scaleChoices {
		if c.label == p.scaleSel.Selected {
			return c.factor
		}
	}
	return 1.0
}

func (p *ExportPanel) job() *export.Job {
	return &export.Job{
		Mockups: p.state.MockupsSnapshot(),
		Layers:  p.state.Layers(),
		Format:  p.format(),
		Scale:   p.scale(),
	}
}

func (p *ExportPanel) onExportFolder() {
	fd := dialog.NewFolderOpen(func(list fyne.ListableURI, err error) {
		if err != nil {
			dialog.ShowError(err, p.window)
			return
		}
		if list == nil {
			return
		}
		dir := list.Path()
		p.runJob(p.job(), fmt.Sprintf("folder %s", filepath.Base(dir)),
			func(j *export.Job, progress func(done, total int)) error {
				return j.WriteDir(dir, progress)
			})
	}, p.window)

	if lister := exportDirURI(p.state); lister != nil {
		fd.SetLocation(lister)
	}
	fd.Show()
}

func (p *ExportPanel) onExportArchive() {
	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, p.window)
			return
		}
		if writer == nil {
			return
		}
		p.runJob(p.job(), filepath.Base(writer.URI().Path()),
			func(j *export.Job, progress func(done, total int)) error {
				defer writer.Close()
				return j.WriteArchive(writer, progress)
			})
	}, p.window)

	fd.SetFileName("mockups.zip")
	fd.SetFilter(storage.NewExtensionFileFilter([]string{".zip"}))
	if lister := exportDirURI(p.state); lister != nil {
		fd.SetLocation(lister)
	}
	fd.Show()
}

// runJob executes one export pass in the background behind a modal progress
// dialog, so the shared state cannot change underneath the renderer.
func (p *ExportPanel) runJob(j *export.Job, dest string,
	run func(j *export.Job, progress func(done, total int)) error) {

	bar := widget.NewProgressBar()
	status := widget.NewLabel(fmt.Sprintf("Exporting %d mockups", len(j.Mockups)))
	modal := dialog.NewCustomWithoutButtons("Exporting",
		container.NewVBox(status, bar), p.window)
	modal.Show()

	total := len(j.Mockups)
	progress := func(done, _ int) {
		bar.SetValue(float64(done) / float64(total))
		status.SetText(fmt.Sprintf("Exporting %d / %d", done, total))
	}

	go func() {
		err := run(j, progress)
		modal.Hide()

		if err != nil {
			log.Printf("export failed: %v", err)
			dialog.ShowError(err, p.window)
			p.statusLbl.SetText("Export failed")
			return
		}
		p.statusLbl.SetText(fmt.Sprintf("Exported %d mockups to %s", total, dest))
	}()
}

func (p *ExportPanel) onExportCurrent() {
	entry, ok := p.state.CurrentMockup()
	if !ok {
		return
	}
	index := p.state.Current
	format := p.format()

	j := &export.Job{
		Mockups: p.state.MockupsSnapshot(),
		Layers:  p.state.Layers(),
		Format:  format,
		Scale:   p.scale(),
	}

	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, p.window)
			return
		}
		if writer == nil {
			return
		}
		defer writer.Close()

		// Render through the job so the override index stays the mockup's
		// position in the full list.
		img := render.Render(entry.Image, j.Layers, index, j.TargetSize(index), design.NoEdit())
		if err := export.Encode(writer, img, format); err != nil {
			dialog.ShowError(err, p.window)
			p.statusLbl.SetText("Export failed")
			return
		}
		p.statusLbl.SetText(fmt.Sprintf("Saved %s", filepath.Base(writer.URI().Path())))
	}, p.window)

	fd.SetFileName(j.FileName(index))
	fd.SetFilter(storage.NewExtensionFileFilter([]string{format.Ext()}))
	if lister := exportDirURI(p.state); lister != nil {
		fd.SetLocation(lister)
	}
	fd.Show()
}

// exportDirURI suggests the project's export directory for dialogs, falling
// back to its parent and then to the shared last-directory preference.
func exportDirURI(state *app.State) fyne.ListableURI {
	dir := state.ExportDefaults()
	if dir == "" {
		return lastDirURI()
	}

	for _, candidate := range []string{dir, filepath.Dir(dir)} {
		if info, err := os.Stat(candidate); err != nil || !info.IsDir() {
			continue
		}
		if lister, err := storage.ListerForURI(storage.NewFileURI(candidate)); err == nil {
			return lister
		}
	}
	return lastDirURI()
}
