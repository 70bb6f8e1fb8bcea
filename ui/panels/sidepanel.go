package panels

import (
	"github.com/NV08hv/canvas-mockup-sub000/internal/app"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
)

// SidePanel groups the editor's tool tabs.
type SidePanel struct {
	tabs *container.AppTabs

	Mockups *MockupsPanel
	Designs *DesignPanel
	Export  *ExportPanel
}

// NewSidePanel builds all panel tabs over the shared state.
func NewSidePanel(state *app.State, window fyne.Window) *SidePanel {
	sp := &SidePanel{
		Mockups: NewMockupsPanel(state, window),
		Designs: NewDesignPanel(state, window),
		Export:  NewExportPanel(state, window),
	}

	sp.tabs = container.NewAppTabs(
		container.NewTabItem("Mockups", sp.Mockups.Container()),
		container.NewTabItem("Designs", container.NewVScroll(sp.Designs.Container())),
		container.NewTabItem("Export", sp.Export.Container()),
	)
	return sp
}

// Container returns the tab container for embedding in the window layout.
func (sp *SidePanel) Container() fyne.CanvasObject {
	return sp.tabs
}

// ShowExport switches to the export tab, for the File menu entry.
func (sp *SidePanel) ShowExport() {
	sp.tabs.SelectIndex(2)
}

// ShowMockups switches to the mockups tab.
func (sp *SidePanel) ShowMockups() {
	sp.tabs.SelectIndex(0)
}
