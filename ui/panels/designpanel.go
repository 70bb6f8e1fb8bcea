package panels

import (
	"fmt"

	"github.com/NV08hv/canvas-mockup-sub000/internal/app"
	"github.com/NV08hv/canvas-mockup-sub000/internal/design"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
)

var slotTitles = [design.Slots]string{"Design 1", "Design 2"}

// DesignPanel edits the two design slots: images, stacking, blend and the
// transform numbers. Outside edit mode the fields show and write the global
// placement; with "Customize This Mockup" active they show and write the
// current mockup's override, the same target the canvas gestures use.
type DesignPanel struct {
	state     *app.State
	window    fyne.Window
	container *fyne.Container

	slots [design.Slots]*slotControls

	orderLbl     *widget.Label
	customizeBtn *widget.Button
	resetBtn     *widget.Button

	updating bool
}

type slotControls struct {
	slot int
	card *widget.Card

	fileLbl    *widget.Label
	clearBtn   *widget.Button
	visibleChk *widget.Check

	opacity    *widget.Slider
	opacityLbl *widget.Label
	blendSel   *widget.Select

	xEntry, yEntry         *widget.Entry
	scaleEntry, rotEntry   *widget.Entry
	scaleXEntry, scaleYEnt *widget.Entry
}

// NewDesignPanel builds the panel and keeps it in sync with the state.
func NewDesignPanel(state *app.State, window fyne.Window) *DesignPanel {
	p := &DesignPanel{
		state:  state,
		window: window,
	}
	p.buildUI()

	state.On(app.EventDesignChanged, func(interface{}) { p.sync() })
	state.On(app.EventPlacementChanged, func(interface{}) { p.sync() })
	state.On(app.EventCurrentChanged, func(interface{}) { p.sync() })
	state.On(app.EventEditModeChanged, func(interface{}) { p.sync() })
	state.On(app.EventMockupsChanged, func(interface{}) { p.sync() })
	state.On(app.EventProjectLoaded, func(interface{}) { p.sync() })

	p.sync()
	return p
}

// Container returns the panel's root container.
func (p *DesignPanel) Container() *fyne.Container {
	return p.container
}

func (p *DesignPanel) buildUI() {
	for slot := 0; slot < design.Slots; slot++ {
		p.slots[slot] = p.buildSlot(slot)
	}

	p.orderLbl = widget.NewLabel("")
	swapBtn := widget.NewButton("Swap Order", func() {
		p.state.SwapDesignOrder()
	})

	p.customizeBtn = widget.NewButton("Customize This Mockup", p.onCustomize)
	p.resetBtn = widget.NewButton("Reset This Mockup", p.onReset)

	mockupBox := container.NewVBox(
		widget.NewSeparator(),
		p.customizeBtn,
		p.resetBtn,
	)

	p.container = container.NewVBox(
		p.slots[0].card,
		p.slots[1].card,
		container.NewBorder(nil, nil, nil, swapBtn, p.orderLbl),
		mockupBox,
	)
}

func (p *DesignPanel) buildSlot(slot int) *slotControls {
	sc := &slotControls{slot: slot}

	sc.fileLbl = widget.NewLabel("empty")
	sc.fileLbl.Truncation = fyne.TextTruncateEllipsis

	loadBtn := widget.NewButton("Load", func() { p.onLoad(slot) })
	sc.clearBtn = widget.NewButton("Clear", func() { p.onClear(slot) })

	sc.visibleChk = widget.NewCheck("Visible", func(on bool) {
		if p.updating {
			return
		}
		p.state.SetDesignVisible(slot, on)
	})

	sc.opacityLbl = widget.NewLabel("100%")
	sc.opacity = widget.NewSlider(0, 100)
	sc.opacity.Step = 1
	sc.opacity.OnChanged = func(v float64) {
		if p.updating {
			return
		}
		sc.opacityLbl.SetText(fmt.Sprintf("%.0f%%", v))
		t := p.displayTransform(slot)
		t.Opacity = v
		p.writeTransform(slot, t)
	}

	sc.blendSel = widget.NewSelect(design.BlendModeNames(), func(name string) {
		if p.updating {
			return
		}
		mode, ok := design.ParseBlendMode(name)
		if !ok {
			return
		}
		p.writeBlend(slot, mode)
	})

	sc.xEntry = p.numberEntry(slot, func(t *design.Transform, v float64) { t.X = v })
	sc.yEntry = p.numberEntry(slot, func(t *design.Transform, v float64) { t.Y = v })
	sc.scaleEntry = p.numberEntry(slot, func(t *design.Transform, v float64) { t.Scale = v })
	sc.rotEntry = p.numberEntry(slot, func(t *design.Transform, v float64) { t.Rotation = v })
	sc.scaleXEntry = p.numberEntry(slot, func(t *design.Transform, v float64) { t.ScaleX = v })
	sc.scaleYEnt = p.numberEntry(slot, func(t *design.Transform, v float64) { t.ScaleY = v })

	grid := container.NewGridWithColumns(4,
		widget.NewLabel("X"), sc.xEntry,
		widget.NewLabel("Y"), sc.yEntry,
		widget.NewLabel("Scale"), sc.scaleEntry,
		widget.NewLabel("Rotation"), sc.rotEntry,
		widget.NewLabel("Scale X"), sc.scaleXEntry,
		widget.NewLabel("Scale Y"), sc.scaleYEnt,
	)

	content := container.NewVBox(
		container.NewBorder(nil, nil, nil,
			container.NewHBox(loadBtn, sc.clearBtn), sc.fileLbl),
		container.NewBorder(nil, nil, sc.visibleChk, nil, sc.blendSel),
		container.NewBorder(nil, nil, widget.NewLabel("Opacity"), sc.opacityLbl, sc.opacity),
		grid,
	)

	sc.card = widget.NewCard(slotTitles[slot], "", content)
	return sc
}

// numberEntry builds a transform field entry. The write happens on submit;
// every state event rewrites the text, so abandoned edits fall back to the
// stored value.
func (p *DesignPanel) numberEntry(slot int, apply func(*design.Transform, float64)) *widget.Entry {
	e := widget.NewEntry()
	e.OnSubmitted = func(s string) {
		v, ok := parseEntryFloat(s)
		if !ok {
			p.sync()
			return
		}
		t := p.displayTransform(slot)
		apply(&t, v)
		p.writeTransform(slot, t)
	}
	return e
}

// displayTransform returns the transform the fields should show: the
// override target in edit mode, the global placement otherwise.
func (p *DesignPanel) displayTransform(slot int) design.Transform {
	l := p.state.Designs[slot]
	if p.state.EditContext().IsFor(p.state.Current) {
		return l.EffectiveTransform(p.state.Current, p.state.EditContext())
	}
	return l.Transform
}

func (p *DesignPanel) displayBlend(slot int) design.BlendMode {
	l := p.state.Designs[slot]
	if p.state.EditContext().IsFor(p.state.Current) {
		return l.EffectiveBlend(p.state.Current)
	}
	return l.Blend
}

func (p *DesignPanel) writeTransform(slot int, t design.Transform) {
	if p.state.EditContext().IsFor(p.state.Current) {
		p.state.SetTransformOverride(slot, p.state.Current, t)
		return
	}
	p.state.SetGlobalTransform(slot, t)
}

func (p *DesignPanel) writeBlend(slot int, b design.BlendMode) {
	if p.state.EditContext().IsFor(p.state.Current) {
		p.state.SetBlendOverride(slot, p.state.Current, b)
		return
	}
	p.state.SetGlobalBlend(slot, b)
}

func (p *DesignPanel) onLoad(slot int) {
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

		if err := p.state.LoadDesign(slot, path); err != nil {
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

func (p *DesignPanel) onClear(slot int) {
	l := p.state.Designs[slot]
	if !l.HasImage() {
		return
	}
	dialog.ShowConfirm("Clear Design",
		fmt.Sprintf("Remove %q from %s?\nAll its per-mockup customizations are discarded.",
			l.Name, slotTitles[slot]),
		func(confirmed bool) {
			if !confirmed {
				return
			}
			p.state.ClearDesign(slot)
		}, p.window)
}

func (p *DesignPanel) onCustomize() {
	if p.state.EditContext().IsFor(p.state.Current) {
		p.state.ExitEditMode()
		return
	}
	p.state.EnterEditMode(p.state.Current)
}

// ResetCurrent asks for confirmation, then drops every customization of the
// current mockup. Exposed for the Edit menu and the canvas context menu.
func (p *DesignPanel) ResetCurrent() {
	p.onReset()
}

func (p *DesignPanel) onReset() {
	entry, ok := p.state.CurrentMockup()
	if !ok {
		return
	}
	index := p.state.Current

	dialog.ShowConfirm("Reset Mockup",
		fmt.Sprintf("Drop all customizations of %q and return it to the shared placement?", entry.Name),
		func(confirmed bool) {
			if !confirmed {
				return
			}
			for slot := 0; slot < design.Slots; slot++ {
				p.state.ResetMockupOverrides(slot, index)
			}
		}, p.window)
}

// sync pushes the state into every control. The updating flag keeps the
// control callbacks from writing the values straight back.
func (p *DesignPanel) sync() {
	p.updating = true
	defer func() { p.updating = false }()

	for slot, sc := range p.slots {
		l := p.state.Designs[slot]

		if l.HasImage() {
			sc.fileLbl.SetText(l.Name)
		} else {
			sc.fileLbl.SetText("empty")
		}

		sc.visibleChk.SetChecked(l.Visible)

		t := p.displayTransform(slot)
		sc.opacity.SetValue(t.Opacity)
		sc.opacityLbl.SetText(fmt.Sprintf("%.0f%%", t.Opacity))
		sc.blendSel.SetSelected(p.displayBlend(slot).String())

		sc.xEntry.SetText(fmt.Sprintf("%.1f", t.X))
		sc.yEntry.SetText(fmt.Sprintf("%.1f", t.Y))
		sc.scaleEntry.SetText(fmt.Sprintf("%.2f", t.Scale))
		sc.rotEntry.SetText(fmt.Sprintf("%.1f", t.Rotation))
		sc.scaleXEntry.SetText(fmt.Sprintf("%.2f", t.ScaleX))
		sc.scaleYEnt.SetText(fmt.Sprintf("%.2f", t.ScaleY))

		p.setSlotEnabled(sc, l.HasImage())
	}

	p.syncOrderLabel()
	p.syncMockupButtons()
}

func (p *DesignPanel) setSlotEnabled(sc *slotControls, on bool) {
	widgets := []fyne.Disableable{
		sc.clearBtn, sc.visibleChk, sc.opacity, sc.blendSel,
		sc.xEntry, sc.yEntry, sc.scaleEntry, sc.rotEntry,
		sc.scaleXEntry, sc.scaleYEnt,
	}
	for _, w := range widgets {
		if on {
			w.Enable()
		} else {
			w.Disable()
		}
	}
}

func (p *DesignPanel) syncOrderLabel() {
	top := 0
	if p.state.Designs[1].Order > p.state.Designs[0].Order {
		top = 1
	}
	p.orderLbl.SetText(fmt.Sprintf("%s is on top", slotTitles[top]))
}

func (p *DesignPanel) syncMockupButtons() {
	hasMockups := p.state.MockupCount() > 0

	if !hasMockups {
		p.customizeBtn.Disable()
		p.resetBtn.Disable()
		p.customizeBtn.SetText("Customize This Mockup")
		return
	}

	p.customizeBtn.Enable()
	p.resetBtn.Enable()

	if p.state.EditContext().IsFor(p.state.Current) {
		p.customizeBtn.SetText("Done Customizing")
	} else {
		p.customizeBtn.SetText("Customize This Mockup")
	}
}
