// Package app provides application lifecycle management, shared state, and
// events.
package app

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/NV08hv/canvas-mockup-sub000/internal/design"
	"github.com/NV08hv/canvas-mockup-sub000/internal/mockup"
	"github.com/NV08hv/canvas-mockup-sub000/internal/project"
	"github.com/NV08hv/canvas-mockup-sub000/pkg/geometry"
)

// State holds the editor session: the mockup list, the two design slots, the
// edit-mode context and project bookkeeping. The slice position of a mockup
// is the index every override map keys on, so all mutations that reshape the
// list go through State and nothing else.
type State struct {
	mu sync.RWMutex

	// Project
	ProjectPath string
	Modified    bool

	// Imported base images, in display order.
	Mockups []*mockup.Entry

	// The design slots. Slot 0 starts below slot 1.
	Designs [design.Slots]*design.Layer

	// Mockup shown in the editor canvas.
	Current int

	// Edit-mode context, session local.
	edit design.EditContext

	listeners map[EventType][]EventListener
}

// EventType identifies different application events.
type EventType int

const (
	EventProjectLoaded EventType = iota
	EventProjectSaved
	EventMockupsChanged
	EventCurrentChanged
	EventDesignChanged
	EventPlacementChanged
	EventEditModeChanged
	EventModified
)

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// NewState creates a new application state with two empty design slots.
func NewState() *State {
	return &State{
		Designs:   [design.Slots]*design.Layer{design.NewLayer(0), design.NewLayer(1)},
		listeners: make(map[EventType][]EventListener),
	}
}

// On registers an event listener for the specified event type.
func (s *State) On(event EventType, listener EventListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (s *State) Emit(event EventType, data interface{}) {
	s.mu.RLock()
	listeners := s.listeners[event]
	s.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

// SetModified marks the project as modified and emits an event.
func (s *State) SetModified(modified bool) {
	s.mu.Lock()
	s.Modified = modified
	s.mu.Unlock()
	s.Emit(EventModified, modified)
}

// Layers returns both design slots as a slice for rendering and hit testing.
func (s *State) Layers() []*design.Layer {
	return []*design.Layer{s.Designs[0], s.Designs[1]}
}

// EditContext returns the current edit-mode context.
func (s *State) EditContext() design.EditContext {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.edit
}

// MockupCount returns the number of imported mockups.
func (s *State) MockupCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.Mockups)
}

// MockupAt returns the mockup at index, if the index is valid.
func (s *State) MockupAt(index int) (*mockup.Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if index < 0 || index >= len(s.Mockups) {
		return nil, false
	}
	return s.Mockups[index], true
}

// CurrentMockup returns the mockup shown in the editor, if any.
func (s *State) CurrentMockup() (*mockup.Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.Current < 0 || s.Current >= len(s.Mockups) {
		return nil, false
	}
	return s.Mockups[s.Current], true
}

// MockupsSnapshot returns a copy of the mockup list, for export jobs that
// iterate outside the lock.
func (s *State) MockupsSnapshot() []*mockup.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*mockup.Entry, len(s.Mockups))
	copy(out, s.Mockups)
	return out
}

// AddMockup imports a base image and appends it to the list, returning its
// index.
func (s *State) AddMockup(path string) (int, error) {
	entry, err := mockup.Load(path)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	s.Mockups = append(s.Mockups, entry)
	index := len(s.Mockups) - 1
	s.mu.Unlock()

	s.SetModified(true)
	s.Emit(EventMockupsChanged, index)
	return index, nil
}

// RemoveMockup deletes the mockup at index and re-keys every override map in
// both design slots in the same step, so no override can survive pointing at
// a shifted or vanished mockup. Out-of-range indices are a no-op.
func (s *State) RemoveMockup(index int) {
	s.mu.Lock()
	if index < 0 || index >= len(s.Mockups) {
		s.mu.Unlock()
		return
	}

	s.Mockups = append(s.Mockups[:index], s.Mockups[index+1:]...)
	for _, l := range s.Designs {
		l.OnMockupRemoved(index)
	}

	// Keep the edit context pointing at the same mockup, or drop it when
	// that mockup is the one going away.
	if s.edit.Active {
		switch {
		case s.edit.Mockup == index:
			s.edit = design.NoEdit()
		case s.edit.Mockup > index:
			s.edit.Mockup--
		}
	}

	if s.Current > index || s.Current >= len(s.Mockups) {
		s.Current--
		if s.Current < 0 {
			s.Current = 0
		}
	}
	s.mu.Unlock()

	s.SetModified(true)
	s.Emit(EventMockupsChanged, index)
	s.Emit(EventPlacementChanged, nil)
}

// SetCurrent switches the mockup shown in the editor canvas.
func (s *State) SetCurrent(index int) {
	s.mu.Lock()
	if index < 0 || index >= len(s.Mockups) || index == s.Current {
		s.mu.Unlock()
		return
	}
	s.Current = index
	s.mu.Unlock()

	s.Emit(EventCurrentChanged, index)
}

// designAt bounds-checks a design slot.
func (s *State) designAt(slot int) (*design.Layer, bool) {
	if slot < 0 || slot >= design.Slots {
		return nil, false
	}
	return s.Designs[slot], true
}

// LoadDesign loads an image into a design slot. A first load lands centered
// on the current mockup; replacing an image keeps the existing placement.
func (s *State) LoadDesign(slot int, path string) error {
	l, ok := s.designAt(slot)
	if !ok {
		return fmt.Errorf("no design slot %d", slot)
	}

	firstLoad := !l.HasImage()
	if err := l.Load(path); err != nil {
		return err
	}

	if firstLoad {
		if cur, ok := s.CurrentMockup(); ok {
			t := l.Transform
			t.X = cur.Center().X
			t.Y = cur.Center().Y
			l.Transform = design.Clamp(t)
		}
	}

	s.SetModified(true)
	s.Emit(EventDesignChanged, slot)
	s.Emit(EventPlacementChanged, nil)
	return nil
}

// ClearDesign empties a design slot, dropping its overrides with it.
func (s *State) ClearDesign(slot int) {
	l, ok := s.designAt(slot)
	if !ok {
		return
	}
	l.ClearImage()

	s.SetModified(true)
	s.Emit(EventDesignChanged, slot)
	s.Emit(EventPlacementChanged, nil)
}

// SetDesignVisible toggles a design slot.
func (s *State) SetDesignVisible(slot int, visible bool) {
	l, ok := s.designAt(slot)
	if !ok || l.Visible == visible {
		return
	}
	l.Visible = visible

	s.SetModified(true)
	s.Emit(EventDesignChanged, slot)
	s.Emit(EventPlacementChanged, nil)
}

// SwapDesignOrder flips which design slot paints on top.
func (s *State) SwapDesignOrder() {
	s.Designs[0].Order, s.Designs[1].Order = s.Designs[1].Order, s.Designs[0].Order

	s.SetModified(true)
	s.Emit(EventDesignChanged, nil)
	s.Emit(EventPlacementChanged, nil)
}

// SetGlobalTransform replaces a design's global placement.
func (s *State) SetGlobalTransform(slot int, t design.Transform) {
	l, ok := s.designAt(slot)
	if !ok {
		return
	}
	l.Transform = design.Clamp(t)

	s.SetModified(true)
	s.Emit(EventPlacementChanged, slot)
}

// PatchGlobalTransform applies a partial update to a design's global
// placement.
func (s *State) PatchGlobalTransform(slot int, p design.Patch) {
	l, ok := s.designAt(slot)
	if !ok {
		return
	}
	l.Transform = design.Merge(l.Transform, p)

	s.SetModified(true)
	s.Emit(EventPlacementChanged, slot)
}

// SetGlobalBlend replaces a design's global blend mode.
func (s *State) SetGlobalBlend(slot int, b design.BlendMode) {
	l, ok := s.designAt(slot)
	if !ok || l.Blend == b {
		return
	}
	l.Blend = b

	s.SetModified(true)
	s.Emit(EventPlacementChanged, slot)
}

// SetTransformOverride stores a full per-mockup transform override. Any
// position offset at the same index is dropped: the override supersedes it,
// and deleting the override later must return the mockup to the global look,
// not to a stale nudge.
func (s *State) SetTransformOverride(slot, index int, t design.Transform) {
	l, ok := s.designAt(slot)
	if !ok || !s.validIndex(index) {
		return
	}
	l.TransformOverrides.Set(index, design.Clamp(t))
	l.PositionOffsets.Delete(index)

	s.SetModified(true)
	s.Emit(EventPlacementChanged, slot)
}

// DeleteTransformOverride returns one mockup to the global placement.
func (s *State) DeleteTransformOverride(slot, index int) {
	l, ok := s.designAt(slot)
	if !ok {
		return
	}
	l.TransformOverrides.Delete(index)

	s.SetModified(true)
	s.Emit(EventPlacementChanged, slot)
}

// SetBlendOverride stores a per-mockup blend mode.
func (s *State) SetBlendOverride(slot, index int, b design.BlendMode) {
	l, ok := s.designAt(slot)
	if !ok || !s.validIndex(index) {
		return
	}
	l.BlendOverrides.Set(index, b)

	s.SetModified(true)
	s.Emit(EventPlacementChanged, slot)
}

// DeleteBlendOverride returns one mockup to the global blend mode.
func (s *State) DeleteBlendOverride(slot, index int) {
	l, ok := s.designAt(slot)
	if !ok {
		return
	}
	l.BlendOverrides.Delete(index)

	s.SetModified(true)
	s.Emit(EventPlacementChanged, slot)
}

// SetPositionOffset stores a position-only override, the result of dragging
// a design on one mockup outside edit mode.
func (s *State) SetPositionOffset(slot, index int, p geometry.Point2D) {
	l, ok := s.designAt(slot)
	if !ok || !s.validIndex(index) {
		return
	}
	l.PositionOffsets.Set(index, p)

	s.SetModified(true)
	s.Emit(EventPlacementChanged, slot)
}

// DeletePositionOffset removes a position-only override.
func (s *State) DeletePositionOffset(slot, index int) {
	l, ok := s.designAt(slot)
	if !ok {
		return
	}
	l.PositionOffsets.Delete(index)

	s.SetModified(true)
	s.Emit(EventPlacementChanged, slot)
}

// ResetMockupOverrides clears every per-mockup customization of one design on
// one mockup.
func (s *State) ResetMockupOverrides(slot, index int) {
	l, ok := s.designAt(slot)
	if !ok {
		return
	}
	l.ResetOverrides(index)

	s.SetModified(true)
	s.Emit(EventPlacementChanged, slot)
}

// EnterEditMode scopes subsequent edits to one mockup. Entering edit mode for
// another mockup simply replaces the context; at most one is active.
func (s *State) EnterEditMode(index int) {
	s.mu.Lock()
	if index < 0 || index >= len(s.Mockups) {
		s.mu.Unlock()
		return
	}
	s.edit = design.EditOf(index)
	s.mu.Unlock()

	s.Emit(EventEditModeChanged, index)
	s.Emit(EventPlacementChanged, nil)
}

// ExitEditMode returns to global editing.
func (s *State) ExitEditMode() {
	s.mu.Lock()
	if !s.edit.Active {
		s.mu.Unlock()
		return
	}
	s.edit = design.NoEdit()
	s.mu.Unlock()

	s.Emit(EventEditModeChanged, nil)
	s.Emit(EventPlacementChanged, nil)
}

func (s *State) validIndex(index int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return index >= 0 && index < len(s.Mockups)
}

// NewProject discards the session and returns to an empty untitled state.
func (s *State) NewProject() {
	s.mu.Lock()
	s.Mockups = nil
	s.Current = 0
	s.edit = design.NoEdit()
	for slot := 0; slot < design.Slots; slot++ {
		s.Designs[slot] = design.NewLayer(slot)
	}
	s.ProjectPath = ""
	s.Modified = false
	s.mu.Unlock()

	s.Emit(EventProjectLoaded, "")
	s.Emit(EventMockupsChanged, nil)
	s.Emit(EventDesignChanged, nil)
	s.Emit(EventPlacementChanged, nil)
}

// LoadProject restores a session from a project file. Override entries whose
// index no longer matches a mockup are dropped.
func (s *State) LoadProject(path string) error {
	file, err := project.Load(path)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)

	s.mu.Lock()
	s.Mockups = nil
	s.Current = 0
	s.edit = design.NoEdit()
	s.mu.Unlock()

	for _, ref := range file.Mockups {
		entry, err := mockup.Load(project.AbsPath(dir, ref.Path))
		if err != nil {
			return fmt.Errorf("failed to restore mockup %s: %w", ref.Path, err)
		}
		s.mu.Lock()
		s.Mockups = append(s.Mockups, entry)
		s.mu.Unlock()
	}

	count := s.MockupCount()
	for slot := 0; slot < design.Slots; slot++ {
		l := design.NewLayer(slot)
		file.Designs[slot].Apply(l, dir, count)
		s.Designs[slot] = l
	}

	s.mu.Lock()
	if file.Current >= 0 && file.Current < len(s.Mockups) {
		s.Current = file.Current
	}
	s.ProjectPath = path
	s.Modified = false
	s.mu.Unlock()

	s.Emit(EventProjectLoaded, path)
	s.Emit(EventMockupsChanged, nil)
	s.Emit(EventDesignChanged, nil)
	s.Emit(EventPlacementChanged, nil)
	return nil
}

// SaveProject writes the session to a project file with image paths stored
// relative to it.
func (s *State) SaveProject(path string) error {
	s.mu.RLock()
	file := project.New()
	dir := filepath.Dir(path)
	for _, e := range s.Mockups {
		file.Mockups = append(file.Mockups, project.MockupRef{Path: project.RelPath(dir, e.Path)})
	}
	for slot := 0; slot < design.Slots; slot++ {
		file.Designs[slot] = project.SnapshotDesign(s.Designs[slot], dir)
	}
	file.Current = s.Current
	s.mu.RUnlock()

	if err := file.Save(path); err != nil {
		return err
	}

	s.mu.Lock()
	s.ProjectPath = path
	s.Modified = false
	s.mu.Unlock()

	s.Emit(EventProjectSaved, path)
	return nil
}

// ExportDefaults suggests an output directory next to the project file, or
// the working directory when the session is unsaved.
func (s *State) ExportDefaults() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.ProjectPath != "" {
		return filepath.Join(filepath.Dir(s.ProjectPath), "export")
	}
	wd, err := os.Getwd()
	if err != nil {
		return "export"
	}
	return filepath.Join(wd, "export")
}
