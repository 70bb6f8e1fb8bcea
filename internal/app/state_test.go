package app

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/NV08hv/canvas-mockup-sub000/internal/design"
	"github.com/NV08hv/canvas-mockup-sub000/pkg/geometry"
)

func writePNG(t *testing.T, dir, name string, w, h int) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", name, err)
	}
	defer f.Close()
	if err := png.Encode(f, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatalf("encode %s: %v", name, err)
	}
	return path
}

// newTestState builds a state with n 200x100 mockups already imported.
func newTestState(t *testing.T, n int) *State {
	t.Helper()
	s := NewState()
	dir := t.TempDir()
	for i := 0; i < n; i++ {
		path := writePNG(t, dir, fmt.Sprintf("base%d.png", i), 200, 100)
		if _, err := s.AddMockup(path); err != nil {
			t.Fatalf("AddMockup: %v", err)
		}
	}
	return s
}

func TestAddMockupBadFile(t *testing.T) {
	s := NewState()
	path := filepath.Join(t.TempDir(), "junk.png")
	if err := os.WriteFile(path, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := s.AddMockup(path); err == nil {
		t.Fatal("AddMockup should fail on a non-image")
	}
	if s.MockupCount() != 0 {
		t.Errorf("failed import must not be appended, count = %d", s.MockupCount())
	}
}

func TestRemoveMockupShiftsOverrides(t *testing.T) {
	s := newTestState(t, 3)
	l := s.Designs[0]

	custom := design.DefaultTransform()
	custom.X = 50
	s.SetTransformOverride(0, 1, custom)

	s.RemoveMockup(0)

	if got := s.MockupCount(); got != 2 {
		t.Fatalf("MockupCount = %d, want 2", got)
	}
	got, ok := l.TransformOverrides.Get(0)
	if !ok {
		t.Fatal("override did not follow its mockup to index 0")
	}
	if got.X != 50 {
		t.Errorf("shifted override X = %v, want 50", got.X)
	}
	if l.TransformOverrides.Has(1) {
		t.Error("stale override left behind at index 1")
	}
	if rt := l.EffectiveTransform(1, design.NoEdit()); rt != l.Transform {
		t.Errorf("EffectiveTransform(1) = %+v, want the global %+v", rt, l.Transform)
	}
}

func TestRemoveMockupShiftsAllOverrideKinds(t *testing.T) {
	s := newTestState(t, 3)
	l := s.Designs[1]

	s.SetBlendOverride(1, 2, design.BlendMultiply)
	s.SetPositionOffset(1, 2, geometry.NewPoint2D(7, 9))

	s.RemoveMockup(0)

	if b, ok := l.BlendOverrides.Get(1); !ok || b != design.BlendMultiply {
		t.Errorf("blend override at 1 = %v, %v; want multiply, true", b, ok)
	}
	if off, ok := l.PositionOffsets.Get(1); !ok || off != geometry.NewPoint2D(7, 9) {
		t.Errorf("position offset at 1 = %v, %v; want (7, 9), true", off, ok)
	}
}

func TestRemoveMockupEditContextFixups(t *testing.T) {
	s := newTestState(t, 3)

	s.EnterEditMode(2)
	s.RemoveMockup(0)
	if e := s.EditContext(); !e.Active || e.Mockup != 1 {
		t.Errorf("edit context = %+v, want active at 1", e)
	}

	s.RemoveMockup(1)
	if e := s.EditContext(); e.Active {
		t.Errorf("removing the edited mockup should clear edit mode, got %+v", e)
	}
}

func TestRemoveMockupCurrentFixups(t *testing.T) {
	s := newTestState(t, 3)

	s.SetCurrent(2)
	s.RemoveMockup(0)
	if s.Current != 1 {
		t.Errorf("Current = %d, want 1 (same mockup, shifted down)", s.Current)
	}

	s.RemoveMockup(1)
	if s.Current != 0 {
		t.Errorf("Current = %d, want 0 after removing the shown last mockup", s.Current)
	}

	s.RemoveMockup(0)
	if s.Current != 0 {
		t.Errorf("Current = %d, want 0 on an empty list", s.Current)
	}
}

func TestInvalidIndicesAreNoOps(t *testing.T) {
	s := newTestState(t, 2)
	l := s.Designs[0]

	s.RemoveMockup(5)
	s.RemoveMockup(-1)
	if got := s.MockupCount(); got != 2 {
		t.Fatalf("MockupCount = %d, want 2", got)
	}

	s.SetTransformOverride(0, 9, design.DefaultTransform())
	s.SetBlendOverride(0, -3, design.BlendMultiply)
	s.SetPositionOffset(0, 2, geometry.NewPoint2D(1, 1))
	if l.TransformOverrides.Len()+l.BlendOverrides.Len()+l.PositionOffsets.Len() != 0 {
		t.Error("out-of-range override indices must be ignored")
	}

	s.EnterEditMode(7)
	if s.EditContext().Active {
		t.Error("EnterEditMode past the end should not activate")
	}

	s.SetGlobalBlend(design.Slots, design.BlendScreen)
	if s.Designs[0].Blend != design.BlendNormal || s.Designs[1].Blend != design.BlendNormal {
		t.Error("bad slot index must not touch either design")
	}
}

func TestSetTransformOverrideClearsOffset(t *testing.T) {
	s := newTestState(t, 2)
	l := s.Designs[1]

	s.SetPositionOffset(1, 0, geometry.NewPoint2D(10, 20))
	if !l.PositionOffsets.Has(0) {
		t.Fatal("offset not stored")
	}

	tr := design.DefaultTransform()
	tr.X = 77
	s.SetTransformOverride(1, 0, tr)
	if l.PositionOffsets.Has(0) {
		t.Error("a full override should drop the offset at the same index")
	}

	s.DeleteTransformOverride(1, 0)
	if got := l.EffectiveTransform(0, design.NoEdit()); got != l.Transform {
		t.Errorf("after deleting the override the global placement should win, got %+v", got)
	}
}

func TestLoadDesignPlacement(t *testing.T) {
	s := newTestState(t, 1)
	dir := t.TempDir()

	if err := s.LoadDesign(0, writePNG(t, dir, "art.png", 40, 40)); err != nil {
		t.Fatalf("LoadDesign: %v", err)
	}
	l := s.Designs[0]
	if l.Transform.X != 100 || l.Transform.Y != 50 {
		t.Errorf("first load should center on the mockup, got (%v, %v)", l.Transform.X, l.Transform.Y)
	}

	moved := l.Transform
	moved.X, moved.Y = 30, 40
	s.SetGlobalTransform(0, moved)
	if err := s.LoadDesign(0, writePNG(t, dir, "art2.png", 10, 10)); err != nil {
		t.Fatalf("LoadDesign: %v", err)
	}
	if l.Transform.X != 30 || l.Transform.Y != 40 {
		t.Errorf("replacing the image should keep the placement, got (%v, %v)", l.Transform.X, l.Transform.Y)
	}
}

func TestSwapDesignOrder(t *testing.T) {
	s := NewState()
	if s.Designs[0].Order != 0 || s.Designs[1].Order != 1 {
		t.Fatalf("fresh order = %d, %d; want 0, 1", s.Designs[0].Order, s.Designs[1].Order)
	}
	s.SwapDesignOrder()
	if s.Designs[0].Order != 1 || s.Designs[1].Order != 0 {
		t.Errorf("swapped order = %d, %d; want 1, 0", s.Designs[0].Order, s.Designs[1].Order)
	}
}

func TestMutationsEmitPlacementChanged(t *testing.T) {
	s := newTestState(t, 1)

	var placements, modified int
	s.On(EventPlacementChanged, func(interface{}) { placements++ })
	s.On(EventModified, func(interface{}) { modified++ })

	s.SetGlobalTransform(0, design.DefaultTransform())
	s.SetGlobalBlend(0, design.BlendScreen)
	s.SetPositionOffset(0, 0, geometry.NewPoint2D(5, 5))
	s.SwapDesignOrder()

	if placements != 4 {
		t.Errorf("EventPlacementChanged fired %d times, want 4", placements)
	}
	if modified != 4 {
		t.Errorf("EventModified fired %d times, want 4", modified)
	}
	if !s.Modified {
		t.Error("state should be marked modified")
	}
}

func TestSaveLoadProjectRoundTrip(t *testing.T) {
	dir := t.TempDir()
	s := NewState()
	for i := 0; i < 2; i++ {
		if _, err := s.AddMockup(writePNG(t, dir, fmt.Sprintf("base%d.png", i), 200, 100)); err != nil {
			t.Fatalf("AddMockup: %v", err)
		}
	}
	if err := s.LoadDesign(0, writePNG(t, dir, "art.png", 40, 40)); err != nil {
		t.Fatalf("LoadDesign: %v", err)
	}

	tr := design.DefaultTransform()
	tr.X, tr.Y, tr.Rotation = 25, 30, 90
	s.SetTransformOverride(0, 1, tr)
	s.SetBlendOverride(0, 0, design.BlendMultiply)
	s.SetPositionOffset(0, 0, geometry.NewPoint2D(3, 4))
	s.SetGlobalBlend(1, design.BlendScreen)
	s.SetCurrent(1)

	path := filepath.Join(dir, "session.mockup")
	if err := s.SaveProject(path); err != nil {
		t.Fatalf("SaveProject: %v", err)
	}
	if s.Modified {
		t.Error("saving should clear the modified flag")
	}
	if got, want := s.ExportDefaults(), filepath.Join(dir, "export"); got != want {
		t.Errorf("ExportDefaults = %q, want %q", got, want)
	}

	loaded := NewState()
	if err := loaded.LoadProject(path); err != nil {
		t.Fatalf("LoadProject: %v", err)
	}

	if loaded.MockupCount() != 2 {
		t.Fatalf("MockupCount = %d, want 2", loaded.MockupCount())
	}
	if loaded.Current != 1 {
		t.Errorf("Current = %d, want 1", loaded.Current)
	}
	l := loaded.Designs[0]
	if !l.HasImage() {
		t.Fatal("design image did not come back")
	}
	got, ok := l.TransformOverrides.Get(1)
	if !ok || got.X != 25 || got.Y != 30 || got.Rotation != 90 {
		t.Errorf("transform override = %+v, %v", got, ok)
	}
	if b, ok := l.BlendOverrides.Get(0); !ok || b != design.BlendMultiply {
		t.Errorf("blend override = %v, %v; want multiply, true", b, ok)
	}
	if off, ok := l.PositionOffsets.Get(0); !ok || off != geometry.NewPoint2D(3, 4) {
		t.Errorf("position offset = %v, %v; want (3, 4), true", off, ok)
	}
	if loaded.Designs[1].Blend != design.BlendScreen {
		t.Errorf("slot 1 blend = %v, want screen", loaded.Designs[1].Blend)
	}
}
