package design

import (
	"math"
	"testing"
)

func TestClampBounds(t *testing.T) {
	tests := []struct {
		name string
		in   Transform
		want Transform
	}{
		{
			"in range passes through",
			Transform{X: 10, Y: -5, Scale: 1.5, ScaleX: 0.5, ScaleY: 2, Rotation: 45, Opacity: 80},
			Transform{X: 10, Y: -5, Scale: 1.5, ScaleX: 0.5, ScaleY: 2, Rotation: 45, Opacity: 80},
		},
		{
			"scale floor and ceiling",
			Transform{Scale: 0.001, ScaleX: 0.05, ScaleY: 9, Rotation: 0, Opacity: 50},
			Transform{Scale: 0.05, ScaleX: 0.1, ScaleY: 3, Rotation: 0, Opacity: 50},
		},
		{
			"opacity clamped",
			Transform{Scale: 1, ScaleX: 1, ScaleY: 1, Opacity: 250},
			Transform{Scale: 1, ScaleX: 1, ScaleY: 1, Opacity: 100},
		},
		{
			"negative rotation wraps",
			Transform{Scale: 1, ScaleX: 1, ScaleY: 1, Rotation: -90, Opacity: 100},
			Transform{Scale: 1, ScaleX: 1, ScaleY: 1, Rotation: 270, Opacity: 100},
		},
		{
			"rotation over a full turn wraps",
			Transform{Scale: 1, ScaleX: 1, ScaleY: 1, Rotation: 725, Opacity: 100},
			Transform{Scale: 1, ScaleX: 1, ScaleY: 1, Rotation: 5, Opacity: 100},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Clamp(tt.in); got != tt.want {
				t.Errorf("Clamp(%+v)\n got %+v\nwant %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestClampNonFinite(t *testing.T) {
	nan := math.NaN()
	in := Transform{
		X: nan, Y: math.Inf(1),
		Scale:  math.Inf(1),
		ScaleX: math.Inf(-1),
		ScaleY: nan,
		Rotation: nan,
		Opacity:  math.Inf(-1),
	}
	got := Clamp(in)
	want := Transform{X: 0, Y: 0, Scale: MaxScale, ScaleX: MinAxisScale, ScaleY: 1, Rotation: 0, Opacity: 0}
	if got != want {
		t.Errorf("Clamp of non-finite values\n got %+v\nwant %+v", got, want)
	}
}

func TestClampIdempotent(t *testing.T) {
	inputs := []Transform{
		{X: 1e9, Y: -1e9, Scale: 100, ScaleX: 0, ScaleY: -3, Rotation: 9999, Opacity: -1},
		{Scale: math.NaN(), ScaleX: math.NaN(), ScaleY: math.NaN(), Rotation: math.Inf(1), Opacity: math.NaN()},
		DefaultTransform(),
	}
	for _, in := range inputs {
		once := Clamp(in)
		twice := Clamp(once)
		if once != twice {
			t.Errorf("Clamp not idempotent for %+v: %+v then %+v", in, once, twice)
		}
		if once.Scale < MinScale || once.Scale > MaxScale {
			t.Errorf("Clamp(%+v).Scale = %v out of range", in, once.Scale)
		}
	}
}

func TestMergePatchesOnlyNamedFields(t *testing.T) {
	base := Transform{X: 100, Y: 200, Scale: 1, ScaleX: 1, ScaleY: 1, Rotation: 30, Opacity: 90}
	x := 150.0
	rot := 45.0
	got := Merge(base, Patch{X: &x, Rotation: &rot})

	want := base
	want.X = 150
	want.Rotation = 45
	if got != want {
		t.Errorf("Merge\n got %+v\nwant %+v", got, want)
	}
}

func TestMergeClampsResult(t *testing.T) {
	base := DefaultTransform()
	s := 50.0
	got := Merge(base, Patch{Scale: &s})
	if got.Scale != MaxScale {
		t.Errorf("Merge scale = %v, want clamped to %v", got.Scale, MaxScale)
	}
}

func TestSnapRotation(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{91, 90},
		{93, 93},
		{358, 0},
		{2, 0},
		{2.5, 2.5},
		{89, 90},
		{179, 180},
		{268.5, 270},
		{360, 0},
		{45, 45},
		{-1, 0}, // normalizes to 359, inside the 360 window
	}
	for _, tt := range tests {
		if got := SnapRotation(tt.in); got != tt.want {
			t.Errorf("SnapRotation(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeAngle(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{0, 0},
		{360, 0},
		{-90, 270},
		{450, 90},
		{math.NaN(), 0},
		{math.Inf(1), 0},
	}
	for _, tt := range tests {
		if got := NormalizeAngle(tt.in); got != tt.want {
			t.Errorf("NormalizeAngle(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseBlendMode(t *testing.T) {
	for _, name := range BlendModeNames() {
		mode, ok := ParseBlendMode(name)
		if !ok {
			t.Fatalf("ParseBlendMode(%q) not recognized", name)
		}
		if mode.String() != name {
			t.Errorf("round trip of %q gave %q", name, mode.String())
		}
	}
	if _, ok := ParseBlendMode("plasma"); ok {
		t.Error("unknown name should not parse")
	}
}
