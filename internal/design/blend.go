package design

// BlendMode names the compositing operator used when a design layer is
// painted over the base image. The state engine carries it around as an
// opaque tag; only the renderer's pixel loop gives it meaning.
type BlendMode int

const (
	BlendNormal BlendMode = iota
	BlendMultiply
	BlendScreen
	BlendOverlay
	BlendDarken
	BlendLighten
	BlendColorDodge
	BlendColorBurn
	BlendHardLight
	BlendSoftLight
)

var blendNames = [...]string{
	BlendNormal:     "normal",
	BlendMultiply:   "multiply",
	BlendScreen:     "screen",
	BlendOverlay:    "overlay",
	BlendDarken:     "darken",
	BlendLighten:    "lighten",
	BlendColorDodge: "color-dodge",
	BlendColorBurn:  "color-burn",
	BlendHardLight:  "hard-light",
	BlendSoftLight:  "soft-light",
}

// String returns the mode's name.
func (m BlendMode) String() string {
	if m < 0 || int(m) >= len(blendNames) {
		return "unknown"
	}
	return blendNames[m]
}

// ParseBlendMode maps a mode name back to its tag. Unrecognized names report
// false; callers fall back to BlendNormal.
func ParseBlendMode(name string) (BlendMode, bool) {
	for i, n := range blendNames {
		if n == name {
			return BlendMode(i), true
		}
	}
	return BlendNormal, false
}

// BlendModeNames lists every mode name in painting-model order, for UI
// selectors and project files.
func BlendModeNames() []string {
	names := make([]string, len(blendNames))
	copy(names, blendNames[:])
	return names
}
