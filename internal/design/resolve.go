package design

// EffectiveTransform resolves the placement the given mockup renders this
// layer with. Precedence, highest first: a stored per-mockup transform
// override; the global transform when edit mode is open for this mockup (a
// leftover position offset must not leak into an explicit editing session);
// the global transform carrying a stored position offset's coordinates; the
// global transform as is.
func (l *Layer) EffectiveTransform(index int, edit EditContext) Transform {
	if t, ok := l.TransformOverrides.Get(index); ok {
		return t
	}
	if edit.IsFor(index) {
		return l.Transform
	}
	if off, ok := l.PositionOffsets.Get(index); ok {
		t := l.Transform
		t.X = off.X
		t.Y = off.Y
		return t
	}
	return l.Transform
}

// EffectiveBlend resolves the blend mode the given mockup renders this layer
// with: the per-mockup override when present, the global mode otherwise.
func (l *Layer) EffectiveBlend(index int) BlendMode {
	if b, ok := l.BlendOverrides.Get(index); ok {
		return b
	}
	return l.Blend
}
