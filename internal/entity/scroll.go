package entity

// ScrollStep is how far one key press or wheel notch moves the list.
const ScrollStep = 30

// ScrollView tracks the offset of a vertically scrolling list. The offset is
// always clamped to [0, max(0, content-viewport)].
type ScrollView struct {
	offset   int
	content  int
	viewport int
}

// Resize sets the content and viewport heights and re-clamps the offset.
func (v *ScrollView) Resize(content, viewport int) {
	v.content = max(0, content)
	v.viewport = max(0, viewport)
	v.offset = v.clamp(v.offset)
}

// MaxOffset is the furthest the list can scroll.
func (v *ScrollView) MaxOffset() int {
	return max(0, v.content-v.viewport)
}

// Offset is the current scroll position.
func (v *ScrollView) Offset() int { return v.offset }

// ScrollBy moves the offset by delta, clamped.
func (v *ScrollView) ScrollBy(delta int) {
	v.offset = v.clamp(v.offset + delta)
}

// Up scrolls one step towards the top.
func (v *ScrollView) Up() { v.ScrollBy(-ScrollStep) }

// Down scrolls one step towards the bottom.
func (v *ScrollView) Down() { v.ScrollBy(ScrollStep) }

// Reset returns to the top.
func (v *ScrollView) Reset() { v.offset = 0 }

// Fraction is the scroll position in [0, 1], for the indicator.
func (v *ScrollView) Fraction() float64 {
	if v.MaxOffset() == 0 {
		return 0
	}
	return float64(v.offset) / float64(v.MaxOffset())
}

func (v *ScrollView) clamp(offset int) int {
	return min(max(0, offset), v.MaxOffset())
}
