package entity

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"
)

// Pulse and fade ranges for hard mode.
const (
	MinScale  = 0.9
	MaxScale  = 1.0
	ScaleStep = 0.005

	MinAlpha  = 150
	MaxAlpha  = 255
	AlphaStep = 5

	// StaticHintAlpha is the hint opacity when hard mode is off.
	StaticHintAlpha = 200
)

// Sprite is the Pokemon on screen. In hard mode it pulses between MinScale and
// MaxScale and the hint text fades; otherwise it is drawn at full size.
type Sprite struct {
	X, Y float64 // center

	scale    float64
	growing  bool
	alpha    int
	fadingIn bool
	hardMode bool

	source  image.Image
	texture *ebiten.Image
}

// NewSprite returns a sprite centered at (x, y).
func NewSprite(x, y float64) *Sprite {
	s := &Sprite{X: x, Y: y}
	s.Reset()
	return s
}

// Reset restarts the animation, as at the start of a round.
func (s *Sprite) Reset() {
	s.scale = MaxScale
	s.growing = false
	s.alpha = MinAlpha
	s.fadingIn = true
}

// SetHardMode turns the pulse on or off.
func (s *Sprite) SetHardMode(on bool) { s.hardMode = on }

// SetImage swaps the displayed image; the GPU texture is rebuilt lazily on Draw.
func (s *Sprite) SetImage(img image.Image) {
	if img == s.source {
		return
	}
	s.source = img
	s.texture = nil
}

// Scale is the current draw scale.
func (s *Sprite) Scale() float64 {
	if !s.hardMode {
		return MaxScale
	}
	return s.scale
}

// HintAlpha is the current opacity of the hint text.
func (s *Sprite) HintAlpha() int {
	if !s.hardMode {
		return StaticHintAlpha
	}
	return s.alpha
}

// Update steps the animation by one frame.
func (s *Sprite) Update() {
	if !s.hardMode {
		return
	}

	// Fade: ramp up to MaxAlpha, then fall back to MinAlpha
	if s.fadingIn {
		s.alpha = min(MaxAlpha, s.alpha+AlphaStep)
		if s.alpha >= MaxAlpha {
			s.fadingIn = false
		}
	} else {
		s.alpha = max(MinAlpha, s.alpha-AlphaStep)
		if s.alpha <= MinAlpha {
			s.fadingIn = true
		}
	}

	// Pulse
	if s.growing {
		s.scale = min(MaxScale, s.scale+ScaleStep)
		if s.scale >= MaxScale {
			s.growing = false
		}
	} else {
		s.scale = max(MinScale, s.scale-ScaleStep)
		if s.scale <= MinScale {
			s.growing = true
		}
	}
}

// Draw renders the image centered on (X, Y), fitted into maxW x maxH.
func (s *Sprite) Draw(screen *ebiten.Image, maxW, maxH float64) {
	if s.source == nil {
		return
	}
	if s.texture == nil {
		s.texture = ebiten.NewImageFromImage(s.source)
	}

	b := s.source.Bounds()
	w, h := float64(b.Dx()), float64(b.Dy())
	scale := FitScale(w, h, maxW, maxH) * s.Scale()

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(-w/2, -h/2)
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(s.X, s.Y)
	op.Filter = ebiten.FilterLinear

	screen.DrawImage(s.texture, op)
}

// FitScale shrinks (never enlarges) a w x h image to fit inside maxW x maxH,
// keeping its aspect ratio.
func FitScale(w, h, maxW, maxH float64) float64 {
	if w <= 0 || h <= 0 {
		return 1
	}
	if w <= maxW && h <= maxH {
		return 1
	}
	return min(maxW/w, maxH/h)
}
