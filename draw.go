package main

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"pokequiz/internal/gamemode"
)

// --- Layout ---
const (
	glyphWidth = 6 // debug font cell
	lineHeight = 16

	spriteCenterY = ScreenHeight/2 + 10
	spriteMaxW    = ScreenWidth * 0.7
	spriteMaxH    = ScreenHeight * 0.6

	resultsTop    = 120
	resultsHeight = ScreenHeight - resultsTop - 50
	resultsLeft   = 60
	resultsWidth  = ScreenWidth - 2*resultsLeft

	recentShown      = 5
	timerWarnSeconds = 10
)

// --- Colors ---
var (
	ColBg        = color.RGBA{0xff, 0xdc, 0xe6, 0xff} // light pink
	ColPanel     = color.RGBA{0xff, 0x96, 0xb4, 0xff} // dark pink
	ColText      = color.RGBA{0x10, 0x10, 0x10, 0xff}
	ColWarn      = color.RGBA{0xff, 0x32, 0x32, 0xff}
	ColGold      = color.RGBA{0xc8, 0x96, 0x00, 0xff}
	ColGood      = color.RGBA{0x32, 0xa0, 0x32, 0xff}
	ColScrollBar = color.RGBA{0x64, 0x64, 0x64, 0xff}
)

// Draw: Rendering (VSync)
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(ColBg)

	switch g.view.Phase {
	case gamemode.PhaseStart:
		g.drawStart(screen)
	case gamemode.PhasePlaying:
		g.drawPlaying(screen)
	case gamemode.PhaseEnded:
		g.drawEnded(screen)
	}
}

func (g *Game) drawStart(screen *ebiten.Image) {
	v := g.view

	g.printCentered(screen, "POKEMON WHO?", 60, ColText, 255)
	g.printCentered(screen, "Name the pokemon before the minute is up", 84, ColText, 255)

	if v.PoolSize == 0 {
		g.printCentered(screen, "No pokemon images found", 130, ColWarn, 255)
	} else {
		g.printCentered(screen, fmt.Sprintf("%d pokemon loaded", v.PoolSize), 130, ColText, 255)
		g.printCentered(screen, "Press ENTER to start", 160, ColGood, 255)
	}

	g.drawHardModeToggle(screen, 190)
	g.drawLedger(screen, 240)
}

func (g *Game) drawPlaying(screen *ebiten.Image) {
	v := g.view

	// 1. Timer and score
	timerColor := ColText
	if v.TimeRemaining <= timerWarnSeconds {
		timerColor = ColWarn
	}
	g.print(screen, fmt.Sprintf("TIME: %d", v.TimeRemaining), 12, 10, timerColor, 255)
	score := fmt.Sprintf("SCORE: %d", v.Score)
	g.print(screen, score, ScreenWidth-12-len(score)*glyphWidth, 10, ColText, 255)
	if v.HardMode {
		g.printCentered(screen, "HARD MODE", 10, ColWarn, 255)
	}

	// 2. Pokemon
	g.sprite.Draw(screen, spriteMaxW, spriteMaxH)

	// 3. Hint (fades in hard mode)
	g.printCentered(screen, "SPACE next pokemon | BACKSPACE skip", ScreenHeight-30, ColText, g.sprite.HintAlpha())
}

func (g *Game) drawEnded(screen *ebiten.Image) {
	v := g.view

	// 1. Header
	g.printCentered(screen, "TIME'S UP!", 24, ColWarn, 255)
	g.printCentered(screen, fmt.Sprintf("Final score: %d", v.FinalScore), 50, ColText, 255)
	if v.NewHighScore {
		g.printCentered(screen, "NEW HIGH SCORE!", 70, ColGold, 255)
	} else {
		g.printCentered(screen, fmt.Sprintf("High score: %d", v.Ledger.TopScore), 70, ColText, 255)
	}

	// 2. Results list
	g.print(screen, "Pokemon you saw:", resultsLeft, resultsTop-lineHeight-4, ColText, 255)
	vector.DrawFilledRect(screen, resultsLeft-4, resultsTop, resultsWidth+8, resultsHeight, ColPanel, false)

	offset := g.scroll.Offset()
	for i, r := range v.Results {
		y := resultsTop + i*lineHeight - offset
		if y < resultsTop || y+lineHeight > resultsTop+resultsHeight {
			continue
		}
		line := fmt.Sprintf("#%s %s", r.ID, r.Name)
		clr := ColText
		if r.Skipped {
			line += " (skipped)"
			clr = ColWarn
		}
		g.print(screen, line, resultsLeft, y, clr, 255)
	}

	// 3. Scroll indicator
	if g.scroll.MaxOffset() > 0 {
		const barH = 20
		x := float32(resultsLeft + resultsWidth - 2)
		y := float32(resultsTop) + float32(g.scroll.Fraction())*float32(resultsHeight-barH)
		vector.DrawFilledRect(screen, x, y, 4, barH, ColScrollBar, false)
	}

	// 4. Footer
	g.drawHardModeToggle(screen, ScreenHeight-44)
	g.printCentered(screen, "ENTER play again | UP/DOWN scroll | ESC quit", ScreenHeight-22, ColText, 255)
}

func (g *Game) drawHardModeToggle(screen *ebiten.Image, y int) {
	box := "[ ]"
	clr := ColText
	if g.view.HardMode {
		box = "[x]"
		clr = ColWarn
	}
	g.printCentered(screen, box+" Hard mode (H)", y, clr, 255)
}

func (g *Game) drawLedger(screen *ebiten.Image, y int) {
	l := g.view.Ledger
	g.printCentered(screen, fmt.Sprintf("High score: %d", l.TopScore), y, ColText, 255)

	recent := l.RecentScores
	if len(recent) > recentShown {
		recent = recent[len(recent)-recentShown:]
	}
	for i := len(recent) - 1; i >= 0; i-- {
		y += lineHeight
		g.printCentered(screen, fmt.Sprintf("%3d  %s", recent[i].Score, recent[i].Date), y, ColText, 200)
	}
}

// --- Text ---

func (g *Game) printCentered(screen *ebiten.Image, msg string, y int, clr color.Color, alpha int) {
	g.print(screen, msg, (ScreenWidth-len(msg)*glyphWidth)/2, y, clr, alpha)
}

// print draws debug text tinted with clr. The debug font is white, so it is
// rendered to a scratch layer and multiplied by the color.
func (g *Game) print(screen *ebiten.Image, msg string, x, y int, clr color.Color, alpha int) {
	if g.text == nil {
		g.text = ebiten.NewImage(ScreenWidth, lineHeight)
	}
	g.text.Clear()
	ebitenutil.DebugPrintAt(g.text, msg, 0, 0)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(x), float64(y))
	op.ColorScale.ScaleWithColor(clr)
	op.ColorScale.ScaleAlpha(float32(alpha) / 255)
	screen.DrawImage(g.text, op)
}
