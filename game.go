package main

import (
	"context"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"pokequiz/internal/entity"
	"pokequiz/internal/gamemode"
)

// Game adapts the controller to ebiten: it turns key presses into events and
// draws from the controller's snapshot.
type Game struct {
	ctx    context.Context
	ctrl   *gamemode.Controller
	view   gamemode.View
	sprite *entity.Sprite
	scroll entity.ScrollView

	roundID string
	text    *ebiten.Image // scratch layer for tinted debug text
}

func NewGame(ctx context.Context, ctrl *gamemode.Controller) *Game {
	g := &Game{
		ctx:    ctx,
		ctrl:   ctrl,
		sprite: entity.NewSprite(ScreenWidth/2, spriteCenterY),
	}
	g.view = ctrl.Snapshot()
	return g
}

// keyBindings maps each key to the event it sends. Scrolling is handled
// separately since it never reaches the controller.
var keyBindings = []struct {
	key   ebiten.Key
	event gamemode.Event
}{
	{ebiten.KeyEnter, gamemode.EventStart},
	{ebiten.KeyNumpadEnter, gamemode.EventStart},
	{ebiten.KeySpace, gamemode.EventAdvance},
	{ebiten.KeyBackspace, gamemode.EventSkip},
	{ebiten.KeyH, gamemode.EventToggleHardMode},
	{ebiten.KeyEscape, gamemode.EventQuit},
}

// keyEvents lists the events for the keys pressed this frame, in binding order.
func keyEvents(justPressed func(ebiten.Key) bool) []gamemode.Event {
	var events []gamemode.Event
	for _, b := range keyBindings {
		if justPressed(b.key) {
			events = append(events, b.event)
		}
	}
	return events
}

// scrollDelta converts arrow keys and the wheel into a scroll direction:
// negative is towards the top.
func scrollDelta(up, down bool, wheelY float64) int {
	switch {
	case up || wheelY > 0:
		return -1
	case down || wheelY < 0:
		return 1
	default:
		return 0
	}
}

// Update: Logic (60 TPS)
func (g *Game) Update() error {
	// 1. Timer
	g.ctrl.Update(g.ctx)

	// 2. Input
	events := keyEvents(inpututil.IsKeyJustPressed)
	if ebiten.IsWindowBeingClosed() {
		events = append(events, gamemode.EventQuit)
	}
	for _, ev := range events {
		if g.ctrl.Handle(g.ctx, ev) {
			return ebiten.Termination
		}
	}

	g.view = g.ctrl.Snapshot()

	// 3. New round resets the animation and the results list
	if g.view.RoundID != g.roundID {
		g.roundID = g.view.RoundID
		g.sprite.Reset()
		g.scroll.Reset()
	}

	// 4. Phase-specific state
	switch g.view.Phase {
	case gamemode.PhasePlaying:
		g.sprite.SetHardMode(g.view.HardMode)
		if g.view.Current != nil {
			g.sprite.SetImage(g.view.Current.Image)
		}
		g.sprite.Update()

	case gamemode.PhaseEnded:
		g.scroll.Resize(len(g.view.Results)*lineHeight, resultsHeight)
		_, wheelY := ebiten.Wheel()
		up := inpututil.IsKeyJustPressed(ebiten.KeyUp)
		down := inpututil.IsKeyJustPressed(ebiten.KeyDown)
		switch scrollDelta(up, down, wheelY) {
		case -1:
			g.scroll.Up()
		case 1:
			g.scroll.Down()
		}
	}

	return nil
}

// Layout: always render at the logical size and let ebiten scale it
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return ScreenWidth, ScreenHeight
}
