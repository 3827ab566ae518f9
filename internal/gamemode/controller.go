package gamemode

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"time"

	"pokequiz/internal/assets"
	"pokequiz/internal/highscore"
)

// Event is an input the controller understands.
type Event int

const (
	EventTick Event = iota
	EventStart
	EventAdvance
	EventSkip
	EventToggleHardMode
	EventQuit
)

func (ev Event) String() string {
	switch ev {
	case EventTick:
		return "tick"
	case EventStart:
		return "start"
	case EventAdvance:
		return "advance"
	case EventSkip:
		return "skip"
	case EventToggleHardMode:
		return "toggle_hard_mode"
	case EventQuit:
		return "quit"
	default:
		return "unknown"
	}
}

// ControllerConfig wires a Controller.
type ControllerConfig struct {
	Catalog  *assets.Catalog
	Store    highscore.Store
	Clock    Clock
	Rand     *rand.Rand
	Duration time.Duration
	HardMode bool
	Logger   *slog.Logger
	Observer Observer
}

// Controller turns input events into engine transitions and assembles the view
// the presentation layer draws from. All calls happen on one goroutine.
type Controller struct {
	engine  *Engine
	catalog *assets.Catalog
	clock   Clock
	logger  *slog.Logger
}

// NewController loads the ledger from the store and returns a controller on the start screen.
func NewController(ctx context.Context, cfg ControllerConfig) *Controller {
	if cfg.Catalog == nil {
		cfg.Catalog = assets.NewCatalog(nil, nil)
	}
	if cfg.Clock == nil {
		cfg.Clock = SystemClock{}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	ledger := highscore.Empty()
	if cfg.Store != nil {
		ledger = cfg.Store.Load(ctx)
	}

	engine := NewEngine(EngineConfig{
		Pool:     cfg.Catalog.Entries(),
		Sampler:  NewSampler(cfg.Rand),
		Store:    cfg.Store,
		Ledger:   ledger,
		Duration: cfg.Duration,
		HardMode: cfg.HardMode,
		Logger:   cfg.Logger,
		Observer: cfg.Observer,
	})

	return &Controller{
		engine:  engine,
		catalog: cfg.Catalog,
		clock:   cfg.Clock,
		logger:  cfg.Logger,
	}
}

// Handle dispatches one event. It returns true when the game should quit.
// Events that mean nothing in the current phase are ignored.
func (c *Controller) Handle(ctx context.Context, ev Event) bool {
	switch ev {
	case EventTick:
		c.engine.Tick(ctx, c.clock.Now())

	case EventStart:
		if err := c.engine.StartRound(c.clock.Now()); err != nil {
			if errors.Is(err, ErrEmptyPool) {
				c.logger.Warn("cannot start a round without any pokemon images")
			} else {
				c.logger.Error("start round", slog.Any("error", err))
			}
		}

	case EventAdvance:
		c.engine.Advance()

	case EventSkip:
		c.engine.Skip()

	case EventToggleHardMode:
		if c.engine.Phase() != PhasePlaying {
			c.engine.SetHardMode(!c.engine.HardMode())
		}

	case EventQuit:
		return true
	}
	return false
}

// Update advances the timer; call it once per frame.
func (c *Controller) Update(ctx context.Context) {
	c.Handle(ctx, EventTick)
}

// Close saves the ledger on shutdown.
func (c *Controller) Close(ctx context.Context) error {
	c.logger.Info("game closing, saving high scores")
	return c.engine.Persist(ctx)
}

// Phase returns the current phase.
func (c *Controller) Phase() Phase { return c.engine.Phase() }

// Result is one row of the end screen list.
type Result struct {
	ID      string
	Name    string
	Skipped bool
}

// View is a read-only copy of everything the screens draw. It shares no
// mutable state with the controller.
type View struct {
	Phase         Phase
	RoundID       string
	Current       *assets.Entry
	TimeRemaining int
	Score         int
	FinalScore    int
	NewHighScore  bool
	HardMode      bool
	Seen          []string
	Skipped       []string
	Results       []Result
	Ledger        highscore.Ledger
	PoolSize      int
}

// Snapshot assembles the current View.
func (c *Controller) Snapshot() View {
	v := View{
		Phase:         c.engine.Phase(),
		TimeRemaining: int(c.engine.Duration() / time.Second),
		HardMode:      c.engine.HardMode(),
		Ledger:        c.engine.Ledger(),
		PoolSize:      c.catalog.Len(),
		FinalScore:    c.engine.FinalScore(),
		NewHighScore:  c.engine.NewHighScore(),
		Seen:          []string{},
		Skipped:       []string{},
	}

	r := c.engine.Round()
	if r == nil {
		return v
	}

	v.RoundID = r.ID
	v.Current = r.Current
	v.TimeRemaining = r.TimeRemaining
	v.Score = r.Score
	v.Seen = r.Seen()
	v.Skipped = r.Skipped()
	if v.Phase == PhasePlaying {
		v.HardMode = r.HardMode
	}

	v.Results = make([]Result, 0, len(v.Seen))
	for _, id := range v.Seen {
		v.Results = append(v.Results, Result{
			ID:      id,
			Name:    c.catalog.Name(id),
			Skipped: r.IsSkipped(id),
		})
	}
	return v
}
