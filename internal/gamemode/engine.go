package gamemode

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"pokequiz/internal/assets"
	"pokequiz/internal/highscore"
)

// DefaultRoundDuration is the length of a round.
const DefaultRoundDuration = 60 * time.Second

// Observer is notified of round lifecycle events. Metrics hook in here.
type Observer interface {
	RoundStarted()
	Advanced(scored bool)
	Skipped()
	RoundEnded(score int, newHighScore bool)
	SaveFailed()
}

type nopObserver struct{}

func (nopObserver) RoundStarted()        {}
func (nopObserver) Advanced(bool)        {}
func (nopObserver) Skipped()             {}
func (nopObserver) RoundEnded(int, bool) {}
func (nopObserver) SaveFailed()          {}

// EngineConfig wires an Engine.
type EngineConfig struct {
	Pool     []assets.Entry
	Sampler  *Sampler
	Store    highscore.Store
	Ledger   highscore.Ledger
	Duration time.Duration
	HardMode bool
	Logger   *slog.Logger
	Observer Observer
}

// Engine is the start -> playing -> ended state machine. It owns scoring,
// the round timer and the seen/skipped bookkeeping.
type Engine struct {
	pool     []assets.Entry
	sampler  *Sampler
	store    highscore.Store
	logger   *slog.Logger
	observer Observer
	duration time.Duration

	phase        Phase
	round        *Round
	ledger       highscore.Ledger
	hardMode     bool
	finalScore   int
	newHighScore bool
}

// NewEngine returns an engine in PhaseStart.
func NewEngine(cfg EngineConfig) *Engine {
	e := &Engine{
		pool:     cfg.Pool,
		sampler:  cfg.Sampler,
		store:    cfg.Store,
		logger:   cfg.Logger,
		observer: cfg.Observer,
		duration: cfg.Duration,
		phase:    PhaseStart,
		ledger:   cfg.Ledger.Clone(),
		hardMode: cfg.HardMode,
	}
	if e.sampler == nil {
		e.sampler = NewSampler(nil)
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	if e.observer == nil {
		e.observer = nopObserver{}
	}
	if e.duration <= 0 {
		e.duration = DefaultRoundDuration
	}
	return e
}

// StartRound enters PhasePlaying from PhaseStart or PhaseEnded with a fresh round.
// It is ignored while a round is running. With an empty pool it returns
// ErrEmptyPool and the phase is unchanged.
func (e *Engine) StartRound(now time.Time) error {
	if e.phase == PhasePlaying {
		return nil
	}

	r := newRound(now, e.durationSeconds(), e.hardMode)
	if err := e.drawInto(r); err != nil {
		return err
	}

	e.round = r
	e.phase = PhasePlaying
	e.finalScore = 0
	e.newHighScore = false

	e.observer.RoundStarted()
	e.logger.Info("round started",
		slog.String("round_id", r.ID),
		slog.String("first", r.Current.ID),
		slog.Bool("hard_mode", r.HardMode),
	)
	return nil
}

// Tick re-evaluates the timer against now and ends the round when it hits zero.
func (e *Engine) Tick(ctx context.Context, now time.Time) {
	if e.phase != PhasePlaying {
		return
	}

	r := e.round
	remaining := e.durationSeconds() - int(now.Sub(r.StartedAt)/time.Second)
	if remaining < 0 {
		remaining = 0
	}
	// Never count back up, even if the clock does.
	if remaining < r.TimeRemaining {
		r.TimeRemaining = remaining
	}

	if r.TimeRemaining <= 0 {
		e.EndRound(ctx, now)
	}
}

// Advance scores the entry on screen and shows the next one.
//
// The very first interaction of a round always scores. After that an entry
// scores only if it has not been skipped earlier in the round.
func (e *Engine) Advance() {
	if e.phase != PhasePlaying {
		return
	}

	r := e.round
	scored := false
	if r.Current != nil {
		if !r.FirstInteractionDone {
			r.FirstInteractionDone = true
			scored = true
		} else if !r.IsSkipped(r.Current.ID) {
			scored = true
		}
	}
	if scored {
		r.Score++
	}

	e.next(r)
	e.observer.Advanced(scored)
}

// Skip marks the entry on screen as skipped and shows the next one. It never scores.
func (e *Engine) Skip() {
	if e.phase != PhasePlaying {
		return
	}

	r := e.round
	r.FirstInteractionDone = true
	if r.Current != nil {
		r.markSkipped(r.Current.ID)
	}

	e.next(r)
	e.observer.Skipped()
}

// EndRound finalizes the running round: the entry still on screen counts as
// skipped, the score is recorded in the ledger and the ledger is saved.
// A failed save is logged; the in-memory ledger is kept regardless.
func (e *Engine) EndRound(ctx context.Context, now time.Time) {
	if e.phase != PhasePlaying {
		return
	}

	r := e.round
	if r.Current != nil {
		r.markSkipped(r.Current.ID)
	}

	e.finalScore = r.Score
	e.newHighScore = e.finalScore > e.ledger.TopScore
	e.ledger = highscore.RecordScore(e.ledger, e.finalScore, now)
	e.phase = PhaseEnded

	e.logger.Info("round ended",
		slog.String("round_id", r.ID),
		slog.Int("score", e.finalScore),
		slog.Int("seen", len(r.seen)),
		slog.Int("skipped", len(r.skipped)),
		slog.Bool("new_high_score", e.newHighScore),
	)

	if err := e.Persist(ctx); err != nil {
		e.observer.SaveFailed()
	}
	e.observer.RoundEnded(e.finalScore, e.newHighScore)
}

// Persist saves the current ledger. Failures are logged and returned.
func (e *Engine) Persist(ctx context.Context) error {
	if e.store == nil {
		return nil
	}
	if err := e.store.Save(ctx, e.ledger); err != nil {
		e.logger.Error("save high scores", slog.Any("error", err))
		return err
	}
	return nil
}

// SetHardMode changes the flag used by the next round. It has no effect on a
// round in progress and never affects scoring or timing.
func (e *Engine) SetHardMode(on bool) {
	e.hardMode = on
}

// HardMode reports the flag the next round will start with.
func (e *Engine) HardMode() bool { return e.hardMode }

// Phase returns the current phase.
func (e *Engine) Phase() Phase { return e.phase }

// Round returns the running round, or the last finished one. Nil before the first round.
func (e *Engine) Round() *Round { return e.round }

// Ledger returns a copy of the high score ledger.
func (e *Engine) Ledger() highscore.Ledger { return e.ledger.Clone() }

// FinalScore is the recorded score of the last finished round.
func (e *Engine) FinalScore() int { return e.finalScore }

// NewHighScore reports whether the last finished round beat the previous top score.
func (e *Engine) NewHighScore() bool { return e.newHighScore }

// Duration is the configured round length.
func (e *Engine) Duration() time.Duration { return e.duration }

func (e *Engine) durationSeconds() int {
	return int(e.duration / time.Second)
}

// next draws the following entry; the pool is known to be non-empty mid-round.
func (e *Engine) next(r *Round) {
	if err := e.drawInto(r); err != nil {
		e.logger.Error("draw next pokemon", slog.String("round_id", r.ID), slog.Any("error", err))
	}
}

// drawInto puts a new entry on screen, recycling the exclusion set once the
// whole pool has been shown. Recycling only affects sampling, never the seen list.
func (e *Engine) drawInto(r *Round) error {
	entry, err := e.sampler.Draw(e.pool, r.excluded)
	if errors.Is(err, ErrPoolExhausted) {
		e.logger.Debug("pool exhausted, recycling", slog.String("round_id", r.ID), slog.Int("pool", len(e.pool)))
		clear(r.excluded)
		entry, err = e.sampler.Draw(e.pool, r.excluded)
	}
	if err != nil {
		return err
	}

	r.Current = entry
	r.excluded[entry.ID] = true
	r.markSeen(entry.ID)
	return nil
}
