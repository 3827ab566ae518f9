package gamemode

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math/rand"
	"time"

	"pokequiz/internal/assets"
	"pokequiz/internal/highscore"
)

var t0 = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type memStore struct {
	ledger highscore.Ledger
	saves  int
	err    error
}

func (m *memStore) Load(context.Context) highscore.Ledger {
	return m.ledger.Clone()
}

func (m *memStore) Save(_ context.Context, l highscore.Ledger) error {
	m.saves++
	if m.err != nil {
		return m.err
	}
	m.ledger = l.Clone()
	return nil
}

var errDiskFull = errors.New("disk full")

type recordingObserver struct {
	started, advances, scoredAdvances, skips, ended, saveFailures int
	lastScore                                                     int
	lastNewHigh                                                   bool
}

func (o *recordingObserver) RoundStarted() { o.started++ }
func (o *recordingObserver) Advanced(scored bool) {
	o.advances++
	if scored {
		o.scoredAdvances++
	}
}
func (o *recordingObserver) Skipped() { o.skips++ }
func (o *recordingObserver) RoundEnded(score int, newHigh bool) {
	o.ended++
	o.lastScore = score
	o.lastNewHigh = newHigh
}
func (o *recordingObserver) SaveFailed() { o.saveFailures++ }

func newTestEngine(pool []assets.Entry, store highscore.Store, seed int64) (*Engine, *recordingObserver) {
	obs := &recordingObserver{}
	ledger := highscore.Empty()
	if store != nil {
		ledger = store.Load(context.Background())
	}
	e := NewEngine(EngineConfig{
		Pool:     pool,
		Sampler:  NewSampler(rand.New(rand.NewSource(seed))),
		Store:    store,
		Ledger:   ledger,
		Duration: DefaultRoundDuration,
		Logger:   discardLogger(),
		Observer: obs,
	})
	return e, obs
}

// manualClock is advanced by hand in controller tests.
type manualClock struct{ now time.Time }

func (c *manualClock) Now() time.Time          { return c.now }
func (c *manualClock) Advance(d time.Duration) { c.now = c.now.Add(d) }
