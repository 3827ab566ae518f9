package gamemode

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pokequiz/internal/highscore"
)

func TestEngine_StartRoundEmptyPool(t *testing.T) {
	e, obs := newTestEngine(nil, &memStore{}, 1)

	err := e.StartRound(t0)
	require.ErrorIs(t, err, ErrEmptyPool)
	assert.Equal(t, PhaseStart, e.Phase())
	assert.Nil(t, e.Round())
	assert.Equal(t, 0, obs.started)
}

func TestEngine_StartRound(t *testing.T) {
	e, obs := newTestEngine(testPool("001", "002", "003"), &memStore{}, 1)

	require.NoError(t, e.StartRound(t0))
	r := e.Round()
	require.NotNil(t, r)
	require.NotNil(t, r.Current)

	assert.Equal(t, PhasePlaying, e.Phase())
	assert.Equal(t, []string{r.Current.ID}, r.Seen())
	assert.Empty(t, r.Skipped())
	assert.Equal(t, 0, r.Score)
	assert.Equal(t, 60, r.TimeRemaining)
	assert.False(t, r.FirstInteractionDone)
	assert.NotEmpty(t, r.ID)
	assert.Equal(t, 1, obs.started)
}

// Pool {A,B,C}: advance scores the first entry, skip scores nothing, and the
// entry on screen at the end is marked skipped.
func TestEngine_ThreeEntryScenario(t *testing.T) {
	store := &memStore{ledger: highscore.Empty()}
	e, _ := newTestEngine(testPool("A", "B", "C"), store, 5)

	require.NoError(t, e.StartRound(t0))
	r := e.Round()
	a := r.Current.ID

	e.Advance()
	b := r.Current.ID
	assert.NotEqual(t, a, b)
	assert.Equal(t, []string{a, b}, r.Seen())
	assert.Equal(t, 1, r.Score)
	assert.True(t, r.FirstInteractionDone)

	e.Skip()
	c := r.Current.ID
	assert.NotContains(t, []string{a, b}, c)
	assert.Equal(t, []string{a, b, c}, r.Seen())
	assert.Equal(t, []string{b}, r.Skipped())
	assert.Equal(t, 1, r.Score)

	e.EndRound(context.Background(), t0.Add(30*time.Second))
	assert.Equal(t, PhaseEnded, e.Phase())
	assert.Equal(t, []string{b, c}, r.Skipped())
	assert.Equal(t, []string{a, b, c}, r.Seen())
	assert.Equal(t, 1, e.FinalScore())

	assert.Equal(t, 1, store.saves)
	want := highscore.Ledger{
		TopScore:     1,
		RecentScores: []highscore.Score{{Score: 1, Date: "2026-05-01 12:00:30"}},
	}
	if diff := cmp.Diff(want, store.ledger); diff != "" {
		t.Fatalf("persisted ledger mismatch (-want +got):\n%s", diff)
	}
}

func TestEngine_FirstInteractionSkip(t *testing.T) {
	e, _ := newTestEngine(testPool("001", "002", "003", "004"), &memStore{}, 2)
	require.NoError(t, e.StartRound(t0))
	r := e.Round()
	first := r.Current.ID

	e.Skip()
	assert.True(t, r.FirstInteractionDone)
	assert.Equal(t, 0, r.Score)
	assert.Equal(t, []string{first}, r.Skipped())

	e.Advance()
	assert.Equal(t, 1, r.Score, "non-skipped entry scores after the first interaction")
}

func TestEngine_FirstAdvanceScoresUnconditionally(t *testing.T) {
	// Pool of one: skipping recycles the same entry, so the second round shows
	// the skipped entry again and advancing it does not score.
	e, _ := newTestEngine(testPool("001"), &memStore{}, 2)

	require.NoError(t, e.StartRound(t0))
	r := e.Round()
	e.Advance()
	assert.Equal(t, 1, r.Score)
	e.Advance()
	assert.Equal(t, 2, r.Score)
	assert.Equal(t, []string{"001"}, r.Seen())

	e.EndRound(context.Background(), t0)
	require.NoError(t, e.StartRound(t0))
	r = e.Round()
	e.Skip()
	assert.Equal(t, "001", r.Current.ID)
	e.Advance()
	assert.Equal(t, 0, r.Score, "a skipped entry never scores after the first interaction")
	assert.Equal(t, []string{"001"}, r.Seen())
	assert.Equal(t, []string{"001"}, r.Skipped())
}

func TestEngine_TimerExpiryEndsRound(t *testing.T) {
	store := &memStore{ledger: highscore.Empty()}
	e, obs := newTestEngine(testPool("001", "002", "003"), store, 4)
	ctx := context.Background()

	require.NoError(t, e.StartRound(t0))
	r := e.Round()
	e.Advance()
	onScreen := r.Current.ID

	e.Tick(ctx, t0.Add(10*time.Second))
	assert.Equal(t, 50, r.TimeRemaining)

	e.Tick(ctx, t0.Add(59*time.Second+999*time.Millisecond))
	assert.Equal(t, 1, r.TimeRemaining)
	assert.Equal(t, PhasePlaying, e.Phase())

	e.Tick(ctx, t0.Add(60*time.Second))
	assert.Equal(t, 0, r.TimeRemaining)
	assert.Equal(t, PhaseEnded, e.Phase())
	assert.Contains(t, r.Skipped(), onScreen)
	assert.Equal(t, 1, e.FinalScore())
	assert.Equal(t, 1, store.saves)
	assert.Equal(t, 1, obs.ended)

	// Further ticks do nothing.
	e.Tick(ctx, t0.Add(90*time.Second))
	assert.Equal(t, 1, store.saves)
}

func TestEngine_TimerNeverCountsUp(t *testing.T) {
	e, _ := newTestEngine(testPool("001", "002"), &memStore{}, 4)
	ctx := context.Background()
	require.NoError(t, e.StartRound(t0))
	r := e.Round()

	e.Tick(ctx, t0.Add(20*time.Second))
	e.Tick(ctx, t0.Add(5*time.Second))
	e.Tick(ctx, t0.Add(-time.Hour))
	assert.Equal(t, 40, r.TimeRemaining)

	e.Tick(ctx, t0.Add(2*time.Hour))
	assert.Equal(t, 0, r.TimeRemaining)
	assert.Equal(t, PhaseEnded, e.Phase())
}

func TestEngine_IgnoresInputOutsidePlaying(t *testing.T) {
	store := &memStore{}
	e, obs := newTestEngine(testPool("001", "002"), store, 4)
	ctx := context.Background()

	e.Advance()
	e.Skip()
	e.Tick(ctx, t0.Add(time.Hour))
	e.EndRound(ctx, t0)
	assert.Equal(t, PhaseStart, e.Phase())
	assert.Nil(t, e.Round())
	assert.Equal(t, 0, store.saves)

	require.NoError(t, e.StartRound(t0))
	e.EndRound(ctx, t0)
	r := e.Round()
	snapshot := struct {
		score         int
		seen, skipped []string
	}{r.Score, r.Seen(), r.Skipped()}

	e.Advance()
	e.Skip()
	e.EndRound(ctx, t0)
	assert.Equal(t, snapshot.score, r.Score)
	assert.Equal(t, snapshot.seen, r.Seen())
	assert.Equal(t, snapshot.skipped, r.Skipped())
	assert.Equal(t, 1, store.saves)
	assert.Equal(t, 0, obs.advances)
	assert.Equal(t, 0, obs.skips)
}

func TestEngine_StartIgnoredWhilePlaying(t *testing.T) {
	e, obs := newTestEngine(testPool("001", "002", "003"), &memStore{}, 4)
	require.NoError(t, e.StartRound(t0))
	id := e.Round().ID
	e.Advance()

	require.NoError(t, e.StartRound(t0.Add(time.Second)))
	assert.Equal(t, id, e.Round().ID)
	assert.Equal(t, 1, e.Round().Score)
	assert.Equal(t, 1, obs.started)
}

func TestEngine_RestartFromEnded(t *testing.T) {
	e, _ := newTestEngine(testPool("001", "002", "003"), &memStore{}, 4)
	ctx := context.Background()

	require.NoError(t, e.StartRound(t0))
	e.Advance()
	e.Skip()
	e.EndRound(ctx, t0.Add(time.Second))
	prev := e.Round()

	later := t0.Add(5 * time.Minute)
	require.NoError(t, e.StartRound(later))
	r := e.Round()
	assert.NotSame(t, prev, r)
	assert.NotEqual(t, prev.ID, r.ID)
	assert.Equal(t, PhasePlaying, e.Phase())
	assert.Equal(t, 0, r.Score)
	assert.Len(t, r.Seen(), 1)
	assert.Empty(t, r.Skipped())
	assert.False(t, r.FirstInteractionDone)
	assert.Equal(t, 60, r.TimeRemaining)
	assert.Equal(t, later, r.StartedAt)
	assert.False(t, e.NewHighScore())
}

func TestEngine_NewHighScore(t *testing.T) {
	tests := []struct {
		name     string
		top      int
		advances int
		want     bool
	}{
		{name: "beats top", top: 2, advances: 3, want: true},
		{name: "ties top", top: 3, advances: 3, want: false},
		{name: "below top", top: 5, advances: 3, want: false},
		{name: "zero on empty ledger", top: 0, advances: 0, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &memStore{ledger: highscore.Ledger{TopScore: tt.top, RecentScores: []highscore.Score{}}}
			e, obs := newTestEngine(numberedPool(10), store, 8)

			require.NoError(t, e.StartRound(t0))
			for i := 0; i < tt.advances; i++ {
				e.Advance()
			}
			e.EndRound(context.Background(), t0)

			assert.Equal(t, tt.advances, e.FinalScore())
			assert.Equal(t, tt.want, e.NewHighScore())
			assert.Equal(t, tt.want, obs.lastNewHigh)
			assert.Equal(t, max(tt.top, tt.advances), e.Ledger().TopScore)
		})
	}
}

func TestEngine_SaveFailureIsSwallowed(t *testing.T) {
	store := &memStore{ledger: highscore.Empty(), err: errDiskFull}
	e, obs := newTestEngine(testPool("001", "002"), store, 4)

	require.NoError(t, e.StartRound(t0))
	e.Advance()
	e.EndRound(context.Background(), t0)

	assert.Equal(t, PhaseEnded, e.Phase())
	assert.Equal(t, 1, obs.saveFailures)
	assert.Equal(t, 1, e.Ledger().TopScore)
	assert.Len(t, e.Ledger().RecentScores, 1)

	// The next round keeps building on the in-memory ledger.
	require.NoError(t, e.StartRound(t0))
	e.Advance()
	e.Advance()
	e.EndRound(context.Background(), t0)
	assert.Len(t, e.Ledger().RecentScores, 2)
	assert.Equal(t, 2, e.Ledger().TopScore)
}

func TestEngine_RecyclesExhaustedPool(t *testing.T) {
	pool := numberedPool(4)
	e, _ := newTestEngine(pool, &memStore{}, 11)
	require.NoError(t, e.StartRound(t0))
	r := e.Round()

	shown := []string{r.Current.ID}
	for i := 0; i < 11; i++ {
		e.Advance()
		shown = append(shown, r.Current.ID)
	}

	// Each block of len(pool) draws is a permutation of the pool.
	for start := 0; start+len(pool) <= len(shown); start += len(pool) {
		block := map[string]bool{}
		for _, id := range shown[start : start+len(pool)] {
			block[id] = true
		}
		assert.Len(t, block, len(pool), "repeat inside block %v", shown[start:start+len(pool)])
	}

	assert.Len(t, r.Seen(), len(pool))
	assert.Equal(t, 11, r.Score)
}

func TestEngine_HardModeIsInert(t *testing.T) {
	play := func(hard bool) (int, []string, []string) {
		e, _ := newTestEngine(numberedPool(6), &memStore{}, 21)
		e.SetHardMode(hard)
		require.NoError(t, e.StartRound(t0))
		assert.Equal(t, hard, e.Round().HardMode)
		e.Advance()
		e.Skip()
		e.Advance()
		e.Tick(context.Background(), t0.Add(time.Minute))
		r := e.Round()
		return r.Score, r.Seen(), r.Skipped()
	}

	s1, seen1, skip1 := play(false)
	s2, seen2, skip2 := play(true)
	assert.Equal(t, s1, s2)
	assert.Equal(t, seen1, seen2)
	assert.Equal(t, skip1, skip2)
}

// Random play must keep skipped ⊆ seen, keep seen free of duplicates, and
// score exactly 1 for a leading advance plus 1 per later advance past a
// non-skipped entry.
func TestEngine_RandomPlayInvariants(t *testing.T) {
	for seed := int64(1); seed <= 40; seed++ {
		actions := rand.New(rand.NewSource(seed * 1000))
		poolSize := 1 + actions.Intn(8)
		e, _ := newTestEngine(numberedPool(poolSize), &memStore{}, seed)

		require.NoError(t, e.StartRound(t0))
		r := e.Round()

		want := 0
		first := true
		for step := 0; step < 60; step++ {
			if actions.Intn(3) == 0 {
				e.Skip()
			} else {
				wasSkipped := r.IsSkipped(r.Current.ID)
				if first || !wasSkipped {
					want++
				}
				e.Advance()
			}
			first = false
			checkRoundInvariants(t, r)
			require.True(t, r.FirstInteractionDone)
		}

		e.Tick(context.Background(), t0.Add(time.Minute))
		checkRoundInvariants(t, r)
		require.Equal(t, PhaseEnded, e.Phase())
		require.Equal(t, want, e.FinalScore(), "seed %d", seed)
		require.LessOrEqual(t, len(r.Seen()), poolSize)
	}
}

func checkRoundInvariants(t *testing.T, r *Round) {
	t.Helper()
	seen := r.Seen()
	set := make(map[string]bool, len(seen))
	for _, id := range seen {
		require.False(t, set[id], "duplicate %s in seen list %v", id, seen)
		set[id] = true
	}
	skipped := r.Skipped()
	require.LessOrEqual(t, len(skipped), len(seen))
	for _, id := range skipped {
		require.True(t, set[id], "skipped %s missing from seen list", id)
	}
}
