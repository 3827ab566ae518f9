package gamemode

import (
	"time"

	"github.com/google/uuid"

	"pokequiz/internal/assets"
)

// Phase is the screen the game is on.
type Phase int

const (
	PhaseStart   Phase = iota // Waiting for the first round
	PhasePlaying              // Timer ticking
	PhaseEnded                // Results of the last round
)

func (p Phase) String() string {
	switch p {
	case PhaseStart:
		return "start"
	case PhasePlaying:
		return "playing"
	case PhaseEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// Round is the mutable state of one timed round. Only Engine changes it.
type Round struct {
	ID                   string
	Current              *assets.Entry
	Score                int
	TimeRemaining        int
	FirstInteractionDone bool
	HardMode             bool
	StartedAt            time.Time

	seen       []string
	seenSet    map[string]bool
	skipped    []string
	skippedSet map[string]bool

	// excluded mirrors seen for sampling until the pool runs dry, then starts over.
	excluded map[string]bool
}

func newRound(now time.Time, seconds int, hardMode bool) *Round {
	return &Round{
		ID:            uuid.NewString(),
		TimeRemaining: seconds,
		HardMode:      hardMode,
		StartedAt:     now,
		seenSet:       make(map[string]bool),
		skippedSet:    make(map[string]bool),
		excluded:      make(map[string]bool),
	}
}

func (r *Round) markSeen(id string) {
	if r.seenSet[id] {
		return
	}
	r.seenSet[id] = true
	r.seen = append(r.seen, id)
}

func (r *Round) markSkipped(id string) {
	r.markSeen(id)
	if r.skippedSet[id] {
		return
	}
	r.skippedSet[id] = true
	r.skipped = append(r.skipped, id)
}

// IsSkipped reports whether id was skipped (or left unresolved) this round.
func (r *Round) IsSkipped(id string) bool {
	return r.skippedSet[id]
}

// Seen returns the identifiers shown this round in display order.
func (r *Round) Seen() []string {
	return append([]string(nil), r.seen...)
}

// Skipped returns the skipped identifiers in the order they were skipped.
func (r *Round) Skipped() []string {
	return append([]string(nil), r.skipped...)
}
