// Package highscore keeps the persistent top score and recent score history.
package highscore

import "time"

const (
	// MaxRecentScores caps the recent score history; older entries drop off the front.
	MaxRecentScores = 10

	// DateLayout is the timestamp format written next to each recorded score.
	DateLayout = "2006-01-02 15:04:05"
)

// Score is a single finalized round.
type Score struct {
	Score int    `json:"score"`
	Date  string `json:"date"`
}

// Ledger is the persisted record of the best score and the most recent rounds,
// most recent last. A nil RecentScores means no history and is equal to an
// empty one; stores always hand back a non-nil slice so it encodes as [].
type Ledger struct {
	TopScore     int     `json:"top_score"`
	RecentScores []Score `json:"recent_scores"`
}

// Empty returns the ledger used when nothing has been recorded yet.
func Empty() Ledger {
	return Ledger{TopScore: 0, RecentScores: []Score{}}
}

// Clone returns a ledger that shares no memory with l.
func (l Ledger) Clone() Ledger {
	recent := make([]Score, len(l.RecentScores))
	copy(recent, l.RecentScores)
	return Ledger{TopScore: l.TopScore, RecentScores: recent}
}

// RecordScore returns the ledger that follows l once score has been finalized at time at.
// l is left untouched.
func RecordScore(l Ledger, score int, at time.Time) Ledger {
	next := l.Clone()
	if score > next.TopScore {
		next.TopScore = score
	}
	next.RecentScores = append(next.RecentScores, Score{Score: score, Date: at.Format(DateLayout)})
	if n := len(next.RecentScores); n > MaxRecentScores {
		next.RecentScores = append([]Score(nil), next.RecentScores[n-MaxRecentScores:]...)
	}
	return next
}

// normalize repairs values a hand-edited or truncated file may carry.
func (l Ledger) normalize() Ledger {
	if l.TopScore < 0 {
		l.TopScore = 0
	}
	if l.RecentScores == nil {
		l.RecentScores = []Score{}
	}
	if n := len(l.RecentScores); n > MaxRecentScores {
		l.RecentScores = append([]Score(nil), l.RecentScores[n-MaxRecentScores:]...)
	}
	return l
}
