// Package metrics exposes round statistics as Prometheus collectors.
package metrics

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "pokequiz"

// Metrics implements gamemode.Observer on top of a private registry.
type Metrics struct {
	registry *prometheus.Registry

	roundsStarted prometheus.Counter
	roundsEnded   prometheus.Counter
	advances      *prometheus.CounterVec
	skips         prometheus.Counter
	saveFailures  prometheus.Counter
	newHighScores prometheus.Counter
	roundScore    prometheus.Histogram
}

// New registers the quiz collectors on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		roundsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rounds_started_total",
			Help:      "Rounds started.",
		}),
		roundsEnded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rounds_ended_total",
			Help:      "Rounds finalized, by timer or explicitly.",
		}),
		advances: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "advances_total",
			Help:      "Advance presses, split by whether the entry scored.",
		}, []string{"scored"}),
		skips: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "skips_total",
			Help:      "Skip presses.",
		}),
		saveFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ledger_save_failures_total",
			Help:      "High score saves that failed.",
		}),
		newHighScores: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "new_high_scores_total",
			Help:      "Rounds that beat the previous top score.",
		}),
		roundScore: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "round_score",
			Help:      "Final score per round.",
			Buckets:   prometheus.LinearBuckets(0, 5, 12),
		}),
	}

	m.registry.MustRegister(
		m.roundsStarted,
		m.roundsEnded,
		m.advances,
		m.skips,
		m.saveFailures,
		m.newHighScores,
		m.roundScore,
	)
	return m
}

// Registry returns the registry the collectors live on.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// RoundStarted implements gamemode.Observer.
func (m *Metrics) RoundStarted() { m.roundsStarted.Inc() }

// Advanced implements gamemode.Observer.
func (m *Metrics) Advanced(scored bool) {
	label := "false"
	if scored {
		label = "true"
	}
	m.advances.WithLabelValues(label).Inc()
}

// Skipped implements gamemode.Observer.
func (m *Metrics) Skipped() { m.skips.Inc() }

// RoundEnded implements gamemode.Observer.
func (m *Metrics) RoundEnded(score int, newHighScore bool) {
	m.roundsEnded.Inc()
	m.roundScore.Observe(float64(score))
	if newHighScore {
		m.newHighScores.Inc()
	}
}

// SaveFailed implements gamemode.Observer.
func (m *Metrics) SaveFailed() { m.saveFailures.Inc() }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is done.
func (m *Metrics) Serve(ctx context.Context, addr string, logger *slog.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("serving metrics", slog.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
