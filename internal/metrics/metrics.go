// Package metrics exposes Prometheus instruments for the training loop.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// stepsTotal counts trainer steps, restarts included.
	// Labels: level
	stepsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sokoban",
		Subsystem: "train",
		Name:      "steps_total",
		Help:      "Total trainer steps",
	}, []string{"level"})

	// pushesTotal counts moves that pushed a box.
	// Labels: level
	pushesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sokoban",
		Name:      "pushes_total",
		Help:      "Total box pushes",
	}, []string{"level"})

	// episodesTotal counts finished episodes.
	// Labels: level, outcome (succeeded, failed)
	episodesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sokoban",
		Name:      "episodes_total",
		Help:      "Total finished episodes by outcome",
	}, []string{"level", "outcome"})

	// episodeSteps measures episode length in moves.
	// Labels: level, outcome
	episodeSteps = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "sokoban",
		Name:      "episode_steps",
		Help:      "Moves per finished episode",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 14),
	}, []string{"level", "outcome"})

	// qtableStates tracks the number of stored Q-table rows.
	// Labels: level
	qtableStates = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "sokoban",
		Name:      "qtable_states",
		Help:      "States stored in the Q-table",
	}, []string{"level"})

	// epsilon tracks the exploration rate in use.
	// Labels: level
	epsilon = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "sokoban",
		Name:      "epsilon",
		Help:      "Current exploration rate",
	}, []string{"level"})
)

// Recorder records training metrics for one level. A nil Recorder records
// nothing.
type Recorder struct {
	level string
}

// NewRecorder creates a recorder labelled with the level ID.
func NewRecorder(level string) *Recorder {
	return &Recorder{level: level}
}

// RecordStep records one trainer step.
func (r *Recorder) RecordStep(pushed bool, eps float64, states int) {
	if r == nil {
		return
	}
	stepsTotal.WithLabelValues(r.level).Inc()
	if pushed {
		pushesTotal.WithLabelValues(r.level).Inc()
	}
	epsilon.WithLabelValues(r.level).Set(eps)
	qtableStates.WithLabelValues(r.level).Set(float64(states))
}

// RecordEpisode records a finished episode.
func (r *Recorder) RecordEpisode(outcome string, steps int) {
	if r == nil {
		return
	}
	episodesTotal.WithLabelValues(r.level, outcome).Inc()
	episodeSteps.WithLabelValues(r.level, outcome).Observe(float64(steps))
}

// Handler returns the /metrics HTTP handler of the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Serve exposes /metrics on addr until ctx is done.
func Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
