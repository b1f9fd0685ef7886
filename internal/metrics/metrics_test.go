package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecorder(t *testing.T) {
	r := NewRecorder("test-level")

	r.RecordStep(true, 0.1, 5)
	r.RecordStep(false, 0.05, 7)
	r.RecordEpisode("succeeded", 4)
	r.RecordEpisode("failed", 9)
	r.RecordEpisode("failed", 3)

	if got := testutil.ToFloat64(stepsTotal.WithLabelValues("test-level")); got != 2 {
		t.Errorf("steps = %v, want 2", got)
	}
	if got := testutil.ToFloat64(pushesTotal.WithLabelValues("test-level")); got != 1 {
		t.Errorf("pushes = %v, want 1", got)
	}
	if got := testutil.ToFloat64(episodesTotal.WithLabelValues("test-level", "failed")); got != 2 {
		t.Errorf("failed episodes = %v, want 2", got)
	}
	if got := testutil.ToFloat64(qtableStates.WithLabelValues("test-level")); got != 7 {
		t.Errorf("qtable states = %v, want 7", got)
	}
	if got := testutil.ToFloat64(epsilon.WithLabelValues("test-level")); got != 0.05 {
		t.Errorf("epsilon = %v, want 0.05", got)
	}
}

func TestNilRecorder(t *testing.T) {
	var r *Recorder
	r.RecordStep(true, 1, 1)
	r.RecordEpisode("succeeded", 1)
}

func TestHandler(t *testing.T) {
	NewRecorder("handler-level").RecordStep(false, 0, 1)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), `sokoban_train_steps_total{level="handler-level"} 1`) {
		t.Errorf("metrics output lacks the step counter:\n%s", body)
	}
}
