package session

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/vovakirdan/tui-sokoban/internal/config"
	"github.com/vovakirdan/tui-sokoban/internal/levels"
	"github.com/vovakirdan/tui-sokoban/internal/qlearn"
	"github.com/vovakirdan/tui-sokoban/internal/storage"
)

func testLevel(t *testing.T, id string) levels.Level {
	t.Helper()
	lvl, err := levels.Builtin(id)
	if err != nil {
		t.Fatalf("Builtin(%q) failed: %v", id, err)
	}
	return lvl
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := config.DefaultTrainingConfig()
	cfg.Learning.Alpha = 2
	if _, err := New(testLevel(t, "square"), cfg); err == nil {
		t.Fatal("expected error for alpha > 1")
	}
}

func TestNewRejectsInvalidMaze(t *testing.T) {
	lvl := levels.Level{ID: "broken", Maze: "#####\n#*..#\n#####"}
	if _, err := New(lvl, config.DefaultTrainingConfig()); err == nil {
		t.Fatal("expected error for a maze without boxes")
	}
}

func TestRunCountsEpisodes(t *testing.T) {
	s, err := New(testLevel(t, "square"), config.DefaultTrainingConfig(), WithSeed(7))
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	seen := 0
	err = s.Run(context.Background(), 2000, func(qlearn.StepResult) error {
		seen++
		return nil
	})
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	if seen != 2000 || s.Steps() != 2000 {
		t.Fatalf("steps: callback %d, session %d", seen, s.Steps())
	}

	sum := s.Summary()
	if sum.Episodes == 0 {
		t.Fatal("expected finished episodes after 2000 steps")
	}
	if sum.Successes+sum.Failures != sum.Episodes {
		t.Errorf("summary = %+v", sum)
	}
	if sum.Successes > 0 && sum.BestSteps < 2 {
		t.Errorf("square needs at least 2 moves, best = %d", sum.BestSteps)
	}
	if sum.QStates != s.Table().Len() || sum.Seed != 7 {
		t.Errorf("summary = %+v", sum)
	}

	eps := s.Episodes()
	for i, ep := range eps {
		if ep.Index != i+1 || ep.Steps <= 0 {
			t.Fatalf("episode %d = %+v", i, ep)
		}
	}
	if len(s.Outcomes()) != len(eps) {
		t.Errorf("Outcomes() = %d, want %d", len(s.Outcomes()), len(eps))
	}
}

func TestSameSeedSameRun(t *testing.T) {
	run := func() []EpisodeOutcome {
		s, err := New(testLevel(t, "two-lanes"), config.DefaultTrainingConfig(), WithSeed(99))
		if err != nil {
			t.Fatalf("New() failed: %v", err)
		}
		if _, err := s.Warmup(context.Background(), 3000); err != nil {
			t.Fatalf("Warmup() failed: %v", err)
		}
		return s.Episodes()
	}
	a, b := run(), run()
	if len(a) != len(b) {
		t.Fatalf("episodes differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("episode %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	s, err := New(testLevel(t, "corridor"), config.DefaultTrainingConfig(), WithSeed(1))
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	err = s.Run(ctx, 0, func(qlearn.StepResult) error {
		if s.Steps() == 10 {
			cancel()
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	if s.Steps() != 10 {
		t.Errorf("Steps() = %d, want 10", s.Steps())
	}

	if _, err := s.Warmup(ctx, 5); !errors.Is(err, context.Canceled) {
		t.Errorf("Warmup() error = %v, want context.Canceled", err)
	}
}

func TestRunCallbackError(t *testing.T) {
	s, err := New(testLevel(t, "corridor"), config.DefaultTrainingConfig(), WithSeed(1))
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	stop := errors.New("stop")
	err = s.Run(context.Background(), 100, func(qlearn.StepResult) error { return stop })
	if !errors.Is(err, stop) || s.Steps() != 1 {
		t.Errorf("Run() = %v after %d steps", err, s.Steps())
	}
}

func TestScheduledEpsilon(t *testing.T) {
	cfg := config.DefaultTrainingConfig()
	cfg.Learning.Epsilon = 0.5
	cfg.Exploration = config.ExplorationConfig{
		Enabled:      true,
		FinalEpsilon: 0,
		Progression:  config.ProgressionConfig{Type: "steps", MaxAt: 100},
	}
	s, err := New(testLevel(t, "square"), cfg, WithSeed(3))
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	if got := s.Epsilon(); got != 0.5 {
		t.Errorf("initial Epsilon() = %v, want 0.5", got)
	}
	if _, err := s.Warmup(context.Background(), 100); err != nil {
		t.Fatal(err)
	}
	if got := s.Epsilon(); got != 0 {
		t.Errorf("final Epsilon() = %v, want 0", got)
	}
}

func TestSessionRecordsToStore(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	s, err := New(testLevel(t, "first-push"), config.DefaultTrainingConfig(), WithStore(store), WithSeed(5))
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	if _, err := s.Warmup(context.Background(), 10); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("second Close() failed: %v", err)
	}

	run, err := store.Run(s.ID())
	if err != nil || run == nil {
		t.Fatalf("Run() = %v, %v", run, err)
	}
	if !run.Finished() || run.Steps != 10 || run.Level != "first-push" || run.Seed != 5 {
		t.Errorf("run = %+v", run)
	}

	// every move on first-push solves it, every other step restarts
	episodes, err := store.RunEpisodes(s.ID())
	if err != nil {
		t.Fatalf("RunEpisodes() failed: %v", err)
	}
	if len(episodes) != 5 {
		t.Fatalf("stored %d episodes, want 5", len(episodes))
	}
	for _, ep := range episodes {
		if ep.Outcome != storage.OutcomeSucceeded || ep.Steps != 1 {
			t.Errorf("episode = %+v", ep)
		}
	}
}

func TestResolveSeed(t *testing.T) {
	if got, err := ResolveSeed(42, false); err != nil || got != 42 {
		t.Errorf("ResolveSeed(42) = %d, %v", got, err)
	}
	if got, err := ResolveSeed(0, false); err != nil || got == 0 {
		t.Errorf("ResolveSeed(0) = %d, %v", got, err)
	}
	if got, err := ResolveSeed(42, true); err != nil || got < 0 {
		t.Errorf("ResolveSeed(device) = %d, %v", got, err)
	}
}
