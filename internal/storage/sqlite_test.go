package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "nested", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestRunLifecycle(t *testing.T) {
	store := openTestStore(t)

	id, err := store.CreateRun(Run{
		Level:   "square",
		Maze:    "#####\n#*..#\n#.&.#\n#.$.#\n#####",
		Seed:    42,
		Epsilon: 0.05,
		Alpha:   0.5,
		Gamma:   1,
	})
	if err != nil {
		t.Fatalf("CreateRun() failed: %v", err)
	}
	if id == "" {
		t.Fatal("CreateRun() must assign an ID")
	}

	run, err := store.Run(id)
	if err != nil || run == nil {
		t.Fatalf("Run() = %v, %v", run, err)
	}
	if run.Level != "square" || run.Seed != 42 || run.Finished() {
		t.Errorf("run = %+v", run)
	}
	if run.StartedAt.IsZero() {
		t.Error("StartedAt must be set")
	}
	if time.Since(run.StartedAt) > 24*time.Hour {
		t.Errorf("StartedAt = %v looks wrong", run.StartedAt)
	}

	if err := store.FinishRun(id, 1234, 56); err != nil {
		t.Fatalf("FinishRun() failed: %v", err)
	}
	run, _ = store.Run(id)
	if run.Steps != 1234 || run.QStates != 56 || !run.Finished() {
		t.Errorf("finished run = %+v", run)
	}

	if err := store.FinishRun("missing", 1, 1); err == nil {
		t.Error("FinishRun() on an unknown run must fail")
	}
	if missing, err := store.Run("missing"); err != nil || missing != nil {
		t.Errorf("Run(missing) = %v, %v", missing, err)
	}
}

func TestEpisodesAndStats(t *testing.T) {
	store := openTestStore(t)
	id, err := store.CreateRun(Run{ID: "run-1", Level: "square", Maze: "x"})
	if err != nil {
		t.Fatalf("CreateRun() failed: %v", err)
	}

	episodes := []Episode{
		{RunID: id, Episode: 1, Steps: 9, Outcome: OutcomeFailed, Reward: -999},
		{RunID: id, Episode: 2, Steps: 6, Outcome: OutcomeSucceeded, Reward: 1050},
		{RunID: id, Episode: 3, Steps: 2, Outcome: OutcomeSucceeded, Reward: 1050},
		{RunID: "other", Episode: 1, Steps: 1, Outcome: OutcomeSucceeded},
	}
	for _, e := range episodes {
		if _, err := store.SaveEpisode(e); err != nil {
			t.Fatalf("SaveEpisode() failed: %v", err)
		}
	}

	got, err := store.RunEpisodes(id)
	if err != nil {
		t.Fatalf("RunEpisodes() failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 episodes, got %d", len(got))
	}
	for i, e := range got {
		if e.Episode != i+1 {
			t.Errorf("episode %d out of order: %d", i, e.Episode)
		}
	}

	stats, err := store.RunStats(id)
	if err != nil {
		t.Fatalf("RunStats() failed: %v", err)
	}
	if stats.Episodes != 3 || stats.Successes != 2 || stats.Failures != 1 || stats.BestSteps != 2 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.AvgSteps < 5.66 || stats.AvgSteps > 5.67 {
		t.Errorf("AvgSteps = %v, want ~5.67", stats.AvgSteps)
	}
	if r := stats.SuccessRate(); r < 0.66 || r > 0.67 {
		t.Errorf("SuccessRate = %v", r)
	}

	empty, err := store.RunStats("nothing")
	if err != nil {
		t.Fatalf("RunStats() failed: %v", err)
	}
	if empty.Episodes != 0 || empty.BestSteps != 0 || empty.SuccessRate() != 0 {
		t.Errorf("empty stats = %+v", empty)
	}
}

func TestRecentRunsAndDelete(t *testing.T) {
	store := openTestStore(t)
	for _, id := range []string{"a", "b", "c"} {
		if _, err := store.CreateRun(Run{ID: id, Level: "square", Maze: "x"}); err != nil {
			t.Fatalf("CreateRun() failed: %v", err)
		}
	}
	if _, err := store.SaveEpisode(Episode{RunID: "b", Episode: 1, Steps: 3, Outcome: OutcomeFailed}); err != nil {
		t.Fatal(err)
	}

	runs, err := store.RecentRuns(2)
	if err != nil {
		t.Fatalf("RecentRuns() failed: %v", err)
	}
	if len(runs) != 2 || runs[0].ID != "c" || runs[1].ID != "b" {
		t.Errorf("RecentRuns = %+v", runs)
	}

	if err := store.DeleteRun("b"); err != nil {
		t.Fatalf("DeleteRun() failed: %v", err)
	}
	if r, _ := store.Run("b"); r != nil {
		t.Error("run b should be gone")
	}
	if eps, _ := store.RunEpisodes("b"); len(eps) != 0 {
		t.Error("episodes of b should be gone")
	}
}

func TestParseTime(t *testing.T) {
	want := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
	for _, v := range []any{want, "2024-05-06 07:08:09", []byte("2024-05-06T07:08:09Z")} {
		if got := parseTime(v); !got.Equal(want) {
			t.Errorf("parseTime(%v) = %v", v, got)
		}
	}
	if !parseTime(nil).IsZero() {
		t.Error("nil must parse to the zero time")
	}
}
