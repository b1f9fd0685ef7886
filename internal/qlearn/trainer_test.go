package qlearn

import (
	"math/rand"
	"testing"

	"github.com/vovakirdan/tui-sokoban/internal/sokoban"
)

const (
	firstPush  = "#####\n#*&$#\n#####"
	cornerTrap = "#######\n#.&*$.#\n#.....#\n#######"
	square     = "#####\n#*..#\n#.&.#\n#.$.#\n#####"
)

func newTrainer(t *testing.T, maze string, rng Rand, params Params) *Trainer {
	t.Helper()
	g, err := sokoban.New(maze)
	if err != nil {
		t.Fatalf("sokoban.New: %v", err)
	}
	return NewTrainer(g, NewQTable(), rng, params)
}

func TestTrainerSuccessStep(t *testing.T) {
	tr := newTrainer(t, firstPush, rand.New(rand.NewSource(1)), DefaultParams())
	start := tr.Game().State()

	res := tr.Step()
	if res.Action != sokoban.Right || !res.Pushed || !res.Succeeded {
		t.Fatalf("result = %+v", res)
	}
	if res.State != start {
		t.Errorf("State = %v, want %v", res.State, start)
	}
	// 50 goal + 0.5 push + 1000 success
	if res.Reward != 1050.5 {
		t.Errorf("Reward = %v, want 1050.5", res.Reward)
	}
	if res.Before != (Row{}) || res.After != (Row{0, 0, 525.25, 0}) {
		t.Errorf("rows = %v -> %v", res.Before, res.After)
	}

	done := tr.Game().State()
	res = tr.Step()
	if !res.Restarted || res.Action != sokoban.NoDirection || res.State != done {
		t.Errorf("terminal step = %+v", res)
	}
	if tr.Game().State() != start || tr.Game().Elapsed() != 0 {
		t.Error("terminal step must restart the game")
	}
	if tr.Table().Len() != 1 {
		t.Errorf("Len = %d, want 1", tr.Table().Len())
	}
}

func TestTrainerFailureStep(t *testing.T) {
	rng := &scriptedRand{f: 0.99, n: 0}
	tr := newTrainer(t, cornerTrap, rng, DefaultParams())
	start := tr.Game().State()

	res := tr.Step()
	if res.Action != sokoban.Left || !res.Failed {
		t.Fatalf("result = %+v", res)
	}
	if res.Reward != -999.5 {
		t.Errorf("Reward = %v, want -999.5", res.Reward)
	}
	if got := tr.Table().Get(start, sokoban.Left); got != -499.75 {
		t.Errorf("Q(start, Left) = %v, want -499.75", got)
	}
}

func TestTrainerBootstrapFloor(t *testing.T) {
	tr := newTrainer(t, firstPush, rand.New(rand.NewSource(1)), DefaultParams())
	g, _ := sokoban.New(firstPush)
	g.Move(sokoban.Right)
	tr.Table().SetRow(g.State(), Row{-5000, -5000, -5000, -5000})

	res := tr.Step()
	// floor is -(1 + 1000 + 50); 0.5 * (1050.5 - 1051)
	if got := res.After.Get(sokoban.Right); got != -0.25 {
		t.Errorf("Q = %v, want -0.25", got)
	}
}

func TestTrainerRetracePenalty(t *testing.T) {
	params := DefaultParams()
	// Left|Right|Down is legal on both cells: index 1 steps Right onto the
	// goal, index 0 steps back Left to the start.
	rng := &scriptedRand{f: 0.99, seq: []int{1, 0}}
	tr := newTrainer(t, cornerTrap, rng, params)
	start := tr.Game().State()

	first := tr.Step()
	if first.Action != sokoban.Right || first.Reward != 0 {
		t.Fatalf("first = %+v", first)
	}
	second := tr.Step()
	if second.Action != sokoban.Left || second.Pushed || tr.Game().State() != start {
		t.Fatalf("second = %+v", second)
	}
	if second.Reward != -params.RetracePenalty {
		t.Errorf("Reward = %v, want %v", second.Reward, -params.RetracePenalty)
	}
}

func TestTrainerDeterministic(t *testing.T) {
	a := newTrainer(t, square, rand.New(rand.NewSource(99)), DefaultParams())
	b := newTrainer(t, square, rand.New(rand.NewSource(99)), DefaultParams())
	for i := 0; i < 500; i++ {
		ra, rb := a.Step(), b.Step()
		if ra != rb {
			t.Fatalf("step %d diverged: %+v vs %+v", i, ra, rb)
		}
	}
}

func TestTrainerConverges(t *testing.T) {
	params := DefaultParams()
	params.Epsilon = 0
	tr := newTrainer(t, square, rand.New(rand.NewSource(2024)), params)

	var outcomes []bool
	for i := 0; i < 5000; i++ {
		res := tr.Step()
		if res.Action != sokoban.NoDirection && (res.Succeeded || res.Failed) {
			outcomes = append(outcomes, res.Succeeded)
		}
	}

	successes := 0
	for _, ok := range outcomes {
		if ok {
			successes++
		}
	}
	if successes == 0 {
		t.Fatalf("no success in %d episodes", len(outcomes))
	}
	if len(outcomes) < 5 {
		t.Fatalf("only %d episodes finished", len(outcomes))
	}
	for i, ok := range outcomes[len(outcomes)-5:] {
		if !ok {
			t.Errorf("episode %d of the last five failed", i+1)
		}
	}
}
