package sokoban

import (
	"math/rand"
	"reflect"
	"testing"
)

const (
	firstPush  = "#####\n#*&$#\n#####"
	cornerTrap = "#######\n#.&*$.#\n#.....#\n#######"
)

func mustGame(t *testing.T, maze string) *Game {
	t.Helper()
	g, err := New(maze)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return g
}

func TestNewGame(t *testing.T) {
	g := mustGame(t, firstPush)

	if g.Directions() != Right {
		t.Errorf("Directions = %v, want Right", g.Directions())
	}
	if g.State() != 4 {
		t.Errorf("State = %d, want 4", g.State())
	}
	if g.Succeeded() || g.Failed() {
		t.Error("fresh game must not be terminal")
	}
	if g.String() != firstPush {
		t.Errorf("String = %q, want %q", g.String(), firstPush)
	}
	if g.Elapsed() != 0 || g.VisitedCount() != 0 {
		t.Error("fresh game must have no history")
	}
}

func TestPushOntoGoal(t *testing.T) {
	g := mustGame(t, firstPush)
	start := g.State()

	if !g.Move(Right) {
		t.Fatal("Move(Right) should push the box")
	}
	if g.Finished() != 1 || !g.Succeeded() {
		t.Errorf("finished = %d succeeded = %v, want 1 true", g.Finished(), g.Succeeded())
	}
	if g.Failed() {
		t.Error("succeeded game must not be failed")
	}
	if g.Elapsed() != 1 {
		t.Errorf("Elapsed = %d, want 1", g.Elapsed())
	}
	if !g.Visited(start) {
		t.Error("pre-move state must be recorded as visited")
	}
	if g.Visited(g.State()) {
		t.Error("current state must not be visited yet")
	}
	if g.String() != "#####\n#.*@#\n#####" {
		t.Errorf("String = %q", g.String())
	}
}

func TestIllegalMovesLeaveStateUnchanged(t *testing.T) {
	g := mustGame(t, firstPush)
	before := g.Snapshot()

	for _, d := range []Direction{NoDirection, Up, Left, Down, Up | Right, Right | Down} {
		if g.Move(d) {
			t.Errorf("Move(%v) reported a push", d)
		}
		if !reflect.DeepEqual(g.Snapshot(), before) {
			t.Fatalf("Move(%v) changed the game", d)
		}
	}
}

func TestDeadPositions(t *testing.T) {
	tests := []struct {
		name   string
		maze   string
		moves  []Direction
		failed bool
	}{
		{
			name:   "box pushed into corner",
			maze:   cornerTrap,
			moves:  []Direction{Left},
			failed: true,
		},
		{
			name:   "corner trap before the push",
			maze:   cornerTrap,
			failed: false,
		},
		{
			name:   "player boxed in",
			maze:   "#######\n#*&&$$#\n#######",
			failed: true,
		},
		{
			name:   "box against goal-less wall",
			maze:   "#####\n#...#\n#.&.#\n#.*$#\n#####",
			moves:  []Direction{Up},
			failed: true,
		},
		{
			name:   "wall with an opening",
			maze:   "#####\n#.#.#\n#...#\n#.&.#\n#.*$#\n#####",
			moves:  []Direction{Up},
			failed: false,
		},
		{
			name:   "wall run with a goal",
			maze:   "#####\n#..$#\n#.&.#\n#.*.#\n#####",
			moves:  []Direction{Up},
			failed: false,
		},
		{
			name:   "square of boxes",
			maze:   "########\n#$$$$..#\n#..&&..#\n#..&&..#\n#.*....#\n########",
			failed: true,
		},
		{
			name:   "player walled off from a free box",
			maze:   "########\n#*.#...#\n####.&.#\n#...$..#\n########",
			failed: true,
		},
		{
			name:   "frozen boxes on goals are fine",
			maze:   "######\n#@@*.#\n#..&.#\n#..$.#\n######",
			failed: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := mustGame(t, tt.maze)
			for _, d := range tt.moves {
				g.Move(d)
			}
			if g.Failed() != tt.failed {
				t.Errorf("Failed = %v, want %v\n%s", g.Failed(), tt.failed, g)
			}
		})
	}
}

func TestNoReachablePush(t *testing.T) {
	g := mustGame(t, "########\n#*.#...#\n####.&.#\n#...$..#\n########")
	if g.Directions() != Right {
		t.Fatalf("Directions = %v, want Right", g.Directions())
	}
	if !g.Failed() || g.canPushAny() {
		t.Errorf("free box out of reach should fail\n%s", g)
	}
	// the box itself is movable along both axes
	box := P(2, 5)
	if g.boxStuck(box, vertical, map[frozenKey]bool{}) || g.boxStuck(box, horizontal, map[frozenKey]bool{}) {
		t.Error("box should not be frozen")
	}
}

func TestPushUpOntoGoal(t *testing.T) {
	g := mustGame(t, "#####\n#.$.#\n#.&.#\n#.*.#\n#####")
	g.Move(Up)
	if !g.Succeeded() {
		t.Errorf("box on the goal should succeed\n%s", g)
	}
}

func TestRestart(t *testing.T) {
	g := mustGame(t, cornerTrap)
	fresh := g.Snapshot()

	g.Move(Down)
	g.Move(Right)
	g.Restart()
	once := g.Snapshot()
	g.Restart()
	twice := g.Snapshot()

	if !reflect.DeepEqual(once, fresh) {
		t.Errorf("Restart = %+v, want %+v", once, fresh)
	}
	if !reflect.DeepEqual(once, twice) {
		t.Error("second Restart changed the game")
	}
	if g.Player() != g.InitialPlayer() || !reflect.DeepEqual(g.Boxes(), g.InitialBoxes()) {
		t.Error("Restart must restore the initial layout")
	}
}

func TestStateIsCanonical(t *testing.T) {
	a := mustGame(t, "#####\n#*..#\n#...#\n#..&#\n#..$#\n#####")
	b := mustGame(t, "#####\n#*..#\n#...#\n#..&#\n#..$#\n#####")
	a.Move(Right)
	a.Move(Down)
	b.Move(Down)
	b.Move(Right)
	if a.State() != b.State() {
		t.Errorf("same layout, different keys: %s vs %s", a.State(), b.State())
	}
}

func TestStateIsCanonicalAfterReorder(t *testing.T) {
	pushed := mustGame(t, "######\n#.*..#\n#.&.&#\n#....#\n#$$..#\n######")
	if !pushed.Move(Down) {
		t.Fatal("Move(Down) should push")
	}
	if want := []Pos{P(2, 4), P(3, 2)}; !reflect.DeepEqual(pushed.Boxes(), want) {
		t.Errorf("Boxes = %v, want %v", pushed.Boxes(), want)
	}

	direct := mustGame(t, "######\n#....#\n#.*.&#\n#.&..#\n#$$..#\n######")
	if pushed.State() != direct.State() {
		t.Errorf("keys differ: %s vs %s", pushed.State(), direct.State())
	}
}

func TestRandomPlayConsistency(t *testing.T) {
	g := mustGame(t, "#######\n#.....#\n#.&*&.#\n#..$..#\n#..$..#\n#######")
	rng := rand.New(rand.NewSource(7))
	boxes := g.BoxCount()

	for i := 0; i < 2000; i++ {
		if g.Terminal() {
			g.Restart()
		}
		if g.Succeeded() && g.Failed() {
			t.Fatal("succeeded and failed at once")
		}

		before := g.Snapshot()
		cells := g.Cells()
		d := Directions[rng.Intn(4)]
		legal := g.Directions().Has(d)
		pushed := g.Move(d)

		if !legal {
			if pushed || !reflect.DeepEqual(g.Snapshot(), before) {
				t.Fatalf("illegal %v changed the game", d)
			}
			continue
		}
		if len(g.Boxes()) != boxes {
			t.Fatalf("box count changed to %d", len(g.Boxes()))
		}

		want := map[Pos]bool{before.Player: true, g.Player(): true}
		if pushed {
			want[g.Player().Step(d)] = true
		}
		after := g.Cells()
		for r := range after {
			for c := range after[r] {
				if after[r][c] != cells[r][c] && !want[P(r, c)] {
					t.Fatalf("move %v changed unrelated cell (%d,%d)", d, r, c)
				}
			}
		}
		if pushed && g.Cell(g.Player())&Box != 0 {
			t.Fatal("vacated box cell still holds a box")
		}
		if pushed && g.Cell(g.Player().Step(d))&Box == 0 {
			t.Fatal("push destination holds no box")
		}
	}
}
