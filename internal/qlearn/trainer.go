package qlearn

import (
	"math"

	"github.com/vovakirdan/tui-sokoban/internal/sokoban"
)

// Params are the learning rates and the reward shaping of a Trainer.
type Params struct {
	Epsilon        float64
	Alpha          float64
	Gamma          float64
	RetracePenalty float64
	PushReward     float64
	GoalReward     float64
	FailurePenalty float64
	SuccessReward  float64
}

// DefaultParams returns the stock training parameters.
func DefaultParams() Params {
	return Params{
		Epsilon:        0.05,
		Alpha:          0.5,
		Gamma:          1.0,
		RetracePenalty: 1.0,
		PushReward:     0.5,
		GoalReward:     50,
		FailurePenalty: 1000,
		SuccessReward:  1000,
	}
}

// Floor is the lowest bootstrap value for a game with the given box count.
func (p Params) Floor(boxes int) float64 {
	return -(p.RetracePenalty + p.FailurePenalty + p.GoalReward*float64(boxes))
}

// StepResult describes one Trainer step.
type StepResult struct {
	// State is the state the step started from.
	State sokoban.State
	// Action is NoDirection when the step only restarted a finished game.
	Action sokoban.Direction
	// Before and After are the rows of State around the update.
	Before Row
	After  Row

	Reward    float64
	Pushed    bool
	Restarted bool
	Succeeded bool
	Failed    bool
}

// Trainer applies one-step Q-learning to a game.
type Trainer struct {
	game   *sokoban.Game
	table  *QTable
	rng    Rand
	params Params
}

// NewTrainer creates a trainer over game and table drawing from rng.
func NewTrainer(game *sokoban.Game, table *QTable, rng Rand, params Params) *Trainer {
	return &Trainer{game: game, table: table, rng: rng, params: params}
}

// Game returns the trained game.
func (t *Trainer) Game() *sokoban.Game { return t.game }

// Table returns the Q-table being updated.
func (t *Trainer) Table() *QTable { return t.table }

// Params returns the current parameters.
func (t *Trainer) Params() Params { return t.params }

// SetEpsilon changes the exploration rate for the following steps.
func (t *Trainer) SetEpsilon(eps float64) { t.params.Epsilon = eps }

// Step runs one trainer step. A game that already succeeded or failed is
// restarted and nothing is learned; otherwise one move is chosen, applied and
// used to update the value of the state it left.
func (t *Trainer) Step() StepResult {
	g := t.game
	p := t.params

	if g.Terminal() {
		res := StepResult{
			State:     g.State(),
			Action:    sokoban.NoDirection,
			Restarted: true,
			Succeeded: g.Succeeded(),
			Failed:    g.Failed(),
		}
		res.Before = t.table.Row(res.State)
		res.After = res.Before
		g.Restart()
		return res
	}

	last := g.State()
	before := t.table.Row(last)
	finished := g.Finished()

	action := SelectAction(t.rng, p.Epsilon, g.Directions(), before)
	pushed := g.Move(action)

	reward := p.GoalReward * float64(g.Finished()-finished)
	if g.Visited(g.State()) {
		reward -= p.RetracePenalty
	}
	if pushed {
		reward += p.PushReward
	}
	if g.Succeeded() {
		reward += p.SuccessReward
	}
	if g.Failed() {
		reward -= p.FailurePenalty
	}

	bootstrap := p.Floor(g.BoxCount())
	next := t.table.Row(g.State())
	for _, d := range sokoban.Directions {
		if g.Directions()&d != 0 {
			bootstrap = math.Max(bootstrap, next.Get(d))
		}
	}

	value := (1-p.Alpha)*before.Get(action) + p.Alpha*(reward+p.Gamma*bootstrap)
	t.table.Set(last, action, value)

	return StepResult{
		State:     last,
		Action:    action,
		Before:    before,
		After:     t.table.Row(last),
		Reward:    reward,
		Pushed:    pushed,
		Succeeded: g.Succeeded(),
		Failed:    g.Failed(),
	}
}
