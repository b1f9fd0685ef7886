// Package session runs a training loop over one level: it owns the game,
// the Q-table and the trainer, applies the exploration schedule, and records
// finished episodes to storage, metrics and the log.
package session

import (
	"context"
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/tui-sokoban/internal/config"
	"github.com/vovakirdan/tui-sokoban/internal/levels"
	"github.com/vovakirdan/tui-sokoban/internal/metrics"
	"github.com/vovakirdan/tui-sokoban/internal/qlearn"
	"github.com/vovakirdan/tui-sokoban/internal/report"
	"github.com/vovakirdan/tui-sokoban/internal/sokoban"
	"github.com/vovakirdan/tui-sokoban/internal/storage"
)

// EpisodeOutcome describes one finished episode.
type EpisodeOutcome struct {
	Index     int
	Steps     int
	Succeeded bool
	Reward    float64
}

// Outcome returns the storage outcome name.
func (e EpisodeOutcome) Outcome() string {
	if e.Succeeded {
		return storage.OutcomeSucceeded
	}
	return storage.OutcomeFailed
}

// Summary aggregates a session.
type Summary struct {
	RunID     string
	Level     string
	Seed      int64
	Steps     int
	Episodes  int
	Successes int
	Failures  int
	BestSteps int // shortest successful episode, 0 if none
	QStates   int
	Epsilon   float64
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger. Sessions log nothing by default.
func WithLogger(l *log.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// WithStore records the run and its episodes in store.
func WithStore(store *storage.Store) Option {
	return func(s *Session) { s.store = store }
}

// WithMetrics records Prometheus metrics.
func WithMetrics(r *metrics.Recorder) Option {
	return func(s *Session) { s.recorder = r }
}

// WithSeed seeds the exploration source. Zero keeps a time-based seed.
func WithSeed(seed int64) Option {
	return func(s *Session) {
		if seed != 0 {
			s.seed = seed
		}
	}
}

// Session is one training run. It is owned by a single goroutine.
type Session struct {
	id       string
	level    levels.Level
	cfg      config.TrainingConfig
	seed     int64
	game     *sokoban.Game
	table    *qlearn.QTable
	trainer  *qlearn.Trainer
	schedule *config.Schedule

	store    *storage.Store
	logger   *log.Logger
	recorder *metrics.Recorder

	steps     int
	epReward  float64
	episodes  []EpisodeOutcome
	successes int
	best      int
	last      qlearn.StepResult
	closed    bool
}

// New starts a session on level with the given configuration.
func New(level levels.Level, cfg config.TrainingConfig, opts ...Option) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	game, err := level.NewGame()
	if err != nil {
		return nil, err
	}

	s := &Session{
		id:    uuid.NewString(),
		level: level,
		cfg:   cfg,
		seed:  time.Now().UnixNano(),
		game:  game,
		table: qlearn.NewQTable(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}

	rng := rand.New(rand.NewSource(s.seed))
	s.trainer = qlearn.NewTrainer(game, s.table, rng, cfg.Params())
	s.schedule = config.NewSchedule(cfg.Learning.Epsilon, cfg.Exploration)

	if s.store != nil {
		_, err := s.store.CreateRun(storage.Run{
			ID:      s.id,
			Level:   level.ID,
			Maze:    level.Maze,
			Seed:    s.seed,
			Epsilon: cfg.Learning.Epsilon,
			Alpha:   cfg.Learning.Alpha,
			Gamma:   cfg.Learning.Gamma,
		})
		if err != nil {
			return nil, err
		}
	}

	s.logger.Info("training started", "run", s.id, "level", level.ID, "seed", s.seed,
		"boxes", game.BoxCount(), "state_bits", game.Maze().StateWidth())
	return s, nil
}

// Step runs one trainer step with the scheduled epsilon.
func (s *Session) Step() qlearn.StepResult {
	eps := s.schedule.Epsilon(s.steps, len(s.episodes))
	s.trainer.SetEpsilon(eps)

	res := s.trainer.Step()
	s.steps++
	s.recorder.RecordStep(res.Pushed, eps, s.table.Len())

	if !res.Restarted {
		s.epReward += res.Reward
		if res.Succeeded || res.Failed {
			s.closeEpisode(res.Succeeded)
		}
	}
	s.last = res
	return res
}

func (s *Session) closeEpisode(succeeded bool) {
	ep := EpisodeOutcome{
		Index:     len(s.episodes) + 1,
		Steps:     int(s.game.Elapsed()),
		Succeeded: succeeded,
		Reward:    s.epReward,
	}
	s.episodes = append(s.episodes, ep)
	s.epReward = 0
	if succeeded {
		s.successes++
		if s.best == 0 || ep.Steps < s.best {
			s.best = ep.Steps
		}
	}

	s.recorder.RecordEpisode(ep.Outcome(), ep.Steps)
	if s.store != nil {
		if _, err := s.store.SaveEpisode(storage.Episode{
			RunID:   s.id,
			Episode: ep.Index,
			Steps:   ep.Steps,
			Outcome: ep.Outcome(),
			Reward:  ep.Reward,
		}); err != nil {
			s.logger.Warn("cannot record episode", "err", err)
		}
	}
	s.logger.Debug("episode finished", "level", s.level.ID, "episode", ep.Index,
		"outcome", ep.Outcome(), "steps", ep.Steps, "reward", ep.Reward)
}

// Warmup runs n steps without reporting them and returns the last result.
func (s *Session) Warmup(ctx context.Context, n int) (qlearn.StepResult, error) {
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return s.last, err
		}
		s.Step()
	}
	return s.last, nil
}

// Run steps until ctx is done or maxSteps steps were taken in this call
// (0 means no limit). onStep, if set, sees every result; an error from it
// stops the run and is returned. Cancellation is checked between steps only
// and ends the run without error.
func (s *Session) Run(ctx context.Context, maxSteps int, onStep func(qlearn.StepResult) error) error {
	for i := 0; maxSteps == 0 || i < maxSteps; i++ {
		select {
		case <-ctx.Done():
			return nil
		default:
		}
		res := s.Step()
		if onStep != nil {
			if err := onStep(res); err != nil {
				return err
			}
		}
	}
	return nil
}

// Close records the end of the run. Calling it again does nothing.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	sum := s.Summary()
	s.logger.Info("training stopped", "run", s.id, "level", s.level.ID, "steps", sum.Steps,
		"episodes", sum.Episodes, "successes", sum.Successes, "q_states", sum.QStates)
	if s.store == nil {
		return nil
	}
	if err := s.store.FinishRun(s.id, int64(s.steps), s.table.Len()); err != nil {
		return fmt.Errorf("session: %w", err)
	}
	return nil
}

// ID returns the run ID.
func (s *Session) ID() string { return s.id }

// Level returns the trained level.
func (s *Session) Level() levels.Level { return s.level }

// Config returns the training configuration.
func (s *Session) Config() config.TrainingConfig { return s.cfg }

// Seed returns the seed of the exploration source.
func (s *Session) Seed() int64 { return s.seed }

// Game returns the game being trained on.
func (s *Session) Game() *sokoban.Game { return s.game }

// Table returns the Q-table.
func (s *Session) Table() *qlearn.QTable { return s.table }

// Last returns the result of the latest step.
func (s *Session) Last() qlearn.StepResult { return s.last }

// Steps returns the number of trainer steps taken.
func (s *Session) Steps() int { return s.steps }

// Epsilon returns the exploration rate of the next step.
func (s *Session) Epsilon() float64 {
	return s.schedule.Epsilon(s.steps, len(s.episodes))
}

// Episodes returns the finished episodes in order.
func (s *Session) Episodes() []EpisodeOutcome {
	return append([]EpisodeOutcome(nil), s.episodes...)
}

// Outcomes returns the finished episodes for plotting.
func (s *Session) Outcomes() []report.Outcome {
	out := make([]report.Outcome, len(s.episodes))
	for i, ep := range s.episodes {
		out[i] = report.Outcome{Episode: ep.Index, Steps: ep.Steps, Succeeded: ep.Succeeded}
	}
	return out
}

// Summary returns the session counters.
func (s *Session) Summary() Summary {
	return Summary{
		RunID:     s.id,
		Level:     s.level.ID,
		Seed:      s.seed,
		Steps:     s.steps,
		Episodes:  len(s.episodes),
		Successes: s.successes,
		Failures:  len(s.episodes) - s.successes,
		BestSteps: s.best,
		QStates:   s.table.Len(),
		Epsilon:   s.Epsilon(),
	}
}

// ResolveSeed returns the seed to use: one read from the operating system's
// random source when fromDevice is set, seed itself when non-zero, and a
// time-based seed otherwise.
func ResolveSeed(seed int64, fromDevice bool) (int64, error) {
	if fromDevice {
		var buf [8]byte
		if _, err := crand.Read(buf[:]); err != nil {
			return 0, fmt.Errorf("session: cannot read random device: %w", err)
		}
		return int64(binary.LittleEndian.Uint64(buf[:]) >> 1), nil
	}
	if seed != 0 {
		return seed, nil
	}
	return time.Now().UnixNano(), nil
}
