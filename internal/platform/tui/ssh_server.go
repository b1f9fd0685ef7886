package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/vovakirdan/tui-sokoban/internal/config"
	"github.com/vovakirdan/tui-sokoban/internal/core"
	"github.com/vovakirdan/tui-sokoban/internal/levels"
	"github.com/vovakirdan/tui-sokoban/internal/metrics"
	"github.com/vovakirdan/tui-sokoban/internal/session"
	"github.com/vovakirdan/tui-sokoban/internal/storage"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23234").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.sokoban/host_key.
	HostKeyPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration

	// Training configures every session started over SSH.
	Training config.TrainingConfig

	// Levels are offered in the picker.
	Levels []levels.Level

	// Seed seeds every session; 0 gives each session a time-based seed.
	Seed int64

	// Metrics records Prometheus metrics for remote sessions.
	Metrics bool
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23234",
		IdleTimeout: 30 * time.Minute,
		Training:    config.DefaultTrainingConfig(),
		Levels:      levels.Builtins(),
	}
}

// SSHServer wraps a Wish SSH server where each connection picks a level and
// watches its own training session.
type SSHServer struct {
	config SSHServerConfig
	server *ssh.Server
	store  *storage.Store
	logger *log.Logger

	mu       sync.Mutex
	trackers map[ssh.Session]*runTracker
}

// NewSSHServer creates a new SSH server. store may be nil; logger may be nil
// for the default stderr logger.
func NewSSHServer(cfg SSHServerConfig, store *storage.Store, logger *log.Logger) (*SSHServer, error) {
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "sokoban-ssh",
		})
	}
	if err := cfg.Training.Validate(); err != nil {
		return nil, err
	}

	srv := &SSHServer{
		config:   cfg,
		store:    store,
		logger:   logger,
		trackers: make(map[ssh.Session]*runTracker),
	}

	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return nil, fmt.Errorf("cannot get home directory: %w", homeErr)
		}
		hostKeyPath = filepath.Join(home, ".sokoban", "host_key")
	}

	hostKeyDir := filepath.Dir(hostKeyPath)
	if mkdirErr := os.MkdirAll(hostKeyDir, 0o700); mkdirErr != nil {
		return nil, fmt.Errorf("cannot create host key directory: %w", mkdirErr)
	}

	opts := []ssh.Option{
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.loggingMiddleware,
		),
	}

	server, err := wish.NewServer(opts...)
	if err != nil {
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// teaHandler creates a Bubble Tea program for each SSH session.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sshSession.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sshSession.User())
		return nil, nil
	}

	tracker := &runTracker{}
	s.mu.Lock()
	s.trackers[sshSession] = tracker
	s.mu.Unlock()

	model := NewRemoteModel(sshSession.Context(), RemoteOptions{
		Items:    NewMenuItems(s.config.Levels),
		Training: s.config.Training,
		Seed:     s.config.Seed,
		Store:    s.store,
		Logger:   s.logger.With("user", sshSession.User()),
		Metrics:  s.config.Metrics,
		Width:    pty.Window.Width,
		Height:   pty.Window.Height,
		Tracker:  tracker,
	})

	return model, []tea.ProgramOption{
		tea.WithAltScreen(),
	}
}

// loggingMiddleware logs SSH session events and closes the training run
// left open by a disconnected client.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		s.logger.Info("session started",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
		next(sshSession)

		s.mu.Lock()
		tracker := s.trackers[sshSession]
		delete(s.trackers, sshSession)
		s.mu.Unlock()
		if tracker != nil {
			tracker.swap(nil)
		}

		s.logger.Info("session ended",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
	}
}

// ListenAndServe starts the SSH server and blocks until ctx is done.
func (s *SSHServer) ListenAndServe(ctx context.Context) error {
	s.logger.Info("starting SSH server", "address", s.config.Address, "levels", len(s.config.Levels))

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			s.logger.Error("server error", "error", err)
			return err
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown gracefully stops the server.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}

// runTracker holds the training session of one connection so it can be
// closed when the connection ends.
type runTracker struct {
	mu   sync.Mutex
	sess *session.Session
}

// swap closes the tracked session and tracks next instead.
func (t *runTracker) swap(next *session.Session) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.sess != nil {
		t.sess.Close() //nolint:errcheck // the run is already logged
	}
	t.sess = next
}

// RemoteOptions configures a RemoteModel.
type RemoteOptions struct {
	Items    []MenuItem
	Training config.TrainingConfig
	Seed     int64
	Store    *storage.Store
	Logger   *log.Logger
	Metrics  bool
	Width    int
	Height   int
	Tracker  *runTracker
}

// RemoteModel manages the flow of one remote connection:
// picker -> watcher -> picker.
type RemoteModel struct {
	ctx      context.Context
	opts     RemoteOptions
	menu     MenuModel
	watch    *WatchModel
	err      error
	quitting bool
}

// NewRemoteModel creates the model of one remote connection.
func NewRemoteModel(ctx context.Context, opts RemoteOptions) RemoteModel {
	if opts.Tracker == nil {
		opts.Tracker = &runTracker{}
	}
	return RemoteModel{
		ctx:  ctx,
		opts: opts,
		menu: NewMenuModel(opts.Items, opts.Width, opts.Height, false),
	}
}

// Init initializes the picker.
func (m RemoteModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update handles messages for the current screen.
func (m RemoteModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.opts.Width = wsm.Width
		m.opts.Height = wsm.Height
	}

	if m.watch != nil {
		return m.updateWatch(msg)
	}
	return m.updateMenu(msg)
}

// updateMenu handles updates while the picker is shown.
func (m RemoteModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	newMenu, cmd := m.menu.Update(msg)
	if menuModel, ok := newMenu.(MenuModel); ok {
		m.menu = menuModel
	}

	if m.menu.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if selected := m.menu.Selected(); selected != nil {
		opts := []session.Option{
			session.WithSeed(m.opts.Seed),
			session.WithStore(m.opts.Store),
			session.WithLogger(m.opts.Logger),
		}
		if m.opts.Metrics {
			opts = append(opts, session.WithMetrics(metrics.NewRecorder(selected.Level.ID)))
		}
		sess, err := session.New(selected.Level, m.opts.Training, opts...)
		if err != nil {
			m.err = err
			m.menu = NewMenuModel(m.opts.Items, m.opts.Width, m.opts.Height, false)
			return m, nil
		}
		m.opts.Tracker.swap(sess)
		m.err = nil

		watchCfg := WatchConfigFrom(m.opts.Training.Run)
		watchCfg.PrintQ = config.PrintQConfig{}
		watchCfg.MaxSteps = 0
		watch := NewWatchModel(m.ctx, sess, watchCfg)
		m.watch = &watch
		return m, m.watch.Init()
	}

	return m, cmd
}

// updateWatch handles updates while a session is watched.
func (m RemoteModel) updateWatch(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.watch.Update(msg)
	if watchModel, ok := newModel.(WatchModel); ok {
		m.watch = &watchModel
	}

	if m.watch.BackToMenu() {
		m.opts.Tracker.swap(nil)
		m.watch = nil
		m.menu = NewMenuModel(m.opts.Items, m.opts.Width, m.opts.Height, false)
		return m, m.menu.Init()
	}

	if m.watch.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	return m, cmd
}

// View renders the current screen.
func (m RemoteModel) View() string {
	if m.quitting {
		return ""
	}
	if m.watch != nil {
		return m.watch.View()
	}
	view := m.menu.View()
	if m.err != nil {
		view += "\n" + colorStyles[core.ColorFailure].Render("Error: "+m.err.Error()) + "\n"
	}
	return view
}
