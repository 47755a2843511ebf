package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/vovakirdan/tui-2048/internal/config"
	"github.com/vovakirdan/tui-2048/internal/core"
	"github.com/vovakirdan/tui-2048/internal/logging"
	"github.com/vovakirdan/tui-2048/internal/registry"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23234").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.t2048/host_key.
	HostKeyPath string

	// DBPath is the path to the scores and saved games database.
	DBPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration

	// TickRate is the simulation rate of every session.
	TickRate int

	// Game configures every 2048 session.
	Game config.T2048Config

	// Logger receives server and session logs. nil logs to stderr.
	Logger *log.Logger
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23234",
		DBPath:      "~/.t2048/scores.db",
		IdleTimeout: 30 * time.Minute,
		TickRate:    core.DefaultTickRate,
		Game:        config.DefaultT2048Config(),
	}
}

// SSHServer serves one independent game session per SSH connection.
// Players share only the database: saved games are keyed by SSH user.
type SSHServer struct {
	config   SSHServerConfig
	server   *ssh.Server
	store    *storage.Store
	kv       storage.KV
	logger   *log.Logger
	sessions *connRegistry
}

// NewSSHServer creates a new SSH server with the given configuration.
func NewSSHServer(cfg SSHServerConfig) (*SSHServer, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.New(os.Stderr, "t2048-ssh", "info")
	}
	if cfg.TickRate <= 0 {
		cfg.TickRate = core.DefaultTickRate
	}

	srv := &SSHServer{
		config:   cfg,
		logger:   logger,
		sessions: newConnRegistry(),
	}

	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		logger.Warn("could not open database, games will not survive a restart", "error", err)
		srv.kv = storage.NewMemory()
	} else {
		srv.store = store
		srv.kv = store
	}

	// Resolve host key path
	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			srv.closeStore()
			return nil, fmt.Errorf("cannot get home directory: %w", homeErr)
		}
		hostKeyPath = filepath.Join(home, ".t2048", "host_key")
	}

	if mkdirErr := os.MkdirAll(filepath.Dir(hostKeyPath), 0o700); mkdirErr != nil {
		srv.closeStore()
		return nil, fmt.Errorf("cannot create host key directory: %w", mkdirErr)
	}

	server, err := wish.NewServer(
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.loggingMiddleware,
		),
	)
	if err != nil {
		srv.closeStore()
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// teaHandler creates a Bubble Tea program for each SSH session.
func (s *SSHServer) teaHandler(sess ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sess.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sess.User())
		return nil, nil
	}

	cfg := core.RuntimeConfig{
		ScreenW:  pty.Window.Width,
		ScreenH:  pty.Window.Height,
		TickRate: s.config.TickRate,
		Seed:     time.Now().UnixNano(),
	}

	id := sessionID(sess)
	env := registry.Env{
		Store:  s.kv,
		Owner:  sess.User(),
		Logger: s.logger.With("session", id, "user", sess.User()),
		Config: s.config.Game,
	}

	model := NewSessionModel(id, env, s.store, cfg, NewScreenRenderer(bubbletea.MakeRenderer(sess)))
	return model, []tea.ProgramOption{
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	}
}

// sessionID returns the id assigned to sess by the logging middleware.
func sessionID(sess ssh.Session) string {
	if id, ok := sess.Context().Value(sessionIDKey{}).(string); ok {
		return id
	}
	return uuid.NewString()
}

type sessionIDKey struct{}

// loggingMiddleware assigns a session id and logs connects and disconnects.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		id := uuid.NewString()
		sess.Context().SetValue(sessionIDKey{}, id)

		active := s.sessions.add(id, sess.User())
		s.logger.Info("session started",
			"session", id,
			"user", sess.User(),
			"remote", sess.RemoteAddr().String(),
			"active", active,
		)
		next(sess)
		active = s.sessions.remove(id)
		s.logger.Info("session ended",
			"session", id,
			"user", sess.User(),
			"active", active,
		)
	}
}

// ListenAndServe starts the SSH server and blocks until ctx is cancelled,
// SIGINT or SIGTERM arrives, or the listener fails.
func (s *SSHServer) ListenAndServe(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	s.logger.Info("starting SSH server", "address", s.config.Address)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			return fmt.Errorf("ssh server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		s.logger.Info("shutting down...")
		return s.Shutdown()
	})
	return g.Wait()
}

// Shutdown gracefully stops the server.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := s.server.Shutdown(ctx)
	s.closeStore()
	if errors.Is(err, ssh.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *SSHServer) closeStore() {
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			s.logger.Warn("closing database", "error", err)
		}
		s.store = nil
	}
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}

// Active returns the number of connected sessions.
func (s *SSHServer) Active() int {
	return s.sessions.count()
}

// connRegistry tracks connected sessions.
// Thread-safe for concurrent access.
type connRegistry struct {
	mu    sync.RWMutex
	users map[string]string // session id -> SSH user
}

func newConnRegistry() *connRegistry {
	return &connRegistry{users: make(map[string]string)}
}

func (r *connRegistry) add(id, user string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[id] = user
	return len(r.users)
}

func (r *connRegistry) remove(id string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id)
	return len(r.users)
}

func (r *connRegistry) count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.users)
}

// sessionView is the screen a session is showing.
type sessionView int

const (
	viewMenu sessionView = iota
	viewGame
	viewScores
)

// SessionModel manages one connection's flow: menu -> game or scores -> menu.
// This is the top-level model used for SSH sessions.
type SessionModel struct {
	id       string
	env      registry.Env
	scores   *storage.Store
	renderer *ScreenRenderer
	config   core.RuntimeConfig
	view     sessionView
	menu     MenuModel
	game     *Model
	board    *ScoreboardModel
	quitting bool
}

// NewSessionModel creates a new session model.
func NewSessionModel(id string, env registry.Env, scores *storage.Store, cfg core.RuntimeConfig, renderer *ScreenRenderer) SessionModel {
	if env.Logger == nil {
		env.Logger = logging.Discard()
	}
	return SessionModel{
		id:       id,
		env:      env,
		scores:   scores,
		renderer: renderer,
		config:   cfg,
		menu:     NewMenuModel(scores, cfg),
	}
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Handle window resize globally
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.config.ScreenW = wsm.Width
		m.config.ScreenH = wsm.Height
	}

	switch m.view {
	case viewGame:
		return m.updateGame(msg)
	case viewScores:
		return m.updateScores(msg)
	default:
		return m.updateMenu(msg)
	}
}

// updateMenu handles updates when in menu mode.
func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	newMenu, cmd := m.menu.Update(msg)
	if menuModel, ok := newMenu.(MenuModel); ok {
		m.menu = menuModel
	}

	res := m.menu.Result()
	switch {
	case res.WantsScoreboard:
		board := NewScoreboardModel(m.scores, ScoreboardOptions{
			Player:   m.env.Owner,
			Renderer: m.renderer.Lipgloss(),
			Width:    m.config.ScreenW,
			Height:   m.config.ScreenH,
		})
		m.board = &board
		m.view = viewScores
		return m, m.board.Init()

	case res.GameID != "":
		env := m.env
		env.StartLevel = res.StartLevel
		game, err := registry.Create(res.GameID, env)
		if err != nil {
			m.env.Logger.Error("cannot create game", "game", res.GameID, "err", err)
			m.menu = NewMenuModel(m.scores, m.config)
			return m, nil
		}

		m.config.Seed = time.Now().UnixNano()
		model := NewModel(game, m.config, ModelOptions{
			Scores:   m.scores,
			Owner:    m.env.Owner,
			Logger:   m.env.Logger,
			Renderer: m.renderer,
		})
		m.game = &model
		m.view = viewGame
		m.env.Logger.Info("game started", "game", game.ID(), "level", res.StartLevel)
		return m, m.game.Init()

	case m.menu.IsQuitting():
		m.quitting = true
		return m, tea.Quit
	}

	return m, cmd
}

// updateGame handles updates when in game mode.
func (m SessionModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.game.Update(msg)
	if gameModel, ok := newModel.(Model); ok {
		m.game = &gameModel
	}

	if m.game.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.game.BackToMenu() {
		m.game = nil
		return m.backToMenu()
	}

	return m, cmd
}

// updateScores handles updates when showing the scoreboard.
func (m SessionModel) updateScores(msg tea.Msg) (tea.Model, tea.Cmd) {
	newBoard, cmd := m.board.Update(msg)
	if board, ok := newBoard.(ScoreboardModel); ok {
		m.board = &board
	}

	if m.board.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if m.board.IsGoingBack() {
		m.board = nil
		return m.backToMenu()
	}
	return m, cmd
}

func (m SessionModel) backToMenu() (tea.Model, tea.Cmd) {
	m.view = viewMenu
	m.menu = NewMenuModel(m.scores, m.config)
	return m, m.menu.Init()
}

// View renders the current view.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}
	switch m.view {
	case viewGame:
		return m.game.View()
	case viewScores:
		return m.board.View()
	default:
		return m.menu.View()
	}
}
