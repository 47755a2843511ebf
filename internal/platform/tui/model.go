package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-2048/internal/core"
	"github.com/vovakirdan/tui-2048/internal/games/t2048"
	"github.com/vovakirdan/tui-2048/internal/logging"
	"github.com/vovakirdan/tui-2048/internal/registry"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

// eventBufferSize bounds the events queued between two ticks.
const eventBufferSize = 64

// eventSource is implemented by games that publish events.
type eventSource interface {
	Subscribe(l t2048.Listener)
}

// ModelOptions are the collaborators of a game model.
type ModelOptions struct {
	Scores     *storage.Store  // Finished games are recorded here; nil skips it
	Owner      string          // Player name stored with each score
	Logger     *log.Logger     // nil discards log output
	Renderer   *ScreenRenderer // nil uses the default renderer
	Standalone bool            // Quit the program when going back to the menu
}

// Model is the Bubble Tea model that runs one game.
type Model struct {
	game       registry.Game
	screen     *core.Screen
	renderer   *ScreenRenderer
	scores     *storage.Store
	owner      string
	logger     *log.Logger
	sink       *EventSink
	config     core.RuntimeConfig
	inputFrame core.InputFrame
	keyMapper  *KeyMapper
	gameState  core.GameState
	standalone bool
	quitting   bool
	backToMenu bool
}

// NewModel creates a new Bubble Tea model for the given game.
func NewModel(game registry.Game, cfg core.RuntimeConfig, opts ModelOptions) Model {
	cfg = cfg.WithDefaults()
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	renderer := opts.Renderer
	if renderer == nil {
		renderer = defaultScreenRenderer
	}

	m := Model{
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		renderer:   renderer,
		scores:     opts.Scores,
		owner:      opts.Owner,
		logger:     logger,
		config:     cfg,
		inputFrame: core.NewInputFrame(),
		keyMapper:  NewKeyMapper(),
		standalone: opts.Standalone,
	}

	if src, ok := game.(eventSource); ok {
		m.sink = NewEventSink(eventBufferSize)
		src.Subscribe(m.sink.Send)
	}
	return m
}

// Init initializes the model and starts the game.
func (m Model) Init() tea.Cmd {
	m.game.Reset(m.config)
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		m.keyMapper.MapMouseToFrame(msg, &m.inputFrame)
		return m, nil

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		m.saveScreenshot()
		return m, nil
	}

	if m.keyMapper.MapKeyToFrame(msg, &m.inputFrame) {
		m.quitting = true
		m.Close()
		return m, tea.Quit
	}

	// B or Esc leaves the game once it is over or paused
	if m.keyMapper.MapKeyToMenuAction(msg) == MenuActionBack && (m.gameState.GameOver || m.gameState.Paused) {
		m.backToMenu = true
		m.Close()
		if m.standalone {
			return m, tea.Quit
		}
	}

	return m, nil
}

// handleResize keeps the game running at the new size.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.screen.Resize(msg.Width, msg.Height)
	m.game.Resize(msg.Width, msg.Height)
	return m, nil
}

// handleTick processes simulation ticks.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if m.backToMenu || m.quitting {
		return m, nil
	}

	if m.inputFrame.Has(core.ActionRestart) && m.gameState.GameOver {
		m.game.Reset(m.config)
		m.gameState = m.game.State()
		m.drainEvents()
		m.inputFrame.Clear()
		return m, tickCmd(m.config.TickRate)
	}

	result := m.game.Step(m.inputFrame)
	m.gameState = result.State
	m.drainEvents()

	// Clear input for next frame
	m.inputFrame.Clear()

	return m, tickCmd(m.config.TickRate)
}

// drainEvents logs the events of the last step and records finished games.
func (m *Model) drainEvents() {
	if m.sink == nil {
		return
	}
	for _, evt := range m.sink.Drain() {
		m.logger.Debug("game event", "game", m.game.ID(), "event", t2048.EventName(evt))

		switch e := evt.(type) {
		case t2048.GameOver:
			m.recordScore(e.Score, e.MaxTile)
		case t2048.HighScoreBeaten:
			m.logger.Info("new high score", "game", m.game.ID(), "owner", m.owner, "score", e.Score, "previous", e.Previous)
		}
	}
	if n := m.sink.Dropped(); n > 0 {
		m.logger.Debug("events dropped", "count", n)
	}
}

// recordScore stores a finished game. Failures are logged and ignored.
func (m *Model) recordScore(score, maxTile int) {
	if m.scores == nil || score <= 0 {
		return
	}
	if _, err := m.scores.SaveScore(m.game.ID(), m.owner, score, maxTile); err != nil {
		m.logger.Warn("could not save score", "game", m.game.ID(), "err", err)
	}
}

// saveScreenshot saves the current screen to a file.
func (m *Model) saveScreenshot() {
	m.game.Render(m.screen)

	dir, err := logging.ExpandHome(filepath.Join("~", ".t2048", "screenshots"))
	if err != nil {
		m.logger.Warn("screenshot skipped", "err", err)
		return
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		m.logger.Warn("screenshot skipped", "err", err)
		return
	}

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp))
	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.logger.Warn("screenshot skipped", "err", err)
		return
	}
	m.logger.Info("screenshot saved", "path", path)
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	m.game.Render(m.screen)
	return m.renderer.Render(m.screen)
}

// Close stops the event sink.
func (m Model) Close() {
	if m.sink != nil {
		m.sink.Close()
	}
}

// IsQuitting returns true if user requested to quit entirely.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m Model) BackToMenu() bool {
	return m.backToMenu
}

// State returns the game state seen on the last tick.
func (m Model) State() core.GameState {
	return m.gameState
}

// Run starts a standalone Bubble Tea program for one game.
func Run(game registry.Game, cfg core.RuntimeConfig, opts ModelOptions) error {
	opts.Standalone = true
	model := NewModel(game, cfg, opts)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),       // Use alternate screen buffer
		tea.WithMouseCellMotion(), // Clicks select tiles in break mode
	)

	_, err := p.Run()
	return err
}
