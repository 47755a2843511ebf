package t2048

import (
	"github.com/vovakirdan/tui-2048/internal/config"
	"github.com/vovakirdan/tui-2048/internal/core"
	"github.com/vovakirdan/tui-2048/internal/registry"
)

// Mode represents the game mode.
type Mode string

const (
	ModeClassic  Mode = "classic"
	ModeCampaign Mode = "campaign"
)

// Game IDs used by the registry, score table and persistence keys.
const (
	ClassicID  = "2048"
	CampaignID = "2048_campaign"

	classicTitle  = "2048"
	campaignTitle = "2048 (Campaign)"
)

// Game adapts a Session to the platform: it maps input actions onto session
// operations, runs the slide and pop animations, and tracks campaign levels.
type Game struct {
	mode    Mode
	env     registry.Env
	cfg     config.T2048Config
	session *Session
	tick    uint64

	listeners []Listener
	inMove    bool         // Set while a move is applied so spawns can be animated
	spawned   *TileSpawned // Tile spawned by the move in progress

	// Screen dimensions
	screenW int
	screenH int

	// Game state flags
	paused          bool
	tooSmall        bool
	levelCleared    bool
	levelClearTicks int
	won             bool

	cursor Cell // Break mode selection

	anim animator
}

// New creates a classic 2048 game.
func New(env registry.Env) *Game {
	return newGame(ModeClassic, env)
}

// NewCampaign creates a campaign mode 2048 game.
func NewCampaign(env registry.Env) *Game {
	return newGame(ModeCampaign, env)
}

func newGame(mode Mode, env registry.Env) *Game {
	cfg := config.Normalize(env.Config)
	return &Game{
		mode: mode,
		env:  env,
		cfg:  cfg,
		anim: newAnimator(cfg.Animation),
	}
}

func init() {
	registry.Register(ClassicID, classicTitle, func(env registry.Env) registry.Game {
		return New(env)
	})
	registry.Register(CampaignID, campaignTitle, func(env registry.Env) registry.Game {
		return NewCampaign(env)
	})
}

// ID returns the game identifier.
func (g *Game) ID() string {
	if g.mode == ModeCampaign {
		return CampaignID
	}
	return ClassicID
}

// Title returns the display name.
func (g *Game) Title() string {
	if g.mode == ModeCampaign {
		return campaignTitle
	}
	return classicTitle
}

// Mode returns the game mode.
func (g *Game) Mode() Mode { return g.mode }

// Session exposes the underlying session.
func (g *Game) Session() *Session { return g.session }

// Subscribe registers a listener for session and campaign events.
func (g *Game) Subscribe(l Listener) {
	if l != nil {
		g.listeners = append(g.listeners, l)
	}
}

func (g *Game) emit(e Event) {
	for _, l := range g.listeners {
		l(e)
	}
}

// onSessionEvent forwards session events and captures the tile spawned by
// a move so it can pop in after the slide.
func (g *Game) onSessionEvent(e Event) {
	if ts, ok := e.(TileSpawned); ok && g.inMove {
		g.spawned = &ts
	}
	g.emit(e)
}

func (g *Game) rules() Rules {
	return Rules{
		Spawn4Prob:   g.cfg.Rules.Spawn4Prob,
		HistoryDepth: g.cfg.Rules.HistoryDepth,
		UndoLimit:    g.cfg.Rules.UndoLimit,
		BreakLimit:   g.cfg.Rules.BreakLimit,
	}
}

// Reset resumes the saved game on the first call and starts a new one on
// every later call.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	g.tick = 0
	g.paused = false
	g.levelCleared = false
	g.levelClearTicks = 0
	g.won = false
	g.cursor = Cell{}
	g.anim.stop()
	g.Resize(cfg.ScreenW, cfg.ScreenH)

	if g.session == nil {
		var persister *Persister
		if g.env.Store != nil {
			persister = NewPersister(g.env.Store, g.env.KeyPrefix(g.ID()))
		}
		g.session = NewSession(SessionConfig{
			Rules:     g.rules(),
			Seed:      cfg.Seed,
			Persister: persister,
			Logger:    g.env.Logger,
		})
		g.session.Subscribe(g.onSessionEvent)

		if g.mode == ModeCampaign && g.env.StartLevel > 0 {
			g.startCampaign(g.env.StartLevel)
			return
		}
		g.session.Resume()
		if g.mode == ModeCampaign {
			if g.session.Level() < 1 {
				g.session.SetLevel(1)
			}
			g.applyLevel()
		}
		return
	}

	if g.mode == ModeCampaign {
		g.startCampaign(max(g.env.StartLevel, 1))
		return
	}
	g.session.NewGame()
}

// startCampaign begins a fresh campaign at the given 1-indexed level.
func (g *Game) startCampaign(level int) {
	level = core.Clamp(level, 1, LevelCount())
	g.session.SetLevel(level)
	g.applyLevel()
	g.session.NewGame()
}

// applyLevel sets the spawn probability of the current campaign level.
func (g *Game) applyLevel() {
	lvl, ok := LevelAt(g.session.Level())
	if !ok {
		return
	}
	g.session.SetSpawn4Prob(config.ScaleSpawn4(lvl.Spawn4, g.cfg.Campaign.Spawn4Scale))
}

// Resize updates the screen dimensions.
func (g *Game) Resize(w, h int) {
	g.screenW = w
	g.screenH = h
	g.checkScreenSize()
}

// checkScreenSize checks if the screen is large enough.
func (g *Game) checkScreenSize() {
	g.tooSmall = g.screenW < minScreenW || g.screenH < minScreenH
}

// Step advances the game by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	g.tick++

	// Handle window size check
	if g.tooSmall || g.session == nil {
		return core.StepResult{State: g.State()}
	}

	// Handle pause
	if in.Has(core.ActionPause) && !g.over() {
		g.paused = !g.paused
	}

	if g.paused {
		return core.StepResult{State: g.State()}
	}

	// Input arriving mid-animation is dropped
	if g.anim.busy() {
		g.anim.step()
		return core.StepResult{State: g.State()}
	}

	// Handle level cleared pause
	if g.levelCleared {
		g.levelClearTicks++
		if g.levelClearTicks >= g.cfg.Animation.LevelClearTicks {
			g.advanceLevel()
		}
		return core.StepResult{State: g.State()}
	}

	// Restart is handled by the platform through Reset
	if g.over() {
		return core.StepResult{State: g.State()}
	}

	switch {
	case in.Has(core.ActionNewGame):
		g.session.OnNewGameRequested()
		g.cursor = Cell{}
	case in.Has(core.ActionUndo):
		g.session.OnUndoRequested()
	case in.Has(core.ActionBreak):
		if g.session.OnBreakModeRequested() {
			g.cursor = g.firstTile()
		}
	case g.session.BreakMode():
		g.stepBreakMode(in)
	default:
		if dir, ok := directionFrom(in); ok {
			g.move(dir)
		}
	}

	return core.StepResult{State: g.State()}
}

// stepBreakMode moves the selection cursor and breaks the chosen tile.
func (g *Game) stepBreakMode(in core.InputFrame) {
	if in.Click != nil {
		if cell, ok := g.CellAt(in.Click.X, in.Click.Y); ok {
			g.cursor = cell
			g.session.OnTileSelected(cell.Row, cell.Col)
		}
		return
	}

	switch {
	case in.Has(core.ActionConfirm):
		g.session.OnTileSelected(g.cursor.Row, g.cursor.Col)
	case in.Has(core.ActionBack):
		g.session.OnBreakModeRequested()
	case in.Has(core.ActionUp):
		g.cursor.Row = core.Clamp(g.cursor.Row-1, 0, BoardSize-1)
	case in.Has(core.ActionDown):
		g.cursor.Row = core.Clamp(g.cursor.Row+1, 0, BoardSize-1)
	case in.Has(core.ActionLeft):
		g.cursor.Col = core.Clamp(g.cursor.Col-1, 0, BoardSize-1)
	case in.Has(core.ActionRight):
		g.cursor.Col = core.Clamp(g.cursor.Col+1, 0, BoardSize-1)
	}
}

// directionFrom maps movement actions to a direction.
func directionFrom(in core.InputFrame) (Direction, bool) {
	switch {
	case in.Has(core.ActionUp):
		return DirUp, true
	case in.Has(core.ActionDown):
		return DirDown, true
	case in.Has(core.ActionLeft):
		return DirLeft, true
	case in.Has(core.ActionRight):
		return DirRight, true
	}
	return 0, false
}

// firstTile returns the first non-empty cell in row-major order.
func (g *Game) firstTile() Cell {
	board := g.session.Board()
	for y := range BoardSize {
		for x := range BoardSize {
			if board[y][x] != 0 {
				return Cell{Row: y, Col: x}
			}
		}
	}
	return Cell{}
}

// move applies a direction and starts the slide animation.
func (g *Game) move(dir Direction) {
	g.spawned = nil
	g.inMove = true
	res := g.session.OnDirectionalInput(dir)
	g.inMove = false

	if !res.Moved {
		return
	}

	// Check for level target (campaign only)
	if g.mode == ModeCampaign && !g.session.GameOver() {
		if lvl, ok := LevelAt(g.session.Level()); ok && lvl.Cleared(g.session.Board()) {
			g.levelCleared = true
			g.levelClearTicks = 0
			g.emit(LevelCleared{Level: lvl.Number, Target: lvl.Target})
		}
	}

	if g.cfg.Animation.Enabled {
		g.anim.start(res.Slides, g.spawned)
	}
	g.spawned = nil
}

// advanceLevel moves to the next level, or wins the campaign after the last.
func (g *Game) advanceLevel() {
	g.levelCleared = false
	g.levelClearTicks = 0

	if g.session.Level() >= LevelCount() {
		// Completed all levels
		g.won = true
		g.emit(CampaignWon{Score: g.session.Score(), MaxTile: MaxTile(g.session.Board())})
		g.session.Finish()
		return
	}

	// Keep current board and score - just update target
	g.session.SetLevel(g.session.Level() + 1)
	g.applyLevel()
}

// Animating reports whether an animation is in flight.
func (g *Game) Animating() bool { return g.anim.busy() }

// over reports whether the game has ended by lock-up or campaign win.
func (g *Game) over() bool {
	return g.won || (g.session != nil && g.session.GameOver())
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	if g.session == nil {
		return core.GameState{Paused: g.tooSmall}
	}
	return core.GameState{
		Score:     g.session.Score(),
		HighScore: g.session.HighScore(),
		GameOver:  g.over(),
		Paused:    g.paused || g.tooSmall || g.levelCleared,
	}
}

// Target returns the current campaign target, 0 in classic mode.
func (g *Game) Target() int {
	if g.mode != ModeCampaign || g.session == nil {
		return 0
	}
	if lvl, ok := LevelAt(g.session.Level()); ok {
		return lvl.Target
	}
	return 0
}
