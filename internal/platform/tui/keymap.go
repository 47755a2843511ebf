package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-2048/internal/core"
)

// GameKeyMap holds the key bindings of a running game.
type GameKeyMap struct {
	Quit    key.Binding
	Up      key.Binding
	Down    key.Binding
	Left    key.Binding
	Right   key.Binding
	Confirm key.Binding
	Back    key.Binding
	Pause   key.Binding
	Restart key.Binding
	Undo    key.Binding
	Break   key.Binding
	NewGame key.Binding
	Scores  key.Binding
}

// DefaultGameKeyMap returns arrows, WASD and vim keys for sliding plus one
// letter per command.
func DefaultGameKeyMap() GameKeyMap {
	return GameKeyMap{
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
		Up:      key.NewBinding(key.WithKeys("up", "w", "k"), key.WithHelp("↑/w/k", "up")),
		Down:    key.NewBinding(key.WithKeys("down", "s", "j"), key.WithHelp("↓/s/j", "down")),
		Left:    key.NewBinding(key.WithKeys("left", "a", "h"), key.WithHelp("←/a/h", "left")),
		Right:   key.NewBinding(key.WithKeys("right", "d", "l"), key.WithHelp("→/d/l", "right")),
		Confirm: key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "select")),
		Back:    key.NewBinding(key.WithKeys("esc", "b"), key.WithHelp("esc", "back")),
		Pause:   key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "pause")),
		Restart: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "restart")),
		Undo:    key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "undo")),
		Break:   key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "break tile")),
		NewGame: key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new game")),
		Scores:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "scores")),
	}
}

// KeyMapper translates Bubble Tea key and mouse messages to game actions.
type KeyMapper struct {
	keys    GameKeyMap
	actions []boundAction
}

type boundAction struct {
	binding key.Binding
	action  core.Action
}

// NewKeyMapper creates a key mapper with the default bindings.
func NewKeyMapper() *KeyMapper {
	return NewKeyMapperWith(DefaultGameKeyMap())
}

// NewKeyMapperWith creates a key mapper with custom bindings.
func NewKeyMapperWith(keys GameKeyMap) *KeyMapper {
	return &KeyMapper{
		keys: keys,
		actions: []boundAction{
			{keys.Up, core.ActionUp},
			{keys.Down, core.ActionDown},
			{keys.Left, core.ActionLeft},
			{keys.Right, core.ActionRight},
			{keys.Confirm, core.ActionConfirm},
			{keys.Back, core.ActionBack},
			{keys.Pause, core.ActionPause},
			{keys.Restart, core.ActionRestart},
			{keys.Undo, core.ActionUndo},
			{keys.Break, core.ActionBreak},
			{keys.NewGame, core.ActionNewGame},
		},
	}
}

// MapKey translates a key message to a game action.
// Returns the action (may be ActionNone) and whether it's a quit request.
func (km *KeyMapper) MapKey(msg tea.KeyMsg) (action core.Action, isQuit bool) {
	if key.Matches(msg, km.keys.Quit) {
		return core.ActionQuit, true
	}
	for _, b := range km.actions {
		if key.Matches(msg, b.binding) {
			return b.action, false
		}
	}
	return core.ActionNone, false
}

// MapKeyToFrame updates an input frame based on a key message.
// Returns true if the key was a quit request.
func (km *KeyMapper) MapKeyToFrame(msg tea.KeyMsg, frame *core.InputFrame) bool {
	action, isQuit := km.MapKey(msg)
	if action != core.ActionNone {
		frame.Set(action)
	}
	return isQuit
}

// MapMouseToFrame records a left click in the input frame.
func (km *KeyMapper) MapMouseToFrame(msg tea.MouseMsg, frame *core.InputFrame) {
	if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
		frame.SetClick(msg.X, msg.Y)
	}
}

// MenuAction represents a menu-specific action derived from input.
type MenuAction int

const (
	MenuActionNone MenuAction = iota
	MenuActionUp
	MenuActionDown
	MenuActionSelect
	MenuActionBack
	MenuActionQuit
	MenuActionScoreboard
)

// MapKeyToMenuAction translates a key to a menu action.
func (km *KeyMapper) MapKeyToMenuAction(msg tea.KeyMsg) MenuAction {
	switch {
	case key.Matches(msg, km.keys.Quit):
		return MenuActionQuit
	case key.Matches(msg, km.keys.Up):
		return MenuActionUp
	case key.Matches(msg, km.keys.Down):
		return MenuActionDown
	case key.Matches(msg, km.keys.Confirm):
		return MenuActionSelect
	case key.Matches(msg, km.keys.Back):
		return MenuActionBack
	case key.Matches(msg, km.keys.Scores):
		return MenuActionScoreboard
	}
	return MenuActionNone
}
