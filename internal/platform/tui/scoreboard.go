package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-2048/internal/registry"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

const (
	minWidthForSidebar = 80  // Narrower terminals get mode tabs instead
	sidebarWidth       = 20  // Mode list
	maxScores          = 100 // Rows loaded per mode
)

// ScoreboardKeyMap defines the key bindings for the scoreboard.
type ScoreboardKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	NextMode key.Binding
	PrevMode key.Binding
	Back     key.Binding
	Quit     key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ScoreboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextMode, k.PrevMode, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k ScoreboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextMode, k.PrevMode},
		{k.Back, k.Quit},
	}
}

// DefaultScoreboardKeyMap returns default key bindings.
func DefaultScoreboardKeyMap() ScoreboardKeyMap {
	return ScoreboardKeyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "scroll up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "scroll down")),
		NextMode: key.NewBinding(key.WithKeys("tab", "right", "l"), key.WithHelp("tab", "next mode")),
		PrevMode: key.NewBinding(key.WithKeys("shift+tab", "left", "h"), key.WithHelp("S-tab", "prev mode")),
		Back:     key.NewBinding(key.WithKeys("esc", "b"), key.WithHelp("esc", "back")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ScoreboardOptions configures a scoreboard screen.
type ScoreboardOptions struct {
	Player   string             // Rows of this player are marked
	Renderer *lipgloss.Renderer // nil uses the default renderer
	Width    int
	Height   int
}

// scoreboardStyles are built per renderer so SSH clients get their own
// color profile.
type scoreboardStyles struct {
	title     lipgloss.Style
	dim       lipgloss.Style
	empty     lipgloss.Style
	box       lipgloss.Style
	sidebar   lipgloss.Style
	activeTab lipgloss.Style
	selected  lipgloss.Style
	table     table.Styles
}

func newScoreboardStyles(r *lipgloss.Renderer) scoreboardStyles {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	box := r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	ts := table.DefaultStyles()
	ts.Header = r.NewStyle().
		Padding(0, 1).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	ts.Cell = r.NewStyle().Padding(0, 1)
	ts.Selected = r.NewStyle().
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57"))

	return scoreboardStyles{
		title:     r.NewStyle().Bold(true).Foreground(lipgloss.Color("229")),
		dim:       r.NewStyle().Foreground(lipgloss.Color("241")),
		empty:     r.NewStyle().Foreground(lipgloss.Color("241")).Italic(true).Padding(2, 4),
		box:       box,
		sidebar:   box.Width(sidebarWidth),
		activeTab: r.NewStyle().Bold(true).Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57")).Padding(0, 1),
		selected:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("229")),
		table:     ts,
	}
}

// ScoreboardModel is the Bubble Tea model for the score table screen.
type ScoreboardModel struct {
	modes       []registry.GameInfo
	modeCursor  int
	store       *storage.Store
	player      string
	scores      []storage.ScoreEntry
	stats       *storage.GameStats
	table       table.Model
	help        help.Model
	keys        ScoreboardKeyMap
	styles      scoreboardStyles
	width       int
	height      int
	quitting    bool
	goingBack   bool
	showSidebar bool
}

// NewScoreboardModel creates a new scoreboard model. store may be nil.
func NewScoreboardModel(store *storage.Store, opts ScoreboardOptions) ScoreboardModel {
	m := ScoreboardModel{
		modes:       registry.List(),
		store:       store,
		player:      opts.Player,
		keys:        DefaultScoreboardKeyMap(),
		help:        help.New(),
		styles:      newScoreboardStyles(opts.Renderer),
		width:       opts.Width,
		height:      opts.Height,
		showSidebar: opts.Width >= minWidthForSidebar,
	}
	m.help.Width = opts.Width

	m.table = m.createTable()
	if len(m.modes) > 0 {
		m.loadScores(m.modes[0].ID)
	}
	return m
}

// createTable creates a new table sized to the window.
func (m *ScoreboardModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "Rank", Width: 5},
		{Title: "Score", Width: 8},
		{Title: "Tile", Width: 6},
		{Title: "Player", Width: 10},
		{Title: "Date", Width: 12},
	}

	tableWidth := m.width - 4
	if m.showSidebar {
		tableWidth -= sidebarWidth + 3
	}
	// Spare columns go to the player name
	if extra := tableWidth - 51; extra > 0 {
		columns[3].Width += min(extra, 10)
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.height-10, 3)),
		table.WithStyles(m.styles.table),
	)
	return t
}

// loadScores loads scores and totals for the given mode.
func (m *ScoreboardModel) loadScores(gameID string) {
	m.scores = nil
	m.stats = nil
	if m.store != nil {
		if scores, err := m.store.TopScores(gameID, maxScores); err == nil {
			m.scores = scores
		}
		if stats, err := m.store.GetGameStats(gameID); err == nil {
			m.stats = stats
		}
	}
	m.updateTableRows()
}

// updateTableRows fills the table from the loaded scores.
func (m *ScoreboardModel) updateTableRows() {
	rows := make([]table.Row, len(m.scores))
	for i, s := range m.scores {
		rows[i] = m.row(i+1, s)
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// row formats one score. The player's own games get a star after the rank.
func (m *ScoreboardModel) row(rank int, s storage.ScoreEntry) table.Row {
	owner := s.Owner
	if owner == "" {
		owner = "-"
	}
	rankStr := "#" + strconv.Itoa(rank)
	if m.player != "" && s.Owner == m.player {
		rankStr += "*"
	}
	return table.Row{
		rankStr,
		strconv.Itoa(s.Score),
		strconv.Itoa(s.MaxTile),
		owner,
		s.CreatedAt.Format("Jan 02 15:04"),
	}
}

// Init initializes the scoreboard model.
func (m ScoreboardModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the scoreboard.
func (m ScoreboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.NextMode):
			m.switchMode(1)
			return m, nil

		case key.Matches(msg, m.keys.PrevMode):
			m.switchMode(-1)
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.showSidebar = m.width >= minWidthForSidebar
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	// Up/Down and everything else scroll the table
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// switchMode moves the mode cursor by delta, wrapping around.
func (m *ScoreboardModel) switchMode(delta int) {
	n := len(m.modes)
	if n == 0 {
		return
	}
	m.modeCursor = ((m.modeCursor+delta)%n + n) % n
	m.loadScores(m.modes[m.modeCursor].ID)
}

// Mode returns the ID of the mode on display, "" without modes.
func (m ScoreboardModel) Mode() string {
	if len(m.modes) == 0 {
		return ""
	}
	return m.modes[m.modeCursor].ID
}

// View renders the scoreboard.
func (m ScoreboardModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder

	title := "HIGH SCORES"
	if len(m.modes) > 0 {
		title = fmt.Sprintf("HIGH SCORES - %s", m.modes[m.modeCursor].Title)
	}
	b.WriteString(m.styles.title.Render(centerText(title, m.width)))
	b.WriteString("\n")
	b.WriteString(centerText(m.statsLine(), m.width))
	b.WriteString("\n\n")

	if m.showSidebar {
		b.WriteString(m.renderWideLayout())
	} else {
		b.WriteString(m.renderNarrowLayout())
	}

	b.WriteString("\n")
	b.WriteString(m.styles.dim.Render(m.help.View(m.keys)))
	return b.String()
}

// statsLine summarizes all recorded games of the current mode.
func (m ScoreboardModel) statsLine() string {
	if m.stats == nil || m.stats.GamesCount == 0 {
		return ""
	}
	return fmt.Sprintf("Games: %d  Best: %d  Best tile: %d  Avg: %.0f",
		m.stats.GamesCount, m.stats.HighScore, m.stats.BestTile, m.stats.AvgScore)
}

// renderWideLayout puts the mode list left of the table.
func (m ScoreboardModel) renderWideLayout() string {
	var sidebar strings.Builder
	sidebar.WriteString("Modes\n")
	sidebar.WriteString(strings.Repeat("-", sidebarWidth-4))
	sidebar.WriteString("\n")

	for i, g := range m.modes {
		name := g.Title
		if maxLen := sidebarWidth - 6; len(name) > maxLen {
			name = name[:maxLen-1] + "."
		}
		if i == m.modeCursor {
			sidebar.WriteString(m.styles.selected.Render("> " + name))
		} else {
			sidebar.WriteString("  " + name)
		}
		sidebar.WriteString("\n")
	}

	return lipgloss.JoinHorizontal(lipgloss.Top,
		m.styles.sidebar.Render(sidebar.String()), "  ", m.styles.box.Render(m.renderTableContent()))
}

// renderNarrowLayout puts mode tabs above the table.
func (m ScoreboardModel) renderNarrowLayout() string {
	var b strings.Builder

	tabs := make([]string, len(m.modes))
	for i, g := range m.modes {
		if i == m.modeCursor {
			tabs[i] = m.styles.activeTab.Render(g.Title)
		} else {
			tabs[i] = m.styles.dim.Render(" " + g.Title + " ")
		}
	}

	tabLine := strings.Join(tabs, " ")
	if lipgloss.Width(tabLine) > m.width-4 && len(m.modes) > 0 {
		tabLine = fmt.Sprintf("< %s >", m.modes[m.modeCursor].Title)
	}
	b.WriteString(centerText(tabLine, m.width))
	b.WriteString("\n\n")
	b.WriteString(m.styles.box.Render(m.renderTableContent()))

	return b.String()
}

// renderTableContent renders the table or an empty message.
func (m ScoreboardModel) renderTableContent() string {
	if len(m.scores) == 0 {
		return m.styles.empty.Render("No games recorded yet.\nFinish a game to set a high score!")
	}
	return m.table.View()
}

// IsGoingBack returns true if user wants to go back to menu.
func (m ScoreboardModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m ScoreboardModel) IsQuitting() bool {
	return m.quitting
}

// RunScoreboard runs the scoreboard screen.
// Returns true if user wants to go back to menu, false if quitting.
func RunScoreboard(store *storage.Store, opts ScoreboardOptions) (goBack bool, err error) {
	p := tea.NewProgram(
		NewScoreboardModel(store, opts),
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}

	m, ok := finalModel.(ScoreboardModel)
	if !ok {
		return false, nil
	}
	return m.IsGoingBack(), nil
}
