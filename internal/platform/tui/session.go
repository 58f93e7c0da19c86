package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/neon-runner/internal/config"
	"github.com/vovakirdan/neon-runner/internal/core"
)

type sessionView int

const (
	viewMenu sessionView = iota
	viewGame
	viewScores
)

// SessionModel manages the full terminal session flow:
// menu -> game -> menu, with the scoreboard reachable from the menu.
// It is the top-level model for both local and SSH sessions.
type SessionModel struct {
	opts       Options
	rt         core.RuntimeConfig
	view       sessionView
	menu       MenuModel
	scoreboard ScoreboardModel
	gameModel  *GameModel
	active     *activeGame
	lastTier   config.Tier
	err        error
	quitting   bool
}

// NewSessionModel creates a session on the surface described by rt. When
// opts.Tier is set the menu is skipped and the run starts immediately.
func NewSessionModel(opts Options, rt core.RuntimeConfig) SessionModel {
	if opts.FPS == 0 {
		opts.FPS = rt.TickRate
	}
	if opts.Seed == 0 {
		opts.Seed = rt.Seed
	}
	if opts.pending == nil {
		opts.pending = &sync.WaitGroup{}
	}
	m := SessionModel{
		opts:     opts,
		rt:       rt,
		lastTier: config.TierNormal,
		active:   &activeGame{},
		menu:     NewMenuModel(opts.Store, opts.Config, rt.ScreenW, rt.ScreenH),
	}
	if opts.Tier != "" {
		m.lastTier = opts.Tier
		m.view = viewGame
	}
	return m
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	if m.view == viewGame {
		return m.startGame(m.lastTier)
	}
	return m.menu.Init()
}

// startGame defers building the run to Update, where the model can change.
func (m SessionModel) startGame(tier config.Tier) tea.Cmd {
	return func() tea.Msg { return startGameMsg{tier: tier} }
}

type startGameMsg struct {
	tier config.Tier
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.rt.ScreenW = wsm.Width
		m.rt.ScreenH = wsm.Height
	}

	if start, ok := msg.(startGameMsg); ok {
		return m.enterGame(start.tier)
	}

	switch m.view {
	case viewGame:
		if m.gameModel != nil {
			return m.updateGame(msg)
		}
		return m, nil
	case viewScores:
		return m.updateScores(msg)
	}
	return m.updateMenu(msg)
}

// enterGame builds and starts a run of tier.
func (m SessionModel) enterGame(tier config.Tier) (tea.Model, tea.Cmd) {
	gm, err := NewGameModel(m.opts, tier, m.rt.ScreenW, m.rt.ScreenH)
	if err != nil {
		m.opts.logger().Error("cannot start game", "mode", tier, "error", err)
		m.err = err
		m.quitting = true
		return m, tea.Quit
	}
	m.lastTier = tier
	m.gameModel = &gm
	m.active.set(&gm)
	m.view = viewGame
	return m, m.gameModel.Init()
}

// updateMenu handles updates when in menu mode.
func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	newMenu, cmd := m.menu.Update(msg)
	if menuModel, ok := newMenu.(MenuModel); ok {
		m.menu = menuModel
	}

	if m.menu.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.menu.WantsScoreboard() {
		m.scoreboard = NewScoreboardModel(m.opts.Store, m.lastTier, m.opts.UserID, m.rt.ScreenW, m.rt.ScreenH)
		m.view = viewScores
		return m, m.scoreboard.Init()
	}

	if selected := m.menu.Selected(); selected != nil {
		return m.enterGame(selected.Tier)
	}

	return m, cmd
}

// updateScores handles updates while the scoreboard is shown.
func (m SessionModel) updateScores(msg tea.Msg) (tea.Model, tea.Cmd) {
	newBoard, cmd := m.scoreboard.Update(msg)
	if board, ok := newBoard.(ScoreboardModel); ok {
		m.scoreboard = board
	}

	if m.scoreboard.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if m.scoreboard.IsGoingBack() {
		return m.backToMenu()
	}
	return m, cmd
}

// updateGame handles updates when in game mode.
func (m SessionModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.gameModel.Update(msg)
	if gameModel, ok := newModel.(GameModel); ok {
		m.gameModel = &gameModel
	}

	if m.gameModel.IsQuitting() {
		m.active.set(nil)
		m.quitting = true
		return m, tea.Quit
	}

	if m.gameModel.BackToMenu() {
		m.active.set(nil)
		m.gameModel = nil
		return m.backToMenu()
	}

	return m, cmd
}

// backToMenu rebuilds the menu so best scores are current.
func (m SessionModel) backToMenu() (tea.Model, tea.Cmd) {
	m.menu = NewMenuModel(m.opts.Store, m.opts.Config, m.rt.ScreenW, m.rt.ScreenH)
	for i, item := range m.menu.items {
		if item.Tier == m.lastTier {
			m.menu.cursor = i
		}
	}
	m.view = viewMenu
	return m, m.menu.Init()
}

// View renders the current view.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.view {
	case viewGame:
		if m.gameModel != nil {
			return m.gameModel.View()
		}
		return ""
	case viewScores:
		return m.scoreboard.View()
	}
	return m.menu.View()
}

// Close stops a run that is still in progress and waits for pending score
// writes. It is safe to call on any copy of the model and more than once.
func (m SessionModel) Close() {
	if m.active != nil {
		m.active.stop()
	}
	if m.opts.pending != nil {
		m.opts.pending.Wait()
	}
}

// activeGame tracks the running game across model copies so a dropped
// connection can stop its scheduler.
type activeGame struct {
	mu   sync.Mutex
	game *GameModel
}

func (a *activeGame) set(gm *GameModel) {
	a.mu.Lock()
	a.game = gm
	a.mu.Unlock()
}

func (a *activeGame) stop() {
	a.mu.Lock()
	gm := a.game
	a.game = nil
	a.mu.Unlock()
	if gm != nil {
		gm.stop()
	}
}

// Err returns the error that ended the session, if any.
func (m SessionModel) Err() error {
	return m.err
}

// Run starts a local terminal session.
func Run(opts Options, rt core.RuntimeConfig) error {
	model := NewSessionModel(opts, rt)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	final, err := p.Run()
	model.Close()
	if err != nil {
		return err
	}
	if sm, ok := final.(SessionModel); ok && sm.err != nil {
		return sm.err
	}
	return nil
}
