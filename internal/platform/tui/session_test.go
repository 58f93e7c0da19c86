package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/neon-runner/internal/config"
	"github.com/vovakirdan/neon-runner/internal/core"
	"github.com/vovakirdan/neon-runner/internal/runner"
)

// quietPolicy never spawns within a test's time frame.
var quietPolicy = runner.FlatPolicy{BaseInterval: time.Hour, BaseSpeed: 600}

// lateCollider reports a hit for every enemy once after has passed.
type lateCollider struct {
	after time.Time
}

func (c lateCollider) Collides(core.Vec2, float64, runner.Enemy) bool {
	return time.Now().After(c.after)
}

func (c lateCollider) Name() string { return "late" }

func testOptions() Options {
	return Options{
		Config:   config.DefaultRunnerConfig(),
		Seed:     42,
		Policy:   quietPolicy,
		Username: "neo",
		UserID:   "id-neo",
	}
}

func newTestGame(t *testing.T, opts Options) GameModel {
	t.Helper()
	m, err := NewGameModel(opts, config.TierNormal, 60, 30)
	if err != nil {
		t.Fatalf("NewGameModel: %v", err)
	}
	t.Cleanup(m.stop)
	return m
}

func updateGame(m GameModel, msg tea.Msg) (GameModel, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(GameModel), cmd
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestGameModelInput(t *testing.T) {
	m := newTestGame(t, testOptions())
	sess := m.Session()

	m, _ = updateGame(m, tea.KeyMsg{Type: tea.KeyRight})
	if sess.Lane() != 2 {
		t.Errorf("lane after right = %d, want 2", sess.Lane())
	}
	m, _ = updateGame(m, runes("1"))
	if sess.Lane() != 0 {
		t.Errorf("lane after 1 = %d, want 0", sess.Lane())
	}

	// Back is ignored while playing.
	m, _ = updateGame(m, runes("b"))
	if m.BackToMenu() {
		t.Error("back accepted while playing")
	}

	m, _ = updateGame(m, runes("p"))
	if sess.State() != runner.StatePaused {
		t.Fatalf("state after p = %v, want Paused", sess.State())
	}
	m, _ = updateGame(m, runes("b"))
	if !m.BackToMenu() {
		t.Error("back should be accepted while paused")
	}
}

func TestGameModelMouseTap(t *testing.T) {
	m := newTestGame(t, testOptions())

	m, _ = updateGame(m, tea.MouseMsg{X: 55, Y: 10, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if m.Session().Lane() != 2 {
		t.Errorf("tap on the right third: lane %d, want 2", m.Session().Lane())
	}
	m, _ = updateGame(m, tea.MouseMsg{X: 2, Y: 10, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	if m.Session().Lane() != 2 {
		t.Error("release should not move the player")
	}
	m, _ = updateGame(m, tea.MouseMsg{X: 2, Y: 10, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if m.Session().Lane() != 0 {
		t.Errorf("tap on the left third: lane %d, want 0", m.Session().Lane())
	}
}

func TestGameModelFramesAndQuit(t *testing.T) {
	m := newTestGame(t, testOptions())

	cmd := m.Init()
	msg := cmd()
	frame, ok := msg.(FrameMsg)
	if !ok {
		t.Fatalf("first command returned %T, want FrameMsg", msg)
	}

	m, cmd = updateGame(m, frame)
	if cmd == nil {
		t.Error("model should keep waiting for frames")
	}
	if !strings.Contains(m.View(), "NORMAL") {
		t.Error("view should show the mode in the HUD")
	}

	m, cmd = updateGame(m, runes("q"))
	if !m.IsQuitting() || cmd == nil {
		t.Error("q should quit")
	}
	if m.game.Scheduler.Running() {
		t.Error("scheduler still running after quit")
	}
	if m.View() != "" {
		t.Error("quitting model should render nothing")
	}
}

func TestGameModelRecordsScore(t *testing.T) {
	store := openTestStore(t)
	opts := testOptions()
	opts.Store = store
	opts.Policy = runner.FlatPolicy{BaseInterval: 20 * time.Millisecond, BaseSpeed: 10}
	opts.Collider = lateCollider{after: time.Now().Add(300 * time.Millisecond)}

	m := newTestGame(t, opts)
	m.Init()

	waitFor(t, "game over", func() bool { return m.Session().State() == runner.StateGameOver })
	waitFor(t, "recorded score", func() bool {
		scores, err := store.TopScores(context.Background(), "NORMAL", 10)
		return err == nil && len(scores) == 1
	})

	scores, _ := store.TopScores(context.Background(), "NORMAL", 10)
	got := scores[0]
	if got.Username != "neo" || got.UserID != "id-neo" || got.Score != m.Session().Score() {
		t.Errorf("recorded %+v, session score %d", got, m.Session().Score())
	}
}

func updateSession(m SessionModel, msg tea.Msg) (SessionModel, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(SessionModel), cmd
}

func TestSessionModelFlow(t *testing.T) {
	opts := testOptions()
	opts.Store = openTestStore(t)
	m := NewSessionModel(opts, core.RuntimeConfig{ScreenW: 80, ScreenH: 24})
	t.Cleanup(m.Close)

	if !strings.Contains(m.View(), "Select a mode") {
		t.Fatal("session should open on the mode picker")
	}

	m, _ = updateSession(m, tea.KeyMsg{Type: tea.KeyDown})
	m, cmd := updateSession(m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.view != viewGame || m.gameModel == nil || cmd == nil {
		t.Fatal("enter should start a run")
	}
	if m.gameModel.Session().Tier() != config.TierHard {
		t.Errorf("tier = %s, want HARD", m.gameModel.Session().Tier())
	}

	m, _ = updateSession(m, runes("p"))
	m, _ = updateSession(m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.view != viewMenu || m.gameModel != nil {
		t.Fatal("esc while paused should return to the menu")
	}
	if m.menu.cursor != 1 {
		t.Errorf("menu cursor = %d, want the last played mode", m.menu.cursor)
	}

	m, _ = updateSession(m, tea.KeyMsg{Type: tea.KeyTab})
	if m.view != viewScores || m.scoreboard.Mode() != config.TierHard {
		t.Fatal("tab should open the scoreboard on the last played mode")
	}
	m, _ = updateSession(m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.view != viewMenu {
		t.Fatal("esc should leave the scoreboard")
	}

	m, cmd = updateSession(m, runes("q"))
	if cmd == nil || m.View() != "" {
		t.Error("q should end the session")
	}
}

func TestSessionModelDirectTier(t *testing.T) {
	opts := testOptions()
	opts.Tier = config.TierExtreme
	m := NewSessionModel(opts, core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 30})
	t.Cleanup(m.Close)

	if m.opts.FPS != 30 {
		t.Errorf("FPS = %d, want the runtime tick rate", m.opts.FPS)
	}

	msg := m.Init()()
	m, _ = updateSession(m, msg)
	if m.gameModel == nil || m.gameModel.Session().Tier() != config.TierExtreme {
		t.Fatal("session should start the requested tier")
	}

	m.Close()
	if m.gameModel.game.Scheduler.Running() {
		t.Error("Close should stop the scheduler")
	}
}
