package tui

import (
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/neon-runner/internal/config"
	"github.com/vovakirdan/neon-runner/internal/core"
	"github.com/vovakirdan/neon-runner/internal/loop"
	"github.com/vovakirdan/neon-runner/internal/render"
	"github.com/vovakirdan/neon-runner/internal/runner"
	"github.com/vovakirdan/neon-runner/internal/storage"
)

// Options configure a terminal session, local or over SSH.
type Options struct {
	Config   config.RunnerConfig
	Tier     config.Tier // empty shows the mode picker first
	Seed     int64       // 0 uses the current time
	FPS      int         // target frames per second; 0 uses the config frame budget
	Debug    bool
	Store    *storage.Store // nil disables score recording
	Username string
	UserID   string
	Logger   *log.Logger

	// Simulation overrides, mainly for tests.
	Policy   runner.DifficultyPolicy
	Collider runner.Collider

	pending *sync.WaitGroup // score writes still in flight
}

func (o Options) logger() *log.Logger {
	if o.Logger == nil {
		return log.New(io.Discard)
	}
	return o.Logger
}

func (o Options) recorder() runner.ScoreRecorder {
	if o.Store == nil {
		return nil
	}
	return o.Store
}

// frameBudget converts a target FPS to a scheduler frame budget.
func frameBudget(fps int) time.Duration {
	if fps <= 0 {
		return 0
	}
	return time.Second / time.Duration(fps)
}

// helpHeight is the number of rows below the playfield.
const helpHeight = 1

// GameModel runs one tier of the runner inside Bubble Tea. The simulation
// runs on the scheduler goroutine; the model only forwards input and shows
// the frames it receives.
type GameModel struct {
	opts     Options
	tier     config.Tier
	game     *runner.Game
	frames   *frameBridge
	renderer *render.Renderer
	screen   *core.Screen
	keys     KeyMap
	help     help.Model
	snap     runner.Snapshot
	hasFrame bool

	quitting   bool
	backToMenu bool
}

// NewGameModel creates a game for the given tier on a width x height
// terminal. The scheduler starts in Init.
func NewGameModel(opts Options, tier config.Tier, width, height int) (GameModel, error) {
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	logger := opts.logger()
	frames := newFrameBridge()

	listener := runner.ListenerFuncs{
		GameOver: func(score, seconds int) {
			logger.Info("game over", "user", opts.Username, "mode", tier, "score", score, "seconds", seconds)
			if score <= 0 {
				return
			}
			done := runner.RecordAsync(opts.recorder(), runner.ScoreRecord{
				UserID:      opts.UserID,
				Username:    opts.Username,
				Score:       score,
				TimeSeconds: seconds,
				Mode:        string(tier),
				Timestamp:   time.Now(),
			}, runner.DefaultRecordTimeout, logger)
			if opts.pending != nil {
				opts.pending.Add(1)
				go func() {
					<-done
					opts.pending.Done()
				}()
			}
		},
	}

	game, err := runner.NewGame(runner.Options{
		Config:   opts.Config,
		Tier:     tier,
		Seed:     seed,
		Policy:   opts.Policy,
		Collider: opts.Collider,
		Sink:     frames,
		Listener: listener,
		Logger:   logger,
	}, loop.Options{
		FrameBudget: frameBudget(opts.FPS),
		Logger:      logger,
	})
	if err != nil {
		return GameModel{}, err
	}

	h := help.New()
	h.Width = width
	return GameModel{
		opts:     opts,
		tier:     tier,
		game:     game,
		frames:   frames,
		renderer: render.New(render.Options{Debug: opts.Debug}),
		screen:   core.NewScreen(width, core.Max(height-helpHeight, 0)),
		keys:     DefaultKeyMap(),
		help:     h,
	}, nil
}

// Init starts the simulation and waits for the first frame.
func (m GameModel) Init() tea.Cmd {
	m.game.Start()
	return m.frames.wait()
}

// Update handles messages and updates the model state.
func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case FrameMsg:
		m.snap = msg.Snapshot
		m.hasFrame = true
		if m.quitting || m.backToMenu {
			return m, nil
		}
		return m, m.frames.wait()

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.WindowSizeMsg:
		m.screen.Resize(msg.Width, core.Max(msg.Height-helpHeight, 0))
		m.help.Width = msg.Width
		return m, nil
	}
	return m, nil
}

// handleKey processes keyboard input.
func (m GameModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	sess := m.game.Session

	switch {
	case key.Matches(msg, m.keys.Debug):
		m.renderer.SetDebug(!m.renderer.Debug())
		return m, nil
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	switch action := m.keys.Action(msg); action {
	case core.ActionQuit:
		m.stop()
		m.quitting = true
		return m, tea.Quit

	case core.ActionLaneLeft:
		sess.ShiftLane(-1)

	case core.ActionLaneRight:
		sess.ShiftLane(1)

	case core.ActionLane0, core.ActionLane1, core.ActionLane2:
		lane, _ := action.DirectLane()
		sess.MoveToLane(lane)

	case core.ActionPause:
		sess.TogglePause()

	case core.ActionRestart:
		if sess.State() == runner.StateGameOver {
			if err := m.game.Restart(); err != nil {
				m.opts.logger().Warn("restart did not stop the previous run cleanly", "error", err)
			}
		}

	case core.ActionBack:
		if sess.State() != runner.StatePlaying {
			m.stop()
			m.backToMenu = true
		}
	}
	return m, nil
}

// handleMouse maps clicks to tap zones: the left, middle and right thirds
// of the screen select a lane.
func (m GameModel) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}
	w := m.screen.Width()
	if w <= 0 {
		return m, nil
	}
	worldW := m.game.Session.Config().World.Width
	m.game.Session.TapAt((float64(msg.X) + 0.5) * worldW / float64(w))
	return m, nil
}

// stop halts the scheduler and releases the frame wait.
func (m GameModel) stop() {
	if err := m.game.Close(); err != nil {
		m.opts.logger().Warn("scheduler did not stop in time", "error", err)
	}
	m.frames.close()
}

// View renders the latest frame and the help line.
func (m GameModel) View() string {
	if m.quitting {
		return ""
	}
	snap := m.snap
	if !m.hasFrame {
		snap = m.game.Session.Snapshot()
	}
	m.renderer.Render(m.screen, snap)
	return RenderScreen(m.screen) + "\n" + m.help.View(m.keys)
}

// Session returns the underlying runner session.
func (m GameModel) Session() *runner.Session {
	return m.game.Session
}

// IsQuitting returns true if user requested to quit entirely.
func (m GameModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to the mode picker.
func (m GameModel) BackToMenu() bool {
	return m.backToMenu
}
