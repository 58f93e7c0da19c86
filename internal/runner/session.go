package runner

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/neon-runner/internal/config"
)

// State is the session lifecycle state.
type State int

const (
	StatePlaying State = iota
	StatePaused
	StateGameOver
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StatePlaying:
		return "Playing"
	case StatePaused:
		return "Paused"
	case StateGameOver:
		return "GameOver"
	default:
		return "Unknown"
	}
}

// Options configures a Session. Zero fields get defaults: the flat or
// configured policy, the configured collider, no sink and no listener.
type Options struct {
	Config   config.RunnerConfig
	Tier     config.Tier
	Seed     int64
	Policy   DifficultyPolicy
	Collider Collider
	Sink     RenderSink
	Listener Listener
	Logger   *log.Logger
}

// Session is the game controller. Update and Render are called by a single
// scheduler goroutine; lane changes may come from any goroutine; state
// changes from the host take the session mutex.
type Session struct {
	mu sync.Mutex

	cfg      config.RunnerConfig
	tier     config.Tier
	seeds    *rand.Rand
	player   *Player
	enemies  []Enemy
	spawner  *SpawnSystem
	score    *ScoreSystem
	collider Collider
	sink     RenderSink
	listener Listener
	onStop   func()
	release  func() // frees a policy the session built itself

	state    State
	frame    uint64
	gameOver bool
}

// NewSession creates a session in the Playing state.
func NewSession(opts Options) (*Session, error) {
	cfg := opts.Config
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("runner: invalid config: %w", err)
	}
	tier := opts.Tier
	if tier == "" {
		tier = config.TierNormal
	}

	policy := opts.Policy
	var release func()
	if policy == nil {
		p, err := NewPolicy(cfg, tier, opts.Logger)
		if err != nil {
			return nil, err
		}
		policy = p
		if c, ok := p.(interface{ Close() }); ok {
			release = c.Close
		}
	}
	collider := opts.Collider
	if collider == nil {
		c, err := NewCollider(cfg.Collision)
		if err != nil {
			return nil, err
		}
		collider = c
	}

	s := &Session{
		cfg:      cfg,
		tier:     tier,
		seeds:    rand.New(rand.NewSource(opts.Seed)),
		player:   NewPlayer(cfg),
		score:    NewScoreSystem(cfg.Scoring.PointsPerSecond),
		collider: collider,
		sink:     opts.Sink,
		listener: opts.Listener,
		release:  release,
		state:    StatePlaying,
	}
	if s.sink == nil {
		s.sink = nopSink{}
	}
	if s.listener == nil {
		s.listener = nopListener{}
	}
	s.spawner = NewSpawnSystem(cfg, tier, policy, s.seeds.Int63())
	return s, nil
}

// Close releases resources held by a difficulty policy the session created,
// such as a script VM. Policies passed in Options belong to the caller. The
// session must not be updated after Close.
func (s *Session) Close() {
	s.mu.Lock()
	release := s.release
	s.release = nil
	s.mu.Unlock()
	if release != nil {
		release()
	}
}

// SetStopHook registers the function called once when the session enters
// GameOver, typically the scheduler's RequestStop.
func (s *Session) SetStopHook(fn func()) {
	s.mu.Lock()
	s.onStop = fn
	s.mu.Unlock()
}

// Update advances the simulation by delta. It does nothing unless Playing.
func (s *Session) Update(delta time.Duration) {
	s.mu.Lock()
	if s.state != StatePlaying {
		s.mu.Unlock()
		return
	}
	if delta < 0 {
		delta = 0
	}
	dt := delta.Seconds()

	s.player.Update(dt)

	s.spawner.Update(delta)
	s.enemies = s.spawner.Drain(s.enemies)

	height := s.cfg.World.Height
	live := s.enemies[:0]
	for _, e := range s.enemies {
		e.Update(dt)
		if e.IsOffScreen(height) {
			continue
		}
		live = append(live, e)
	}
	clear(s.enemies[len(live):])
	s.enemies = live

	s.score.Update(delta)
	score := s.score.Score()

	hit := false
	pos := s.player.Pos()
	for i := range s.enemies {
		if s.collider.Collides(pos, s.player.Size(), s.enemies[i]) {
			hit = true
			break
		}
	}

	var fireGameOver bool
	var stop func()
	if hit {
		s.state = StateGameOver
		if !s.gameOver {
			s.gameOver = true
			fireGameOver = true
			stop = s.onStop
		}
	}
	seconds := s.score.Seconds()
	listener := s.listener
	s.mu.Unlock()

	listener.OnScoreChanged(score)
	if fireGameOver {
		listener.OnGameOver(score, seconds)
		if stop != nil {
			stop()
		}
	}
}

// Render hands a snapshot of the current frame to the sink.
func (s *Session) Render() {
	s.mu.Lock()
	s.frame++
	snap := s.snapshotLocked()
	sink := s.sink
	s.mu.Unlock()
	sink.Draw(snap)
}

// Snapshot returns a copy of the current state without counting a frame.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	enemies := make([]EnemyView, 0, len(s.enemies))
	height := s.cfg.World.Height
	for _, e := range s.enemies {
		enemies = append(enemies, EnemyView{
			Lane:   e.Lane,
			X:      e.X,
			Y:      e.Y,
			Size:   e.Size,
			Shape:  e.Shape,
			Danger: e.InDangerZone(height, s.cfg.Enemy.DangerZone),
		})
	}
	return Snapshot{
		Frame:   s.frame,
		State:   s.state,
		Tier:    s.tier,
		Width:   s.cfg.World.Width,
		Height:  height,
		DangerY: height * s.cfg.Enemy.DangerZone,
		Player: PlayerView{
			Lane: s.player.Lane(),
			X:    s.player.X(),
			Y:    s.player.Y(),
			Size: s.player.Size(),
		},
		Enemies: enemies,
		Score:   s.score.Score(),
		Elapsed: s.score.Elapsed(),
		Seconds: s.score.Seconds(),
		Debug:   s.spawner.DebugInfo(),
	}
}

// MoveToLane sets the player's target lane, clamped to the valid range.
// Input is ignored outside Playing. It returns the resulting lane.
func (s *Session) MoveToLane(lane int) int {
	if s.State() != StatePlaying {
		return s.player.Lane()
	}
	return s.player.MoveToLane(lane)
}

// ShiftLane moves the target lane one step per swipe direction.
func (s *Session) ShiftLane(dir int) int {
	if s.State() != StatePlaying {
		return s.player.Lane()
	}
	switch {
	case dir < 0:
		dir = -1
	case dir > 0:
		dir = 1
	}
	return s.player.Shift(dir)
}

// TapAt moves to the lane whose third of the world width contains x.
func (s *Session) TapAt(x float64) int {
	return s.MoveToLane(LaneAt(s.cfg.World.Width, x))
}

// Pause freezes a playing session. It reports whether the state changed.
func (s *Session) Pause() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StatePlaying {
		return false
	}
	s.state = StatePaused
	return true
}

// Resume continues a paused session. It reports whether the state changed.
func (s *Session) Resume() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StatePaused {
		return false
	}
	s.state = StatePlaying
	return true
}

// TogglePause switches between Playing and Paused and returns the new state.
// GameOver is left unchanged.
func (s *Session) TogglePause() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.state {
	case StatePlaying:
		s.state = StatePaused
	case StatePaused:
		s.state = StatePlaying
	}
	return s.state
}

// Reset starts a fresh run: player on the start lane, no enemies, zero
// score, new spawn seed, Playing.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.player.Reset()
	clear(s.enemies)
	s.enemies = s.enemies[:0]
	s.spawner.Reset(s.seeds.Int63())
	s.score.Reset()
	s.state = StatePlaying
	s.frame = 0
	s.gameOver = false
}

// State returns the lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Score returns the current score.
func (s *Session) Score() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.score.Score()
}

// Seconds returns whole seconds survived.
func (s *Session) Seconds() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.score.Seconds()
}

// Elapsed returns the survival time.
func (s *Session) Elapsed() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.score.Elapsed()
}

// Lane returns the player's target lane.
func (s *Session) Lane() int {
	return s.player.Lane()
}

// Tier returns the difficulty tier.
func (s *Session) Tier() config.Tier { return s.tier }

// Mode returns the mode name persisted with scores.
func (s *Session) Mode() string { return string(s.tier) }

// Config returns the session configuration.
func (s *Session) Config() config.RunnerConfig { return s.cfg }
