package runner

import (
	"testing"
	"time"

	"github.com/vovakirdan/neon-runner/internal/config"
)

func TestAutopilotDodges(t *testing.T) {
	bot := NewAutopilot(1, 0)
	snap := Snapshot{
		Player: PlayerView{Lane: 1, X: 540, Y: 1632, Size: 40},
		Enemies: []EnemyView{
			{Lane: 1, Y: 1400},
		},
	}
	if got := bot.Choose(snap); got == 1 {
		t.Errorf("bot stayed in the threatened lane")
	}

	snap.Enemies = []EnemyView{{Lane: 0, Y: 1500}, {Lane: 1, Y: 1400}}
	if got := bot.Choose(snap); got != 2 {
		t.Errorf("Choose = %d, want free lane 2", got)
	}

	snap.Player.Lane = 0
	snap.Enemies = []EnemyView{{Lane: 0, Y: 1500}, {Lane: 1, Y: 1000}}
	if got := bot.Choose(snap); got != 1 {
		t.Errorf("Choose = %d, want single step to 1", got)
	}

	snap.Enemies = []EnemyView{{Lane: 0, Y: 1900}}
	if got := bot.Choose(snap); got != 0 {
		t.Errorf("Choose = %d, enemy behind the player should be ignored", got)
	}
}

func TestSimulateWithoutEnemies(t *testing.T) {
	s, err := NewSession(Options{Config: config.DefaultRunnerConfig(), Policy: quietPolicy})
	if err != nil {
		t.Fatal(err)
	}
	res := Simulate(s, nil, 100*time.Millisecond, time.Second)
	if res.GameOver || res.Frames != 10 || res.Score != 15 || res.Seconds != 1 {
		t.Errorf("result = %+v", res)
	}
}

func TestSimulateEndsOnGameOver(t *testing.T) {
	s, err := NewSession(Options{Config: config.DefaultRunnerConfig(), Policy: quietPolicy})
	if err != nil {
		t.Fatal(err)
	}
	placeOnPlayer(s)
	res := Simulate(s, NewAutopilot(1, 0), 16*time.Millisecond, time.Minute)
	if !res.GameOver || res.Frames != 1 {
		t.Errorf("result = %+v", res)
	}
}

func TestSimulateLongStepsStillCollide(t *testing.T) {
	for _, step := range []time.Duration{16 * time.Millisecond, 200 * time.Millisecond, time.Second} {
		s, err := NewSession(Options{Config: config.DefaultRunnerConfig(), Policy: quietPolicy})
		if err != nil {
			t.Fatal(err)
		}
		p := s.player.Pos()
		s.enemies = append(s.enemies, Enemy{Lane: s.Lane(), X: p.X, Y: p.Y - 60, Speed: 600, Size: 35, Alive: true})

		res := Simulate(s, nil, step, 5*time.Second)
		if !res.GameOver {
			t.Errorf("step %v: enemy passed through the player: %+v", step, res)
		}
	}
}

func TestNewAutopilotClampsHesitation(t *testing.T) {
	if got := NewAutopilot(1, 3).Hesitation; got != 1 {
		t.Errorf("Hesitation = %v, want 1", got)
	}
	if got := NewAutopilot(1, -1).Hesitation; got != 0 {
		t.Errorf("Hesitation = %v, want 0", got)
	}
}
