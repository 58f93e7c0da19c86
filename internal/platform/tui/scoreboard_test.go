package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/neon-runner/internal/config"
	"github.com/vovakirdan/neon-runner/internal/storage"
)

func updateBoard(m ScoreboardModel, msg tea.Msg) (ScoreboardModel, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(ScoreboardModel), cmd
}

func TestScoreRows(t *testing.T) {
	rows := ScoreRows([]storage.ScoreEntry{
		{UserID: "a", Username: "neo", Score: 12345, TimeSeconds: 823},
		{UserID: "b", Username: "trinity", Score: 90, TimeSeconds: 6},
	}, "b")

	if len(rows) != 2 {
		t.Fatalf("got %d rows", len(rows))
	}
	if rows[0][0] != "#1" || rows[0][1] != "neo" || rows[0][2] != "12.345" || rows[0][3] != "13:43" {
		t.Errorf("row 0 = %v", rows[0])
	}
	if rows[1][0] != "#2*" {
		t.Errorf("highlighted rank = %q, want #2*", rows[1][0])
	}
}

func TestScoreboardSwitchesModes(t *testing.T) {
	store := openTestStore(t)
	saveScore(t, store, "neo", 300, config.TierNormal)
	saveScore(t, store, "smith", 100, config.TierNormal)
	saveScore(t, store, "trinity", 700, config.TierHard)

	m := NewScoreboardModel(store, config.TierNormal, "", 100, 30)
	if m.Mode() != config.TierNormal || len(m.scores) != 2 {
		t.Fatalf("mode %s with %d scores", m.Mode(), len(m.scores))
	}

	m, _ = updateBoard(m, tea.KeyMsg{Type: tea.KeyTab})
	if m.Mode() != config.TierHard || len(m.scores) != 1 || m.scores[0].Username != "trinity" {
		t.Errorf("after tab: mode %s scores %v", m.Mode(), m.scores)
	}

	m, _ = updateBoard(m, tea.KeyMsg{Type: tea.KeyShiftTab})
	m, _ = updateBoard(m, tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.Mode() != config.TierExtreme {
		t.Errorf("prev mode wraps to %s, want EXTREME", m.Mode())
	}
	if !strings.Contains(m.View(), "No scores recorded yet") {
		t.Error("empty mode should show the placeholder")
	}
}

func TestScoreboardLayouts(t *testing.T) {
	store := openTestStore(t)
	saveScore(t, store, "neo", 300, config.TierHard)

	wide := NewScoreboardModel(store, config.TierHard, "", 120, 30)
	if !wide.showSidebar || !strings.Contains(wide.View(), "Modes") {
		t.Error("wide layout should show the mode sidebar")
	}

	narrow, _ := updateBoard(wide, tea.WindowSizeMsg{Width: 60, Height: 30})
	if narrow.showSidebar {
		t.Error("narrow layout should hide the sidebar")
	}
	view := narrow.View()
	if !strings.Contains(view, "HIGH SCORES - Hard") || !strings.Contains(view, "neo") {
		t.Errorf("narrow view missing content:\n%s", view)
	}
}

func TestScoreboardBackAndQuit(t *testing.T) {
	m := NewScoreboardModel(nil, config.TierNormal, "", 80, 24)

	back, cmd := updateBoard(m, tea.KeyMsg{Type: tea.KeyEsc})
	if !back.IsGoingBack() || cmd != nil {
		t.Error("esc inside a session should go back without quitting")
	}

	m.standalone = true
	back, cmd = updateBoard(m, tea.KeyMsg{Type: tea.KeyEsc})
	if !back.IsGoingBack() || cmd == nil {
		t.Error("esc in the standalone board should quit")
	}

	quit, cmd := updateBoard(m, runes("q"))
	if !quit.IsQuitting() || cmd == nil {
		t.Error("q should quit")
	}
}
