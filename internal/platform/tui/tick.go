// Package tui provides the Bubble Tea host for the runner: key and mouse
// input, the scheduler-to-program frame bridge, the mode picker, the
// ranking table and the SSH server.
package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/neon-runner/internal/runner"
)

// FrameMsg delivers a rendered frame from the scheduler goroutine.
type FrameMsg struct {
	Snapshot runner.Snapshot
}

// frameBridge is the session's render sink. It keeps only the latest
// snapshot so a slow terminal never blocks the simulation.
type frameBridge struct {
	ch        chan runner.Snapshot
	done      chan struct{}
	closeOnce sync.Once
}

func newFrameBridge() *frameBridge {
	return &frameBridge{
		ch:   make(chan runner.Snapshot, 1),
		done: make(chan struct{}),
	}
}

// Draw implements runner.RenderSink. It replaces an undelivered frame.
func (b *frameBridge) Draw(s runner.Snapshot) {
	for {
		select {
		case b.ch <- s:
			return
		case <-b.done:
			return
		default:
		}
		select {
		case <-b.ch:
		default:
		}
	}
}

// wait returns a command that blocks until the next frame.
func (b *frameBridge) wait() tea.Cmd {
	return func() tea.Msg {
		select {
		case s := <-b.ch:
			return FrameMsg{Snapshot: s}
		case <-b.done:
			return nil
		}
	}
}

// close releases a pending wait command.
func (b *frameBridge) close() {
	b.closeOnce.Do(func() { close(b.done) })
}
