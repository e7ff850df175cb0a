package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/contrastanim/internal/scheduler"
)

type frameMsg scheduler.Frame

// frameRequester is the scheduler's frame source inside a bubbletea
// program. Requests are turned into tea.Tick commands after each Update;
// cancelled ticks still arrive and are dropped by the scheduler as stale.
type frameRequester struct {
	interval time.Duration
	start    time.Time
	pending  uint64
	issued   uint64
}

func newFrameRequester(refreshRate int) *frameRequester {
	if refreshRate <= 0 {
		refreshRate = 60
	}
	return &frameRequester{
		interval: time.Second / time.Duration(refreshRate),
		start:    time.Now(),
	}
}

func (f *frameRequester) RequestFrame(id uint64) { f.pending = id }

func (f *frameRequester) CancelFrame(id uint64) {
	if f.pending == id {
		f.pending = 0
	}
}

// cmd returns a tick for a request that has not been issued yet, or nil.
func (f *frameRequester) cmd() tea.Cmd {
	if f.pending == 0 || f.pending == f.issued {
		return nil
	}
	id := f.pending
	f.issued = id
	start := f.start
	return tea.Tick(f.interval, func(t time.Time) tea.Msg {
		return frameMsg{ID: id, Timestamp: scheduler.Millis(t.Sub(start))}
	})
}
