package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/alfredjeanlab/riskboard/internal/dashboard"
)

// FetchFunc loads a fresh snapshot.
type FetchFunc func(ctx context.Context) (*dashboard.Snapshot, error)

type tickMsg time.Time

type snapshotMsg struct {
	snap *dashboard.Snapshot
	err  error
	at   time.Time
}

// WatchModel is a bubbletea model that polls a snapshot on an interval.
// Press r to refresh immediately and q to quit.
type WatchModel struct {
	fetch    FetchFunc
	interval time.Duration
	timeout  time.Duration

	snap    *dashboard.Snapshot
	err     error
	updated time.Time
	width   int
}

// NewWatchModel creates a WatchModel. interval must be positive.
func NewWatchModel(fetch FetchFunc, interval time.Duration) WatchModel {
	return WatchModel{
		fetch:    fetch,
		interval: interval,
		timeout:  10 * time.Second,
		width:    80,
	}
}

func (m WatchModel) Init() tea.Cmd {
	return tea.Batch(m.fetchCmd(), tick(m.interval))
}

func tick(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m WatchModel) fetchCmd() tea.Cmd {
	fetch, timeout := m.fetch, m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		snap, err := fetch(ctx)
		return snapshotMsg{snap: snap, err: err, at: time.Now()}
	}
}

func (m WatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "r":
			return m, m.fetchCmd()
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case tickMsg:
		return m, tea.Batch(m.fetchCmd(), tick(m.interval))
	case snapshotMsg:
		m.err = msg.err
		if msg.err == nil {
			m.snap = msg.snap
			m.updated = msg.at
		}
	}
	return m, nil
}

func (m WatchModel) View() string {
	var body string
	switch {
	case m.snap != nil:
		body = RenderDashboard(m.snap, m.width)
	case m.err == nil:
		body = RenderMuted("loading...") + "\n"
	}
	if m.err != nil {
		body += render(critStyle, "error: "+m.err.Error()) + "\n"
	}
	status := "r refresh · q quit"
	if !m.updated.IsZero() {
		status = "updated " + m.updated.Format("15:04:05") + " · " + status
	}
	return body + RenderMuted(status) + "\n"
}

// Snapshot returns the last successfully fetched snapshot, if any.
func (m WatchModel) Snapshot() *dashboard.Snapshot { return m.snap }

// Err returns the error from the most recent fetch.
func (m WatchModel) Err() error { return m.err }
