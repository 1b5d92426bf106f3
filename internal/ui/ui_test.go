package ui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/alfredjeanlab/riskboard/internal/dashboard"
)

func sampleSnapshot() *dashboard.Snapshot {
	return &dashboard.Snapshot{
		AnomalyData:          []dashboard.IssueData{{Process: "프레스", Count: 5, AvgDelayPerIssue: 2.5}},
		WarningData:          []dashboard.IssueData{},
		TotalAnomalies:       5,
		TotalDelayHours:      12.5,
		OriginalDeadline:     dashboard.OriginalDeadline,
		OverallEfficiency:    dashboard.OverallEfficiency,
		ProductionEfficiency: dashboard.ProductionEfficiency,
		HistoryData:          []dashboard.HistoryData{{Date: "1/5", Delay: 35}, {Date: "1/9", Delay: 12.5}},
		ProcessStats:         []dashboard.ProcessStat{{Name: "프레스", Normal: 85, Warning: 10, Anomaly: 5}},
	}
}

func withNoColor(t *testing.T) {
	t.Helper()
	prev := noColor
	noColor = true
	t.Cleanup(func() { noColor = prev })
}

func TestRenderDashboard(t *testing.T) {
	withNoColor(t)
	out := RenderDashboard(sampleSnapshot(), 80)

	for _, want := range []string{
		"2026-01-20T18:00:00",
		"12.5",
		"86.6%",
		"94.2%",
		"프레스",
		"1/9",
		"none", // empty warnings
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Error("expected no ANSI escapes with color disabled")
	}
}

func TestRenderHistoryScalesBars(t *testing.T) {
	withNoColor(t)
	out := renderHistory([]dashboard.HistoryData{{Date: "a", Delay: 10}, {Date: "b", Delay: 5}, {Date: "c", Delay: 0}}, 36)
	lines := strings.Split(out, "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines:\n%s", len(lines), out)
	}
	full := strings.Count(lines[1], "█")
	half := strings.Count(lines[2], "█")
	if full != 20 || half != 10 {
		t.Errorf("bar widths = %d, %d", full, half)
	}
	if strings.Contains(lines[3], "█") {
		t.Errorf("zero point drew a bar: %q", lines[3])
	}
}

func TestRenderAccentNoColor(t *testing.T) {
	withNoColor(t)
	if got := RenderAccent("x"); got != "x" {
		t.Errorf("RenderAccent = %q", got)
	}
}

func TestWatchModelKeys(t *testing.T) {
	calls := 0
	m := NewWatchModel(func(context.Context) (*dashboard.Snapshot, error) {
		calls++
		return sampleSnapshot(), nil
	}, time.Minute)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("q returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q did not quit")
	}

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	if cmd == nil {
		t.Fatal("r returned no command")
	}
	msg, ok := cmd().(snapshotMsg)
	if !ok || msg.err != nil || msg.snap == nil {
		t.Fatalf("r produced %+v", msg)
	}
	if calls != 1 {
		t.Errorf("fetch calls = %d", calls)
	}
}

func TestWatchModelKeepsLastSnapshotOnError(t *testing.T) {
	withNoColor(t)
	m := NewWatchModel(nil, time.Minute)

	next, _ := m.Update(snapshotMsg{snap: sampleSnapshot(), at: time.Now()})
	m = next.(WatchModel)
	next, _ = m.Update(snapshotMsg{err: errors.New("connection refused")})
	m = next.(WatchModel)

	if m.Snapshot() == nil {
		t.Fatal("snapshot dropped after failed refresh")
	}
	if m.Err() == nil {
		t.Fatal("error not recorded")
	}
	view := m.View()
	if !strings.Contains(view, "connection refused") || !strings.Contains(view, "프레스") {
		t.Errorf("view = %s", view)
	}
}

func TestWatchModelWindowSize(t *testing.T) {
	m := NewWatchModel(nil, time.Minute)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	if next.(WatchModel).width != 120 {
		t.Error("width not updated")
	}
}

func TestShouldUseColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	if ShouldUseColor() {
		t.Error("NO_COLOR should disable color")
	}
	t.Setenv("NO_COLOR", "")
	t.Setenv("CLICOLOR_FORCE", "1")
	if !ShouldUseColor() {
		t.Error("CLICOLOR_FORCE should enable color")
	}
	t.Setenv("CLICOLOR_FORCE", "")
	t.Setenv("CLICOLOR", "0")
	if ShouldUseColor() {
		t.Error("CLICOLOR=0 should disable color")
	}
}
