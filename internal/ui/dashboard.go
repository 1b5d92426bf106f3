package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/alfredjeanlab/riskboard/internal/dashboard"
)

const minWidth = 40

// RenderDashboard renders a snapshot as stacked terminal panels: summary,
// anomaly and warning tables, the delay history chart and process stats.
func RenderDashboard(snap *dashboard.Snapshot, width int) string {
	if width < minWidth {
		width = minWidth
	}
	inner := width - 4 // border + padding

	sections := []string{
		panel(renderSummary(snap), inner),
		panel(renderIssues("이상 (anomalies)", snap.AnomalyData, critStyle), inner),
		panel(renderIssues("경고 (warnings)", snap.WarningData, warnStyle), inner),
		panel(renderHistory(snap.HistoryData, inner), inner),
		panel(renderProcessStats(snap.ProcessStats), inner),
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func panel(body string, width int) string {
	if noColor {
		return body + "\n"
	}
	return panelStyle.Width(width).Render(body)
}

func renderSummary(snap *dashboard.Snapshot) string {
	var sb strings.Builder
	sb.WriteString(render(titleStyle, "Dashboard"))
	sb.WriteString("\n")
	rows := [][2]string{
		{"Deadline", snap.OriginalDeadline},
		{"Anomalies", fmt.Sprintf("%d", snap.TotalAnomalies)},
		{"Warnings", fmt.Sprintf("%d", snap.TotalWarnings)},
		{"Delay hours", fmt.Sprintf("%.1f", snap.TotalDelayHours)},
		{"Overall efficiency", fmt.Sprintf("%.1f%%", snap.OverallEfficiency)},
		{"Production efficiency", fmt.Sprintf("%.1f%%", snap.ProductionEfficiency)},
	}
	for _, r := range rows {
		fmt.Fprintf(&sb, "%s %s\n", render(labelStyle, fmt.Sprintf("%-22s", r[0])), render(valueStyle, r[1]))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func renderIssues(title string, issues []dashboard.IssueData, countStyle lipgloss.Style) string {
	var sb strings.Builder
	sb.WriteString(render(titleStyle, title))
	if len(issues) == 0 {
		sb.WriteString("\n")
		sb.WriteString(render(mutedStyle, "none"))
		return sb.String()
	}
	fmt.Fprintf(&sb, "\n%s", render(labelStyle, fmt.Sprintf("%-16s %6s %10s", "process", "count", "avg delay")))
	for _, is := range issues {
		fmt.Fprintf(&sb, "\n%-16s %s %10.1f",
			is.Process,
			render(countStyle, fmt.Sprintf("%6d", is.Count)),
			is.AvgDelayPerIssue)
	}
	return sb.String()
}

// renderHistory draws one horizontal bar per point, scaled to the largest value.
func renderHistory(points []dashboard.HistoryData, width int) string {
	var sb strings.Builder
	sb.WriteString(render(titleStyle, "Delay history"))
	if len(points) == 0 {
		sb.WriteString("\n")
		sb.WriteString(render(mutedStyle, "none"))
		return sb.String()
	}

	maxVal := 0.0
	for _, p := range points {
		if p.Delay > maxVal {
			maxVal = p.Delay
		}
	}
	barW := width - 16
	if barW < 10 {
		barW = 10
	}
	for _, p := range points {
		n := 0
		if maxVal > 0 && p.Delay > 0 {
			n = int(p.Delay / maxVal * float64(barW))
		}
		fmt.Fprintf(&sb, "\n%-5s %s %s", p.Date, render(accentStyle, strings.Repeat("█", n)), render(mutedStyle, fmt.Sprintf("%.1f", p.Delay)))
	}
	return sb.String()
}

func renderProcessStats(stats []dashboard.ProcessStat) string {
	var sb strings.Builder
	sb.WriteString(render(titleStyle, "Processes"))
	if len(stats) == 0 {
		sb.WriteString("\n")
		sb.WriteString(render(mutedStyle, "none"))
		return sb.String()
	}
	fmt.Fprintf(&sb, "\n%s", render(labelStyle, fmt.Sprintf("%-16s %6s %6s %6s", "name", "정상", "경고", "이상")))
	for _, s := range stats {
		fmt.Fprintf(&sb, "\n%-16s %s %s %s",
			s.Name,
			render(statusStyle("정상"), fmt.Sprintf("%6d", s.Normal)),
			render(statusStyle("경고"), fmt.Sprintf("%6d", s.Warning)),
			render(statusStyle("이상"), fmt.Sprintf("%6d", s.Anomaly)))
	}
	return sb.String()
}
