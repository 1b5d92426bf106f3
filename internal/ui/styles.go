package ui

import "github.com/charmbracelet/lipgloss"

var (
	colorAccent = lipgloss.Color("74")  // blue
	colorCmd    = lipgloss.Color("250") // light gray
	colorMuted  = lipgloss.Color("245") // medium gray
	colorRed    = lipgloss.Color("203")
	colorYellow = lipgloss.Color("221")
	colorGreen  = lipgloss.Color("114")

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorMuted).
			Padding(0, 1)

	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	labelStyle  = lipgloss.NewStyle().Foreground(colorMuted)
	valueStyle  = lipgloss.NewStyle().Bold(true)
	accentStyle = lipgloss.NewStyle().Foreground(colorAccent)
	mutedStyle  = lipgloss.NewStyle().Foreground(colorMuted)
	cmdStyle    = lipgloss.NewStyle().Foreground(colorCmd)
	critStyle   = lipgloss.NewStyle().Foreground(colorRed).Bold(true)
	warnStyle   = lipgloss.NewStyle().Foreground(colorYellow).Bold(true)
	okStyle     = lipgloss.NewStyle().Foreground(colorGreen)
)

var noColor bool

// RenderAccent returns s in the accent (blue) color.
func RenderAccent(s string) string {
	return render(accentStyle, s)
}

// RenderMuted returns s in the muted (gray) color.
func RenderMuted(s string) string {
	return render(mutedStyle, s)
}

// RenderCommand returns s styled as a command name (light gray).
func RenderCommand(s string) string {
	return render(cmdStyle, s)
}

// ForceNoColor disables color output globally.
func ForceNoColor() {
	noColor = true
}

func render(style lipgloss.Style, s string) string {
	if noColor {
		return s
	}
	return style.Render(s)
}

// statusStyle colors a process status label.
func statusStyle(status string) lipgloss.Style {
	switch status {
	case "이상":
		return critStyle
	case "경고":
		return warnStyle
	default:
		return okStyle
	}
}
