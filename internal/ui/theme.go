// Package ui holds the terminal styles used by ecoctl.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	IconLeaf     = "🌱"
	IconGoal     = "🎯"
	IconDone     = "✅"
	IconTrophy   = "🏆"
	IconFire     = "🔥"
	IconCloud    = "☁️"
	IconIdea     = "💡"
	IconWarn     = "⚠️"
	IconCalendar = "📅"
)

var (
	cPrimary = lipgloss.Color("35")  // green
	cAccent  = lipgloss.Color("39")  // blue
	cGood    = lipgloss.Color("42")  // bright green
	cWarn    = lipgloss.Color("214") // orange
	cMuted   = lipgloss.Color("244") // gray
	cGold    = lipgloss.Color("220") // gold
)

var (
	Title = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	H2    = lipgloss.NewStyle().Bold(true).Foreground(cAccent)
	Key   = lipgloss.NewStyle().Bold(true).Foreground(cAccent)
	Good  = lipgloss.NewStyle().Bold(true).Foreground(cGood)
	Warn  = lipgloss.NewStyle().Bold(true).Foreground(cWarn)
	Gold  = lipgloss.NewStyle().Bold(true).Foreground(cGold)
	Muted = lipgloss.NewStyle().Foreground(cMuted)

	Panel = lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(cPrimary).Padding(0, 1)
)

func Heading(icon string, title string) string {
	icon = strings.TrimSpace(icon)
	if icon != "" {
		icon += " "
	}
	return Title.Render(icon + title)
}

func LabelValue(label string, value any) string {
	return fmt.Sprintf("%s %v", Key.Render(label+":"), value)
}

// Tons formats an emission figure with its precision.
func Tons(v float64, precision int) string {
	return fmt.Sprintf("%.*f t CO₂e", precision, v)
}
