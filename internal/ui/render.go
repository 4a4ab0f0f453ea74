package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"example.com/ecosangam/internal/domain"
	"example.com/ecosangam/internal/emissions"
)

const barWidth = 30

// Bar renders a static progress bar for a ratio between 0 and 1.
func Bar(ratio float64) string {
	if ratio < 0 {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}
	bar := progress.New(progress.WithSolidFill(string(cPrimary)), progress.WithWidth(barWidth))
	return bar.ViewAs(ratio)
}

// Footprint renders the per-category results, the total and its equivalencies.
func Footprint(fp *emissions.Footprint) string {
	results := fp.Results()
	if len(results) == 0 {
		return Muted.Render("No estimates recorded yet. Run `ecoctl calc <category>` first.")
	}
	total := fp.Total()
	var b strings.Builder
	b.WriteString(Heading(IconCloud, "Carbon footprint") + "\n\n")
	for _, r := range results {
		share := 0.0
		if total > 0 {
			share = r.Tons / total
		}
		fmt.Fprintf(&b, "%-10s %s %s\n", r.Category, Bar(share), Tons(r.Tons, r.Precision))
	}
	b.WriteString("\n" + LabelValue("Total", Gold.Render(Tons(total, 4))))
	if summary := emissions.Summary(emissions.Equivalencies(total)); summary != "" {
		b.WriteString("\n" + Muted.Render(summary))
	}
	return b.String()
}

// Goal renders one goal as a panel.
func Goal(g domain.Goal) string {
	status := Warn.Render("in progress")
	if g.Completed {
		status = Good.Render(IconDone + " completed")
	}
	ratio := 1.0
	if g.Target > 0 {
		ratio = g.Progress / g.Target
	}
	lines := []string{
		H2.Render(IconGoal + " " + g.Title),
		Muted.Render(g.ID),
		fmt.Sprintf("%s %s / %s %s", Bar(ratio), trim(g.Progress), trim(g.Target), g.Unit),
		LabelValue("Status", status),
		LabelValue("Streak", fmt.Sprintf("%s %d of %d days (%.0f%%)", IconFire, g.Streak(), g.Days, g.StreakPercentage())),
		LabelValue("Carbon saved", fmt.Sprintf("%.2f kg", g.CarbonSaved())),
	}
	return Panel.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// Calendar renders the challenge window as a row of day markers.
func Calendar(c domain.Calendar) string {
	var cells []string
	for _, d := range c.Days {
		mark := "·"
		switch {
		case d.HasActivity:
			mark = Good.Render("●")
		case d.Status == domain.DayToday:
			mark = Warn.Render("○")
		case d.Status == domain.DayPast:
			mark = Muted.Render("×")
		}
		cells = append(cells, mark)
	}
	return fmt.Sprintf("%s %s", IconCalendar, strings.Join(cells, " "))
}

func trim(v float64) string {
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.4f", v), "0"), ".")
}
