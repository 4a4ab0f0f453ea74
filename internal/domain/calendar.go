package domain

import "time"

// DayStatus places a calendar day relative to today.
type DayStatus string

const (
	DayPast   DayStatus = "past"
	DayToday  DayStatus = "today"
	DayFuture DayStatus = "future"
)

// CalendarDay is one day of a goal's challenge window.
type CalendarDay struct {
	Number      int       `json:"day" yaml:"day"`
	Date        string    `json:"date" yaml:"date"`
	Status      DayStatus `json:"status" yaml:"status"`
	HasActivity bool      `json:"hasActivity" yaml:"hasActivity"`
}

// Calendar summarises a goal's challenge window.
type Calendar struct {
	GoalID           string        `json:"goalId" yaml:"goalId"`
	Days             []CalendarDay `json:"days" yaml:"days"`
	Streak           int           `json:"streak" yaml:"streak"`
	StreakPercentage float64       `json:"streakPercentage" yaml:"streakPercentage"`
	Completed        bool          `json:"isCompleted" yaml:"isCompleted"`
}

// BuildCalendar lays out one entry per day starting on the goal's creation date. At
// most MaxGoalDays entries are produced, whatever the stored goal says.
func BuildCalendar(g Goal, now time.Time) Calendar {
	today := now.UTC().Format(DateLayout)
	start := g.CreatedAt.UTC()
	start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)

	n := min(max(g.Days, 0), MaxGoalDays)
	days := make([]CalendarDay, 0, n)
	for i := 0; i < n; i++ {
		date := start.AddDate(0, 0, i).Format(DateLayout)
		status := DayFuture
		switch {
		case date < today:
			status = DayPast
		case date == today:
			status = DayToday
		}
		days = append(days, CalendarDay{
			Number:      i + 1,
			Date:        date,
			Status:      status,
			HasActivity: g.HasActivityOn(date),
		})
	}
	return Calendar{
		GoalID:           g.ID,
		Days:             days,
		Streak:           g.Streak(),
		StreakPercentage: g.StreakPercentage(),
		Completed:        g.Progress >= g.Target,
	}
}
