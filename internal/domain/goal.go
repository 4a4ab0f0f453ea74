package domain

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the calendar-day format used for activity dates.
const DateLayout = "2006-01-02"

// MaxGoalDays is the longest challenge window a goal may have.
const MaxGoalDays = 3650

// Goal is a time-boxed sustainability target with its activity log.
type Goal struct {
	ID          string     `json:"id" yaml:"id"`
	Title       string     `json:"title" yaml:"title"`
	Type        GoalType   `json:"type" yaml:"type"`
	CustomType  string     `json:"customType,omitempty" yaml:"customType,omitempty"`
	Target      float64    `json:"target" yaml:"target"`
	Unit        string     `json:"unit" yaml:"unit"`
	Days        int        `json:"days" yaml:"days"`
	Progress    float64    `json:"progress" yaml:"progress"`
	Activities  []Activity `json:"activities" yaml:"activities"`
	CreatedAt   time.Time  `json:"createdAt" yaml:"createdAt"`
	Completed   bool       `json:"isCompleted" yaml:"isCompleted"`
	CompletedAt *time.Time `json:"completedAt,omitempty" yaml:"completedAt,omitempty"`
}

// Activity is one logged action against a goal. Activities are never edited.
type Activity struct {
	ID       string    `json:"id" yaml:"id"`
	Date     string    `json:"date" yaml:"date"`
	Label    string    `json:"activity" yaml:"activity"`
	Impact   float64   `json:"impact" yaml:"impact"`
	LoggedAt time.Time `json:"loggedAt" yaml:"loggedAt"`
}

// NewGoalParams captures the fields a user supplies when creating a goal. Target and
// Days are pointers so that absence can be told apart from zero.
type NewGoalParams struct {
	Type       GoalType
	Target     *float64
	Days       *int
	Title      string
	CustomType string
}

// Validate checks the parameters without building a goal.
func (p NewGoalParams) Validate() error {
	if p.Target == nil {
		return invalid("target", "is required")
	}
	if t := *p.Target; math.IsNaN(t) || math.IsInf(t, 0) || t < 0 {
		return invalid("target", "must be a non-negative number")
	}
	if p.Days == nil {
		return invalid("days", "is required")
	}
	if *p.Days < 1 {
		return invalid("days", "must be at least 1")
	}
	if *p.Days > MaxGoalDays {
		return invalid("days", "must be at most "+strconv.Itoa(MaxGoalDays))
	}
	if p.Type == GoalCustom {
		if strings.TrimSpace(p.Title) == "" {
			return invalid("title", "is required for custom goals")
		}
		if strings.TrimSpace(p.CustomType) == "" {
			return invalid("customType", "is required for custom goals")
		}
		return nil
	}
	if _, ok := LookupGoalType(p.Type); !ok {
		return invalid("type", "unknown goal type "+strconv.Quote(string(p.Type)))
	}
	return nil
}

// NewGoal builds a goal from validated parameters. A goal whose target is already met
// at creation completes immediately and the completion event is returned.
func NewGoal(p NewGoalParams, id string, now time.Time) (Goal, *GoalCompleted, error) {
	if err := p.Validate(); err != nil {
		return Goal{}, nil, err
	}
	now = now.UTC()
	g := Goal{
		ID:         id,
		Type:       p.Type,
		Target:     *p.Target,
		Days:       *p.Days,
		Activities: []Activity{},
		CreatedAt:  now,
	}
	if p.Type == GoalCustom {
		g.Title = strings.TrimSpace(p.Title)
		g.CustomType = strings.TrimSpace(p.CustomType)
		g.Unit = CustomUnit
	} else {
		info, _ := LookupGoalType(p.Type)
		g.Title = info.Label + " by " + strconv.FormatFloat(g.Target, 'f', -1, 64)
		g.Unit = info.Unit
	}
	return g, g.checkCompletion(-1, now), nil
}

// LogResult describes the effect of logging an activity.
type LogResult struct {
	Activity   Activity
	FirstToday bool
	Completed  *GoalCompleted
}

// LogActivity appends an activity dated today and advances progress, clamped at the
// target. The goal is left untouched when validation fails.
func (g *Goal) LogActivity(activityID, label, customLabel string, impact *float64, now time.Time) (LogResult, error) {
	name := strings.TrimSpace(customLabel)
	if name == "" {
		name = strings.TrimSpace(label)
	}
	if name == "" {
		return LogResult{}, invalid("activity", "a catalog or custom activity is required")
	}
	if impact == nil {
		return LogResult{}, invalid("impact", "is required")
	}
	if v := *impact; math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return LogResult{}, invalid("impact", "must be a non-negative number")
	}

	now = now.UTC()
	today := now.Format(DateLayout)
	first := !g.HasActivityOn(today)
	act := Activity{
		ID:       activityID,
		Date:     today,
		Label:    name,
		Impact:   *impact,
		LoggedAt: now,
	}

	before := g.Progress
	g.Activities = append(g.Activities, act)
	g.Progress = math.Min(g.Progress+*impact, g.Target)

	return LogResult{
		Activity:   act,
		FirstToday: first,
		Completed:  g.checkCompletion(before, now),
	}, nil
}

// checkCompletion fires when progress crosses from below the target to at or above
// it. A completed goal never fires again.
func (g *Goal) checkCompletion(before float64, now time.Time) *GoalCompleted {
	if g.Completed {
		return nil
	}
	if before >= g.Target || g.Progress < g.Target {
		return nil
	}
	at := now.UTC()
	g.Completed = true
	g.CompletedAt = &at
	return &GoalCompleted{
		GoalID:      g.ID,
		StartDate:   g.CreatedAt,
		EndDate:     at,
		CarbonSaved: round2(g.CarbonSaved()),
		Streak:      g.Streak(),
		GoalTitle:   g.Title,
	}
}

// HasActivityOn reports whether any activity is dated on the given day.
func (g *Goal) HasActivityOn(date string) bool {
	for _, a := range g.Activities {
		if a.Date == date {
			return true
		}
	}
	return false
}

// Streak is the number of distinct days with at least one activity.
func (g *Goal) Streak() int {
	seen := make(map[string]struct{}, len(g.Activities))
	for _, a := range g.Activities {
		seen[a.Date] = struct{}{}
	}
	return len(seen)
}

// StreakPercentage is the share of the goal's days with activity, 0 to 100 or more
// when activities spill past the window.
func (g *Goal) StreakPercentage() float64 {
	if g.Days <= 0 {
		return 0
	}
	return float64(g.Streak()) / float64(g.Days) * 100
}

// CarbonSaved estimates kg CO2 saved by the progress made so far.
func (g *Goal) CarbonSaved() float64 {
	return g.Progress * carbonFactor(g.Type)
}

// EndsAt is the last calendar day covered by the goal.
func (g *Goal) EndsAt() time.Time {
	days := g.Days
	if days < 1 {
		days = 1
	}
	return g.CreatedAt.UTC().AddDate(0, 0, days-1)
}

func round2(v float64) float64 {
	return math.Floor(float64(v*100)+0.5) / 100
}
