package api

import (
	"net/http"
	"strconv"
	"time"

	"example.com/ecosangam/internal/auth"
	"example.com/ecosangam/internal/domain"
	"example.com/ecosangam/internal/observability"
	"example.com/ecosangam/internal/persistence"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// CreateGoalRequest is the payload for POST /v1/goals.
type CreateGoalRequest struct {
	Type       domain.GoalType `json:"type"`
	Target     *float64        `json:"target"`
	Days       *int            `json:"days"`
	Title      string          `json:"title"`
	CustomType string          `json:"customType"`
}

// LogActivityRequest is the payload for POST /v1/goals/{id}/activities.
type LogActivityRequest struct {
	Activity       string   `json:"activity"`
	CustomActivity string   `json:"customActivity"`
	Impact         *float64 `json:"impact"`
}

// GoalView is a goal with its derived figures.
type GoalView struct {
	domain.Goal
	Streak           int       `json:"streak"`
	StreakPercentage float64   `json:"streakPercentage"`
	CarbonSaved      float64   `json:"carbonSaved"`
	EndsAt           time.Time `json:"endsAt"`
}

// ListGoalsResponse packages list results.
type ListGoalsResponse struct {
	Items      []GoalView `json:"items"`
	NextCursor string     `json:"next_cursor,omitempty"`
}

// LogActivityResponse reports the goal after an activity was logged.
type LogActivityResponse struct {
	Goal          GoalView `json:"goal"`
	FirstToday    bool     `json:"firstToday"`
	JustCompleted bool     `json:"justCompleted"`
}

func toGoalView(g domain.Goal) GoalView {
	return GoalView{
		Goal:             g,
		Streak:           g.Streak(),
		StreakPercentage: g.StreakPercentage(),
		CarbonSaved:      g.CarbonSaved(),
		EndsAt:           g.EndsAt(),
	}
}

func (h *Handler) goalTypes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"items": domain.GoalTypes()})
}

func (h *Handler) createGoal(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireScope(w, r, auth.ScopeGoalsWrite)
	if !ok {
		return
	}
	var req CreateGoalRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}

	goal, err := h.Service.CreateGoal(r.Context(), userFromClaims(claims), domain.NewGoalParams{
		Type:       req.Type,
		Target:     req.Target,
		Days:       req.Days,
		Title:      req.Title,
		CustomType: req.CustomType,
	})
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	observability.RecordGoalCreated()
	writeJSON(w, http.StatusCreated, toGoalView(*goal))
}

func (h *Handler) listGoals(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireScope(w, r, auth.ScopeGoalsRead, auth.ScopeGoalsWrite)
	if !ok {
		return
	}

	limit := defaultPageSize
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = min(parsed, maxPageSize)
		}
	}
	cursor, err := persistence.DecodeCursor(r.URL.Query().Get("cursor"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", "invalid cursor")
		return
	}

	goals, next, err := h.Service.ListGoals(r.Context(), claims.Subject, cursor, limit)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	items := make([]GoalView, 0, len(goals))
	for _, g := range goals {
		items = append(items, toGoalView(g))
	}
	writeJSON(w, http.StatusOK, ListGoalsResponse{Items: items, NextCursor: persistence.EncodeCursor(next)})
}

func (h *Handler) getGoal(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireScope(w, r, auth.ScopeGoalsRead, auth.ScopeGoalsWrite)
	if !ok {
		return
	}
	goal, err := h.Service.GetGoal(r.Context(), claims.Subject, r.PathValue("id"))
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toGoalView(*goal))
}

func (h *Handler) logActivity(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireScope(w, r, auth.ScopeGoalsWrite)
	if !ok {
		return
	}
	var req LogActivityRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}

	goal, res, err := h.Service.LogActivity(r.Context(), userFromClaims(claims), r.PathValue("id"), domain.LogActivityInput{
		Activity:       req.Activity,
		CustomActivity: req.CustomActivity,
		Impact:         req.Impact,
	})
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	observability.RecordActivityLogged(res.Completed != nil)
	writeJSON(w, http.StatusOK, LogActivityResponse{
		Goal:          toGoalView(*goal),
		FirstToday:    res.FirstToday,
		JustCompleted: res.Completed != nil,
	})
}

func (h *Handler) goalCalendar(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireScope(w, r, auth.ScopeGoalsRead, auth.ScopeGoalsWrite)
	if !ok {
		return
	}
	cal, err := h.Service.GoalCalendar(r.Context(), claims.Subject, r.PathValue("id"))
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cal)
}
