package api

import (
	"net/http"
	"strings"
	"time"

	"example.com/ecosangam/internal/auth"
	"example.com/ecosangam/internal/events"
)

// CompleteGoalRequest is the payload for POST /completedecogoal. Name and email
// default to the signed-in user.
type CompleteGoalRequest struct {
	Name        string  `json:"name"`
	Email       string  `json:"email"`
	Goal        string  `json:"goal"`
	StartDate   string  `json:"startDate"`
	EndDate     string  `json:"endDate"`
	CarbonSaved float64 `json:"carbonSaved"`
	Streak      int     `json:"streak"`
}

func (h *Handler) completeEcoGoal(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireScope(w, r, auth.ScopeGoalsWrite)
	if !ok {
		return
	}
	var req CompleteGoalRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}
	if strings.TrimSpace(req.Goal) == "" {
		writeError(w, http.StatusBadRequest, "validation_failed", "goal is required")
		return
	}
	if h.Certificates == nil {
		writeError(w, http.StatusServiceUnavailable, "certificate_unavailable", "certificate delivery is not configured")
		return
	}

	completed := events.GoalCompleted{
		Name:        firstNonEmpty(req.Name, claims.Name),
		Email:       firstNonEmpty(req.Email, claims.Email),
		StartDate:   parseDate(req.StartDate),
		EndDate:     parseDate(req.EndDate),
		CarbonSaved: req.CarbonSaved,
		Streak:      req.Streak,
		GoalTitle:   req.Goal,
	}
	if err := h.Certificates.SendCertificate(r.Context(), completed); err != nil {
		h.Logger.Error().Err(err).Str("goal_title", req.Goal).Msg("error sending certificate")
		writeError(w, http.StatusInternalServerError, "server_error", "Failed to generate or send certificate.")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Certificate sent successfully!"})
}

// parseDate accepts RFC 3339 timestamps and plain dates. Anything else yields the zero
// time, which certificates print as a dash.
func parseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
