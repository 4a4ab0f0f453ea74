package api

import (
	"errors"
	"net/http"

	"example.com/ecosangam/internal/advisor"
	"example.com/ecosangam/internal/auth"
)

// AdviceRequest is the payload for POST /v1/advice.
type AdviceRequest struct {
	Result *float64 `json:"result"`
}

// TipRequest is the payload for POST /v1/tips.
type TipRequest struct {
	Prompt string `json:"prompt"`
}

func (h *Handler) advice(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireScope(w, r, auth.ScopeAdvice); !ok {
		return
	}
	var req AdviceRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}
	if req.Result == nil {
		writeError(w, http.StatusBadRequest, "validation_failed", "result is required")
		return
	}
	if h.Advisor == nil {
		writeError(w, http.StatusServiceUnavailable, "advice_unavailable", "advice is not configured")
		return
	}
	text, err := h.Advisor.Advice(r.Context(), *req.Result)
	if err != nil {
		h.writeAdvisorError(w, err, "Could not generate advice.")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"summary": text})
}

func (h *Handler) tip(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireScope(w, r, auth.ScopeAdvice); !ok {
		return
	}
	var req TipRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}
	if h.Advisor == nil {
		writeError(w, http.StatusServiceUnavailable, "advice_unavailable", "advice is not configured")
		return
	}
	text, err := h.Advisor.Tip(r.Context(), req.Prompt)
	if err != nil {
		h.writeAdvisorError(w, err, "Could not fetch sustainability tip.")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"tip": text})
}

func (h *Handler) writeAdvisorError(w http.ResponseWriter, err error, detail string) {
	h.Logger.Warn().Err(err).Msg("advisor request failed")
	if errors.Is(err, advisor.ErrUnavailable) {
		writeError(w, http.StatusServiceUnavailable, "advice_unavailable", detail)
		return
	}
	writeError(w, http.StatusInternalServerError, "server_error", detail)
}
