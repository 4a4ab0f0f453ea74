package api

import (
	"io"
	"net/http"
	"strconv"

	"example.com/ecosangam/internal/auth"
	"example.com/ecosangam/internal/emissions"
	"example.com/ecosangam/internal/observability"
)

// CalculateResponse is returned by POST /v1/emissions/{category}.
type CalculateResponse struct {
	emissions.Result
	TotalTons   float64 `json:"totalTons"`
	Advice      string  `json:"advice,omitempty"`
	AdviceError string  `json:"advice_error,omitempty"`
}

// FootprintResponse is returned by GET /v1/emissions/footprint.
type FootprintResponse struct {
	Results       []emissions.Result      `json:"results"`
	TotalTons     float64                 `json:"totalTons"`
	Equivalencies []emissions.Equivalency `json:"equivalencies"`
	Summary       string                  `json:"summary,omitempty"`
}

func (h *Handler) calculate(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireScope(w, r, auth.ScopeFootprintWrite)
	if !ok {
		return
	}
	category, ok := emissions.ParseCategory(r.PathValue("category"))
	if !ok {
		writeError(w, http.StatusNotFound, "not_found", "unknown category "+strconv.Quote(r.PathValue("category")))
		return
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to read body")
		return
	}
	input, err := emissions.DecodeInput(category, body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}

	result := h.Estimator.Estimate(input)
	observability.RecordEstimation(string(category))

	fp, err := h.Service.RecordEstimate(r.Context(), claims.Subject, result)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	resp := CalculateResponse{Result: result, TotalTons: fp.Total()}

	if wantAdvice, _ := strconv.ParseBool(r.URL.Query().Get("advice")); wantAdvice {
		if h.Advisor == nil {
			resp.AdviceError = "advice is not configured"
		} else if text, err := h.Advisor.Advice(r.Context(), result.Tons); err != nil {
			resp.AdviceError = err.Error()
		} else {
			resp.Advice = text
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) footprint(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireScope(w, r, auth.ScopeGoalsRead, auth.ScopeFootprintWrite)
	if !ok {
		return
	}
	fp, err := h.Service.Footprint(r.Context(), claims.Subject)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	total := fp.Total()
	eqs := emissions.Equivalencies(total)
	if eqs == nil {
		eqs = []emissions.Equivalency{}
	}
	writeJSON(w, http.StatusOK, FootprintResponse{
		Results:       fp.Results(),
		TotalTons:     total,
		Equivalencies: eqs,
		Summary:       emissions.Summary(eqs),
	})
}

func (h *Handler) vehicles(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"databases": emissions.Vehicles()})
}
