// Package api exposes HTTP handlers for the EcoSangam service.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"example.com/ecosangam/internal/auth"
	"example.com/ecosangam/internal/domain"
	"example.com/ecosangam/internal/emissions"
	"example.com/ecosangam/internal/events"
)

// Advisor produces AI generated tips and footprint advice.
type Advisor interface {
	Tip(ctx context.Context, prompt string) (string, error)
	Advice(ctx context.Context, tons float64) (string, error)
}

// CertificateSender renders and emails a completion certificate.
type CertificateSender interface {
	SendCertificate(ctx context.Context, completed events.GoalCompleted) error
}

// Login delegates sign-in to an identity provider.
type Login interface {
	Configured() bool
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (auth.Profile, error)
}

// TokenIssuer signs session tokens.
type TokenIssuer interface {
	Issue(subject, email, name string, scopes ...string) (string, time.Time, error)
}

// Deps groups the collaborators of a Handler. Advisor, Certificates and Login are
// optional; their endpoints answer 503 when absent.
type Deps struct {
	Service      *domain.Service
	Estimator    *emissions.Estimator
	Advisor      Advisor
	Certificates CertificateSender
	Login        Login
	Issuer       TokenIssuer
	FrontendURL  string
	SecureCookie bool
	Logger       zerolog.Logger
}

// Handler coordinates HTTP requests with the domain service.
type Handler struct {
	Deps
}

// NewHandler builds a Handler.
func NewHandler(deps Deps) *Handler {
	if deps.Estimator == nil {
		deps.Estimator = emissions.NewEstimator()
	}
	return &Handler{Deps: deps}
}

// PublicPaths lists the routes served without a session.
var PublicPaths = []string{
	"/healthz",
	"/metrics",
	"/auth/google",
	"/auth/google/callback",
	"/auth/logout",
	"/v1/goal-types",
	"/v1/emissions/vehicles",
}

// RegisterRoutes wires endpoints to the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", healthz)

	mux.HandleFunc("GET /auth/google", h.googleLogin)
	mux.HandleFunc("GET /auth/google/callback", h.googleCallback)
	mux.HandleFunc("GET /auth/google/current_user", h.currentUser)
	mux.HandleFunc("GET /auth/logout", h.logout)

	mux.HandleFunc("GET /v1/emissions/vehicles", h.vehicles)
	mux.HandleFunc("GET /v1/emissions/footprint", h.footprint)
	mux.HandleFunc("POST /v1/emissions/{category}", h.calculate)

	mux.HandleFunc("GET /v1/goal-types", h.goalTypes)
	mux.HandleFunc("GET /v1/goals", h.listGoals)
	mux.HandleFunc("POST /v1/goals", h.createGoal)
	mux.HandleFunc("GET /v1/goals/{id}", h.getGoal)
	mux.HandleFunc("POST /v1/goals/{id}/activities", h.logActivity)
	mux.HandleFunc("GET /v1/goals/{id}/calendar", h.goalCalendar)

	mux.HandleFunc("POST /v1/advice", h.advice)
	mux.HandleFunc("POST /v1/tips", h.tip)

	mux.HandleFunc("POST /completedecogoal", h.completeEcoGoal)
}

// healthz reports a simple OK status for container health checks.
func healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// requireScope returns the caller's claims when they hold one of scopes.
func requireScope(w http.ResponseWriter, r *http.Request, scopes ...string) (*auth.Claims, bool) {
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return nil, false
	}
	for _, s := range scopes {
		if claims.HasScope(s) {
			return claims, true
		}
	}
	writeError(w, http.StatusForbidden, "forbidden", "scope "+scopes[0]+" required")
	return nil, false
}

func userFromClaims(c *auth.Claims) domain.User {
	return domain.User{ID: c.Subject, Name: c.Name, Email: c.Email}
}

// decodeBody decodes a JSON body into dst. An empty body leaves dst untouched.
func decodeBody(r *http.Request, dst any) error {
	err := json.NewDecoder(r.Body).Decode(dst)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func (h *Handler) writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
	case errors.Is(err, domain.ErrGoalNotFound):
		writeError(w, http.StatusNotFound, "not_found", "goal not found")
	default:
		h.Logger.Error().Err(err).Msg("request failed")
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
	}
}

func writeError(w http.ResponseWriter, status int, code, detail string) {
	payload := map[string]string{
		"type":   code,
		"detail": detail,
	}
	writeJSON(w, status, payload)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
