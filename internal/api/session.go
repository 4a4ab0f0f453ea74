package api

import (
	"net/http"
	"sort"
	"strings"
	"time"

	"example.com/ecosangam/internal/auth"
)

// CurrentUserResponse describes the signed-in user.
type CurrentUserResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Scopes    []string  `json:"scopes"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (h *Handler) googleLogin(w http.ResponseWriter, r *http.Request) {
	if h.Login == nil || !h.Login.Configured() {
		writeError(w, http.StatusServiceUnavailable, "login_unavailable", "google sign-in is not configured")
		return
	}
	state := auth.NewState()
	http.SetCookie(w, &http.Cookie{
		Name:     auth.StateCookie,
		Value:    state,
		Path:     "/auth/google",
		MaxAge:   600,
		HttpOnly: true,
		Secure:   h.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, h.Login.AuthCodeURL(state), http.StatusFound)
}

func (h *Handler) googleCallback(w http.ResponseWriter, r *http.Request) {
	if h.Login == nil || h.Issuer == nil {
		writeError(w, http.StatusServiceUnavailable, "login_unavailable", "google sign-in is not configured")
		return
	}
	cookie, err := r.Cookie(auth.StateCookie)
	if err != nil || cookie.Value == "" || cookie.Value != r.URL.Query().Get("state") {
		writeError(w, http.StatusBadRequest, "invalid_request", "state mismatch")
		return
	}
	http.SetCookie(w, &http.Cookie{Name: auth.StateCookie, Path: "/auth/google", MaxAge: -1})

	profile, err := h.Login.Exchange(r.Context(), r.URL.Query().Get("code"))
	if err != nil {
		h.Logger.Warn().Err(err).Msg("google sign-in failed")
		writeError(w, http.StatusUnauthorized, "unauthorized", "google sign-in failed")
		return
	}
	token, expires, err := h.Issuer.Issue(profile.ID, profile.Email, profile.Name, auth.DefaultScopes...)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   h.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	h.Logger.Info().Str("user_id", profile.ID).Msg("user signed in")
	http.Redirect(w, r, strings.TrimRight(h.FrontendURL, "/")+"/home", http.StatusFound)
}

func (h *Handler) currentUser(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "not authenticated")
		return
	}
	scopes := make([]string, 0, len(claims.Scopes))
	for s := range claims.Scopes {
		scopes = append(scopes, s)
	}
	sort.Strings(scopes)
	writeJSON(w, http.StatusOK, CurrentUserResponse{
		ID:        claims.Subject,
		Name:      claims.Name,
		Email:     claims.Email,
		Scopes:    scopes,
		ExpiresAt: claims.ExpiresAt,
	})
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookie,
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	target := h.FrontendURL
	if target == "" {
		target = "/"
	}
	http.Redirect(w, r, target, http.StatusFound)
}
