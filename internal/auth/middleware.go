package auth

import (
	"net/http"
	"strings"
)

// SessionCookie carries the session token for browser clients.
const SessionCookie = "ecosangam_session"

// Skipper allows callers to bypass authentication for specific requests.
type Skipper func(r *http.Request) bool

// Middleware provides HTTP middleware for token validation. Tokens are read from the
// Authorization header, falling back to the session cookie.
type Middleware struct {
	Config  Config
	Skipper Skipper
}

// NewMiddleware constructs a middleware with optional skipper.
func NewMiddleware(cfg Config, skipper Skipper) Middleware {
	return Middleware{Config: cfg, Skipper: skipper}
}

// PublicPaths skips authentication for the listed exact paths and prefixes ending
// in "/".
func PublicPaths(paths ...string) Skipper {
	return func(r *http.Request) bool {
		for _, p := range paths {
			if r.URL.Path == p || (strings.HasSuffix(p, "/") && strings.HasPrefix(r.URL.Path, p)) {
				return true
			}
		}
		return false
	}
}

// Wrap wraps an http.Handler with authentication.
func (m Middleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.Skipper != nil && m.Skipper(r) {
			next.ServeHTTP(w, r)
			return
		}

		claims, err := m.parseRequest(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
	})
}

func (m Middleware) parseRequest(r *http.Request) (*Claims, error) {
	if header := r.Header.Get("Authorization"); header != "" {
		if !strings.HasPrefix(strings.ToLower(header), "bearer ") {
			return nil, ErrInvalidToken
		}
		return Parse(header[len("Bearer "):], m.Config)
	}
	if cookie, err := r.Cookie(SessionCookie); err == nil {
		return Parse(cookie.Value, m.Config)
	}
	return nil, ErrMissingToken
}
