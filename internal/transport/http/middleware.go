package httptransport

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"example.com/ecosangam/internal/observability"
)

// Middleware decorates a handler.
type Middleware func(http.Handler) http.Handler

// Chain applies middlewares so that the first one listed runs outermost.
func Chain(h http.Handler, middlewares ...Middleware) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

type routeKey struct{}

// Routes wraps the innermost mux and reports the matched pattern back to
// RequestLogger, which may sit outside middlewares that copy the request.
func Routes(mux http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mux.ServeHTTP(w, r)
		if route, ok := r.Context().Value(routeKey{}).(*string); ok {
			*route = r.Pattern
		}
	})
}

// RequestLogger logs each request and records its latency. Routes are labelled by the
// matched mux pattern so that path parameters do not explode metric cardinality.
func RequestLogger(logger zerolog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			route := new(string)
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r.WithContext(context.WithValue(r.Context(), routeKey{}, route)))
			elapsed := time.Since(start)

			label := *route
			if label == "" {
				label = "unmatched"
			}
			observability.ObserveHTTPRequest(r.Method, label, rec.status, elapsed)

			event := logger.Info()
			if rec.status >= http.StatusInternalServerError {
				event = logger.Error()
			}
			event.Str("method", r.Method).
				Str("path", r.URL.Path).
				Str("route", label).
				Int("status", rec.status).
				Dur("duration", elapsed).
				Msg("request")
		})
	}
}

// CORS allows credentialed requests from a single front-end origin.
func CORS(origin string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
