package httpapi

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"vehiclepass/internal/auth"
)

type contextKey int

const principalKey contextKey = iota

// principalFrom returns the authenticated principal the middleware stored.
// The zero Principal has no role and fails every policy check, so a
// handler reached without authentication still cannot do anything.
func principalFrom(ctx context.Context) auth.Principal {
	p, _ := ctx.Value(principalKey).(auth.Principal)
	return p
}

// basicAuthMiddleware authenticates every request with HTTP Basic
// credentials and threads the resulting principal into the context.  Role
// decisions stay inside the services; this layer only answers "who".
func basicAuthMiddleware(a *auth.Authenticator, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		username, password, ok := r.BasicAuth()
		if !ok {
			w.Header().Set("WWW-Authenticate", `Basic realm="vehiclepass"`)
			writeError(w, http.StatusUnauthorized, "unauthenticated", "credentials required")
			return
		}

		p, err := a.Authenticate(r.Context(), username, password)
		if errors.Is(err, auth.ErrInvalidCredentials) {
			w.Header().Set("WWW-Authenticate", `Basic realm="vehiclepass"`)
			writeError(w, http.StatusUnauthorized, "unauthenticated", "invalid credentials")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", "unexpected server error")
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), principalKey, p)))
	})
}

func loggingMiddleware(logger *log.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now().UTC()
		next.ServeHTTP(w, r)
		logger.Printf("%s %s from=%s dur=%s", r.Method, r.URL.Path, r.RemoteAddr, time.Since(start))
	})
}
