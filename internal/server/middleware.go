package server

import (
	"context"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hnrobert/edupulse/internal/auth"
	"github.com/hnrobert/edupulse/internal/logger"
)

type ctxKey string

const (
	ctxClaims    ctxKey = "claims"
	ctxRequestID ctxKey = "request_id"

	requestIDHeader = "X-Request-ID"
)

func remoteIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func (a *App) withRequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)

		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(context.WithValue(r.Context(), ctxRequestID, id)))

		logger.Info("%s %s %d %s req=%s ip=%s", r.Method, r.URL.Path, rec.status, time.Since(start).Round(time.Millisecond), id, remoteIP(r))
	})
}

func (a *App) withAuthContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if claims := a.readAuth(r); claims != nil {
			r = r.WithContext(context.WithValue(r.Context(), ctxClaims, claims))
		}
		next.ServeHTTP(w, r)
	})
}

// readAuth prefers the Authorization header and falls back to the session cookie.
func (a *App) readAuth(r *http.Request) *auth.Claims {
	authz := r.Header.Get("Authorization")
	if authz != "" {
		parts := strings.SplitN(authz, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			if cl, err := a.accounts.VerifyToken(parts[1]); err == nil {
				return cl
			}
		}
	}
	if c, err := r.Cookie(a.cookieName); err == nil && c.Value != "" {
		if cl, err := a.accounts.VerifyToken(c.Value); err == nil {
			return cl
		}
	}
	return nil
}

func claimsFrom(r *http.Request) *auth.Claims {
	if cl, ok := r.Context().Value(ctxClaims).(*auth.Claims); ok {
		return cl
	}
	return nil
}

func requestIDFrom(r *http.Request) string {
	id, _ := r.Context().Value(ctxRequestID).(string)
	return id
}

func (a *App) requireAuth(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if claimsFrom(r) == nil {
			writeMessage(w, http.StatusUnauthorized, "Authentication required")
			return
		}
		h(w, r)
	}
}

func (a *App) requireAdmin(h http.HandlerFunc) http.HandlerFunc {
	return a.requireAuth(func(w http.ResponseWriter, r *http.Request) {
		if claimsFrom(r).Role != auth.RoleAdmin {
			writeMessage(w, http.StatusForbidden, "Forbidden")
			return
		}
		h(w, r)
	})
}
