package middleware

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/rogerio-castellano/storefront/internal/auth"
	rl "github.com/rogerio-castellano/storefront/internal/http/rate_limiter"
	"go.uber.org/zap"
)

type contextKey string

const sessionKey = contextKey("session")

// SessionMiddleware rejects requests without a valid session token and
// stores the session id in the request context.
func SessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, err := auth.SessionFromHeader(r.Header.Get("Authorization"))
		if err != nil {
			if errors.Is(err, auth.ErrMissingToken) {
				http.Error(w, "missing or invalid token", http.StatusUnauthorized)
				return
			}
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), sessionKey, session)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func GetSession(r *http.Request) string {
	if val, ok := r.Context().Value(sessionKey).(string); ok {
		return val
	}
	return ""
}

func RateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)
		if !rl.GetVisitor(ip).Allow() {
			zap.L().Debug("rate limit exceeded", zap.String("ip", ip), zap.String("path", r.URL.Path))
			http.Error(w, "too many requests", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
