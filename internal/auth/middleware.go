package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

// contextKey is an unexported type for context keys in this package, so
// no other package can read or shadow the authenticated identity.
type contextKey string

const emailKey contextKey = "email"

// RequireAuth gates protected routes. It reads the bearer token from the
// Authorization header, validates it, and attaches the verified email to
// the request context. Missing, malformed, invalid and expired tokens are
// all rejected the same way: 401 and the chain stops.
//
// This is the only authorization boundary — there are no roles, only
// "a verified email is attached".
func RequireAuth(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			email, err := extractEmail(r, tokens)
			if err != nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"error":"unauthorized","message":"valid authentication required"}`))
				return
			}

			ctx := context.WithValue(r.Context(), emailKey, email)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// EmailFromContext returns the authenticated user's email. ok is false on
// requests that did not pass RequireAuth.
func EmailFromContext(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(emailKey).(string)
	return email, ok && email != ""
}

// extractEmail reads "Authorization: Bearer <token>" and validates it.
func extractEmail(r *http.Request, tokens *TokenService) (string, error) {
	header := r.Header.Get("Authorization")
	tokenStr, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || tokenStr == "" {
		return "", errors.New("auth: missing bearer token")
	}

	return tokens.Validate(tokenStr)
}
