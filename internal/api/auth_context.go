package api

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/journeyreads/journey-server/internal/http/response"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	contextKeyUserID  contextKey = "user_id"
	contextKeyHandle  contextKey = "handle"
	contextKeyTokenID contextKey = "token_id"
)

// attachUser is middleware that validates a Bearer token when present and
// attaches the user to the request context. Requests without a token (or
// with a bad one) continue anonymously; handlers that need a user go
// through requireAuth.
func (s *Server) attachUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString := bearerToken(r)
		if tokenString == "" {
			next.ServeHTTP(w, r)
			return
		}

		claims, err := s.tokens.VerifyAccessToken(tokenString)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), contextKeyUserID, claims.UserID)
		ctx = context.WithValue(ctx, contextKeyHandle, claims.Handle)
		ctx = context.WithValue(ctx, contextKeyTokenID, claims.TokenID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireAuth is middleware that rejects requests without a valid token.
// Must be used inside attachUser.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if getUserID(r.Context()) == "" {
			response.Unauthorized(w, "Authentication required", s.logger)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requireAdmin guards administrative endpoints behind the configured admin
// token. An empty configured token disables the endpoints entirely.
func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.adminToken == "" {
			response.NotFound(w, "Not found", s.logger)
			return
		}

		given := r.Header.Get("X-Admin-Token")
		if subtle.ConstantTimeCompare([]byte(given), []byte(s.adminToken)) != 1 {
			response.Forbidden(w, "Admin access required", s.logger)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// bearerToken extracts the Bearer token from the Authorization header.
// Returns empty string when absent or malformed.
func bearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}

// getUserID extracts the authenticated user ID from request context.
// Returns empty string if not authenticated.
func getUserID(ctx context.Context) string {
	if userID, ok := ctx.Value(contextKeyUserID).(string); ok {
		return userID
	}
	return ""
}

// getHandle extracts the authenticated user's handle from request context.
// Returns empty string if not authenticated or no handle is set.
func getHandle(ctx context.Context) string {
	if handle, ok := ctx.Value(contextKeyHandle).(string); ok {
		return handle
	}
	return ""
}
