package middleware

import (
	"context"
	"net/http"
	"strings"

	"skill-backend/internal/auth"
	"skill-backend/internal/config"
	"skill-backend/internal/skill"
)

type contextKey string

const UsernameKey contextKey = "username"
const VenueKey contextKey = "venue"

type AuthMiddleware struct {
	jwtManager *auth.JWTManager
	cfg        *config.Config
}

func NewAuthMiddleware(jwtManager *auth.JWTManager, cfg *config.Config) *AuthMiddleware {
	return &AuthMiddleware{jwtManager: jwtManager, cfg: cfg}
}

// Authenticate validates the platform session token and threads the
// wrapped Skill bearer token into the request context so upstream calls
// run on the caller's credentials.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "Authorization header required", http.StatusUnauthorized)
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			http.Error(w, "Invalid authorization format", http.StatusUnauthorized)
			return
		}

		claims, err := m.jwtManager.ValidateToken(parts[1])
		if err != nil {
			http.Error(w, "Invalid or expired token", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), UsernameKey, claims.Username)
		ctx = skill.WithToken(ctx, claims.SkillToken)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ResolveVenue reads the selected venue from the X-Venue header (the UI
// persists the selection in local storage and sends it on every call)
// and threads the venue's Skill idData into the context.
func (m *AuthMiddleware) ResolveVenue(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		code := r.Header.Get("X-Venue")
		if code == "" {
			http.Error(w, "X-Venue header required", http.StatusBadRequest)
			return
		}
		venue := m.cfg.Venue(code)
		if venue == nil {
			http.Error(w, "Unknown venue", http.StatusBadRequest)
			return
		}

		ctx := context.WithValue(r.Context(), VenueKey, venue.Code)
		ctx = skill.WithVenue(ctx, venue.IDData)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUsernameFromContext extracts the staff username from the context
func GetUsernameFromContext(ctx context.Context) (string, bool) {
	username, ok := ctx.Value(UsernameKey).(string)
	return username, ok
}

// GetVenueFromContext extracts the selected venue code from the context
func GetVenueFromContext(ctx context.Context) (string, bool) {
	venue, ok := ctx.Value(VenueKey).(string)
	return venue, ok
}
