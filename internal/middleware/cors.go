package middleware

import (
	"net/http"

	"github.com/rs/cors"

	"skill-backend/internal/config"
)

// NewCORS builds the CORS layer from config. The allowed header list must
// include X-Venue or every venue-scoped call fails browser preflight.
func NewCORS(cfg *config.Config) func(http.Handler) http.Handler {
	opts := cors.Options{
		AllowedOrigins:   cfg.Server.CorsAllowedOrigins,
		AllowedMethods:   cfg.Server.CorsAllowedMethods,
		AllowedHeaders:   cfg.Server.CorsAllowedHeaders,
		AllowCredentials: true,
		MaxAge:           300,
	}
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}
	return cors.New(opts).Handler
}
