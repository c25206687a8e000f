// Package middleware provides the HTTP middleware shared by every route of
// the tour allocation API.
package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// NewCORSHandler lets the browser planner call the API from allowedOrigins.
// Each origin must be scheme plus host with no trailing slash. The rooming
// list download needs Content-Disposition exposed so the browser can read
// the file name.
func NewCORSHandler(allowedOrigins []string) func(http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization", "X-Request-Id"},
		ExposedHeaders: []string{"Content-Disposition", "X-Request-Id"},
		MaxAge:         600,
	})
	return c.Handler
}
