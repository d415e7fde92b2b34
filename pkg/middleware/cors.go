package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORS middleware for the owner dashboard frontend
func CORS() func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Admin-Id", "X-Admin-Name", "X-Admin-Email"},
		AllowCredentials: false,
		MaxAge:           300,
	})
}
