package middleware

import (
	"net/http"

	"github.com/SawLinThant/hotel-management-backend-api/pkg/utils"

	"github.com/rs/cors"
)

// CORS allows the configured origins. Credentials are only allowed with explicit origins.
func CORS(config utils.CORSConfig) func(http.Handler) http.Handler {
	origins := config.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	wildcard := false
	for _, o := range origins {
		if o == "*" {
			wildcard = true
		}
	}

	return cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: !wildcard,
		MaxAge:           300,
	}).Handler
}
