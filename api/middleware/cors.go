package middleware

import (
	"net/http"

	"github.com/go-chi/cors"

	"github.com/stocknexus/stocknexus-backend/pkg/config"
)

// CORS returns middleware that applies the configured allowed origin policy.
func CORS(app config.AppConfig) func(http.Handler) http.Handler {
	origins := app.CORSAllowedOrigins()
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposedHeaders:   []string{"Content-Disposition", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler
}
