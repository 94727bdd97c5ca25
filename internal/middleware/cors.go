package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// NewCORSHandler builds the cross-origin policy for the API. Origins come
// from configuration (full scheme+host entries, no trailing slash); methods
// and headers cover the whole REST surface, including the Authorization
// bearer header. Preflight results may be cached by the browser for an hour.
func NewCORSHandler(allowedOrigins []string) func(http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
		MaxAge:         3600,
	}).Handler
}
