package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORS allows browser clients from origins ("*" for any) to call every route.
// Preflight requests are answered here and never reach the router.
func CORS(origins []string) func(next http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodHead,
			http.MethodPost,
			http.MethodPut,
			http.MethodPatch,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{"Retry-After"},
		MaxAge:         300,
	})
}
