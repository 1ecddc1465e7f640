package middleware

import (
	"net/http"
	"strings"

	"github.com/go-chi/cors"
)

// DefaultAllowedOrigin is used when no origins are configured
const DefaultAllowedOrigin = "http://localhost:3180"

// CORS returns a CORS middleware with the given allowed origins
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{DefaultAllowedOrigin}
	}
	return cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept",
			"Content-Type",
			"X-Request-ID",
		},
		ExposedHeaders: []string{
			"X-Request-ID",
		},
		AllowCredentials: false,
		MaxAge:           300, // 5 minutes
	})
}

// DevelopmentOrigins adds the loopback variants of the dashboard origin
func DevelopmentOrigins(origins []string) []string {
	out := append([]string(nil), origins...)
	for _, o := range origins {
		if strings.Contains(o, "localhost") {
			out = append(out, strings.Replace(o, "localhost", "127.0.0.1", 1))
		}
	}
	return out
}
