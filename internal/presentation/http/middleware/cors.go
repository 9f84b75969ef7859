package middleware

import (
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sangkips/cafe-pos/internal/config"
)

var (
	defaultOrigins = []string{"http://localhost:3000", "http://localhost:5173", "http://127.0.0.1:5173"}
	defaultMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	defaultHeaders = []string{"Accept", "Authorization", "Content-Type", "Origin", "X-Request-ID"}

	// always allowed so till retries can carry a key
	requiredHeaders = []string{IdempotencyKeyHeader}
)

// CORSMiddleware lets the till and the online ordering front end call the API.
// Downloads expose Content-Disposition so browsers can name the file.
func CORSMiddleware(cfg *config.CORSConfig) gin.HandlerFunc {
	origins := orDefault(cfg.AllowedOrigins, defaultOrigins)
	headers := orDefault(cfg.AllowedHeaders, defaultHeaders)
	for _, h := range requiredHeaders {
		if !slices.Contains(headers, h) {
			headers = append(headers, h)
		}
	}

	return cors.New(cors.Config{
		AllowOrigins: origins,
		AllowMethods: orDefault(cfg.AllowedMethods, defaultMethods),
		AllowHeaders: headers,
		ExposeHeaders: []string{
			"Content-Disposition",
			"X-Request-ID",
			"X-Idempotency-Replayed",
			"X-RateLimit-Limit",
			"X-RateLimit-Remaining",
		},
		AllowCredentials: !slices.Contains(origins, "*"),
		AllowWildcard:    true,
		MaxAge:           12 * time.Hour,
	})
}

func orDefault(values, fallback []string) []string {
	if len(values) == 0 {
		return slices.Clone(fallback)
	}
	return slices.Clone(values)
}
