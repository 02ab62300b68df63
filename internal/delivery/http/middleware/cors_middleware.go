package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORSMiddleware allows the web frontend to call the API with the session
// cookie. Only the configured origins are accepted; in development localhost
// is added.
func CORSMiddleware(allowedOrigins []string, production bool) gin.HandlerFunc {
	origins := append([]string{}, allowedOrigins...)
	if !production {
		origins = append(origins, "http://localhost:3000", "http://127.0.0.1:3000")
	}

	config := cors.DefaultConfig()
	config.AllowOrigins = dedupe(origins)
	config.AllowCredentials = true
	config.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Content-Type", "Content-Length", "Accept", "Origin", "Cache-Control", "X-Requested-With", RequestIDHeader}
	config.ExposeHeaders = []string{RequestIDHeader, "Retry-After", "Content-Disposition"}
	config.MaxAge = 24 * time.Hour
	return cors.New(config)
}

func dedupe(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
