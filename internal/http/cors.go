package http

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

const corsMaxAge = 12 * time.Hour

// createCORSMiddleware builds the CORS middleware for the back office UI from the
// comma-separated CORS_ALLOW_ORIGINS value. It returns nil when CORS is disabled or
// no usable origin is configured. A single "*" allows every origin.
func createCORSMiddleware(enabled bool, allowOriginsStr string, logger *slog.Logger) gin.HandlerFunc {
	if !enabled {
		return nil
	}

	origins, rejected := parseOrigins(allowOriginsStr)
	for _, origin := range rejected {
		logger.Warn("ignoring CORS origin without http or https scheme", slog.String("origin", origin))
	}
	if len(origins) == 0 {
		logger.Warn("CORS enabled but no valid origins configured, CORS will not be applied")
		return nil
	}

	config := cors.Config{
		AllowMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodPatch,
			http.MethodDelete,
		},
		AllowHeaders:  []string{"Content-Type", "X-Request-Id"},
		ExposeHeaders: []string{"X-Request-Id"},
		MaxAge:        corsMaxAge,
	}
	if len(origins) == 1 && origins[0] == "*" {
		config.AllowAllOrigins = true
	} else {
		config.AllowOrigins = origins
	}

	logger.Info("CORS enabled", slog.Any("origins", origins))
	return cors.New(config)
}

// parseOrigins splits a comma-separated origin list, dropping blanks. Entries that
// gin-contrib/cors would refuse are returned separately.
func parseOrigins(originsStr string) (origins, rejected []string) {
	for part := range strings.SplitSeq(originsStr, ",") {
		origin := strings.TrimSuffix(strings.TrimSpace(part), "/")
		switch {
		case origin == "":
		case origin == "*",
			strings.HasPrefix(origin, "http://"),
			strings.HasPrefix(origin, "https://"):
			origins = append(origins, origin)
		default:
			rejected = append(rejected, origin)
		}
	}
	return origins, rejected
}
