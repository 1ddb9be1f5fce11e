package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"docflow-backend/internal/shared/config"
	"docflow-backend/internal/shared/metrics"
	"docflow-backend/internal/shared/server/middleware"
)

func registerRoutes(r *gin.Engine, cfg config.Config, h Handlers) {
	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORSAllowOrigin),
	)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	h.Users.RegisterPublicRoutes(api)

	authed := api.Group("")
	authed.Use(
		middleware.Auth([]byte(cfg.JWTSecret)),
		middleware.RateLimit(rateLimitConfig()),
	)
	h.Users.RegisterRoutes(authed)
	h.Organizations.RegisterRoutes(authed)
	h.Projects.RegisterRoutes(authed)
	h.Documents.RegisterRoutes(authed)
}

// Extraction reads the whole blob, so it gets a tighter budget than plain
// CRUD. Uploads sit in between.
func rateLimitConfig() middleware.RateLimitConfig {
	return middleware.RateLimitConfig{
		Rules: map[string]middleware.RateLimitRule{
			"DEFAULT": {Rate: 50, Burst: 100},
			"UPLOAD":  {Rate: 5, Burst: 10},
			"EXTRACT": {Rate: 2, Burst: 5},
		},
		DefaultGroup: "DEFAULT",
		GroupFor: func(c *gin.Context) string {
			if c.Request.Method != http.MethodPost {
				return ""
			}
			path := c.Request.URL.Path
			switch {
			case strings.HasSuffix(path, "/extract"):
				return "EXTRACT"
			case strings.HasSuffix(path, "/documents"):
				return "UPLOAD"
			default:
				return ""
			}
		},
	}
}
