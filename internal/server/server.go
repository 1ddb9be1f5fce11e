package server

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"docflow-backend/internal/documents"
	"docflow-backend/internal/organizations"
	"docflow-backend/internal/projects"
	"docflow-backend/internal/shared/config"
	"docflow-backend/internal/users"
)

// Handlers collects the feature handlers the router mounts.
type Handlers struct {
	Users         *users.Handler
	Organizations *organizations.Handler
	Projects      *projects.Handler
	Documents     *documents.Handler
}

// NewEngine builds the gin engine with middleware and routes registered.
func NewEngine(cfg config.Config, h Handlers) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	registerRoutes(engine, cfg, h)
	return engine
}

// Addr returns a normalized listen address for the given port.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return fmt.Sprintf(":%s", port)
}
