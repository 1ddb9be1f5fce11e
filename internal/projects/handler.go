package projects

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"docflow-backend/internal/organizations"
	"docflow-backend/internal/shared/server/middleware"
	"docflow-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches the project endpoints.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/orgs/:orgId/projects", h.create)
	rg.GET("/orgs/:orgId/projects", h.list)
	rg.GET("/projects/:projectId", h.get)
	rg.DELETE("/projects/:projectId", h.remove)
}

func (h *Handler) create(c *gin.Context) {
	var req CreateInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	userID := middleware.UserIDFromContext(c)
	p, err := h.Svc.Create(c.Request.Context(), userID, c.Param("orgId"), req)
	if err != nil {
		switch {
		case errors.Is(err, organizations.ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "organization not found", nil)
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to create project", nil)
		}
		return
	}
	respond.JSON(c, http.StatusCreated, p)
}

func (h *Handler) list(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	out, err := h.Svc.List(c.Request.Context(), userID, c.Param("orgId"))
	if err != nil {
		if errors.Is(err, organizations.ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "organization not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list projects", nil)
		return
	}
	if out == nil {
		out = []Project{}
	}
	respond.JSON(c, http.StatusOK, gin.H{"projects": out})
}

func (h *Handler) get(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	p, err := h.Svc.Get(c.Request.Context(), userID, c.Param("projectId"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "project not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load project", nil)
		return
	}
	respond.JSON(c, http.StatusOK, p)
}

func (h *Handler) remove(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	if err := h.Svc.Delete(c.Request.Context(), userID, c.Param("projectId")); err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "project not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to delete project", nil)
		return
	}
	respond.JSON(c, http.StatusOK, gin.H{"deleted": true})
}
