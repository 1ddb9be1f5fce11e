package documents

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"docflow-backend/internal/projects"
	"docflow-backend/internal/shared/server/middleware"
	"docflow-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc      *Service
	MaxBytes int64
}

// NewHandler constructs a Handler. maxBytes caps the request body on the
// upload route before the multipart parser ever sees it.
func NewHandler(svc *Service, maxBytes int64) *Handler {
	return &Handler{Svc: svc, MaxBytes: maxBytes}
}

// RegisterRoutes attaches the document endpoints.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/projects/:projectId/documents", h.upload)
	rg.GET("/projects/:projectId/documents", h.list)
	rg.GET("/documents/:documentId", h.get)
	rg.GET("/documents/:documentId/download", h.download)
	rg.PATCH("/documents/:documentId", h.rename)
	rg.DELETE("/documents/:documentId", h.remove)
	rg.POST("/documents/:documentId/extract", h.extract)
}

func (h *Handler) upload(c *gin.Context) {
	// Some slack over the file limit for the multipart framing.
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxBytes+1<<20)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			respond.Error(c, http.StatusRequestEntityTooLarge, "payload_too_large",
				fmt.Sprintf("file exceeds the %d byte limit", h.MaxBytes), nil)
			return
		}
		respond.Error(c, http.StatusBadRequest, "validation_error", "multipart field 'file' is required", nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "could not read uploaded file", nil)
		return
	}
	defer file.Close()

	userID := middleware.UserIDFromContext(c)
	d, err := h.Svc.Upload(c.Request.Context(), userID, c.Param("projectId"), UploadInput{
		Filename:         fileHeader.Filename,
		DeclaredMimeType: fileHeader.Header.Get("Content-Type"),
		Size:             fileHeader.Size,
		Body:             file,
	})
	if err != nil {
		switch {
		case errors.Is(err, projects.ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "project not found", nil)
		case errors.Is(err, ErrTooLarge):
			respond.Error(c, http.StatusRequestEntityTooLarge, "payload_too_large", err.Error(), nil)
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to upload document", nil)
		}
		return
	}
	respond.JSON(c, http.StatusCreated, d)
}

func (h *Handler) list(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	out, err := h.Svc.List(c.Request.Context(), userID, c.Param("projectId"))
	if err != nil {
		if errors.Is(err, projects.ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "project not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list documents", nil)
		return
	}
	if out == nil {
		out = []Document{}
	}
	respond.JSON(c, http.StatusOK, gin.H{"documents": out})
}

func (h *Handler) get(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	d, err := h.Svc.Get(c.Request.Context(), userID, c.Param("documentId"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "document not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load document", nil)
		return
	}
	respond.JSON(c, http.StatusOK, d)
}

func (h *Handler) download(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	d, blob, err := h.Svc.Download(c.Request.Context(), userID, c.Param("documentId"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "document not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to open document", nil)
		return
	}
	defer blob.Close()

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", d.Name))
	c.Header("Content-Type", d.MimeType)
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, blob); err != nil {
		// Headers are gone by now; nothing left to do but note it.
		_ = c.Error(err)
	}
}

type renameRequest struct {
	Name string `json:"name"`
}

func (h *Handler) rename(c *gin.Context) {
	var req renameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	userID := middleware.UserIDFromContext(c)
	d, err := h.Svc.Rename(c.Request.Context(), userID, c.Param("documentId"), req.Name)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "document not found", nil)
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to rename document", nil)
		}
		return
	}
	respond.JSON(c, http.StatusOK, d)
}

func (h *Handler) remove(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	if err := h.Svc.Delete(c.Request.Context(), userID, c.Param("documentId")); err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "document not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to delete document", nil)
		return
	}
	respond.JSON(c, http.StatusOK, gin.H{"deleted": true})
}

func (h *Handler) extract(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	c.Set("documentId", c.Param("documentId"))
	d, err := h.Svc.Extract(c.Request.Context(), userID, c.Param("documentId"))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "document not found", nil)
		case errors.Is(err, ErrConflict):
			respond.Error(c, http.StatusConflict, "conflict", "extraction already in progress", nil)
		case errors.Is(err, ErrExtractionFailed):
			respond.Error(c, http.StatusInternalServerError, "extraction_failed", "extraction failed", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to extract document", nil)
		}
		return
	}
	c.Set("statusTransition", StatusProcessing+"->"+d.Status)
	respond.JSON(c, http.StatusOK, gin.H{
		"document":      d,
		"extractedData": d.Extraction,
	})
}
