package documents

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"docvault-backend/internal/shared/server/middleware"
	"docvault-backend/internal/shared/server/respond"
)

const maxUploadSize = 10 << 20 // 10MB

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches document routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/documents/upload", h.upload)
	rg.GET("/documents", h.list)
	rg.GET("/documents/:id", h.get)
	rg.GET("/documents/:id/download", h.download)
	rg.DELETE("/documents/:id", h.remove)
}

func (h *Handler) upload(c *gin.Context) {
	customerID := middleware.CustomerIDFromContext(c)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}
	defer file.Close()

	doc, err := h.Svc.Upload(c.Request.Context(), customerID, fileHeader.Filename, file)
	if err != nil {
		switch {
		case errors.Is(err, ErrTypeNotAllowed):
			respond.Error(c, http.StatusBadRequest, "validation_error", "file type not allowed", nil)
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		case errors.Is(err, ErrDuplicate):
			respond.Error(c, http.StatusConflict, "conflict", "duplicate document: identical content already uploaded", nil)
		case errors.Is(err, ErrUnavailable):
			respond.Error(c, http.StatusServiceUnavailable, "unavailable", "document store unavailable, retry later", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to upload document", nil)
		}
		return
	}

	c.Set("documentId", doc.ID)
	respond.JSON(c, http.StatusCreated, gin.H{
		"document_id": doc.ID,
		"filename":    doc.Filename,
	})
}

func (h *Handler) list(c *gin.Context) {
	customerID := middleware.CustomerIDFromContext(c)
	page := ParsePageRequest(c.Query("page"), c.Query("per_page"))

	docs, total, err := h.Svc.List(c.Request.Context(), customerID, page)
	if err != nil {
		switch {
		case errors.Is(err, ErrUnavailable):
			respond.Error(c, http.StatusServiceUnavailable, "unavailable", "document store unavailable, retry later", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list documents", nil)
		}
		return
	}

	resp := ListResponse{
		Documents: make([]DocumentResponse, 0, len(docs)),
		Total:     total,
		Page:      page.Page,
		PerPage:   page.PerPage,
	}
	for _, doc := range docs {
		resp.Documents = append(resp.Documents, toResponse(doc))
	}

	respond.JSON(c, http.StatusOK, resp)
}

func (h *Handler) get(c *gin.Context) {
	customerID := middleware.CustomerIDFromContext(c)
	documentID := c.Param("id")

	doc, err := h.Svc.Get(c.Request.Context(), customerID, documentID)
	if err != nil {
		h.respondFetchError(c, err)
		return
	}

	c.Set("documentId", doc.ID)
	respond.JSON(c, http.StatusOK, toResponse(doc))
}

func (h *Handler) download(c *gin.Context) {
	customerID := middleware.CustomerIDFromContext(c)
	documentID := c.Param("id")

	doc, rc, err := h.Svc.Open(c.Request.Context(), customerID, documentID)
	if err != nil {
		h.respondFetchError(c, err)
		return
	}
	defer rc.Close()

	c.Set("documentId", doc.ID)
	contentType := doc.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	extraHeaders := map[string]string{
		"Content-Disposition": fmt.Sprintf("attachment; filename=%q", doc.Filename),
	}
	c.DataFromReader(http.StatusOK, doc.SizeBytes, contentType, rc, extraHeaders)
}

func (h *Handler) remove(c *gin.Context) {
	customerID := middleware.CustomerIDFromContext(c)
	documentID := c.Param("id")

	if err := h.Svc.Delete(c.Request.Context(), customerID, documentID); err != nil {
		h.respondFetchError(c, err)
		return
	}

	c.Set("documentId", documentID)
	respond.JSON(c, http.StatusOK, gin.H{"message": "document deleted successfully"})
}

func (h *Handler) respondFetchError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "document not found", nil)
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.Is(err, ErrUnavailable):
		respond.Error(c, http.StatusServiceUnavailable, "unavailable", "document store unavailable, retry later", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch document", nil)
	}
}
