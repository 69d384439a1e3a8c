package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yanqian/docsum/internal/domain/documents"
	"github.com/yanqian/docsum/internal/domain/summarizer"
)

// DocumentService is the slice of documents.Service the transport needs.
type DocumentService interface {
	Upload(ctx context.Context, req documents.UploadRequest) (documents.UploadResponse, error)
	GetDocument(ctx context.Context, docID uuid.UUID) (documents.Document, error)
	ListDocuments(ctx context.Context, filter documents.DocumentFilter) ([]documents.Document, error)
	ListRecords(ctx context.Context, docID uuid.UUID) ([]documents.SummaryRecord, error)
	Resummarize(ctx context.Context, docID uuid.UUID, req documents.ResummarizeRequest) (documents.ProcessResult, error)
	GetRecord(ctx context.Context, id uuid.UUID) (documents.SummaryRecord, error)
	Health(ctx context.Context) error
	AllowedExtensions() []string
}

// Handler wires the HTTP transport to domain services.
type Handler struct {
	summarizerSvc summarizer.Service
	documentSvc   DocumentService
	logger        *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(summarySvc summarizer.Service, documentSvc DocumentService, logger *slog.Logger) *Handler {
	return &Handler{
		summarizerSvc: summarySvc,
		documentSvc:   documentSvc,
		logger:        logger.With("component", "http.handler"),
	}
}

// Summarize handles the sync text summarization endpoint.
func (h *Handler) Summarize(c *gin.Context) {
	var req summarizer.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", err.Error(), err))
		return
	}

	resp, err := h.summarizerSvc.Summarize(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, fromAppError(err, "summarize_failed"))
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Health reports whether the record store is reachable.
func (h *Handler) Health(c *gin.Context) {
	if err := h.documentSvc.Health(c.Request.Context()); err != nil {
		h.logger.Warn("health check failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": errMessage(err)})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
