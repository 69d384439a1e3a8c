package http

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yanqian/docsum/internal/domain/documents"
)

// UploadDocument handles multipart upload. Synchronous uploads return the
// summary; async uploads return 202 with the pending document.
func (h *Handler) UploadDocument(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		abortWithError(c, formFileError(err))
		return
	}
	data, err := readUpload(fileHeader)
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "failed to read upload", err))
		return
	}
	numSentences, err := optionalInt(c.PostForm("numSentences"))
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "numSentences must be an integer", err))
		return
	}
	async, _ := strconv.ParseBool(c.DefaultPostForm("async", "false"))

	resp, err := h.documentSvc.Upload(c.Request.Context(), documents.UploadRequest{
		Filename:     fileHeader.Filename,
		MimeType:     fileHeader.Header.Get("Content-Type"),
		Content:      data,
		NumSentences: numSentences,
		Language:     c.PostForm("language"),
		Source:       documents.DocumentSourceAPI,
		Async:        async,
	})
	if err != nil {
		abortWithError(c, fromAppError(err, "upload_failed"))
		return
	}
	h.logger.Info("document uploaded", "document_id", resp.Document.ID, "subject", requestSubject(c), "queued", resp.Queued)
	if resp.Queued {
		c.JSON(http.StatusAccepted, resp)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ListDocuments returns documents newest first.
func (h *Handler) ListDocuments(c *gin.Context) {
	filter := documents.DocumentFilter{Statuses: parseStatuses(c.Query("status"))}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "limit must be a non-negative integer", err))
			return
		}
		filter.Limit = limit
	}
	docs, err := h.documentSvc.ListDocuments(c.Request.Context(), filter)
	if err != nil {
		abortWithError(c, fromAppError(err, "fetch_failed"))
		return
	}
	if docs == nil {
		docs = []documents.Document{}
	}
	c.JSON(http.StatusOK, gin.H{"items": docs})
}

// GetDocument returns a single document's metadata.
func (h *Handler) GetDocument(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	doc, err := h.documentSvc.GetDocument(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, fromAppError(err, "fetch_failed"))
		return
	}
	c.JSON(http.StatusOK, doc)
}

// ListDocumentSummaries returns every summary record of a document.
func (h *Handler) ListDocumentSummaries(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	records, err := h.documentSvc.ListRecords(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, fromAppError(err, "fetch_failed"))
		return
	}
	if records == nil {
		records = []documents.SummaryRecord{}
	}
	c.JSON(http.StatusOK, gin.H{"items": records})
}

// Resummarize re-runs the summarizer over a document's stored text.
func (h *Handler) Resummarize(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req documents.ResummarizeRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", err.Error(), err))
			return
		}
	}
	result, err := h.documentSvc.Resummarize(c.Request.Context(), id, req)
	if err != nil {
		abortWithError(c, fromAppError(err, "summarize_failed"))
		return
	}
	c.JSON(http.StatusCreated, result)
}

// GetRecord returns one summary record.
func (h *Handler) GetRecord(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	rec, err := h.documentSvc.GetRecord(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, fromAppError(err, "fetch_failed"))
		return
	}
	c.JSON(http.StatusOK, rec)
}

func pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "invalid "+name, err))
		return uuid.Nil, false
	}
	return id, true
}

func formFileError(err error) *HTTPError {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return NewHTTPError(http.StatusRequestEntityTooLarge, "too_large", "request body too large", err)
	}
	return NewHTTPError(http.StatusBadRequest, "invalid_request", "file is required", err)
}

func readUpload(fileHeader *multipart.FileHeader) ([]byte, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(file)
}

func optionalInt(raw string) (*int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func parseStatuses(raw string) []documents.DocumentStatus {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]documents.DocumentStatus, 0, len(parts))
	for _, part := range parts {
		switch status := documents.DocumentStatus(strings.ToLower(strings.TrimSpace(part))); status {
		case documents.DocumentStatusPending, documents.DocumentStatusProcessing,
			documents.DocumentStatusProcessed, documents.DocumentStatusFailed:
			out = append(out, status)
		}
	}
	return out
}
