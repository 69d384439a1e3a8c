package http

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/docsum/internal/domain/documents"
	apperrors "github.com/yanqian/docsum/pkg/errors"
)

//go:embed templates/*.html
var templatesFS embed.FS

func loadTemplates() *template.Template {
	return template.Must(template.New("").ParseFS(templatesFS, "templates/*.html"))
}

// Index renders the upload form.
func (h *Handler) Index(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", gin.H{
		"extensions":   h.documentSvc.AllowedExtensions(),
		"numSentences": "",
	})
}

// UploadPage handles the form post. A missing file or an unsupported type
// redirects back to the form.
func (h *Handler) UploadPage(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil || fileHeader.Filename == "" {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	data, err := readUpload(fileHeader)
	if err != nil {
		h.renderFormError(c, http.StatusBadRequest, "failed to read upload")
		return
	}
	numSentences, err := optionalInt(c.PostForm("numSentences"))
	if err != nil {
		h.renderFormError(c, http.StatusBadRequest, "number of sentences must be an integer")
		return
	}

	resp, err := h.documentSvc.Upload(c.Request.Context(), documents.UploadRequest{
		Filename:     fileHeader.Filename,
		MimeType:     fileHeader.Header.Get("Content-Type"),
		Content:      data,
		NumSentences: numSentences,
		Source:       documents.DocumentSourceUpload,
	})
	if err != nil {
		if apperrors.IsCode(err, apperrors.CodeUnsupportedFormat) {
			c.Redirect(http.StatusSeeOther, "/")
			return
		}
		httpErr := fromAppError(err, "upload_failed")
		h.logger.Warn("page upload failed", "code", httpErr.Code, "error", err)
		h.renderFormError(c, httpErr.Status, httpErr.Message)
		return
	}

	view := gin.H{
		"filename":  resp.Document.SourceID,
		"persisted": resp.Persisted,
	}
	if resp.Summary != nil {
		view["summary"] = resp.Summary.Summary
		view["keywords"] = resp.Summary.Keywords
	}
	c.HTML(http.StatusOK, "summary.html", view)
}

func (h *Handler) renderFormError(c *gin.Context, status int, message string) {
	c.HTML(status, "index.html", gin.H{
		"extensions":   h.documentSvc.AllowedExtensions(),
		"numSentences": "",
		"error":        message,
	})
}
