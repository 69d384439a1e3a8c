package extract

import (
	"bytes"
	"context"
	"strings"
	"unicode/utf8"

	domain "github.com/yanqian/docsum/internal/domain/documents"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// PlainText passes text and markdown files through.
type PlainText struct{}

// NewPlainText returns the plain text extractor.
func NewPlainText() *PlainText { return &PlainText{} }

func (PlainText) Format() string { return "text" }
func (PlainText) Extensions() []string { return []string{"txt", "text", "md", "markdown"} }
func (PlainText) MIMETypes() []string { return []string{"text/plain", "text/markdown"} }

// Extract strips a UTF-8 BOM and replaces invalid bytes.
func (PlainText) Extract(_ context.Context, in domain.ExtractInput) (domain.Extraction, error) {
	content := bytes.TrimPrefix(in.Content, utf8BOM)
	text := string(content)
	if !utf8.ValidString(text) {
		text = strings.ToValidUTF8(text, "�")
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return domain.Extraction{
		Text:  strings.TrimSpace(text),
		Title: firstLineTitle(text, in.Filename),
	}, nil
}
