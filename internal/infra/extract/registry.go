package extract

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"path/filepath"
	"sort"
	"strings"

	domain "github.com/yanqian/docsum/internal/domain/documents"
)

var (
	// ErrUnsupportedFormat means no extractor claims the file.
	ErrUnsupportedFormat = errors.New("unsupported document format")
	// ErrInvalidDocument means the bytes do not match the claimed format.
	ErrInvalidDocument = errors.New("invalid document")
)

// FormatExtractor handles one document format.
type FormatExtractor interface {
	Format() string
	Extensions() []string
	MIMETypes() []string
	Extract(ctx context.Context, in domain.ExtractInput) (domain.Extraction, error)
}

// Registry picks a FormatExtractor by file extension, then by MIME type.
type Registry struct {
	byExt  map[string]FormatExtractor
	byMIME map[string]FormatExtractor
}

// NewRegistry indexes the given extractors. Later entries win on conflicts.
func NewRegistry(extractors ...FormatExtractor) *Registry {
	r := &Registry{byExt: map[string]FormatExtractor{}, byMIME: map[string]FormatExtractor{}}
	for _, e := range extractors {
		for _, ext := range e.Extensions() {
			r.byExt[strings.ToLower(ext)] = e
		}
		for _, m := range e.MIMETypes() {
			r.byMIME[strings.ToLower(m)] = e
		}
	}
	return r
}

// NewDefaultRegistry wires the PDF, HTML, DOCX and plain text extractors.
func NewDefaultRegistry(runner CommandRunner) *Registry {
	return NewRegistry(NewPlainText(), NewHTML(), NewDOCX(), NewPDF(runner))
}

// Supports reports whether some extractor claims filename or mimeType.
func (r *Registry) Supports(filename, mimeType string) bool {
	return r.lookup(filename, mimeType) != nil
}

// Extract runs the matching extractor and fills in the format.
func (r *Registry) Extract(ctx context.Context, in domain.ExtractInput) (domain.Extraction, error) {
	e := r.lookup(in.Filename, in.MimeType)
	if e == nil {
		return domain.Extraction{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, in.Filename)
	}
	if err := ctx.Err(); err != nil {
		return domain.Extraction{}, err
	}
	out, err := e.Extract(ctx, in)
	if err != nil {
		return domain.Extraction{}, fmt.Errorf("%s extraction: %w", e.Format(), err)
	}
	out.Format = e.Format()
	return out, nil
}

// Extensions lists every registered extension, sorted.
func (r *Registry) Extensions() []string {
	out := make([]string, 0, len(r.byExt))
	for ext := range r.byExt {
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}

func (r *Registry) lookup(filename, mimeType string) FormatExtractor {
	if ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), "."); ext != "" {
		if e, ok := r.byExt[ext]; ok {
			return e
		}
	}
	if mimeType == "" {
		return nil
	}
	mediaType, _, err := mime.ParseMediaType(mimeType)
	if err != nil {
		mediaType = mimeType
	}
	return r.byMIME[strings.ToLower(mediaType)]
}

var _ domain.Extractor = (*Registry)(nil)
