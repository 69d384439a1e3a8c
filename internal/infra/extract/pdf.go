package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	domain "github.com/yanqian/docsum/internal/domain/documents"
)

// ErrPDFToolNotFound is returned when pdftotext is not installed.
var ErrPDFToolNotFound = errors.New("pdftotext not found in PATH")

const pdfTool = "pdftotext"

// CommandRunner runs an external program and returns its stdout.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

// Run executes name with args. Stderr is folded into the error.
func (ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	if _, err := exec.LookPath(name); err != nil {
		return nil, ErrPDFToolNotFound
	}
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("%s failed: %w: %s", name, err, strings.TrimSpace(stderr.String()))
	}
	return out, nil
}

// PDF extracts text through poppler's pdftotext.
type PDF struct {
	runner CommandRunner
}

// NewPDF returns a PDF extractor. A nil runner uses ExecRunner.
func NewPDF(runner CommandRunner) *PDF {
	if runner == nil {
		runner = ExecRunner{}
	}
	return &PDF{runner: runner}
}

func (p *PDF) Format() string { return "pdf" }
func (p *PDF) Extensions() []string { return []string{"pdf"} }
func (p *PDF) MIMETypes() []string { return []string{"application/pdf"} }

// Extract writes the upload to a temp file and reads pdftotext output from
// stdout. Page breaks become newlines.
func (p *PDF) Extract(ctx context.Context, in domain.ExtractInput) (domain.Extraction, error) {
	if !bytes.HasPrefix(bytes.TrimLeft(in.Content, " \t\r\n"), []byte("%PDF-")) {
		return domain.Extraction{}, fmt.Errorf("%w: missing %%PDF header", ErrInvalidDocument)
	}

	tmp, err := os.CreateTemp("", "docsum-*.pdf")
	if err != nil {
		return domain.Extraction{}, fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(in.Content); err != nil {
		tmp.Close()
		return domain.Extraction{}, fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return domain.Extraction{}, fmt.Errorf("close temp file: %w", err)
	}

	out, err := p.runner.Run(ctx, pdfTool, "-enc", "UTF-8", "-q", tmp.Name(), "-")
	if err != nil {
		return domain.Extraction{}, err
	}

	raw := string(out)
	pages := strings.Count(raw, "\f")
	text := strings.TrimSpace(strings.ReplaceAll(raw, "\f", "\n"))
	return domain.Extraction{
		Text:      text,
		Title:     firstLineTitle(text, in.Filename),
		PageCount: pages,
	}, nil
}

// CheckPDFTool reports whether pdftotext can be found.
func CheckPDFTool() error {
	if _, err := exec.LookPath(pdfTool); err != nil {
		return ErrPDFToolNotFound
	}
	return nil
}
