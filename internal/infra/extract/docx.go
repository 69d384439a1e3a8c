package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	domain "github.com/yanqian/docsum/internal/domain/documents"
)

const maxDocxPartBytes = 64 << 20

// DOCX reads paragraphs from word/document.xml.
type DOCX struct{}

// NewDOCX returns the DOCX extractor.
func NewDOCX() *DOCX { return &DOCX{} }

func (DOCX) Format() string { return "docx" }
func (DOCX) Extensions() []string { return []string{"docx"} }
func (DOCX) MIMETypes() []string {
	return []string{"application/vnd.openxmlformats-officedocument.wordprocessingml.document"}
}

func (DOCX) Extract(_ context.Context, in domain.ExtractInput) (domain.Extraction, error) {
	reader, err := zip.NewReader(bytes.NewReader(in.Content), int64(len(in.Content)))
	if err != nil {
		return domain.Extraction{}, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}

	body, found, err := readZipPart(reader, "word/document.xml")
	if err != nil {
		return domain.Extraction{}, err
	}
	if !found {
		return domain.Extraction{}, fmt.Errorf("%w: word/document.xml missing", ErrInvalidDocument)
	}
	text, err := parseDocumentXML(body)
	if err != nil {
		return domain.Extraction{}, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}

	title := ""
	if core, ok, _ := readZipPart(reader, "docProps/core.xml"); ok {
		var props struct {
			Title string `xml:"title"`
		}
		if xml.Unmarshal(core, &props) == nil {
			title = strings.TrimSpace(props.Title)
		}
	}
	return domain.Extraction{Text: text, Title: orFilename(title, in.Filename)}, nil
}

func readZipPart(reader *zip.Reader, name string) ([]byte, bool, error) {
	for _, file := range reader.File {
		if file.Name != name {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return nil, true, fmt.Errorf("open %s: %w", name, err)
		}
		defer rc.Close()
		data, err := io.ReadAll(io.LimitReader(rc, maxDocxPartBytes))
		if err != nil {
			return nil, true, fmt.Errorf("read %s: %w", name, err)
		}
		return data, true, nil
	}
	return nil, false, nil
}

type documentXML struct {
	Body struct {
		Paragraphs []paragraph `xml:"p"`
	} `xml:"body"`
}

type paragraph struct {
	Runs []run `xml:"r"`
}

type run struct {
	Text []struct {
		Content string `xml:",chardata"`
	} `xml:"t"`
}

// parseDocumentXML writes one line per non-empty paragraph.
func parseDocumentXML(content []byte) (string, error) {
	var doc documentXML
	if err := xml.Unmarshal(content, &doc); err != nil {
		return "", err
	}
	lines := make([]string, 0, len(doc.Body.Paragraphs))
	for _, para := range doc.Body.Paragraphs {
		var b strings.Builder
		for _, r := range para.Runs {
			for _, t := range r.Text {
				b.WriteString(t.Content)
			}
		}
		if line := strings.TrimSpace(b.String()); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n"), nil
}
