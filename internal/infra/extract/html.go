package extract

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"

	domain "github.com/yanqian/docsum/internal/domain/documents"
)

// blockSelector lists the content-bearing tags turned into text blocks.
const blockSelector = "h1,h2,h3,h4,h5,h6,p,li,pre,blockquote,td,th"

// HTML extracts the main article text of a page.
type HTML struct {
	baseURL *url.URL
}

// NewHTML returns the HTML extractor.
func NewHTML() *HTML {
	return &HTML{baseURL: &url.URL{Scheme: "file", Path: "/"}}
}

func (h *HTML) Format() string { return "html" }
func (h *HTML) Extensions() []string { return []string{"html", "htm", "xhtml"} }
func (h *HTML) MIMETypes() []string { return []string{"text/html", "application/xhtml+xml"} }

// Extract runs readability first and falls back to the whole body when it
// cannot find an article.
func (h *HTML) Extract(_ context.Context, in domain.ExtractInput) (domain.Extraction, error) {
	parser := readability.NewParser()
	article, err := parser.Parse(bytes.NewReader(in.Content), h.baseURL)
	if err == nil && strings.TrimSpace(article.Content) != "" {
		text, title, parseErr := blocksFromHTML(article.Content)
		if parseErr == nil && text != "" {
			if t := normalizeText(article.Title); t != "" {
				title = t
			}
			return domain.Extraction{Text: text, Title: orFilename(title, in.Filename)}, nil
		}
	}

	text, title, err := blocksFromHTML(string(in.Content))
	if err != nil {
		return domain.Extraction{}, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	return domain.Extraction{Text: text, Title: orFilename(title, in.Filename)}, nil
}

// blocksFromHTML joins the text of outermost content blocks with newlines.
func blocksFromHTML(html string) (text, title string, err error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", "", err
	}
	doc.Find("script,style,noscript,nav,footer").Remove()
	title = normalizeText(doc.Find("title").First().Text())

	var blocks []string
	doc.Find(blockSelector).Each(func(_ int, s *goquery.Selection) {
		if s.ParentsFiltered(blockSelector).Length() > 0 {
			return
		}
		if block := normalizeText(s.Text()); block != "" {
			blocks = append(blocks, block)
		}
	})
	if len(blocks) == 0 {
		if body := normalizeText(doc.Find("body").Text()); body != "" {
			blocks = append(blocks, body)
		}
	}
	return strings.Join(blocks, "\n"), title, nil
}

// normalizeText collapses the lines of input into one space separated line.
func normalizeText(input string) string {
	var b strings.Builder
	b.Grow(len(input))
	scanner := bufio.NewScanner(strings.NewReader(input))
	for scanner.Scan() {
		line := strings.Join(strings.Fields(scanner.Text()), " ")
		if line == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(line)
	}
	return b.String()
}

func orFilename(title, filename string) string {
	if title != "" {
		return title
	}
	return titleFromFilename(filename)
}
