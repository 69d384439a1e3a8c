package language

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/pemistahl/lingua-go"

	"github.com/yanqian/docsum/internal/domain/summarizer"
)

// maxSampleRunes bounds how much text is handed to the detector.
const maxSampleRunes = 2000

// ErrTooFewLanguages is returned when fewer than two languages are configured.
var ErrTooFewLanguages = errors.New("language detection needs at least two languages")

// Detector wraps a lingua detector restricted to a fixed set of languages.
type Detector struct {
	detector lingua.LanguageDetector
	codes    []string
}

// NewDetector builds a detector for the given ISO 639-1 codes, e.g. "en", "de".
func NewDetector(codes []string) (*Detector, error) {
	seen := make(map[lingua.Language]struct{}, len(codes))
	languages := make([]lingua.Language, 0, len(codes))
	normalized := make([]string, 0, len(codes))
	for _, code := range codes {
		code = strings.ToLower(strings.TrimSpace(code))
		if code == "" {
			continue
		}
		lang := lingua.GetLanguageFromIsoCode639_1(lingua.GetIsoCode639_1FromValue(code))
		if lang == lingua.Unknown {
			return nil, fmt.Errorf("unsupported language code %q", code)
		}
		if _, dup := seen[lang]; dup {
			continue
		}
		seen[lang] = struct{}{}
		languages = append(languages, lang)
		normalized = append(normalized, code)
	}
	if len(languages) < 2 {
		return nil, ErrTooFewLanguages
	}

	detector := lingua.NewLanguageDetectorBuilder().
		FromLanguages(languages...).
		WithLowAccuracyMode().
		Build()
	return &Detector{detector: detector, codes: normalized}, nil
}

// Languages returns the configured codes in configuration order.
func (d *Detector) Languages() []string {
	return append([]string(nil), d.codes...)
}

// Detect returns the lowercase ISO 639-1 code of text, or false when the
// detector cannot decide.
func (d *Detector) Detect(text string) (string, bool) {
	sample := truncateRunes(strings.TrimSpace(text), maxSampleRunes)
	if sample == "" {
		return "", false
	}
	lang, ok := d.detector.DetectLanguageOf(sample)
	if !ok {
		return "", false
	}
	return strings.ToLower(lang.IsoCode639_1().String()), true
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

var _ summarizer.LanguageDetector = (*Detector)(nil)
