package summarizer

import (
	"time"

	"github.com/yanqian/docsum/pkg/metrics"
)

// Config configures the summarization service.
type Config struct {
	DefaultSentences int
	MaxSentences     int
	MaxKeywords      int
	// Budget bounds the wall-clock time of one request. Zero disables it.
	Budget time.Duration
	// StopWords is used when no language specific list applies.
	StopWords StopWords
	// LanguageStopWords maps an ISO 639-1 code to its stop words.
	LanguageStopWords map[string]StopWords
	DetectLanguage    bool
}

// Request represents the incoming summarization payload.
type Request struct {
	Text         string `json:"text"`
	NumSentences *int   `json:"numSentences,omitempty"`
	Language     string `json:"language,omitempty"`
}

// Response is returned by the sync endpoint.
type Response struct {
	Summary      string            `json:"summary"`
	Sentences    []string          `json:"sentences"`
	Strategy     Strategy          `json:"strategy"`
	NumSentences int               `json:"numSentences"`
	Language     string            `json:"language,omitempty"`
	Keywords     []Keyword         `json:"keywords"`
	Stats        metrics.TextStats `json:"stats"`
	DurationMs   int64             `json:"durationMs,omitempty"`
}
