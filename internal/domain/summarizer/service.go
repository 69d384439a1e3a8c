package summarizer

import (
	"context"
	"log/slog"
	"strings"
	"time"

	apperrors "github.com/yanqian/docsum/pkg/errors"
	"github.com/yanqian/docsum/pkg/metrics"
)

// Service exposes summarization capabilities.
type Service interface {
	Summarize(ctx context.Context, req Request) (Response, error)
}

// LanguageDetector guesses the ISO 639-1 code of a text.
type LanguageDetector interface {
	Detect(text string) (string, bool)
}

type service struct {
	cfg      Config
	detector LanguageDetector
	logger   *slog.Logger
}

// NewService is a wire provider for the summarizer domain. detector may be nil.
func NewService(cfg Config, detector LanguageDetector, logger *slog.Logger) Service {
	if cfg.DefaultSentences <= 0 {
		cfg.DefaultSentences = DefaultNumSentences
	}
	if cfg.StopWords == nil {
		cfg.StopWords = DefaultStopWords()
	}
	return &service{cfg: cfg, detector: detector, logger: logger.With("component", "summarizer.service")}
}

func (s *service) Summarize(ctx context.Context, req Request) (Response, error) {
	n, err := s.resolveSentences(req.NumSentences)
	if err != nil {
		return Response{}, err
	}
	if s.cfg.Budget > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Budget)
		defer cancel()
	}
	if err := ctx.Err(); err != nil {
		return Response{}, apperrors.Wrap(apperrors.CodeTimeout, "summarization cancelled", err)
	}

	text := req.Text
	language := s.resolveLanguage(req.Language, text)
	pipeline := NewPipeline(s.stopWordsFor(language))

	start := time.Now()
	type outcome struct {
		result Result
		err    error
	}
	done := make(chan outcome, 1)
	go func() {
		result, err := pipeline.RunContext(ctx, text, n)
		done <- outcome{result: result, err: err}
	}()

	var result Result
	select {
	case out := <-done:
		if out.err != nil {
			s.logger.Warn("summarization budget exceeded", "chars", len(text), "error", out.err)
			return Response{}, apperrors.Wrap(apperrors.CodeTimeout, "summarization budget exceeded", out.err)
		}
		result = out.result
	case <-ctx.Done():
		s.logger.Warn("summarization budget exceeded", "chars", len(text), "error", ctx.Err())
		return Response{}, apperrors.Wrap(apperrors.CodeTimeout, "summarization budget exceeded", ctx.Err())
	}
	elapsed := time.Since(start)

	resp := Response{
		Summary:      result.Text(),
		Sentences:    result.Summary.Texts(),
		Strategy:     result.Summary.Strategy,
		NumSentences: n,
		Language:     language,
		Keywords:     TopKeywords(result.Salience, s.cfg.MaxKeywords),
		Stats: metrics.TextStats{
			Sentences:       len(result.Sentences),
			Words:           result.WordCount,
			DistinctWords:   len(result.Salience),
			ScoredSentences: len(result.Scored),
			Selected:        len(result.Summary.Sentences),
		},
		DurationMs: elapsed.Milliseconds(),
	}
	s.logger.Debug("summary generated",
		"strategy", resp.Strategy,
		"sentences", resp.Stats.Sentences,
		"selected", resp.Stats.Selected,
		"coverage", resp.Stats.Coverage(),
		"language", language,
		"duration_ms", resp.DurationMs,
	)
	return resp, nil
}

func (s *service) resolveSentences(requested *int) (int, error) {
	if requested == nil {
		return s.cfg.DefaultSentences, nil
	}
	n := *requested
	if n < 0 {
		return 0, apperrors.Wrap(apperrors.CodeInvalidInput, "numSentences cannot be negative", nil)
	}
	if s.cfg.MaxSentences > 0 && n > s.cfg.MaxSentences {
		return s.cfg.MaxSentences, nil
	}
	return n, nil
}

func (s *service) resolveLanguage(requested, text string) string {
	if lang := strings.ToLower(strings.TrimSpace(requested)); lang != "" {
		return lang
	}
	if !s.cfg.DetectLanguage || s.detector == nil || text == "" {
		return ""
	}
	lang, ok := s.detector.Detect(text)
	if !ok {
		return ""
	}
	return lang
}

func (s *service) stopWordsFor(language string) StopWords {
	if set, ok := s.cfg.LanguageStopWords[language]; ok && language != "" {
		return set
	}
	return s.cfg.StopWords
}
