package summarizer

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	apperrors "github.com/yanqian/docsum/pkg/errors"
)

type stubDetector struct {
	lang  string
	ok    bool
	calls int
}

func (s *stubDetector) Detect(string) (string, bool) {
	s.calls++
	return s.lang, s.ok
}

func newTestService(cfg Config, detector LanguageDetector) Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(cfg, detector, logger)
}

func intPtr(v int) *int { return &v }

func TestServiceSummarize(t *testing.T) {
	const text = "The cat sat. The dog ran fast. The cat and dog played."

	tests := []struct {
		name         string
		cfg          Config
		req          Request
		wantSummary  string
		wantCount    int
		wantStrategy Strategy
		wantErrCode  string
	}{
		{
			name:         "default sentence count",
			cfg:          Config{},
			req:          Request{Text: text},
			wantSummary:  "The cat and dog played. The dog ran fast. The cat sat.",
			wantCount:    3,
			wantStrategy: StrategyFrequency,
		},
		{
			name:         "explicit count",
			cfg:          Config{DefaultSentences: 3},
			req:          Request{Text: text, NumSentences: intPtr(1)},
			wantSummary:  "The cat and dog played.",
			wantCount:    1,
			wantStrategy: StrategyFrequency,
		},
		{
			name:         "count clamped to maximum",
			cfg:          Config{MaxSentences: 2},
			req:          Request{Text: text, NumSentences: intPtr(50)},
			wantSummary:  "The cat and dog played. The dog ran fast.",
			wantCount:    2,
			wantStrategy: StrategyFrequency,
		},
		{
			name:         "zero count",
			cfg:          Config{},
			req:          Request{Text: text, NumSentences: intPtr(0)},
			wantSummary:  "",
			wantCount:    0,
			wantStrategy: StrategyFrequency,
		},
		{
			name:         "empty text returns sentinel",
			cfg:          Config{},
			req:          Request{Text: " \n "},
			wantSummary:  EmptyInputSummary,
			wantCount:    3,
			wantStrategy: StrategyEmpty,
		},
		{
			name:        "negative count rejected",
			cfg:         Config{},
			req:         Request{Text: text, NumSentences: intPtr(-1)},
			wantErrCode: apperrors.CodeInvalidInput,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc := newTestService(tt.cfg, nil)
			resp, err := svc.Summarize(context.Background(), tt.req)
			if tt.wantErrCode != "" {
				require.Error(t, err)
				require.True(t, apperrors.IsCode(err, tt.wantErrCode))
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantSummary, resp.Summary)
			require.Equal(t, tt.wantCount, resp.NumSentences)
			require.Equal(t, tt.wantStrategy, resp.Strategy)
		})
	}
}

func TestServiceSummarizeStatsAndKeywords(t *testing.T) {
	t.Parallel()

	svc := newTestService(Config{MaxKeywords: 2, StopWords: NewStopWords("the", "and")}, nil)
	resp, err := svc.Summarize(context.Background(), Request{
		Text:         "The cat sat. The dog ran fast. The cat and dog played.",
		NumSentences: intPtr(1),
	})
	require.NoError(t, err)
	require.Equal(t, []string{"The cat and dog played."}, resp.Sentences)
	require.Equal(t, []Keyword{{Word: "cat", Count: 2}, {Word: "dog", Count: 2}}, resp.Keywords)
	require.Equal(t, 3, resp.Stats.Sentences)
	require.Equal(t, 12, resp.Stats.Words)
	require.Equal(t, 6, resp.Stats.DistinctWords)
	require.Equal(t, 3, resp.Stats.ScoredSentences)
	require.Equal(t, 1, resp.Stats.Selected)
}

func TestServiceSummarizeCancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	svc := newTestService(Config{}, nil)
	_, err := svc.Summarize(ctx, Request{Text: "Anything at all."})
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, apperrors.CodeTimeout))
}

func TestServiceLanguageStopWords(t *testing.T) {
	t.Parallel()

	cfg := Config{
		StopWords: NewStopWords("the"),
		LanguageStopWords: map[string]StopWords{
			"fr": NewStopWords("le", "chat"),
		},
		DetectLanguage: true,
	}
	const text = "Le chat dort. Le chien mange."

	t.Run("request language wins over detection", func(t *testing.T) {
		t.Parallel()
		detector := &stubDetector{lang: "en", ok: true}
		svc := newTestService(cfg, detector)
		resp, err := svc.Summarize(context.Background(), Request{Text: text, Language: "FR", NumSentences: intPtr(1)})
		require.NoError(t, err)
		require.Equal(t, "fr", resp.Language)
		require.Equal(t, "Le chien mange.", resp.Summary)
		require.Zero(t, detector.calls)
	})

	t.Run("detected language", func(t *testing.T) {
		t.Parallel()
		detector := &stubDetector{lang: "fr", ok: true}
		svc := newTestService(cfg, detector)
		resp, err := svc.Summarize(context.Background(), Request{Text: text, NumSentences: intPtr(1)})
		require.NoError(t, err)
		require.Equal(t, "fr", resp.Language)
		require.Equal(t, 1, detector.calls)
		require.Equal(t, "Le chien mange.", resp.Summary)
	})

	t.Run("undetected falls back to default list", func(t *testing.T) {
		t.Parallel()
		detector := &stubDetector{ok: false}
		svc := newTestService(cfg, detector)
		resp, err := svc.Summarize(context.Background(), Request{Text: text, NumSentences: intPtr(1)})
		require.NoError(t, err)
		require.Empty(t, resp.Language)
		require.Equal(t, "Le chat dort.", resp.Summary)
	})
}

func TestServiceKeepsTextVerbatim(t *testing.T) {
	t.Parallel()
	const text = "Cats nap\rall day. Dogs\x00 bark loudly. Cats nap.\fCats purr."

	svc := newTestService(Config{}, nil)
	resp, err := svc.Summarize(context.Background(), Request{Text: text, NumSentences: intPtr(2)})
	require.NoError(t, err)
	require.Equal(t, NewPipeline(DefaultStopWords()).Summarize(text, 2), resp.Summary)
	for _, sentence := range resp.Sentences {
		require.Contains(t, text, sentence)
	}
}
