package summarizer

import (
	"context"
	"strings"
)

const (
	// DefaultNumSentences is used when a caller does not ask for a length.
	DefaultNumSentences = 3
	// EmptyInputSummary is returned for empty or whitespace-only input.
	EmptyInputSummary = "No text extracted from PDF."
)

// Pipeline runs segmentation, salience counting, scoring and assembly over
// one text. It holds no state besides its stop words, so a single value may
// be shared across goroutines.
type Pipeline struct {
	stopWords StopWords
}

// NewPipeline returns a pipeline excluding the given stop words.
func NewPipeline(stop StopWords) Pipeline {
	return Pipeline{stopWords: stop}
}

// Result exposes every intermediate product of a pipeline run.
type Result struct {
	Sentences []Sentence
	WordCount int
	Salience  SalienceTable
	Scored    []ScoredSentence
	Summary   Summary
}

// Empty reports whether the input had no text.
func (r Result) Empty() bool {
	return r.Summary.Strategy == StrategyEmpty
}

// Text renders the summary, or EmptyInputSummary for empty input.
func (r Result) Text() string {
	if r.Empty() {
		return EmptyInputSummary
	}
	return r.Summary.String()
}

// Run summarizes rawText into at most numSentences sentences.
func (p Pipeline) Run(rawText string, numSentences int) Result {
	result, _ := p.RunContext(context.Background(), rawText, numSentences)
	return result
}

// RunContext is Run that gives up between stages once ctx is done, so an
// abandoned request stops consuming CPU.
func (p Pipeline) RunContext(ctx context.Context, rawText string, numSentences int) (Result, error) {
	if strings.TrimSpace(rawText) == "" {
		return Result{Summary: Summary{Strategy: StrategyEmpty}}, nil
	}

	sentences := NewSentences(SegmentSentences(rawText))
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	words := TokenizeWords(rawText)
	salience := BuildSalience(words, p.stopWords)
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	scored := ScoreSentences(sentences, salience)
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	return Result{
		Sentences: sentences,
		WordCount: len(words),
		Salience:  salience,
		Scored:    scored,
		Summary:   Assemble(scored, sentences, numSentences),
	}, nil
}

// Summarize returns the summary text of rawText.
func (p Pipeline) Summarize(rawText string, numSentences int) string {
	return p.Run(rawText, numSentences).Text()
}

// Summarize runs a pipeline with DefaultStopWords.
func Summarize(rawText string, numSentences int) string {
	return NewPipeline(DefaultStopWords()).Summarize(rawText, numSentences)
}
