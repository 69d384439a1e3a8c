package summarizer

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPipelineSummarize(t *testing.T) {
	tests := []struct {
		name string
		stop StopWords
		text string
		n    int
		want string
	}{
		{
			name: "highest scoring sentence wins",
			stop: NewStopWords("the", "and"),
			text: "The cat sat. The dog ran fast. The cat and dog played.",
			n:    1,
			want: "The cat and dog played.",
		},
		{
			name: "all stop words falls back to position",
			stop: NewStopWords("hello", "world"),
			text: "Hello world.",
			n:    3,
			want: "Hello world.",
		},
		{
			name: "single sentence without stop words",
			stop: nil,
			text: "Gophers dig tunnels.",
			n:    3,
			want: "Gophers dig tunnels.",
		},
		{
			name: "score order not document order",
			stop: NewStopWords("and"),
			text: "Dogs bark. Cats purr and cats sleep. Cats nap.",
			n:    2,
			want: "Cats purr and cats sleep. Cats nap.",
		},
		{
			name: "unscorable sentences are never selected",
			stop: NewStopWords("the", "end"),
			text: "The end. Cats nap.",
			n:    2,
			want: "Cats nap.",
		},
		{
			name: "zero sentences yields empty summary",
			stop: nil,
			text: "Some text here.",
			n:    0,
			want: "",
		},
		{
			name: "negative sentences yields empty summary",
			stop: nil,
			text: "Some text here.",
			n:    -1,
			want: "",
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, NewPipeline(tt.stop).Summarize(tt.text, tt.n))
		})
	}
}

// Sentences are keyed by position: identical sentences score and get
// selected independently instead of collapsing into one accumulated entry.
func TestPipelineDuplicateSentencesStayIndependent(t *testing.T) {
	t.Parallel()

	p := NewPipeline(nil)
	result := p.Run("Alpha beta. Alpha beta. Gamma.", 2)

	require.Len(t, result.Scored, 3)
	require.Equal(t, 4, result.Scored[0].Score)
	require.Equal(t, 4, result.Scored[1].Score)
	require.Equal(t, "Alpha beta. Alpha beta.", result.Text())
}

func TestPipelineEmptyInputSentinel(t *testing.T) {
	p := NewPipeline(DefaultStopWords())
	for _, text := range []string{"", "   ", "\n\t \r\n"} {
		for _, n := range []int{-5, 0, 1, DefaultNumSentences, 100} {
			text, n := text, n
			t.Run(fmt.Sprintf("%q/%d", text, n), func(t *testing.T) {
				t.Parallel()
				result := p.Run(text, n)
				require.True(t, result.Empty())
				require.Equal(t, StrategyEmpty, result.Summary.Strategy)
				require.Equal(t, EmptyInputSummary, result.Text())
				require.Equal(t, EmptyInputSummary, p.Summarize(text, n))
			})
		}
	}
}

func TestPipelineSelectionBound(t *testing.T) {
	t.Parallel()

	text := "Go is fast. Go is simple. Rust is fast. Zig is new. Go compiles quickly."
	p := NewPipeline(DefaultStopWords())
	total := len(SegmentSentences(text))
	for n := 0; n <= total+2; n++ {
		result := p.Run(text, n)
		require.LessOrEqual(t, len(result.Summary.Sentences), min(n, total))
	}
}

func TestPipelineDeterministicAcrossGoroutines(t *testing.T) {
	t.Parallel()

	text := strings.Repeat("The quick brown fox jumps. A lazy dog sleeps. Foxes and dogs rarely meet. ", 20)
	p := NewPipeline(DefaultStopWords())
	want := p.Summarize(text, 3)

	var wg sync.WaitGroup
	results := make([]string, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = p.Summarize(text, 3)
		}(i)
	}
	wg.Wait()

	for _, got := range results {
		require.Equal(t, want, got)
	}
}

func TestSummarizeUsesDefaultStopWords(t *testing.T) {
	t.Parallel()

	got := Summarize("The cat sat. The dog ran fast. The cat and dog played.", 1)
	require.Equal(t, "The cat and dog played.", got)
	require.Equal(t, EmptyInputSummary, Summarize("", DefaultNumSentences))
}

func TestRunContextStopsWhenCancelled(t *testing.T) {
	t.Parallel()
	p := NewPipeline(DefaultStopWords())
	text := strings.Repeat("Gophers dig tunnels. Owls hunt at night. ", 200)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := p.RunContext(ctx, text, 3)
	require.ErrorIs(t, err, context.Canceled)

	got, err := p.RunContext(context.Background(), text, 1)
	require.NoError(t, err)
	require.Equal(t, p.Run(text, 1), got)

	empty, err := p.RunContext(ctx, "   ", 3)
	require.NoError(t, err, "blank input short-circuits before any stage")
	require.True(t, empty.Empty())
}
