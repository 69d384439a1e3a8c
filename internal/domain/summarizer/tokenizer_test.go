package summarizer

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSegmentSentences(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{name: "empty", text: "", want: nil},
		{name: "whitespace only", text: "  \n\t ", want: nil},
		{name: "no terminal punctuation", text: "just a fragment", want: []string{"just a fragment"}},
		{name: "single letters", text: "A. B. C.", want: []string{"A.", "B.", "C."}},
		{name: "question mark", text: "Is it? Yes. Fine!", want: []string{"Is it?", "Yes.", "Fine!"}},
		{name: "exclamation does not split", text: "Wow! Great.", want: []string{"Wow! Great."}},
		{name: "title abbreviation", text: "Mr. Smith went home. He slept.", want: []string{"Mr. Smith went home.", "He slept."}},
		{name: "dotted token", text: "The U.S. Army is large. It trains.", want: []string{"The U.S. Army is large.", "It trains."}},
		{name: "latin abbreviation", text: "Use e.g. this one. Done?", want: []string{"Use e.g. this one.", "Done?"}},
		{name: "version number does not split", text: "Version 1.2. Next.", want: []string{"Version 1.2. Next."}},
		{name: "dotted release number", text: "Python 3.5. Then 3.6.", want: []string{"Python 3.5. Then 3.6."}},
		{name: "decimal with two digits splits", text: "Pi is 3.14. Next.", want: []string{"Pi is 3.14.", "Next."}},
		{name: "ellipsis", text: "Wait... what? Ok.", want: []string{"Wait...", "what?", "Ok."}},
		{name: "trailing fragment without punctuation", text: "One. two", want: []string{"One.", "two"}},
		{name: "lowercase abbreviation splits", text: "Bring pens etc. and paper.", want: []string{"Bring pens etc.", "and paper."}},
		{name: "newline boundary", text: "line one.\nline two.", want: []string{"line one.", "line two."}},
		{name: "repeated whitespace", text: "One.  Two.", want: []string{"One.", "Two."}},
		{name: "period without whitespace", text: "See example.com now. Ok.", want: []string{"See example.com now.", "Ok."}},
		{name: "surrounding whitespace trimmed", text: "  First one.   Second one.  ", want: []string{"First one.", "Second one."}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, SegmentSentences(tt.text))
		})
	}
}

func TestTokenizeWords(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{name: "punctuation discarded", text: "Hello, World! It's 2024_data.", want: []string{"hello", "world", "it", "s", "2024_data"}},
		{name: "unicode letters", text: "Café Über naïve", want: []string{"café", "über", "naïve"}},
		{name: "only punctuation", text: "... -- !!", want: []string{}},
		{name: "empty", text: "", want: []string{}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := TokenizeWords(tt.text)
			if len(tt.want) == 0 {
				require.Empty(t, got)
				return
			}
			require.Equal(t, tt.want, got)
		})
	}
}

func TestNewSentencesKeepsPositions(t *testing.T) {
	t.Parallel()

	sentences := NewSentences([]string{"Same text.", "Same text."})
	require.Len(t, sentences, 2)
	require.Equal(t, 0, sentences[0].Index)
	require.Equal(t, 1, sentences[1].Index)
	require.Equal(t, []string{"same", "text"}, sentences[1].Words)
}
