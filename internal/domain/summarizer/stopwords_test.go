package summarizer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadStopWords(t *testing.T) {
	t.Parallel()

	input := "# articles\nThe\n  a an \n\n# conjunctions\nAND\n"
	set, err := LoadStopWords(strings.NewReader(input))
	require.NoError(t, err)
	require.Equal(t, 4, set.Len())
	for _, w := range []string{"the", "a", "an", "and"} {
		require.True(t, set.Contains(w), w)
	}
	require.False(t, set.Contains("#"))
}

func TestStopWordsMerge(t *testing.T) {
	t.Parallel()

	base := NewStopWords("the", "and")
	extra := NewStopWords("Cat", "")
	merged := base.Merge(extra)

	require.Equal(t, 3, merged.Len())
	require.True(t, merged.Contains("cat"))
	require.Equal(t, 2, base.Len(), "merge must not mutate the receiver")
}

func TestDefaultStopWordsIsFreshCopy(t *testing.T) {
	t.Parallel()

	first := DefaultStopWords()
	require.True(t, first.Contains("the"))
	require.True(t, first.Contains("t"))
	require.False(t, first.Contains("cat"))

	delete(first, "the")
	require.True(t, DefaultStopWords().Contains("the"))
}

func TestNilStopWordsContainsNothing(t *testing.T) {
	t.Parallel()

	var set StopWords
	require.False(t, set.Contains("the"))
	require.Zero(t, set.Len())
}
