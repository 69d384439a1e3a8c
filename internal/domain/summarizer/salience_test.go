package summarizer

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildSalience(t *testing.T) {
	t.Parallel()

	words := TokenizeWords("The cat sat. The dog ran fast. The cat and dog played.")
	table := BuildSalience(words, NewStopWords("the", "and"))

	require.Equal(t, SalienceTable{
		"cat": 2, "dog": 2, "sat": 1, "ran": 1, "fast": 1, "played": 1,
	}, table)
}

func TestBuildSalienceAllStopWords(t *testing.T) {
	t.Parallel()

	table := BuildSalience([]string{"hello", "world"}, NewStopWords("hello", "world"))
	require.Empty(t, table)
}

func TestSalienceScore(t *testing.T) {
	t.Parallel()

	table := SalienceTable{"cat": 2, "dog": 1}

	score, ok := table.Score([]string{"the", "cat", "and", "cat"})
	require.True(t, ok)
	require.Equal(t, 4, score)

	score, ok = table.Score([]string{"the", "bird"})
	require.False(t, ok)
	require.Zero(t, score)
}

func TestTopKeywords(t *testing.T) {
	t.Parallel()

	table := SalienceTable{"zeta": 2, "alpha": 2, "beta": 5, "gamma": 1}

	require.Equal(t, []Keyword{
		{Word: "beta", Count: 5},
		{Word: "alpha", Count: 2},
		{Word: "zeta", Count: 2},
	}, TopKeywords(table, 3))
	require.Len(t, TopKeywords(table, 10), 4)
	require.Nil(t, TopKeywords(table, 0))
	require.Nil(t, TopKeywords(nil, 3))
}
