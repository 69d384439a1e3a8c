package language

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewDetectorValidation(t *testing.T) {
	t.Parallel()

	_, err := NewDetector([]string{"en"})
	require.ErrorIs(t, err, ErrTooFewLanguages)

	_, err = NewDetector([]string{"en", "EN", " "})
	require.ErrorIs(t, err, ErrTooFewLanguages)

	_, err = NewDetector([]string{"en", "zz"})
	require.Error(t, err)
}

func TestDetect(t *testing.T) {
	t.Parallel()
	d, err := NewDetector([]string{"en", "de", "fr"})
	require.NoError(t, err)
	require.Equal(t, []string{"en", "de", "fr"}, d.Languages())

	tests := []struct {
		name string
		text string
		want string
	}{
		{name: "english", text: "The quick brown fox jumps over the lazy dog while the farmer watches from the porch.", want: "en"},
		{name: "german", text: "Der schnelle braune Fuchs springt über den faulen Hund, während der Bauer von der Veranda zusieht.", want: "de"},
		{name: "french", text: "Le renard brun rapide saute par-dessus le chien paresseux pendant que le fermier regarde depuis le porche.", want: "fr"},
	}
	for _, tt := range tests {
		got, ok := d.Detect(tt.text)
		require.True(t, ok, tt.name)
		require.Equal(t, tt.want, got, tt.name)
	}

	_, ok := d.Detect("   ")
	require.False(t, ok)
}

func TestTruncateRunes(t *testing.T) {
	t.Parallel()
	require.Equal(t, "héll", truncateRunes("héllo", 4))
	require.Equal(t, "abc", truncateRunes("abc", 10))
	require.Len(t, []rune(truncateRunes(strings.Repeat("ü", 3000), maxSampleRunes)), maxSampleRunes)
}
