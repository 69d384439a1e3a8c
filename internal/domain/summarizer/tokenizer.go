package summarizer

import (
	"strings"
	"unicode"
)

// Sentence is one segmented unit of the input, identified by its position.
// Two sentences with identical text are still distinct sentences.
type Sentence struct {
	Index int      `json:"index"`
	Text  string   `json:"text"`
	Words []string `json:"-"`
}

// SegmentSentences splits text at a whitespace rune that directly follows
// '.' or '?'. Dotted tokens such as "U.S." or "e.g." and title abbreviations
// such as "Mr." or "Dr." do not end a sentence. Pieces are trimmed and empty
// pieces are dropped, so blank input yields no sentences.
//
// The rules are heuristic: "!" never ends a sentence and abbreviations like
// "etc." do.
func SegmentSentences(text string) []string {
	runes := []rune(text)
	var (
		out   []string
		start int
	)
	for i, r := range runes {
		if !unicode.IsSpace(r) || !endsSentence(runes, i) {
			continue
		}
		out = appendPiece(out, runes[start:i])
		start = i + 1
	}
	return appendPiece(out, runes[start:])
}

// TokenizeWords returns the lowercased maximal runs of letters, digits and
// underscores in text.
func TokenizeWords(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !isWordRune(r)
	})
}

// NewSentences attaches positions and word lists to segmented pieces.
func NewSentences(pieces []string) []Sentence {
	sentences := make([]Sentence, len(pieces))
	for i, piece := range pieces {
		sentences[i] = Sentence{Index: i, Text: piece, Words: TokenizeWords(piece)}
	}
	return sentences
}

// endsSentence reports whether the whitespace at runes[i] is a boundary.
func endsSentence(runes []rune, i int) bool {
	if i == 0 {
		return false
	}
	if prev := runes[i-1]; prev != '.' && prev != '?' {
		return false
	}
	return !isDottedToken(runes, i) && !isTitleAbbreviation(runes, i)
}

// isDottedToken matches word '.' word <not newline> right before runes[i].
func isDottedToken(runes []rune, i int) bool {
	if i < 4 {
		return false
	}
	return isWordRune(runes[i-4]) &&
		runes[i-3] == '.' &&
		isWordRune(runes[i-2]) &&
		runes[i-1] != '\n'
}

// isTitleAbbreviation matches [A-Z][a-z]'.' right before runes[i].
func isTitleAbbreviation(runes []rune, i int) bool {
	if i < 3 {
		return false
	}
	return isASCIIUpper(runes[i-3]) && isASCIILower(runes[i-2]) && runes[i-1] == '.'
}

func appendPiece(out []string, piece []rune) []string {
	trimmed := strings.TrimSpace(string(piece))
	if trimmed == "" {
		return out
	}
	return append(out, trimmed)
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}

func isASCIIUpper(r rune) bool { return r >= 'A' && r <= 'Z' }

func isASCIILower(r rune) bool { return r >= 'a' && r <= 'z' }
