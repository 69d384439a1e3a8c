package summarizer

import "strings"

// Separator joins the selected sentences.
const Separator = " "

// Strategy names how the summary sentences were chosen.
type Strategy string

const (
	// StrategyFrequency picks the highest scoring sentences.
	StrategyFrequency Strategy = "frequency"
	// StrategyPositional falls back to the leading sentences.
	StrategyPositional Strategy = "positional"
	// StrategyEmpty marks input that produced no text.
	StrategyEmpty Strategy = "empty"
)

// Summary is the ordered selection of sentences for one request.
type Summary struct {
	Sentences []Sentence
	Strategy  Strategy
}

// String joins the selected sentence texts in selection order.
func (s Summary) String() string {
	parts := make([]string, len(s.Sentences))
	for i, sentence := range s.Sentences {
		parts[i] = sentence.Text
	}
	return strings.Join(parts, Separator)
}

// Texts returns the selected sentence texts.
func (s Summary) Texts() []string {
	texts := make([]string, len(s.Sentences))
	for i, sentence := range s.Sentences {
		texts[i] = sentence.Text
	}
	return texts
}

// Assemble picks up to numSentences sentences. With any scored sentence the
// pick follows Rank; otherwise it is the leading sentences of all. A
// non-positive numSentences selects nothing.
func Assemble(scored []ScoredSentence, all []Sentence, numSentences int) Summary {
	limit := max(numSentences, 0)
	if len(scored) > 0 {
		ranked := Rank(scored)
		limit = min(limit, len(ranked))
		picked := make([]Sentence, limit)
		for i := range picked {
			picked[i] = ranked[i].Sentence
		}
		return Summary{Sentences: picked, Strategy: StrategyFrequency}
	}

	limit = min(limit, len(all))
	picked := make([]Sentence, limit)
	copy(picked, all[:limit])
	return Summary{Sentences: picked, Strategy: StrategyPositional}
}
