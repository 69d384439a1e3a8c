package summarizer

import "sort"

// ScoredSentence pairs a sentence with its salience score.
type ScoredSentence struct {
	Sentence
	Score int `json:"score"`
}

// ScoreSentences scores each sentence containing at least one salient word.
// Sentences without salient words are left out, and the result keeps
// document order.
func ScoreSentences(sentences []Sentence, salience SalienceTable) []ScoredSentence {
	scored := make([]ScoredSentence, 0, len(sentences))
	for _, s := range sentences {
		score, ok := salience.Score(s.Words)
		if !ok {
			continue
		}
		scored = append(scored, ScoredSentence{Sentence: s, Score: score})
	}
	return scored
}

// Rank returns a copy of scored ordered by descending score. Equal scores
// keep document order.
func Rank(scored []ScoredSentence) []ScoredSentence {
	ranked := make([]ScoredSentence, len(scored))
	copy(ranked, scored)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].Index < ranked[j].Index
	})
	return ranked
}
