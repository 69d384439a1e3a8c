package summarizer

import "sort"

// SalienceTable maps a normalized word to how often it occurs in one
// document. Stop words are never keys and every count is at least 1.
type SalienceTable map[string]int

// Keyword is a salient word with its document frequency.
type Keyword struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// BuildSalience counts every word of the document not present in stop.
func BuildSalience(words []string, stop StopWords) SalienceTable {
	table := make(SalienceTable)
	for _, w := range words {
		if stop.Contains(w) {
			continue
		}
		table[w]++
	}
	return table
}

// Score sums the table counts of words, once per occurrence. ok is false
// when none of the words is in the table.
func (t SalienceTable) Score(words []string) (score int, ok bool) {
	for _, w := range words {
		count, found := t[w]
		if !found {
			continue
		}
		score += count
		ok = true
	}
	return score, ok
}

// TopKeywords returns up to n entries ordered by count, then alphabetically.
func TopKeywords(t SalienceTable, n int) []Keyword {
	if n <= 0 || len(t) == 0 {
		return nil
	}
	keywords := make([]Keyword, 0, len(t))
	for word, count := range t {
		keywords = append(keywords, Keyword{Word: word, Count: count})
	}
	sort.Slice(keywords, func(i, j int) bool {
		if keywords[i].Count != keywords[j].Count {
			return keywords[i].Count > keywords[j].Count
		}
		return keywords[i].Word < keywords[j].Word
	})
	if len(keywords) > n {
		keywords = keywords[:n]
	}
	return keywords
}
