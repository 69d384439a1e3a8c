package metrics

// TextStats captures counts gathered while summarizing one document.
type TextStats struct {
	Sentences       int `json:"sentences"`
	Words           int `json:"words"`
	DistinctWords   int `json:"distinctWords"`
	ScoredSentences int `json:"scoredSentences"`
	Selected        int `json:"selected"`
}

// Coverage is the share of sentences kept in the summary.
func (s TextStats) Coverage() float64 {
	if s.Sentences == 0 {
		return 0
	}
	return float64(s.Selected) / float64(s.Sentences)
}
