package models

import "math"

// Study is one candidate destination URL with its relative selection weight.
// Weight 0 keeps a study in the pool for reporting but excludes it from
// selection.
type Study struct {
	URL    string  `json:"url"`
	Weight float64 `json:"weight"`
	Note   string  `json:"note,omitempty"`
}

// StudyInfo is the diagnostics view of a Study: its weight expressed as a
// percentage of the pool's total weight.
type StudyInfo struct {
	URL     string  `json:"url"`
	Weight  float64 `json:"weight"`
	Percent float64 `json:"percent"`
	Note    string  `json:"note,omitempty"`
}

// TotalWeight sums the weights of all studies.
func TotalWeight(studies []Study) float64 {
	var total float64
	for _, s := range studies {
		total += s.Weight
	}
	return total
}

// StudyInfoFor derives the diagnostics view for a study within a pool of
// the given total weight. Percent is rounded to two decimals and is 0 when
// the total weight is 0.
func StudyInfoFor(s Study, totalWeight float64) StudyInfo {
	var percent float64
	if totalWeight > 0 {
		percent = math.Round(100*s.Weight/totalWeight*100) / 100
	}
	return StudyInfo{
		URL:     s.URL,
		Weight:  s.Weight,
		Percent: percent,
		Note:    s.Note,
	}
}
