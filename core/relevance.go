package core

// Confidence buckets a relevance score into the tiers domain consumers
// report alongside search hits.
type Confidence string

const (
	ConfidenceHigh   Confidence = "High"
	ConfidenceMedium Confidence = "Medium"
	ConfidenceLow    Confidence = "Low"
)

// Tier boundaries for ConfidenceFor.
const (
	highConfidenceThreshold   = 0.9
	mediumConfidenceThreshold = 0.7
)

// ConfidenceFor maps a relevance score to its confidence tier:
// >= 0.9 High, >= 0.7 Medium, otherwise Low.
func ConfidenceFor(score float64) Confidence {
	switch {
	case score >= highConfidenceThreshold:
		return ConfidenceHigh
	case score >= mediumConfidenceThreshold:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// FilterByScore returns the results whose relevance score is at least
// threshold, preserving order. Ranks are reassigned so the filtered list
// stays contiguous from 1.
func FilterByScore(results []SearchResult, threshold float64) []SearchResult {
	filtered := make([]SearchResult, 0, len(results))
	for _, r := range results {
		if r.RelevanceScore >= threshold {
			r.Rank = len(filtered) + 1
			filtered = append(filtered, r)
		}
	}
	return filtered
}
