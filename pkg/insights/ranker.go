package insights

import (
	"math"
	"sort"
)

// MaxInsights caps the ranked output list
const MaxInsights = 12

// Rank orders insights by priority descending, then by confidence descending
// within equal priority, and truncates to MaxInsights. The sort is stable, so
// insights that tie on both keys keep their generation order. A NaN
// confidence sorts last within its priority band so ranking stays
// deterministic even on unsanitized input.
func Rank(list []Insight) []Insight {
	ranked := make([]Insight, len(list))
	copy(ranked, list)

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Priority != ranked[j].Priority {
			return ranked[i].Priority > ranked[j].Priority
		}
		ci, cj := ranked[i].Confidence, ranked[j].Confidence
		if math.IsNaN(ci) {
			return false
		}
		if math.IsNaN(cj) {
			return true
		}
		return ci > cj
	})

	if len(ranked) > MaxInsights {
		ranked = ranked[:MaxInsights]
	}
	return ranked
}
