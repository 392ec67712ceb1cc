package stats

import (
	"sort"

	"github.com/verte-zerg/bolo/internal/model"
)

// SelectWeakVowels selects the lowest match-rate vowels from aggregates.
// Vowels that were never assessed are ignored.
func SelectWeakVowels(aggs []model.VowelAggregate, top int) map[string]struct{} {
	weakSet := map[string]struct{}{}
	candidates := make([]model.VowelAggregate, 0, len(aggs))
	for _, agg := range aggs {
		if agg.Matched+agg.Missed > 0 {
			candidates = append(candidates, agg)
		}
	}
	if len(candidates) == 0 {
		return weakSet
	}
	sort.Slice(candidates, func(i, j int) bool {
		return weaker(candidates[i], candidates[j])
	})
	if top <= 0 || top > len(candidates) {
		top = len(candidates)
	}
	for _, agg := range candidates[:top] {
		weakSet[agg.Vowel] = struct{}{}
	}
	return weakSet
}
