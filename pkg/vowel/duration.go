package vowel

import "math"

// DurationScore compares a detected duration with the canonical one.
// Both results are nil when either input is nil. Otherwise the deviation is
// |detected - canonical| and the score is 1 - deviation/max(canonical, 1),
// floored at 0.
func DurationScore(detectedMs, canonicalMs *float64) (score, deviationMs *float64) {
	if detectedMs == nil || canonicalMs == nil {
		return nil, nil
	}
	deviation := math.Abs(*detectedMs - *canonicalMs)
	s := math.Max(0, 1-deviation/math.Max(*canonicalMs, 1))
	return &s, &deviation
}
