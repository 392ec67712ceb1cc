// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/verte-zerg/bolo/internal/gurmukhi"
	"github.com/verte-zerg/bolo/internal/model"
)

const sparkChars = " .:-=+*#%@"

// AttemptMetrics computes the match rate and mean confidence of an attempt.
func AttemptMetrics(matched, missed int, confidenceSum float64) (matchRate, meanConfidence float64) {
	total := matched + missed
	if total <= 0 {
		return 0, 0
	}
	return float64(matched) / float64(total), confidenceSum / float64(total)
}

// VowelMetrics computes match rate, mean confidence and mean timing
// deviation for a vowel aggregate. hasDeviation is false when no
// occurrence had a measurable duration.
func VowelMetrics(agg model.VowelAggregate) (matchRate, meanConfidence, deviationMs float64, hasDeviation bool) {
	matchRate, meanConfidence = AttemptMetrics(agg.Matched, agg.Missed, agg.ConfidenceSum)
	if agg.DeviationCount > 0 {
		return matchRate, meanConfidence, agg.DeviationSumMs / float64(agg.DeviationCount), true
	}
	return matchRate, meanConfidence, 0, false
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window <= 1 {
		copy(out, values)
		return out
	}
	var sum float64
	for i, v := range values {
		sum += v
		n := i + 1
		if i >= window {
			sum -= values[i-window]
			n = window
		}
		out[i] = sum / float64(n)
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	lo, hi := seriesBounds(values)
	if math.Abs(hi-lo) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	last := len(sparkChars) - 1
	var b strings.Builder
	for _, v := range values {
		idx := int(math.Round((v - lo) / (hi - lo) * float64(last)))
		b.WriteByte(sparkChars[max(0, min(last, idx))])
	}
	return b.String()
}

// RenderSummary prints a summary of attempts.
func RenderSummary(w io.Writer, attempts []model.AttemptAggregate) error {
	if len(attempts) == 0 {
		_, err := fmt.Fprintln(w, "No attempts found.")
		return err
	}
	var totalRate, totalConf float64
	best := 0.0
	vowels := 0
	rates := make([]float64, len(attempts))
	for i, a := range attempts {
		rate, conf := AttemptMetrics(a.Matched, a.Missed, a.ConfidenceSum)
		totalRate += rate
		totalConf += conf
		best = math.Max(best, rate)
		vowels += a.Matched + a.Missed
		rates[i] = rate
	}
	count := float64(len(attempts))
	lines := []string{
		"Summary",
		fmt.Sprintf("Attempts: %d", len(attempts)),
		fmt.Sprintf("Vowels assessed: %d", vowels),
		fmt.Sprintf("Avg match rate: %.2f%%", totalRate/count*100),
		fmt.Sprintf("Best match rate: %.2f%%", best*100),
		fmt.Sprintf("Avg confidence: %.3f", totalConf/count),
		fmt.Sprintf("Trend: %s", Sparkline(rates)),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderCurves prints learning curves for match rate and confidence.
func RenderCurves(w io.Writer, attempts []model.AttemptAggregate, window int) error {
	return RenderCurvesWithSize(w, attempts, window, 0, 10, false)
}

// RenderCurvesWithSize prints learning curves sized to a given total width.
func RenderCurvesWithSize(w io.Writer, attempts []model.AttemptAggregate, window, totalWidth, height int, useColor bool) error {
	if len(attempts) == 0 {
		return nil
	}
	rates := make([]float64, len(attempts))
	confs := make([]float64, len(attempts))
	for i, a := range attempts {
		rate, conf := AttemptMetrics(a.Matched, a.Missed, a.ConfidenceSum)
		rates[i] = rate * 100
		confs[i] = conf * 100
	}
	return PlotSeriesWithColor(w, "Learning Curves", []Series{
		percentSeries("Match rate", MovingAverage(rates, window)),
		percentSeries("Confidence", MovingAverage(confs, window)),
	}, plotWidth(totalWidth), height, useColor)
}

// RenderVowelTable prints per-vowel aggregates, weakest first.
func RenderVowelTable(w io.Writer, aggs []model.VowelAggregate) error {
	if len(aggs) == 0 {
		_, err := fmt.Fprintln(w, "No vowel stats found.")
		return err
	}
	sorted := SortWeakestFirst(aggs)

	if _, err := fmt.Fprintln(w, "Per-Vowel (Windowed)"); err != nil {
		return err
	}

	headers := []string{"Vowel", "Roman", "Match", "Confidence", "Avg Dev (ms)", "Matched", "Missed"}
	rows := make([][]string, 0, len(sorted))
	for _, agg := range sorted {
		rate, conf, dev, ok := VowelMetrics(agg)
		devCell := "-"
		if ok {
			devCell = fmt.Sprintf("%.1f", dev)
		}
		rows = append(rows, []string{
			agg.Vowel,
			gurmukhi.Transliterate(agg.Vowel),
			fmt.Sprintf("%.2f%%", rate*100),
			fmt.Sprintf("%.3f", conf),
			devCell,
			fmt.Sprintf("%d", agg.Matched),
			fmt.Sprintf("%d", agg.Missed),
		})
	}
	rightAlign := map[int]bool{2: true, 3: true, 4: true, 5: true, 6: true}
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderVowelCurves prints per-vowel learning curves.
func RenderVowelCurves(w io.Writer, attempts []model.AttemptAggregate, perAttempt map[int64]map[string]model.VowelAggregate, vowels []string, window int) error {
	return RenderVowelCurvesWithSize(w, attempts, perAttempt, vowels, window, 0, 10, false)
}

// RenderVowelCurvesWithSize prints per-vowel learning curves sized to a given total width.
// Attempts that did not include a vowel are left out of its curve.
func RenderVowelCurvesWithSize(w io.Writer, attempts []model.AttemptAggregate, perAttempt map[int64]map[string]model.VowelAggregate, vowels []string, window, totalWidth, height int, useColor bool) error {
	if len(vowels) == 0 || len(attempts) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, "Per-Vowel Curves"); err != nil {
		return err
	}
	for _, v := range vowels {
		var rates, confs []float64
		for _, a := range attempts {
			agg, ok := perAttempt[a.AttemptID][v]
			if !ok {
				continue
			}
			rate, conf := AttemptMetrics(agg.Matched, agg.Missed, agg.ConfidenceSum)
			rates = append(rates, rate*100)
			confs = append(confs, conf*100)
		}
		if len(rates) == 0 {
			continue
		}
		title := fmt.Sprintf("Vowel %s (%s)", v, gurmukhi.Transliterate(v))
		if err := PlotSeriesWithColor(w, title, []Series{
			percentSeries("Match rate", MovingAverage(rates, window)),
			percentSeries("Confidence", MovingAverage(confs, window)),
		}, plotWidth(totalWidth), height, useColor); err != nil {
			return err
		}
	}
	return nil
}

func plotWidth(totalWidth int) int {
	if totalWidth > 0 {
		return PlotWidthFor(totalWidth)
	}
	return 0
}

// SortWeakestFirst returns a copy of aggs ordered by lowest match rate, then
// lowest confidence, then vowel.
func SortWeakestFirst(aggs []model.VowelAggregate) []model.VowelAggregate {
	sorted := append([]model.VowelAggregate(nil), aggs...)
	sort.Slice(sorted, func(i, j int) bool {
		return weaker(sorted[i], sorted[j])
	})
	return sorted
}

// weaker orders vowels by lowest match rate, then lowest confidence.
func weaker(a, b model.VowelAggregate) bool {
	ra, ca := AttemptMetrics(a.Matched, a.Missed, a.ConfidenceSum)
	rb, cb := AttemptMetrics(b.Matched, b.Missed, b.ConfidenceSum)
	if ra != rb {
		return ra < rb
	}
	if ca != cb {
		return ca < cb
	}
	return a.Vowel < b.Vowel
}
