package stats

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/verte-zerg/bolo/internal/gurmukhi"
	"github.com/verte-zerg/bolo/internal/model"
	"github.com/verte-zerg/bolo/pkg/vowel"
)

// CollectAttempt turns one analysis into the rows persisted by the store.
// Per-vowel stats follow first appearance in the expected sequence.
func CollectAttempt(at time.Time, prompt string, expected []string, threshold float64, predictions []vowel.PhonemePrediction, fb vowel.VowelFeedback) (model.AttemptStats, []model.VowelStats) {
	summary := fb.Summary()
	attempt := model.AttemptStats{
		CreatedAt:     at,
		Prompt:        prompt,
		Expected:      append([]string(nil), expected...),
		Threshold:     threshold,
		Matched:       summary.Matched,
		Missed:        summary.Total - summary.Matched,
		ConfidenceSum: summary.ConfidenceSum,
	}
	if span := vowel.BuildCluster(predictions).DurationMs; span != nil {
		attempt.DurationMs = int64(math.Round(*span))
	}

	index := map[string]int{}
	var vowels []model.VowelStats
	for _, a := range fb.Sequence {
		i, ok := index[a.ExpectedVowel]
		if !ok {
			i = len(vowels)
			index[a.ExpectedVowel] = i
			vowels = append(vowels, model.VowelStats{Vowel: a.ExpectedVowel})
		}
		vs := &vowels[i]
		if a.Match {
			vs.Matched++
		} else {
			vs.Missed++
		}
		vs.ConfidenceSum += a.Confidence
		if a.DetectedCluster != nil {
			vs.Assessed++
		}
		if d := a.Scores.DurationDifferenceMs; d != nil {
			vs.DeviationSumMs += *d
			vs.DeviationCount++
		}
	}
	return attempt, vowels
}

// RenderFeedback prints one analysis as a table in expected order.
func RenderFeedback(w io.Writer, fb vowel.VowelFeedback) error {
	if len(fb.Sequence) == 0 {
		_, err := fmt.Fprintln(w, "No vowels expected.")
		return err
	}
	headers := []string{"#", "Vowel", "Roman", "Detected", "Similarity", "Duration", "Acoustic", "Overall", "Match"}
	rows := make([][]string, 0, len(fb.Sequence))
	for i, a := range fb.Sequence {
		detected := "-"
		if a.DetectedCluster != nil {
			detected = strings.Join(a.DetectedCluster.Phonemes, " ")
		}
		match := "no"
		if a.Match {
			match = "yes"
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			a.ExpectedVowel,
			gurmukhi.Transliterate(a.ExpectedVowel),
			detected,
			formatScore(a.Scores.PhonemeSimilarity),
			formatScore(a.Scores.DurationScore),
			formatScore(a.Scores.FormantSimilarity),
			fmt.Sprintf("%.3f", a.Confidence),
			match,
		})
	}
	rightAlign := map[int]bool{0: true, 4: true, 5: true, 6: true, 7: true}
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	s := fb.Summary()
	_, err := fmt.Fprintf(w, "Matched %d/%d · detected %d · mean confidence %.3f\n", s.Matched, s.Total, s.Detected, s.MeanConfidence)
	return err
}

func formatScore(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.3f", *v)
}
