package main

import (
	"context"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/verte-zerg/bolo/internal/config"
	"github.com/verte-zerg/bolo/internal/model"
	"github.com/verte-zerg/bolo/internal/recognizer"
	"github.com/verte-zerg/bolo/internal/store"
	"github.com/verte-zerg/bolo/pkg/vowel"
)

func TestReviewFooterExcludesSavedAttempt(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	miss := writeFile(t, dir, "miss.txt", "0.00 0.10 k\n")
	hit := writeFile(t, dir, "hit.txt", "0.00 0.18 aː\n")

	if _, err := runCLI(t, nil, "analyze", "--vowels", "ਆ", "--save", miss); err != nil {
		t.Fatalf("save earlier attempt: %v", err)
	}

	ctx := context.Background()
	expected := []string{"ਆ"}
	results, err := analyzeInputs(ctx, vowel.New(nil), expected, []string{hit}, recognizer.FormatAuto, strings.NewReader(""), 1)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if !results[0].Feedback.Sequence[0].Match {
		t.Fatalf("expected the reviewed attempt to match")
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			t.Fatalf("close store: %v", cerr)
		}
	}()

	prevSave, prevReview, prevPrompt := analyzeSave, analyzeReview, analyzePrompt
	defer func() {
		analyzeSave, analyzeReview, analyzePrompt = prevSave, prevReview, prevPrompt
	}()
	analyzeSave, analyzeReview, analyzePrompt = true, true, "ਆ"

	reviewModel, err := persistResults(ctx, st, results, expected, vowel.DefaultMatchThreshold, zap.NewNop())
	if err != nil {
		t.Fatalf("persist: %v", err)
	}
	if reviewModel == nil {
		t.Fatalf("expected a review model")
	}

	view := reviewModel.View()
	if !strings.Contains(view, "This 1/1") || !strings.Contains(view, "Last 0.0%") {
		t.Fatalf("footer should show only earlier history: %s", view)
	}
	if strings.Contains(view, "100.0%") {
		t.Fatalf("footer counted the attempt under review: %s", view)
	}

	attempts, err := st.ListAttempts(ctx, model.StatsConfig{})
	if err != nil {
		t.Fatalf("list attempts: %v", err)
	}
	if len(attempts) != 2 || attempts[1].Matched != 1 {
		t.Fatalf("expected the reviewed attempt to be saved last, got %+v", attempts)
	}
}
