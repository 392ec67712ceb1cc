package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/verte-zerg/bolo/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "nested", "bolo.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := st.Close(); err != nil {
			t.Fatalf("close store: %v", err)
		}
	})
	return st
}

func insert(t *testing.T, st *Store, at time.Time, vowels ...model.VowelStats) int64 {
	t.Helper()
	matched, missed := 0, 0
	for _, v := range vowels {
		matched += v.Matched
		missed += v.Missed
	}
	id, ref, err := st.InsertAttempt(context.Background(), model.AttemptStats{
		CreatedAt: at,
		Prompt:    "ਕਿਤਾਬ",
		Expected:  []string{"ਇ", "ਆ"},
		Threshold: 0.6,
		Matched:   matched,
		Missed:    missed,
	}, vowels)
	if err != nil {
		t.Fatalf("insert attempt: %v", err)
	}
	if ref == "" {
		t.Fatalf("expected generated ref")
	}
	return id
}

func TestInsertAndListAttempts(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	first := insert(t, st, base, model.VowelStats{Vowel: "ਆ", Matched: 1, ConfidenceSum: 0.9, Assessed: 1, DeviationSumMs: 20, DeviationCount: 1})
	second := insert(t, st, base.Add(time.Hour), model.VowelStats{Vowel: "ਆ", Missed: 1, ConfidenceSum: 0.2, Assessed: 1})
	third := insert(t, st, base.Add(2*time.Hour), model.VowelStats{Vowel: "ਇ", Missed: 1})

	attempts, err := st.ListAttempts(ctx, model.StatsConfig{})
	if err != nil {
		t.Fatalf("list attempts: %v", err)
	}
	if len(attempts) != 3 {
		t.Fatalf("expected 3 attempts, got %d", len(attempts))
	}
	if attempts[0].AttemptID != first || attempts[2].AttemptID != third {
		t.Fatalf("expected oldest first, got %+v", attempts)
	}
	if !attempts[1].CreatedAt.Equal(base.Add(time.Hour)) {
		t.Fatalf("unexpected created_at %v", attempts[1].CreatedAt)
	}

	since := base.Add(30 * time.Minute)
	attempts, err = st.ListAttempts(ctx, model.StatsConfig{Since: &since})
	if err != nil {
		t.Fatalf("list attempts since: %v", err)
	}
	if len(attempts) != 2 || attempts[0].AttemptID != second {
		t.Fatalf("unexpected since filter result %+v", attempts)
	}
}

func TestInsertAttemptKeepsRef(t *testing.T) {
	st := openTestStore(t)
	_, ref, err := st.InsertAttempt(context.Background(), model.AttemptStats{Ref: "fixed", CreatedAt: time.Now()}, nil)
	if err != nil {
		t.Fatalf("insert attempt: %v", err)
	}
	if ref != "fixed" {
		t.Fatalf("expected ref to be kept, got %q", ref)
	}
	if _, _, err := st.InsertAttempt(context.Background(), model.AttemptStats{Ref: "fixed", CreatedAt: time.Now()}, nil); err == nil {
		t.Fatalf("expected duplicate ref to fail")
	}
}

func TestVowelAggregates(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	a := insert(t, st, base,
		model.VowelStats{Vowel: "ਆ", Matched: 1, ConfidenceSum: 0.9, Assessed: 1, DeviationSumMs: 20, DeviationCount: 1},
		model.VowelStats{Vowel: "ਇ", Missed: 1},
	)
	b := insert(t, st, base.Add(time.Minute),
		model.VowelStats{Vowel: "ਆ", Missed: 1, ConfidenceSum: 0.3, Assessed: 1, DeviationSumMs: 40, DeviationCount: 1},
	)

	aggs, err := st.ListVowelAggregatesForAttempts(ctx, []int64{a, b})
	if err != nil {
		t.Fatalf("aggregates: %v", err)
	}
	byVowel := map[string]model.VowelAggregate{}
	for _, agg := range aggs {
		byVowel[agg.Vowel] = agg
	}
	aa := byVowel["ਆ"]
	if aa.Matched != 1 || aa.Missed != 1 || aa.Assessed != 2 || aa.DeviationSumMs != 60 || aa.DeviationCount != 2 {
		t.Fatalf("unexpected aggregate %+v", aa)
	}
	if byVowel["ਇ"].Missed != 1 {
		t.Fatalf("unexpected aggregate %+v", byVowel["ਇ"])
	}

	weak, err := st.GetWeakVowels(ctx, 1)
	if err != nil {
		t.Fatalf("weak vowels: %v", err)
	}
	if len(weak) != 1 || weak[0].Vowel != "ਆ" || weak[0].Missed != 1 {
		t.Fatalf("expected only latest attempt, got %+v", weak)
	}
	if weak, _ := st.GetWeakVowels(ctx, 0); weak != nil {
		t.Fatalf("expected nil for empty window")
	}

	perAttempt, err := st.ListVowelStatsForAttempts(ctx, []int64{a, b}, []string{"ਆ"})
	if err != nil {
		t.Fatalf("per attempt: %v", err)
	}
	if len(perAttempt) != 2 || perAttempt[a]["ਆ"].Matched != 1 || perAttempt[b]["ਆ"].Missed != 1 {
		t.Fatalf("unexpected per-attempt stats %+v", perAttempt)
	}
	if _, ok := perAttempt[a]["ਇ"]; ok {
		t.Fatalf("unselected vowel should be filtered")
	}

	empty, err := st.ListVowelStatsForAttempts(ctx, nil, []string{"ਆ"})
	if err != nil || len(empty) != 0 {
		t.Fatalf("expected empty map, got %v %v", empty, err)
	}
}

func TestSubSecondOrdering(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	second := time.Date(2026, 3, 1, 10, 0, 5, 0, time.UTC)

	older := insert(t, st, second, model.VowelStats{Vowel: "ਆ", Missed: 1})
	newer := insert(t, st, second.Add(500*time.Millisecond), model.VowelStats{Vowel: "ਈ", Missed: 1})
	early := insert(t, st, second.Add(-500*time.Millisecond), model.VowelStats{Vowel: "ਉ", Missed: 1})

	weak, err := st.GetWeakVowels(ctx, 1)
	if err != nil {
		t.Fatalf("weak vowels: %v", err)
	}
	if len(weak) != 1 || weak[0].Vowel != "ਈ" {
		t.Fatalf("expected the newest attempt's vowel, got %+v", weak)
	}

	attempts, err := st.ListAttempts(ctx, model.StatsConfig{})
	if err != nil {
		t.Fatalf("list attempts: %v", err)
	}
	var ids []int64
	for _, a := range attempts {
		ids = append(ids, a.AttemptID)
	}
	if len(ids) != 3 || ids[0] != early || ids[1] != older || ids[2] != newer {
		t.Fatalf("expected chronological order [%d %d %d], got %v", early, older, newer, ids)
	}
	if !attempts[2].CreatedAt.Equal(second.Add(500 * time.Millisecond)) {
		t.Fatalf("unexpected created_at %v", attempts[2].CreatedAt)
	}

	since := second.Add(-time.Second)
	attempts, err = st.ListAttempts(ctx, model.StatsConfig{Since: &since})
	if err != nil {
		t.Fatalf("list since: %v", err)
	}
	if len(attempts) != 3 || attempts[0].AttemptID != early {
		t.Fatalf("expected the attempt half a second after since to be kept, got %+v", attempts)
	}
}
