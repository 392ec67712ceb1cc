package stats

import (
	"testing"

	"github.com/verte-zerg/bolo/internal/model"
)

func TestSelectWeakVowels(t *testing.T) {
	aggs := []model.VowelAggregate{
		{Vowel: "ਆ", Matched: 9, Missed: 1, ConfidenceSum: 8},
		{Vowel: "ਈ", Matched: 1, Missed: 3, ConfidenceSum: 1.2},
		{Vowel: "ਉ", Matched: 1, Missed: 3, ConfidenceSum: 0.8},
		{Vowel: "ਓ"},
	}

	weak := SelectWeakVowels(aggs, 1)
	if _, ok := weak["ਉ"]; !ok || len(weak) != 1 {
		t.Fatalf("expected lower confidence to break the tie, got %v", weak)
	}

	all := SelectWeakVowels(aggs, 0)
	if len(all) != 3 {
		t.Fatalf("expected unassessed vowels to be skipped, got %v", all)
	}
	if _, ok := all["ਓ"]; ok {
		t.Fatalf("unassessed vowel selected")
	}

	if got := SelectWeakVowels(nil, 3); len(got) != 0 {
		t.Fatalf("expected empty set, got %v", got)
	}
}
