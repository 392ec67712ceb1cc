package generator

import (
	"strings"
	"testing"
)

func splitVowels(prompt string) []string {
	return strings.Split(prompt, "")
}

func TestGenerate(t *testing.T) {
	g := NewWithSeed(1)
	got := g.Generate([]string{"x", "y"}, 5)
	if len(got) != 5 {
		t.Fatalf("expected 5 prompts, got %d", len(got))
	}
	for _, p := range got {
		if p != "x" && p != "y" {
			t.Fatalf("unexpected prompt %q", p)
		}
	}
	if g.Generate(nil, 3) != nil {
		t.Fatalf("expected nil for empty input")
	}
}

func TestWeights(t *testing.T) {
	weak := map[string]struct{}{"a": {}}
	w := Weights([]string{"aab", "bb"}, splitVowels, weak, 2)
	if w[0] != 5 || w[1] != 1 {
		t.Fatalf("unexpected weights %v", w)
	}
	w = Weights([]string{"a"}, splitVowels, weak, -3)
	if w[0] != 1 {
		t.Fatalf("negative factor should not reduce weight, got %v", w)
	}
}

func TestGenerateWeightedPrefersWeak(t *testing.T) {
	g := NewWithSeed(42)
	weak := map[string]struct{}{"a": {}}
	got := g.GenerateWeighted([]string{"aaaa", "b"}, 1000, splitVowels, weak, 10)

	hits := 0
	for _, p := range got {
		if p == "aaaa" {
			hits++
		}
	}
	// Expected share is 41/42.
	if hits < 900 {
		t.Fatalf("expected weak prompt to dominate, got %d/1000", hits)
	}
}
