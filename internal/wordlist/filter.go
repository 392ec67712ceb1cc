package wordlist

import (
	"strings"

	"github.com/verte-zerg/bolo/internal/gurmukhi"
)

// FilterFunc returns true when a prompt should be kept.
type FilterFunc func(string) bool

// FilterForLang returns a language-specific filter for prompt lists.
func FilterForLang(lang string) FilterFunc {
	switch strings.ToLower(lang) {
	case "pa", "pa-guru":
		return filterGurmukhi
	default:
		return func(string) bool { return true }
	}
}

// Filter keeps the prompts accepted by keep.
func Filter(prompts []string, keep FilterFunc) []string {
	out := prompts[:0:0]
	for _, p := range prompts {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}

// filterGurmukhi accepts prompts whose words are all Gurmukhi, allowing
// trailing sentence punctuation.
func filterGurmukhi(prompt string) bool {
	words := strings.Fields(prompt)
	if len(words) == 0 {
		return false
	}
	for _, w := range words {
		if !gurmukhi.IsGurmukhi(strings.TrimRight(w, "।॥?!,.")) {
			return false
		}
	}
	return true
}
