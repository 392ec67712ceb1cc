// Package gurmukhi derives expected vowels and romanizations from Gurmukhi
// prompt text.
package gurmukhi

import (
	"strings"
	"unicode"
)

const (
	nukta  = '਼'
	virama = '੍'
	addak  = 'ੱ'
)

var consonants = map[rune]string{
	'ਸ': "s", 'ਹ': "h", 'ਕ': "k", 'ਖ': "kh", 'ਗ': "g", 'ਘ': "gh", 'ਙ': "ng",
	'ਚ': "ch", 'ਛ': "chh", 'ਜ': "j", 'ਝ': "jh", 'ਞ': "ny",
	'ਟ': "t", 'ਠ': "th", 'ਡ': "d", 'ਢ': "dh", 'ਣ': "n",
	'ਤ': "t", 'ਥ': "th", 'ਦ': "d", 'ਧ': "dh", 'ਨ': "n",
	'ਪ': "p", 'ਫ': "ph", 'ਬ': "b", 'ਭ': "bh", 'ਮ': "m",
	'ਯ': "y", 'ਰ': "r", 'ਲ': "l", 'ਵ': "v", 'ੜ': "r",
	'ਸ਼': "sh", 'ਖ਼': "kh", 'ਗ਼': "gh", 'ਜ਼': "z", 'ਫ਼': "f", 'ਲ਼': "l",
}

// nuktaForms romanizes a consonant written with a separate nukta.
var nuktaForms = map[rune]string{
	'ਸ': "sh", 'ਖ': "kh", 'ਗ': "gh", 'ਜ': "z", 'ਫ': "f", 'ਲ': "l",
}

var vowels = map[rune]string{
	'ਅ': "a", 'ਆ': "aa", 'ਇ': "i", 'ਈ': "ee", 'ਉ': "u", 'ਊ': "oo",
	'ਏ': "e", 'ਐ': "ai", 'ਓ': "o", 'ਔ': "au",
}

// matras maps each dependent vowel sign to its independent vowel.
var matras = map[rune]rune{
	'ਾ': 'ਆ', 'ਿ': 'ਇ', 'ੀ': 'ਈ', 'ੁ': 'ਉ', 'ੂ': 'ਊ',
	'ੇ': 'ਏ', 'ੈ': 'ਐ', 'ੋ': 'ਓ', 'ੌ': 'ਔ',
}

// carriers hold a matra in place of a consonant. A bare ਅ is itself a vowel.
var carriers = map[rune]string{
	'ੳ': "u", 'ਅ': "a", 'ੲ': "i",
}

var marks = map[rune]string{
	'ੰ': "n", 'ਂ': "n", 'ਃ': "h", nukta: "", addak: "",
}

var specials = map[rune]string{
	'।': ".", '॥': "||", 'ੴ': "ik onkar",
}

// Options controls vowel extraction.
type Options struct {
	// Inherent emits ਅ for a bare consonant that is not word final.
	Inherent bool
}

// ExpectedVowels returns the vowels a reader is expected to produce for
// text, in reading order.
func ExpectedVowels(text string, opts Options) []string {
	var out []string
	var pendingConsonant bool
	var carrier rune

	flush := func(wordEnd bool) {
		if pendingConsonant && opts.Inherent && !wordEnd {
			out = append(out, "ਅ")
		}
		if carrier == 'ਅ' {
			out = append(out, "ਅ")
		}
		pendingConsonant = false
		carrier = 0
	}

	for _, r := range text {
		if m, ok := matras[r]; ok {
			if pendingConsonant || carrier != 0 {
				out = append(out, string(m))
			}
			pendingConsonant = false
			carrier = 0
			continue
		}
		if _, ok := marks[r]; ok {
			continue
		}
		switch {
		case r == virama:
			pendingConsonant = false
		case carriers[r] != "":
			flush(false)
			carrier = r
		case consonants[r] != "" || isConsonant(r):
			flush(false)
			pendingConsonant = true
		case vowels[r] != "":
			flush(false)
			out = append(out, string(r))
		default:
			flush(true)
		}
	}
	flush(true)
	return out
}

// Transliterate romanizes Gurmukhi text. Consonants carry an inherent "a"
// that a following matra replaces and a virama removes. Unknown runes are
// kept verbatim.
func Transliterate(text string) string {
	var b strings.Builder
	runes := []rune(text)
	double := false
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		var next rune
		if i+1 < len(runes) {
			next = runes[i+1]
		}

		if base, ok := consonants[r]; ok {
			if next == nukta {
				if alt, ok := nuktaForms[r]; ok {
					base = alt
				}
				i++
				if i+1 < len(runes) {
					next = runes[i+1]
				} else {
					next = 0
				}
			}
			if double {
				b.WriteString(base[:1])
				double = false
			}
			b.WriteString(base)
			switch {
			case next == virama:
				i++
			case matras[next] != 0:
				b.WriteString(vowels[matras[next]])
				i++
			default:
				b.WriteString("a")
			}
			continue
		}
		if roman, ok := carriers[r]; ok {
			if m, ok := matras[next]; ok {
				b.WriteString(vowels[m])
				i++
			} else {
				b.WriteString(roman)
			}
			continue
		}
		if roman, ok := vowels[r]; ok {
			b.WriteString(roman)
			continue
		}
		if m, ok := matras[r]; ok {
			b.WriteString(vowels[m])
			continue
		}
		if r == addak {
			double = true
			continue
		}
		if roman, ok := marks[r]; ok {
			b.WriteString(roman)
			continue
		}
		if roman, ok := specials[r]; ok {
			b.WriteString(roman)
			continue
		}
		if r >= '੦' && r <= '੯' {
			b.WriteRune('0' + (r - '੦'))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// IsGurmukhi reports whether word is non-empty and written entirely in the
// Gurmukhi block.
func IsGurmukhi(word string) bool {
	if word == "" {
		return false
	}
	for _, r := range word {
		if !unicode.Is(unicode.Gurmukhi, r) {
			return false
		}
	}
	return true
}

func isConsonant(r rune) bool {
	return (r >= 'ਕ' && r <= 'ਹ') || (r >= 'ਖ਼' && r <= 'ਫ਼')
}
