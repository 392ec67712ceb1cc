package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/bolo/pkg/vowel"
)

type styledRune struct {
	s       string
	width   int
	isSpace bool
}

func chipStyle(a vowel.VowelAssessment) lipgloss.Style {
	switch {
	case a.DetectedCluster == nil:
		return absentStyle
	case a.Match:
		return matchStyle
	default:
		return missStyle
	}
}

// buildChips renders one chip per expected vowel, separated by spaces. The
// selected chip is underlined.
func buildChips(seq []vowel.VowelAssessment, selected int) []styledRune {
	out := make([]styledRune, 0, len(seq)*2)
	for i, a := range seq {
		if i > 0 {
			out = append(out, styledRune{s: " ", width: 1, isSpace: true})
		}
		style := chipStyle(a)
		if i == selected {
			style = style.Underline(true)
		}
		out = append(out, styledRune{
			s:     style.Render(a.ExpectedVowel),
			width: runewidth.StringWidth(a.ExpectedVowel),
		})
	}
	return out
}

func renderStyledRunes(runes []styledRune) string {
	var b strings.Builder
	for _, item := range runes {
		b.WriteString(item.s)
	}
	return b.String()
}

// wrapStyledRunes breaks at the last space that keeps a line within width,
// or mid-run when a line has no space.
func wrapStyledRunes(runes []styledRune, width int) string {
	if width <= 0 {
		return renderStyledRunes(runes)
	}
	var lines []string
	var line []styledRune
	lineWidth := 0
	lastSpace := -1

	for i := 0; i < len(runes); {
		item := runes[i]
		if lineWidth+item.width > width && len(line) > 0 {
			if item.isSpace {
				lines = append(lines, renderStyledRunes(line))
				line = nil
				lineWidth, lastSpace = 0, -1
				i++
				continue
			}
			if lastSpace >= 0 {
				lines = append(lines, renderStyledRunes(line[:lastSpace]))
				line = append([]styledRune{}, line[lastSpace+1:]...)
			} else {
				lines = append(lines, renderStyledRunes(line))
				line = nil
			}
			lineWidth, lastSpace = measure(line)
			continue
		}
		line = append(line, item)
		lineWidth += item.width
		if item.isSpace {
			lastSpace = len(line) - 1
		}
		i++
	}
	lines = append(lines, renderStyledRunes(line))
	return strings.Join(lines, "\n")
}

func measure(line []styledRune) (width, lastSpace int) {
	lastSpace = -1
	for i, item := range line {
		width += item.width
		if item.isSpace {
			lastSpace = i
		}
	}
	return width, lastSpace
}
