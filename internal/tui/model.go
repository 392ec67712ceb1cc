// Package tui provides the Bubble Tea review screen for one analysis.
package tui

import (
	"context"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/bolo/internal/gurmukhi"
	"github.com/verte-zerg/bolo/internal/model"
	statsPkg "github.com/verte-zerg/bolo/internal/stats"
	"github.com/verte-zerg/bolo/internal/store"
	"github.com/verte-zerg/bolo/pkg/vowel"
)

// Model implements the Bubble Tea review UI.
type Model struct {
	prompt   string
	feedback vowel.VowelFeedback
	store    *store.Store
	selected int

	width  int
	height int

	lastRate float64
	lastConf float64
	hasLast  bool

	allRate float64
	allConf float64
	hasAll  bool
}

var (
	matchStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A"))
	missStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	absentStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	promptStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	footerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	detailsStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

// NewModel constructs a review model. st may be nil, in which case the
// footer shows no history.
func NewModel(prompt string, fb vowel.VowelFeedback, st *store.Store) *Model {
	m := &Model{
		prompt:   prompt,
		feedback: fb,
		store:    st,
	}
	m.loadFooterStats()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		case "left", "h", "shift+tab":
			m.move(-1)
		case "right", "l", "tab":
			m.move(1)
		case "home":
			m.selected = 0
		case "end":
			m.selected = max(0, len(m.feedback.Sequence)-1)
		}
	}
	return m, nil
}

func (m *Model) move(delta int) {
	n := len(m.feedback.Sequence)
	if n == 0 {
		return
	}
	m.selected = (m.selected + delta + n) % n
}

// View implements tea.Model.
func (m *Model) View() string {
	if len(m.feedback.Sequence) == 0 {
		return "No vowels expected.\n"
	}
	contentWidth := 0
	if m.width > 0 {
		contentWidth = max(1, int(float64(m.width)*0.70))
	}

	var sections []string
	if m.prompt != "" {
		sections = append(sections, promptStyle.Render(m.prompt), footerStyle.Render(gurmukhi.Transliterate(m.prompt)), "")
	}
	sections = append(sections, wrapStyledRunes(buildChips(m.feedback.Sequence, m.selected), contentWidth), "")
	sections = append(sections, detailsStyle.Render(renderDetails(m.selected, m.feedback.Sequence[m.selected])))
	content := lipgloss.JoinVertical(lipgloss.Left, sections...)

	footer := m.renderFooter()
	if m.width == 0 || m.height == 0 {
		return content + "\n" + footer
	}
	if m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	body := lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

func renderDetails(index int, a vowel.VowelAssessment) string {
	verdict := missStyle.Render("miss")
	if a.Match {
		verdict = matchStyle.Render("match")
	}
	lines := []string{
		fmt.Sprintf("%s %d  %s (%s)  %s", labelStyle.Render("Vowel"), index+1, a.ExpectedVowel, gurmukhi.Transliterate(a.ExpectedVowel), verdict),
	}
	if a.DetectedCluster == nil {
		lines = append(lines, absentStyle.Render("Not detected in the recording."))
		return strings.Join(lines, "\n")
	}
	c := a.DetectedCluster
	lines = append(lines, fmt.Sprintf("%s %s", labelStyle.Render("Heard"), strings.Join(c.Phonemes, " ")))
	if c.Start != nil && c.End != nil {
		lines = append(lines, fmt.Sprintf("%s %.2fs - %.2fs (%s ms)", labelStyle.Render("Time"), *c.Start, *c.End, formatOptional(c.DurationMs, "%.0f")))
	}
	s := a.Scores
	lines = append(lines,
		fmt.Sprintf("%s %s (distance %s)", labelStyle.Render("Similarity"), formatOptional(s.PhonemeSimilarity, "%.3f"), formatOptionalInt(s.LevenshteinDistance)),
		fmt.Sprintf("%s %s (off by %s ms)", labelStyle.Render("Duration"), formatOptional(s.DurationScore, "%.3f"), formatOptional(s.DurationDifferenceMs, "%.0f")),
		fmt.Sprintf("%s %s", labelStyle.Render("Acoustic"), formatOptional(s.FormantSimilarity, "%.3f")),
		fmt.Sprintf("%s %.3f", labelStyle.Render("Overall"), a.Confidence),
	)
	return strings.Join(lines, "\n")
}

func formatOptional(v *float64, format string) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf(format, *v)
}

func formatOptionalInt(v *int) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *v)
}

func (m *Model) loadFooterStats() {
	if m.store == nil {
		return
	}
	attempts, err := m.store.ListAttempts(context.Background(), model.StatsConfig{})
	if err != nil {
		logErrf("failed to load attempt stats: %v\n", err)
		return
	}
	if len(attempts) == 0 {
		return
	}
	last := attempts[len(attempts)-1]
	m.lastRate, m.lastConf = statsPkg.AttemptMetrics(last.Matched, last.Missed, last.ConfidenceSum)
	m.hasLast = true

	var matched, missed int
	var confSum float64
	for _, a := range attempts {
		matched += a.Matched
		missed += a.Missed
		confSum += a.ConfidenceSum
	}
	m.allRate, m.allConf = statsPkg.AttemptMetrics(matched, missed, confSum)
	m.hasAll = true
}

func (m *Model) renderFooter() string {
	s := m.feedback.Summary()
	segments := []string{fmt.Sprintf("This %d/%d · %.2f", s.Matched, s.Total, s.MeanConfidence)}
	if m.hasLast {
		segments = append(segments, fmt.Sprintf("Last %.1f%% · %.2f", m.lastRate*100, m.lastConf))
	}
	if m.hasAll {
		segments = append(segments, fmt.Sprintf("All-time %.1f%% · %.2f", m.allRate*100, m.allConf))
	}
	segments = append(segments, "←/→ select · q quit")
	return footerStyle.Render(strings.Join(segments, "  "))
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
