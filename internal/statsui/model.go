// Package statsui provides the Bubble Tea stats interface.
package statsui

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/bolo/internal/gurmukhi"
	"github.com/verte-zerg/bolo/internal/model"
	"github.com/verte-zerg/bolo/internal/stats"
	"github.com/verte-zerg/bolo/internal/store"
)

const (
	tabOverview = iota
	tabVowelTable
	tabVowelCurves
)

const (
	plotHeight = 10
	topVowels  = 5
)

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
	modalStyle      = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A")).
			Padding(1, 2)
)

// Model implements the Bubble Tea stats UI.
type Model struct {
	store *store.Store
	cfg   model.StatsConfig

	report      stats.Report
	errMsg      string
	vowelErrMsg string

	tabs        []string
	activeTab   int
	viewports   []viewport.Model
	vowelTable  table.Model
	tableLayout tableLayout

	width  int
	height int

	filterMode   bool
	filterInputs []textinput.Model
	filterIndex  int
	filterError  string

	vowelSelection       []string
	vowelSelectionCustom bool
	vowelPerAttempt      map[int64]map[string]model.VowelAggregate

	vowelInputMode bool
	vowelInput     textinput.Model
}

type tableLayout struct {
	width    int
	height   int
	rowCount int
}

// NewModel constructs a stats UI model.
func NewModel(st *store.Store, cfg model.StatsConfig) *Model {
	m := &Model{
		store: st,
		cfg:   cfg,
		tabs:  []string{"Overview", "Vowel Table", "Vowel Curves"},
	}
	m.vowelSelection = parseVowels(cfg.Vowels)
	if len(m.vowelSelection) > 0 {
		m.vowelSelectionCustom = true
	}
	m.initInputs()
	m.initVowelInput()
	m.vowelTable = newVowelTable(0, 1)
	m.initViewports()
	m.refreshReport()
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
		m.updateLayout()
		m.renderTabContents()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || (msg.String() == "q" && !m.vowelInputMode) {
			return m, tea.Quit
		}
		if m.filterMode {
			return m.updateFilter(msg)
		}
		if m.vowelInputMode {
			return m.updateVowelInput(msg)
		}
		switch msg.String() {
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "=":
			m.cfg.CurveWindow = nextCurveWindow(m.cfg.CurveWindow)
			m.refreshReport()
			m.updateLayout()
			return m, nil
		case "-":
			m.cfg.CurveWindow = prevCurveWindow(m.cfg.CurveWindow)
			m.refreshReport()
			m.updateLayout()
			return m, nil
		case "/":
			return m.startFilter()
		case "enter":
			if m.activeTab == tabVowelCurves {
				return m.startVowelInput()
			}
			return m, nil
		case "g", "home":
			if m.activeTab == tabVowelTable {
				m.vowelTable.GotoTop()
			} else {
				m.viewports[m.activeTab].GotoTop()
			}
			return m, nil
		case "G", "end":
			if m.activeTab == tabVowelTable {
				m.vowelTable.GotoBottom()
			} else {
				m.viewports[m.activeTab].GotoBottom()
			}
			return m, nil
		default:
			if m.activeTab == tabVowelTable {
				var cmd tea.Cmd
				m.vowelTable, cmd = m.vowelTable.Update(msg)
				return m, cmd
			}
			var cmd tea.Cmd
			m.viewports[m.activeTab], cmd = m.viewports[m.activeTab].Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if m.vowelInputMode {
		return fitLines(m.renderVowelModal(), m.width, m.height)
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(bodyHeight), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) initViewports() {
	m.viewports = make([]viewport.Model, len(m.tabs))
	for i := range m.viewports {
		m.viewports[i] = viewport.New(0, 0)
	}
}

func (m *Model) initInputs() {
	m.filterInputs = []textinput.Model{
		newInput("Since (YYYY-MM-DD): "),
		newInput("Last: "),
		newInput("Curve window: "),
	}
	m.setInputsFromConfig()
}

func (m *Model) initVowelInput() {
	m.vowelInput = newInput("Vowels: ")
	m.vowelInput.Placeholder = "ਅਆਇਈ"
}

func newInput(prompt string) textinput.Model {
	input := textinput.New()
	input.Prompt = prompt
	input.CharLimit = 0
	input.Cursor.SetMode(cursor.CursorBlink)
	return input
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := max(1, lipgloss.Height(activeNavStyle.Render("X")))
	headerHeight = tabsHeight + 1
	footerHeight = 1
	if !m.filterMode && m.errMsg != "" {
		footerHeight++
	}
	bodyHeight = max(1, m.height-headerHeight-footerHeight)
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) setInputsFromConfig() {
	if len(m.filterInputs) == 0 {
		return
	}
	if m.cfg.Since != nil {
		m.filterInputs[0].SetValue(m.cfg.Since.Format("2006-01-02"))
	} else {
		m.filterInputs[0].SetValue("")
	}
	if m.cfg.Last > 0 {
		m.filterInputs[1].SetValue(strconv.Itoa(m.cfg.Last))
	} else {
		m.filterInputs[1].SetValue("")
	}
	m.filterInputs[2].SetValue(strconv.Itoa(m.cfg.CurveWindow))
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyHeight, _ := m.layoutHeights()
	for i := range m.viewports {
		m.viewports[i].Width = m.width
		m.viewports[i].Height = bodyHeight
	}
	m.setTableSize(m.width, bodyHeight)
	for i := range m.filterInputs {
		promptWidth := lipgloss.Width(m.filterInputs[i].Prompt)
		m.filterInputs[i].Width = max(10, m.width-promptWidth-2)
	}
	promptWidth := lipgloss.Width(m.vowelInput.Prompt)
	m.vowelInput.Width = max(10, modalInnerWidth(m.width)-promptWidth)
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	if count == 0 {
		return
	}
	m.activeTab = (m.activeTab + delta + count) % count
	if m.activeTab == tabVowelTable {
		m.vowelTable.Focus()
	} else {
		m.vowelTable.Blur()
	}
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderHeader() string {
	tabs := padLines(m.renderTabs(), m.width)
	filters := padLines(m.renderFilterSummary(), m.width)
	return tabs + "\n" + filters
}

func (m *Model) renderFilterSummary() string {
	since := "any"
	if m.cfg.Since != nil {
		since = m.cfg.Since.Format("2006-01-02")
	}
	last := "all"
	if m.cfg.Last > 0 {
		last = strconv.Itoa(m.cfg.Last)
	}
	summary := fmt.Sprintf("Settings: since=%s  last=%s  window=%d", since, last, m.cfg.CurveWindow)
	return headerStyle.Render(truncateLine(summary, m.width))
}

func (m *Model) renderHelp() string {
	help := "Nav: left/right  Scroll: up/down/pgup/pgdn  Window: -/=  Settings: /  Quit: q"
	if m.activeTab == tabVowelCurves {
		help = "Nav: left/right  Scroll: up/down/pgup/pgdn  Edit vowels: enter  Window: -/=  Settings: /  Quit: q"
	}
	return headerStyle.Render(help)
}

func (m *Model) renderFooter() string {
	if m.filterMode {
		return headerStyle.Render("tab/shift+tab: next field  enter: apply  esc: cancel  quit: q")
	}
	if m.errMsg != "" {
		return m.renderHelp() + "\n" + errorStyle.Render(m.errMsg)
	}
	return m.renderHelp()
}

func (m *Model) renderFilterForm() string {
	lines := []string{"Settings (enter to apply, esc to cancel)"}
	for _, input := range m.filterInputs {
		lines = append(lines, input.View())
	}
	if m.filterError != "" {
		lines = append(lines, errorStyle.Render(m.filterError))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderBody(height int) string {
	if m.filterMode {
		return fitLines(m.renderFilterForm(), m.width, height)
	}
	if m.activeTab == tabVowelTable {
		switch {
		case len(m.report.Attempts) == 0:
			return fitLines("No attempts found.", m.width, height)
		case len(m.report.VowelAggsAll) == 0:
			return fitLines("No vowel stats found.", m.width, height)
		default:
			return fitLines(tableMutedStyle.Render(m.vowelTable.View()), m.width, height)
		}
	}
	return fitLines(m.viewports[m.activeTab].View(), m.width, height)
}

func (m *Model) refreshReport() {
	report, err := stats.BuildReport(context.Background(), m.store, m.cfg)
	if err != nil {
		m.errMsg = err.Error()
		m.vowelErrMsg = ""
		for i := range m.viewports {
			m.viewports[i].SetContent("Failed to load stats.")
		}
		return
	}
	m.errMsg = ""
	m.report = report
	if !m.vowelSelectionCustom {
		m.vowelSelection = stats.TopVowelsByFrequency(m.report.VowelAggsAll, topVowels)
	}
	m.loadVowelPerAttempt()
	m.vowelTable.SetRows(vowelRows(m.report.VowelAggsAll))
	m.tableLayout.rowCount = len(m.report.VowelAggsAll)
	m.renderTabContents()
}

func (m *Model) renderTabContents() {
	if len(m.viewports) == 0 {
		return
	}
	if m.errMsg != "" {
		for i := range m.viewports {
			m.viewports[i].SetContent("Failed to load stats.")
		}
		return
	}
	width := m.width
	if width <= 0 {
		width = 80
	}
	m.viewports[tabOverview].SetContent(renderOverview(m.report.Attempts, m.cfg.CurveWindow, width))
	m.viewports[tabVowelCurves].SetContent(renderVowelCurves(m.report.Attempts, m.vowelSelection, m.vowelPerAttempt, m.cfg.CurveWindow, width, m.vowelErrMsg))
}

func renderOverview(attempts []model.AttemptAggregate, window, width int) string {
	if len(attempts) == 0 {
		return "No attempts found."
	}
	summary := renderSummaryCards(attempts, width)
	var buf bytes.Buffer
	if err := stats.RenderCurvesWithSize(&buf, attempts, window, width, plotHeight, true); err != nil {
		return fmt.Sprintf("Failed to render curves: %v", err)
	}
	return strings.TrimRight(summary+"\n\n"+buf.String(), "\n")
}

func renderSummaryCards(attempts []model.AttemptAggregate, width int) string {
	var totalRate, totalConf, best float64
	vowels := 0
	for _, a := range attempts {
		rate, conf := stats.AttemptMetrics(a.Matched, a.Missed, a.ConfidenceSum)
		totalRate += rate
		totalConf += conf
		best = max(best, rate)
		vowels += a.Matched + a.Missed
	}
	count := float64(len(attempts))
	cards := []string{
		metricCard("Attempts", fmt.Sprintf("%d", len(attempts))),
		metricCard("Vowels", fmt.Sprintf("%d", vowels)),
		metricCard("Avg Match", fmt.Sprintf("%.1f%%", totalRate/count*100)),
		metricCard("Best Match", fmt.Sprintf("%.1f%%", best*100)),
		metricCard("Avg Conf", fmt.Sprintf("%.3f", totalConf/count)),
	}
	if width < 80 {
		return strings.Join(cards, "\n")
	}
	row1 := lipgloss.JoinHorizontal(lipgloss.Top, cards[0], cards[1], cards[2])
	row2 := lipgloss.JoinHorizontal(lipgloss.Top, cards[3], cards[4])
	return lipgloss.JoinVertical(lipgloss.Left, row1, row2)
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

func vowelColumns() []table.Column {
	return []table.Column{
		{Title: "Vowel", Width: 5},
		{Title: "Roman", Width: 6},
		{Title: "Match", Width: 8},
		{Title: "Confidence", Width: 10},
		{Title: "Avg Dev (ms)", Width: 12},
		{Title: "Matched", Width: 7},
		{Title: "Missed", Width: 6},
	}
}

func newVowelTable(width, height int) table.Model {
	t := table.New(
		table.WithColumns(vowelColumns()),
		table.WithHeight(max(1, height-1)),
	)
	t.SetWidth(width)
	t.SetStyles(vowelTableStyles())
	return t
}

func vowelRows(aggs []model.VowelAggregate) []table.Row {
	rows := make([]table.Row, 0, len(aggs))
	for _, agg := range stats.SortWeakestFirst(aggs) {
		rate, conf, dev, ok := stats.VowelMetrics(agg)
		devCell := "-"
		if ok {
			devCell = fmt.Sprintf("%.1f", dev)
		}
		rows = append(rows, table.Row{
			agg.Vowel,
			gurmukhi.Transliterate(agg.Vowel),
			fmt.Sprintf("%.2f%%", rate*100),
			fmt.Sprintf("%.3f", conf),
			devCell,
			fmt.Sprintf("%d", agg.Matched),
			fmt.Sprintf("%d", agg.Missed),
		})
	}
	return rows
}

func (m *Model) setTableSize(width, height int) {
	viewportHeight := max(1, height-1)
	if m.tableLayout.width == width && m.tableLayout.height == viewportHeight {
		return
	}
	m.tableLayout.width = width
	m.tableLayout.height = viewportHeight
	m.vowelTable.SetWidth(width)
	m.vowelTable.SetHeight(viewportHeight)
	if adjusted := m.adjustTableHeight(height); adjusted != viewportHeight {
		m.tableLayout.height = adjusted
		m.vowelTable.SetHeight(adjusted)
	}
}

func vowelTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

// adjustTableHeight fits the rendered table, header included, to bodyHeight.
func (m *Model) adjustTableHeight(bodyHeight int) int {
	target := max(1, bodyHeight)
	height := m.vowelTable.Height()
	for i := 0; i < 2; i++ {
		viewHeight := lipgloss.Height(m.vowelTable.View())
		if viewHeight == target {
			return height
		}
		height = max(1, height+target-viewHeight)
		m.vowelTable.SetHeight(height)
	}
	return height
}

func renderVowelCurves(attempts []model.AttemptAggregate, vowels []string, perAttempt map[int64]map[string]model.VowelAggregate, window, width int, errMsg string) string {
	if len(attempts) == 0 {
		return "No attempts found."
	}
	if errMsg != "" {
		return fmt.Sprintf("Failed to load vowel curves: %s", errMsg)
	}
	if len(vowels) == 0 {
		return "No vowels selected. Press Enter to set vowels."
	}
	header := headerStyle.Render(fmt.Sprintf("Vowels: %s", strings.Join(vowels, ", ")))
	var buf bytes.Buffer
	if err := stats.RenderVowelCurvesWithSize(&buf, attempts, perAttempt, vowels, window, width, plotHeight, true); err != nil {
		return fmt.Sprintf("Failed to render vowel curves: %v", err)
	}
	return strings.TrimRight(header+"\n"+buf.String(), "\n")
}

func (m *Model) startFilter() (tea.Model, tea.Cmd) {
	m.filterMode = true
	m.filterError = ""
	m.setInputsFromConfig()
	return m, m.setFilterIndex(0)
}

func (m *Model) startVowelInput() (tea.Model, tea.Cmd) {
	m.vowelInputMode = true
	m.vowelInput.SetValue(strings.Join(m.vowelSelection, ""))
	return m, m.vowelInput.Focus()
}

func (m *Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.filterMode = false
		m.filterError = ""
		return m, nil
	case tea.KeyEnter:
		if err := m.applyFilter(); err != nil {
			m.filterError = err.Error()
			return m, nil
		}
		m.filterMode = false
		m.filterError = ""
		m.refreshReport()
		m.updateLayout()
		return m, nil
	case tea.KeyTab:
		return m, m.setFilterIndex(m.filterIndex + 1)
	case tea.KeyShiftTab:
		return m, m.setFilterIndex(m.filterIndex - 1)
	}
	var cmd tea.Cmd
	m.filterInputs[m.filterIndex], cmd = m.filterInputs[m.filterIndex].Update(msg)
	return m, cmd
}

func (m *Model) updateVowelInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.vowelInputMode = false
		return m, nil
	case tea.KeyEnter:
		m.applyVowelInput()
		m.vowelInputMode = false
		m.loadVowelPerAttempt()
		m.renderTabContents()
		return m, nil
	}
	var cmd tea.Cmd
	m.vowelInput, cmd = m.vowelInput.Update(msg)
	return m, cmd
}

func (m *Model) setFilterIndex(idx int) tea.Cmd {
	count := len(m.filterInputs)
	if count == 0 {
		return nil
	}
	m.filterIndex = (idx + count) % count
	var cmd tea.Cmd
	for i := range m.filterInputs {
		if i == m.filterIndex {
			cmd = m.filterInputs[i].Focus()
		} else {
			m.filterInputs[i].Blur()
		}
	}
	return cmd
}

func (m *Model) applyFilter() error {
	sinceInput := strings.TrimSpace(m.filterInputs[0].Value())
	var since *time.Time
	if sinceInput != "" {
		parsed, err := time.ParseInLocation("2006-01-02", sinceInput, time.Local)
		if err != nil {
			return fmt.Errorf("invalid since date (expected YYYY-MM-DD)")
		}
		since = &parsed
	}

	lastInput := strings.TrimSpace(m.filterInputs[1].Value())
	last := 0
	if lastInput != "" {
		parsed, err := strconv.Atoi(lastInput)
		if err != nil || parsed < 0 {
			return fmt.Errorf("invalid last value (use 0 or positive integer)")
		}
		last = parsed
	}

	windowInput := strings.TrimSpace(m.filterInputs[2].Value())
	window := 0
	if windowInput != "" {
		parsed, err := strconv.Atoi(windowInput)
		if err != nil {
			return fmt.Errorf("invalid curve window (use integer)")
		}
		if parsed < 1 {
			return fmt.Errorf("invalid curve window (use integer >= 1)")
		}
		window = parsed
	}

	m.cfg = model.StatsConfig{
		Since:       since,
		Last:        last,
		CurveWindow: window,
		Vowels:      m.cfg.Vowels,
	}
	return nil
}

func (m *Model) applyVowelInput() {
	vowels := parseVowels(m.vowelInput.Value())
	if len(vowels) == 0 {
		m.vowelSelectionCustom = false
		m.vowelSelection = stats.TopVowelsByFrequency(m.report.VowelAggsAll, topVowels)
		return
	}
	m.vowelSelectionCustom = true
	m.vowelSelection = vowels
}

func (m *Model) renderVowelModal() string {
	body := []string{
		cardValueStyle.Render("Select Vowels"),
		m.vowelInput.View(),
		headerStyle.Render("Type independent vowels. Commas and spaces are ignored."),
		headerStyle.Render("Enter to apply / Esc to cancel"),
	}
	box := modalStyle.Width(modalWidth(m.width)).Render(strings.Join(body, "\n"))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func (m *Model) loadVowelPerAttempt() {
	m.vowelErrMsg = ""
	m.vowelPerAttempt = nil
	if len(m.report.Attempts) == 0 || len(m.vowelSelection) == 0 {
		return
	}
	perAttempt, err := m.store.ListVowelStatsForAttempts(context.Background(), m.report.AttemptIDs(), m.vowelSelection)
	if err != nil {
		m.vowelErrMsg = err.Error()
		return
	}
	m.vowelPerAttempt = perAttempt
}

// parseVowels splits input into single-rune vowel symbols, skipping commas
// and whitespace. Duplicates keep their first position.
func parseVowels(input string) []string {
	var out []string
	seen := map[string]struct{}{}
	for _, r := range input {
		if r == ',' || unicode.IsSpace(r) {
			continue
		}
		v := string(r)
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func nextCurveWindow(n int) int {
	if n < 5 {
		return 5
	}
	return ((n / 5) + 1) * 5
}

func prevCurveWindow(n int) int {
	if n <= 5 {
		return 1
	}
	if n%5 == 0 {
		return n - 5
	}
	return (n / 5) * 5
}

func modalWidth(width int) int {
	return max(40, min(width-4, 80))
}

func modalInnerWidth(width int) int {
	w := modalWidth(width)
	w -= 6 // 2 border + 4 padding
	return max(10, w)
}

func padLines(s string, width int) string {
	if width <= 0 || s == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	return strings.Join(lines, "\n")
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func truncateLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}
