package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/bolo/internal/config"
	"github.com/verte-zerg/bolo/internal/mapping"
	"github.com/verte-zerg/bolo/internal/model"
	"github.com/verte-zerg/bolo/internal/stats"
	"github.com/verte-zerg/bolo/internal/statsui"
	"github.com/verte-zerg/bolo/internal/store"
)

var (
	statsSince       string
	statsLast        int
	statsCurveWindow int
	statsVowels      string
	statsPlain       bool

	mappingPath string
	mappingLint bool
)

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show practice stats",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N attempts")
	cmd.Flags().IntVar(&statsCurveWindow, "curve-window", defaultCurveWindow, "moving average window")
	cmd.Flags().StringVar(&statsVowels, "vowels", "", "vowels for per-vowel curves (e.g. ਆ,ਈ)")
	cmd.Flags().BoolVar(&statsPlain, "plain", false, "print a text report instead of the TUI")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	var sinceTime *time.Time
	if statsSince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", statsSince, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}
	if statsLast < 0 {
		return fmt.Errorf("--last must be >= 0")
	}
	if statsCurveWindow < 1 {
		return fmt.Errorf("--curve-window must be >= 1")
	}

	cfg := model.StatsConfig{
		Since:       sinceTime,
		Last:        statsLast,
		CurveWindow: statsCurveWindow,
		Vowels:      statsVowels,
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	if statsPlain {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		return renderPlainStats(ctx, cmd.OutOrStdout(), st, cfg)
	}

	program := tea.NewProgram(statsui.NewModel(st, cfg), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

func renderPlainStats(ctx context.Context, w io.Writer, st *store.Store, cfg model.StatsConfig) error {
	report, err := stats.BuildReport(ctx, st, cfg)
	if err != nil {
		return fmt.Errorf("failed to build report: %w", err)
	}
	if err := stats.RenderSummary(w, report.Attempts); err != nil {
		return err
	}
	if len(report.Attempts) == 0 {
		return nil
	}
	if err := stats.RenderCurves(w, report.Attempts, cfg.CurveWindow); err != nil {
		return err
	}
	if err := stats.RenderVowelTable(w, report.VowelAggsWindow); err != nil {
		return err
	}

	vowels := splitVowels(cfg.Vowels)
	if len(vowels) == 0 {
		vowels = stats.TopVowelsByFrequency(report.VowelAggsAll, 5)
	}
	perAttempt, err := st.ListVowelStatsForAttempts(ctx, report.AttemptIDs(), vowels)
	if err != nil {
		return fmt.Errorf("failed to load vowel stats: %w", err)
	}
	return stats.RenderVowelCurves(w, report.Attempts, perAttempt, vowels, cfg.CurveWindow)
}

// splitVowels accepts a comma list or a run of vowel runes.
func splitVowels(input string) []string {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil
	}
	if strings.Contains(input, ",") {
		var out []string
		for _, part := range strings.Split(input, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		return out
	}
	var out []string
	for _, r := range input {
		if !unicode.IsSpace(r) {
			out = append(out, string(r))
		}
	}
	return out
}

func newMappingCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mapping",
		Short: "Print the effective vowel mapping table",
		Args:  cobra.NoArgs,
		RunE:  runMappingCmd,
	}
	cmd.Flags().StringVar(&mappingPath, "mapping", "", "vowel mapping YAML (default: built-in table)")
	cmd.Flags().BoolVar(&mappingLint, "lint", false, "report phoneme collisions between vowels")
	return cmd
}

func runMappingCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "mapping", &mappingPath, fileCfg.Analysis.Mapping)

	table, err := mapping.Load(resolveMappingPath(mappingPath))
	if err != nil {
		return fmt.Errorf("failed to load mapping: %w", err)
	}
	data, err := mapping.Marshal(table)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if _, err := out.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if !mappingLint {
		return nil
	}

	issues := mapping.Lint(table)
	if len(issues) == 0 {
		_, err = fmt.Fprintln(out, "# lint: no findings")
		return err
	}
	for _, issue := range issues {
		if _, err := fmt.Fprintf(out, "# lint: %s\n", issue); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}
