package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/verte-zerg/bolo/internal/config"
	"github.com/verte-zerg/bolo/internal/gurmukhi"
	"github.com/verte-zerg/bolo/internal/mapping"
	"github.com/verte-zerg/bolo/internal/recognizer"
	"github.com/verte-zerg/bolo/internal/stats"
	"github.com/verte-zerg/bolo/internal/store"
	"github.com/verte-zerg/bolo/internal/tui"
	"github.com/verte-zerg/bolo/pkg/vowel"
)

const stdinName = "-"

var (
	analyzeVowels    string
	analyzePrompt    string
	analyzeFormat    string
	analyzeThreshold float64
	analyzeMapping   string
	analyzeInherent  bool
	analyzeOutput    string
	analyzeSave      bool
	analyzeReview    bool
	analyzeJobs      int
)

// analysis is the result for one recognizer input.
type analysis struct {
	Input       string                    `json:"input"`
	Feedback    vowel.VowelFeedback       `json:"feedback"`
	predictions []vowel.PhonemePrediction
}

func newAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [FILE...]",
		Short: "Score recognizer output against expected vowels",
		Long: `Score recognizer output against expected vowels.

Each FILE holds phoneme predictions as JSON or as "start window phoneme"
timeline lines. Use - (or no FILE) to read stdin.`,
		RunE: runAnalyzeCmd,
	}
	cmd.Flags().StringVar(&analyzeVowels, "vowels", "", "expected vowels, comma separated (e.g. ਆ,ਈ)")
	cmd.Flags().StringVar(&analyzePrompt, "prompt", "", "Gurmukhi prompt to derive expected vowels from")
	cmd.Flags().StringVar(&analyzeFormat, "format", string(recognizer.FormatAuto), "recognizer output format: auto, json, timeline")
	cmd.Flags().Float64Var(&analyzeThreshold, "threshold", vowel.DefaultMatchThreshold, "minimum overall score for a match (0-1)")
	cmd.Flags().StringVar(&analyzeMapping, "mapping", "", "vowel mapping YAML (default: built-in table)")
	cmd.Flags().BoolVar(&analyzeInherent, "inherent-vowel", true, "count the inherent vowel of bare consonants in --prompt")
	cmd.Flags().StringVarP(&analyzeOutput, "output", "o", "json", "output format: json or table")
	cmd.Flags().BoolVar(&analyzeSave, "save", false, "store the result in practice history")
	cmd.Flags().BoolVar(&analyzeReview, "review", false, "open the review screen (single input only)")
	cmd.Flags().IntVarP(&analyzeJobs, "jobs", "j", defaultJobs, "inputs analyzed concurrently")
	cmd.MarkFlagsMutuallyExclusive("vowels", "prompt")
	return cmd
}

func runAnalyzeCmd(cmd *cobra.Command, args []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	log, err := newLogger(fileCfg)
	if err != nil {
		return err
	}
	defer syncLogger(log)

	applyFloatConfig(cmd, "threshold", &analyzeThreshold, fileCfg.Analysis.Threshold)
	applyStringConfig(cmd, "mapping", &analyzeMapping, fileCfg.Analysis.Mapping)
	applyBoolConfig(cmd, "inherent-vowel", &analyzeInherent, fileCfg.Analysis.InherentVowel)
	applyStringConfig(cmd, "format", &analyzeFormat, fileCfg.Analysis.Format)

	if err := validateAnalyzeFlags(len(args)); err != nil {
		return err
	}
	format, err := recognizer.ParseFormat(analyzeFormat)
	if err != nil {
		return fmt.Errorf("invalid --format: %w", err)
	}
	expected, err := resolveExpected(analyzeVowels, analyzePrompt, analyzeInherent)
	if err != nil {
		return err
	}

	table, err := mapping.Load(resolveMappingPath(analyzeMapping))
	if err != nil {
		return fmt.Errorf("failed to load mapping: %w", err)
	}
	for _, v := range expected {
		if _, ok := table.Entry(v); !ok {
			log.Warn("expected vowel has no mapping entry", zap.String("vowel", v))
		}
	}
	analyzer := vowel.New(table, vowel.WithThreshold(analyzeThreshold), vowel.WithLogger(log))

	inputs := args
	if len(inputs) == 0 {
		inputs = []string{stdinName}
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	results, err := analyzeInputs(ctx, analyzer, expected, inputs, format, cmd.InOrStdin(), analyzeJobs)
	if err != nil {
		return err
	}

	var st *store.Store
	if analyzeSave || analyzeReview {
		st, err = store.Open(config.DefaultDBPath())
		if err != nil {
			if analyzeSave {
				return fmt.Errorf("failed to open db: %w", err)
			}
			logErrf("failed to open db: %v\n", err)
			st = nil
		}
	}
	if st != nil {
		defer func() {
			if cerr := st.Close(); cerr != nil {
				logErrf("failed to close db: %v\n", cerr)
			}
		}()
	}

	reviewModel, err := persistResults(ctx, st, results, expected, analyzer.Threshold(), log)
	if err != nil {
		return err
	}

	if reviewModel != nil {
		program := tea.NewProgram(reviewModel, tea.WithAltScreen())
		if _, err := program.Run(); err != nil {
			return fmt.Errorf("failed to run review TUI: %w", err)
		}
		return nil
	}
	return writeResults(cmd.OutOrStdout(), results, analyzeOutput)
}

func validateAnalyzeFlags(inputCount int) error {
	if analyzeThreshold < 0 || analyzeThreshold > 1 {
		return fmt.Errorf("--threshold must be between 0 and 1")
	}
	if analyzeJobs <= 0 {
		return fmt.Errorf("--jobs must be > 0")
	}
	switch analyzeOutput {
	case "json", "table":
	default:
		return fmt.Errorf("--output must be json or table")
	}
	if analyzeReview && inputCount > 1 {
		return fmt.Errorf("--review needs a single input")
	}
	return nil
}

// resolveExpected builds the expected vowel list from --vowels or --prompt.
func resolveExpected(vowels, prompt string, inherent bool) ([]string, error) {
	switch {
	case strings.TrimSpace(vowels) != "":
		var out []string
		for _, part := range strings.Split(vowels, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		if len(out) == 0 {
			return nil, fmt.Errorf("--vowels has no entries")
		}
		return out, nil
	case strings.TrimSpace(prompt) != "":
		out := gurmukhi.ExpectedVowels(prompt, gurmukhi.Options{Inherent: inherent})
		if len(out) == 0 {
			return nil, fmt.Errorf("--prompt %q contains no vowels", prompt)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("one of --vowels or --prompt is required")
	}
}

// resolveMappingPath falls back to the user mapping file when it exists.
func resolveMappingPath(flag string) string {
	if flag != "" {
		return flag
	}
	path := config.DefaultMappingPath()
	if _, err := os.Stat(path); err == nil {
		return path
	}
	return ""
}

// analyzeInputs parses and scores every input with at most jobs in flight.
// Results keep input order.
func analyzeInputs(ctx context.Context, analyzer *vowel.Analyzer, expected, inputs []string, format recognizer.Format, stdin io.Reader, jobs int) ([]analysis, error) {
	stdinUses := 0
	for _, in := range inputs {
		if in == stdinName {
			stdinUses++
		}
	}
	if stdinUses > 1 {
		return nil, fmt.Errorf("stdin (-) can only be read once")
	}

	results := make([]analysis, len(inputs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, in := range inputs {
		i, in := i, in
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			predictions, err := readPredictions(in, format, stdin)
			if err != nil {
				return err
			}
			results[i] = analysis{
				Input:       in,
				Feedback:    analyzer.Analyze(expected, predictions),
				predictions: predictions,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func readPredictions(input string, format recognizer.Format, stdin io.Reader) ([]vowel.PhonemePrediction, error) {
	if input == stdinName {
		predictions, err := recognizer.Read(stdin, format)
		if err != nil {
			return nil, fmt.Errorf("failed to parse stdin: %w", err)
		}
		return predictions, nil
	}
	f, err := os.Open(input)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", input, err)
	}
	defer f.Close()
	predictions, err := recognizer.Read(f, format)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", input, err)
	}
	return predictions, nil
}

// persistResults saves results when --save is set and builds the review
// model when --review is set. The review footer is loaded before saving so
// its history excludes the attempt under review.
func persistResults(ctx context.Context, st *store.Store, results []analysis, expected []string, threshold float64, log *zap.Logger) (*tui.Model, error) {
	var reviewModel *tui.Model
	if analyzeReview {
		reviewModel = tui.NewModel(analyzePrompt, results[0].Feedback, st)
	}
	if analyzeSave {
		if err := saveResults(ctx, st, results, expected, threshold, log); err != nil {
			return nil, err
		}
	}
	return reviewModel, nil
}

func saveResults(ctx context.Context, st *store.Store, results []analysis, expected []string, threshold float64, log *zap.Logger) error {
	prompt := analyzePrompt
	if prompt == "" {
		prompt = strings.Join(expected, " ")
	}
	for _, r := range results {
		attempt, vowels := stats.CollectAttempt(time.Now(), prompt, expected, threshold, r.predictions, r.Feedback)
		_, ref, err := st.InsertAttempt(ctx, attempt, vowels)
		if err != nil {
			return fmt.Errorf("failed to save attempt for %s: %w", r.Input, err)
		}
		log.Info("saved attempt", zap.String("input", r.Input), zap.String("ref", ref))
	}
	return nil
}

// writeResults prints a bare feedback object for a single input and an
// array of {input, feedback} otherwise.
func writeResults(w io.Writer, results []analysis, output string) error {
	if output == "table" {
		for i, r := range results {
			if len(results) > 1 {
				if i > 0 {
					if _, err := fmt.Fprintln(w); err != nil {
						return fmt.Errorf("failed to write output: %w", err)
					}
				}
				if _, err := fmt.Fprintf(w, "== %s ==\n", r.Input); err != nil {
					return fmt.Errorf("failed to write output: %w", err)
				}
			}
			if err := stats.RenderFeedback(w, r.Feedback); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
		}
		return nil
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	var payload any = results
	if len(results) == 1 {
		payload = results[0].Feedback
	}
	if err := enc.Encode(payload); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
