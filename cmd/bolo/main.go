// Package main provides the CLI entrypoint for bolo.
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/verte-zerg/bolo/internal/config"
	"github.com/verte-zerg/bolo/internal/generator"
	"github.com/verte-zerg/bolo/internal/gurmukhi"
	"github.com/verte-zerg/bolo/internal/logger"
	"github.com/verte-zerg/bolo/internal/model"
	"github.com/verte-zerg/bolo/internal/stats"
	"github.com/verte-zerg/bolo/internal/store"
	"github.com/verte-zerg/bolo/internal/wordlist"
	"github.com/verte-zerg/bolo/pkg/vowel"
)

const (
	defaultWords       = 5
	defaultWeakTop     = 3
	defaultWeakFactor  = 2.0
	defaultWeakWindow  = 20
	defaultCurveWindow = 20
	defaultJobs        = 4
	builtinListName    = "builtin"
)

var (
	verbose bool

	practiceList       string
	practiceWords      int
	practiceInherent   bool
	practiceFocusWeak  bool
	practiceWeakTop    int
	practiceWeakFactor float64
	practiceWeakWindow int
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "bolo",
		Short:         "Punjabi vowel pronunciation trainer",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPracticeCmd,
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging on stderr")
	addPracticeFlags(rootCmd)

	practiceCmd := &cobra.Command{
		Use:   "practice",
		Short: "Print practice prompts with their expected vowels",
		Args:  cobra.NoArgs,
		RunE:  runPracticeCmd,
	}
	addPracticeFlags(practiceCmd)

	rootCmd.AddCommand(practiceCmd)
	rootCmd.AddCommand(newAnalyzeCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newMappingCmd())
	rootCmd.AddCommand(newListsCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func addPracticeFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&practiceList, "list", "", "prompt list name or path (default: built-in list)")
	cmd.Flags().IntVar(&practiceWords, "words", defaultWords, "prompts to generate")
	cmd.Flags().BoolVar(&practiceInherent, "inherent-vowel", true, "count the inherent vowel of bare consonants")
	cmd.Flags().BoolVar(&practiceFocusWeak, "focus-weak", false, "bias prompts toward weak vowels")
	cmd.Flags().IntVar(&practiceWeakTop, "weak-top", defaultWeakTop, "number of weak vowels to focus on")
	cmd.Flags().Float64Var(&practiceWeakFactor, "weak-factor", defaultWeakFactor, "weight factor for weak vowels")
	cmd.Flags().IntVar(&practiceWeakWindow, "weak-window", defaultWeakWindow, "number of recent attempts to compute weak vowels")
}

func runPracticeCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	log, err := newLogger(fileCfg)
	if err != nil {
		return err
	}
	defer syncLogger(log)

	applyStringConfig(cmd, "list", &practiceList, fileCfg.Practice.List)
	applyIntConfig(cmd, "words", &practiceWords, fileCfg.Practice.Words)
	applyBoolConfig(cmd, "inherent-vowel", &practiceInherent, fileCfg.Analysis.InherentVowel)
	applyBoolConfig(cmd, "focus-weak", &practiceFocusWeak, fileCfg.Practice.FocusWeak)
	applyIntConfig(cmd, "weak-top", &practiceWeakTop, fileCfg.Practice.WeakTop)
	applyFloatConfig(cmd, "weak-factor", &practiceWeakFactor, fileCfg.Practice.WeakFactor)
	applyIntConfig(cmd, "weak-window", &practiceWeakWindow, fileCfg.Practice.WeakWindow)

	cfg := model.Config{
		List:       practiceList,
		Words:      practiceWords,
		Inherent:   practiceInherent,
		FocusWeak:  practiceFocusWeak,
		WeakTop:    practiceWeakTop,
		WeakFactor: practiceWeakFactor,
		WeakWindow: practiceWeakWindow,
	}
	if err := validateConfig(cfg); err != nil {
		return err
	}

	prompts, err := loadPrompts(cfg.List)
	if err != nil {
		return err
	}
	log.Debug("loaded prompt list", zap.String("list", listLabel(cfg.List)), zap.Int("prompts", len(prompts)))

	opts := gurmukhi.Options{Inherent: cfg.Inherent}
	vowelsOf := func(p string) []string { return gurmukhi.ExpectedVowels(p, opts) }

	weakSet := map[string]struct{}{}
	if cfg.FocusWeak {
		weakSet = loadWeakVowels(cmd.Context(), cfg, log)
	}

	gen := generator.New()
	var picked []string
	if len(weakSet) > 0 {
		picked = gen.GenerateWeighted(prompts, cfg.Words, vowelsOf, weakSet, cfg.WeakFactor)
	} else {
		picked = gen.Generate(prompts, cfg.Words)
	}

	out := cmd.OutOrStdout()
	for _, p := range picked {
		if _, err := fmt.Fprintf(out, "%s\t%s\t%s\n", p, gurmukhi.Transliterate(p), strings.Join(vowelsOf(p), ",")); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func loadWeakVowels(ctx context.Context, cfg model.Config, log *zap.Logger) map[string]struct{} {
	if ctx == nil {
		ctx = context.Background()
	}
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		logErrf("failed to open db: %v\n", err)
		return nil
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	aggs, err := st.GetWeakVowels(ctx, cfg.WeakWindow)
	if err != nil {
		logErrf("failed to load weak vowels: %v\n", err)
		return nil
	}
	weakSet := stats.SelectWeakVowels(aggs, cfg.WeakTop)
	if len(weakSet) == 0 {
		logErrln("no stats available for weak-vowel focus yet; using normal generator")
		return nil
	}
	log.Debug("weak vowel focus", zap.Int("vowels", len(weakSet)), zap.Int("window", cfg.WeakWindow))
	return weakSet
}

// loadPrompts resolves a list name or path. An empty name or "builtin"
// selects the bundled list.
func loadPrompts(list string) ([]string, error) {
	var prompts []string
	switch {
	case list == "" || list == builtinListName:
		prompts = wordlist.Builtin()
	default:
		path := list
		if !strings.ContainsRune(list, filepath.Separator) && filepath.Ext(list) == "" {
			path = config.DefaultListPath(list)
		}
		words, err := wordlist.LoadWords(path)
		if err != nil {
			return nil, listLoadError(list, path, err)
		}
		prompts = words
	}
	prompts = wordlist.Filter(prompts, wordlist.FilterForLang("pa"))
	if len(prompts) == 0 {
		return nil, fmt.Errorf("list %q has no Gurmukhi prompts", listLabel(list))
	}
	return prompts, nil
}

func listLabel(list string) string {
	if list == "" {
		return builtinListName
	}
	return list
}

func listLoadError(list, path string, err error) error {
	lines := []string{
		fmt.Sprintf("failed to load prompt list: %v", err),
		fmt.Sprintf("expected prompt list at: %s", path),
		fmt.Sprintf("list %q not found", list),
		"Run: bolo lists",
		fmt.Sprintf("Lists live in: %s (one prompt per line)", config.DefaultListDir()),
	}
	return fmt.Errorf("%s", strings.Join(lines, "\n"))
}

func newListsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lists",
		Short: "List available prompt lists",
		Args:  cobra.NoArgs,
		RunE:  runListsCmd,
	}
}

func runListsCmd(cmd *cobra.Command, _ []string) error {
	names, err := wordlist.ListNames(config.DefaultListDir())
	if err != nil {
		return fmt.Errorf("failed to read list directory: %w", err)
	}
	for _, name := range append([]string{builtinListName}, names...) {
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), name); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newLogger(fileCfg config.FileConfig) (*zap.Logger, error) {
	level := ""
	if fileCfg.Log.Level != nil {
		level = *fileCfg.Log.Level
	}
	if verbose {
		level = "debug"
	}
	log, err := logger.New(level)
	if err != nil {
		return nil, fmt.Errorf("invalid [log] level: %w", err)
	}
	return log, nil
}

func syncLogger(log *zap.Logger) {
	if err := log.Sync(); err != nil {
		// Best-effort flush.
		_ = err
	}
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# bolo configuration
# Uncomment a value to enable it. CLI flags override config values.

[analysis]
# threshold = %.2f        # Minimum overall score for a match (0-1)
# mapping = ""            # Vowel mapping YAML (default: %s if present)
# inherent-vowel = true   # Count the inherent vowel of bare consonants
# format = "auto"         # Recognizer output: auto, json, or timeline

[practice]
# list = %q         # Prompt list name under %s
# words = %d              # Prompts per run
# focus-weak = false      # Bias practice toward weak vowels
# weak-top = %d           # Number of weak vowels to focus on
# weak-factor = %.1f      # Weight factor for weak vowels
# weak-window = %d        # Number of recent attempts to compute weak vowels

[log]
# level = %q          # debug, info, warn, or error
`,
		vowel.DefaultMatchThreshold,
		config.DefaultMappingPath(),
		builtinListName,
		config.DefaultListDir(),
		defaultWords,
		defaultWeakTop,
		defaultWeakFactor,
		defaultWeakWindow,
		logger.DefaultLevel,
	)
}

func validateConfig(cfg model.Config) error {
	if cfg.Words <= 0 {
		return fmt.Errorf("--words must be > 0")
	}
	if cfg.WeakTop < 0 {
		return fmt.Errorf("--weak-top must be >= 0")
	}
	if cfg.WeakFactor < 0 {
		return fmt.Errorf("--weak-factor must be >= 0")
	}
	if cfg.WeakWindow < 0 {
		return fmt.Errorf("--weak-window must be >= 0")
	}
	return nil
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
