package main

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/verte-zerg/bolo/internal/config"
	"github.com/verte-zerg/bolo/internal/model"
	"github.com/verte-zerg/bolo/pkg/vowel"
)

func isolate(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
}

func runCLI(t *testing.T, stdin io.Reader, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	if stdin != nil {
		root.SetIn(stdin)
	}
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestAnalyzeKeepsInputOrder(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	good := writeFile(t, dir, "good.txt", "0.00 0.18 aː\n")
	bad := writeFile(t, dir, "bad.txt", "0.00 0.10 k\n")

	out, err := runCLI(t, nil, "analyze", "--vowels", "ਆ", "-j", "2", good, bad, good)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}

	var results []struct {
		Input    string              `json:"input"`
		Feedback vowel.VowelFeedback `json:"feedback"`
	}
	if err := json.Unmarshal([]byte(out), &results); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	wantMatch := []bool{true, false, true}
	wantInput := []string{good, bad, good}
	for i, r := range results {
		if r.Input != wantInput[i] {
			t.Fatalf("result %d input = %s, want %s", i, r.Input, wantInput[i])
		}
		if got := r.Feedback.Assessments["ਆ"].Match; got != wantMatch[i] {
			t.Fatalf("result %d match = %v, want %v", i, got, wantMatch[i])
		}
	}
}

func TestAnalyzeStdinTable(t *testing.T) {
	isolate(t)
	stdin := strings.NewReader(`[{"phoneme":"aː","start":0,"end":0.18},{"phoneme":"k"}]`)

	out, err := runCLI(t, stdin, "analyze", "--prompt", "ਆ", "--output", "table")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if !strings.Contains(out, "Matched 1/1") {
		t.Fatalf("unexpected table output:\n%s", out)
	}
}

func TestAnalyzeSingleInputPrintsFeedbackObject(t *testing.T) {
	isolate(t)
	out, err := runCLI(t, strings.NewReader("0 0.1 ə\n"), "analyze", "--vowels", "ਅ, ਈ", "-")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	var fb vowel.VowelFeedback
	if err := json.Unmarshal([]byte(out), &fb); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	if len(fb.Sequence) != 2 || fb.Sequence[1].DetectedCluster != nil {
		t.Fatalf("unexpected feedback: %+v", fb)
	}
	if !strings.Contains(out, `"detected_cluster": null`) {
		t.Fatalf("expected absent cluster to encode as null:\n%s", out)
	}
}

func TestAnalyzeErrors(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	in := writeFile(t, dir, "in.txt", "0 0.1 a\n")

	cases := []struct {
		name string
		args []string
		want string
	}{
		{name: "no expected vowels", args: []string{"analyze", in}, want: "--vowels or --prompt"},
		{name: "bad threshold", args: []string{"analyze", "--vowels", "ਅ", "--threshold", "2", in}, want: "--threshold"},
		{name: "bad output", args: []string{"analyze", "--vowels", "ਅ", "--output", "xml", in}, want: "--output"},
		{name: "bad format", args: []string{"analyze", "--vowels", "ਅ", "--format", "csv", in}, want: "--format"},
		{name: "review needs one input", args: []string{"analyze", "--vowels", "ਅ", "--review", in, in}, want: "--review"},
		{name: "stdin twice", args: []string{"analyze", "--vowels", "ਅ", "-", "-"}, want: "stdin"},
		{name: "missing file", args: []string{"analyze", "--vowels", "ਅ", filepath.Join(dir, "nope.txt")}, want: "failed to open"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := runCLI(t, strings.NewReader(""), tc.args...)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}

func TestAnalyzeSaveThenStats(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	in := writeFile(t, dir, "in.txt", "0.00 0.18 aː\n0.20 0.05 t\n")

	if _, err := runCLI(t, nil, "analyze", "--prompt", "ਆਈ", "--save", in); err != nil {
		t.Fatalf("analyze --save: %v", err)
	}
	out, err := runCLI(t, nil, "stats", "--plain")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	for _, want := range []string{"Attempts: 1", "Vowels assessed: 2", "Per-Vowel (Windowed)", "ਈ"} {
		if !strings.Contains(out, want) {
			t.Fatalf("stats output missing %q:\n%s", want, out)
		}
	}
}

func TestStatsPlainEmpty(t *testing.T) {
	isolate(t)
	out, err := runCLI(t, nil, "stats", "--plain")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if !strings.Contains(out, "No attempts found.") {
		t.Fatalf("unexpected output: %s", out)
	}
}

func TestMappingCommand(t *testing.T) {
	isolate(t)
	out, err := runCLI(t, nil, "mapping", "--lint")
	if err != nil {
		t.Fatalf("mapping: %v", err)
	}
	if !strings.Contains(out, "vowels:") || !strings.Contains(out, "ਅ") {
		t.Fatalf("expected YAML table:\n%s", out)
	}
	if !strings.Contains(out, "# lint: near-collision") {
		t.Fatalf("expected lint findings:\n%s", out)
	}
}

func TestPracticePrintsPrompts(t *testing.T) {
	isolate(t)
	out, err := runCLI(t, nil, "practice", "--words", "3")
	if err != nil {
		t.Fatalf("practice: %v", err)
	}
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 prompts, got %d:\n%s", len(lines), out)
	}
	for _, line := range lines {
		if fields := strings.Split(line, "\t"); len(fields) != 3 {
			t.Fatalf("expected prompt, roman, vowels: %q", line)
		}
	}
}

func TestPracticeUsesNamedList(t *testing.T) {
	isolate(t)
	writeFile(t, config.DefaultListDir(), "home.txt", "# household\nਘਰ\nhouse\n")

	out, err := runCLI(t, nil, "--list", "home", "--words", "2")
	if err != nil {
		t.Fatalf("practice: %v", err)
	}
	want := "ਘਰ\tghara\tਅ\nਘਰ\tghara\tਅ\n"
	if out != want {
		t.Fatalf("expected %q, got %q", want, out)
	}

	listsOut, err := runCLI(t, nil, "lists")
	if err != nil {
		t.Fatalf("lists: %v", err)
	}
	if listsOut != "builtin\nhome\n" {
		t.Fatalf("unexpected lists: %q", listsOut)
	}
}

func TestPracticeMissingList(t *testing.T) {
	isolate(t)
	_, err := runCLI(t, nil, "practice", "--list", "nope")
	if err == nil || !strings.Contains(err.Error(), "Run: bolo lists") {
		t.Fatalf("expected list hint, got %v", err)
	}
}

func TestConfigFileAppliesUnlessFlagSet(t *testing.T) {
	isolate(t)
	writeFile(t, config.XDGConfigHome(), "bolo/config.toml", "[analysis]\nthreshold = 1.0\n")
	dir := t.TempDir()
	in := writeFile(t, dir, "in.txt", "0 0.1 a\n")

	out, err := runCLI(t, nil, "analyze", "--vowels", "ਅ", in)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	var fb vowel.VowelFeedback
	if err := json.Unmarshal([]byte(out), &fb); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if fb.Sequence[0].Match {
		t.Fatalf("expected config threshold 1.0 to reject the match")
	}

	out, err = runCLI(t, nil, "analyze", "--vowels", "ਅ", "--threshold", "0.1", in)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if err := json.Unmarshal([]byte(out), &fb); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !fb.Sequence[0].Match {
		t.Fatalf("expected --threshold to override config")
	}
}

func TestResolveExpected(t *testing.T) {
	got, err := resolveExpected(" ਆ , ਈ,", "", true)
	if err != nil || !reflect.DeepEqual(got, []string{"ਆ", "ਈ"}) {
		t.Fatalf("unexpected vowels %v (%v)", got, err)
	}
	got, err = resolveExpected("", "ਘਰ ਆ", true)
	if err != nil || !reflect.DeepEqual(got, []string{"ਅ", "ਆ"}) {
		t.Fatalf("unexpected prompt vowels %v (%v)", got, err)
	}
	if _, err := resolveExpected("", "ਘਰ", false); err == nil {
		t.Fatalf("expected error for prompt without vowels")
	}
	if _, err := resolveExpected(" , ", "", true); err == nil {
		t.Fatalf("expected error for empty vowel list")
	}
}

func TestSplitVowels(t *testing.T) {
	if got := splitVowels("ਆ,ਈ"); !reflect.DeepEqual(got, []string{"ਆ", "ਈ"}) {
		t.Fatalf("unexpected split: %v", got)
	}
	if got := splitVowels("ਆ ਈ"); !reflect.DeepEqual(got, []string{"ਆ", "ਈ"}) {
		t.Fatalf("unexpected split: %v", got)
	}
	if splitVowels("  ") != nil {
		t.Fatalf("expected nil")
	}
}

func TestValidateConfig(t *testing.T) {
	base := model.Config{Words: 1, WeakTop: 1, WeakFactor: 1, WeakWindow: 1}
	if err := validateConfig(base); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	bad := base
	bad.Words = 0
	if err := validateConfig(bad); err == nil || !strings.Contains(err.Error(), "--words") {
		t.Fatalf("expected --words error, got %v", err)
	}
	bad = base
	bad.WeakFactor = -1
	if err := validateConfig(bad); err == nil || !strings.Contains(err.Error(), "--weak-factor") {
		t.Fatalf("expected --weak-factor error, got %v", err)
	}
}

func TestDefaultConfigTemplateDecodes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := config.LoadConfig(path); err != nil {
		t.Fatalf("template should decode: %v", err)
	}
}
