// Package mapping loads vowel reference tables from YAML files.
package mapping

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/antzucaro/matchr"
	"gopkg.in/yaml.v3"

	"github.com/verte-zerg/bolo/pkg/vowel"
)

// ErrInvalidMapping wraps every validation failure.
var ErrInvalidMapping = errors.New("mapping: invalid table")

// File is the on-disk layout of a mapping table.
type File struct {
	Vowels []vowel.Reference `yaml:"vowels"`
}

// Load reads a mapping file. An empty path selects the built-in table.
func Load(path string) (*vowel.MappingTable, error) {
	if strings.TrimSpace(path) == "" {
		return vowel.DefaultMappingTable(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open mapping %s: %w", path, err)
	}
	defer f.Close()
	table, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("mapping %s: %w", path, err)
	}
	return table, nil
}

// LoadFromReader decodes and validates a mapping file. Unknown keys are
// rejected.
func LoadFromReader(r io.Reader) (*vowel.MappingTable, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var file File
	if err := dec.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("mapping file is empty")
		}
		return nil, fmt.Errorf("failed to decode mapping: %w", err)
	}
	if err := Validate(file); err != nil {
		return nil, err
	}
	return vowel.NewMappingTable(file.Vowels...), nil
}

// Validate reports every structural problem in file.
func Validate(file File) error {
	var errs []error
	if len(file.Vowels) == 0 {
		errs = append(errs, errors.New("no vowels defined"))
	}
	seen := map[string]bool{}
	for i, ref := range file.Vowels {
		name := strings.TrimSpace(ref.Vowel)
		if name == "" {
			errs = append(errs, fmt.Errorf("vowels[%d]: empty vowel symbol", i))
			continue
		}
		if seen[name] {
			errs = append(errs, fmt.Errorf("vowels[%d]: duplicate vowel %q", i, name))
		}
		seen[name] = true
		if len(ref.Entry.PhonemeSequences) == 0 {
			errs = append(errs, fmt.Errorf("%s: no phoneme sequences", name))
		}
		for j, seq := range ref.Entry.PhonemeSequences {
			if len(seq) == 0 {
				errs = append(errs, fmt.Errorf("%s: phonemes[%d] is empty", name, j))
			}
			for _, p := range seq {
				if strings.TrimSpace(p) == "" {
					errs = append(errs, fmt.Errorf("%s: phonemes[%d] has an empty label", name, j))
				}
			}
		}
		if d := ref.Entry.AverageDurationMs; d != nil && *d < 0 {
			errs = append(errs, fmt.Errorf("%s: average_duration_ms must be >= 0", name))
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w:\n%w", ErrInvalidMapping, errors.Join(errs...))
}

// Marshal renders table as a mapping file.
func Marshal(table *vowel.MappingTable) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(File{Vowels: table.References()}); err != nil {
		return nil, fmt.Errorf("failed to encode mapping: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode mapping: %w", err)
	}
	return buf.Bytes(), nil
}

// IssueKind classifies a lint finding.
type IssueKind string

const (
	// Collision means two vowels list the same phoneme; the first one wins.
	Collision IssueKind = "collision"
	// NearCollision means labels of two vowels differ by a single edit.
	NearCollision IssueKind = "near-collision"
)

// Issue is a lint finding about phoneme labels shared between vowels.
// For a Collision, Vowel owns Phoneme and OtherVowel's listing is ignored.
type Issue struct {
	Kind         IssueKind
	Phoneme      string
	Vowel        string
	OtherPhoneme string
	OtherVowel   string
}

func (i Issue) String() string {
	if i.Kind == Collision {
		return fmt.Sprintf("%s: %q is listed by %s and %s; %s wins", i.Kind, i.Phoneme, i.Vowel, i.OtherVowel, i.Vowel)
	}
	return fmt.Sprintf("%s: %q (%s) and %q (%s) differ by one edit", i.Kind, i.Phoneme, i.Vowel, i.OtherPhoneme, i.OtherVowel)
}

// Lint reports ambiguous phoneme labels in table.
func Lint(table *vowel.MappingTable) []Issue {
	type label struct {
		phoneme string
		vowel   string
	}
	var labels []label
	owners := map[string]string{}
	var issues []Issue
	for _, ref := range table.References() {
		local := map[string]bool{}
		for _, seq := range ref.Entry.PhonemeSequences {
			for _, p := range seq {
				if local[p] {
					continue
				}
				local[p] = true
				if owner, ok := owners[p]; ok {
					issues = append(issues, Issue{Kind: Collision, Phoneme: p, Vowel: owner, OtherVowel: ref.Vowel})
					continue
				}
				owners[p] = ref.Vowel
				labels = append(labels, label{phoneme: p, vowel: ref.Vowel})
			}
		}
	}

	for i := 0; i < len(labels); i++ {
		for j := i + 1; j < len(labels); j++ {
			a, b := labels[i], labels[j]
			if a.vowel == b.vowel {
				continue
			}
			if matchr.Levenshtein(a.phoneme, b.phoneme) == 1 {
				issues = append(issues, Issue{Kind: NearCollision, Phoneme: a.phoneme, Vowel: a.vowel, OtherPhoneme: b.phoneme, OtherVowel: b.vowel})
			}
		}
	}

	sort.SliceStable(issues, func(i, j int) bool {
		return issues[i].Kind < issues[j].Kind
	})
	return issues
}
