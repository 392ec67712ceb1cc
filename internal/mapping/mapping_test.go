package mapping

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/bolo/pkg/vowel"
)

const sample = `vowels:
  - vowel: ਅ
    phonemes: [[a], [ə]]
    average_duration_ms: 110
  - vowel: ਆ
    phonemes: [[aː], [a, a]]
    average_duration_ms: 180
    formant_targets: {f1: 850, f2: 1300}
  - vowel: ਈ
    phonemes: [[iː]]
`

func TestLoadFromReader(t *testing.T) {
	table, err := LoadFromReader(strings.NewReader(sample))
	require.NoError(t, err)

	assert.Equal(t, []string{"ਅ", "ਆ", "ਈ"}, table.Vowels())

	entry, ok := table.Entry("ਆ")
	require.True(t, ok)
	assert.Equal(t, []string{"aː"}, entry.Canonical())
	assert.Equal(t, 180.0, *entry.AverageDurationMs)
	assert.Equal(t, 850.0, entry.FormantTargets["f1"])

	entry, ok = table.Entry("ਈ")
	require.True(t, ok)
	assert.Nil(t, entry.AverageDurationMs)

	owner, ok := table.VowelFor("a")
	require.True(t, ok)
	assert.Equal(t, "ਅ", owner, "first registration wins")
}

func TestLoadFromReaderRejectsUnknownKeys(t *testing.T) {
	_, err := LoadFromReader(strings.NewReader("vowels:\n  - vowel: ਅ\n    phonemes: [[a]]\n    length: 3\n"))
	require.Error(t, err)
}

func TestLoadFromReaderEmpty(t *testing.T) {
	_, err := LoadFromReader(strings.NewReader(""))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	neg := -5.0
	err := Validate(File{Vowels: []vowel.Reference{
		{Vowel: "", Entry: vowel.VowelMappingEntry{PhonemeSequences: [][]string{{"a"}}}},
		{Vowel: "ਅ", Entry: vowel.VowelMappingEntry{PhonemeSequences: [][]string{{"a"}}}},
		{Vowel: "ਅ", Entry: vowel.VowelMappingEntry{PhonemeSequences: [][]string{{}, {" "}}, AverageDurationMs: &neg}},
		{Vowel: "ਈ"},
	}})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidMapping)

	msg := err.Error()
	assert.Contains(t, msg, "empty vowel symbol")
	assert.Contains(t, msg, `duplicate vowel "ਅ"`)
	assert.Contains(t, msg, "phonemes[0] is empty")
	assert.Contains(t, msg, "phonemes[1] has an empty label")
	assert.Contains(t, msg, "average_duration_ms must be >= 0")
	assert.Contains(t, msg, "ਈ: no phoneme sequences")

	assert.ErrorIs(t, Validate(File{}), ErrInvalidMapping)
	assert.NoError(t, Validate(File{Vowels: []vowel.Reference{
		{Vowel: "ਅ", Entry: vowel.VowelMappingEntry{PhonemeSequences: [][]string{{"a"}}}},
	}}))
}

func TestLoad(t *testing.T) {
	t.Run("empty path selects default table", func(t *testing.T) {
		table, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, vowel.DefaultMappingTable().Vowels(), table.Vowels())
	})

	t.Run("reads file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "mapping.yaml")
		require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))

		table, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, 3, table.Len())
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
	})
}

func TestMarshalRoundTrip(t *testing.T) {
	data, err := Marshal(vowel.DefaultMappingTable())
	require.NoError(t, err)

	table, err := LoadFromReader(strings.NewReader(string(data)))
	require.NoError(t, err)
	assert.Equal(t, vowel.DefaultMappingTable().References(), table.References())
}

func TestLint(t *testing.T) {
	table := vowel.NewMappingTable(
		vowel.Reference{Vowel: "ਇ", Entry: vowel.VowelMappingEntry{PhonemeSequences: [][]string{{"ɪ"}, {"i"}}}},
		vowel.Reference{Vowel: "ਈ", Entry: vowel.VowelMappingEntry{PhonemeSequences: [][]string{{"iː"}, {"i"}}}},
		vowel.Reference{Vowel: "ਓ", Entry: vowel.VowelMappingEntry{PhonemeSequences: [][]string{{"o"}}}},
	)

	issues := Lint(table)
	require.NotEmpty(t, issues)

	assert.Equal(t, Issue{Kind: Collision, Phoneme: "i", Vowel: "ਇ", OtherVowel: "ਈ"}, issues[0])
	assert.Contains(t, issues[0].String(), "ਇ wins")

	var near []Issue
	for _, is := range issues {
		if is.Kind == NearCollision {
			near = append(near, is)
		}
	}
	assert.Contains(t, near, Issue{Kind: NearCollision, Phoneme: "i", Vowel: "ਇ", OtherPhoneme: "iː", OtherVowel: "ਈ"})
	for _, is := range near {
		assert.NotEqual(t, is.Vowel, is.OtherVowel)
	}
}
