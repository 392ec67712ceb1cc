package vowel

// Reference pairs a vowel symbol with its mapping entry.
type Reference struct {
	Vowel string            `yaml:"vowel"`
	Entry VowelMappingEntry `yaml:",inline"`
}

// MappingTable is the vowel reference registry plus the flattened
// phoneme→vowel lookup derived from it. It is read-only after construction
// and safe for concurrent use.
type MappingTable struct {
	order   []string
	entries map[string]VowelMappingEntry
	lookup  map[string]string
}

// NewMappingTable builds a table from refs in registration order.
//
// A vowel registered twice keeps its first position and takes the later
// entry. When two vowels list the same phoneme, the vowel registered first
// owns it.
func NewMappingTable(refs ...Reference) *MappingTable {
	t := &MappingTable{
		entries: make(map[string]VowelMappingEntry, len(refs)),
		lookup:  map[string]string{},
	}
	for _, ref := range refs {
		if _, ok := t.entries[ref.Vowel]; !ok {
			t.order = append(t.order, ref.Vowel)
		}
		t.entries[ref.Vowel] = ref.Entry
	}
	for _, v := range t.order {
		for _, seq := range t.entries[v].PhonemeSequences {
			for _, p := range seq {
				if _, taken := t.lookup[p]; !taken {
					t.lookup[p] = v
				}
			}
		}
	}
	return t
}

// Entry returns the mapping entry for vowel.
func (t *MappingTable) Entry(vowel string) (VowelMappingEntry, bool) {
	e, ok := t.entries[vowel]
	return e, ok
}

// VowelFor returns the vowel owning phoneme.
func (t *MappingTable) VowelFor(phoneme string) (string, bool) {
	v, ok := t.lookup[phoneme]
	return v, ok
}

// Vowels returns the registered vowels in registration order.
func (t *MappingTable) Vowels() []string {
	return append([]string(nil), t.order...)
}

// References returns the table contents in registration order.
func (t *MappingTable) References() []Reference {
	refs := make([]Reference, 0, len(t.order))
	for _, v := range t.order {
		refs = append(refs, Reference{Vowel: v, Entry: t.entries[v]})
	}
	return refs
}

// Len reports the number of registered vowels.
func (t *MappingTable) Len() int {
	return len(t.order)
}

// DefaultMappingTable returns the built-in Gurmukhi vowel references.
func DefaultMappingTable() *MappingTable {
	return NewMappingTable(defaultReferences()...)
}

func defaultReferences() []Reference {
	ref := func(v string, durationMs float64, seqs ...string) Reference {
		entry := VowelMappingEntry{AverageDurationMs: &durationMs}
		for _, s := range seqs {
			entry.PhonemeSequences = append(entry.PhonemeSequences, []string{s})
		}
		return Reference{Vowel: v, Entry: entry}
	}
	return []Reference{
		ref("ਅ", 110, "a", "ə"),
		ref("ਆ", 180, "aː", "aa"),
		ref("ਇ", 120, "ɪ", "i"),
		ref("ਈ", 190, "iː", "ii"),
		ref("ਉ", 120, "ʊ", "u"),
		ref("ਊ", 190, "uː", "uu"),
		ref("ਏ", 150, "e", "eː"),
		ref("ਐ", 170, "ai", "æ"),
		ref("ਓ", 150, "o", "oː"),
		ref("ਔ", 170, "au", "ɔ"),
	}
}
