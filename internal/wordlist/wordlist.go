// Package wordlist loads practice prompt lists from files.
package wordlist

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrEmpty reports a list without usable entries.
var ErrEmpty = errors.New("prompt list is empty")

var builtin = []string{
	"ਘਰ", "ਪਾਣੀ", "ਕਿਤਾਬ", "ਰੋਟੀ", "ਦੁੱਧ", "ਸੂਰਜ", "ਮੇਲਾ", "ਬੈਠੋ", "ਮੌਸਮ",
	"ਪਿਆਰ", "ਖੇਤ", "ਆਈ", "ਉੱਠੋ", "ਊਠ", "ਏਥੇ", "ਐਨਕ", "ਓਥੇ", "ਔਖਾ",
	"ਸਤ ਸ੍ਰੀ ਅਕਾਲ", "ਤੁਸੀਂ ਕਿਵੇਂ ਹੋ",
}

// Builtin returns the bundled starter list.
func Builtin() []string {
	return append([]string(nil), builtin...)
}

// LoadWords reads one prompt per line. Blank lines and lines starting with
// '#' are skipped.
func LoadWords(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var words []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrEmpty)
	}
	return words, nil
}

// ListNames returns the names of the .txt lists in dir, sorted. A missing
// directory yields no names.
func ListNames(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".txt" {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ".txt"))
	}
	sort.Strings(names)
	return names, nil
}
