// Package recognizer converts native phoneme-recognizer output into
// predictions the vowel engine understands.
package recognizer

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/verte-zerg/bolo/pkg/vowel"
)

// Format selects the recognizer output format.
type Format string

const (
	FormatAuto     Format = "auto"
	FormatJSON     Format = "json"
	FormatTimeline Format = "timeline"
)

// ErrInvalidTiming reports a segment with a negative start or end.
var ErrInvalidTiming = errors.New("recognizer: invalid timing")

var (
	listKeys       = []string{"phonemes", "predictions", "segments"}
	labelKeys      = []string{"phoneme", "token"}
	confidenceKeys = []string{"confidence", "prob", "score"}
)

// ParseFormat resolves a user supplied format name.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case "", FormatAuto:
		return FormatAuto, nil
	case FormatJSON, FormatTimeline:
		return f, nil
	default:
		return "", fmt.Errorf("unknown recognizer format %q", name)
	}
}

// Read parses everything from r.
func Read(r io.Reader, format Format) ([]vowel.PhonemePrediction, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read recognizer output: %w", err)
	}
	return Parse(data, format)
}

// Parse decodes recognizer output. FormatAuto picks JSON when the first
// non-space byte opens an array or object.
func Parse(data []byte, format Format) ([]vowel.PhonemePrediction, error) {
	switch format {
	case FormatAuto, "":
		trimmed := bytes.TrimSpace(data)
		if len(trimmed) > 0 && (trimmed[0] == '[' || trimmed[0] == '{') {
			return ParseJSON(trimmed)
		}
		return ParseTimeline(data)
	case FormatJSON:
		return ParseJSON(data)
	case FormatTimeline:
		return ParseTimeline(data)
	default:
		return nil, fmt.Errorf("unknown recognizer format %q", format)
	}
}

// ParseTimeline reads `start window phoneme` lines. Unparsable numbers
// leave timing absent and short lines are skipped.
func ParseTimeline(data []byte) ([]vowel.PhonemePrediction, error) {
	var out []vowel.PhonemePrediction
	scanner := bufio.NewScanner(bytes.NewReader(data))
	line := 0
	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) < 3 {
			continue
		}
		p := vowel.PhonemePrediction{Phoneme: fields[2]}
		start, serr := strconv.ParseFloat(fields[0], 64)
		window, werr := strconv.ParseFloat(fields[1], 64)
		if serr == nil && werr == nil {
			end := start + window
			if start < 0 || end < 0 {
				return nil, fmt.Errorf("line %d: %w: start=%g end=%g", line, ErrInvalidTiming, start, end)
			}
			p.Start, p.End = &start, &end
		}
		out = append(out, p)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan timeline: %w", err)
	}
	return out, nil
}

// ParseJSON reads a top-level array of segments or an object holding one
// under a known key.
func ParseJSON(data []byte) ([]vowel.PhonemePrediction, error) {
	if !gjson.ValidBytes(data) {
		return nil, errors.New("recognizer output is not valid JSON")
	}
	root := gjson.ParseBytes(data)
	list := root
	if root.IsObject() {
		list = gjson.Result{}
		for _, key := range listKeys {
			if v := root.Get(key); v.IsArray() {
				list = v
				break
			}
		}
		if !list.Exists() {
			return nil, fmt.Errorf("recognizer output has no %s array", strings.Join(listKeys, "/"))
		}
	}
	if !list.IsArray() {
		return nil, errors.New("recognizer output must be an array or object")
	}

	var out []vowel.PhonemePrediction
	var parseErr error
	idx := 0
	list.ForEach(func(_, item gjson.Result) bool {
		p, ok, err := segment(item)
		if err != nil {
			parseErr = fmt.Errorf("segment %d: %w", idx, err)
			return false
		}
		idx++
		if ok {
			out = append(out, p)
		}
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}
	return out, nil
}

func segment(item gjson.Result) (vowel.PhonemePrediction, bool, error) {
	if item.Type == gjson.String {
		if item.Str == "" {
			return vowel.PhonemePrediction{}, false, nil
		}
		return vowel.PhonemePrediction{Phoneme: item.Str}, true, nil
	}
	if !item.IsObject() {
		return vowel.PhonemePrediction{}, false, nil
	}

	var p vowel.PhonemePrediction
	for _, key := range labelKeys {
		if v := item.Get(key); v.Type == gjson.String && v.Str != "" {
			p.Phoneme = v.Str
			break
		}
	}
	if p.Phoneme == "" {
		return p, false, nil
	}

	p.Start = number(item.Get("start"))
	p.End = number(item.Get("end"))
	if (p.Start != nil && *p.Start < 0) || (p.End != nil && *p.End < 0) {
		return p, false, fmt.Errorf("%w for %q", ErrInvalidTiming, p.Phoneme)
	}

	for _, key := range confidenceKeys {
		if c := number(item.Get(key)); c != nil {
			p.Confidence = clamp(*c)
			break
		}
	}
	if p.Confidence == nil {
		if lp := number(item.Get("log_prob")); lp != nil {
			p.Confidence = clamp(math.Exp(*lp))
		}
	}
	return p, true, nil
}

func number(v gjson.Result) *float64 {
	if v.Type != gjson.Number {
		return nil
	}
	f := v.Num
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

func clamp(v float64) *float64 {
	v = math.Max(0, math.Min(1, v))
	return &v
}
