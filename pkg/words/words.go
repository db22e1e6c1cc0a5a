// Package words turns free text into word frequency statistics, the input
// of a tag cloud.
//
// Text is split into runs of letters, lowercased with Unicode-aware case
// folding, filtered against a set of boring words and a minimum length, and
// counted. Results are ordered by count (descending) and then
// alphabetically, so the most frequent words come first and ties are
// deterministic.
package words

import (
	"bufio"
	"io"
	"os"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/matzehuels/tagcloud/pkg/errors"
)

// Stat is a word and the number of times it occurs.
type Stat struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// Options controls which words are counted.
type Options struct {
	// Boring words are dropped. Entries must be lowercase.
	Boring Set

	// Stopwords adds the built-in English stop word list to Boring.
	Stopwords bool

	// MinLength drops words with fewer runes. Zero keeps everything.
	MinLength int

	// MaxUnique keeps only the most frequent words. Zero keeps everything.
	MaxUnique int
}

func (o Options) boring(w string) bool {
	if o.Boring.Has(w) {
		return true
	}
	return o.Stopwords && english.Has(w)
}

// Parse reads text from r and returns its word statistics.
func Parse(r io.Reader, opts Options) ([]Stat, error) {
	tokens, err := Tokens(r)
	if err != nil {
		return nil, err
	}
	return Count(tokens, opts), nil
}

// ParseFile reads text from the file at path.
func ParseFile(path string, opts Options) ([]Stat, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "words file not found: %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "open words file %s", path)
	}
	defer f.Close()
	return Parse(f, opts)
}

// Tokens splits r into lowercased runs of letters.
func Tokens(r io.Reader) ([]string, error) {
	lower := cases.Lower(language.Und)
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1<<20)
	sc.Split(scanLetters)

	var out []string
	for sc.Scan() {
		out = append(out, lower.String(sc.Text()))
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read words")
	}
	return out, nil
}

// Count computes statistics for already tokenized words. Words are
// lowercased again so callers may pass raw input.
func Count(tokens []string, opts Options) []Stat {
	lower := cases.Lower(language.Und)
	counts := make(map[string]int)
	for _, tok := range tokens {
		w := lower.String(strings.TrimSpace(tok))
		if w == "" || utf8.RuneCountInString(w) < opts.MinLength || opts.boring(w) {
			continue
		}
		counts[w]++
	}

	stats := make([]Stat, 0, len(counts))
	for w, n := range counts {
		stats = append(stats, Stat{Word: w, Count: n})
	}
	Sort(stats)
	if opts.MaxUnique > 0 && len(stats) > opts.MaxUnique {
		stats = stats[:opts.MaxUnique]
	}
	return stats
}

// Sort orders stats by count descending, then word ascending.
func Sort(stats []Stat) {
	slices.SortFunc(stats, func(a, b Stat) int {
		if a.Count != b.Count {
			return b.Count - a.Count
		}
		return strings.Compare(a.Word, b.Word)
	})
}

// Exclude returns stats without the words in excluded. The input is not
// modified.
func Exclude(stats []Stat, excluded Set) []Stat {
	out := make([]Stat, 0, len(stats))
	for _, s := range stats {
		if !excluded.Has(s.Word) {
			out = append(out, s)
		}
	}
	return out
}

// Total returns the sum of all counts.
func Total(stats []Stat) int {
	n := 0
	for _, s := range stats {
		n += s.Count
	}
	return n
}

// scanLetters is a bufio.SplitFunc yielding maximal runs of letters.
func scanLetters(data []byte, atEOF bool) (advance int, token []byte, err error) {
	start := 0
	for start < len(data) {
		if !atEOF && !utf8.FullRune(data[start:]) {
			return start, nil, nil
		}
		r, width := utf8.DecodeRune(data[start:])
		if unicode.IsLetter(r) {
			break
		}
		start += width
	}
	for i := start; i < len(data); {
		if !atEOF && !utf8.FullRune(data[i:]) {
			return start, nil, nil
		}
		r, width := utf8.DecodeRune(data[i:])
		if !unicode.IsLetter(r) {
			return i + width, data[start:i], nil
		}
		i += width
	}
	if atEOF && len(data) > start {
		return len(data), data[start:], nil
	}
	return start, nil, nil
}
